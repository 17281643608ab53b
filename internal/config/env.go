// Package config defines environment variable keys for configuration.
package config

//nolint:gosec // Environment variable keys are not credentials.
const (
	// Core (Required)
	EnvTwilioAccountSID     = "ATB_TWILIO_ACCOUNT_SID"
	EnvTwilioAuthToken      = "ATB_TWILIO_AUTH_TOKEN"
	EnvTwilioWhatsAppNumber = "ATB_TWILIO_WHATSAPP_NUMBER"

	// Server
	EnvPort            = "ATB_PORT"
	EnvLogLevel        = "ATB_LOG_LEVEL"
	EnvShutdownTimeout = "ATB_SHUTDOWN_TIMEOUT"

	// Data
	EnvDataDir = "ATB_DATA_DIR"

	// Delivery
	EnvTwilioBaseURL   = "ATB_TWILIO_BASE_URL"
	EnvDeliveryTimeout = "ATB_DELIVERY_TIMEOUT"
	EnvMaxChunkSize    = "ATB_MAX_CHUNK_SIZE"

	// Generation
	EnvOpenAIAPIKey         = "ATB_OPENAI_API_KEY"
	EnvOpenAIModel          = "ATB_OPENAI_MODEL"
	EnvGeminiAPIKey         = "ATB_GEMINI_API_KEY"
	EnvGeminiModel          = "ATB_GEMINI_MODEL"
	EnvGenerationTimeout    = "ATB_GENERATION_TIMEOUT"
	EnvGenerationMaxRetries = "ATB_GENERATION_MAX_RETRIES"

	// Pipeline
	EnvDebounceWindow        = "ATB_DEBOUNCE_WINDOW"
	EnvDebounceTTL           = "ATB_DEBOUNCE_TTL"
	EnvDebounceSweepInterval = "ATB_DEBOUNCE_SWEEP_INTERVAL"
	EnvWorkerCount           = "ATB_WORKER_COUNT"
	EnvWorkerQueueSize       = "ATB_WORKER_QUEUE_SIZE"

	// Metrics Auth Feature
	EnvMetricsUsername = "ATB_METRICS_USERNAME"
	EnvMetricsPassword = "ATB_METRICS_PASSWORD"

	// Sentry Feature
	EnvSentryDSN         = "ATB_SENTRY_DSN"
	EnvSentryEnvironment = "ATB_SENTRY_ENVIRONMENT"
	EnvSentrySampleRate  = "ATB_SENTRY_SAMPLE_RATE"

	// Better Stack Feature
	EnvBetterStackToken    = "ATB_BETTERSTACK_TOKEN"
	EnvBetterStackEndpoint = "ATB_BETTERSTACK_ENDPOINT"
)
