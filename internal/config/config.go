// Package config provides application configuration management.
// It loads settings from environment variables and provides defaults for
// server mode, pipeline tuning, delivery, and generation settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Twilio WhatsApp Configuration
	TwilioAccountSID     string
	TwilioAuthToken      string
	TwilioWhatsAppNumber string // Default outbound channel, e.g. "whatsapp:+14155238886"
	TwilioBaseURL        string // Override for tests; empty means the real API
	DeliveryTimeout      time.Duration

	// Completion Service Configuration
	OpenAIAPIKey         string // Primary completion provider
	OpenAIModel          string // Model override (default applies if empty)
	GeminiAPIKey         string // Optional fallback provider
	GeminiModel          string // Model override (default applies if empty)
	GenerationTimeout    time.Duration
	GenerationMaxRetries int

	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Data Configuration
	DataDir string // Data directory for the SQLite client registry

	// Pipeline Configuration (embedded)
	Pipeline PipelineConfig

	// Metrics Authentication
	MetricsUsername string // Username for /metrics endpoint Basic Auth (default: "prometheus")
	MetricsPassword string // Password for /metrics endpoint Basic Auth (empty = no auth)

	// Sentry
	SentryDSN         string
	SentryEnvironment string
	SentrySampleRate  float64

	// Better Stack
	BetterStackToken    string
	BetterStackEndpoint string
}

// PipelineConfig holds message-pipeline tuning knobs.
type PipelineConfig struct {
	// DebounceWindow is the interval during which a repeated greeting from
	// the same sender is suppressed.
	DebounceWindow time.Duration

	// DebounceTTL is how long an idle sender record survives before eviction.
	DebounceTTL time.Duration

	// DebounceSweepInterval is how often expired records are evicted.
	DebounceSweepInterval time.Duration

	// MaxChunkSize is the maximum characters per outbound message chunk.
	// Twilio caps WhatsApp bodies at 1600 characters; the default leaves
	// slack for header/footer framing.
	MaxChunkSize int

	// WorkerCount is the number of pipeline workers. Jobs are keyed to
	// workers by sender, so this also bounds per-sender parallelism to 1.
	WorkerCount int

	// WorkerQueueSize is the per-worker job buffer.
	WorkerQueueSize int

	// ProcessingTimeout bounds one inbound message's end-to-end handling.
	ProcessingTimeout time.Duration
}

// Load reads configuration from environment variables
// It attempts to load .env file first, then reads from env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		// Twilio WhatsApp Configuration
		TwilioAccountSID:     getEnv(EnvTwilioAccountSID, ""),
		TwilioAuthToken:      getEnv(EnvTwilioAuthToken, ""),
		TwilioWhatsAppNumber: getEnv(EnvTwilioWhatsAppNumber, ""),
		TwilioBaseURL:        getEnv(EnvTwilioBaseURL, ""),
		DeliveryTimeout:      getDurationEnv(EnvDeliveryTimeout, DeliveryRequest),

		// Completion Service Configuration
		OpenAIAPIKey:         getEnv(EnvOpenAIAPIKey, ""),
		OpenAIModel:          getEnv(EnvOpenAIModel, ""),
		GeminiAPIKey:         getEnv(EnvGeminiAPIKey, ""),
		GeminiModel:          getEnv(EnvGeminiModel, ""),
		GenerationTimeout:    getDurationEnv(EnvGenerationTimeout, GenerationRequest),
		GenerationMaxRetries: getIntEnv(EnvGenerationMaxRetries, 2),

		// Server Configuration
		Port:            getEnv(EnvPort, "3000"),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, GracefulShutdown),

		// Data Configuration
		DataDir: getEnv(EnvDataDir, getDefaultDataDir()),

		// Pipeline Configuration
		Pipeline: PipelineConfig{
			DebounceWindow:        getDurationEnv(EnvDebounceWindow, 60*time.Second),
			DebounceTTL:           getDurationEnv(EnvDebounceTTL, DebounceEntryTTL),
			DebounceSweepInterval: getDurationEnv(EnvDebounceSweepInterval, DebounceSweepInterval),
			MaxChunkSize:          getIntEnv(EnvMaxChunkSize, 1500),
			WorkerCount:           getIntEnv(EnvWorkerCount, 4),
			WorkerQueueSize:       getIntEnv(EnvWorkerQueueSize, 64),
			ProcessingTimeout:     PipelineProcessing,
		},

		// Metrics Authentication
		MetricsUsername: getEnv(EnvMetricsUsername, "prometheus"),
		MetricsPassword: getEnv(EnvMetricsPassword, ""),

		// Sentry
		SentryDSN:         getEnv(EnvSentryDSN, ""),
		SentryEnvironment: getEnv(EnvSentryEnvironment, "production"),
		SentrySampleRate:  getFloatEnv(EnvSentrySampleRate, 1.0),

		// Better Stack
		BetterStackToken:    getEnv(EnvBetterStackToken, ""),
		BetterStackEndpoint: getEnv(EnvBetterStackEndpoint, ""),
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	var errs []error

	if c.TwilioAccountSID == "" {
		errs = append(errs, errors.New(EnvTwilioAccountSID+" is required"))
	}
	if c.TwilioAuthToken == "" {
		errs = append(errs, errors.New(EnvTwilioAuthToken+" is required"))
	}
	if c.TwilioWhatsAppNumber == "" {
		errs = append(errs, errors.New(EnvTwilioWhatsAppNumber+" is required"))
	}
	if c.OpenAIAPIKey == "" && c.GeminiAPIKey == "" {
		errs = append(errs, errors.New("at least one completion provider API key is required"))
	}
	if c.Port == "" {
		errs = append(errs, errors.New(EnvPort+" is required"))
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New(EnvDataDir+" is required"))
	}
	if c.GenerationTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvGenerationTimeout, c.GenerationTimeout))
	}
	if c.GenerationMaxRetries < 0 {
		errs = append(errs, fmt.Errorf("%s cannot be negative, got %d", EnvGenerationMaxRetries, c.GenerationMaxRetries))
	}
	if err := c.Pipeline.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("pipeline config: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Validate checks pipeline tuning values.
func (p *PipelineConfig) Validate() error {
	var errs []error

	if p.DebounceWindow <= 0 {
		errs = append(errs, fmt.Errorf("debounce window must be positive, got %v", p.DebounceWindow))
	}
	if p.DebounceTTL < p.DebounceWindow {
		errs = append(errs, fmt.Errorf("debounce TTL %v must not be shorter than the window %v", p.DebounceTTL, p.DebounceWindow))
	}
	if p.MaxChunkSize < 200 {
		errs = append(errs, fmt.Errorf("max chunk size must be at least 200, got %d", p.MaxChunkSize))
	}
	if p.WorkerCount <= 0 {
		errs = append(errs, fmt.Errorf("worker count must be positive, got %d", p.WorkerCount))
	}
	if p.WorkerQueueSize <= 0 {
		errs = append(errs, fmt.Errorf("worker queue size must be positive, got %d", p.WorkerQueueSize))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// HasFallbackProvider returns true if both completion providers are configured.
func (c *Config) HasFallbackProvider() bool {
	return c.OpenAIAPIKey != "" && c.GeminiAPIKey != ""
}

// SQLitePath returns the full path to the SQLite database file
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "registry.db")
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves integer environment variable with fallback to default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getDefaultDataDir returns platform-specific default data directory
func getDefaultDataDir() string {
	if runtime.GOOS == "windows" {
		return "./data"
	}
	return "/data"
}
