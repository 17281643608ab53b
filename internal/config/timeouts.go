// Package config provides centralized timeout constants for the application.
//
// These values are tuned around:
//   - Twilio WhatsApp delivery latency (REST call per outbound message)
//   - Completion-service latency (OpenAI/Gemini chat completions)
//   - SQLite performance characteristics (WAL mode, busy timeout)
//
// The inbound webhook is acknowledged immediately; the pipeline runs on
// background workers, so these timeouts bound worker-side operations, not
// the acknowledgment path.
package config

import "time"

// Pipeline timeouts
const (
	// PipelineProcessing is the timeout for processing a single inbound
	// message end to end (classification, generation, sanitization,
	// delivery). Generation dominates; Twilio delivery adds 1-3s per chunk.
	PipelineProcessing = 60 * time.Second

	// GenerationRequest is the timeout for a single completion-service call.
	GenerationRequest = 30 * time.Second

	// DeliveryRequest is the timeout for a single Twilio REST call.
	DeliveryRequest = 15 * time.Second
)

// HTTP server timeouts
const (
	// WebhookHTTPRead is the HTTP server read timeout for webhook requests.
	// Twilio sends small form-encoded payloads.
	WebhookHTTPRead = 10 * time.Second

	// WebhookHTTPWrite is the HTTP server write timeout. The webhook
	// handler responds immediately, so this only needs headroom for the
	// registration API.
	WebhookHTTPWrite = 30 * time.Second

	// WebhookHTTPIdle is the HTTP server idle timeout for keep-alive connections.
	WebhookHTTPIdle = 120 * time.Second
)

// Database timeouts
const (
	// DatabaseBusyTimeout is SQLite busy_timeout pragma value.
	DatabaseBusyTimeout = 30 * time.Second

	// DatabaseConnMaxLifetime is the maximum lifetime of database connections.
	// Prevents stale connections and allows connection pool refresh.
	DatabaseConnMaxLifetime = time.Hour
)

// Background job intervals
const (
	// DebounceSweepInterval is how often expired debounce entries are evicted.
	DebounceSweepInterval = 5 * time.Minute

	// DebounceEntryTTL is how long a sender's debounce record survives
	// without activity before the sweeper removes it.
	DebounceEntryTTL = 1 * time.Hour
)

// Graceful shutdown
const (
	// GracefulShutdown is the timeout for graceful server shutdown.
	// Allows in-flight webhook jobs to drain before forceful termination.
	GracefulShutdown = 30 * time.Second
)
