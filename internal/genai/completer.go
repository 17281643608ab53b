// Package genai provides the generative reply integration with LLM APIs
// (OpenAI and Gemini). It exposes a single-shot, non-streaming completion
// call with retry and cross-provider fallback.
package genai

import (
	"context"
	"time"
)

// Provider identifies a completion backend.
type Provider string

const (
	// ProviderOpenAI is the OpenAI chat-completions backend.
	ProviderOpenAI Provider = "openai"
	// ProviderGemini is the Google Gemini backend.
	ProviderGemini Provider = "gemini"
)

// Default models per provider, used when configuration leaves them empty.
const (
	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultGeminiModel = "gemini-2.0-flash"
)

// Completer is a single-shot, stateless completion call.
type Completer interface {
	// Complete sends the prompt and returns the model's raw text output.
	Complete(ctx context.Context, prompt string) (string, error)

	// Provider returns the backend identity, used for logging and metrics.
	Provider() Provider

	// Close releases resources. Safe to call on nil receivers.
	Close() error
}

// RetryConfig defines retry behavior for completion calls.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including initial).
	MaxAttempts int

	// InitialDelay is the base delay before the first retry.
	InitialDelay time.Duration

	// MaxDelay is the maximum delay between retries.
	MaxDelay time.Duration
}

// DefaultRetryConfig keeps latency bounded: one retry with a short backoff.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  2,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     3 * time.Second,
	}
}
