package genai

import (
	"context"
	"errors"
	"fmt"
)

// FactoryConfig selects and configures the completion providers.
// OpenAI is primary when both keys are present; Gemini alone works too.
type FactoryConfig struct {
	OpenAIAPIKey string
	OpenAIModel  string
	GeminiAPIKey string
	GeminiModel  string
	Retry        RetryConfig
}

// NewCompleter builds the completion stack from configuration: each
// configured provider wrapped together with retry and fallback.
func NewCompleter(ctx context.Context, cfg FactoryConfig) (Completer, error) {
	var primary, fallback Completer

	if c := newOpenAICompleter(cfg.OpenAIAPIKey, cfg.OpenAIModel); c != nil {
		primary = c
	}

	if cfg.GeminiAPIKey != "" {
		g, err := newGeminiCompleter(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("gemini completer: %w", err)
		}
		if primary == nil {
			primary = g
		} else {
			fallback = g
		}
	}

	if primary == nil {
		return nil, errors.New("no completion provider configured")
	}

	return NewFallbackCompleter(primary, fallback, cfg.Retry), nil
}
