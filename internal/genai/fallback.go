package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// FallbackCompleter wraps a primary and fallback Completer.
// It implements three-layer degradation:
//  1. Model retry with backoff (same provider)
//  2. Provider fallback (primary to fallback provider)
//  3. Error return, left to the pipeline's failure policy
type FallbackCompleter struct {
	primary     Completer
	fallback    Completer
	retryConfig RetryConfig
}

// NewFallbackCompleter creates a fallback-enabled completer.
// If fallback is nil, only retry logic is applied to the primary provider.
func NewFallbackCompleter(primary, fallback Completer, cfg RetryConfig) *FallbackCompleter {
	if cfg.MaxAttempts <= 0 {
		cfg = DefaultRetryConfig()
	}
	return &FallbackCompleter{
		primary:     primary,
		fallback:    fallback,
		retryConfig: cfg,
	}
}

// Complete tries the primary completer first with retry, then falls back
// if needed.
func (f *FallbackCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if f == nil || f.primary == nil {
		return "", errors.New("completer not configured")
	}

	start := time.Now()
	provider := f.primary.Provider()

	result, err := f.completeWithRetry(ctx, f.primary, prompt)
	if err == nil {
		return result, nil
	}

	action := ClassifyError(err)
	slog.WarnContext(ctx, "primary completer failed",
		"provider", provider,
		"error", err,
		"action", action,
		"duration", time.Since(start))

	if action == ActionFail || f.fallback == nil {
		return "", err
	}

	slog.InfoContext(ctx, "falling back to secondary provider",
		"from", provider,
		"to", f.fallback.Provider())

	result, err = f.completeWithRetry(ctx, f.fallback, prompt)
	if err == nil {
		return result, nil
	}

	slog.ErrorContext(ctx, "all completion providers failed",
		"primary", provider,
		"fallback", f.fallback.Provider(),
		"error", err)

	return "", fmt.Errorf("all providers failed: %w", err)
}

// completeWithRetry attempts completion with retry logic.
func (f *FallbackCompleter) completeWithRetry(ctx context.Context, c Completer, prompt string) (string, error) {
	var lastErr error

	for attempt := range f.retryConfig.MaxAttempts {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		result, err := c.Complete(ctx, prompt)
		if err == nil {
			return result, nil
		}

		lastErr = err
		action := ClassifyError(err)

		if action != ActionRetry {
			return "", err
		}

		// Last attempt, don't sleep
		if attempt == f.retryConfig.MaxAttempts-1 {
			break
		}

		delay := CalculateBackoff(attempt+1, f.retryConfig.InitialDelay, f.retryConfig.MaxDelay)
		if err := Sleep(ctx, delay); err != nil {
			return "", err
		}
	}

	return "", lastErr
}

// Provider returns the primary provider identity.
func (f *FallbackCompleter) Provider() Provider {
	if f == nil || f.primary == nil {
		return ""
	}
	return f.primary.Provider()
}

// Close releases both wrapped completers.
func (f *FallbackCompleter) Close() error {
	if f == nil {
		return nil
	}
	var errs []error
	if f.primary != nil {
		if err := f.primary.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if f.fallback != nil {
		if err := f.fallback.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
