package genai

import (
	"context"
	"errors"
	"strings"
)

// Sentinel errors for provider-level conditions.
var (
	// ErrProviderDisabled means no API key was configured for the provider.
	ErrProviderDisabled = errors.New("completion provider disabled")

	// ErrEmptyCompletion means the provider returned no usable text.
	ErrEmptyCompletion = errors.New("completion returned empty text")
)

// ErrorAction defines the action to take based on error type.
type ErrorAction int

const (
	// ActionRetry indicates the request should be retried with the same provider.
	ActionRetry ErrorAction = iota
	// ActionFallback indicates the other provider should be attempted.
	ActionFallback
	// ActionFail indicates the request should fail immediately.
	ActionFail
)

// String returns a human-readable string for the error action.
func (a ErrorAction) String() string {
	switch a {
	case ActionRetry:
		return "retry"
	case ActionFallback:
		return "fallback"
	case ActionFail:
		return "fail"
	default:
		return "unknown"
	}
}

// ClassifyError determines the action for a completion error:
//   - transient errors (429, 5xx, network) retry
//   - quota exhaustion falls back to the other provider
//   - permanent errors (400, 401, 403, 404) fail immediately
func ClassifyError(err error) ErrorAction {
	if err == nil {
		return ActionFail
	}

	if errors.Is(err, context.Canceled) {
		return ActionFail
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ActionRetry
	}
	if errors.Is(err, ErrProviderDisabled) {
		return ActionFallback
	}
	if errors.Is(err, ErrEmptyCompletion) {
		return ActionRetry
	}

	errStr := strings.ToLower(err.Error())

	// Quota exhaustion is more severe than rate limiting: switch provider.
	if containsAny(errStr, "quota", "daily limit", "monthly limit", "billing") {
		return ActionFallback
	}

	if containsAny(errStr, "rate limit", "too many requests", "resource_exhausted", "429") {
		return ActionRetry
	}

	if containsAny(errStr, "unavailable", "503", "502", "500", "504",
		"internal server error", "bad gateway", "gateway timeout",
		"overloaded", "capacity") {
		return ActionRetry
	}

	if containsAny(errStr, "connection refused", "connection reset",
		"no such host", "timeout", "eof") {
		return ActionRetry
	}

	if containsAny(errStr, "400", "401", "403", "404",
		"invalid api key", "unauthorized", "forbidden", "not found",
		"invalid request") {
		return ActionFail
	}

	// Unknown errors get one more chance on the other provider.
	return ActionFallback
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
