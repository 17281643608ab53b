package errors

import (
	"errors"
	"fmt"
)

// WrappedError records which module and operation an error came from and
// carries a user-facing message safe to surface in API responses. The
// underlying cause stays reachable through errors.Is/As.
type WrappedError struct {
	Module      string // "registry", "transport", "pipeline"
	Operation   string // "upsert", "lookup_by_channel", "send"
	UserMessage string
	Cause       error
}

func (e *WrappedError) Error() string {
	return fmt.Sprintf("%s.%s: %s: %v", e.Module, e.Operation, e.UserMessage, e.Cause)
}

func (e *WrappedError) Unwrap() error {
	return e.Cause
}

// Wrapper stamps errors from one module/operation pair.
type Wrapper struct {
	module    string
	operation string
}

// NewWrapper creates a wrapper for the given module and operation.
func NewWrapper(module, operation string) *Wrapper {
	return &Wrapper{module: module, operation: operation}
}

// Wrap attaches context and a user-facing message.
// Returns nil when err is nil.
func (w *Wrapper) Wrap(err error, userMessage string) error {
	if err == nil {
		return nil
	}
	return &WrappedError{
		Module:      w.module,
		Operation:   w.operation,
		UserMessage: userMessage,
		Cause:       err,
	}
}

// Wrapf is Wrap with a formatted user message.
func (w *Wrapper) Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return w.Wrap(err, fmt.Sprintf(format, args...))
}

// GetUserMessage returns the user-facing message of the first
// WrappedError in err's chain, or err's own message when none exists.
func GetUserMessage(err error) string {
	if err == nil {
		return ""
	}
	var wrapped *WrappedError
	if errors.As(err, &wrapped) {
		return wrapped.UserMessage
	}
	return err.Error()
}
