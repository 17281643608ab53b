// Package errors provides domain-specific error types and sentinel errors
// for improved error handling across the application.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for pipeline outcomes.
// Use errors.Is() to check these errors in your code.
var (
	// ErrBadChannel indicates the recipient channel identifier is missing or malformed.
	ErrBadChannel = errors.New("bad channel identifier")

	// ErrUnregisteredChannel indicates no client profile matches the channel.
	ErrUnregisteredChannel = errors.New("channel not registered")

	// ErrIncompleteProfile indicates the client profile is missing required fields.
	ErrIncompleteProfile = errors.New("client profile incomplete")

	// ErrGenerationFailed indicates the completion-service call errored.
	ErrGenerationFailed = errors.New("reply generation failed")

	// ErrReplyDropped indicates the sanitizer reduced the reply below minimum length.
	ErrReplyDropped = errors.New("sanitized reply dropped")

	// ErrSuppressed indicates the debounce policy blocked a duplicate greeting.
	ErrSuppressed = errors.New("greeting suppressed by debounce")

	// ErrNotFound indicates a requested resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput indicates user provided invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTimeout indicates an operation timed out.
	ErrTimeout = errors.New("operation timed out")
)

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsSuppressed reports whether err is or wraps ErrSuppressed.
func IsSuppressed(err error) bool {
	return errors.Is(err, ErrSuppressed)
}

// IsReplyDropped reports whether err is or wraps ErrReplyDropped.
func IsReplyDropped(err error) bool {
	return errors.Is(err, ErrReplyDropped)
}

// IsGenerationFailed reports whether err is or wraps ErrGenerationFailed.
func IsGenerationFailed(err error) bool {
	return errors.Is(err, ErrGenerationFailed)
}

// IsInvalidInput reports whether err is or wraps ErrInvalidInput.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// ValidationError represents input validation failures. It unwraps to
// ErrInvalidInput so callers can branch with IsInvalidInput.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// DeliveryError represents outbound delivery failures with context.
type DeliveryError struct {
	To         string
	StatusCode int
	Err        error
}

func (e *DeliveryError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("delivery error (to=%s, status=%d): %v", e.To, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("delivery error (to=%s): %v", e.To, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// NewDeliveryError creates a new delivery error.
func NewDeliveryError(to string, statusCode int, err error) *DeliveryError {
	return &DeliveryError{
		To:         to,
		StatusCode: statusCode,
		Err:        err,
	}
}
