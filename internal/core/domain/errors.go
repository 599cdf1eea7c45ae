package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential is returned before any attempt when no provider
	// key is configured; no fallback can route around it.
	ErrMissingCredential = errors.New("OPENROUTER_API_KEY not configured")

	// ErrEmptyModelName rejects a blank current-model override
	ErrEmptyModelName = errors.New("model name must not be empty")
)

// AttemptError describes why one candidate did not produce text. Message is
// what operators and the exhaustion diagnostic see.
type AttemptError struct {
	Err            error
	Model          string
	Message        string
	Classification Classification
	StatusCode     int
}

func (e *AttemptError) Error() string {
	return e.Message
}

func (e *AttemptError) Unwrap() error {
	return e.Err
}

func NewAttemptError(model string, class Classification, statusCode int, message string, err error) *AttemptError {
	return &AttemptError{
		Model:          model,
		Classification: class,
		StatusCode:     statusCode,
		Message:        message,
		Err:            err,
	}
}

type ConfigValidationError struct {
	Value  any
	Field  string
	Reason string
}

func (e *ConfigValidationError) Error() string {
	return fmt.Sprintf("invalid configuration for %s=%v: %s", e.Field, e.Value, e.Reason)
}

func NewConfigValidationError(field string, value any, reason string) *ConfigValidationError {
	return &ConfigValidationError{
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}
