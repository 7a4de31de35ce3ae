package domain

import (
	"errors"
	"fmt"
)

// ErrBusy is returned when a mutating operation is attempted while another
// one is still in flight. The second call is rejected, never queued.
var ErrBusy = errors.New("another operation is already in flight")

// ValidationError reports bad input. It is raised before any store call.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError reports that a lookup expected to resolve did not.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// GatewayError wraps a failure from the backing store. The attempted
// operation is not retried and leaves no partial state behind.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// ConfigurationError reports that the store is unreachable or misconfigured.
// It is fatal for the whole session and surfaced once at startup.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration: %s: %v", e.Reason, e.Err)
	}
	return "configuration: " + e.Reason
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
