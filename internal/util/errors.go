package util

import (
	"errors"
	"fmt"
)

// Common sentinel errors.
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrConfigInvalid  = errors.New("invalid configuration")
	ErrInvalidOutcome = errors.New("invalid lifecycle outcome")
	ErrUnnamedRoute   = errors.New("route has no name")
)

// ConfigError represents a configuration-related error. Declaring a
// handler with an unusable signature, an unknown method, or a malformed
// match expression all produce a ConfigError.
type ConfigError struct {
	Field   string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error at %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *ConfigError) Is(target error) bool {
	if target == ErrConfigInvalid {
		return true
	}
	_, ok := target.(*ConfigError)
	return ok || errors.Is(e.Cause, target)
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// NewConfigErrorWithCause creates a new ConfigError with a cause.
func NewConfigErrorWithCause(field, message string, cause error) *ConfigError {
	return &ConfigError{Field: field, Message: message, Cause: cause}
}

// ValidationError represents a validation failure.
type ValidationError struct {
	Fields  map[string]string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s (fields: %v)", e.Message, e.Fields)
}

// Is checks if the error matches the target.
func (e *ValidationError) Is(target error) bool {
	if target == ErrConfigInvalid {
		return true
	}
	_, ok := target.(*ValidationError)
	return ok
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message, Fields: make(map[string]string)}
}

// NewValidationErrorWithFields creates a new ValidationError with field errors.
func NewValidationErrorWithFields(message string, fields map[string]string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

// AddField adds a field error.
func (e *ValidationError) AddField(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = message
}

// HasErrors reports whether any field error was recorded.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// HandlerError wraps an error returned by a guard, handler or watcher.
type HandlerError struct {
	Class   string
	Handler string
	Phase   string
	Cause   error
}

// Error implements the error interface.
func (e *HandlerError) Error() string {
	return fmt.Sprintf("%s %s.%s failed: %v", e.Phase, e.Class, e.Handler, e.Cause)
}

// Unwrap returns the underlying error.
func (e *HandlerError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *HandlerError) Is(target error) bool {
	_, ok := target.(*HandlerError)
	return ok || errors.Is(e.Cause, target)
}

// NewHandlerError creates a new HandlerError.
func NewHandlerError(phase, class, handler string, cause error) *HandlerError {
	return &HandlerError{Phase: phase, Class: class, Handler: handler, Cause: cause}
}

// OutcomeError reports a lifecycle callback whose result is neither
// allow, deny nor a usable redirect target.
type OutcomeError struct {
	Class   string
	Handler string
	Value   string
}

// Error implements the error interface.
func (e *OutcomeError) Error() string {
	return fmt.Sprintf(
		"route handler %s.%s must return allow, deny or a redirect with a name or path, got %s",
		e.Class, e.Handler, e.Value,
	)
}

// Is checks if the error matches the target.
func (e *OutcomeError) Is(target error) bool {
	if target == ErrInvalidOutcome || target == ErrConfigInvalid {
		return true
	}
	_, ok := target.(*OutcomeError)
	return ok
}

// NewOutcomeError creates a new OutcomeError.
func NewOutcomeError(class, handler, value string) *OutcomeError {
	return &OutcomeError{Class: class, Handler: handler, Value: value}
}

// WrapError wraps an error with additional context.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsConfigError returns true if the error is a fatal configuration error.
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrConfigInvalid)
}
