package util

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		field          string
		message        string
		cause          error
		expectedString string
	}{
		{
			name:           "with field",
			field:          "controllers[0].guardEnter",
			message:        "method not found",
			expectedString: "config error at controllers[0].guardEnter: method not found",
		},
		{
			name:           "without field",
			message:        "invalid configuration",
			expectedString: "config error: invalid configuration",
		},
		{
			name:           "with cause",
			field:          "match",
			message:        "invalid pattern",
			cause:          errors.New("missing closing ]"),
			expectedString: "config error at match: invalid pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var err *ConfigError
			if tt.cause != nil {
				err = NewConfigErrorWithCause(tt.field, tt.message, tt.cause)
			} else {
				err = NewConfigError(tt.field, tt.message)
			}

			assert.Equal(t, tt.expectedString, err.Error())
			assert.Equal(t, tt.cause, err.Unwrap())
			assert.ErrorIs(t, err, ErrConfigInvalid)
			assert.True(t, IsConfigError(err))
		})
	}
}

func TestConfigError_IsCause(t *testing.T) {
	t.Parallel()

	err := NewConfigErrorWithCause("routes", "lookup failed", ErrNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, fmt.Errorf("wrapped: %w", err), &ConfigError{})
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	err := NewValidationError("invalid config")
	assert.False(t, err.HasErrors())
	assert.Equal(t, "validation error: invalid config", err.Error())

	err.AddField("routing.defaultMatchTarget", "must not be empty")
	assert.True(t, err.HasErrors())
	assert.Contains(t, err.Error(), "routing.defaultMatchTarget")
	assert.ErrorIs(t, err, ErrConfigInvalid)

	var nilFields ValidationError
	nilFields.AddField("a", "b")
	assert.Len(t, nilFields.Fields, 1)
}

func TestHandlerError(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := NewHandlerError("guard", "Session", "CheckAuth", cause)

	assert.Equal(t, "guard Session.CheckAuth failed: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, &HandlerError{})
	assert.False(t, IsConfigError(err))
}

func TestOutcomeError(t *testing.T) {
	t.Parallel()

	err := NewOutcomeError("Session", "Guard", "redirect to empty target")

	assert.Contains(t, err.Error(), "Session.Guard")
	assert.ErrorIs(t, err, ErrInvalidOutcome)
	assert.True(t, IsConfigError(err))
}

func TestWrapError(t *testing.T) {
	t.Parallel()

	assert.NoError(t, WrapError(nil, "context"))

	err := WrapError(ErrNotFound, "route home")
	assert.EqualError(t, err, "route home: not found")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, IsConfigError(nil))
}
