package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestValidationErrorsClassifyAsInvalidInput tests that every
// validation sentinel matches ErrInvalidInput, which transports rely on
// to pick a 4xx status
func TestValidationErrorsClassifyAsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "empty conversation", err: ErrEmptyConversation},
		{name: "temperature range", err: ErrTemperatureRange},
		{name: "wrapped empty conversation", err: fmt.Errorf("chat: %w", ErrEmptyConversation)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, ErrInvalidInput)
		})
	}
}

// TestIsUnavailable tests the dependency-failure classifier
func TestIsUnavailable(t *testing.T) {
	assert.True(t, IsUnavailable(ErrLLMUnavailable))
	assert.True(t, IsUnavailable(fmt.Errorf("wrap: %w", ErrRetrievalFailed)))
	assert.False(t, IsUnavailable(ErrInvalidInput))
	assert.False(t, IsUnavailable(ErrEmptyConversation))
}
