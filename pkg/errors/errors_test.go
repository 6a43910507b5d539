package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeForStatus(t *testing.T) {
	tests := []struct {
		status   int
		expected ErrorType
	}{
		{400, ErrorTypeHTTP},
		{403, ErrorTypeHTTP},
		{404, ErrorTypeNotFound},
		{429, ErrorTypeRateLimit},
		{500, ErrorTypeServerError},
		{503, ErrorTypeServerError},
		{302, ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.status), func(t *testing.T) {
			assert.Equal(t, tt.expected, TypeForStatus(tt.status))
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	err := New(ErrorTypeNotFound, 404, "not found")
	assert.Equal(t, "not_found error (code 404): not found", err.Error())

	err = New(ErrorTypeValidation, 0, "username is empty")
	assert.Equal(t, "validation error: username is empty", err.Error())
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrorTypeNetwork, 0, "network error", cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, IsFetchFailure(fmt.Errorf("fetch profile: %w", err)))
}

func TestClassification(t *testing.T) {
	assert.True(t, IsValidation(New(ErrorTypeValidation, 0, "bad")))
	assert.False(t, IsValidation(New(ErrorTypeParsing, 200, "bad json")))
	assert.True(t, IsFetchFailure(New(ErrorTypeParsing, 200, "bad json")))
	assert.False(t, IsFetchFailure(New(ErrorTypeStorage, 0, "disk full")))
	assert.False(t, IsFetchFailure(errors.New("plain")))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "not found", UserMessage(New(ErrorTypeNotFound, 404, "not found"), "fallback"))
	assert.Equal(t, "fallback", UserMessage(errors.New("boom"), "fallback"))
	assert.Equal(t, "", UserMessage(nil, "fallback"))
}
