package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "with status code",
			err:      &Error{Type: ErrorTypeAuth, Message: "unauthorized", Code: 401},
			expected: "auth error (status 401): unauthorized",
		},
		{
			name:     "without status code",
			err:      &Error{Type: ErrorTypeConfig, Message: "cookie is missing"},
			expected: "config error: cookie is missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestTypeOfUnwrapsChains(t *testing.T) {
	inner := New(ErrorTypeDecode, "unexpected end of JSON input")
	wrapped := fmt.Errorf("page 3: %w", inner)

	assert.Equal(t, ErrorTypeDecode, TypeOf(wrapped))
	assert.Equal(t, ErrorTypeUnknown, TypeOf(errors.New("plain")))
	assert.Equal(t, ErrorTypeUnknown, TypeOf(nil))
}

func TestHintOf(t *testing.T) {
	err := &Error{Type: ErrorTypeAuth, Message: "forbidden", Code: 403, Hint: "run 'wbprivacy auth login'"}
	assert.Equal(t, "run 'wbprivacy auth login'", HintOf(fmt.Errorf("fetch: %w", err)))
	assert.Empty(t, HintOf(errors.New("plain")))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(New(ErrorTypeNetwork, "connection reset")))
	assert.True(t, IsRetryable(New(ErrorTypeRateLimit, "too many requests")))
	assert.True(t, IsRetryable(New(ErrorTypeServer, "bad gateway")))

	assert.False(t, IsRetryable(New(ErrorTypeAuth, "unauthorized")))
	assert.False(t, IsRetryable(New(ErrorTypeConfig, "no token")))
	assert.False(t, IsRetryable(New(ErrorTypeDecode, "bad json")))
	assert.False(t, IsRetryable(New(ErrorTypeItem, "repost not supported")))
	assert.False(t, IsRetryable(errors.New("plain")))
}

func TestIsRetryableStatusCode(t *testing.T) {
	retryable := []int{0, 429, 500, 502, 503, 504, 599}
	for _, code := range retryable {
		assert.True(t, IsRetryableStatusCode(code), "status %d should be retryable", code)
	}

	notRetryable := []int{400, 401, 403, 404, 418}
	for _, code := range notRetryable {
		assert.False(t, IsRetryableStatusCode(code), "status %d should not be retryable", code)
	}
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsAuth(New(ErrorTypeAuth, "x")))
	assert.True(t, IsConfig(New(ErrorTypeConfig, "x")))
	assert.True(t, IsDecode(New(ErrorTypeDecode, "x")))
	assert.True(t, IsItem(New(ErrorTypeItem, "x")))
	assert.False(t, IsAuth(New(ErrorTypeItem, "x")))
}
