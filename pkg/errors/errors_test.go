package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorString(t *testing.T) {
	err := New(ErrorTypeValidation, "twitter", "radius must be positive")
	assert.Equal(t, "twitter: validation error: radius must be positive", err.Error())

	err = New(ErrorTypeNetwork, "", "connection refused")
	assert.Equal(t, "network error: connection refused", err.Error())
}

func TestTypePredicates(t *testing.T) {
	rateLimited := Newf(ErrorTypeRateLimit, "twitter", "%d queries remaining", 0)

	assert.True(t, IsRateLimit(rateLimited))
	assert.False(t, IsValidation(rateLimited))
	assert.False(t, IsRateLimit(fmt.Errorf("plain error")))
	assert.False(t, IsRateLimit(nil))
}

func TestWrappedErrorsMatch(t *testing.T) {
	inner := New(ErrorTypeMalformedResponse, "twitter", "missing remaining count")
	wrapped := fmt.Errorf("rate check: %w", inner)

	assert.True(t, IsMalformedResponse(wrapped))
	assert.False(t, IsProvider(wrapped))
}
