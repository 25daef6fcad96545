// Package errors defines the typed errors shared across geofetch.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType classifies an error for callers that branch on failure mode.
type ErrorType string

const (
	// ErrorTypeValidation marks caller mistakes: malformed credentials,
	// locations, or media kinds. Never retried, always surfaced.
	ErrorTypeValidation ErrorType = "validation"

	// ErrorTypeRateLimit marks an exhausted query budget surfaced under
	// fail-hard mode.
	ErrorTypeRateLimit ErrorType = "rate_limit"

	// ErrorTypeProvider marks an error payload returned by the provider.
	ErrorTypeProvider ErrorType = "provider"

	// ErrorTypeMalformedResponse marks a provider response missing fields
	// the engine needs to reason about safely. Always fatal.
	ErrorTypeMalformedResponse ErrorType = "malformed_response"

	// ErrorTypeNetwork marks transport-level failures.
	ErrorTypeNetwork ErrorType = "network"
)

// Error is a typed error tagged with the source it originated from.
type Error struct {
	Type    ErrorType
	Source  string
	Message string
}

func (e *Error) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s: %s error: %s", e.Source, e.Type, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// New creates a typed error.
func New(errorType ErrorType, source, message string) *Error {
	return &Error{Type: errorType, Source: source, Message: message}
}

// Newf creates a typed error with a formatted message.
func Newf(errorType ErrorType, source, format string, args ...interface{}) *Error {
	return &Error{Type: errorType, Source: source, Message: fmt.Sprintf(format, args...)}
}

// IsType reports whether err is (or wraps) a typed error of the given type.
func IsType(err error, errorType ErrorType) bool {
	var typed *Error
	return stderrors.As(err, &typed) && typed.Type == errorType
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return IsType(err, ErrorTypeValidation) }

// IsRateLimit reports whether err is a rate-limit error.
func IsRateLimit(err error) bool { return IsType(err, ErrorTypeRateLimit) }

// IsProvider reports whether err is a provider error.
func IsProvider(err error) bool { return IsType(err, ErrorTypeProvider) }

// IsMalformedResponse reports whether err is a malformed-response error.
func IsMalformedResponse(err error) bool { return IsType(err, ErrorTypeMalformedResponse) }

// IsNetwork reports whether err is a transport-level error.
func IsNetwork(err error) bool { return IsType(err, ErrorTypeNetwork) }
