package errors

import "fmt"

// ErrorType classifies the failures the tool can hit
type ErrorType string

const (
	ErrorTypeConfig    ErrorType = "config"
	ErrorTypeAuth      ErrorType = "auth"
	ErrorTypeNetwork   ErrorType = "network"
	ErrorTypeRateLimit ErrorType = "rate_limit"
	ErrorTypeServer    ErrorType = "server"
	ErrorTypeDecode    ErrorType = "decode"
	ErrorTypeItem      ErrorType = "item"
	ErrorTypeUnknown   ErrorType = "unknown"
)

// Error is the error type returned by the Weibo client and the pipeline.
// Code carries the HTTP status when one is involved (0 otherwise), Hint an
// optional remediation message shown to the user on fatal errors.
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Hint    string
	Err     error
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error of the given type
func New(t ErrorType, message string) *Error {
	return &Error{Type: t, Message: message}
}

// Newf creates an Error with a formatted message
func Newf(t ErrorType, format string, args ...interface{}) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error that wraps an underlying error
func Wrap(t ErrorType, message string, err error) *Error {
	return &Error{Type: t, Message: message, Err: err}
}

// TypeOf returns the classification of err, unwrapping as needed.
// Errors that did not originate here report ErrorTypeUnknown.
func TypeOf(err error) ErrorType {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Type
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return ErrorTypeUnknown
}

// HintOf returns the remediation hint attached to err, if any
func HintOf(err error) string {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Hint != "" {
			return e.Hint
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return ""
}

// IsAuth reports whether err is a credential failure (401/403 or an
// authentication rejection in the response envelope)
func IsAuth(err error) bool { return TypeOf(err) == ErrorTypeAuth }

// IsConfig reports whether err is a pre-network configuration failure
func IsConfig(err error) bool { return TypeOf(err) == ErrorTypeConfig }

// IsDecode reports whether err is a malformed-payload failure
func IsDecode(err error) bool { return TypeOf(err) == ErrorTypeDecode }

// IsItem reports whether err is an upstream per-post refusal
func IsItem(err error) bool { return TypeOf(err) == ErrorTypeItem }

// IsRetryable reports whether a retry of the same request could plausibly
// succeed. Auth, config, decode and per-item refusals never are.
func IsRetryable(err error) bool {
	switch TypeOf(err) {
	case ErrorTypeNetwork, ErrorTypeRateLimit, ErrorTypeServer:
		return true
	default:
		return false
	}
}

// IsRetryableStatusCode checks if an HTTP status code indicates a retryable error
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case 0: // transport failure, no response
		return true
	case 429:
		return true
	case 401, 403, 404:
		return false
	default:
		return statusCode >= 500
	}
}
