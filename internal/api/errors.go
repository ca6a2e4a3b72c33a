package api

import (
	"context"
	"errors"
	"fmt"
)

// ValidationError is a local input problem detected before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// TransportError is a network failure, timeout or non-2xx response.
type TransportError struct {
	Op         string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the call failed because its deadline passed.
func (e *TransportError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// MalformedResponseError is a 2xx response missing expected fields or not
// decodable.
type MalformedResponseError struct {
	Op     string
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s: malformed response: %s", e.Op, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsTransport reports whether err is a TransportError.
func IsTransport(err error) bool {
	var t *TransportError
	return errors.As(err, &t)
}

// IsMalformed reports whether err is a MalformedResponseError.
func IsMalformed(err error) bool {
	var m *MalformedResponseError
	return errors.As(err, &m)
}

// ErrorType returns a short class name for logs and span attributes.
func ErrorType(err error) string {
	switch {
	case err == nil:
		return ""
	case IsValidation(err):
		return "validation"
	case IsMalformed(err):
		return "malformed"
	case IsTransport(err):
		return "transport"
	default:
		return "unknown"
	}
}

// UserMessage turns any error from this package into a short message fit
// for display next to the component that failed.
func UserMessage(err error) string {
	var (
		v *ValidationError
		t *TransportError
		m *MalformedResponseError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &v):
		return v.Error()
	case errors.As(err, &t):
		if t.Timeout() {
			return "The coaching service took too long to respond. Please try again."
		}
		if t.StatusCode != 0 {
			return fmt.Sprintf("The coaching service returned an error (status %d). Please try again.", t.StatusCode)
		}
		return "Could not reach the coaching service. Please check your connection and try again."
	case errors.As(err, &m):
		return "The coaching service sent an unexpected response. Please try again."
	case errors.Is(err, context.Canceled):
		return "Request cancelled."
	default:
		return err.Error()
	}
}
