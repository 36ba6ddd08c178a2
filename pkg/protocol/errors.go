// Package protocol implements the wire format spoken with the NEA device service:
// decoding daemon messages into envelopes and building outgoing requests.
package protocol

import "fmt"

// ErrorCode identifies a class of protocol failure.
type ErrorCode string

// Protocol error codes.
const (
	// ErrCodeMalformedMessage indicates the raw message is not a well-formed JSON object.
	ErrCodeMalformedMessage ErrorCode = "MALFORMED_MESSAGE"
	// ErrCodeMalformedPath indicates the operation path is missing or empty.
	ErrCodeMalformedPath ErrorCode = "MALFORMED_PATH"
	// ErrCodeIncompletePayload indicates a recognized operation lacks a required field.
	ErrCodeIncompletePayload ErrorCode = "INCOMPLETE_PAYLOAD"
	// ErrCodeInvalidRequest indicates an outgoing request could not be built.
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
)

// Sentinel errors for use with errors.Is. Any *Error carrying the same code matches.
var (
	ErrMalformedMessage  = NewError(ErrCodeMalformedMessage, "Malformed message")
	ErrMalformedPath     = NewError(ErrCodeMalformedPath, "Malformed operation path")
	ErrIncompletePayload = NewError(ErrCodeIncompletePayload, "Incomplete payload")
	ErrInvalidRequest    = NewError(ErrCodeInvalidRequest, "Invalid request")
)

// Error is a protocol-level failure. Decode failures are permanent for the
// message that caused them and are never retried.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`

	err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.err
}

// Is reports whether target is a protocol error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewError creates a new Error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// NewErrorWithDetails creates a new Error with details.
func NewErrorWithDetails(code ErrorCode, message, details string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// NewMalformedMessageError creates a malformed message error wrapping cause.
func NewMalformedMessageError(details string, cause error) *Error {
	e := NewErrorWithDetails(ErrCodeMalformedMessage, "Malformed message", details)
	e.err = cause
	return e
}

// NewMalformedPathError creates a malformed path error.
func NewMalformedPathError(details string) *Error {
	return NewErrorWithDetails(ErrCodeMalformedPath, "Malformed operation path", details)
}

// NewIncompletePayloadError creates an incomplete payload error for path and field.
func NewIncompletePayloadError(path, field string) *Error {
	return NewErrorWithDetails(ErrCodeIncompletePayload, "Incomplete payload", fmt.Sprintf("%s: missing %q", path, field))
}

// NewInvalidRequestError creates an invalid request error.
func NewInvalidRequestError(details string, cause error) *Error {
	e := NewErrorWithDetails(ErrCodeInvalidRequest, "Invalid request", details)
	e.err = cause
	return e
}
