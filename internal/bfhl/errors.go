package bfhl

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind represents the user-facing class of a workflow error
type ErrorKind string

const (
	// KindMalformedInput indicates the payload could not be parsed or has the wrong shape
	KindMalformedInput ErrorKind = "malformed_input"

	// KindRemoteFailure indicates the remote call or the post-processing failed
	KindRemoteFailure ErrorKind = "remote_failure"
)

// User-visible messages. These are the only two strings a user ever sees.
const (
	MsgMalformedInput = "Invalid JSON format. Data should be an array of strings."
	MsgRemoteFailure  = "Failed to process request or invalid JSON."
)

// Error is the single error type surfaced by the submit workflow
type Error struct {
	// Kind categorizes the error
	Kind ErrorKind `json:"kind"`

	// Detail is a developer-facing description, never shown in the widget
	Detail string `json:"detail,omitempty"`

	// StatusCode is set when the remote answered with a non-2xx status
	StatusCode int `json:"status_code,omitempty"`

	// Cause is the underlying error
	Cause error `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	parts := []string{fmt.Sprintf("kind=%s", e.Kind)}

	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}
	if e.Detail != "" {
		parts = append(parts, e.Detail)
	}
	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%s", e.Cause.Error()))
	}

	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error of the same kind
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// UserMessage returns the static message shown to the user
func (e *Error) UserMessage() string {
	return UserMessage(e.Kind)
}

// UserMessage maps a kind to its user-visible message
func UserMessage(kind ErrorKind) string {
	if kind == KindMalformedInput {
		return MsgMalformedInput
	}
	return MsgRemoteFailure
}

// NewMalformedInputError creates a malformed input error
func NewMalformedInputError(detail string, cause error) *Error {
	return &Error{Kind: KindMalformedInput, Detail: detail, Cause: cause}
}

// NewRemoteFailureError creates a remote failure error
func NewRemoteFailureError(detail string, cause error) *Error {
	return &Error{Kind: KindRemoteFailure, Detail: detail, Cause: cause}
}

// NewStatusError creates a remote failure error for a non-2xx response
func NewStatusError(statusCode int, body string) *Error {
	detail := fmt.Sprintf("unexpected status %d", statusCode)
	if body != "" {
		detail += ": " + body
	}
	return &Error{Kind: KindRemoteFailure, Detail: detail, StatusCode: statusCode}
}

// Sentinel values for errors.Is
var (
	ErrMalformedInput = &Error{Kind: KindMalformedInput}
	ErrRemoteFailure  = &Error{Kind: KindRemoteFailure}
)

// IsMalformedInput checks if err is a malformed input error
func IsMalformedInput(err error) bool {
	return errors.Is(err, ErrMalformedInput)
}

// IsRemoteFailure checks if err is a remote failure error
func IsRemoteFailure(err error) bool {
	return errors.Is(err, ErrRemoteFailure)
}

// KindOf returns the kind of err. Anything that is not an *Error is
// treated as a remote failure, the catch-all of the workflow.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindRemoteFailure
}
