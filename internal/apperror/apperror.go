// Package apperror classifies pipeline failures into client faults (the
// uploaded file does not follow the expected convention) and server faults
// (unexpected internal errors). Client-fault messages are surfaced verbatim;
// server faults are reported generically so internals never leak.
package apperror

import (
	"fmt"

	"github.com/pkg/errors"
)

// Status codes reused across the CLI and the HTTP surface.
const (
	StatusBadRequest    = 400
	StatusNotFound      = 404
	StatusUnprocessable = 422
	StatusInternal      = 500
)

// GenericMessage replaces server-fault messages on the user-facing surface.
const GenericMessage = "Failed to process the file safely"

// Error carries a user-facing message plus a status classification.
type Error struct {
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.cause }

// New creates a classified error with no underlying cause.
func New(status int, format string, args ...interface{}) *Error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a classification to an existing error, capturing a stack
// trace for the logs.
func Wrap(err error, status int, message string) *Error {
	return &Error{Status: status, Message: message, cause: errors.WithStack(err)}
}

// StatusOf returns the status attached to err, defaulting to 500 for
// unclassified errors.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Status
	}
	return StatusInternal
}

// IsClientFault reports whether err was caused by the caller's input.
func IsClientFault(err error) bool {
	s := StatusOf(err)
	return s >= 400 && s < 500
}

// UserMessage returns the text safe to show the caller: the verbatim message
// for client faults, the generic one otherwise.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ae *Error
	if errors.As(err, &ae) && IsClientFault(err) {
		return ae.Message
	}
	return GenericMessage
}
