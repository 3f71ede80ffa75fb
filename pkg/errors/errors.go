// Package errors provides structured error types for dissect.
//
// Two kinds of failure exist in dissect and they are kept apart:
//
//   - Data validity failures (a malformed Dyck path, a crossing or incomplete
//     dissection, an unreadable edge file) are returned as *Error values
//     carrying a machine-readable [Code]. Callers recover from them.
//   - Contract violations (an index out of range, an arity mismatch, an edge
//     with l >= r handed to a core routine) are programming errors. Core
//     packages panic on them via [Contract]; they are never returned.
//
// # Error Codes
//
//   - INVALID_*: input data failed validation
//   - NOT_FOUND: an addressed resource (for example a flip session) is missing
//   - IO_ERROR: a plot or notification channel could not be written
//   - INTERNAL_ERROR: a self check found a discrepancy in the core
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidPath, "unexpected step at %d", pos)
//	if errors.Is(err, errors.ErrCodeInvalidPath) {
//	    // reject the input
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"
	ErrCodeInvalidPath       Code = "INVALID_PATH"
	ErrCodeInvalidDissection Code = "INVALID_DISSECTION"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Plot and notification channel errors
	ErrCodeIO Code = "IO_ERROR"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// ContractError is the panic value raised when a caller breaks a documented
// precondition of a core routine.
type ContractError struct {
	Op      string
	Message string
}

// Error implements the error interface.
func (e *ContractError) Error() string {
	return fmt.Sprintf("%s: contract violation: %s", e.Op, e.Message)
}

// Contract panics with a *ContractError when cond is false.
func Contract(cond bool, op, format string, args ...any) {
	if !cond {
		panic(&ContractError{Op: op, Message: fmt.Sprintf(format, args...)})
	}
}
