// Package errors provides structured error types for importspy.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the pipeline
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Fatal conditions surface as *Error values: a malformed ignore/hide
// pattern (INVALID_PATTERN), a project with no Python modules
// (EMPTY_PROJECT), or bad configuration values. Non-fatal conditions
// (an import that cannot be resolved, a local module shadowing a
// stdlib name) accumulate as Diagnostic values in a Collector and are
// reported alongside the final graph instead of aborting the run.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidPattern, "bad ignore pattern: %s", p)
//	if errors.Is(err, errors.ErrCodeInvalidPattern) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "walk %s", root)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Configuration validation errors (fatal, pre-parse)
	ErrCodeInvalidPattern    Code = "INVALID_PATTERN"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"
	ErrCodeInvalidRenderMode Code = "INVALID_RENDER_MODE"
	ErrCodeInvalidConfig     Code = "INVALID_CONFIG"
	ErrCodeInvalidPath       Code = "INVALID_PATH"

	// Project errors (fatal)
	ErrCodeEmptyProject Code = "EMPTY_PROJECT"

	// Resolution diagnostics (non-fatal, reported via Collector)
	ErrCodeUnresolvableImport Code = "UNRESOLVABLE_IMPORT"
	ErrCodeShadowedBuiltin    Code = "SHADOWED_BUILTIN"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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
