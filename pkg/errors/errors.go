// Package errors provides structured error types for cargo-features.
//
// Every fatal condition the tool can report carries a machine-readable
// [Code] so the CLI can log it consistently and tests can assert on the
// failure category without matching message text.
//
// # Error Codes
//
//   - METADATA_QUERY_FAILED: cargo metadata failed or produced unreadable output
//   - MANIFEST_PARSE_FAILED: Cargo.toml is not valid TOML
//   - MANIFEST_WRITE_FAILED: the edited manifest could not be persisted
//   - SELECTION_FAILED: an interactive prompt failed for a reason other than cancellation
//   - INTERNAL_ERROR: an invariant was violated (a defect, not user error)
//
// User cancellation is deliberately not represented here; see
// github.com/cargofeat/cargo-features/pkg/prompt.ErrCancelled.
//
// # Usage
//
//	err := errors.Wrap(errors.ErrCodeManifestParse, cause, "parse %s", path)
//	if errors.Is(err, errors.ErrCodeManifestParse) {
//	    // handle
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
	// Metadata and manifest errors
	ErrCodeMetadataQuery Code = "METADATA_QUERY_FAILED"
	ErrCodeManifestParse Code = "MANIFEST_PARSE_FAILED"
	ErrCodeManifestWrite Code = "MANIFEST_WRITE_FAILED"

	// Interaction errors
	ErrCodeSelection Code = "SELECTION_FAILED"

	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidPath  Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

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

// Internal reports a violated invariant. These never trigger under correct
// construction; when they do, the message names the broken assumption.
func Internal(format string, args ...any) *Error {
	return New(ErrCodeInternal, format, args...)
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
// For *Error types, returns the message without the code prefix,
// followed by the cause when there is one.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + e.Cause.Error()
		}
		return e.Message
	}
	return err.Error()
}
