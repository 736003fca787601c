// Package errors provides structured error types for the toolkit.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - A single user-facing line naming the failing package and failure class
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - REGISTRY_ERROR / NOT_FOUND / NETWORK_ERROR: Registry failures
//   - UNSATISFIABLE_CONSTRAINT: No published version satisfies a constraint
//   - RESOLVER_FAILURE: A feature resolver (or its file emission) failed
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnsatisfiable, "no version of %s satisfies %s", name, expr)
//	if errors.Is(err, errors.ErrCodeUnsatisfiable) {
//	    // Handle constraint failure
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeRegistry, origErr, "query versions of %s", name)
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
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidFeature  Code = "INVALID_FEATURE"
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"
	ErrCodeInvalidPackage  Code = "INVALID_PACKAGE"

	// Registry errors
	ErrCodeRegistry Code = "REGISTRY_ERROR"
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeNetwork  Code = "NETWORK_ERROR"

	// Resolution errors
	ErrCodeUnsatisfiable   Code = "UNSATISFIABLE_CONSTRAINT"
	ErrCodeResolverFailure Code = "RESOLVER_FAILURE"

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
// For *Error types it returns the failure class followed by the message and,
// when present, the root cause. For other errors it returns the error string.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	msg := fmt.Sprintf("%s: %s", describe(e.Code), e.Message)
	if e.Cause != nil {
		msg += ": " + rootCause(e.Cause).Error()
	}
	return msg
}

func describe(code Code) string {
	switch code {
	case ErrCodeRegistry, ErrCodeNotFound, ErrCodeNetwork:
		return "registry error"
	case ErrCodeUnsatisfiable:
		return "unsatisfiable constraint"
	case ErrCodeResolverFailure:
		return "feature resolver failed"
	case ErrCodeInvalidFeature:
		return "invalid feature"
	case ErrCodeInvalidManifest:
		return "invalid manifest"
	case ErrCodeInvalidInput, ErrCodeInvalidPackage:
		return "invalid input"
	default:
		return "error"
	}
}

// rootCause skips nested *Error wrappers so their codes are not repeated.
func rootCause(err error) error {
	for {
		var e *Error
		if !errors.As(err, &e) || e.Cause == nil {
			return err
		}
		err = e.Cause
	}
}
