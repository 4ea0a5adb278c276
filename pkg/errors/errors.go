// Package errors provides structured error types for layoutwriter.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP server and the pipeline
//   - Machine-readable error codes for programmatic handling
//   - A split between soft (skip-and-continue) and fatal failures
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures, raised at construction time
//   - UNKNOWN_* / UNRECOGNIZED_*: Technology lookup misses (soft)
//   - BACKEND_ERROR: Failures surfaced by a backend emitter (fatal)
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidOrientation, "invalid orientation: %q", name)
//	if errors.Is(err, errors.ErrCodeInvalidOrientation) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeBackend, origErr, "open %s/%s", cell, view)
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
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeInvalidOrientation Code = "INVALID_ORIENTATION"
	ErrCodeInvalidFormat      Code = "INVALID_FORMAT"

	// Technology lookup misses
	ErrCodeUnknownLayer    Code = "UNKNOWN_LAYER"
	ErrCodeUnknownPurpose  Code = "UNKNOWN_PURPOSE"
	ErrCodeUnknownViaDef   Code = "UNKNOWN_VIA_DEF"
	ErrCodeUnknownBlockage Code = "UNRECOGNIZED_BLOCKAGE_TYPE"
	ErrCodeUnknownBoundary Code = "UNRECOGNIZED_BOUNDARY_TYPE"

	// Resource errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Backend errors
	ErrCodeBackend Code = "BACKEND_ERROR"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// softCodes are lookup misses that skip a single entity instead of aborting.
var softCodes = map[Code]bool{
	ErrCodeUnknownLayer:    true,
	ErrCodeUnknownPurpose:  true,
	ErrCodeUnknownViaDef:   true,
	ErrCodeUnknownBlockage: true,
	ErrCodeUnknownBoundary: true,
}

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

// IsSoft reports whether err is a technology lookup miss. Soft errors skip
// the affected entity; everything else aborts the emission.
func IsSoft(err error) bool {
	return softCodes[GetCode(err)]
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
