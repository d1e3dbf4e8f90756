// Package errors provides structured error types for NetDocGen.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the workers
//   - Machine-readable error codes for completion messages
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes separate document-fatal conditions (a parse or generate
// request that can never succeed) from infrastructure conditions (broker
// or storage unavailability, which surface as message redelivery):
//   - FILE_NOT_FOUND, UNSUPPORTED_FORMAT, NOT_IMPLEMENTED_FORMAT: parse-time fatal
//   - UNSUPPORTED_OUTPUT_FORMAT, RENDER_FAILED: isolated to one output format
//   - STORAGE_ERROR, BROKER_ERROR: infrastructure
//   - INVALID_MESSAGE: malformed or incomplete request payload
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnsupportedFormat, "not a Visio file: %s", path)
//	if errors.Is(err, errors.ErrCodeUnsupportedFormat) {
//	    // Handle format error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStorage, origErr, "download %s", objectName)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Parse-time fatal errors
	ErrCodeFileNotFound         Code = "FILE_NOT_FOUND"
	ErrCodeUnsupportedFormat    Code = "UNSUPPORTED_FORMAT"
	ErrCodeNotImplementedFormat Code = "NOT_IMPLEMENTED_FORMAT"

	// Per-output-format errors
	ErrCodeUnsupportedOutput Code = "UNSUPPORTED_OUTPUT_FORMAT"
	ErrCodeRenderFailed      Code = "RENDER_FAILED"

	// Message handling errors
	ErrCodeInvalidMessage Code = "INVALID_MESSAGE"

	// Infrastructure errors
	ErrCodeStorage Code = "STORAGE_ERROR"
	ErrCodeBroker  Code = "BROKER_ERROR"

	// Collaborator errors
	ErrCodeAIUnavailable Code = "AI_UNAVAILABLE"

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

// IsDocumentFatal reports whether err is fatal to the document being
// processed, as opposed to an infrastructure failure that should surface
// as broker redelivery.
func IsDocumentFatal(err error) bool {
	switch GetCode(err) {
	case ErrCodeFileNotFound, ErrCodeUnsupportedFormat, ErrCodeNotImplementedFormat, ErrCodeInvalidMessage:
		return true
	}
	return false
}
