// Package errors provides structured error types for depalyze.
//
// The history core distinguishes three families of failure, and callers are
// expected to treat them differently:
//   - INVALID_*: precondition violations (bad input shape, zero timestamps).
//     These are not recoverable and always name the offending key.
//   - *_NOT_FOUND and NO_VERSIONS: lookups for packages or versions the store
//     does not know. Callers may legitimately probe for existence.
//   - NOT_APPLICABLE and UNINTERESTING: expected outcomes of heuristics that
//     aggregate queries skip rather than abort on.
//
// # Usage
//
//	err := errors.New(errors.ErrCodePackageNotFound, "unknown package %q", name)
//	if errors.IsNotFound(err) {
//	    // probe failed, try the next candidate
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidInput, origErr, "decode snapshot %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Precondition violations
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidPackage   Code = "INVALID_PACKAGE"
	ErrCodeInvalidTimestamp Code = "INVALID_TIMESTAMP"

	// Lookup failures
	ErrCodePackageNotFound Code = "PACKAGE_NOT_FOUND"
	ErrCodeVersionNotFound Code = "VERSION_NOT_FOUND"
	ErrCodeNoVersions      Code = "NO_VERSIONS"

	// Expected heuristic outcomes
	ErrCodeNotApplicable Code = "NOT_APPLICABLE"
	ErrCodeUninteresting Code = "UNINTERESTING"

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

// IsNotFound reports whether err is a lookup failure for an unknown package
// or version.
func IsNotFound(err error) bool {
	switch GetCode(err) {
	case ErrCodePackageNotFound, ErrCodeVersionNotFound:
		return true
	}
	return false
}

// IsPrecondition reports whether err is a precondition violation.
func IsPrecondition(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidPackage, ErrCodeInvalidTimestamp:
		return true
	}
	return false
}

// IsNotApplicable reports whether err marks a heuristic that does not apply to
// the package it was asked about.
func IsNotApplicable(err error) bool {
	return Is(err, ErrCodeNotApplicable)
}
