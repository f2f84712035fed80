// Package errors provides structured error types for cardpress.
//
// Every failure the renderer can report carries a machine-readable [Code] so
// that callers can decide whether a failure is local to one card (a missing
// image, an overflowing body) or global to a run (a page that cannot hold a
// single card).
//
// # Error Codes
//
//   - INVALID_*: input and configuration validation failures
//   - RESOURCE_NOT_FOUND: a font or image could not be resolved
//   - INVALID_GEOMETRY: a zero-sized image reached the fitter
//   - OVERFLOW: composed content does not fit the card
//   - LAYOUT_ERROR: the page tiler cannot place a single card
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidConfig, "card_width must be positive, got %d", w)
//	if errors.Is(err, errors.ErrCodeInvalidConfig) {
//	    // Handle validation error
//	}
//
//	err := errors.Wrap(errors.ErrCodeResourceNotFound, origErr, "font %s", name)
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
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidName   Code = "INVALID_NAME"

	// Resource errors
	ErrCodeResourceNotFound Code = "RESOURCE_NOT_FOUND"

	// Layout errors
	ErrCodeInvalidGeometry Code = "INVALID_GEOMETRY"
	ErrCodeOverflow        Code = "OVERFLOW"
	ErrCodeLayout          Code = "LAYOUT_ERROR"

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

// coder is implemented by typed errors that carry their own code.
type coder interface {
	Code() Code
}

// Is reports whether err has the given error code.
// It walks the error chain and matches both *Error values and typed errors
// such as *OverflowError.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if no error in the chain carries a code.
func GetCode(err error) Code {
	for err != nil {
		switch e := err.(type) {
		case *Error:
			return e.Code
		case coder:
			return e.Code()
		}
		err = errors.Unwrap(err)
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

// OverflowError reports a card whose composed content is taller than the card.
// Deficit is the number of pixels that would have to be removed for the
// content to fit.
type OverflowError struct {
	Card    string
	Deficit float64
}

// Error implements the error interface.
func (e *OverflowError) Error() string {
	return fmt.Sprintf("%s: card %q does not fit in card height (short by %.1fpx)", ErrCodeOverflow, e.Card, e.Deficit)
}

// Code returns the error code for this error type.
func (e *OverflowError) Code() Code {
	return ErrCodeOverflow
}

// AsOverflow returns the first *OverflowError in err's chain.
func AsOverflow(err error) (*OverflowError, bool) {
	var oe *OverflowError
	if errors.As(err, &oe) {
		return oe, true
	}
	return nil, false
}
