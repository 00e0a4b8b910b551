// Package errors defines the coded errors shared by the layout engine, the
// widget model, the bridges and the CLI.
//
// Every [Error] carries a [Code] that callers test with [Is] instead of
// matching message text. Layout validation failures use
// [ErrCodeInvalidLayout] and keep the exact message a script sees, e.g.
// "Invalid value for 'left': must be a number or string".
//
// # Codes
//
// INVALID_* codes reject input, *_NOT_FOUND codes name a missing widget or
// file, and DISPOSED marks operations on a disposed widget. BRIDGE_ERROR and
// SCRIPT_ERROR wrap failures from the native side and from goja.
//
// # Usage
//
//	if err := w.Set("layoutData", data); errors.Is(err, errors.ErrCodeInvalidLayout) {
//	    log.Warn(errors.UserMessage(err))
//	}
//
//	return errors.Wrap(errors.ErrCodeBridge, err, "set %d", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Rejected input
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidLayout   Code = "INVALID_LAYOUT"
	ErrCodeInvalidProperty Code = "INVALID_PROPERTY"
	ErrCodeInvalidType     Code = "INVALID_TYPE"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"

	// Missing widgets and files
	ErrCodeNotFound       Code = "NOT_FOUND"
	ErrCodeWidgetNotFound Code = "WIDGET_NOT_FOUND"
	ErrCodeFileNotFound   Code = "FILE_NOT_FOUND"

	// Widget lifecycle errors
	ErrCodeDisposed Code = "DISPOSED"

	// Bridge errors
	ErrCodeBridge Code = "BRIDGE_ERROR"

	// Script errors
	ErrCodeScript Code = "SCRIPT_ERROR"

	// Everything else
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is an error with a code, a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error // may be nil
}

// Error formats as "CODE: message" or "CODE: message: cause".
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap returns an Error with cause attached.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// coder is implemented by error types that carry their own code
// without being an *Error.
type coder interface {
	Code() Code
}

// Is reports whether the outermost coded error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode returns the code of the outermost *Error or coded error (such
// as *ValidationError) in err's chain, or "" if there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}

// UserMessage returns err's message without the code prefix and cause.
// Uncoded errors are returned as err.Error().
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
