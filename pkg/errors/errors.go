// Package errors provides the scheduler's error framework: a single
// AppError type carrying a Code, a human message, and optional
// structured fields (row numbers, shift keys, denial reasons) that the
// CLI renders as the process's diagnostic output.
package errors

import (
	"errors"
	"fmt"
)

// Code classifies an AppError into one of the three kinds spec.md §7
// names: a malformed input, an exhausted search, or a bug.
type Code string

const (
	CodeInputError         Code = "INPUT_ERROR"
	CodeInfeasible         Code = "INFEASIBLE"
	CodeInvariantViolation Code = "INVARIANT_VIOLATION"
	CodeInternal           Code = "INTERNAL_ERROR"
)

// AppError is the scheduler's structured error type, returned by the
// roster loader and the Phase A solver. The CLI prints any error it
// gets and exits with status 1, whatever the error's Code.
type AppError struct {
	Code    Code
	Message string
	Cause   error
	Fields  map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithField attaches a diagnostic field (e.g. "row", "shift", "date")
// and returns the same error for chaining at the call site.
func (e *AppError) WithField(key string, value interface{}) *AppError {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

// New creates a bare AppError.
func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, message string) *AppError {
	return &AppError{Code: code, Message: message, Cause: err}
}

// Is reports whether err is an AppError of the given code.
func Is(err error, code Code) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the Code from err, or CodeInternal if err is not an
// AppError.
func GetCode(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// InputError creates a CodeInputError, optionally tagged with the
// offending row number.
func InputError(message string, row int) *AppError {
	e := New(CodeInputError, message)
	if row > 0 {
		e.WithField("row", row)
	}
	return e
}

// Infeasible creates a CodeInfeasible error naming the blocking shift.
func Infeasible(shiftKey, date string, denialReasons []string) *AppError {
	e := New(CodeInfeasible, fmt.Sprintf("no legal completion: blocking shift %s on %s", shiftKey, date))
	e.WithField("shift", shiftKey)
	e.WithField("date", date)
	e.WithField("denials", denialReasons)
	return e
}

// InvariantViolation creates a CodeInvariantViolation bug-check error.
func InvariantViolation(detail string) *AppError {
	return New(CodeInvariantViolation, "accepted move produced an illegal assignment: "+detail)
}
