// Package errors holds the coded errors returned across the engine. Each
// error carries a Code callers can branch on and optional Meta naming the
// trait, stat or document involved.
package errors

import (
	"errors"
	"fmt"
	"maps"
)

// Code categorizes an Error
type Code string

const (
	CodeUnknown         Code = "unknown"
	CodeInvalidArgument Code = "invalid_argument"
	CodeNotFound        Code = "not_found"
	CodeAlreadyExists   Code = "already_exists"
	// CodeConflict is a trait clashing with one already attached
	CodeConflict Code = "conflict"
	// CodeUnknownType is an effect or precondition name nobody registered
	CodeUnknownType Code = "unknown_type"
	// CodeValidation is a malformed authoring record
	CodeValidation Code = "validation"
	// CodeInternal is a broken engine invariant
	CodeInternal Code = "internal"
)

// Error is an engine error with a code and metadata
type Error struct {
	Code    Code
	Message string
	Cause   error
	Meta    map[string]any
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithMeta sets a metadata key and returns e
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]any)
	}
	e.Meta[key] = value
	return e
}

func newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap adds context to err. The code and metadata of an inner *Error carry
// over; anything else becomes CodeUnknown.
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	wrapped := &Error{Code: CodeUnknown, Message: message, Cause: err}
	if inner, ok := asError(err); ok {
		wrapped.Code = inner.Code
		wrapped.Meta = maps.Clone(inner.Meta)
	}
	return wrapped
}

// Wrapf is Wrap with a formatted message
func Wrapf(err error, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapWithCode is Wrap with the code replaced
func WrapWithCode(err error, code Code, message string) *Error {
	wrapped := Wrap(err, message)
	if wrapped != nil {
		wrapped.Code = code
	}
	return wrapped
}

func NotFoundf(format string, args ...any) *Error {
	return newf(CodeNotFound, format, args...)
}

func InvalidArgument(message string) *Error {
	return &Error{Code: CodeInvalidArgument, Message: message}
}

func InvalidArgumentf(format string, args ...any) *Error {
	return newf(CodeInvalidArgument, format, args...)
}

func AlreadyExistsf(format string, args ...any) *Error {
	return newf(CodeAlreadyExists, format, args...)
}

func Conflictf(format string, args ...any) *Error {
	return newf(CodeConflict, format, args...)
}

func UnknownTypef(format string, args ...any) *Error {
	return newf(CodeUnknownType, format, args...)
}

func Internalf(format string, args ...any) *Error {
	return newf(CodeInternal, format, args...)
}

func Validationf(format string, args ...any) *Error {
	return newf(CodeValidation, format, args...)
}

func IsNotFound(err error) bool        { return GetCode(err) == CodeNotFound }
func IsInvalidArgument(err error) bool { return GetCode(err) == CodeInvalidArgument }
func IsAlreadyExists(err error) bool   { return GetCode(err) == CodeAlreadyExists }
func IsConflict(err error) bool        { return GetCode(err) == CodeConflict }
func IsUnknownType(err error) bool     { return GetCode(err) == CodeUnknownType }
func IsInternal(err error) bool        { return GetCode(err) == CodeInternal }
func IsValidation(err error) bool      { return GetCode(err) == CodeValidation }

// GetCode returns the code of the outermost *Error in err's chain, or
// CodeUnknown
func GetCode(err error) Code {
	if e, ok := asError(err); ok {
		return e.Code
	}
	return CodeUnknown
}

// GetMeta returns the metadata of the outermost *Error in err's chain
func GetMeta(err error) map[string]any {
	if e, ok := asError(err); ok {
		return e.Meta
	}
	return nil
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
