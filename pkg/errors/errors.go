// Package errors carries the typed error used across the service. A Code
// decides the HTTP status, retryability and whether the caller sees the
// message and details.
package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation          Code = "VALIDATION_ERROR"
	CodeNotFound            Code = "NOT_FOUND"
	CodeIneligible          Code = "INELIGIBLE"
	CodeInsufficientPayment Code = "INSUFFICIENT_PAYMENT"
	CodeConflict            Code = "CONFLICT"
	CodeIdempotency         Code = "IDEMPOTENCY_KEY_REUSED"
	CodeInternal            Code = "INTERNAL_ERROR"
	CodeDependency          Code = "DEPENDENCY_ERROR"
)

type Metadata struct {
	HTTPStatus    int
	Retryable     bool
	PublicMessage string
	// DetailsAllowed exposes Details() to the caller.
	DetailsAllowed bool
	// Passthrough replaces PublicMessage with the error's own message.
	Passthrough bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation:          {http.StatusBadRequest, false, "validation failed", true, true},
	CodeNotFound:            {http.StatusNotFound, false, "resource not found", false, true},
	CodeIneligible:          {http.StatusUnprocessableEntity, false, "not eligible", true, true},
	CodeInsufficientPayment: {http.StatusUnprocessableEntity, false, "insufficient payment", true, true},
	CodeConflict:            {http.StatusConflict, false, "conflict detected", false, true},
	CodeIdempotency:         {http.StatusConflict, false, "idempotency key reused", true, true},
	CodeInternal:            {http.StatusInternalServerError, true, "internal server error", false, false},
	CodeDependency:          {http.StatusServiceUnavailable, true, "processing failed, retry", false, false},
}

// MetadataFor falls back to CodeInternal for codes it does not know.
func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap attaches cause; a nil cause behaves like New.
func Wrap(code Code, cause error, message string) *Error {
	return &Error{code: code, message: message, cause: cause}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e != nil {
		e.details = details
	}
	return e
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return ""
	case e.cause == nil:
		return string(e.code) + ": " + e.message
	}
	return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is matches another *Error with the same code, so sentinel values such as
// New(CodeNotFound, "") work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e != nil && t != nil && e.code == t.code
}

// As returns the outermost *Error in err's chain, or nil.
func As(err error) *Error {
	var typed *Error
	if err != nil && stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// CodeOf reports the code of err's outermost *Error; untyped errors are
// CodeInternal.
func CodeOf(err error) Code {
	return As(err).Code()
}

// HasCode reports whether the outermost *Error in err's chain carries code.
func HasCode(err error, code Code) bool {
	return As(err) != nil && CodeOf(err) == code
}

// IsRetryable reports whether a caller may resubmit the same request.
func IsRetryable(err error) bool {
	return err != nil && MetadataFor(CodeOf(err)).Retryable
}
