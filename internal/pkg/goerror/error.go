package goerror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound indicates that the requested resource could not be found.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict indicates that the request could not be completed due to a conflict.
	ErrConflict = errors.New("resource conflict")

	// ErrUnavailable indicates that a backing store or broker could not be reached.
	ErrUnavailable = errors.New("resource unavailable")
)

// Type classifies errors into high-level buckets used by the application.
type Type int

const (
	// TypeServer represents server-side failures.
	TypeServer Type = iota
	// TypeBusiness represents business rule violations.
	TypeBusiness
	// TypeValidation represents input validation failures.
	TypeValidation
)

func (t Type) String() string {
	switch t {
	case TypeValidation:
		return "ERROR_TYPE_VALIDATION"
	case TypeBusiness:
		return "ERROR_TYPE_BUSINESS"
	case TypeServer:
		return "ERROR_TYPE_SERVER"
	default:
		return "ERROR_TYPE_UNKNOWN"
	}
}

// Code is a stable identifier used for mapping errors to HTTP status codes.
type Code int

const (
	// CodeInternal represents an internal or unspecified error.
	CodeInternal Code = iota
	// CodeInvalidFormat indicates a body that could not be decoded.
	CodeInvalidFormat
	// CodeInvalidInput indicates a decoded body that failed validation.
	CodeInvalidInput
	// CodeUnauthorized indicates a missing or rejected credential.
	CodeUnauthorized
	// CodeBadRequest indicates a request that was understood but rejected.
	CodeBadRequest
	// CodeUnavailable indicates a dependency is temporarily unreachable.
	CodeUnavailable
)

var codes = map[Code]struct {
	name   string
	status int
}{
	CodeInternal:      {"ERROR_CODE_INTERNAL", http.StatusInternalServerError},
	CodeInvalidFormat: {"ERROR_CODE_INVALID_FORMAT", http.StatusBadRequest},
	CodeInvalidInput:  {"ERROR_CODE_INVALID_INPUT", http.StatusUnprocessableEntity},
	CodeUnauthorized:  {"ERROR_CODE_UNAUTHORIZED", http.StatusUnauthorized},
	CodeBadRequest:    {"ERROR_CODE_BAD_REQUEST", http.StatusBadRequest},
	CodeUnavailable:   {"ERROR_CODE_UNAVAILABLE", http.StatusServiceUnavailable},
}

func (c Code) String() string {
	if v, ok := codes[c]; ok {
		return v.name
	}
	return codes[CodeInternal].name
}

// Error is a structured error used across the application.
//
// It wraps an optional cause and carries a user-facing message, a type, a
// code and optional fields rendered in the response body.
type Error struct {
	err     error
	msg     string
	errType Type
	code    Code
	fields  map[string]string
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	if e.msg != "" {
		return e.msg
	}
	return e.errType.String()
}

// String returns a verbose representation for logs.
func (e *Error) String() string {
	return fmt.Sprintf("type=%s code=%s msg=%q cause=%v", e.errType, e.code, e.msg, e.err)
}

// Msg returns the user-facing error message.
func (e *Error) Msg() string { return e.msg }

func (e *Error) Type() Type { return e.errType }

func (e *Error) Code() Code { return e.code }

// Fields returns extra key/value details, if any.
func (e *Error) Fields() map[string]string { return e.fields }

func (e *Error) Unwrap() error { return e.err }

// StatusCode maps the error code to an HTTP status code.
func (e *Error) StatusCode() int {
	if v, ok := codes[e.code]; ok {
		return v.status
	}
	return http.StatusInternalServerError
}

// Is reports whether target carries the same type, code and message. It lets
// callers compare against sentinel business errors with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e.errType == t.errType && e.code == t.code && e.msg == t.msg
}

func newError(err error, msg string, et Type, code Code, kv ...string) *Error {
	e := &Error{err: err, msg: msg, errType: et, code: code}
	for i := 0; i+1 < len(kv); i += 2 {
		if e.fields == nil {
			e.fields = make(map[string]string, len(kv)/2)
		}
		e.fields[kv[i]] = kv[i+1]
	}
	return e
}

// NewServer hides err behind a generic 500 message.
func NewServer(err error) error {
	return newError(err, "Internal server error", TypeServer, CodeInternal)
}

// NewUnavailable reports an unreachable dependency as 503.
func NewUnavailable(err error) error {
	return newError(err, "Service temporarily unavailable", TypeServer, CodeUnavailable)
}

// NewBusiness creates a business error. Optional kv pairs are attached as
// fields and rendered in the error response.
func NewBusiness(msg string, code Code, kv ...string) error {
	return newError(nil, msg, TypeBusiness, code, kv...)
}

// NewInvalidInput creates a 422 validation error, either wrapping a validator
// error or built from field/message pairs. An odd number of pairs is treated
// as an unreadable body.
func NewInvalidInput(err error, kv ...string) error {
	if err == nil && len(kv)%2 != 0 {
		return newError(nil, "Invalid request body", TypeValidation, CodeInvalidFormat)
	}
	if err != nil {
		kv = nil
	}
	return newError(err, "Validation error", TypeValidation, CodeInvalidInput, kv...)
}

// NewInvalidFormat creates a 400 error for a body that could not be decoded.
func NewInvalidFormat(msgs ...string) error {
	msg := "Invalid request body"
	if len(msgs) > 0 {
		msg = msgs[0]
	}
	return newError(nil, msg, TypeValidation, CodeInvalidFormat)
}
