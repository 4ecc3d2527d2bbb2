package common

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies every failure a handler can surface to a client.
type ErrorKind string

const (
	KindUnauthenticated ErrorKind = "unauthenticated"
	KindForbidden       ErrorKind = "forbidden"
	KindNotFound        ErrorKind = "not_found"
	KindConflict        ErrorKind = "conflict"
	KindBadRequest      ErrorKind = "bad_request"
	KindInternal        ErrorKind = "internal"
)

// AppError is the typed error returned by services and rendered by the HTTP error handler.
// Cause is kept for logs only and is never written to the response body.
type AppError struct {
	Kind       ErrorKind
	MessageKey string
	Message    string
	Details    []ErrorDetail
	Cause      error
	// StatusCode overrides the kind's status, for errors raised by the router
	StatusCode int
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Status maps the error kind to its HTTP status code.
// Conflict renders as 400 because clients of the create-user endpoint expect it.
func (e *AppError) Status() int {
	if e.StatusCode != 0 {
		return e.StatusCode
	}
	switch e.Kind {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WithCause returns a copy of the error wrapping cause.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

// WithStatus returns a copy of the error rendered with an explicit HTTP status.
func (e *AppError) WithStatus(code int) *AppError {
	cp := *e
	cp.StatusCode = code
	return &cp
}

// Keyed returns a copy of the error whose message is translated from key.
func (e *AppError) Keyed(key string) *AppError {
	cp := *e
	cp.MessageKey = key
	return &cp
}

func Unauthenticated(message string, cause error) *AppError {
	return &AppError{Kind: KindUnauthenticated, Message: message, Cause: cause}
}

func Forbidden(message string) *AppError {
	return &AppError{Kind: KindForbidden, Message: message}
}

func NotFound(message string, cause error) *AppError {
	return &AppError{Kind: KindNotFound, Message: message, Cause: cause}
}

func Conflict(message string, cause error) *AppError {
	return &AppError{Kind: KindConflict, Message: message, Cause: cause}
}

func BadRequest(message string, details ...ErrorDetail) *AppError {
	return &AppError{Kind: KindBadRequest, Message: message, Details: details}
}

func Internal(message string, cause error) *AppError {
	return &AppError{Kind: KindInternal, Message: message, Cause: cause}
}

// kindMessageKey is the generic catalog entry for a kind, used when an error carries no message.
func kindMessageKey(kind ErrorKind) string {
	switch kind {
	case KindUnauthenticated:
		return MsgErrorUnauthorized
	case KindForbidden:
		return MsgErrorForbidden
	case KindNotFound:
		return MsgErrorNotFound
	case KindConflict:
		return MsgErrorConflict
	case KindBadRequest:
		return MsgErrorValidation
	default:
		return MsgErrorInternal
	}
}

// AsAppError unwraps err into an *AppError, or reports false.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err is an *AppError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Kind == kind
}
