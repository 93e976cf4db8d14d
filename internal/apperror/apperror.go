// Package apperror defines the error kinds surfaced to API callers and their HTTP statuses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindUnauthenticated    Kind = "UNAUTHENTICATED"
	KindForbidden          Kind = "FORBIDDEN"
	KindInvalidSelfAction  Kind = "INVALID_SELF_ACTION"
	KindProtectedRole      Kind = "PROTECTED_ROLE"
	KindRateLimited        Kind = "RATE_LIMITED"
	KindValidation         Kind = "VALIDATION_ERROR"
	KindDuplicate          Kind = "DUPLICATE_ENTRY"
	KindNotFound           Kind = "NOT_FOUND"
	KindInvalidCredentials Kind = "INVALID_CREDENTIALS"
	KindBadRequest         Kind = "BAD_REQUEST"
)

// Error is a caller-facing failure. Details holds every validation message
// when Kind is KindValidation; Message is the first one.
type Error struct {
	Kind    Kind
	Message string
	Details []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Status maps the kind onto its HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden, KindProtectedRole:
		return http.StatusForbidden
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Unauthenticated(message string) *Error { return New(KindUnauthenticated, message) }
func Forbidden(message string) *Error       { return New(KindForbidden, message) }
func InvalidSelfAction(message string) *Error {
	return New(KindInvalidSelfAction, message)
}
func ProtectedRole(message string) *Error { return New(KindProtectedRole, message) }
func RateLimited(message string) *Error   { return New(KindRateLimited, message) }
func Duplicate(message string) *Error     { return New(KindDuplicate, message) }
func NotFound(message string) *Error      { return New(KindNotFound, message) }
func BadRequest(message string) *Error    { return New(KindBadRequest, message) }

func InvalidCredentials() *Error {
	return New(KindInvalidCredentials, "Invalid credentials")
}

// Validation builds a validation error from a non-empty list of messages.
func Validation(messages ...string) *Error {
	if len(messages) == 0 {
		messages = []string{"Invalid input"}
	}
	return &Error{Kind: KindValidation, Message: messages[0], Details: messages}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}

// StatusOf returns the HTTP status for err, 500 for anything that is not an *Error.
func StatusOf(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.Status()
	}
	return http.StatusInternalServerError
}
