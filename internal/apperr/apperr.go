// Package apperr defines the application error taxonomy shared by the
// service and HTTP layers. Services return these; handlers map them onto
// status codes and JSON bodies.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	// KindInternal is an unexpected failure; surfaced as a 500.
	KindInternal Kind = iota
	// KindNotFound means the requested entity does not exist.
	KindNotFound
	// KindForbidden means an ownership or business rule blocked the request.
	KindForbidden
	// KindValidation means the input was malformed or out of range.
	KindValidation
	// KindConflict means the requested booking interval overlaps an
	// existing one. The source API reports this as a 403.
	KindConflict
)

// Error is an application error with an optional field→message map.
// Validation errors accumulate every invalid field so a client sees all of
// them at once.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	return e.Message
}

// StatusCode maps the error kind to its HTTP status.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden, KindConflict:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// NotFound builds a not-found error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Forbidden builds a forbidden error.
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// Validation builds a validation error from an accumulated field map.
func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "Bad Request", Fields: fields}
}

// Conflict builds a booking-conflict error.
func Conflict(message string, fields map[string]string) *Error {
	return &Error{Kind: KindConflict, Message: message, Fields: fields}
}

// As unwraps err into an *Error, if it is one.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err is an application error of the given kind.
func IsKind(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}
