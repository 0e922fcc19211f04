// Package errors defines the error kinds shared by the repository, the
// service layer and the HTTP transport. Each error carries the HTTP status
// it is translated to at the edge.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind classifies an Error.
type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindInvalidInput Kind = "invalid_input"
	KindConstraint   Kind = "constraint_violation"
	KindInternal     Kind = "internal"
)

// Error is a classified failure with a client-facing message.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

var (
	ErrNotFound     = &Error{Kind: KindNotFound, Status: http.StatusNotFound, Message: "not found"}
	ErrInvalidInput = &Error{Kind: KindInvalidInput, Status: http.StatusBadRequest, Message: "invalid input"}
	ErrConstraint   = &Error{Kind: KindConstraint, Status: http.StatusConflict, Message: "constraint violation"}
)

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind, so that
// errors.Is(err, ErrNotFound) matches every not-found error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// NotFound builds a 404 error.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

// InvalidInput builds a 400 error.
func InvalidInput(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// Constraint wraps a store-level constraint failure as a 409 error.
func Constraint(err error, format string, args ...any) *Error {
	return &Error{Kind: KindConstraint, Status: http.StatusConflict, Message: fmt.Sprintf(format, args...), Err: err}
}

// StatusOf returns the HTTP status carried by err, or 500 for unclassified errors.
func StatusOf(err error) int {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}
