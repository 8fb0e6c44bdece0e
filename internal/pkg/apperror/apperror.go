// Package apperror classifies domain errors into the handful of kinds the HTTP
// layer knows how to translate into status codes.
package apperror

import "errors"

// Error kinds. Domain sentinels match one of these through errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error is a domain error with a client-safe message and a kind.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string {
	return e.msg
}

// Is reports whether target is the kind of e.
func (e *Error) Is(target error) bool {
	return target == e.kind
}

// Kind returns the classification sentinel.
func (e *Error) Kind() error {
	return e.kind
}

func Validation(msg string) *Error {
	return &Error{kind: ErrValidation, msg: msg}
}

func NotFound(msg string) *Error {
	return &Error{kind: ErrNotFound, msg: msg}
}

func Conflict(msg string) *Error {
	return &Error{kind: ErrConflict, msg: msg}
}

func Forbidden(msg string) *Error {
	return &Error{kind: ErrForbidden, msg: msg}
}

func Unauthorized(msg string) *Error {
	return &Error{kind: ErrUnauthorized, msg: msg}
}
