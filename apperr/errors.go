// Package apperr holds the error kinds shared by the stores and the HTTP
// handlers. Stores wrap these with context; handlers map them to status codes
// with errors.Is.
package apperr

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation marks a missing or malformed required field.
	ErrValidation = errors.New("validation error")
	// ErrConflict marks a duplicate email or an already saved recipe.
	ErrConflict = errors.New("conflict")
	// ErrNotFound marks an ID that does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrAuth marks a missing, invalid or expired token.
	ErrAuth = errors.New("unauthorized")
	// ErrForbidden marks a valid identity acting on someone else's data.
	ErrForbidden = errors.New("forbidden")
)

// Error is a kinded error whose text is safe to show to a client.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

// New returns an error that matches kind under errors.Is and reads as msg.
func New(kind error, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Status returns the HTTP status code for err.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
