// Package apperr defines the error kinds every service returns. Handlers map
// kinds to HTTP status codes; callers use errors.Is against either the kind or
// the concrete domain error.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrPermissionDenied = errors.New("permission denied")
	ErrTransient        = errors.New("temporarily unavailable")
	ErrInvalid          = errors.New("invalid request")
)

// Error is a domain error tagged with one of the kinds above.
type Error struct {
	Kind    error
	Message string
}

func New(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// Invalid builds an ErrInvalid error with a formatted message.
func Invalid(format string, args ...any) error {
	return &Error{Kind: ErrInvalid, Message: fmt.Sprintf(format, args...)}
}

type transientError struct {
	op  string
	err error
}

func (e *transientError) Error() string { return e.op + ": " + e.err.Error() }

func (e *transientError) Unwrap() []error { return []error{ErrTransient, e.err} }

// Transient marks a storage or collaborator failure as retryable by the caller.
// Nil stays nil.
func Transient(op string, err error) error {
	if err == nil {
		return nil
	}
	return &transientError{op: op, err: err}
}

// FromDB classifies a gorm error. Record-not-found becomes notFound (which may
// be nil to keep gorm.ErrRecordNotFound visible), duplicate keys become
// ErrConflict, and everything else is transient.
func FromDB(op string, err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound) && notFound != nil:
		return notFound
	case errors.Is(err, gorm.ErrRecordNotFound):
		return err
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, errors.Join(ErrConflict, err))
	default:
		return Transient(op, err)
	}
}

// HTTPStatus maps an error to the status code the API returns for it.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrTransient), errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
