// Package apperrors holds the error taxonomy shared by the feed composer, the
// blog service and the http handlers. Errors are wrapped with
// github.com/pkg/errors and matched with errors.Is.
package apperrors

import (
	"net/http"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound is an unknown id, slug, username or a missing follow edge.
	ErrNotFound = errors.New("not found")
	// ErrValidation is a submitted form missing a required field.
	ErrValidation = errors.New("validation failed")
	// ErrForbidden is an authenticated user touching content they don't own.
	ErrForbidden = errors.New("forbidden")
)

// FieldErrors maps a form field to its validation messages.
type FieldErrors map[string][]string

// ValidationError carries per-field messages so a form can be re-rendered.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundf wraps ErrNotFound with a formatted message.
func NotFoundf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrNotFound, format, args...)
}

func Forbiddenf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrForbidden, format, args...)
}

// HTTPStatus maps an error to the status code a handler responds with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Fields extracts field messages from a validation error, nil otherwise.
func Fields(err error) FieldErrors {
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Fields
	}
	return nil
}
