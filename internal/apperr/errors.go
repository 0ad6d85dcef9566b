// Package apperr holds the error taxonomy shared by the client and the pages.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNetwork    = errors.New("network error")
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrDecode     = errors.New("decode error")
)

// StatusError records a non-2xx backend response.
type StatusError struct {
	Op     string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: backend responded %d %s", e.Op, e.Status, http.StatusText(e.Status))
}

// Unwrap maps 404 to ErrNotFound and every other status to ErrNetwork.
func (e *StatusError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return ErrNetwork
}

// Validation wraps a parameter error so it matches ErrValidation.
func Validation(field string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrValidation, field, err)
}

// HTTPStatus maps an error to the status a page should answer with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}
