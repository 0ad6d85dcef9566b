package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusErrorUnwrap(t *testing.T) {
	notFound := fmt.Errorf("fetch agent: %w", &StatusError{Op: "GET /api/agent/x", Status: 404})
	if !errors.Is(notFound, ErrNotFound) {
		t.Error("404 should match ErrNotFound")
	}
	if errors.Is(notFound, ErrNetwork) {
		t.Error("404 should not match ErrNetwork")
	}
	unavailable := &StatusError{Op: "GET /api/meta", Status: 503}
	if !errors.Is(unavailable, ErrNetwork) {
		t.Error("503 should match ErrNetwork")
	}
	var se *StatusError
	if !errors.As(notFound, &se) || se.Status != 404 {
		t.Error("errors.As should find the status error")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{&StatusError{Status: 404}, http.StatusNotFound},
		{Validation("cui", errors.New("must be set")), http.StatusBadRequest},
		{fmt.Errorf("x: %w", ErrDecode), http.StatusBadGateway},
		{&StatusError{Status: 500}, http.StatusBadGateway},
	}
	for _, c := range cases {
		if got := HTTPStatus(c.err); got != c.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}
