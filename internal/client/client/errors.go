package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrBadRequest   = errors.New("bad request")
	ErrServer       = errors.New("server error")
)

// APIError carries the HTTP status and the server's message. It unwraps to
// one of the sentinel errors above.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s (status %d)", e.Err, e.Status)
	}
	return fmt.Sprintf("%s (status %d): %s", e.Err, e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}
