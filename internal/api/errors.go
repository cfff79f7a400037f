package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized marks a 401 response. Errors returned for 401s wrap it,
// so callers can match with errors.Is.
var ErrUnauthorized = errors.New("unauthorized")

// Error is a non-2xx backend response. Detail carries the backend-provided
// explanation when the body had one, otherwise the HTTP status text.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Detail)
}

func (e *Error) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// Reason extracts the most useful human-readable message from an error:
// the backend detail when the error is an *Error, the error text otherwise,
// and the supplied fallback when there is no error text at all.
func Reason(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
