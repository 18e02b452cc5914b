package submit

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMissingEndpoint is returned when no endpoint URL is configured.
var ErrMissingEndpoint = errors.New("submit: missing endpoint")

// HTTPError exposes the status code of a failed submission.
type HTTPError interface {
	error
	StatusCode() int
}

// StatusError reports a non-2xx response from the backend.
type StatusError struct {
	Code      int
	RequestID string
	Err       error
}

func (e *StatusError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("submit: backend responded %d: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("submit: backend responded %d %s", e.Code, http.StatusText(e.Code))
}

func (e *StatusError) Unwrap() error { return e.Err }

func (e *StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}
