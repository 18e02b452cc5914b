package web

import "net/http"

// HTTPError lets a guard choose the response status.
type HTTPError interface {
	error
	StatusCode() int
}

// StatusError is a guard rejection with an explicit status.
type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusForbidden
	}
	return e.Code
}
