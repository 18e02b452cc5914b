package controller

import (
	"errors"

	"github.com/goliatone/go-accountform/pkg/form"
	"github.com/goliatone/go-accountform/pkg/submit"
)

// User-facing submission feedback.
const (
	SuccessMessage = "Form submitted successfully!"
	FailureNotice  = "An error occurred. Please try again later."
)

// Status is the result kind of a submit attempt.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Outcome is returned by Submit.
type Outcome struct {
	Status  Status
	Message string
	// Validation is the result of the validation step. It is valid for every
	// attempt that reached the network.
	Validation form.ValidationResult
	// Response is set on success.
	Response submit.Response
	// Err holds the cause of a failure: a *form.ValidationError or the
	// submitter's error. It is never shown to the user.
	Err error
}

// Succeeded reports whether the backend accepted the form.
func (o Outcome) Succeeded() bool {
	return o.Status == StatusSuccess
}

// Invalid reports whether the attempt stopped at validation.
func (o Outcome) Invalid() bool {
	var vErr *form.ValidationError
	return errors.As(o.Err, &vErr)
}
