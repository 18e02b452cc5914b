// Package controller implements the account form controller: it owns the
// form state, validates it on submit, issues one submission per valid attempt
// and keeps the feedback (field errors, success message, generic alert) that
// front-ends render.
//
// A submit cycle moves through the phases
//
//	Idle -> Validating -> Idle                      (invalid, errors kept)
//	Idle -> Validating -> Submitting -> Success     (2xx)
//	Idle -> Validating -> Submitting -> Idle        (failure, alert set)
//
// A Controller belongs to a single form instance and is not safe for
// concurrent use.
package controller
