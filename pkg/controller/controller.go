package controller

import (
	"context"
	"errors"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/goliatone/go-accountform/pkg/form"
	"github.com/goliatone/go-accountform/pkg/submit"
)

// ErrNoSubmitter is the failure cause when a controller has no submitter.
var ErrNoSubmitter = errors.New("controller: submitter is not configured")

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for submission diagnostics.
func WithLogger(logger log.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTransitionHook registers a callback for every phase change.
func WithTransitionHook(hook TransitionHook) Option {
	return func(c *Controller) {
		c.hook = hook
	}
}

// WithState seeds the initial form state.
func WithState(state form.State) Option {
	return func(c *Controller) {
		c.state = state.Snapshot()
	}
}

// Controller owns one form instance.
type Controller struct {
	submitter submit.Submitter
	logger    log.Logger
	hook      TransitionHook

	state   form.State
	phase   Phase
	errors  form.ValidationResult
	success string
	alert   string
}

// New constructs a controller that delivers valid forms through submitter.
func New(submitter submit.Submitter, opts ...Option) *Controller {
	c := &Controller{
		submitter: submitter,
		logger:    log.NewNopLogger(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// UpdateField replaces one slot of the form state. It never validates.
func (c *Controller) UpdateField(field form.Field, value form.Value) {
	c.state.UpdateField(field, value)
}

// Validate runs the rule set against the current state without recording
// the result.
func (c *Controller) Validate() form.ValidationResult {
	return form.Validate(c.state)
}

// Submit validates the current state and, when valid, hands it to the
// submitter exactly once.
func (c *Controller) Submit(ctx context.Context) Outcome {
	snapshot := c.state.Snapshot()
	c.alert = ""

	c.transition(PhaseValidating)
	result := form.Validate(snapshot)
	if !result.Valid() {
		c.errors = result
		c.success = ""
		c.transition(PhaseIdle)
		level.Debug(c.logger).Log("msg", "form invalid", "fields", len(result.Fields()))
		return Outcome{Status: StatusFailure, Validation: result, Err: result.Err()}
	}

	c.transition(PhaseSubmitting)
	var (
		res submit.Response
		err error
	)
	if c.submitter == nil {
		err = ErrNoSubmitter
	} else {
		res, err = c.submitter.Submit(ctx, snapshot)
	}
	if err != nil {
		c.alert = FailureNotice
		c.transition(PhaseIdle)
		level.Error(c.logger).Log("msg", "form submission failed", "err", err)
		return Outcome{Status: StatusFailure, Message: FailureNotice, Validation: result, Err: err}
	}

	c.success = SuccessMessage
	c.errors = form.ValidationResult{}
	c.transition(PhaseSuccess)
	level.Info(c.logger).Log("msg", "form submitted", "request_id", res.RequestID)
	return Outcome{Status: StatusSuccess, Message: SuccessMessage, Validation: result, Response: res}
}

// Reset returns the controller to a fresh idle form.
func (c *Controller) Reset() {
	c.state = form.State{}
	c.errors = form.ValidationResult{}
	c.success = ""
	c.alert = ""
	c.transition(PhaseIdle)
}

// State returns a copy of the current form state.
func (c *Controller) State() form.State { return c.state.Snapshot() }

// Phase returns the current phase.
func (c *Controller) Phase() Phase { return c.phase }

// Errors returns the field errors from the last invalid attempt.
func (c *Controller) Errors() form.ValidationResult { return c.errors }

// SuccessMessage returns the success text, or "" when there is none.
func (c *Controller) SuccessMessage() string { return c.success }

// Alert returns the generic failure notice of the last attempt, if any.
func (c *Controller) Alert() string { return c.alert }

func (c *Controller) transition(to Phase) {
	from := c.phase
	if from == to {
		return
	}
	c.phase = to
	if c.hook != nil {
		c.hook(from, to)
	}
}
