package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/goliatone/go-accountform/pkg/controller"
	"github.com/goliatone/go-accountform/pkg/form"
)

// Option configures a Flow.
type Option func(*Flow)

// WithHeading sets the line printed before the first prompt.
func WithHeading(heading string) Option {
	return func(f *Flow) {
		f.heading = heading
	}
}

// WithLogger sets the logger for diagnostics.
func WithLogger(logger log.Logger) Option {
	return func(f *Flow) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// Flow collects answers, submits them and offers a retry after an
// invalid or failed attempt.
type Flow struct {
	driver     Driver
	controller *controller.Controller
	heading    string
	logger     log.Logger
}

// NewFlow constructs a flow over driver and ctl.
func NewFlow(driver Driver, ctl *controller.Controller, opts ...Option) (*Flow, error) {
	if driver == nil {
		return nil, errors.New("prompt: driver is required")
	}
	if ctl == nil {
		return nil, errors.New("prompt: controller is required")
	}
	f := &Flow{
		driver:     driver,
		controller: ctl,
		heading:    "Create Your Account",
		logger:     log.NewNopLogger(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(f)
	}
	return f, nil
}

// Run prompts until the form is submitted successfully or the user
// declines another attempt. The last outcome is returned either way.
func (f *Flow) Run(ctx context.Context) (controller.Outcome, error) {
	if f.heading != "" {
		if err := f.driver.Info(ctx, headingStyle.Render(f.heading)); err != nil {
			return controller.Outcome{}, err
		}
	}

	var (
		outcome  controller.Outcome
		filePath string
	)
	for {
		var err error
		filePath, err = f.collect(ctx, filePath)
		if err != nil {
			return outcome, err
		}

		outcome = f.controller.Submit(ctx)
		if err := f.report(ctx, outcome); err != nil {
			return outcome, err
		}
		if outcome.Succeeded() {
			return outcome, nil
		}

		again, err := f.driver.Confirm(ctx, ConfirmConfig{
			Message: "Try again?",
			Default: true,
		})
		if err != nil {
			return outcome, err
		}
		if !again {
			return outcome, nil
		}
	}
}

// collect asks for every field, offering previous answers as defaults.
func (f *Flow) collect(ctx context.Context, lastPath string) (string, error) {
	state := f.controller.State()

	name, err := f.driver.Input(ctx, InputConfig{Message: form.FieldName.Label(), Default: state.Name})
	if err != nil {
		return lastPath, err
	}
	f.controller.UpdateField(form.FieldName, form.Text(name))

	age, err := f.driver.Input(ctx, InputConfig{Message: form.FieldAge.Label(), Default: state.Age})
	if err != nil {
		return lastPath, err
	}
	f.controller.UpdateField(form.FieldAge, form.Text(age))

	path, err := f.driver.Input(ctx, InputConfig{
		Message: form.FieldFile.Label(),
		Default: lastPath,
		Help:    "Path to a JPEG or PNG image. Leave empty to skip.",
	})
	if err != nil {
		return lastPath, err
	}
	path = strings.TrimSpace(path)

	var attachment *form.Attachment
	if path != "" {
		attachment, err = form.AttachmentFromPath(path)
		if err != nil {
			level.Debug(f.logger).Log("msg", "open attachment", "path", path, "err", err)
			if infoErr := f.driver.Info(ctx, hintStyle.Render(fmt.Sprintf("Could not read %s", path))); infoErr != nil {
				return path, infoErr
			}
			attachment = nil
		}
	}
	f.controller.UpdateField(form.FieldFile, form.File(attachment))
	return path, nil
}

func (f *Flow) report(ctx context.Context, outcome controller.Outcome) error {
	var lines []string
	switch {
	case outcome.Succeeded():
		lines = append(lines, successStyle.Render(outcome.Message))
	case outcome.Invalid():
		for _, field := range outcome.Validation.Fields() {
			lines = append(lines, fieldErrorStyle.Render(
				fmt.Sprintf("%s: %s", field.Label(), outcome.Validation.Message(field)),
			))
		}
	default:
		lines = append(lines, alertStyle.Render(f.controller.Alert()))
	}

	for _, line := range lines {
		if err := f.driver.Info(ctx, line); err != nil {
			return err
		}
	}
	return nil
}
