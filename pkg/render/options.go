package render

import (
	"github.com/goliatone/go-accountform/pkg/controller"
	"github.com/goliatone/go-accountform/pkg/form"
)

// RenderOptions describe per-request data for one page render.
type RenderOptions struct {
	// Action is the form action URL. Empty posts back to the current URL.
	Action string
	// Values pre-populates text inputs keyed by input name. File inputs are
	// never pre-populated.
	Values map[string]string
	// Errors holds field feedback keyed by input name; the first message of
	// each field is shown.
	Errors map[string][]string
	// Success is shown below the fields when set.
	Success string
	// Alert is the generic failure notice.
	Alert string
}

// OptionsFromController captures the feedback a controller holds after a
// submit attempt.
func OptionsFromController(c *controller.Controller) RenderOptions {
	if c == nil {
		return RenderOptions{}
	}
	state := c.State()
	return RenderOptions{
		Values: map[string]string{
			form.FieldName.String(): state.Name,
			form.FieldAge.String():  state.Age,
		},
		Errors:  MapValidation(c.Errors()),
		Success: c.SuccessMessage(),
		Alert:   c.Alert(),
	}
}
