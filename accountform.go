// Package accountform wires configuration into the account form pieces:
// the HTTP submitter, the page renderer, the web component and the
// per-instance controller.
package accountform

import (
	"fmt"
	"net/http"

	"github.com/go-kit/log"

	"github.com/goliatone/go-accountform/pkg/config"
	"github.com/goliatone/go-accountform/pkg/controller"
	"github.com/goliatone/go-accountform/pkg/render"
	"github.com/goliatone/go-accountform/pkg/submit"
	"github.com/goliatone/go-accountform/pkg/web"
)

// NewSubmitter builds the HTTP submitter described by cfg.
func NewSubmitter(cfg config.Submit, logger log.Logger) *submit.HTTPSubmitter {
	fns := []submit.OptionFn{
		submit.WithEndpoint(cfg.Endpoint),
		submit.WithTimeout(cfg.Timeout),
		submit.WithLogger(logger),
	}
	for name, value := range cfg.Headers {
		fns = append(fns, submit.WithHeader(name, value))
	}
	return submit.New(fns...)
}

// NewController returns a controller for one form instance.
func NewController(cfg *config.Config, logger log.Logger) *controller.Controller {
	if cfg == nil {
		defaults := config.DefaultConfig()
		cfg = &defaults
	}
	return controller.New(NewSubmitter(cfg.Submit, logger), controller.WithLogger(logger))
}

// NewPageRenderer resolves the configured theme and page copy.
func NewPageRenderer(cfg *config.Config) (*render.PageRenderer, error) {
	if cfg == nil {
		defaults := config.DefaultConfig()
		cfg = &defaults
	}
	themeCfg, err := render.ResolveTheme(render.ThemeOptions{
		Name:     cfg.Theme.Name,
		Variant:  cfg.Theme.Variant,
		Tokens:   cfg.Theme.Tokens,
		Variants: cfg.Theme.Variants,
	})
	if err != nil {
		return nil, err
	}
	return render.NewPageRenderer(
		render.WithTheme(themeCfg),
		render.WithPage(render.PageOptions{
			Title:   cfg.Page.Title,
			Heading: cfg.Page.Heading,
			Intro:   cfg.Page.Intro,
		}),
		render.WithTemplatesDir(cfg.Page.TemplatesDir),
	)
}

// NewWebComponent assembles the HTML front-end from cfg.
func NewWebComponent(cfg *config.Config, logger log.Logger) (*web.Component, error) {
	if cfg == nil {
		defaults := config.DefaultConfig()
		cfg = &defaults
	}
	renderer, err := NewPageRenderer(cfg)
	if err != nil {
		return nil, fmt.Errorf("accountform: renderer: %w", err)
	}
	return web.New(
		web.WithSubmitter(NewSubmitter(cfg.Submit, logger)),
		web.WithRenderer(renderer),
		web.WithMaxBodyBytes(cfg.Web.MaxBodyBytes),
		web.WithLogger(logger),
	), nil
}

// NewHandler returns the complete HTTP handler for cfg.
func NewHandler(cfg *config.Config, logger log.Logger) (http.Handler, error) {
	component, err := NewWebComponent(cfg, logger)
	if err != nil {
		return nil, err
	}
	basePath := "/"
	if cfg != nil && cfg.Web.BasePath != "" {
		basePath = cfg.Web.BasePath
	}
	return component.Handler(basePath)
}
