// Package pongo renders named pongo2 templates loaded from a directory on
// disk, an fs.FS, or both.
package pongo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

// Extension is appended to template names that lack it.
const Extension = ".tpl"

// Option configures New.
type Option func(*config)

type config struct {
	dir     string
	files   fs.FS
	globals map[string]any
}

// WithDir loads templates from dir. Templates found there shadow those of
// WithFS, so a deployment can override single files.
func WithDir(dir string) Option {
	return func(cfg *config) {
		cfg.dir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from files.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.files = files
	}
}

// WithGlobals sets values visible to every render. Per-render data wins on
// key collisions.
func WithGlobals(globals map[string]any) Option {
	return func(cfg *config) {
		cfg.globals = globals
	}
}

// Engine caches parsed templates; it is safe for concurrent use.
type Engine struct {
	set *pongo2.TemplateSet

	mu     sync.Mutex
	parsed map[string]*pongo2.Template
}

// New builds an engine. At least one of WithDir or WithFS is required.
func New(opts ...Option) (*Engine, error) {
	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	var loaders []pongo2.TemplateLoader
	if cfg.dir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.dir)
		if err != nil {
			return nil, fmt.Errorf("pongo: templates dir %q: %w", cfg.dir, err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.files != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.files))
	}
	if len(loaders) == 0 {
		return nil, errors.New("pongo: no template source")
	}

	set := pongo2.NewSet("accountform", loaders...)
	if len(cfg.globals) > 0 {
		globals, err := toContext(cfg.globals)
		if err != nil {
			return nil, fmt.Errorf("pongo: globals: %w", err)
		}
		if set.Globals == nil {
			set.Globals = pongo2.Context{}
		}
		set.Globals.Update(globals)
	}
	return &Engine{set: set, parsed: make(map[string]*pongo2.Template)}, nil
}

// RenderTemplate executes the template called name with data. Struct data
// is addressed by its json field names.
func (e *Engine) RenderTemplate(name string, data any) (string, error) {
	if e == nil {
		return "", errors.New("pongo: engine is nil")
	}
	tmpl, err := e.lookup(name)
	if err != nil {
		return "", err
	}
	ctx, err := toContext(data)
	if err != nil {
		return "", fmt.Errorf("pongo: %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(ctx, &buf); err != nil {
		return "", fmt.Errorf("pongo: execute %s: %w", name, err)
	}
	return buf.String(), nil
}

func (e *Engine) lookup(name string) (*pongo2.Template, error) {
	if !strings.HasSuffix(name, Extension) {
		name += Extension
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.parsed[name]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("pongo: load %s: %w", name, err)
	}
	e.parsed[name] = tmpl
	return tmpl, nil
}

// toContext round-trips data through JSON so templates see plain maps,
// slices and scalars.
func toContext(data any) (pongo2.Context, error) {
	if data == nil {
		return pongo2.Context{}, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("data must encode to an object: %w", err)
	}
	return pongo2.Context(out), nil
}
