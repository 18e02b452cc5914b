package render

import (
	"context"
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-accountform/pkg/form"
	"github.com/goliatone/go-accountform/pkg/render/pongo"
)

// ContentType is the media type of rendered pages.
const ContentType = "text/html; charset=utf-8"

// PageOptions holds the static page copy.
type PageOptions struct {
	Title   string
	Heading string
	// Intro is raw HTML; it is sanitised once at construction.
	Intro string
}

var fieldTypes = map[form.Field]string{
	form.FieldName: "text",
	form.FieldAge:  "number",
	form.FieldFile: "file",
}

// Option configures a PageRenderer.
type Option func(*PageRenderer)

// WithTheme sets the resolved theme configuration.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(r *PageRenderer) {
		r.theme = cfg
	}
}

// WithPage sets the page copy.
func WithPage(page PageOptions) Option {
	return func(r *PageRenderer) {
		r.page = page
	}
}

// WithTemplatesDir lets files in dir replace the embedded templates of the
// same name.
func WithTemplatesDir(dir string) Option {
	return func(r *PageRenderer) {
		r.templatesDir = dir
	}
}

type templateEngine interface {
	RenderTemplate(name string, data any) (string, error)
}

// PageRenderer renders the account form page.
type PageRenderer struct {
	engine       templateEngine
	theme        *theme.RendererConfig
	page         PageOptions
	templatesDir string
}

// NewPageRenderer constructs a renderer over the embedded templates. The
// page copy and theme are fixed for the renderer's lifetime and handed to
// the engine as globals.
func NewPageRenderer(opts ...Option) (*PageRenderer, error) {
	r := &PageRenderer{
		page: PageOptions{Heading: "Create Your Account"},
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.theme == nil {
		cfg, err := ResolveTheme(ThemeOptions{})
		if err != nil {
			return nil, err
		}
		r.theme = cfg
	}
	r.page.Intro = SanitizeIntro(r.page.Intro)
	if strings.TrimSpace(r.page.Title) == "" {
		r.page.Title = r.page.Heading
	}

	engine, err := pongo.New(
		pongo.WithDir(r.templatesDir),
		pongo.WithFS(TemplatesFS()),
		pongo.WithGlobals(map[string]any{
			"page": pageCopy{
				Title:     r.page.Title,
				Heading:   r.page.Heading,
				IntroHTML: r.page.Intro,
			},
			"theme": themeView{
				Name:         r.theme.Theme,
				Variant:      r.theme.Variant,
				CSSVarsStyle: cssVarsStyle(r.theme.CSSVars),
			},
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("render: template engine: %w", err)
	}
	r.engine = engine
	return r, nil
}

// ContentType reports the media type of Render output.
func (r *PageRenderer) ContentType() string { return ContentType }

type pageView struct {
	Action  string      `json:"action"`
	Fields  []fieldView `json:"fields"`
	Success string      `json:"success,omitempty"`
	Alert   string      `json:"alert,omitempty"`
}

type pageCopy struct {
	Title     string `json:"title"`
	Heading   string `json:"heading"`
	IntroHTML string `json:"intro_html,omitempty"`
}

type themeView struct {
	Name         string `json:"name"`
	Variant      string `json:"variant,omitempty"`
	CSSVarsStyle string `json:"css_vars_style"`
}

type fieldView struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	Type   string `json:"type"`
	Value  string `json:"value,omitempty"`
	Error  string `json:"error,omitempty"`
	Accept string `json:"accept,omitempty"`
}

// Render produces the full HTML page for opts.
func (r *PageRenderer) Render(ctx context.Context, opts RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := r.engine.RenderTemplate(PageTemplate, r.view(opts))
	if err != nil {
		return nil, fmt.Errorf("render: page: %w", err)
	}
	return []byte(out), nil
}

func (r *PageRenderer) view(opts RenderOptions) pageView {
	view := pageView{
		Action:  opts.Action,
		Success: opts.Success,
		Alert:   opts.Alert,
	}

	errs := MergeFieldErrors(opts.Errors)
	for _, field := range form.Fields {
		fv := fieldView{
			Name:  field.String(),
			Label: field.Label(),
			Type:  fieldTypes[field],
		}
		if field == form.FieldFile {
			fv.Accept = strings.Join(form.AllowedMediaTypes, ",")
		} else {
			fv.Value = opts.Values[field.String()]
		}
		if msgs := errs[field.String()]; len(msgs) > 0 {
			fv.Error = msgs[0]
		}
		view.Fields = append(view.Fields, fv)
	}
	return view
}
