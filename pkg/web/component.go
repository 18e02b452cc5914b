package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Component bundles the form handlers with their configuration.
type Component struct {
	opts Options
}

// New constructs a component with default options plus any overrides.
func New(fns ...OptionFn) *Component {
	return &Component{opts: NewOptions(fns...)}
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return NewOptions(func(o *Options) { *o = c.opts })
}

// RegisterRoutes registers the component handlers under basePath.
func (c *Component) RegisterRoutes(router gin.IRoutes, basePath string) (string, error) {
	if c == nil {
		return RegisterRoutes(router, basePath)
	}
	return RegisterRoutesWithOptions(router, basePath, c.opts)
}

// Handler returns a standalone gin engine serving the component at
// basePath.
func (c *Component) Handler(basePath string) (http.Handler, error) {
	engine := NewEngine(c.Options().Logger)
	if _, err := c.RegisterRoutes(engine, basePath); err != nil {
		return nil, err
	}
	return engine, nil
}
