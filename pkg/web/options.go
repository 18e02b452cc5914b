package web

import (
	"net/http"

	"github.com/go-kit/log"

	"github.com/goliatone/go-accountform/pkg/submit"
)

const (
	defaultRoutePath    = "/"
	defaultHealthPath   = "/healthz"
	defaultMaxBodyBytes = 10 << 20
	defaultMaxMemory    = 8 << 20
)

// GuardFunc may reject a request before the form is handled. Returning an
// error implementing HTTPError selects the response status.
type GuardFunc func(r *http.Request) error

type Options struct {
	RoutePath  string
	HealthPath string
	// MaxBodyBytes caps the request body. Larger uploads are answered with
	// 413 and the file size message.
	MaxBodyBytes int64
	// MaxMemory is the part of a multipart body kept in memory; the rest
	// spills to temporary files.
	MaxMemory int64
	Guard     GuardFunc

	Submitter submit.Submitter
	Renderer  PageRenderer
	Logger    log.Logger
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:    defaultRoutePath,
		HealthPath:   defaultHealthPath,
		MaxBodyBytes: defaultMaxBodyBytes,
		MaxMemory:    defaultMaxMemory,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.RoutePath == "" {
		opts.RoutePath = defaultRoutePath
	}
	if opts.HealthPath == "" {
		opts.HealthPath = defaultHealthPath
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	if opts.MaxMemory <= 0 {
		opts.MaxMemory = defaultMaxMemory
	}
	if opts.MaxMemory > opts.MaxBodyBytes {
		opts.MaxMemory = opts.MaxBodyBytes
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNopLogger()
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

func WithHealthPath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.HealthPath = path
	}
}

func WithMaxBodyBytes(limit int64) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxBodyBytes = limit
	}
}

func WithMaxMemory(limit int64) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxMemory = limit
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func WithSubmitter(s submit.Submitter) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Submitter = s
	}
}

func WithRenderer(r PageRenderer) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Renderer = r
	}
}

func WithLogger(logger log.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}
