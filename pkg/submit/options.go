package submit

import (
	"net/http"
	"time"

	"github.com/go-kit/log"
	"github.com/google/uuid"
)

const (
	DefaultEndpoint = "http://localhost:4000/form"
	DefaultTimeout  = 30 * time.Second

	// RequestIDHeader carries the per-submission correlation id.
	RequestIDHeader = "X-Request-ID"
)

// Options configures an HTTPSubmitter.
type Options struct {
	Endpoint  string
	Timeout   time.Duration
	Client    *http.Client
	Headers   map[string]string
	RequestID func() string
	Logger    log.Logger
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		Endpoint:  DefaultEndpoint,
		Timeout:   DefaultTimeout,
		RequestID: uuid.NewString,
		Logger:    log.NewNopLogger(),
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
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.RequestID == nil {
		opts.RequestID = uuid.NewString
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNopLogger()
	}
	if opts.Headers != nil {
		headers := make(map[string]string, len(opts.Headers))
		for k, v := range opts.Headers {
			headers[k] = v
		}
		opts.Headers = headers
	}
	return opts
}

func WithEndpoint(endpoint string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Endpoint = endpoint
	}
}

func WithTimeout(timeout time.Duration) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Timeout = timeout
	}
}

// WithHTTPClient overrides the client. Its own Timeout wins over WithTimeout.
func WithHTTPClient(client *http.Client) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Client = client
	}
}

func WithHeader(name, value string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		if o.Headers == nil {
			o.Headers = make(map[string]string)
		}
		o.Headers[name] = value
	}
}

func WithRequestID(fn func() string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RequestID = fn
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
