// Package logging builds the go-kit logger shared by the binary and the
// library packages.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Format selects the line encoding.
type Format string

const (
	FormatLogfmt Format = "logfmt"
	FormatJSON   Format = "json"
)

// Options configures New.
type Options struct {
	Level  string
	Format Format
	// Component is attached to every line when set.
	Component string
}

// New returns a leveled, timestamped logger writing to w (stderr when nil).
func New(w io.Writer, opts Options) (log.Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	allow, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	var logger log.Logger
	out := log.NewSyncWriter(w)
	switch Format(strings.ToLower(string(opts.Format))) {
	case FormatJSON:
		logger = log.NewJSONLogger(out)
	case FormatLogfmt, "":
		logger = log.NewLogfmtLogger(out)
	default:
		return nil, fmt.Errorf("logging: unknown format %q", opts.Format)
	}

	logger = level.NewFilter(logger, allow)
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
	if opts.Component != "" {
		logger = log.With(logger, "component", opts.Component)
	}
	return logger, nil
}

// ParseLevel maps a level name to a go-kit filter option. Empty means info.
func ParseLevel(name string) (level.Option, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return level.AllowDebug(), nil
	case "", "info":
		return level.AllowInfo(), nil
	case "warn", "warning":
		return level.AllowWarn(), nil
	case "error":
		return level.AllowError(), nil
	case "none", "off":
		return level.AllowNone(), nil
	default:
		return nil, fmt.Errorf("logging: unknown level %q", name)
	}
}
