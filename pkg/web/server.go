package web

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// NewEngine returns a gin engine with panic recovery and request logging
// through logger.
func NewEngine(logger log.Logger) *gin.Engine {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(logger))
	return engine
}

func requestLogger(logger log.Logger) gin.HandlerFunc {
	logger = log.With(logger, "component", "http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		lvl := level.Debug
		if status >= http.StatusInternalServerError {
			lvl = level.Warn
		}
		lvl(logger).Log(
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"bytes", c.Writer.Size(),
			"took", time.Since(start),
		)
	}
}

// Server runs an http.Server until its context is cancelled, then drains
// in-flight requests for up to ShutdownTimeout.
type Server struct {
	Addr            string
	Handler         http.Handler
	ShutdownTimeout time.Duration
	Logger          log.Logger
}

// Run listens on Addr and blocks until ctx is done or the listener fails.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	logger := s.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	srv := &http.Server{
		Handler:           s.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		level.Info(logger).Log("msg", "listening", "addr", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	level.Info(logger).Log("msg", "shutting down", "timeout", timeout)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
