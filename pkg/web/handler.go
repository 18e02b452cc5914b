package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/goliatone/go-accountform/pkg/controller"
	"github.com/goliatone/go-accountform/pkg/form"
	"github.com/goliatone/go-accountform/pkg/render"
)

const (
	// prefixLimit bounds the body prefix kept to recover text fields when
	// the body exceeds MaxBodyBytes.
	prefixLimit = 64 << 10
	maxTextPart = 4 << 10
)

// PageRenderer renders the form page for one request.
type PageRenderer interface {
	Render(ctx context.Context, opts render.RenderOptions) ([]byte, error)
}

type handler struct {
	opts   Options
	action string
	logger log.Logger
}

func newHandler(opts Options) (*handler, error) {
	if opts.Renderer == nil {
		r, err := render.NewPageRenderer()
		if err != nil {
			return nil, fmt.Errorf("web: default renderer: %w", err)
		}
		opts.Renderer = r
	}
	return &handler{
		opts:   opts,
		action: opts.RoutePath,
		logger: log.With(opts.Logger, "component", "web"),
	}, nil
}

func (h *handler) guarded(next gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.opts.Guard != nil {
			if err := h.opts.Guard(c.Request); err != nil {
				writeGuardError(c, err)
				return
			}
		}
		next(c)
	}
}

func (h *handler) showForm(c *gin.Context) {
	h.writePage(c, http.StatusOK, render.RenderOptions{})
}

func (h *handler) submitForm(c *gin.Context) {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.MaxBodyBytes)
	prefix := &prefixBuffer{limit: prefixLimit}
	c.Request.Body = struct {
		io.Reader
		io.Closer
	}{io.TeeReader(body, prefix), body}

	if err := c.Request.ParseMultipartForm(h.opts.MaxMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			level.Warn(h.logger).Log("msg", "request body too large", "limit", tooLarge.Limit)
			h.writePage(c, http.StatusRequestEntityTooLarge, oversizeOptions(prefix.Bytes(), c.GetHeader("Content-Type")))
			return
		}
		level.Warn(h.logger).Log("msg", "malformed form body", "err", err)
		h.writePage(c, http.StatusBadRequest, render.RenderOptions{Alert: controller.FailureNotice})
		return
	}

	ctl := controller.New(h.opts.Submitter, controller.WithLogger(h.logger))
	ctl.UpdateField(form.FieldName, form.Text(c.PostForm(form.FieldName.String())))
	ctl.UpdateField(form.FieldAge, form.Text(c.PostForm(form.FieldAge.String())))
	if fh, err := c.FormFile(form.FieldFile.String()); err == nil {
		ctl.UpdateField(form.FieldFile, form.File(form.AttachmentFromFileHeader(fh)))
	} else if !errors.Is(err, http.ErrMissingFile) {
		level.Debug(h.logger).Log("msg", "file part unreadable", "err", err)
	}

	outcome := ctl.Submit(c.Request.Context())
	status := http.StatusOK
	switch {
	case outcome.Succeeded():
	case outcome.Invalid():
		status = http.StatusUnprocessableEntity
	default:
		status = http.StatusBadGateway
	}
	h.writePage(c, status, render.OptionsFromController(ctl))
}

func (h *handler) writePage(c *gin.Context, status int, opts render.RenderOptions) {
	opts.Action = h.action
	body, err := h.opts.Renderer.Render(c.Request.Context(), opts)
	if err != nil {
		level.Error(h.logger).Log("msg", "render page", "err", err)
		c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}
	c.Data(status, render.ContentType, body)
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func writeGuardError(c *gin.Context, err error) {
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		if sc := httpErr.StatusCode(); sc > 0 {
			code = sc
		}
	}
	c.AbortWithStatusJSON(code, gin.H{"error": http.StatusText(code)})
}

// oversizeOptions validates the text fields that arrived before the body
// hit its limit and reports the file as too large.
func oversizeOptions(prefix []byte, contentType string) render.RenderOptions {
	values := salvageFields(prefix, contentType)
	state := form.State{
		Name: values[form.FieldName.String()],
		Age:  values[form.FieldAge.String()],
	}
	errs := render.MapValidation(form.Validate(state))
	if errs == nil {
		errs = make(map[string][]string, 1)
	}
	errs[form.FieldFile.String()] = []string{form.MsgFileTooLarge}
	return render.RenderOptions{Values: values, Errors: errs}
}

// salvageFields reads complete text parts from a truncated multipart body.
func salvageFields(prefix []byte, contentType string) map[string]string {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil || params["boundary"] == "" {
		return nil
	}
	values := make(map[string]string)
	mr := multipart.NewReader(bytes.NewReader(prefix), params["boundary"])
	for {
		part, err := mr.NextPart()
		if err != nil {
			return values
		}
		field, ok := form.ParseField(part.FormName())
		if !ok || field == form.FieldFile || part.FileName() != "" {
			continue
		}
		data, err := io.ReadAll(io.LimitReader(part, maxTextPart))
		if err != nil {
			return values
		}
		values[field.String()] = string(data)
	}
}

// prefixBuffer keeps the first limit bytes written to it and discards the
// rest without error.
type prefixBuffer struct {
	buf   bytes.Buffer
	limit int
}

func (b *prefixBuffer) Write(p []byte) (int, error) {
	if room := b.limit - b.buf.Len(); room > 0 {
		if len(p) > room {
			b.buf.Write(p[:room])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *prefixBuffer) Bytes() []byte { return b.buf.Bytes() }
