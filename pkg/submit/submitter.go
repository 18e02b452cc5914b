package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/go-kit/log/level"

	"github.com/goliatone/go-accountform/pkg/form"
)

const maxResponseBytes = 1 << 20

// Submitter delivers a form state to the backend.
type Submitter interface {
	Submit(ctx context.Context, state form.State) (Response, error)
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, state form.State) (Response, error)

func (fn SubmitterFunc) Submit(ctx context.Context, state form.State) (Response, error) {
	return fn(ctx, state)
}

// Response describes a successful backend reply.
type Response struct {
	StatusCode int
	RequestID  string
	// Message is the optional "message" field of a JSON reply. It is not
	// inspected beyond being decoded.
	Message string
}

// HTTPSubmitter posts the form as multipart/form-data.
type HTTPSubmitter struct {
	opts   Options
	client *http.Client
}

var _ Submitter = (*HTTPSubmitter)(nil)

// New constructs an HTTPSubmitter with default options plus any overrides.
func New(fns ...OptionFn) *HTTPSubmitter {
	return NewWithOptions(NewOptions(fns...))
}

// NewWithOptions builds a submitter from a pre-constructed Options value.
func NewWithOptions(opts Options) *HTTPSubmitter {
	opts = NewOptions(func(o *Options) { *o = opts })
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	return &HTTPSubmitter{opts: opts, client: client}
}

// Endpoint returns the configured target URL.
func (s *HTTPSubmitter) Endpoint() string {
	if s == nil {
		return ""
	}
	return s.opts.Endpoint
}

// Submit issues exactly one POST. Any 2xx is success; any other status
// returns a *StatusError.
func (s *HTTPSubmitter) Submit(ctx context.Context, state form.State) (Response, error) {
	if s == nil || strings.TrimSpace(s.opts.Endpoint) == "" {
		return Response{}, ErrMissingEndpoint
	}
	if ctx == nil {
		ctx = context.Background()
	}

	body, contentType, err := EncodeMultipart(state)
	if err != nil {
		return Response{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.opts.Endpoint, body)
	if err != nil {
		return Response{}, fmt.Errorf("submit: build request: %w", err)
	}
	requestID := s.opts.RequestID()
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if requestID != "" {
		req.Header.Set(RequestIDHeader, requestID)
	}
	for name, value := range s.opts.Headers {
		req.Header.Set(name, value)
	}

	logger := s.opts.Logger
	level.Debug(logger).Log("msg", "submitting form", "endpoint", s.opts.Endpoint, "request_id", requestID, "bytes", body.Len())

	res, err := s.client.Do(req)
	if err != nil {
		level.Warn(logger).Log("msg", "form submission failed", "request_id", requestID, "err", err)
		return Response{}, fmt.Errorf("submit: post %s: %w", s.opts.Endpoint, err)
	}
	defer res.Body.Close()

	payload, _ := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))

	if res.StatusCode < 200 || res.StatusCode > 299 {
		level.Warn(logger).Log("msg", "backend rejected form", "request_id", requestID, "status", res.StatusCode)
		return Response{}, &StatusError{Code: res.StatusCode, RequestID: requestID}
	}

	out := Response{
		StatusCode: res.StatusCode,
		RequestID:  requestID,
		Message:    decodeMessage(res.Header.Get("Content-Type"), payload),
	}
	level.Info(logger).Log("msg", "form submitted", "request_id", requestID, "status", res.StatusCode)
	return out, nil
}

// EncodeMultipart writes the three form slots as multipart parts named
// name, age and file. The file part keeps the attachment's media type.
func EncodeMultipart(state form.State) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField(form.FieldName.String(), state.Name); err != nil {
		return nil, "", fmt.Errorf("submit: write name: %w", err)
	}
	if err := writer.WriteField(form.FieldAge.String(), strings.TrimSpace(state.Age)); err != nil {
		return nil, "", fmt.Errorf("submit: write age: %w", err)
	}
	if state.File != nil {
		if err := writeFilePart(writer, state.File); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("submit: close multipart: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeFilePart(writer *multipart.Writer, att *form.Attachment) error {
	mediaType := att.MediaType
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		form.FieldFile.String(), quoteEscaper.Replace(att.Filename)))
	header.Set("Content-Type", mediaType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("submit: create file part: %w", err)
	}
	src, err := att.Open()
	if err != nil {
		return fmt.Errorf("submit: open attachment %q: %w", att.Filename, err)
	}
	defer src.Close()
	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("submit: copy attachment %q: %w", att.Filename, err)
	}
	return nil
}

func decodeMessage(contentType string, payload []byte) string {
	if len(payload) == 0 {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != "application/json" {
		return ""
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return body.Message
}
