package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-accountform/pkg/form"
)

// JPEGHeader is enough of a JPEG stream for content sniffing.
var JPEGHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0x01}

// PNGHeader is the PNG signature followed by the start of an IHDR chunk.
var PNGHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// ValidJPEG returns a small JPEG attachment that passes validation.
func ValidJPEG() *form.Attachment {
	return form.AttachmentFromBytes("valid-image.jpg", "image/jpeg", JPEGHeader)
}

// LargeJPEG returns a JPEG attachment one byte over the size limit.
func LargeJPEG() *form.Attachment {
	data := make([]byte, form.MaxFileSize+1)
	copy(data, JPEGHeader)
	return form.AttachmentFromBytes("large-image.jpg", "image/jpeg", data)
}

// TextFile returns a plain-text attachment.
func TextFile() *form.Attachment {
	return form.AttachmentFromBytes("example.txt", "text/plain", []byte("hello\n"))
}

// ValidState returns the end-to-end happy path state.
func ValidState() form.State {
	return form.State{Name: "John Doe", Age: "30", File: ValidJPEG()}
}

// RecordedFile describes the file part a backend received.
type RecordedFile struct {
	Filename  string
	MediaType string
	Size      int
}

// RecordedRequest is a parsed submission seen by Backend.
type RecordedRequest struct {
	Method    string
	Path      string
	RequestID string
	Fields    map[string]string
	File      *RecordedFile
}

// Backend is an httptest server standing in for the form endpoint. It
// records every request and replies with the configured status.
type Backend struct {
	Server *httptest.Server

	mu       sync.Mutex
	status   int
	requests []RecordedRequest
}

// NewBackend starts a recording backend answering with status. The server
// is closed when the test finishes.
func NewBackend(t *testing.T, status int) *Backend {
	t.Helper()

	b := &Backend{status: status}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the endpoint URL for the form route.
func (b *Backend) URL() string {
	return b.Server.URL + "/form"
}

// SetStatus changes the status used for subsequent replies.
func (b *Backend) SetStatus(status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status = status
}

// Requests returns a copy of the recorded requests.
func (b *Backend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]RecordedRequest(nil), b.requests...)
}

// Count returns the number of requests received.
func (b *Backend) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	rec := RecordedRequest{
		Method:    r.Method,
		Path:      r.URL.Path,
		RequestID: r.Header.Get("X-Request-ID"),
		Fields:    map[string]string{},
	}
	if err := r.ParseMultipartForm(32 << 20); err == nil {
		for key, values := range r.MultipartForm.Value {
			if len(values) > 0 {
				rec.Fields[key] = values[0]
			}
		}
		if headers := r.MultipartForm.File["file"]; len(headers) > 0 {
			fh := headers[0]
			size := 0
			if f, err := fh.Open(); err == nil {
				data, _ := io.ReadAll(f)
				size = len(data)
				f.Close()
			}
			rec.File = &RecordedFile{
				Filename:  fh.Filename,
				MediaType: fh.Header.Get("Content-Type"),
				Size:      size,
			}
		}
	}

	b.mu.Lock()
	b.requests = append(b.requests, rec)
	status := b.status
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	message := "Form submitted successfully"
	if status < 200 || status > 299 {
		message = http.StatusText(status)
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureOutput runs fn against a buffer and returns what it wrote.
func CaptureOutput(t *testing.T, fn func(io.Writer) error) string {
	t.Helper()

	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		t.Fatalf("capture output: %v", err)
	}
	return buf.String()
}
