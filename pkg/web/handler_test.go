package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/goliatone/go-accountform/pkg/controller"
	"github.com/goliatone/go-accountform/pkg/form"
	"github.com/goliatone/go-accountform/pkg/submit"
	"github.com/goliatone/go-accountform/pkg/testsupport"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type upload struct {
	filename  string
	mediaType string
	data      []byte
}

func multipartBody(t *testing.T, fields map[string]string, file *upload) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.filename))
		h.Set("Content-Type", file.mediaType)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(file.data); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &body, w.FormDataContentType()
}

func newRouter(t *testing.T, fns ...OptionFn) (*gin.Engine, string) {
	t.Helper()
	router := NewEngine(nil)
	pattern, err := RegisterRoutes(router, "/", fns...)
	if err != nil {
		t.Fatalf("register routes: %v", err)
	}
	return router, pattern
}

func post(t *testing.T, router http.Handler, path string, fields map[string]string, file *upload) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, fields, file)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func uploadOf(t *testing.T, att *form.Attachment) *upload {
	t.Helper()
	rc, err := att.Open()
	if err != nil {
		t.Fatalf("open attachment: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read attachment: %v", err)
	}
	return &upload{filename: att.Filename, mediaType: att.MediaType, data: data}
}

func validUpload() *upload {
	return &upload{filename: "valid-image.jpg", mediaType: "image/jpeg", data: testsupport.JPEGHeader}
}

func TestGetForm_RendersDOMContract(t *testing.T) {
	router, pattern := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, pattern, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected html content-type, got %q", ct)
	}
	html := rec.Body.String()
	for _, want := range []string{
		`method="post"`,
		`enctype="multipart/form-data"`,
		`name="name"`,
		`type="number" name="age"`,
		`type="file" name="file"`,
		`<button type="submit">`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
}

func TestPostForm_ShortNameNeverReachesBackend(t *testing.T) {
	backend := testsupport.NewBackend(t, http.StatusOK)
	router, pattern := newRouter(t, WithSubmitter(submit.New(submit.WithEndpoint(backend.URL()))))

	rec := post(t, router, pattern, map[string]string{"name": "Jo", "age": "30"}, validUpload())

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rec.Code)
	}
	html := rec.Body.String()
	if got := strings.Count(html, "data-error-for="); got != 1 {
		t.Fatalf("expected exactly one field error, got %d:\n%s", got, html)
	}
	if !strings.Contains(html, `data-error-for="name">`+form.MsgNameTooShort) {
		t.Fatalf("expected name error in page")
	}
	if !strings.Contains(html, `value="Jo"`) {
		t.Fatalf("expected name to be re-populated")
	}
	if backend.Count() != 0 {
		t.Fatalf("expected no backend requests, got %d", backend.Count())
	}
}

func TestPostForm_ValidSubmissionShowsSuccess(t *testing.T) {
	backend := testsupport.NewBackend(t, http.StatusOK)
	router, pattern := newRouter(t, WithSubmitter(submit.New(submit.WithEndpoint(backend.URL()))))

	rec := post(t, router, pattern, map[string]string{"name": "John Doe", "age": "30"}, validUpload())

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d:\n%s", rec.Code, rec.Body.String())
	}
	html := rec.Body.String()
	if !strings.Contains(html, "data-success>"+controller.SuccessMessage) {
		t.Fatalf("expected success message in page")
	}
	if strings.Contains(html, "data-error-for=") {
		t.Fatalf("expected no field errors")
	}

	requests := backend.Requests()
	if len(requests) != 1 {
		t.Fatalf("expected one backend request, got %d", len(requests))
	}
	want := testsupport.RecordedFile{Filename: "valid-image.jpg", MediaType: "image/jpeg", Size: len(testsupport.JPEGHeader)}
	if requests[0].File == nil || *requests[0].File != want {
		t.Fatalf("unexpected file part: %#v", requests[0].File)
	}
	if requests[0].Fields["name"] != "John Doe" || requests[0].Fields["age"] != "30" {
		t.Fatalf("unexpected fields: %#v", requests[0].Fields)
	}
}

func TestPostForm_BackendFailureShowsAlert(t *testing.T) {
	backend := testsupport.NewBackend(t, http.StatusInternalServerError)
	router, pattern := newRouter(t, WithSubmitter(submit.New(submit.WithEndpoint(backend.URL()))))

	rec := post(t, router, pattern, map[string]string{"name": "John Doe", "age": "30"}, validUpload())

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", rec.Code)
	}
	html := rec.Body.String()
	if !strings.Contains(html, `role="alert">`+controller.FailureNotice) {
		t.Fatalf("expected generic alert in page:\n%s", html)
	}
	if strings.Contains(html, "data-success") {
		t.Fatalf("success must not render after a failure")
	}
	if backend.Count() != 1 {
		t.Fatalf("expected exactly one attempt, got %d", backend.Count())
	}
}

func TestPostForm_MissingFileAndWrongType(t *testing.T) {
	router, pattern := newRouter(t, WithSubmitter(submit.SubmitterFunc(func(_ context.Context, _ form.State) (submit.Response, error) {
		t.Fatalf("submitter must not be called")
		return submit.Response{}, nil
	})))

	rec := post(t, router, pattern, map[string]string{"name": "John Doe", "age": "30"}, nil)
	if !strings.Contains(rec.Body.String(), `data-error-for="file">`+form.MsgFileRequired) {
		t.Fatalf("expected file required error")
	}

	rec = post(t, router, pattern, map[string]string{"name": "John Doe", "age": "30"},
		uploadOf(t, testsupport.TextFile()))
	if !strings.Contains(rec.Body.String(), `data-error-for="file">`+form.MsgFileUnsupported) {
		t.Fatalf("expected unsupported type error")
	}
}

func TestPostForm_EmptyFileInputIsAbsent(t *testing.T) {
	router, pattern := newRouter(t)

	rec := post(t, router, pattern, map[string]string{"name": "John Doe", "age": "30"},
		&upload{filename: "", mediaType: "application/octet-stream"})

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `data-error-for="file">`+form.MsgFileRequired) {
		t.Fatalf("expected file required error")
	}
}

func TestPostForm_BodyOverLimitKeepsTextFields(t *testing.T) {
	backend := testsupport.NewBackend(t, http.StatusOK)
	router, pattern := newRouter(t,
		WithMaxBodyBytes(1024),
		WithSubmitter(submit.New(submit.WithEndpoint(backend.URL()))),
	)

	rec := post(t, router, pattern, map[string]string{"name": "Jo", "age": "30"},
		&upload{filename: "big.jpg", mediaType: "image/jpeg", data: make([]byte, 4096)})

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d", rec.Code)
	}
	html := rec.Body.String()
	for _, want := range []string{
		`data-error-for="file">` + form.MsgFileTooLarge,
		`data-error-for="name">` + form.MsgNameTooShort,
		`value="Jo"`,
		`value="30"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
	if strings.Contains(html, `data-error-for="age"`) {
		t.Fatalf("valid age must not report an error")
	}
	if backend.Count() != 0 {
		t.Fatalf("expected no backend requests, got %d", backend.Count())
	}
}

func TestPostForm_LargeFileUnderBodyCap(t *testing.T) {
	backend := testsupport.NewBackend(t, http.StatusOK)
	router, pattern := newRouter(t, WithSubmitter(submit.New(submit.WithEndpoint(backend.URL()))))

	rec := post(t, router, pattern, map[string]string{"name": "John Doe", "age": "30"},
		uploadOf(t, testsupport.LargeJPEG()))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rec.Code)
	}
	html := rec.Body.String()
	if !strings.Contains(html, `data-error-for="file">`+form.MsgFileTooLarge) {
		t.Fatalf("expected file size error")
	}
	if got := strings.Count(html, "data-error-for="); got != 1 {
		t.Fatalf("expected only the file error, got %d", got)
	}
	if backend.Count() != 0 {
		t.Fatalf("expected no backend requests, got %d", backend.Count())
	}
}

func TestPostForm_PNGAcceptedAfterBackendRecovers(t *testing.T) {
	backend := testsupport.NewBackend(t, http.StatusServiceUnavailable)
	router, pattern := newRouter(t, WithSubmitter(submit.New(submit.WithEndpoint(backend.URL()))))
	png := &upload{filename: "avatar.png", mediaType: "image/png", data: testsupport.PNGHeader}
	fields := map[string]string{"name": "John Doe", "age": "30"}

	rec := post(t, router, pattern, fields, png)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", rec.Code)
	}

	backend.SetStatus(http.StatusOK)
	rec = post(t, router, pattern, fields, png)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), `role="alert"`) {
		t.Fatalf("alert must not survive into a new request")
	}

	requests := backend.Requests()
	if len(requests) != 2 {
		t.Fatalf("expected two backend requests, got %d", len(requests))
	}
	if f := requests[1].File; f == nil || f.MediaType != "image/png" || f.Size != len(testsupport.PNGHeader) {
		t.Fatalf("unexpected file part: %#v", f)
	}
}

func TestSalvageFields(t *testing.T) {
	body, contentType := multipartBody(t, map[string]string{"name": "Ada Lovelace"}, validUpload())
	truncated := body.Bytes()[:body.Len()-4]

	got := salvageFields(truncated, contentType)
	if diff := testsupport.CompareGolden(map[string]string{"name": "Ada Lovelace"}, got); diff != "" {
		t.Fatalf("salvaged fields mismatch (-want +got):\n%s", diff)
	}
	if salvageFields(truncated, "text/plain") != nil {
		t.Fatalf("expected nil without a boundary")
	}
}

func TestHealth(t *testing.T) {
	router, _ := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var payload map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["status"] != "ok" {
		t.Fatalf("unexpected payload %#v", payload)
	}
}

func TestGuardRejects(t *testing.T) {
	router, pattern := newRouter(t, WithGuard(func(*http.Request) error {
		return StatusError{Code: http.StatusUnauthorized}
	}))

	req := httptest.NewRequest(http.MethodGet, pattern, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}

	router, pattern = newRouter(t, WithGuard(func(*http.Request) error { return errors.New("nope") }))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, pattern, nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
}
