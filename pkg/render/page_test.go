package render

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-accountform/pkg/controller"
	"github.com/goliatone/go-accountform/pkg/form"
	"github.com/goliatone/go-accountform/pkg/submit"
	"github.com/goliatone/go-accountform/pkg/testsupport"
)

func newRenderer(t *testing.T, opts ...Option) *PageRenderer {
	t.Helper()
	r, err := NewPageRenderer(opts...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func TestPageRenderer_EmptyForm(t *testing.T) {
	r := newRenderer(t, WithPage(PageOptions{Title: "Next.js Form with Validation", Heading: "Create Your Account"}))

	out, err := r.Render(context.Background(), RenderOptions{Action: "/"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	for _, want := range []string{
		"<title>Next.js Form with Validation</title>",
		"<h2>Create Your Account</h2>",
		`method="post"`,
		`enctype="multipart/form-data"`,
		`<label for="name">Name</label>`,
		`<label for="age">Age</label>`,
		`<label for="file">Profile Picture</label>`,
		`type="text" name="name"`,
		`type="number" name="age"`,
		`type="file" name="file"`,
		`accept="image/jpeg,image/png"`,
		`<button type="submit">Submit</button>`,
		"--gradient-from: #3b82f6;",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
	for _, unwanted := range []string{"data-error-for", "data-success", `role="alert"`} {
		if strings.Contains(html, unwanted) {
			t.Errorf("empty page must not contain %q", unwanted)
		}
	}
}

func TestPageRenderer_FieldErrorsAndValues(t *testing.T) {
	r := newRenderer(t)

	out, err := r.Render(context.Background(), RenderOptions{
		Values: map[string]string{"name": "Jo", "age": "30"},
		Errors: map[string][]string{
			"name":    {form.MsgNameTooShort},
			"unknown": {"ignored"},
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	if !strings.Contains(html, `data-error-for="name">`+form.MsgNameTooShort+`</p>`) {
		t.Fatalf("expected name error in page:\n%s", html)
	}
	if got := strings.Count(html, "data-error-for="); got != 1 {
		t.Fatalf("expected exactly one field error, got %d", got)
	}
	if !strings.Contains(html, `value="Jo"`) || !strings.Contains(html, `value="30"`) {
		t.Fatalf("expected submitted values to be echoed back")
	}
	if strings.Contains(html, "ignored") {
		t.Fatalf("unknown field errors must not render")
	}
}

func TestPageRenderer_EscapesValues(t *testing.T) {
	r := newRenderer(t)

	out, err := r.Render(context.Background(), RenderOptions{
		Values: map[string]string{"name": `<script>alert("x")</script>`},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(out), "<script>alert") {
		t.Fatalf("expected user input to be escaped")
	}
}

func TestPageRenderer_SuccessAndAlert(t *testing.T) {
	r := newRenderer(t)

	out, err := r.Render(context.Background(), RenderOptions{Success: controller.SuccessMessage})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), "data-success>"+controller.SuccessMessage) {
		t.Fatalf("expected success message in page")
	}

	out, err = r.Render(context.Background(), RenderOptions{Alert: controller.FailureNotice})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), `role="alert">`+controller.FailureNotice) {
		t.Fatalf("expected failure notice in page")
	}
}

func TestPageRenderer_IntroIsSanitised(t *testing.T) {
	r := newRenderer(t, WithPage(PageOptions{
		Heading: "Create Your Account",
		Intro:   `<p>Welcome <strong>aboard</strong></p><script>alert(1)</script>`,
	}))

	out, err := r.Render(context.Background(), RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, "<p>Welcome <strong>aboard</strong></p>") {
		t.Fatalf("expected intro markup to survive:\n%s", html)
	}
	if strings.Contains(html, "alert(1)") {
		t.Fatalf("expected script to be stripped")
	}
}

func TestPageRenderer_CancelledContext(t *testing.T) {
	r := newRenderer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Render(ctx, RenderOptions{}); err == nil {
		t.Fatalf("expected cancelled context to fail render")
	}
}

func TestOptionsFromController(t *testing.T) {
	c := controller.New(submit.SubmitterFunc(func(context.Context, form.State) (submit.Response, error) {
		return submit.Response{StatusCode: 200}, nil
	}))
	c.UpdateField(form.FieldName, form.Text("Jo"))
	c.UpdateField(form.FieldAge, form.Text("30"))
	c.UpdateField(form.FieldFile, form.File(testsupport.ValidJPEG()))
	c.Submit(context.Background())

	got := OptionsFromController(c)
	want := RenderOptions{
		Values: map[string]string{"name": "Jo", "age": "30"},
		Errors: map[string][]string{"name": {form.MsgNameTooShort}},
	}
	if diff := testsupport.CompareGolden(want, got); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}

	if OptionsFromController(nil).Values != nil {
		t.Fatalf("nil controller must yield zero options")
	}
}

func TestPageRenderer_TemplatesDirOverridesEmbedded(t *testing.T) {
	dir := t.TempDir()
	tpl := `<h1>{{ page.heading }}</h1>{% for field in fields %}[{{ field.label }}]{% endfor %}`
	if err := os.WriteFile(filepath.Join(dir, PageTemplate+".tpl"), []byte(tpl), 0o600); err != nil {
		t.Fatalf("write template: %v", err)
	}
	r := newRenderer(t, WithTemplatesDir(dir), WithPage(PageOptions{Heading: "Join us"}))

	out, err := r.Render(context.Background(), RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := string(out); got != "<h1>Join us</h1>[Name][Age][Profile Picture]" {
		t.Fatalf("unexpected override output %q", got)
	}
}

func TestPageRenderer_TitleFallsBackToHeading(t *testing.T) {
	r := newRenderer(t, WithPage(PageOptions{Heading: "Join us"}))

	out, err := r.Render(context.Background(), RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), "<title>Join us</title>") {
		t.Fatalf("expected heading as title")
	}
}

func TestNewPageRenderer_MissingTemplatesDir(t *testing.T) {
	if _, err := NewPageRenderer(WithTemplatesDir(filepath.Join(t.TempDir(), "missing"))); err == nil {
		t.Fatalf("expected error for missing templates dir")
	}
}
