package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMountPath_JoinsBasePath(t *testing.T) {
	if got := MountPath("/"); got != "/" {
		t.Fatalf("unexpected mount path: %q", got)
	}
	if got := MountPath("account"); got != "/account" {
		t.Fatalf("unexpected mount path: %q", got)
	}
	if got := MountPath("/account/", WithRoutePath("signup")); got != "/account/signup" {
		t.Fatalf("unexpected mount path: %q", got)
	}
}

func TestRegisterRoutes_MissingRouter(t *testing.T) {
	if _, err := RegisterRoutes(nil, "/"); err == nil {
		t.Fatalf("expected error for nil router")
	}
}

func TestComponent_Handler(t *testing.T) {
	c := New(WithRoutePath("/signup"))
	h, err := c.Handler("/account")
	if err != nil {
		t.Fatalf("handler: %v", err)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/account/signup", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/account/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected health status 200, got %d", rec.Code)
	}
}

func TestNewOptions_Defaults(t *testing.T) {
	opts := NewOptions(WithMaxBodyBytes(-1), WithMaxMemory(1<<30))
	if opts.MaxBodyBytes != defaultMaxBodyBytes {
		t.Fatalf("expected default body limit, got %d", opts.MaxBodyBytes)
	}
	if opts.MaxMemory != opts.MaxBodyBytes {
		t.Fatalf("expected memory limit clamped to body limit, got %d", opts.MaxMemory)
	}
	if opts.Logger == nil {
		t.Fatalf("expected nop logger")
	}
}
