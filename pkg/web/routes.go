package web

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// MountPath returns the full form path under basePath.
func MountPath(basePath string, fns ...OptionFn) string {
	opts := NewOptions(fns...)
	return mountPath(basePath, opts.RoutePath)
}

// RegisterRoutes registers the form and health handlers under basePath.
func RegisterRoutes(router gin.IRoutes, basePath string, fns ...OptionFn) (string, error) {
	opts := NewOptions(fns...)
	return RegisterRoutesWithOptions(router, basePath, opts)
}

// RegisterRoutesWithOptions registers handlers using a pre-built Options
// value and returns the form path.
func RegisterRoutesWithOptions(router gin.IRoutes, basePath string, opts Options) (string, error) {
	if router == nil {
		return "", fmt.Errorf("web: missing router")
	}
	opts = NewOptions(func(o *Options) { *o = opts })
	h, err := newHandler(opts)
	if err != nil {
		return "", err
	}

	pattern := mountPath(basePath, opts.RoutePath)
	h.action = pattern
	router.GET(pattern, h.guarded(h.showForm))
	router.POST(pattern, h.guarded(h.submitForm))
	router.GET(mountPath(basePath, opts.HealthPath), h.health)
	return pattern, nil
}

func mountPath(basePath, routePath string) string {
	basePath = strings.TrimSpace(basePath)
	routePath = strings.TrimSpace(routePath)

	if routePath == "" {
		routePath = "/"
	}
	if !strings.HasPrefix(routePath, "/") {
		routePath = "/" + routePath
	}

	if basePath == "" || basePath == "/" {
		return routePath
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	basePath = strings.TrimRight(basePath, "/")
	if routePath == "/" {
		return basePath
	}
	return basePath + routePath
}
