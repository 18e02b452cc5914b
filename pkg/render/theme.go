package render

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// DefaultTokens is the stock palette: a blue to purple gradient with purple
// field errors and green success text.
var DefaultTokens = map[string]string{
	"gradient-from": "#3b82f6",
	"gradient-to":   "#9333ea",
	"label":         "#9333ea",
	"error":         "#a855f7",
	"success":       "#22c55e",
	"surface":       "#ffffff",
	"text":          "#111827",
}

// ThemeOptions describes the palette selection.
type ThemeOptions struct {
	Name     string
	Variant  string
	Tokens   map[string]string
	Variants map[string]map[string]string
}

// ResolveTheme builds a go-theme manifest from opts, registers it and
// derives the renderer configuration for the selected variant. Variant
// tokens override base tokens, which override DefaultTokens.
func ResolveTheme(opts ThemeOptions) (*theme.RendererConfig, error) {
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		name = "default"
	}

	manifest := &theme.Manifest{
		Name:     name,
		Version:  "1.0.0",
		Tokens:   mergeTokens(DefaultTokens, opts.Tokens),
		Variants: make(map[string]theme.Variant, len(opts.Variants)),
	}
	for variant, tokens := range opts.Variants {
		manifest.Variants[variant] = theme.Variant{Tokens: mergeTokens(nil, tokens)}
	}

	registry := theme.NewRegistry()
	if err := registry.Register(manifest); err != nil {
		return nil, fmt.Errorf("render: register theme %q: %w", name, err)
	}

	variant := strings.TrimSpace(opts.Variant)
	tokens := manifest.Tokens
	if variant != "" {
		v, ok := manifest.Variants[variant]
		if !ok {
			return nil, fmt.Errorf("render: theme %q has no variant %q", name, variant)
		}
		tokens = mergeTokens(tokens, v.Tokens)
	}

	return &theme.RendererConfig{
		Theme:   name,
		Variant: variant,
		Tokens:  tokens,
		CSSVars: cssVars(tokens),
	}, nil
}

func mergeTokens(base, override map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		if key := strings.TrimSpace(k); key != "" {
			out[key] = strings.TrimSpace(v)
		}
	}
	return out
}

var (
	tokenKeyPattern   = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	tokenValuePattern = regexp.MustCompile(`^[a-zA-Z0-9#%.,() _-]+$`)
)

// cssVars maps tokens to custom properties. Tokens whose key or value could
// break out of a declaration are dropped.
func cssVars(tokens map[string]string) map[string]string {
	out := make(map[string]string, len(tokens))
	for key, value := range tokens {
		if !tokenKeyPattern.MatchString(key) || !tokenValuePattern.MatchString(value) {
			continue
		}
		out["--"+key] = value
	}
	return out
}

// cssVarsStyle renders custom properties as a sorted declaration list.
func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteByte(';')
	}
	return b.String()
}
