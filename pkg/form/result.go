package form

import (
	"sort"
	"strings"
)

// ValidationResult is either valid or holds one message per failing field.
type ValidationResult struct {
	errors map[Field]string
}

// Valid reports whether every field passed.
func (r ValidationResult) Valid() bool {
	return len(r.errors) == 0
}

// Message returns the message for field, or "" when it passed.
func (r ValidationResult) Message(field Field) string {
	return r.errors[field]
}

// Fields returns the failing fields in render order.
func (r ValidationResult) Fields() []Field {
	if len(r.errors) == 0 {
		return nil
	}
	out := make([]Field, 0, len(r.errors))
	for _, field := range Fields {
		if _, ok := r.errors[field]; ok {
			out = append(out, field)
		}
	}
	return out
}

// Map returns the messages keyed by wire name. The map is a copy.
func (r ValidationResult) Map() map[string]string {
	if len(r.errors) == 0 {
		return nil
	}
	out := make(map[string]string, len(r.errors))
	for field, msg := range r.errors {
		out[field.String()] = msg
	}
	return out
}

// Err returns a *ValidationError when the result is invalid.
func (r ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}
	return &ValidationError{Result: r}
}

// ValidationError carries an invalid result through error returns.
type ValidationError struct {
	Result ValidationResult
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "form: validation failed"
	}
	parts := make([]string, 0, len(e.Result.errors))
	for field, msg := range e.Result.errors {
		parts = append(parts, field.String()+": "+msg)
	}
	sort.Strings(parts)
	return "form: validation failed: " + strings.Join(parts, "; ")
}
