package render

import (
	"strings"

	"github.com/goliatone/go-accountform/pkg/form"
)

// MapValidation converts a validation result into field errors keyed by the
// input name. Valid results map to nil.
func MapValidation(result form.ValidationResult) map[string][]string {
	if result.Valid() {
		return nil
	}
	out := make(map[string][]string, len(result.Fields()))
	for _, field := range result.Fields() {
		if msgs := normalizeMessages([]string{result.Message(field)}); msgs != nil {
			out[field.String()] = msgs
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// MergeFieldErrors combines error maps, keeping only names the form knows
// and dropping blank or duplicate messages while preserving order.
func MergeFieldErrors(maps ...map[string][]string) map[string][]string {
	out := make(map[string][]string)
	for _, m := range maps {
		for name, msgs := range m {
			field, ok := form.ParseField(name)
			if !ok {
				continue
			}
			key := field.String()
			out[key] = normalizeMessages(append(out[key], msgs...))
			if out[key] == nil {
				delete(out, key)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
