package render

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	introPolicyOnce sync.Once
	introPolicy     *bluemonday.Policy
)

// SanitizeIntro strips everything but basic inline and paragraph markup.
func SanitizeIntro(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(introSanitizer().Sanitize(trimmed))
}

func introSanitizer() *bluemonday.Policy {
	introPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("p", "br", "strong", "em", "b", "i", "small", "span", "ul", "ol", "li")
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowURLSchemes("https", "mailto")
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
		policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("p", "span")
		introPolicy = policy
	})
	return introPolicy
}
