package report

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	snippetPolicyOnce sync.Once
	snippetPolicy     *bluemonday.Policy
)

// sanitizeSnippet keeps form markup and its structural attributes, dropping
// event handlers, styles and anything else that would only add noise.
func sanitizeSnippet(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(snippetSanitizer().Sanitize(trimmed))
}

func snippetSanitizer() *bluemonday.Policy {
	snippetPolicyOnce.Do(func() {
		policy := bluemonday.NewPolicy()
		policy.AllowElements(
			"form", "fieldset", "legend", "label", "input", "select", "optgroup",
			"option", "datalist", "textarea", "button",
		)
		policy.AllowAttrs(
			"id", "name", "type", "for", "accesskey", "tabindex", "required",
			"pattern", "title", "list", "rows", "cols", "value", "label",
			"placeholder", "maxlength", "minlength", "min", "max", "disabled",
			"readonly", "multiple", "autocomplete",
		).Globally()
		snippetPolicy = policy
	})
	return snippetPolicy
}
