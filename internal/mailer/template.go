package mailer

import (
	"regexp"
	"strings"
)

var placeholderRx = regexp.MustCompile(`\{\{([a-zA-Z0-9_]+)\}\}`)

// Render replaces every {{key}} placeholder in s with the mapped value.
// Unknown keys are left verbatim. Substitution is a single pass: resolved
// values are never re-scanned, so values containing {{...}} cannot trigger
// recursive re-substitution.
func Render(s string, vars map[string]string) string {
	if !strings.Contains(s, "{{") {
		return s
	}
	return placeholderRx.ReplaceAllStringFunc(s, func(match string) string {
		key := placeholderRx.FindStringSubmatch(match)[1]
		if v, ok := vars[key]; ok {
			return v
		}
		return match
	})
}

// RenderAll renders each entry of a recipient list independently.
func RenderAll(list []string, vars map[string]string) []string {
	if len(list) == 0 {
		return nil
	}
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = Render(s, vars)
	}
	return out
}
