// Package placeholder finds and substitutes {{KEY}} tokens in HTML documents.
//
// Tokens whose key has no value are left in the output verbatim so authors can
// see which fields are still missing.
package placeholder

import (
	"regexp"
	"strings"
)

var tokenRE = regexp.MustCompile(`\{\{([A-Z0-9_]{1,120})\}\}`)

// Variables maps placeholder keys to their rendered values.
type Variables map[string]string

// Keys returns the unique placeholder keys of html in first-seen order.
func Keys(html string) []string {
	matches := tokenRE.FindAllStringSubmatch(html, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	keys := make([]string, 0, len(matches))
	for _, m := range matches {
		key := m[1]
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}

// Render substitutes every token whose key is present in vars. An empty value
// still counts as present.
func Render(html string, vars Variables) string {
	if len(vars) == 0 || !strings.Contains(html, "{{") {
		return html
	}
	return tokenRE.ReplaceAllStringFunc(html, func(token string) string {
		key := token[2 : len(token)-2]
		if value, ok := vars[key]; ok {
			return value
		}
		return token
	})
}

// Unresolved returns the keys that survive rendering html with vars.
func Unresolved(html string, vars Variables) []string {
	return Keys(Render(html, vars))
}

// Merge layers overrides on top of base; overrides win on key collision.
func Merge(base Variables, overrides map[string]string) Variables {
	out := make(Variables, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// Without drops keys starting with prefix.
func Without(keys []string, prefix string) []string {
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		if strings.HasPrefix(key, prefix) {
			continue
		}
		out = append(out, key)
	}
	return out
}
