package pricing

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultKeywords mark a template as tier-priced.
var DefaultKeywords = []string{"software"}

// IsTierPriced reports whether any keyword occurs in the template name or
// description. Matching ignores case and accents.
func IsTierPriced(name, description string, keywords []string) bool {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	haystack := fold(name + " " + description)
	for _, kw := range keywords {
		if kw = fold(strings.TrimSpace(kw)); kw != "" && strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(out)
}
