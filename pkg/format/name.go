package format

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var nameParticles = map[string]struct{}{
	"de":  {},
	"do":  {},
	"da":  {},
	"dos": {},
	"das": {},
}

// FormatPersonName capitalizes every token of a name and keeps linking
// particles (de, do, da, dos, das) in lower case.
func FormatPersonName(raw string) string {
	tokens := strings.Fields(raw)
	if len(tokens) == 0 {
		return ""
	}

	// cases.Caser is stateful, build one per call.
	title := cases.Title(language.BrazilianPortuguese)
	lower := cases.Lower(language.BrazilianPortuguese)

	for i, token := range tokens {
		lowered := lower.String(token)
		if _, ok := nameParticles[lowered]; ok {
			tokens[i] = lowered
			continue
		}
		tokens[i] = title.String(token)
	}
	return strings.Join(tokens, " ")
}

// Upper returns the pt-BR upper-case form of value.
func Upper(value string) string {
	return cases.Upper(language.BrazilianPortuguese).String(strings.TrimSpace(value))
}
