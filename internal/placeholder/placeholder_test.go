package placeholder

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	html := `<p>{{CUSTOMER_NAME}} / {{PROJECT_NAME}} / {{CUSTOMER_NAME}} / {{lower}} / {{ SPACED }} / {{}}</p>`
	got := Keys(html)
	want := []string{"CUSTOMER_NAME", "PROJECT_NAME"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Keys mismatch (-want +got):\n%s", diff)
	}
}

func TestKeysLengthLimit(t *testing.T) {
	ok := strings.Repeat("A", 120)
	tooLong := strings.Repeat("B", 121)
	got := Keys("{{" + ok + "}} {{" + tooLong + "}}")
	assert.Equal(t, []string{ok}, got)
}

func TestRenderLeavesUnknownTokens(t *testing.T) {
	html := `<p>{{NAME}} owes {{AMOUNT}} by {{DUE}}</p>`
	out := Render(html, Variables{"NAME": "Ana", "AMOUNT": ""})
	assert.Equal(t, `<p>Ana owes  by {{DUE}}</p>`, out)
}

func TestUnresolvedIsTemplateKeysMinusVariables(t *testing.T) {
	cases := []struct {
		html string
		vars Variables
	}{
		{html: `{{A}}{{B}}{{C}}`, vars: Variables{"B": "x"}},
		{html: `<td>{{A}}</td><td>{{A}}</td>`, vars: Variables{}},
		{html: `no tokens`, vars: Variables{"A": "1"}},
		{html: `{{A}} {{B}}`, vars: Variables{"A": "", "B": "0"}},
	}

	for _, tc := range cases {
		rendered := Render(tc.html, tc.vars)
		got := Unresolved(rendered, tc.vars)

		var want []string
		for _, key := range Keys(tc.html) {
			if _, ok := tc.vars[key]; !ok {
				want = append(want, key)
			}
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("Unresolved(%q) mismatch (-want +got):\n%s", tc.html, diff)
		}
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	vars := Variables{"A": "alpha", "B": "beta"}
	html := `<p>{{A}} {{B}} {{C}}</p>`
	once := Render(html, vars)
	assert.Equal(t, once, Render(once, vars))
}

func TestMergeOverridesWin(t *testing.T) {
	merged := Merge(Variables{"A": "base", "B": "base"}, map[string]string{"B": "override", "C": "new"})
	assert.Equal(t, Variables{"A": "base", "B": "override", "C": "new"}, merged)
}

func TestWithout(t *testing.T) {
	got := Without([]string{"PERSON_NAME", "CUSTOMER_NAME", "PERSON_TAX_ID"}, "PERSON_")
	assert.Equal(t, []string{"CUSTOMER_NAME"}, got)
}
