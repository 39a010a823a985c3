package htmltable

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/fastygo/contracts/internal/pricing"
	"github.com/fastygo/contracts/pkg/format"
)

// Labels names the rows the mutator looks for.
type Labels struct {
	Plan       string
	Investment string
	DueDates   string
}

// DefaultLabels matches the pt-BR software contract templates.
func DefaultLabels() Labels {
	return Labels{
		Plan:       "Plano contratado",
		Investment: "Investimento mensal",
		DueDates:   "Vencimento",
	}
}

// Input carries the payment terms applied to a rendered document.
type Input struct {
	MonthlyValue *float64
	// Installments are the already formatted installment lines.
	Installments []string
}

// Report lists what Apply changed.
type Report struct {
	Tier                *pricing.Tier `json:"tier,omitempty"`
	TierIndex           int           `json:"tier_index"`
	PlanMarked          bool          `json:"plan_marked"`
	InvestmentRewritten bool          `json:"investment_rewritten"`
	DetailsRewritten    bool          `json:"details_rewritten"`
	DueDatesInjected    bool          `json:"due_dates_injected"`
}

// Mutator applies tier, price and schedule edits to tier-priced templates.
type Mutator struct {
	tiers  pricing.Table
	labels Labels
}

// New builds a Mutator. Zero-value arguments fall back to the defaults.
func New(tiers pricing.Table, labels Labels) *Mutator {
	if len(tiers) == 0 {
		tiers = pricing.DefaultTable()
	}
	def := DefaultLabels()
	if labels.Plan == "" {
		labels.Plan = def.Plan
	}
	if labels.Investment == "" {
		labels.Investment = def.Investment
	}
	if labels.DueDates == "" {
		labels.DueDates = def.DueDates
	}
	return &Mutator{tiers: tiers, labels: labels}
}

// Tiers exposes the configured tier table.
func (m *Mutator) Tiers() pricing.Table {
	return m.tiers
}

// Apply rewrites html for the given payment terms. Rows that cannot be found
// are left untouched.
func (m *Mutator) Apply(html string, in Input) (string, Report) {
	report := Report{TierIndex: -1}

	if in.MonthlyValue != nil {
		monthly := *in.MonthlyValue
		if idx, ok := m.tiers.Select(monthly); ok {
			tier := m.tiers[idx]
			report.Tier = &tier
			report.TierIndex = idx

			html, report.PlanMarked = m.markPlan(html, m.tiers.Column(idx))
			html, report.DetailsRewritten = rewriteDetails(html, tier, monthly)
		}
		html, report.InvestmentRewritten = m.rewriteInvestment(html, monthly)
	}

	if len(in.Installments) > 0 {
		html, report.DueDatesInjected = m.injectDueDates(html, in.Installments)
	}

	return html, report
}

func (m *Mutator) markPlan(html string, column int) (string, bool) {
	match := RowMatch{Label: m.labels.Plan, FirstCellOnly: true, MinCells: len(m.tiers) + 1}
	return ReplaceRow(html, match, func(i, _ int, inner string) string {
		if i == 0 {
			return inner
		}
		return MarkCheckbox(inner, i == column)
	})
}

func (m *Mutator) rewriteInvestment(html string, monthly float64) (string, bool) {
	amount := format.FormatCurrency(monthly)
	match := RowMatch{Label: m.labels.Investment, FirstCellOnly: true, MinCells: 2}
	return ReplaceRow(html, match, func(i, count int, inner string) string {
		if i != count-1 {
			return inner
		}
		return RewriteAmount(inner, amount)
	})
}

func (m *Mutator) injectDueDates(html string, lines []string) (string, bool) {
	label := LabelPattern(m.labels.DueDates)
	match := RowMatch{Label: m.labels.DueDates, MinCells: 1}
	done := false
	out, _ := ReplaceRow(html, match, func(_, _ int, inner string) string {
		if done {
			return inner
		}
		prefix, block, ok := dueDatePrefix(inner, label)
		if !ok {
			return inner
		}
		done = true
		if block {
			return prefix + "<p>" + strings.Join(lines, "<br>") + "</p>"
		}
		return prefix + strings.Join(lines, "<br>")
	})
	return out, done
}

var markerRE = regexp.MustCompile(`\(\s*(?:[xX]|&nbsp;|&#160;)?\s*\)`)

// MarkCheckbox clears every "(X)" / "( )" marker in a cell and, when checked,
// marks the first one. A checked cell without a marker gets one appended.
func MarkCheckbox(inner string, checked bool) string {
	cleared := markerRE.ReplaceAllLiteralString(inner, "( )")
	if !checked {
		return cleared
	}
	loc := markerRE.FindStringIndex(cleared)
	if loc == nil {
		return cleared + " (X)"
	}
	return cleared[:loc[0]] + "(X)" + cleared[loc[1]:]
}

var (
	amountRE         = regexp.MustCompile(`R\$\s*(?:&nbsp;|&#160;)?\s*-?\d[\d.]*(?:,\d{1,2})?`)
	firstParagraphRE = regexp.MustCompile(`(?is)<p\b[^>]*>(.*?)</p>`)
	lineBreakRE      = regexp.MustCompile(`(?i)<br\s*/?>`)
	unitSuffixRE     = regexp.MustCompile(`(?i)(/\s*m[êe]s|por\s+m[êe]s|mensais|mensal)`)
	tagRE            = regexp.MustCompile(`<[^>]*>`)
)

// RewriteAmount replaces the monetary value of a cell body. Strategies, first
// match wins: an existing currency amount; the first paragraph's body; the
// text before the first line break; the whole body, keeping a unit suffix such
// as "mensais".
func RewriteAmount(inner, amount string) string {
	if loc := amountRE.FindStringIndex(inner); loc != nil {
		return inner[:loc[0]] + amount + inner[loc[1]:]
	}
	if m := firstParagraphRE.FindStringSubmatchIndex(inner); m != nil {
		return inner[:m[2]] + amount + inner[m[3]:]
	}
	if loc := lineBreakRE.FindStringIndex(inner); loc != nil {
		return amount + inner[loc[0]:]
	}
	if suffix := unitSuffixRE.FindString(tagRE.ReplaceAllString(inner, " ")); suffix != "" {
		return amount + " " + suffix
	}
	return amount
}

var (
	tagTokenRE   = regexp.MustCompile(`<(/?)([a-zA-Z][a-zA-Z0-9]*)\b[^>]*?(/?)>`)
	leadingBrRE  = regexp.MustCompile(`(?i)^\s*<br\s*/?>`)
	voidElements = map[string]bool{"br": true, "img": true, "hr": true, "input": true, "wbr": true, "col": true}
	blockElems   = map[string]bool{"p": true, "div": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true, "li": true}
)

// findLabel returns the first label match that starts in text content rather
// than inside a tag.
func findLabel(inner string, label *regexp.Regexp) []int {
	for _, loc := range label.FindAllStringIndex(inner, -1) {
		if !insideTag(inner, loc[0]) {
			return loc
		}
	}
	return nil
}

func insideTag(s string, i int) bool {
	return strings.LastIndex(s[:i], "<") > strings.LastIndex(s[:i], ">")
}

// dueDatePrefix returns the part of a due-date cell kept before the
// installment list: everything through the end tags of the elements that
// enclose the label, an optional colon and a following line break. block
// reports that the label sits in a block element, so the list gets its own
// paragraph.
func dueDatePrefix(inner string, label *regexp.Regexp) (prefix string, block bool, ok bool) {
	loc := findLabel(inner, label)
	if loc == nil {
		return "", false, false
	}

	var open []string
	for _, m := range tagTokenRE.FindAllStringSubmatch(inner[:loc[1]], -1) {
		name := strings.ToLower(m[2])
		switch {
		case voidElements[name] || m[3] == "/":
		case m[1] == "":
			open = append(open, name)
		default:
			for i := len(open) - 1; i >= 0; i-- {
				if open[i] == name {
					open = open[:i]
					break
				}
			}
		}
	}

	end := loc[1]
	lastClosed := ""
	if len(open) > 0 {
		var nested []string
		for _, m := range tagTokenRE.FindAllStringSubmatchIndex(inner[end:], -1) {
			name := strings.ToLower(inner[end+m[4] : end+m[5]])
			closing := m[3] > m[2]
			selfClosing := m[7] > m[6]
			if voidElements[name] || selfClosing {
				continue
			}
			if !closing {
				nested = append(nested, name)
				continue
			}
			if n := len(nested); n > 0 && nested[n-1] == name {
				nested = nested[:n-1]
				continue
			}
			if open[len(open)-1] != name {
				continue
			}
			open = open[:len(open)-1]
			lastClosed = name
			if len(open) == 0 {
				end += m[1]
				break
			}
		}
		if len(open) > 0 {
			// Unclosed markup: keep the whole cell rather than cut a tag pair.
			end = len(inner)
			lastClosed = ""
		}
	}

	if rest := inner[end:]; strings.HasPrefix(strings.TrimLeft(rest, " "), ":") {
		end += strings.Index(rest, ":") + 1
	}

	if blockElems[lastClosed] {
		return inner[:end], true, true
	}
	if br := leadingBrRE.FindString(inner[end:]); br != "" {
		return inner[:end+len(br)], false, true
	}
	return inner[:end] + "<br>", false, true
}

var (
	hoursRE = regexp.MustCompile(`(?i)(equivalente\s+a\s+(?:<(?:strong|b|em)\b[^>]*>\s*)?)\d+(\s*(?:</(?:strong|b|em)>\s*)?horas)`)
	zeroRE  = regexp.MustCompile(`(?i)(investimento\s+mensal\s+de\s+(?:<(?:strong|b|em)\b[^>]*>\s*)?)R\$\s*(?:&nbsp;|&#160;)?\s*0+(?:[.,]0+)*`)
)

// rewriteDetails fills the hours-equivalent and monthly-investment sentences
// of the pricing section, in emphasized or plain phrasing.
func rewriteDetails(html string, tier pricing.Tier, monthly float64) (string, bool) {
	changed := false
	hours := strconv.Itoa(tier.MonthlyHours)
	html = replaceSubmatch(hoursRE, html, func(groups []string) string {
		changed = true
		return groups[1] + hours + groups[2]
	})
	amount := format.FormatCurrency(monthly)
	html = replaceSubmatch(zeroRE, html, func(groups []string) string {
		changed = true
		return groups[1] + amount
	})
	return html, changed
}

// replaceSubmatch is ReplaceAllStringFunc with access to capture groups and no
// "$" expansion in the replacement.
func replaceSubmatch(re *regexp.Regexp, src string, fn func(groups []string) string) string {
	return re.ReplaceAllStringFunc(src, func(match string) string {
		return fn(re.FindStringSubmatch(match))
	})
}
