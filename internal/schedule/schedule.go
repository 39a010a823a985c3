// Package schedule computes monthly installment dates for contract payment
// terms.
package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fastygo/contracts/pkg/format"
)

var (
	isoDateRE   = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	localDateRE = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2}|\d{4})$`)
	dayRE       = regexp.MustCompile(`^\d{1,2}$`)
)

// Installment is one scheduled payment.
type Installment struct {
	Number int       `json:"number"`
	Date   time.Time `json:"date"`
}

// Label renders "1ª parcela: 15/11/2026".
func (i Installment) Label() string {
	return fmt.Sprintf("%dª parcela: %s", i.Number, format.ShortDate(i.Date))
}

// ResolveFirstPayment interprets input as the first payment anchor. Accepted
// inputs are time.Time, *time.Time, a day of month (int or digit string), an
// ISO YYYY-MM-DD string or a DD/MM/YY(YY) string. A bare day rolls forward
// from today: this month when today's day has not passed it, next month
// otherwise. ok is false when the input cannot be interpreted.
func ResolveFirstPayment(input interface{}, today time.Time) (time.Time, bool) {
	switch v := input.(type) {
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return dateOnly(v), true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return ResolveFirstPayment(*v, today)
	case int:
		return nextDay(v, today)
	case int64:
		return nextDay(int(v), today)
	case float64:
		if v != float64(int(v)) {
			return time.Time{}, false
		}
		return nextDay(int(v), today)
	case *string:
		if v == nil {
			return time.Time{}, false
		}
		return parseString(*v, today)
	case string:
		return parseString(v, today)
	}
	return time.Time{}, false
}

func parseString(raw string, today time.Time) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	switch {
	case s == "":
		return time.Time{}, false
	case dayRE.MatchString(s):
		day, _ := strconv.Atoi(s)
		return nextDay(day, today)
	case isoDateRE.MatchString(s):
		m := isoDateRE.FindStringSubmatch(s)
		return buildDate(m[1], m[2], m[3])
	case localDateRE.MatchString(s):
		m := localDateRE.FindStringSubmatch(s)
		year := m[3]
		if len(year) == 2 {
			year = "20" + year
		}
		return buildDate(year, m[2], m[1])
	}
	return time.Time{}, false
}

func buildDate(year, month, day string) (time.Time, bool) {
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	if m < 1 || m > 12 || d < 1 || d > daysIn(y, time.Month(m)) {
		return time.Time{}, false
	}
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC), true
}

func nextDay(day int, today time.Time) (time.Time, bool) {
	if day < 1 || day > 31 {
		return time.Time{}, false
	}
	if today.IsZero() {
		today = time.Now()
	}
	y, m, d := today.Date()
	if d > day {
		m++
		if m > time.December {
			m = time.January
			y++
		}
	}
	if last := daysIn(y, m); day > last {
		day = last
	}
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC), true
}

// AddMonthsClamped adds n calendar months to t, clamping the day to the last
// day of the resulting month.
func AddMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	total := int(m) - 1 + n
	y += total / 12
	total %= 12
	if total < 0 {
		total += 12
		y--
	}
	month := time.Month(total + 1)
	if last := daysIn(y, month); d > last {
		d = last
	}
	hh, mm, ss := t.Clock()
	return time.Date(y, month, d, hh, mm, ss, t.Nanosecond(), t.Location())
}

// Build produces count installments one calendar month apart starting at
// first. Each date is computed from first so clamping never drifts.
func Build(first time.Time, count int) []Installment {
	if count <= 0 || first.IsZero() {
		return nil
	}
	out := make([]Installment, count)
	for i := 0; i < count; i++ {
		out[i] = Installment{Number: i + 1, Date: AddMonthsClamped(first, i)}
	}
	return out
}

// Plan resolves the anchor and builds the installments in one step. An empty
// result means there is nothing to render.
func Plan(anchor interface{}, count int, today time.Time) []Installment {
	if count <= 0 {
		return nil
	}
	first, ok := ResolveFirstPayment(anchor, today)
	if !ok {
		return nil
	}
	return Build(first, count)
}

// Labels renders each installment's label.
func Labels(installments []Installment) []string {
	out := make([]string, len(installments))
	for i, inst := range installments {
		out[i] = inst.Label()
	}
	return out
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
