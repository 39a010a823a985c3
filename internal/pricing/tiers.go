// Package pricing holds the tier table used by tier-priced contract templates.
package pricing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Tier is one pricing level.
type Tier struct {
	Name         string  `json:"name"`
	MonthlyPrice float64 `json:"monthly_price"`
	MonthlyHours int     `json:"monthly_hours"`
}

// Table is an ordered list of tiers. Position i maps to table column i+1 in
// tier-priced templates; column 0 holds the row label.
type Table []Tier

// DefaultTable is used when no tier table is configured.
func DefaultTable() Table {
	return Table{
		{Name: "Essencial", MonthlyPrice: 5000, MonthlyHours: 40},
		{Name: "Profissional", MonthlyPrice: 10000, MonthlyHours: 80},
		{Name: "Avançado", MonthlyPrice: 15000, MonthlyHours: 120},
		{Name: "Premium", MonthlyPrice: 20000, MonthlyHours: 160},
	}
}

// Select returns the index of the tier whose price is closest to monthly.
// Ties keep the earlier tier. ok is false for an empty table.
func (t Table) Select(monthly float64) (int, bool) {
	if len(t) == 0 {
		return 0, false
	}
	best := 0
	bestDiff := math.Abs(monthly - t[0].MonthlyPrice)
	for i := 1; i < len(t); i++ {
		diff := math.Abs(monthly - t[i].MonthlyPrice)
		if diff < bestDiff {
			best, bestDiff = i, diff
		}
	}
	return best, true
}

// Column returns the table column of tier index i.
func (t Table) Column(i int) int {
	return i + 1
}

// ParseTable reads "name:price:hours" entries separated by commas or
// semicolons.
func ParseTable(raw string) (Table, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty tier table")
	}
	entries := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' })
	table := make(Table, 0, len(entries))
	for _, entry := range entries {
		parts := strings.Split(strings.TrimSpace(entry), ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("tier %q: want name:price:hours", entry)
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("tier %q price: %w", entry, err)
		}
		hours, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil {
			return nil, fmt.Errorf("tier %q hours: %w", entry, err)
		}
		table = append(table, Tier{
			Name:         strings.TrimSpace(parts[0]),
			MonthlyPrice: price,
			MonthlyHours: hours,
		})
	}
	return table, nil
}
