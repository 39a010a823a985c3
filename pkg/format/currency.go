package format

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// CurrencySymbol prefixes every formatted amount.
const CurrencySymbol = "R$"

// Locale drives the separators used by FormatCurrency and FormatDecimal.
var Locale = language.BrazilianPortuguese

// FormatCurrency renders value as "R$ 1.234,56".
func FormatCurrency(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return CurrencySymbol + " 0,00"
	}
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}
	return sign + CurrencySymbol + " " + FormatDecimal(value, 2)
}

// FormatDecimal renders value with exactly digits fraction digits and the
// locale's grouping.
func FormatDecimal(value float64, digits int) string {
	if digits < 0 {
		digits = 0
	}
	scale := math.Pow10(digits)
	rounded := math.Round(value*scale) / scale

	p := message.NewPrinter(Locale)
	return p.Sprint(number.Decimal(rounded,
		number.MinFractionDigits(digits),
		number.MaxFractionDigits(digits),
	))
}
