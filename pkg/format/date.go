package format

import (
	"strconv"
	"time"
)

var monthNames = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// DateToWords renders t as "15 de novembro de 2026".
func DateToWords(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return strconv.Itoa(t.Day()) + " de " + MonthName(t.Month()) + " de " + strconv.Itoa(t.Year())
}

// MonthName returns the lower-case Portuguese month name.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m-1]
}

// ShortDate renders t as DD/MM/YYYY.
func ShortDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

// MonthsToWords renders a month count as "doze meses" or "um mês".
func MonthsToWords(months int) string {
	if months == 1 {
		return "um mês"
	}
	return NumberToWords(int64(months)) + " meses"
}

// Months renders a month count as "12 meses" or "1 mês".
func Months(months int) string {
	if months == 1 {
		return "1 mês"
	}
	return strconv.Itoa(months) + " meses"
}
