package format

import "strings"

// FormatTaxID11 renders an individual taxpayer number (CPF) as 000.000.000-00.
func FormatTaxID11(value string) string {
	digits := onlyDigits(value)
	if len(digits) != 11 {
		return value
	}
	return digits[0:3] + "." + digits[3:6] + "." + digits[6:9] + "-" + digits[9:11]
}

// FormatTaxID14 renders a company taxpayer number (CNPJ) as 00.000.000/0000-00.
func FormatTaxID14(value string) string {
	digits := onlyDigits(value)
	if len(digits) != 14 {
		return value
	}
	return digits[0:2] + "." + digits[2:5] + "." + digits[5:8] + "/" + digits[8:12] + "-" + digits[12:14]
}

// FormatPostalCode renders an 8 digit postal code (CEP) as 00000-000.
func FormatPostalCode(value string) string {
	digits := onlyDigits(value)
	if len(digits) != 8 {
		return value
	}
	return digits[0:5] + "-" + digits[5:8]
}

// FormatTaxID picks the CPF or CNPJ layout by digit count.
func FormatTaxID(value string) string {
	switch len(onlyDigits(value)) {
	case 11:
		return FormatTaxID11(value)
	case 14:
		return FormatTaxID14(value)
	default:
		return value
	}
}

func onlyDigits(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
