package format

import (
	"math"
	"strconv"
	"strings"
)

var (
	unitWords = [...]string{
		"zero", "um", "dois", "três", "quatro", "cinco", "seis", "sete", "oito", "nove",
		"dez", "onze", "doze", "treze", "quatorze", "quinze", "dezesseis", "dezessete", "dezoito", "dezenove",
	}
	tenWords = [...]string{
		"", "", "vinte", "trinta", "quarenta", "cinquenta", "sessenta", "setenta", "oitenta", "noventa",
	}
	hundredWords = [...]string{
		"", "cento", "duzentos", "trezentos", "quatrocentos", "quinhentos", "seiscentos", "setecentos", "oitocentos", "novecentos",
	}
)

type scaleWord struct {
	value    int64
	singular string
	plural   string
}

var scales = []scaleWord{
	{value: 1_000_000_000_000, singular: "trilhão", plural: "trilhões"},
	{value: 1_000_000_000, singular: "bilhão", plural: "bilhões"},
	{value: 1_000_000, singular: "milhão", plural: "milhões"},
}

// MaxWords bounds the magnitude NumberToWords spells out. Larger values,
// which have no place in a contract amount, are echoed as digits.
const MaxWords int64 = 1_000_000_000_000_000 - 1

// NumberToWords spells out n in Portuguese.
func NumberToWords(n int64) string {
	if n > MaxWords || n < -MaxWords {
		return strconv.FormatInt(n, 10)
	}
	if n == 0 {
		return unitWords[0]
	}
	if n < 0 {
		return "menos " + NumberToWords(-n)
	}
	return spell(n)
}

func spell(n int64) string {
	for _, s := range scales {
		if n < s.value {
			continue
		}
		count, rest := n/s.value, n%s.value
		head := spell(count) + " " + s.plural
		if count == 1 {
			head = "um " + s.singular
		}
		return joinGroups(head, rest)
	}

	if n >= 1000 {
		count, rest := n/1000, n%1000
		head := "mil"
		if count > 1 {
			head = spell(count) + " mil"
		}
		return joinGroups(head, rest)
	}

	return spellHundreds(int(n))
}

func spellHundreds(n int) string {
	switch {
	case n == 100:
		return "cem"
	case n < 20:
		return unitWords[n]
	case n < 100:
		if n%10 == 0 {
			return tenWords[n/10]
		}
		return tenWords[n/10] + " e " + unitWords[n%10]
	default:
		if n%100 == 0 {
			return hundredWords[n/100]
		}
		return hundredWords[n/100] + " e " + spellHundreds(n%100)
	}
}

// joinGroups uses "e" before a single-component remainder ("mil e cem",
// "um milhão e quinhentos mil") and a plain space otherwise.
func joinGroups(head string, rest int64) string {
	if rest == 0 {
		return head
	}
	if singleComponent(rest) {
		return head + " e " + spell(rest)
	}
	return head + " " + spell(rest)
}

func singleComponent(n int64) bool {
	switch {
	case n < 100:
		return true
	case n < 1000:
		return n%100 == 0
	case n%1000 == 0:
		return singleComponent(n / 1000)
	default:
		return false
	}
}

// CurrencyToWords spells out a monetary amount in reais and centavos.
func CurrencyToWords(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "zero reais"
	}
	prefix := ""
	if value < 0 {
		prefix = "menos "
		value = -value
	}

	if value > float64(MaxWords) {
		return FormatCurrency(value)
	}

	cents := int64(math.Round(value * 100))
	reais, centavos := cents/100, cents%100
	if reais == 0 && centavos == 0 {
		return "zero reais"
	}

	parts := make([]string, 0, 2)
	if reais > 0 {
		parts = append(parts, reaisWords(reais))
	}
	if centavos > 0 {
		unit := "centavos"
		if centavos == 1 {
			unit = "centavo"
		}
		parts = append(parts, spell(centavos)+" "+unit)
	}
	return prefix + strings.Join(parts, " e ")
}

func reaisWords(reais int64) string {
	if reais == 1 {
		return "um real"
	}
	words := NumberToWords(reais)
	// "um milhão de reais", "dois bilhões de reais"
	if reais%1_000_000 == 0 {
		return words + " de reais"
	}
	return words + " reais"
}
