package billing

import (
	"strings"

	"github.com/shopspring/decimal"
)

var onesWords = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tensWords = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy",
	"Eighty", "Ninety",
}

// AmountInWords renders a rupee amount in English words using the Indian
// numbering system, for the printed bill. The fractional part becomes paise,
// rounded to the nearest paisa; a zero paise amount omits the paise clause.
//
//	1234.50 -> "One Thousand Two Hundred Thirty Four Rupees and Fifty Paise Only"
//	100.00  -> "One Hundred Rupees Only"
func AmountInWords(amount decimal.Decimal) string {
	totalPaise := amount.Abs().Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	rupees := totalPaise / 100
	paise := totalPaise % 100

	var b strings.Builder
	if rupees == 0 {
		b.WriteString("Zero")
	} else {
		b.WriteString(integerWords(rupees))
	}
	b.WriteString(" Rupees")

	if paise > 0 {
		b.WriteString(" and ")
		b.WriteString(integerWords(paise))
		b.WriteString(" Paise")
	}

	b.WriteString(" Only")
	return b.String()
}

// integerWords spells out a positive integer with crore, lakh, thousand and
// hundred groupings.
func integerWords(n int64) string {
	parts := make([]string, 0, 4)

	appendGroup := func(value int64, unit string) {
		if value > 0 {
			w := twoDigitWords(value)
			if unit != "" {
				w += " " + unit
			}
			parts = append(parts, w)
		}
	}

	if crore := n / 10000000; crore > 0 {
		// crore counts above 99 recurse
		if crore >= 100 {
			parts = append(parts, integerWords(crore)+" Crore")
		} else {
			appendGroup(crore, "Crore")
		}
		n %= 10000000
	}

	appendGroup(n/100000, "Lakh")
	n %= 100000

	appendGroup(n/1000, "Thousand")
	n %= 1000

	appendGroup(n/100, "Hundred")
	n %= 100

	appendGroup(n, "")

	return strings.Join(parts, " ")
}

func twoDigitWords(n int64) string {
	if n < 20 {
		return onesWords[n]
	}
	if n%10 == 0 {
		return tensWords[n/10]
	}
	return tensWords[n/10] + " " + onesWords[n%10]
}
