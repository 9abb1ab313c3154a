package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AmountPrecision is the number of decimals used for display.
const AmountPrecision = 2

// FormatAmount renders an amount the way the back office prints it:
// two decimals, a comma as decimal separator and a space between
// thousands groups.
// Example: 23500 returns "23 500,00"
// Example: -1234.5 returns "-1 234,50"
func FormatAmount(amount decimal.Decimal) string {
	return FormatWithPrecision(amount, AmountPrecision)
}

// FormatWithPrecision formats an amount with the given number of decimals
// using the same grouping as FormatAmount.
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	s := amount.StringFixed(int32(precision))
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteByte(',')
		b.WriteString(frac)
	}
	return b.String()
}
