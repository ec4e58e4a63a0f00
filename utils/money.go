package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney formats an amount as "$12.500,50": dot thousands separator and
// comma decimals (common in Colombia). The amount is rounded to scale here and
// nowhere earlier.
func FormatMoney(amount decimal.Decimal, scale int32) string {
	neg := amount.IsNegative()
	fixed := amount.Abs().StringFixed(scale)

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	if neg && strings.Trim(intPart+fracPart, "0") == "" {
		neg = false
	}

	var b strings.Builder
	b.Grow(len(fixed) + len(intPart)/3 + 2)
	if neg {
		b.WriteString("-$")
	} else {
		b.WriteString("$")
	}

	// Insert separators from the left.
	rem := len(intPart) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(intPart[:rem])
	for i := rem; i < len(intPart); i += 3 {
		b.WriteByte('.')
		b.WriteString(intPart[i : i+3])
	}

	if fracPart != "" {
		b.WriteByte(',')
		b.WriteString(fracPart)
	}
	return b.String()
}

// FormatPercent formats a percentage with two decimals, e.g. "16,00%"
func FormatPercent(p decimal.Decimal) string {
	return strings.Replace(p.StringFixed(2), ".", ",", 1) + "%"
}
