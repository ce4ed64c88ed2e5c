// Package format renders money and shares for labels, legends and tables.
package format

import (
	"fmt"
	"math"
	"strings"
)

// Dollars returns a whole-dollar string with thousands separators (e.g., "-$1,235").
func Dollars(amount float64) string {
	whole := groupThousands(fmt.Sprintf("%.0f", math.Abs(amount)))
	if amount < 0 && whole != "0" {
		return "-$" + whole
	}
	return "$" + whole
}

// Currency returns a currency string with cents (e.g., "$1,234.56").
func Currency(amount float64) string {
	formatted := fmt.Sprintf("%.2f", math.Abs(amount))
	intPart, decPart, _ := strings.Cut(formatted, ".")
	out := "$" + groupThousands(intPart) + "." + decPart
	if amount < 0 {
		return "-" + out
	}
	return out
}

// Percent renders a percentage (already scaled to 0-100) with one decimal, e.g. "4.8%".
func Percent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

func groupThousands(intPart string) string {
	if len(intPart) <= 3 {
		return intPart
	}
	var builder strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			builder.WriteByte(',')
		}
		builder.WriteRune(digit)
	}
	return builder.String()
}
