package views

import (
	"fmt"
	"strings"
)

// formatCount renders an integer total with thousands separators: 1234567
// becomes "1,234,567".
func formatCount(v float64) string {
	return groupDigits(fmt.Sprintf("%.0f", v))
}

// formatMoney renders a currency total: 1234.5 becomes "$1,234.50".
func formatMoney(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	whole, frac, _ := strings.Cut(s, ".")
	return "$" + groupDigits(whole) + "." + frac
}

func groupDigits(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if len(s) > 3 {
		var b strings.Builder
		lead := len(s) % 3
		if lead > 0 {
			b.WriteString(s[:lead])
		}
		for i := lead; i < len(s); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(s[i : i+3])
		}
		s = b.String()
	}
	if neg {
		return "-" + s
	}
	return s
}
