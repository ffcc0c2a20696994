package adapter

import (
	"strconv"
	"strings"
)

// ParseNumeric coerces a currency-formatted string to a float. Everything
// except digits, '.' and '-' is stripped before parsing, so "$1,234.56" and
// "€ -500" both parse. The second return is false when nothing parseable
// remains; callers record that as a warning and use zero.
func ParseNumeric(text string) (float64, bool) {
	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
