package price

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount extracts a monetary value from rendered price text. It accepts
// both comma-decimal ("1.234,56 €") and dot-decimal ("$1,234.56") notation.
// Anything unparsable yields zero: a bad price display is an absent signal,
// not an error.
func ParseAmount(text string) decimal.Decimal {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',':
			return r
		default:
			return -1
		}
	}, text)
	cleaned = strings.Trim(cleaned, ".,")
	if cleaned == "" {
		return decimal.Zero
	}

	lastDot := strings.LastIndexByte(cleaned, '.')
	lastComma := strings.LastIndexByte(cleaned, ',')

	var normalized string
	switch {
	case lastDot < 0 && lastComma < 0:
		normalized = cleaned
	case lastDot >= 0 && lastComma >= 0:
		// Later separator is the decimal mark, the other is grouping.
		if lastComma > lastDot {
			normalized = strings.ReplaceAll(cleaned[:lastComma], ".", "") + "." + cleaned[lastComma+1:]
		} else {
			normalized = strings.ReplaceAll(cleaned[:lastDot], ",", "") + "." + cleaned[lastDot+1:]
		}
	default:
		sep := lastDot
		if sep < 0 {
			sep = lastComma
		}
		frac := cleaned[sep+1:]
		head := cleaned[:sep]
		if len(frac) == 3 && !strings.ContainsAny(head, ".,") && head != "" {
			// Single separator with exactly three trailing digits reads as
			// grouping ("1.234" -> 1234), matching storefront conventions.
			normalized = head + frac
		} else {
			normalized = strings.ReplaceAll(strings.ReplaceAll(head, ".", ""), ",", "") + "." + frac
		}
	}
	normalized = strings.ReplaceAll(normalized, ",", "")

	d, err := decimal.NewFromString(normalized)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}
