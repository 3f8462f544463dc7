// Package normalize converts raw extracted field text into canonical typed
// values. All functions are pure and locale-aware.
package normalize

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var nonPriceChars = regexp.MustCompile(`[^\d.,]`)

// Price parses a human-formatted price into a decimal. It handles both
// European ("1.234,56") and American ("1,234.56") separator conventions: when
// both separators appear, the later one is the decimal separator; a lone
// comma is a decimal separator only when at most two digits follow it.
// ok is false when no parseable amount remains, never a zero sentinel.
func Price(raw string) (decimal.Decimal, bool) {
	cleaned := nonPriceChars.ReplaceAllString(raw, "")
	if cleaned == "" {
		return decimal.Decimal{}, false
	}

	lastComma := strings.LastIndex(cleaned, ",")
	lastDot := strings.LastIndex(cleaned, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			// European: 1.234,56
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		} else {
			// American: 1,234.56
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case lastComma >= 0:
		if len(cleaned)-lastComma-1 <= 2 {
			// Decimal comma: 12,50
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		} else {
			// Thousands comma: 1,234
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	}

	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return value, true
}

// PositivePrice parses like Price but additionally requires a value above
// zero, which is what multi-element price scans look for.
func PositivePrice(raw string) (decimal.Decimal, bool) {
	value, ok := Price(raw)
	if !ok || !value.IsPositive() {
		return decimal.Decimal{}, false
	}
	return value, true
}
