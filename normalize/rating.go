package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// ReviewInfo carries the independently optional rating and review count
// recovered from free-form review text.
type ReviewInfo struct {
	Rating      *float64
	ReviewCount *int
}

// Ordered locale-specific patterns. The first successful match wins for each
// value independently.
var ratingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*(?:sur|out of|of|/)\s*5`),
	regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*★`),
	regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*étoiles?`),
	regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*stars?`),
}

var reviewCountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`([\d][\d\s.,]*)\s*avis`),
	regexp.MustCompile(`([\d][\d\s.,]*)\s*reviews?`),
	regexp.MustCompile(`([\d][\d\s.,]*)\s*évaluations?`),
	regexp.MustCompile(`([\d][\d\s.,]*)\s*ratings?`),
}

var nonDigits = regexp.MustCompile(`\D`)

// Reviews recovers a 0-5 rating and a non-negative review count from raw
// review text. Both values are optional and extracted independently.
func Reviews(raw string) ReviewInfo {
	info := ReviewInfo{}
	if strings.TrimSpace(raw) == "" {
		return info
	}
	text := strings.ToLower(raw)

	if rating, ok := RatingValue(text); ok {
		info.Rating = &rating
	}
	if count, ok := ReviewCountValue(text); ok {
		info.ReviewCount = &count
	}
	return info
}

// RatingValue extracts the first pattern match that parses to a value in the
// 0-5 range.
func RatingValue(raw string) (float64, bool) {
	text := strings.ToLower(raw)
	for _, pattern := range ratingPatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		value, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", "."), 64)
		if err != nil || value < 0 || value > 5 {
			continue
		}
		return value, true
	}
	return 0, false
}

// ReviewCountValue extracts the first integer count match, tolerating digit
// group separators ("1,234 reviews", "1 234 avis").
func ReviewCountValue(raw string) (int, bool) {
	text := strings.ToLower(raw)
	for _, pattern := range reviewCountPatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		digits := nonDigits.ReplaceAllString(match[1], "")
		count, err := strconv.Atoi(digits)
		if err != nil || count < 0 {
			continue
		}
		return count, true
	}
	return 0, false
}
