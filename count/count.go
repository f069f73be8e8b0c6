// Package count parses human-readable abbreviated counts ("1.2K", "3M", "1,234").
package count

import (
	"math"
	"strconv"
	"strings"
)

// Parse converts an abbreviated stat string to an integer. A trailing K or M
// (case-insensitive) multiplies by a thousand or a million, commas are treated
// as thousands separators, and the result is rounded to the nearest integer.
// Unparseable or empty input yields 0; Parse never fails.
func Parse(s string) int {
	cleaned := strings.ToUpper(strings.TrimSpace(s))
	if cleaned == "" {
		return 0
	}

	multiplier := 1.0
	switch {
	case strings.Contains(cleaned, "K"):
		multiplier = 1_000
		cleaned = strings.ReplaceAll(cleaned, "K", "")
	case strings.Contains(cleaned, "M"):
		multiplier = 1_000_000
		cleaned = strings.ReplaceAll(cleaned, "M", "")
	}

	cleaned = strings.ReplaceAll(cleaned, ",", "")
	n, err := strconv.ParseFloat(strings.TrimSpace(cleaned), 64)
	if err != nil {
		return 0
	}

	return int(math.Round(n * multiplier))
}
