package services

import (
	"fmt"
	"math"
	"strings"
)

// MissingPlaceholder is shown in text exports where a quantity is unknown.
const MissingPlaceholder = "-"

// FormatFixed formats a measurement with exactly 2 decimal places.
// Negative zero is printed as 0.00; non-finite values as the placeholder.
func FormatFixed(v float64) string {
	if !isFinite(v) {
		return MissingPlaceholder
	}
	s := fmt.Sprintf("%.2f", v)
	if s == "-0.00" {
		return "0.00"
	}
	return s
}

// FormatQuantity formats an optional measurement, using the placeholder
// for unknown values.
func FormatQuantity(v *float64) string {
	if v == nil {
		return MissingPlaceholder
	}
	return FormatFixed(*v)
}

// FormatGrouped formats a measurement with 2 decimals and thousands
// separators (e.g., 12,345.60), for human-facing reports.
func FormatGrouped(v float64) string {
	if !isFinite(v) {
		return MissingPlaceholder
	}
	raw := FormatFixed(v)
	negative := strings.HasPrefix(raw, "-")
	raw = strings.TrimPrefix(raw, "-")

	parts := strings.SplitN(raw, ".", 2)
	result := applyThousandsGrouping(parts[0]) + "." + parts[1]
	if negative {
		result = "-" + result
	}
	return result
}

// applyThousandsGrouping inserts commas every 3 digits from the right.
func applyThousandsGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	remaining := s[:n-3]
	for len(remaining) > 3 {
		result = remaining[len(remaining)-3:] + "," + result
		remaining = remaining[:len(remaining)-3]
	}
	if len(remaining) > 0 {
		result = remaining + "," + result
	}
	return result
}

func isFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
