// Package formatting provides text conversion helpers for registry values
// and model responses.
package formatting

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the display form used throughout reply text, DD/MM/YYYY.
const DateLayout = "02/01/2006"

// dateInputLayouts are accepted when parsing registry cells. Source rows
// arrive with mixed separators and occasionally ISO dates.
var dateInputLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
}

// ParseDate parses a registry date cell. Returns false for empty or
// unrecognized values.
func ParseDate(text string) (time.Time, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range dateInputLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a date for reply text.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseNumber parses a numeric registry cell, tolerating comma decimal
// separators and a trailing percent sign.
func ParseNumber(text string) (float64, bool) {
	trimmed := strings.TrimSpace(text)
	trimmed = strings.TrimSuffix(trimmed, "%")
	trimmed = strings.ReplaceAll(trimmed, ",", ".")
	if trimmed == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// TrimFloat renders a number without trailing decimal noise, "10"
// rather than "10.000000".
func TrimFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// FormatPercent renders a fraction or whole percentage as "N%" text.
// Values at or below 1 are treated as fractions.
func FormatPercent(value float64) string {
	if value <= 1 {
		value *= 100
	}
	if value == math.Trunc(value) {
		return fmt.Sprintf("%d%%", int(value))
	}
	return fmt.Sprintf("%.1f%%", value)
}
