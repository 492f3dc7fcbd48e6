package formatting

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Sentence durations in the registry are free text such as
// "5 AÑOS 6 MESES" or "10 AÑOS". ParseSentenceYears converts that text
// to fractional years so durations can be compared and filtered.

var (
	yearsRegex  = regexp.MustCompile(`(\d+)\s*AÑO`)
	monthsRegex = regexp.MustCompile(`(\d+)\s*MES`)
)

// ParseSentenceYears extracts years and months from a sentence duration
// string and returns the total as fractional years. The second return
// value is false when the text mentions neither years nor months.
func ParseSentenceYears(text string) (float64, bool) {
	upper := strings.ToUpper(text)

	var total float64
	found := false

	if m := yearsRegex.FindStringSubmatch(upper); len(m) == 2 {
		years, err := strconv.Atoi(m[1])
		if err == nil {
			total += float64(years)
			found = true
		}
	}
	if m := monthsRegex.FindStringSubmatch(upper); len(m) == 2 {
		months, err := strconv.Atoi(m[1])
		if err == nil {
			total += float64(months) / 12
			found = true
		}
	}

	return total, found
}

// FormatSentenceYears renders fractional years back to registry text,
// "5 AÑOS 6 MESES" style. Whole years omit the month clause.
func FormatSentenceYears(years float64) string {
	whole := int(years)
	months := int((years - float64(whole)) * 12)

	switch {
	case whole == 0 && months == 0:
		return "0 AÑOS"
	case months == 0:
		return fmt.Sprintf("%d %s", whole, plural(whole, "AÑO", "AÑOS"))
	case whole == 0:
		return fmt.Sprintf("%d %s", months, plural(months, "MES", "MESES"))
	default:
		return fmt.Sprintf("%d %s %d %s",
			whole, plural(whole, "AÑO", "AÑOS"),
			months, plural(months, "MES", "MESES"))
	}
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}
