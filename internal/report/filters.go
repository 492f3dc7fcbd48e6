package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/sucre-siip/sucre/internal/registry"
	"github.com/sucre-siip/sucre/pkg/formatting"
)

type filterKind int

const (
	kindComparison filterKind = iota
	kindNotEmpty
	kindDateRange
	kindYear
	kindDateEquals
	kindNumericEquals
	kindSubstring
)

// compiledFilter is one validated filter ready to evaluate against rows.
// Expression strings like "NO VACIO" or {op, valor} objects from the
// model are resolved into a typed kind before any row is touched.
type compiledFilter struct {
	column string
	kind   filterKind

	op     string
	number float64

	start time.Time
	end   time.Time
	year  int
	date  time.Time

	text string
}

var comparisonOps = map[string]bool{
	"<": true, ">": true, "<=": true, ">=": true, "==": true, "=": true,
}

// compileFilter turns one raw filter value into a typed predicate.
// Returns false when the value cannot be interpreted, in which case the
// filter is skipped rather than failing the whole report.
func compileFilter(column string, raw any) (compiledFilter, bool) {
	switch value := raw.(type) {
	case map[string]any:
		if f, ok := compileComparison(column, value); ok {
			return f, true
		}
		return compileDateRange(column, value)
	case string:
		return compileScalar(column, value)
	case float64:
		return compileScalar(column, formatting.TrimFloat(value))
	case int:
		return compileScalar(column, fmt.Sprintf("%d", value))
	default:
		return compiledFilter{}, false
	}
}

func compileComparison(column string, value map[string]any) (compiledFilter, bool) {
	rawOp, hasOp := value["op"]
	rawVal, hasVal := value["valor"]
	if !hasOp || !hasVal {
		return compiledFilter{}, false
	}

	op, ok := rawOp.(string)
	if !ok || !comparisonOps[op] {
		return compiledFilter{}, false
	}
	if op == "=" {
		op = "=="
	}

	number, ok := toNumber(rawVal)
	if !ok {
		return compiledFilter{}, false
	}

	if registry.IsPercentColumn(column) && number > 1 {
		number /= 100
	}

	return compiledFilter{
		column: column,
		kind:   kindComparison,
		op:     op,
		number: number,
	}, true
}

func compileDateRange(column string, value map[string]any) (compiledFilter, bool) {
	start, startOk := parseDateField(value["start_date"])
	end, endOk := parseDateField(value["end_date"])
	if !startOk || !endOk {
		return compiledFilter{}, false
	}

	// The end date is inclusive in the request, exclusive in evaluation.
	return compiledFilter{
		column: column,
		kind:   kindDateRange,
		start:  start,
		end:    end.AddDate(0, 0, 1),
	}, true
}

func compileScalar(column, value string) (compiledFilter, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return compiledFilter{}, false
	}

	if strings.EqualFold(trimmed, "NO VACIO") || strings.EqualFold(trimmed, "NO VACÍO") {
		return compiledFilter{column: column, kind: kindNotEmpty}, true
	}

	if registry.IsDateColumn(column) {
		if year, ok := parseYear(trimmed); ok {
			return compiledFilter{column: column, kind: kindYear, year: year}, true
		}
		if date, ok := formatting.ParseDate(trimmed); ok {
			return compiledFilter{column: column, kind: kindDateEquals, date: date}, true
		}
	}

	if registry.IsNumericColumn(column) {
		if number, ok := formatting.ParseNumber(trimmed); ok {
			if registry.IsPercentColumn(column) && number > 1 {
				number /= 100
			}
			return compiledFilter{column: column, kind: kindNumericEquals, number: number}, true
		}
	}

	return compiledFilter{column: column, kind: kindSubstring, text: trimmed}, true
}

// matches evaluates the filter against one row. Rows with cells the
// filter cannot parse are excluded rather than erroring.
func (f compiledFilter) matches(row registry.Row) bool {
	cell := row.Get(f.column)

	switch f.kind {
	case kindComparison:
		value, ok := numericCell(f.column, cell)
		if !ok {
			return false
		}
		return compare(value, f.op, f.number)
	case kindNotEmpty:
		return strings.TrimSpace(cell) != ""
	case kindDateRange:
		date, ok := formatting.ParseDate(cell)
		if !ok {
			return false
		}
		return !date.Before(f.start) && date.Before(f.end)
	case kindYear:
		date, ok := formatting.ParseDate(cell)
		if !ok {
			return false
		}
		return date.Year() == f.year
	case kindDateEquals:
		date, ok := formatting.ParseDate(cell)
		if !ok {
			return false
		}
		return date.Equal(f.date)
	case kindNumericEquals:
		value, ok := formatting.ParseNumber(cell)
		if !ok {
			return false
		}
		return value == f.number
	case kindSubstring:
		return strings.Contains(strings.ToLower(cell), strings.ToLower(f.text))
	default:
		return false
	}
}

// criterion renders the filter for the human-readable criteria list.
func (f compiledFilter) criterion() string {
	switch f.kind {
	case kindComparison:
		if f.column == registry.ColSentence {
			return fmt.Sprintf("%s %s %s años", f.column, f.op, formatting.TrimFloat(f.number))
		}
		if registry.IsPercentColumn(f.column) {
			return fmt.Sprintf("%s %s %s", f.column, f.op, formatting.FormatPercent(f.number))
		}
		return fmt.Sprintf("%s %s %s", f.column, f.op, formatting.TrimFloat(f.number))
	case kindNotEmpty:
		return fmt.Sprintf("%s NO VACIO", f.column)
	case kindDateRange:
		return fmt.Sprintf("%s entre %s y %s",
			f.column,
			formatting.FormatDate(f.start),
			formatting.FormatDate(f.end.AddDate(0, 0, -1)))
	case kindYear:
		return fmt.Sprintf("%s año %d", f.column, f.year)
	case kindDateEquals:
		return fmt.Sprintf("%s = %s", f.column, formatting.FormatDate(f.date))
	case kindNumericEquals:
		return fmt.Sprintf("%s = %s", f.column, formatting.TrimFloat(f.number))
	default:
		return fmt.Sprintf("%s contiene '%s'", f.column, f.text)
	}
}

// numericCell parses a cell for comparison filters. The sentence column
// holds duration text rather than plain numbers.
func numericCell(column, cell string) (float64, bool) {
	if column == registry.ColSentence {
		return formatting.ParseSentenceYears(cell)
	}
	return formatting.ParseNumber(cell)
}

func compare(value float64, op string, target float64) bool {
	switch op {
	case "<":
		return value < target
	case ">":
		return value > target
	case "<=":
		return value <= target
	case ">=":
		return value >= target
	default:
		return value == target
	}
}

func toNumber(raw any) (float64, bool) {
	switch value := raw.(type) {
	case float64:
		return value, true
	case int:
		return float64(value), true
	case string:
		return formatting.ParseNumber(value)
	default:
		return 0, false
	}
}

func parseDateField(raw any) (time.Time, bool) {
	text, ok := raw.(string)
	if !ok {
		return time.Time{}, false
	}
	return formatting.ParseDate(text)
}

func parseYear(text string) (int, bool) {
	if len(text) != 4 {
		return 0, false
	}
	var year int
	if _, err := fmt.Sscanf(text, "%d", &year); err != nil {
		return 0, false
	}
	if year <= 1900 || year >= 2100 {
		return 0, false
	}
	return year, true
}
