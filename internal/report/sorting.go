package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sucre-siip/sucre/internal/registry"
	"github.com/sucre-siip/sucre/pkg/formatting"
)

// sortSpec is the chosen ordering for a report. Rows sort stably so
// ties retain dataset order.
type sortSpec struct {
	column     string
	descending bool
	secondary  string
	numeric    bool
	sentence   bool
	date       bool
}

// sortRule inspects the compiled filters and claims the ordering when
// its trigger applies. Rules are evaluated top to bottom and the first
// match wins.
type sortRule struct {
	name  string
	apply func(filters []compiledFilter, hasLimit bool) (sortSpec, bool)
}

// sortPriorities is the one ordering table for report output. Every
// sort decision flows through here.
var sortPriorities = []sortRule{
	{
		name: "comparison column descending",
		apply: func(filters []compiledFilter, _ bool) (sortSpec, bool) {
			for _, f := range filters {
				if f.kind == kindComparison {
					return sortSpec{
						column:     f.column,
						descending: true,
						numeric:    true,
						sentence:   f.column == registry.ColSentence,
					}, true
				}
			}
			return sortSpec{}, false
		},
	},
	{
		name: "location ascending with cell tiebreak",
		apply: func(filters []compiledFilter, _ bool) (sortSpec, bool) {
			for _, f := range filters {
				if f.kind == kindSubstring && f.column == registry.ColLocation {
					return sortSpec{column: registry.ColLocation, secondary: registry.ColCell}, true
				}
			}
			return sortSpec{}, false
		},
	},
	{
		name: "cell ascending",
		apply: func(filters []compiledFilter, _ bool) (sortSpec, bool) {
			for _, f := range filters {
				if f.kind == kindSubstring && f.column == registry.ColCell {
					return sortSpec{column: registry.ColCell}, true
				}
			}
			return sortSpec{}, false
		},
	},
	{
		name: "first text filter ascending",
		apply: func(filters []compiledFilter, _ bool) (sortSpec, bool) {
			for _, f := range filters {
				if f.kind == kindSubstring {
					return sortSpec{column: f.column}, true
				}
			}
			return sortSpec{}, false
		},
	},
	{
		name: "recent admissions for limited reports",
		apply: func(filters []compiledFilter, hasLimit bool) (sortSpec, bool) {
			if !hasLimit {
				return sortSpec{}, false
			}
			return sortSpec{column: registry.ColAdmissionDate, descending: true, date: true}, true
		},
	},
}

// chooseSort walks the priority table. Returns nil when no rule claims
// the report, leaving rows in dataset order.
func chooseSort(filters []compiledFilter, hasLimit bool) *sortSpec {
	for _, rule := range sortPriorities {
		if spec, ok := rule.apply(filters, hasLimit); ok {
			return &spec
		}
	}
	return nil
}

// applySort orders rows in place per the spec. Missing or unparseable
// cells sink to the end regardless of direction.
func applySort(rows []registry.Row, spec *sortSpec) {
	if spec == nil {
		return
	}

	numericCell := spec.numeric
	if spec.column == registry.ColCell {
		numericCell = allNumeric(rows, registry.ColCell)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		less, equal := spec.less(rows[i], rows[j], numericCell)
		if equal && spec.secondary != "" {
			return cellLess(rows[i].Get(spec.secondary), rows[j].Get(spec.secondary))
		}
		return less
	})
}

func (s *sortSpec) less(a, b registry.Row, numeric bool) (less, equal bool) {
	switch {
	case s.date:
		av, aok := formatting.ParseDate(a.Get(s.column))
		bv, bok := formatting.ParseDate(b.Get(s.column))
		return orderedLess(av.Unix(), aok, bv.Unix(), bok, s.descending)
	case s.sentence:
		av, aok := formatting.ParseSentenceYears(a.Get(s.column))
		bv, bok := formatting.ParseSentenceYears(b.Get(s.column))
		return orderedFloatLess(av, aok, bv, bok, s.descending)
	case numeric:
		av, aok := formatting.ParseNumber(a.Get(s.column))
		bv, bok := formatting.ParseNumber(b.Get(s.column))
		return orderedFloatLess(av, aok, bv, bok, s.descending)
	default:
		av := strings.ToLower(a.Get(s.column))
		bv := strings.ToLower(b.Get(s.column))
		if av == bv {
			return false, true
		}
		if s.descending {
			return av > bv, false
		}
		return av < bv, false
	}
}

func orderedLess(a int64, aok bool, b int64, bok bool, descending bool) (less, equal bool) {
	if aok != bok {
		return aok, false
	}
	if !aok || a == b {
		return false, a == b && aok
	}
	if descending {
		return a > b, false
	}
	return a < b, false
}

func orderedFloatLess(a float64, aok bool, b float64, bok bool, descending bool) (less, equal bool) {
	if aok != bok {
		return aok, false
	}
	if !aok || a == b {
		return false, a == b && aok
	}
	if descending {
		return a > b, false
	}
	return a < b, false
}

func cellLess(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}

// allNumeric reports whether every non-empty cell in the column parses
// as a number, which switches cell ordering to numeric comparison.
func allNumeric(rows []registry.Row, column string) bool {
	seen := false
	for _, row := range rows {
		cell := strings.TrimSpace(row.Get(column))
		if cell == "" {
			continue
		}
		seen = true
		if _, ok := formatting.ParseNumber(cell); !ok {
			return false
		}
	}
	return seen
}

// describe renders the ordering for the criteria list.
func (s *sortSpec) describe() string {
	direction := "ascendente"
	if s.descending {
		direction = "descendente"
	}
	return fmt.Sprintf("Ordenado por %s (%s)", s.column, direction)
}
