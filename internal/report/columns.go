package report

import (
	"slices"

	"github.com/sucre-siip/sucre/internal/registry"
)

// identityColumns lead every report so each row stays attributable.
var identityColumns = []string{registry.ColName, registry.ColCedula}

// selectColumns assembles the output column order: identity columns
// first, then the columns the request named, then every filtered
// column. Duplicates keep their first position.
func selectColumns(snapshot *registry.Snapshot, requested []string, filters []compiledFilter) []string {
	var columns []string

	add := func(column string) {
		if snapshot.HasColumn(column) && !slices.Contains(columns, column) {
			columns = append(columns, column)
		}
	}

	for _, column := range identityColumns {
		add(column)
	}
	for _, column := range requested {
		add(column)
	}
	for _, f := range filters {
		add(f.column)
	}

	if len(columns) == 0 {
		for i, column := range snapshot.Columns {
			if i == 3 {
				break
			}
			columns = append(columns, column)
		}
	}

	return columns
}
