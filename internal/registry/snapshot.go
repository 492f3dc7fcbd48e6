package registry

import (
	"slices"
	"sort"
	"time"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// Fuzzy name matching bounds. Matches below the threshold are discarded
// and at most MaxSuggestions candidates are offered to the user.
const (
	SimilarityThreshold = 75
	MaxSuggestions      = 5
)

// Snapshot is an immutable view of the registry at one refresh point.
// The serving snapshot is swapped atomically; request handlers never see
// a partially loaded dataset.
type Snapshot struct {
	Columns  []string
	Rows     []Row
	LoadedAt time.Time

	byCedula map[string]int
}

// NewSnapshot indexes rows by normalized identifier. The first row wins
// on duplicate identifiers; uniqueness is a loader concern.
func NewSnapshot(columns []string, rows []Row, loadedAt time.Time) *Snapshot {
	byCedula := make(map[string]int, len(rows))
	for i, row := range rows {
		if row.NormalizedCedula == "" {
			continue
		}
		if _, exists := byCedula[row.NormalizedCedula]; !exists {
			byCedula[row.NormalizedCedula] = i
		}
	}
	return &Snapshot{
		Columns:  columns,
		Rows:     rows,
		LoadedAt: loadedAt,
		byCedula: byCedula,
	}
}

// Len returns the number of rows.
func (s *Snapshot) Len() int {
	return len(s.Rows)
}

// HasColumn reports whether the snapshot schema includes the column.
func (s *Snapshot) HasColumn(column string) bool {
	return slices.Contains(s.Columns, column)
}

// FindByCedula returns the row for a normalized identifier.
func (s *Snapshot) FindByCedula(normalized string) (Row, bool) {
	idx, ok := s.byCedula[normalized]
	if !ok {
		return Row{}, false
	}
	return s.Rows[idx], true
}

// SearchByName returns every row whose normalized name contains all of
// the given normalized parts, preserving dataset order.
func (s *Snapshot) SearchByName(parts []string) []Row {
	var matches []Row
	for _, row := range s.Rows {
		if row.MatchesNameParts(parts) {
			matches = append(matches, row)
		}
	}
	return matches
}

// SimilarNames scores every row's normalized name against the query with
// a token set ratio and returns the best matches at or above
// SimilarityThreshold, highest score first, capped at MaxSuggestions.
func (s *Snapshot) SimilarNames(query string) []Row {
	normalized := NormalizeName(query)
	if normalized == "" {
		return nil
	}

	type scored struct {
		row   Row
		score int
		order int
	}

	var candidates []scored
	for i, row := range s.Rows {
		if row.NormalizedName == "" {
			continue
		}
		score := fuzzy.TokenSetRatio(normalized, row.NormalizedName)
		if score >= SimilarityThreshold {
			candidates = append(candidates, scored{row: row, score: score, order: i})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].order < candidates[j].order
	})

	if len(candidates) > MaxSuggestions {
		candidates = candidates[:MaxSuggestions]
	}

	rows := make([]Row, len(candidates))
	for i, c := range candidates {
		rows[i] = c.row
	}
	return rows
}

// InSystemRows returns the rows whose status counts as inside the system.
func (s *Snapshot) InSystemRows() []Row {
	var rows []Row
	for _, row := range s.Rows {
		if row.InSystem() {
			rows = append(rows, row)
		}
	}
	return rows
}
