package registry

import "strings"

// Row is one person record. Cells hold the raw sheet values keyed by
// canonical column name; the normalized fields are derived at load time
// and never exposed in replies.
type Row struct {
	Cells            map[string]string `json:"cells"`
	NormalizedCedula string            `json:"-"`
	NormalizedName   string            `json:"-"`
}

// NewRow derives the normalized lookup fields from the raw cells.
func NewRow(cells map[string]string) Row {
	return Row{
		Cells:            cells,
		NormalizedCedula: NormalizeCedula(cells[ColCedula]),
		NormalizedName:   NormalizeName(cells[ColName]),
	}
}

// Get returns the trimmed cell value for a column, empty when absent.
func (r Row) Get(column string) string {
	return strings.TrimSpace(r.Cells[column])
}

// Has reports whether the column has a non-empty value.
func (r Row) Has(column string) bool {
	return r.Get(column) != ""
}

// Name returns the display name.
func (r Row) Name() string {
	return r.Get(ColName)
}

// Cedula returns the display identifier.
func (r Row) Cedula() string {
	return r.Get(ColCedula)
}

// InSystem reports whether the row's status counts as inside the system.
func (r Row) InSystem() bool {
	return InSystem(r.Get(ColStatus))
}

// MatchesNameParts reports whether every normalized part occurs in the
// row's normalized name.
func (r Row) MatchesNameParts(parts []string) bool {
	if len(parts) == 0 {
		return false
	}
	for _, part := range parts {
		if !strings.Contains(r.NormalizedName, part) {
			return false
		}
	}
	return true
}
