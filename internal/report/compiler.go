// Package report compiles natural language report requests into
// filtered, ordered views over the registry snapshot. The model only
// extracts a specification; every filter, column and ordering decision
// is validated and executed here.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/sucre-siip/sucre/internal/llm"
	"github.com/sucre-siip/sucre/internal/registry"
)

const maxTitleLength = 70

// Report is a compiled report ready for presentation and export.
type Report struct {
	Title     string
	Columns   []string
	Rows      [][]string
	Criteria  []string
	Total     int
	CountOnly bool
	Warnings  []string
}

// CountReply renders the count-only answer for "cuantos" requests.
func (r *Report) CountReply() string {
	if len(r.Criteria) == 0 {
		return fmt.Sprintf("Hay un total de %d registros en el sistema.", r.Total)
	}
	return fmt.Sprintf("Hay %d registros que cumplen con: %s.",
		r.Total, strings.Join(r.Criteria, ", "))
}

type Compiler struct {
	llm    llm.Service
	logger *slog.Logger
	now    func() time.Time
}

func NewCompiler(service llm.Service, logger *slog.Logger) *Compiler {
	return &Compiler{
		llm:    service,
		logger: logger.With("system", "report"),
		now:    time.Now,
	}
}

// Compile runs the full pipeline: extraction, validation against the
// snapshot schema, filtering, ordering and column selection.
func (c *Compiler) Compile(ctx context.Context, snapshot *registry.Snapshot, utterance string) (*Report, error) {
	spec, err := c.llm.ExtractReportSpec(ctx, extractionPrompt(snapshot, utterance, c.now()))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	filters, requested, warnings := c.validate(snapshot, spec)

	rows := baselineRows(snapshot, filters)

	var criteria []string
	for _, f := range filters {
		rows = filterRows(rows, f)
		criteria = append(criteria, f.criterion())
	}

	report := &Report{
		Criteria: criteria,
		Total:    len(rows),
		Warnings: warnings,
	}

	if countOnly(utterance) {
		report.CountOnly = true
		return report, nil
	}

	columns := selectColumns(snapshot, requested, filters)

	spec.Limit = normalizeLimit(spec.Limit)
	order := chooseSort(filters, spec.Limit != nil)
	if order != nil {
		applySort(rows, order)
		criteria = append(criteria, order.describe())

		// Limited reports ordered by admission show the date so the
		// cutoff is visible.
		if order.column == registry.ColAdmissionDate && order.date &&
			snapshot.HasColumn(registry.ColAdmissionDate) &&
			!slices.Contains(columns, registry.ColAdmissionDate) {
			columns = append(columns, registry.ColAdmissionDate)
		}
	}

	if spec.Limit != nil && len(rows) > *spec.Limit {
		rows = rows[:*spec.Limit]
		criteria = append(criteria, fmt.Sprintf("Mostrando los primeros %d registros", *spec.Limit))
	}

	report.Criteria = criteria
	report.Columns = columns
	report.Rows = materialize(rows, columns)
	report.Title = c.title(ctx, criteria)

	return report, nil
}

// validate canonicalizes and screens the model's output against the
// live schema. Unknown columns and unparseable filters are dropped
// with a warning instead of failing the report.
func (c *Compiler) validate(snapshot *registry.Snapshot, spec *llm.ReportSpec) ([]compiledFilter, []string, []string) {
	var (
		filters  []compiledFilter
		warnings []string
	)

	for _, column := range sortedKeysAny(spec.Filters) {
		canonical := Canonical(column)
		if !snapshot.HasColumn(canonical) {
			warnings = append(warnings, fmt.Sprintf("columna desconocida ignorada: %s", column))
			continue
		}

		f, ok := compileFilter(canonical, spec.Filters[column])
		if !ok {
			warnings = append(warnings, fmt.Sprintf("filtro no interpretable ignorado: %s", column))
			continue
		}

		filters = append(filters, f)
	}

	var requested []string
	for _, column := range spec.Columns {
		canonical := Canonical(column)
		if !snapshot.HasColumn(canonical) {
			warnings = append(warnings, fmt.Sprintf("columna desconocida ignorada: %s", column))
			continue
		}
		requested = append(requested, canonical)
	}

	for _, warning := range warnings {
		c.logger.Warn("report spec adjusted", "detail", warning)
	}

	return filters, requested, warnings
}

// baselineRows scopes the report to the in-system population unless the
// request filters the status column itself.
func baselineRows(snapshot *registry.Snapshot, filters []compiledFilter) []registry.Row {
	for _, f := range filters {
		if f.column == registry.ColStatus {
			return slices.Clone(snapshot.Rows)
		}
	}
	return snapshot.InSystemRows()
}

func filterRows(rows []registry.Row, f compiledFilter) []registry.Row {
	matched := rows[:0:0]
	for _, row := range rows {
		if f.matches(row) {
			matched = append(matched, row)
		}
	}
	return matched
}

func materialize(rows []registry.Row, columns []string) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(columns))
		for j, column := range columns {
			cells[j] = row.Get(column)
		}
		out[i] = cells
	}
	return out
}

func (c *Compiler) title(ctx context.Context, criteria []string) string {
	if len(criteria) > 0 {
		if title, err := c.llm.GenerateReply(ctx, titlePrompt(criteria)); err == nil {
			title = strings.Trim(strings.TrimSpace(title), `"`)
			if title != "" {
				return title
			}
		} else {
			c.logger.Warn("report title generation failed", "error", err)
		}
	}

	return fallbackTitle(criteria)
}

func fallbackTitle(criteria []string) string {
	if len(criteria) == 0 {
		return "Reporte SIIP"
	}
	title := []rune("Reporte: " + strings.Join(criteria, ", "))
	if len(title) > maxTitleLength {
		title = title[:maxTitleLength]
	}
	return string(title)
}

func countOnly(utterance string) bool {
	return strings.Contains(registry.NormalizeName(utterance), "cuantos")
}

func normalizeLimit(limit *int) *int {
	if limit == nil || *limit <= 0 {
		return nil
	}
	return limit
}

func sortedKeysAny(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
