package report_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/sucre-siip/sucre/internal/llm"
	"github.com/sucre-siip/sucre/internal/registry"
	"github.com/sucre-siip/sucre/internal/report"
)

type fakeLLM struct {
	spec    *llm.ReportSpec
	specErr error
	reply   string
}

func (f *fakeLLM) ExtractReportSpec(context.Context, string) (*llm.ReportSpec, error) {
	return f.spec, f.specErr
}

func (f *fakeLLM) GenerateReply(context.Context, string) (string, error) {
	if f.reply == "" {
		return "", errors.New("no reply configured")
	}
	return f.reply, nil
}

func testSnapshot(t *testing.T) *registry.Snapshot {
	t.Helper()

	columns := []string{
		registry.ColName,
		registry.ColCedula,
		registry.ColStatus,
		registry.ColCrime,
		registry.ColSentence,
		registry.ColLocation,
		registry.ColCell,
		registry.ColAdmissionDate,
	}

	cells := []map[string]string{
		{
			registry.ColName:          "JUAN PEREZ",
			registry.ColCedula:        "V-1000001",
			registry.ColStatus:        "ACTIVO",
			registry.ColCrime:         "HOMICIDIO CALIFICADO",
			registry.ColSentence:      "15 AÑOS",
			registry.ColLocation:      "PABELLON A",
			registry.ColCell:          "12",
			registry.ColAdmissionDate: "10/03/2022",
		},
		{
			registry.ColName:          "PEDRO LOPEZ",
			registry.ColCedula:        "V-1000002",
			registry.ColStatus:        "ACTIVO",
			registry.ColCrime:         "ROBO AGRAVADO",
			registry.ColSentence:      "8 AÑOS 6 MESES",
			registry.ColLocation:      "PABELLON B",
			registry.ColCell:          "3",
			registry.ColAdmissionDate: "05/07/2024",
		},
		{
			registry.ColName:          "MARIA GONZALEZ",
			registry.ColCedula:        "V-1000003",
			registry.ColStatus:        "TRASLADO",
			registry.ColCrime:         "HOMICIDIO INTENCIONAL",
			registry.ColSentence:      "20 AÑOS",
			registry.ColLocation:      "PABELLON A",
			registry.ColCell:          "2",
			registry.ColAdmissionDate: "20/01/2023",
		},
		{
			registry.ColName:          "LUIS RAMIREZ",
			registry.ColCedula:        "V-1000004",
			registry.ColStatus:        "PASIVO",
			registry.ColCrime:         "HOMICIDIO CULPOSO",
			registry.ColSentence:      "30 AÑOS",
			registry.ColLocation:      "PABELLON C",
			registry.ColCell:          "1",
			registry.ColAdmissionDate: "01/01/2020",
		},
	}

	rows := make([]registry.Row, len(cells))
	for i, c := range cells {
		rows[i] = registry.NewRow(c)
	}

	return registry.NewSnapshot(columns, rows, time.Now())
}

func newCompiler(service llm.Service) *report.Compiler {
	return report.NewCompiler(service, slog.New(slog.DiscardHandler))
}

func TestCompile(t *testing.T) {
	snapshot := testSnapshot(t)

	t.Run("sentence comparison filters and sorts descending", func(t *testing.T) {
		service := &fakeLLM{spec: &llm.ReportSpec{
			Filters: map[string]any{
				registry.ColSentence: map[string]any{"op": ">", "valor": float64(10)},
			},
		}}

		result, err := newCompiler(service).Compile(context.Background(), snapshot, "presos con pena mayor a 10 años")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// LUIS RAMIREZ is out of the system and must not appear even
		// though his sentence qualifies.
		if len(result.Rows) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(result.Rows))
		}
		if result.Rows[0][0] != "MARIA GONZALEZ" || result.Rows[1][0] != "JUAN PEREZ" {
			t.Errorf("expected descending sentence order, got %v", result.Rows)
		}
		if result.Criteria[0] != "TIEMPO DE PENA > 10 años" {
			t.Errorf("unexpected criterion: %s", result.Criteria[0])
		}
	})

	t.Run("status filter widens the population", func(t *testing.T) {
		service := &fakeLLM{spec: &llm.ReportSpec{
			Filters: map[string]any{registry.ColStatus: "PASIVO"},
		}}

		result, err := newCompiler(service).Compile(context.Background(), snapshot, "lista de pasivos")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Total != 1 {
			t.Fatalf("expected 1 row, got %d", result.Total)
		}
		if result.Rows[0][0] != "LUIS RAMIREZ" {
			t.Errorf("unexpected row: %v", result.Rows[0])
		}
	})

	t.Run("substring filter sorts ascending on the filtered column", func(t *testing.T) {
		service := &fakeLLM{spec: &llm.ReportSpec{
			Filters: map[string]any{registry.ColCrime: "HOMICIDIO"},
		}}

		result, err := newCompiler(service).Compile(context.Background(), snapshot, "lista por homicidio")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Rows) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(result.Rows))
		}
		if result.Rows[0][0] != "JUAN PEREZ" {
			t.Errorf("expected HOMICIDIO CALIFICADO first, got %v", result.Rows[0])
		}
	})

	t.Run("comparison sort outranks location sort", func(t *testing.T) {
		service := &fakeLLM{spec: &llm.ReportSpec{
			Filters: map[string]any{
				registry.ColSentence: map[string]any{"op": ">=", "valor": float64(5)},
				registry.ColLocation: "PABELLON",
			},
		}}

		result, err := newCompiler(service).Compile(context.Background(), snapshot, "penas desde 5 años por pabellon")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Rows[0][0] != "MARIA GONZALEZ" {
			t.Errorf("expected sentence ordering to win, got %v", result.Rows)
		}
	})

	t.Run("unknown columns are dropped with warnings", func(t *testing.T) {
		service := &fakeLLM{spec: &llm.ReportSpec{
			Filters: map[string]any{"COLUMNA INVENTADA": "X"},
			Columns: []string{"OTRA INVENTADA"},
		}}

		result, err := newCompiler(service).Compile(context.Background(), snapshot, "reporte raro")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Warnings) != 2 {
			t.Errorf("expected 2 warnings, got %v", result.Warnings)
		}
		// With no usable filters the report covers the in-system rows.
		if result.Total != 3 {
			t.Errorf("expected 3 rows, got %d", result.Total)
		}
	})

	t.Run("cell presence filter keeps dataset order", func(t *testing.T) {
		service := &fakeLLM{spec: &llm.ReportSpec{
			Filters: map[string]any{registry.ColCell: "NO VACIO"},
		}}

		result, err := newCompiler(service).Compile(context.Background(), snapshot, "presos con celda asignada")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Rows) != 3 {
			t.Fatalf("expected 3 rows, got %d", len(result.Rows))
		}
		// Only a plain text filter on the cell column claims the cell
		// ordering; a presence check leaves rows as loaded.
		if result.Rows[0][0] != "JUAN PEREZ" || result.Rows[1][0] != "PEDRO LOPEZ" {
			t.Errorf("expected dataset order, got %v", result.Rows)
		}
	})

	t.Run("limit without filters sorts by admission date", func(t *testing.T) {
		limit := 2
		service := &fakeLLM{spec: &llm.ReportSpec{
			Filters: map[string]any{},
			Limit:   &limit,
		}}

		result, err := newCompiler(service).Compile(context.Background(), snapshot, "los ultimos 2 ingresos")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Rows) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(result.Rows))
		}
		if result.Rows[0][0] != "PEDRO LOPEZ" {
			t.Errorf("expected most recent admission first, got %v", result.Rows)
		}
		last := result.Columns[len(result.Columns)-1]
		if last != registry.ColAdmissionDate {
			t.Errorf("expected admission date column appended, got %v", result.Columns)
		}
	})

	t.Run("count request returns totals only", func(t *testing.T) {
		service := &fakeLLM{spec: &llm.ReportSpec{
			Filters: map[string]any{registry.ColCrime: "HOMICIDIO"},
		}}

		result, err := newCompiler(service).Compile(context.Background(), snapshot, "cuántos presos hay por homicidio")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.CountOnly {
			t.Fatal("expected count-only report")
		}
		want := "Hay 2 registros que cumplen con: DELITO CON MAYOR GRAVEDAD contiene 'HOMICIDIO'."
		if got := result.CountReply(); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("extraction failure surfaces a typed error", func(t *testing.T) {
		service := &fakeLLM{specErr: errors.New("model offline")}

		_, err := newCompiler(service).Compile(context.Background(), snapshot, "reporte")
		if !errors.Is(err, report.ErrExtraction) {
			t.Errorf("expected ErrExtraction, got %v", err)
		}
	})
}

func TestCompileColumns(t *testing.T) {
	snapshot := testSnapshot(t)

	t.Run("identity columns lead and filters follow requested", func(t *testing.T) {
		service := &fakeLLM{spec: &llm.ReportSpec{
			Filters: map[string]any{registry.ColCrime: "ROBO"},
			Columns: []string{registry.ColLocation},
		}}

		result, err := newCompiler(service).Compile(context.Background(), snapshot, "robos con ubicacion")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{
			registry.ColName,
			registry.ColCedula,
			registry.ColLocation,
			registry.ColCrime,
		}
		if len(result.Columns) != len(want) {
			t.Fatalf("got columns %v, want %v", result.Columns, want)
		}
		for i, column := range want {
			if result.Columns[i] != column {
				t.Fatalf("got columns %v, want %v", result.Columns, want)
			}
		}
	})

	t.Run("synonyms resolve before validation", func(t *testing.T) {
		service := &fakeLLM{spec: &llm.ReportSpec{
			Filters: map[string]any{"delito": "HOMICIDIO"},
		}}

		result, err := newCompiler(service).Compile(context.Background(), snapshot, "por delito")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Warnings) != 0 {
			t.Errorf("expected synonym to validate, warnings: %v", result.Warnings)
		}
		if result.Total != 2 {
			t.Errorf("expected 2 rows, got %d", result.Total)
		}
	})
}
