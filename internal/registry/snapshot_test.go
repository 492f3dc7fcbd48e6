package registry_test

import (
	"testing"
	"time"

	"github.com/sucre-siip/sucre/internal/registry"
)

func testSnapshot() *registry.Snapshot {
	columns := []string{registry.ColCedula, registry.ColName, registry.ColStatus}
	rows := []registry.Row{
		registry.NewRow(map[string]string{
			registry.ColCedula: "V-1111111",
			registry.ColName:   "JUAN PEREZ GARCIA",
			registry.ColStatus: "ACTIVO",
		}),
		registry.NewRow(map[string]string{
			registry.ColCedula: "V-2222222",
			registry.ColName:   "JUAN PEREZ LOPEZ",
			registry.ColStatus: "TRASLADO",
		}),
		registry.NewRow(map[string]string{
			registry.ColCedula: "V-3333333",
			registry.ColName:   "MARIA GONZALEZ",
			registry.ColStatus: "PASIVO",
		}),
	}
	return registry.NewSnapshot(columns, rows, time.Now())
}

func TestFindByCedula(t *testing.T) {
	s := testSnapshot()

	row, ok := s.FindByCedula("V1111111")
	if !ok {
		t.Fatal("FindByCedula returned false for known identifier")
	}
	if row.Name() != "JUAN PEREZ GARCIA" {
		t.Errorf("Name = %q, want JUAN PEREZ GARCIA", row.Name())
	}

	if _, ok := s.FindByCedula("V9999999"); ok {
		t.Error("FindByCedula returned true for unknown identifier")
	}
}

func TestSearchByName(t *testing.T) {
	s := testSnapshot()

	t.Run("multiple matches preserve dataset order", func(t *testing.T) {
		matches := s.SearchByName([]string{"juan", "perez"})
		if len(matches) != 2 {
			t.Fatalf("len(matches) = %d, want 2", len(matches))
		}
		if matches[0].Cedula() != "V-1111111" || matches[1].Cedula() != "V-2222222" {
			t.Errorf("matches out of dataset order: %q, %q", matches[0].Cedula(), matches[1].Cedula())
		}
	})

	t.Run("all parts must match", func(t *testing.T) {
		if matches := s.SearchByName([]string{"juan", "gonzalez"}); len(matches) != 0 {
			t.Errorf("len(matches) = %d, want 0", len(matches))
		}
	})

	t.Run("empty parts match nothing", func(t *testing.T) {
		if matches := s.SearchByName(nil); len(matches) != 0 {
			t.Errorf("len(matches) = %d, want 0", len(matches))
		}
	})
}

func TestSimilarNames(t *testing.T) {
	s := testSnapshot()

	t.Run("near miss suggests the closest names", func(t *testing.T) {
		suggestions := s.SimilarNames("juan peres")
		if len(suggestions) == 0 {
			t.Fatal("SimilarNames returned no suggestions for a near miss")
		}
		for _, row := range suggestions {
			if row.Name() == "MARIA GONZALEZ" {
				t.Error("SimilarNames suggested an unrelated name")
			}
		}
	})

	t.Run("unrelated query yields nothing", func(t *testing.T) {
		if suggestions := s.SimilarNames("xzqwv abcdf"); len(suggestions) != 0 {
			t.Errorf("len(suggestions) = %d, want 0", len(suggestions))
		}
	})
}

func TestInSystemRows(t *testing.T) {
	rows := testSnapshot().InSystemRows()
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	for _, row := range rows {
		if row.Get(registry.ColStatus) == "PASIVO" {
			t.Error("InSystemRows included a PASIVO row")
		}
	}
}
