package registry_test

import (
	"testing"

	"github.com/sucre-siip/sucre/internal/registry"
)

func TestNormalizeCedula(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"v-12345678", "V12345678"},
		{"12 345 678", "12345678"},
		{"E-987-654", "E987654"},
		{"12345678", "12345678"},
	}

	for _, tc := range tests {
		if got := registry.NormalizeCedula(tc.raw); got != tc.want {
			t.Errorf("NormalizeCedula(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeCedulaIdempotent(t *testing.T) {
	for _, raw := range []string{"v-12.345", "12 345 678", "E987654"} {
		once := registry.NormalizeCedula(raw)
		if twice := registry.NormalizeCedula(once); twice != once {
			t.Errorf("NormalizeCedula not idempotent for %q: %q -> %q", raw, once, twice)
		}
	}
}

func TestValidCedula(t *testing.T) {
	if !registry.ValidCedula("V-12345678") {
		t.Error("ValidCedula rejected a valid identifier")
	}
	if registry.ValidCedula("PEREZ") {
		t.Error("ValidCedula accepted text without digits")
	}
	if registry.ValidCedula("A1B2") {
		t.Error("ValidCedula accepted text with fewer than three consecutive digits")
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"José  PÉREZ", "jose perez"},
		{"maría gonzález", "maria gonzalez"},
		{"  Juan   Pérez  ", "juan perez"},
	}

	for _, tc := range tests {
		if got := registry.NormalizeName(tc.raw); got != tc.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeNameIdempotent(t *testing.T) {
	for _, raw := range []string{"José PÉREZ", "maría", "Ñoño Núñez"} {
		once := registry.NormalizeName(raw)
		if twice := registry.NormalizeName(once); twice != once {
			t.Errorf("NormalizeName not idempotent for %q: %q -> %q", raw, once, twice)
		}
	}
}

func TestNameParts(t *testing.T) {
	t.Run("drops single characters in multi-word input", func(t *testing.T) {
		got := registry.NameParts("Juan A Pérez")
		want := []string{"juan", "perez"}
		if len(got) != len(want) {
			t.Fatalf("NameParts = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("NameParts[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("keeps a single short word", func(t *testing.T) {
		got := registry.NameParts("Li")
		if len(got) != 1 || got[0] != "li" {
			t.Errorf("NameParts = %v, want [li]", got)
		}
	})
}

func TestInSystem(t *testing.T) {
	for _, status := range []string{"ACTIVO", "activo", " Hospitalizado ", "INGRESO INTERPENAL", "INGRESO COMISARIA", "TRASLADO"} {
		if !registry.InSystem(status) {
			t.Errorf("InSystem(%q) = false, want true", status)
		}
	}
	for _, status := range []string{"PASIVO", "", "LIBERTAD"} {
		if registry.InSystem(status) {
			t.Errorf("InSystem(%q) = true, want false", status)
		}
	}
}
