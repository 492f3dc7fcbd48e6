package formatting_test

import (
	"math"
	"testing"

	"github.com/sucre-siip/sucre/pkg/formatting"
)

func TestParseSentenceYears(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  float64
		found bool
	}{
		{"years and months", "5 AÑOS 6 MESES", 5.5, true},
		{"years only", "10 AÑOS", 10, true},
		{"singular year", "1 AÑO", 1, true},
		{"months only", "6 MESES", 0.5, true},
		{"lowercase input", "3 años 4 meses", 3 + 4.0/12, true},
		{"no duration words", "PENDIENTE", 0, false},
		{"empty", "", 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, found := formatting.ParseSentenceYears(tc.text)
			if found != tc.found {
				t.Fatalf("found = %v, want %v", found, tc.found)
			}
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("ParseSentenceYears(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}

func TestSentenceYearsRoundTrip(t *testing.T) {
	for _, years := range []float64{0.5, 1, 2.25, 5.5, 10} {
		text := formatting.FormatSentenceYears(years)
		got, found := formatting.ParseSentenceYears(text)
		if !found {
			t.Fatalf("FormatSentenceYears(%v) = %q did not parse back", years, text)
		}
		if math.Abs(got-years) > 1e-9 {
			t.Errorf("round trip %v -> %q -> %v", years, text, got)
		}
	}
}

func TestFormatSentenceYears(t *testing.T) {
	tests := []struct {
		years float64
		want  string
	}{
		{5.5, "5 AÑOS 6 MESES"},
		{10, "10 AÑOS"},
		{1, "1 AÑO"},
		{0.5, "6 MESES"},
		{0, "0 AÑOS"},
	}

	for _, tc := range tests {
		if got := formatting.FormatSentenceYears(tc.years); got != tc.want {
			t.Errorf("FormatSentenceYears(%v) = %q, want %q", tc.years, got, tc.want)
		}
	}
}
