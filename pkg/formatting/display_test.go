package formatting_test

import (
	"testing"
	"time"

	"github.com/sucre-siip/sucre/pkg/formatting"
)

func TestParseDate(t *testing.T) {
	t.Run("slash separated", func(t *testing.T) {
		got, ok := formatting.ParseDate("15/03/2021")
		if !ok {
			t.Fatal("ParseDate returned false")
		}
		want := time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("ParseDate = %v, want %v", got, want)
		}
	})

	t.Run("iso date", func(t *testing.T) {
		got, ok := formatting.ParseDate("2021-03-15")
		if !ok {
			t.Fatal("ParseDate returned false")
		}
		if formatting.FormatDate(got) != "15/03/2021" {
			t.Errorf("FormatDate = %q, want 15/03/2021", formatting.FormatDate(got))
		}
	})

	t.Run("empty", func(t *testing.T) {
		if _, ok := formatting.ParseDate("  "); ok {
			t.Error("ParseDate accepted blank input")
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, ok := formatting.ParseDate("SIN FECHA"); ok {
			t.Error("ParseDate accepted non-date text")
		}
	})
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		text string
		want float64
		ok   bool
	}{
		{"42", 42, true},
		{"3,5", 3.5, true},
		{"85%", 85, true},
		{" 12.5 ", 12.5, true},
		{"", 0, false},
		{"N/A", 0, false},
	}

	for _, tc := range tests {
		got, ok := formatting.ParseNumber(tc.text)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseNumber(%q) = (%v, %v), want (%v, %v)", tc.text, got, ok, tc.want, tc.ok)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{0.85, "85%"},
		{85, "85%"},
		{0.333, "33.3%"},
		{1, "100%"},
	}

	for _, tc := range tests {
		if got := formatting.FormatPercent(tc.value); got != tc.want {
			t.Errorf("FormatPercent(%v) = %q, want %q", tc.value, got, tc.want)
		}
	}
}
