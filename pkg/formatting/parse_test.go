package formatting_test

import (
	"errors"
	"testing"

	"github.com/sucre-siip/sucre/pkg/formatting"
)

type sample struct {
	Columns []string `json:"columnas"`
	Limit   int      `json:"limite"`
}

func TestParse(t *testing.T) {
	t.Run("direct JSON", func(t *testing.T) {
		got, err := formatting.Parse[sample](`{"columnas":["DELITO"],"limite":10}`)
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if len(got.Columns) != 1 || got.Columns[0] != "DELITO" || got.Limit != 10 {
			t.Errorf("Parse = %+v, want {Columns:[DELITO] Limit:10}", got)
		}
	})

	t.Run("markdown fenced JSON", func(t *testing.T) {
		input := "```json\n{\"columnas\":[\"UBICACION\"],\"limite\":5}\n```"
		got, err := formatting.Parse[sample](input)
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if got.Limit != 5 {
			t.Errorf("Limit = %d, want 5", got.Limit)
		}
	})

	t.Run("markdown fenced without language tag", func(t *testing.T) {
		input := "```\n{\"limite\":3}\n```"
		got, err := formatting.Parse[sample](input)
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if got.Limit != 3 {
			t.Errorf("Limit = %d, want 3", got.Limit)
		}
	})

	t.Run("fenced with surrounding text", func(t *testing.T) {
		input := "Aquí está el resultado:\n```json\n{\"limite\":7}\n```\nListo."
		got, err := formatting.Parse[sample](input)
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if got.Limit != 7 {
			t.Errorf("Limit = %d, want 7", got.Limit)
		}
	})

	t.Run("unparseable content", func(t *testing.T) {
		_, err := formatting.Parse[sample]("no hay JSON aquí")
		if !errors.Is(err, formatting.ErrParseFailed) {
			t.Errorf("err = %v, want ErrParseFailed", err)
		}
	})
}
