package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/sucre-siip/sucre/internal/artifacts"
	"github.com/sucre-siip/sucre/internal/registry"
	"github.com/sucre-siip/sucre/pkg/formatting"
)

// presentedFields is the order in which a person's record is shown.
// Columns missing from the schema or empty in the row are skipped.
var presentedFields = []string{
	registry.ColAge,
	registry.ColLegalCondition,
	registry.ColAdmissionDate,
	registry.ColLocation,
	registry.ColEstablishment,
	registry.ColProcessPhase,
	registry.ColCircuit,
	registry.ColCourt,
	registry.ColExtension,
	registry.ColCaseNumber,
	registry.ColSentence,
	registry.ColSex,
	registry.ColCountry,
	registry.ColDetentionDate,
	registry.ColAdmissionReason,
	registry.ColCrime,
	registry.ColNotoriety,
	registry.ColTimeServed,
	registry.ColTimeServedRed,
}

var photoLabels = map[string]string{
	artifacts.PhotoFront:        "de frente",
	artifacts.PhotoRightProfile: "de perfil derecho",
	artifacts.PhotoLeftProfile:  "de perfil izquierdo",
}

// presentPerson renders the full record reply for a found person,
// including stored photos and the case file link when available.
func (e *Engine) presentPerson(ctx context.Context, row registry.Row) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Esta es la información que encontré para %s (C.I. %s):\n",
		row.Name(), row.Cedula())

	for _, column := range presentedFields {
		value := fieldValue(row, column)
		if value == "" {
			continue
		}
		fmt.Fprintf(&b, "- %s: %s\n", column, value)
	}

	cedula := row.NormalizedCedula
	if photos := e.artifacts.AvailablePhotos(ctx, cedula); len(photos) > 0 {
		labels := make([]string, len(photos))
		for i, photo := range photos {
			labels[i] = photoLabels[photo]
		}
		fmt.Fprintf(&b, "\nTengo fotos disponibles: %s.\n", strings.Join(labels, ", "))
	}

	if link, ok := e.artifacts.FichaLink(ctx, cedula); ok {
		fmt.Fprintf(&b, "\nPuedes descargar la ficha completa aquí: %s\n", link)
	}

	return strings.TrimRight(b.String(), "\n")
}

// fieldValue resolves one display field. Time served with redemptions
// mirrors plain time served whenever computed redemptions are absent or
// zero, regardless of what the source column holds. Date cells render
// as DD/MM/YYYY.
func fieldValue(row registry.Row, column string) string {
	value := row.Get(column)

	if column == registry.ColTimeServedRed {
		redemptions, ok := formatting.ParseSentenceYears(row.Get(registry.ColRedemptions))
		if !ok || redemptions == 0 {
			return row.Get(registry.ColTimeServed)
		}
	}

	if registry.IsDateColumn(column) {
		if t, ok := formatting.ParseDate(value); ok {
			return formatting.FormatDate(t)
		}
	}

	return value
}

func notFoundReply(token string) string {
	return fmt.Sprintf("No encontré información para la cédula %s.", strings.ToUpper(token))
}

// disambiguationList renders the numbered candidate list, capped at ten
// visible entries.
func disambiguationList(name string, rows []registry.Row) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Encontré varias personas con el nombre '%s'. ¿A cuál te refieres?\n", name)

	for i, row := range rows {
		if i == 10 {
			b.WriteString("... y más resultados. Intenta con un nombre más específico.\n")
			break
		}
		fmt.Fprintf(&b, "%d. %s (C.I. %s)\n", i+1, row.Name(), row.Cedula())
	}

	b.WriteString("Responde con el número de la opción.")
	return b.String()
}

// suggestionList renders fuzzy alternatives when no exact match exists.
func suggestionList(query string, rows []registry.Row) string {
	var b strings.Builder
	fmt.Fprintf(&b,
		"No encontré una coincidencia exacta para '%s'. ¿Quizás quisiste decir alguna de estas opciones?\n",
		query)

	for i, row := range rows {
		fmt.Fprintf(&b, "%d. %s (C.I. %s)\n", i+1, row.Name(), row.Cedula())
	}

	b.WriteString("Responde con el número de la opción, o 'ninguna' para cancelar.")
	return b.String()
}
