package report

import (
	"strings"

	"github.com/sucre-siip/sucre/internal/registry"
)

// columnSynonyms maps colloquial column references to canonical schema
// names. The extraction prompt teaches the model these names, and
// Canonical re-applies the mapping as a safety net over the model's
// output.
var columnSynonyms = map[string]string{
	"delito":            registry.ColCrime,
	"delitos":           registry.ColCrime,
	"pena":              registry.ColSentence,
	"condena":           registry.ColSentence,
	"tiempo de condena": registry.ColSentence,
	"nombre":            registry.ColName,
	"nombres":           registry.ColName,
	"cedula":            registry.ColCedula,
	"ci":                registry.ColCedula,
	"estatus":           registry.ColStatus,
	"estado":            registry.ColStatus,
	"ubicacion":         registry.ColLocation,
	"pabellon":          registry.ColLocation,
	"celda":             registry.ColCell,
	"tribunal":          registry.ColCourt,
	"circuito":          registry.ColCircuit,
	"edad":              registry.ColAge,
	"sexo":              registry.ColSex,
	"ingreso":           registry.ColAdmissionDate,
	"fecha de ingreso":  registry.ColAdmissionDate,
	"detencion":         registry.ColDetentionDate,
	"fase":              registry.ColProcessPhase,
	"expediente":        registry.ColCaseNumber,
	"tiempo fisico":     registry.ColTimeServed,
	"redenciones":       registry.ColRedemptions,
}

// statusSynonyms maps words that imply a CONDICION JURIDICA filter,
// used by the prompt guide so the model emits a filter instead of a
// column.
var statusSynonyms = map[string]string{
	"penado":     "PENADO",
	"penados":    "PENADO",
	"procesado":  "PROCESADO",
	"procesados": "PROCESADO",
}

// Canonical resolves a column reference to its canonical schema name.
// Unknown references pass through uppercased so validation catches
// them against the live schema.
func Canonical(column string) string {
	key := strings.ToLower(strings.TrimSpace(column))
	if canonical, ok := columnSynonyms[key]; ok {
		return canonical
	}
	return strings.ToUpper(strings.TrimSpace(column))
}
