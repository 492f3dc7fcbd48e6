package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sucre-siip/sucre/internal/registry"
)

// extractionPrompt builds the instruction sent to the model to turn a
// user request into a JSON report specification. The live schema is
// embedded so the model only names columns that exist.
func extractionPrompt(snapshot *registry.Snapshot, utterance string, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hoy es %s.\n\n", now.Format("02/01/2006"))
	b.WriteString("Eres un extractor de especificaciones de reportes para un registro penitenciario.\n")
	b.WriteString("Analiza la solicitud del usuario y responde UNICAMENTE con un objeto JSON, sin texto adicional.\n\n")

	b.WriteString("Columnas disponibles:\n")
	for _, column := range snapshot.Columns {
		fmt.Fprintf(&b, "- %s\n", column)
	}

	b.WriteString("\nGuia de sinonimos (termino del usuario -> columna):\n")
	for _, term := range sortedKeys(columnSynonyms) {
		fmt.Fprintf(&b, "- %s -> %s\n", term, columnSynonyms[term])
	}
	for _, term := range sortedKeys(statusSynonyms) {
		fmt.Fprintf(&b, "- %s -> filtro %s = %s\n", term, registry.ColLegalCondition, statusSynonyms[term])
	}

	b.WriteString(`
Reglas:
1. "filtros" es un objeto columna -> condicion. Una condicion puede ser:
   - un texto a buscar dentro de la columna, por ejemplo "HOMICIDIO"
   - "NO VACIO" cuando el usuario pide registros con la columna llena
   - {"op": ">", "valor": 10} para comparaciones numericas (op: <, >, <=, >=, ==)
   - {"start_date": "01/01/2024", "end_date": "31/12/2024"} para rangos de fechas inclusivos
   - un año de cuatro digitos para columnas de fecha, por ejemplo "2024"
2. "VCM" o "violencia contra la mujer" filtra DELITO CON MAYOR GRAVEDAD con el texto "VIOLENCIA".
3. Si el usuario pide "los primeros N", "top N" o "ultimos N", usa "limite": N.
4. Si el usuario menciona "este año" o "año actual" usa el año de la fecha de hoy.
5. Comparaciones de pena ("mas de 10 años de pena") van sobre TIEMPO DE PENA con op y valor en años.
6. "columnas" lista columnas adicionales que el usuario quiere ver. No repitas las columnas filtradas.
7. Si no hay filtros, devuelve "filtros" como objeto vacio.

Ejemplos:
Solicitud: dame los presos con pena mayor a 10 años
{"filtros": {"TIEMPO DE PENA": {"op": ">", "valor": 10}}, "columnas": []}

Solicitud: lista de procesados por homicidio con su tribunal
{"filtros": {"CONDICION JURIDICA": "PROCESADO", "DELITO CON MAYOR GRAVEDAD": "HOMICIDIO"}, "columnas": ["NUMERO DE TRIBUNAL"]}

Solicitud: los primeros 20 ingresos de 2024
{"filtros": {"FECHA DE INGRESO": "2024"}, "columnas": [], "limite": 20}

`)

	fmt.Fprintf(&b, "Solicitud del usuario: %s\nJSON:", utterance)
	return b.String()
}

// titlePrompt asks the model for a short report title.
func titlePrompt(criteria []string) string {
	return fmt.Sprintf(
		"Genera un titulo corto (10 a 15 palabras) en español para un reporte penitenciario con estos criterios: %s.\n"+
			"Ejemplos: \"Reporte de penados con condenas mayores a diez años\", \"Listado de ingresos registrados durante 2024\".\n"+
			"Responde solo con el titulo, sin comillas.",
		strings.Join(criteria, "; "))
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
