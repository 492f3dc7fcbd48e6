package engine

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/sucre-siip/sucre/internal/registry"
	"github.com/sucre-siip/sucre/internal/sessions"
)

var (
	courtFollowupRegex = regexp.MustCompile(
		`de que estado es|a que circuito pertenece|cual es su circuito|estado del tribunal|ubicacion del tribunal`)

	courtBreakdownRegex = regexp.MustCompile(
		`cuantos por (estado|circuito)|desglose por (estado|circuito)|distribucion por (estado|circuito)`)
)

// courtFollowupReply answers where the pending court sits. The court
// context is consumed by the caller after one follow-up.
func courtFollowupReply(court *sessions.CourtContext) string {
	switch len(court.Circuits) {
	case 0:
		return fmt.Sprintf("No tengo registrado el circuito judicial del tribunal %s.", court.Number)
	case 1:
		return fmt.Sprintf("El tribunal %s pertenece al circuito judicial %s.",
			court.Number, court.Circuits[0])
	default:
		return fmt.Sprintf("El tribunal %s aparece en varios circuitos judiciales: %s.",
			court.Number, strings.Join(court.Circuits, ", "))
	}
}

// courtBreakdownReply counts the in-system population of the pending
// court by judicial circuit.
func courtBreakdownReply(snapshot *registry.Snapshot, court *sessions.CourtContext) string {
	counts := make(map[string]int)
	for _, row := range snapshot.Rows {
		if !row.InSystem() {
			continue
		}
		if row.Get(registry.ColCourt) != court.Number {
			continue
		}
		circuit := row.Get(registry.ColCircuit)
		if circuit == "" {
			circuit = "SIN CIRCUITO"
		}
		counts[circuit]++
	}

	if len(counts) == 0 {
		return fmt.Sprintf("No encontré registros en el sistema para el tribunal %s.", court.Number)
	}

	circuits := make([]string, 0, len(counts))
	for circuit := range counts {
		circuits = append(circuits, circuit)
	}
	sort.Slice(circuits, func(i, j int) bool {
		if counts[circuits[i]] != counts[circuits[j]] {
			return counts[circuits[i]] > counts[circuits[j]]
		}
		return circuits[i] < circuits[j]
	})

	var b strings.Builder
	fmt.Fprintf(&b, "Distribución por circuito judicial del tribunal %s:\n", court.Number)
	for _, circuit := range circuits {
		fmt.Fprintf(&b, "- %s: %d\n", circuit, counts[circuit])
	}
	return strings.TrimRight(b.String(), "\n")
}
