package engine

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/sucre-siip/sucre/internal/registry"
	"github.com/sucre-siip/sucre/internal/sessions"
	"github.com/sucre-siip/sucre/pkg/formatting"
)

var (
	maxSentenceRegex = regexp.MustCompile(
		`mayor pena|pena mas alta|pena mas larga|mas años de pena|condena mas alta|condena mas larga`)
	minSentenceRegex = regexp.MustCompile(
		`menor pena|pena mas baja|pena mas corta|menos años de pena|condena mas baja|condena mas corta`)
	busiestCourtRegex = regexp.MustCompile(
		`tribunal con mas|tribunal que mas|que tribunal tiene mas`)
)

// sentenceExtreme finds the in-system rows holding the longest or
// shortest parseable sentence. Zero-year sentences are ignored.
func sentenceExtreme(snapshot *registry.Snapshot, wantMax bool) ([]registry.Row, float64) {
	var (
		best    float64
		matches []registry.Row
	)

	for _, row := range snapshot.InSystemRows() {
		years, ok := formatting.ParseSentenceYears(row.Get(registry.ColSentence))
		if !ok || years <= 0 {
			continue
		}

		switch {
		case len(matches) == 0,
			wantMax && years > best,
			!wantMax && years < best:
			best = years
			matches = []registry.Row{row}
		case years == best:
			matches = append(matches, row)
		}
	}

	return matches, best
}

// sentenceExtremeReply answers a longest/shortest sentence question.
// A single match binds the person for follow-ups; the caller applies
// the returned row.
func sentenceExtremeReply(snapshot *registry.Snapshot, wantMax bool) (string, *registry.Row) {
	matches, years := sentenceExtreme(snapshot, wantMax)
	if len(matches) == 0 {
		return "No encontré penas registradas para responder esa pregunta.", nil
	}

	label := "mayor"
	if !wantMax {
		label = "menor"
	}
	duration := formatting.FormatSentenceYears(years)

	if len(matches) == 1 {
		row := matches[0]
		return fmt.Sprintf("La persona con la %s pena es %s (C.I. %s), con %s.",
			label, row.Name(), row.Cedula(), duration), &row
	}

	names := make([]string, 0, 3)
	for i, row := range matches {
		if i == 3 {
			break
		}
		names = append(names, fmt.Sprintf("%s (C.I. %s)", row.Name(), row.Cedula()))
	}

	reply := fmt.Sprintf("Hay %d personas con la %s pena, %s: %s.",
		len(matches), label, duration, strings.Join(names, ", "))
	return reply, nil
}

// busiestCourtReply finds the court with the largest in-system
// population and leaves it as court context for one follow-up.
func busiestCourtReply(snapshot *registry.Snapshot) (string, *sessions.CourtContext) {
	counts := make(map[string]int)
	circuits := make(map[string]map[string]bool)

	for _, row := range snapshot.InSystemRows() {
		court := row.Get(registry.ColCourt)
		if court == "" {
			continue
		}
		counts[court]++
		if circuit := row.Get(registry.ColCircuit); circuit != "" {
			if circuits[court] == nil {
				circuits[court] = make(map[string]bool)
			}
			circuits[court][circuit] = true
		}
	}

	if len(counts) == 0 {
		return "No encontré tribunales registrados para responder esa pregunta.", nil
	}

	var best string
	for court, count := range counts {
		if best == "" || count > counts[best] || (count == counts[best] && court < best) {
			best = court
		}
	}

	courtCircuits := make([]string, 0, len(circuits[best]))
	for circuit := range circuits[best] {
		courtCircuits = append(courtCircuits, circuit)
	}
	sort.Strings(courtCircuits)

	court := &sessions.CourtContext{Number: best, Circuits: courtCircuits}

	reply := fmt.Sprintf("El tribunal con más personas en el sistema es el %s, con %d registros.",
		best, counts[best])
	if len(courtCircuits) > 0 {
		reply += fmt.Sprintf(" Pertenece al circuito judicial: %s.", strings.Join(courtCircuits, ", "))
	}

	return reply, court
}
