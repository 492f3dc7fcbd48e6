package engine

import (
	"strconv"
	"strings"
)

// ordinals maps spelled-out choices to positions, folded spelling.
var ordinals = map[string]int{
	"primero": 1, "primera": 1,
	"segundo": 2, "segunda": 2,
	"tercero": 3, "tercera": 3,
	"cuarto": 4, "cuarta": 4,
	"quinto": 5, "quinta": 5,
	"sexto": 6, "sexta": 6,
	"septimo": 7, "septima": 7,
	"octavo": 8, "octava": 8,
	"noveno": 9, "novena": 9,
	"decimo": 10, "decima": 10,
}

var cancelWords = map[string]bool{
	"cancelar": true,
	"cancela":  true,
	"ninguno":  true,
	"ninguna":  true,
}

// parseChoice interprets a folded reply to a numbered candidate list.
// Accepts a bare number or an ordinal word within bounds.
func parseChoice(folded string, count int) (int, bool) {
	trimmed := strings.TrimSpace(strings.Trim(folded, ".!"))

	if n, err := strconv.Atoi(trimmed); err == nil {
		if n >= 1 && n <= count {
			return n, true
		}
		return 0, false
	}

	fields := strings.Fields(trimmed)
	for _, field := range fields {
		if n, ok := ordinals[field]; ok && n >= 1 && n <= count {
			return n, true
		}
	}

	return 0, false
}

// isCancellation reports whether a folded reply abandons the candidate list.
func isCancellation(folded string) bool {
	return cancelWords[strings.TrimSpace(strings.Trim(folded, ".!"))]
}
