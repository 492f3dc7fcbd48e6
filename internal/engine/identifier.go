package engine

import (
	"regexp"
	"strings"

	"github.com/sucre-siip/sucre/internal/registry"
)

// identifierKeywords are the phrases that mark a direct record lookup,
// longest first so compound phrases win. Matching runs over
// accent-folded text, which collapses both spellings of each keyword.
var identifierKeywords = []string{
	"ficha juridica",
	"situacion juridica",
	"situacion",
	"cedula",
	"sj",
	"fj",
}

var (
	keywordRegex = regexp.MustCompile(
		`\b(` + strings.Join(identifierKeywords, "|") + `)\b(?:\s+(?:de|del|la|el|a))?\s*(.*)`)

	// A candidate identifier token at the start of the keyword payload.
	cedulaLeadRegex = regexp.MustCompile(`^\s*([a-z0-9\-]{6,20})\b`)

	// A standalone identifier token anywhere in the message. Go's regexp
	// has no lookbehind, so the boundary is matched explicitly and the
	// token captured as a group.
	cedulaAnyRegex = regexp.MustCompile(`(?:^|[^a-z0-9\-])([a-z0-9\-]{6,20})(?:[^a-z0-9\-]|$)`)
)

// identifierMatch is the outcome of scanning a message for a record
// lookup. Keyword may be set without a Cedula when the payload turned
// out to be a name.
type identifierMatch struct {
	Keyword string
	Cedula  string
	Payload string
}

// detectIdentifier scans a folded message for a lookup keyword and an
// identifier token. A token is only accepted when it carries at least
// three consecutive digits, which keeps plain words out.
func detectIdentifier(folded string) (identifierMatch, bool) {
	var match identifierMatch

	if m := keywordRegex.FindStringSubmatch(folded); m != nil {
		match.Keyword = m[1]
		match.Payload = strings.TrimSpace(m[2])

		if token := cedulaLeadRegex.FindStringSubmatch(match.Payload); token != nil {
			if registry.ValidCedula(token[1]) {
				match.Cedula = token[1]
				return match, true
			}
		}
	}

	for _, token := range cedulaAnyRegex.FindAllStringSubmatch(folded, -1) {
		if registry.ValidCedula(token[1]) {
			match.Cedula = token[1]
			return match, true
		}
	}

	return match, match.Keyword != ""
}
