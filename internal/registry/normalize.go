package registry

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	cedulaStripRegex = regexp.MustCompile(`[\s-]`)
	cedulaDigits     = regexp.MustCompile(`\d{3,}`)
	accentFold       = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// NormalizeCedula strips hyphens and whitespace from an identifier token
// and upper-cases it.
func NormalizeCedula(raw string) string {
	return strings.ToUpper(cedulaStripRegex.ReplaceAllString(raw, ""))
}

// ValidCedula reports whether a captured token plausibly is an identifier.
// Requires at least three consecutive digits.
func ValidCedula(raw string) bool {
	return cedulaDigits.MatchString(raw)
}

// NormalizeName folds accents, lower-cases, and collapses whitespace so
// name comparisons are insensitive to diacritics and casing.
func NormalizeName(raw string) string {
	folded, _, err := transform.String(accentFold, raw)
	if err != nil {
		folded = raw
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// NameParts splits free text into normalized name tokens for search.
// Single-character tokens are dropped unless the text is a single word.
func NameParts(text string) []string {
	words := strings.Fields(text)
	parts := make([]string, 0, len(words))
	for _, word := range words {
		if len([]rune(word)) < 2 && len(words) > 1 {
			continue
		}
		if normalized := NormalizeName(word); normalized != "" {
			parts = append(parts, normalized)
		}
	}
	return parts
}

func normalizeStatus(status string) string {
	return strings.ToUpper(strings.TrimSpace(status))
}
