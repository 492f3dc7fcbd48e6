package engine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sucre-siip/sucre/internal/registry"
	"github.com/sucre-siip/sucre/internal/sessions"
)

// sensitiveField describes a person attribute that needs authorization
// before it is revealed. Patterns run over folded text.
type sensitiveField struct {
	Name    string
	Display string
	Column  string
	pattern *regexp.Regexp
}

// sensitiveFields are the attributes behind the authorization gate, in
// detection order. Broad patterns come last so specific ones win.
var sensitiveFields = []sensitiveField{
	{
		Name:    "delito",
		Display: "el delito",
		Column:  registry.ColCrime,
		pattern: regexp.MustCompile(`\bdelitos?\b`),
	},
	{
		Name:    "edad",
		Display: "la edad",
		Column:  registry.ColAge,
		pattern: regexp.MustCompile(`\bedad\b|cuantos años tiene|que edad`),
	},
	{
		Name:    "establecimiento",
		Display: "el establecimiento",
		Column:  registry.ColEstablishment,
		pattern: regexp.MustCompile(`\bestablecimiento\b|\bpenal\b|\bcarcel\b|\brecinto\b`),
	},
	{
		Name:    "condicion_juridica",
		Display: "la condición jurídica",
		Column:  registry.ColLegalCondition,
		pattern: regexp.MustCompile(`\bcondicion\b`),
	},
	{
		Name:    "fase_proceso",
		Display: "la fase del proceso",
		Column:  registry.ColProcessPhase,
		pattern: regexp.MustCompile(`\bfase\b|\bproceso\b`),
	},
}

var (
	affirmativeWords = map[string]bool{
		"si": true, "ok": true, "dale": true, "procede": true, "autorizo": true,
	}
	negativeWords = map[string]bool{
		"no": true, "cancela": true, "cancelar": true,
	}
)

// detectSensitiveField matches a folded follow-up question against the
// gated attributes.
func detectSensitiveField(folded string) (sensitiveField, bool) {
	for _, field := range sensitiveFields {
		if field.pattern.MatchString(folded) {
			return field, true
		}
	}
	return sensitiveField{}, false
}

func fieldByName(name string) (sensitiveField, bool) {
	for _, field := range sensitiveFields {
		if field.Name == name {
			return field, true
		}
	}
	return sensitiveField{}, false
}

// authorizationPrompt is the question asked before revealing a gated field.
func authorizationPrompt(field sensitiveField, name string) string {
	return fmt.Sprintf(
		"Para responderte sobre %s de %s, necesito tu autorización para acceder a su información. ¿Autorizas el acceso?",
		field.Display, name)
}

type authDecision int

const (
	authUnclear authDecision = iota
	authGranted
	authDenied
)

// parseAuthorization interprets a folded reply to the authorization
// prompt. Anything outside the known word lists is unclear and the
// question is repeated.
func parseAuthorization(folded string) authDecision {
	word := strings.TrimSpace(strings.Trim(folded, ".!"))
	switch {
	case affirmativeWords[word]:
		return authGranted
	case negativeWords[word]:
		return authDenied
	default:
		return authUnclear
	}
}

// revealField renders the gated field value once authorization is granted.
func revealField(row registry.Row, field sensitiveField) string {
	value := row.Get(field.Column)
	if value == "" {
		return fmt.Sprintf("No tengo registrado %s de %s.", field.Display, row.Name())
	}
	return fmt.Sprintf("%s de %s es: %s.", capitalize(field.Display), row.Name(), value)
}

func denialReply(pending *sessions.PendingAuthorization) string {
	return fmt.Sprintf("Entendido. No accederé a la información de %s.", pending.Name)
}

func capitalize(text string) string {
	if text == "" {
		return text
	}
	runes := []rune(text)
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}
