// Package engine interprets user utterances against the conversation
// state and produces replies. Dispatch walks an ordered rule table; the
// first rule whose predicate matches handles the turn, and the model is
// only consulted when no rule claims it.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/sucre-siip/sucre/internal/artifacts"
	"github.com/sucre-siip/sucre/internal/llm"
	"github.com/sucre-siip/sucre/internal/registry"
	"github.com/sucre-siip/sucre/internal/report"
	"github.com/sucre-siip/sucre/internal/sessions"
)

type Engine struct {
	llm       llm.Service
	compiler  *report.Compiler
	artifacts artifacts.System
	logger    *slog.Logger
	now       func() time.Time
}

func New(service llm.Service, compiler *report.Compiler, arts artifacts.System, logger *slog.Logger) *Engine {
	location, err := time.LoadLocation("America/Caracas")
	if err != nil {
		location = time.FixedZone("VET", -4*60*60)
	}

	return &Engine{
		llm:       service,
		compiler:  compiler,
		artifacts: arts,
		logger:    logger.With("system", "engine"),
		now:       func() time.Time { return time.Now().In(location) },
	}
}

// request carries one turn through the dispatch table.
type request struct {
	ctx       context.Context
	snapshot  *registry.Snapshot
	session   *sessions.Context
	utterance string
	folded    string
}

// rule is one dispatch entry. applies must be cheap and side-effect
// free; handle may mutate the session.
type rule struct {
	name    string
	applies func(e *Engine, r *request) bool
	handle  func(e *Engine, r *request) string
}

// dispatch is the interpretation order for every turn. Conversation
// state rules (pending authorization, open candidate lists) come before
// fresh intents so replies to a question are not misread as new
// queries, and a direct identifier outranks everything below it so a
// new lookup always supersedes stale state. The table is assembled in
// init because handlers re-enter Respond, which walks the table.
var dispatch []rule

func init() {
	dispatch = []rule{
		{
			name:    "greeting",
			applies: func(_ *Engine, r *request) bool { return greetings[r.folded] },
			handle:  (*Engine).handleGreeting,
		},
		{
			name: "authorization reply",
			applies: func(_ *Engine, r *request) bool {
				return r.session.State() == sessions.StateAwaitingAuthorization
			},
			handle: (*Engine).handleAuthorization,
		},
		{
			name: "sensitive follow-up",
			applies: func(_ *Engine, r *request) bool {
				if r.session.State() != sessions.StateActivePersonBound {
					return false
				}
				_, ok := detectSensitiveField(r.folded)
				return ok
			},
			handle: (*Engine).handleSensitiveFollowup,
		},
		{
			name: "disambiguation choice",
			applies: func(_ *Engine, r *request) bool {
				return r.session.State() == sessions.StateAwaitingDisambiguation
			},
			handle: (*Engine).handleDisambiguation,
		},
		{
			name: "suggestion choice",
			applies: func(_ *Engine, r *request) bool {
				return r.session.State() == sessions.StateAwaitingSuggestion
			},
			handle: (*Engine).handleSuggestion,
		},
		{
			name: "court follow-up",
			applies: func(_ *Engine, r *request) bool {
				return r.session.Court != nil && courtFollowupRegex.MatchString(r.folded)
			},
			handle: (*Engine).handleCourtFollowup,
		},
		{
			name: "court breakdown",
			applies: func(_ *Engine, r *request) bool {
				return r.session.Court != nil && courtBreakdownRegex.MatchString(r.folded)
			},
			handle: (*Engine).handleCourtBreakdown,
		},
		{
			name: "identifier lookup",
			applies: func(_ *Engine, r *request) bool {
				match, ok := detectIdentifier(r.folded)
				return ok && match.Cedula != ""
			},
			handle: (*Engine).handleIdentifier,
		},
		{
			name: "report request",
			applies: func(_ *Engine, r *request) bool {
				if _, ok := detectIdentifier(r.folded); ok {
					return false
				}
				return reportIntentRegex.MatchString(r.folded)
			},
			handle: (*Engine).handleReport,
		},
		{
			name: "sentence superlative",
			applies: func(_ *Engine, r *request) bool {
				return maxSentenceRegex.MatchString(r.folded) || minSentenceRegex.MatchString(r.folded)
			},
			handle: (*Engine).handleSentenceSuperlative,
		},
		{
			name: "busiest court",
			applies: func(_ *Engine, r *request) bool {
				return busiestCourtRegex.MatchString(r.folded)
			},
			handle: (*Engine).handleBusiestCourt,
		},
		{
			name: "name search",
			applies: func(e *Engine, r *request) bool {
				return len(nameQueryParts(r.folded)) > 0
			},
			handle: (*Engine).handleNameSearch,
		},
	}
}

// Respond interprets one utterance, mutating the session state, and
// returns the reply text. History is appended by the caller.
func (e *Engine) Respond(ctx context.Context, snapshot *registry.Snapshot, session *sessions.Context, utterance string) string {
	r := &request{
		ctx:       ctx,
		snapshot:  snapshot,
		session:   session,
		utterance: strings.TrimSpace(utterance),
		folded:    registry.NormalizeName(utterance),
	}

	for _, rule := range dispatch {
		if rule.applies(e, r) {
			e.logger.Debug("dispatched", "rule", rule.name, "state", session.State())
			return rule.handle(e, r)
		}
	}

	e.logger.Debug("dispatched", "rule", "llm fallback", "state", session.State())
	return e.fallback(r)
}

// greetings are matched exactly against the folded utterance.
var greetings = map[string]bool{
	"hola": true, "hola!": true, "buenas": true,
	"buenos dias": true, "buenas tardes": true, "buenas noches": true,
	"hey": true, "hi": true, "saludos": true,
}

const firstGreetingReply = `¡Hola! Soy Sucre, tu asistente del sistema penitenciario. Puedo ayudarte a:
- Consultar la situación jurídica de una persona por su cédula (por ejemplo: "situación jurídica V-12345678").
- Buscar a una persona por su nombre.
- Generar reportes y listados (por ejemplo: "dame la lista de penados con pena mayor a 10 años").
- Responder cuántos registros cumplen un criterio.
¿En qué te puedo ayudar?`

func (e *Engine) handleGreeting(r *request) string {
	if r.session.Greeted {
		return "¡Hola de nuevo! ¿En qué más te puedo ayudar?"
	}
	r.session.Greeted = true
	return firstGreetingReply
}

func (e *Engine) handleAuthorization(r *request) string {
	pending := r.session.PendingAuth

	switch parseAuthorization(r.folded) {
	case authGranted:
		r.session.PendingAuth = nil
		field, ok := fieldByName(pending.Field)
		if !ok {
			return llmErrorReply
		}
		row, found := r.snapshot.FindByCedula(pending.Cedula)
		if !found {
			r.session.ClearPerson()
			return notFoundReply(pending.Cedula)
		}
		return revealField(row, field)
	case authDenied:
		reply := denialReply(pending)
		r.session.ClearPerson()
		return reply
	default:
		// A fresh lookup or report request supersedes the pending question.
		if match, ok := detectIdentifier(r.folded); ok && match.Cedula != "" {
			r.session.PendingAuth = nil
			return e.handleIdentifier(r)
		} else if !ok && reportIntentRegex.MatchString(r.folded) {
			r.session.PendingAuth = nil
			return e.handleReport(r)
		}
		field, ok := fieldByName(pending.Field)
		if !ok {
			return llmErrorReply
		}
		return "No entendí tu respuesta. " + authorizationPrompt(field, pending.Name)
	}
}

func (e *Engine) handleSensitiveFollowup(r *request) string {
	field, _ := detectSensitiveField(r.folded)
	person := r.session.Person

	r.session.PendingAuth = &sessions.PendingAuthorization{
		Cedula: person.Cedula,
		Name:   person.Name,
		Field:  field.Name,
	}

	return authorizationPrompt(field, person.Name)
}

func (e *Engine) handleDisambiguation(r *request) string {
	candidates := r.session.Disambiguation

	if isCancellation(r.folded) {
		r.session.ClearCandidates()
		return "Búsqueda cancelada. ¿En qué más te puedo ayudar?"
	}

	if choice, ok := parseChoice(r.folded, len(candidates)); ok {
		return e.resolveCandidate(r, candidates[choice-1])
	}

	// Anything else abandons the list and is read as a fresh query.
	r.session.ClearCandidates()
	return e.Respond(r.ctx, r.snapshot, r.session, r.utterance)
}

func (e *Engine) handleSuggestion(r *request) string {
	candidates := r.session.Suggestions

	if isCancellation(r.folded) {
		r.session.ClearCandidates()
		return "Búsqueda cancelada. ¿En qué más te puedo ayudar?"
	}

	if choice, ok := parseChoice(r.folded, len(candidates)); ok {
		return e.resolveCandidate(r, candidates[choice-1])
	}

	return "Opción no válida para las sugerencias. Responde con el número de la opción, o 'ninguna' para cancelar."
}

func (e *Engine) resolveCandidate(r *request, candidate sessions.Candidate) string {
	row, found := r.snapshot.FindByCedula(candidate.NormalizedCedula)
	if !found {
		r.session.ClearCandidates()
		return notFoundReply(candidate.Cedula)
	}

	r.session.BindPerson(row.NormalizedCedula, row.Name())
	return e.presentPerson(r.ctx, row)
}

func (e *Engine) handleCourtFollowup(r *request) string {
	reply := courtFollowupReply(r.session.Court)
	r.session.Court = nil
	return reply
}

func (e *Engine) handleCourtBreakdown(r *request) string {
	reply := courtBreakdownReply(r.snapshot, r.session.Court)
	r.session.Court = nil
	return reply
}

func (e *Engine) handleIdentifier(r *request) string {
	match, _ := detectIdentifier(r.folded)

	// A new lookup always supersedes whatever was pending.
	r.session.Reset()

	row, found := r.snapshot.FindByCedula(registry.NormalizeCedula(match.Cedula))
	if !found {
		return notFoundReply(match.Cedula)
	}

	r.session.BindPerson(row.NormalizedCedula, row.Name())
	return e.presentPerson(r.ctx, row)
}

var reportIntentRegex = regexp.MustCompile(
	`\b(reporte|lista|listado|relacion|dame|todos|cuantos|quienes son|generar)\b`)

func (e *Engine) handleReport(r *request) string {
	r.session.ClearPerson()
	r.session.Court = nil

	rpt, err := e.compiler.Compile(r.ctx, r.snapshot, r.utterance)
	if err != nil {
		e.logger.Error("report compilation failed", "error", err)
		if errors.Is(err, report.ErrExtraction) {
			return "Lo siento, tuve problemas para entender la estructura de tu solicitud. Intenta de nuevo."
		}
		return "No pude generar el reporte. Intenta de nuevo en unos momentos."
	}

	if rpt.CountOnly {
		return rpt.CountReply()
	}

	if rpt.Total == 0 {
		if len(rpt.Criteria) == 0 {
			return "No encontré registros en el sistema."
		}
		return fmt.Sprintf("No encontré registros que cumplan con: %s.",
			strings.Join(rpt.Criteria, ", "))
	}

	artifact, err := e.artifacts.SaveReport(r.ctx, rpt)
	if err != nil {
		e.logger.Error("report export failed", "error", err)
		return fmt.Sprintf("Encontré %d registros, pero no pude exportar el reporte. Intenta de nuevo.", rpt.Total)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", rpt.Title)
	if len(rpt.Criteria) > 0 {
		fmt.Fprintf(&b, "Encontré %d registros que cumplen con: %s.\n", rpt.Total, strings.Join(rpt.Criteria, ", "))
	} else {
		fmt.Fprintf(&b, "Encontré %d registros.\n", rpt.Total)
	}
	fmt.Fprintf(&b, "Puedes descargar el reporte aquí: %s", artifact.Link)
	return b.String()
}

func (e *Engine) handleSentenceSuperlative(r *request) string {
	wantMax := maxSentenceRegex.MatchString(r.folded)

	reply, row := sentenceExtremeReply(r.snapshot, wantMax)
	if row != nil {
		r.session.BindPerson(row.NormalizedCedula, row.Name())
	}
	return reply
}

func (e *Engine) handleBusiestCourt(r *request) string {
	reply, court := busiestCourtReply(r.snapshot)
	r.session.Court = court
	return reply
}

// nameLeadIns are stripped from the front of a folded utterance before
// treating the rest as a name query.
var nameLeadInRegex = regexp.MustCompile(
	`^(quien es|quienes son|busca a|buscar a|busca|buscar|informacion de|informacion del|datos de|datos del)\s+`)

func nameQueryParts(folded string) []string {
	query := folded

	if match := keywordRegex.FindStringSubmatch(folded); match != nil {
		query = strings.TrimSpace(match[2])
	}
	query = nameLeadInRegex.ReplaceAllString(query, "")

	return registry.NameParts(query)
}

func (e *Engine) handleNameSearch(r *request) string {
	match, hasKeyword := detectIdentifier(r.folded)
	parts := nameQueryParts(r.folded)
	query := strings.Join(parts, " ")

	rows := r.snapshot.SearchByName(parts)

	switch {
	case len(rows) == 1:
		row := rows[0]
		r.session.BindPerson(row.NormalizedCedula, row.Name())
		return e.presentPerson(r.ctx, row)

	case len(rows) > 1:
		r.session.ClearPerson()
		r.session.Disambiguation = toCandidates(rows)
		return disambiguationList(query, rows)
	}

	if similar := r.snapshot.SimilarNames(query); len(similar) > 0 {
		r.session.ClearPerson()
		r.session.Suggestions = toCandidates(similar)
		return suggestionList(query, similar)
	}

	if hasKeyword && match.Keyword != "" {
		return fmt.Sprintf("No encontré a '%s' en el sistema. Verifica el nombre o intenta con la cédula.", query)
	}

	return e.fallback(r)
}

func toCandidates(rows []registry.Row) []sessions.Candidate {
	candidates := make([]sessions.Candidate, len(rows))
	for i, row := range rows {
		candidates[i] = sessions.Candidate{
			Cedula:           row.Cedula(),
			NormalizedCedula: row.NormalizedCedula,
			Name:             row.Name(),
		}
	}
	return candidates
}
