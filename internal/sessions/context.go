// Package sessions holds per-session conversation state and its stores.
package sessions

// Candidate is one person offered during name disambiguation.
type Candidate struct {
	Cedula           string `json:"cedula"`
	NormalizedCedula string `json:"cedula_normalizada"`
	Name             string `json:"nombre"`
}

// ActivePerson is the person currently bound to the conversation for
// follow-up questions.
type ActivePerson struct {
	Cedula string `json:"cedula"` // normalized
	Name   string `json:"nombre"`
}

// PendingAuthorization records a sensitive follow-up that must be
// confirmed before the field value is revealed.
type PendingAuthorization struct {
	Cedula string `json:"cedula"`
	Name   string `json:"nombre"`
	Field  string `json:"field"`
}

// CourtContext is the court most recently surfaced by a statistic
// answer, kept for one follow-up turn.
type CourtContext struct {
	Number   string   `json:"numero"`
	Circuits []string `json:"circuitos"`
}

// State identifies which conversational slot drives interpretation of
// the next utterance. At most one is active per turn.
type State string

const (
	StateIdle                   State = "idle"
	StateAwaitingAuthorization  State = "awaiting_authorization"
	StateAwaitingDisambiguation State = "awaiting_disambiguation"
	StateAwaitingSuggestion     State = "awaiting_similar_suggestion"
	StateActivePersonBound      State = "active_person_bound"
	StateAwaitingCourtFollowup  State = "awaiting_court_followup"
)

// Context is the complete conversation state for one session. It is a
// plain value persisted as a whole; handlers mutate a copy and put it
// back, never individual keys.
type Context struct {
	Person         *ActivePerson         `json:"person,omitempty"`
	Disambiguation []Candidate           `json:"disambiguation,omitempty"`
	Suggestions    []Candidate           `json:"suggestions,omitempty"`
	PendingAuth    *PendingAuthorization `json:"pending_auth,omitempty"`
	Court          *CourtContext         `json:"court,omitempty"`
	History        []string              `json:"history,omitempty"`
	Greeted        bool                  `json:"greeted,omitempty"`
}

// State derives the current interpretation state. Pending authorization
// outranks open candidate lists, which outrank a bound person.
func (c *Context) State() State {
	switch {
	case c.PendingAuth != nil:
		return StateAwaitingAuthorization
	case len(c.Disambiguation) > 0:
		return StateAwaitingDisambiguation
	case len(c.Suggestions) > 0:
		return StateAwaitingSuggestion
	case c.Person != nil:
		return StateActivePersonBound
	case c.Court != nil:
		return StateAwaitingCourtFollowup
	default:
		return StateIdle
	}
}

// BindPerson sets the active person and clears every pending slot that
// referred to the previous one.
func (c *Context) BindPerson(cedula, name string) {
	c.Person = &ActivePerson{Cedula: cedula, Name: name}
	c.Disambiguation = nil
	c.Suggestions = nil
	c.PendingAuth = nil
}

// ClearPerson drops the active person and any authorization pending on them.
func (c *Context) ClearPerson() {
	c.Person = nil
	c.PendingAuth = nil
}

// ClearCandidates drops both disambiguation and suggestion queues.
func (c *Context) ClearCandidates() {
	c.Disambiguation = nil
	c.Suggestions = nil
}

// Reset clears all conversational slots but keeps history and greeting state.
func (c *Context) Reset() {
	c.Person = nil
	c.Disambiguation = nil
	c.Suggestions = nil
	c.PendingAuth = nil
	c.Court = nil
}

// AppendHistory records a user/assistant exchange, trimming to the most
// recent maxTurns pairs.
func (c *Context) AppendHistory(user, assistant string, maxTurns int) {
	c.History = append(c.History, "Usuario: "+user, "Sucre: "+assistant)
	if limit := maxTurns * 2; limit > 0 && len(c.History) > limit {
		c.History = c.History[len(c.History)-limit:]
	}
}
