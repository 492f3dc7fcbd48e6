package engine_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/sucre-siip/sucre/internal/artifacts"
	"github.com/sucre-siip/sucre/internal/engine"
	"github.com/sucre-siip/sucre/internal/llm"
	"github.com/sucre-siip/sucre/internal/registry"
	"github.com/sucre-siip/sucre/internal/report"
	"github.com/sucre-siip/sucre/internal/sessions"
)

type fakeLLM struct {
	spec  *llm.ReportSpec
	reply string
	err   error
}

func (f *fakeLLM) ExtractReportSpec(context.Context, string) (*llm.ReportSpec, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.spec == nil {
		return &llm.ReportSpec{Filters: map[string]any{}}, nil
	}
	return f.spec, nil
}

func (f *fakeLLM) GenerateReply(context.Context, string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeArtifacts struct {
	saved int
}

func (f *fakeArtifacts) SaveReport(context.Context, *report.Report) (artifacts.Artifact, error) {
	f.saved++
	return artifacts.Artifact{Key: "reportes/test.csv", Link: "/api/artifacts/reportes/test.csv"}, nil
}

func (f *fakeArtifacts) AvailablePhotos(context.Context, string) []string { return nil }

func (f *fakeArtifacts) FichaLink(context.Context, string) (string, bool) { return "", false }

func (f *fakeArtifacts) Open(context.Context, string) (io.ReadCloser, string, error) {
	return nil, "", errors.New("not stored")
}

func testSnapshot() *registry.Snapshot {
	columns := []string{
		registry.ColName,
		registry.ColCedula,
		registry.ColStatus,
		registry.ColCrime,
		registry.ColSentence,
		registry.ColLegalCondition,
		registry.ColCourt,
		registry.ColCircuit,
		registry.ColAdmissionDate,
		registry.ColTimeServed,
		registry.ColTimeServedRed,
		registry.ColRedemptions,
	}

	cells := []map[string]string{
		{
			registry.ColName:           "JUAN CARLOS PEREZ",
			registry.ColCedula:         "V-1000001",
			registry.ColStatus:         "ACTIVO",
			registry.ColCrime:          "HOMICIDIO CALIFICADO",
			registry.ColSentence:       "15 AÑOS",
			registry.ColLegalCondition: "PENADO",
			registry.ColCourt:          "TRIBUNAL 4",
			registry.ColCircuit:        "CARACAS",
			registry.ColAdmissionDate:  "10/03/2022",
		},
		{
			registry.ColName:           "JUAN PEREZ GOMEZ",
			registry.ColCedula:         "V-1000002",
			registry.ColStatus:         "ACTIVO",
			registry.ColCrime:          "ROBO AGRAVADO",
			registry.ColSentence:       "8 AÑOS",
			registry.ColLegalCondition: "PENADO",
			registry.ColCourt:          "TRIBUNAL 4",
			registry.ColCircuit:        "CARACAS",
			registry.ColAdmissionDate:  "05/07/2024",
		},
		{
			registry.ColName:           "MARIA GONZALEZ",
			registry.ColCedula:         "V-1000003",
			registry.ColStatus:         "ACTIVO",
			registry.ColCrime:          "ESTAFA",
			registry.ColSentence:       "4 AÑOS",
			registry.ColLegalCondition: "PROCESADO",
			registry.ColCourt:          "TRIBUNAL 9",
			registry.ColCircuit:        "MIRANDA",
			registry.ColAdmissionDate:  "20/01/2023",
		},
		{
			registry.ColName:           "CARLOS RODRIGUEZ",
			registry.ColCedula:         "V-1000004",
			registry.ColStatus:         "HOSPITALIZADO",
			registry.ColCrime:          "HURTO",
			registry.ColSentence:       "2 AÑOS",
			registry.ColLegalCondition: "PROCESADO",
			registry.ColCourt:          "TRIBUNAL 4",
			registry.ColCircuit:        "CARACAS",
			registry.ColAdmissionDate:  "2021-05-15",
			registry.ColTimeServed:     "03 AÑOS",
			registry.ColTimeServedRed:  "02 AÑOS",
			registry.ColRedemptions:    "00 AÑOS 00 MESES",
		},
	}

	rows := make([]registry.Row, len(cells))
	for i, c := range cells {
		rows[i] = registry.NewRow(c)
	}

	return registry.NewSnapshot(columns, rows, time.Now())
}

func newEngine(service llm.Service) (*engine.Engine, *fakeArtifacts) {
	logger := slog.New(slog.DiscardHandler)
	arts := &fakeArtifacts{}
	return engine.New(service, report.NewCompiler(service, logger), arts, logger), arts
}

func respond(t *testing.T, e *engine.Engine, session *sessions.Context, utterance string) string {
	t.Helper()
	return e.Respond(context.Background(), testSnapshot(), session, utterance)
}

func TestGreetings(t *testing.T) {
	e, _ := newEngine(&fakeLLM{})
	session := &sessions.Context{}

	t.Run("first greeting introduces capabilities", func(t *testing.T) {
		reply := respond(t, e, session, "Hola")
		if !strings.Contains(reply, "Soy Sucre") {
			t.Errorf("expected introduction, got %q", reply)
		}
	})

	t.Run("repeat greeting is short", func(t *testing.T) {
		reply := respond(t, e, session, "buenas tardes")
		if !strings.Contains(reply, "de nuevo") {
			t.Errorf("expected short greeting, got %q", reply)
		}
	})
}

func TestIdentifierLookup(t *testing.T) {
	e, _ := newEngine(&fakeLLM{})

	t.Run("keyword with identifier presents the record", func(t *testing.T) {
		session := &sessions.Context{}
		reply := respond(t, e, session, "situación jurídica V-1000001")

		if !strings.Contains(reply, "JUAN CARLOS PEREZ") {
			t.Errorf("expected person info, got %q", reply)
		}
		if session.State() != sessions.StateActivePersonBound {
			t.Errorf("expected bound person, state %s", session.State())
		}
	})

	t.Run("standalone identifier works without keyword", func(t *testing.T) {
		session := &sessions.Context{}
		reply := respond(t, e, session, "V-1000003")

		if !strings.Contains(reply, "MARIA GONZALEZ") {
			t.Errorf("expected person info, got %q", reply)
		}
	})

	t.Run("unknown identifier reports not found", func(t *testing.T) {
		session := &sessions.Context{}
		reply := respond(t, e, session, "cedula V-9999999")

		if !strings.Contains(reply, "No encontré información para la cédula") {
			t.Errorf("expected not found reply, got %q", reply)
		}
	})

	t.Run("new identifier supersedes pending state", func(t *testing.T) {
		session := &sessions.Context{
			PendingAuth: &sessions.PendingAuthorization{Cedula: "V1000001", Name: "JUAN CARLOS PEREZ", Field: "delito"},
		}
		reply := respond(t, e, session, "sj V-1000003")

		if !strings.Contains(reply, "MARIA GONZALEZ") {
			t.Errorf("expected new lookup to win, got %q", reply)
		}
		if session.PendingAuth != nil {
			t.Error("expected pending authorization cleared")
		}
	})
}

func TestRecordPresentation(t *testing.T) {
	e, _ := newEngine(&fakeLLM{})

	t.Run("date cells render day first", func(t *testing.T) {
		session := &sessions.Context{}
		reply := respond(t, e, session, "V-1000004")

		if !strings.Contains(reply, "FECHA DE INGRESO: 15/05/2021") {
			t.Errorf("expected formatted admission date, got %q", reply)
		}
	})

	t.Run("zero computed redemptions mirror time served", func(t *testing.T) {
		session := &sessions.Context{}
		reply := respond(t, e, session, "V-1000004")

		if !strings.Contains(reply, "TIEMPO FISICO CON REDENCIONES: 03 AÑOS") {
			t.Errorf("expected mirrored time served, got %q", reply)
		}
		if strings.Contains(reply, "02 AÑOS") {
			t.Errorf("stored redemption time must be overridden, got %q", reply)
		}
	})
}

func TestAuthorizationGate(t *testing.T) {
	e, _ := newEngine(&fakeLLM{})

	bind := func(t *testing.T) *sessions.Context {
		t.Helper()
		session := &sessions.Context{}
		respond(t, e, session, "situacion juridica V-1000001")
		return session
	}

	t.Run("sensitive question asks for authorization", func(t *testing.T) {
		session := bind(t)
		reply := respond(t, e, session, "¿cuál es su delito?")

		if !strings.Contains(reply, "necesito tu autorización") {
			t.Errorf("expected authorization prompt, got %q", reply)
		}
		if session.State() != sessions.StateAwaitingAuthorization {
			t.Errorf("expected awaiting authorization, state %s", session.State())
		}
	})

	t.Run("affirmative reveals the field", func(t *testing.T) {
		session := bind(t)
		respond(t, e, session, "su delito")
		reply := respond(t, e, session, "sí")

		if !strings.Contains(reply, "HOMICIDIO CALIFICADO") {
			t.Errorf("expected crime revealed, got %q", reply)
		}
		if session.State() != sessions.StateActivePersonBound {
			t.Errorf("expected person still bound, state %s", session.State())
		}
	})

	t.Run("denial clears the person", func(t *testing.T) {
		session := bind(t)
		respond(t, e, session, "su delito")
		reply := respond(t, e, session, "no")

		if !strings.Contains(reply, "No accederé a la información") {
			t.Errorf("expected denial reply, got %q", reply)
		}
		if session.Person != nil {
			t.Error("expected person cleared after denial")
		}
	})

	t.Run("report request supersedes the pending question", func(t *testing.T) {
		reporting, arts := newEngine(&fakeLLM{reply: "Reporte general"})
		session := &sessions.Context{}
		respond(t, reporting, session, "situacion juridica V-1000001")
		respond(t, reporting, session, "su delito")
		reply := respond(t, reporting, session, "dame la lista de penados")

		if !strings.Contains(reply, "Encontré 4 registros") {
			t.Errorf("expected report reply, got %q", reply)
		}
		if session.PendingAuth != nil {
			t.Error("expected pending authorization cleared")
		}
		if arts.saved != 1 {
			t.Errorf("expected one export, got %d", arts.saved)
		}
	})

	t.Run("unclear answer repeats the question", func(t *testing.T) {
		session := bind(t)
		respond(t, e, session, "su delito")
		reply := respond(t, e, session, "tal vez")

		if !strings.Contains(reply, "No entendí tu respuesta") {
			t.Errorf("expected re-ask, got %q", reply)
		}
		if session.State() != sessions.StateAwaitingAuthorization {
			t.Errorf("expected still awaiting, state %s", session.State())
		}
	})
}

func TestNameSearch(t *testing.T) {
	e, _ := newEngine(&fakeLLM{})

	t.Run("multiple matches open a numbered list", func(t *testing.T) {
		session := &sessions.Context{}
		reply := respond(t, e, session, "situacion juridica de juan perez")

		if !strings.Contains(reply, "1.") || !strings.Contains(reply, "2.") {
			t.Errorf("expected numbered list, got %q", reply)
		}
		if session.State() != sessions.StateAwaitingDisambiguation {
			t.Errorf("expected disambiguation, state %s", session.State())
		}
	})

	t.Run("numeric choice resolves the candidate", func(t *testing.T) {
		session := &sessions.Context{}
		respond(t, e, session, "situacion juridica de juan perez")
		reply := respond(t, e, session, "2")

		if !strings.Contains(reply, "JUAN PEREZ GOMEZ") {
			t.Errorf("expected second candidate, got %q", reply)
		}
		if session.State() != sessions.StateActivePersonBound {
			t.Errorf("expected bound person, state %s", session.State())
		}
	})

	t.Run("ordinal choice resolves the candidate", func(t *testing.T) {
		session := &sessions.Context{}
		respond(t, e, session, "situacion juridica de juan perez")
		reply := respond(t, e, session, "la primera")

		if !strings.Contains(reply, "JUAN CARLOS PEREZ") {
			t.Errorf("expected first candidate, got %q", reply)
		}
	})

	t.Run("cancellation clears the list", func(t *testing.T) {
		session := &sessions.Context{}
		respond(t, e, session, "situacion juridica de juan perez")
		reply := respond(t, e, session, "ninguno")

		if !strings.Contains(reply, "Búsqueda cancelada") {
			t.Errorf("expected cancellation, got %q", reply)
		}
		if session.State() != sessions.StateIdle {
			t.Errorf("expected idle, state %s", session.State())
		}
	})

	t.Run("unrelated input abandons the list and re-evaluates", func(t *testing.T) {
		session := &sessions.Context{}
		respond(t, e, session, "situacion juridica de juan perez")
		reply := respond(t, e, session, "cedula V-1000003")

		if !strings.Contains(reply, "MARIA GONZALEZ") {
			t.Errorf("expected fresh lookup, got %q", reply)
		}
	})

	t.Run("near miss offers suggestions", func(t *testing.T) {
		session := &sessions.Context{}
		reply := respond(t, e, session, "situacion juridica de maria gonsales")

		if !strings.Contains(reply, "Quizás quisiste decir") {
			t.Errorf("expected suggestions, got %q", reply)
		}
		if session.State() != sessions.StateAwaitingSuggestion {
			t.Errorf("expected suggestion state, state %s", session.State())
		}
	})

	t.Run("invalid suggestion reply keeps the list", func(t *testing.T) {
		session := &sessions.Context{}
		respond(t, e, session, "situacion juridica de maria gonsales")
		reply := respond(t, e, session, "no se")

		if !strings.Contains(reply, "Opción no válida") {
			t.Errorf("expected rejection, got %q", reply)
		}
		if session.State() != sessions.StateAwaitingSuggestion {
			t.Errorf("expected list kept, state %s", session.State())
		}
	})
}

func TestReportDispatch(t *testing.T) {
	t.Run("report request compiles and links the export", func(t *testing.T) {
		service := &fakeLLM{
			spec: &llm.ReportSpec{
				Filters: map[string]any{registry.ColSentence: map[string]any{"op": ">", "valor": float64(5)}},
			},
			reply: "Reporte de condenas mayores a cinco años",
		}
		e, arts := newEngine(service)
		session := &sessions.Context{}

		reply := respond(t, e, session, "dame la lista de presos con pena mayor a 5 años")

		if !strings.Contains(reply, "Encontré 2 registros") {
			t.Errorf("expected report summary, got %q", reply)
		}
		if !strings.Contains(reply, "/api/artifacts/reportes/test.csv") {
			t.Errorf("expected download link, got %q", reply)
		}
		if arts.saved != 1 {
			t.Errorf("expected one export, got %d", arts.saved)
		}
	})

	t.Run("count question answers with totals", func(t *testing.T) {
		service := &fakeLLM{
			spec: &llm.ReportSpec{
				Filters: map[string]any{registry.ColLegalCondition: "PENADO"},
			},
		}
		e, arts := newEngine(service)
		session := &sessions.Context{}

		reply := respond(t, e, session, "cuantos penados hay")

		if !strings.Contains(reply, "Hay 2 registros") {
			t.Errorf("expected count reply, got %q", reply)
		}
		if arts.saved != 0 {
			t.Error("count replies must not export a report")
		}
	})

	t.Run("extraction failure apologizes", func(t *testing.T) {
		e, _ := newEngine(&fakeLLM{err: errors.New("offline")})
		session := &sessions.Context{}

		reply := respond(t, e, session, "dame el reporte de ingresos")

		if !strings.Contains(reply, "tuve problemas para entender") {
			t.Errorf("expected extraction apology, got %q", reply)
		}
	})
}

func TestSuperlatives(t *testing.T) {
	e, _ := newEngine(&fakeLLM{})

	t.Run("longest sentence binds the person", func(t *testing.T) {
		session := &sessions.Context{}
		reply := respond(t, e, session, "¿quién tiene la mayor pena?")

		if !strings.Contains(reply, "JUAN CARLOS PEREZ") {
			t.Errorf("expected max sentence holder, got %q", reply)
		}
		if session.Person == nil {
			t.Error("expected single match to bind the person")
		}
	})

	t.Run("busiest court sets court context", func(t *testing.T) {
		session := &sessions.Context{}
		reply := respond(t, e, session, "¿cuál es el tribunal con más presos?")

		if !strings.Contains(reply, "TRIBUNAL 4") {
			t.Errorf("expected busiest court, got %q", reply)
		}
		if session.Court == nil || session.Court.Number != "TRIBUNAL 4" {
			t.Errorf("expected court context, got %+v", session.Court)
		}
	})

	t.Run("court breakdown counts every in-system status", func(t *testing.T) {
		session := &sessions.Context{}
		respond(t, e, session, "tribunal con mas presos")
		reply := respond(t, e, session, "desglose por circuito")

		// TRIBUNAL 4 holds two ACTIVO rows and one HOSPITALIZADO row,
		// all of them inside the system.
		if !strings.Contains(reply, "CARACAS: 3") {
			t.Errorf("expected full in-system count, got %q", reply)
		}
		if session.Court != nil {
			t.Error("expected court context consumed")
		}
	})

	t.Run("court follow-up answers and clears the context", func(t *testing.T) {
		session := &sessions.Context{}
		respond(t, e, session, "tribunal con mas presos")
		reply := respond(t, e, session, "¿a qué circuito pertenece?")

		if !strings.Contains(reply, "CARACAS") {
			t.Errorf("expected circuit answer, got %q", reply)
		}
		if session.Court != nil {
			t.Error("expected court context consumed")
		}
	})
}

func TestFallback(t *testing.T) {
	t.Run("unmatched question goes to the model", func(t *testing.T) {
		e, _ := newEngine(&fakeLLM{reply: "La hora actual en Venezuela es mediodía."})
		session := &sessions.Context{}

		reply := respond(t, e, session, "que hora es en venezuela")

		if !strings.Contains(reply, "mediodía") {
			t.Errorf("expected model reply, got %q", reply)
		}
	})

	t.Run("model failure yields the standard apology", func(t *testing.T) {
		e, _ := newEngine(&fakeLLM{err: errors.New("offline")})
		session := &sessions.Context{}

		reply := respond(t, e, session, "que hora es en venezuela")

		if !strings.Contains(reply, "Tuve un problema contactando") {
			t.Errorf("expected apology, got %q", reply)
		}
	})
}
