package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/sucre-siip/sucre/internal/registry"
	"github.com/sucre-siip/sucre/internal/sessions"
)

const llmErrorReply = "Tuve un problema contactando a mi asistente IA. Intenta de nuevo."

// personaInstructions is the standing behavior contract for open-ended
// answers.
const personaInstructions = `Eres Sucre, un asistente conversacional del sistema penitenciario venezolano (SIIP).

Comportamiento:
- Responde en español, de forma breve y directa.
- Solo respondes sobre el sistema penitenciario y la información de contexto que se te entrega.
- No opinas sobre política, religión ni sexo. Si te preguntan, declina amablemente.
- Si no tienes la información, dilo claramente en lugar de inventarla.
- Para cálculos de pena: TIEMPO DE PENA es la condena total, TIEMPO FISICO es lo cumplido.
  El tiempo restante es la diferencia; expresa años y meses.

Capacidades que puedes mencionar: consultar la situación jurídica por cédula,
buscar personas por nombre y generar reportes del registro.`

// hiddenColumns are never injected into the model context. They are
// internal lookup fields, not person data.
var hiddenColumns = map[string]bool{
	"CEDULA NORMALIZADA": true,
	"NOMBRE NORMALIZADO": true,
	"FOTO":               true,
}

// fallback delegates an unmatched utterance to the model with the
// conversation history and the bound person's record as context.
func (e *Engine) fallback(r *request) string {
	prompt := fallbackPrompt(r.snapshot, r.session, r.utterance, e.now())

	reply, err := e.llm.GenerateReply(r.ctx, prompt)
	if err != nil {
		e.logger.Warn("fallback generation failed", "error", err)
		return llmErrorReply
	}

	return reply
}

func fallbackPrompt(snapshot *registry.Snapshot, session *sessions.Context, utterance string, now time.Time) string {
	var b strings.Builder

	if len(session.History) > 0 {
		b.WriteString("Historial reciente de la conversación:\n")
		for _, line := range session.History {
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("Instrucciones y Contexto para Sucre (tú):\n")
	b.WriteString(personaInstructions)
	fmt.Fprintf(&b, "\n\nFecha y hora actual en Venezuela: %s.\n", now.Format("02/01/2006 15:04"))

	if session.Person != nil {
		if row, ok := snapshot.FindByCedula(session.Person.Cedula); ok {
			b.WriteString("\nInformación de la persona activa en la conversación:\n")
			for _, column := range snapshot.Columns {
				if hiddenColumns[column] {
					continue
				}
				if value := row.Get(column); value != "" {
					fmt.Fprintf(&b, "- %s: %s\n", column, value)
				}
			}
		}
	}

	fmt.Fprintf(&b, "\nPregunta del Usuario: %s\nRespuesta de Sucre:", utterance)
	return b.String()
}
