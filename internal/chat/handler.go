package chat

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/sucre-siip/sucre/internal/registry"
	"github.com/sucre-siip/sucre/pkg/handlers"
	"github.com/sucre-siip/sucre/pkg/routes"
)

// Handler provides the HTTP surface for conversations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "chat"),
	}
}

// Routes returns the route group definition for chat endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/chat",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/messages", Handler: h.Message},
			{Method: "DELETE", Pattern: "/sessions/{id}", Handler: h.Reset},
		},
	}
}

type messageRequest struct {
	SessionId string `json:"session_id"`
	Message   string `json:"message"`
}

type messageResponse struct {
	SessionId string `json:"session_id"`
	Reply     string `json:"reply"`
}

// Message runs one conversational turn. A missing session id starts a
// new session whose id is echoed back for subsequent turns.
func (h *Handler) Message(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errors.New("message is required"))
		return
	}

	if req.SessionId == "" {
		req.SessionId = uuid.NewString()
	}

	reply, err := h.sys.Message(r.Context(), req.SessionId, req.Message)
	if err != nil {
		handlers.RespondError(w, h.logger, registry.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, messageResponse{
		SessionId: req.SessionId,
		Reply:     reply,
	})
}

// Reset drops a session's conversational state.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.Reset(r.Context(), r.PathValue("id")); err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
