package registry

import (
	"log/slog"
	"net/http"

	"github.com/sucre-siip/sucre/pkg/handlers"
	"github.com/sucre-siip/sucre/pkg/pagination"
	"github.com/sucre-siip/sucre/pkg/routes"
)

// Handler provides HTTP endpoints for browsing the registry.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pg pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "registry"),
		pagination: pg,
	}
}

// Routes returns the route group definition for registry endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/registry",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/people", Handler: h.List},
			{Method: "GET", Pattern: "/people/{cedula}", Handler: h.Find},
			{Method: "POST", Pattern: "/refresh", Handler: h.Refresh},
		},
	}
}

// List returns a paginated list of person summaries with optional search.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)

	result, err := h.sys.List(r.Context(), page)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns the full registry row for an identifier path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	row, err := h.sys.Find(r.Context(), r.PathValue("cedula"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, row)
}

// Refresh forces an immediate snapshot reload.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.Refresh(r.Context()); err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
