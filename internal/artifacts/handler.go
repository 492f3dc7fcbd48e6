package artifacts

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/sucre-siip/sucre/pkg/handlers"
	"github.com/sucre-siip/sucre/pkg/routes"
	"github.com/sucre-siip/sucre/pkg/storage"
)

// Handler serves stored artifacts over HTTP.
type Handler struct {
	sys    System
	logger *slog.Logger
}

func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "artifacts"),
	}
}

// Routes returns the route group definition for artifact downloads.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/artifacts",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{category}/{name...}", Handler: h.Download},
		},
	}
}

// Download streams a stored artifact. The key is rebuilt from the path
// so only known categories are reachable.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("category") + "/" + r.PathValue("name")

	reader, contentType, err := h.sys.Open(r.Context(), key)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, storage.ErrNotFound) {
			status = http.StatusNotFound
		}
		handlers.RespondError(w, h.logger, status, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", contentType)
	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Error("artifact stream interrupted", "key", key, "error", err)
	}
}
