package api

import (
	"net/http"

	"github.com/sucre-siip/sucre/internal/artifacts"
	"github.com/sucre-siip/sucre/internal/chat"
	"github.com/sucre-siip/sucre/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain, runtime *Runtime) {
	routes.Register(
		mux,
		domain.Registry.Handler().Routes(),
		chat.NewHandler(domain.Chat, runtime.Logger).Routes(),
		artifacts.NewHandler(domain.Artifacts, runtime.Logger).Routes(),
	)
}
