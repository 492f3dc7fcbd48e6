// Package api assembles the API module with all domain systems and
// route registration.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sucre-siip/sucre/internal/config"
	"github.com/sucre-siip/sucre/internal/infrastructure"
	"github.com/sucre-siip/sucre/pkg/middleware"
	"github.com/sucre-siip/sucre/pkg/module"
)

// NewModule creates the API module with all domain handlers and
// middleware, and returns the domain so the caller can register
// lifecycle hooks.
func NewModule(ctx context.Context, cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, *Domain, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, runtime)

	auth, err := middleware.Auth(ctx, &cfg.API.Auth)
	if err != nil {
		return nil, nil, fmt.Errorf("auth middleware: %w", err)
	}

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(auth)
	m.Use(middleware.Logger(runtime.Logger))

	return m, domain, nil
}
