package api

import (
	"github.com/sucre-siip/sucre/internal/config"
	"github.com/sucre-siip/sucre/internal/infrastructure"
	"github.com/sucre-siip/sucre/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Config     *config.Config
	Pagination pagination.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
			Sessions:  infra.Sessions,
			LLM:       infra.LLM,
		},
		Config:     cfg,
		Pagination: cfg.API.Pagination,
	}
}
