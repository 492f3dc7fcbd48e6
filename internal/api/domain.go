package api

import (
	"github.com/sucre-siip/sucre/internal/artifacts"
	"github.com/sucre-siip/sucre/internal/chat"
	"github.com/sucre-siip/sucre/internal/engine"
	"github.com/sucre-siip/sucre/internal/registry"
	"github.com/sucre-siip/sucre/internal/report"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Registry  registry.System
	Artifacts artifacts.System
	Chat      chat.System
}

// NewDomain creates all domain systems from the API runtime. The
// registry system must be started through the lifecycle coordinator
// before the chat system can serve turns.
func NewDomain(runtime *Runtime) *Domain {
	registrySystem := registry.New(
		registry.NewRepository(runtime.Database.Connection()),
		&runtime.Config.Registry,
		runtime.Logger,
		runtime.Pagination,
	)

	artifactsSystem := artifacts.New(
		runtime.Storage,
		&runtime.Config.Artifacts,
		runtime.Logger,
	)

	conversationEngine := engine.New(
		runtime.LLM,
		report.NewCompiler(runtime.LLM, runtime.Logger),
		artifactsSystem,
		runtime.Logger,
	)

	chatSystem := chat.New(
		registrySystem,
		runtime.Sessions,
		conversationEngine,
		runtime.Config.Sessions.MaxHistoryTurns,
		runtime.Logger,
	)

	return &Domain{
		Registry:  registrySystem,
		Artifacts: artifactsSystem,
		Chat:      chatSystem,
	}
}
