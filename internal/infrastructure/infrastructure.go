// Package infrastructure provides core service initialization for
// application startup. It assembles the shared dependencies (logging,
// database, blob storage, session store, model client) that domain
// systems require.
package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/sucre-siip/sucre/internal/config"
	"github.com/sucre-siip/sucre/internal/llm"
	"github.com/sucre-siip/sucre/internal/sessions"
	"github.com/sucre-siip/sucre/pkg/database"
	"github.com/sucre-siip/sucre/pkg/lifecycle"
	"github.com/sucre-siip/sucre/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Sessions  sessions.Store
	LLM       llm.Service
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(ctx context.Context, cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	sessionStore, err := newSessionStore(&cfg.Sessions, logger)
	if err != nil {
		return nil, fmt.Errorf("session store init failed: %w", err)
	}

	var model llm.Service
	if cfg.LLM.ApiKey == "" {
		logger.Warn("no llm api key configured, model-backed replies disabled")
		model = llm.NewDisabled()
	} else {
		model, err = llm.NewGemini(ctx, &cfg.LLM, logger)
		if err != nil {
			return nil, fmt.Errorf("llm init failed: %w", err)
		}
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Sessions:  sessionStore,
		LLM:       model,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	if redis, ok := i.Sessions.(*sessions.RedisStore); ok {
		if err := redis.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("session store start failed: %w", err)
		}
	}
	return nil
}

func newSessionStore(cfg *sessions.Config, logger *slog.Logger) (sessions.Store, error) {
	switch cfg.Backend {
	case "memory":
		return sessions.NewMemoryStore(), nil
	case "redis":
		return sessions.NewRedisStore(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown sessions backend %q", cfg.Backend)
	}
}
