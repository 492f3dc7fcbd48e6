package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/robfig/cron/v3"

	"github.com/sucre-siip/sucre/pkg/lifecycle"
	"github.com/sucre-siip/sucre/pkg/pagination"
)

// System defines the public contract for registry operations. The
// snapshot side serves the conversational engine; the list side backs
// the browse API.
type System interface {
	Handler() *Handler

	// Snapshot returns the current registry view. Returns ErrNotLoaded
	// before the first successful load.
	Snapshot() (*Snapshot, error)
	// Refresh reloads the snapshot from the database and swaps it in.
	Refresh(ctx context.Context) error

	List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[PersonSummary], error)
	Find(ctx context.Context, cedula string) (Row, error)

	Start(lc *lifecycle.Coordinator) error
}

type system struct {
	repo       *Repository
	current    atomic.Pointer[Snapshot]
	cron       *cron.Cron
	schedule   string
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a registry system backed by the given repository.
func New(repo *Repository, cfg *Config, logger *slog.Logger, pg pagination.Config) System {
	return &system{
		repo:       repo,
		cron:       cron.New(),
		schedule:   cfg.RefreshSchedule,
		logger:     logger.With("system", "registry"),
		pagination: pg,
	}
}

func (s *system) Handler() *Handler {
	return NewHandler(s, s.logger, s.pagination)
}

func (s *system) Snapshot() (*Snapshot, error) {
	snapshot := s.current.Load()
	if snapshot == nil {
		return nil, ErrNotLoaded
	}
	return snapshot, nil
}

func (s *system) Refresh(ctx context.Context) error {
	snapshot, err := s.repo.LoadSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("refresh registry: %w", err)
	}

	s.current.Store(snapshot)
	s.logger.Info("registry snapshot refreshed",
		"rows", snapshot.Len(),
		"columns", len(snapshot.Columns),
	)
	return nil
}

func (s *system) List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[PersonSummary], error) {
	return s.repo.List(ctx, page)
}

func (s *system) Find(_ context.Context, cedula string) (Row, error) {
	snapshot, err := s.Snapshot()
	if err != nil {
		return Row{}, err
	}

	row, ok := snapshot.FindByCedula(NormalizeCedula(cedula))
	if !ok {
		return Row{}, ErrNotFound
	}
	return row, nil
}

func (s *system) Start(lc *lifecycle.Coordinator) error {
	s.logger.Info("starting registry system", "schedule", s.schedule)

	_, err := s.cron.AddFunc(s.schedule, func() {
		if err := s.Refresh(context.Background()); err != nil {
			s.logger.Error("scheduled registry refresh failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule registry refresh: %w", err)
	}

	lc.OnStartup(func(ctx context.Context) error {
		if err := s.Refresh(ctx); err != nil {
			return err
		}
		s.cron.Start()
		return nil
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		stopCtx := s.cron.Stop()
		<-stopCtx.Done()
		s.logger.Info("registry refresh scheduler stopped")
	})

	return nil
}
