// Package chat exposes the conversational endpoint. It owns session
// concurrency and persistence around the engine, which stays free of
// transport and storage concerns.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sucre-siip/sucre/internal/engine"
	"github.com/sucre-siip/sucre/internal/registry"
	"github.com/sucre-siip/sucre/internal/sessions"
)

type System interface {
	// Message runs one conversational turn for the session and returns
	// the reply. Turns within a session are serialized.
	Message(ctx context.Context, sessionID, utterance string) (string, error)
	// Reset drops the session state.
	Reset(ctx context.Context, sessionID string) error
}

type system struct {
	registry registry.System
	store    sessions.Store
	engine   *engine.Engine
	history  int
	logger   *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(reg registry.System, store sessions.Store, eng *engine.Engine, historyTurns int, logger *slog.Logger) System {
	return &system{
		registry: reg,
		store:    store,
		engine:   eng,
		history:  historyTurns,
		logger:   logger.With("system", "chat"),
		locks:    make(map[string]*sync.Mutex),
	}
}

func (s *system) Message(ctx context.Context, sessionID, utterance string) (string, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	snapshot, err := s.registry.Snapshot()
	if err != nil {
		return "", err
	}

	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("load session %s: %w", sessionID, err)
	}

	reply := s.engine.Respond(ctx, snapshot, session, utterance)
	session.AppendHistory(utterance, reply, s.history)

	if err := s.store.Put(ctx, sessionID, session); err != nil {
		// The reply is already computed; losing one turn of state is
		// preferable to failing the message.
		s.logger.Error("session persistence failed", "session", sessionID, "error", err)
	}

	return reply, nil
}

func (s *system) Reset(ctx context.Context, sessionID string) error {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	return s.store.Delete(ctx, sessionID)
}

// sessionLock returns the serialization lock for a session, creating it
// on first use. Locks are never reclaimed; session IDs are bounded by
// real users.
func (s *system) sessionLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[sessionID] = lock
	}
	return lock
}
