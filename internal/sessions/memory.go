package sessions

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore is an in-process Store for single-instance deployments
// and tests. Contexts are deep-copied on the way in and out.
type MemoryStore struct {
	mu       sync.RWMutex
	contexts map[string]*Context
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{contexts: make(map[string]*Context)}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (*Context, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.contexts[sessionID]
	if !ok {
		return &Context{}, nil
	}
	return cloneContext(value)
}

func (s *MemoryStore) Put(_ context.Context, sessionID string, value *Context) error {
	copied, err := cloneContext(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.contexts[sessionID] = copied
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.contexts, sessionID)
	return nil
}

func cloneContext(value *Context) (*Context, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var copied Context
	if err := json.Unmarshal(raw, &copied); err != nil {
		return nil, err
	}
	return &copied, nil
}
