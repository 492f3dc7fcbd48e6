package sessions

import "context"

// Store persists conversation contexts by session identifier.
// Get returns a fresh empty Context for unknown sessions.
type Store interface {
	Get(ctx context.Context, sessionID string) (*Context, error)
	Put(ctx context.Context, sessionID string, value *Context) error
	Delete(ctx context.Context, sessionID string) error
}
