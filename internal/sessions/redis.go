package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sucre-siip/sucre/pkg/lifecycle"
)

// RedisStore keeps session contexts in Redis with a sliding TTL so
// multiple service instances share conversation state.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	logger *slog.Logger
}

// NewRedisStore creates a RedisStore from the given configuration.
func NewRedisStore(cfg *Config, logger *slog.Logger) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &RedisStore{
		client: client,
		ttl:    cfg.TTLDuration(),
		prefix: cfg.KeyPrefix,
		logger: logger.With("system", "sessions"),
	}
}

// Start registers a connectivity check and client shutdown.
func (s *RedisStore) Start(lc *lifecycle.Coordinator) error {
	s.logger.Info("starting session store")

	lc.OnStartup(func(ctx context.Context) error {
		if err := s.client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("session store ping: %w", err)
		}
		s.logger.Info("session store connected")
		return nil
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := s.client.Close(); err != nil {
			s.logger.Error("session store close failed", "error", err)
		}
	})

	return nil
}

func (s *RedisStore) key(sessionID string) string {
	return s.prefix + sessionID
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (*Context, error) {
	raw, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return &Context{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", sessionID, err)
	}

	var value Context
	if err := json.Unmarshal(raw, &value); err != nil {
		// A corrupt entry should not wedge the session permanently.
		s.logger.Warn("discarding unreadable session context", "session", sessionID, "error", err)
		return &Context{}, nil
	}
	return &value, nil
}

func (s *RedisStore) Put(ctx context.Context, sessionID string, value *Context) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sessionID, err)
	}

	if err := s.client.Set(ctx, s.key(sessionID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("put session %s: %w", sessionID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	return nil
}
