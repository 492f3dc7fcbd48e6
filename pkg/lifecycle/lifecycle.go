// Package lifecycle coordinates subsystem startup and shutdown for the service.
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ReadinessChecker reports whether a subsystem is ready to serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

// Coordinator runs startup hooks concurrently through an errgroup and
// tracks shutdown hooks that fire when its context is cancelled.
type Coordinator struct {
	ctx        context.Context
	cancel     context.CancelFunc
	startup    *errgroup.Group
	startupCtx context.Context
	shutdownWg sync.WaitGroup

	mu         sync.RWMutex
	ready      bool
	startupErr error
}

// New creates a Coordinator with a cancellable root context.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	group, groupCtx := errgroup.WithContext(ctx)
	return &Coordinator{
		ctx:        ctx,
		cancel:     cancel,
		startup:    group,
		startupCtx: groupCtx,
	}
}

// Context returns the coordinator's context, cancelled on shutdown or on
// the first startup hook failure.
func (c *Coordinator) Context() context.Context {
	return c.startupCtx
}

// OnStartup registers a hook to run concurrently during startup.
// A non-nil error cancels the coordinator context.
func (c *Coordinator) OnStartup(fn func(ctx context.Context) error) {
	c.startup.Go(func() error {
		return fn(c.startupCtx)
	})
}

// OnShutdown registers a hook that runs concurrently once shutdown begins.
// Hooks should block on <-ctx.Done() before cleaning up.
func (c *Coordinator) OnShutdown(fn func()) {
	c.shutdownWg.Go(fn)
}

// Ready returns true after all startup hooks completed without error.
func (c *Coordinator) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

// StartupErr returns the first error produced by a startup hook, if any.
func (c *Coordinator) StartupErr() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.startupErr
}

// WaitForStartup blocks until every startup hook has finished and records
// the readiness outcome.
func (c *Coordinator) WaitForStartup() error {
	err := c.startup.Wait()

	c.mu.Lock()
	c.startupErr = err
	c.ready = err == nil
	c.mu.Unlock()

	return err
}

// Shutdown cancels the context and waits for shutdown hooks to complete
// within the given timeout.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.shutdownWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}
