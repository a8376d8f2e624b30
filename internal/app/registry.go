package app

import (
	"context"
	"sync"
	"time"

	"farmer-market-web/internal/apiclient"
	"farmer-market-web/internal/logger"
	"farmer-market-web/internal/storage"

	"go.uber.org/zap"
)

// SessionPrefix namespaces a browser session's keys in the shared backend.
const SessionPrefix = "session:"

type entry struct {
	c        *Container
	lastSeen time.Time
}

// Registry caches one Container per session id over a shared backend.
type Registry struct {
	mu      sync.Mutex
	backend storage.Store
	api     apiclient.API
	items   map[string]*entry
	now     func() time.Time
}

func NewRegistry(backend storage.Store, api apiclient.API) *Registry {
	return &Registry{
		backend: backend,
		api:     api,
		items:   make(map[string]*entry),
		now:     time.Now,
	}
}

// Get returns the container for sid, building it on first use. Building is
// done under the lock so concurrent first requests share one container.
func (r *Registry) Get(ctx context.Context, sid string) (*Container, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.items[sid]; ok {
		e.lastSeen = r.now()
		return e.c, nil
	}

	c, err := New(ctx, storage.Namespace(r.backend, SessionPrefix+sid), r.api)
	if err != nil {
		return nil, err
	}
	r.items[sid] = &entry{c: c, lastSeen: r.now()}
	return c, nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Evict drops containers idle for longer than idle. Their data stays in the
// backend and is rehydrated on the next request.
func (r *Registry) Evict(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for sid, e := range r.items {
		if r.now().Sub(e.lastSeen) > idle {
			delete(r.items, sid)
			n++
		}
	}
	return n
}

// Run evicts idle containers every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval, idle time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := r.Evict(idle); n > 0 {
				logger.FromCtx(ctx).Debug("evicted idle sessions", zap.Int("count", n))
			}
		}
	}
}
