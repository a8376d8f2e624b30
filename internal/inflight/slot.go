// Package inflight keeps at most one live submission per slot. Starting a
// new submission cancels the previous one, and only the newest may commit
// its result.
package inflight

import (
	"context"
	"sync"
)

type Slot struct {
	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	pending int
}

// Handle is one submission started by Slot.Begin.
type Handle struct {
	slot *Slot
	gen  uint64
	ctx  context.Context
	stop context.CancelFunc
	once sync.Once
}

// Begin cancels the current submission, if any, and starts a new one whose
// context derives from parent.
func (s *Slot) Begin(parent context.Context) *Handle {
	ctx, cancel := context.WithCancel(parent)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	s.cancel = cancel
	s.pending++
	h := &Handle{slot: s, gen: s.gen, ctx: ctx, stop: cancel}
	s.mu.Unlock()

	return h
}

// Context is cancelled when the handle is superseded or done.
func (h *Handle) Context() context.Context { return h.ctx }

// Current reports whether no newer submission has started.
func (h *Handle) Current() bool {
	h.slot.mu.Lock()
	defer h.slot.mu.Unlock()
	return h.gen == h.slot.gen && h.ctx.Err() == nil
}

// Commit runs fn only if h is still the newest submission, holding the slot
// so that a concurrent Begin cannot interleave. It reports whether fn ran.
func (h *Handle) Commit(fn func()) bool {
	h.slot.mu.Lock()
	defer h.slot.mu.Unlock()
	if h.gen != h.slot.gen || h.ctx.Err() != nil {
		return false
	}
	fn()
	return true
}

// Done releases the handle. It is safe to call more than once.
func (h *Handle) Done() {
	h.once.Do(func() {
		h.slot.mu.Lock()
		h.slot.pending--
		if h.gen == h.slot.gen {
			h.slot.cancel = nil
		}
		h.slot.mu.Unlock()
		h.stop()
	})
}

// Pending reports whether any submission has begun and not finished.
func (s *Slot) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending > 0
}
