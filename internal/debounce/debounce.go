// Package debounce provides a keyed trailing-edge debouncer: repeated
// triggers for the same key within the window supersede each other, and
// keys never delay one another.
package debounce

import (
	"sync"
	"time"
)

// Keyed coalesces rapid triggers per key into a single callback run
// after the quiet window elapses.
type Keyed struct {
	window time.Duration

	mu      sync.Mutex
	pending map[string]*pendingCall
}

type pendingCall struct {
	timer *time.Timer
	fn    func()
}

// NewKeyed creates a debouncer with the given quiet window.
func NewKeyed(window time.Duration) *Keyed {
	return &Keyed{
		window:  window,
		pending: make(map[string]*pendingCall),
	}
}

// Trigger schedules fn to run after the window. A pending call for the
// same key is cancelled and replaced, not merged.
func (k *Keyed) Trigger(key string, fn func()) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if p, ok := k.pending[key]; ok {
		p.timer.Stop()
	}

	p := &pendingCall{fn: fn}
	p.timer = time.AfterFunc(k.window, func() {
		k.mu.Lock()
		if k.pending[key] == p {
			delete(k.pending, key)
		}
		k.mu.Unlock()
		fn()
	})
	k.pending[key] = p
}

// Cancel drops any pending call for key without running it.
func (k *Keyed) Cancel(key string) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if p, ok := k.pending[key]; ok {
		p.timer.Stop()
		delete(k.pending, key)
	}
}

// Flush runs every pending call immediately, synchronously, and clears
// the pending set. Used on shutdown so no edit is lost to the window.
func (k *Keyed) Flush() {
	k.mu.Lock()
	calls := make([]func(), 0, len(k.pending))
	for key, p := range k.pending {
		p.timer.Stop()
		calls = append(calls, p.fn)
		delete(k.pending, key)
	}
	k.mu.Unlock()

	for _, fn := range calls {
		fn()
	}
}
