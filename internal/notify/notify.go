// Package notify derives the currently active and upcoming entries from
// wall-clock time and pushes snapshots to the UI whenever either
// changes identity.
package notify

import (
	"sort"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hvu/timeblock/internal/model"
)

// DefaultInterval is how often the wall clock is re-sampled.
const DefaultInterval = 5 * time.Second

// Snapshot carries the active and next entries, either of which may be
// nil.
type Snapshot struct {
	Active *model.Entry
	Next   *model.Entry
}

// SnapshotMsg is the tea.Msg delivered when the snapshot changes.
type SnapshotMsg struct {
	Snapshot Snapshot
}

// Resolve computes the active and next entries for the given wall-clock
// minute. The active interval is half-open: an entry is active from its
// exact start minute and stops being active at its exact end minute.
func Resolve(entries []model.Entry, nowMinutes int) (active, next *model.Entry) {
	sorted := make([]model.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartMinutes < sorted[j].StartMinutes
	})

	for i := range sorted {
		if sorted[i].StartMinutes <= nowMinutes && nowMinutes < sorted[i].EndMinutes {
			active = &sorted[i]
			break
		}
	}

	for i := range sorted {
		if sorted[i].StartMinutes < nowMinutes {
			continue
		}
		if active != nil && sorted[i].ID == active.ID {
			continue
		}
		next = &sorted[i]
		break
	}

	return active, next
}

// EntriesFunc returns the current today-bucket entries.
type EntriesFunc func() []model.Entry

// Watcher re-samples the clock on a fixed interval, resolves the
// snapshot against the today bucket, and pushes it on identity change.
type Watcher struct {
	entries  EntriesFunc
	interval time.Duration
	clock    func() time.Time

	snapCh    chan Snapshot
	triggerCh chan struct{}
	stopCh    chan struct{}

	mu      sync.Mutex
	running bool
	lastIDs [2]string
	primed  bool
}

// NewWatcher creates a watcher over the given entries provider. The
// clock is injectable for tests; nil means time.Now.
func NewWatcher(entries EntriesFunc, interval time.Duration, clock func() time.Time) *Watcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if clock == nil {
		clock = time.Now
	}
	return &Watcher{
		entries:   entries,
		interval:  interval,
		clock:     clock,
		snapCh:    make(chan Snapshot, 8),
		triggerCh: make(chan struct{}, 8),
		stopCh:    make(chan struct{}),
	}
}

// Start launches the sampling loop and returns a command that waits for
// the first snapshot.
func (w *Watcher) Start() tea.Cmd {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return w.waitForSnapshot()
	}
	w.running = true
	w.mu.Unlock()

	go w.loop()
	return w.waitForSnapshot()
}

// Stop halts the sampling loop.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	close(w.stopCh)
	w.running = false
}

// Trigger requests an immediate recompute, used when the today bucket
// was edited.
func (w *Watcher) Trigger() {
	select {
	case w.triggerCh <- struct{}{}:
	default:
	}
}

// WaitForNext returns a command that waits for the next pushed
// snapshot. Call it after handling each SnapshotMsg to keep listening.
func (w *Watcher) WaitForNext() tea.Cmd {
	return w.waitForSnapshot()
}

func (w *Watcher) waitForSnapshot() tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-w.snapCh
		if !ok {
			return nil
		}
		return SnapshotMsg{Snapshot: snap}
	}
}

func (w *Watcher) loop() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.sample()
	for {
		select {
		case <-w.stopCh:
			// Closing the snapshot channel releases any pending
			// WaitForNext command, so a replaced watcher cannot leak
			// its listener goroutine.
			close(w.snapCh)
			return
		case <-ticker.C:
			w.sample()
		case <-w.triggerCh:
			w.sample()
		}
	}
}

// sample resolves the snapshot and pushes it when either identity
// changed since the last push.
func (w *Watcher) sample() {
	now := w.clock()
	nowMinutes := now.Hour()*60 + now.Minute()
	active, next := Resolve(w.entries(), nowMinutes)

	ids := [2]string{entryID(active), entryID(next)}

	w.mu.Lock()
	changed := !w.primed || ids != w.lastIDs
	w.lastIDs = ids
	w.primed = true
	w.mu.Unlock()

	if !changed {
		return
	}

	select {
	case w.snapCh <- Snapshot{Active: active, Next: next}:
	default:
		// Drop rather than block the sampler.
	}
}

func entryID(e *model.Entry) string {
	if e == nil {
		return ""
	}
	return e.ID
}
