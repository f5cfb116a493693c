// Package save debounces per-bucket persistence so rapid edits within a
// short window coalesce into a single write, and edits to different days
// never block or race each other.
package save

import (
	"sync"
	"time"

	"github.com/hvu/timeblock/internal/debounce"
	"github.com/hvu/timeblock/internal/model"
	"github.com/hvu/timeblock/internal/store"
)

// DefaultWindow is the quiet period rapid edits are coalesced within.
const DefaultWindow = 300 * time.Millisecond

// SnapshotFunc returns the current entries of a bucket. It is invoked at
// debounce-fire time so every write captures a full, current snapshot.
type SnapshotFunc func(dayKey string) []model.Entry

// Saver schedules debounced writes of day buckets through a DaySource.
type Saver struct {
	days     store.DaySource
	snapshot SnapshotFunc
	debounce *debounce.Keyed

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a Saver with the given persistence boundary and snapshot
// provider.
func New(days store.DaySource, snapshot SnapshotFunc, window time.Duration) *Saver {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Saver{
		days:     days,
		snapshot: snapshot,
		debounce: debounce.NewKeyed(window),
		locks:    make(map[string]*sync.Mutex),
	}
}

// Schedule queues a save for dayKey. A save already pending for that
// bucket is superseded, not merged.
func (s *Saver) Schedule(dayKey string) {
	// The trigger fires on a timer goroutine, so the write never blocks
	// the event loop.
	s.debounce.Trigger(dayKey, func() {
		s.write(dayKey)
	})
}

// Flush writes every pending bucket immediately and synchronously.
// Called on shutdown so the debounce window cannot swallow a final edit.
func (s *Saver) Flush() {
	s.debounce.Flush()

	// Wait out any timer-fired write still holding a bucket lock.
	s.mu.Lock()
	locks := make([]*sync.Mutex, 0, len(s.locks))
	for _, l := range s.locks {
		locks = append(locks, l)
	}
	s.mu.Unlock()

	for _, l := range locks {
		l.Lock()
		l.Unlock()
	}
}

// write captures a snapshot and persists it. Writes for the same bucket
// serialize in fire order, so a later edit's save is never overwritten
// by an earlier one completing late. A failed write is dropped.
func (s *Saver) write(dayKey string) {
	l := s.bucketLock(dayKey)
	l.Lock()
	defer l.Unlock()

	entries := s.snapshot(dayKey)
	_ = s.days.SaveDay(dayKey, entries)
}

func (s *Saver) bucketLock(dayKey string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[dayKey]
	if !ok {
		l = &sync.Mutex{}
		s.locks[dayKey] = l
	}
	return l
}
