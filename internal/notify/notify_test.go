package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/hvu/timeblock/internal/model"
)

func TestResolveActiveHalfOpen(t *testing.T) {
	entries := []model.Entry{
		{ID: "a", StartMinutes: 540, EndMinutes: 600},
		{ID: "b", StartMinutes: 600, EndMinutes: 660},
	}

	active, _ := Resolve(entries, 540)
	if active == nil || active.ID != "a" {
		t.Errorf("entry is active from its exact start minute, got %+v", active)
	}

	// At a's exact end minute, a is no longer active and b already is.
	active, next := Resolve(entries, 600)
	if active == nil || active.ID != "b" {
		t.Errorf("active at boundary = %+v, want b", active)
	}
	if next != nil {
		t.Errorf("next = %+v, want nil", next)
	}
}

func TestResolveNone(t *testing.T) {
	entries := []model.Entry{
		{ID: "a", StartMinutes: 540, EndMinutes: 600},
	}
	active, next := Resolve(entries, 700)
	if active != nil || next != nil {
		t.Errorf("past all entries: active=%+v next=%+v", active, next)
	}
}

func TestResolveNextSkipsActive(t *testing.T) {
	entries := []model.Entry{
		{ID: "gap", StartMinutes: 800, EndMinutes: 860},
		{ID: "now", StartMinutes: 540, EndMinutes: 600},
		{ID: "soon", StartMinutes: 610, EndMinutes: 640},
	}
	active, next := Resolve(entries, 550)
	if active == nil || active.ID != "now" {
		t.Fatalf("active = %+v", active)
	}
	if next == nil || next.ID != "soon" {
		t.Errorf("next = %+v, want the smallest upcoming start", next)
	}
}

func TestResolveNextWhenIdle(t *testing.T) {
	entries := []model.Entry{
		{ID: "later", StartMinutes: 700, EndMinutes: 750},
	}
	active, next := Resolve(entries, 650)
	if active != nil {
		t.Errorf("active = %+v, want nil", active)
	}
	if next == nil || next.ID != "later" {
		t.Errorf("next = %+v", next)
	}
}

func TestResolveEmpty(t *testing.T) {
	active, next := Resolve(nil, 500)
	if active != nil || next != nil {
		t.Error("empty bucket should resolve to nothing")
	}
}

func TestStopReleasesPendingWait(t *testing.T) {
	w := NewWatcher(
		func() []model.Entry { return nil },
		10*time.Millisecond,
		func() time.Time { return time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC) },
	)
	w.Start()

	// Drain the priming snapshot so the waiter below really blocks.
	select {
	case <-w.snapCh:
	case <-time.After(time.Second):
		t.Fatal("no initial snapshot")
	}

	wait := w.WaitForNext()
	got := make(chan interface{}, 1)
	go func() { got <- wait() }()

	w.Stop()

	select {
	case msg := <-got:
		if msg != nil {
			t.Errorf("pending wait returned %+v after Stop, want nil", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("pending wait still blocked after Stop")
	}
}

func TestWatcherPushesOnIdentityChange(t *testing.T) {
	entries := []model.Entry{
		{ID: "a", StartMinutes: 540, EndMinutes: 600},
	}

	var mu sync.Mutex
	now := time.Date(2026, 3, 9, 9, 10, 0, 0, time.UTC)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}

	w := NewWatcher(
		func() []model.Entry { return entries },
		10*time.Millisecond,
		clock,
	)
	w.Start()
	defer w.Stop()

	select {
	case snap := <-w.snapCh:
		if snap.Active == nil || snap.Active.ID != "a" {
			t.Errorf("first snapshot active = %+v", snap.Active)
		}
	case <-time.After(time.Second):
		t.Fatal("no initial snapshot")
	}

	// Identity unchanged: no further pushes arrive.
	select {
	case snap := <-w.snapCh:
		t.Errorf("unexpected push with unchanged identity: %+v", snap)
	case <-time.After(60 * time.Millisecond):
	}

	// Advance past the entry's end; the change must be pushed.
	mu.Lock()
	now = time.Date(2026, 3, 9, 10, 1, 0, 0, time.UTC)
	mu.Unlock()
	w.Trigger()

	select {
	case snap := <-w.snapCh:
		if snap.Active != nil {
			t.Errorf("active should be nil after the entry ends, got %+v", snap.Active)
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot after identity change")
	}
}
