package app

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hvu/timeblock/internal/config"
	"github.com/hvu/timeblock/internal/model"
	"github.com/hvu/timeblock/tests/testutil"
)

func newTestApp(t *testing.T) Model {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("loading default config: %v", err)
	}

	return New(cfg, configPath, testutil.NewTestSettingsStore(t), testutil.NewTestDayStore(t), nil)
}

func TestNewDefaults(t *testing.T) {
	m := newTestApp(t)

	if m.daysInView != 1 {
		t.Errorf("daysInView = %d, want persisted default 1", m.daysInView)
	}
	if got := len(m.visibleDayKeys()); got != 1 {
		t.Errorf("visible days = %d, want 1", got)
	}
	if m.visibleDayKeys()[0] != model.TodayKey() {
		t.Errorf("anchor day = %s, want today", m.visibleDayKeys()[0])
	}
}

func TestDigitKeySetsDaysInView(t *testing.T) {
	m := newTestApp(t)

	handled, updated, cmd := m.handleGlobalKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}})
	if !handled {
		t.Fatal("digit keys should be handled globally")
	}
	m = updated.(Model)
	if m.daysInView != 3 {
		t.Errorf("daysInView = %d, want 3", m.daysInView)
	}
	if m.settings.DaysInView() != 3 {
		t.Errorf("persisted daysInView = %d, want 3", m.settings.DaysInView())
	}
	if cmd == nil {
		t.Error("changing the span should load the new buckets")
	}
	if got := len(m.visibleDayKeys()); got != 3 {
		t.Errorf("visible days = %d, want 3", got)
	}
}

func TestDayNavigationShiftsAnchor(t *testing.T) {
	m := newTestApp(t)
	start := m.anchor

	_, updated, _ := m.handleGlobalKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	m = updated.(Model)
	if got := m.anchor.Sub(start); got < 23*time.Hour || got > 25*time.Hour {
		t.Errorf("next-day moved anchor by %v", got)
	}

	_, updated, _ = m.handleGlobalKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}})
	m = updated.(Model)
	if model.DayKey(m.anchor) != model.DayKey(start) {
		t.Errorf("prev-day should return to %s, got %s", model.DayKey(start), model.DayKey(m.anchor))
	}
}

func TestDaysLoadedSeedsEditorOnce(t *testing.T) {
	m := newTestApp(t)
	day := model.TodayKey()

	updated, _ := m.Update(daysLoadedMsg{buckets: map[string][]model.Entry{
		day: {{ID: "a", StartMinutes: 540, EndMinutes: 600}},
	}})
	m = updated.(Model)

	if got := m.editor.Entries(day); len(got) != 1 {
		t.Fatalf("editor entries = %d, want 1", len(got))
	}
	if !m.loaded[day] {
		t.Error("bucket should be marked loaded")
	}

	// A second load of the same key is skipped so in-memory edits with
	// a pending debounced save are never clobbered.
	cmd := m.loadDays([]string{day})
	if msg, ok := cmd().(daysLoadedMsg); !ok || len(msg.buckets) != 0 {
		t.Errorf("reload of a loaded bucket should carry nothing, got %+v", cmd())
	}
}

func TestDateRange(t *testing.T) {
	m := newTestApp(t)
	m.anchor = time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)

	m.daysInView = 1
	if got := m.dateRange(); got != "Mon, Mar 9 2026" {
		t.Errorf("single-day range = %q", got)
	}

	m.daysInView = 3
	if got := m.dateRange(); got != "Mar 9 – Mar 11, 2026" {
		t.Errorf("multi-day range = %q", got)
	}
}

func TestHelpToggle(t *testing.T) {
	m := newTestApp(t)

	_, updated, _ := m.handleGlobalKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	m = updated.(Model)
	if m.currentView != ViewHelp {
		t.Fatalf("view = %v, want help", m.currentView)
	}

	_, updated, _ = m.handleGlobalKey(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	if m.currentView != ViewTimeline {
		t.Errorf("escape should return to the timeline, got %v", m.currentView)
	}
}
