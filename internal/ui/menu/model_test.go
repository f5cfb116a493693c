package menu

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

var palette = []string{"#ff0000", "#00ff00"}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestOpenBuildsItems(t *testing.T) {
	m := New()
	m.Open("2026-03-09", "a", palette, false)

	if !m.IsOpen() {
		t.Fatal("menu should be open")
	}
	// Palette rows, duplicate, delete, and send-to-today.
	if len(m.items) != len(palette)+3 {
		t.Errorf("items = %d, want %d", len(m.items), len(palette)+3)
	}
	last := m.items[len(m.items)-1]
	if last.Kind != ActionSendToToday {
		t.Errorf("last item = %v, want send-to-today", last.Kind)
	}
}

func TestOpenOnTodayOmitsSendToToday(t *testing.T) {
	m := New()
	m.Open("2026-03-09", "a", palette, true)

	for _, item := range m.items {
		if item.Kind == ActionSendToToday {
			t.Error("send-to-today should not be offered for today's blocks")
		}
	}
}

func TestChooseEmitsChosenMsg(t *testing.T) {
	m := New()
	m.Open("2026-03-09", "a", palette, false)

	// Move past the palette rows onto Duplicate.
	for i := 0; i < len(palette); i++ {
		m, _ = m.Update(keyMsg("j"))
	}
	m, cmd := m.Update(keyMsg("enter"))

	if m.IsOpen() {
		t.Error("choosing should close the menu")
	}
	if cmd == nil {
		t.Fatal("choosing should emit a message")
	}
	chosen, ok := cmd().(ChosenMsg)
	if !ok {
		t.Fatalf("msg = %T, want ChosenMsg", cmd())
	}
	if chosen.Item.Kind != ActionDuplicate {
		t.Errorf("chosen = %v, want duplicate", chosen.Item.Kind)
	}
	if chosen.Day != "2026-03-09" || chosen.ID != "a" {
		t.Errorf("target = %s/%s", chosen.Day, chosen.ID)
	}
}

func TestEscapeCloses(t *testing.T) {
	m := New()
	m.Open("2026-03-09", "a", palette, false)

	m, cmd := m.Update(keyMsg("esc"))
	if m.IsOpen() {
		t.Error("escape should close the menu")
	}
	if cmd == nil {
		t.Fatal("dismissal should emit CloseMsg")
	}
	if _, ok := cmd().(CloseMsg); !ok {
		t.Errorf("msg = %T, want CloseMsg", cmd())
	}
}

func TestCursorStaysInBounds(t *testing.T) {
	m := New()
	m.Open("2026-03-09", "a", palette, true)

	m, _ = m.Update(keyMsg("k"))
	if m.cursor != 0 {
		t.Errorf("cursor moved above the first row: %d", m.cursor)
	}
	for i := 0; i < 20; i++ {
		m, _ = m.Update(keyMsg("j"))
	}
	if m.cursor != len(m.items)-1 {
		t.Errorf("cursor = %d, want last row %d", m.cursor, len(m.items)-1)
	}
}
