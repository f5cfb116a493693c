// Package menu implements the keyboard-driven context menu that opens
// on a right-click over a timeline block.
package menu

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hvu/timeblock/internal/theme"
)

// ActionKind identifies what a menu row does when chosen.
type ActionKind int

const (
	ActionColor ActionKind = iota
	ActionDuplicate
	ActionDelete
	ActionSendToToday
)

// Item is one selectable menu row.
type Item struct {
	Label string
	Kind  ActionKind

	// Color carries the hex value for ActionColor rows.
	Color string
}

// ChosenMsg is emitted when a row is activated.
type ChosenMsg struct {
	Item Item

	// Day and ID identify the block the menu was opened on.
	Day string
	ID  string
}

// CloseMsg is emitted when the menu is dismissed without choosing.
type CloseMsg struct{}

// Model is the context menu state.
type Model struct {
	open   bool
	items  []Item
	cursor int

	// day and id are the block the menu targets.
	day string
	id  string
}

// New creates a closed context menu.
func New() Model {
	return Model{}
}

// Open populates and shows the menu for the given block. The
// send-to-today row is only offered when the block lives outside the
// today bucket.
func (m *Model) Open(day, id string, palette []string, isToday bool) {
	items := make([]Item, 0, len(palette)+3)
	for _, hex := range palette {
		items = append(items, Item{Label: "Color " + hex, Kind: ActionColor, Color: hex})
	}
	items = append(items,
		Item{Label: "Duplicate", Kind: ActionDuplicate},
		Item{Label: "Delete", Kind: ActionDelete},
	)
	if !isToday {
		items = append(items, Item{Label: "Send to today", Kind: ActionSendToToday})
	}

	m.open = true
	m.items = items
	m.cursor = 0
	m.day = day
	m.id = id
}

// Close dismisses the menu.
func (m *Model) Close() {
	m.open = false
}

// IsOpen reports whether the menu is showing.
func (m Model) IsOpen() bool {
	return m.open
}

// Update handles key messages while the menu is open.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.open {
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter":
		item := m.items[m.cursor]
		day, id := m.day, m.id
		m.open = false
		return m, func() tea.Msg {
			return ChosenMsg{Item: item, Day: day, ID: id}
		}
	case "esc", "q":
		m.open = false
		return m, func() tea.Msg { return CloseMsg{} }
	}

	return m, nil
}

// View renders the menu panel.
func (m Model) View() string {
	if !m.open {
		return ""
	}

	rows := make([]string, 0, len(m.items))
	for i, item := range m.items {
		label := item.Label
		if item.Kind == ActionColor {
			swatch := lipgloss.NewStyle().
				Background(lipgloss.Color(item.Color)).
				Render("  ")
			label = swatch + " " + item.Color
		}
		if i == m.cursor {
			rows = append(rows, theme.SelectedMenuItemStyle.Render(label))
		} else {
			rows = append(rows, theme.MenuItemStyle.Render(label))
		}
	}

	return theme.MenuStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
