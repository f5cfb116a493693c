package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Day navigation
	PrevDay key.Binding
	NextDay key.Binding
	Today   key.Binding

	// Days-in-view (digit keys 1-5)
	DaysInView key.Binding

	// Selection / editing
	Delete key.Binding
	Escape key.Binding

	// Scrolling and zoom
	ScrollUp   key.Binding
	ScrollDown key.Binding
	ZoomIn     key.Binding
	ZoomOut    key.Binding

	// Panels
	NowPanel key.Binding
	Settings key.Binding

	// Help toggle
	Help key.Binding

	// Quit
	Quit key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		PrevDay: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "previous day"),
		),
		NextDay: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "next day"),
		),
		Today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "jump to today"),
		),
		DaysInView: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5"),
			key.WithHelp("1-5", "days in view"),
		),
		Delete: key.NewBinding(
			key.WithKeys("delete", "backspace"),
			key.WithHelp("del", "delete selected"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear selection"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "scroll down"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "zoom out"),
		),
		NowPanel: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "toggle now panel"),
		),
		Settings: key.NewBinding(
			key.WithKeys(","),
			key.WithHelp(",", "settings"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.PrevDay, k.NextDay, k.Today,
		k.NowPanel, k.Help, k.Quit,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevDay, k.NextDay, k.Today, k.DaysInView},
		{k.ScrollUp, k.ScrollDown, k.ZoomIn, k.ZoomOut},
		{k.Delete, k.Escape, k.NowPanel, k.Settings},
		{k.Help, k.Quit},
	}
}
