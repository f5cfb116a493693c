package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for the date-range header and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// TodayHeaderStyle highlights today's column header.
var TodayHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorGreen)

// DayHeaderStyle is the default column header style.
var DayHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// GutterStyle renders the hour labels along the left edge of the canvas.
var GutterStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// GridLineStyle renders the horizontal hour rules of the canvas.
var GridLineStyle = lipgloss.NewStyle().
	Foreground(ColorSubtle)

// NowLineStyle renders the current-time indicator.
var NowLineStyle = lipgloss.NewStyle().
	Foreground(ColorRed).
	Bold(true)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// BorderStyle provides a standard rounded border for panels.
var BorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// PanelStyle wraps the now-panel content area.
var PanelStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// MenuStyle wraps the context menu.
var MenuStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBlue)

// MenuItemStyle is the base style for context menu rows.
var MenuItemStyle = lipgloss.NewStyle().
	PaddingLeft(1)

// SelectedMenuItemStyle highlights the focused context menu row.
var SelectedMenuItemStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// UpdateBannerStyle announces an available release at the top of the frame.
var UpdateBannerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorGreen).
	Padding(0, 1)

// BlockStyle returns the style for a timeline block of the given hex
// color. Selected blocks get a brighter border, done blocks are dimmed
// and struck through.
func BlockStyle(hex string, selected, done bool) lipgloss.Style {
	s := lipgloss.NewStyle().
		Background(lipgloss.Color(hex)).
		Foreground(ColorWhite).
		Padding(0, 1)

	if selected {
		s = s.Bold(true).Underline(true)
	}
	if done {
		s = s.Strikethrough(true).Faint(true)
	}
	return s
}

// PreviewStyle renders the in-progress creation span.
var PreviewStyle = lipgloss.NewStyle().
	Foreground(ColorGray)
