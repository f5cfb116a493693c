package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hvu/timeblock/internal/theme"
)

// Layout manages the terminal frame dimensions.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
	BannerHeight    int
}

// NewLayout creates a Layout with the given terminal dimensions.
// HeaderHeight and StatusBarHeight default to 1; the banner row only
// exists while an update notice is showing.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the timeline canvas,
// accounting for the header, status bar, and any active banner.
func (l Layout) ContentHeight() int {
	return l.Height - l.HeaderHeight - l.StatusBarHeight - l.BannerHeight
}

// RenderHeader renders the top header bar with a title on the left and
// a status segment on the right.
func (l Layout) RenderHeader(title string, status string) string {
	titleRendered := theme.HeaderStyle.Render(title)

	statusRendered := theme.HeaderStyle.
		Align(lipgloss.Right).
		Render(status)

	gap := l.Width -
		lipgloss.Width(titleRendered) -
		lipgloss.Width(statusRendered)
	if gap < 0 {
		gap = 0
	}

	filler := theme.HeaderStyle.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(theme.HeaderStyle.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleRendered,
		filler,
		statusRendered,
	)
}

// RenderBanner renders a full-width notice row, used for the update
// announcement.
func (l Layout) RenderBanner(text string) string {
	return theme.UpdateBannerStyle.Width(l.Width).Render(text)
}

// RenderStatusBar renders the bottom status bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	rendered := theme.StatusBarStyle.Render(hints)

	gap := l.Width - lipgloss.Width(rendered)
	if gap < 0 {
		gap = 0
	}

	filler := theme.StatusBarStyle.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(theme.StatusBarStyle.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler)
}

// RenderWithFrame composes the full terminal view by vertically joining
// the header, optional banner, content area, and status bar.
func (l Layout) RenderWithFrame(
	header string,
	banner string,
	content string,
	statusBar string,
) string {
	parts := []string{header}
	if banner != "" {
		parts = append(parts, banner)
	}
	parts = append(parts, content, statusBar)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
