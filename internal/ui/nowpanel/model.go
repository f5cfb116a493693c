// Package nowpanel renders the auxiliary panel showing the active
// block and the next upcoming one, with a live countdown.
package nowpanel

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hvu/timeblock/internal/notify"
	"github.com/hvu/timeblock/internal/theme"
	"github.com/hvu/timeblock/internal/timegrid"
)

// OpenRequestMsg asks the panel to show or hide itself.
type OpenRequestMsg struct {
	Open bool
}

// OpenAckMsg reports the applied visibility, so the caller can persist
// the preference.
type OpenAckMsg struct {
	Open bool
}

// ResolveRequestMsg asks the owner to recompute the active/next pair,
// sent when the countdown reaches zero between watcher samples.
type ResolveRequestMsg struct{}

// TickMsg drives the once-per-second countdown refresh.
type TickMsg struct{}

// Model is the now-panel state.
type Model struct {
	open bool
	snap notify.Snapshot

	width  int
	height int

	// clock is injectable for tests.
	clock func() time.Time
}

// New creates a panel. open reflects the persisted preference.
func New(open bool, width, height int) Model {
	return Model{
		open:   open,
		width:  width,
		height: height,
		clock:  time.Now,
	}
}

// Init starts the countdown ticker when the panel is visible.
func (m Model) Init() tea.Cmd {
	if !m.open {
		return nil
	}
	return tick()
}

// IsOpen reports the panel visibility.
func (m Model) IsOpen() bool {
	return m.open
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetSnapshot replaces the active/next pair.
func (m *Model) SetSnapshot(snap notify.Snapshot) {
	m.snap = snap
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// Update handles messages for the panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case OpenRequestMsg:
		m.open = msg.Open
		cmds := []tea.Cmd{ack(m.open)}
		if m.open {
			cmds = append(cmds, tick())
		}
		return m, tea.Batch(cmds...)

	case TickMsg:
		if !m.open {
			return m, nil
		}
		// When the active block just ended, the snapshot is stale until
		// the watcher's next sample; ask for an immediate resolve.
		if m.snap.Active != nil && m.remainingSeconds(m.snap.Active.EndMinutes) <= 0 {
			return m, tea.Batch(tick(), func() tea.Msg { return ResolveRequestMsg{} })
		}
		return m, tick()
	}

	return m, nil
}

func ack(open bool) tea.Cmd {
	return func() tea.Msg {
		return OpenAckMsg{Open: open}
	}
}

// remainingSeconds is the wall-clock distance to a minute-of-day mark.
func (m Model) remainingSeconds(minutes int) int {
	now := m.clock()
	nowSec := now.Hour()*3600 + now.Minute()*60 + now.Second()
	return minutes*60 - nowSec
}

// View renders the panel content.
func (m Model) View() string {
	if !m.open {
		return ""
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)

	var sections []string
	if a := m.snap.Active; a != nil {
		sections = append(sections,
			title.Render("Now"),
			a.DisplayTitle(),
			timegrid.FormatTime(a.StartMinutes)+" – "+timegrid.FormatTime(a.EndMinutes),
			theme.NowLineStyle.Render(timegrid.FormatCountdown(m.remainingSeconds(a.EndMinutes))),
			"",
		)
	}
	if n := m.snap.Next; n != nil {
		sections = append(sections,
			title.Render("Next"),
			n.DisplayTitle(),
			timegrid.FormatTime(n.StartMinutes)+" – "+timegrid.FormatTime(n.EndMinutes),
			theme.HelpStyle.Render("starts in "+
				timegrid.FormatDuration((m.remainingSeconds(n.StartMinutes)+59)/60)),
		)
	}
	if len(sections) == 0 {
		sections = append(sections, theme.HelpStyle.Render("No more blocks today"))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return theme.PanelStyle.
		Width(m.width - 2).
		Height(m.height - 2).
		Render(content)
}
