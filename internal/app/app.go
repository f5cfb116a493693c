package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hvu/timeblock/internal/config"
	"github.com/hvu/timeblock/internal/keys"
	"github.com/hvu/timeblock/internal/model"
	"github.com/hvu/timeblock/internal/notify"
	"github.com/hvu/timeblock/internal/save"
	"github.com/hvu/timeblock/internal/store"
	"github.com/hvu/timeblock/internal/timegrid"
	edit "github.com/hvu/timeblock/internal/timeline"
	"github.com/hvu/timeblock/internal/ui"
	helpview "github.com/hvu/timeblock/internal/ui/help"
	"github.com/hvu/timeblock/internal/ui/nowpanel"
	"github.com/hvu/timeblock/internal/ui/settings"
	timelineview "github.com/hvu/timeblock/internal/ui/timeline"
	"github.com/hvu/timeblock/internal/update"
)

// panelWidth is the fixed cell width of the now panel when open.
const panelWidth = 32

// daysLoadedMsg carries freshly loaded day buckets.
type daysLoadedMsg struct {
	buckets map[string][]model.Entry
}

// updateCheckedMsg carries the release-feed result; Release is nil when
// already current.
type updateCheckedMsg struct {
	release *update.Release
}

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewTimeline ViewState = iota
	ViewSettings
	ViewHelp
)

// Model is the root Bubble Tea model that manages view routing, layout,
// and the persistence pipeline.
type Model struct {
	currentView ViewState

	layout ui.Layout
	keys   *keys.KeyMap

	cfg        *config.AppConfig
	configPath string

	settings *store.SettingsStore
	days     store.DaySource

	editor  *edit.Editor
	saver   *save.Saver
	watcher *notify.Watcher
	updates *update.Client

	timeline     timelineview.Model
	panel        nowpanel.Model
	settingsView settings.Model
	helpView     helpview.Model

	// anchor is the leftmost visible day.
	anchor     time.Time
	daysInView int

	// loaded marks buckets already handed to the editor; reloading one
	// from disk would clobber debounced edits.
	loaded map[string]bool

	release *update.Release
	ready   bool
}

// New wires the editor, saver, and watcher over the given stores and
// creates the root model.
func New(cfg *config.AppConfig, configPath string, settingsStore *store.SettingsStore, dayStore store.DaySource, updates *update.Client) Model {
	k := keys.DefaultKeyMap()

	grid := timegrid.Config{
		DayStartHour: cfg.Display.DayStartHour,
		DayEndHour:   cfg.Display.DayEndHour,
		GridMinutes:  cfg.Display.GridMinutes,
	}
	hourHeight := settingsStore.HourHeight(cfg.Display.HourHeight)
	refresh := time.Duration(cfg.Display.RefreshIntervalSec) * time.Second

	editor, saver, watcher := newCore(grid, hourHeight, cfg.Display.DefaultColor, dayStore, refresh)

	tl := timelineview.New(editor, k, 80, 24)
	tl.SetUse24Hour(cfg.Display.Use24Hour)

	return Model{
		currentView: ViewTimeline,
		keys:        k,
		cfg:         cfg,
		configPath:  configPath,
		settings:    settingsStore,
		days:        dayStore,
		editor:      editor,
		saver:       saver,
		watcher:     watcher,
		updates:     updates,
		timeline:    tl,
		panel:       nowpanel.New(settingsStore.PanelOpen(), panelWidth, 24),
		helpView:    helpview.New(k, 80, 24),
		anchor:      time.Now(),
		daysInView:  settingsStore.DaysInView(),
		loaded:      make(map[string]bool),
	}
}

// newCore builds the editor with its change pipeline: every committed
// bucket mutation schedules a debounced save, and edits to the today
// bucket wake the active-block watcher.
func newCore(grid timegrid.Config, hourHeight float64, defaultColor string, dayStore store.DaySource, refresh time.Duration) (*edit.Editor, *save.Saver, *notify.Watcher) {
	var (
		saver   *save.Saver
		watcher *notify.Watcher
	)

	onChange := func(dayKey string) {
		if saver != nil {
			saver.Schedule(dayKey)
		}
		if watcher != nil && dayKey == model.TodayKey() {
			watcher.Trigger()
		}
	}

	editor := edit.New(grid, hourHeight, defaultColor, onChange)
	saver = save.New(dayStore, editor.Entries, save.DefaultWindow)
	watcher = notify.NewWatcher(func() []model.Entry {
		return editor.Entries(model.TodayKey())
	}, refresh, nil)

	return editor, saver, watcher
}

// visibleDayKeys returns the keys of the anchored day span.
func (m Model) visibleDayKeys() []string {
	out := make([]string, 0, m.daysInView)
	for i := 0; i < m.daysInView; i++ {
		out = append(out, model.DayKey(m.anchor.AddDate(0, 0, i)))
	}
	return out
}

// Init loads the visible buckets, starts the watcher, and kicks off the
// update check.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.loadDays(m.visibleDayKeys()),
		m.watcher.Start(),
		m.panel.Init(),
	}
	if cmd := m.checkForUpdate(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// loadDays returns a command that reads the given buckets from disk,
// skipping any the editor already owns.
func (m Model) loadDays(dayKeys []string) tea.Cmd {
	var missing []string
	for _, key := range dayKeys {
		if !m.loaded[key] {
			missing = append(missing, key)
		}
	}
	if len(missing) == 0 {
		return func() tea.Msg {
			return daysLoadedMsg{buckets: map[string][]model.Entry{}}
		}
	}

	days := m.days
	return func() tea.Msg {
		buckets := make(map[string][]model.Entry, len(missing))
		for _, key := range missing {
			entries, err := days.LoadDay(key)
			if err != nil {
				entries = nil
			}
			buckets[key] = entries
		}
		return daysLoadedMsg{buckets: buckets}
	}
}

// checkForUpdate returns a command that queries the release feed, at
// most once per day.
func (m Model) checkForUpdate() tea.Cmd {
	if m.updates == nil {
		return nil
	}
	if time.Since(m.settings.LastUpdateCheck()) < 24*time.Hour {
		return nil
	}

	client := m.updates
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		release, err := client.Check(ctx)
		if err != nil {
			return updateCheckedMsg{}
		}
		return updateCheckedMsg{release: release}
	}
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		m.resize()
		return m, nil

	case daysLoadedMsg:
		for key, entries := range msg.buckets {
			m.editor.SetDay(key, entries)
			m.loaded[key] = true
		}
		m.timeline.SetDays(m.visibleDayKeys())
		m.watcher.Trigger()
		return m, nil

	case notify.SnapshotMsg:
		m.panel.SetSnapshot(msg.Snapshot)
		return m, m.watcher.WaitForNext()

	case updateCheckedMsg:
		_ = m.settings.SetLastUpdateCheck(time.Now())
		m.release = msg.release
		m.resize()
		return m, nil

	case timelineview.ZoomedMsg:
		_ = m.settings.SetHourHeight(msg.HourHeight)
		return m, nil

	case nowpanel.OpenAckMsg:
		_ = m.settings.SetPanelOpen(msg.Open)
		m.resize()
		return m, nil

	case nowpanel.ResolveRequestMsg:
		m.watcher.Trigger()
		return m, nil

	case nowpanel.OpenRequestMsg, nowpanel.TickMsg:
		var cmd tea.Cmd
		m.panel, cmd = m.panel.Update(msg)
		return m, cmd

	case settings.SavedMsg:
		return m.applySettings(msg.Values)

	case settings.CancelMsg:
		m.currentView = ViewTimeline
		return m, nil

	case tea.KeyMsg:
		if handled, next, cmd := m.handleGlobalKey(msg); handled {
			return next, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKey processes keys that apply regardless of the focused
// view. Keys are not global while a text field or form has focus.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return true, m, m.quit()
	}

	if m.currentView == ViewSettings || m.timeline.Editing() || m.timeline.MenuOpen() {
		return false, m, nil
	}

	switch msg.String() {
	case "q":
		return true, m, m.quit()

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = ViewTimeline
		} else {
			m.currentView = ViewHelp
		}
		return true, m, nil

	case "esc":
		if m.currentView != ViewTimeline {
			m.currentView = ViewTimeline
			return true, m, nil
		}
		return false, m, nil

	case ",":
		m.currentView = ViewSettings
		m.settingsView = settings.New(settings.Values{
			DayStartHour: m.cfg.Display.DayStartHour,
			DayEndHour:   m.cfg.Display.DayEndHour,
			DaysInView:   m.daysInView,
			DefaultColor: m.cfg.Display.DefaultColor,
			Use24Hour:    m.cfg.Display.Use24Hour,
		}, m.layout.ContentWidth(), m.layout.ContentHeight())
		return true, m, m.settingsView.Init()

	case "n":
		if m.currentView != ViewTimeline {
			return false, m, nil
		}
		open := !m.panel.IsOpen()
		return true, m, func() tea.Msg {
			return nowpanel.OpenRequestMsg{Open: open}
		}

	case "h", "left":
		if m.currentView != ViewTimeline {
			return false, m, nil
		}
		m.anchor = m.anchor.AddDate(0, 0, -1)
		return true, m, m.loadDays(m.visibleDayKeys())

	case "l", "right":
		if m.currentView != ViewTimeline {
			return false, m, nil
		}
		m.anchor = m.anchor.AddDate(0, 0, 1)
		return true, m, m.loadDays(m.visibleDayKeys())

	case "t":
		if m.currentView != ViewTimeline {
			return false, m, nil
		}
		m.anchor = time.Now()
		m.timeline.ScrollToNow()
		return true, m, m.loadDays(m.visibleDayKeys())

	case "1", "2", "3", "4", "5":
		if m.currentView != ViewTimeline {
			return false, m, nil
		}
		n := int(msg.String()[0] - '0')
		m.daysInView = n
		_ = m.settings.SetDaysInView(n)
		m.resize()
		return true, m, m.loadDays(m.visibleDayKeys())
	}

	return false, m, nil
}

// quit flushes pending saves and stops background work before exiting.
func (m Model) quit() tea.Cmd {
	m.saver.Flush()
	m.watcher.Stop()
	return tea.Quit
}

// applySettings persists the settings form values and rebuilds the
// editing pipeline when the grid changed.
func (m Model) applySettings(v settings.Values) (tea.Model, tea.Cmd) {
	m.currentView = ViewTimeline

	gridChanged := v.DayStartHour != m.cfg.Display.DayStartHour ||
		v.DayEndHour != m.cfg.Display.DayEndHour

	m.cfg.Display.DayStartHour = v.DayStartHour
	m.cfg.Display.DayEndHour = v.DayEndHour
	m.cfg.Display.DefaultColor = v.DefaultColor
	m.cfg.Display.Use24Hour = v.Use24Hour
	_ = config.Save(m.configPath, m.cfg)

	m.daysInView = v.DaysInView
	_ = m.settings.SetDaysInView(v.DaysInView)
	m.timeline.SetUse24Hour(v.Use24Hour)

	if gridChanged {
		return m.rebuildCore()
	}

	m.resize()
	return m, m.loadDays(m.visibleDayKeys())
}

// rebuildCore tears down the editor pipeline and recreates it with the
// current display config. Pending saves are flushed first so no bucket
// state is lost.
func (m Model) rebuildCore() (tea.Model, tea.Cmd) {
	m.saver.Flush()
	m.watcher.Stop()

	grid := timegrid.Config{
		DayStartHour: m.cfg.Display.DayStartHour,
		DayEndHour:   m.cfg.Display.DayEndHour,
		GridMinutes:  m.cfg.Display.GridMinutes,
	}
	hourHeight := m.settings.HourHeight(m.cfg.Display.HourHeight)
	refresh := time.Duration(m.cfg.Display.RefreshIntervalSec) * time.Second

	m.editor, m.saver, m.watcher = newCore(grid, hourHeight, m.cfg.Display.DefaultColor, m.days, refresh)
	m.timeline = timelineview.New(m.editor, m.keys, m.layout.ContentWidth(), m.layout.ContentHeight())
	m.timeline.SetUse24Hour(m.cfg.Display.Use24Hour)
	m.loaded = make(map[string]bool)
	m.resize()

	return m, tea.Batch(
		m.loadDays(m.visibleDayKeys()),
		m.watcher.Start(),
	)
}

// resize pushes the current frame dimensions into the sub-views.
func (m *Model) resize() {
	if !m.ready {
		return
	}

	if m.release != nil {
		m.layout.BannerHeight = 1
	} else {
		m.layout.BannerHeight = 0
	}

	contentW := m.layout.ContentWidth()
	contentH := m.layout.ContentHeight()

	timelineW := contentW
	if m.panel.IsOpen() {
		timelineW = contentW - panelWidth
		if timelineW < 1 {
			timelineW = 1
		}
	}

	m.timeline.SetSize(timelineW, contentH)
	m.timeline.SetOrigin(m.layout.HeaderHeight + m.layout.BannerHeight)
	m.panel.SetSize(panelWidth, contentH)
	m.helpView.SetSize(contentW, contentH)
	m.settingsView.SetSize(contentW, contentH)
	m.timeline.SetDays(m.visibleDayKeys())
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewTimeline:
		m.timeline, cmd = m.timeline.Update(msg)
	case ViewSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Timeblock", m.dateRange())

	banner := ""
	if m.release != nil {
		banner = m.layout.RenderBanner(
			"Update available: " + m.release.Version + " · " + m.release.URL)
	}

	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, banner, content, statusBar)
}

// renderContent returns the rendered string for the current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewSettings:
		return m.settingsView.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		if m.panel.IsOpen() {
			return lipgloss.JoinHorizontal(lipgloss.Top, m.timeline.View(), m.panel.View())
		}
		return m.timeline.View()
	}
}

// dateRange formats the visible day span for the header.
func (m Model) dateRange() string {
	if m.daysInView <= 1 {
		return m.anchor.Format("Mon, Jan 2 2006")
	}
	last := m.anchor.AddDate(0, 0, m.daysInView-1)
	return m.anchor.Format("Jan 2") + " – " + last.Format("Jan 2, 2006")
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewSettings:
		return "enter next | esc cancel"
	default:
		if m.timeline.Editing() {
			return "enter done | esc done"
		}
		if m.timeline.MenuOpen() {
			return "j/k move | enter choose | esc close"
		}
		return "q quit | ? help | h/l day | t today | 1-5 columns | n panel | , settings"
	}
}
