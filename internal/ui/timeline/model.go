// Package timeline renders the day columns and translates terminal
// mouse events into editor calls. All time geometry lives in the editor
// and timegrid; this package only maps terminal cells to timeline rows
// and day columns.
package timeline

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hvu/timeblock/internal/keys"
	"github.com/hvu/timeblock/internal/model"
	"github.com/hvu/timeblock/internal/overlap"
	"github.com/hvu/timeblock/internal/theme"
	"github.com/hvu/timeblock/internal/timegrid"
	edit "github.com/hvu/timeblock/internal/timeline"
	"github.com/hvu/timeblock/internal/ui/menu"
)

const (
	// gutterWidth is the hour-label column on the left edge.
	gutterWidth = 9

	// headerRows is the per-column day header inside the canvas.
	headerRows = 1

	// wheelRows is the scroll distance per unmodified wheel tick.
	wheelRows = 2.0

	// doubleClickWindow is the press interval treated as a double-click.
	doubleClickWindow = 400 * time.Millisecond
)

// ZoomedMsg reports a changed hour height so the caller can persist it.
type ZoomedMsg struct {
	HourHeight float64
}

// Model is the timeline canvas view.
type Model struct {
	editor *edit.Editor
	keys   *keys.KeyMap
	menu   menu.Model

	width  int
	height int

	// originY is the terminal row where the canvas starts, needed to
	// convert absolute mouse coordinates.
	originY int

	// scroll is the number of timeline rows hidden above the viewport.
	scroll float64

	// days holds the visible day keys, left to right.
	days []string

	use24h bool

	// Title editing state. Edits are applied live on every keystroke.
	editingDay string
	editingID  string
	input      textinput.Model

	mouseDown bool

	// Double-click tracking for entering title edit.
	lastClickID   string
	lastClickTime time.Time
}

// New creates the canvas view over the given editor.
func New(e *edit.Editor, k *keys.KeyMap, width, height int) Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 120

	return Model{
		editor: e,
		keys:   k,
		menu:   menu.New(),
		width:  width,
		height: height,
		input:  ti,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetSize updates the canvas dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.scroll = m.clampScroll(m.scroll)
}

// SetOrigin records the terminal row where the canvas begins.
func (m *Model) SetOrigin(y int) {
	m.originY = y
}

// SetDays replaces the visible day keys, left to right.
func (m *Model) SetDays(days []string) {
	m.days = days
	if m.editingID != "" {
		if _, ok := m.editor.Find(m.editingDay, m.editingID); !ok {
			m.stopEditing()
		}
	}
}

// SetUse24Hour switches the hour gutter clock format.
func (m *Model) SetUse24Hour(on bool) {
	m.use24h = on
}

// Editing reports whether a title edit field has focus, in which case
// global single-key shortcuts must not fire.
func (m Model) Editing() bool {
	return m.editingID != ""
}

// MenuOpen reports whether the context menu is showing.
func (m Model) MenuOpen() bool {
	return m.menu.IsOpen()
}

// ScrollToNow centers the viewport on the current wall-clock time.
func (m *Model) ScrollToNow() {
	now := time.Now()
	row := m.rowOfMinutes(float64(now.Hour()*60 + now.Minute()))
	m.scroll = m.clampScroll(row - float64(m.canvasHeight())/2)
}

// Update handles messages for the canvas.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.menu.IsOpen() {
		return m.updateMenu(msg)
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// updateMenu routes messages to the context menu and applies its
// chosen action to the editor.
func (m Model) updateMenu(msg tea.Msg) (Model, tea.Cmd) {
	if chosen, ok := msg.(menu.ChosenMsg); ok {
		switch chosen.Item.Kind {
		case menu.ActionColor:
			m.editor.ApplyColor(chosen.Item.Color)
		case menu.ActionDuplicate:
			m.editor.DuplicateEntry(chosen.Day, chosen.ID)
		case menu.ActionDelete:
			m.editor.DeleteSelected()
		case menu.ActionSendToToday:
			m.editor.SendSelectedToToday()
		}
		return m, nil
	}
	if _, ok := msg.(menu.CloseMsg); ok {
		return m, nil
	}

	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

// handleKey processes keyboard input for the canvas.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.editingID != "" {
		switch msg.String() {
		case "enter", "esc":
			// Edits were applied live; leaving the field never reverts.
			m.stopEditing()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.editor.SetTitle(m.editingDay, m.editingID, m.input.Value())
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Escape):
		if m.editor.DragKind() != edit.DragNone {
			m.editor.CancelDrag()
		} else {
			m.editor.ClearSelection()
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		m.editor.DeleteSelected()
		return m, nil

	case msg.String() == "enter":
		if sel := m.editor.Selection(); len(sel) == 1 {
			if day, ok := m.dayOf(sel[0]); ok {
				m.startEditing(day, sel[0])
				return m, textinput.Blink
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.ZoomIn):
		return m.zoom(1, float64(m.canvasHeight())/2)
	case key.Matches(msg, m.keys.ZoomOut):
		return m.zoom(-1, float64(m.canvasHeight())/2)

	case key.Matches(msg, m.keys.ScrollUp):
		m.scroll = m.clampScroll(m.scroll - wheelRows)
		return m, nil
	case key.Matches(msg, m.keys.ScrollDown):
		m.scroll = m.clampScroll(m.scroll + wheelRows)
		return m, nil
	}

	return m, nil
}

// handleMouse translates a terminal mouse event into editor calls.
func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if msg.Ctrl {
			return m.zoom(1, float64(msg.Y-m.originY-headerRows))
		}
		m.scroll = m.clampScroll(m.scroll - wheelRows)
		return m, nil

	case tea.MouseButtonWheelDown:
		if msg.Ctrl {
			return m.zoom(-1, float64(msg.Y-m.originY-headerRows))
		}
		m.scroll = m.clampScroll(m.scroll + wheelRows)
		return m, nil
	}

	day, colFrac, rowY, ok := m.locate(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if m.editingID != "" {
			m.stopEditing()
		}
		if !ok {
			return m, nil
		}
		switch msg.Button {
		case tea.MouseButtonLeft:
			id, zone := m.editor.HitTest(day, rowY, colFrac, m.laneFunc(day))
			modifier := msg.Ctrl || msg.Shift

			// A second plain press on the same block within the window
			// opens title editing instead of starting a move.
			if zone == edit.ZoneBody && !modifier &&
				id == m.lastClickID && time.Since(m.lastClickTime) < doubleClickWindow {
				m.editor.SelectOnly(id)
				m.startEditing(day, id)
				m.lastClickID = ""
				return m, textinput.Blink
			}

			m.editor.PointerDown(day, rowY, colFrac, modifier, m.laneFunc(day))
			m.mouseDown = true
			if zone == edit.ZoneBody && !modifier {
				m.lastClickID = id
				m.lastClickTime = time.Now()
			} else {
				m.lastClickID = ""
			}
		case tea.MouseButtonRight:
			id, zone := m.editor.HitTest(day, rowY, colFrac, m.laneFunc(day))
			if zone != edit.ZoneNone {
				m.editor.ContextMenu(day, id)
				m.menu.Open(day, id, model.Palette, day == m.editor.Today())
			}
		}
		return m, nil

	case tea.MouseActionMotion:
		// Motion over the gutter or header carries no usable position;
		// feeding it to the editor would yank the drag to row 0.
		if m.mouseDown && ok {
			m.editor.PointerMove(day, rowY)
		}
		return m, nil

	case tea.MouseActionRelease:
		if !m.mouseDown {
			return m, nil
		}
		m.mouseDown = false
		if created := m.editor.PointerUp(); created != "" {
			if day, ok := m.dayOf(created); ok {
				m.editor.SelectOnly(created)
				m.startEditing(day, created)
				return m, textinput.Blink
			}
		}
		return m, nil
	}

	return m, nil
}

// zoom applies one zoom tick anchored at the given canvas row and
// reports the new hour height for persistence.
func (m Model) zoom(direction int, anchorY float64) (Model, tea.Cmd) {
	m.scroll = m.clampScroll(m.editor.Zoom(direction, anchorY, m.scroll))
	h := m.editor.HourHeight()
	return m, func() tea.Msg {
		return ZoomedMsg{HourHeight: h}
	}
}

// startEditing focuses the title field on the given block.
func (m *Model) startEditing(day, id string) {
	entry, ok := m.editor.Find(day, id)
	if !ok {
		return
	}
	m.editingDay = day
	m.editingID = id
	m.input.SetValue(entry.Title)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *Model) stopEditing() {
	m.editingDay = ""
	m.editingID = ""
	m.input.Blur()
}

// dayOf finds which visible bucket contains the entry.
func (m Model) dayOf(id string) (string, bool) {
	for _, day := range m.days {
		if _, ok := m.editor.Find(day, id); ok {
			return day, true
		}
	}
	return "", false
}

// --- Coordinate mapping ---

func (m Model) canvasHeight() int {
	h := m.height - headerRows
	if h < 1 {
		h = 1
	}
	return h
}

// dayWidth returns the cell width of one day column.
func (m Model) dayWidth() int {
	if len(m.days) == 0 {
		return 0
	}
	w := (m.width - gutterWidth) / len(m.days)
	if w < 1 {
		w = 1
	}
	return w
}

// locate maps absolute terminal coordinates to a day key, a horizontal
// fraction of that column, and a timeline row.
func (m Model) locate(x, y int) (dayKey string, colFrac, rowY float64, ok bool) {
	colW := m.dayWidth()
	if colW == 0 {
		return "", 0, 0, false
	}

	cx := x - gutterWidth
	cy := y - m.originY - headerRows
	if cx < 0 || cy < 0 {
		return "", 0, 0, false
	}

	idx := cx / colW
	if idx >= len(m.days) {
		return "", 0, 0, false
	}

	rowY = m.scroll + float64(cy)
	colFrac = float64(cx-idx*colW) / float64(colW)
	return m.days[idx], colFrac, rowY, true
}

// rowOfMinutes converts a minute-of-day to an absolute timeline row.
func (m Model) rowOfMinutes(minutes float64) float64 {
	return m.editor.Grid().MinutesToRows(minutes, m.editor.HourHeight())
}

// totalRows is the full height of the day window at the current zoom.
func (m Model) totalRows() float64 {
	return m.rowOfMinutes(float64(m.editor.Grid().WindowEnd()))
}

func (m Model) clampScroll(s float64) float64 {
	max := m.totalRows() - float64(m.canvasHeight())
	if max < 0 {
		max = 0
	}
	if s > max {
		s = max
	}
	if s < 0 {
		s = 0
	}
	return s
}

// laneFunc builds the overlap-lane lookup for one bucket, in the shape
// the editor's hit testing expects.
func (m Model) laneFunc(dayKey string) func(id string) (float64, float64) {
	slots := overlap.Compute(m.editor.Entries(dayKey))
	return func(id string) (float64, float64) {
		slot, ok := slots[id]
		if !ok || slot.Columns == 0 {
			return 0, 1
		}
		w := 1 / float64(slot.Columns)
		return float64(slot.Column) * w, w
	}
}

// --- Rendering ---

// View renders the hour gutter and day columns. An open context menu
// replaces the canvas as a centered modal.
func (m Model) View() string {
	if m.menu.IsOpen() {
		return lipgloss.Place(
			m.width, m.height,
			lipgloss.Center, lipgloss.Center,
			m.menu.View(),
		)
	}

	canvasH := m.canvasHeight()
	colW := m.dayWidth()

	columns := make([]string, 0, len(m.days)+1)
	columns = append(columns, m.renderGutter(canvasH))
	for _, day := range m.days {
		columns = append(columns, m.renderDay(day, colW, canvasH))
	}

	header := m.renderHeaders(colW)
	canvas := lipgloss.JoinHorizontal(lipgloss.Top, columns...)
	return lipgloss.JoinVertical(lipgloss.Left, header, canvas)
}

// renderHeaders renders the per-column day labels above the canvas.
func (m Model) renderHeaders(colW int) string {
	parts := []string{strings.Repeat(" ", gutterWidth)}
	today := m.editor.Today()
	for _, day := range m.days {
		label := day
		if t, err := time.Parse("2006-01-02", day); err == nil {
			label = t.Format("Mon Jan 2")
		}
		style := theme.DayHeaderStyle
		if day == today {
			style = theme.TodayHeaderStyle
		}
		parts = append(parts, style.Width(colW).Align(lipgloss.Center).Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// renderGutter renders hour labels down the left edge.
func (m Model) renderGutter(canvasH int) string {
	rows := make([]string, canvasH)
	for r := range rows {
		rows[r] = strings.Repeat(" ", gutterWidth)
	}

	grid := m.editor.Grid()
	for h := grid.DayStartHour; h <= grid.DayEndHour; h++ {
		row := int(math.Round(m.rowOfMinutes(float64(h*60)) - m.scroll))
		if row < 0 || row >= canvasH {
			continue
		}
		label := timegrid.FormatTime(h * 60)
		if m.use24h {
			label = timegrid.FormatTime24(h * 60)
		}
		rows[row] = theme.GutterStyle.Width(gutterWidth).Align(lipgloss.Right).Render(label + " ")
	}
	return strings.Join(rows, "\n")
}

// blockRow is one rendered row of one block within a day column.
type blockRow struct {
	startCell int
	width     int
	text      string
}

// renderDay renders one day column: background grid, blocks in their
// overlap lanes, the creation preview, and the current-time line.
func (m Model) renderDay(dayKey string, colW, canvasH int) string {
	grid := m.editor.Grid()
	entries := m.editor.Entries(dayKey)
	slots := overlap.Compute(entries)

	// Rows occupied by blocks, topmost entry last so later appends win.
	occupied := make([][]blockRow, canvasH)
	for _, entry := range entries {
		m.layoutBlock(entry, slots[entry.ID], dayKey, colW, canvasH, occupied)
	}

	hourRows := make(map[int]bool)
	for h := grid.DayStartHour; h <= grid.DayEndHour; h++ {
		hourRows[int(math.Round(m.rowOfMinutes(float64(h*60))-m.scroll))] = true
	}

	nowRow := -1
	if dayKey == m.editor.Today() {
		now := time.Now()
		nowRow = int(math.Round(m.rowOfMinutes(float64(now.Hour()*60+now.Minute())) - m.scroll))
	}

	previewLo, previewHi := -1, -1
	if day, lo, hi, ok := m.editor.CreatePreview(); ok && day == dayKey {
		previewLo = int(math.Round(m.rowOfMinutes(lo) - m.scroll))
		previewHi = int(math.Round(m.rowOfMinutes(hi) - m.scroll))
	}

	rows := make([]string, canvasH)
	for r := 0; r < canvasH; r++ {
		rows[r] = m.composeRow(occupied[r], colW, hourRows[r], r == nowRow,
			previewLo >= 0 && r >= previewLo && r <= previewHi)
	}
	return strings.Join(rows, "\n")
}

// layoutBlock computes the visible rows of one block and registers
// them in the row table.
func (m Model) layoutBlock(entry model.Entry, slot overlap.Slot, dayKey string, colW, canvasH int, occupied [][]blockRow) {
	top := int(math.Round(m.rowOfMinutes(float64(entry.StartMinutes)) - m.scroll))
	bottom := int(math.Round(m.rowOfMinutes(float64(entry.EndMinutes)) - m.scroll))
	if bottom <= top {
		bottom = top + 1
	}

	cols := slot.Columns
	if cols == 0 {
		cols = 1
	}
	laneW := colW / cols
	if laneW < 1 {
		laneW = 1
	}
	startCell := slot.Column * laneW

	selected := m.editor.IsSelected(entry.ID)
	style := theme.BlockStyle(entry.Color, selected, entry.Done)

	firstVisible := true
	for r := top; r < bottom; r++ {
		if r < 0 || r >= canvasH {
			continue
		}
		var text string
		if firstVisible {
			text = m.blockLabel(entry, dayKey, style, laneW)
			firstVisible = false
		} else {
			text = style.Width(laneW).Render("")
		}
		occupied[r] = append(occupied[r], blockRow{
			startCell: startCell,
			width:     laneW,
			text:      text,
		})
	}
}

// blockLabel renders the first row of a block: start time, title (or
// the live edit field), and the done marker at the right edge.
func (m Model) blockLabel(entry model.Entry, dayKey string, style lipgloss.Style, laneW int) string {
	mark := "○"
	if entry.Done {
		mark = "✓"
	}

	clock := timegrid.FormatTime(entry.StartMinutes)
	if m.use24h {
		clock = timegrid.FormatTime24(entry.StartMinutes)
	}

	body := clock + " " + entry.DisplayTitle()
	if m.editingID == entry.ID && m.editingDay == dayKey {
		body = clock + " " + m.input.View()
	}

	bodyW := laneW - 1
	if bodyW < 1 {
		return style.Width(laneW).MaxWidth(laneW).Render(mark)
	}
	return style.Width(bodyW).MaxWidth(bodyW).Render(body) +
		style.MaxWidth(1).Render(mark)
}

// composeRow joins block segments and background filler into one
// terminal row of a day column.
func (m Model) composeRow(segs []blockRow, colW int, hourLine, nowLine, preview bool) string {
	fill := func(w int) string {
		switch {
		case nowLine:
			return theme.NowLineStyle.Render(strings.Repeat("─", w))
		case preview:
			return theme.PreviewStyle.Render(strings.Repeat("░", w))
		case hourLine:
			return theme.GridLineStyle.Render(strings.Repeat("┄", w))
		default:
			return strings.Repeat(" ", w)
		}
	}

	if len(segs) == 0 {
		return fill(colW)
	}

	sort.SliceStable(segs, func(i, j int) bool {
		return segs[i].startCell < segs[j].startCell
	})

	// Segments are laid out per lane and never truly overlap; drop
	// anything that still collides by tracking the cursor.
	var b strings.Builder
	x := 0
	for _, seg := range segs {
		if seg.startCell < x {
			continue
		}
		if seg.startCell > x {
			b.WriteString(fill(seg.startCell - x))
		}
		b.WriteString(seg.text)
		x = seg.startCell + seg.width
		if x > colW {
			x = colW
		}
	}
	if x < colW {
		b.WriteString(fill(colW - x))
	}
	return b.String()
}
