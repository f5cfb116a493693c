// Package timeline owns the pointer-driven editing core: day buckets,
// the selection set, and the drag state machine that turns pointer
// events into entry mutations. Coordinates are component-local (timeline
// rows and a day key resolved by the caller), so the whole package tests
// without a display surface.
package timeline

import (
	"math"
	"sync"

	"github.com/hvu/timeblock/internal/model"
	"github.com/hvu/timeblock/internal/timegrid"
)

const (
	// MinHourHeight and MaxHourHeight bound the zoom level in rows/hour.
	MinHourHeight = 2.0
	MaxHourHeight = 12.0

	// ZoomStep is the multiplicative hour-height change per wheel tick.
	ZoomStep = 1.1

	// dragThresholdRows is the minimum pointer travel for a create-drag
	// to commit; anything shorter is treated as an accidental click.
	dragThresholdRows = 0.5

	// edgeGrabRows is how close to a block's top or bottom the pointer
	// must be to grab a resize handle.
	edgeGrabRows = 0.5
)

// DragKind tags the variant of the in-progress drag session.
type DragKind int

const (
	DragNone DragKind = iota
	DragCreating
	DragMoving
	DragResizing
)

// Edge identifies which end of a block a resize grabbed.
type Edge int

const (
	EdgeTop Edge = iota
	EdgeBottom
)

// Zone classifies what part of a block (if any) a pointer position hits.
type Zone int

const (
	ZoneNone Zone = iota
	ZoneBody
	ZoneTopEdge
	ZoneBottomEdge
	ZoneDoneMark
)

// moveOrigin records where a moving entry started, so every move tick
// recomputes from the press point instead of accumulating drift.
type moveOrigin struct {
	startMinutes int
}

// dragSession is the transient pointer-interaction state. Exactly one
// shape is valid at a time, tagged by kind; it never survives a
// pointer-up.
type dragSession struct {
	kind DragKind

	// day is the bucket currently under the drag.
	day string

	// creating
	anchorMinutes float64
	cursorMinutes float64
	anchorRows    float64
	cursorRows    float64

	// moving
	moveIDs      []string
	origins      map[string]moveOrigin
	pressMinutes float64

	// resizing
	resizeID string
	edge     Edge
}

// Editor is the interaction state machine. It is the sole mutator of
// entry fields during drag sessions and reports every committed bucket
// mutation through the change callback; persistence is the caller's
// concern.
type Editor struct {
	grid         timegrid.Config
	hourHeight   float64
	defaultColor string

	// mu guards days and the entries inside its buckets. All mutation
	// happens on the event loop, but Entries is also the snapshot
	// source for the debounced saver and the clock watcher, which read
	// from their own goroutines.
	mu sync.RWMutex

	days      map[string][]model.Entry
	selection map[string]struct{}
	drag      dragSession

	// Today is injectable so cross-day actions test deterministically.
	Today func() string

	notify func(dayKey string)
}

// New creates an Editor over the given grid. onChange is invoked with a
// day key on every committed mutation of that bucket; nil is allowed.
func New(grid timegrid.Config, hourHeight float64, defaultColor string, onChange func(dayKey string)) *Editor {
	if hourHeight < MinHourHeight {
		hourHeight = MinHourHeight
	}
	if hourHeight > MaxHourHeight {
		hourHeight = MaxHourHeight
	}
	if defaultColor == "" {
		defaultColor = model.DefaultColor
	}
	return &Editor{
		grid:         grid,
		hourHeight:   hourHeight,
		defaultColor: defaultColor,
		days:         make(map[string][]model.Entry),
		selection:    make(map[string]struct{}),
		Today:        model.TodayKey,
		notify:       onChange,
	}
}

// Grid returns the editor's time grid configuration.
func (e *Editor) Grid() timegrid.Config {
	return e.grid
}

// HourHeight returns the current zoom level in rows per hour.
func (e *Editor) HourHeight() float64 {
	return e.hourHeight
}

// SetDay replaces the entry collection for a bucket, typically after a
// load. No change notification fires; the bucket is not dirty.
func (e *Editor) SetDay(dayKey string, entries []model.Entry) {
	bucket := make([]model.Entry, len(entries))
	copy(bucket, entries)

	e.mu.Lock()
	e.days[dayKey] = bucket
	e.mu.Unlock()
}

// Entries returns a copy of a bucket's entries in insertion order. It
// is safe to call from any goroutine.
func (e *Editor) Entries(dayKey string) []model.Entry {
	e.mu.RLock()
	defer e.mu.RUnlock()

	bucket := e.days[dayKey]
	out := make([]model.Entry, len(bucket))
	copy(out, bucket)
	return out
}

// Find returns the entry with the given id in the given bucket.
func (e *Editor) Find(dayKey, id string) (model.Entry, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.find(dayKey, id)
}

// find is Find without locking, for callers already holding mu.
func (e *Editor) find(dayKey, id string) (model.Entry, bool) {
	for _, entry := range e.days[dayKey] {
		if entry.ID == id {
			return entry, true
		}
	}
	return model.Entry{}, false
}

// emit reports a committed mutation of a bucket.
func (e *Editor) emit(dayKey string) {
	if e.notify != nil {
		e.notify(dayKey)
	}
}

// --- Selection ---

// Selection returns the selected entry ids in unspecified order.
func (e *Editor) Selection() []string {
	out := make([]string, 0, len(e.selection))
	for id := range e.selection {
		out = append(out, id)
	}
	return out
}

// IsSelected reports whether id is in the selection set.
func (e *Editor) IsSelected(id string) bool {
	_, ok := e.selection[id]
	return ok
}

// ClearSelection empties the selection set.
func (e *Editor) ClearSelection() {
	e.selection = make(map[string]struct{})
}

// ToggleSelect flips id in or out of the selection set.
func (e *Editor) ToggleSelect(id string) {
	if _, ok := e.selection[id]; ok {
		delete(e.selection, id)
	} else {
		e.selection[id] = struct{}{}
	}
}

// SelectOnly collapses the selection to the single given id.
func (e *Editor) SelectOnly(id string) {
	e.selection = map[string]struct{}{id: {}}
}

// --- Geometry ---

// entryTopRows returns the row offset of an entry's top edge.
func (e *Editor) entryTopRows(entry model.Entry) float64 {
	return e.grid.MinutesToRows(float64(entry.StartMinutes), e.hourHeight)
}

// entryBottomRows returns the row offset of an entry's bottom edge.
func (e *Editor) entryBottomRows(entry model.Entry) float64 {
	return e.grid.MinutesToRows(float64(entry.EndMinutes), e.hourHeight)
}

// HitTest resolves a pointer position inside one day column to the
// entry and zone under it. y is the timeline-relative row; colFrac is
// the horizontal position as a fraction of the day column width. Lane
// boundaries come from the bucket's current overlap layout, supplied by
// the caller as laneOf (entry id -> lane start fraction, lane width
// fraction); passing nil treats every block as full width.
func (e *Editor) HitTest(dayKey string, y, colFrac float64, laneOf func(id string) (float64, float64)) (string, Zone) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	bucket := e.days[dayKey]
	// Walk back to front so the visually topmost (later laid out) block
	// wins on exact ties.
	for i := len(bucket) - 1; i >= 0; i-- {
		entry := bucket[i]
		top := e.entryTopRows(entry)
		bottom := e.entryBottomRows(entry)
		if y < top || y >= bottom {
			continue
		}

		laneStart, laneWidth := 0.0, 1.0
		if laneOf != nil {
			laneStart, laneWidth = laneOf(entry.ID)
		}
		if laneWidth <= 0 {
			continue
		}
		if colFrac < laneStart || colFrac >= laneStart+laneWidth {
			continue
		}

		// The done marker sits in the top-right corner of the block and
		// must not trigger move/select handling.
		laneFrac := (colFrac - laneStart) / laneWidth
		if y < top+1 && laneFrac >= 0.85 {
			return entry.ID, ZoneDoneMark
		}
		if y <= top+edgeGrabRows {
			return entry.ID, ZoneTopEdge
		}
		if y >= bottom-edgeGrabRows {
			return entry.ID, ZoneBottomEdge
		}
		return entry.ID, ZoneBody
	}
	return "", ZoneNone
}

// --- Drag state machine ---

// DragKind returns the tag of the current drag session.
func (e *Editor) DragKind() DragKind {
	return e.drag.kind
}

// CreatePreview returns the day and unsnapped minute span of an
// in-progress creation drag. ok is false outside a creating session.
func (e *Editor) CreatePreview() (dayKey string, startMinutes, endMinutes float64, ok bool) {
	if e.drag.kind != DragCreating {
		return "", 0, 0, false
	}
	lo := math.Min(e.drag.anchorMinutes, e.drag.cursorMinutes)
	hi := math.Max(e.drag.anchorMinutes, e.drag.cursorMinutes)
	return e.drag.day, lo, hi, true
}

// PointerDown feeds a primary-button press into the state machine.
// modifier is the multi-select modifier (e.g. ctrl/shift held).
// The returned toggledDone id is non-empty when the press landed on a
// done marker and was consumed by the toggle.
func (e *Editor) PointerDown(dayKey string, y, colFrac float64, modifier bool, laneOf func(id string) (float64, float64)) (toggledDone string) {
	id, zone := e.HitTest(dayKey, y, colFrac, laneOf)

	switch zone {
	case ZoneNone:
		if !modifier {
			e.ClearSelection()
		}
		minutes := e.grid.RowsToMinutes(y, e.hourHeight)
		e.drag = dragSession{
			kind:          DragCreating,
			day:           dayKey,
			anchorMinutes: minutes,
			cursorMinutes: minutes,
			anchorRows:    y,
			cursorRows:    y,
		}
		return ""

	case ZoneDoneMark:
		e.ToggleDone(dayKey, id)
		return id

	case ZoneTopEdge, ZoneBottomEdge:
		edge := EdgeTop
		if zone == ZoneBottomEdge {
			edge = EdgeBottom
		}
		e.drag = dragSession{
			kind:     DragResizing,
			day:      dayKey,
			resizeID: id,
			edge:     edge,
		}
		return ""

	case ZoneBody:
		if modifier {
			e.ToggleSelect(id)
			return ""
		}
		if !e.IsSelected(id) {
			e.SelectOnly(id)
		}
		e.beginMove(dayKey, y)
		return ""
	}
	return ""
}

// beginMove opens a moving session for every selected entry, recording
// each one's original start.
func (e *Editor) beginMove(dayKey string, y float64) {
	ids := e.Selection()
	origins := make(map[string]moveOrigin, len(ids))

	e.mu.RLock()
	for _, id := range ids {
		for _, bucket := range e.days {
			for _, entry := range bucket {
				if entry.ID == id {
					origins[id] = moveOrigin{startMinutes: entry.StartMinutes}
				}
			}
		}
	}
	e.mu.RUnlock()

	e.drag = dragSession{
		kind:         DragMoving,
		day:          dayKey,
		moveIDs:      ids,
		origins:      origins,
		pressMinutes: e.grid.RowsToMinutes(y, e.hourHeight),
	}
}

// PointerMove feeds pointer motion into the state machine. dayKey is
// the day column currently under the pointer, which may differ from the
// session's day in multi-day view.
func (e *Editor) PointerMove(dayKey string, y float64) {
	switch e.drag.kind {
	case DragCreating:
		e.drag.cursorMinutes = e.grid.RowsToMinutes(y, e.hourHeight)
		e.drag.cursorRows = y

	case DragMoving:
		e.moveTick(dayKey, y)

	case DragResizing:
		e.resizeTick(y)
	}
}

// moveTick applies one move step: a snapped delta from the press point,
// per-entry window clamping with duration preserved, and a live
// cross-bucket transfer when the pointer changed day columns.
func (e *Editor) moveTick(dayKey string, y float64) {
	e.mu.Lock()

	var emitDays []string
	if dayKey != "" && dayKey != e.drag.day {
		emitDays = e.transferMoving(dayKey)
	}

	deltaRaw := e.grid.RowsToMinutes(y, e.hourHeight) - e.drag.pressMinutes
	delta := e.grid.Snap(int(math.Round(deltaRaw)))

	bucket := e.days[e.drag.day]
	changed := false
	for i := range bucket {
		origin, ok := e.drag.origins[bucket[i].ID]
		if !ok {
			continue
		}
		dur := bucket[i].Duration()
		start := origin.startMinutes + delta
		if start+dur > e.grid.WindowEnd() {
			start = e.grid.WindowEnd() - dur
		}
		// The low bound wins last so an entry longer than the window
		// can never be pushed above the window start.
		if start < e.grid.WindowStart() {
			start = e.grid.WindowStart()
		}
		if bucket[i].StartMinutes != start {
			bucket[i].StartMinutes = start
			bucket[i].EndMinutes = start + dur
			changed = true
		}
	}
	if changed {
		emitDays = append(emitDays, e.drag.day)
	}
	e.mu.Unlock()

	for _, day := range emitDays {
		e.emit(day)
	}
}

// transferMoving atomically moves the drag set from the session's
// current bucket into destDay: removed from the source and appended to
// the destination within one tick. The caller holds mu and emits the
// returned day keys after unlocking.
func (e *Editor) transferMoving(destDay string) []string {
	srcDay := e.drag.day
	src := e.days[srcDay]

	moving := make(map[string]bool, len(e.drag.moveIDs))
	for _, id := range e.drag.moveIDs {
		moving[id] = true
	}

	kept := src[:0]
	var transferred []model.Entry
	for _, entry := range src {
		if moving[entry.ID] {
			transferred = append(transferred, entry)
		} else {
			kept = append(kept, entry)
		}
	}
	if len(transferred) == 0 {
		e.drag.day = destDay
		return nil
	}

	e.days[srcDay] = kept
	e.days[destDay] = append(e.days[destDay], transferred...)
	e.drag.day = destDay

	return []string{srcDay, destDay}
}

// resizeTick recomputes the grabbed edge's time for the single resized
// entry. The opposite edge never moves.
func (e *Editor) resizeTick(y float64) {
	e.mu.Lock()
	changed := false

	bucket := e.days[e.drag.day]
	for i := range bucket {
		if bucket[i].ID != e.drag.resizeID {
			continue
		}

		m := e.grid.Snap(int(math.Round(e.grid.RowsToMinutes(y, e.hourHeight))))
		g := e.grid.GridMinutes

		switch e.drag.edge {
		case EdgeTop:
			limit := bucket[i].EndMinutes - g
			if m > limit {
				m = limit
			}
			if m < e.grid.WindowStart() {
				m = e.grid.WindowStart()
			}
			if bucket[i].StartMinutes != m {
				bucket[i].StartMinutes = m
				changed = true
			}
		case EdgeBottom:
			limit := bucket[i].StartMinutes + g
			if m < limit {
				m = limit
			}
			if m > e.grid.WindowEnd() {
				m = e.grid.WindowEnd()
			}
			if bucket[i].EndMinutes != m {
				bucket[i].EndMinutes = m
				changed = true
			}
		}
		break
	}

	e.mu.Unlock()
	if changed {
		e.emit(e.drag.day)
	}
}

// PointerUp resolves the drag session. A committed creation returns the
// new entry's id so the caller can enter title editing; every other
// case returns "".
func (e *Editor) PointerUp() (createdID string) {
	drag := e.drag
	e.drag = dragSession{}

	if drag.kind != DragCreating {
		return ""
	}

	if math.Abs(drag.cursorRows-drag.anchorRows) <= dragThresholdRows {
		return ""
	}

	lo := math.Min(drag.anchorMinutes, drag.cursorMinutes)
	hi := math.Max(drag.anchorMinutes, drag.cursorMinutes)
	start := e.grid.ClampToWindow(e.grid.Snap(int(math.Round(lo))))
	end := e.grid.ClampToWindow(e.grid.Snap(int(math.Round(hi))))
	if end <= start {
		return ""
	}

	entry := model.Entry{
		ID:           model.NewID(),
		StartMinutes: start,
		EndMinutes:   end,
		Color:        e.defaultColor,
	}

	e.mu.Lock()
	e.days[drag.day] = append(e.days[drag.day], entry)
	e.mu.Unlock()

	e.emit(drag.day)
	return entry.ID
}

// CancelDrag discards any drag session without committing.
func (e *Editor) CancelDrag() {
	e.drag = dragSession{}
}

// --- Entry operations ---

// ContextMenu prepares for a context-menu open on the given block: a
// block outside the current selection collapses the selection to it.
func (e *Editor) ContextMenu(dayKey, id string) {
	if !e.IsSelected(id) {
		e.SelectOnly(id)
	}
}

// ApplyColor sets the color of every selected entry, across all open
// buckets.
func (e *Editor) ApplyColor(color string) {
	e.mu.Lock()
	var emitDays []string
	for dayKey, bucket := range e.days {
		changed := false
		for i := range bucket {
			if e.IsSelected(bucket[i].ID) && bucket[i].Color != color {
				bucket[i].Color = color
				changed = true
			}
		}
		if changed {
			emitDays = append(emitDays, dayKey)
		}
	}
	e.mu.Unlock()

	for _, day := range emitDays {
		e.emit(day)
	}
}

// DuplicateEntry appends a copy of the entry (fresh id, same fields) to
// its bucket and collapses the selection to the copy.
func (e *Editor) DuplicateEntry(dayKey, id string) (newID string, ok bool) {
	e.mu.Lock()
	entry, found := e.find(dayKey, id)
	if !found {
		e.mu.Unlock()
		return "", false
	}
	dup := entry.Duplicate()
	e.days[dayKey] = append(e.days[dayKey], dup)
	e.mu.Unlock()

	e.SelectOnly(dup.ID)
	e.emit(dayKey)
	return dup.ID, true
}

// DeleteSelected removes every selected entry from whichever buckets
// contain them and clears the selection.
func (e *Editor) DeleteSelected() {
	if len(e.selection) == 0 {
		return
	}

	e.mu.Lock()
	var emitDays []string
	for dayKey, bucket := range e.days {
		kept := bucket[:0]
		changed := false
		for _, entry := range bucket {
			if e.IsSelected(entry.ID) {
				changed = true
				continue
			}
			kept = append(kept, entry)
		}
		if changed {
			e.days[dayKey] = kept
			emitDays = append(emitDays, dayKey)
		}
	}
	e.mu.Unlock()

	for _, day := range emitDays {
		e.emit(day)
	}
	e.ClearSelection()
}

// SendSelectedToToday removes the selected entries from their current
// buckets and appends them to the today bucket.
func (e *Editor) SendSelectedToToday() {
	today := e.Today()
	var moved []model.Entry

	e.mu.Lock()
	var emitDays []string
	for dayKey, bucket := range e.days {
		if dayKey == today {
			continue
		}
		kept := bucket[:0]
		changed := false
		for _, entry := range bucket {
			if e.IsSelected(entry.ID) {
				moved = append(moved, entry)
				changed = true
				continue
			}
			kept = append(kept, entry)
		}
		if changed {
			e.days[dayKey] = kept
			emitDays = append(emitDays, dayKey)
		}
	}
	if len(moved) > 0 {
		e.days[today] = append(e.days[today], moved...)
		emitDays = append(emitDays, today)
	}
	e.mu.Unlock()

	for _, day := range emitDays {
		e.emit(day)
	}
}

// ToggleDone flips only the entry's done flag; selection is untouched.
func (e *Editor) ToggleDone(dayKey, id string) {
	e.mu.Lock()
	changed := false
	bucket := e.days[dayKey]
	for i := range bucket {
		if bucket[i].ID == id {
			bucket[i].Done = !bucket[i].Done
			changed = true
			break
		}
	}
	e.mu.Unlock()

	if changed {
		e.emit(dayKey)
	}
}

// SetTitle applies a title to an entry. Title edits are live; callers
// invoke this on every keystroke of the edit field.
func (e *Editor) SetTitle(dayKey, id, title string) {
	e.mu.Lock()
	changed := false
	bucket := e.days[dayKey]
	for i := range bucket {
		if bucket[i].ID == id {
			if bucket[i].Title != title {
				bucket[i].Title = title
				changed = true
			}
			break
		}
	}
	e.mu.Unlock()

	if changed {
		e.emit(dayKey)
	}
}

// --- Zoom ---

// Zoom rescales the hour height by one wheel tick (direction +1 in,
// -1 out), anchored so the time under anchorY stays visually fixed.
// It returns the compensated scroll offset.
func (e *Editor) Zoom(direction int, anchorY, scrollOffset float64) float64 {
	anchorMinutes := e.grid.RowsToMinutes(scrollOffset+anchorY, e.hourHeight)

	h := e.hourHeight
	if direction > 0 {
		h *= ZoomStep
	} else {
		h /= ZoomStep
	}
	if h < MinHourHeight {
		h = MinHourHeight
	}
	if h > MaxHourHeight {
		h = MaxHourHeight
	}
	e.hourHeight = h

	newScroll := e.grid.MinutesToRows(anchorMinutes, h) - anchorY
	if newScroll < 0 {
		newScroll = 0
	}
	return newScroll
}
