// Package timegrid holds the pure time arithmetic shared by the timeline:
// conversions between wall-clock minutes and terminal rows, grid snapping,
// and the time/duration/countdown formatters.
package timegrid

import (
	"fmt"
	"math"
)

const (
	// DefaultDayStartHour is the first visible hour of the day window.
	DefaultDayStartHour = 6
	// DefaultDayEndHour is the last visible hour of the day window.
	DefaultDayEndHour = 23
	// DefaultGridMinutes is the snap quantum applied to all user-set times.
	DefaultGridMinutes = 15
)

// Config describes the visible day window and snap grid.
// Invariant: DayStartHour < DayEndHour.
type Config struct {
	DayStartHour int
	DayEndHour   int
	GridMinutes  int
}

// DefaultConfig returns the standard 06:00-23:00 window with a
// 15-minute grid.
func DefaultConfig() Config {
	return Config{
		DayStartHour: DefaultDayStartHour,
		DayEndHour:   DefaultDayEndHour,
		GridMinutes:  DefaultGridMinutes,
	}
}

// WindowStart returns the first minute of the visible day window.
func (c Config) WindowStart() int {
	return c.DayStartHour * 60
}

// WindowEnd returns the last minute of the visible day window.
func (c Config) WindowEnd() int {
	return c.DayEndHour * 60
}

// VisibleHours returns the number of hours in the day window.
func (c Config) VisibleHours() int {
	return c.DayEndHour - c.DayStartHour
}

// MinutesToRows maps minutes-since-midnight onto a fractional row offset,
// anchored so the window start maps to row 0. Times before the window
// produce negative offsets.
func (c Config) MinutesToRows(minutes float64, hourHeight float64) float64 {
	return (minutes - float64(c.WindowStart())) / 60 * hourHeight
}

// RowsToMinutes is the exact inverse of MinutesToRows.
func (c Config) RowsToMinutes(rows float64, hourHeight float64) float64 {
	return rows/hourHeight*60 + float64(c.WindowStart())
}

// Snap rounds minutes to the nearest grid multiple, round-half-up.
func (c Config) Snap(minutes int) int {
	g := c.GridMinutes
	return int(math.Floor(float64(minutes)/float64(g)+0.5)) * g
}

// ClampToWindow bounds minutes to the visible day window.
func (c Config) ClampToWindow(minutes int) int {
	if minutes < c.WindowStart() {
		return c.WindowStart()
	}
	if minutes > c.WindowEnd() {
		return c.WindowEnd()
	}
	return minutes
}

// FormatTime renders minutes-since-midnight as a 12-hour clock string,
// e.g. "9:00 AM".
func FormatTime(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, m, suffix)
}

// FormatTime24 renders minutes-since-midnight as a zero-padded 24-hour
// clock string, e.g. "09:00".
func FormatTime24(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseClock parses a "HH:MM" string into minutes since midnight.
func ParseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("parsing clock value %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock value %q out of range", s)
	}
	return h*60 + m, nil
}

// FormatDuration renders a minute count as "0m", "30m", "1h" or "1h 30m".
// The minutes component is omitted when it is zero and hours are shown.
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	h := minutes / 60
	m := minutes % 60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// FormatCountdown renders seconds remaining as a short countdown label.
// Seconds are dropped once minutes are shown, minutes once hours are shown.
func FormatCountdown(seconds int) string {
	if seconds <= 0 {
		return "0s left"
	}
	if seconds < 60 {
		return fmt.Sprintf("%ds left", seconds)
	}
	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm %ds left", minutes, seconds%60)
	}
	return fmt.Sprintf("%dh %dm left", minutes/60, minutes%60)
}
