package model

import (
	"time"

	"github.com/google/uuid"
)

// DefaultColor is the fallback block color used when a day document
// carries no color metadata for an entry.
const DefaultColor = "#4a9eff"

// Palette is the fixed set of preset block colors offered by the
// context menu. Loaded entries are not validated against it; any
// six-hex-digit value round-trips through persistence untouched.
var Palette = []string{
	"#4a9eff",
	"#ff6b6b",
	"#6bcb77",
	"#ffd93d",
	"#cc5de8",
	"#ffa94d",
	"#38d9a9",
	"#748ffc",
	"#f783ac",
	"#868e96",
}

// Entry is a single time-blocked activity on one day's timeline.
type Entry struct {
	// ID is the opaque unique identifier, assigned on creation and
	// immutable thereafter.
	ID string `json:"id"`

	// Title is free-form text. An empty title is stored as-is and
	// rendered as "Untitled" by consuming views.
	Title string `json:"title"`

	// StartMinutes is the start time in wall-clock minutes since
	// midnight, in [0, 1440).
	StartMinutes int `json:"start_minutes"`

	// EndMinutes is the end time in wall-clock minutes since midnight.
	// Committed entries always satisfy EndMinutes > StartMinutes.
	EndMinutes int `json:"end_minutes"`

	// Color is a "#rrggbb" hex value, normally one of Palette.
	Color string `json:"color"`

	// Done marks the block completed. Toggled independently of all
	// other fields.
	Done bool `json:"done"`
}

// DisplayTitle returns the title shown in views, substituting
// "Untitled" for an empty one. The stored value stays empty.
func (e Entry) DisplayTitle() string {
	if e.Title == "" {
		return "Untitled"
	}
	return e.Title
}

// Duration returns the entry length in minutes.
func (e Entry) Duration() int {
	return e.EndMinutes - e.StartMinutes
}

// Duplicate returns a copy of the entry with a fresh ID.
func (e Entry) Duplicate() Entry {
	d := e
	d.ID = NewID()
	return d
}

// NewID generates a collision-resistant opaque entry identifier.
func NewID() string {
	return uuid.New().String()
}

// DayKey formats t as the YYYY-MM-DD key addressing one day bucket.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// TodayKey returns the day key for the current local date.
func TodayKey() string {
	return DayKey(time.Now())
}
