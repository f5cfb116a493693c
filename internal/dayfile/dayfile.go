// Package dayfile is the codec between one day's entry list and its
// markdown document. Serialization is always chronological; parsing is
// lenient and silently skips anything that does not match the entry
// heading pattern, so a hand-edited document degrades instead of failing.
package dayfile

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hvu/timeblock/internal/model"
	"github.com/hvu/timeblock/internal/timegrid"
)

// headingPattern matches an entry sub-heading. The title capture is
// greedy: a title containing a literal " | " is captured whole.
var headingPattern = regexp.MustCompile(`^##\s+(\d{1,2}):(\d{2})\s*-\s*(\d{1,2}):(\d{2})\s*\|\s?(.*)$`)

var (
	colorPattern = regexp.MustCompile(`^-\s*Color:\s*(\S+)\s*$`)
	idPattern    = regexp.MustCompile(`^-\s*ID:\s*(\S+)\s*$`)
	donePattern  = regexp.MustCompile(`^-\s*Done\s*$`)
)

// Marshal renders the entry list as the day's markdown document.
// Entries are emitted in chronological order regardless of input order.
func Marshal(entries []model.Entry, date time.Time) []byte {
	sorted := make([]model.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartMinutes < sorted[j].StartMinutes
	})

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n", date.Format("Monday, January 2, 2006"))

	for _, e := range sorted {
		fmt.Fprintf(&buf, "\n## %s - %s | %s\n",
			timegrid.FormatTime24(e.StartMinutes),
			timegrid.FormatTime24(e.EndMinutes),
			e.Title,
		)
		fmt.Fprintf(&buf, "- Color: %s\n", e.Color)
		fmt.Fprintf(&buf, "- ID: %s\n", e.ID)
		if e.Done {
			buf.WriteString("- Done\n")
		}
	}

	return buf.Bytes()
}

// Unmarshal scans a day document for entry headings and their metadata.
// Missing color metadata falls back to model.DefaultColor, a missing id
// synthesizes a fresh one, and an absent done marker means not done.
// A document with no entry headings yields an empty list.
func Unmarshal(data []byte) []model.Entry {
	lines := strings.Split(string(data), "\n")

	var entries []model.Entry
	var current *model.Entry

	for _, line := range lines {
		if m := headingPattern.FindStringSubmatch(line); m != nil {
			if current != nil {
				entries = append(entries, finalize(*current))
			}
			current = &model.Entry{
				StartMinutes: clockMinutes(m[1], m[2]),
				EndMinutes:   clockMinutes(m[3], m[4]),
				Title:        m[5],
			}
			continue
		}
		if current == nil {
			continue
		}
		if m := colorPattern.FindStringSubmatch(line); m != nil {
			current.Color = m[1]
		} else if m := idPattern.FindStringSubmatch(line); m != nil {
			current.ID = m[1]
		} else if donePattern.MatchString(line) {
			current.Done = true
		}
	}
	if current != nil {
		entries = append(entries, finalize(*current))
	}

	return entries
}

// finalize applies the defaults for metadata the document did not carry.
func finalize(e model.Entry) model.Entry {
	if e.Color == "" {
		e.Color = model.DefaultColor
	}
	if e.ID == "" {
		e.ID = model.NewID()
	}
	return e
}

func clockMinutes(hh, mm string) int {
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	return h*60 + m
}
