// Package overlap assigns side-by-side column positions to temporally
// overlapping entries so a day renders calendar-style.
package overlap

import (
	"sort"

	"github.com/hvu/timeblock/internal/model"
)

// Slot is the column assignment for one entry, valid only for the
// entry set it was computed from.
type Slot struct {
	// Column is the zero-based lane index within the overlap group.
	Column int

	// Columns is the total number of lanes opened by the group.
	Columns int
}

// Compute maps each entry id to its column assignment. Entries are
// sorted by start ascending (longer duration first on ties), swept into
// maximal transitively-overlapping groups, and greedily packed into the
// first column whose previous occupant has already ended. Back-to-back
// entries (end == next start) do not overlap and split groups.
func Compute(entries []model.Entry) map[string]Slot {
	result := make(map[string]Slot, len(entries))
	if len(entries) == 0 {
		return result
	}

	sorted := make([]model.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].StartMinutes != sorted[j].StartMinutes {
			return sorted[i].StartMinutes < sorted[j].StartMinutes
		}
		return sorted[i].Duration() > sorted[j].Duration()
	})

	var group []model.Entry
	groupEnd := sorted[0].EndMinutes

	flush := func() {
		packGroup(group, result)
		group = group[:0]
	}

	for _, e := range sorted {
		if len(group) > 0 && e.StartMinutes >= groupEnd {
			flush()
			groupEnd = e.EndMinutes
		}
		group = append(group, e)
		if e.EndMinutes > groupEnd {
			groupEnd = e.EndMinutes
		}
	}
	flush()

	return result
}

// packGroup runs the greedy column packer over one overlap group,
// recording assignments into result.
func packGroup(group []model.Entry, result map[string]Slot) {
	var columnEnds []int

	for _, e := range group {
		placed := -1
		for i, end := range columnEnds {
			if end <= e.StartMinutes {
				placed = i
				break
			}
		}
		if placed < 0 {
			columnEnds = append(columnEnds, e.EndMinutes)
			placed = len(columnEnds) - 1
		} else {
			columnEnds[placed] = e.EndMinutes
		}
		result[e.ID] = Slot{Column: placed}
	}

	for _, e := range group {
		s := result[e.ID]
		s.Columns = len(columnEnds)
		result[e.ID] = s
	}
}
