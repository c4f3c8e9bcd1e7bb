// Package dayindex derives the set of calendar dates that have at least
// one appointment.
package dayindex

import (
	"sort"

	"mapache/internal/models"
)

// Index is a set of YYYY-MM-DD keys. It is rebuilt from scratch on every
// appointment reload and never edited in place.
type Index map[string]struct{}

func Build(appointments []models.Appointment) Index {
	idx := make(Index, len(appointments))
	for _, a := range appointments {
		idx[a.Date] = struct{}{}
	}
	return idx
}

func (idx Index) Has(date string) bool {
	_, ok := idx[date]
	return ok
}

func (idx Index) Len() int {
	return len(idx)
}

// Dates returns the indexed dates in ascending order.
func (idx Index) Dates() []string {
	out := make([]string, 0, len(idx))
	for d := range idx {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Marks projects the index to the map shape calendar renderers take.
func (idx Index) Marks() map[string]bool {
	out := make(map[string]bool, len(idx))
	for d := range idx {
		out[d] = true
	}
	return out
}
