// Package filter maps a record set and a filter state to the matching records.
package filter

import "github.com/okian/crossdash/internal/domain/model"

// Apply returns the records matching state, in input order.
// The result never shares its backing array with records.
func Apply(records []model.Record, state model.FilterState) []model.Record {
	out := make([]model.Record, 0, len(records))
	for _, r := range records {
		if Match(r, state) {
			out = append(out, r)
		}
	}
	return out
}

// Match reports whether r passes every active field of state.
func Match(r model.Record, state model.FilterState) bool {
	if state.Country != "" && r.UID != state.Country {
		return false
	}
	if state.SelectedSex != "" && r.Sex != state.SelectedSex {
		return false
	}
	return true
}
