package engine

import (
	"github.com/greenlens/greenlens/pkg/catalog"
	"github.com/greenlens/greenlens/pkg/dataset"
	"github.com/greenlens/greenlens/pkg/geoindex"
)

// Options lets a view suppress individual constraint dimensions, e.g. so an
// axis scale stays stable under a same-axis selection.
type Options struct {
	IgnoreType      bool
	IgnoreChallenge bool
	IgnoreStatus    bool
}

// FilteredRows applies the current state's constraints conjunctively and
// returns the surviving rows in input order. With no active constraint the
// input slice is returned as-is. Input rows are never mutated.
//
// The dropdown value and the click selection of the same dimension are
// applied independently: the interaction layer keeps them in sync, but the
// engine does not assume it.
func FilteredRows(rows []*dataset.Row, s *State, geo *geoindex.Index, opt Options) []*dataset.Row {
	type constraint func(*dataset.Row) bool
	var active []constraint

	if s.Filters.Country != "" {
		country := s.Filters.Country
		active = append(active, func(r *dataset.Row) bool { return r.Country == country })
	}
	if s.Filters.Status != "" && !opt.IgnoreStatus {
		status := s.Filters.Status
		active = append(active, func(r *dataset.Row) bool { return r.Status == status })
	}
	if s.Filters.TypeLabel != "" && !opt.IgnoreType {
		if e, ok := catalog.TypeByLabel(s.Filters.TypeLabel); ok {
			active = append(active, flagConstraint(e))
		}
	}
	if s.Filters.ChallengeLabel != "" && !opt.IgnoreChallenge {
		if e, ok := catalog.ChallengeByLabel(s.Filters.ChallengeLabel); ok {
			active = append(active, flagConstraint(e))
		}
	}
	if s.SelectedType != "" && !opt.IgnoreType {
		if e, ok := catalog.TypeByLabel(s.SelectedType); ok {
			active = append(active, flagConstraint(e))
		}
	}
	if s.SelectedStatus != "" && !opt.IgnoreStatus {
		status := s.SelectedStatus
		active = append(active, func(r *dataset.Row) bool { return r.Status == status })
	}
	if s.SelectedChallenge != "" && !opt.IgnoreChallenge {
		if e, ok := catalog.ChallengeByLabel(s.SelectedChallenge); ok {
			active = append(active, flagConstraint(e))
		}
	}
	if s.SelectedContinent != "" {
		continent := s.SelectedContinent
		// Rows whose country has no continent mapping are excluded here:
		// ContinentOf returns "" for them and "" never equals a continent.
		active = append(active, func(r *dataset.Row) bool {
			return geo != nil && geo.ContinentOf(r.Country) == continent
		})
	}

	if len(active) == 0 {
		return rows
	}

	filtered := make([]*dataset.Row, 0, len(rows))
rowLoop:
	for _, r := range rows {
		for _, keep := range active {
			if !keep(r) {
				continue rowLoop
			}
		}
		filtered = append(filtered, r)
	}
	return filtered
}

func flagConstraint(e catalog.Entry) func(*dataset.Row) bool {
	return func(r *dataset.Row) bool { return r.Flag(e.Column) }
}
