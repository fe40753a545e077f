package engine

import (
	"github.com/greenlens/greenlens/pkg/dataset"
	"github.com/greenlens/greenlens/pkg/geoindex"
)

// Engine owns one dashboard session: the loaded dataset, the geography
// index and the single shared selection state. It is not safe for
// concurrent use; callers serialize access (state mutation is an
// event-at-a-time affair by design).
type Engine struct {
	rows  []*dataset.Row
	byKey map[string][]*dataset.Row
	geo   *geoindex.Index
	state *State
}

// New builds a session over a loaded (and repaired) dataset.
func New(rows []*dataset.Row, geo *geoindex.Index, width, height float64) *Engine {
	byKey := make(map[string][]*dataset.Row, len(rows))
	for _, r := range rows {
		key := r.IdentityKey()
		byKey[key] = append(byKey[key], r)
	}
	return &Engine{
		rows:  rows,
		byKey: byKey,
		geo:   geo,
		state: NewState(width, height),
	}
}

// State exposes the live selection state, mainly for tests.
func (e *Engine) State() *State {
	return e.state
}

// Rows returns the full loaded row set.
func (e *Engine) Rows() []*dataset.Row {
	return e.rows
}

// Reset replaces the selection state with a fresh initial one, dropping the
// basket and overlay too.
func (e *Engine) Reset() {
	e.state = NewState(e.state.Width, e.state.Height)
}

// ReplaceRows swaps in a freshly loaded dataset, keeping the selection
// state. Used by the background reload.
func (e *Engine) ReplaceRows(rows []*dataset.Row) {
	byKey := make(map[string][]*dataset.Row, len(rows))
	for _, r := range rows {
		key := r.IdentityKey()
		byKey[key] = append(byKey[key], r)
	}
	e.rows = rows
	e.byKey = byKey

	// Basket and overlay entries may reference rows that no longer exist;
	// re-resolve them by identity and drop the ones that vanished.
	var kept []*dataset.Row
	for _, r := range e.state.Compare {
		if fresh := e.rowByKey(r.IdentityKey()); fresh != nil {
			kept = append(kept, fresh)
		}
	}
	e.state.Compare = kept
	if e.state.Overlay.Open {
		rows := e.rowsByKeys(keysOf(e.state.Overlay.Rows))
		if len(rows) == 0 {
			e.state.Overlay = Overlay{}
		} else {
			e.state.Overlay.Rows = rows
			e.state.Overlay.Index = clampIndex(e.state.Overlay.Index, len(rows))
		}
	}
}

func (e *Engine) rowByKey(key string) *dataset.Row {
	if rows := e.byKey[key]; len(rows) > 0 {
		return rows[0]
	}
	return nil
}

func (e *Engine) rowsByKeys(keys []string) []*dataset.Row {
	var out []*dataset.Row
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e.byKey[key]...)
	}
	return out
}

func keysOf(rows []*dataset.Row) []string {
	keys := make([]string, 0, len(rows))
	for _, r := range rows {
		keys = append(keys, r.IdentityKey())
	}
	return keys
}
