// Package engine is the coordinated-views core: the single shared selection
// state, the filter engine every view queries, the map drill-down and camera
// controller, and the comparison basket. It has no rendering dependencies;
// views are derived as plain data and shipped to whatever draws them.
package engine

import "github.com/greenlens/greenlens/pkg/dataset"

// Filters holds the explicit dropdown choices. An empty string means no
// constraint on that dimension.
type Filters struct {
	Country        string `json:"country"`
	TypeLabel      string `json:"typeLabel"`
	ChallengeLabel string `json:"challengeLabel"`
	Status         string `json:"status"`
}

// Transform is the map camera: a translation plus a uniform scale.
type Transform struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

// Identity is the pristine world framing.
var Identity = Transform{K: 1}

// Moved reports whether the camera has left its pristine framing beyond the
// epsilon the back affordance cares about.
func (t Transform) Moved() bool {
	return t.X > 0.5 || t.X < -0.5 || t.Y > 0.5 || t.Y < -0.5 || t.K > 1.01
}

// Drill levels.
const (
	LevelWorld     = "world"
	LevelContinent = "continent"
	LevelCountry   = "country"
)

// Drill is the tagged drill-down position derived from the selection state.
type Drill struct {
	Level string `json:"level"`
	Name  string `json:"name,omitempty"`
}

// Overlay is the transient detail-popup state.
type Overlay struct {
	Open  bool
	Rows  []*dataset.Row
	Index int
}

// State is the single shared selection state. One instance exists per
// session; it is created at startup with everything empty and mutated only
// by Engine.Apply.
type State struct {
	Filters Filters

	// Click-driven cross-view selections, distinct from the dropdown
	// filters but overlapping in effect.
	SelectedType      string
	SelectedStatus    string
	SelectedChallenge string
	SelectedContinent string

	MapTransform Transform
	MapExpanded  bool

	// Map panel size in pixels, updated on resize events.
	Width, Height float64

	Compare []*dataset.Row
	Overlay Overlay
}

// NewState returns the initial state for a panel of the given size.
func NewState(width, height float64) *State {
	return &State{
		MapTransform: Identity,
		Width:        width,
		Height:       height,
	}
}

// Drill derives the tagged drill position. A chosen country supersedes a
// chosen continent; the transition rules keep the two from both being set.
func (s *State) Drill() Drill {
	switch {
	case s.Filters.Country != "":
		return Drill{Level: LevelCountry, Name: s.Filters.Country}
	case s.SelectedContinent != "":
		return Drill{Level: LevelContinent, Name: s.SelectedContinent}
	default:
		return Drill{Level: LevelWorld}
	}
}

// ShowBack reports whether the back affordance should be visible: any
// drill-down active, or the camera away from its pristine framing.
func (s *State) ShowBack() bool {
	return s.SelectedContinent != "" || s.Filters.Country != "" || s.MapTransform.Moved()
}

// clearSelections resets every filter and selection but leaves the basket
// and overlay alone.
func (s *State) clearSelections() {
	s.Filters = Filters{}
	s.SelectedType = ""
	s.SelectedStatus = ""
	s.SelectedChallenge = ""
	s.SelectedContinent = ""
	s.MapTransform = Identity
}
