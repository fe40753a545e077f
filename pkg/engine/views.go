package engine

import (
	"sort"

	"github.com/greenlens/greenlens/pkg/catalog"
	"github.com/greenlens/greenlens/pkg/dataset"
	"github.com/greenlens/greenlens/pkg/geoindex"
)

// Snapshot is the full payload every view re-derives from on every state
// mutation. There is no incremental patching: the whole thing is recomputed
// each time, which keeps every view trivially consistent with the state.
type Snapshot struct {
	Filters           Filters `json:"filters"`
	SelectedType      string  `json:"selectedType"`
	SelectedStatus    string  `json:"selectedStatus"`
	SelectedChallenge string  `json:"selectedChallenge"`
	SelectedContinent string  `json:"selectedContinent"`
	Drill             Drill   `json:"drill"`
	MapExpanded       bool    `json:"mapExpanded"`
	FilteredCount     int     `json:"filteredCount"`

	Map     MapView     `json:"map"`
	Bar     BarView     `json:"bar"`
	Donut   DonutView   `json:"donut"`
	Sankey  SankeyView  `json:"sankey"`
	Options OptionsView `json:"options"`
	Compare []Fact      `json:"compare"`
	Overlay OverlayView `json:"overlay"`
}

// MapPoint is one dot on the map; rows sharing an exact location are
// grouped so a click can open the detail overlay over all of them.
type MapPoint struct {
	Lon   float64  `json:"lon"`
	Lat   float64  `json:"lat"`
	X     float64  `json:"x"`
	Y     float64  `json:"y"`
	Count int      `json:"count"`
	Keys  []string `json:"keys"`
}

// Bubble is a continent-level aggregate shown at world level.
type Bubble struct {
	Continent string  `json:"continent"`
	Count     int     `json:"count"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

type MapView struct {
	Points       []MapPoint `json:"points"`
	Bubbles      []Bubble   `json:"bubbles"`
	Transform    Transform  `json:"transform"`
	TransitionMS int        `json:"transitionMs"`
	ShowBack     bool       `json:"showBack"`
	ShowPoints   bool       `json:"showPoints"`
	Empty        bool       `json:"empty"`
}

// TypeCount is one bar of the type chart.
type TypeCount struct {
	Label    string `json:"label"`
	Value    int    `json:"value"`
	Selected bool   `json:"selected"`
}

// BarView carries the per-type counts plus a scale reference computed with
// the type constraint suppressed, so the axis range holds still while a
// type selection is active.
type BarView struct {
	Counts         []TypeCount `json:"counts"`
	ScaleReference []TypeCount `json:"scaleReference"`
	Empty          bool        `json:"empty"`
}

type DonutSlice struct {
	Status   string `json:"status"`
	Value    int    `json:"value"`
	Color    string `json:"color"`
	Selected bool   `json:"selected"`
}

type DonutView struct {
	Slices      []DonutSlice `json:"slices"`
	CenterLabel string       `json:"centerLabel"`
	Empty       bool         `json:"empty"`
}

type SankeyNode struct {
	Name  string `json:"name"`
	Group string `json:"group"` // "challenge" or "type"
}

type SankeyLink struct {
	Source    int    `json:"source"`
	Target    int    `json:"target"`
	Value     int    `json:"value"`
	Challenge string `json:"challenge"`
}

// SankeyView is the bipartite challenge→type flow. Node order is fixed to
// catalog order no matter what the data says.
type SankeyView struct {
	Nodes []SankeyNode `json:"nodes"`
	Links []SankeyLink `json:"links"`
	Empty bool         `json:"empty"`
}

// OptionsView feeds the dropdowns.
type OptionsView struct {
	Countries  []string `json:"countries"`
	Types      []string `json:"types"`
	Challenges []string `json:"challenges"`
	Statuses   []string `json:"statuses"`
}

type OverlayView struct {
	Open  bool   `json:"open"`
	Index int    `json:"index"`
	Facts []Fact `json:"facts"`
}

// Snapshot re-derives every view from the current state. It also runs the
// drill-down camera fit, so the returned transform (and the stored one)
// reflect the current geographic scope.
func (e *Engine) Snapshot() Snapshot {
	s := e.state
	filtered := FilteredRows(e.rows, s, e.geo, Options{})

	snap := Snapshot{
		Filters:           s.Filters,
		SelectedType:      s.SelectedType,
		SelectedStatus:    s.SelectedStatus,
		SelectedChallenge: s.SelectedChallenge,
		SelectedContinent: s.SelectedContinent,
		Drill:             s.Drill(),
		MapExpanded:       s.MapExpanded,
		FilteredCount:     len(filtered),
	}

	snap.Map = e.mapView(filtered)
	snap.Bar = e.barView(filtered)
	snap.Donut = e.donutView()
	snap.Sankey = e.sankeyView(filtered)
	snap.Options = e.optionsView()
	snap.Overlay = e.overlayView()
	for _, r := range s.Compare {
		snap.Compare = append(snap.Compare, BuildFact(r))
	}
	return snap
}

func (e *Engine) projection() geoindex.Projection {
	s := e.state
	return geoindex.FitExtent(e.geo.Features(),
		topInset, topInset, s.Width-topInset, s.Height-bottomMargin)
}

func (e *Engine) mapView(filtered []*dataset.Row) MapView {
	s := e.state
	proj := e.projection()
	view := MapView{Empty: len(filtered) == 0}

	// Camera fit for the current geographic scope.
	switch drill := s.Drill(); drill.Level {
	case LevelCountry:
		if f := e.geo.FeatureOf(drill.Name); f != nil {
			if b, ok := proj.FeatureBounds([]*geoindex.Feature{f}); ok {
				s.MapTransform = fitTransform(b, s.Width, s.Height, boundaryPadding, boundaryZoomFactor)
				view.TransitionMS = fitTransitionMS
			}
		}
	case LevelContinent:
		if t, ok := e.continentFit(proj, drill.Name, filtered); ok {
			s.MapTransform = t
			view.TransitionMS = fitTransitionMS
		}
	default:
		if s.MapTransform.Moved() {
			s.MapTransform = Identity
			view.TransitionMS = resetTransitionMS
		}
	}
	view.Transform = s.MapTransform
	view.ShowBack = s.ShowBack()

	// Dots only appear once the user narrows scope (or expands the map);
	// the world default shows continent bubbles instead.
	view.ShowPoints = s.Filters.Country != "" || s.SelectedContinent != "" || s.MapExpanded
	if view.ShowPoints {
		view.Points = e.mapPoints(proj, filtered)
	}
	if s.Drill().Level == LevelWorld {
		view.Bubbles = e.continentBubbles(proj, filtered)
	}
	return view
}

// continentFit frames the continent's own project points when there are
// any (loose preset, so border projects stay in frame) and falls back to
// the continent's polygon bounds.
func (e *Engine) continentFit(proj geoindex.Projection, continent string, filtered []*dataset.Row) (Transform, bool) {
	s := e.state
	var pts []geoindex.Point
	for _, r := range filtered {
		if r.HasCoords && e.geo.ContinentOf(r.Country) == continent {
			pts = append(pts, geoindex.Point{Lon: r.Lon, Lat: r.Lat})
		}
	}
	if b, ok := proj.PointBounds(pts); ok {
		return fitTransform(b, s.Width, s.Height, pointPadding, pointZoomFactor), true
	}
	if b, ok := proj.FeatureBounds(e.geo.ContinentFeatures(continent)); ok {
		return fitTransform(b, s.Width, s.Height, boundaryPadding, boundaryZoomFactor), true
	}
	return Transform{}, false
}

func (e *Engine) mapPoints(proj geoindex.Projection, filtered []*dataset.Row) []MapPoint {
	s := e.state

	// Continent drill-down hides geographically disjoint territories via
	// the continent's static bbox; a country filter shows everything.
	var bbox *catalog.BBox
	if s.Filters.Country == "" && s.SelectedContinent != "" {
		if b, ok := catalog.ContinentBBox(s.SelectedContinent); ok {
			bbox = &b
		}
	}

	groups := make(map[[2]float64]*MapPoint)
	var order []*MapPoint
	for _, r := range filtered {
		if !r.HasCoords {
			continue
		}
		if bbox != nil && !bbox.Contains(r.Lon, r.Lat, continentBBoxPad) {
			continue
		}
		loc := [2]float64{r.Lat, r.Lon}
		g, ok := groups[loc]
		if !ok {
			x, y := proj.Project(r.Lon, r.Lat)
			g = &MapPoint{Lon: r.Lon, Lat: r.Lat, X: x, Y: y}
			groups[loc] = g
			order = append(order, g)
		}
		g.Count++
		g.Keys = append(g.Keys, r.IdentityKey())
	}

	points := make([]MapPoint, 0, len(order))
	for _, g := range order {
		points = append(points, *g)
	}
	return points
}

func (e *Engine) continentBubbles(proj geoindex.Projection, filtered []*dataset.Row) []Bubble {
	counts := make(map[string]int)
	for _, r := range filtered {
		if cont := e.geo.ContinentOf(r.Country); cont != "" {
			counts[cont]++
		}
	}
	var bubbles []Bubble
	for cont, count := range counts {
		anchor, ok := catalog.ContinentAnchor(cont)
		if !ok {
			continue
		}
		x, y := proj.Project(anchor.Lon, anchor.Lat)
		bubbles = append(bubbles, Bubble{Continent: cont, Count: count, X: x, Y: y})
	}
	sort.Slice(bubbles, func(i, j int) bool {
		if bubbles[i].Count != bubbles[j].Count {
			return bubbles[i].Count > bubbles[j].Count
		}
		return bubbles[i].Continent < bubbles[j].Continent
	})
	return bubbles
}

func (e *Engine) barView(filtered []*dataset.Row) BarView {
	s := e.state
	scaleRows := FilteredRows(e.rows, s, e.geo, Options{IgnoreType: true})

	view := BarView{
		Counts:         typeCounts(filtered, s.SelectedType),
		ScaleReference: typeCounts(scaleRows, s.SelectedType),
	}
	view.Empty = true
	for _, c := range view.Counts {
		if c.Value > 0 {
			view.Empty = false
			break
		}
	}
	return view
}

// typeCounts always returns one entry per catalog type, in catalog order,
// zeros included: the axis ordering never depends on the data.
func typeCounts(rows []*dataset.Row, selected string) []TypeCount {
	counts := make([]TypeCount, len(catalog.Types))
	for i, entry := range catalog.Types {
		c := TypeCount{Label: entry.Label, Selected: entry.Label == selected}
		for _, r := range rows {
			if r.Flag(entry.Column) {
				c.Value++
			}
		}
		counts[i] = c
	}
	return counts
}

func (e *Engine) donutView() DonutView {
	s := e.state
	// The donut visualizes the status dimension, so the status constraint
	// is suppressed: selecting a slice highlights it without collapsing
	// the rest of the ring.
	rows := FilteredRows(e.rows, s, e.geo, Options{IgnoreStatus: true})

	counts := make(map[string]int)
	for _, r := range rows {
		status := r.Status
		if status == "" {
			status = "Unknown"
		}
		counts[status]++
	}

	view := DonutView{CenterLabel: "All projects", Empty: len(counts) == 0}
	if s.SelectedStatus != "" {
		view.CenterLabel = s.SelectedStatus
	}
	for status, value := range counts {
		view.Slices = append(view.Slices, DonutSlice{
			Status:   status,
			Value:    value,
			Color:    catalog.ColorForStatus(status),
			Selected: status == s.SelectedStatus,
		})
	}
	sort.Slice(view.Slices, func(i, j int) bool {
		if view.Slices[i].Value != view.Slices[j].Value {
			return view.Slices[i].Value > view.Slices[j].Value
		}
		return view.Slices[i].Status < view.Slices[j].Status
	})
	return view
}

func (e *Engine) sankeyView(filtered []*dataset.Row) SankeyView {
	var view SankeyView
	for _, ch := range catalog.Challenges {
		view.Nodes = append(view.Nodes, SankeyNode{Name: ch.Label, Group: "challenge"})
	}
	for _, t := range catalog.Types {
		view.Nodes = append(view.Nodes, SankeyNode{Name: t.Label, Group: "type"})
	}

	for ci, ch := range catalog.Challenges {
		for ti, t := range catalog.Types {
			value := 0
			for _, r := range filtered {
				if r.Flag(ch.Column) && r.Flag(t.Column) {
					value++
				}
			}
			if value > 0 {
				view.Links = append(view.Links, SankeyLink{
					Source:    ci,
					Target:    len(catalog.Challenges) + ti,
					Value:     value,
					Challenge: ch.Label,
				})
			}
		}
	}
	view.Empty = len(view.Links) == 0
	return view
}

func (e *Engine) optionsView() OptionsView {
	countrySet := make(map[string]bool)
	statusSet := make(map[string]bool)
	for _, r := range e.rows {
		if r.Country != "" {
			countrySet[r.Country] = true
		}
		if r.Status != "" {
			statusSet[r.Status] = true
		}
	}

	view := OptionsView{
		Countries: sortedKeys(countrySet),
		Statuses:  sortedKeys(statusSet),
	}
	for _, t := range catalog.Types {
		view.Types = append(view.Types, t.Label)
	}
	for _, ch := range catalog.Challenges {
		view.Challenges = append(view.Challenges, ch.Label)
	}
	return view
}

func (e *Engine) overlayView() OverlayView {
	o := e.state.Overlay
	view := OverlayView{Open: o.Open, Index: o.Index}
	if o.Open {
		for _, r := range o.Rows {
			view.Facts = append(view.Facts, BuildFact(r))
		}
	}
	return view
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
