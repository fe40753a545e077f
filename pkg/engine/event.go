package engine

import "fmt"

// Kind identifies which control fired an event.
type Kind string

const (
	// Dropdown filters. Value "" means "All".
	SetCountry   Kind = "set_country"
	SetType      Kind = "set_type"
	SetChallenge Kind = "set_challenge"
	SetStatus    Kind = "set_status"

	// Chart-element clicks (click-to-select, click-again-to-deselect).
	ClickType      Kind = "click_type"
	ClickStatus    Kind = "click_status"
	ClickChallenge Kind = "click_challenge"
	ClickContinent Kind = "click_continent"

	ClearFilters Kind = "clear_filters"
	Back         Kind = "back"
	ToggleExpand Kind = "toggle_expand"
	Resize       Kind = "resize"
	PanZoom      Kind = "pan_zoom"

	OpenDetail  Kind = "open_detail"
	CloseDetail Kind = "close_detail"
	DetailIndex Kind = "detail_index"

	ToggleCompare Kind = "toggle_compare"
	RemoveCompare Kind = "remove_compare"
)

// Event is the descriptor of one discrete user interaction. Only the fields
// a kind needs are read.
type Event struct {
	Kind  Kind     `json:"kind"`
	Value string   `json:"value,omitempty"`
	Keys  []string `json:"keys,omitempty"`
	Index int      `json:"index,omitempty"`

	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	Transform *Transform `json:"transform,omitempty"`
}

// Apply is the transition function: it produces the next selection state
// for one event and nothing else. Rendering happens separately, by taking a
// fresh Snapshot after every Apply.
func (e *Engine) Apply(ev Event) error {
	s := e.state
	switch ev.Kind {
	case SetCountry:
		s.Filters.Country = ev.Value
		if ev.Value != "" {
			// An explicit country overrides continent drill-down.
			s.SelectedContinent = ""
		}
	case SetType:
		s.Filters.TypeLabel = ev.Value
		if ev.Value != "" {
			s.SelectedType = ""
		}
	case SetChallenge:
		s.Filters.ChallengeLabel = ev.Value
		if ev.Value != "" {
			s.SelectedChallenge = ""
		}
	case SetStatus:
		s.Filters.Status = ev.Value
		s.SelectedStatus = ""

	case ClickType:
		s.SelectedType = toggle(s.SelectedType, ev.Value)
		s.Filters.TypeLabel = ""
	case ClickStatus:
		s.SelectedStatus = toggle(s.SelectedStatus, ev.Value)
		// The status dropdown mirrors the donut selection so the two
		// channels never visibly disagree.
		s.Filters.Status = s.SelectedStatus
	case ClickChallenge:
		s.SelectedChallenge = toggle(s.SelectedChallenge, ev.Value)
		s.Filters.ChallengeLabel = ""
	case ClickContinent:
		s.SelectedContinent = ev.Value
		s.Filters.Country = ""

	case ClearFilters:
		s.clearSelections()
	case Back:
		s.SelectedContinent = ""
		s.Filters.Country = ""
		s.MapTransform = Identity
	case ToggleExpand:
		s.MapExpanded = !s.MapExpanded
	case Resize:
		if ev.Width > 0 && ev.Height > 0 {
			s.Width = ev.Width
			s.Height = ev.Height
		}
	case PanZoom:
		if ev.Transform != nil && ev.Transform.K > 0 {
			s.MapTransform = *ev.Transform
		}

	case OpenDetail:
		rows := e.rowsByKeys(ev.Keys)
		if len(rows) > 0 {
			s.Overlay = Overlay{Open: true, Rows: rows}
		}
	case CloseDetail:
		s.Overlay = Overlay{}
	case DetailIndex:
		if s.Overlay.Open && len(s.Overlay.Rows) > 0 {
			s.Overlay.Index = clampIndex(ev.Index, len(s.Overlay.Rows))
		}

	case ToggleCompare:
		if s.InCompare(ev.Value) {
			s.RemoveFromCompare(ev.Value)
		} else if row := e.rowByKey(ev.Value); row != nil {
			s.AddToCompare(row)
		}
	case RemoveCompare:
		s.RemoveFromCompare(ev.Value)

	default:
		return fmt.Errorf("unknown event kind %q", ev.Kind)
	}
	return nil
}

func toggle(current, clicked string) string {
	if current == clicked {
		return ""
	}
	return clicked
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
