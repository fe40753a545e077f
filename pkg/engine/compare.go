package engine

import (
	"strings"

	"github.com/greenlens/greenlens/pkg/dataset"
)

// CompareCapacity bounds the comparison basket.
const CompareCapacity = 3

// Fact is the display-ready projection of a row, used identically by the
// primary detail view and each comparison card.
type Fact struct {
	Key        string   `json:"key"`
	Name       string   `json:"name"`
	Location   string   `json:"location"`
	Status     string   `json:"status"`
	Types      []string `json:"types"`
	Challenges []string `json:"challenges"`
	Cost       string   `json:"cost,omitempty"`
	Source     string   `json:"source,omitempty"`
}

// BuildFact derives a Fact from a row. The name falls back through city and
// country so a card is never blank.
func BuildFact(r *dataset.Row) Fact {
	name := r.Name
	if name == "" {
		name = firstNonEmpty(r.City, r.Country, "Unnamed project")
	}
	status := r.Status
	if status == "" {
		status = "Unknown"
	}
	return Fact{
		Key:        r.IdentityKey(),
		Name:       name,
		Location:   locationLine(r),
		Status:     status,
		Types:      r.TypeLabels(),
		Challenges: r.ChallengeLabels(),
		Cost:       r.Cost,
		Source:     r.Source,
	}
}

func locationLine(r *dataset.Row) string {
	var parts []string
	if r.City != "" {
		parts = append(parts, r.City)
	}
	if r.Country != "" {
		parts = append(parts, r.Country)
	}
	return strings.Join(parts, ", ")
}

func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}

// AddToCompare appends a row to the basket. A duplicate identity or a full
// basket makes this a silent no-op, by design.
func (s *State) AddToCompare(r *dataset.Row) bool {
	if len(s.Compare) >= CompareCapacity {
		return false
	}
	key := r.IdentityKey()
	for _, existing := range s.Compare {
		if existing.IdentityKey() == key {
			return false
		}
	}
	s.Compare = append(s.Compare, r)
	return true
}

// RemoveFromCompare drops any entry with the given identity key; absent
// keys are a no-op.
func (s *State) RemoveFromCompare(key string) bool {
	for i, r := range s.Compare {
		if r.IdentityKey() == key {
			s.Compare = append(s.Compare[:i], s.Compare[i+1:]...)
			return true
		}
	}
	return false
}

// InCompare reports whether an identity key is already in the basket.
func (s *State) InCompare(key string) bool {
	for _, r := range s.Compare {
		if r.IdentityKey() == key {
			return true
		}
	}
	return false
}
