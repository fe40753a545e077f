// Package dataset models one project/intervention record and loads the
// tabular project dataset.
package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/greenlens/greenlens/pkg/catalog"
)

// Row is a single project record. Rows are immutable after load except for
// the one-time coordinate repair pass, which may overwrite Lat/Lon.
type Row struct {
	Name    string
	Country string
	City    string
	Status  string
	Cost    string
	Source  string

	Lat, Lon  float64
	HasCoords bool

	// raw keeps the full header-keyed record so catalog flag columns can be
	// looked up without modeling every column.
	raw map[string]string
}

// Norm is the shared name normalization: trim, lowercase, collapse internal
// whitespace, unify apostrophe variants.
func Norm(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), " ")
	s = strings.ReplaceAll(s, "’", "'")
	s = strings.ReplaceAll(s, "´", "'")
	s = strings.ReplaceAll(s, "`", "'")
	return s
}

// IsYes reports whether a loosely encoded boolean cell is truthy.
func IsYes(v string) bool {
	switch Norm(v) {
	case "yes", "y", "true", "1":
		return true
	}
	return false
}

// Flag reports whether the boolean flag in the given column is set.
func (r *Row) Flag(column string) bool {
	return IsYes(r.raw[column])
}

// Field returns the raw cell under a column header.
func (r *Row) Field(column string) string {
	return r.raw[column]
}

// SetCoords overwrites the row's coordinates. Only the coordinate repair
// pass is supposed to call this.
func (r *Row) SetCoords(lat, lon float64) {
	r.Lat = lat
	r.Lon = lon
	r.HasCoords = true
}

// IdentityKey derives the deduplication identity used by the comparison
// basket: two rows identical on name, city, country, status and coordinates
// are the same entity.
func (r *Row) IdentityKey() string {
	lat, lon := "", ""
	if r.HasCoords {
		lat = strconv.FormatFloat(r.Lat, 'f', -1, 64)
		lon = strconv.FormatFloat(r.Lon, 'f', -1, 64)
	}
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s",
		Norm(r.Name), Norm(r.City), Norm(r.Country), Norm(r.Status), lat, lon)
}

// TypeLabels returns the Type Catalog labels whose flag is set, in catalog
// order.
func (r *Row) TypeLabels() []string {
	var labels []string
	for _, e := range catalog.Types {
		if r.Flag(e.Column) {
			labels = append(labels, e.Label)
		}
	}
	return labels
}

// ChallengeLabels returns the Challenge Catalog labels whose flag is set, in
// catalog order.
func (r *Row) ChallengeLabels() []string {
	var labels []string
	for _, e := range catalog.Challenges {
		if r.Flag(e.Column) {
			labels = append(labels, e.Label)
		}
	}
	return labels
}

// FromRecord builds a Row from a header-keyed record. Missing or
// non-numeric coordinates leave HasCoords false; that only excludes the row
// from point rendering, never from the dataset.
func FromRecord(rec map[string]string) *Row {
	r := &Row{
		Country: strings.TrimSpace(rec[catalog.ColCountry]),
		City:    strings.TrimSpace(rec[catalog.ColCity]),
		Status:  strings.TrimSpace(rec[catalog.ColStatus]),
		Cost:    strings.TrimSpace(rec[catalog.ColCost]),
		Source:  strings.TrimSpace(rec[catalog.ColSource]),
		raw:     rec,
	}
	for _, col := range catalog.NameColumns {
		if v := strings.TrimSpace(rec[col]); v != "" {
			r.Name = v
			break
		}
	}
	lat, latErr := strconv.ParseFloat(strings.TrimSpace(rec[catalog.ColLat]), 64)
	lon, lonErr := strconv.ParseFloat(strings.TrimSpace(rec[catalog.ColLon]), 64)
	if latErr == nil && lonErr == nil && isFinite(lat) && isFinite(lon) {
		r.Lat = lat
		r.Lon = lon
		r.HasCoords = true
	}
	return r
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Record exposes the raw header-keyed record, for snapshot storage.
func (r *Row) Record() map[string]string {
	return r.raw
}
