// Package catalog holds the static reference data for the dashboard: the
// type and challenge catalogs, the status color table, continent bounding
// boxes and bubble anchors, and the default country aliases. Catalog order
// is significant and must never depend on row data.
package catalog

// Column names of the project dataset.
const (
	ColCountry = "Country"
	ColCity    = "City"
	ColStatus  = "Present stage of the intervention"
	ColLat     = "lat"
	ColLon     = "lon"
	ColCost    = "Total cost"
	ColSource  = "Source"
)

// NameColumns are tried in order when resolving a project's display name.
var NameColumns = []string{
	"Name of the intervention",
	"Title",
	"Name",
	"Project name",
}

// Entry maps a human-readable label to the boolean-flag column behind it.
type Entry struct {
	Label  string
	Column string
}

const typeColumnPrefix = "Type of nature-based solution/Ecological domain : "

// Types is the Type Catalog. Order is fixed and drives axis/node ordering in
// every view regardless of filtering.
var Types = []Entry{
	{"Blue infrastructure", typeColumnPrefix + "Blue infrastructure"},
	{"Community gardens and allotments", typeColumnPrefix + "Community gardens and allotments"},
	{"Green areas for water management", typeColumnPrefix + "Green areas for water management"},
	{"Grey infrastructure featuring greens", typeColumnPrefix + "Grey infrastructure featuring greens"},
	{"Intentionally unmanaged areas", typeColumnPrefix + "Intentionally unmanaged areas"},
	{"Nature in buildings (indoor)", typeColumnPrefix + "Nature in buildings (indoor)"},
	{"Nature on buildings (external)", typeColumnPrefix + "Nature on buildings (external)"},
	{"Parks and urban forests", typeColumnPrefix + "Parks and urban forests"},
}

const challengeColumnPrefix = "Sustainability challenge(s) addressed : "

// Challenges is the Challenge Catalog.
var Challenges = []Entry{
	{"Climate action", challengeColumnPrefix + "Climate action for adaptation, resilience and mitigation"},
	{"Biodiversity", challengeColumnPrefix + "Green space, habitats and biodiversity"},
	{"Water management", challengeColumnPrefix + "Water management"},
	{"Health & well-being", challengeColumnPrefix + "Health and well-being"},
	{"Urban regeneration", challengeColumnPrefix + "Regeneration, land-use and urban development"},
	{"Environmental quality", challengeColumnPrefix + "Environmental quality"},
}

var typeByLabel map[string]Entry
var challengeByLabel map[string]Entry

func init() {
	typeByLabel = make(map[string]Entry, len(Types))
	for _, e := range Types {
		typeByLabel[e.Label] = e
	}
	challengeByLabel = make(map[string]Entry, len(Challenges))
	for _, e := range Challenges {
		challengeByLabel[e.Label] = e
	}
}

// TypeByLabel returns the Type Catalog entry for a label.
func TypeByLabel(label string) (Entry, bool) {
	e, ok := typeByLabel[label]
	return e, ok
}

// ChallengeByLabel returns the Challenge Catalog entry for a label.
func ChallengeByLabel(label string) (Entry, bool) {
	e, ok := challengeByLabel[label]
	return e, ok
}

// statusColors is the static donut palette. Unknown statuses fall back to
// the neutral slate used by ColorForStatus.
var statusColors = map[string]string{
	"Completed":                           "#1f77b4",
	"Ongoing":                             "#f1c40f",
	"In planning stage":                   "#2ecc71",
	"In piloting stage":                   "#e74c3c",
	"Planned, but cancelled":              "#9b59b6",
	"Completed and archived or cancelled": "#7f8c8d",
	"Envisioned":                          "#ff7f0e",
	"Other":                               "#95a5a6",
	"Unknown":                             "#bdc3c7",
}

func ColorForStatus(status string) string {
	if c, ok := statusColors[status]; ok {
		return c
	}
	return "#94a3b8"
}

// BBox is a loose lon/lat bounding box.
type BBox struct {
	LonMin, LonMax float64
	LatMin, LatMax float64
}

// Contains reports whether (lon, lat) is inside the box, padded on every
// side by pad degrees.
func (b BBox) Contains(lon, lat, pad float64) bool {
	return lon >= b.LonMin-pad && lon <= b.LonMax+pad &&
		lat >= b.LatMin-pad && lat <= b.LatMax+pad
}

// continentBoxes are deliberately loose: their job is to hide overseas
// territories (e.g. French Guiana under "Europe"), not to be precise.
var continentBoxes = map[string]BBox{
	"Europe":        {LonMin: -25, LonMax: 45, LatMin: 34, LatMax: 72},
	"North America": {LonMin: -170, LonMax: -50, LatMin: 5, LatMax: 83},
	"South America": {LonMin: -95, LonMax: -30, LatMin: -60, LatMax: 15},
	"Africa":        {LonMin: -25, LonMax: 60, LatMin: -40, LatMax: 38},
	"Asia":          {LonMin: 25, LonMax: 180, LatMin: -5, LatMax: 82},
	"Oceania":       {LonMin: 110, LonMax: 180, LatMin: -50, LatMax: 10},
}

// ContinentBBox returns the bounding box for a continent name.
func ContinentBBox(continent string) (BBox, bool) {
	b, ok := continentBoxes[continent]
	return b, ok
}

// Anchor is the lon/lat position where a continent's aggregate bubble is
// drawn on the world map.
type Anchor struct {
	Lon, Lat float64
}

var continentAnchors = map[string]Anchor{
	"Africa":        {20, 5},
	"Europe":        {15, 52},
	"Asia":          {95, 40},
	"North America": {-100, 45},
	"South America": {-60, -15},
	"Oceania":       {135, -25},
}

func ContinentAnchor(continent string) (Anchor, bool) {
	a, ok := continentAnchors[continent]
	return a, ok
}

// DefaultAliases maps common short spellings to the canonical boundary
// feature names used by the world dataset.
var DefaultAliases = map[string]string{
	"russia":        "russian federation",
	"uk":            "united kingdom",
	"usa":           "united states of america",
	"united states": "united states of america",
}
