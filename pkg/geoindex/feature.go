// Package geoindex builds lookup indexes over the world boundary dataset
// and provides the geometry helpers (containment, centroids, projection)
// the map drill-down needs.
package geoindex

// Point is a geographic coordinate.
type Point struct {
	Lon, Lat float64
}

// Ring is a closed sequence of points. The closing point may or may not be
// duplicated depending on the source format.
type Ring []Point

// Polygon is an outer ring followed by zero or more holes.
type Polygon []Ring

// Feature is one country boundary. Identity is by normalized name.
type Feature struct {
	Name      string
	Continent string
	Polygons  []Polygon
}

// Vertices visits every vertex of every ring.
func (f *Feature) Vertices(visit func(Point)) {
	for _, poly := range f.Polygons {
		for _, ring := range poly {
			for _, pt := range ring {
				visit(pt)
			}
		}
	}
}
