package geoindex

import (
	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"
)

// ringLoop converts a ring to an s2 loop. A duplicated closing vertex is
// dropped because s2 loops are implicitly closed. Normalize keeps the loop
// describing the smaller of the two sphere regions, which is what a country
// outline always is.
func ringLoop(ring Ring) *s2.Loop {
	if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
		ring = ring[:len(ring)-1]
	}
	if len(ring) < 3 {
		return nil
	}
	pts := make([]s2.Point, len(ring))
	for i, p := range ring {
		pts[i] = s2.PointFromLatLng(s2.LatLngFromDegrees(p.Lat, p.Lon))
	}
	loop := s2.LoopFromPoints(pts)
	loop.Normalize()
	return loop
}

// Contains reports whether (lon, lat) falls inside the feature's boundary.
// Holes are respected; degenerate rings are skipped.
func (f *Feature) Contains(lon, lat float64) bool {
	pt := s2.PointFromLatLng(s2.LatLngFromDegrees(lat, lon))
	for _, poly := range f.Polygons {
		if len(poly) == 0 {
			continue
		}
		outer := ringLoop(poly[0])
		if outer == nil || !outer.ContainsPoint(pt) {
			continue
		}
		inHole := false
		for _, hole := range poly[1:] {
			if h := ringLoop(hole); h != nil && h.ContainsPoint(pt) {
				inHole = true
				break
			}
		}
		if !inHole {
			return true
		}
	}
	return false
}

// Centroid returns the area-weighted centroid of the feature's outer rings.
// The second result is false when the feature has no usable geometry.
func (f *Feature) Centroid() (lon, lat float64, ok bool) {
	var sum r3.Vector
	loops := 0
	for _, poly := range f.Polygons {
		if len(poly) == 0 {
			continue
		}
		if outer := ringLoop(poly[0]); outer != nil {
			sum = sum.Add(outer.Centroid().Vector)
			loops++
		}
	}
	if loops == 0 || sum.Norm() < 1e-12 {
		return vertexAverage(f)
	}
	ll := s2.LatLngFromPoint(s2.Point{Vector: sum.Normalize()})
	return ll.Lng.Degrees(), ll.Lat.Degrees(), true
}

// vertexAverage is the fallback for slivers whose area-weighted centroid is
// numerically useless.
func vertexAverage(f *Feature) (lon, lat float64, ok bool) {
	var sum r3.Vector
	n := 0
	f.Vertices(func(p Point) {
		sum = sum.Add(s2.PointFromLatLng(s2.LatLngFromDegrees(p.Lat, p.Lon)).Vector)
		n++
	})
	if n == 0 || sum.Norm() < 1e-12 {
		return 0, 0, false
	}
	ll := s2.LatLngFromPoint(s2.Point{Vector: sum.Normalize()})
	return ll.Lng.Degrees(), ll.Lat.Degrees(), true
}
