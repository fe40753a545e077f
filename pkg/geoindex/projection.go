package geoindex

import "math"

// maxMercatorLat keeps the projection finite near the poles.
const maxMercatorLat = 85.05112878

// Bounds is an axis-aligned box in projected screen units.
type Bounds struct {
	X0, Y0, X1, Y1 float64
}

func (b Bounds) Width() float64  { return b.X1 - b.X0 }
func (b Bounds) Height() float64 { return b.Y1 - b.Y0 }

func (b Bounds) Center() (x, y float64) {
	return (b.X0 + b.X1) / 2, (b.Y0 + b.Y1) / 2
}

// Projection is a Mercator projection fitted to a screen extent. Screen y
// grows downward.
type Projection struct {
	k, tx, ty float64
}

func mercator(lon, lat float64) (x, y float64) {
	lat = math.Max(-maxMercatorLat, math.Min(maxMercatorLat, lat))
	x = lon * math.Pi / 180
	y = -math.Log(math.Tan(math.Pi/4 + lat*math.Pi/360))
	return x, y
}

// FitExtent builds a projection that fits the whole feature collection into
// the extent [x0,y0]-[x1,y1], preserving aspect ratio and centering.
func FitExtent(features []*Feature, x0, y0, x1, y1 float64) Projection {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, f := range features {
		f.Vertices(func(p Point) {
			mx, my := mercator(p.Lon, p.Lat)
			minX = math.Min(minX, mx)
			minY = math.Min(minY, my)
			maxX = math.Max(maxX, mx)
			maxY = math.Max(maxY, my)
		})
	}
	if minX > maxX || minY > maxY {
		return Projection{k: 1}
	}

	dx, dy := maxX-minX, maxY-minY
	k := 1.0
	if dx > 0 || dy > 0 {
		k = math.Min((x1-x0)/math.Max(dx, 1e-12), (y1-y0)/math.Max(dy, 1e-12))
	}
	tx := x0 + ((x1-x0)-k*dx)/2 - k*minX
	ty := y0 + ((y1-y0)-k*dy)/2 - k*minY
	return Projection{k: k, tx: tx, ty: ty}
}

// Project maps a geographic coordinate to screen space.
func (p Projection) Project(lon, lat float64) (x, y float64) {
	mx, my := mercator(lon, lat)
	return p.k*mx + p.tx, p.k*my + p.ty
}

// FeatureBounds returns the projected bounding box of a set of features.
func (p Projection) FeatureBounds(features []*Feature) (Bounds, bool) {
	b := Bounds{X0: math.Inf(1), Y0: math.Inf(1), X1: math.Inf(-1), Y1: math.Inf(-1)}
	seen := false
	for _, f := range features {
		f.Vertices(func(pt Point) {
			x, y := p.Project(pt.Lon, pt.Lat)
			b.X0 = math.Min(b.X0, x)
			b.Y0 = math.Min(b.Y0, y)
			b.X1 = math.Max(b.X1, x)
			b.Y1 = math.Max(b.Y1, y)
			seen = true
		})
	}
	return b, seen
}

// PointBounds returns the projected bounding box of raw geographic points.
func (p Projection) PointBounds(pts []Point) (Bounds, bool) {
	if len(pts) == 0 {
		return Bounds{}, false
	}
	b := Bounds{X0: math.Inf(1), Y0: math.Inf(1), X1: math.Inf(-1), Y1: math.Inf(-1)}
	for _, pt := range pts {
		x, y := p.Project(pt.Lon, pt.Lat)
		b.X0 = math.Min(b.X0, x)
		b.Y0 = math.Min(b.Y0, y)
		b.X1 = math.Max(b.X1, x)
		b.Y1 = math.Max(b.Y1, y)
	}
	return b, true
}
