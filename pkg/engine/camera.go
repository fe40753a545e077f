package engine

import (
	"math"

	"github.com/greenlens/greenlens/pkg/geoindex"
)

// Camera-fit presets. The boundary preset frames polygon bounds tightly;
// the point preset is looser so sparse continents keep their border
// projects in frame instead of over-zooming.
const (
	boundaryPadding    = 18.0
	boundaryZoomFactor = 0.92
	pointPadding       = 70.0
	pointZoomFactor    = 0.80

	topInset     = 10.0
	bottomMargin = 40.0 // chrome reserved under the map

	minScale = 1.0
	maxScale = 8.0

	fitTransitionMS   = 650
	resetTransitionMS = 500

	// Degrees of slack around a continent's bbox when hiding points.
	continentBBoxPad = 0.5
)

// fitTransform computes the camera that frames a projected bounding box in
// a width×height panel: a uniform scale clamped to [1, 8] and a translation
// that puts the box center at the panel's visual center (the vertical
// center accounts for the reserved bottom chrome).
func fitTransform(b geoindex.Bounds, width, height, padding, zoomFactor float64) Transform {
	dx, dy := b.Width(), b.Height()
	cx, cy := b.Center()

	effectiveW := width - 2*padding
	effectiveH := (height - bottomMargin) - 2*padding

	ratio := math.Max(dx/effectiveW, dy/effectiveH)
	scale := maxScale
	if ratio > 0 {
		scale = math.Max(minScale, math.Min(maxScale, zoomFactor/ratio))
	}

	centerX := width / 2
	centerY := (topInset + (height - bottomMargin)) / 2

	return Transform{
		X: centerX - scale*cx,
		Y: centerY - scale*cy,
		K: scale,
	}
}
