package engine

import (
	"math"
	"testing"

	"github.com/greenlens/greenlens/pkg/geoindex"
)

func TestFitTransformCentersBounds(t *testing.T) {
	b := geoindex.Bounds{X0: 100, Y0: 100, X1: 300, Y1: 200}
	width, height := 960.0, 600.0

	tr := fitTransform(b, width, height, boundaryPadding, boundaryZoomFactor)

	cx, cy := b.Center()
	wantX := width / 2
	wantY := (topInset + (height - bottomMargin)) / 2
	if got := tr.K*cx + tr.X; math.Abs(got-wantX) > 1e-9 {
		t.Fatalf("horizontal center: want %g, got %g", wantX, got)
	}
	if got := tr.K*cy + tr.Y; math.Abs(got-wantY) > 1e-9 {
		t.Fatalf("vertical center: want %g, got %g", wantY, got)
	}
}

func TestFitTransformScale(t *testing.T) {
	width, height := 960.0, 600.0
	b := geoindex.Bounds{X0: 100, Y0: 100, X1: 300, Y1: 200}

	tr := fitTransform(b, width, height, boundaryPadding, boundaryZoomFactor)

	effW := width - 2*boundaryPadding
	effH := (height - bottomMargin) - 2*boundaryPadding
	ratio := math.Max(b.Width()/effW, b.Height()/effH)
	want := boundaryZoomFactor / ratio
	if math.Abs(tr.K-want) > 1e-9 {
		t.Fatalf("want scale %g, got %g", want, tr.K)
	}
}

func TestFitTransformClampsScale(t *testing.T) {
	width, height := 960.0, 600.0

	// A tiny target would zoom far past the cap.
	tiny := geoindex.Bounds{X0: 100, Y0: 100, X1: 100.5, Y1: 100.5}
	if tr := fitTransform(tiny, width, height, boundaryPadding, boundaryZoomFactor); tr.K != maxScale {
		t.Fatalf("want max scale %g, got %g", maxScale, tr.K)
	}

	// A target larger than the panel must not zoom out below 1.
	huge := geoindex.Bounds{X0: -2000, Y0: -2000, X1: 3000, Y1: 3000}
	if tr := fitTransform(huge, width, height, boundaryPadding, boundaryZoomFactor); tr.K != minScale {
		t.Fatalf("want min scale %g, got %g", minScale, tr.K)
	}
}

func TestFitTransformZeroExtent(t *testing.T) {
	// A single point has zero extent; the fit should land on max zoom
	// centered on the point rather than dividing by zero.
	b := geoindex.Bounds{X0: 250, Y0: 140, X1: 250, Y1: 140}
	tr := fitTransform(b, 960, 600, pointPadding, pointZoomFactor)
	if tr.K != maxScale {
		t.Fatalf("want max scale, got %g", tr.K)
	}
	if math.IsNaN(tr.X) || math.IsNaN(tr.Y) {
		t.Fatalf("transform must be finite, got %+v", tr)
	}
}

func TestTransformMoved(t *testing.T) {
	cases := []struct {
		tr   Transform
		want bool
	}{
		{Identity, false},
		{Transform{X: 0.4, Y: -0.4, K: 1.0}, false},
		{Transform{X: 0.6, K: 1}, true},
		{Transform{Y: -0.6, K: 1}, true},
		{Transform{K: 1.02}, true},
		{Transform{K: 1.005}, false},
	}
	for _, c := range cases {
		if got := c.tr.Moved(); got != c.want {
			t.Fatalf("Moved(%+v): want %v, got %v", c.tr, c.want, got)
		}
	}
}
