package geoindex

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// parseTopology decodes a TopoJSON topology. The first object in the
// topology is taken as the country layer, matching how the frontend's
// topojson-client picks Object.keys(topo.objects)[0].
func parseTopology(root gjson.Result) ([]*Feature, error) {
	arcs, err := decodeArcs(root)
	if err != nil {
		return nil, err
	}

	var layer gjson.Result
	root.Get("objects").ForEach(func(_, value gjson.Result) bool {
		layer = value
		return false
	})
	if !layer.Exists() {
		return nil, fmt.Errorf("topology has no objects")
	}

	geometries := layer.Get("geometries").Array()
	if layer.Get("type").String() != "GeometryCollection" {
		geometries = []gjson.Result{layer}
	}

	var features []*Feature
	for _, geom := range geometries {
		f := &Feature{
			Name:      propString(geom.Get("properties"), nameKeys),
			Continent: propString(geom.Get("properties"), continentKeys),
		}
		switch geom.Get("type").String() {
		case "Polygon":
			f.Polygons = append(f.Polygons, assemblePolygon(geom.Get("arcs"), arcs))
		case "MultiPolygon":
			for _, poly := range geom.Get("arcs").Array() {
				f.Polygons = append(f.Polygons, assemblePolygon(poly, arcs))
			}
		}
		features = append(features, f)
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("topology object contains no geometries")
	}
	return features, nil
}

// decodeArcs expands the topology's arc table. Quantized topologies are
// delta-encoded and need the transform applied per position.
func decodeArcs(root gjson.Result) ([][]Point, error) {
	rawArcs := root.Get("arcs").Array()
	if len(rawArcs) == 0 {
		return nil, fmt.Errorf("topology has no arcs")
	}

	transform := root.Get("transform")
	quantized := transform.Exists()
	sx, sy, tx, ty := 1.0, 1.0, 0.0, 0.0
	if quantized {
		scale := transform.Get("scale").Array()
		translate := transform.Get("translate").Array()
		if len(scale) < 2 || len(translate) < 2 {
			return nil, fmt.Errorf("topology transform is malformed")
		}
		sx, sy = scale[0].Float(), scale[1].Float()
		tx, ty = translate[0].Float(), translate[1].Float()
	}

	arcs := make([][]Point, len(rawArcs))
	for i, rawArc := range rawArcs {
		var arc []Point
		x, y := 0.0, 0.0
		for _, pos := range rawArc.Array() {
			pair := pos.Array()
			if len(pair) < 2 {
				continue
			}
			if quantized {
				x += pair[0].Float()
				y += pair[1].Float()
				arc = append(arc, Point{Lon: x*sx + tx, Lat: y*sy + ty})
			} else {
				arc = append(arc, Point{Lon: pair[0].Float(), Lat: pair[1].Float()})
			}
		}
		arcs[i] = arc
	}
	return arcs, nil
}

// assemblePolygon stitches arc references into rings. A negative index ~i
// means arc i traversed backwards. Shared endpoints between consecutive
// arcs are dropped.
func assemblePolygon(arcRefs gjson.Result, arcs [][]Point) Polygon {
	var poly Polygon
	for _, rawRing := range arcRefs.Array() {
		var ring Ring
		for _, ref := range rawRing.Array() {
			idx := int(ref.Int())
			reversed := false
			if idx < 0 {
				idx = -1 - idx
				reversed = true
			}
			if idx >= len(arcs) {
				continue
			}
			arc := arcs[idx]
			if reversed {
				arc = reversePoints(arc)
			}
			if len(ring) > 0 && len(arc) > 0 && ring[len(ring)-1] == arc[0] {
				arc = arc[1:]
			}
			ring = append(ring, arc...)
		}
		poly = append(poly, ring)
	}
	return poly
}

func reversePoints(pts []Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}
