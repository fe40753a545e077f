package geoindex

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/greenlens/greenlens/internal/utils"
	"github.com/greenlens/greenlens/pkg/fetch"
)

// Property keys tried in order when reading a feature's display name and
// continent. Natural Earth exports use the uppercase variants.
var (
	nameKeys      = []string{"ADMIN", "NAME", "name"}
	continentKeys = []string{"CONTINENT", "continent"}
)

// LoadBoundaries reads a boundary dataset (GeoJSON FeatureCollection or
// TopoJSON topology) from a local path or URL and indexes it.
func LoadBoundaries(source string) (*Index, error) {
	data, err := fetch.ReadSource(source)
	if err != nil {
		return nil, err
	}
	features, err := ParseBoundaries(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", source, err)
	}
	utils.Log.Infof("Loaded %d boundary features from %s", len(features), source)
	return Build(features), nil
}

// ParseBoundaries decodes boundary bytes, dispatching on the top-level type.
func ParseBoundaries(data []byte) ([]*Feature, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("boundary dataset is not valid JSON")
	}
	root := gjson.ParseBytes(data)
	switch root.Get("type").String() {
	case "Topology":
		return parseTopology(root)
	case "FeatureCollection":
		return parseFeatureCollection(root)
	default:
		return nil, fmt.Errorf("unsupported boundary dataset type %q", root.Get("type").String())
	}
}

func propString(properties gjson.Result, keys []string) string {
	for _, key := range keys {
		if v := properties.Get(key); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

func parseFeatureCollection(root gjson.Result) ([]*Feature, error) {
	var features []*Feature
	for _, raw := range root.Get("features").Array() {
		f := &Feature{
			Name:      propString(raw.Get("properties"), nameKeys),
			Continent: propString(raw.Get("properties"), continentKeys),
		}
		geom := raw.Get("geometry")
		switch geom.Get("type").String() {
		case "Polygon":
			f.Polygons = append(f.Polygons, parseGeoJSONPolygon(geom.Get("coordinates")))
		case "MultiPolygon":
			for _, poly := range geom.Get("coordinates").Array() {
				f.Polygons = append(f.Polygons, parseGeoJSONPolygon(poly))
			}
		default:
			// Points/lines carry no area; skip the geometry but keep the
			// feature so name/continent lookups still resolve.
		}
		features = append(features, f)
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("feature collection contains no features")
	}
	return features, nil
}

func parseGeoJSONPolygon(coords gjson.Result) Polygon {
	var poly Polygon
	for _, rawRing := range coords.Array() {
		var ring Ring
		for _, pos := range rawRing.Array() {
			pair := pos.Array()
			if len(pair) < 2 {
				continue
			}
			ring = append(ring, Point{Lon: pair[0].Float(), Lat: pair[1].Float()})
		}
		poly = append(poly, ring)
	}
	return poly
}
