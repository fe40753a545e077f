// Package repair implements the one-time geocoding cleanup pass that runs
// after load and before the first render. It is a data-quality pass, never a
// per-render operation.
package repair

import (
	"fmt"

	"github.com/greenlens/greenlens/internal/utils"
	"github.com/greenlens/greenlens/pkg/dataset"
	"github.com/greenlens/greenlens/pkg/geoindex"
)

// Stats summarizes what the pass changed.
type Stats struct {
	Checked    int // rows with a resolvable boundary feature and coordinates
	Recentered int // rows moved to their country's centroid
	CacheHits  int // rows that reused a canonical (city, country) coordinate
	Unresolved int // rows whose country has no boundary feature
}

func (s Stats) String() string {
	return fmt.Sprintf("checked=%d recentered=%d cache_hits=%d unresolved=%d",
		s.Checked, s.Recentered, s.CacheHits, s.Unresolved)
}

type coord struct {
	lat, lon float64
}

// Run walks the rows once in order. Rows sharing a normalized
// (city, country) pair reuse the first trusted coordinate for that pair;
// otherwise a row keeps its own coordinates only when they fall inside the
// country's boundary, and is moved to the boundary centroid when they don't.
// Rows without a resolvable boundary are left untouched.
func Run(rows []*dataset.Row, ix *geoindex.Index) Stats {
	var stats Stats
	canonical := make(map[string]coord)

	for _, row := range rows {
		feature := ix.FeatureOf(row.Country)
		if feature == nil {
			if row.Country != "" {
				stats.Unresolved++
			}
			continue
		}

		cacheKey := ""
		if row.City != "" {
			cacheKey = dataset.Norm(row.City) + "|" + dataset.Norm(row.Country)
			if c, ok := canonical[cacheKey]; ok {
				if !row.HasCoords || row.Lat != c.lat || row.Lon != c.lon {
					row.SetCoords(c.lat, c.lon)
					stats.CacheHits++
				}
				continue
			}
		}

		if !row.HasCoords {
			continue
		}
		stats.Checked++

		lat, lon := row.Lat, row.Lon
		if !feature.Contains(lon, lat) {
			cLon, cLat, ok := feature.Centroid()
			if !ok {
				continue
			}
			lat, lon = cLat, cLon
			row.SetCoords(lat, lon)
			stats.Recentered++
		}
		if cacheKey != "" {
			canonical[cacheKey] = coord{lat: lat, lon: lon}
		}
	}

	utils.Log.Infof("Coordinate repair: %s", stats)
	return stats
}
