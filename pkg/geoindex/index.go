package geoindex

import (
	"github.com/greenlens/greenlens/pkg/dataset"
)

// Index maps normalized country names to continents and boundary features.
// Lookups are best-effort: unknown names return zero values, never errors.
type Index struct {
	continents map[string]string
	features   map[string]*Feature
	all        []*Feature
}

// Build indexes a boundary feature collection by normalized display name.
// Features without a name are kept in the collection but not indexed.
func Build(features []*Feature) *Index {
	ix := &Index{
		continents: make(map[string]string, len(features)),
		features:   make(map[string]*Feature, len(features)),
		all:        features,
	}
	for _, f := range features {
		name := dataset.Norm(f.Name)
		if name == "" {
			continue
		}
		ix.features[name] = f
		if f.Continent != "" {
			ix.continents[name] = f.Continent
		}
	}
	return ix
}

// ContinentOf returns the continent for a country name, or "" if unknown.
func (ix *Index) ContinentOf(name string) string {
	return ix.continents[dataset.Norm(name)]
}

// FeatureOf returns the boundary feature for a country name, or nil.
func (ix *Index) FeatureOf(name string) *Feature {
	return ix.features[dataset.Norm(name)]
}

// RegisterAlias copies the continent and feature mappings of a canonical
// name to an alternate spelling. Aliasing an unknown canonical name is a
// no-op.
func (ix *Index) RegisterAlias(alias, canonical string) {
	a, c := dataset.Norm(alias), dataset.Norm(canonical)
	if f, ok := ix.features[c]; ok {
		ix.features[a] = f
	}
	if cont, ok := ix.continents[c]; ok {
		ix.continents[a] = cont
	}
}

// RegisterAliases registers a whole alias table.
func (ix *Index) RegisterAliases(aliases map[string]string) {
	for alias, canonical := range aliases {
		ix.RegisterAlias(alias, canonical)
	}
}

// Features returns every feature in the collection.
func (ix *Index) Features() []*Feature {
	return ix.all
}

// ContinentFeatures returns the features whose continent attribute matches.
func (ix *Index) ContinentFeatures(continent string) []*Feature {
	var out []*Feature
	for _, f := range ix.all {
		if f.Continent == continent {
			out = append(out, f)
		}
	}
	return out
}
