package catalog

import "testing"

func TestCatalogSizes(t *testing.T) {
	if len(Types) != 8 {
		t.Fatalf("want 8 types, got %d", len(Types))
	}
	if len(Challenges) != 6 {
		t.Fatalf("want 6 challenges, got %d", len(Challenges))
	}
}

func TestLookupByLabel(t *testing.T) {
	for _, e := range Types {
		got, ok := TypeByLabel(e.Label)
		if !ok || got.Column != e.Column {
			t.Fatalf("type lookup failed for %q", e.Label)
		}
	}
	for _, e := range Challenges {
		got, ok := ChallengeByLabel(e.Label)
		if !ok || got.Column != e.Column {
			t.Fatalf("challenge lookup failed for %q", e.Label)
		}
	}
	if _, ok := TypeByLabel("Skyscrapers"); ok {
		t.Fatal("unknown label should not resolve")
	}
}

func TestColorForStatusFallback(t *testing.T) {
	if c := ColorForStatus("Completed"); c != "#1f77b4" {
		t.Fatalf("unexpected color %q", c)
	}
	if c := ColorForStatus("Never heard of it"); c != "#94a3b8" {
		t.Fatalf("want neutral fallback, got %q", c)
	}
}

func TestBBoxContainsPad(t *testing.T) {
	b := BBox{LonMin: -25, LonMax: 45, LatMin: 34, LatMax: 72}

	if !b.Contains(2.35, 48.85, 0) {
		t.Fatal("Paris should be inside Europe's box")
	}
	if b.Contains(-52.31, 4.92, 0.5) {
		t.Fatal("Cayenne should be outside even with padding")
	}
	// Just outside, rescued by the pad.
	if b.Contains(-25.3, 40, 0) {
		t.Fatal("point should be outside without padding")
	}
	if !b.Contains(-25.3, 40, 0.5) {
		t.Fatal("point should be inside with padding")
	}
}

func TestContinentTables(t *testing.T) {
	for _, continent := range []string{"Europe", "Africa", "Asia", "North America", "South America", "Oceania"} {
		if _, ok := ContinentBBox(continent); !ok {
			t.Fatalf("missing bbox for %s", continent)
		}
		if _, ok := ContinentAnchor(continent); !ok {
			t.Fatalf("missing anchor for %s", continent)
		}
	}
	if _, ok := ContinentBBox("Antarctica"); ok {
		t.Fatal("no box expected for Antarctica")
	}
}
