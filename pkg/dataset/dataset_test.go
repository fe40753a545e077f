package dataset

import (
	"reflect"
	"testing"

	"github.com/greenlens/greenlens/pkg/catalog"
)

func TestNorm(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"  France ", "france"},
		{"United   Kingdom", "united kingdom"},
		{"Côte d’Ivoire", "côte d'ivoire"},
		{"Cote d´Ivoire", "cote d'ivoire"},
		{"", ""},
		{"   ", ""},
	}
	for _, c := range cases {
		if got := Norm(c.in); got != c.want {
			t.Fatalf("Norm(%q): want %q, got %q", c.in, c.want, got)
		}
	}
}

func TestIsYes(t *testing.T) {
	for _, v := range []string{"yes", "Yes", " YES ", "y", "true", "1"} {
		if !IsYes(v) {
			t.Fatalf("IsYes(%q): want true", v)
		}
	}
	for _, v := range []string{"", "no", "0", "maybe", "yess"} {
		if IsYes(v) {
			t.Fatalf("IsYes(%q): want false", v)
		}
	}
}

func TestParseKeysByHeader(t *testing.T) {
	csv := "\ufeffName of the intervention,Country,City,lat,lon\n" +
		"Rain garden,France,Paris,48.85,2.35\n" +
		"Pocket park,Kenya,Nairobi,-1.29,36.82\n"

	rows, err := Parse([]byte(csv))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("want 2 rows, got %d", len(rows))
	}
	// The BOM must not break the first header.
	if rows[0].Name != "Rain garden" {
		t.Fatalf("want name %q, got %q", "Rain garden", rows[0].Name)
	}
	if rows[1].Country != "Kenya" || rows[1].City != "Nairobi" {
		t.Fatalf("unexpected row: %+v", rows[1])
	}
	if !rows[0].HasCoords || rows[0].Lat != 48.85 || rows[0].Lon != 2.35 {
		t.Fatalf("unexpected coords: %+v", rows[0])
	}
}

func TestParseBadCoordinatesKeepRow(t *testing.T) {
	csv := "Country,lat,lon\nFrance,abc,2.35\nKenya,NaN,36.82\nSpain,,\n"

	rows, err := Parse([]byte(csv))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("want 3 rows, got %d", len(rows))
	}
	for _, r := range rows {
		if r.HasCoords {
			t.Fatalf("row %q should have no coords", r.Country)
		}
	}
}

func TestParseRaggedRecord(t *testing.T) {
	csv := "Country,City,lat,lon\nFrance\n"

	rows, err := Parse([]byte(csv))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Country != "France" {
		t.Fatalf("short record should survive, got %+v", rows)
	}
}

func TestParseEmpty(t *testing.T) {
	if _, err := Parse([]byte("")); err == nil {
		t.Fatal("want error for empty input")
	}
}

func TestIdentityKey(t *testing.T) {
	a := FromRecord(map[string]string{
		"Name of the intervention": "Rain Garden",
		catalog.ColCountry:         "France",
		catalog.ColCity:            "Paris",
		catalog.ColLat:             "48.85",
		catalog.ColLon:             "2.35",
	})
	b := FromRecord(map[string]string{
		"Name of the intervention": "  rain   garden ",
		catalog.ColCountry:         "FRANCE",
		catalog.ColCity:            "paris",
		catalog.ColLat:             "48.85",
		catalog.ColLon:             "2.35",
	})
	if a.IdentityKey() != b.IdentityKey() {
		t.Fatalf("normalized keys should match:\n%q\n%q", a.IdentityKey(), b.IdentityKey())
	}

	c := FromRecord(map[string]string{
		"Name of the intervention": "Rain Garden",
		catalog.ColCountry:         "France",
		catalog.ColCity:            "Paris",
		catalog.ColLat:             "48.86",
		catalog.ColLon:             "2.35",
	})
	if a.IdentityKey() == c.IdentityKey() {
		t.Fatal("different coordinates should give different keys")
	}
}

func TestTypeLabelsCatalogOrder(t *testing.T) {
	rec := map[string]string{
		catalog.Types[7].Column: "Yes",
		catalog.Types[0].Column: "yes",
	}
	r := FromRecord(rec)

	want := []string{catalog.Types[0].Label, catalog.Types[7].Label}
	if got := r.TypeLabels(); !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestNameFallback(t *testing.T) {
	r := FromRecord(map[string]string{
		"Title":            "Green Roof Pilot",
		catalog.ColCountry: "Spain",
	})
	if r.Name != "Green Roof Pilot" {
		t.Fatalf("want fallback name, got %q", r.Name)
	}
}
