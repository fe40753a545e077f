package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/greenlens/greenlens/pkg/catalog"
	"github.com/greenlens/greenlens/pkg/dataset"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "greenlens.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testRows() []*dataset.Row {
	row := func(name, country, city, status, lat, lon string) *dataset.Row {
		return dataset.FromRecord(map[string]string{
			"Name of the intervention": name,
			catalog.ColCountry:         country,
			catalog.ColCity:            city,
			catalog.ColStatus:          status,
			catalog.ColLat:             lat,
			catalog.ColLon:             lon,
		})
	}
	return []*dataset.Row{
		row("Seine banks", "France", "Paris", "Completed", "48.85", "2.35"),
		row("City forest", "Kenya", "Nairobi", "Ongoing", "-1.29", "36.82"),
		row("No place", "Kenya", "", "Ongoing", "", ""),
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	rows := testRows()

	if err := db.SaveRows(ctx, "test.csv", rows); err != nil {
		t.Fatal(err)
	}
	loaded, err := db.LoadRows(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != len(rows) {
		t.Fatalf("want %d rows, got %d", len(rows), len(loaded))
	}
	for i := range rows {
		if loaded[i].IdentityKey() != rows[i].IdentityKey() {
			t.Fatalf("row %d identity mismatch:\n%q\n%q",
				i, rows[i].IdentityKey(), loaded[i].IdentityKey())
		}
	}
	if loaded[2].HasCoords {
		t.Fatal("coordless row must stay coordless after a round trip")
	}
}

func TestSaveRowsPersistsRepairedCoordinates(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	rows := testRows()
	// Simulate the repair pass moving a row.
	rows[0].SetCoords(46.6, 2.2)

	if err := db.SaveRows(ctx, "test.csv", rows); err != nil {
		t.Fatal(err)
	}
	loaded, err := db.LoadRows(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if loaded[0].Lat != 46.6 || loaded[0].Lon != 2.2 {
		t.Fatalf("repaired coordinates lost: (%g, %g)", loaded[0].Lat, loaded[0].Lon)
	}
}

func TestSaveRowsReplacesSnapshot(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.SaveRows(ctx, "a.csv", testRows()); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveRows(ctx, "b.csv", testRows()[:1]); err != nil {
		t.Fatal(err)
	}

	loaded, err := db.LoadRows(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 1 {
		t.Fatalf("second save should replace the snapshot, got %d rows", len(loaded))
	}

	last, err := db.LastImport(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if last == nil || last.Source != "b.csv" || last.RowCount != 1 {
		t.Fatalf("unexpected last import: %+v", last)
	}
}

func TestGetStats(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.SaveRows(ctx, "test.csv", testRows()); err != nil {
		t.Fatal(err)
	}
	stats, err := db.GetStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 2 {
		t.Fatalf("want 2 countries, got %d", len(stats))
	}
	// Ordered by count descending.
	if stats[0].Country != "Kenya" || stats[0].Count != 2 {
		t.Fatalf("unexpected first entry: %+v", stats[0])
	}
}

func TestLastImportEmpty(t *testing.T) {
	db := openTestDB(t)
	last, err := db.LastImport(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if last != nil {
		t.Fatalf("want nil for empty db, got %+v", last)
	}
}
