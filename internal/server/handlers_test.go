package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/greenlens/greenlens/pkg/catalog"
	"github.com/greenlens/greenlens/pkg/dataset"
	"github.com/greenlens/greenlens/pkg/engine"
	"github.com/greenlens/greenlens/pkg/geoindex"
)

func testServer(t *testing.T, user, pass string) *Server {
	t.Helper()
	geo := geoindex.Build([]*geoindex.Feature{
		{Name: "France", Continent: "Europe", Polygons: []geoindex.Polygon{{geoindex.Ring{
			{Lon: -5, Lat: 42}, {Lon: 8, Lat: 42}, {Lon: 8, Lat: 51}, {Lon: -5, Lat: 51},
		}}}},
		{Name: "Kenya", Continent: "Africa", Polygons: []geoindex.Polygon{{geoindex.Ring{
			{Lon: 34, Lat: -5}, {Lon: 42, Lat: -5}, {Lon: 42, Lat: 5}, {Lon: 34, Lat: 5},
		}}}},
	})

	row := func(name, country, city, status string, lat, lon float64) *dataset.Row {
		return dataset.FromRecord(map[string]string{
			"Name of the intervention": name,
			catalog.ColCountry:         country,
			catalog.ColCity:            city,
			catalog.ColStatus:          status,
			catalog.ColLat:             strconv.FormatFloat(lat, 'f', -1, 64),
			catalog.ColLon:             strconv.FormatFloat(lon, 'f', -1, 64),
		})
	}
	rows := []*dataset.Row{
		row("Seine banks", "France", "Paris", "Completed", 48.85, 2.35),
		row("City forest", "Kenya", "Nairobi", "Ongoing", -1.29, 36.82),
	}

	eng := engine.New(rows, geo, 960, 600)
	return New(Config{Username: user, Password: pass}, eng, geo)
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body interface{}) (*httptest.ResponseRecorder, engine.Snapshot) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var snap engine.Snapshot
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
			t.Fatalf("bad response body: %v\n%s", err, rec.Body.String())
		}
	}
	return rec, snap
}

func TestHandleSnapshot(t *testing.T) {
	mux := testServer(t, "", "").Mux()

	rec, snap := doJSON(t, mux, http.MethodGet, "/api/snapshot", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	if snap.FilteredCount != 2 {
		t.Fatalf("want 2 projects, got %d", snap.FilteredCount)
	}
	if snap.Drill.Level != engine.LevelWorld {
		t.Fatalf("want world drill, got %+v", snap.Drill)
	}
}

func TestHandleEventAppliesAndReturnsSnapshot(t *testing.T) {
	mux := testServer(t, "", "").Mux()

	rec, snap := doJSON(t, mux, http.MethodPost, "/api/event",
		engine.Event{Kind: engine.SetCountry, Value: "France"})
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	if snap.FilteredCount != 1 || snap.Filters.Country != "France" {
		t.Fatalf("event not applied: %+v", snap.Filters)
	}
	if snap.Drill.Level != engine.LevelCountry {
		t.Fatalf("want country drill, got %+v", snap.Drill)
	}

	// State persists across requests.
	_, again := doJSON(t, mux, http.MethodGet, "/api/snapshot", nil)
	if again.Filters.Country != "France" {
		t.Fatal("state should persist between requests")
	}
}

func TestHandleEventRejectsUnknownKind(t *testing.T) {
	mux := testServer(t, "", "").Mux()

	rec, _ := doJSON(t, mux, http.MethodPost, "/api/event", engine.Event{Kind: "warp"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
}

func TestHandleEventRejectsBadJSON(t *testing.T) {
	mux := testServer(t, "", "").Mux()

	req := httptest.NewRequest(http.MethodPost, "/api/event", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
}

func TestHandleReset(t *testing.T) {
	mux := testServer(t, "", "").Mux()

	doJSON(t, mux, http.MethodPost, "/api/event",
		engine.Event{Kind: engine.SetCountry, Value: "Kenya"})
	rec, snap := doJSON(t, mux, http.MethodPost, "/api/reset", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	if snap.Filters.Country != "" || snap.FilteredCount != 2 {
		t.Fatalf("reset should clear everything: %+v", snap.Filters)
	}
}

func TestHandleHealthz(t *testing.T) {
	mux := testServer(t, "", "").Mux()

	req := httptest.NewRequest(http.MethodGet, "/api/healthz", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" || body["projects"].(float64) != 2 {
		t.Fatalf("unexpected health body: %v", body)
	}
}

func TestBasicAuth(t *testing.T) {
	mux := testServer(t, "admin", "hunter2").Mux()

	req := httptest.NewRequest(http.MethodGet, "/api/snapshot", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("want 401 without credentials, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/snapshot", nil)
	req.SetBasicAuth("admin", "hunter2")
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200 with credentials, got %d", rec.Code)
	}
}
