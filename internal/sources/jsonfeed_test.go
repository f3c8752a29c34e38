package sources

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventpipe/internal/config"
)

func jsonServer(t *testing.T, body string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)

	return server
}

func TestJSONAdapter_Fetch_TopLevelArray(t *testing.T) {
	server := jsonServer(t, `[
		{
			"title": "Jazz Night",
			"start": "2025-07-04T19:30:00-04:00",
			"venue": "The Blue Door",
			"latitude": 42.1015,
			"longitude": -72.5898
		},
		{
			"title": "Poetry Reading",
			"start": "2025-07-06",
			"cost": 10
		},
		{
			"start": "2025-07-08"
		}
	]`)

	src := config.SourceConfig{
		Name:    "city-feed",
		URL:     server.URL,
		Kind:    config.KindJSON,
		Enabled: true,
	}

	adapter := NewJSONAdapter(src, NewFetcher(config.Default().Retry), testLogger())

	raws, err := adapter.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	// The titleless item is skipped.
	if len(raws) != 2 {
		t.Fatalf("Fetch = %d candidates, want 2", len(raws))
	}

	first := raws[0]

	if first.Title != "Jazz Night" {
		t.Errorf("Title = %q, want Jazz Night", first.Title)
	}

	if first.StartText != "2025-07-04T19:30:00-04:00" {
		t.Errorf("StartText = %q", first.StartText)
	}

	if first.Latitude == nil || *first.Latitude != 42.1015 {
		t.Errorf("Latitude = %v, want 42.1015", first.Latitude)
	}

	if first.Longitude == nil || *first.Longitude != -72.5898 {
		t.Errorf("Longitude = %v, want -72.5898", first.Longitude)
	}

	// Numeric values coerce to strings for text fields.
	if raws[1].CostText != "10" {
		t.Errorf("CostText = %q, want 10", raws[1].CostText)
	}
}

func TestJSONAdapter_Fetch_MappedFields(t *testing.T) {
	server := jsonServer(t, `{
		"results": [
			{
				"name": "Jazz Night",
				"begins": "2025-07-04T19:30:00-04:00",
				"where": "The Blue Door",
				"lat": "42.1015"
			}
		]
	}`)

	src := config.SourceConfig{
		Name:    "city-feed",
		URL:     server.URL,
		Kind:    config.KindJSON,
		Enabled: true,
		Fields: config.JSONFieldConfig{
			Items:    "results",
			Title:    "name",
			Start:    "begins",
			Venue:    "where",
			Latitude: "lat",
		},
	}

	adapter := NewJSONAdapter(src, NewFetcher(config.Default().Retry), testLogger())

	raws, err := adapter.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	if len(raws) != 1 {
		t.Fatalf("Fetch = %d candidates, want 1", len(raws))
	}

	if raws[0].Title != "Jazz Night" {
		t.Errorf("Title = %q, want Jazz Night", raws[0].Title)
	}

	if raws[0].VenueText != "The Blue Door" {
		t.Errorf("VenueText = %q", raws[0].VenueText)
	}

	// Numeric strings parse into coordinates.
	if raws[0].Latitude == nil || *raws[0].Latitude != 42.1015 {
		t.Errorf("Latitude = %v, want 42.1015", raws[0].Latitude)
	}
}

func TestJSONAdapter_Fetch_ShapeErrors(t *testing.T) {
	t.Run("expected array got object", func(t *testing.T) {
		server := jsonServer(t, `{"events": []}`)

		src := config.SourceConfig{Name: "feed", URL: server.URL, Kind: config.KindJSON, Enabled: true}
		adapter := NewJSONAdapter(src, NewFetcher(config.Default().Retry), testLogger())

		_, err := adapter.Fetch(context.Background())
		if !errors.Is(err, ErrNotJSONArray) {
			t.Errorf("Fetch error = %v, want ErrNotJSONArray", err)
		}
	})

	t.Run("items key missing", func(t *testing.T) {
		server := jsonServer(t, `{"events": []}`)

		src := config.SourceConfig{
			Name: "feed", URL: server.URL, Kind: config.KindJSON, Enabled: true,
			Fields: config.JSONFieldConfig{Items: "results"},
		}
		adapter := NewJSONAdapter(src, NewFetcher(config.Default().Retry), testLogger())

		_, err := adapter.Fetch(context.Background())
		if !errors.Is(err, ErrItemsNotFound) {
			t.Errorf("Fetch error = %v, want ErrItemsNotFound", err)
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		server := jsonServer(t, `{broken`)

		src := config.SourceConfig{Name: "feed", URL: server.URL, Kind: config.KindJSON, Enabled: true}
		adapter := NewJSONAdapter(src, NewFetcher(config.Default().Retry), testLogger())

		if _, err := adapter.Fetch(context.Background()); err == nil {
			t.Error("Fetch expected error for invalid JSON")
		}
	})
}

func TestBuildAdapters(t *testing.T) {
	cfg := config.Default()
	cfg.Sources = []config.SourceConfig{
		{Name: "html-src", URL: "https://a.example.org", Kind: config.KindHTML, Enabled: true},
		{Name: "json-src", URL: "https://b.example.org", Kind: config.KindJSON, Enabled: true},
		{Name: "off", URL: "https://c.example.org", Kind: config.KindHTML, Enabled: false},
	}

	adapters, err := BuildAdapters(cfg, NewFetcher(cfg.Retry), testLogger())
	if err != nil {
		t.Fatalf("BuildAdapters returned error: %v", err)
	}

	if len(adapters) != 2 {
		t.Fatalf("BuildAdapters = %d adapters, want 2", len(adapters))
	}

	if adapters[0].Name() != "html-src" || adapters[1].Name() != "json-src" {
		t.Errorf("adapter names = [%s %s]", adapters[0].Name(), adapters[1].Name())
	}
}

func TestBuildAdapters_UnknownKind(t *testing.T) {
	cfg := config.Default()
	cfg.Sources = []config.SourceConfig{
		{Name: "feed", URL: "https://a.example.org", Kind: "rss", Enabled: true},
	}

	_, err := BuildAdapters(cfg, NewFetcher(cfg.Retry), testLogger())
	if !errors.Is(err, config.ErrSourceUnknownKind) {
		t.Errorf("BuildAdapters error = %v, want ErrSourceUnknownKind", err)
	}
}
