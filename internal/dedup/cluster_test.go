package dedup

import (
	"testing"
	"time"

	"eventpipe/internal/config"
	"eventpipe/internal/models"
)

func testJudge() *Judge {
	return NewJudge(config.DedupConfig{
		TitleThreshold:   0.85,
		VenueThreshold:   0.70,
		ProximityMinutes: 30,
		CutoffHours:      4,
		CoordMeters:      500,
	})
}

func makeEvent(title string, start time.Time, loc models.Location) models.Event {
	return models.Event{
		Title:         title,
		StartDatetime: start,
		Location:      loc,
	}
}

func floatPtr(f float64) *float64 { return &f }

func TestJudge_Duplicates(t *testing.T) {
	start := time.Date(2025, 7, 4, 19, 30, 0, 0, time.UTC)
	blueDoor := models.Location{VenueName: "The Blue Door"}

	tests := []struct {
		name string
		a, b models.Event
		want bool
	}{
		{
			"same title same venue same time",
			makeEvent("Jazz Night", start, blueDoor),
			makeEvent("jazz night!", start, blueDoor),
			true,
		},
		{
			"start exactly at proximity boundary",
			makeEvent("Jazz Night", start, blueDoor),
			makeEvent("Jazz Night", start.Add(30*time.Minute), blueDoor),
			true,
		},
		{
			"start just past proximity boundary",
			makeEvent("Jazz Night", start, blueDoor),
			makeEvent("Jazz Night", start.Add(31*time.Minute), blueDoor),
			false,
		},
		{
			"five hours apart never matches",
			makeEvent("Jazz Night", start, blueDoor),
			makeEvent("Jazz Night", start.Add(5*time.Hour), blueDoor),
			false,
		},
		{
			"dissimilar titles",
			makeEvent("Jazz Night", start, blueDoor),
			makeEvent("Open Mic Comedy", start, blueDoor),
			false,
		},
		{
			"fuzzy venue match",
			makeEvent("Jazz Night", start, models.Location{VenueName: "Blue Door Tavern"}),
			makeEvent("Jazz Night", start, models.Location{VenueName: "The Blue Door Tavern"}),
			true,
		},
		{
			"venue superset of the other",
			makeEvent("Jazz Night", start, models.Location{VenueName: "Lilypad Inman"}),
			makeEvent("jazz night!", start.Add(10*time.Minute), models.Location{VenueName: "Lilypad Inman, Inman Sq"}),
			true,
		},
		{
			"different venues no other signal",
			makeEvent("Jazz Night", start, models.Location{VenueName: "The Blue Door"}),
			makeEvent("Jazz Night", start, models.Location{VenueName: "Riverside Pavilion"}),
			false,
		},
		{
			"street address match",
			makeEvent("Jazz Night", start, models.Location{StreetAddress: "123 Main St", City: "Springfield"}),
			makeEvent("Jazz Night", start, models.Location{StreetAddress: "123 MAIN ST", City: "springfield"}),
			true,
		},
		{
			"coordinates within radius",
			makeEvent("Jazz Night", start, models.Location{Latitude: floatPtr(42.1015), Longitude: floatPtr(-72.5898)}),
			makeEvent("Jazz Night", start, models.Location{Latitude: floatPtr(42.1016), Longitude: floatPtr(-72.5899)}),
			true,
		},
		{
			"coordinates far apart",
			makeEvent("Jazz Night", start, models.Location{Latitude: floatPtr(42.1015), Longitude: floatPtr(-72.5898)}),
			makeEvent("Jazz Night", start, models.Location{Latitude: floatPtr(42.20), Longitude: floatPtr(-72.5898)}),
			false,
		},
		{
			"both locations empty",
			makeEvent("Jazz Night", start, models.Location{}),
			makeEvent("Jazz Night", start, models.Location{}),
			true,
		},
		{
			"one location empty",
			makeEvent("Jazz Night", start, blueDoor),
			makeEvent("Jazz Night", start, models.Location{}),
			false,
		},
	}

	judge := testJudge()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := judge.Duplicates(&tt.a, &tt.b); got != tt.want {
				t.Errorf("Duplicates = %v, want %v", got, tt.want)
			}

			// Judgment must be symmetric.
			if got := judge.Duplicates(&tt.b, &tt.a); got != tt.want {
				t.Errorf("Duplicates reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClusters_TransitiveChain(t *testing.T) {
	start := time.Date(2025, 7, 4, 19, 0, 0, 0, time.UTC)
	venue := models.Location{VenueName: "The Blue Door"}

	// A matches B, B matches C, but A and C are 50 minutes apart and do
	// not match directly. Clustering must still group all three.
	cands := []models.Candidate{
		{Event: makeEvent("Jazz Night", start, venue)},
		{Event: makeEvent("Jazz Night", start.Add(25*time.Minute), venue)},
		{Event: makeEvent("Jazz Night", start.Add(50*time.Minute), venue)},
	}

	groups := Clusters(cands, testJudge())
	if len(groups) != 1 {
		t.Fatalf("Clusters = %d groups, want 1", len(groups))
	}

	if len(groups[0]) != 3 {
		t.Errorf("group size = %d, want 3", len(groups[0]))
	}
}

func TestClusters_AcrossMidnight(t *testing.T) {
	venue := models.Location{VenueName: "The Blue Door"}

	// 11:50 PM and 12:10 AM fall in different day buckets but are only
	// 20 minutes apart; bucketing must not split them.
	cands := []models.Candidate{
		{Event: makeEvent("Jazz Night", time.Date(2025, 7, 4, 23, 50, 0, 0, time.UTC), venue)},
		{Event: makeEvent("Jazz Night", time.Date(2025, 7, 5, 0, 10, 0, 0, time.UTC), venue)},
	}

	groups := Clusters(cands, testJudge())
	if len(groups) != 1 {
		t.Fatalf("Clusters = %d groups, want 1", len(groups))
	}
}

func TestClusters_WideWindowSpansDayBuckets(t *testing.T) {
	judge := NewJudge(config.DedupConfig{
		TitleThreshold:   0.85,
		VenueThreshold:   0.70,
		ProximityMinutes: 1800,
		CutoffHours:      48,
		CoordMeters:      500,
	})

	venue := models.Location{VenueName: "The Blue Door"}

	// 26 hours apart: the starts land in day buckets two apart, which
	// a wide cutoff window must still reach.
	cands := []models.Candidate{
		{Event: makeEvent("Jazz Night", time.Date(2025, 7, 4, 23, 0, 0, 0, time.UTC), venue)},
		{Event: makeEvent("Jazz Night", time.Date(2025, 7, 6, 1, 0, 0, 0, time.UTC), venue)},
	}

	groups := Clusters(cands, judge)
	if len(groups) != 1 {
		t.Fatalf("Clusters = %d groups, want 1", len(groups))
	}
}

func TestClusters_DistinctEventsStaySeparate(t *testing.T) {
	start := time.Date(2025, 7, 4, 19, 0, 0, 0, time.UTC)
	venue := models.Location{VenueName: "The Blue Door"}

	cands := []models.Candidate{
		{Event: makeEvent("Jazz Night", start, venue)},
		{Event: makeEvent("Poetry Reading", start, venue)},
		{Event: makeEvent("Jazz Night", start.AddDate(0, 0, 7), venue)},
	}

	groups := Clusters(cands, testJudge())
	if len(groups) != 3 {
		t.Fatalf("Clusters = %d groups, want 3", len(groups))
	}
}
