package dedup

import (
	"math"
	"testing"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "Jazz Night", "jazz night"},
		{"strips punctuation", "jazz night!", "jazz night"},
		{"collapses whitespace", "Jazz   Night\t Live", "jazz night live"},
		{"keeps digits", "Summerfest 2025", "summerfest 2025"},
		{"ampersand dropped", "Food & Drink", "food drink"},
		{"empty", "", ""},
		{"only punctuation", "?!...", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeText(tt.input); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "jazz night", "jazz night", 1},
		{"both empty", "", "", 0},
		{"one empty", "jazz night", "", 0},
		{"disjoint", "jazz night", "book club", 0.1},
		{"near match", "jazz night", "jaz night", 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 0.01 {
				t.Errorf("Similarity(%q, %q) = %v, want ~%v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestMatchRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "jazz night", "jazz night", 1},
		{"both empty", "", "", 0},
		{"one empty", "jazz night", "", 0},
		{"containment", "lilypad inman", "lilypad inman inman sq", 0.74},
		{"leading article", "blue door", "the blue door", 0.82},
		{"disjoint", "jazz night", "book club", 0.11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchRatio(tt.a, tt.b)
			if math.Abs(got-tt.want) > 0.01 {
				t.Errorf("MatchRatio(%q, %q) = %v, want ~%v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestMatchRatio_Symmetric(t *testing.T) {
	a, b := "lilypad inman", "lilypad inman inman sq"

	if MatchRatio(a, b) != MatchRatio(b, a) {
		t.Error("MatchRatio is not symmetric")
	}
}

func TestSimilarity_Symmetric(t *testing.T) {
	a, b := "jazz night at the blue door", "jazz nite at blue door"

	if Similarity(a, b) != Similarity(b, a) {
		t.Error("Similarity is not symmetric")
	}
}

func TestHaversineMeters(t *testing.T) {
	if got := HaversineMeters(42.1, -72.6, 42.1, -72.6); got != 0 {
		t.Errorf("same point distance = %v, want 0", got)
	}

	// One thousandth of a degree of latitude is about 111 meters.
	got := HaversineMeters(42.1, -72.6, 42.101, -72.6)
	if got < 100 || got > 125 {
		t.Errorf("distance = %v, want ~111m", got)
	}

	// Springfield, MA to Hartford, CT is roughly 38 km.
	got = HaversineMeters(42.1015, -72.5898, 41.7658, -72.6734)
	if got < 35000 || got > 42000 {
		t.Errorf("distance = %v, want ~38km", got)
	}
}
