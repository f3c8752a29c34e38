package dedup

import (
	"strings"
	"time"

	"eventpipe/internal/config"
	"eventpipe/internal/models"
)

// Judge decides whether two candidates describe the same real event.
type Judge struct {
	cfg config.DedupConfig
}

// NewJudge creates a judge with the configured thresholds.
func NewJudge(cfg config.DedupConfig) *Judge {
	return &Judge{cfg: cfg}
}

// Duplicates reports whether a and b describe the same physical event.
// The judgment is symmetric but not necessarily transitive; clustering
// resolves chains. A pair matches only when the titles are strongly
// similar AND the start times are close AND a location signal is
// present (or both records omit location entirely). Start times more
// than the hard cutoff apart never match, whatever the other signals.
func (j *Judge) Duplicates(a, b *models.Event) bool {
	delta := a.StartDatetime.Sub(b.StartDatetime)
	if delta < 0 {
		delta = -delta
	}

	if delta > j.cfg.CutoffWindow() {
		return false
	}

	if delta > j.cfg.ProximityWindow() {
		return false
	}

	titleSim := Similarity(NormalizeText(a.Title), NormalizeText(b.Title))
	if titleSim < j.cfg.TitleThreshold {
		return false
	}

	if a.Location.Empty() && b.Location.Empty() {
		return true
	}

	return j.locationSignal(a.Location, b.Location)
}

func (j *Judge) locationSignal(a, b models.Location) bool {
	if a.VenueName != "" && b.VenueName != "" {
		// Venues compare with the matching-blocks ratio rather than
		// edit distance: one source often publishes a longer form of
		// the same venue ("Lilypad Inman" vs "Lilypad Inman, Inman Sq")
		// and the extra text must not drown the shared part.
		if MatchRatio(NormalizeText(a.VenueName), NormalizeText(b.VenueName)) >= j.cfg.VenueThreshold {
			return true
		}
	}

	if a.City != "" && a.StreetAddress != "" &&
		strings.EqualFold(a.City, b.City) && strings.EqualFold(a.StreetAddress, b.StreetAddress) {
		return true
	}

	if a.HasCoordinates() && b.HasCoordinates() {
		distance := HaversineMeters(*a.Latitude, *a.Longitude, *b.Latitude, *b.Longitude)
		if distance <= j.cfg.CoordMeters {
			return true
		}
	}

	return false
}

// Clusters partitions the candidate set into duplicate groups,
// returned as sorted index lists into cands. Candidates are
// pre-bucketed by start day so pairwise comparison stays local; each
// bucket is also compared with the following buckets the cutoff
// window can reach, so a window crossing midnight (or spanning days,
// when configured wide) loses no pairs. The result is identical to
// naive all-pairs comparison and independent of input order by
// construction.
func Clusters(cands []models.Candidate, judge *Judge) [][]int {
	uf := newUnionFind(len(cands))

	buckets := make(map[int64][]int)

	for i := range cands {
		day := cands[i].Event.StartDatetime.UTC().Unix() / int64(24*time.Hour/time.Second)
		buckets[day] = append(buckets[day], i)
	}

	// Two starts within the cutoff window can sit at most
	// ceil(cutoff/24h) day buckets apart.
	span := int64(1)
	if c := judge.cfg.CutoffWindow(); c > 24*time.Hour {
		span = int64((c + 24*time.Hour - 1) / (24 * time.Hour))
	}

	for day, members := range buckets {
		for x := 0; x < len(members); x++ {
			for y := x + 1; y < len(members); y++ {
				if judge.Duplicates(&cands[members[x]].Event, &cands[members[y]].Event) {
					uf.union(members[x], members[y])
				}
			}

			for ahead := int64(1); ahead <= span; ahead++ {
				for _, next := range buckets[day+ahead] {
					if judge.Duplicates(&cands[members[x]].Event, &cands[next].Event) {
						uf.union(members[x], next)
					}
				}
			}
		}
	}

	return uf.groups()
}
