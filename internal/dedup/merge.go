package dedup

import (
	"sort"

	"github.com/google/uuid"

	"eventpipe/internal/models"
)

// CompletenessScore weighs how much usable information a record
// carries. It picks the representative member during merge and is the
// first tie-break for scalar field selection.
func CompletenessScore(e *models.Event) int {
	score := 0

	for _, field := range []string{
		e.Location.VenueName,
		e.Location.StreetAddress,
		e.Location.City,
		e.Location.State,
		e.Location.ZipCode,
		e.Cost,
		e.AgeRestrictions,
		e.ContactEmail,
		e.ContactPhone,
		e.WebsiteURL,
		e.ImageURL,
	} {
		if field != "" {
			score++
		}
	}

	if e.Location.HasCoordinates() {
		score += 2
	}

	if e.EndDatetime != nil {
		score++
	}

	if len(e.Tags) > 0 {
		score++
	}

	// Longer descriptions count, capped so one verbose source cannot
	// outweigh every structured field.
	lengthBonus := len(e.Description) / 250
	if lengthBonus > 4 {
		lengthBonus = 4
	}

	return score + lengthBonus
}

// moreRepresentative orders cluster members for field selection:
// completeness, then configured source priority, then lexicographic
// source identity so the order is total and deterministic.
func moreRepresentative(a, b models.Candidate) bool {
	as, bs := CompletenessScore(&a.Event), CompletenessScore(&b.Event)
	if as != bs {
		return as > bs
	}

	if a.SourcePriority != b.SourcePriority {
		return a.SourcePriority > b.SourcePriority
	}

	an, bn := firstProvenance(a.Event), firstProvenance(b.Event)
	if an.SourceName != bn.SourceName {
		return an.SourceName < bn.SourceName
	}

	if an.SourceURL != bn.SourceURL {
		return an.SourceURL < bn.SourceURL
	}

	return a.Event.Title < b.Event.Title
}

func firstProvenance(e models.Event) models.Provenance {
	if len(e.Provenance) == 0 {
		return models.Provenance{}
	}

	return e.Provenance[0]
}

// Merge collapses one cluster into a single event. Scalar fields come
// from the most representative member, empty optional fields are
// backfilled from the remaining members in representativeness order,
// tags and provenance are unioned, and last_updated becomes the most
// recent contributing observation. Inputs are not mutated.
func Merge(members []models.Candidate) models.Event {
	sorted := make([]models.Candidate, len(members))
	copy(sorted, members)
	sort.SliceStable(sorted, func(i, j int) bool { return moreRepresentative(sorted[i], sorted[j]) })

	merged := sorted[0].Event
	merged.Tags = nil
	merged.Provenance = nil
	merged.FlagReasons = nil

	for _, member := range sorted {
		e := member.Event

		if merged.EndDatetime == nil && e.EndDatetime != nil {
			end := *e.EndDatetime
			merged.EndDatetime = &end
		}

		if merged.Location.VenueName == "" {
			merged.Location.VenueName = e.Location.VenueName
		}

		if merged.Location.StreetAddress == "" {
			merged.Location.StreetAddress = e.Location.StreetAddress
			merged.Location.City = pickNonEmpty(merged.Location.City, e.Location.City)
			merged.Location.State = pickNonEmpty(merged.Location.State, e.Location.State)
			merged.Location.ZipCode = pickNonEmpty(merged.Location.ZipCode, e.Location.ZipCode)
		}

		if !merged.Location.HasCoordinates() && e.Location.HasCoordinates() {
			lat, lon := *e.Location.Latitude, *e.Location.Longitude
			merged.Location.Latitude = &lat
			merged.Location.Longitude = &lon
		}

		if merged.Category == models.CategoryOther && e.Category != models.CategoryOther {
			merged.Category = e.Category
		}

		merged.Cost = pickNonEmpty(merged.Cost, e.Cost)
		merged.AgeRestrictions = pickNonEmpty(merged.AgeRestrictions, e.AgeRestrictions)
		merged.ContactEmail = pickNonEmpty(merged.ContactEmail, e.ContactEmail)
		merged.ContactPhone = pickNonEmpty(merged.ContactPhone, e.ContactPhone)
		merged.WebsiteURL = pickNonEmpty(merged.WebsiteURL, e.WebsiteURL)
		merged.ImageURL = pickNonEmpty(merged.ImageURL, e.ImageURL)
		merged.RegistrationRequired = merged.RegistrationRequired || e.RegistrationRequired

		merged.AddTags(e.Tags...)
		merged.FlagReasons = unionStrings(merged.FlagReasons, e.FlagReasons)

		for _, p := range e.Provenance {
			merged.Provenance = appendProvenance(merged.Provenance, p)

			if p.ScrapedAt.After(merged.LastUpdated) {
				merged.LastUpdated = p.ScrapedAt
			}
		}
	}

	sortProvenance(merged.Provenance)

	return merged
}

// appendProvenance adds an entry unless the same (source, url) pair is
// already present; the earliest observation for a pair is kept.
func appendProvenance(entries []models.Provenance, p models.Provenance) []models.Provenance {
	for i, existing := range entries {
		if existing.SourceName == p.SourceName && existing.SourceURL == p.SourceURL {
			if p.ScrapedAt.Before(existing.ScrapedAt) {
				entries[i].ScrapedAt = p.ScrapedAt
			}

			return entries
		}
	}

	return append(entries, p)
}

func sortProvenance(entries []models.Provenance) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].ScrapedAt.Equal(entries[j].ScrapedAt) {
			return entries[i].ScrapedAt.Before(entries[j].ScrapedAt)
		}

		if entries[i].SourceName != entries[j].SourceName {
			return entries[i].SourceName < entries[j].SourceName
		}

		return entries[i].SourceURL < entries[j].SourceURL
	})
}

func pickNonEmpty(current, fallback string) string {
	if current != "" {
		return current
	}

	return fallback
}

func unionStrings(dst, src []string) []string {
	for _, s := range src {
		found := false

		for _, existing := range dst {
			if existing == s {
				found = true

				break
			}
		}

		if !found {
			dst = append(dst, s)
		}
	}

	sort.Strings(dst)

	return dst
}

// Deduplicate clusters the admitted candidate set and merges every
// cluster, returning the canonical events sorted by start time. The
// result set is identical for any permutation of the input.
func Deduplicate(cands []models.Candidate, judge *Judge) []models.Event {
	// Canonical candidate order first, so cluster indices and merge
	// inputs do not depend on arrival order.
	ordered := make([]models.Candidate, len(cands))
	copy(ordered, cands)
	sort.SliceStable(ordered, func(i, j int) bool { return candidateLess(ordered[i], ordered[j]) })

	groups := Clusters(ordered, judge)

	events := make([]models.Event, 0, len(groups))

	for _, group := range groups {
		members := make([]models.Candidate, 0, len(group))
		for _, idx := range group {
			members = append(members, ordered[idx])
		}

		events = append(events, Merge(members))
	}

	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].StartDatetime.Equal(events[j].StartDatetime) {
			return events[i].StartDatetime.Before(events[j].StartDatetime)
		}

		if events[i].Title != events[j].Title {
			return events[i].Title < events[j].Title
		}

		return firstProvenance(events[i]).SourceName < firstProvenance(events[j]).SourceName
	})

	return events
}

func candidateLess(a, b models.Candidate) bool {
	if !a.Event.StartDatetime.Equal(b.Event.StartDatetime) {
		return a.Event.StartDatetime.Before(b.Event.StartDatetime)
	}

	if a.Event.Title != b.Event.Title {
		return a.Event.Title < b.Event.Title
	}

	an, bn := firstProvenance(a.Event), firstProvenance(b.Event)
	if an.SourceName != bn.SourceName {
		return an.SourceName < bn.SourceName
	}

	return an.SourceURL < bn.SourceURL
}

// Finalize assigns each merged event a fresh identifier. IDs are
// random per run: the dataset is replaced wholesale on every run, so
// nothing external depends on id stability across runs.
func Finalize(events []models.Event) []models.Event {
	for i := range events {
		events[i].ID = uuid.NewString()
	}

	return events
}
