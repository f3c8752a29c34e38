package normalizer

import (
	"fmt"
	"strings"
	"time"

	"eventpipe/internal/models"
	"eventpipe/pkg/utils"
)

// Transformer coerces raw candidate records into the canonical shape.
// Transform is pure: it performs no I/O and is safe for concurrent use.
type Transformer struct {
	strings      *utils.StringHelper
	loc          *time.Location
	defaultCity  string
	defaultState string
}

// NewTransformer creates a transformer. Naive date texts are
// interpreted in loc; defaultCity/defaultState backfill records whose
// sources never publish a city (single-town venue sites).
func NewTransformer(loc *time.Location, defaultCity, defaultState string) *Transformer {
	if loc == nil {
		loc = time.UTC
	}

	return &Transformer{
		strings:      utils.NewStringHelper(),
		loc:          loc,
		defaultCity:  defaultCity,
		defaultState: defaultState,
	}
}

// Transform converts one raw candidate into a candidate event. The
// returned candidate is always usable; when the start date cannot be
// parsed the candidate carries a zero start and the error wraps
// ErrUnparseableDate so the validator can reject it with context
// rather than the record vanishing silently.
func (t *Transformer) Transform(raw models.RawCandidate) (*models.Candidate, error) {
	event := models.Event{
		Title:                t.strings.CleanText(raw.Title, models.MaxTitleLen),
		Description:          t.strings.CleanText(raw.Description, models.MaxDescriptionLen),
		AllDay:               raw.AllDay,
		Cost:                 t.strings.NormalizeWhitespace(raw.CostText),
		AgeRestrictions:      t.strings.NormalizeWhitespace(raw.AgeText),
		RegistrationRequired: raw.Registration,
		ContactEmail:         t.strings.TrimWhitespace(raw.ContactEmail),
		ContactPhone:         t.strings.TrimWhitespace(raw.ContactPhone),
		WebsiteURL:           t.strings.TrimWhitespace(raw.WebsiteURL),
		ImageURL:             t.strings.TrimWhitespace(raw.ImageURL),
		Provenance: []models.Provenance{{
			SourceName: raw.SourceName,
			SourceURL:  raw.SourceURL,
			ScrapedAt:  raw.FetchTime,
		}},
		LastUpdated: raw.FetchTime,
	}

	if event.Description == "" {
		event.Description = event.Title
	}

	event.Location = t.buildLocation(raw)
	event.Category = t.inferCategory(raw)
	event.AddTags(cleanTags(raw.Tags)...)

	var parseErr error

	start, dateOnly, err := ParseDateTime(raw.StartText, raw.FetchTime, t.loc)
	if err != nil {
		parseErr = fmt.Errorf("%w: start %q from %s", ErrUnparseableDate, raw.StartText, raw.SourceName)
	} else {
		event.StartDatetime = start
		if dateOnly {
			event.AllDay = true
		}
	}

	// End times are best-effort; an unparseable end is simply absent.
	if raw.EndText != "" && parseErr == nil {
		if end, _, endErr := ParseDateTime(raw.EndText, raw.FetchTime, t.loc); endErr == nil {
			event.EndDatetime = &end
		}
	}

	return &models.Candidate{Event: event}, parseErr
}

func (t *Transformer) buildLocation(raw models.RawCandidate) models.Location {
	loc := models.Location{
		VenueName: t.strings.CleanText(raw.VenueText, models.MaxVenueNameLen),
		Latitude:  raw.Latitude,
		Longitude: raw.Longitude,
	}

	if raw.AddressText != "" {
		split := SplitAddress(t.strings.StripHTML(raw.AddressText))
		loc.StreetAddress = t.strings.Truncate(split.StreetAddress, models.MaxStreetLen)
		loc.City = t.strings.Truncate(split.City, models.MaxCityLen)
		loc.State = t.strings.Truncate(split.State, models.MaxStateLen)
		loc.ZipCode = t.strings.Truncate(split.ZipCode, models.MaxZipLen)
	}

	// Only backfill town defaults for records that have some location;
	// a record with no location at all stays that way so the
	// deduplicator can treat it as location-less.
	if loc.VenueName != "" || loc.StreetAddress != "" {
		if loc.City == "" {
			loc.City = t.defaultCity
		}

		if loc.State == "" {
			loc.State = t.defaultState
		}
	}

	return loc
}

func (t *Transformer) inferCategory(raw models.RawCandidate) models.Category {
	category := InferCategory(raw.CategoryHint)
	if category == models.CategoryOther && strings.TrimSpace(raw.CategoryHint) == "" {
		// No hint at all: fall back to keywords in the title.
		category = InferCategory(raw.Title)
	}

	return category
}

func cleanTags(tags []string) []string {
	cleaned := make([]string, 0, len(tags))

	for _, tag := range tags {
		tag = strings.ToLower(strings.Join(strings.Fields(tag), " "))
		if tag != "" {
			cleaned = append(cleaned, tag)
		}
	}

	return cleaned
}
