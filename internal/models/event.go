// Package models defines data structures shared by the source adapters and the pipeline.
package models

import (
	"sort"
	"time"
)

// Category is the fixed event category enumeration.
type Category string

// Event categories. Free-text category hints are mapped onto these by
// the normalizer; anything unrecognized falls back to CategoryOther.
const (
	CategoryMusic       Category = "music"
	CategoryArtsCulture Category = "arts and culture"
	CategoryFoodDrink   Category = "food and drink"
	CategoryTheater     Category = "theater"
	CategoryLectures    Category = "lectures"
	CategorySports      Category = "sports"
	CategoryCommunity   Category = "community"
	CategoryOther       Category = "other"
)

// Categories returns all categories in a stable order.
func Categories() []Category {
	return []Category{
		CategoryMusic,
		CategoryArtsCulture,
		CategoryFoodDrink,
		CategoryTheater,
		CategoryLectures,
		CategorySports,
		CategoryCommunity,
		CategoryOther,
	}
}

// Valid reports whether c is a member of the enumeration.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}

	return false
}

// Field length bounds for the canonical schema.
const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 2000
	MaxVenueNameLen   = 150
	MaxStreetLen      = 200
	MaxCityLen        = 50
	MaxStateLen       = 2
	MaxZipLen         = 10
)

// Provenance records one source observation that contributed to an event.
type Provenance struct {
	SourceName string    `json:"source_name"`
	SourceURL  string    `json:"source_url"`
	ScrapedAt  time.Time `json:"scraped_at"`
}

// Location holds the optional venue/address block of an event.
type Location struct {
	VenueName     string   `json:"venue_name,omitempty"`
	StreetAddress string   `json:"street_address,omitempty"`
	City          string   `json:"city,omitempty"`
	State         string   `json:"state,omitempty"`
	ZipCode       string   `json:"zip_code,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
}

// Empty reports whether no location information is present at all.
func (l Location) Empty() bool {
	return l.VenueName == "" && l.StreetAddress == "" && l.City == "" &&
		l.State == "" && l.ZipCode == "" && l.Latitude == nil && l.Longitude == nil
}

// HasCoordinates reports whether both latitude and longitude are set.
func (l Location) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// Event is the canonical normalized event record.
type Event struct {
	ID                   string       `json:"id"`
	Title                string       `json:"title"`
	Description          string       `json:"description"`
	StartDatetime        time.Time    `json:"start_datetime"`
	EndDatetime          *time.Time   `json:"end_datetime,omitempty"`
	AllDay               bool         `json:"all_day"`
	Location             Location     `json:"location"`
	Category             Category     `json:"category"`
	Tags                 []string     `json:"tags,omitempty"`
	Cost                 string       `json:"cost,omitempty"`
	AgeRestrictions      string       `json:"age_restrictions,omitempty"`
	RegistrationRequired bool         `json:"registration_required"`
	ContactEmail         string       `json:"contact_email,omitempty"`
	ContactPhone         string       `json:"contact_phone,omitempty"`
	WebsiteURL           string       `json:"website_url,omitempty"`
	ImageURL             string       `json:"image_url,omitempty"`
	Provenance           []Provenance `json:"provenance"`
	FlagReasons          []string     `json:"flag_reasons,omitempty"`
	LastUpdated          time.Time    `json:"last_updated"`
}

// AddTags merges tags into the event's tag set, keeping values unique and sorted.
func (e *Event) AddTags(tags ...string) {
	if len(tags) == 0 {
		return
	}

	seen := make(map[string]bool, len(e.Tags)+len(tags))
	for _, t := range e.Tags {
		seen[t] = true
	}

	for _, t := range tags {
		if t == "" || seen[t] {
			continue
		}

		seen[t] = true

		e.Tags = append(e.Tags, t)
	}

	sort.Strings(e.Tags)
}

// Candidate is a normalized event that has not yet been deduplicated.
// SourcePriority carries the configured priority of the producing
// source, used for merge tie-breaking.
type Candidate struct {
	Event          Event
	SourcePriority int
}
