package models

import "time"

// RawCandidate is one loosely-typed event record as extracted by a
// source adapter, before normalization. Text fields may contain HTML,
// free-form dates, and unsplit address lines.
type RawCandidate struct {
	SourceName string    `json:"source_name"`
	SourceURL  string    `json:"source_url"`
	FetchTime  time.Time `json:"fetch_time"`

	Title        string   `json:"title"`
	Description  string   `json:"description"`
	StartText    string   `json:"start_text"`
	EndText      string   `json:"end_text"`
	AllDay       bool     `json:"all_day"`
	VenueText    string   `json:"venue_text"`
	AddressText  string   `json:"address_text"`
	CategoryHint string   `json:"category_hint"`
	Tags         []string `json:"tags"`
	CostText     string   `json:"cost_text"`
	AgeText      string   `json:"age_text"`
	Registration bool     `json:"registration"`
	ContactEmail string   `json:"contact_email"`
	ContactPhone string   `json:"contact_phone"`
	WebsiteURL   string   `json:"website_url"`
	ImageURL     string   `json:"image_url"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
}

// SourceStatus describes the outcome of one adapter fetch.
type SourceStatus string

const (
	SourceSuccess SourceStatus = "success"
	SourcePartial SourceStatus = "partial"
	SourceFailed  SourceStatus = "failed"
)

// SourceResult is the per-source report produced by the intake stage.
type SourceResult struct {
	SourceName string        `json:"source_name"`
	Status     SourceStatus  `json:"status"`
	Candidates int           `json:"candidates"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration"`
}
