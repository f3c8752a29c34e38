package normalizer

import (
	"regexp"
	"strings"
	"time"

	"eventpipe/internal/models"
	"eventpipe/pkg/utils"
)

// Decision is the validator's verdict for one candidate.
type Decision string

const (
	// DecisionAccept admits the candidate unchanged.
	DecisionAccept Decision = "accept"
	// DecisionReject drops the candidate from all downstream stages.
	DecisionReject Decision = "reject"
	// DecisionFlag admits the candidate but marks it for operator review.
	DecisionFlag Decision = "flag"
)

// Validation reasons, recorded in logs and flag metadata.
const (
	ReasonMissingTitle    = "MissingTitle"
	ReasonLowQualityTitle = "LowQualityTitle"
	ReasonInvalidDate     = "InvalidDate"
	ReasonMissingSource   = "MissingSource"
	ReasonEndBeforeStart  = "EndBeforeStart"
	ReasonBadEmail        = "BadEmail"
	ReasonBadPhone        = "BadPhone"
	ReasonBadURL          = "BadURL"
)

// Outcome is the validator's structured result; exactly one is
// produced per candidate, never a panic.
type Outcome struct {
	Decision Decision
	Reasons  []string
}

var (
	numericTitlePattern = regexp.MustCompile(`^[\d/\-\s:]+$`)
	monthDayPattern     = regexp.MustCompile(`^(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)\d{1,2}$`)

	genericTitles = map[string]bool{
		"event": true, "show": true, "performance": true,
		"image": true, "home": true, "calendar": true,
	}

	uiTitleFragments = []string{"jump to", "click here", "more info", "iframe", "please update"}
)

// Earliest start instant treated as real data rather than corruption.
var corruptDateFloor = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// Validator checks candidates against completeness and sanity rules.
type Validator struct {
	http            *utils.HTTPHelper
	pastTolerance   time.Duration
	futureTolerance time.Duration
}

// NewValidator creates a validator. pastTolerance bounds how stale a
// start time may be relative to its fetch time before rejection.
func NewValidator(pastTolerance time.Duration) *Validator {
	return &Validator{
		http:            utils.NewHTTPHelper(),
		pastTolerance:   pastTolerance,
		futureTolerance: 2 * 365 * 24 * time.Hour,
	}
}

// Validate checks one candidate and returns exactly one outcome.
// Flag-level problems repair the offending field in place (dropping a
// bad end time, clearing a bad email) instead of losing the record.
func (v *Validator) Validate(c *models.Candidate) Outcome {
	if c == nil {
		return Outcome{Decision: DecisionReject, Reasons: []string{ReasonMissingTitle}}
	}

	event := &c.Event

	if event.Title == "" {
		return Outcome{Decision: DecisionReject, Reasons: []string{ReasonMissingTitle}}
	}

	if isLowQualityTitle(event.Title) {
		return Outcome{Decision: DecisionReject, Reasons: []string{ReasonLowQualityTitle}}
	}

	if len(event.Provenance) == 0 || event.Provenance[0].SourceURL == "" ||
		!v.http.IsValidURL(event.Provenance[0].SourceURL) {
		return Outcome{Decision: DecisionReject, Reasons: []string{ReasonMissingSource}}
	}

	fetchTime := event.Provenance[0].ScrapedAt

	if event.StartDatetime.IsZero() || event.StartDatetime.Before(corruptDateFloor) {
		return Outcome{Decision: DecisionReject, Reasons: []string{ReasonInvalidDate}}
	}

	if event.StartDatetime.Before(fetchTime.Add(-v.pastTolerance)) {
		return Outcome{Decision: DecisionReject, Reasons: []string{ReasonInvalidDate}}
	}

	if event.StartDatetime.After(fetchTime.Add(v.futureTolerance)) {
		return Outcome{Decision: DecisionReject, Reasons: []string{ReasonInvalidDate}}
	}

	var flags []string

	if event.EndDatetime != nil && event.EndDatetime.Before(event.StartDatetime) {
		event.EndDatetime = nil
		flags = append(flags, ReasonEndBeforeStart)
	}

	if event.ContactEmail != "" && !v.http.IsValidEmail(event.ContactEmail) {
		event.ContactEmail = ""
		flags = append(flags, ReasonBadEmail)
	}

	if event.ContactPhone != "" && !v.http.IsValidPhone(event.ContactPhone) {
		event.ContactPhone = ""
		flags = append(flags, ReasonBadPhone)
	}

	if event.WebsiteURL != "" && !v.http.IsValidURL(event.WebsiteURL) {
		event.WebsiteURL = ""
		flags = append(flags, ReasonBadURL)
	}

	if event.ImageURL != "" && !v.http.IsValidURL(event.ImageURL) {
		event.ImageURL = ""
		flags = append(flags, ReasonBadURL)
	}

	if len(flags) > 0 {
		event.FlagReasons = append(event.FlagReasons, flags...)

		return Outcome{Decision: DecisionFlag, Reasons: flags}
	}

	return Outcome{Decision: DecisionAccept}
}

// isLowQualityTitle screens out navigation text and other extraction
// garbage that venue pages commonly leak into listings.
func isLowQualityTitle(title string) bool {
	lower := strings.ToLower(strings.TrimSpace(title))

	if len(lower) < 3 {
		return true
	}

	if numericTitlePattern.MatchString(lower) {
		return true
	}

	if monthDayPattern.MatchString(lower) {
		return true
	}

	if genericTitles[lower] {
		return true
	}

	for _, fragment := range uiTitleFragments {
		if strings.Contains(lower, fragment) {
			return true
		}
	}

	return false
}
