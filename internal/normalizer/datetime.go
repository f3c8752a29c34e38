package normalizer

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// ErrUnparseableDate is returned when no known format matches a date text.
var ErrUnparseableDate = errors.New("unparseable date")

var (
	ordinalPattern = regexp.MustCompile(`(\d+)(?:st|nd|rd|th)\b`)
	meridiemWords  = map[string]string{"am": "AM", "pm": "PM", "a.m.": "AM", "p.m.": "PM"}
)

// Layouts with an explicit time component.
var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"01/02/2006 3:04 PM",
	"01/02/2006 15:04",
	"January 2, 2006 3:04 PM",
	"January 2, 2006 at 3:04 PM",
	"January 2, 2006, 3:04 PM",
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006 at 3:04 PM",
	"Monday, January 2, 2006 3:04 PM",
	"Monday, January 2, 2006 at 3:04 PM",
	"January 2, 2006 3 PM",
	"Jan 2 2006 3:04 PM",
}

// Date-only layouts.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"Monday, January 2, 2006",
	"January 2 2006",
}

// Yearless layouts, resolved against the fetch time.
var yearlessDatetimeLayouts = []string{
	"January 2 3:04 PM",
	"January 2 at 3:04 PM",
	"January 2, 3:04 PM",
	"Jan 2 3:04 PM",
	"Jan 2 at 3:04 PM",
	"Monday, January 2 3:04 PM",
	"Monday, January 2 at 3:04 PM",
}

var yearlessDateLayouts = []string{
	"January 2",
	"Jan 2",
	"Monday, January 2",
	"Monday January 2",
}

var timeOnlyLayouts = []string{
	"3:04 PM",
	"3:04PM",
	"3:04pm",
	"3 PM",
	"3PM",
	"3pm",
	"15:04",
}

// ParseDateTime parses one of the supported textual date formats.
// Naive texts are interpreted in loc; relative forms ("Today",
// "Tomorrow") are resolved against ref. The returned bool reports
// whether the text carried only a date, no clock time.
func ParseDateTime(text string, ref time.Time, loc *time.Location) (time.Time, bool, error) {
	s := canonicalizeDateText(text)
	if s == "" {
		return time.Time{}, false, ErrUnparseableDate
	}

	if t, dateOnly, ok := parseRelative(s, ref, loc); ok {
		return t, dateOnly, nil
	}

	for _, layout := range datetimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, false, nil
		}
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true, nil
		}
	}

	for _, layout := range yearlessDatetimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return resolveYear(t, ref.In(loc)), false, nil
		}
	}

	for _, layout := range yearlessDateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return resolveYear(t, ref.In(loc)), true, nil
		}
	}

	return time.Time{}, false, ErrUnparseableDate
}

// canonicalizeDateText normalizes whitespace, casing, ordinals, and
// separators so one set of layouts covers the common scraped variants.
func canonicalizeDateText(text string) string {
	s := strings.Join(strings.Fields(text), " ")
	s = strings.ReplaceAll(s, " @ ", " at ")
	s = ordinalPattern.ReplaceAllString(s, "$1")

	words := strings.Split(s, " ")
	for i, word := range words {
		lower := strings.ToLower(word)
		if replacement, ok := meridiemWords[lower]; ok {
			words[i] = replacement

			continue
		}

		// The "at" separator must stay lowercase to match its layouts.
		if lower == "at" {
			words[i] = "at"

			continue
		}

		// Month and weekday names parse title-cased.
		if len(word) > 0 && word[0] >= 'a' && word[0] <= 'z' {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		} else if len(word) > 1 && word[0] >= 'A' && word[0] <= 'Z' && strings.ToUpper(word) == word && !strings.ContainsAny(word, "0123456789") {
			words[i] = word[:1] + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}

// parseRelative handles "Today"/"Tonight"/"Tomorrow", optionally
// followed by a clock time.
func parseRelative(s string, ref time.Time, loc *time.Location) (time.Time, bool, bool) {
	lower := strings.ToLower(s)

	var dayOffset int

	var rest string

	switch {
	case strings.HasPrefix(lower, "today"):
		rest = s[len("today"):]
	case strings.HasPrefix(lower, "tonight"):
		rest = s[len("tonight"):]
	case strings.HasPrefix(lower, "tomorrow"):
		dayOffset = 1
		rest = s[len("tomorrow"):]
	default:
		return time.Time{}, false, false
	}

	base := ref.In(loc).AddDate(0, 0, dayOffset)
	day := time.Date(base.Year(), base.Month(), base.Day(), 0, 0, 0, 0, loc)

	rest = strings.TrimSpace(rest)
	rest = strings.TrimSpace(strings.TrimPrefix(rest, "at "))

	if rest == "" {
		return day, true, true
	}

	for _, layout := range timeOnlyLayouts {
		if t, err := time.Parse(layout, rest); err == nil {
			return day.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), false, true
		}
	}

	// Unparseable trailing time still yields the day.
	return day, true, true
}

// resolveYear fills in the year for yearless dates, rolling forward
// when the date would otherwise sit more than a month in the past.
func resolveYear(t, ref time.Time) time.Time {
	resolved := time.Date(ref.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
	if resolved.Before(ref.AddDate(0, -1, 0)) {
		resolved = resolved.AddDate(1, 0, 0)
	}

	return resolved
}
