package utils

import (
	"regexp"
	"strings"
)

var (
	tagPattern    = regexp.MustCompile(`<[^>]*>`)
	entityPattern = regexp.MustCompile(`&#?[a-zA-Z0-9]+;`)

	namedEntities = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&apos;", "'",
		"&nbsp;", " ",
		"&ndash;", "-",
		"&mdash;", "-",
		"&hellip;", "...",
	)
)

// StringHelper provides string utility functions.
type StringHelper struct{}

// NewStringHelper creates a new string helper.
func NewStringHelper() *StringHelper {
	return &StringHelper{}
}

// TrimWhitespace removes leading and trailing whitespace.
func (s *StringHelper) TrimWhitespace(str string) string {
	return strings.TrimSpace(str)
}

// NormalizeWhitespace replaces multiple whitespace with single space.
func (s *StringHelper) NormalizeWhitespace(str string) string {
	return strings.Join(strings.Fields(str), " ")
}

// StripHTML removes markup tags and decodes common HTML entities.
// Unknown entities are replaced with a space rather than kept.
func (s *StringHelper) StripHTML(str string) string {
	str = tagPattern.ReplaceAllString(str, " ")
	str = namedEntities.Replace(str)
	str = entityPattern.ReplaceAllString(str, " ")

	return s.NormalizeWhitespace(str)
}

// Truncate cuts a string down to maxLength runes. Overlong input is
// never an error; the excess is simply dropped.
func (s *StringHelper) Truncate(str string, maxLength int) string {
	runes := []rune(str)
	if len(runes) <= maxLength {
		return str
	}

	return strings.TrimSpace(string(runes[:maxLength]))
}

// CleanText strips markup, collapses whitespace, and truncates in one pass.
func (s *StringHelper) CleanText(str string, maxLength int) string {
	return s.Truncate(s.StripHTML(str), maxLength)
}
