// Package utils provides common utility functions.
package utils

import (
	"net/url"
	"regexp"
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^[+()\d][\d\s().+-]{6,19}$`)
)

// HTTPHelper provides HTTP utility functions.
type HTTPHelper struct{}

// NewHTTPHelper creates a new HTTP helper.
func NewHTTPHelper() *HTTPHelper {
	return &HTTPHelper{}
}

// IsValidURL checks if a URL is well-formed with an http(s) scheme and host.
func (h *HTTPHelper) IsValidURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsValidEmail checks a string against a basic email shape.
func (h *HTTPHelper) IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsValidPhone checks a string against a loose phone number shape.
func (h *HTTPHelper) IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// BuildHeaders returns the default outbound request headers, with
// custom entries overriding the defaults.
func (h *HTTPHelper) BuildHeaders(custom map[string]string) map[string]string {
	headers := map[string]string{
		"User-Agent": "Mozilla/5.0 (compatible; EventPipe/1.0; +https://github.com/eventpipe)",
		"Accept":     "text/html,application/xhtml+xml,application/json;q=0.9,*/*;q=0.8",
	}

	for key, value := range custom {
		headers[key] = value
	}

	return headers
}
