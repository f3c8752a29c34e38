package utils

import "testing"

func TestHTTPHelper_IsValidURL(t *testing.T) {
	h := NewHTTPHelper()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"https", "https://example.org/events", true},
		{"http", "http://example.org", true},
		{"ftp scheme", "ftp://example.org/file", false},
		{"no scheme", "example.org/events", false},
		{"no host", "https://", false},
		{"garbage", "not a url", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.IsValidURL(tt.input); got != tt.want {
				t.Errorf("IsValidURL(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestHTTPHelper_IsValidEmail(t *testing.T) {
	h := NewHTTPHelper()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"plain", "info@library.org", true},
		{"subdomain", "events@mail.city.gov", true},
		{"no at", "info.library.org", false},
		{"no domain dot", "info@library", false},
		{"spaces", "info @library.org", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.IsValidEmail(tt.input); got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestHTTPHelper_IsValidPhone(t *testing.T) {
	h := NewHTTPHelper()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"dashes", "555-123-4567", true},
		{"parens", "(555) 123-4567", true},
		{"international", "+1 555 123 4567", true},
		{"too short", "12345", false},
		{"words", "call the office", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.IsValidPhone(tt.input); got != tt.want {
				t.Errorf("IsValidPhone(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestHTTPHelper_BuildHeaders(t *testing.T) {
	h := NewHTTPHelper()

	headers := h.BuildHeaders(map[string]string{"X-Custom": "yes"})

	if headers["User-Agent"] == "" {
		t.Error("BuildHeaders missing User-Agent default")
	}

	if got := headers["X-Custom"]; got != "yes" {
		t.Errorf("BuildHeaders X-Custom = %q, want yes", got)
	}

	overridden := h.BuildHeaders(map[string]string{"Accept": "application/json"})
	if got := overridden["Accept"]; got != "application/json" {
		t.Errorf("BuildHeaders Accept = %q, want custom value to win", got)
	}
}
