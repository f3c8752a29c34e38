package utils

import "testing"

func TestStringHelper_NormalizeWhitespace(t *testing.T) {
	h := NewStringHelper()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"collapses runs", "Jazz   Night \t at  the  Blue   Door", "Jazz Night at the Blue Door"},
		{"trims ends", "  hello  ", "hello"},
		{"newlines", "line one\nline two", "line one line two"},
		{"empty", "", ""},
		{"only spaces", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.NormalizeWhitespace(tt.input); got != tt.want {
				t.Errorf("NormalizeWhitespace(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStringHelper_StripHTML(t *testing.T) {
	h := NewStringHelper()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"tags removed", "<p>Jazz <b>Night</b></p>", "Jazz Night"},
		{"named entities", "Food &amp; Drink", "Food & Drink"},
		{"numeric entity", "It&#39;s time", "It's time"},
		{"nbsp", "7:00&nbsp;PM", "7:00 PM"},
		{"unknown entity dropped", "caf&eacute; open", "caf open"},
		{"plain text unchanged", "no markup here", "no markup here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.StripHTML(tt.input); got != tt.want {
				t.Errorf("StripHTML(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStringHelper_Truncate(t *testing.T) {
	h := NewStringHelper()

	if got := h.Truncate("short", 10); got != "short" {
		t.Errorf("Truncate(short, 10) = %q, want unchanged", got)
	}

	if got := h.Truncate("abcdefghij", 4); got != "abcd" {
		t.Errorf("Truncate = %q, want abcd", got)
	}

	// Rune-safe: multibyte characters must not be split.
	if got := h.Truncate("日本語のイベント", 3); got != "日本語" {
		t.Errorf("Truncate multibyte = %q, want 日本語", got)
	}

	// Trailing whitespace left by the cut is trimmed.
	if got := h.Truncate("one two three", 8); got != "one two" {
		t.Errorf("Truncate = %q, want %q", got, "one two")
	}
}

func TestStringHelper_CleanText(t *testing.T) {
	h := NewStringHelper()

	got := h.CleanText("<div>  Jazz   &amp;  Blues  Night </div>", 12)
	if got != "Jazz & Blues" {
		t.Errorf("CleanText = %q, want %q", got, "Jazz & Blues")
	}
}
