// Package dedup partitions candidate events into duplicate clusters
// and merges each cluster into one canonical record with provenance.
package dedup

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// NormalizeText lowercases text and strips punctuation so fuzzy
// comparison sees "Jazz Night!" and "jazz night" as the same string.
func NormalizeText(s string) string {
	var b strings.Builder

	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Similarity returns an edit-distance ratio on a 0-1 scale. Both
// inputs are expected to be normalized already. Two empty strings
// carry no signal and score 0.
func Similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 0
	}

	if a == b {
		return 1
	}

	maxLen := utf8.RuneCountInString(a)
	if l := utf8.RuneCountInString(b); l > maxLen {
		maxLen = l
	}

	distance := levenshtein.ComputeDistance(a, b)

	return 1 - float64(distance)/float64(maxLen)
}

// MatchRatio returns a matching-blocks ratio, 2*M/(len(a)+len(b))
// where M is the total length of the common blocks. Unlike the edit
// distance ratio it stays high when one string contains the other, so
// "lilypad inman" scores well against "lilypad inman inman sq". Both
// inputs are expected to be normalized already; two empty strings
// score 0.
func MatchRatio(a, b string) float64 {
	if a == "" && b == "" {
		return 0
	}

	ra := []rune(a)
	rb := []rune(b)

	return 2 * float64(matchedRunes(ra, rb)) / float64(len(ra)+len(rb))
}

// matchedRunes sums the longest common substring and, recursively,
// the matches in the unmatched flanks on either side of it.
func matchedRunes(a, b []rune) int {
	ai, bi, size := longestCommonRun(a, b)
	if size == 0 {
		return 0
	}

	return size +
		matchedRunes(a[:ai], b[:bi]) +
		matchedRunes(a[ai+size:], b[bi+size:])
}

// longestCommonRun finds the longest common substring of a and b,
// preferring the earliest position on ties.
func longestCommonRun(a, b []rune) (ai, bi, size int) {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
				if cur[j] > size {
					size = cur[j]
					ai = i - size
					bi = j - size
				}
			} else {
				cur[j] = 0
			}
		}

		prev, cur = cur, prev
		for j := range cur {
			cur[j] = 0
		}
	}

	return ai, bi, size
}

const earthRadiusMeters = 6371000

// HaversineMeters returns the great-circle distance between two
// coordinate pairs in meters.
func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
