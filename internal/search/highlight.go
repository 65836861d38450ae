package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Segment is a piece of text that either matched the query or did not.
// Concatenating the Text of all segments reproduces the input exactly.
type Segment struct {
	Text  string `json:"text"`
	Match bool   `json:"match"`
}

// Highlight splits text on case-insensitive occurrences of query. Matches are
// found left to right and never overlap. A blank query yields the whole text
// as a single non-matching segment.
func Highlight(text, query string) []Segment {
	q := []rune(norm.NFC.String(strings.TrimSpace(query)))
	if len(q) == 0 {
		return []Segment{{Text: text}}
	}

	tr := []rune(text)
	var segments []Segment
	last := 0

	for i := 0; i+len(q) <= len(tr); {
		if !foldEqual(tr[i:i+len(q)], q) {
			i++
			continue
		}
		if i > last {
			segments = append(segments, Segment{Text: string(tr[last:i])})
		}
		segments = append(segments, Segment{Text: string(tr[i : i+len(q)]), Match: true})
		i += len(q)
		last = i
	}

	if last < len(tr) || len(segments) == 0 {
		segments = append(segments, Segment{Text: string(tr[last:])})
	}
	return segments
}

// foldEqual compares two equal-length rune slices case-insensitively.
func foldEqual(a, b []rune) bool {
	for i := range a {
		if unicode.ToLower(a[i]) != unicode.ToLower(b[i]) {
			return false
		}
	}
	return true
}
