// Package chunk packs ordered words into chat-sized messages.
package chunk

import "strings"

// DefaultCapBytes is the chat message size budget used when none is configured.
const DefaultCapBytes = 500

// Segment is one outbound message worth of words.
type Segment []string

// String joins the words with single spaces.
func (s Segment) String() string { return strings.Join(s, " ") }

// Split packs words greedily, in order, into segments.
//
// Each word costs len(word)+1 bytes. When the running total goes over capBytes a
// new segment is opened and capBytes is subtracted from the total, so the
// overflow carries into the next segment. The result always holds at least one
// segment; for empty input that segment is empty.
func Split(words []string, capBytes int) []Segment {
	if capBytes <= 0 {
		capBytes = DefaultCapBytes
	}

	segments := []Segment{{}}
	total := 0
	for _, w := range words {
		total += len(w) + 1
		if total > capBytes {
			total -= capBytes
			// a word wider than the cap stays put instead of leaving an empty segment behind
			if len(segments[len(segments)-1]) > 0 {
				segments = append(segments, Segment{})
			}
		}
		last := len(segments) - 1
		segments[last] = append(segments[last], w)
	}
	return segments
}

// Render returns the rendered text of every segment.
func Render(segments []Segment) []string {
	out := make([]string, len(segments))
	for i, s := range segments {
		out[i] = s.String()
	}
	return out
}
