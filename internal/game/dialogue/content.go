// Package dialogue defines narration content and the branching question trees
// a speaker can be questioned through.
package dialogue

import (
	"strings"
	"time"
)

// Line is one narrated line.
type Line struct {
	Text string
	// Highlight is an optional substring of Text rendered with emphasis.
	Highlight string
	// Voice names an optional audio cue; VoiceDuration holds the line open
	// until the cue would have finished.
	Voice         string
	VoiceDuration time.Duration
}

// HighlightSpan returns the rune offsets [start, end) of Highlight within Text.
//
// Postcondition: ok is false when Highlight is empty or absent from Text.
func (l Line) HighlightSpan() (start, end int, ok bool) {
	if l.Highlight == "" {
		return 0, 0, false
	}
	idx := strings.Index(l.Text, l.Highlight)
	if idx < 0 {
		return 0, 0, false
	}
	start = len([]rune(l.Text[:idx]))
	return start, start + len([]rune(l.Highlight)), true
}

// Content is an ordered sequence of lines played as one unit.
type Content []Line

// Empty reports whether there is nothing to play.
func (c Content) Empty() bool { return len(c) == 0 }

// Text joins every line's text with newlines.
func (c Content) Text() string {
	parts := make([]string, len(c))
	for i, l := range c {
		parts[i] = l.Text
	}
	return strings.Join(parts, "\n")
}
