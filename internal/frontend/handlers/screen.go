package handlers

import (
	"strings"

	"github.com/cory-johannsen/votemenot/internal/frontend/telnet"
	"github.com/cory-johannsen/votemenot/internal/game/dialogue"
)

// highlightStyle marks the highlighted phrase of a narrated line.
const highlightStyle = telnet.Bold + telnet.BrightYellow

// screen serializes a session's output. It erases a showing prompt before
// new output and breaks a half-typed narration line before a full line.
type screen struct {
	term        Terminal
	promptShown bool
	partial     bool
	err         error
}

func newScreen(term Terminal) *screen {
	return &screen{term: term}
}

func (s *screen) write(text string) {
	if s.err != nil || text == "" {
		return
	}
	if s.promptShown {
		text = telnet.ClearLine + text
		s.promptShown = false
	}
	s.err = s.term.Write([]byte(text))
}

// fragment writes text that continues the current line.
func (s *screen) fragment(text string) {
	s.write(text)
	s.partial = true
}

// line writes text on a line of its own.
func (s *screen) line(text string) {
	if s.partial {
		text = "\r\n" + text
		s.partial = false
	}
	s.write(text + "\r\n")
}

// block writes pre-formatted multi-line text.
func (s *screen) block(text string) {
	if text == "" {
		return
	}
	s.line(strings.TrimSuffix(text, "\r\n"))
}

// breakLine ends a half-written line, if any.
func (s *screen) breakLine() {
	if s.partial {
		s.write("\r\n")
		s.partial = false
	}
}

func (s *screen) prompt(p string) {
	s.breakLine()
	s.write(p)
	s.promptShown = true
}

// inputReceived records that the client's own line break moved past the prompt.
func (s *screen) inputReceived() {
	s.promptShown = false
}

// narrationSink streams narrator output to a screen as a typewriter.
type narrationSink struct {
	scr      *screen
	written  int
	finished func()
}

func (n *narrationSink) LineStarted(speaker string, _ dialogue.Line) {
	n.written = 0
	n.scr.breakLine()
	n.scr.fragment(telnet.Colorize(telnet.Cyan, speaker+": "))
}

func (n *narrationSink) Revealed(l dialogue.Line, visible int) {
	runes := []rune(l.Text)
	visible = min(visible, len(runes))
	if visible <= n.written {
		return
	}
	n.scr.fragment(styleRunes(l, runes, n.written, visible))
	n.written = visible
}

func (n *narrationSink) LineFinished(dialogue.Line) {
	n.scr.breakLine()
}

func (n *narrationSink) Finished() {
	if n.finished != nil {
		n.finished()
	}
}

// styleRunes renders runes[from:to] of l, wrapping the part that overlaps the
// line's highlight in highlightStyle.
func styleRunes(l dialogue.Line, runes []rune, from, to int) string {
	start, end, ok := l.HighlightSpan()
	if !ok || end <= from || start >= to {
		return string(runes[from:to])
	}
	hs, he := max(start, from), min(end, to)
	var b strings.Builder
	b.WriteString(string(runes[from:hs]))
	b.WriteString(telnet.Colorize(highlightStyle, string(runes[hs:he])))
	b.WriteString(string(runes[he:to]))
	return b.String()
}
