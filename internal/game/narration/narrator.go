// Package narration plays dialogue content line by line on the caller's
// update loop and reports completion through a continuation.
package narration

import (
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/votemenot/internal/game/dialogue"
)

// Player is the contract the encounter controller narrates through.
type Player interface {
	// Play clears any in-flight sequence, then plays content. onComplete runs
	// exactly once, when the sequence is exhausted or cleared.
	Play(speaker string, content dialogue.Content, onComplete func())
	// Clear halts playback and fires the pending onComplete, if any.
	Clear()
}

// Sink receives rendering events from a Narrator.
type Sink interface {
	LineStarted(speaker string, line dialogue.Line)
	// Revealed reports that the first visible runes of line are showing.
	Revealed(line dialogue.Line, visible int)
	LineFinished(line dialogue.Line)
	Finished()
}

type nopSink struct{}

func (nopSink) LineStarted(string, dialogue.Line) {}
func (nopSink) Revealed(dialogue.Line, int)       {}
func (nopSink) LineFinished(dialogue.Line)        {}
func (nopSink) Finished()                         {}

// Config controls pacing.
type Config struct {
	CharDelay time.Duration
	LinePause time.Duration
	// AutoProgress advances after LinePause + AutoDelay; otherwise the
	// narrator waits for Advance.
	AutoProgress bool
	AutoDelay    time.Duration
}

// DefaultConfig returns 50ms per character, a one second line pause, and
// auto-progress after a further half second.
func DefaultConfig() Config {
	return Config{
		CharDelay:    50 * time.Millisecond,
		LinePause:    time.Second,
		AutoProgress: true,
		AutoDelay:    500 * time.Millisecond,
	}
}

type phase int

const (
	phaseIdle phase = iota
	phaseTyping
	phaseHold
	phaseAwait
)

// Narrator is a tick-driven Player with a typewriter reveal.
// It is not safe for concurrent use.
type Narrator struct {
	cfg    Config
	sink   Sink
	logger *zap.Logger

	speaker    string
	content    dialogue.Content
	line       int
	runes      int
	visible    int
	phase      phase
	elapsed    time.Duration
	phaseTotal time.Duration
	onComplete func()
}

// NewNarrator creates an idle Narrator. A nil sink discards rendering events.
//
// Precondition: logger must be non-nil.
func NewNarrator(cfg Config, sink Sink, logger *zap.Logger) *Narrator {
	if logger == nil {
		panic("narration: NewNarrator requires a non-nil logger")
	}
	if sink == nil {
		sink = nopSink{}
	}
	return &Narrator{cfg: cfg, sink: sink, logger: logger}
}

// Playing reports whether a sequence is in flight.
func (n *Narrator) Playing() bool { return n.phase != phaseIdle }

// AwaitingAdvance reports whether the current line is complete and waiting for Advance.
func (n *Narrator) AwaitingAdvance() bool { return n.phase == phaseAwait }

// Speaker returns the speaker of the in-flight sequence.
func (n *Narrator) Speaker() string { return n.speaker }

// Play implements Player. Empty content is logged and completes immediately.
func (n *Narrator) Play(speaker string, content dialogue.Content, onComplete func()) {
	n.Clear()
	if content.Empty() {
		n.logger.Warn("no dialogue content to play", zap.String("speaker", speaker))
		if onComplete != nil {
			onComplete()
		}
		return
	}
	n.speaker = speaker
	n.content = content
	n.onComplete = onComplete
	n.line = 0
	n.startLine()
}

// Clear implements Player.
//
// Postcondition: Playing() is false; a pending continuation has run once.
func (n *Narrator) Clear() {
	// A continuation may start another sequence; that one is cleared too.
	for n.phase != phaseIdle {
		n.finish()
	}
}

// Skip reveals the rest of the line being typed.
func (n *Narrator) Skip() {
	if n.phase == phaseTyping {
		n.finishTyping()
	}
}

// Advance skips typing, or moves past a finished line.
func (n *Narrator) Advance() {
	switch n.phase {
	case phaseTyping:
		n.finishTyping()
	case phaseHold, phaseAwait:
		n.nextLine()
	}
}

// Tick advances playback by dt. Returns as soon as a sequence completes, so a
// continuation that starts a new sequence begins on the next Tick.
func (n *Narrator) Tick(dt time.Duration) {
	for dt > 0 {
		switch n.phase {
		case phaseTyping:
			left := n.phaseTotal - n.elapsed
			if dt < left {
				n.elapsed += dt
				dt = 0
				if v := int(n.elapsed / n.cfg.CharDelay); v != n.visible {
					n.visible = v
					n.sink.Revealed(n.current(), v)
				}
				continue
			}
			dt -= left
			n.elapsed = n.phaseTotal
			n.finishTyping()
		case phaseHold:
			left := n.phaseTotal - n.elapsed
			if dt < left {
				n.elapsed += dt
				return
			}
			dt -= left
			if !n.cfg.AutoProgress {
				n.phase = phaseAwait
				return
			}
			if !n.nextLine() {
				return
			}
		default:
			return
		}
	}
}

func (n *Narrator) current() dialogue.Line {
	return n.content[n.line]
}

func (n *Narrator) startLine() {
	l := n.current()
	n.runes = len([]rune(l.Text))
	n.visible = 0
	n.elapsed = 0
	n.phase = phaseTyping
	n.phaseTotal = n.cfg.CharDelay * time.Duration(n.runes)
	n.sink.LineStarted(n.speaker, l)
	if n.cfg.CharDelay <= 0 || n.runes == 0 {
		n.finishTyping()
	}
}

func (n *Narrator) finishTyping() {
	l := n.current()
	typed := n.elapsed
	n.visible = n.runes
	n.sink.Revealed(l, n.runes)
	n.sink.LineFinished(l)
	hold := n.cfg.LinePause
	if l.VoiceDuration > typed {
		hold += l.VoiceDuration - typed
	}
	if n.cfg.AutoProgress {
		hold += n.cfg.AutoDelay
	}
	n.phase = phaseHold
	n.elapsed = 0
	n.phaseTotal = hold
}

// nextLine starts the following line; it returns false when the sequence ended.
func (n *Narrator) nextLine() bool {
	n.line++
	if n.line >= len(n.content) {
		n.finish()
		return false
	}
	n.startLine()
	return true
}

func (n *Narrator) finish() {
	cb := n.onComplete
	n.onComplete = nil
	n.phase = phaseIdle
	n.content = nil
	n.speaker = ""
	n.sink.Finished()
	if cb != nil {
		cb()
	}
}
