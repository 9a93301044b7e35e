// Package ethics accumulates the player's ethics score and classifies it into bands.
package ethics

import (
	"fmt"

	"go.uber.org/zap"
)

// Band is the coarse classification of a score.
type Band int

const (
	Evil Band = iota
	Neutral
	Good
)

func (b Band) String() string {
	switch b {
	case Evil:
		return "evil"
	case Neutral:
		return "neutral"
	case Good:
		return "good"
	default:
		return fmt.Sprintf("band(%d)", int(b))
	}
}

// Config holds the score bounds and band thresholds.
type Config struct {
	Initial       int
	Min           int
	Max           int
	EvilThreshold int
	GoodThreshold int
	// Clamp bounds the score to [Min, Max] after every update.
	Clamp bool
}

// DefaultConfig returns a clamped [0,100] meter starting at 50 with bands at 40 and 60.
func DefaultConfig() Config {
	return Config{Initial: 50, Min: 0, Max: 100, EvilThreshold: 40, GoodThreshold: 60, Clamp: true}
}

// Validate reports inconsistent bounds or thresholds.
func (c Config) Validate() error {
	if c.EvilThreshold >= c.GoodThreshold {
		return fmt.Errorf("ethics: evil threshold %d must be below good threshold %d", c.EvilThreshold, c.GoodThreshold)
	}
	if c.Clamp && c.Min > c.Max {
		return fmt.Errorf("ethics: min %d must not exceed max %d", c.Min, c.Max)
	}
	if c.Clamp && (c.Initial < c.Min || c.Initial > c.Max) {
		return fmt.Errorf("ethics: initial %d outside [%d, %d]", c.Initial, c.Min, c.Max)
	}
	return nil
}

// Classify returns Evil for s <= evil, Good for s >= good, otherwise Neutral.
func (c Config) Classify(s int) Band {
	switch {
	case s <= c.EvilThreshold:
		return Evil
	case s >= c.GoodThreshold:
		return Good
	default:
		return Neutral
	}
}

// BandChange is delivered to observers when the reported band changes.
type BandChange struct {
	From  Band
	To    Band
	Score int
}

// Tracker holds the score and the last reported band.
type Tracker struct {
	cfg       Config
	score     int
	band      Band
	logger    *zap.Logger
	observers []func(BandChange)
}

// NewTracker creates a Tracker at cfg.Initial.
//
// Precondition: cfg.Validate() == nil; logger must be non-nil.
func NewTracker(cfg Config, logger *zap.Logger) *Tracker {
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	if logger == nil {
		panic("ethics: NewTracker requires a non-nil logger")
	}
	return &Tracker{cfg: cfg, score: cfg.Initial, band: cfg.Classify(cfg.Initial), logger: logger}
}

// Subscribe registers fn for band-change notifications.
func (t *Tracker) Subscribe(fn func(BandChange)) {
	if fn != nil {
		t.observers = append(t.observers, fn)
	}
}

// Score returns the current score.
func (t *Tracker) Score() int { return t.score }

// Band returns the last reported band.
func (t *Tracker) Band() Band { return t.band }

// Config returns the tracker's configuration.
func (t *Tracker) Config() Config { return t.cfg }

// Update adds delta to the score and notifies observers if the band changed.
//
// Postcondition: Band() == Config().Classify(Score()); returns true iff the band changed.
func (t *Tracker) Update(delta int) bool {
	t.score += delta
	if t.cfg.Clamp {
		t.score = max(t.cfg.Min, min(t.cfg.Max, t.score))
	}
	next := t.cfg.Classify(t.score)
	t.logger.Debug("ethics updated", zap.Int("delta", delta), zap.Int("score", t.score))
	if next == t.band {
		return false
	}
	change := BandChange{From: t.band, To: next, Score: t.score}
	t.band = next
	t.logger.Info("ethics band changed",
		zap.Stringer("from", change.From),
		zap.Stringer("to", change.To),
		zap.Int("score", change.Score),
	)
	for _, fn := range t.observers {
		fn(change)
	}
	return true
}
