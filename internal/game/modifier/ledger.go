// Package modifier tracks every input to the player's effective stats: the
// active speaker's percent modifiers, a single timed consumable boost, and a
// temporary debuff applied after a failed hard check.
package modifier

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/votemenot/internal/game/clock"
	"github.com/cory-johannsen/votemenot/internal/game/dice"
	"github.com/cory-johannsen/votemenot/internal/game/skill"
)

// Config holds the immutable inputs of a Ledger.
type Config struct {
	BaseSpeech   int
	BaseScholar  int
	DebuffWindow time.Duration
}

// Snapshot is a read-only view of the ledger after a recompute.
type Snapshot struct {
	BaseSpeech  int
	BaseScholar int
	// CurrentSpeech and CurrentScholar are the bases after any debuff rescale.
	CurrentSpeech  int
	CurrentScholar int

	NPCSpeechPercent  int
	NPCScholarPercent int

	BoostPercent   int
	BoostRemaining time.Duration

	DebuffActive         bool
	DebuffSpeechPercent  int
	DebuffScholarPercent int
	DebuffRemaining      time.Duration

	EffectiveSpeech  int
	EffectiveScholar int
}

// Ledger owns modifier state and its expiry timers. It is driven by Tick and
// is not safe for concurrent use.
//
// Invariant: a boost and a debuff are never both active.
type Ledger struct {
	cfg    Config
	roller *dice.Roller
	logger *zap.Logger

	currentSpeech  int
	currentScholar int

	npcSpeech  int
	npcScholar int

	boostPercent int
	boost        clock.Countdown

	debuffSpeech  int
	debuffScholar int
	debuff        clock.Countdown

	effectiveSpeech  int
	effectiveScholar int

	observers []func(Snapshot)
}

// NewLedger creates a Ledger with no speaker modifiers, boost, or debuff.
//
// Precondition: roller and logger must be non-nil; bases must be >= 0.
func NewLedger(cfg Config, roller *dice.Roller, logger *zap.Logger) *Ledger {
	if roller == nil || logger == nil {
		panic("modifier: NewLedger requires a non-nil roller and logger")
	}
	if cfg.BaseSpeech < 0 || cfg.BaseScholar < 0 {
		panic("modifier: NewLedger requires non-negative base stats")
	}
	l := &Ledger{
		cfg:            cfg,
		roller:         roller,
		logger:         logger,
		currentSpeech:  cfg.BaseSpeech,
		currentScholar: cfg.BaseScholar,
	}
	l.recompute()
	return l
}

// Subscribe registers fn to receive a Snapshot after every recompute.
func (l *Ledger) Subscribe(fn func(Snapshot)) {
	if fn != nil {
		l.observers = append(l.observers, fn)
	}
}

// SetActiveSpeaker replaces the speaker-side percent modifiers.
//
// Postcondition: effective stats reflect the new modifiers and observers are notified.
func (l *Ledger) SetActiveSpeaker(speechPercent, scholarPercent int) {
	l.npcSpeech = speechPercent
	l.npcScholar = scholarPercent
	l.recompute()
}

// ApplyBoost clears any debuff, then sets the boost to percent for d,
// replacing rather than adding to any running boost.
//
// Postcondition: BoostActive() is true and DebuffActive() is false.
func (l *Ledger) ApplyBoost(percent int, d time.Duration) {
	if l.debuff.Active() {
		l.clearDebuff()
	}
	l.boostPercent = percent
	l.boost.Start(d, l.expireBoost)
	l.logger.Info("boost applied",
		zap.Int("percent", percent),
		zap.Duration("duration", d),
	)
	l.recompute()
}

// ApplyDebuffOnFailure rolls chance and, on success, rescales both base stats
// down by the given percentages until the debuff window elapses. Nothing is
// rolled while a boost or debuff is already active.
//
// Postcondition: returns true iff a debuff was applied by this call.
func (l *Ledger) ApplyDebuffOnFailure(speechPercent, scholarPercent int, chance float64) bool {
	if l.boost.Active() || l.debuff.Active() {
		return false
	}
	if !l.roller.RollPercent("debuff", chance).Success {
		return false
	}
	l.debuffSpeech = speechPercent
	l.debuffScholar = scholarPercent
	l.currentSpeech = rescale(l.cfg.BaseSpeech, speechPercent)
	l.currentScholar = rescale(l.cfg.BaseScholar, scholarPercent)
	l.debuff.Start(l.cfg.DebuffWindow, l.expireDebuff)
	l.logger.Info("debuff applied",
		zap.Int("speech_percent", speechPercent),
		zap.Int("scholar_percent", scholarPercent),
		zap.Duration("window", l.cfg.DebuffWindow),
	)
	l.recompute()
	return true
}

// Tick advances the boost and debuff timers by dt.
func (l *Ledger) Tick(dt time.Duration) {
	l.boost.Tick(dt)
	l.debuff.Tick(dt)
}

// BoostActive reports whether a consumable boost is in effect.
func (l *Ledger) BoostActive() bool { return l.boost.Active() }

// DebuffActive reports whether a failure debuff is in effect.
func (l *Ledger) DebuffActive() bool { return l.debuff.Active() }

// BoostRemaining returns the time left on the boost, or 0.
func (l *Ledger) BoostRemaining() time.Duration { return l.boost.Remaining() }

// EffectiveSpeech returns round(base' * (1 + (npc + boost) / 100)).
func (l *Ledger) EffectiveSpeech() int { return l.effectiveSpeech }

// EffectiveScholar returns round(base' * (1 + (npc + boost) / 100)).
func (l *Ledger) EffectiveScholar() int { return l.effectiveScholar }

// Effective returns the effective stat for t.
func (l *Ledger) Effective(t skill.Type) int {
	if t == skill.Scholar {
		return l.effectiveScholar
	}
	return l.effectiveSpeech
}

// CheckStat returns the stat a skill check of type t is made with:
// round(base' * (1 + npc / 100)). An active boost is excluded here because the
// check rules add their own boost bonus to the chance.
func (l *Ledger) CheckStat(t skill.Type) int {
	if t == skill.Scholar {
		return scale(l.currentScholar, l.npcScholar)
	}
	return scale(l.currentSpeech, l.npcSpeech)
}

// Snapshot returns the current ledger state.
func (l *Ledger) Snapshot() Snapshot {
	s := Snapshot{
		BaseSpeech:        l.cfg.BaseSpeech,
		BaseScholar:       l.cfg.BaseScholar,
		CurrentSpeech:     l.currentSpeech,
		CurrentScholar:    l.currentScholar,
		NPCSpeechPercent:  l.npcSpeech,
		NPCScholarPercent: l.npcScholar,
		BoostRemaining:    l.boost.Remaining(),
		DebuffActive:      l.debuff.Active(),
		DebuffRemaining:   l.debuff.Remaining(),
		EffectiveSpeech:   l.effectiveSpeech,
		EffectiveScholar:  l.effectiveScholar,
	}
	if l.boost.Active() {
		s.BoostPercent = l.boostPercent
	}
	if s.DebuffActive {
		s.DebuffSpeechPercent = l.debuffSpeech
		s.DebuffScholarPercent = l.debuffScholar
	}
	return s
}

func (l *Ledger) expireBoost() {
	l.boostPercent = 0
	l.logger.Debug("boost expired")
	l.recompute()
}

func (l *Ledger) expireDebuff() {
	l.restoreBase()
	l.logger.Debug("debuff expired")
	l.recompute()
}

func (l *Ledger) clearDebuff() {
	l.debuff.Stop()
	l.restoreBase()
}

func (l *Ledger) restoreBase() {
	l.currentSpeech = l.cfg.BaseSpeech
	l.currentScholar = l.cfg.BaseScholar
	l.debuffSpeech = 0
	l.debuffScholar = 0
}

func (l *Ledger) recompute() {
	boost := 0
	if l.boost.Active() {
		boost = l.boostPercent
	}
	l.effectiveSpeech = scale(l.currentSpeech, l.npcSpeech+boost)
	l.effectiveScholar = scale(l.currentScholar, l.npcScholar+boost)
	snap := l.Snapshot()
	for _, fn := range l.observers {
		fn(snap)
	}
}

// scale returns round(v * (1 + percent/100)), floored at zero.
func scale(v, percent int) int {
	out := int(math.Round(float64(v) * (1 + float64(percent)/100)))
	if out < 0 {
		return 0
	}
	return out
}

// rescale returns round(v * (1 - percent/100)), floored at zero.
func rescale(v, percent int) int {
	return scale(v, -percent)
}
