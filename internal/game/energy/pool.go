// Package energy implements the integer resource that gates skill checks.
package energy

import (
	"fmt"

	"go.uber.org/zap"
)

// Config holds energy limits and costs.
type Config struct {
	Max       int
	HardCost  int
	TreeCost  int
	Replenish int
}

// DefaultConfig returns a 10-point pool where hard checks cost 3, tree checks
// cost 1, and every decision refunds 2.
func DefaultConfig() Config {
	return Config{Max: 10, HardCost: 3, TreeCost: 1, Replenish: 2}
}

// Level is the coarse display bucket for the current energy.
type Level int

const (
	LevelEmpty Level = iota
	LevelLow
	LevelMedium
	LevelFull
)

func (l Level) String() string {
	switch l {
	case LevelEmpty:
		return "empty"
	case LevelLow:
		return "low"
	case LevelMedium:
		return "medium"
	case LevelFull:
		return "full"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// BlinkThreshold is the highest non-zero energy at which the display warns.
const BlinkThreshold = 3

// Pool is the player's energy. Not safe for concurrent use.
//
// Invariant: 0 <= Current() <= Max.
type Pool struct {
	cfg       Config
	current   int
	logger    *zap.Logger
	observers []func(current int)
}

// NewPool creates a full Pool.
//
// Precondition: cfg.Max > 0, costs >= 0; logger must be non-nil.
func NewPool(cfg Config, logger *zap.Logger) *Pool {
	if cfg.Max <= 0 || cfg.HardCost < 0 || cfg.TreeCost < 0 {
		panic(fmt.Sprintf("energy: invalid config %+v", cfg))
	}
	if logger == nil {
		panic("energy: NewPool requires a non-nil logger")
	}
	return &Pool{cfg: cfg, current: cfg.Max, logger: logger}
}

// Subscribe registers fn to be called with the new value after every change.
func (p *Pool) Subscribe(fn func(current int)) {
	if fn != nil {
		p.observers = append(p.observers, fn)
	}
}

// Current returns the current energy.
func (p *Pool) Current() int { return p.current }

// Max returns the pool capacity.
func (p *Pool) Max() int { return p.cfg.Max }

// HardCost returns the cost of a hard check.
func (p *Pool) HardCost() int { return p.cfg.HardCost }

// TreeCost returns the cost of a question-tree check.
func (p *Pool) TreeCost() int { return p.cfg.TreeCost }

// CanAffordHard reports whether a hard check is affordable.
func (p *Pool) CanAffordHard() bool { return p.current >= p.cfg.HardCost }

// CanAffordTree reports whether a tree check is affordable.
func (p *Pool) CanAffordTree() bool { return p.current >= p.cfg.TreeCost }

// TryUseHard spends the hard-check cost.
//
// Postcondition: returns false and leaves energy unchanged when it is insufficient.
func (p *Pool) TryUseHard() bool { return p.spend("hard", p.cfg.HardCost) }

// TryUseTree spends the tree-check cost.
//
// Postcondition: returns false and leaves energy unchanged when it is insufficient.
func (p *Pool) TryUseTree() bool { return p.spend("tree", p.cfg.TreeCost) }

// Replenish adds the configured per-decision refund.
func (p *Pool) Replenish() { p.Add(p.cfg.Replenish) }

// Add increases energy by n, saturating at Max. Negative n is ignored.
func (p *Pool) Add(n int) {
	if n <= 0 {
		return
	}
	next := min(p.current+n, p.cfg.Max)
	if next == p.current {
		return
	}
	p.current = next
	p.notify()
}

// Level returns the display bucket: full >= 7, medium >= 4, low >= 1, else empty.
func (p *Pool) Level() Level {
	switch {
	case p.current >= 7:
		return LevelFull
	case p.current >= 4:
		return LevelMedium
	case p.current >= 1:
		return LevelLow
	default:
		return LevelEmpty
	}
}

// Blinking reports whether the low-energy warning is showing (1..BlinkThreshold).
func (p *Pool) Blinking() bool {
	return p.current >= 1 && p.current <= BlinkThreshold
}

func (p *Pool) spend(kind string, cost int) bool {
	if p.current < cost {
		p.logger.Debug("insufficient energy",
			zap.String("check", kind),
			zap.Int("cost", cost),
			zap.Int("current", p.current),
		)
		return false
	}
	if cost == 0 {
		return true
	}
	p.current -= cost
	p.notify()
	return true
}

func (p *Pool) notify() {
	for _, fn := range p.observers {
		fn(p.current)
	}
}
