// Package consumable manages the finite bottles that grant a temporary boost.
package consumable

import (
	"errors"
	"time"

	"go.uber.org/zap"
)

// ErrEmpty is returned when no bottles remain.
var ErrEmpty = errors.New("no bottles left")

// Booster receives the boost a consumed bottle grants.
type Booster interface {
	ApplyBottleBoost(percent int, d time.Duration) error
}

// Config describes the bottle supply and its effect.
type Config struct {
	Count    int
	Percent  int
	Duration time.Duration
}

// Stock is the player's bottle supply.
type Stock struct {
	cfg       Config
	remaining int
	logger    *zap.Logger
}

// NewStock creates a full stock.
//
// Precondition: cfg.Count >= 0; logger must be non-nil.
func NewStock(cfg Config, logger *zap.Logger) *Stock {
	if cfg.Count < 0 {
		panic("consumable: negative bottle count")
	}
	if logger == nil {
		panic("consumable: NewStock requires a non-nil logger")
	}
	return &Stock{cfg: cfg, remaining: cfg.Count, logger: logger}
}

// Remaining returns the number of bottles left.
func (s *Stock) Remaining() int { return s.remaining }

// Consume uses one bottle on target.
//
// Postcondition: on error the stock is unchanged.
func (s *Stock) Consume(target Booster) error {
	if s.remaining == 0 {
		return ErrEmpty
	}
	if err := target.ApplyBottleBoost(s.cfg.Percent, s.cfg.Duration); err != nil {
		return err
	}
	s.remaining--
	s.logger.Info("bottle consumed",
		zap.Int("percent", s.cfg.Percent),
		zap.Duration("duration", s.cfg.Duration),
		zap.Int("remaining", s.remaining),
	)
	return nil
}
