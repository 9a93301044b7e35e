package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged rolling.
// All rolls are logged at debug level with label, chance, draw, and outcome.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	if src == nil || logger == nil {
		panic("dice: NewLoggedRoller requires a non-nil source and logger")
	}
	return &Roller{src: src, logger: logger}
}

// RollPercent resolves a percentile check against chance and logs the result.
//
// Postcondition: result.Success iff result.Draw < chance.
func (r *Roller) RollPercent(label string, chance float64) PercentRoll {
	result := RollPercent(label, chance, r.src)
	r.logger.Debug("percent roll",
		zap.String("label", result.Label),
		zap.Float64("chance", result.Chance),
		zap.Float64("draw", result.Draw),
		zap.Bool("success", result.Success),
	)
	return result
}

// Pick returns a uniform index in [0, n) and logs it.
//
// Precondition: n > 0.
func (r *Roller) Pick(label string, n int) int {
	idx := r.src.Intn(n)
	r.logger.Debug("pick",
		zap.String("label", label),
		zap.Int("choices", n),
		zap.Int("index", idx),
	)
	return idx
}
