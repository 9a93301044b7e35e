// Package dice provides the randomness abstraction and roll-result types
// behind skill checks, failure debuffs, and conversation picks.
package dice

import "fmt"

// PercentResolution is the number of equally likely buckets a percentile draw
// is chosen from. A draw is bucket*100/PercentResolution, so draws step in
// about 1e-7 and a fractional chance such as 33.333 is honoured. It stays
// below 1<<31 so Intn works with a 32-bit int.
const PercentResolution = 1 << 30

// PercentRoll holds the full audit trail for a single percentile check.
//
// Invariant: Success == (Draw < Chance).
type PercentRoll struct {
	Label   string  // what was rolled, e.g. "hard-check"
	Chance  float64 // success chance in [0, 100]
	Draw    float64 // uniform draw in [0, 100)
	Success bool
}

// String returns a human-readable audit string in the format:
//
//	"hard-check 47.50% → 12.34 success"
//
// Precondition: r.Label is non-empty.
func (r PercentRoll) String() string {
	if r.Label == "" {
		panic("dice: PercentRoll.String() precondition violated: Label must be non-empty")
	}
	verdict := "failure"
	if r.Success {
		verdict = "success"
	}
	return fmt.Sprintf("%s %.2f%% → %.2f %s", r.Label, r.Chance, r.Draw, verdict)
}

// Source is the randomness provider for all rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// RollPercent draws a uniform value in [0, 100) from src and compares it to chance.
//
// Precondition: src must be non-nil.
// Postcondition: result.Success iff result.Draw < chance.
func RollPercent(label string, chance float64, src Source) PercentRoll {
	draw := float64(src.Intn(PercentResolution)) * 100 / PercentResolution
	return PercentRoll{
		Label:   label,
		Chance:  chance,
		Draw:    draw,
		Success: draw < chance,
	}
}
