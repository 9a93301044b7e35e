package encounter

import (
	"math"

	"github.com/cory-johannsen/votemenot/internal/game/politician"
)

// Decision is the verdict on a speaker.
type Decision int

const (
	Accept Decision = iota
	Reject
)

func (d Decision) String() string {
	if d == Accept {
		return "accept"
	}
	return "reject"
}

// DecisionRules maps a verdict to an ethics delta.
type DecisionRules struct {
	UpdateAmountGood int
	UpdateAmountEvil int
	// RejectGoodFactor scales the penalty for rejecting a good speaker.
	RejectGoodFactor float64
}

// DefaultDecisionRules returns +10/-10 with a quarter penalty for rejecting a good speaker.
func DefaultDecisionRules() DecisionRules {
	return DecisionRules{UpdateAmountGood: 10, UpdateAmountEvil: 10, RejectGoodFactor: 0.25}
}

// Delta returns the signed ethics change for deciding d on a speaker of affiliation a.
//
//	good + accept  → +good
//	good + reject  → -round(evil * factor)
//	evil + accept  → -evil
//	evil + reject  → +good
//	neutral        → 0
func (r DecisionRules) Delta(a politician.Affiliation, d Decision) int {
	switch a {
	case politician.Good:
		if d == Accept {
			return r.UpdateAmountGood
		}
		return -int(math.Round(float64(r.UpdateAmountEvil) * r.RejectGoodFactor))
	case politician.Evil:
		if d == Accept {
			return -r.UpdateAmountEvil
		}
		return r.UpdateAmountGood
	default:
		return 0
	}
}
