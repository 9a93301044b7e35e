package skill

// CheckRules holds the flat adjustments applied on top of Chance at the two
// call sites.
type CheckRules struct {
	// HardPenalty is subtracted from every hard (claim-level) check.
	HardPenalty float64
	// HardBoostLow is added to a boosted hard check whose penalized chance is below HardBoostPivot.
	HardBoostLow float64
	// HardBoostHigh is added to a boosted hard check at or above HardBoostPivot.
	HardBoostHigh float64
	// HardBoostPivot separates the low and high boost bonus.
	HardBoostPivot float64
	// TreeBoost is added to a boosted question-tree check.
	TreeBoost float64
}

// DefaultCheckRules returns the stock adjustments: -20 for hard checks, +30/+15
// boost either side of 50, and +25 for boosted tree checks.
func DefaultCheckRules() CheckRules {
	return CheckRules{
		HardPenalty:    20,
		HardBoostLow:   30,
		HardBoostHigh:  15,
		HardBoostPivot: 50,
		TreeBoost:      25,
	}
}

// HardCheckChance applies the hard-check transform to Chance(stat, challenge).
//
// Postcondition: result in [0, 100].
func (r CheckRules) HardCheckChance(stat, challenge float64, boosted bool) float64 {
	chance := clampPercent(Chance(stat, challenge) - r.HardPenalty)
	if !boosted {
		return chance
	}
	if chance < r.HardBoostPivot {
		return clampPercent(chance + r.HardBoostLow)
	}
	return clampPercent(chance + r.HardBoostHigh)
}

// TreeCheckChance applies the question-tree transform to Chance(stat, challenge).
//
// Postcondition: result in [0, 100].
func (r CheckRules) TreeCheckChance(stat, challenge float64, boosted bool) float64 {
	chance := Chance(stat, challenge)
	if boosted {
		chance = clampPercent(chance + r.TreeBoost)
	}
	return chance
}
