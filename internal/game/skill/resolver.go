package skill

import (
	"fmt"

	"github.com/cory-johannsen/votemenot/internal/game/dice"
)

// Kind distinguishes the two places a check can be made.
type Kind int

const (
	// KindHard is the single claim-level check tied to the speaker's skill.
	KindHard Kind = iota
	// KindTree is a check embedded in a question-tree option.
	KindTree
)

func (k Kind) String() string {
	if k == KindHard {
		return "hard-check"
	}
	return "tree-check"
}

// Outcome is a resolved check, fixed before any narration reports it.
type Outcome struct {
	Kind      Kind
	Skill     Type
	Stat      int
	Challenge float64
	Boosted   bool
	Chance    float64
	Draw      float64
	Success   bool
}

// String summarises the outcome for logs and the text frontends.
func (o Outcome) String() string {
	verdict := "FAILED"
	if o.Success {
		verdict = "SUCCEEDED"
	}
	return fmt.Sprintf("%s %s check %s (%.1f%% chance)", o.Kind, o.Skill, verdict, o.Chance)
}

// Resolver resolves checks with a fixed rule set and roller.
type Resolver struct {
	rules  CheckRules
	roller *dice.Roller
}

// NewResolver creates a Resolver.
//
// Precondition: roller must be non-nil.
func NewResolver(rules CheckRules, roller *dice.Roller) *Resolver {
	if roller == nil {
		panic("skill: NewResolver requires a non-nil roller")
	}
	return &Resolver{rules: rules, roller: roller}
}

// Rules returns the adjustments this resolver applies.
func (r *Resolver) Rules() CheckRules {
	return r.rules
}

// Hard resolves a claim-level check.
//
// Postcondition: Outcome.Success iff Outcome.Draw < Outcome.Chance.
func (r *Resolver) Hard(t Type, stat int, challenge float64, boosted bool) Outcome {
	chance := r.rules.HardCheckChance(float64(stat), challenge, boosted)
	return r.resolve(KindHard, t, stat, challenge, boosted, chance)
}

// Tree resolves a question-tree option check.
//
// Postcondition: Outcome.Success iff Outcome.Draw < Outcome.Chance.
func (r *Resolver) Tree(t Type, stat int, challenge float64, boosted bool) Outcome {
	chance := r.rules.TreeCheckChance(float64(stat), challenge, boosted)
	return r.resolve(KindTree, t, stat, challenge, boosted, chance)
}

func (r *Resolver) resolve(k Kind, t Type, stat int, challenge float64, boosted bool, chance float64) Outcome {
	roll := r.roller.RollPercent(k.String(), chance)
	return Outcome{
		Kind:      k,
		Skill:     t,
		Stat:      stat,
		Challenge: challenge,
		Boosted:   boosted,
		Chance:    chance,
		Draw:      roll.Draw,
		Success:   roll.Success,
	}
}
