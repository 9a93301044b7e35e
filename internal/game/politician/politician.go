// Package politician defines the speakers the player vets, their claims, and
// the ordered roster they are interviewed in.
package politician

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cory-johannsen/votemenot/internal/game/dialogue"
	"github.com/cory-johannsen/votemenot/internal/game/skill"
)

// Affiliation determines the direction of the ethics delta for a decision.
type Affiliation int

const (
	Neutral Affiliation = iota
	Good
	Evil
)

func (a Affiliation) String() string {
	switch a {
	case Good:
		return "good"
	case Evil:
		return "evil"
	default:
		return "neutral"
	}
}

// ParseAffiliation converts "good", "neutral", or "evil" (case-insensitive).
func ParseAffiliation(s string) (Affiliation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "good":
		return Good, nil
	case "neutral", "":
		return Neutral, nil
	case "evil":
		return Evil, nil
	default:
		return Neutral, fmt.Errorf("unknown affiliation %q", s)
	}
}

// Debuff configures the penalty a failed hard check may apply.
type Debuff struct {
	// Chance is the probability in percent that a failure applies the debuff.
	Chance         float64
	SpeechPercent  int
	ScholarPercent int
}

// Conversation is the small talk available for a claim: Initial the first
// time, then a random Repeatables entry.
type Conversation struct {
	Initial     dialogue.Content
	Repeatables []dialogue.Content
}

// Claim is one accusation the player can raise once it has been unlocked.
type Claim struct {
	Label string
	// Dialogue plays when the claim is selected.
	Dialogue dialogue.Content

	AgreeLabel     string
	QuestionLabel  string
	HardCheckLabel string
	ConverseLabel  string

	Agree       dialogue.Content
	Disagree    dialogue.Content
	HardSuccess dialogue.Content
	HardFailure dialogue.Content

	Conversation Conversation
	// Questions is nil when the claim has no question tree.
	Questions *dialogue.Tree
}

// Politician is a speaker and the mutable per-session claim state.
type Politician struct {
	ID          string
	Name        string
	Affiliation Affiliation

	SpeechModPercent  int
	ScholarModPercent int
	ChallengeLevel    float64
	HardSkill         skill.Type
	Debuff            Debuff

	Initial      dialogue.Content
	VerdictOpen  dialogue.Content
	VerdictClose dialogue.Content

	Claims []Claim

	unlocked           []bool
	conversationPlayed []bool
}

// Validate checks the speaker's static data.
//
// Postcondition: Returns nil iff every field and every question tree is usable.
func (p *Politician) Validate() error {
	var errs []error
	if p.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if p.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if p.ChallengeLevel <= 0 {
		errs = append(errs, fmt.Errorf("challenge_level must be > 0, got %v", p.ChallengeLevel))
	}
	if p.Debuff.Chance < 0 || p.Debuff.Chance > 100 {
		errs = append(errs, fmt.Errorf("debuff chance must be in [0, 100], got %v", p.Debuff.Chance))
	}
	if p.Debuff.SpeechPercent < 0 || p.Debuff.SpeechPercent > 100 || p.Debuff.ScholarPercent < 0 || p.Debuff.ScholarPercent > 100 {
		errs = append(errs, errors.New("debuff percentages must be in [0, 100]"))
	}
	if len(p.Claims) == 0 {
		errs = append(errs, errors.New("at least one claim is required"))
	}
	for i, c := range p.Claims {
		if c.Label == "" {
			errs = append(errs, fmt.Errorf("claim %d: label must not be empty", i))
		}
		if c.Questions != nil {
			if err := c.Questions.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("claim %d questions: %w", i, err))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("politician %q: %w", p.ID, errors.Join(errs...))
	}
	return nil
}

func (p *Politician) ensureState() {
	if len(p.unlocked) != len(p.Claims) {
		p.unlocked = make([]bool, len(p.Claims))
		p.conversationPlayed = make([]bool, len(p.Claims))
	}
}

// ValidClaim reports whether i indexes a claim.
func (p *Politician) ValidClaim(i int) bool {
	return i >= 0 && i < len(p.Claims)
}

// UnlockClaim marks claim i interrogable.
//
// Postcondition: returns false for an out-of-range index.
func (p *Politician) UnlockClaim(i int) bool {
	if !p.ValidClaim(i) {
		return false
	}
	p.ensureState()
	p.unlocked[i] = true
	return true
}

// LockClaim clears claim i's unlock flag once its single-use responses are spent.
func (p *Politician) LockClaim(i int) {
	if !p.ValidClaim(i) {
		return
	}
	p.ensureState()
	p.unlocked[i] = false
}

// ClaimUnlocked reports whether claim i is interrogable.
func (p *Politician) ClaimUnlocked(i int) bool {
	if !p.ValidClaim(i) {
		return false
	}
	p.ensureState()
	return p.unlocked[i]
}

// UnlockedClaims returns the indices of unlocked claims in order.
func (p *Politician) UnlockedClaims() []int {
	p.ensureState()
	var out []int
	for i, u := range p.unlocked {
		if u {
			out = append(out, i)
		}
	}
	return out
}

// NextConversation returns claim i's initial conversation on first use and a
// repeatable chosen by pick afterwards. pick receives the number of
// repeatables and must return an index below it.
//
// Postcondition: returns empty content for an invalid index or a claim with no conversation.
func (p *Politician) NextConversation(i int, pick func(n int) int) dialogue.Content {
	if !p.ValidClaim(i) {
		return nil
	}
	p.ensureState()
	conv := p.Claims[i].Conversation
	if !p.conversationPlayed[i] && !conv.Initial.Empty() {
		p.conversationPlayed[i] = true
		return conv.Initial
	}
	p.conversationPlayed[i] = true
	if len(conv.Repeatables) == 0 {
		return conv.Initial
	}
	return conv.Repeatables[pick(len(conv.Repeatables))]
}

// ResetConversation makes claim i's next conversation play the initial content again.
func (p *Politician) ResetConversation(i int) {
	if !p.ValidClaim(i) {
		return
	}
	p.ensureState()
	p.conversationPlayed[i] = false
}

// clone copies the mutable claim state; static content is shared.
// It never writes to p, so one template roster may be cloned concurrently.
func (p *Politician) clone() *Politician {
	cp := *p
	cp.unlocked = make([]bool, len(p.Claims))
	cp.conversationPlayed = make([]bool, len(p.Claims))
	if len(p.unlocked) == len(p.Claims) {
		copy(cp.unlocked, p.unlocked)
		copy(cp.conversationPlayed, p.conversationPlayed)
	}
	return &cp
}
