package encounter

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/votemenot/internal/game/dialogue"
	"github.com/cory-johannsen/votemenot/internal/game/politician"
)

// Interrogate toggles the claim selection list. It opens from Idle or an
// interactive claim menu and closes back to Idle.
func (c *Controller) Interrogate() error {
	if err := c.guardActive(); err != nil {
		return err
	}
	switch {
	case c.state == StateClaimSelection:
		c.setState(StateIdle)
	case c.state == StateIdle, c.state == StateDialogueMenu && c.ready:
		c.claim = -1
		c.cursor.Reset()
		c.ready = true
		c.setState(StateClaimSelection)
	default:
		return fmt.Errorf("%w: interrogate during %s", ErrUnavailable, c.state)
	}
	return nil
}

// UnlockClaim marks claim i of the active speaker interrogable. Unlocking is
// driven by document inspection outside the encounter.
func (c *Controller) UnlockClaim(i int) error {
	p := c.Speaker()
	if p == nil {
		return ErrRosterExhausted
	}
	if !p.UnlockClaim(i) {
		c.logger.Warn("unlock of unknown claim", zap.String("speaker", p.ID), zap.Int("claim", i))
		return fmt.Errorf("%w: %d", ErrInvalidClaim, i)
	}
	c.logger.Debug("claim unlocked", zap.String("speaker", p.ID), zap.Int("claim", i))
	return nil
}

// SelectClaim opens the response menu for unlocked claim i and plays the
// claim's dialogue; the menu becomes interactive when it completes.
func (c *Controller) SelectClaim(i int) error {
	if err := c.guardActive(); err != nil {
		return err
	}
	if c.state != StateClaimSelection {
		return fmt.Errorf("%w: select claim during %s", ErrUnavailable, c.state)
	}
	p := c.Speaker()
	if !p.ValidClaim(i) {
		c.logger.Warn("select of unknown claim", zap.String("speaker", p.ID), zap.Int("claim", i))
		return fmt.Errorf("%w: %d", ErrInvalidClaim, i)
	}
	if !p.ClaimUnlocked(i) {
		return fmt.Errorf("%w: %d", ErrClaimLocked, i)
	}
	c.player.Clear()
	c.claim = i
	c.locks = cycleLocks{}
	c.ready = false
	c.setState(StateDialogueMenu)
	c.play("claim", p.Claims[i].Dialogue, c.restoreMenu)
	return nil
}

// Agree accepts the selected claim's explanation. Single use per claim cycle.
func (c *Controller) Agree() error {
	claim, err := c.menuClaim(EntryAgree)
	if err != nil {
		return err
	}
	c.player.Clear()
	c.locks.agree = true
	c.spendClaim()
	c.Speaker().ResetConversation(c.claim)
	c.ready = false
	c.setState(StateAgree)
	c.play("agree", claim.Agree, c.restoreMenu)
	return nil
}

// Question disputes the selected claim and enters its question tree. A claim
// without a tree plays its disagreement and returns to the menu.
func (c *Controller) Question() error {
	claim, err := c.menuClaim(EntryQuestion)
	if err != nil {
		return err
	}
	c.player.Clear()
	c.spendClaim()
	c.ready = false
	c.setState(StateQuestion)
	if claim.Questions == nil {
		c.locks.question = true
		c.play("disagree", claim.Disagree, c.restoreMenu)
		return nil
	}
	c.cursor.Enter(claim.Questions)
	intro := make(dialogue.Content, 0, len(claim.Disagree)+len(claim.Questions.Nodes[0].Prompt))
	intro = append(intro, claim.Disagree...)
	intro = append(intro, claim.Questions.Nodes[0].Prompt...)
	c.play("disagree", intro, c.restoreNode)
	return nil
}

// HardSkillCheck makes the speaker's claim-level check. It costs hard-check
// energy and, on failure without a boost, may debuff the player.
func (c *Controller) HardSkillCheck() error {
	claim, err := c.menuClaim(EntryHardCheck)
	if err != nil {
		return err
	}
	if !c.energy.TryUseHard() {
		return ErrInsufficientEnergy
	}
	c.player.Clear()
	p := c.Speaker()
	boosted := c.ledger.BoostActive()
	out := c.resolver.Hard(p.HardSkill, c.ledger.CheckStat(p.HardSkill), p.ChallengeLevel, boosted)
	if !out.Success && !boosted {
		c.ledger.ApplyDebuffOnFailure(p.Debuff.SpeechPercent, p.Debuff.ScholarPercent, p.Debuff.Chance)
	}
	c.locks.hard = true
	c.spendClaim()
	p.ResetConversation(c.claim)
	c.ready = false
	c.setState(StateHardCheck)
	c.reportOutcome(out)
	content := claim.HardFailure
	if out.Success {
		content = claim.HardSuccess
	}
	c.play("hard_check", content, c.restoreMenu)
	return nil
}

// Converse plays the claim's small talk: the initial conversation first, a
// random repeatable afterwards. Repeatable without limit.
func (c *Controller) Converse() error {
	if _, err := c.menuClaim(EntryConverse); err != nil {
		return err
	}
	c.player.Clear()
	p := c.Speaker()
	content := p.NextConversation(c.claim, func(n int) int {
		return c.roller.Pick("conversation", n)
	})
	c.ready = false
	c.setState(StateConversation)
	c.play("conversation", content, c.restoreMenu)
	return nil
}

// SelectOption answers option i at the current question-tree node. Skill
// options cost tree-check energy and stay disabled until the node changes.
// The tree advances when the option's narration completes.
func (c *Controller) SelectOption(i int) error {
	if err := c.guardActive(); err != nil {
		return err
	}
	if c.state != StateQuestion || !c.ready {
		return fmt.Errorf("%w: select option during %s", ErrUnavailable, c.state)
	}
	opt, err := c.cursor.Option(i)
	switch {
	case errors.Is(err, dialogue.ErrOptionDisabled):
		return fmt.Errorf("%w: %d", ErrOptionDisabled, i)
	case err != nil:
		c.logger.Warn("select of unknown option",
			zap.Int("claim", c.claim),
			zap.Int("node", c.cursor.Index()),
			zap.Int("option", i),
		)
		return fmt.Errorf("%w: %w", ErrInvalidOption, err)
	}
	content := opt.Response
	if opt.SkillCheck {
		if !c.energy.TryUseTree() {
			return ErrInsufficientEnergy
		}
		c.player.Clear()
		p := c.Speaker()
		out := c.resolver.Tree(opt.Skill, c.ledger.CheckStat(opt.Skill), p.ChallengeLevel, c.ledger.BoostActive())
		c.cursor.MarkAttempted(i)
		c.reportOutcome(out)
		content = opt.Failure
		if out.Success {
			content = opt.Success
		}
	} else {
		c.player.Clear()
	}
	c.ready = false
	c.play("option", content, func() { c.follow(i) })
	return nil
}

// ToggleVerdict shows or hides the accept/reject panel and plays the
// speaker's matching line.
func (c *Controller) ToggleVerdict() error {
	if err := c.guardActive(); err != nil {
		return err
	}
	if !c.ready {
		return fmt.Errorf("%w: verdict during narration", ErrUnavailable)
	}
	c.verdict = !c.verdict
	p := c.Speaker()
	if c.verdict {
		c.play("verdict_open", p.VerdictOpen, nil)
	} else {
		c.play("verdict_close", p.VerdictClose, nil)
	}
	return nil
}

// VerdictOpen reports whether the accept/reject panel is showing.
func (c *Controller) VerdictOpen() bool { return c.verdict }

// menuClaim validates that entry e of the response menu is usable now.
func (c *Controller) menuClaim(e MenuEntry) (politician.Claim, error) {
	if err := c.guardActive(); err != nil {
		return politician.Claim{}, err
	}
	if c.state != StateDialogueMenu || !c.ready {
		return politician.Claim{}, fmt.Errorf("%w: %s during %s", ErrUnavailable, e, c.state)
	}
	p := c.Speaker()
	if !p.ValidClaim(c.claim) {
		c.logger.Warn("menu without a valid claim", zap.String("speaker", p.ID), zap.Int("claim", c.claim))
		return politician.Claim{}, fmt.Errorf("%w: %d", ErrInvalidClaim, c.claim)
	}
	if c.locks.locked(e) {
		return politician.Claim{}, fmt.Errorf("%w: %s already used for this claim", ErrUnavailable, e)
	}
	return p.Claims[c.claim], nil
}

// spendClaim re-locks the selected claim; it must be unlocked again before reselection.
func (c *Controller) spendClaim() {
	c.Speaker().LockClaim(c.claim)
}

func (c *Controller) restoreMenu() {
	c.setState(StateDialogueMenu)
	c.ready = true
}

func (c *Controller) restoreNode() {
	c.ready = true
}

// follow applies option i's link once its narration has completed.
func (c *Controller) follow(i int) {
	tr := c.cursor.Follow(i)
	switch {
	case tr.Exit:
		c.locks.question = true
		c.restoreMenu()
	case tr.Moved:
		c.play("prompt", c.cursor.Node().Prompt, c.restoreNode)
	default:
		c.restoreNode()
	}
}
