package encounter

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/votemenot/internal/game/politician"
)

// Verdict records one decision as it is applied.
type Verdict struct {
	Speaker     string
	Affiliation politician.Affiliation
	Decision    Decision
	// Delta is the ethics change requested; Score is the meter after applying it.
	Delta int
	Score int
}

// Accept approves the active speaker.
func (c *Controller) Accept() error { return c.decide(Accept) }

// Reject turns the active speaker down.
func (c *Controller) Reject() error { return c.decide(Reject) }

// decide applies the ethics delta and energy refund for d, then runs the fade
// transition: the next speaker is activated at the midpoint and greeted at the
// end. Re-entrant calls during the transition are refused.
func (c *Controller) decide(d Decision) error {
	if err := c.guardActive(); err != nil {
		return err
	}
	c.player.Clear()
	p := c.Speaker()
	delta := c.cfg.Decisions.Delta(p.Affiliation, d)
	c.logger.Info("verdict",
		zap.String("speaker", p.ID),
		zap.Stringer("affiliation", p.Affiliation),
		zap.Stringer("decision", d),
		zap.Int("delta", delta),
	)
	c.ethics.Update(delta)
	c.energy.Replenish()
	v := Verdict{Speaker: p.ID, Affiliation: p.Affiliation, Decision: d, Delta: delta, Score: c.ethics.Score()}
	for _, fn := range c.verdictHooks {
		fn(v)
	}
	c.cursor.Reset()
	c.claim = -1
	c.verdict = false
	c.ready = false
	c.setState(StateTransition)
	c.fade.Start(c.cfg.FadeDuration, c.fadeMidpoint)
	return nil
}

func (c *Controller) fadeMidpoint() {
	c.speaker++
	if c.speaker >= c.roster.Len() {
		c.logger.Info("roster exhausted", zap.Int("score", c.ethics.Score()), zap.Stringer("band", c.ethics.Band()))
		c.setState(StateFinished)
		return
	}
	c.activateSpeaker()
	c.fade.Start(c.cfg.FadeDuration, c.greet)
}
