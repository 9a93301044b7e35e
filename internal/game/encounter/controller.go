// Package encounter sequences a politician interview: claim selection, the
// claim response menu, question trees, skill checks, and the verdict that
// advances to the next speaker.
package encounter

import (
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/votemenot/internal/game/clock"
	"github.com/cory-johannsen/votemenot/internal/game/dialogue"
	"github.com/cory-johannsen/votemenot/internal/game/dice"
	"github.com/cory-johannsen/votemenot/internal/game/energy"
	"github.com/cory-johannsen/votemenot/internal/game/ethics"
	"github.com/cory-johannsen/votemenot/internal/game/modifier"
	"github.com/cory-johannsen/votemenot/internal/game/narration"
	"github.com/cory-johannsen/votemenot/internal/game/politician"
	"github.com/cory-johannsen/votemenot/internal/game/skill"
)

// Config holds the controller's own tunables.
type Config struct {
	Decisions DecisionRules
	// FadeDuration is the length of each half of the speaker transition.
	FadeDuration time.Duration
}

// Deps are the collaborators a Controller drives.
type Deps struct {
	Roster   *politician.Roster
	Ledger   *modifier.Ledger
	Ethics   *ethics.Tracker
	Energy   *energy.Pool
	Resolver *skill.Resolver
	Roller   *dice.Roller
	Player   narration.Player
	Logger   *zap.Logger
}

// Controller is the per-session encounter state machine. Every method must be
// called from the same goroutine that calls Tick.
type Controller struct {
	cfg      Config
	roster   *politician.Roster
	ledger   *modifier.Ledger
	ethics   *ethics.Tracker
	energy   *energy.Pool
	resolver *skill.Resolver
	roller   *dice.Roller
	player   narration.Player
	logger   *zap.Logger

	state   State
	started bool
	// ready is true when the current menu or tree node accepts input.
	ready   bool
	speaker int
	claim   int
	locks   cycleLocks
	cursor  *dialogue.Cursor
	verdict bool

	fade        clock.Countdown
	lastOutcome *skill.Outcome

	outcomeHooks []func(skill.Outcome)
	stateHooks   []func(from, to State)
	verdictHooks []func(Verdict)
}

// NewController creates a controller positioned before the first speaker.
//
// Precondition: every Deps field must be non-nil.
func NewController(cfg Config, deps Deps) *Controller {
	if deps.Roster == nil || deps.Ledger == nil || deps.Ethics == nil || deps.Energy == nil ||
		deps.Resolver == nil || deps.Roller == nil || deps.Player == nil || deps.Logger == nil {
		panic("encounter: NewController requires every dependency")
	}
	return &Controller{
		cfg:      cfg,
		roster:   deps.Roster,
		ledger:   deps.Ledger,
		ethics:   deps.Ethics,
		energy:   deps.Energy,
		resolver: deps.Resolver,
		roller:   deps.Roller,
		player:   deps.Player,
		logger:   deps.Logger,
		claim:    -1,
		cursor:   dialogue.NewCursor(),
	}
}

// OnSkillOutcome registers fn to receive every resolved check before its narration starts.
func (c *Controller) OnSkillOutcome(fn func(skill.Outcome)) {
	if fn != nil {
		c.outcomeHooks = append(c.outcomeHooks, fn)
	}
}

// OnStateChange registers fn to receive every state transition.
func (c *Controller) OnStateChange(fn func(from, to State)) {
	if fn != nil {
		c.stateHooks = append(c.stateHooks, fn)
	}
}

// OnVerdict registers fn to receive every accepted or rejected speaker.
func (c *Controller) OnVerdict(fn func(Verdict)) {
	if fn != nil {
		c.verdictHooks = append(c.verdictHooks, fn)
	}
}

// Start activates the first speaker and plays their greeting.
//
// Postcondition: returns ErrRosterExhausted and enters StateFinished when the roster is empty.
func (c *Controller) Start() error {
	if c.started {
		return ErrUnavailable
	}
	c.started = true
	if c.roster.Len() == 0 {
		c.setState(StateFinished)
		return ErrRosterExhausted
	}
	c.speaker = 0
	c.activateSpeaker()
	c.greet()
	return nil
}

// Tick advances modifier timers and the speaker transition by dt.
func (c *Controller) Tick(dt time.Duration) {
	c.ledger.Tick(dt)
	c.fade.Tick(dt)
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Ready reports whether the current menu or tree node accepts input.
func (c *Controller) Ready() bool { return c.ready }

// Speaker returns the active speaker, or nil when none is active.
func (c *Controller) Speaker() *politician.Politician {
	if c.state == StateFinished {
		return nil
	}
	return c.roster.At(c.speaker)
}

// ApplyBottleBoost applies a consumable boost to the ledger.
func (c *Controller) ApplyBottleBoost(percent int, d time.Duration) error {
	if c.state == StateFinished {
		return ErrRosterExhausted
	}
	c.ledger.ApplyBoost(percent, d)
	return nil
}

// guardActive rejects input while transitioning or after the roster is exhausted.
func (c *Controller) guardActive() error {
	switch {
	case !c.started:
		return ErrUnavailable
	case c.state == StateFinished:
		return ErrRosterExhausted
	case c.state == StateTransition:
		return ErrTransitionInFlight
	}
	return nil
}

func (c *Controller) setState(s State) {
	if s == c.state {
		return
	}
	from := c.state
	c.state = s
	c.logger.Debug("encounter state", zap.Stringer("from", from), zap.Stringer("to", s))
	for _, fn := range c.stateHooks {
		fn(from, s)
	}
}

func (c *Controller) activateSpeaker() {
	p := c.roster.At(c.speaker)
	c.ledger.SetActiveSpeaker(p.SpeechModPercent, p.ScholarModPercent)
	c.logger.Info("speaker active",
		zap.String("speaker", p.ID),
		zap.Stringer("affiliation", p.Affiliation),
		zap.Int("index", c.speaker),
	)
}

func (c *Controller) greet() {
	c.setState(StateIdle)
	c.ready = true
	p := c.roster.At(c.speaker)
	c.play("initial", p.Initial, nil)
}

// play hands content to the player. Missing content is logged and the
// continuation runs immediately so the caller's menu is always restored.
func (c *Controller) play(kind string, content dialogue.Content, onComplete func()) {
	p := c.roster.At(c.speaker)
	if content.Empty() {
		c.logger.Warn("missing dialogue content",
			zap.String("speaker", p.ID),
			zap.Int("claim", c.claim),
			zap.Int("node", c.cursor.Index()),
			zap.String("content", kind),
		)
		if onComplete != nil {
			onComplete()
		}
		return
	}
	c.player.Play(p.Name, content, onComplete)
}

func (c *Controller) reportOutcome(o skill.Outcome) {
	c.lastOutcome = &o
	c.logger.Info("skill check",
		zap.String("speaker", c.roster.At(c.speaker).ID),
		zap.Stringer("kind", o.Kind),
		zap.Stringer("skill", o.Skill),
		zap.Int("stat", o.Stat),
		zap.Float64("chance", o.Chance),
		zap.Float64("draw", o.Draw),
		zap.Bool("success", o.Success),
	)
	for _, fn := range c.outcomeHooks {
		fn(o)
	}
}
