// Package hearing assembles one player's vetting session from settings and a
// politician roster: the encounter controller plus the meters, modifiers,
// bottles, and narrator it drives.
package hearing

import (
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/votemenot/internal/game/consumable"
	"github.com/cory-johannsen/votemenot/internal/game/dice"
	"github.com/cory-johannsen/votemenot/internal/game/encounter"
	"github.com/cory-johannsen/votemenot/internal/game/energy"
	"github.com/cory-johannsen/votemenot/internal/game/ethics"
	"github.com/cory-johannsen/votemenot/internal/game/modifier"
	"github.com/cory-johannsen/votemenot/internal/game/narration"
	"github.com/cory-johannsen/votemenot/internal/game/politician"
	"github.com/cory-johannsen/votemenot/internal/game/skill"
)

// Settings gathers every tunable of a session.
type Settings struct {
	Player     modifier.Config
	Energy     energy.Config
	Ethics     ethics.Config
	Checks     skill.CheckRules
	Encounter  encounter.Config
	Consumable consumable.Config
	Narration  narration.Config
}

// DefaultSettings returns the shipped tuning.
func DefaultSettings() Settings {
	return Settings{
		Player:    modifier.Config{BaseSpeech: 50, BaseScholar: 50, DebuffWindow: 10 * time.Second},
		Energy:    energy.DefaultConfig(),
		Ethics:    ethics.DefaultConfig(),
		Checks:    skill.DefaultCheckRules(),
		Encounter: encounter.Config{Decisions: encounter.DefaultDecisionRules(), FadeDuration: time.Second},
		Consumable: consumable.Config{
			Count:    4,
			Percent:  35,
			Duration: time.Minute,
		},
		Narration: narration.DefaultConfig(),
	}
}

// Game is one player's session. Like the Controller it wraps, it is driven
// from a single goroutine.
type Game struct {
	Controller *encounter.Controller
	Narrator   *narration.Narrator
	Stock      *consumable.Stock
	Ledger     *modifier.Ledger
	Energy     *energy.Pool
	Ethics     *ethics.Tracker
}

// New builds a Game over a private clone of roster.
//
// Precondition: roster, roller, and logger must be non-nil; a nil sink discards narration.
// Postcondition: the Game is not started; call Start.
func New(s Settings, roster *politician.Roster, roller *dice.Roller, sink narration.Sink, logger *zap.Logger) *Game {
	if roster == nil || roller == nil || logger == nil {
		panic("hearing.New: roster, roller, and logger must not be nil")
	}
	ledger := modifier.NewLedger(s.Player, roller, logger.Named("modifiers"))
	pool := energy.NewPool(s.Energy, logger.Named("energy"))
	tracker := ethics.NewTracker(s.Ethics, logger.Named("ethics"))
	narrator := narration.NewNarrator(s.Narration, sink, logger.Named("narration"))
	ctrl := encounter.NewController(s.Encounter, encounter.Deps{
		Roster:   roster.Clone(),
		Ledger:   ledger,
		Ethics:   tracker,
		Energy:   pool,
		Resolver: skill.NewResolver(s.Checks, roller),
		Roller:   roller,
		Player:   narrator,
		Logger:   logger.Named("encounter"),
	})
	return &Game{
		Controller: ctrl,
		Narrator:   narrator,
		Stock:      consumable.NewStock(s.Consumable, logger.Named("bottles")),
		Ledger:     ledger,
		Energy:     pool,
		Ethics:     tracker,
	}
}

// Start greets the first politician.
func (g *Game) Start() error { return g.Controller.Start() }

// Tick advances narration, modifier countdowns, and the speaker fade by dt.
func (g *Game) Tick(dt time.Duration) {
	g.Narrator.Tick(dt)
	g.Controller.Tick(dt)
}

// Drink consumes one bottle on the player.
func (g *Game) Drink() error { return g.Stock.Consume(g.Controller) }

// Finished reports whether every politician has received a verdict.
func (g *Game) Finished() bool { return g.Controller.State() == encounter.StateFinished }
