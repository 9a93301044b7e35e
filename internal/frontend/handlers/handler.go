package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/votemenot/internal/frontend/telnet"
	"github.com/cory-johannsen/votemenot/internal/game/command"
	"github.com/cory-johannsen/votemenot/internal/game/dice"
	"github.com/cory-johannsen/votemenot/internal/game/encounter"
	"github.com/cory-johannsen/votemenot/internal/game/hearing"
	"github.com/cory-johannsen/votemenot/internal/game/narration"
	"github.com/cory-johannsen/votemenot/internal/game/politician"
	"github.com/cory-johannsen/votemenot/internal/game/skill"
	"github.com/cory-johannsen/votemenot/internal/observability"
)

// GameHandler implements telnet.SessionHandler. Every connection gets its own
// game over a private copy of the roster.
type GameHandler struct {
	settings  hearing.Settings
	roster    *politician.Roster
	newSource func() dice.Source
	registry  *command.Registry
	cfg       SessionConfig
	logger    *zap.Logger
	metrics   *observability.Metrics
}

// NewGameHandler creates a GameHandler.
//
// Precondition: roster, newSource, registry, and logger must be non-nil; cfg.TickInterval > 0.
// Postcondition: Returns a GameHandler ready to handle sessions.
func NewGameHandler(
	settings hearing.Settings,
	roster *politician.Roster,
	newSource func() dice.Source,
	registry *command.Registry,
	cfg SessionConfig,
	logger *zap.Logger,
) *GameHandler {
	if roster == nil || newSource == nil || registry == nil || logger == nil {
		panic("handlers.NewGameHandler: roster, newSource, registry, and logger must not be nil")
	}
	if cfg.TickInterval <= 0 {
		panic("handlers.NewGameHandler: tick interval must be positive")
	}
	return &GameHandler{
		settings:  settings,
		roster:    roster,
		newSource: newSource,
		registry:  registry,
		cfg:       cfg,
		logger:    logger,
	}
}

// WithMetrics records every session on m. A nil m disables recording.
func (h *GameHandler) WithMetrics(m *observability.Metrics) *GameHandler {
	h.metrics = m
	return h
}

// HandleSession implements telnet.SessionHandler.
//
// Postcondition: Returns nil on clean quit or finish, or an error if the session ended abnormally.
func (h *GameHandler) HandleSession(ctx context.Context, conn *telnet.Conn) error {
	return h.Serve(ctx, conn, conn.RemoteAddr().String())
}

// Serve runs one session on term. remote labels the session in logs.
func (h *GameHandler) Serve(ctx context.Context, term Terminal, remote string) error {
	start := time.Now()
	id := uuid.NewString()
	logger := observability.SessionLogger(h.logger, id, remote)
	logger.Info("hearing started")
	h.metrics.SessionStarted()

	session := NewSession(term, func(sink narration.Sink) *hearing.Game {
		roller := dice.NewLoggedRoller(h.newSource(), logger.Named("dice"))
		return hearing.New(h.settings, h.roster, roller, sink, logger)
	}, h.registry, h.cfg, logger)
	g := session.Game()
	g.Controller.OnSkillOutcome(func(o skill.Outcome) {
		h.metrics.ObserveCheck(o.Kind.String(), o.Skill.String(), o.Success)
	})
	g.Controller.OnVerdict(func(v encounter.Verdict) {
		h.metrics.ObserveVerdict(v.Decision.String(), v.Affiliation.String())
	})

	err := session.Run(ctx)
	outcome := sessionOutcome(g, err)
	h.metrics.SessionEnded(outcome, time.Since(start))
	if g.Finished() {
		h.metrics.ObserveFinalEthics(g.Ethics.Score())
	}
	logger.Info("hearing ended",
		zap.Stringer("state", g.Controller.State()),
		zap.Int("ethics", g.Ethics.Score()),
		zap.Stringer("band", g.Ethics.Band()),
		zap.String("outcome", outcome),
		zap.Duration("duration", time.Since(start)),
		zap.Error(err),
	)
	return err
}

func sessionOutcome(g *hearing.Game, err error) string {
	switch {
	case err == nil && g.Finished():
		return "finished"
	case err == nil:
		return "quit"
	case errors.Is(err, ErrIdleTimeout):
		return "idle"
	case errors.Is(err, context.Canceled):
		return "closed"
	default:
		return "error"
	}
}
