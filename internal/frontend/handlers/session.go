package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/votemenot/internal/frontend/telnet"
	"github.com/cory-johannsen/votemenot/internal/game/command"
	"github.com/cory-johannsen/votemenot/internal/game/encounter"
	"github.com/cory-johannsen/votemenot/internal/game/ethics"
	"github.com/cory-johannsen/votemenot/internal/game/hearing"
	"github.com/cory-johannsen/votemenot/internal/game/modifier"
	"github.com/cory-johannsen/votemenot/internal/game/narration"
	"github.com/cory-johannsen/votemenot/internal/game/skill"
)

// ErrIdleTimeout ends a session whose player stopped responding.
var ErrIdleTimeout = errors.New("idle timeout")

// SessionConfig controls a session's update loop and idle handling.
type SessionConfig struct {
	TickInterval    time.Duration
	IdleTimeout     time.Duration
	IdleGracePeriod time.Duration
}

// Session drives one game from a terminal. All game access happens on the
// goroutine running Run.
type Session struct {
	game     *hearing.Game
	scr      *screen
	term     Terminal
	registry *command.Registry
	cfg      SessionConfig
	logger   *zap.Logger

	needPanel  bool
	needPrompt bool
	done       bool
	debuffed   bool
	boosted    bool
}

// NewSession wires a game built by build to term. build receives the
// narration sink that streams to term.
//
// Precondition: term, build, registry, and logger must be non-nil; cfg.TickInterval > 0.
func NewSession(term Terminal, build func(sink narration.Sink) *hearing.Game, registry *command.Registry, cfg SessionConfig, logger *zap.Logger) *Session {
	scr := newScreen(term)
	sink := &narrationSink{scr: scr}
	s := &Session{
		scr:      scr,
		term:     term,
		registry: registry,
		cfg:      cfg,
		logger:   logger,
	}
	sink.finished = func() { s.needPanel = true }
	s.game = build(sink)
	s.subscribe()
	return s
}

// Game returns the session's game.
func (s *Session) Game() *hearing.Game { return s.game }

func (s *Session) subscribe() {
	c := s.game.Controller
	c.OnSkillOutcome(func(o skill.Outcome) {
		s.scr.line(RenderOutcome(o))
	})
	c.OnStateChange(func(from, to encounter.State) {
		s.needPanel = true
		if from == encounter.StateTransition && to == encounter.StateIdle {
			s.scr.line("")
			s.scr.line(RenderSpeakerHeader(c.View()))
		}
	})
	s.game.Ethics.Subscribe(func(ch ethics.BandChange) {
		s.scr.line(telnet.Colorf(bandColor(ch.To), "Your conscience settles: %s.", ch.To))
	})
	s.game.Ledger.Subscribe(func(snap modifier.Snapshot) {
		boosted := snap.BoostRemaining > 0
		switch {
		case snap.DebuffActive && !s.debuffed:
			s.scr.line(telnet.Colorize(telnet.BrightRed, "You are rattled. Your arguments falter for a while."))
		case !snap.DebuffActive && s.debuffed:
			s.scr.line(telnet.Colorize(telnet.Dim, "You collect yourself."))
		case !boosted && s.boosted:
			s.scr.line(telnet.Colorize(telnet.Dim, "The bottle wears off."))
		}
		s.debuffed = snap.DebuffActive
		s.boosted = boosted
	})
}

// Run plays the session until the player quits, the roster is exhausted,
// input ends, the player idles out, or ctx is cancelled.
//
// Postcondition: Returns nil on a clean finish or quit, ErrIdleTimeout, ctx.Err(), or a wrapped I/O error.
func (s *Session) Run(ctx context.Context) error {
	s.scr.write(welcomeBanner)
	if v := s.game.Controller.View(); v.SpeakerCount > 0 {
		s.scr.line("")
		s.scr.line(RenderSpeakerHeader(v))
	}
	if err := s.game.Start(); err != nil {
		s.scr.line(RenderError(err))
		return fmt.Errorf("starting hearing: %w", err)
	}

	lines := make(chan string)
	readErr := make(chan error, 1)
	stop := make(chan struct{})
	defer close(stop)
	go s.readLoop(lines, readErr, stop)

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()
	last := time.Now()
	idle := NewIdleMonitor(s.cfg.IdleTimeout, s.cfg.IdleGracePeriod, last)

	for {
		select {
		case <-ctx.Done():
			s.scr.line(telnet.Colorize(telnet.Yellow, "The hearing room is closing. Goodbye!"))
			return ctx.Err()
		case err := <-readErr:
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		case line := <-lines:
			idle.Touch(time.Now())
			s.scr.inputReceived()
			if s.handleLine(line) {
				return nil
			}
		case now := <-ticker.C:
			s.game.Tick(now.Sub(last))
			last = now
			switch idle.Check(now) {
			case IdleWarn:
				s.scr.line(telnet.Colorize(telnet.Yellow, "Still there? The hearing will move on without you soon."))
				s.needPrompt = true
			case IdleExpired:
				s.scr.line(telnet.Colorize(telnet.Yellow, "You drifted off. Goodbye."))
				return ErrIdleTimeout
			}
		}
		s.refresh()
		if s.scr.err != nil {
			return fmt.Errorf("writing output: %w", s.scr.err)
		}
		if s.done {
			return nil
		}
	}
}

func (s *Session) readLoop(lines chan<- string, readErr chan<- error, stop <-chan struct{}) {
	for {
		line, err := s.term.ReadLine()
		if err != nil {
			readErr <- err
			return
		}
		select {
		case lines <- line:
		case <-stop:
			return
		}
	}
}

// refresh shows the summary, panel, and prompt once narration is quiet.
func (s *Session) refresh() {
	if s.game.Narrator.Playing() {
		return
	}
	if s.game.Finished() {
		s.scr.line("")
		s.scr.block(RenderSummary(s.game.Controller.View().Ethics))
		s.done = true
		return
	}
	if s.game.Controller.State() == encounter.StateTransition {
		return
	}
	v := s.game.Controller.View()
	if s.needPanel {
		s.scr.block(RenderPanel(v))
		s.needPanel = false
		s.needPrompt = true
	}
	if s.needPrompt {
		s.scr.prompt(RenderPrompt(v))
		s.needPrompt = false
	}
}

// handleLine runs one player command. It returns true when the player quits.
func (s *Session) handleLine(line string) bool {
	s.needPrompt = true
	parsed := command.Parse(line)
	if parsed.Command == "" {
		return false
	}
	if parsed.IsNumber() {
		verb, ok := s.numberedList()
		if !ok {
			s.scr.line(telnet.Colorize(telnet.Red, "There is no numbered list to pick from right now."))
			return false
		}
		parsed = parsed.As(verb)
	}
	cmd, ok := s.registry.Resolve(parsed.Command)
	if !ok {
		s.scr.line(telnet.Colorf(telnet.Red, "Unknown command %q. Type help.", parsed.Command))
		return false
	}
	s.logger.Debug("command", zap.String("handler", cmd.Handler), zap.Strings("args", parsed.Args))
	quit, err := s.dispatch(cmd, parsed)
	if err != nil {
		s.logger.Debug("command rejected", zap.String("handler", cmd.Handler), zap.Error(err))
		s.scr.line(RenderError(err))
	}
	return quit
}

// numberedList returns the verb a bare number stands for in the current view.
func (s *Session) numberedList() (string, bool) {
	switch s.game.Controller.State() {
	case encounter.StateClaimSelection:
		return "claim", true
	case encounter.StateQuestion:
		return "option", true
	}
	return "", false
}

func (s *Session) dispatch(cmd *command.Command, parsed command.ParseResult) (bool, error) {
	c := s.game.Controller
	withIndex := func(fn func(int) error) error {
		i, err := parsed.IndexArg()
		if err != nil {
			return err
		}
		return fn(i)
	}

	switch cmd.Handler {
	case command.HandlerInterrogate:
		return false, c.Interrogate()
	case command.HandlerClaim:
		return false, withIndex(c.SelectClaim)
	case command.HandlerInspect:
		err := withIndex(c.UnlockClaim)
		if err == nil {
			s.scr.line(telnet.Colorize(telnet.Green, "The dossier checks out. A new claim is open."))
			s.needPanel = true
		}
		return false, err
	case command.HandlerAgree:
		return false, c.Agree()
	case command.HandlerQuestion:
		return false, c.Question()
	case command.HandlerCheck:
		return false, c.HardSkillCheck()
	case command.HandlerConverse:
		return false, c.Converse()
	case command.HandlerOption:
		return false, withIndex(c.SelectOption)
	case command.HandlerVerdict:
		return false, c.ToggleVerdict()
	case command.HandlerAccept, command.HandlerReject:
		if !c.VerdictOpen() {
			return false, fmt.Errorf("open the verdict panel first with %s", telnet.Colorize(telnet.Green, "verdict"))
		}
		if cmd.Handler == command.HandlerAccept {
			return false, c.Accept()
		}
		return false, c.Reject()
	case command.HandlerDrink:
		if err := s.game.Drink(); err != nil {
			return false, err
		}
		snap := s.game.Ledger.Snapshot()
		s.scr.line(telnet.Colorf(telnet.BrightGreen, "You drink a bottle: %s for %s. %d left.",
			percent(snap.BoostPercent), snap.BoostRemaining.Round(time.Second), s.game.Stock.Remaining()))
	case command.HandlerStats:
		s.scr.block(RenderStats(c.View(), s.game.Stock.Remaining()))
	case command.HandlerSkip:
		s.game.Narrator.Skip()
	case command.HandlerNext:
		s.game.Narrator.Advance()
	case command.HandlerLook:
		s.scr.line(RenderSpeakerHeader(c.View()))
		s.needPanel = true
	case command.HandlerHelp:
		s.scr.block(RenderHelp(s.registry))
	case command.HandlerQuit:
		s.scr.line(telnet.Colorize(telnet.Cyan, "You gather your notes and leave. Goodbye."))
		return true, nil
	default:
		return false, fmt.Errorf("%s is not wired to an action", strings.ToLower(cmd.Name))
	}
	return false, nil
}
