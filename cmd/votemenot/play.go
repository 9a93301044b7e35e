package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/cory-johannsen/votemenot/internal/frontend/handlers"
	"github.com/cory-johannsen/votemenot/internal/game/command"
	"github.com/cory-johannsen/votemenot/internal/game/dice"
	"github.com/cory-johannsen/votemenot/internal/observability"
)

// isTTY reports whether stdin and stdout are both attached to a terminal.
func isTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func newPlayCmd(opts *rootOptions) *cobra.Command {
	var (
		noColor bool
		seed    uint64
		logFile string
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in this terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			// Keep log lines out of the game transcript.
			cfg.Logging.Output = logFile
			logger, err := observability.NewLogger(cfg.Logging)
			if err != nil {
				return fmt.Errorf("initializing logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			roster, err := loadRoster(cfg)
			if err != nil {
				return err
			}

			newSource := dice.NewCryptoSource
			if seed != 0 {
				newSource = func() dice.Source { return dice.NewSeededSource(seed) }
				logger.Info("seeded dice", zap.Uint64("seed", seed))
			}

			handler := handlers.NewGameHandler(
				settingsFromConfig(cfg),
				roster,
				newSource,
				command.DefaultRegistry(),
				sessionConfig(cfg, false),
				logger,
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			color := isTTY() && !noColor
			console := handlers.NewStreamTerminal(cmd.InOrStdin(), cmd.OutOrStdout(), color)
			err = handler.Serve(ctx, console, "console")
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable ANSI styling")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed the dice for a reproducible run (0 draws from the OS)")
	cmd.Flags().StringVar(&logFile, "log-file", "votemenot.log", "where play writes its logs")
	return cmd
}
