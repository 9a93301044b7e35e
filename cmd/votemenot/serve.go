package main

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/votemenot/internal/frontend/handlers"
	"github.com/cory-johannsen/votemenot/internal/frontend/telnet"
	"github.com/cory-johannsen/votemenot/internal/game/command"
	"github.com/cory-johannsen/votemenot/internal/game/dice"
	"github.com/cory-johannsen/votemenot/internal/observability"
	"github.com/cory-johannsen/votemenot/internal/server"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Host the game over Telnet",
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()

			cfg, err := opts.load()
			if err != nil {
				return err
			}
			logger, err := observability.NewLogger(cfg.Logging)
			if err != nil {
				return fmt.Errorf("initializing logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			roster, err := loadRoster(cfg)
			if err != nil {
				logger.Error("loading content", zap.Error(err))
				return err
			}
			logger.Info("content loaded",
				zap.String("dir", cfg.Content.PoliticiansDir),
				zap.Int("politicians", roster.Len()),
			)

			lifecycle := server.NewLifecycle(logger, stopTimeout)

			var metrics *observability.Metrics
			if cfg.Metrics.Enabled {
				reg := prometheus.NewRegistry()
				reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
				if metrics, err = observability.NewMetrics(reg); err != nil {
					return err
				}
				lifecycle.Add("metrics", observability.NewMetricsServer(cfg.Metrics, reg, logger.Named("metrics")))
			}

			handler := handlers.NewGameHandler(
				settingsFromConfig(cfg),
				roster,
				dice.NewCryptoSource,
				command.DefaultRegistry(),
				sessionConfig(cfg, true),
				logger,
			).WithMetrics(metrics)
			acceptor := telnet.NewAcceptor(cfg.Telnet, handler, logger.Named("telnet"))
			lifecycle.Add("telnet", acceptor)

			logger.Info("votemenot initialized",
				zap.String("telnet_addr", cfg.Telnet.Addr()),
				zap.Bool("metrics", cfg.Metrics.Enabled),
				zap.Duration("startup", time.Since(start)),
			)
			return lifecycle.Run(cmd.Context())
		},
	}
}
