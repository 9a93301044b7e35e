package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cory-johannsen/votemenot/internal/config"
	"github.com/cory-johannsen/votemenot/internal/frontend/handlers"
	"github.com/cory-johannsen/votemenot/internal/game/consumable"
	"github.com/cory-johannsen/votemenot/internal/game/encounter"
	"github.com/cory-johannsen/votemenot/internal/game/energy"
	"github.com/cory-johannsen/votemenot/internal/game/ethics"
	"github.com/cory-johannsen/votemenot/internal/game/hearing"
	"github.com/cory-johannsen/votemenot/internal/game/modifier"
	"github.com/cory-johannsen/votemenot/internal/game/narration"
	"github.com/cory-johannsen/votemenot/internal/game/politician"
	"github.com/cory-johannsen/votemenot/internal/game/skill"
)

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	configPath string
	v          *viper.Viper
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{v: config.NewViper()}

	root := &cobra.Command{
		Use:   "votemenot",
		Short: "Vote Me Not: hear the candidates out, then decide",
		Long: `Vote Me Not is a narrative vetting game. Each politician makes claims;
question them, press them with skill checks, and accept or reject them.

  votemenot serve               # host the game over Telnet
  votemenot play                # play in this terminal
  votemenot validate            # check politician content`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to configuration file")
	root.PersistentFlags().String("content", "", "politician content directory (overrides content.politicians_dir)")
	root.PersistentFlags().String("log-level", "", "log level (overrides logging.level)")
	_ = opts.v.BindPFlag("content.politicians_dir", root.PersistentFlags().Lookup("content"))
	_ = opts.v.BindPFlag("logging.level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(newServeCmd(opts), newPlayCmd(opts), newValidateCmd(opts))
	return root
}

// load reads the config file, if any, and validates the merged configuration.
func (o *rootOptions) load() (config.Config, error) {
	if o.configPath != "" {
		o.v.SetConfigFile(o.configPath)
		if err := o.v.ReadInConfig(); err != nil {
			return config.Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return config.LoadFromViper(o.v)
}

func loadRoster(cfg config.Config) (*politician.Roster, error) {
	roster, err := politician.LoadDirectory(cfg.Content.PoliticiansDir, cfg.Content.RosterOrder)
	if err != nil {
		return nil, fmt.Errorf("loading politicians from %s: %w", cfg.Content.PoliticiansDir, err)
	}
	return roster, nil
}

func settingsFromConfig(cfg config.Config) hearing.Settings {
	return hearing.Settings{
		Player: modifier.Config{
			BaseSpeech:   cfg.Player.BaseSpeech,
			BaseScholar:  cfg.Player.BaseScholar,
			DebuffWindow: cfg.Modifiers.DebuffWindow,
		},
		Energy: energy.Config{
			Max:       cfg.Energy.Max,
			HardCost:  cfg.Energy.HardCost,
			TreeCost:  cfg.Energy.TreeCost,
			Replenish: cfg.Energy.Replenish,
		},
		Ethics: ethics.Config{
			Initial:       cfg.Ethics.Initial,
			Min:           cfg.Ethics.Min,
			Max:           cfg.Ethics.Max,
			EvilThreshold: cfg.Ethics.EvilThreshold,
			GoodThreshold: cfg.Ethics.GoodThreshold,
			Clamp:         cfg.Ethics.Clamp,
		},
		Checks: skill.CheckRules{
			HardPenalty:    cfg.Checks.HardPenalty,
			HardBoostLow:   cfg.Checks.HardBoostLow,
			HardBoostHigh:  cfg.Checks.HardBoostHigh,
			HardBoostPivot: cfg.Checks.HardBoostPivot,
			TreeBoost:      cfg.Checks.TreeBoost,
		},
		Encounter: encounter.Config{
			Decisions: encounter.DecisionRules{
				UpdateAmountGood: cfg.Ethics.UpdateAmountGood,
				UpdateAmountEvil: cfg.Ethics.UpdateAmountEvil,
				RejectGoodFactor: cfg.Ethics.RejectGoodFactor,
			},
			FadeDuration: cfg.Transition.FadeDuration,
		},
		Consumable: consumable.Config{
			Count:    cfg.Consumable.Bottles,
			Percent:  cfg.Consumable.BoostPercent,
			Duration: cfg.Consumable.Duration,
		},
		Narration: narration.Config{
			CharDelay:    cfg.Narration.CharDelay,
			LinePause:    cfg.Narration.LinePause,
			AutoProgress: cfg.Narration.AutoProgress,
			AutoDelay:    cfg.Narration.AutoDelay,
		},
	}
}

func sessionConfig(cfg config.Config, idle bool) handlers.SessionConfig {
	sc := handlers.SessionConfig{TickInterval: cfg.Session.TickInterval}
	if idle {
		sc.IdleTimeout = cfg.Telnet.IdleTimeout
		sc.IdleGracePeriod = cfg.Telnet.IdleGracePeriod
	}
	return sc
}

// stopTimeout bounds how long serve waits for sessions to wind down.
const stopTimeout = 10 * time.Second
