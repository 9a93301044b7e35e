// Package config provides Viper-based configuration loading for the vetting game.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// TelnetConfig holds Telnet acceptor settings.
type TelnetConfig struct {
	// Host is the bind address for the Telnet listener.
	Host string `mapstructure:"host"`
	// Port is the TCP port for the Telnet listener.
	Port int `mapstructure:"port"`
	// WriteTimeout is the per-write timeout for Telnet connections.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// IdleTimeout is the duration of inactivity after which a warning is sent.
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
	// IdleGracePeriod is the additional duration after IdleTimeout before disconnecting.
	IdleGracePeriod time.Duration `mapstructure:"idle_grace_period"`
	// MaxSessions caps concurrent sessions; 0 means unlimited.
	MaxSessions int `mapstructure:"max_sessions"`
}

// Addr returns the "host:port" listen address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (t TelnetConfig) Addr() string {
	return fmt.Sprintf("%s:%d", t.Host, t.Port)
}

// MetricsConfig controls the Prometheus endpoint served alongside Telnet.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	// Path is the HTTP path the registry is exposed on.
	Path string `mapstructure:"path"`
}

// Addr returns the "host:port" listen address.
func (m MetricsConfig) Addr() string {
	return fmt.Sprintf("%s:%d", m.Host, m.Port)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is "stderr", "stdout", or a file path.
	Output string `mapstructure:"output"`
}

// ContentConfig locates the politician definitions.
type ContentConfig struct {
	PoliticiansDir string `mapstructure:"politicians_dir"`
	// RosterOrder lists politician IDs in interview order; empty uses file order.
	RosterOrder []string `mapstructure:"roster_order"`
}

// PlayerConfig holds the player's base stats.
type PlayerConfig struct {
	BaseSpeech  int `mapstructure:"base_speech"`
	BaseScholar int `mapstructure:"base_scholar"`
}

// EnergyConfig holds the energy pool size and costs.
type EnergyConfig struct {
	Max       int `mapstructure:"max"`
	HardCost  int `mapstructure:"hard_cost"`
	TreeCost  int `mapstructure:"tree_cost"`
	Replenish int `mapstructure:"replenish"`
}

// EthicsConfig holds the ethics meter bounds, thresholds, and decision amounts.
type EthicsConfig struct {
	Initial          int     `mapstructure:"initial"`
	Min              int     `mapstructure:"min"`
	Max              int     `mapstructure:"max"`
	EvilThreshold    int     `mapstructure:"evil_threshold"`
	GoodThreshold    int     `mapstructure:"good_threshold"`
	UpdateAmountGood int     `mapstructure:"update_amount_good"`
	UpdateAmountEvil int     `mapstructure:"update_amount_evil"`
	RejectGoodFactor float64 `mapstructure:"reject_good_factor"`
	Clamp            bool    `mapstructure:"clamp"`
}

// ChecksConfig holds the flat skill-check adjustments.
type ChecksConfig struct {
	HardPenalty    float64 `mapstructure:"hard_penalty"`
	HardBoostLow   float64 `mapstructure:"hard_boost_low"`
	HardBoostHigh  float64 `mapstructure:"hard_boost_high"`
	HardBoostPivot float64 `mapstructure:"hard_boost_pivot"`
	TreeBoost      float64 `mapstructure:"tree_boost"`
}

// ModifiersConfig holds modifier timing.
type ModifiersConfig struct {
	DebuffWindow time.Duration `mapstructure:"debuff_window"`
}

// ConsumableConfig describes the bottle supply.
type ConsumableConfig struct {
	Bottles      int           `mapstructure:"bottles"`
	BoostPercent int           `mapstructure:"boost_percent"`
	Duration     time.Duration `mapstructure:"duration"`
}

// NarrationConfig controls the typewriter pacing.
type NarrationConfig struct {
	CharDelay    time.Duration `mapstructure:"char_delay"`
	LinePause    time.Duration `mapstructure:"line_pause"`
	AutoProgress bool          `mapstructure:"auto_progress"`
	AutoDelay    time.Duration `mapstructure:"auto_delay"`
}

// TransitionConfig controls the speaker fade.
type TransitionConfig struct {
	FadeDuration time.Duration `mapstructure:"fade_duration"`
}

// SessionConfig controls the per-session update loop.
type SessionConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Telnet     TelnetConfig     `mapstructure:"telnet"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Content    ContentConfig    `mapstructure:"content"`
	Player     PlayerConfig     `mapstructure:"player"`
	Energy     EnergyConfig     `mapstructure:"energy"`
	Ethics     EthicsConfig     `mapstructure:"ethics"`
	Checks     ChecksConfig     `mapstructure:"checks"`
	Modifiers  ModifiersConfig  `mapstructure:"modifiers"`
	Consumable ConsumableConfig `mapstructure:"consumable"`
	Narration  NarrationConfig  `mapstructure:"narration"`
	Transition TransitionConfig `mapstructure:"transition"`
	Session    SessionConfig    `mapstructure:"session"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	validators := []func() error{
		func() error { return validateLogging(c.Logging) },
		func() error { return validateTelnet(c.Telnet) },
		func() error { return validateMetrics(c.Metrics) },
		func() error { return validateContent(c.Content) },
		func() error { return validatePlayer(c.Player) },
		func() error { return validateEnergy(c.Energy) },
		func() error { return validateEthics(c.Ethics) },
		func() error { return validateChecks(c.Checks) },
		func() error { return validateTimings(c) },
	}
	for _, fn := range validators {
		if err := fn(); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func joined(errs []string) error {
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	if l.Output == "" {
		return fmt.Errorf("logging.output must not be empty")
	}
	return nil
}

func validateTelnet(t TelnetConfig) error {
	var errs []string
	if t.Port < 0 || t.Port > 65535 {
		errs = append(errs, fmt.Sprintf("telnet.port must be 0-65535, got %d", t.Port))
	}
	if t.WriteTimeout < 0 {
		errs = append(errs, "telnet.write_timeout must not be negative")
	}
	if t.IdleTimeout < 0 || t.IdleGracePeriod < 0 {
		errs = append(errs, "telnet idle durations must not be negative")
	}
	if t.MaxSessions < 0 {
		errs = append(errs, fmt.Sprintf("telnet.max_sessions must be >= 0, got %d", t.MaxSessions))
	}
	return joined(errs)
}

func validateMetrics(m MetricsConfig) error {
	if !m.Enabled {
		return nil
	}
	var errs []string
	if m.Port < 0 || m.Port > 65535 {
		errs = append(errs, fmt.Sprintf("metrics.port must be 0-65535, got %d", m.Port))
	}
	if !strings.HasPrefix(m.Path, "/") {
		errs = append(errs, fmt.Sprintf("metrics.path must start with /, got %q", m.Path))
	}
	return joined(errs)
}

func validateContent(c ContentConfig) error {
	if c.PoliticiansDir == "" {
		return fmt.Errorf("content.politicians_dir must not be empty")
	}
	seen := make(map[string]bool, len(c.RosterOrder))
	for _, id := range c.RosterOrder {
		if seen[id] {
			return fmt.Errorf("content.roster_order lists %q twice", id)
		}
		seen[id] = true
	}
	return nil
}

func validatePlayer(p PlayerConfig) error {
	var errs []string
	if p.BaseSpeech < 0 {
		errs = append(errs, fmt.Sprintf("player.base_speech must be >= 0, got %d", p.BaseSpeech))
	}
	if p.BaseScholar < 0 {
		errs = append(errs, fmt.Sprintf("player.base_scholar must be >= 0, got %d", p.BaseScholar))
	}
	return joined(errs)
}

func validateEnergy(e EnergyConfig) error {
	var errs []string
	if e.Max < 1 {
		errs = append(errs, fmt.Sprintf("energy.max must be >= 1, got %d", e.Max))
	}
	if e.HardCost < 0 || e.TreeCost < 0 || e.Replenish < 0 {
		errs = append(errs, "energy costs and replenish must not be negative")
	}
	return joined(errs)
}

func validateEthics(e EthicsConfig) error {
	var errs []string
	if e.EvilThreshold >= e.GoodThreshold {
		errs = append(errs, fmt.Sprintf("ethics.evil_threshold (%d) must be below ethics.good_threshold (%d)", e.EvilThreshold, e.GoodThreshold))
	}
	if e.Clamp {
		if e.Min > e.Max {
			errs = append(errs, fmt.Sprintf("ethics.min (%d) must not exceed ethics.max (%d)", e.Min, e.Max))
		} else if e.Initial < e.Min || e.Initial > e.Max {
			errs = append(errs, fmt.Sprintf("ethics.initial (%d) must be within [%d, %d]", e.Initial, e.Min, e.Max))
		}
	}
	if e.UpdateAmountGood < 0 || e.UpdateAmountEvil < 0 {
		errs = append(errs, "ethics update amounts must not be negative")
	}
	if e.RejectGoodFactor < 0 {
		errs = append(errs, "ethics.reject_good_factor must not be negative")
	}
	return joined(errs)
}

func validateChecks(c ChecksConfig) error {
	var errs []string
	for name, v := range map[string]float64{
		"checks.hard_penalty":     c.HardPenalty,
		"checks.hard_boost_low":   c.HardBoostLow,
		"checks.hard_boost_high":  c.HardBoostHigh,
		"checks.hard_boost_pivot": c.HardBoostPivot,
		"checks.tree_boost":       c.TreeBoost,
	} {
		if v < 0 || v > 100 {
			errs = append(errs, fmt.Sprintf("%s must be within [0, 100], got %v", name, v))
		}
	}
	return joined(errs)
}

func validateTimings(c Config) error {
	var errs []string
	if c.Modifiers.DebuffWindow <= 0 {
		errs = append(errs, "modifiers.debuff_window must be positive")
	}
	if c.Consumable.Bottles < 0 {
		errs = append(errs, fmt.Sprintf("consumable.bottles must be >= 0, got %d", c.Consumable.Bottles))
	}
	if c.Consumable.Duration <= 0 {
		errs = append(errs, "consumable.duration must be positive")
	}
	if c.Narration.CharDelay < 0 || c.Narration.LinePause < 0 || c.Narration.AutoDelay < 0 {
		errs = append(errs, "narration delays must not be negative")
	}
	if c.Transition.FadeDuration < 0 {
		errs = append(errs, "transition.fade_duration must not be negative")
	}
	if c.Session.TickInterval <= 0 {
		errs = append(errs, "session.tick_interval must be positive")
	}
	return joined(errs)
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and the environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := NewViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// NewViper returns a Viper instance with defaults and VOTEMENOT_ environment overrides.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("VOTEMENOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("telnet.host", "0.0.0.0")
	v.SetDefault("telnet.port", 4000)
	v.SetDefault("telnet.write_timeout", "30s")
	v.SetDefault("telnet.idle_timeout", "5m")
	v.SetDefault("telnet.idle_grace_period", "1m")
	v.SetDefault("telnet.max_sessions", 0)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.host", "127.0.0.1")
	v.SetDefault("metrics.port", 9464)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("content.politicians_dir", "content/politicians")
	v.SetDefault("content.roster_order", []string{})

	v.SetDefault("player.base_speech", 50)
	v.SetDefault("player.base_scholar", 50)

	v.SetDefault("energy.max", 10)
	v.SetDefault("energy.hard_cost", 3)
	v.SetDefault("energy.tree_cost", 1)
	v.SetDefault("energy.replenish", 2)

	v.SetDefault("ethics.initial", 50)
	v.SetDefault("ethics.min", 0)
	v.SetDefault("ethics.max", 100)
	v.SetDefault("ethics.evil_threshold", 40)
	v.SetDefault("ethics.good_threshold", 60)
	v.SetDefault("ethics.update_amount_good", 10)
	v.SetDefault("ethics.update_amount_evil", 10)
	v.SetDefault("ethics.reject_good_factor", 0.25)
	v.SetDefault("ethics.clamp", true)

	v.SetDefault("checks.hard_penalty", 20)
	v.SetDefault("checks.hard_boost_low", 30)
	v.SetDefault("checks.hard_boost_high", 15)
	v.SetDefault("checks.hard_boost_pivot", 50)
	v.SetDefault("checks.tree_boost", 25)

	v.SetDefault("modifiers.debuff_window", "10s")

	v.SetDefault("consumable.bottles", 4)
	v.SetDefault("consumable.boost_percent", 35)
	v.SetDefault("consumable.duration", "60s")

	v.SetDefault("narration.char_delay", "50ms")
	v.SetDefault("narration.line_pause", "1s")
	v.SetDefault("narration.auto_progress", true)
	v.SetDefault("narration.auto_delay", "500ms")

	v.SetDefault("transition.fade_duration", "1s")

	v.SetDefault("session.tick_interval", "50ms")
}
