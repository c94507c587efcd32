// Package config loads planner settings from VIMY_* environment variables,
// optionally overridden by command-line flags.
package config

import (
	"flag"
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds the planner configuration.
type Config struct {
	Socket        string `env:"VIMY_SOCKET"          envDefault:"/tmp/vimy-planner.sock"`
	LogLevel      string `env:"VIMY_LOG_LEVEL"       envDefault:"info"`
	GameData      string `env:"VIMY_GAMEDATA"`
	Journal       string `env:"VIMY_JOURNAL"`
	Seed          int64  `env:"VIMY_SEED"            envDefault:"0"` // scenario rolls only (plan command)
	MaxDepth      int    `env:"VIMY_MAX_DEPTH"       envDefault:"8"`
	MaxIterations int    `env:"VIMY_MAX_ITERATIONS"  envDefault:"2048"`
	HireCost      int    `env:"VIMY_HERO_HIRE_COST"  envDefault:"2500"`
	ThreatHorizon int    `env:"VIMY_THREAT_HORIZON"  envDefault:"7"`
	ThreatMode    string `env:"VIMY_THREAT_MODE"     envDefault:"dominant"`
	Doctrine      string `env:"VIMY_DOCTRINE"        envDefault:"balanced"`
	OTelEndpoint  string `env:"VIMY_OTEL_ENDPOINT"`
}

// Parse reads the environment, then applies flags from args on top. The
// -seed flag is only offered to the plan command, the one place random
// content is rolled.
func Parse(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs.StringVar(&cfg.Socket, "socket", cfg.Socket, "unix socket path")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.StringVar(&cfg.GameData, "gamedata", cfg.GameData, "path to YAML game tables (default: built-in)")
	fs.StringVar(&cfg.Journal, "journal", cfg.Journal, "sqlite journal path (default: disabled)")
	if fs.Name() == "plan" {
		fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "seed for rolling scenario troops, 0 keeps the script's")
	}
	fs.IntVar(&cfg.MaxDepth, "max-depth", cfg.MaxDepth, "decomposition depth bound")
	fs.IntVar(&cfg.MaxIterations, "max-iterations", cfg.MaxIterations, "goals visited per pass")
	fs.IntVar(&cfg.HireCost, "hire-cost", cfg.HireCost, "gold price of a tavern hero")
	fs.IntVar(&cfg.ThreatHorizon, "threat-horizon", cfg.ThreatHorizon, "turns of lookahead for threats")
	fs.StringVar(&cfg.ThreatMode, "threat-mode", cfg.ThreatMode, "dominant or additive")
	fs.StringVar(&cfg.Doctrine, "doctrine", cfg.Doctrine, "doctrine preset or YAML file")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the planner cannot run with.
func (c Config) Validate() error {
	switch c.ThreatMode {
	case "dominant", "additive":
	default:
		return fmt.Errorf("invalid threat mode %q", c.ThreatMode)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.MaxDepth < 1 || c.MaxIterations < 1 {
		return fmt.Errorf("planning bounds must be positive (depth %d, iterations %d)", c.MaxDepth, c.MaxIterations)
	}
	if c.HireCost < 0 {
		return fmt.Errorf("negative hire cost %d", c.HireCost)
	}
	return nil
}

// Level maps LogLevel onto a slog level.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return l, nil
}
