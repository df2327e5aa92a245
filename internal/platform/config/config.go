// Package config loads service settings from the environment and flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage backends.
const (
	StoreSQLite = "sqlite"
	StoreFile   = "file"
	StoreMemory = "memory"
)

// Config holds every runtime setting of the pet services.
type Config struct {
	TickPeriod time.Duration `env:"PET_TICK_PERIOD" envDefault:"12s"`
	HTTPAddr   string        `env:"PET_HTTP_ADDR" envDefault:":8080"`

	Store      string `env:"PET_STORE" envDefault:"sqlite"`
	DBPath     string `env:"PET_DB_PATH" envDefault:"data/pet.db"`
	FilePath   string `env:"PET_FILE_PATH" envDefault:"pet.json"`
	StorageKey string `env:"PET_STORAGE_KEY" envDefault:"petData"`

	// Newest journal events kept in memory and on disk; 0 keeps all.
	JournalRetention int `env:"PET_JOURNAL_RETENTION" envDefault:"5000"`

	Profile string `env:"PET_PROFILE" envDefault:"default"`

	OTelEnabled  bool   `env:"PET_OTEL_ENABLED" envDefault:"true"`
	OTelEndpoint string `env:"PET_OTEL_ENDPOINT"`

	Mute bool `env:"PET_MUTE" envDefault:"false"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the environment and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RegisterFlags binds cfg fields to fs using the current values as defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.DurationVar(&c.TickPeriod, "tick", c.TickPeriod, "decay tick period")
	fs.StringVar(&c.HTTPAddr, "addr", c.HTTPAddr, "HTTP listen address")
	fs.StringVar(&c.Store, "store", c.Store, "storage backend: sqlite, file or memory")
	fs.StringVar(&c.DBPath, "db", c.DBPath, "SQLite database path")
	fs.StringVar(&c.FilePath, "file", c.FilePath, "JSON file store path")
	fs.StringVar(&c.StorageKey, "key", c.StorageKey, "storage key of the pet record")
	fs.IntVar(&c.JournalRetention, "retention", c.JournalRetention, "newest journal events to keep (0 = all)")
	fs.StringVar(&c.Profile, "profile", c.Profile, "network tuning profile: default or low")
	fs.BoolVar(&c.Mute, "mute", c.Mute, "silence audio cues")
}

// ParseConfigFromArgs loads defaults from env, then parses flags on top.
func ParseConfigFromArgs(fs *flag.FlagSet, args []string) (*Config, error) {
	if fs == nil {
		return nil, errors.New("flag parser is required")
	}
	cfg := &Config{}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	cfg.RegisterFlags(fs)
	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the services cannot run with.
func (c *Config) Validate() error {
	if c.TickPeriod <= 0 {
		return fmt.Errorf("tick period must be positive, got %s", c.TickPeriod)
	}
	switch c.Store {
	case StoreSQLite, StoreFile, StoreMemory:
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	if c.JournalRetention < 0 {
		return fmt.Errorf("journal retention must not be negative, got %d", c.JournalRetention)
	}
	if c.StorageKey == "" {
		return errors.New("storage key is required")
	}
	return nil
}
