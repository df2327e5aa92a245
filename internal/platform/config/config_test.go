package config

import (
	"flag"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if cfg.TickPeriod != 12*time.Second {
		t.Errorf("Expected 12s tick, got %s", cfg.TickPeriod)
	}
	if cfg.StorageKey != "petData" {
		t.Errorf("Expected petData key, got %q", cfg.StorageKey)
	}
	if cfg.Store != StoreSQLite {
		t.Errorf("Expected sqlite store, got %q", cfg.Store)
	}
	if cfg.JournalRetention != 5000 {
		t.Errorf("Expected 5000 retained events, got %d", cfg.JournalRetention)
	}
}

func TestParseConfigReadsEnvAndFlags(t *testing.T) {
	t.Setenv("PET_TICK_PERIOD", "3s")
	t.Setenv("PET_STORE", "file")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := ParseConfigFromArgs(fs, []string{"-addr", "127.0.0.1:9001"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.TickPeriod != 3*time.Second {
		t.Errorf("Expected env tick period, got %s", cfg.TickPeriod)
	}
	if cfg.Store != StoreFile {
		t.Errorf("Expected env store, got %q", cfg.Store)
	}
	if cfg.HTTPAddr != "127.0.0.1:9001" {
		t.Errorf("Expected flag address, got %q", cfg.HTTPAddr)
	}
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("PET_TICK_PERIOD", "3s")
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := ParseConfigFromArgs(fs, []string{"-tick", "1s"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.TickPeriod != time.Second {
		t.Errorf("Expected flag tick period, got %s", cfg.TickPeriod)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]Config{
		"zero tick":     {TickPeriod: 0, Store: StoreMemory, StorageKey: "k"},
		"unknown store": {TickPeriod: time.Second, Store: "redis", StorageKey: "k"},
		"empty key":     {TickPeriod: time.Second, Store: StoreMemory},
		"negative keep": {TickPeriod: time.Second, Store: StoreMemory, StorageKey: "k", JournalRetention: -1},
	}
	for name, cfg := range cases {
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestParseConfigRejectsNilParser(t *testing.T) {
	if _, err := ParseConfigFromArgs(nil, nil); err == nil {
		t.Fatal("expected nil flag set to be rejected")
	}
}
