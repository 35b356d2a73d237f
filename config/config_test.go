package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8000" || cfg.HandSize != 5 || cfg.MaxHandSize != 10 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.IdleTimeout != 30*time.Minute || cfg.SweepInterval != time.Minute {
		t.Fatalf("unexpected durations %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DUEL_ADDR", ":9000")
	t.Setenv("DUEL_HAND_SIZE", "3")
	t.Setenv("DUEL_SEED", "42")
	t.Setenv("DUEL_IDLE_TIMEOUT", "5m")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9000" || cfg.HandSize != 3 || cfg.Seed != 42 || cfg.IdleTimeout != 5*time.Minute {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]map[string]string{
		"hand size above max": {"DUEL_HAND_SIZE": "11"},
		"zero hand size":      {"DUEL_HAND_SIZE": "0"},
		"zero max":            {"DUEL_MAX_HAND_SIZE": "0"},
		"bad duration":        {"DUEL_IDLE_TIMEOUT": "soon"},
		"zero sweep":          {"DUEL_SWEEP_INTERVAL": "0s"},
	}
	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range vars {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
