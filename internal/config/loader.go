package config

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if SRCWATCH_CONFIG is set
//  3. env (prefix SRCWATCH_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("SRCWATCH_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: SRCWATCH_GAME_ID, SRCWATCH_POLL_INTERVAL_S, ...
	// Map env keys like SRCWATCH_GAME_ID -> game_id (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("SRCWATCH_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "srcwatch_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	// Basic validation
	if cfg.Addr == "" {
		return nil, errors.New("addr must not be empty")
	}
	if cfg.GameID == "" {
		return nil, errors.New("game_id must not be empty")
	}
	if cfg.PollIntervalS < 1 {
		return nil, errors.New("poll_interval_s must be positive")
	}
	if cfg.RetryAttempts < 1 {
		return nil, errors.New("retry_attempts must be positive")
	}
	return &cfg, nil
}
