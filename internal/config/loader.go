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
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if OCULO_CONFIG is set
//  3. env (prefix OCULO_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("OCULO_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: OCULO_ADDR, OCULO_BASELINE_SECONDS, ...
	// Map env keys like OCULO_BASELINE_SECONDS -> baseline_seconds.
	// Underscores are preserved to match koanf tags on the struct.
	envProvider := env.Provider("OCULO_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "oculo_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	// Basic validation: arithmetic guards downstream assume positive phase
	// durations and a sane listen address.
	switch {
	case cfg.Addr == "":
		return nil, errors.New("addr must not be empty")
	case cfg.BaselineSeconds <= 0 || cfg.FlickerSeconds <= 0 || cfg.PursuitSeconds <= 0:
		return nil, errors.New("phase durations must be positive")
	case cfg.StimulusWidth <= 0 || cfg.StimulusHeight <= 0:
		return nil, errors.New("stimulus dimensions must be positive")
	case cfg.BlinkDebounceFrames <= 0:
		return nil, errors.New("blink_debounce_frames must be positive")
	}
	return &cfg, nil
}
