// Package config loads the rescuesim configuration file.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/rescuesim/core/metrics"
	"github.com/kilianp07/rescuesim/core/optimizer"
	"github.com/kilianp07/rescuesim/core/results"
	"github.com/kilianp07/rescuesim/core/sim"
	"github.com/kilianp07/rescuesim/infra/mqtt"
)

type Config struct {
	Simulation sim.Config       `json:"simulation"`
	Optimizer  optimizer.Config `json:"optimizer"`
	Live       LiveConfig       `json:"live"`
	Metrics    metrics.Config   `json:"metrics"`
	Results    results.Config   `json:"results"`
	MQTT       mqtt.Config      `json:"mqtt"`
	Sentry     SentryConfig     `json:"sentry"`
	API        APIConfig        `json:"api"`
}

// Load reads path, applies K_ prefixed environment overrides, fills defaults
// and validates every section. An empty path loads the environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	// Optional environment overrides, e.g. K_SIMULATION__SEED=7
	if err := k.Load(env.Provider("K_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.SetDefaults()
	return &cfg
}

// SetDefaults fills every section.
func (c *Config) SetDefaults() {
	c.Simulation.SetDefaults()
	c.Optimizer.SetDefaults()
	c.Live.SetDefaults()
	c.Metrics.SetDefaults()
	c.Results.SetDefaults()
	c.MQTT.SetDefaults()
	c.Sentry.SetDefaults()
	c.API.SetDefaults()
}

// Validate checks every section. The MQTT section is only required when
// live snapshots are published.
func (c Config) Validate() error {
	type check struct {
		name string
		fn   func() error
	}
	checks := []check{
		{"simulation", c.Simulation.Validate},
		{"optimizer", c.Optimizer.Validate},
		{"live", c.Live.Validate},
		{"metrics", c.Metrics.Validate},
		{"results", c.Results.Validate},
		{"sentry", c.Sentry.Validate},
	}
	if c.Live.Publish {
		checks = append(checks, check{"mqtt", c.MQTT.Validate})
	}
	for _, ch := range checks {
		if err := ch.fn(); err != nil {
			return fmt.Errorf("%s: %w", ch.name, err)
		}
	}
	return nil
}
