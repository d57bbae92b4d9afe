package optimizer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/rescuesim/core/model"
	"github.com/kilianp07/rescuesim/core/sim"
)

// Config is the "optimizer" configuration section.
type Config struct {
	Workers   int     `json:"workers"`
	TimeLimit float64 `json:"time_limit"`
	TickSize  float64 `json:"tick_size"`
	MoveSpeed float64 `json:"move_speed"`
	// SpaceFile is a YAML ParameterSpace overriding Space.
	SpaceFile string          `json:"space_file"`
	Space     *ParameterSpace `json:"space"`
	Battery   []BatteryEntry  `json:"battery"`
}

// SetDefaults fills unset fields with the batch reference values.
func (c *Config) SetDefaults() {
	if c.TimeLimit == 0 {
		c.TimeLimit = DefaultTimeLimit
	}
	if c.TickSize == 0 {
		c.TickSize = sim.DefaultTickSize
	}
	if c.MoveSpeed == 0 {
		c.MoveSpeed = sim.DefaultMoveSpeed
	}
	if c.Space == nil && c.SpaceFile == "" {
		sp := DefaultParameterSpace()
		c.Space = &sp
	}
	if len(c.Battery) == 0 {
		c.Battery = DefaultBattery().Entries
	}
}

// Validate checks the section.
func (c Config) Validate() error {
	if c.Workers < 0 {
		return &model.ConfigurationError{Field: "optimizer.workers", Reason: "negative"}
	}
	opts := sim.Options{TickSize: c.TickSize, MoveSpeed: c.MoveSpeed, TimeLimit: c.TimeLimit}
	if err := opts.Validate(); err != nil {
		return err
	}
	if c.Space != nil {
		return c.Space.Validate()
	}
	return nil
}

// ParameterSpace returns the configured space, loading SpaceFile if set.
func (c Config) ParameterSpace() (ParameterSpace, error) {
	if c.SpaceFile != "" {
		return LoadSpace(c.SpaceFile)
	}
	if c.Space != nil {
		return *c.Space, nil
	}
	return DefaultParameterSpace(), nil
}

// New builds an Optimizer from the section.
func (c Config) New(opts ...Option) *Optimizer {
	o := New(opts...)
	if c.Workers > 0 {
		o.Workers = c.Workers
	}
	o.TimeLimit = c.TimeLimit
	o.TickSize = c.TickSize
	o.MoveSpeed = c.MoveSpeed
	return o
}

// LoadSpace reads a YAML ParameterSpace. Omitted dimensions keep their
// default values.
func LoadSpace(path string) (ParameterSpace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ParameterSpace{}, fmt.Errorf("read space: %w", err)
	}
	return ParseSpace(data)
}

// ParseSpace decodes a YAML ParameterSpace over the defaults.
func ParseSpace(data []byte) (ParameterSpace, error) {
	sp := DefaultParameterSpace()
	var doc ParameterSpace
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return ParameterSpace{}, fmt.Errorf("parse space: %w", err)
	}
	if doc.TeamCounts != nil {
		sp.TeamCounts = doc.TeamCounts
	}
	if doc.Distributions != nil {
		sp.Distributions = doc.Distributions
	}
	if doc.StrategyRatios != nil {
		sp.StrategyRatios = doc.StrategyRatios
	}
	if doc.HybridWeights != nil {
		sp.HybridWeights = doc.HybridWeights
	}
	if doc.Headcount != 0 {
		sp.Headcount = doc.Headcount
	}
	if doc.Seed != 0 {
		sp.Seed = doc.Seed
	}
	return sp, sp.Validate()
}
