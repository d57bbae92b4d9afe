package sim

import (
	"fmt"

	"github.com/kilianp07/rescuesim/core/model"
)

// Reference run parameters.
const (
	DefaultTickSize  = 0.1 // simulated minutes
	DefaultMoveSpeed = 1.0 // map units per tick
	DefaultTimeLimit = 300.0
	// ArrivalRadius is the distance under which a moving team is on site.
	ArrivalRadius = 1.0
)

// Options parameterises a single run.
type Options struct {
	TickSize       float64 `json:"tick_size"`
	MoveSpeed      float64 `json:"move_speed"`
	TimeLimit      float64 `json:"time_limit"`
	AvoidConflicts bool    `json:"avoid_conflicts"`
}

// DefaultOptions returns the live reference options with conflict avoidance.
func DefaultOptions() Options {
	return Options{
		TickSize:       DefaultTickSize,
		MoveSpeed:      DefaultMoveSpeed,
		TimeLimit:      DefaultTimeLimit,
		AvoidConflicts: true,
	}
}

// Validate rejects non-positive parameters.
func (o Options) Validate() error {
	if o.TickSize <= 0 {
		return &model.ConfigurationError{Field: "tick_size", Reason: fmt.Sprintf("must be positive, got %v", o.TickSize)}
	}
	if o.MoveSpeed <= 0 {
		return &model.ConfigurationError{Field: "move_speed", Reason: fmt.Sprintf("must be positive, got %v", o.MoveSpeed)}
	}
	if o.TimeLimit <= 0 {
		return &model.ConfigurationError{Field: "time_limit", Reason: fmt.Sprintf("must be positive, got %v", o.TimeLimit)}
	}
	return nil
}

// Config is the "simulation" configuration section.
type Config struct {
	Size      string  `json:"size"`
	Seed      int64   `json:"seed"`
	TickSize  float64 `json:"tick_size"`
	MoveSpeed float64 `json:"move_speed"`
	TimeLimit float64 `json:"time_limit"`
	// IntervalMS is the wall clock delay between live ticks. Zero runs
	// the comparison as fast as possible.
	IntervalMS int `json:"interval_ms"`
}

// SetDefaults fills unset fields with the reference values.
func (c *Config) SetDefaults() {
	if c.Size == "" {
		c.Size = model.Small.String()
	}
	if c.TickSize == 0 {
		c.TickSize = DefaultTickSize
	}
	if c.MoveSpeed == 0 {
		c.MoveSpeed = DefaultMoveSpeed
	}
	if c.TimeLimit == 0 {
		c.TimeLimit = DefaultTimeLimit
	}
}

// Validate checks the section.
func (c Config) Validate() error {
	if _, err := model.ParseScenarioSize(c.Size); err != nil {
		return &model.ConfigurationError{Field: "simulation.size", Reason: err.Error()}
	}
	if c.IntervalMS < 0 {
		return &model.ConfigurationError{Field: "simulation.interval_ms", Reason: "negative"}
	}
	return c.Options().Validate()
}

// ScenarioSize returns the parsed size, Small when invalid.
func (c Config) ScenarioSize() model.ScenarioSize {
	s, _ := model.ParseScenarioSize(c.Size)
	return s
}

// Options converts the section into run options.
func (c Config) Options() Options {
	return Options{
		TickSize:       c.TickSize,
		MoveSpeed:      c.MoveSpeed,
		TimeLimit:      c.TimeLimit,
		AvoidConflicts: true,
	}
}
