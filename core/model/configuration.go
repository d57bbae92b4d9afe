package model

import (
	"fmt"
	"math"
	"strings"
)

// RatioTolerance is the allowed deviation from 1 when validating strategy
// ratios and hybrid weights.
const RatioTolerance = 1e-6

// TeamSizeDistribution controls how headcount is split across teams.
type TeamSizeDistribution int

const (
	Uniform TeamSizeDistribution = iota
	Pyramid
	Concentrated
)

// Distributions lists every team size distribution.
var Distributions = []TeamSizeDistribution{Uniform, Pyramid, Concentrated}

func (d TeamSizeDistribution) String() string {
	switch d {
	case Uniform:
		return "uniform"
	case Pyramid:
		return "pyramid"
	case Concentrated:
		return "concentrated"
	default:
		return fmt.Sprintf("TeamSizeDistribution(%d)", int(d))
	}
}

// MarshalText encodes the distribution by name.
func (d TeamSizeDistribution) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText decodes a distribution name.
func (d *TeamSizeDistribution) UnmarshalText(b []byte) error {
	v, err := ParseDistribution(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ParseDistribution converts "uniform", "pyramid" or "concentrated".
func ParseDistribution(s string) (TeamSizeDistribution, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "uniform":
		return Uniform, nil
	case "pyramid":
		return Pyramid, nil
	case "concentrated":
		return Concentrated, nil
	default:
		return Uniform, fmt.Errorf("unknown team size distribution %q", s)
	}
}

// ReferenceHeadcount is the rescuer total used when a configuration leaves
// Headcount unset.
const ReferenceHeadcount = 15

// Configuration is one parameter combination evaluated by the optimizer.
// StrategyRatio is indexed by StrategyTypes.
type Configuration struct {
	TeamCount     int                  `json:"team_count" yaml:"team_count"`
	Distribution  TeamSizeDistribution `json:"distribution" yaml:"distribution"`
	StrategyRatio [3]float64           `json:"strategy_ratio" yaml:"strategy_ratio"`
	HybridWeights HybridWeights        `json:"hybrid_weights" yaml:"hybrid_weights"`
	Headcount     int                  `json:"headcount" yaml:"headcount"`
	// Seed drives the per-agent strategy sampling.
	Seed int64 `json:"seed" yaml:"seed"`
}

// Validate rejects malformed configurations. Ratios and weights are never
// renormalized.
func (c Configuration) Validate() error {
	if c.TeamCount <= 0 {
		return &ConfigurationError{Field: "team_count", Reason: fmt.Sprintf("must be positive, got %d", c.TeamCount)}
	}
	if c.Headcount < c.TeamCount {
		return &ConfigurationError{Field: "headcount", Reason: fmt.Sprintf("%d rescuers cannot staff %d teams", c.Headcount, c.TeamCount)}
	}
	if c.Distribution < Uniform || c.Distribution > Concentrated {
		return &ConfigurationError{Field: "distribution", Reason: fmt.Sprintf("unknown value %d", int(c.Distribution))}
	}
	if err := checkUnitSum("strategy_ratio", c.StrategyRatio[:]); err != nil {
		return err
	}
	w := c.HybridWeights
	return checkUnitSum("hybrid_weights", []float64{w.Distance, w.Victims, w.Urgency})
}

func checkUnitSum(field string, parts []float64) error {
	sum := 0.0
	for i, p := range parts {
		if math.IsNaN(p) || p < 0 {
			return &ConfigurationError{Field: field, Reason: fmt.Sprintf("component %d is %v", i, p)}
		}
		sum += p
	}
	if math.Abs(sum-1) > RatioTolerance {
		return &ConfigurationError{Field: field, Reason: fmt.Sprintf("sums to %v, want 1", sum)}
	}
	return nil
}

// Label is a compact human readable description used in logs and tables.
func (c Configuration) Label() string {
	r := c.StrategyRatio
	return fmt.Sprintf("%d teams %s N%.2f/L%.2f/H%.2f w(%.2f,%.2f,%.2f)",
		c.TeamCount, c.Distribution, r[0], r[1], r[2],
		c.HybridWeights.Distance, c.HybridWeights.Victims, c.HybridWeights.Urgency)
}
