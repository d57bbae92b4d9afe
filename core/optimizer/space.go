package optimizer

import (
	"fmt"

	"github.com/kilianp07/rescuesim/core/model"
)

// seedStride spreads configuration seeds so neighbouring indices do not
// share LCG streams.
const seedStride = 1_000_003

// ParameterSpace enumerates the values explored by the optimizer.
type ParameterSpace struct {
	TeamCounts     []int                        `json:"team_counts" yaml:"team_counts"`
	Distributions  []model.TeamSizeDistribution `json:"distributions" yaml:"distributions"`
	StrategyRatios [][3]float64                 `json:"strategy_ratios" yaml:"strategy_ratios"`
	// HybridWeights only vary for configurations with hybrid teams.
	HybridWeights []model.HybridWeights `json:"hybrid_weights" yaml:"hybrid_weights"`
	Headcount     int                   `json:"headcount" yaml:"headcount"`
	Seed          int64                 `json:"seed" yaml:"seed"`
}

// DefaultParameterSpace is the reference search: 15 rescuers split into 3, 5
// or 7 teams.
func DefaultParameterSpace() ParameterSpace {
	third := 1.0 / 3
	return ParameterSpace{
		TeamCounts:    []int{3, 5, 7},
		Distributions: append([]model.TeamSizeDistribution(nil), model.Distributions...),
		StrategyRatios: [][3]float64{
			{1, 0, 0},
			{0, 1, 0},
			{0, 0, 1},
			{0.5, 0.5, 0},
			{0.4, 0.4, 0.2},
			{third, third, third},
		},
		HybridWeights: []model.HybridWeights{
			model.DefaultHybridWeights,
			{Distance: 0.6, Victims: 0.2, Urgency: 0.2},
			{Distance: 0.2, Victims: 0.6, Urgency: 0.2},
		},
		Headcount: model.ReferenceHeadcount,
		Seed:      1,
	}
}

// Validate checks that every dimension has at least one value. Individual
// combinations are validated by Configurations' callers.
func (p ParameterSpace) Validate() error {
	switch {
	case len(p.TeamCounts) == 0:
		return &model.ConfigurationError{Field: "team_counts", Reason: "empty"}
	case len(p.Distributions) == 0:
		return &model.ConfigurationError{Field: "distributions", Reason: "empty"}
	case len(p.StrategyRatios) == 0:
		return &model.ConfigurationError{Field: "strategy_ratios", Reason: "empty"}
	case p.Headcount <= 0:
		return &model.ConfigurationError{Field: "headcount", Reason: fmt.Sprintf("must be positive, got %d", p.Headcount)}
	}
	return nil
}

// Configurations expands the space into its Cartesian product in a fixed
// order: team count, distribution, ratio, then weights.
func (p ParameterSpace) Configurations() []model.Configuration {
	weights := p.HybridWeights
	if len(weights) == 0 {
		weights = []model.HybridWeights{model.DefaultHybridWeights}
	}
	var out []model.Configuration
	for _, tc := range p.TeamCounts {
		for _, d := range p.Distributions {
			for _, r := range p.StrategyRatios {
				ws := weights
				if r[model.Hybrid] <= 0 {
					ws = weights[:1]
				}
				for _, w := range ws {
					out = append(out, model.Configuration{
						TeamCount:     tc,
						Distribution:  d,
						StrategyRatio: r,
						HybridWeights: w,
						Headcount:     p.Headcount,
						Seed:          p.Seed*seedStride + int64(len(out)),
					})
				}
			}
		}
	}
	return out
}
