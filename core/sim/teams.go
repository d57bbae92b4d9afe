package sim

import (
	"fmt"

	"github.com/kilianp07/rescuesim/core/model"
	"github.com/kilianp07/rescuesim/core/random"
)

// CapacityPerMember is the number of victims a team member rescues per tick.
const CapacityPerMember = 2

// TeamSizes splits headcount into count teams following dist. Every team
// gets at least one member and the sizes sum to headcount.
func TeamSizes(count, headcount int, dist model.TeamSizeDistribution) ([]int, error) {
	if count <= 0 {
		return nil, &model.ConfigurationError{Field: "team_count", Reason: fmt.Sprintf("must be positive, got %d", count)}
	}
	if headcount < count {
		return nil, &model.ConfigurationError{Field: "headcount", Reason: fmt.Sprintf("%d rescuers cannot staff %d teams", headcount, count)}
	}
	switch dist {
	case model.Uniform:
		return uniformSizes(count, headcount), nil
	case model.Pyramid:
		return pyramidSizes(count, headcount), nil
	case model.Concentrated:
		if count == 1 {
			return []int{headcount}, nil
		}
		first := (headcount + 1) / 2
		if rest := headcount - first; rest < count-1 {
			first = headcount - (count - 1)
		}
		return append([]int{first}, uniformSizes(count-1, headcount-first)...), nil
	default:
		return nil, &model.ConfigurationError{Field: "distribution", Reason: fmt.Sprintf("unknown value %d", int(dist))}
	}
}

func uniformSizes(count, headcount int) []int {
	sizes := make([]int, count)
	base, extra := headcount/count, headcount%count
	for i := range sizes {
		sizes[i] = base
		if i < extra {
			sizes[i]++
		}
	}
	return sizes
}

// pyramidSizes weights team i by count-i.
func pyramidSizes(count, headcount int) []int {
	total := count * (count + 1) / 2
	sizes := make([]int, count)
	sum := 0
	for i := range sizes {
		sizes[i] = headcount * (count - i) / total
		if sizes[i] < 1 {
			sizes[i] = 1
		}
		sum += sizes[i]
	}
	for i := 0; sum < headcount; i = (i + 1) % count {
		sizes[i]++
		sum++
	}
	for i := 0; sum > headcount; i = (i + 1) % count {
		if sizes[i] > 1 {
			sizes[i]--
			sum--
		}
	}
	return sizes
}

// BuildAgents creates the teams of cfg at the rescue center. Each team draws
// its strategy from cfg.StrategyRatio using a stream seeded by cfg.Seed, so
// one configuration always yields the same teams.
func BuildAgents(cfg model.Configuration, center model.Position) ([]model.Agent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sizes, err := TeamSizes(cfg.TeamCount, cfg.Headcount, cfg.Distribution)
	if err != nil {
		return nil, err
	}
	rng := random.New(cfg.Seed)
	agents := make([]model.Agent, len(sizes))
	for i, size := range sizes {
		a := model.Agent{
			ID:       model.AgentID(i),
			Position: center,
			State:    model.Idle,
			Strategy: SampleStrategy(rng.Next(), cfg.StrategyRatio),
			Capacity: float64(CapacityPerMember * size),
			TeamSize: size,
		}
		if a.Strategy == model.Hybrid {
			w := cfg.HybridWeights
			a.Weights = &w
		}
		agents[i] = a
	}
	return agents, nil
}

// SampleStrategy maps u in [0,1) onto the categorical distribution ratio.
// Categories with zero probability are never returned.
func SampleStrategy(u float64, ratio [3]float64) model.StrategyType {
	cum := 0.0
	last := -1
	for k, p := range ratio {
		if p <= 0 {
			continue
		}
		last = k
		cum += p
		if u < cum {
			return model.StrategyTypes[k]
		}
	}
	if last < 0 {
		return model.Nearest
	}
	return model.StrategyTypes[last]
}
