package sim

import (
	"sort"

	"github.com/kilianp07/rescuesim/core/model"
)

// Reference capacities of the live comparison.
const (
	SoloCapacity  = 30.0
	SquadCapacity = 6.0
	SquadSize     = 3
)

// Group is a set of agents sharing one world in a comparison.
type Group struct {
	Name   string
	Agents []model.Agent
}

// ReferenceGroups returns the three reference groups: a single nearest-first
// team, a single largest-first team and five mixed teams
// (nearest, largest, nearest, largest, hybrid).
func ReferenceGroups(center model.Position) []Group {
	solo := func(st model.StrategyType) []model.Agent {
		return []model.Agent{{ID: 0, Position: center, Strategy: st, Capacity: SoloCapacity, TeamSize: 1}}
	}
	mix := []model.StrategyType{model.Nearest, model.Largest, model.Nearest, model.Largest, model.Hybrid}
	squad := make([]model.Agent, len(mix))
	for i, st := range mix {
		squad[i] = model.Agent{ID: model.AgentID(i), Position: center, Strategy: st, Capacity: SquadCapacity, TeamSize: SquadSize}
		if st == model.Hybrid {
			w := model.DefaultHybridWeights
			squad[i].Weights = &w
		}
	}
	return []Group{
		{Name: "nearest", Agents: solo(model.Nearest)},
		{Name: "largest", Agents: solo(model.Largest)},
		{Name: "multi", Agents: squad},
	}
}

// Standing is the rank of one group in a comparison.
type Standing struct {
	Rank   int             `json:"rank"`
	Group  string          `json:"group"`
	Result model.RunResult `json:"result"`
}

// Compare ranks results by success rate (higher first), then completion time
// (lower first), then group name.
func Compare(results map[string]model.RunResult) []Standing {
	out := make([]Standing, 0, len(results))
	for name, r := range results {
		out = append(out, Standing{Group: name, Result: r})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Result, out[j].Result
		if a.SuccessRate != b.SuccessRate {
			return a.SuccessRate > b.SuccessRate
		}
		if a.CompletionTime != b.CompletionTime {
			return a.CompletionTime < b.CompletionTime
		}
		return out[i].Group < out[j].Group
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
