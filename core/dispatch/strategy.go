// Package dispatch selects tasks for idle rescue teams.
package dispatch

import (
	"github.com/kilianp07/rescuesim/core/model"
)

const (
	// MapSpan normalises distances in the hybrid score.
	MapSpan = 100.0
	// VictimScale normalises victim counts in the hybrid score.
	VictimScale = 500.0
	// MaxDeclineRate normalises decline rates in the hybrid score.
	MaxDeclineRate = 0.2
)

// Strategy compares two candidate tasks for an agent. Better must be strict
// so the first candidate wins ties.
type Strategy interface {
	Type() model.StrategyType
	Better(agent model.Agent, candidate, best model.Task) bool
}

// NearestFirst prefers the closest task.
type NearestFirst struct{}

func (NearestFirst) Type() model.StrategyType { return model.Nearest }

func (NearestFirst) Better(agent model.Agent, candidate, best model.Task) bool {
	return agent.Position.Distance(candidate.Position()) < agent.Position.Distance(best.Position())
}

// LargestFirst prefers the task with the most victims left.
type LargestFirst struct{}

func (LargestFirst) Type() model.StrategyType { return model.Largest }

func (LargestFirst) Better(_ model.Agent, candidate, best model.Task) bool {
	return candidate.CurrentVictims > best.CurrentVictims
}

// WeightedHybrid blends distance, victim count and urgency.
type WeightedHybrid struct {
	Weights model.HybridWeights
}

func (WeightedHybrid) Type() model.StrategyType { return model.Hybrid }

func (h WeightedHybrid) Better(agent model.Agent, candidate, best model.Task) bool {
	return HybridScore(h.Weights, agent.Position, candidate) > HybridScore(h.Weights, agent.Position, best)
}

// HybridScore rates a task for an agent at from. Higher is better.
func HybridScore(w model.HybridWeights, from model.Position, t model.Task) float64 {
	proximity := 1 - from.Distance(t.Position())/MapSpan
	if proximity < 0 {
		proximity = 0
	}
	if proximity > 1 {
		proximity = 1
	}
	return w.Distance*proximity + w.Victims*(t.CurrentVictims/VictimScale) + w.Urgency*(t.DeclineRate/MaxDeclineRate)
}

// Select picks the best available task for agent in iteration order. With
// avoidConflicts, claimed tasks are skipped while an unclaimed one remains
// so an agent never idles only to avoid overlap.
func Select(s Strategy, agent model.Agent, tasks []model.Task, claims *AssignmentTable, avoidConflicts bool) (model.TaskID, bool) {
	available := 0
	unclaimed := 0
	for i := range tasks {
		if !tasks[i].Available() {
			continue
		}
		available++
		if claims == nil || !claims.Claimed(tasks[i].ID) {
			unclaimed++
		}
	}
	if available == 0 {
		return 0, false
	}
	skipClaimed := avoidConflicts && available > 1 && unclaimed > 0

	var best *model.Task
	for i := range tasks {
		t := &tasks[i]
		if !t.Available() {
			continue
		}
		if skipClaimed && claims != nil && claims.Claimed(t.ID) {
			continue
		}
		if best == nil || s.Better(agent, *t, *best) {
			best = t
		}
	}
	return best.ID, true
}
