package scenarios

import (
	"fmt"

	"github.com/kilianp07/rescuesim/core/model"
	"github.com/kilianp07/rescuesim/core/sim"
)

// Outcome is what a scenario run produced.
type Outcome struct {
	Result model.RunResult
	// FirstTargets holds each agent's task on the first tick every agent
	// had one. Nil if that never happened.
	FirstTargets []model.TaskID
}

// Run executes sc to completion.
func Run(sc *Scenario) (Outcome, error) {
	world, agents, opts, err := sc.Build()
	if err != nil {
		return Outcome{}, err
	}
	state, err := sim.Clone(world, agents, opts)
	if err != nil {
		return Outcome{}, err
	}
	var out Outcome
	for !state.IsComplete() {
		state.Advance()
		if out.FirstTargets == nil {
			out.FirstTargets = targets(state.Agents)
		}
	}
	out.Result = state.Result()
	return out, nil
}

func targets(agents []model.Agent) []model.TaskID {
	ids := make([]model.TaskID, len(agents))
	for i, a := range agents {
		if !a.HasTask {
			return nil
		}
		ids[i] = a.TaskID
	}
	return ids
}

// Check returns one message per violated expectation.
func (e Expected) Check(o Outcome) []string {
	var errs []string
	r := o.Result
	if e.Completed != nil && r.Completed != *e.Completed {
		errs = append(errs, fmt.Sprintf("completed = %v, want %v", r.Completed, *e.Completed))
	}
	if e.MinSuccessRate != nil && r.SuccessRate < *e.MinSuccessRate {
		errs = append(errs, fmt.Sprintf("success rate %.4f below %.4f", r.SuccessRate, *e.MinSuccessRate))
	}
	if e.MaxSuccessRate != nil && r.SuccessRate > *e.MaxSuccessRate {
		errs = append(errs, fmt.Sprintf("success rate %.4f above %.4f", r.SuccessRate, *e.MaxSuccessRate))
	}
	if e.MinCompletionTime != nil && r.CompletionTime < *e.MinCompletionTime {
		errs = append(errs, fmt.Sprintf("completion time %.2f below %.2f", r.CompletionTime, *e.MinCompletionTime))
	}
	if e.MaxCompletionTime != nil && r.CompletionTime > *e.MaxCompletionTime {
		errs = append(errs, fmt.Sprintf("completion time %.2f above %.2f", r.CompletionTime, *e.MaxCompletionTime))
	}
	if e.DistinctTargets {
		if o.FirstTargets == nil {
			errs = append(errs, "agents never all held a task")
		}
		seen := map[model.TaskID]bool{}
		for _, id := range o.FirstTargets {
			if seen[id] {
				errs = append(errs, fmt.Sprintf("task %d claimed twice", id))
			}
			seen[id] = true
		}
	}
	return errs
}
