package sim

import (
	"context"
	"fmt"

	"github.com/kilianp07/rescuesim/core/model"
)

// ctxCheckEvery is the number of ticks between cancellation checks.
const ctxCheckEvery = 64

// Run advances the state until it completes and returns its result. It stops
// between ticks when ctx is cancelled.
func (s *WorldState) Run(ctx context.Context) (model.RunResult, error) {
	for n := 0; !s.IsComplete(); n++ {
		if n%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return s.Result(), err
			}
		}
		s.Advance()
	}
	return s.Result(), nil
}

// RunTrial builds the teams of cfg on a copy of sc and runs them to
// completion. Invalid configurations are rejected before any tick.
func RunTrial(ctx context.Context, cfg model.Configuration, sc model.Scenario, opts Options) (model.RunResult, error) {
	if err := cfg.Validate(); err != nil {
		return model.RunResult{}, err
	}
	agents, err := BuildAgents(cfg, sc.Center)
	if err != nil {
		return model.RunResult{}, err
	}
	state, err := Clone(sc, agents, opts)
	if err != nil {
		return model.RunResult{}, fmt.Errorf("clone %s: %w", sc.Name(), err)
	}
	return state.Run(ctx)
}

// RunHeadless runs cfg on sc with the reference tick and speed, conflict
// avoidance enabled and the given time limit. A zero Headcount means
// model.ReferenceHeadcount.
func RunHeadless(cfg model.Configuration, sc model.Scenario, timeLimit float64) (model.RunResult, error) {
	if cfg.Headcount == 0 {
		cfg.Headcount = model.ReferenceHeadcount
	}
	opts := DefaultOptions()
	opts.TimeLimit = timeLimit
	return RunTrial(context.Background(), cfg, sc, opts)
}
