package sim

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kilianp07/rescuesim/core/model"
	"github.com/kilianp07/rescuesim/core/world"
)

func newScenario(t *testing.T, size model.ScenarioSize, seed int64) model.Scenario {
	t.Helper()
	sc, err := world.NewScenario(size, seed)
	require.NoError(t, err)
	return sc
}

// handScenario builds a scenario from tasks laid out by the test.
func handScenario(center model.Position, tasks ...model.Task) model.Scenario {
	total := 0.0
	for i := range tasks {
		tasks[i].ID = model.TaskID(i)
		tasks[i].CurrentVictims = tasks[i].InitialVictims
		total += tasks[i].InitialVictims
	}
	return model.Scenario{Center: center, InitialTasks: tasks, TotalInitialVictims: total}
}

func agent(id int, pos model.Position, st model.StrategyType, capacity float64) model.Agent {
	return model.Agent{ID: model.AgentID(id), Position: pos, Strategy: st, Capacity: capacity, TeamSize: 1}
}

func mixedConfiguration() model.Configuration {
	return model.Configuration{
		TeamCount:     5,
		Distribution:  model.Pyramid,
		StrategyRatio: [3]float64{0.4, 0.3, 0.3},
		HybridWeights: model.HybridWeights{Distance: 0.5, Victims: 0.3, Urgency: 0.2},
		Headcount:     15,
		Seed:          7,
	}
}
