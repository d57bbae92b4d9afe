package world

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/rescuesim/core/model"
)

func TestGenerateDeterministic(t *testing.T) {
	for _, size := range model.ScenarioSizes {
		for _, seed := range []int64{0, 1, 42, 1234567} {
			a, err := NewScenario(size, seed)
			require.NoError(t, err)
			b, err := NewScenario(size, seed)
			require.NoError(t, err)
			assert.Equal(t, a, b, "size %s seed %d", size, seed)
		}
	}
}

func TestGenerateRanges(t *testing.T) {
	sc, err := NewScenario(model.Large, 42)
	require.NoError(t, err)
	require.Len(t, sc.InitialTasks, 50)

	assert.GreaterOrEqual(t, sc.Center.X, 20.0)
	assert.Less(t, sc.Center.X, 80.0)
	assert.GreaterOrEqual(t, sc.Center.Y, 20.0)
	assert.Less(t, sc.Center.Y, 80.0)

	total := 0.0
	for i, task := range sc.InitialTasks {
		assert.Equal(t, model.TaskID(i), task.ID)
		assert.GreaterOrEqual(t, task.X, 10.0)
		assert.Less(t, task.X, 90.0)
		assert.GreaterOrEqual(t, task.Y, 10.0)
		assert.Less(t, task.Y, 90.0)
		dist := task.Position().Distance(sc.Center)
		assert.GreaterOrEqual(t, dist, 5.0)
		assert.InDelta(t, dist/5, task.ReportTime, 1e-9)
		assert.GreaterOrEqual(t, task.InitialVictims, 50.0)
		assert.LessOrEqual(t, task.InitialVictims, 499.0)
		assert.Equal(t, task.InitialVictims, float64(int(task.InitialVictims)))
		assert.Equal(t, task.InitialVictims, task.CurrentVictims)
		assert.GreaterOrEqual(t, task.DeclineRate, 0.1)
		assert.LessOrEqual(t, task.DeclineRate, 0.2)
		assert.False(t, task.Reported)
		total += task.InitialVictims
	}
	assert.Equal(t, total, sc.TotalInitialVictims)
}

func TestDifferentSeedsDiffer(t *testing.T) {
	a, err := NewScenario(model.Small, 1)
	require.NoError(t, err)
	b, err := NewScenario(model.Small, 2)
	require.NoError(t, err)
	assert.NotEqual(t, a.InitialTasks, b.InitialTasks)
}

func TestGenerateDegenerate(t *testing.T) {
	g := NewGenerator()
	// Every point in the area lies within 200 units of the center.
	g.Config.MinCenterDistance = 200
	g.Config.MaxPlacementAttempts = 50
	_, err := g.Generate(model.Small, 42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrDegenerateWorld))
	var de *model.DegenerateWorldError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 0, de.TaskIndex)
	assert.Equal(t, 50, de.Attempts)
}

func TestGenerateInvalidConfig(t *testing.T) {
	g := NewGenerator()
	g.Config.AreaMax = g.Config.AreaMin
	_, err := g.Generate(model.Small, 1)
	assert.True(t, errors.Is(err, model.ErrConfiguration))

	_, err = NewScenario(model.ScenarioSize(7), 1)
	assert.True(t, errors.Is(err, model.ErrConfiguration))
}

func TestTasksReturnsCopy(t *testing.T) {
	sc, err := NewScenario(model.Small, 42)
	require.NoError(t, err)
	tasks := sc.Tasks()
	tasks[0].CurrentVictims = 0
	assert.NotZero(t, sc.InitialTasks[0].CurrentVictims)
}
