package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/rescuesim/core/model"
)

func TestRunHeadlessDeterministic(t *testing.T) {
	sc := newScenario(t, model.Medium, 23)
	a, err := RunHeadless(mixedConfiguration(), sc, 200)
	require.NoError(t, err)
	b, err := RunHeadless(mixedConfiguration(), sc, 200)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.LessOrEqual(t, a.CompletionTime, 200.0+1e-6)
	assert.Greater(t, a.Rescued, 0.0)
	assert.InDelta(t, a.Fitness(200), a.Score, 1e-12)
}

func TestRunHeadlessRejectsInvalidConfiguration(t *testing.T) {
	cfg := mixedConfiguration()
	cfg.TeamCount = 0
	_, err := RunHeadless(cfg, newScenario(t, model.Small, 1), 200)
	assert.ErrorIs(t, err, model.ErrConfiguration)
}

func TestRunHeadlessDefaultsHeadcount(t *testing.T) {
	sc := newScenario(t, model.Small, 42)
	cfg := mixedConfiguration()
	want, err := RunHeadless(cfg, sc, 200)
	require.NoError(t, err)

	cfg.Headcount = 0
	got, err := RunHeadless(cfg, sc, 200)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRunStopsOnCancel(t *testing.T) {
	sc := newScenario(t, model.Large, 11)
	state, err := Clone(sc, ReferenceGroups(sc.Center)[0].Agents, DefaultOptions())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = state.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0.0, state.Time)
}
