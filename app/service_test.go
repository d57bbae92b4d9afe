package app

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/rescuesim/config"
	"github.com/kilianp07/rescuesim/core/factory"
	"github.com/kilianp07/rescuesim/core/model"
	"github.com/kilianp07/rescuesim/core/optimizer"
	"github.com/kilianp07/rescuesim/core/results"
	"github.com/kilianp07/rescuesim/infra/mqtt"
)

type fakePublisher struct {
	mu           sync.Mutex
	count        map[string]int
	disconnected bool
}

func (f *fakePublisher) PublishSnapshot(group string, _ any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count[group]++
	return nil
}

func (f *fakePublisher) Disconnect() { f.disconnected = true }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Results.Path = filepath.Join(t.TempDir(), "results.jsonl")
	cfg.Optimizer.TimeLimit = 20
	cfg.Optimizer.Workers = 2
	cfg.Optimizer.Battery = []optimizer.BatteryEntry{{Size: model.Small, Seed: 3}}
	return cfg
}

func TestRunLive(t *testing.T) {
	cfg := testConfig(t)
	cfg.Live.Groups = []string{"nearest", "multi"}
	svc, err := New(cfg)
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	pub := &fakePublisher{count: map[string]int{}}
	svc.newPublisher = func(mqtt.Config) (snapshotPublisher, error) { return pub, nil }

	opts := svc.LiveOptionsFromConfig()
	opts.Seed = 42
	opts.Publish = true
	standings, err := svc.RunLive(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, standings, 2)
	assert.Equal(t, 1, standings[0].Rank)
	assert.True(t, pub.disconnected)
	assert.Positive(t, pub.count["nearest"])
	assert.Positive(t, pub.count["multi"])
	assert.Zero(t, pub.count["largest"])
}

func TestOptimizeStoresRanking(t *testing.T) {
	cfg := testConfig(t)
	svc, err := New(cfg)
	require.NoError(t, err)

	space := optimizer.ParameterSpace{
		TeamCounts:     []int{2},
		Distributions:  []model.TeamSizeDistribution{model.Uniform},
		StrategyRatios: [][3]float64{{1, 0, 0}, {0, 1, 0}},
		Headcount:      4,
	}
	rep, err := svc.Optimize(context.Background(), space)
	require.NoError(t, err)
	require.Len(t, rep.Ranked, 2)

	recs, err := svc.Results(context.Background(), results.Query{RunID: rep.RunID})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, rep.Best.AverageScore, recs[0].AverageScore)
}

func TestOptimizeWithoutStore(t *testing.T) {
	cfg := testConfig(t)
	cfg.Results.Backend = results.BackendNone
	svc, err := New(cfg)
	require.NoError(t, err)

	sp := optimizer.ParameterSpace{
		TeamCounts:     []int{1},
		Distributions:  []model.TeamSizeDistribution{model.Uniform},
		StrategyRatios: [][3]float64{{0, 0, 1}},
		Headcount:      3,
	}
	_, err = svc.Optimize(context.Background(), sp)
	require.NoError(t, err)
	_, err = svc.Results(context.Background(), results.Query{})
	assert.Error(t, err)
}

func TestNewRejectsUnknownSink(t *testing.T) {
	cfg := testConfig(t)
	cfg.Metrics.Sinks = []factory.ModuleConfig{{Type: "carrier-pigeon"}}
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestServeAPIStopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.API.Addr = "127.0.0.1:0"
	svc, err := New(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, svc.ServeAPI(ctx))

	cfg.Results.Backend = results.BackendNone
	assert.Error(t, svc.ServeAPI(context.Background()))
}
