package optimizer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/rescuesim/core/metrics"
	"github.com/kilianp07/rescuesim/core/model"
	"github.com/kilianp07/rescuesim/internal/eventbus"
)

func smallSpace() ParameterSpace {
	return ParameterSpace{
		TeamCounts:     []int{2, 3},
		Distributions:  []model.TeamSizeDistribution{model.Uniform, model.Pyramid},
		StrategyRatios: [][3]float64{{1, 0, 0}, {0, 0, 1}},
		HybridWeights:  []model.HybridWeights{model.DefaultHybridWeights},
		Headcount:      6,
		Seed:           7,
	}
}

func smallBattery(t *testing.T) []model.Scenario {
	t.Helper()
	scs, err := Battery{Entries: []BatteryEntry{{Size: model.Small, Seed: 11}, {Size: model.Small, Seed: 42}}}.Build()
	require.NoError(t, err)
	return scs
}

func quickOptimizer(workers int, opts ...Option) *Optimizer {
	o := New(opts...)
	o.Workers = workers
	o.TimeLimit = 30
	return o
}

func TestOptimizeDeterministic(t *testing.T) {
	ResetMetrics(prometheus.NewRegistry())
	t.Cleanup(func() { ResetMetrics(nil) })
	scs := smallBattery(t)

	first, err := quickOptimizer(4).Optimize(context.Background(), smallSpace(), scs)
	require.NoError(t, err)
	second, err := quickOptimizer(1).Optimize(context.Background(), smallSpace(), scs)
	require.NoError(t, err)

	assert.Equal(t, first.Ranked, second.Ranked)
	assert.Equal(t, first.Best.Configuration, second.Best.Configuration)
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, 16, first.Trials)
}

func TestOptimizeRanking(t *testing.T) {
	ResetMetrics(prometheus.NewRegistry())
	t.Cleanup(func() { ResetMetrics(nil) })

	rep, err := quickOptimizer(2).Optimize(context.Background(), smallSpace(), smallBattery(t))
	require.NoError(t, err)
	require.Len(t, rep.Ranked, 8)

	for i, r := range rep.Ranked {
		assert.Equal(t, i+1, r.Rank)
		assert.Equal(t, 2, r.Trials)
		assert.LessOrEqual(t, r.Stability, 1.0)
		if i > 0 {
			prev := rep.Ranked[i-1]
			assert.GreaterOrEqual(t, prev.AverageScore, r.AverageScore)
			if prev.AverageScore == r.AverageScore {
				assert.Less(t, prev.Index, r.Index)
			}
		}
	}
	assert.Equal(t, rep.Ranked[0], rep.Best)
	assert.InDelta(t, rep.Best.AverageScore-rep.Ranked[7].AverageScore, rep.Margin, 1e-12)
	assert.Equal(t, 8.0, testutil.ToFloat64(configsEvaluated))
	assert.Equal(t, rep.Best.AverageScore, testutil.ToFloat64(bestScore))
}

func TestOptimizeRejectsInvalidConfigurationBeforeTrials(t *testing.T) {
	ResetMetrics(prometheus.NewRegistry())
	t.Cleanup(func() { ResetMetrics(nil) })

	sp := smallSpace()
	sp.StrategyRatios = append(sp.StrategyRatios, [3]float64{0.5, 0.4, 0})
	_, err := quickOptimizer(2).Optimize(context.Background(), sp, smallBattery(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrConfiguration))
	assert.Equal(t, 0, testutil.CollectAndCount(trialsTotal))

	sp = smallSpace()
	sp.TeamCounts = []int{9}
	_, err = quickOptimizer(2).Optimize(context.Background(), sp, smallBattery(t))
	assert.True(t, errors.Is(err, model.ErrConfiguration))
}

func TestOptimizeEmptyInputs(t *testing.T) {
	_, err := quickOptimizer(1).Optimize(context.Background(), smallSpace(), nil)
	assert.True(t, errors.Is(err, model.ErrConfiguration))

	sp := smallSpace()
	sp.TeamCounts = nil
	_, err = quickOptimizer(1).Optimize(context.Background(), sp, smallBattery(t))
	assert.True(t, errors.Is(err, model.ErrConfiguration))
}

func TestOptimizeCancelled(t *testing.T) {
	ResetMetrics(prometheus.NewRegistry())
	t.Cleanup(func() { ResetMetrics(nil) })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := quickOptimizer(2).Optimize(ctx, smallSpace(), smallBattery(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

type captureSink struct {
	mu      sync.Mutex
	trials  int
	ranking []coremetrics.RankingRecord
	summary *coremetrics.RunSummary
}

func (c *captureSink) RecordTrial(coremetrics.TrialRecord) error {
	c.mu.Lock()
	c.trials++
	c.mu.Unlock()
	return nil
}

func (c *captureSink) RecordRanking(recs []coremetrics.RankingRecord) error {
	c.ranking = recs
	return nil
}

func (c *captureSink) RecordRunSummary(s coremetrics.RunSummary) error {
	c.summary = &s
	return nil
}

func TestOptimizeRecordsToSinkAndBus(t *testing.T) {
	ResetMetrics(prometheus.NewRegistry())
	t.Cleanup(func() { ResetMetrics(nil) })

	sink := &captureSink{}
	bus := eventbus.NewTypedBuffered[eventbus.Event](64)
	sub := bus.Subscribe()

	rep, err := quickOptimizer(3, WithSink(sink), WithBus(bus)).Optimize(context.Background(), smallSpace(), smallBattery(t))
	require.NoError(t, err)
	bus.Close()

	assert.Equal(t, 16, sink.trials)
	require.Len(t, sink.ranking, 8)
	assert.Equal(t, rep.RunID, sink.ranking[0].RunID)
	require.NotNil(t, sink.summary)
	assert.Equal(t, rep.Margin, sink.summary.Margin)

	n := 0
	for range sub {
		n++
	}
	assert.Equal(t, 17, n)
	assert.Equal(t, 16.0, testutil.ToFloat64(trialsTotal.WithLabelValues("small", "timeout"))+
		testutil.ToFloat64(trialsTotal.WithLabelValues("small", "completed")))
}

func TestMetricsRegistration(t *testing.T) {
	ResetMetrics(nil)
	t.Cleanup(func() { ResetMetrics(nil) })
	reg := prometheus.NewRegistry()
	MustRegisterMetrics(reg)
	trialsTotal.WithLabelValues("small", "completed").Inc()
	trialDuration.WithLabelValues("small").Observe(0.01)
	configsEvaluated.Inc()
	bestScore.Set(0.5)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	for _, n := range []string{
		"optimizer_trials_total",
		"optimizer_trial_duration_seconds",
		"optimizer_configurations_evaluated",
		"optimizer_best_score",
	} {
		assert.True(t, names[n], "metric %s not registered", n)
	}
}
