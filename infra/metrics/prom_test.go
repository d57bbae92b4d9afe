package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/rescuesim/core/metrics"
	"github.com/kilianp07/rescuesim/core/model"
)

func TestPromSink_RecordTrial(t *testing.T) {
	reg := prometheus.NewRegistry()
	s, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	ps := s.(*PromSink)

	rec := coremetrics.TrialRecord{Scenario: "small/42", Result: model.RunResult{Score: 0.8, Completed: true}}
	require.NoError(t, ps.RecordTrial(rec))
	require.NoError(t, ps.RecordTrial(rec))

	assert.Equal(t, 2.0, testutil.ToFloat64(ps.trials.WithLabelValues("small/42", "true")))
	assert.Equal(t, 1, testutil.CollectAndCount(ps.trialScore))
}

func TestPromSink_LiveAndRanking(t *testing.T) {
	reg := prometheus.NewRegistry()
	s, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	ps := s.(*PromSink)

	require.NoError(t, ps.RecordTick(coremetrics.TickRecord{Group: "nearest", Rescued: 120, Remaining: 4}))
	require.NoError(t, ps.RecordGroupResult(coremetrics.GroupResult{Group: "nearest", Result: model.RunResult{SuccessRate: 0.75}}))
	require.NoError(t, ps.RecordRanking([]coremetrics.RankingRecord{{Rank: 1, AverageScore: 0.9}, {Rank: 2, AverageScore: 0.7}}))

	assert.Equal(t, 120.0, testutil.ToFloat64(ps.liveRescued.WithLabelValues("nearest")))
	assert.Equal(t, 4.0, testutil.ToFloat64(ps.liveLeft.WithLabelValues("nearest")))
	assert.Equal(t, 0.75, testutil.ToFloat64(ps.groupRate.WithLabelValues("nearest")))
	assert.Equal(t, 0.7, testutil.ToFloat64(ps.rankScore.WithLabelValues("2")))

	// a smaller ranking drops stale ranks
	require.NoError(t, ps.RecordRanking([]coremetrics.RankingRecord{{Rank: 1, AverageScore: 0.5}}))
	assert.Equal(t, 1, testutil.CollectAndCount(ps.rankScore))
}

func TestPromSink_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	second, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	require.NoError(t, first.RecordTrial(coremetrics.TrialRecord{Scenario: "large/11"}))
	require.NoError(t, second.RecordTrial(coremetrics.TrialRecord{Scenario: "large/11"}))
	assert.Equal(t, 2.0, testutil.ToFloat64(second.(*PromSink).trials.WithLabelValues("large/11", "false")))
}
