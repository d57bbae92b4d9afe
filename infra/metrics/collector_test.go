package metrics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/rescuesim/core/events"
	coremetrics "github.com/kilianp07/rescuesim/core/metrics"
	"github.com/kilianp07/rescuesim/core/model"
	"github.com/kilianp07/rescuesim/core/optimizer"
	"github.com/kilianp07/rescuesim/internal/eventbus"
)

type recordingSink struct {
	mu      sync.Mutex
	trials  []coremetrics.TrialRecord
	ticks   []coremetrics.TickRecord
	groups  []coremetrics.GroupResult
	summary []coremetrics.RunSummary
}

func (r *recordingSink) RecordTrial(rec coremetrics.TrialRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trials = append(r.trials, rec)
	return nil
}

func (r *recordingSink) RecordTick(rec coremetrics.TickRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks = append(r.ticks, rec)
	return nil
}

func (r *recordingSink) RecordGroupResult(res coremetrics.GroupResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups = append(r.groups, res)
	return nil
}

func (r *recordingSink) RecordRunSummary(s coremetrics.RunSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summary = append(r.summary, s)
	return nil
}

func TestStartEventCollector(t *testing.T) {
	bus := eventbus.NewTypedBuffered[eventbus.Event](16)
	sink := &recordingSink{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := StartEventCollector(ctx, bus, sink)
	require.Eventually(t, func() bool { return bus.Subscribers() == 1 }, time.Second, 5*time.Millisecond)

	bus.Publish(events.TrialEvent{RunID: "r", Scenario: "small/1", Result: model.RunResult{Score: 0.5}})
	bus.Publish(events.TrialEvent{RunID: "r", Err: assert.AnError})
	bus.Publish(events.TickEvent{Group: "nearest", Time: 0.1, Remaining: 9})
	bus.Publish(events.GroupDoneEvent{Group: "nearest"})
	bus.Publish(events.RankingEvent{RunID: "r", Configurations: 4, Trials: 36})
	bus.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("collector did not stop after bus close")
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.Empty(t, sink.trials)
	require.Len(t, sink.ticks, 1)
	assert.Equal(t, 9, sink.ticks[0].Remaining)
	assert.Len(t, sink.groups, 1)
	assert.Empty(t, sink.summary)
}

func TestStartEventCollector_NilBus(t *testing.T) {
	done := StartEventCollector(context.Background(), nil, coremetrics.NopSink{})
	_, open := <-done
	assert.False(t, open)
}

func TestOptimizerTrialsRecordedOnce(t *testing.T) {
	bus := eventbus.NewTypedBuffered[eventbus.Event](64)
	sink := &recordingSink{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := StartEventCollector(ctx, bus, sink)
	require.Eventually(t, func() bool { return bus.Subscribers() == 1 }, time.Second, 5*time.Millisecond)

	scenarios, err := optimizer.Battery{Entries: []optimizer.BatteryEntry{{Size: model.Small, Seed: 3}}}.Build()
	require.NoError(t, err)
	space := optimizer.ParameterSpace{
		TeamCounts:     []int{1, 3},
		Distributions:  []model.TeamSizeDistribution{model.Uniform},
		StrategyRatios: [][3]float64{{1, 0, 0}},
		Headcount:      3,
		Seed:           1,
	}
	opt := optimizer.New(optimizer.WithSink(sink), optimizer.WithBus(bus))
	opt.Workers = 2
	opt.TimeLimit = 20
	_, err = opt.Optimize(ctx, space, scenarios)
	require.NoError(t, err)
	bus.Close()
	<-done

	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.Len(t, sink.trials, 2)
	assert.Len(t, sink.summary, 1)
}
