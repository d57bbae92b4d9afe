package metrics

import (
	"context"
	"time"

	"github.com/kilianp07/rescuesim/core/events"
	coremetrics "github.com/kilianp07/rescuesim/core/metrics"
	"github.com/kilianp07/rescuesim/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records live session
// ticks and group results. Optimizer events are ignored since the optimizer
// writes to its sink directly. It stops when the context is canceled or the bus is closed. The
// returned channel is closed once the collector has exited.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				record(sink, ev)
			}
		}
	}()
	return done
}

func record(sink coremetrics.MetricsSink, ev eventbus.Event) {
	now := time.Now()
	switch e := ev.(type) {
	case events.TickEvent:
		if r, ok := sink.(coremetrics.TickRecorder); ok {
			_ = r.RecordTick(coremetrics.TickRecord{
				Group:     e.Group,
				SimTime:   e.Time,
				Rescued:   e.Rescued,
				Total:     e.Total,
				Remaining: e.Remaining,
				Time:      now,
			})
		}
	case events.GroupDoneEvent:
		if r, ok := sink.(coremetrics.GroupResultRecorder); ok {
			_ = r.RecordGroupResult(coremetrics.GroupResult{Group: e.Group, Result: e.Result, Time: now})
		}
	}
}
