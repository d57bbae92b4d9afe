package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/rescuesim/core/events"
	"github.com/kilianp07/rescuesim/core/logger"
	"github.com/kilianp07/rescuesim/core/model"
	coremqtt "github.com/kilianp07/rescuesim/core/mqtt"
	"github.com/kilianp07/rescuesim/internal/eventbus"
)

// Session steps several groups on the same scenario in lock step. It is not
// safe for concurrent use; ticks run on the caller's goroutine.
type Session struct {
	scenario  model.Scenario
	names     []string
	states    []*WorldState
	done      []bool
	bus       eventbus.EventBus
	publisher coremqtt.SnapshotPublisher
	logger    logger.Logger
}

// SessionOption customises a Session.
type SessionOption func(*Session)

// WithBus publishes tick and completion events on bus.
func WithBus(bus eventbus.EventBus) SessionOption {
	return func(s *Session) { s.bus = bus }
}

// WithPublisher streams every group snapshot after each tick.
func WithPublisher(p coremqtt.SnapshotPublisher) SessionOption {
	return func(s *Session) { s.publisher = p }
}

// WithLogger sets the session logger.
func WithLogger(l logger.Logger) SessionOption {
	return func(s *Session) { s.logger = logger.OrNop(l) }
}

// NewSession clones sc once per group.
func NewSession(sc model.Scenario, groups []Group, opts Options, options ...SessionOption) (*Session, error) {
	if len(groups) == 0 {
		return nil, &model.ConfigurationError{Field: "groups", Reason: "at least one group is required"}
	}
	s := &Session{scenario: sc, logger: logger.NopLogger{}}
	seen := make(map[string]bool, len(groups))
	for _, g := range groups {
		if g.Name == "" || seen[g.Name] {
			return nil, &model.ConfigurationError{Field: "groups", Reason: fmt.Sprintf("group name %q is empty or duplicated", g.Name)}
		}
		seen[g.Name] = true
		st, err := Clone(sc, g.Agents, opts)
		if err != nil {
			return nil, fmt.Errorf("group %s: %w", g.Name, err)
		}
		s.names = append(s.names, g.Name)
		s.states = append(s.states, st)
		s.done = append(s.done, false)
	}
	for _, o := range options {
		o(s)
	}
	return s, nil
}

// Groups returns the group names in creation order.
func (s *Session) Groups() []string { return append([]string(nil), s.names...) }

// Tick advances every running group by one tick and reports whether all
// groups are complete afterwards.
func (s *Session) Tick() bool {
	all := true
	for i, st := range s.states {
		if s.done[i] {
			continue
		}
		st.Advance()
		s.publish(s.names[i], st)
		if st.IsComplete() {
			s.finish(i)
		} else {
			all = false
		}
	}
	return all
}

func (s *Session) publish(name string, st *WorldState) {
	if s.bus != nil {
		s.bus.Publish(events.TickEvent{
			Group:     name,
			Time:      st.Time,
			Rescued:   st.Rescued,
			Total:     st.Total,
			Remaining: st.Remaining(),
			Agents:    copyAgents(st.Agents),
		})
	}
	if s.publisher != nil {
		if err := s.publisher.PublishSnapshot(name, st.Snapshot()); err != nil {
			s.logger.Warnf("snapshot %s at t=%.1f: %v", name, st.Time, err)
		}
	}
}

func (s *Session) finish(i int) {
	s.done[i] = true
	r := s.states[i].Result()
	s.logger.Infof("group %s finished at t=%.1f: rescued %.0f/%.0f (%.1f%%)",
		s.names[i], r.CompletionTime, r.Rescued, s.states[i].Total, r.SuccessRate*100)
	if s.bus != nil {
		s.bus.Publish(events.GroupDoneEvent{Group: s.names[i], Result: r})
	}
}

// Done reports whether every group is complete.
func (s *Session) Done() bool {
	for _, d := range s.done {
		if !d {
			return false
		}
	}
	return true
}

// Run ticks every interval until all groups complete or ctx is cancelled.
// A non-positive interval ticks back to back. Cancellation happens between
// ticks and returns the results reached so far with ctx.Err().
func (s *Session) Run(ctx context.Context, interval time.Duration) ([]Standing, error) {
	for i, st := range s.states {
		if !s.done[i] && st.IsComplete() {
			s.finish(i)
		}
	}
	if interval <= 0 {
		for !s.Done() {
			if err := ctx.Err(); err != nil {
				return s.Standings(), err
			}
			s.Tick()
		}
		return s.Standings(), nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for !s.Done() {
		select {
		case <-ctx.Done():
			return s.Standings(), ctx.Err()
		case <-ticker.C:
			s.Tick()
		}
	}
	return s.Standings(), nil
}

// Results returns the current result of every group.
func (s *Session) Results() map[string]model.RunResult {
	out := make(map[string]model.RunResult, len(s.states))
	for i, st := range s.states {
		out[s.names[i]] = st.Result()
	}
	return out
}

// Standings ranks the groups with Compare.
func (s *Session) Standings() []Standing { return Compare(s.Results()) }

// Snapshot returns the view of one group.
func (s *Session) Snapshot(group string) (View, bool) {
	for i, n := range s.names {
		if n == group {
			return s.states[i].Snapshot(), true
		}
	}
	return View{}, false
}
