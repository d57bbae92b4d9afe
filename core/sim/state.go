// Package sim runs the per-tick rescue model: task decay and reporting,
// the agent state machine and rescue accounting.
package sim

import (
	"fmt"
	"math"

	"github.com/kilianp07/rescuesim/core/dispatch"
	"github.com/kilianp07/rescuesim/core/model"
)

const timeEpsilon = 1e-9

// WorldState is the mutable working copy of a scenario owned by one run.
// Tasks is indexed by TaskID.
type WorldState struct {
	Center  model.Position
	Total   float64
	Tasks   []model.Task
	Agents  []model.Agent
	Claims  *dispatch.AssignmentTable
	Time    float64
	Rescued float64
	Options Options

	strategies []dispatch.Strategy
	rescuing   []int
}

// Clone builds a working state for agents on a private copy of the scenario.
func Clone(sc model.Scenario, agents []model.Agent, opts Options) (*WorldState, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	tasks := sc.Tasks()
	for i, t := range tasks {
		if t.ID != model.TaskID(i) {
			return nil, &model.ConfigurationError{Field: "tasks", Reason: fmt.Sprintf("task at index %d has id %d", i, t.ID)}
		}
	}
	seen := make(map[model.AgentID]bool, len(agents))
	for i, a := range agents {
		if seen[a.ID] {
			return nil, &model.ConfigurationError{Field: "agents", Reason: fmt.Sprintf("agent at index %d reuses id %d", i, a.ID)}
		}
		seen[a.ID] = true
	}
	s := &WorldState{
		Center:     sc.Center,
		Total:      sc.TotalInitialVictims,
		Tasks:      tasks,
		Agents:     copyAgents(agents),
		Claims:     dispatch.NewAssignmentTable(),
		Options:    opts,
		strategies: make([]dispatch.Strategy, len(agents)),
	}
	for i, a := range s.Agents {
		st, err := dispatch.ForAgent(a)
		if err != nil {
			return nil, err
		}
		s.strategies[i] = st
		if a.HasTask {
			s.Claims.Claim(a.TaskID, a.ID)
		}
	}
	return s, nil
}

// Copy returns an independent deep copy of the state.
func (s *WorldState) Copy() *WorldState {
	c := *s
	c.Tasks = append([]model.Task(nil), s.Tasks...)
	c.Agents = copyAgents(s.Agents)
	c.Claims = s.Claims.Clone()
	c.rescuing = nil
	return &c
}

// Advance runs one tick of Options.TickSize in place.
func (s *WorldState) Advance() {
	s.advance(s.Options.TickSize)
}

// Step returns the state one tick after s. The input is left untouched.
// A non-positive tick uses the state's configured tick size.
func Step(s *WorldState, tick float64) *WorldState {
	if tick <= 0 {
		tick = s.Options.TickSize
	}
	next := s.Copy()
	next.advance(tick)
	return next
}

func (s *WorldState) advance(tick float64) {
	now := s.Time
	for i := range s.Tasks {
		decay(&s.Tasks[i], now, tick)
	}

	s.rescuing = s.rescuing[:0]
	for i := range s.Agents {
		a := &s.Agents[i]
		switch a.State {
		case model.Idle:
			s.assign(i)
		case model.MovingToTask:
			s.move(a)
		case model.AtTask:
			t := s.task(a)
			if t == nil || t.Resolved() {
				s.release(a)
				continue
			}
			s.rescuing = append(s.rescuing, i)
		}
	}

	for _, i := range s.rescuing {
		s.rescue(&s.Agents[i])
	}
	s.Time += tick
}

// decay reports the task once its delay elapsed and removes the victims lost
// during the tick.
func decay(t *model.Task, now, tick float64) {
	if !t.Reported && now >= t.ReportTime {
		t.Reported = true
	}
	if t.Reported && t.CurrentVictims > 0 {
		loss := t.InitialVictims * t.DeclineRate * tick / 60
		t.CurrentVictims = math.Max(0, t.CurrentVictims-loss)
	}
}

func (s *WorldState) assign(i int) {
	a := &s.Agents[i]
	id, ok := dispatch.Select(s.strategies[i], *a, s.Tasks, s.Claims, s.Options.AvoidConflicts)
	if !ok {
		return
	}
	a.Assign(id)
	s.Claims.Claim(id, a.ID)
}

func (s *WorldState) move(a *model.Agent) {
	t := s.task(a)
	if t == nil {
		s.release(a)
		return
	}
	target := t.Position()
	dist := a.Position.Distance(target)
	if dist < ArrivalRadius {
		a.Position = target
		a.State = model.AtTask
		return
	}
	step := math.Min(s.Options.MoveSpeed, dist)
	a.Position.X += (target.X - a.Position.X) / dist * step
	a.Position.Y += (target.Y - a.Position.Y) / dist * step
}

func (s *WorldState) rescue(a *model.Agent) {
	t := s.task(a)
	if t == nil {
		return
	}
	amount := math.Min(math.Min(t.CurrentVictims, a.Capacity), s.Total-s.Rescued)
	if amount <= 0 {
		return
	}
	t.CurrentVictims = math.Max(0, t.CurrentVictims-amount)
	s.Rescued = math.Min(s.Rescued+amount, s.Total)
}

func (s *WorldState) release(a *model.Agent) {
	if a.HasTask {
		s.Claims.Release(a.TaskID, a.ID)
	}
	a.Release()
}

func (s *WorldState) task(a *model.Agent) *model.Task {
	if !a.HasTask || int(a.TaskID) < 0 || int(a.TaskID) >= len(s.Tasks) {
		return nil
	}
	return &s.Tasks[a.TaskID]
}

// Resolved reports whether every task has been emptied.
func (s *WorldState) Resolved() bool {
	for i := range s.Tasks {
		if !s.Tasks[i].Resolved() {
			return false
		}
	}
	return true
}

// Remaining counts unresolved tasks.
func (s *WorldState) Remaining() int {
	n := 0
	for i := range s.Tasks {
		if !s.Tasks[i].Resolved() {
			n++
		}
	}
	return n
}

// IsComplete reports whether the run has terminated.
func (s *WorldState) IsComplete() bool {
	return s.Resolved() || s.Time >= s.Options.TimeLimit-timeEpsilon
}

// IsComplete reports whether the run held by s has terminated.
func IsComplete(s *WorldState) bool { return s.IsComplete() }

// Result summarises the run at its current time.
func (s *WorldState) Result() model.RunResult {
	success := 1.0
	if s.Total > 0 {
		success = s.Rescued / s.Total
	}
	r := model.RunResult{
		Rescued:        s.Rescued,
		CompletionTime: s.Time,
		SuccessRate:    success,
		Completed:      s.Resolved(),
	}
	r.Score = r.Fitness(s.Options.TimeLimit)
	return r
}

func copyAgents(in []model.Agent) []model.Agent {
	out := make([]model.Agent, len(in))
	copy(out, in)
	for i := range out {
		if out[i].Weights != nil {
			w := *out[i].Weights
			out[i].Weights = &w
		}
	}
	return out
}
