package model

import (
	"fmt"
	"strings"
)

// AgentState is the dispatch state of a rescue team.
type AgentState int

const (
	Idle AgentState = iota
	MovingToTask
	AtTask
)

func (s AgentState) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case MovingToTask:
		return "MOVING_TO_TASK"
	case AtTask:
		return "AT_TASK"
	default:
		return fmt.Sprintf("AgentState(%d)", int(s))
	}
}

// MarshalText encodes the state by name.
func (s AgentState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// StrategyType selects the dispatch heuristic of an agent.
type StrategyType int

const (
	Nearest StrategyType = iota
	Largest
	Hybrid
)

// StrategyTypes lists every strategy in the order used by strategy ratios.
var StrategyTypes = [3]StrategyType{Nearest, Largest, Hybrid}

func (t StrategyType) String() string {
	switch t {
	case Nearest:
		return "NEAREST"
	case Largest:
		return "LARGEST"
	case Hybrid:
		return "HYBRID"
	default:
		return fmt.Sprintf("StrategyType(%d)", int(t))
	}
}

// MarshalText encodes the strategy by name.
func (t StrategyType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText decodes a strategy name.
func (t *StrategyType) UnmarshalText(b []byte) error {
	v, err := ParseStrategyType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ParseStrategyType converts a case-insensitive name to a StrategyType.
func ParseStrategyType(s string) (StrategyType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NEAREST":
		return Nearest, nil
	case "LARGEST":
		return Largest, nil
	case "HYBRID":
		return Hybrid, nil
	default:
		return Nearest, fmt.Errorf("unknown strategy %q", s)
	}
}

// HybridWeights weighs the three terms of the hybrid score.
type HybridWeights struct {
	Distance float64 `json:"distance" yaml:"distance"`
	Victims  float64 `json:"victims" yaml:"victims"`
	Urgency  float64 `json:"urgency" yaml:"urgency"`
}

// Sum returns the total of the three weights.
func (w HybridWeights) Sum() float64 { return w.Distance + w.Victims + w.Urgency }

// DefaultHybridWeights is used when a hybrid agent has no explicit weights.
var DefaultHybridWeights = HybridWeights{Distance: 0.4, Victims: 0.4, Urgency: 0.2}

// Agent is a rescue team. TaskID is only meaningful while HasTask is true.
type Agent struct {
	ID       AgentID        `json:"id"`
	Position Position       `json:"position"`
	State    AgentState     `json:"state"`
	TaskID   TaskID         `json:"task_id"`
	HasTask  bool           `json:"has_task"`
	Strategy StrategyType   `json:"strategy"`
	Capacity float64        `json:"capacity"` // victims rescued per tick
	TeamSize int            `json:"team_size"`
	Weights  *HybridWeights `json:"weights,omitempty"`
}

// Assign points the agent at a task and starts travel.
func (a *Agent) Assign(id TaskID) {
	a.TaskID = id
	a.HasTask = true
	a.State = MovingToTask
}

// Release clears the current task and returns the agent to IDLE.
func (a *Agent) Release() {
	a.TaskID = 0
	a.HasTask = false
	a.State = Idle
}

// HybridWeightsOrDefault returns the agent weights or DefaultHybridWeights.
func (a Agent) HybridWeightsOrDefault() HybridWeights {
	if a.Weights == nil {
		return DefaultHybridWeights
	}
	return *a.Weights
}
