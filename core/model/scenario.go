package model

import (
	"fmt"
	"strings"
)

// ScenarioSize selects the number of tasks generated for a world.
type ScenarioSize int

const (
	Small ScenarioSize = iota
	Medium
	Large
)

// ScenarioSizes lists every size class.
var ScenarioSizes = []ScenarioSize{Small, Medium, Large}

// TaskCount returns the number of tasks for the size class.
func (s ScenarioSize) TaskCount() int {
	switch s {
	case Small:
		return 10
	case Medium:
		return 25
	case Large:
		return 50
	default:
		return 0
	}
}

func (s ScenarioSize) String() string {
	switch s {
	case Small:
		return "small"
	case Medium:
		return "medium"
	case Large:
		return "large"
	default:
		return fmt.Sprintf("ScenarioSize(%d)", int(s))
	}
}

// MarshalText encodes the size by name.
func (s ScenarioSize) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes a size name.
func (s *ScenarioSize) UnmarshalText(b []byte) error {
	v, err := ParseScenarioSize(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseScenarioSize converts "small", "medium" or "large".
func ParseScenarioSize(s string) (ScenarioSize, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "small":
		return Small, nil
	case "medium":
		return Medium, nil
	case "large":
		return Large, nil
	default:
		return Small, fmt.Errorf("unknown scenario size %q", s)
	}
}

// Scenario is the immutable output of world generation. Runs work on copies.
type Scenario struct {
	Size                ScenarioSize `json:"size"`
	Seed                int64        `json:"seed"`
	Center              Position     `json:"center"`
	InitialTasks        []Task       `json:"tasks"`
	TotalInitialVictims float64      `json:"total_initial_victims"`
}

// Tasks returns a copy of the initial tasks.
func (s Scenario) Tasks() []Task {
	out := make([]Task, len(s.InitialTasks))
	copy(out, s.InitialTasks)
	return out
}

// Name is a short label such as "small/42".
func (s Scenario) Name() string {
	return fmt.Sprintf("%s/%d", s.Size, s.Seed)
}
