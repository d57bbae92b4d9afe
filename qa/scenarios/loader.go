// Package scenarios runs YAML described rescue situations and checks their
// outcome.
package scenarios

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/rescuesim/core/model"
	"github.com/kilianp07/rescuesim/core/sim"
	"github.com/kilianp07/rescuesim/core/world"
)

type TaskDef struct {
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
	Victims    float64 `yaml:"victims"`
	Decline    float64 `yaml:"decline"`
	ReportTime float64 `yaml:"report_time"`
}

type AgentDef struct {
	Strategy string               `yaml:"strategy"`
	Capacity float64              `yaml:"capacity"`
	TeamSize int                  `yaml:"team_size"`
	Weights  *model.HybridWeights `yaml:"weights,omitempty"`
}

// WorldDef generates the tasks instead of listing them.
type WorldDef struct {
	Size string `yaml:"size"`
	Seed int64  `yaml:"seed"`
}

type OptionsDef struct {
	TickSize       float64 `yaml:"tick_size"`
	MoveSpeed      float64 `yaml:"move_speed"`
	TimeLimit      float64 `yaml:"time_limit"`
	AvoidConflicts *bool   `yaml:"avoid_conflicts"`
}

// Expected lists the checks applied to the outcome. Unset bounds are not
// checked.
type Expected struct {
	Completed         *bool    `yaml:"completed"`
	MinSuccessRate    *float64 `yaml:"min_success_rate"`
	MaxSuccessRate    *float64 `yaml:"max_success_rate"`
	MinCompletionTime *float64 `yaml:"min_completion_time"`
	MaxCompletionTime *float64 `yaml:"max_completion_time"`
	// DistinctTargets requires the first claims of all agents to differ.
	DistinctTargets bool `yaml:"distinct_targets"`
}

type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	Center      model.Position `yaml:"center"`
	World       *WorldDef      `yaml:"world,omitempty"`
	Tasks       []TaskDef      `yaml:"tasks,omitempty"`
	Agents      []AgentDef     `yaml:"agents"`
	Options     OptionsDef     `yaml:"options"`
	Expected    Expected       `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if len(sc.Agents) == 0 {
		return nil, fmt.Errorf("%s: no agents", path)
	}
	if sc.World == nil && len(sc.Tasks) == 0 {
		return nil, fmt.Errorf("%s: needs a world or tasks", path)
	}
	return &sc, nil
}

// Build returns the scenario, agents and options described by sc.
func (sc *Scenario) Build() (model.Scenario, []model.Agent, sim.Options, error) {
	world, err := sc.world()
	if err != nil {
		return model.Scenario{}, nil, sim.Options{}, err
	}
	agents := make([]model.Agent, len(sc.Agents))
	for i, d := range sc.Agents {
		st, err := model.ParseStrategyType(d.Strategy)
		if err != nil {
			return model.Scenario{}, nil, sim.Options{}, fmt.Errorf("agent %d: %w", i, err)
		}
		size := d.TeamSize
		if size <= 0 {
			size = 1
		}
		agents[i] = model.Agent{
			ID:       model.AgentID(i),
			Position: world.Center,
			Strategy: st,
			Capacity: d.Capacity,
			TeamSize: size,
			Weights:  d.Weights,
		}
	}
	return world, agents, sc.options(), nil
}

func (sc *Scenario) world() (model.Scenario, error) {
	if sc.World != nil {
		size, err := model.ParseScenarioSize(sc.World.Size)
		if err != nil {
			return model.Scenario{}, err
		}
		return world.NewScenario(size, sc.World.Seed)
	}
	out := model.Scenario{Center: sc.Center, InitialTasks: make([]model.Task, len(sc.Tasks))}
	for i, t := range sc.Tasks {
		out.InitialTasks[i] = model.Task{
			ID:             model.TaskID(i),
			X:              t.X,
			Y:              t.Y,
			InitialVictims: t.Victims,
			CurrentVictims: t.Victims,
			DeclineRate:    t.Decline,
			ReportTime:     t.ReportTime,
		}
		out.TotalInitialVictims += t.Victims
	}
	return out, nil
}

func (sc *Scenario) options() sim.Options {
	o := sim.DefaultOptions()
	if sc.Options.TickSize > 0 {
		o.TickSize = sc.Options.TickSize
	}
	if sc.Options.MoveSpeed > 0 {
		o.MoveSpeed = sc.Options.MoveSpeed
	}
	if sc.Options.TimeLimit > 0 {
		o.TimeLimit = sc.Options.TimeLimit
	}
	if sc.Options.AvoidConflicts != nil {
		o.AvoidConflicts = *sc.Options.AvoidConflicts
	}
	return o
}
