// Package world generates the seeded disaster scenarios shared by every
// dispatch strategy under comparison.
package world

import (
	"fmt"
	"math"

	"github.com/kilianp07/rescuesim/core/model"
	"github.com/kilianp07/rescuesim/core/random"
)

// Config holds the generation constants.
type Config struct {
	CenterMin            float64 `json:"center_min"`
	CenterMax            float64 `json:"center_max"`
	AreaMin              float64 `json:"area_min"`
	AreaMax              float64 `json:"area_max"`
	MinCenterDistance    float64 `json:"min_center_distance"`
	ReportSpeed          float64 `json:"report_speed"` // distance units per minute
	MinVictims           int     `json:"min_victims"`
	VictimSpan           int     `json:"victim_span"`
	MinDeclineRate       float64 `json:"min_decline_rate"`
	DeclineSpan          float64 `json:"decline_span"`
	MaxPlacementAttempts int     `json:"max_placement_attempts"`
}

// DefaultConfig returns the reference world parameters.
func DefaultConfig() Config {
	return Config{
		CenterMin:            20,
		CenterMax:            80,
		AreaMin:              10,
		AreaMax:              90,
		MinCenterDistance:    5,
		ReportSpeed:          5,
		MinVictims:           50,
		VictimSpan:           450,
		MinDeclineRate:       0.1,
		DeclineSpan:          0.1,
		MaxPlacementAttempts: 1000,
	}
}

// Validate checks that every range is usable.
func (c Config) Validate() error {
	switch {
	case c.CenterMax < c.CenterMin:
		return &model.ConfigurationError{Field: "center", Reason: "max below min"}
	case c.AreaMax <= c.AreaMin:
		return &model.ConfigurationError{Field: "area", Reason: "empty range"}
	case c.MinCenterDistance < 0:
		return &model.ConfigurationError{Field: "min_center_distance", Reason: "negative"}
	case c.ReportSpeed <= 0:
		return &model.ConfigurationError{Field: "report_speed", Reason: "must be positive"}
	case c.MinVictims < 0 || c.VictimSpan <= 0:
		return &model.ConfigurationError{Field: "victims", Reason: "empty range"}
	case c.MinDeclineRate < 0 || c.DeclineSpan < 0:
		return &model.ConfigurationError{Field: "decline_rate", Reason: "negative"}
	case c.MaxPlacementAttempts <= 0:
		return &model.ConfigurationError{Field: "max_placement_attempts", Reason: "must be positive"}
	}
	return nil
}

// Generator builds scenarios from a seed.
type Generator struct {
	Config Config
}

// NewGenerator returns a Generator using DefaultConfig.
func NewGenerator() *Generator {
	return &Generator{Config: DefaultConfig()}
}

// NewScenario generates a scenario with the default parameters.
func NewScenario(size model.ScenarioSize, seed int64) (model.Scenario, error) {
	return NewGenerator().Generate(size, seed)
}

// Generate builds the scenario for size and seed. Identical inputs always
// produce identical scenarios.
func (g *Generator) Generate(size model.ScenarioSize, seed int64) (model.Scenario, error) {
	cfg := g.Config
	if err := cfg.Validate(); err != nil {
		return model.Scenario{}, err
	}
	n := size.TaskCount()
	if n == 0 {
		return model.Scenario{}, &model.ConfigurationError{Field: "size", Reason: fmt.Sprintf("unknown size %d", int(size))}
	}

	rng := random.New(seed)
	centerSpan := cfg.CenterMax - cfg.CenterMin
	center := model.Position{
		X: rng.Next()*centerSpan + cfg.CenterMin,
		Y: rng.Next()*centerSpan + cfg.CenterMin,
	}

	areaSpan := cfg.AreaMax - cfg.AreaMin
	tasks := make([]model.Task, 0, n)
	total := 0.0
	for i := 0; i < n; i++ {
		var pos model.Position
		placed := false
		for attempt := 0; attempt < cfg.MaxPlacementAttempts; attempt++ {
			pos = model.Position{
				X: rng.Next()*areaSpan + cfg.AreaMin,
				Y: rng.Next()*areaSpan + cfg.AreaMin,
			}
			if pos.Distance(center) >= cfg.MinCenterDistance {
				placed = true
				break
			}
		}
		if !placed {
			return model.Scenario{}, &model.DegenerateWorldError{TaskIndex: i, Attempts: cfg.MaxPlacementAttempts}
		}

		victims := math.Floor(rng.Next()*float64(cfg.VictimSpan)) + float64(cfg.MinVictims)
		decline := cfg.MinDeclineRate + rng.Next()*cfg.DeclineSpan
		tasks = append(tasks, model.Task{
			ID:             model.TaskID(i),
			X:              pos.X,
			Y:              pos.Y,
			InitialVictims: victims,
			CurrentVictims: victims,
			DeclineRate:    decline,
			ReportTime:     pos.Distance(center) / cfg.ReportSpeed,
		})
		total += victims
	}

	return model.Scenario{
		Size:                size,
		Seed:                seed,
		Center:              center,
		InitialTasks:        tasks,
		TotalInitialVictims: total,
	}, nil
}
