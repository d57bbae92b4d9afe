package optimizer

import (
	"fmt"

	"github.com/kilianp07/rescuesim/core/model"
	"github.com/kilianp07/rescuesim/core/world"
)

// BatteryEntry identifies one scenario of the battery.
type BatteryEntry struct {
	Size model.ScenarioSize `json:"size" yaml:"size"`
	Seed int64              `json:"seed" yaml:"seed"`
}

// Battery is the fixed set of scenarios every configuration is tried on.
type Battery struct {
	Entries []BatteryEntry `json:"entries" yaml:"entries"`
}

// DefaultBattery spans every size class with seeds 11, 23 and 42.
func DefaultBattery() Battery {
	var b Battery
	for _, size := range model.ScenarioSizes {
		for _, seed := range []int64{11, 23, 42} {
			b.Entries = append(b.Entries, BatteryEntry{Size: size, Seed: seed})
		}
	}
	return b
}

// Build generates the scenarios with the default world generator.
func (b Battery) Build() ([]model.Scenario, error) {
	return b.BuildWith(world.NewGenerator())
}

// BuildWith generates the scenarios with g.
func (b Battery) BuildWith(g *world.Generator) ([]model.Scenario, error) {
	if len(b.Entries) == 0 {
		return nil, &model.ConfigurationError{Field: "battery", Reason: "empty"}
	}
	out := make([]model.Scenario, 0, len(b.Entries))
	for _, e := range b.Entries {
		sc, err := g.Generate(e.Size, e.Seed)
		if err != nil {
			return nil, fmt.Errorf("battery %s/%d: %w", e.Size, e.Seed, err)
		}
		out = append(out, sc)
	}
	return out, nil
}
