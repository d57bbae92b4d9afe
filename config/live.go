package config

import (
	"fmt"

	"github.com/kilianp07/rescuesim/core/model"
	"github.com/kilianp07/rescuesim/core/sim"
)

// LiveConfig holds the settings of the live comparison run.
type LiveConfig struct {
	// Publish streams group snapshots to the MQTT broker.
	Publish bool `json:"publish"`
	// Groups restricts the run to some reference groups. Empty runs all.
	Groups []string `json:"groups"`
	// ProgressEvery logs progress every n ticks. Zero uses 100.
	ProgressEvery int `json:"progress_every"`
}

func (c *LiveConfig) SetDefaults() {
	if c.ProgressEvery <= 0 {
		c.ProgressEvery = 100
	}
}

func (c LiveConfig) Validate() error {
	known := map[string]bool{}
	for _, g := range sim.ReferenceGroups(model.Position{}) {
		known[g.Name] = true
	}
	for _, name := range c.Groups {
		if !known[name] {
			return fmt.Errorf("unknown live group %q", name)
		}
	}
	return nil
}

// Select keeps the groups named in c, or all of them when none are named.
func (c LiveConfig) Select(groups []sim.Group) []sim.Group {
	if len(c.Groups) == 0 {
		return groups
	}
	want := make(map[string]bool, len(c.Groups))
	for _, n := range c.Groups {
		want[n] = true
	}
	var out []sim.Group
	for _, g := range groups {
		if want[g.Name] {
			out = append(out, g)
		}
	}
	return out
}
