package dispatch

import (
	"fmt"
	"strings"

	"github.com/kilianp07/rescuesim/core/factory"
	"github.com/kilianp07/rescuesim/core/model"
)

var registry = factory.NewRegistry[Strategy]()

func init() {
	registry.MustRegister("nearest", func(map[string]any) (Strategy, error) { return NearestFirst{}, nil })
	registry.MustRegister("largest", func(map[string]any) (Strategy, error) { return LargestFirst{}, nil })
	registry.MustRegister("hybrid", func(conf map[string]any) (Strategy, error) {
		w := model.DefaultHybridWeights
		if len(conf) > 0 {
			w = model.HybridWeights{}
			if err := factory.Decode(conf, &w); err != nil {
				return nil, fmt.Errorf("hybrid weights: %w", err)
			}
		}
		return WeightedHybrid{Weights: w}, nil
	})
}

// Register adds a custom strategy factory.
func Register(name string, f factory.Factory[Strategy]) error {
	return registry.Register(name, f)
}

// New builds a strategy from its module configuration.
func New(cfg factory.ModuleConfig) (Strategy, error) {
	return registry.Create(cfg)
}

// Names lists the registered strategies.
func Names() []string { return registry.Names() }

// ForAgent resolves the strategy an agent was configured with.
func ForAgent(a model.Agent) (Strategy, error) {
	cfg := factory.ModuleConfig{Type: strings.ToLower(a.Strategy.String())}
	if a.Strategy == model.Hybrid {
		w := a.HybridWeightsOrDefault()
		cfg.Conf = map[string]any{"distance": w.Distance, "victims": w.Victims, "urgency": w.Urgency}
	}
	s, err := New(cfg)
	if err != nil {
		return nil, fmt.Errorf("agent %d: %w", a.ID, err)
	}
	return s, nil
}
