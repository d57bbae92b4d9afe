// Package factory provides a small generic registry used to instantiate modules
// from configuration. Modules are defined by a type string and a map of raw
// settings. Factories decode the settings into typed structs and return the
// concrete implementation.
//
// Example usage:
//
//	reg := factory.NewRegistry[dispatch.Strategy]()
//	reg.Register("hybrid", func(conf map[string]any) (dispatch.Strategy, error) {
//	    var w model.HybridWeights
//	    if err := factory.Decode(conf, &w); err != nil {
//	        return nil, err
//	    }
//	    return dispatch.WeightedHybrid{Weights: w}, nil
//	})
//	s, err := reg.Create(factory.ModuleConfig{Type: "hybrid", Conf: map[string]any{"distance": 0.5}})
package factory
