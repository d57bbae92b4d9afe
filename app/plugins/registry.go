// Package plugins maps configuration backend names to the adapters that
// implement them.
package plugins

import (
	"fmt"
	"sort"

	"github.com/kilianp07/rescuesim/core/results"
)

// ResultStoreFactory opens a result store from its configuration section.
type ResultStoreFactory func(cfg results.Config) (results.Store, error)

var ResultStores = map[string]ResultStoreFactory{}

func RegisterResultStore(name string, f ResultStoreFactory) { ResultStores[name] = f }

// ResultStoreNames lists the registered backends.
func ResultStoreNames() []string {
	names := make([]string, 0, len(ResultStores))
	for n := range ResultStores {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// OpenResultStore opens the backend named by cfg. The "none" backend yields
// a nil store and no error.
func OpenResultStore(cfg results.Config) (results.Store, error) {
	if cfg.Backend == results.BackendNone {
		return nil, nil
	}
	f, ok := ResultStores[cfg.Backend]
	if !ok {
		return nil, fmt.Errorf("unknown result store %q", cfg.Backend)
	}
	s, err := f(cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store %s: %w", cfg.Backend, cfg.Path, err)
	}
	return s, nil
}
