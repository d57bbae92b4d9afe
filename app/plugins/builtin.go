package plugins

import (
	"github.com/kilianp07/rescuesim/core/results"
)

func init() {
	RegisterResultStore(results.BackendJSONL, func(cfg results.Config) (results.Store, error) {
		return results.NewJSONLStore(cfg.Path)
	})
	RegisterResultStore(results.BackendRotatingJSONL, func(cfg results.Config) (results.Store, error) {
		return results.NewRotatingJSONLStore(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
	})
	RegisterResultStore(results.BackendSQLite, func(cfg results.Config) (results.Store, error) {
		return results.NewSQLiteStore(cfg.Path)
	})
}
