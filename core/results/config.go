package results

import (
	"fmt"

	"github.com/kilianp07/rescuesim/core/model"
)

// Store backends.
const (
	BackendNone          = "none"
	BackendJSONL         = "jsonl"
	BackendRotatingJSONL = "jsonl_rotating"
	BackendSQLite        = "sqlite"
)

// Config is the "results" configuration section.
type Config struct {
	Backend    string `json:"backend"`
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

// SetDefaults selects a JSONL file in the working directory.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = BackendJSONL
	}
	if c.Path == "" {
		switch c.Backend {
		case BackendSQLite:
			c.Path = "rescuesim-results.db"
		default:
			c.Path = "rescuesim-results.jsonl"
		}
	}
	if c.Backend == BackendRotatingJSONL {
		if c.MaxSizeMB == 0 {
			c.MaxSizeMB = 10
		}
		if c.MaxBackups == 0 {
			c.MaxBackups = 5
		}
		if c.MaxAgeDays == 0 {
			c.MaxAgeDays = 30
		}
	}
}

// Validate checks the section.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendNone:
		return nil
	case BackendJSONL, BackendRotatingJSONL, BackendSQLite:
	default:
		return &model.ConfigurationError{Field: "results.backend", Reason: fmt.Sprintf("unknown backend %q", c.Backend)}
	}
	if c.Path == "" {
		return &model.ConfigurationError{Field: "results.path", Reason: "empty"}
	}
	if c.MaxSizeMB < 0 || c.MaxBackups < 0 || c.MaxAgeDays < 0 {
		return &model.ConfigurationError{Field: "results", Reason: "negative rotation setting"}
	}
	return nil
}
