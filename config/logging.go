package config

import (
	"fmt"

	"github.com/careops/bookd/core/factory"
)

// LoggingConfig defines settings for solve log storage and rotation.
type LoggingConfig struct {
	// Backend selects the log store type: "jsonl", "rotating" or "sqlite".
	Backend string `json:"backend"`
	// Path locates the log file or database on disk.
	Path string `json:"path"`
	// MaxSizeMB rotates the file once it grows past this many megabytes.
	MaxSizeMB int `json:"max_size_mb"`
	// MaxBackups caps how many rotated files are kept.
	MaxBackups int `json:"max_backups"`
	// MaxAgeDays prunes rotated files older than this many days.
	MaxAgeDays int `json:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" {
		c.Path = "assignments.log"
	}
}

// Module expresses the logging section as a pluggable module selector for
// the log store registry.
func (c LoggingConfig) Module() factory.ModuleConfig {
	return factory.ModuleConfig{
		Type: c.Backend,
		Conf: map[string]any{
			"backend":      c.Backend,
			"path":         c.Path,
			"max_size_mb":  c.MaxSizeMB,
			"max_backups":  c.MaxBackups,
			"max_age_days": c.MaxAgeDays,
		},
	}
}

// Validate checks mandatory fields.
func (c LoggingConfig) Validate() error {
	switch c.Backend {
	case "jsonl", "rotating", "sqlite":
	default:
		return fmt.Errorf("unknown backend %s", c.Backend)
	}
	if c.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}
