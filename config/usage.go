package config

import (
	"fmt"
)

// UsageConfig selects the backing store for the daily usage ledger.
type UsageConfig struct {
	// Backend selects the store type: "memory" or "sqlite".
	Backend string `json:"backend"`
	// Path is the database location for the sqlite backend.
	Path string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *UsageConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "memory"
	}
	if c.Backend == "sqlite" && c.Path == "" {
		c.Path = "usage.db"
	}
}

// Validate checks the backend selection.
func (c UsageConfig) Validate() error {
	switch c.Backend {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("unknown backend %s", c.Backend)
	}
	return nil
}
