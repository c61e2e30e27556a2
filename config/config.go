// Package config loads and validates the service configuration from YAML or
// JSON files with optional environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/careops/bookd/core/assign"
	"github.com/careops/bookd/core/factory"
	"github.com/careops/bookd/core/metrics"
	"github.com/careops/bookd/core/slotplan"
	"github.com/careops/bookd/infra/monitoring"
)

type Config struct {
	Providers  []ProviderDef        `json:"providers"`
	Categories []CategoryDef        `json:"categories"`
	Assign     assign.Config        `json:"assign"`
	Slots      slotplan.Config      `json:"slots"`
	Intake     IntakeConfig         `json:"intake"`
	API        APIConfig            `json:"api"`
	Prometheus PromServerConfig     `json:"prometheus"`
	Metrics    metrics.Config       `json:"metrics"`
	Logging    LoggingConfig        `json:"logging"`
	Usage      UsageConfig          `json:"usage"`
	Notifier   factory.ModuleConfig `json:"notifier"`
	Sentry     monitoring.Config    `json:"sentry"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides, e.g. BOOKD_INTAKE__SERVER__TOKEN.
	if err := k.Load(env.Provider("BOOKD_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "bookd_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies defaults to every section.
func (c *Config) SetDefaults() {
	c.Assign.SetDefaults()
	c.Slots.SetDefaults()
	c.Logging.SetDefaults()
	c.Usage.SetDefaults()
	c.Intake.SetDefaults()
	if c.Notifier.Type == "" {
		c.Notifier.Type = "nop"
	}
}

// AssignerModule expresses the assignment section as a pluggable module
// selector for the strategy registry.
func (c Config) AssignerModule() factory.ModuleConfig {
	return factory.ModuleConfig{
		Type: c.Assign.Strategy,
		Conf: map[string]any{
			"solver_timeout_ms": c.Assign.SolverTimeoutMS,
			"tolerance":         c.Assign.Tolerance,
		},
	}
}

// Validate checks every section, including the provider roster, so that a
// misconfigured deployment fails at startup rather than on the first cycle.
func (c *Config) Validate() error {
	if err := c.Assign.Validate(); err != nil {
		return fmt.Errorf("assign: %w", err)
	}
	if err := c.Slots.Validate(); err != nil {
		return fmt.Errorf("slots: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Usage.Validate(); err != nil {
		return fmt.Errorf("usage: %w", err)
	}
	if err := c.Intake.Validate(); err != nil {
		return fmt.Errorf("intake: %w", err)
	}
	if _, _, err := c.Roster(); err != nil {
		return err
	}
	return nil
}
