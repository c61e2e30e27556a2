package metrics

import "github.com/careops/bookd/core/factory"

// Config defines the configured metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
}
