// Package plugins holds the factories for the pluggable components of the
// service: assignment strategies, solve log stores and notifiers. Builtin
// implementations register themselves at init time.
package plugins

import (
	"github.com/careops/bookd/core/assign"
	"github.com/careops/bookd/core/assign/logging"
	"github.com/careops/bookd/core/factory"
	"github.com/careops/bookd/core/notify"
)

var (
	assigners = factory.NewRegistry[assign.Assigner]()
	logStores = factory.NewRegistry[logging.LogStore]()
	notifiers = factory.NewRegistry[notify.Notifier]()
)

// RegisterAssigner adds an assignment strategy factory identified by name.
func RegisterAssigner(name string, f factory.Factory[assign.Assigner]) error {
	return assigners.Register(name, f)
}

// RegisterLogStore adds a solve log store factory identified by name.
func RegisterLogStore(name string, f factory.Factory[logging.LogStore]) error {
	return logStores.Register(name, f)
}

// RegisterNotifier adds a notifier factory identified by name.
func RegisterNotifier(name string, f factory.Factory[notify.Notifier]) error {
	return notifiers.Register(name, f)
}

// NewAssigner creates an assigner from its module configuration.
func NewAssigner(cfg factory.ModuleConfig) (assign.Assigner, error) {
	return assigners.Create(cfg)
}

// NewLogStore creates a solve log store from its module configuration.
func NewLogStore(cfg factory.ModuleConfig) (logging.LogStore, error) {
	return logStores.Create(cfg)
}

// NewNotifier creates a notifier from its module configuration.
func NewNotifier(cfg factory.ModuleConfig) (notify.Notifier, error) {
	return notifiers.Create(cfg)
}
