// Package intake receives reservation batches and hands them to the
// assignment manager, either through an HTTP endpoint or by polling the
// upstream booking API.
package intake

import (
	"context"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/careops/bookd/config"
	"github.com/careops/bookd/core/assign"
	"github.com/careops/bookd/core/model"
	"github.com/careops/bookd/core/slotplan"
	"github.com/careops/bookd/infra/logger"
)

// Counter label values distinguishing the intake paths.
const (
	sourceHTTP = "http"
	sourcePoll = "poll"
)

// Manager is the subset of the assignment manager used by connectors.
type Manager interface {
	Process(ctx context.Context, c model.Cycle) (assign.Result, error)
}

// Connector defines the behavior of a component feeding cycles to the manager.
type Connector interface {
	Start(ctx context.Context) error
}

// NewConnector creates a connector depending on cfg.Mode ("server" or
// "client").
func NewConnector(cfg config.IntakeConfig, m Manager, plan *slotplan.Plan) Connector {
	return NewConnectorWithRegistry(cfg, m, plan, prometheus.DefaultRegisterer)
}

// NewConnectorWithRegistry creates a connector registering its metrics on the
// provided registerer. If reg is nil the default registerer is used.
func NewConnectorWithRegistry(cfg config.IntakeConfig, m Manager, plan *slotplan.Plan, reg prometheus.Registerer) Connector {
	switch strings.ToLower(cfg.Mode) {
	case "client":
		return NewPollingClientWithRegistry(cfg.Client, m, plan, reg)
	default:
		return NewServerWithRegistry(cfg.Server, m, plan, reg)
	}
}

// intakeMetrics registers the shared intake counters, reusing collectors
// already present on the registerer.
func intakeMetrics(reg prometheus.Registerer, log logger.Logger) (*prometheus.CounterVec, *prometheus.CounterVec) {
	cycles := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "intake_cycles_total",
		Help: "Total reservation cycles accepted",
	}, []string{"source"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "intake_cycles_failed",
		Help: "Rejected or failed reservation cycles",
	}, []string{"source"})

	if err := reg.Register(cycles); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if exist, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				cycles = exist
			} else {
				log.Errorf("existing collector for intake_cycles_total has wrong type %T", are.ExistingCollector)
			}
		}
	}
	if err := reg.Register(failed); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if exist, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				failed = exist
			} else {
				log.Errorf("existing collector for intake_cycles_failed has wrong type %T", are.ExistingCollector)
			}
		}
	}
	return cycles, failed
}
