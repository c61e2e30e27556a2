// Package app assembles the assignment service from its configuration.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/careops/bookd/api/assignments"
	apiproviders "github.com/careops/bookd/api/providers"
	"github.com/careops/bookd/app/plugins"
	"github.com/careops/bookd/config"
	"github.com/careops/bookd/core/assign"
	"github.com/careops/bookd/core/factory"
	coremetrics "github.com/careops/bookd/core/metrics"
	"github.com/careops/bookd/core/monitoring"
	"github.com/careops/bookd/core/providerstatus"
	"github.com/careops/bookd/core/slotplan"
	"github.com/careops/bookd/core/usage"
	"github.com/careops/bookd/infra/logger"
	"github.com/careops/bookd/infra/metrics"
	inframon "github.com/careops/bookd/infra/monitoring"
	"github.com/careops/bookd/intake"
	"github.com/careops/bookd/internal/eventbus"
)

// Service orchestrates the assignment manager, the intake connector and the
// HTTP surfaces.
type Service struct {
	Manager   *assign.Manager
	Connector intake.Connector

	bus        eventbus.EventBus
	log        logger.Logger
	monitor    monitoring.Monitor
	sink       coremetrics.Sink
	usageClose func() error

	apiHandler http.Handler
	apiAddr    string

	promEnabled bool
	promAddr    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	monitor, err := inframon.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}

	providers, categories, err := cfg.Roster()
	if err != nil {
		return nil, err
	}
	plan, err := slotplan.New(cfg.Slots)
	if err != nil {
		return nil, fmt.Errorf("slot plan: %w", err)
	}

	sink, err := coremetrics.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	var usageStore usage.Store
	var usageClose func() error
	if cfg.Usage.Backend == "sqlite" {
		st, err := usage.NewSQLiteStore(cfg.Usage.Path)
		if err != nil {
			return nil, fmt.Errorf("usage store: %w", err)
		}
		usageStore = st
		usageClose = st.Close
	} else {
		usageStore = usage.NewMemoryStore()
	}
	dailyCapacity := make(map[string]int, len(providers))
	for _, p := range providers {
		if !p.Sink {
			dailyCapacity[p.Name] = p.Capacity * plan.Slots()
		}
	}
	usageSink := metrics.NewUsageSink(usageStore, dailyCapacity, nil)
	combined := coremetrics.NewMultiSink(sink, usageSink)

	assigner, err := plugins.NewAssigner(cfg.AssignerModule())
	if err != nil {
		return nil, fmt.Errorf("assigner: %w", err)
	}
	var fallback assign.Assigner
	if cfg.Assign.Fallback && cfg.Assign.Strategy != assign.StrategyGreedy {
		fallback, err = plugins.NewAssigner(factory.ModuleConfig{Type: assign.StrategyGreedy})
		if err != nil {
			return nil, fmt.Errorf("fallback assigner: %w", err)
		}
	}

	bus := eventbus.New()
	manager, err := assign.NewManager(providers, categories, assigner, fallback, combined, bus, logg)
	if err != nil {
		return nil, fmt.Errorf("assignment manager: %w", err)
	}
	manager.SetMonitor(monitor)

	store, err := plugins.NewLogStore(cfg.Logging.Module())
	if err != nil {
		return nil, fmt.Errorf("log store: %w", err)
	}
	manager.SetLogStore(store)

	statusStore := providerstatus.NewMemoryStore()
	manager.SetStatusStore(statusStore)

	notifier, err := plugins.NewNotifier(cfg.Notifier)
	if err != nil {
		return nil, fmt.Errorf("notifier: %w", err)
	}
	manager.SetNotifier(notifier)

	svc := &Service{
		Manager:     manager,
		bus:         bus,
		log:         logg,
		monitor:     monitor,
		sink:        combined,
		usageClose:  usageClose,
		promEnabled: cfg.Prometheus.Enabled,
		promAddr:    cfg.Prometheus.Address,
	}
	svc.Connector = intake.NewConnector(cfg.Intake, manager, plan)

	if cfg.API.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/api/assignments/logs", assignments.NewLogHandler(store, cfg.API.Token))
		mux.Handle("/api/providers", apiproviders.NewStatusHandler(statusStore, cfg.API.Token))
		mux.Handle("/api/providers/", apiproviders.NewUsageHandler(usageStore, dailyCapacity, cfg.API.Token))
		svc.apiHandler = mux
		svc.apiAddr = cfg.API.Address
	}
	return svc, nil
}

// Run starts the connector and the HTTP servers, then blocks until the
// context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	metrics.StartEventCollector(ctx, s.bus, s.sink)
	go func() {
		if err := s.Connector.Start(ctx); err != nil {
			s.log.Errorf("connector error: %v", err)
		}
	}()
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if s.apiHandler != nil {
		go func() {
			if err := s.serveAPI(ctx); err != nil {
				s.log.Errorf("api server: %v", err)
			}
		}()
	}
	<-ctx.Done()
	return nil
}

// serveAPI runs the query API until the context is cancelled.
func (s *Service) serveAPI(ctx context.Context) error {
	srv := &http.Server{Addr: s.apiAddr, Handler: s.apiHandler}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("api server shutdown: %v", err)
		}
		cancel()
	}()
	s.log.Infof("query api listening on %s", s.apiAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	err := s.Manager.Close()
	if s.usageClose != nil {
		if cerr := s.usageClose(); err == nil {
			err = cerr
		}
	}
	s.monitor.Flush(2 * time.Second)
	return err
}
