package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/careops/bookd/core/metrics"
)

// PromSink records assignment outcomes in Prometheus metrics.
type PromSink struct {
	events   *prometheus.CounterVec
	cycles   *prometheus.CounterVec
	strategy *prometheus.CounterVec
	intake   *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	placed   *prometheus.GaugeVec
	capacity *prometheus.GaugeVec
}

// NewPromSink registers assignment metrics on the default Prometheus
// registerer. The Prometheus server is started separately.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assignment_events_total",
		Help: "Total number of assignment decisions",
	}, []string{"provider", "category", "unassigned"})
	cycles := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assignment_cycles_total",
		Help: "Total number of solved cycles",
	}, []string{"strategy"})
	strategy := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assignment_strategy_total",
		Help: "Strategy attempts, failures and fallbacks",
	}, []string{"action"})
	intake := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "intake_requests_total",
		Help: "Requests received per intake source",
	}, []string{"source"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "solve_duration_seconds",
		Help:    "Time spent solving one cycle",
		Buckets: prometheus.DefBuckets,
	}, []string{"strategy"})
	placed := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "provider_slot_placed",
		Help: "Placements per provider and slot in the latest cycle",
	}, []string{"provider", "slot"})
	capacity := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "provider_slot_capacity",
		Help: "Configured capacity per provider and slot",
	}, []string{"provider", "slot"})

	if err := reg.Register(events); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			events = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(cycles); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			cycles = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(strategy); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			strategy = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(intake); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			intake = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(latency); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			latency = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(placed); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			placed = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(capacity); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			capacity = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{
		events:   events,
		cycles:   cycles,
		strategy: strategy,
		intake:   intake,
		latency:  latency,
		placed:   placed,
		capacity: capacity,
	}, nil
}

// RecordAssignments increments the decision counter for each record.
func (s *PromSink) RecordAssignments(recs []coremetrics.AssignmentRecord) error {
	for _, r := range recs {
		s.events.WithLabelValues(r.Provider, string(r.Category), strconv.FormatBool(r.Unassigned)).Inc()
	}
	return nil
}

// RecordCycle counts the solved cycle under its strategy.
func (s *PromSink) RecordCycle(stats coremetrics.CycleStats) error {
	s.cycles.WithLabelValues(stats.Strategy).Inc()
	return nil
}

// RecordSolveLatency observes the solve duration histogram.
func (s *PromSink) RecordSolveLatency(l coremetrics.SolveLatency) error {
	s.latency.WithLabelValues(l.Strategy).Observe(l.Duration.Seconds())
	return nil
}

// RecordUtilization sets the per-slot load gauges.
func (s *PromSink) RecordUtilization(uts []coremetrics.ProviderUtilization) error {
	for _, u := range uts {
		s.placed.WithLabelValues(u.Provider, u.Slot).Set(float64(u.Placed))
		s.capacity.WithLabelValues(u.Provider, u.Slot).Set(float64(u.Capacity))
	}
	return nil
}

// RecordIntake counts received requests per source.
func (s *PromSink) RecordIntake(ev coremetrics.IntakeEvent) error {
	s.intake.WithLabelValues(ev.Source).Add(float64(ev.Requests))
	return nil
}

// RecordStrategy counts strategy selection steps.
func (s *PromSink) RecordStrategy(out coremetrics.StrategyOutcome) error {
	s.strategy.WithLabelValues(out.Action).Inc()
	return nil
}
