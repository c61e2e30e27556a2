package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/careops/bookd/core/metrics"
	"github.com/careops/bookd/core/usage"
)

// UsageSink aggregates assignment outcomes into the daily usage ledger and
// exposes the running totals as gauges.
type UsageSink struct {
	store         usage.Store
	dailyCapacity map[string]int
	placed        *prometheus.GaugeVec
	fillRate      *prometheus.GaugeVec
	perCycle      *prometheus.GaugeVec
}

// NewUsageSink creates a sink backed by the given store. dailyCapacity maps
// provider names to their whole-day capacity for fill-rate gauges.
func NewUsageSink(store usage.Store, dailyCapacity map[string]int, reg prometheus.Registerer) *UsageSink {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	placed := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "provider_daily_placed",
		Help: "Daily placements per provider",
	}, []string{"provider", "day"})
	fillRate := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "provider_daily_fill_rate",
		Help: "Daily share of provider capacity used",
	}, []string{"provider", "day"})
	perCycle := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "provider_daily_placed_per_cycle",
		Help: "Average placements per cycle and provider",
	}, []string{"provider", "day"})
	if err := reg.Register(placed); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			placed = are.ExistingCollector.(*prometheus.GaugeVec)
		}
	}
	if err := reg.Register(fillRate); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			fillRate = are.ExistingCollector.(*prometheus.GaugeVec)
		}
	}
	if err := reg.Register(perCycle); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			perCycle = are.ExistingCollector.(*prometheus.GaugeVec)
		}
	}
	return &UsageSink{
		store:         store,
		dailyCapacity: dailyCapacity,
		placed:        placed,
		fillRate:      fillRate,
		perCycle:      perCycle,
	}
}

// RecordAssignments tracks the requests routed to the sink so the unassigned
// backlog shows up in the ledger under the sink's name.
func (s *UsageSink) RecordAssignments(recs []coremetrics.AssignmentRecord) error {
	for _, r := range recs {
		if !r.Unassigned {
			continue
		}
		rec := usage.Record{Provider: r.Provider, Date: r.Time, Placed: 1}
		if err := s.store.Add(rec); err != nil {
			return err
		}
		s.refresh(r.Provider, rec)
	}
	return nil
}

// RecordUtilization folds one cycle's placements into the daily ledger.
func (s *UsageSink) RecordUtilization(uts []coremetrics.ProviderUtilization) error {
	perProvider := make(map[string]*usage.Record)
	for _, u := range uts {
		rec := perProvider[u.Provider]
		if rec == nil {
			rec = &usage.Record{Provider: u.Provider, Date: u.Time, Cycles: 1}
			perProvider[u.Provider] = rec
		}
		rec.Placed += u.Placed
	}
	for _, rec := range perProvider {
		if err := s.store.Add(*rec); err != nil {
			return err
		}
		s.refresh(rec.Provider, *rec)
	}
	return nil
}

// refresh re-reads the aggregated day and updates the gauges.
func (s *UsageSink) refresh(provider string, rec usage.Record) {
	day := usage.Day(rec.Date)
	records, _ := s.store.Query(provider, day, day)
	if len(records) == 0 {
		return
	}
	rr := records[0]
	dayStr := day.Format("2006-01-02")
	s.placed.WithLabelValues(provider, dayStr).Set(float64(rr.Placed))
	s.fillRate.WithLabelValues(provider, dayStr).Set(rr.FillRate(s.dailyCapacity[provider]))
	s.perCycle.WithLabelValues(provider, dayStr).Set(rr.PerCycle())
}
