package assign

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/careops/bookd/core/assign/logging"
	"github.com/careops/bookd/core/events"
	"github.com/careops/bookd/core/logger"
	"github.com/careops/bookd/core/metrics"
	"github.com/careops/bookd/core/model"
	"github.com/careops/bookd/core/monitoring"
	"github.com/careops/bookd/core/notify"
	"github.com/careops/bookd/core/providerstatus"
	"github.com/careops/bookd/internal/eventbus"
)

// Manager orchestrates the assignment pipeline: it runs the configured
// strategy for each cycle, falls back when the solver times out, and fans the
// outcome out to metrics, logs, status, and downstream notifications.
type Manager struct {
	providers  []model.Provider
	categories model.CategorySet
	assigner   Assigner
	fallback   Assigner
	logger     logger.Logger
	metrics    metrics.Sink
	bus        eventbus.EventBus
	monitor    monitoring.Monitor

	mu          sync.Mutex
	store       logging.LogStore
	statusStore providerstatus.Store
	notifier    notify.Notifier
	last        *Result
}

// NewManager creates a new manager. fallback may be nil to disable strategy
// fallback; sink and bus may be nil when observability is not wired.
func NewManager(providers []model.Provider, categories model.CategorySet, assigner, fallback Assigner, sink metrics.Sink, bus eventbus.EventBus, log logger.Logger) (*Manager, error) {
	if assigner == nil || log == nil {
		return nil, fmt.Errorf("assign: nil parameter provided to NewManager")
	}
	if err := validateInputs(providers, categories, nil); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Manager{
		providers:  providers,
		categories: categories,
		assigner:   assigner,
		fallback:   fallback,
		logger:     log,
		metrics:    sink,
		bus:        bus,
		monitor:    monitoring.NopMonitor{},
	}, nil
}

// SetLogStore configures the store used to persist cycle records.
func (m *Manager) SetLogStore(store logging.LogStore) {
	m.mu.Lock()
	m.store = store
	m.mu.Unlock()
}

// SetStatusStore configures the store used to expose provider status. Every
// configured provider is seeded so listings include idle ones.
func (m *Manager) SetStatusStore(store providerstatus.Store) {
	m.mu.Lock()
	m.statusStore = store
	m.mu.Unlock()
	if store == nil {
		return
	}
	for _, p := range m.providers {
		store.Set(providerstatus.Status{
			ProviderName:  p.Name,
			Categories:    p.Categories,
			Capacity:      p.Capacity,
			Sink:          p.Sink,
			CurrentStatus: "idle",
		})
	}
}

// SetNotifier configures the downstream notifier.
func (m *Manager) SetNotifier(n notify.Notifier) {
	m.mu.Lock()
	m.notifier = n
	m.mu.Unlock()
}

// SetMonitor configures the error monitor.
func (m *Manager) SetMonitor(mon monitoring.Monitor) {
	if mon == nil {
		return
	}
	m.mu.Lock()
	m.monitor = mon
	m.mu.Unlock()
}

// Process assigns one cycle and distributes the outcome. A cycle without an
// identifier receives a fresh one.
func (m *Manager) Process(ctx context.Context, c model.Cycle) (Result, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.ReceivedAt.IsZero() {
		c.ReceivedAt = time.Now()
	}
	m.publish(events.CycleReceivedEvent{
		CycleID:    c.ID,
		Requests:   len(c.Requests),
		Slots:      c.Slots(),
		ReceivedAt: c.ReceivedAt,
	})
	m.logger.Infof("assigning cycle %s: %d requests", c.ID, len(c.Requests))

	res, err := m.solve(ctx, c)
	if err != nil {
		if errors.Is(err, ErrInternalInconsistency) {
			m.monitor.CaptureException(err, map[string]string{"cycle_id": c.ID})
		}
		m.logger.Errorf("cycle %s failed: %v", c.ID, err)
		m.appendLog(ctx, c, Result{Strategy: m.assigner.Name(), Slots: c.Slots()}, err)
		return Result{}, err
	}
	res.CycleID = c.ID

	m.publishResult(c, res)
	m.recordMetrics(c, res)
	m.appendLog(ctx, c, res, nil)
	m.recordStatus(c, res)
	m.notifyResult(c, res)

	m.mu.Lock()
	last := res
	m.last = &last
	m.mu.Unlock()
	return res, nil
}

// solve runs the primary strategy and falls back on solver timeout.
func (m *Manager) solve(ctx context.Context, c model.Cycle) (Result, error) {
	m.publish(events.StrategyEvent{CycleID: c.ID, Action: m.assigner.Name() + "_attempt"})
	m.logger.Debugf("trying %s assignment for cycle %s", m.assigner.Name(), c.ID)
	res, err := m.assigner.Assign(ctx, m.providers, m.categories, c.Requests)
	if err == nil {
		return res, nil
	}
	m.publish(events.StrategyEvent{CycleID: c.ID, Action: m.assigner.Name() + "_failure", Err: err})
	if errors.Is(err, ErrSolverTimeout) && m.fallback != nil {
		m.logger.Warnf("%s assignment failed, falling back to %s: %v", m.assigner.Name(), m.fallback.Name(), err)
		m.publish(events.StrategyEvent{CycleID: c.ID, Action: m.fallback.Name() + "_fallback"})
		return m.fallback.Assign(ctx, m.providers, m.categories, c.Requests)
	}
	return Result{}, err
}

// Run processes incoming cycles until the context is canceled.
func (m *Manager) Run(ctx context.Context, cycles <-chan model.Cycle) {
	for {
		select {
		case c := <-cycles:
			if _, err := m.Process(ctx, c); err != nil {
				m.logger.Errorf("cycle processing error: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// LastResult returns the most recent successful result, if any.
func (m *Manager) LastResult() (Result, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last == nil {
		return Result{}, false
	}
	return *m.last, true
}

// Close releases resources held by the manager.
func (m *Manager) Close() error {
	if m.bus != nil {
		m.bus.Close()
	}
	m.mu.Lock()
	store, notifier := m.store, m.notifier
	m.mu.Unlock()
	if store != nil {
		_ = store.Close()
	}
	if notifier != nil {
		if err := notifier.Close(); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) publish(e eventbus.Event) {
	if m.bus != nil {
		m.bus.Publish(e)
	}
}

// publishResult emits one placement event per request plus a cycle summary.
func (m *Manager) publishResult(c model.Cycle, res Result) {
	if m.bus == nil {
		return
	}
	unassigned := unassignedSet(res)
	for _, r := range c.Requests {
		m.bus.Publish(events.PlacementEvent{
			CycleID:    res.CycleID,
			RequestID:  r.ID,
			Category:   r.Category,
			Slot:       r.Slot,
			Provider:   res.Assignments[r.ID],
			Unassigned: unassigned[r.ID],
		})
	}
	m.bus.Publish(events.CycleSolvedEvent{
		CycleID:    res.CycleID,
		Strategy:   res.Strategy,
		Requests:   len(c.Requests),
		Placed:     res.Placed(),
		Unassigned: len(res.Unassigned),
		Duration:   res.Duration,
	})
}

// recordMetrics persists assignment metrics if a sink is configured.
func (m *Manager) recordMetrics(c model.Cycle, res Result) {
	unassigned := unassignedSet(res)
	recs := make([]metrics.AssignmentRecord, 0, len(c.Requests))
	for _, r := range c.Requests {
		recs = append(recs, metrics.AssignmentRecord{
			CycleID:    res.CycleID,
			RequestID:  r.ID,
			Category:   r.Category,
			Slot:       r.Slot,
			Provider:   res.Assignments[r.ID],
			Unassigned: unassigned[r.ID],
			Strategy:   res.Strategy,
			Time:       res.SolvedAt,
		})
	}
	if err := m.metrics.RecordAssignments(recs); err != nil {
		m.logger.Errorf("metrics error: %v", err)
	}
	if cr, ok := m.metrics.(metrics.CycleRecorder); ok {
		stats := metrics.CycleStats{
			CycleID:    res.CycleID,
			Strategy:   res.Strategy,
			Requests:   len(c.Requests),
			Placed:     res.Placed(),
			Unassigned: len(res.Unassigned),
			Duration:   res.Duration,
			Time:       res.SolvedAt,
		}
		if err := cr.RecordCycle(stats); err != nil {
			m.logger.Errorf("cycle metrics error: %v", err)
		}
	}
	if lr, ok := m.metrics.(metrics.SolveLatencyRecorder); ok {
		l := metrics.SolveLatency{Strategy: res.Strategy, Requests: len(c.Requests), Duration: res.Duration}
		if err := lr.RecordSolveLatency(l); err != nil {
			m.logger.Errorf("latency metrics error: %v", err)
		}
	}
	if ur, ok := m.metrics.(metrics.UtilizationRecorder); ok {
		if err := ur.RecordUtilization(m.utilization(c, res)); err != nil {
			m.logger.Errorf("utilization metrics error: %v", err)
		}
	}
}

// utilization derives per-(provider, slot) load rows for the solved cycle.
// Zero rows are included so gauges reset when a provider sits a cycle out.
func (m *Manager) utilization(c model.Cycle, res Result) []metrics.ProviderUtilization {
	counts := placementCounts(c, res)
	var uts []metrics.ProviderUtilization
	for _, p := range m.providers {
		if p.Sink {
			continue
		}
		for _, slot := range res.Slots {
			uts = append(uts, metrics.ProviderUtilization{
				Provider: p.Name,
				Slot:     slot,
				Placed:   counts[p.Name][slot],
				Capacity: p.Capacity,
				Time:     res.SolvedAt,
			})
		}
	}
	return uts
}

// appendLog persists the cycle record if a store is configured.
func (m *Manager) appendLog(ctx context.Context, c model.Cycle, res Result, solveErr error) {
	m.mu.Lock()
	store := m.store
	m.mu.Unlock()
	if store == nil {
		return
	}
	rec := logging.CycleRecord{
		Timestamp:   time.Now(),
		CycleID:     c.ID,
		Strategy:    res.Strategy,
		Slots:       res.Slots,
		Requests:    len(c.Requests),
		Assignments: res.Assignments,
		Unassigned:  res.Unassigned,
		Objective:   res.Objective,
		DurationMS:  res.Duration.Milliseconds(),
	}
	if solveErr != nil {
		rec.Error = solveErr.Error()
	}
	if err := store.Append(ctx, rec); err != nil {
		m.logger.Errorf("log store error: %v", err)
	}
}

// recordStatus updates the status store for every non-sink provider.
func (m *Manager) recordStatus(c model.Cycle, res Result) {
	m.mu.Lock()
	store := m.statusStore
	m.mu.Unlock()
	if store == nil {
		return
	}
	bySlot := placementsBySlot(c, res)
	for _, p := range m.providers {
		if p.Sink {
			continue
		}
		placed := 0
		for _, ids := range bySlot[p.Name] {
			placed += len(ids)
		}
		var slots map[string]int
		if placed > 0 {
			slots = make(map[string]int, len(bySlot[p.Name]))
			for slot, ids := range bySlot[p.Name] {
				slots[slot] = len(ids)
			}
		}
		store.RecordAssignment(p.Name, providerstatus.LastAssignment{
			CycleID:   res.CycleID,
			Strategy:  res.Strategy,
			Placed:    placed,
			BySlot:    slots,
			Timestamp: res.SolvedAt,
		})
	}
}

// notifyResult publishes per-provider notices plus a cycle summary. Publish
// failures are logged, never fatal to the cycle.
func (m *Manager) notifyResult(c model.Cycle, res Result) {
	m.mu.Lock()
	notifier := m.notifier
	m.mu.Unlock()
	if notifier == nil {
		return
	}
	bySlot := placementsBySlot(c, res)
	for _, p := range m.providers {
		if p.Sink {
			continue
		}
		placed := 0
		for _, ids := range bySlot[p.Name] {
			placed += len(ids)
		}
		notice := notify.ProviderNotice{
			CycleID:  res.CycleID,
			Provider: p.Name,
			Placed:   placed,
			BySlot:   bySlot[p.Name],
			SolvedAt: res.SolvedAt,
		}
		if err := notifier.NotifyProvider(notice); err != nil {
			m.logger.Errorf("notify %s error: %v", p.Name, err)
		}
	}
	summary := notify.CycleSummary{
		CycleID:    res.CycleID,
		Strategy:   res.Strategy,
		Requests:   len(c.Requests),
		Placed:     res.Placed(),
		Unassigned: res.Unassigned,
		SolvedAt:   res.SolvedAt,
	}
	if err := notifier.NotifyCycle(summary); err != nil {
		m.logger.Errorf("notify cycle error: %v", err)
	}
}

func unassignedSet(res Result) map[string]bool {
	set := make(map[string]bool, len(res.Unassigned))
	for _, id := range res.Unassigned {
		set[id] = true
	}
	return set
}

// placementCounts tallies placements per provider and slot, sink excluded.
func placementCounts(c model.Cycle, res Result) map[string]map[string]int {
	unassigned := unassignedSet(res)
	counts := make(map[string]map[string]int)
	for _, r := range c.Requests {
		if unassigned[r.ID] {
			continue
		}
		prov := res.Assignments[r.ID]
		if prov == "" {
			continue
		}
		if counts[prov] == nil {
			counts[prov] = make(map[string]int)
		}
		counts[prov][r.Slot]++
	}
	return counts
}

// placementsBySlot groups request IDs per provider and slot in input order.
func placementsBySlot(c model.Cycle, res Result) map[string]map[string][]string {
	unassigned := unassignedSet(res)
	out := make(map[string]map[string][]string)
	for _, r := range c.Requests {
		if unassigned[r.ID] {
			continue
		}
		prov := res.Assignments[r.ID]
		if prov == "" {
			continue
		}
		if out[prov] == nil {
			out[prov] = make(map[string][]string)
		}
		out[prov][r.Slot] = append(out[prov][r.Slot], r.ID)
	}
	return out
}
