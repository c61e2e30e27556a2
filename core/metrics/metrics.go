package metrics

import (
	"time"

	"github.com/careops/bookd/core/model"
)

// AssignmentRecord represents one placed request to be recorded.
type AssignmentRecord struct {
	CycleID    string
	RequestID  string
	Category   model.CategoryID
	Slot       string
	Provider   string
	Unassigned bool
	Strategy   string
	Time       time.Time
}

// Sink records assignment results for observability purposes.
type Sink interface {
	RecordAssignments(recs []AssignmentRecord) error
}

// CycleStats summarizes one solved cycle.
type CycleStats struct {
	CycleID    string
	Strategy   string
	Requests   int
	Placed     int
	Unassigned int
	Duration   time.Duration
	Time       time.Time
}

// CycleRecorder is implemented by sinks able to record cycle summaries.
type CycleRecorder interface {
	RecordCycle(stats CycleStats) error
}

// SolveLatency captures the duration of one solver run.
type SolveLatency struct {
	Strategy string
	Requests int
	Duration time.Duration
}

// SolveLatencyRecorder is implemented by sinks able to record solve latency.
type SolveLatencyRecorder interface {
	RecordSolveLatency(l SolveLatency) error
}

// ProviderUtilization is the per-slot load of one provider after a solve.
type ProviderUtilization struct {
	Provider string
	Slot     string
	Placed   int
	Capacity int
	Time     time.Time
}

// UtilizationRecorder records provider utilization snapshots.
type UtilizationRecorder interface {
	RecordUtilization(uts []ProviderUtilization) error
}

// IntakeEvent captures a batch of requests received by a connector.
type IntakeEvent struct {
	Source   string
	Requests int
	Time     time.Time
}

// IntakeRecorder records intake activity.
type IntakeRecorder interface {
	RecordIntake(ev IntakeEvent) error
}

// StrategyOutcome captures a strategy selection step of the manager.
type StrategyOutcome struct {
	CycleID string
	Action  string
	Time    time.Time
}

// StrategyRecorder records strategy attempts, failures and fallbacks.
type StrategyRecorder interface {
	RecordStrategy(out StrategyOutcome) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordAssignments([]AssignmentRecord) error     { return nil }
func (NopSink) RecordCycle(CycleStats) error                   { return nil }
func (NopSink) RecordSolveLatency(SolveLatency) error          { return nil }
func (NopSink) RecordUtilization([]ProviderUtilization) error  { return nil }
func (NopSink) RecordIntake(IntakeEvent) error                 { return nil }
func (NopSink) RecordStrategy(StrategyOutcome) error           { return nil }
