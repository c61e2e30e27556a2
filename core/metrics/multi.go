package metrics

// MultiSink fans records out to multiple sinks. Optional recorder interfaces
// are forwarded only to the sinks that implement them.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink over the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordAssignments forwards to all sinks, returning the first error.
func (m *MultiSink) RecordAssignments(recs []AssignmentRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordAssignments(recs); err != nil {
			return err
		}
	}
	return nil
}

// RecordCycle forwards cycle summaries.
func (m *MultiSink) RecordCycle(stats CycleStats) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(CycleRecorder); ok {
			if err := rec.RecordCycle(stats); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordSolveLatency forwards solver latencies.
func (m *MultiSink) RecordSolveLatency(l SolveLatency) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(SolveLatencyRecorder); ok {
			if err := rec.RecordSolveLatency(l); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordUtilization forwards provider utilization snapshots.
func (m *MultiSink) RecordUtilization(uts []ProviderUtilization) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(UtilizationRecorder); ok {
			if err := rec.RecordUtilization(uts); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordIntake forwards intake events.
func (m *MultiSink) RecordIntake(ev IntakeEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(IntakeRecorder); ok {
			if err := rec.RecordIntake(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordStrategy forwards strategy outcomes.
func (m *MultiSink) RecordStrategy(out StrategyOutcome) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(StrategyRecorder); ok {
			if err := rec.RecordStrategy(out); err != nil {
				return err
			}
		}
	}
	return nil
}
