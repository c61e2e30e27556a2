package metrics

import "testing"

type countSink struct {
	count int
}

func (c *countSink) RecordAssignments([]AssignmentRecord) error {
	c.count++
	return nil
}

func (c *countSink) RecordCycle(CycleStats) error {
	c.count++
	return nil
}

func TestMultiSinkForwards(t *testing.T) {
	s1 := &countSink{}
	s2 := &countSink{}
	m := NewMultiSink(s1, s2)
	if err := m.RecordAssignments(nil); err != nil {
		t.Fatalf("record assignments: %v", err)
	}
	if err := m.RecordCycle(CycleStats{}); err != nil {
		t.Fatalf("record cycle: %v", err)
	}
	if s1.count != 2 || s2.count != 2 {
		t.Fatalf("records not forwarded to every sink")
	}
}

func TestMultiSinkSkipsMissingCapabilities(t *testing.T) {
	m := NewMultiSink(&countSink{})
	if err := m.RecordSolveLatency(SolveLatency{}); err != nil {
		t.Fatalf("latency: %v", err)
	}
	if err := m.RecordUtilization(nil); err != nil {
		t.Fatalf("utilization: %v", err)
	}
	if err := m.RecordIntake(IntakeEvent{}); err != nil {
		t.Fatalf("intake: %v", err)
	}
	if err := m.RecordStrategy(StrategyOutcome{}); err != nil {
		t.Fatalf("strategy: %v", err)
	}
}
