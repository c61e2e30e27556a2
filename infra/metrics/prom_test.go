package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/careops/bookd/core/metrics"
)

func TestPromSink_RecordAssignments(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	now := time.Now()
	recs := []coremetrics.AssignmentRecord{
		{CycleID: "c1", RequestID: "r1", Category: "A", Slot: "T1", Provider: "clinic-1", Strategy: "ilp", Time: now},
		{CycleID: "c1", RequestID: "r2", Category: "A", Slot: "T1", Provider: "unassigned", Unassigned: true, Strategy: "ilp", Time: now},
	}
	if err := sink.RecordAssignments(recs); err != nil {
		t.Fatalf("record error: %v", err)
	}
	if err := sink.RecordSolveLatency(coremetrics.SolveLatency{Strategy: "ilp", Requests: 2, Duration: 150 * time.Millisecond}); err != nil {
		t.Fatalf("latency error: %v", err)
	}

	expected := `
# HELP assignment_events_total Total number of assignment decisions
# TYPE assignment_events_total counter
assignment_events_total{category="A",provider="clinic-1",unassigned="false"} 1
assignment_events_total{category="A",provider="unassigned",unassigned="true"} 1
`
	if err := testutil.CollectAndCompare(sink.events, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}

	if c := testutil.CollectAndCount(sink.latency); c == 0 {
		t.Errorf("latency not recorded")
	}
}

func TestPromSink_Utilization(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	uts := []coremetrics.ProviderUtilization{
		{Provider: "clinic-1", Slot: "T1", Placed: 1, Capacity: 2},
		{Provider: "clinic-1", Slot: "T2", Placed: 0, Capacity: 2},
	}
	if err := sink.RecordUtilization(uts); err != nil {
		t.Fatalf("utilization error: %v", err)
	}
	expected := `
# HELP provider_slot_placed Placements per provider and slot in the latest cycle
# TYPE provider_slot_placed gauge
provider_slot_placed{provider="clinic-1",slot="T1"} 1
provider_slot_placed{provider="clinic-1",slot="T2"} 0
`
	if err := testutil.CollectAndCompare(sink.placed, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected gauge: %v", err)
	}
}

func TestPromSink_StrategyAndIntake(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	if err := sink.RecordStrategy(coremetrics.StrategyOutcome{CycleID: "c1", Action: "ilp_attempt"}); err != nil {
		t.Fatalf("strategy error: %v", err)
	}
	if err := sink.RecordIntake(coremetrics.IntakeEvent{Source: "http", Requests: 3}); err != nil {
		t.Fatalf("intake error: %v", err)
	}
	if v := testutil.ToFloat64(sink.strategy.WithLabelValues("ilp_attempt")); v != 1 {
		t.Errorf("strategy counter = %v", v)
	}
	if v := testutil.ToFloat64(sink.intake.WithLabelValues("http")); v != 3 {
		t.Errorf("intake counter = %v", v)
	}
}

func TestPromSink_ReregisterSameRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("second registration must reuse collectors: %v", err)
	}
}
