package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/careops/bookd/core/metrics"
	"github.com/careops/bookd/core/usage"
)

func TestUsageSink_Utilization(t *testing.T) {
	reg := prometheus.NewRegistry()
	store := usage.NewMemoryStore()
	sink := NewUsageSink(store, map[string]int{"clinic-1": 6}, reg)

	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	uts := []coremetrics.ProviderUtilization{
		{Provider: "clinic-1", Slot: "T1", Placed: 2, Capacity: 2, Time: now},
		{Provider: "clinic-1", Slot: "T2", Placed: 1, Capacity: 2, Time: now},
	}
	if err := sink.RecordUtilization(uts); err != nil {
		t.Fatalf("record: %v", err)
	}

	recs, err := store.Query("clinic-1", now, now)
	if err != nil || len(recs) != 1 {
		t.Fatalf("query: %v len=%d", err, len(recs))
	}
	if recs[0].Placed != 3 || recs[0].Cycles != 1 {
		t.Fatalf("unexpected record %#v", recs[0])
	}

	expected := `
# HELP provider_daily_placed Daily placements per provider
# TYPE provider_daily_placed gauge
provider_daily_placed{day="2026-03-02",provider="clinic-1"} 3
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "provider_daily_placed"); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
	if v := testutil.ToFloat64(sink.fillRate.WithLabelValues("clinic-1", "2026-03-02")); v != 0.5 {
		t.Errorf("fill rate = %v", v)
	}
}

func TestUsageSink_AccumulatesCycles(t *testing.T) {
	reg := prometheus.NewRegistry()
	store := usage.NewMemoryStore()
	sink := NewUsageSink(store, nil, reg)

	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	uts := []coremetrics.ProviderUtilization{{Provider: "clinic-1", Slot: "T1", Placed: 1, Capacity: 1, Time: now}}
	for i := 0; i < 2; i++ {
		if err := sink.RecordUtilization(uts); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	recs, _ := store.Query("clinic-1", now, now)
	if len(recs) != 1 || recs[0].Cycles != 2 || recs[0].Placed != 2 {
		t.Fatalf("unexpected record %#v", recs)
	}
	if v := testutil.ToFloat64(sink.perCycle.WithLabelValues("clinic-1", "2026-03-02")); v != 1 {
		t.Errorf("per cycle = %v", v)
	}
}

func TestUsageSink_UnassignedLedger(t *testing.T) {
	reg := prometheus.NewRegistry()
	store := usage.NewMemoryStore()
	sink := NewUsageSink(store, nil, reg)

	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	recs := []coremetrics.AssignmentRecord{
		{CycleID: "c1", RequestID: "r1", Provider: "clinic-1", Time: now},
		{CycleID: "c1", RequestID: "r2", Provider: "unassigned", Unassigned: true, Time: now},
	}
	if err := sink.RecordAssignments(recs); err != nil {
		t.Fatalf("record: %v", err)
	}
	got, _ := store.Query("unassigned", now, now)
	if len(got) != 1 || got[0].Placed != 1 {
		t.Fatalf("sink ledger wrong: %#v", got)
	}
	if placed, _ := store.Query("clinic-1", now, now); len(placed) != 0 {
		t.Fatalf("placed requests must not be double counted: %#v", placed)
	}
}
