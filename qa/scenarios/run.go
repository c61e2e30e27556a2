package scenarios

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/careops/bookd/core/assign"
	"github.com/careops/bookd/core/model"
	"github.com/careops/bookd/infra/logger"
	"github.com/careops/bookd/infra/metrics"
	"github.com/careops/bookd/infra/notify"
	"github.com/careops/bookd/internal/eventbus"
)

// RunScenario assembles a manager for the scenario roster, processes the
// requests as one cycle and checks the outcome.
func RunScenario(t *testing.T, sc *Scenario) {
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}

	cats := make([]model.Category, len(sc.Categories))
	for i, id := range sc.Categories {
		cats[i] = model.Category{ID: model.CategoryID(id)}
	}
	providers := make([]model.Provider, len(sc.Providers))
	for i, p := range sc.Providers {
		providers[i] = p.ToModel()
	}

	bus := eventbus.New()
	notifier := notify.NewMockNotifier()
	mgr, err := assign.NewManager(
		providers,
		model.NewCategorySet(cats...),
		assign.NewILPAssigner(assign.DefaultSolverTimeout, assign.DefaultTolerance),
		assign.NewGreedyAssigner(),
		sink,
		bus,
		logger.NopLogger{},
	)
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	mgr.SetNotifier(notifier)
	defer func() {
		if err := mgr.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	}()

	requests := make([]model.Request, len(sc.Requests))
	for i, r := range sc.Requests {
		requests[i] = r.ToModel()
	}
	res, err := mgr.Process(context.Background(), model.Cycle{ID: sc.Name, Requests: requests})
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	if got := res.Placed(); got != sc.Expected.Placed {
		t.Errorf("scenario %s expected %d placed, got %d", sc.Name, sc.Expected.Placed, got)
	}
	if got := len(res.Unassigned); got != sc.Expected.Unassigned {
		t.Errorf("scenario %s expected %d unassigned, got %d", sc.Name, sc.Expected.Unassigned, got)
	}
	if res.Objective != sc.Expected.Objective {
		t.Errorf("scenario %s expected objective %v, got %v", sc.Name, sc.Expected.Objective, res.Objective)
	}
	for _, id := range sc.Expected.UnassignedIDs {
		if !containsID(res.Unassigned, id) {
			t.Errorf("scenario %s expected %s unassigned, got %v", sc.Name, id, res.Unassigned)
		}
	}
	if len(sc.Expected.ProviderPlaced) > 0 {
		counts := placedPerProvider(requests, res)
		for prov, want := range sc.Expected.ProviderPlaced {
			if counts[prov] != want {
				t.Errorf("scenario %s expected %d placements on %s, got %d", sc.Name, want, prov, counts[prov])
			}
		}
	}
	if got := len(notifier.Summary()); got != 1 {
		t.Errorf("scenario %s expected one cycle summary, got %d", sc.Name, got)
	}
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// placedPerProvider counts placements per provider, unassigned excluded.
func placedPerProvider(requests []model.Request, res assign.Result) map[string]int {
	unassigned := make(map[string]bool, len(res.Unassigned))
	for _, id := range res.Unassigned {
		unassigned[id] = true
	}
	counts := make(map[string]int)
	for _, r := range requests {
		if unassigned[r.ID] {
			continue
		}
		if prov := res.Assignments[r.ID]; prov != "" {
			counts[prov]++
		}
	}
	return counts
}
