package assign

import (
	"context"
	"errors"
	"testing"

	"github.com/careops/bookd/core/model"
)

func TestGreedyAssigner_FirstFitOrder(t *testing.T) {
	providers := []model.Provider{
		{Name: "clinic-1", Categories: []model.CategoryID{"A"}, Capacity: 1},
		{Name: "clinic-2", Categories: []model.CategoryID{"A"}, Capacity: 1},
		model.NewSink("unassigned"),
	}
	requests := []model.Request{
		{ID: "r1", Category: "A", Slot: "T1"},
		{ID: "r2", Category: "A", Slot: "T1"},
	}
	res, err := NewGreedyAssigner().Assign(context.Background(), providers, testCategories(), requests)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if res.Assignments["r1"] != "clinic-1" || res.Assignments["r2"] != "clinic-2" {
		t.Fatalf("expected declaration order fill, got %v", res.Assignments)
	}
	if res.Strategy != "greedy" {
		t.Fatalf("unexpected strategy %q", res.Strategy)
	}
}

func TestGreedyAssigner_SinkWhenFull(t *testing.T) {
	providers := []model.Provider{
		{Name: "clinic-1", Categories: []model.CategoryID{"A"}, Capacity: 1},
		model.NewSink("unassigned"),
	}
	requests := []model.Request{
		{ID: "r1", Category: "A", Slot: "T1"},
		{ID: "r2", Category: "A", Slot: "T1"},
	}
	res, err := NewGreedyAssigner().Assign(context.Background(), providers, testCategories(), requests)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if res.Assignments["r2"] != "unassigned" || res.Objective != 1 {
		t.Fatalf("expected overflow to sink, got %v", res.Assignments)
	}
}

func TestGreedyAssigner_ApproximatesOnly(t *testing.T) {
	// The first-fit order burns clinic-1 on r1 and strands the pediatrics
	// request. The optimal strategy places both; greedy accepts the loss.
	providers := []model.Provider{
		{Name: "clinic-1", Categories: []model.CategoryID{"A", "B"}, Capacity: 1},
		{Name: "clinic-2", Categories: []model.CategoryID{"A"}, Capacity: 1},
		model.NewSink("unassigned"),
	}
	requests := []model.Request{
		{ID: "r1", Category: "A", Slot: "T1"},
		{ID: "r2", Category: "B", Slot: "T1"},
	}
	res, err := NewGreedyAssigner().Assign(context.Background(), providers, testCategories(), requests)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if res.Objective != 1 || res.Assignments["r2"] != "unassigned" {
		t.Fatalf("expected first-fit to strand r2, got %v", res.Assignments)
	}
}

func TestGreedyAssigner_SlotsIndependent(t *testing.T) {
	providers := []model.Provider{
		{Name: "clinic-1", Categories: []model.CategoryID{"A"}, Capacity: 1},
		model.NewSink("unassigned"),
	}
	requests := []model.Request{
		{ID: "r1", Category: "A", Slot: "T1"},
		{ID: "r2", Category: "A", Slot: "T2"},
	}
	res, err := NewGreedyAssigner().Assign(context.Background(), providers, testCategories(), requests)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if res.Objective != 0 {
		t.Fatalf("capacity must be per slot, got %v", res.Assignments)
	}
}

func TestGreedyAssigner_ValidatesInput(t *testing.T) {
	requests := []model.Request{{ID: "r1", Category: "Z", Slot: "T1"}}
	_, err := NewGreedyAssigner().Assign(context.Background(), testProviders(), testCategories(), requests)
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
}
