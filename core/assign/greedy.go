package assign

import (
	"context"
	"time"

	"github.com/careops/bookd/core/model"
)

// GreedyAssigner places requests first-fit: each request takes the first
// provider in declaration order that supports its category and still has
// capacity in the request's slot, falling back to the sink otherwise. The
// result honors every constraint but may leave more requests unassigned than
// the optimal strategy; it exists as the cheap deterministic fallback.
type GreedyAssigner struct{}

// NewGreedyAssigner returns a greedy first-fit assigner.
func NewGreedyAssigner() *GreedyAssigner { return &GreedyAssigner{} }

// Name implements Assigner.
func (g *GreedyAssigner) Name() string { return "greedy" }

// Assign implements Assigner. It never times out and validates input the same
// way the optimal strategy does.
func (g *GreedyAssigner) Assign(_ context.Context, providers []model.Provider, categories model.CategorySet, requests []model.Request) (Result, error) {
	start := time.Now()
	if err := validateInputs(providers, categories, requests); err != nil {
		return Result{}, err
	}
	res := Result{
		Strategy:    g.Name(),
		Assignments: make(map[string]string, len(requests)),
		Slots:       slotOrder(requests),
		SolvedAt:    start,
	}

	support := supportIndex(providers)
	sink := 0
	for p, prov := range providers {
		if prov.Sink {
			sink = p
			break
		}
	}

	remaining := make([]map[string]int, len(providers))
	for _, req := range requests {
		placed := false
		for p, prov := range providers {
			if prov.Sink {
				continue
			}
			if _, ok := support[p][req.Category]; !ok {
				continue
			}
			if remaining[p] == nil {
				remaining[p] = make(map[string]int)
			}
			if _, ok := remaining[p][req.Slot]; !ok {
				remaining[p][req.Slot] = prov.Capacity
			}
			if remaining[p][req.Slot] <= 0 {
				continue
			}
			remaining[p][req.Slot]--
			res.Assignments[req.ID] = prov.Name
			placed = true
			break
		}
		if !placed {
			res.Assignments[req.ID] = providers[sink].Name
			res.Unassigned = append(res.Unassigned, req.ID)
			res.Objective++
		}
	}
	res.Duration = time.Since(start)
	return res, nil
}
