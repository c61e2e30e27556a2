package assign

import (
	"context"
	"time"

	"github.com/careops/bookd/core/model"
)

// Assigner maps every request of a cycle to exactly one provider. The sink
// provider absorbs requests that cannot be placed, so a valid input always
// has a feasible placement.
type Assigner interface {
	// Assign computes a placement for the given cycle input. The context
	// bounds the solver budget; implementations must not retain the input.
	Assign(ctx context.Context, providers []model.Provider, categories model.CategorySet, requests []model.Request) (Result, error)
	// Name identifies the strategy in results, events and logs.
	Name() string
}

// Result is the outcome of one solved cycle.
type Result struct {
	CycleID     string
	Strategy    string
	Assignments map[string]string // request ID -> provider name, covers every request
	Unassigned  []string          // request IDs mapped to the sink, input order
	Objective   int               // number of unassigned requests
	Slots       []string          // distinct slot keys of the cycle
	Duration    time.Duration
	SolvedAt    time.Time
}

// Placed returns the number of requests mapped to a real provider.
func (r Result) Placed() int {
	return len(r.Assignments) - len(r.Unassigned)
}
