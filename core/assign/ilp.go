package assign

import (
	"context"
	"fmt"
	"time"

	"github.com/careops/bookd/core/model"
)

// DefaultSolverTimeout bounds a single simplex run unless configured otherwise.
const DefaultSolverTimeout = 2 * time.Second

// DefaultTolerance is the rounding tolerance for binary variable values.
const DefaultTolerance = 1e-6

// ILPAssigner computes optimal placements through an integer-linear model:
// it minimizes the number of requests routed to the unassigned sink subject
// to capacity and capability constraints. A solve is a pure function of its
// input; the assigner holds no per-cycle state and is safe for concurrent use.
type ILPAssigner struct {
	timeout   time.Duration
	tolerance float64
}

// NewILPAssigner returns an assigner with the given solver budget and
// rounding tolerance. Zero values select the defaults.
func NewILPAssigner(timeout time.Duration, tolerance float64) *ILPAssigner {
	if timeout <= 0 {
		timeout = DefaultSolverTimeout
	}
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &ILPAssigner{timeout: timeout, tolerance: tolerance}
}

// Name implements Assigner.
func (a *ILPAssigner) Name() string { return "ilp" }

// Assign validates the input, builds the model, solves it within the timeout
// budget and extracts the final mapping. The solver goroutine is abandoned on
// timeout; its buffered channel lets it finish and be collected.
func (a *ILPAssigner) Assign(ctx context.Context, providers []model.Provider, categories model.CategorySet, requests []model.Request) (Result, error) {
	start := time.Now()
	if err := validateInputs(providers, categories, requests); err != nil {
		return Result{}, err
	}
	res := Result{
		Strategy:    a.Name(),
		Assignments: make(map[string]string, len(requests)),
		Slots:       slotOrder(requests),
		SolvedAt:    start,
	}
	if len(requests) == 0 {
		res.Duration = time.Since(start)
		return res, nil
	}

	m := buildModel(providers, requests)

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	type outcome struct {
		sol []float64
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		sol, err := simplexSolve(m)
		ch <- outcome{sol: sol, err: err}
	}()

	select {
	case <-ctx.Done():
		return Result{}, fmt.Errorf("%w after %s: %v", ErrSolverTimeout, a.timeout, ctx.Err())
	case out := <-ch:
		if out.err != nil {
			// The sink makes every valid input feasible, so any solver
			// failure is an integration fault rather than a user error.
			return Result{}, fmt.Errorf("%w: simplex: %v", ErrInternalInconsistency, out.err)
		}
		assignments, unassigned, objective, err := extract(m, out.sol, a.tolerance)
		if err != nil {
			return Result{}, err
		}
		res.Assignments = assignments
		res.Unassigned = unassigned
		res.Objective = objective
		res.Duration = time.Since(start)
		return res, nil
	}
}

// Solve is the plain boundary of the engine: it runs one optimal solve with
// default budgets and returns the request -> provider mapping.
func Solve(ctx context.Context, providers []model.Provider, categories model.CategorySet, requests []model.Request) (map[string]string, error) {
	res, err := NewILPAssigner(0, 0).Assign(ctx, providers, categories, requests)
	if err != nil {
		return nil, err
	}
	return res.Assignments, nil
}
