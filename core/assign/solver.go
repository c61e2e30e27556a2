package assign

import (
	"fmt"

	"gonum.org/v1/gonum/optimize/convex/lp"
)

// simplexTol is the pivot tolerance passed to the simplex solver.
const simplexTol = 1e-7

// solveSimplex solves the model through gonum's simplex after conversion to
// standard form. The constraint matrix is totally unimodular and the bounds
// are integral, so every basic optimum is integral and the LP relaxation
// solves the integer program exactly.
func solveSimplex(m *ilpModel) ([]float64, error) {
	cStd, aStd, bStd := lp.Convert(m.c, m.g, m.h, m.a, m.b)
	_, sol, err := lp.Simplex(cStd, aStd, bStd, simplexTol, nil)
	if err != nil {
		return nil, err
	}
	if len(sol) < len(m.c) {
		return nil, fmt.Errorf("standard form solution has %d values, want at least %d", len(sol), len(m.c))
	}
	// The first block of the standard form solution is the positive part of
	// the original variables; the -x <= 0 rows pin the negative part to zero.
	return sol[:len(m.c)], nil
}

// simplexSolve points to the function used to solve the model. Tests override
// it to simulate solver failures and slow solves.
var simplexSolve = solveSimplex
