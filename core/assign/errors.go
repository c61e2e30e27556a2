package assign

import "errors"

// ErrInvalidConfiguration reports malformed or contradictory input: negative
// capacities, unknown category references, duplicate identifiers, or a
// missing unassigned sink. It is detected before the solver runs and is
// recoverable by correcting the input.
var ErrInvalidConfiguration = errors.New("assign: invalid configuration")

// ErrSolverTimeout reports that the solver did not finish within the
// configured budget. Callers may retry with a larger budget.
var ErrSolverTimeout = errors.New("assign: solver timed out")

// ErrInternalInconsistency reports a solved model that violates its own
// constraints (non-binary values, a request assigned zero or multiple times,
// capacity overrun). It signals a defect in model construction or solver
// integration and is not retryable.
var ErrInternalInconsistency = errors.New("assign: internal inconsistency")
