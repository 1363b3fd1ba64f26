package milp

import "context"

// Status is the outcome reported by a solver backend for one Problem.
// Anything other than StatusOptimal is treated as a hard failure by the
// transformer layer. No approximate bound is ever substituted.
type Status string

const (
	// StatusOptimal means the backend proved optimality of the reported
	// value. This is the only status under which a value is usable.
	StatusOptimal Status = "optimal"

	// StatusInfeasible means the problem has no feasible point.
	StatusInfeasible Status = "infeasible"

	// StatusUnbounded means the objective is unbounded in the optimized
	// direction.
	StatusUnbounded Status = "unbounded"

	// StatusTimeout means the backend gave up before proving optimality.
	StatusTimeout Status = "timeout"

	// StatusError means a solver-level failure distinct from the model's
	// own feasibility.
	StatusError Status = "error"
)

// Result is the backend's answer for one solve. Value and Point are only
// meaningful when Status is StatusOptimal. Message carries backend detail
// for non-optimal statuses.
type Result struct {
	Status  Status
	Value   float64
	Point   map[string]float64
	Message string
}

// Solver is the external-solver capability. Implementations must be safe
// for sequential reuse across solves; the engine never issues concurrent
// solves.
type Solver interface {
	// Solve runs one problem to proven optimality or reports why it could
	// not. Implementations return an error only for failures outside the
	// solve itself (e.g. an invalid problem); optimization outcomes,
	// including infeasibility, are expressed through Result.Status.
	Solve(ctx context.Context, p Problem) (Result, error)
}
