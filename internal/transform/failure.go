package transform

import (
	"fmt"

	"github.com/contractnet/evolver/pkg/milp"
)

// Kind names the transformer that failed.
type Kind string

const (
	KindPost Kind = "post"
	KindPre  Kind = "pre"
)

// FailureKind is the error taxonomy for transformer failures. All four
// kinds are fatal and unrecoverable: they propagate to the top of the run
// and replace the would-be success result.
type FailureKind string

const (
	// InfeasibleModel: the MILP has no feasible point. The deviation
	// scenario is not physically realizable under the current models.
	InfeasibleModel FailureKind = "InfeasibleModel"

	// UnboundedObjective: the objective is unbounded, which signals a
	// missing or incorrect constraint in a component model.
	UnboundedObjective FailureKind = "UnboundedObjective"

	// SolverTimeout: the backend gave up before proving optimality.
	SolverTimeout FailureKind = "SolverTimeout"

	// SolverError: a solver-level failure distinct from the model's own
	// feasibility.
	SolverError FailureKind = "SolverError"

	// NonOptimalStatus: catch-all for any status not equal to
	// proven-optimal.
	NonOptimalStatus FailureKind = "NonOptimalStatus"
)

// KindForStatus maps a solver status to the failure taxonomy.
func KindForStatus(s milp.Status) FailureKind {
	switch s {
	case milp.StatusInfeasible:
		return InfeasibleModel
	case milp.StatusUnbounded:
		return UnboundedObjective
	case milp.StatusTimeout:
		return SolverTimeout
	case milp.StatusError:
		return SolverError
	default:
		return NonOptimalStatus
	}
}

// EdgeContext identifies the directed edge a transformer was invoked for.
type EdgeContext struct {
	Producer  string
	Consumer  string
	Variables []string
}

func (e EdgeContext) String() string {
	return fmt.Sprintf("%s → %s", e.Producer, e.Consumer)
}

// Failure is the structured error raised on the first non-optimal solve.
// It carries everything the failure report needs: the component, the
// transformer kind, the optimized variable and direction, the solver
// status, the complete problem, the edge context, and the iteration index.
type Failure struct {
	Component string
	Kind      Kind
	Variable  string
	Direction milp.Direction
	Status    milp.Status
	Message   string
	Problem   milp.Problem
	Edge      EdgeContext
	Iteration int
}

// FailureKind classifies the failure per the error taxonomy.
func (f *Failure) FailureKind() FailureKind {
	return KindForStatus(f.Status)
}

func (f *Failure) Error() string {
	msg := fmt.Sprintf("MILP optimization failed in %s.%s(): variable %s (%s), status %s, edge %s, iteration %d",
		f.Component, f.Kind, f.Variable, f.Direction, f.Status, f.Edge, f.Iteration)
	if f.Message != "" {
		msg += ": " + f.Message
	}
	return msg
}
