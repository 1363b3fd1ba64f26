package transform

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/contractnet/evolver/pkg/contract"
	"github.com/contractnet/evolver/pkg/milp"
	"github.com/contractnet/evolver/pkg/region"
)

// solverFunc adapts a function to milp.Solver for scripted test backends.
type solverFunc func(ctx context.Context, p milp.Problem) (milp.Result, error)

func (f solverFunc) Solve(ctx context.Context, p milp.Problem) (milp.Result, error) {
	return f(ctx, p)
}

// intervalSolver answers every solve with a fixed interval: lo for
// minimize, hi for maximize.
func intervalSolver(lo, hi float64) milp.Solver {
	return solverFunc(func(_ context.Context, p milp.Problem) (milp.Result, error) {
		v := lo
		if p.Objective.Direction == milp.Maximize {
			v = hi
		}
		return milp.Result{Status: milp.StatusOptimal, Value: v}, nil
	})
}

func testModel() Model {
	return Model{
		Component: "Pump",
		Inputs:    []string{"inflow"},
		Outputs:   []string{"outflow"},
		Vars: []milp.Var{
			milp.Bounded("inflow", 0, 100),
			milp.Bounded("outflow", 0, 100),
		},
		Constraints: []milp.Constraint{
			milp.NewConstraint("gain", milp.Equal, 0,
				milp.Term{Coef: 1, Var: "outflow"}, milp.Term{Coef: -2, Var: "inflow"}),
		},
	}
}

func testContract(t *testing.T) contract.Contract {
	t.Helper()
	return contract.New(
		region.New(region.MustBox(map[string]region.Interval{"inflow": {Lo: 0, Hi: 10}})),
		region.New(
			region.MustBox(map[string]region.Interval{"outflow": {Lo: 0, Hi: 20}}),
			region.MustBox(map[string]region.Interval{"outflow": {Lo: 15, Hi: 30}}),
		),
	)
}

func TestPostDedupsRegeneratedBoxes(t *testing.T) {
	// Two guarantee boxes drive two solves per direction, but the scripted
	// backend answers identically, so the result region must collapse to
	// one box.
	r, err := Post(context.Background(), intervalSolver(1, 9), testModel(), testContract(t),
		[]string{"outflow"}, EdgeContext{Producer: "Pump", Consumer: "Tank"}, 0)
	if err != nil {
		t.Fatalf("Post() failed: %v", err)
	}
	want := region.New(region.MustBox(map[string]region.Interval{"outflow": {Lo: 1, Hi: 9}}))
	if !r.Equal(want) {
		t.Errorf("Post() = %v, want %v", r, want)
	}
}

func TestPostSkipsUndeclaredTargets(t *testing.T) {
	r, err := Post(context.Background(), intervalSolver(1, 9), testModel(), testContract(t),
		[]string{"pressure"}, EdgeContext{}, 0)
	if err != nil {
		t.Fatalf("Post() failed: %v", err)
	}
	if !r.IsEmpty() {
		t.Errorf("Post() = %v for a target the model does not declare, want empty", r)
	}
}

func TestPreEmptyAssumption(t *testing.T) {
	c := contract.New(region.Empty(), testContract(t).Guarantee)
	r, err := Pre(context.Background(), intervalSolver(1, 9), testModel(), c, []string{"inflow"}, EdgeContext{}, 0)
	if err != nil {
		t.Fatalf("Pre() failed: %v", err)
	}
	if !r.IsEmpty() {
		t.Errorf("Pre() = %v on an empty assumption, want empty", r)
	}
}

func TestFailFastOnNonOptimal(t *testing.T) {
	tests := []struct {
		name     string
		status   milp.Status
		wantKind FailureKind
	}{
		{name: "Test case 1: Infeasible", status: milp.StatusInfeasible, wantKind: InfeasibleModel},
		{name: "Test case 2: Unbounded", status: milp.StatusUnbounded, wantKind: UnboundedObjective},
		{name: "Test case 3: Timeout", status: milp.StatusTimeout, wantKind: SolverTimeout},
		{name: "Test case 4: Error", status: milp.StatusError, wantKind: SolverError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := solverFunc(func(_ context.Context, p milp.Problem) (milp.Result, error) {
				return milp.Result{Status: tt.status, Message: "scripted"}, nil
			})
			edge := EdgeContext{Producer: "Pump", Consumer: "Tank", Variables: []string{"outflow"}}

			_, err := Post(context.Background(), backend, testModel(), testContract(t), []string{"outflow"}, edge, 4)
			if err == nil {
				t.Fatal("Post() succeeded with a non-optimal backend")
			}

			var failure *Failure
			if !errors.As(err, &failure) {
				t.Fatalf("Post() error type = %T, want *Failure", err)
			}
			if failure.Component != "Pump" || failure.Kind != KindPost {
				t.Errorf("failure identity = %s.%s, want Pump.post", failure.Component, failure.Kind)
			}
			if failure.Variable != "outflow" {
				t.Errorf("failure variable = %s, want outflow", failure.Variable)
			}
			if failure.Status != tt.status || failure.FailureKind() != tt.wantKind {
				t.Errorf("failure status = %s kind = %s, want %s %s",
					failure.Status, failure.FailureKind(), tt.status, tt.wantKind)
			}
			if failure.Iteration != 4 {
				t.Errorf("failure iteration = %d, want 4", failure.Iteration)
			}
			if len(failure.Problem.Vars) == 0 {
				t.Error("failure carries no problem definition")
			}
		})
	}
}

func TestFailureAbortsRemainingSolves(t *testing.T) {
	solves := 0
	backend := solverFunc(func(_ context.Context, p milp.Problem) (milp.Result, error) {
		solves++
		return milp.Result{Status: milp.StatusInfeasible}, nil
	})

	_, err := Post(context.Background(), backend, testModel(), testContract(t), []string{"outflow"}, EdgeContext{}, 0)
	if err == nil {
		t.Fatal("Post() succeeded with an infeasible backend")
	}
	if solves != 1 {
		t.Errorf("backend solved %d problems after the first failure, want 1", solves)
	}
}

func TestBuildProblemBounds(t *testing.T) {
	model := testModel()
	c := testContract(t)

	var captured []milp.Problem
	backend := solverFunc(func(_ context.Context, p milp.Problem) (milp.Result, error) {
		captured = append(captured, p)
		return milp.Result{Status: milp.StatusOptimal, Value: 1}, nil
	})

	if _, err := Post(context.Background(), backend, model, c, []string{"outflow"}, EdgeContext{}, 0); err != nil {
		t.Fatalf("Post() failed: %v", err)
	}

	// Two driving boxes, one target, two directions.
	if len(captured) != 4 {
		t.Fatalf("backend saw %d problems, want 4", len(captured))
	}
	for _, p := range captured {
		if err := p.Validate(); err != nil {
			t.Errorf("problem %s invalid: %v", p.Name, err)
		}
		// The assumption envelope and the driving guarantee box both
		// contribute bound rows on declared variables.
		var boundRows int
		for _, con := range p.Constraints {
			if strings.HasPrefix(con.Name, "bound") {
				boundRows++
			}
		}
		if boundRows != 4 {
			t.Errorf("problem %s has %d bound rows, want 4", p.Name, boundRows)
		}
	}
	if captured[0].Name == captured[2].Name {
		t.Errorf("problems for distinct boxes share the name %s", captured[0].Name)
	}
}
