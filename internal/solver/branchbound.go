// Package solver provides the built-in MILP backend: the LP relaxation is
// solved with gonum's simplex implementation, and integer variables are
// handled by branch and bound on their relaxed solutions.
package solver

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/go-logr/logr"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/contractnet/evolver/internal/logging"
	"github.com/contractnet/evolver/pkg/milp"
)

const (
	// DefaultMaxNodes caps the branch-and-bound tree. Exhausting the cap
	// without proving optimality maps to milp.StatusTimeout.
	DefaultMaxNodes = 10000

	defaultSimplexTol   = 1e-10
	defaultIntegralTol  = 1e-6
	incumbentPruneSlack = 1e-9
)

// Options tune the branch-and-bound search.
type Options struct {
	// MaxNodes bounds the number of LP relaxations solved for one
	// problem. Zero means DefaultMaxNodes.
	MaxNodes int

	// SimplexTol is the pivot tolerance passed to the simplex method.
	// Zero means a default of 1e-10.
	SimplexTol float64

	// IntegralityTol is the distance from the nearest integer below
	// which a relaxed value counts as integral. Zero means 1e-6.
	IntegralityTol float64
}

func (o Options) withDefaults() Options {
	if o.MaxNodes <= 0 {
		o.MaxNodes = DefaultMaxNodes
	}
	if o.SimplexTol <= 0 {
		o.SimplexTol = defaultSimplexTol
	}
	if o.IntegralityTol <= 0 {
		o.IntegralityTol = defaultIntegralTol
	}
	return o
}

// BranchBound implements milp.Solver. It is stateless across solves and
// safe for sequential reuse.
type BranchBound struct {
	opts Options
}

// New creates a BranchBound solver with the given options.
func New(opts Options) *BranchBound {
	return &BranchBound{opts: opts.withDefaults()}
}

// node is one subproblem in the branch-and-bound tree: the original
// problem with tightened variable bounds.
type node struct {
	lo []float64
	hi []float64
}

// Solve runs one problem to proven optimality or reports why it could
// not. The only error return is a malformed problem; every optimization
// outcome is expressed through the result status.
func (s *BranchBound) Solve(ctx context.Context, p milp.Problem) (milp.Result, error) {
	if err := p.Validate(); err != nil {
		return milp.Result{}, fmt.Errorf("solving %q: %w", p.Name, err)
	}
	logger := logr.FromContextOrDiscard(ctx)

	n := len(p.Vars)
	index := make(map[string]int, n)
	root := node{lo: make([]float64, n), hi: make([]float64, n)}
	integers := make([]int, 0, n)
	for i, v := range p.Vars {
		index[v.Name] = i
		root.lo[i] = v.Lo
		root.hi[i] = v.Hi
		if v.Type == milp.Integer || v.Type == milp.Binary {
			integers = append(integers, i)
		}
	}
	objIdx := index[p.Objective.Variable]

	// Single-variable constraints, such as the interval rows the
	// transformers attach per box, tighten the root bounds directly.
	// Re-injecting them as simplex rows duplicates the variable-bound
	// rows and makes the basis singular once the intervals carry
	// near-zero numeric dust from earlier solves.
	rows := make([]milp.Constraint, 0, len(p.Constraints))
	for _, con := range p.Constraints {
		if len(con.Terms) != 1 || con.Terms[0].Coef == 0 {
			rows = append(rows, con)
			continue
		}
		i := index[con.Terms[0].Var]
		v := con.RHS / con.Terms[0].Coef
		rel := con.Rel
		if con.Terms[0].Coef < 0 {
			switch rel {
			case milp.LessEq:
				rel = milp.GreaterEq
			case milp.GreaterEq:
				rel = milp.LessEq
			}
		}
		switch rel {
		case milp.LessEq:
			root.hi[i] = math.Min(root.hi[i], v)
		case milp.GreaterEq:
			root.lo[i] = math.Max(root.lo[i], v)
		case milp.Equal:
			root.lo[i] = math.Max(root.lo[i], v)
			root.hi[i] = math.Min(root.hi[i], v)
		}
	}

	stack := []node{root}
	nodesSolved := 0
	haveIncumbent := false
	bestValue := math.Inf(1)
	var bestPoint []float64

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return milp.Result{Status: milp.StatusTimeout, Message: fmt.Sprintf("canceled after %d nodes: %v", nodesSolved, err)}, nil
		}
		if nodesSolved >= s.opts.MaxNodes {
			return milp.Result{Status: milp.StatusTimeout, Message: fmt.Sprintf("node cap %d reached without proven optimum", s.opts.MaxNodes)}, nil
		}

		nd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nodesSolved++

		value, point, status := s.solveRelaxation(p, rows, index, objIdx, nd)
		switch status {
		case milp.StatusInfeasible:
			continue
		case milp.StatusUnbounded:
			// An unbounded relaxation at any node means the objective
			// variable has no finite tight bound in this direction.
			return milp.Result{Status: milp.StatusUnbounded, Message: "LP relaxation unbounded"}, nil
		case milp.StatusError:
			return milp.Result{Status: milp.StatusError, Message: fmt.Sprintf("simplex failed at node %d", nodesSolved)}, nil
		}

		// Bound: a relaxation no better than the incumbent cannot improve.
		if haveIncumbent && value >= bestValue-incumbentPruneSlack {
			continue
		}

		branchVar := -1
		for _, i := range integers {
			if !scalar.EqualWithinAbs(point[i], math.Round(point[i]), s.opts.IntegralityTol) {
				branchVar = i
				break
			}
		}
		if branchVar < 0 {
			haveIncumbent = true
			bestValue = value
			bestPoint = point
			continue
		}

		frac := point[branchVar]
		down := node{lo: cloneFloats(nd.lo), hi: cloneFloats(nd.hi)}
		down.hi[branchVar] = math.Floor(frac)
		up := node{lo: cloneFloats(nd.lo), hi: cloneFloats(nd.hi)}
		up.lo[branchVar] = math.Ceil(frac)
		if down.lo[branchVar] <= down.hi[branchVar] {
			stack = append(stack, down)
		}
		if up.lo[branchVar] <= up.hi[branchVar] {
			stack = append(stack, up)
		}
	}

	if !haveIncumbent {
		return milp.Result{Status: milp.StatusInfeasible, Message: "no integral feasible point"}, nil
	}

	logger.V(logging.TRACE).Info("solve finished",
		"problem", p.Name, "nodes", nodesSolved, "value", objectiveValue(p.Objective.Direction, bestValue))

	solution := make(map[string]float64, n)
	for name, i := range index {
		solution[name] = bestPoint[i]
	}
	return milp.Result{
		Status: milp.StatusOptimal,
		Value:  objectiveValue(p.Objective.Direction, bestValue),
		Point:  solution,
	}, nil
}

// objectiveValue undoes the internal minimization sign flip for maximize
// objectives.
func objectiveValue(dir milp.Direction, minimized float64) float64 {
	if dir == milp.Maximize {
		return -minimized
	}
	return minimized
}

// solveRelaxation solves the LP relaxation of p under the node's variable
// bounds, with cons as the multi-variable constraint rows. The returned
// value is the internal minimization objective (the sign flip for
// maximize is applied by the caller via objectiveValue).
func (s *BranchBound) solveRelaxation(p milp.Problem, cons []milp.Constraint, index map[string]int, objIdx int, nd node) (float64, []float64, milp.Status) {
	n := len(p.Vars)

	c := make([]float64, n)
	if p.Objective.Direction == milp.Maximize {
		c[objIdx] = -1
	} else {
		c[objIdx] = 1
	}

	// General form: minimize c·x subject to G x <= h, A x = b. Variable
	// bounds become inequality rows; equality constraints go to A.
	var gRows [][]float64
	var h []float64
	var aRows [][]float64
	var b []float64

	addRow := func(terms []milp.Term, scale, rhs float64, eq bool) {
		row := make([]float64, n)
		for _, t := range terms {
			row[index[t.Var]] += scale * t.Coef
		}
		if eq {
			aRows = append(aRows, row)
			b = append(b, rhs)
		} else {
			gRows = append(gRows, row)
			h = append(h, rhs)
		}
	}

	for _, con := range cons {
		switch con.Rel {
		case milp.LessEq:
			addRow(con.Terms, 1, con.RHS, false)
		case milp.GreaterEq:
			addRow(con.Terms, -1, -con.RHS, false)
		case milp.Equal:
			addRow(con.Terms, 1, con.RHS, true)
		}
	}
	for i := 0; i < n; i++ {
		if !math.IsInf(nd.hi[i], 1) {
			row := make([]float64, n)
			row[i] = 1
			gRows = append(gRows, row)
			h = append(h, nd.hi[i])
		}
		if !math.IsInf(nd.lo[i], -1) {
			row := make([]float64, n)
			row[i] = -1
			gRows = append(gRows, row)
			h = append(h, -nd.lo[i])
		}
	}

	// Convert cannot build zero-row matrices. No rows means every
	// variable is free, so the objective variable is unbounded in either
	// direction.
	if len(gRows) == 0 && len(aRows) == 0 {
		return 0, nil, milp.StatusUnbounded
	}

	var g mat.Matrix
	if len(gRows) > 0 {
		g = denseFromRows(gRows)
	}
	var a mat.Matrix
	if len(aRows) > 0 {
		a = denseFromRows(aRows)
	}

	cStd, aStd, bStd := lp.Convert(c, g, h, a, b)
	opt, xStd, err := lp.Simplex(cStd, aStd, bStd, s.opts.SimplexTol, nil)
	if err != nil && !errors.Is(err, lp.ErrInfeasible) && !errors.Is(err, lp.ErrUnbounded) {
		// A singular or degenerate basis is usually numerical rather
		// than structural. Retry with coarser pivot tolerances before
		// giving up on the node.
		for _, tol := range []float64{1e-8, 1e-6} {
			if tol <= s.opts.SimplexTol {
				continue
			}
			opt, xStd, err = lp.Simplex(cStd, aStd, bStd, tol, nil)
			if err == nil || errors.Is(err, lp.ErrInfeasible) || errors.Is(err, lp.ErrUnbounded) {
				break
			}
		}
	}
	if err != nil {
		switch {
		case errors.Is(err, lp.ErrInfeasible):
			return 0, nil, milp.StatusInfeasible
		case errors.Is(err, lp.ErrUnbounded):
			return 0, nil, milp.StatusUnbounded
		default:
			return 0, nil, milp.StatusError
		}
	}

	// Convert splits each general-form variable into a positive and a
	// negative part ahead of the slack variables: x_i = xStd[i] - xStd[n+i].
	point := make([]float64, n)
	for i := 0; i < n; i++ {
		point[i] = xStd[i] - xStd[n+i]
	}
	return opt, point, milp.StatusOptimal
}

func denseFromRows(rows [][]float64) *mat.Dense {
	m := len(rows)
	n := len(rows[0])
	data := make([]float64, 0, m*n)
	for _, row := range rows {
		data = append(data, row...)
	}
	return mat.NewDense(m, n, data)
}

func cloneFloats(xs []float64) []float64 {
	out := make([]float64, len(xs))
	copy(out, xs)
	return out
}
