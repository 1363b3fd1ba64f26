package transform

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/contractnet/evolver/internal/logging"
	"github.com/contractnet/evolver/pkg/contract"
	"github.com/contractnet/evolver/pkg/milp"
	"github.com/contractnet/evolver/pkg/region"
)

// Post computes, for each box of the component's Guarantee region, the
// tight interval of every target variable reachable under the component's
// model, its assumption envelope, and that guarantee box. The result for
// the union region is the union of per-box result boxes, deduplicated.
//
// Used to push a deviated guarantee forward onto a consumer's assumption.
func Post(ctx context.Context, s milp.Solver, model Model, c contract.Contract, targets []string, edge EdgeContext, iteration int) (region.Region, error) {
	return transformRegion(ctx, s, model, KindPost, c.Guarantee, c.Assumption, targets, edge, iteration)
}

// Pre computes, for each box of the component's Assumption region, the
// tight interval of every target variable required for that assumption box
// to remain satisfiable under the component's model and its guarantee
// envelope.
//
// Used to pull a tightened requirement backward onto a producer's
// guarantee.
func Pre(ctx context.Context, s milp.Solver, model Model, c contract.Contract, targets []string, edge EdgeContext, iteration int) (region.Region, error) {
	return transformRegion(ctx, s, model, KindPre, c.Assumption, c.Guarantee, targets, edge, iteration)
}

// Image computes the reachable intervals of the target variables given
// explicit bounds on some model variables (typically a newly accepted
// input box). It is the transformer used for a component's own guarantee
// response to a widened assumption.
func Image(ctx context.Context, s milp.Solver, model Model, bounds region.Box, targets []string, edge EdgeContext, iteration int) (region.Box, error) {
	return solveBox(ctx, s, model, KindPost, []region.Box{bounds}, 0, targets, edge, iteration)
}

func transformRegion(ctx context.Context, s milp.Solver, model Model, kind Kind, driving, envelopeSide region.Region, targets []string, edge EdgeContext, iteration int) (region.Region, error) {
	// A variable the model does not declare is unconstrained by it and
	// cannot be bounded.
	declared := make([]string, 0, len(targets))
	for _, t := range targets {
		if model.HasVar(t) {
			declared = append(declared, t)
		}
	}
	if driving.IsEmpty() || len(declared) == 0 {
		return region.Empty(), nil
	}
	targets = declared

	// The non-driving side contributes a single envelope box, so the MILP
	// count stays at one per (driving box, variable, direction).
	boundBoxes := make([]region.Box, 0, 2)
	if env, ok := envelopeSide.Envelope(); ok {
		boundBoxes = append(boundBoxes, env)
	}

	out := region.Empty()
	for i, b := range driving.Boxes() {
		result, err := solveBox(ctx, s, model, kind, append(boundBoxes, b), i, targets, edge, iteration)
		if err != nil {
			return region.Empty(), err
		}
		out = out.Add(result)
	}
	return out, nil
}

// solveBox bounds every target variable, min and max, under the model
// constraints plus the bound boxes, producing one tight result box. Two
// solves per variable. Any non-optimal status aborts with a Failure.
func solveBox(ctx context.Context, s milp.Solver, model Model, kind Kind, bounds []region.Box, boxIdx int, targets []string, edge EdgeContext, iteration int) (region.Box, error) {
	logger := logr.FromContextOrDiscard(ctx)

	resultBounds := make(map[string]region.Interval, len(targets))
	for _, target := range targets {
		var iv region.Interval
		for _, dir := range []milp.Direction{milp.Minimize, milp.Maximize} {
			p := buildProblem(model, kind, bounds, boxIdx, target, dir)
			res, err := s.Solve(ctx, p)
			if err != nil {
				return region.Box{}, &Failure{
					Component: model.Component,
					Kind:      kind,
					Variable:  target,
					Direction: dir,
					Status:    milp.StatusError,
					Message:   err.Error(),
					Problem:   p,
					Edge:      edge,
					Iteration: iteration,
				}
			}
			if res.Status != milp.StatusOptimal {
				return region.Box{}, &Failure{
					Component: model.Component,
					Kind:      kind,
					Variable:  target,
					Direction: dir,
					Status:    res.Status,
					Message:   res.Message,
					Problem:   p,
					Edge:      edge,
					Iteration: iteration,
				}
			}
			if dir == milp.Minimize {
				iv.Lo = res.Value
			} else {
				iv.Hi = res.Value
			}
		}
		logger.V(logging.TRACE).Info("bounded variable",
			"component", model.Component, "transformer", string(kind),
			"variable", target, "lo", iv.Lo, "hi", iv.Hi)
		resultBounds[target] = iv
	}

	b, err := region.NewBox(resultBounds)
	if err != nil {
		// Lo > Hi can only arise from solver numerics; surface it as a
		// solver-level failure rather than silently widening.
		return region.Box{}, &Failure{
			Component: model.Component,
			Kind:      kind,
			Variable:  fmt.Sprintf("%v", targets),
			Status:    milp.StatusError,
			Message:   err.Error(),
			Edge:      edge,
			Iteration: iteration,
		}
	}
	return b, nil
}

// buildProblem formulates exactly one MILP for one (variable, direction)
// pair: the model's variables and constraints, plus bound rows for every
// model variable present in a bound box.
func buildProblem(model Model, kind Kind, bounds []region.Box, boxIdx int, target string, dir milp.Direction) milp.Problem {
	vars := make([]milp.Var, len(model.Vars))
	copy(vars, model.Vars)
	constraints := make([]milp.Constraint, len(model.Constraints))
	copy(constraints, model.Constraints)

	for bi, b := range bounds {
		for _, name := range b.Variables() {
			if !model.HasVar(name) {
				continue
			}
			iv, _ := b.Interval(name)
			constraints = append(constraints,
				milp.NewConstraint(fmt.Sprintf("bound%d_%s_lb", bi, name), milp.GreaterEq, iv.Lo, milp.Term{Coef: 1, Var: name}),
				milp.NewConstraint(fmt.Sprintf("bound%d_%s_ub", bi, name), milp.LessEq, iv.Hi, milp.Term{Coef: 1, Var: name}),
			)
		}
	}

	return milp.Problem{
		Name:        fmt.Sprintf("%s_%s_%s_%s_box%d", model.Component, kind, target, dir, boxIdx),
		Vars:        vars,
		Constraints: constraints,
		Objective:   milp.Objective{Variable: target, Direction: dir},
	}
}
