// Package engine drives the fixpoint evolution of a contract network: it
// propagates the injected deviation across every directed edge, folds
// transformer results into the component contracts, and iterates until no
// contract changes, the iteration cap is hit, or a transformer fails.
//
// Execution is single-threaded and synchronous. Edges are visited in their
// fixed registration order and each edge's read-merge-write cycle
// completes before the next edge starts, so results are reproducible for
// identical inputs. The engine owns the component states for the run's
// lifetime; the recorder and the transformers only ever see read-only
// views.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/contractnet/evolver/internal/logging"
	"github.com/contractnet/evolver/internal/metrics"
	"github.com/contractnet/evolver/internal/network"
	"github.com/contractnet/evolver/internal/recorder"
	"github.com/contractnet/evolver/internal/scenario"
	"github.com/contractnet/evolver/internal/transform"
	"github.com/contractnet/evolver/pkg/contract"
	"github.com/contractnet/evolver/pkg/milp"
	"github.com/contractnet/evolver/pkg/region"
)

// MergePolicy selects how evolved assumptions from multiple inbound edges
// are combined within one iteration.
type MergePolicy string

const (
	// MergeUnion unions each edge's evolved assumption into the consumer
	// incrementally, in edge order. This is the default.
	MergeUnion MergePolicy = "union"

	// MergeIntersect collects all inbound contributions first, narrows
	// them against each other on shared variables, and applies one
	// combined update per consumer at the end of the iteration.
	MergeIntersect MergePolicy = "intersect"
)

// Outcome is the terminal state of a run that did not fail.
type Outcome string

const (
	// OutcomeConverged means two consecutive iterations produced
	// box-set-equal contracts for every component.
	OutcomeConverged Outcome = "converged"

	// OutcomeMaxIterations means the iteration cap was reached without a
	// fixpoint. This is reported distinctly from solver failure.
	OutcomeMaxIterations Outcome = "max-iterations"
)

// DefaultMaxIterations caps a run when neither the options nor the
// scenario override it.
const DefaultMaxIterations = 25

// Options configure an Engine.
type Options struct {
	MaxIterations int
	Merge         MergePolicy
}

func (o Options) withDefaults() Options {
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.Merge == "" {
		o.Merge = MergeUnion
	}
	return o
}

// Engine runs evolution scenarios against a solver backend.
type Engine struct {
	solver milp.Solver
	opts   Options
}

// New creates an engine. The solver is the only external capability the
// engine depends on.
func New(solver milp.Solver, opts Options) *Engine {
	return &Engine{solver: solver, opts: opts.withDefaults()}
}

// Result is the outcome of a run that terminated without a transformer
// failure.
type Result struct {
	RunID      string
	Scenario   string
	Outcome    Outcome
	Iterations int
	Contracts  map[string]contract.Contract
	Baselines  map[string]contract.Contract
	Snapshots  []recorder.IterationSnapshot

	// Violations is the well-formedness check of the final contracts;
	// empty when every interface is covered.
	Violations []network.Violation
}

// FailureError wraps the FailureReport of a fail-fast termination. It is
// the error returned by Evolve for any non-optimal solver outcome.
type FailureError struct {
	Report *recorder.FailureReport
}

func (e *FailureError) Error() string {
	return fmt.Sprintf("evolution failed: %s in %s.%s() for variable %s (%s) at iteration %d",
		e.Report.Kind, e.Report.Component, e.Report.Transformer,
		e.Report.Variable, e.Report.Direction, e.Report.Iteration)
}

// Evolve runs one scenario to fixpoint, the iteration cap, or the first
// transformer failure. The returned error is a *FailureError for
// fail-fast terminations; reaching the cap without convergence is not an
// error and is reported through Result.Outcome.
func (e *Engine) Evolve(ctx context.Context, scen *scenario.Scenario) (*Result, error) {
	logger := logr.FromContextOrDiscard(ctx)

	if err := scen.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	rec := recorder.New()
	net := scen.Network

	// Per-run state: created here, owned by the engine, independent
	// across repeated runs of the same scenario.
	states := make(map[string]*contract.ComponentState)
	models := make(map[string]transform.Model)
	for _, name := range net.Components() {
		comp := net.Component(name)
		states[name] = contract.NewComponentState(name, comp.Baseline)
		models[name] = comp.Model
	}

	// Inject the deviation before the first iteration.
	if dev := scen.Deviation; dev.Contract != nil || dev.Model != nil {
		if dev.Contract != nil {
			states[dev.Component].Evolve(dev.Contract.Assumption, dev.Contract.Guarantee)
		}
		if dev.Model != nil {
			models[dev.Component] = *dev.Model
		}
	}

	maxIterations := e.opts.MaxIterations
	if scen.MaxIterations > 0 {
		maxIterations = scen.MaxIterations
	}

	logger.Info("starting evolution",
		"scenario", scen.Name, "run", rec.RunID(),
		"components", len(states), "edges", len(net.Interfaces()),
		"target", scen.Deviation.Component, "maxIterations", maxIterations)

	for k := 0; k < maxIterations; k++ {
		changed, failure := e.iterate(ctx, k, net, models, states)
		if failure != nil {
			report := rec.RecordFailure(failure)
			metrics.TransformerFailuresTotal.WithLabelValues(string(failure.FailureKind())).Inc()
			metrics.RunsTotal.WithLabelValues("failed").Inc()
			logger.Error(failure, "evolution aborted",
				"scenario", scen.Name, "run", rec.RunID(), "iteration", k)
			return nil, &FailureError{Report: report}
		}

		rec.RecordIteration(k, states)
		metrics.IterationsTotal.Inc()
		updateRegionGauges(states)
		logger.V(logging.DEBUG).Info("iteration complete",
			"iteration", k, "changed", changed)

		if !changed {
			result := e.buildResult(rec, scen, net, states, OutcomeConverged, k+1)
			metrics.RunsTotal.WithLabelValues(string(OutcomeConverged)).Inc()
			logger.Info("reached fixpoint", "scenario", scen.Name, "iterations", k+1)
			return result, nil
		}
	}

	result := e.buildResult(rec, scen, net, states, OutcomeMaxIterations, maxIterations)
	metrics.RunsTotal.WithLabelValues(string(OutcomeMaxIterations)).Inc()
	logger.Info("iteration cap reached without fixpoint",
		"scenario", scen.Name, "iterations", maxIterations)
	return result, nil
}

func (e *Engine) buildResult(rec *recorder.Recorder, scen *scenario.Scenario, net *network.Network, states map[string]*contract.ComponentState, outcome Outcome, iterations int) *Result {
	contracts := make(map[string]contract.Contract, len(states))
	baselines := make(map[string]contract.Contract, len(states))
	for name, st := range states {
		contracts[name] = st.Current()
		baselines[name] = st.Baseline()
	}
	return &Result{
		RunID:      rec.RunID(),
		Scenario:   scen.Name,
		Outcome:    outcome,
		Iterations: iterations,
		Contracts:  contracts,
		Baselines:  baselines,
		Snapshots:  rec.Iterations(),
		Violations: net.CheckWellFormed(contracts),
	}
}

// iterate runs one full pass over all edges. It reports whether any
// component's contract changed relative to the start of the iteration.
// Component states are updated through Evolve exactly once per component,
// after the last edge; within the iteration, edges read and write a
// working set so later edges observe earlier merges.
func (e *Engine) iterate(ctx context.Context, k int, net *network.Network, models map[string]transform.Model, states map[string]*contract.ComponentState) (bool, *transform.Failure) {
	start := make(map[string]contract.Contract, len(states))
	working := make(map[string]contract.Contract, len(states))
	for name, st := range states {
		start[name] = st.Current()
		working[name] = st.Current()
	}

	// Inbound contributions per consumer, only tracked under
	// MergeIntersect.
	pending := make(map[string][]region.Region)

	for _, edge := range net.Interfaces() {
		edgeCtx := transform.EdgeContext{
			Producer:  edge.Producer,
			Consumer:  edge.Consumer,
			Variables: edge.Variables,
		}

		// Forward: the producer's reachable interface bounds, pushed onto
		// the consumer's assumption.
		postR, err := transform.Post(ctx, e.solver, models[edge.Producer], working[edge.Producer], edge.Variables, edgeCtx, k)
		if err != nil {
			return false, asFailure(err)
		}
		if e.opts.Merge == MergeIntersect {
			pending[edge.Consumer] = append(pending[edge.Consumer], postR)
		} else if fail := e.absorbForward(ctx, k, edgeCtx, models[edge.Consumer], working, postR); fail != nil {
			return false, fail
		}

		// Backward: the consumer's required interface bounds, narrowed
		// onto the producer's guarantee.
		preR, err := transform.Pre(ctx, e.solver, models[edge.Consumer], working[edge.Consumer], edge.Variables, edgeCtx, k)
		if err != nil {
			return false, asFailure(err)
		}
		if env, ok := preR.Envelope(); ok {
			c := working[edge.Producer]
			narrowed := c.Guarantee.Clip(env)
			if !narrowed.Equal(c.Guarantee) {
				working[edge.Producer] = contract.New(c.Assumption, narrowed)
			}
		}
	}

	if e.opts.Merge == MergeIntersect {
		for _, name := range net.Components() {
			contributions, ok := pending[name]
			if !ok {
				continue
			}
			combined := combineInbound(contributions)
			edgeCtx := transform.EdgeContext{Consumer: name}
			if fail := e.absorbForward(ctx, k, edgeCtx, models[name], working, combined); fail != nil {
				return false, fail
			}
		}
	}

	changed := false
	for _, name := range net.Components() {
		current := working[name]
		if !current.Equal(start[name]) {
			changed = true
		}
		states[name].Evolve(current.Assumption, current.Guarantee)
	}
	return changed, nil
}

// absorbForward merges a forward-propagated region into the consumer's
// assumption (relaxed side, union with dedup) and widens the consumer's
// guarantee with the image of every newly accepted box through the
// consumer's model. Boxes already covered by the assumption are skipped:
// they regenerate known behavior and must not trigger further growth.
func (e *Engine) absorbForward(ctx context.Context, k int, edgeCtx transform.EdgeContext, model transform.Model, working map[string]contract.Contract, contributed region.Region) *transform.Failure {
	c := working[edgeCtx.Consumer]
	assumption := c.Assumption
	guarantee := c.Guarantee

	for _, b := range contributed.Boxes() {
		if assumption.ContainsBox(b) {
			continue
		}
		assumption = assumption.Add(b)
		if len(model.Outputs) == 0 {
			continue
		}
		img, err := transform.Image(ctx, e.solver, model, b, model.Outputs, edgeCtx, k)
		if err != nil {
			return asFailure(err)
		}
		guarantee = guarantee.Add(img)
	}

	working[edgeCtx.Consumer] = contract.New(assumption, guarantee)
	return nil
}

// combineInbound narrows each edge's contribution by the envelopes of the
// other edges on shared variables, then unions the narrowed results.
// Contributions over disjoint variable sets pass through unchanged.
func combineInbound(contributions []region.Region) region.Region {
	if len(contributions) == 1 {
		return contributions[0]
	}
	out := region.Empty()
	for i, contribution := range contributions {
		narrowed := contribution
		for j, other := range contributions {
			if i == j {
				continue
			}
			if env, ok := other.Envelope(); ok {
				narrowed = narrowed.Clip(env)
			}
		}
		out = out.Union(narrowed)
	}
	return out
}

func asFailure(err error) *transform.Failure {
	var f *transform.Failure
	if errors.As(err, &f) {
		return f
	}
	// Transformers only ever fail with *Failure; anything else indicates
	// a programming error in the transformer layer.
	panic(fmt.Sprintf("transformer returned non-failure error: %v", err))
}

func updateRegionGauges(states map[string]*contract.ComponentState) {
	for name, st := range states {
		metrics.RegionBoxes.WithLabelValues(name, "assumption").Set(float64(st.Current().Assumption.Len()))
		metrics.RegionBoxes.WithLabelValues(name, "guarantee").Set(float64(st.Current().Guarantee.Len()))
	}
}
