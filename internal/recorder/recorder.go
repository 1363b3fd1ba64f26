// Package recorder captures per-iteration, per-component diagnostics of an
// evolution run: deviation records against the network baseline, full
// region snapshots, and, on failure, the complete MILP problem definition
// for later reporting. Persistence and rendering formats are an external
// concern; the recorder's obligation is to produce the values.
package recorder

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/contractnet/evolver/internal/transform"
	"github.com/contractnet/evolver/pkg/contract"
	"github.com/contractnet/evolver/pkg/milp"
)

// IterationSnapshot is the recorded state after one completed iteration:
// one deviation record per component (measured against the network
// baseline, not the previous iteration) and the full contract contents.
type IterationSnapshot struct {
	Iteration int
	Records   []contract.DeviationRecord
	Contracts map[string]contract.Contract
}

// FailureReport is created exactly once, at the point of first fail-fast
// termination, and terminates the run.
type FailureReport struct {
	RunID       string
	Component   string
	Transformer transform.Kind
	Variable    string
	Direction   milp.Direction
	Status      milp.Status
	Kind        transform.FailureKind
	Problem     milp.Problem
	Edge        transform.EdgeContext
	Iteration   int
	Message     string
}

// Render produces a human-readable multi-line report including the full
// problem dump.
func (r *FailureReport) Render() string {
	var sb strings.Builder
	sb.WriteString("MILP TRANSFORMER FAILURE\n")
	fmt.Fprintf(&sb, "run:         %s\n", r.RunID)
	fmt.Fprintf(&sb, "component:   %s\n", r.Component)
	fmt.Fprintf(&sb, "transformer: %s\n", r.Transformer)
	fmt.Fprintf(&sb, "variable:    %s (%s)\n", r.Variable, r.Direction)
	fmt.Fprintf(&sb, "status:      %s (%s)\n", r.Status, r.Kind)
	fmt.Fprintf(&sb, "edge:        %s\n", r.Edge)
	fmt.Fprintf(&sb, "iteration:   %d\n", r.Iteration)
	if r.Message != "" {
		fmt.Fprintf(&sb, "detail:      %s\n", r.Message)
	}
	sb.WriteString("\nThe run terminated immediately; no approximate or fallback bound was substituted.\n\n")
	sb.WriteString(r.Problem.Render())
	return sb.String()
}

// Recorder accumulates snapshots for one run. It receives read-only views
// from the engine and never mutates component state. After a failure is
// recorded, further iterations are ignored.
type Recorder struct {
	runID      string
	iterations []IterationSnapshot
	failure    *FailureReport
}

// New creates a recorder with a fresh run ID.
func New() *Recorder {
	return &Recorder{runID: uuid.NewString()}
}

// RunID returns the unique identifier of this run.
func (r *Recorder) RunID() string {
	return r.runID
}

// RecordIteration snapshots all component states after a completed
// iteration.
func (r *Recorder) RecordIteration(iteration int, states map[string]*contract.ComponentState) {
	if r.failure != nil {
		return
	}

	names := make([]string, 0, len(states))
	for name := range states {
		names = append(names, name)
	}
	sort.Strings(names)

	snap := IterationSnapshot{
		Iteration: iteration,
		Contracts: make(map[string]contract.Contract, len(states)),
	}
	for _, name := range names {
		st := states[name]
		snap.Contracts[name] = st.Current()
		snap.Records = append(snap.Records,
			contract.MeasureDeviation(name, iteration, st.Baseline(), st.Current()))
	}
	r.iterations = append(r.iterations, snap)
}

// RecordFailure builds the FailureReport from the first transformer
// failure and stops recording. Snapshots of already-completed iterations
// are retained.
func (r *Recorder) RecordFailure(f *transform.Failure) *FailureReport {
	if r.failure != nil {
		return r.failure
	}
	r.failure = &FailureReport{
		RunID:       r.runID,
		Component:   f.Component,
		Transformer: f.Kind,
		Variable:    f.Variable,
		Direction:   f.Direction,
		Status:      f.Status,
		Kind:        f.FailureKind(),
		Problem:     f.Problem,
		Edge:        f.Edge,
		Iteration:   f.Iteration,
		Message:     f.Message,
	}
	return r.failure
}

// Iterations returns the recorded snapshots in iteration order.
func (r *Recorder) Iterations() []IterationSnapshot {
	out := make([]IterationSnapshot, len(r.iterations))
	copy(out, r.iterations)
	return out
}

// Failure returns the failure report, or nil for a run that did not fail.
func (r *Recorder) Failure() *FailureReport {
	return r.failure
}
