// Package transform implements the MILP-backed pre and post transformers
// that map a component's contract through an interface to a neighbor.
//
// Both transformers are partial functions: they return a region only when
// every required solve comes back proven-optimal. Any other outcome raises
// a structured Failure carrying the full problem, and the run aborts. No
// fallback bound is ever substituted.
package transform

import "github.com/contractnet/evolver/pkg/milp"

// Model is a component's behavioral model: the decision variables
// (including any auxiliary and binary variables used for piecewise or
// logical structure) and the linear constraints relating them. Input and
// output variable names must appear among Vars.
type Model struct {
	Component   string
	Inputs      []string
	Outputs     []string
	Vars        []milp.Var
	Constraints []milp.Constraint
}

// HasVar reports whether the model declares a decision variable.
func (m Model) HasVar(name string) bool {
	for _, v := range m.Vars {
		if v.Name == name {
			return true
		}
	}
	return false
}

// IsInput reports whether name is one of the model's input variables.
func (m Model) IsInput(name string) bool {
	for _, in := range m.Inputs {
		if in == name {
			return true
		}
	}
	return false
}

// IsOutput reports whether name is one of the model's output variables.
func (m Model) IsOutput(name string) bool {
	for _, out := range m.Outputs {
		if out == name {
			return true
		}
	}
	return false
}
