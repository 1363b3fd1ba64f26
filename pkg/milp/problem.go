// Package milp defines the mixed-integer linear program value types
// exchanged with a solver backend, and the Solver interface itself.
//
// The solver boundary is a capability, not a dependency on one product:
// any backend that can report a proven-optimal objective value for a
// Problem can be plugged in without touching the engine or the region
// algebra.
package milp

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// VarType is the domain of a decision variable.
type VarType string

const (
	Continuous VarType = "continuous"
	Integer    VarType = "integer"
	Binary     VarType = "binary"
)

// Var is one decision variable with optional finite bounds. Use
// math.Inf for a free end.
type Var struct {
	Name string
	Type VarType
	Lo   float64
	Hi   float64
}

// Free returns an unbounded continuous variable.
func Free(name string) Var {
	return Var{Name: name, Type: Continuous, Lo: math.Inf(-1), Hi: math.Inf(1)}
}

// Bounded returns a continuous variable with the given bounds.
func Bounded(name string, lo, hi float64) Var {
	return Var{Name: name, Type: Continuous, Lo: lo, Hi: hi}
}

// Bin returns a binary variable.
func Bin(name string) Var {
	return Var{Name: name, Type: Binary, Lo: 0, Hi: 1}
}

// Relation is the comparison of a linear constraint.
type Relation string

const (
	LessEq    Relation = "<="
	GreaterEq Relation = ">="
	Equal     Relation = "=="
)

// Term is one coefficient–variable product in a linear expression.
type Term struct {
	Coef float64
	Var  string
}

// Constraint is a linear constraint: sum of terms, relation, right-hand
// side.
type Constraint struct {
	Name  string
	Terms []Term
	Rel   Relation
	RHS   float64
}

// NewConstraint is a convenience constructor for constraint literals.
func NewConstraint(name string, rel Relation, rhs float64, terms ...Term) Constraint {
	return Constraint{Name: name, Terms: terms, Rel: rel, RHS: rhs}
}

// Direction says whether the objective minimizes or maximizes.
type Direction string

const (
	Minimize Direction = "min"
	Maximize Direction = "max"
)

// Objective optimizes a single named variable in one direction. The
// transformers only ever need tight bounds of individual variables, so a
// general linear objective is not modeled.
type Objective struct {
	Variable  string
	Direction Direction
}

// Problem is one complete MILP. It is treated as an immutable value once
// built: the transformer layer owns it during one solve, and the
// diagnostics recorder retains it only on failure.
type Problem struct {
	Name        string
	Vars        []Var
	Constraints []Constraint
	Objective   Objective
}

// Var looks up a declared variable by name.
func (p Problem) Var(name string) (Var, bool) {
	for _, v := range p.Vars {
		if v.Name == name {
			return v, true
		}
	}
	return Var{}, false
}

// Validate checks internal consistency: unique variable names, constraint
// terms and the objective referring to declared variables, and Lo <= Hi on
// every bounded variable.
func (p Problem) Validate() error {
	seen := make(map[string]bool, len(p.Vars))
	for _, v := range p.Vars {
		if v.Name == "" {
			return fmt.Errorf("problem %q: variable with empty name", p.Name)
		}
		if seen[v.Name] {
			return fmt.Errorf("problem %q: duplicate variable %q", p.Name, v.Name)
		}
		seen[v.Name] = true
		if v.Lo > v.Hi {
			return fmt.Errorf("problem %q: variable %q has lower bound %g above upper bound %g", p.Name, v.Name, v.Lo, v.Hi)
		}
	}
	for _, c := range p.Constraints {
		for _, t := range c.Terms {
			if !seen[t.Var] {
				return fmt.Errorf("problem %q: constraint %q references undeclared variable %q", p.Name, c.Name, t.Var)
			}
		}
	}
	if !seen[p.Objective.Variable] {
		return fmt.Errorf("problem %q: objective references undeclared variable %q", p.Name, p.Objective.Variable)
	}
	return nil
}

// Render produces a human-readable dump of the full problem, used in
// failure reports.
func (p Problem) Render() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "problem %s: %s %s\n", p.Name, p.Objective.Direction, p.Objective.Variable)
	sb.WriteString("variables:\n")
	vars := make([]Var, len(p.Vars))
	copy(vars, p.Vars)
	sort.Slice(vars, func(i, j int) bool { return vars[i].Name < vars[j].Name })
	for _, v := range vars {
		fmt.Fprintf(&sb, "  %s ∈ [%g, %g] (%s)\n", v.Name, v.Lo, v.Hi, v.Type)
	}
	sb.WriteString("constraints:\n")
	for _, c := range p.Constraints {
		parts := make([]string, 0, len(c.Terms))
		for _, t := range c.Terms {
			parts = append(parts, fmt.Sprintf("%+g*%s", t.Coef, t.Var))
		}
		fmt.Fprintf(&sb, "  %s: %s %s %g\n", c.Name, strings.Join(parts, " "), c.Rel, c.RHS)
	}
	return sb.String()
}
