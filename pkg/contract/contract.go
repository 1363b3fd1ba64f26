// Package contract models assume-guarantee contracts and the per-component
// state tracked across a fixpoint evolution run.
package contract

import (
	"fmt"

	"github.com/contractnet/evolver/pkg/region"
)

// Contract is an assume-guarantee pair C = (A, G): the Assumption region
// bounds what the component requires from its environment, the Guarantee
// region bounds what it promises in return. Either side may be a union of
// boxes.
type Contract struct {
	Assumption region.Region
	Guarantee  region.Region
}

// New builds a contract from the two regions.
func New(assumption, guarantee region.Region) Contract {
	return Contract{Assumption: assumption, Guarantee: guarantee}
}

// Equal reports order-independent box-set equality on both sides. This is
// the per-component fixpoint comparison.
func (c Contract) Equal(other Contract) bool {
	return c.Assumption.Equal(other.Assumption) && c.Guarantee.Equal(other.Guarantee)
}

// Feasible reports whether both regions are non-empty. An empty region on
// either side marks the component as infeasible, a terminal failure state.
func (c Contract) Feasible() bool {
	return !c.Assumption.IsEmpty() && !c.Guarantee.IsEmpty()
}

func (c Contract) String() string {
	return fmt.Sprintf("Contract(A: %s, G: %s)", c.Assumption, c.Guarantee)
}

// ComponentState carries a component's current contract together with its
// baseline (pre-deviation) contract, retained for delta reporting. It is
// created at scenario load with current = baseline and lives for the run.
// Only the evolution engine mutates it, through Evolve, at most once per
// iteration.
type ComponentState struct {
	name     string
	baseline Contract
	current  Contract
}

// NewComponentState creates a state with current set to the baseline.
func NewComponentState(name string, baseline Contract) *ComponentState {
	return &ComponentState{name: name, baseline: baseline, current: baseline}
}

// Name returns the owning component's name.
func (s *ComponentState) Name() string {
	return s.name
}

// Baseline returns the pre-deviation contract.
func (s *ComponentState) Baseline() Contract {
	return s.baseline
}

// Current returns the contract as of the last completed evolution step.
func (s *ComponentState) Current() Contract {
	return s.current
}

// Evolve replaces the current contract. It is the single mutator and is
// called exclusively by the evolution engine, once per component per
// iteration.
func (s *ComponentState) Evolve(assumption, guarantee region.Region) {
	s.current = Contract{Assumption: assumption, Guarantee: guarantee}
}
