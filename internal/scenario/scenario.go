// Package scenario defines evolution scenarios: a contract network, the
// component whose behavior deviates, and the deviated contract and model
// applied at the start of the run. It also carries the built-in drone
// scenarios and a YAML loader for external definitions.
package scenario

import (
	"fmt"

	"github.com/contractnet/evolver/internal/network"
	"github.com/contractnet/evolver/internal/transform"
	"github.com/contractnet/evolver/pkg/contract"
	"github.com/contractnet/evolver/pkg/region"
)

// Deviation is the perturbation injected at iteration zero. Either field
// may be nil to leave that aspect of the target component unchanged.
type Deviation struct {
	Component string
	Contract  *contract.Contract
	Model     *transform.Model
}

// Scenario is one complete evolution setup.
type Scenario struct {
	Name        string
	Description string
	Network     *network.Network
	Deviation   Deviation

	// MaxIterations overrides the engine's iteration cap when positive.
	MaxIterations int
}

// Validate checks that the deviation targets a registered component and
// that every baseline contract is feasible.
func (s *Scenario) Validate() error {
	if s.Network == nil {
		return fmt.Errorf("scenario %q: no network", s.Name)
	}
	if s.Deviation.Component == "" {
		return fmt.Errorf("scenario %q: no deviation target", s.Name)
	}
	if s.Network.Component(s.Deviation.Component) == nil {
		return fmt.Errorf("scenario %q: deviation target %q not in network", s.Name, s.Deviation.Component)
	}
	for _, name := range s.Network.Components() {
		comp := s.Network.Component(name)
		if !comp.Baseline.Feasible() {
			return fmt.Errorf("scenario %q: component %q has an infeasible baseline contract", s.Name, name)
		}
	}
	if s.Deviation.Contract != nil && !s.Deviation.Contract.Feasible() {
		return fmt.Errorf("scenario %q: deviated contract for %q is infeasible", s.Name, s.Deviation.Component)
	}
	return nil
}

// InitialDeviation measures the injected perturbation: the target's
// deviated contract against its baseline.
func (s *Scenario) InitialDeviation() contract.DeviationRecord {
	comp := s.Network.Component(s.Deviation.Component)
	current := comp.Baseline
	if s.Deviation.Contract != nil {
		current = *s.Deviation.Contract
	}
	return contract.MeasureDeviation(s.Deviation.Component, 0, comp.Baseline, current)
}

// AddedGuarantee returns the behaviors the deviation adds to the target's
// guarantee: deviated guarantee minus baseline guarantee, as a union of
// carved boxes.
func (s *Scenario) AddedGuarantee() region.Region {
	if s.Deviation.Contract == nil {
		return region.Empty()
	}
	baseline := s.Network.Component(s.Deviation.Component).Baseline
	return s.Deviation.Contract.Guarantee.Subtract(baseline.Guarantee)
}
