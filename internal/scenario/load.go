package scenario

import (
	"fmt"
	"math"

	"github.com/contractnet/evolver/internal/network"
	"github.com/contractnet/evolver/internal/transform"
	"github.com/contractnet/evolver/pkg/config"
	"github.com/contractnet/evolver/pkg/contract"
	"github.com/contractnet/evolver/pkg/milp"
	"github.com/contractnet/evolver/pkg/region"
)

// FromSpec builds a runnable scenario from a decoded scenario file. The
// spec is assumed validated; structural errors surface from network and
// region construction.
func FromSpec(spec *config.ScenarioSpec) (*Scenario, error) {
	net := network.New()
	for i := range spec.Components {
		comp, err := componentFromSpec(&spec.Components[i])
		if err != nil {
			return nil, err
		}
		if err := net.AddComponent(comp); err != nil {
			return nil, err
		}
	}
	for _, iface := range spec.Interfaces {
		err := net.AddInterface(network.Interface{
			Producer:  iface.Producer,
			Consumer:  iface.Consumer,
			Variables: iface.Variables,
		})
		if err != nil {
			return nil, err
		}
	}

	deviated, err := contractFromSpec(&spec.Deviation.Contract)
	if err != nil {
		return nil, fmt.Errorf("deviation contract: %w", err)
	}

	return &Scenario{
		Name:          spec.Name,
		Description:   spec.Description,
		Network:       net,
		MaxIterations: spec.MaxIterations,
		Deviation: Deviation{
			Component: spec.Deviation.Component,
			Contract:  &deviated,
		},
	}, nil
}

func componentFromSpec(spec *config.ComponentSpec) (*network.Component, error) {
	model := transform.Model{
		Component: spec.Name,
		Inputs:    spec.Inputs,
		Outputs:   spec.Outputs,
	}
	for _, v := range spec.Vars {
		mv, err := varFromSpec(v)
		if err != nil {
			return nil, fmt.Errorf("component %q: %w", spec.Name, err)
		}
		model.Vars = append(model.Vars, mv)
	}
	for _, c := range spec.Constraints {
		terms := make([]milp.Term, 0, len(c.Terms))
		for _, t := range c.Terms {
			terms = append(terms, milp.Term{Coef: t.Coef, Var: t.Var})
		}
		model.Constraints = append(model.Constraints,
			milp.NewConstraint(c.Name, milp.Relation(c.Rel), c.RHS, terms...))
	}

	baseline, err := contractFromSpec(&spec.Baseline)
	if err != nil {
		return nil, fmt.Errorf("component %q baseline: %w", spec.Name, err)
	}

	return &network.Component{
		Name:     spec.Name,
		Inputs:   spec.Inputs,
		Outputs:  spec.Outputs,
		Model:    model,
		Baseline: baseline,
	}, nil
}

func varFromSpec(spec config.VarSpec) (milp.Var, error) {
	switch spec.Type {
	case config.VarBinary:
		return milp.Bin(spec.Name), nil
	case config.VarInteger, config.VarContinuous, "":
		lo, hi := math.Inf(-1), math.Inf(1)
		if spec.Lo != nil {
			lo = *spec.Lo
		}
		if spec.Hi != nil {
			hi = *spec.Hi
		}
		t := milp.Continuous
		if spec.Type == config.VarInteger {
			t = milp.Integer
		}
		return milp.Var{Name: spec.Name, Type: t, Lo: lo, Hi: hi}, nil
	default:
		return milp.Var{}, fmt.Errorf("variable %q: unknown type %q", spec.Name, spec.Type)
	}
}

func contractFromSpec(spec *config.ContractSpec) (contract.Contract, error) {
	assumption, err := regionFromSpec(spec.Assumption)
	if err != nil {
		return contract.Contract{}, err
	}
	guarantee, err := regionFromSpec(spec.Guarantee)
	if err != nil {
		return contract.Contract{}, err
	}
	return contract.New(assumption, guarantee), nil
}

func regionFromSpec(boxes []config.BoxSpec) (region.Region, error) {
	out := region.Empty()
	for _, spec := range boxes {
		bounds := make(map[string]region.Interval, len(spec))
		for name, b := range spec {
			bounds[name] = region.Interval{Lo: b[0], Hi: b[1]}
		}
		box, err := region.NewBox(bounds)
		if err != nil {
			return region.Region{}, err
		}
		out = out.Add(box)
	}
	return out, nil
}
