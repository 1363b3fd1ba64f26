// Package config defines the YAML scenario file format: component models
// with their decision variables and linear constraints, baseline
// contracts, interfaces, and the deviation to inject.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Variable domain names accepted in scenario files.
const (
	VarContinuous = "continuous"
	VarInteger    = "integer"
	VarBinary     = "binary"
)

// VarSpec declares one decision variable of a component model.
type VarSpec struct {
	Name string `yaml:"name"`

	// Type is continuous, integer, or binary. Empty means continuous.
	Type string `yaml:"type,omitempty"`

	// Lo and Hi are optional finite bounds. Omitted means unbounded on
	// that end (binary variables are always [0, 1]).
	Lo *float64 `yaml:"lo,omitempty"`
	Hi *float64 `yaml:"hi,omitempty"`
}

// Validate checks the variable declaration.
func (v *VarSpec) Validate() error {
	if v.Name == "" {
		return fmt.Errorf("variable with empty name")
	}
	switch v.Type {
	case "", VarContinuous, VarInteger, VarBinary:
	default:
		return fmt.Errorf("variable %q: unknown type %q", v.Name, v.Type)
	}
	if v.Lo != nil && v.Hi != nil && *v.Lo > *v.Hi {
		return fmt.Errorf("variable %q: lo %g above hi %g", v.Name, *v.Lo, *v.Hi)
	}
	return nil
}

// TermSpec is one coefficient-variable product of a linear constraint.
type TermSpec struct {
	Coef float64 `yaml:"coef"`
	Var  string  `yaml:"var"`
}

// ConstraintSpec is one linear constraint of a component model.
type ConstraintSpec struct {
	Name string `yaml:"name"`

	Terms []TermSpec `yaml:"terms"`

	// Rel is "<=", ">=", or "==".
	Rel string `yaml:"rel"`

	RHS float64 `yaml:"rhs"`
}

// Validate checks the constraint.
func (c *ConstraintSpec) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("constraint with empty name")
	}
	if len(c.Terms) == 0 {
		return fmt.Errorf("constraint %q: no terms", c.Name)
	}
	for _, t := range c.Terms {
		if t.Var == "" {
			return fmt.Errorf("constraint %q: term with empty variable", c.Name)
		}
	}
	switch c.Rel {
	case "<=", ">=", "==":
	default:
		return fmt.Errorf("constraint %q: unknown relation %q", c.Name, c.Rel)
	}
	return nil
}

// BoxSpec maps a variable name to its [lo, hi] interval.
type BoxSpec map[string][2]float64

// Validate checks every interval.
func (b BoxSpec) Validate() error {
	if len(b) == 0 {
		return fmt.Errorf("empty box")
	}
	for name, bounds := range b {
		if bounds[0] > bounds[1] {
			return fmt.Errorf("variable %q: lo %g above hi %g", name, bounds[0], bounds[1])
		}
	}
	return nil
}

// ContractSpec is an assumption region and a guarantee region, each a
// union of boxes.
type ContractSpec struct {
	Assumption []BoxSpec `yaml:"assumption"`
	Guarantee  []BoxSpec `yaml:"guarantee"`
}

// Validate checks both regions.
func (c *ContractSpec) Validate() error {
	for i, b := range c.Assumption {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("assumption box %d: %w", i, err)
		}
	}
	for i, b := range c.Guarantee {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("guarantee box %d: %w", i, err)
		}
	}
	return nil
}

// ComponentSpec declares one component: its interface variables, its
// behavioral model, and its baseline contract.
type ComponentSpec struct {
	Name    string   `yaml:"name"`
	Inputs  []string `yaml:"inputs"`
	Outputs []string `yaml:"outputs"`

	Vars        []VarSpec        `yaml:"vars"`
	Constraints []ConstraintSpec `yaml:"constraints"`

	Baseline ContractSpec `yaml:"baseline"`
}

// Validate checks the component declaration.
func (c *ComponentSpec) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("component with empty name")
	}
	declared := make(map[string]bool, len(c.Vars))
	for i := range c.Vars {
		if err := c.Vars[i].Validate(); err != nil {
			return fmt.Errorf("component %q: %w", c.Name, err)
		}
		if declared[c.Vars[i].Name] {
			return fmt.Errorf("component %q: duplicate variable %q", c.Name, c.Vars[i].Name)
		}
		declared[c.Vars[i].Name] = true
	}
	for _, name := range append(append([]string{}, c.Inputs...), c.Outputs...) {
		if !declared[name] {
			return fmt.Errorf("component %q: interface variable %q not declared", c.Name, name)
		}
	}
	for i := range c.Constraints {
		if err := c.Constraints[i].Validate(); err != nil {
			return fmt.Errorf("component %q: %w", c.Name, err)
		}
		for _, t := range c.Constraints[i].Terms {
			if !declared[t.Var] {
				return fmt.Errorf("component %q: constraint %q references undeclared variable %q",
					c.Name, c.Constraints[i].Name, t.Var)
			}
		}
	}
	if err := c.Baseline.Validate(); err != nil {
		return fmt.Errorf("component %q baseline: %w", c.Name, err)
	}
	return nil
}

// InterfaceSpec is one directed edge of the network.
type InterfaceSpec struct {
	Producer  string   `yaml:"producer"`
	Consumer  string   `yaml:"consumer"`
	Variables []string `yaml:"variables"`
}

// Validate checks the edge declaration.
func (i *InterfaceSpec) Validate() error {
	if i.Producer == "" || i.Consumer == "" {
		return fmt.Errorf("interface with empty endpoint (%q -> %q)", i.Producer, i.Consumer)
	}
	if len(i.Variables) == 0 {
		return fmt.Errorf("interface %s -> %s: no variables", i.Producer, i.Consumer)
	}
	return nil
}

// DeviationSpec names the component whose contract deviates and the
// evolved contract replacing its baseline.
type DeviationSpec struct {
	Component string       `yaml:"component"`
	Contract  ContractSpec `yaml:"contract"`
}

// ScenarioSpec is the root of a scenario file.
type ScenarioSpec struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`

	// MaxIterations overrides the engine's iteration cap. Zero keeps the
	// engine default.
	MaxIterations int `yaml:"maxIterations,omitempty"`

	Components []ComponentSpec `yaml:"components"`
	Interfaces []InterfaceSpec `yaml:"interfaces"`
	Deviation  DeviationSpec   `yaml:"deviation"`
}

// Validate checks the full scenario file for internal consistency.
func (s *ScenarioSpec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario with empty name")
	}
	if s.MaxIterations < 0 {
		return fmt.Errorf("maxIterations must be >= 0, got %d", s.MaxIterations)
	}
	if len(s.Components) == 0 {
		return fmt.Errorf("scenario %q: no components", s.Name)
	}
	names := make(map[string]bool, len(s.Components))
	for i := range s.Components {
		if err := s.Components[i].Validate(); err != nil {
			return err
		}
		if names[s.Components[i].Name] {
			return fmt.Errorf("scenario %q: duplicate component %q", s.Name, s.Components[i].Name)
		}
		names[s.Components[i].Name] = true
	}
	for i := range s.Interfaces {
		iface := &s.Interfaces[i]
		if err := iface.Validate(); err != nil {
			return err
		}
		if !names[iface.Producer] {
			return fmt.Errorf("interface %s -> %s: unknown producer", iface.Producer, iface.Consumer)
		}
		if !names[iface.Consumer] {
			return fmt.Errorf("interface %s -> %s: unknown consumer", iface.Producer, iface.Consumer)
		}
	}
	if s.Deviation.Component == "" {
		return fmt.Errorf("scenario %q: deviation names no component", s.Name)
	}
	if !names[s.Deviation.Component] {
		return fmt.Errorf("scenario %q: deviation targets unknown component %q", s.Name, s.Deviation.Component)
	}
	if err := s.Deviation.Contract.Validate(); err != nil {
		return fmt.Errorf("scenario %q deviation: %w", s.Name, err)
	}
	return nil
}

// Parse decodes and validates a scenario file's contents.
func Parse(data []byte) (*ScenarioSpec, error) {
	var spec ScenarioSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse scenario file: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Load reads, decodes, and validates a scenario file.
func Load(path string) (*ScenarioSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	spec, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return spec, nil
}
