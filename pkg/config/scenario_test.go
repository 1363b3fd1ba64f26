package config

import (
	"strings"
	"testing"
)

func validSpec() ScenarioSpec {
	lo, hi := 0.0, 10.0
	return ScenarioSpec{
		Name: "pipeline",
		Components: []ComponentSpec{
			{
				Name:    "Pump",
				Inputs:  []string{"demand"},
				Outputs: []string{"flow"},
				Vars: []VarSpec{
					{Name: "demand", Lo: &lo, Hi: &hi},
					{Name: "flow", Lo: &lo},
				},
				Constraints: []ConstraintSpec{
					{
						Name:  "gain",
						Terms: []TermSpec{{Coef: 1, Var: "flow"}, {Coef: -4, Var: "demand"}},
						Rel:   "<=",
						RHS:   0,
					},
				},
				Baseline: ContractSpec{
					Assumption: []BoxSpec{{"demand": {0, 10}}},
					Guarantee:  []BoxSpec{{"flow": {0, 40}}},
				},
			},
			{
				Name:    "Tank",
				Inputs:  []string{"flow"},
				Outputs: []string{"level"},
				Vars: []VarSpec{
					{Name: "flow", Lo: &lo},
					{Name: "level", Type: VarInteger, Lo: &lo},
				},
				Baseline: ContractSpec{
					Assumption: []BoxSpec{{"flow": {0, 40}}},
					Guarantee:  []BoxSpec{{"level": {0, 80}}},
				},
			},
		},
		Interfaces: []InterfaceSpec{
			{Producer: "Pump", Consumer: "Tank", Variables: []string{"flow"}},
		},
		Deviation: DeviationSpec{
			Component: "Pump",
			Contract: ContractSpec{
				Assumption: []BoxSpec{{"demand": {0, 10}}},
				Guarantee:  []BoxSpec{{"flow": {0, 48}}},
			},
		},
	}
}

func TestScenarioSpecValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ScenarioSpec)
		wantErr string
	}{
		{
			// Test case 1: the reference spec is accepted.
			name:   "valid spec",
			mutate: func(s *ScenarioSpec) {},
		},
		{
			// Test case 2: scenarios must be named.
			name:    "empty name",
			mutate:  func(s *ScenarioSpec) { s.Name = "" },
			wantErr: "empty name",
		},
		{
			// Test case 3: component names must be unique.
			name:    "duplicate component",
			mutate:  func(s *ScenarioSpec) { s.Components[1].Name = "Pump" },
			wantErr: "duplicate component",
		},
		{
			// Test case 4: interface variables must be declared by the
			// component's model.
			name: "undeclared interface variable",
			mutate: func(s *ScenarioSpec) {
				s.Components[0].Outputs = []string{"pressure"}
			},
			wantErr: "not declared",
		},
		{
			// Test case 5: constraint terms must reference declared
			// variables.
			name: "constraint on unknown variable",
			mutate: func(s *ScenarioSpec) {
				s.Components[0].Constraints[0].Terms[0].Var = "head"
			},
			wantErr: "undeclared variable",
		},
		{
			// Test case 6: interface endpoints must exist.
			name: "unknown producer",
			mutate: func(s *ScenarioSpec) {
				s.Interfaces[0].Producer = "Reservoir"
			},
			wantErr: "unknown producer",
		},
		{
			// Test case 7: the deviation must target a component.
			name: "unknown deviation target",
			mutate: func(s *ScenarioSpec) {
				s.Deviation.Component = "Reservoir"
			},
			wantErr: "unknown component",
		},
		{
			// Test case 8: box intervals must be ordered.
			name: "inverted box bounds",
			mutate: func(s *ScenarioSpec) {
				s.Deviation.Contract.Guarantee[0]["flow"] = [2]float64{48, 0}
			},
			wantErr: "lo 48 above hi 0",
		},
		{
			// Test case 9: inverted variable bounds are rejected.
			name: "inverted variable bounds",
			mutate: func(s *ScenarioSpec) {
				bad := 20.0
				s.Components[0].Vars[0].Hi = &bad
				worse := 30.0
				s.Components[0].Vars[0].Lo = &worse
			},
			wantErr: "lo 30 above hi 20",
		},
		{
			// Test case 10: the relation must be one of the three forms.
			name: "unknown relation",
			mutate: func(s *ScenarioSpec) {
				s.Components[0].Constraints[0].Rel = "<"
			},
			wantErr: "unknown relation",
		},
		{
			// Test case 11: a negative cap is meaningless.
			name:    "negative iteration cap",
			mutate:  func(s *ScenarioSpec) { s.MaxIterations = -1 },
			wantErr: "maxIterations",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := validSpec()
			tt.mutate(&spec)
			err := spec.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() failed: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestParse(t *testing.T) {
	data := []byte(`
name: minimal
components:
  - name: Source
    outputs: [x]
    vars:
      - {name: x, lo: 0, hi: 1}
    baseline:
      assumption:
        - {x: [0, 1]}
      guarantee:
        - {x: [0, 1]}
deviation:
  component: Source
  contract:
    assumption:
      - {x: [0, 1]}
    guarantee:
      - {x: [0, 2]}
`)
	spec, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if spec.Name != "minimal" || len(spec.Components) != 1 {
		t.Errorf("Parse() = %s with %d components, want minimal with 1", spec.Name, len(spec.Components))
	}
}

func TestParseMalformedYAML(t *testing.T) {
	if _, err := Parse([]byte("components: {not: [valid")); err == nil {
		t.Error("Parse() accepted malformed YAML")
	}
}

func TestParseRejectsInvalidSpec(t *testing.T) {
	if _, err := Parse([]byte("name: empty-network")); err == nil {
		t.Error("Parse() accepted a scenario without components")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("testdata/does-not-exist.yaml"); err == nil {
		t.Error("Load() succeeded for a missing file")
	}
}
