package milp

import (
	"strings"
	"testing"
)

func TestProblemValidate(t *testing.T) {
	valid := Problem{
		Name: "p",
		Vars: []Var{Bounded("x", 0, 10), Bin("b")},
		Constraints: []Constraint{
			NewConstraint("cap", LessEq, 5, Term{Coef: 1, Var: "x"}, Term{Coef: -2, Var: "b"}),
		},
		Objective: Objective{Variable: "x", Direction: Maximize},
	}

	tests := []struct {
		name    string
		mutate  func(p *Problem)
		wantErr bool
	}{
		{
			name:   "Test case 1: Valid problem",
			mutate: func(p *Problem) {},
		},
		{
			name:    "Test case 2: Duplicate variable",
			mutate:  func(p *Problem) { p.Vars = append(p.Vars, Bounded("x", 0, 1)) },
			wantErr: true,
		},
		{
			name: "Test case 3: Constraint references unknown variable",
			mutate: func(p *Problem) {
				p.Constraints = append(p.Constraints, NewConstraint("bad", LessEq, 1, Term{Coef: 1, Var: "ghost"}))
			},
			wantErr: true,
		},
		{
			name:    "Test case 4: Objective references unknown variable",
			mutate:  func(p *Problem) { p.Objective.Variable = "ghost" },
			wantErr: true,
		},
		{
			name:    "Test case 5: Inverted variable bounds",
			mutate:  func(p *Problem) { p.Vars[0] = Bounded("x", 10, 0) },
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Problem{
				Name:        valid.Name,
				Vars:        append([]Var{}, valid.Vars...),
				Constraints: append([]Constraint{}, valid.Constraints...),
				Objective:   valid.Objective,
			}
			tt.mutate(&p)
			if err := p.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestProblemRender(t *testing.T) {
	p := Problem{
		Name: "motor_post_current_max_box0",
		Vars: []Var{Bounded("motor_current", 0, 50), Bin("motor_band_0")},
		Constraints: []Constraint{
			NewConstraint("cap", LessEq, 40, Term{Coef: 1, Var: "motor_current"}),
		},
		Objective: Objective{Variable: "motor_current", Direction: Maximize},
	}

	out := p.Render()
	for _, want := range []string{
		"motor_post_current_max_box0",
		"max motor_current",
		"motor_band_0",
		"cap: +1*motor_current <= 40",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q in:\n%s", want, out)
		}
	}
}
