package network

import (
	"reflect"
	"testing"

	"github.com/contractnet/evolver/pkg/contract"
	"github.com/contractnet/evolver/pkg/region"
)

func simpleContract(t *testing.T, in, out string, lo, hi float64) contract.Contract {
	t.Helper()
	return contract.New(
		region.New(region.MustBox(map[string]region.Interval{in: {Lo: lo, Hi: hi}})),
		region.New(region.MustBox(map[string]region.Interval{out: {Lo: lo, Hi: hi}})),
	)
}

func buildNetwork(t *testing.T, edges []Interface, names ...string) *Network {
	t.Helper()
	n := New()
	for _, name := range names {
		err := n.AddComponent(&Component{
			Name:     name,
			Inputs:   []string{"in"},
			Outputs:  []string{"out"},
			Baseline: simpleContract(t, "in", "out", 0, 10),
		})
		if err != nil {
			t.Fatalf("AddComponent(%s) failed: %v", name, err)
		}
	}
	for _, e := range edges {
		if err := n.AddInterface(e); err != nil {
			t.Fatalf("AddInterface(%s) failed: %v", e, err)
		}
	}
	return n
}

func TestAddComponentDuplicate(t *testing.T) {
	n := buildNetwork(t, nil, "a")
	if err := n.AddComponent(&Component{Name: "a"}); err == nil {
		t.Error("AddComponent() succeeded for a duplicate name")
	}
}

func TestAddInterfaceUnknownEndpoint(t *testing.T) {
	n := buildNetwork(t, nil, "a")
	if err := n.AddInterface(Interface{Producer: "a", Consumer: "ghost", Variables: []string{"x"}}); err == nil {
		t.Error("AddInterface() succeeded with an unregistered consumer")
	}
}

func TestInterfacesKeepOrder(t *testing.T) {
	edges := []Interface{
		{Producer: "a", Consumer: "b", Variables: []string{"x"}},
		{Producer: "b", Consumer: "c", Variables: []string{"y"}},
		{Producer: "c", Consumer: "a", Variables: []string{"z"}},
	}
	n := buildNetwork(t, edges, "a", "b", "c")
	if got := n.Interfaces(); !reflect.DeepEqual(got, edges) {
		t.Errorf("Interfaces() = %v, want insertion order %v", got, edges)
	}
}

func TestSCCs(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		edges []Interface
		want  [][]string
	}{
		{
			name:  "Test case 1: Three-node cycle plus a leaf",
			names: []string{"a", "b", "c", "d"},
			edges: []Interface{
				{Producer: "a", Consumer: "b", Variables: []string{"x"}},
				{Producer: "b", Consumer: "c", Variables: []string{"x"}},
				{Producer: "c", Consumer: "a", Variables: []string{"x"}},
				{Producer: "c", Consumer: "d", Variables: []string{"x"}},
			},
			want: [][]string{{"a", "b", "c"}, {"d"}},
		},
		{
			name:  "Test case 2: Acyclic chain",
			names: []string{"a", "b", "c"},
			edges: []Interface{
				{Producer: "a", Consumer: "b", Variables: []string{"x"}},
				{Producer: "b", Consumer: "c", Variables: []string{"x"}},
			},
			want: [][]string{{"a"}, {"b"}, {"c"}},
		},
		{
			name:  "Test case 3: Two two-node cycles",
			names: []string{"a", "b", "c", "d"},
			edges: []Interface{
				{Producer: "a", Consumer: "b", Variables: []string{"x"}},
				{Producer: "b", Consumer: "a", Variables: []string{"x"}},
				{Producer: "c", Consumer: "d", Variables: []string{"x"}},
				{Producer: "d", Consumer: "c", Variables: []string{"x"}},
			},
			want: [][]string{{"a", "b"}, {"c", "d"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := buildNetwork(t, tt.edges, tt.names...)
			if got := n.SCCs(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SCCs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasCycle(t *testing.T) {
	cyclic := buildNetwork(t, []Interface{
		{Producer: "a", Consumer: "b", Variables: []string{"x"}},
		{Producer: "b", Consumer: "a", Variables: []string{"x"}},
	}, "a", "b")
	if !cyclic.HasCycle() {
		t.Error("HasCycle() = false for a two-node cycle")
	}

	acyclic := buildNetwork(t, []Interface{
		{Producer: "a", Consumer: "b", Variables: []string{"x"}},
	}, "a", "b")
	if acyclic.HasCycle() {
		t.Error("HasCycle() = true for an acyclic graph")
	}
}

func TestCheckWellFormed(t *testing.T) {
	n := buildNetwork(t, []Interface{
		{Producer: "src", Consumer: "dst", Variables: []string{"flow"}},
	}, "src", "dst")

	makeContracts := func(guaranteeHi, assumptionHi float64) map[string]contract.Contract {
		return map[string]contract.Contract{
			"src": contract.New(
				region.Empty(),
				region.New(region.MustBox(map[string]region.Interval{"flow": {Lo: 0, Hi: guaranteeHi}})),
			),
			"dst": contract.New(
				region.New(region.MustBox(map[string]region.Interval{"flow": {Lo: 0, Hi: assumptionHi}})),
				region.Empty(),
			),
		}
	}

	if violations := n.CheckWellFormed(makeContracts(10, 15)); len(violations) != 0 {
		t.Errorf("CheckWellFormed() = %v for a covered interface, want none", violations)
	}

	violations := n.CheckWellFormed(makeContracts(15, 10))
	if len(violations) != 1 {
		t.Fatalf("CheckWellFormed() reported %d violations, want 1", len(violations))
	}
	if violations[0].Edge.Producer != "src" || violations[0].Edge.Consumer != "dst" {
		t.Errorf("violation edge = %s, want src → dst", violations[0].Edge)
	}
}
