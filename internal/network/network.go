// Package network holds the contract network graph: components with
// behavioral models and baseline contracts, and the directed interfaces
// connecting them.
package network

import (
	"fmt"
	"sort"

	"github.com/contractnet/evolver/internal/transform"
	"github.com/contractnet/evolver/pkg/contract"
)

// Component is one node: a named component with input/output variables, a
// behavioral model, and a baseline contract.
type Component struct {
	Name     string
	Inputs   []string
	Outputs  []string
	Model    transform.Model
	Baseline contract.Contract
}

// Interface is a directed edge: the producer writes the shared variables,
// the consumer reads them.
type Interface struct {
	Producer  string
	Consumer  string
	Variables []string
}

func (i Interface) String() string {
	return fmt.Sprintf("%s → %s %v", i.Producer, i.Consumer, i.Variables)
}

// Network is the contract network. Interfaces keep insertion order, which
// the engine uses as its fixed deterministic edge-visitation order.
type Network struct {
	components map[string]*Component
	order      []string
	interfaces []Interface
}

// New creates an empty network.
func New() *Network {
	return &Network{components: make(map[string]*Component)}
}

// AddComponent registers a component. Re-adding a name is an error.
func (n *Network) AddComponent(c *Component) error {
	if _, exists := n.components[c.Name]; exists {
		return fmt.Errorf("component %q already registered", c.Name)
	}
	n.components[c.Name] = c
	n.order = append(n.order, c.Name)
	return nil
}

// AddInterface registers a directed edge. Both endpoints must exist.
func (n *Network) AddInterface(iface Interface) error {
	if _, ok := n.components[iface.Producer]; !ok {
		return fmt.Errorf("interface %s: producer %q not found", iface, iface.Producer)
	}
	if _, ok := n.components[iface.Consumer]; !ok {
		return fmt.Errorf("interface %s: consumer %q not found", iface, iface.Consumer)
	}
	n.interfaces = append(n.interfaces, iface)
	return nil
}

// Component returns a registered component, or nil.
func (n *Network) Component(name string) *Component {
	return n.components[name]
}

// Components returns component names in registration order.
func (n *Network) Components() []string {
	out := make([]string, len(n.order))
	copy(out, n.order)
	return out
}

// Interfaces returns the edges in registration order.
func (n *Network) Interfaces() []Interface {
	out := make([]Interface, len(n.interfaces))
	copy(out, n.interfaces)
	return out
}

// Consumers returns the names of components consuming from the given
// component, in edge order.
func (n *Network) Consumers(name string) []string {
	var out []string
	for _, iface := range n.interfaces {
		if iface.Producer == name {
			out = append(out, iface.Consumer)
		}
	}
	return out
}

// Producers returns the names of components producing for the given
// component, in edge order.
func (n *Network) Producers(name string) []string {
	var out []string
	for _, iface := range n.interfaces {
		if iface.Consumer == name {
			out = append(out, iface.Producer)
		}
	}
	return out
}

// SCCs returns the strongly connected components of the graph (Tarjan),
// each sorted by name, largest first. An SCC of size two or more is a
// cycle.
func (n *Network) SCCs() [][]string {
	index := make(map[string]int)
	lowlink := make(map[string]int)
	onStack := make(map[string]bool)
	var stack []string
	var sccs [][]string
	counter := 0

	var strongconnect func(node string)
	strongconnect = func(node string) {
		index[node] = counter
		lowlink[node] = counter
		counter++
		stack = append(stack, node)
		onStack[node] = true

		for _, next := range n.Consumers(node) {
			if _, seen := index[next]; !seen {
				strongconnect(next)
				lowlink[node] = min(lowlink[node], lowlink[next])
			} else if onStack[next] {
				lowlink[node] = min(lowlink[node], index[next])
			}
		}

		if lowlink[node] == index[node] {
			var scc []string
			for {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[top] = false
				scc = append(scc, top)
				if top == node {
					break
				}
			}
			sort.Strings(scc)
			sccs = append(sccs, scc)
		}
	}

	for _, name := range n.order {
		if _, seen := index[name]; !seen {
			strongconnect(name)
		}
	}

	sort.Slice(sccs, func(i, j int) bool {
		if len(sccs[i]) != len(sccs[j]) {
			return len(sccs[i]) > len(sccs[j])
		}
		return sccs[i][0] < sccs[j][0]
	})
	return sccs
}

// HasCycle reports whether any SCC has two or more members.
func (n *Network) HasCycle() bool {
	for _, scc := range n.SCCs() {
		if len(scc) >= 2 {
			return true
		}
	}
	return false
}
