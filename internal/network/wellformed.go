package network

import (
	"fmt"

	"github.com/contractnet/evolver/pkg/contract"
)

// Violation is one edge on which well-formedness fails.
type Violation struct {
	Edge   Interface
	Reason string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Edge, v.Reason)
}

// CheckWellFormed verifies that, along every interface, the consumer's
// assumption projected onto the interface variables covers the producer's
// guarantee projected onto the same variables:
//
//	G_producer|_I ⊆ A_consumer|_I
//
// contracts maps component name to its current contract. The returned
// slice is empty when the network is well-formed.
func (n *Network) CheckWellFormed(contracts map[string]contract.Contract) []Violation {
	var violations []Violation
	for _, iface := range n.interfaces {
		producer, okP := contracts[iface.Producer]
		consumer, okC := contracts[iface.Consumer]
		if !okP || !okC {
			violations = append(violations, Violation{
				Edge:   iface,
				Reason: "missing contract for producer or consumer",
			})
			continue
		}

		guarantee := producer.Guarantee.Project(iface.Variables)
		assumption := consumer.Assumption.Project(iface.Variables)
		if !assumption.Covers(guarantee) {
			violations = append(violations, Violation{
				Edge:   iface,
				Reason: "consumer assumption does not cover producer guarantee on interface variables",
			})
		}
	}
	return violations
}
