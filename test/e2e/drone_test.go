package e2e

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/contractnet/evolver/internal/engine"
	"github.com/contractnet/evolver/internal/scenario"
	"github.com/contractnet/evolver/internal/solver"
)

var _ = Describe("built-in drone scenarios with the real solver", func() {
	var eng *engine.Engine

	BeforeEach(func() {
		eng = engine.New(solver.New(solver.Options{MaxNodes: 200000}),
			engine.Options{MaxIterations: 2})
	})

	for _, name := range scenario.Names() {
		It("evolves "+name+" without a solver failure", func() {
			scen, err := scenario.ByName(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(scen.Validate()).To(Succeed())

			result, err := eng.Evolve(context.Background(), scen)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Outcome).To(BeElementOf(
				engine.OutcomeConverged, engine.OutcomeMaxIterations))
			Expect(result.Iterations).To(BeNumerically(">", 0))
			Expect(result.Contracts).To(HaveKey(scen.Deviation.Component))
		})
	}
})
