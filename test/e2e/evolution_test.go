package e2e

import (
	"context"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/contractnet/evolver/internal/engine"
	"github.com/contractnet/evolver/internal/network"
	"github.com/contractnet/evolver/internal/scenario"
	"github.com/contractnet/evolver/internal/solver"
	"github.com/contractnet/evolver/internal/transform"
	"github.com/contractnet/evolver/pkg/config"
	"github.com/contractnet/evolver/pkg/contract"
	"github.com/contractnet/evolver/pkg/milp"
	"github.com/contractnet/evolver/pkg/region"
)

func box(bounds map[string]region.Interval) region.Box {
	return region.MustBox(bounds)
}

// pipelineNetwork is a linear two-component plant: a pump whose flow is
// four times its demand, feeding a tank whose level is twice the inflow.
func pipelineNetwork() *network.Network {
	net := network.New()

	pump := &network.Component{
		Name:    "pump",
		Inputs:  []string{"demand"},
		Outputs: []string{"flow"},
		Model: transform.Model{
			Component: "pump",
			Inputs:    []string{"demand"},
			Outputs:   []string{"flow"},
			Vars: []milp.Var{
				milp.Bounded("demand", 0, 12),
				milp.Bounded("flow", 0, 50),
			},
			Constraints: []milp.Constraint{
				milp.NewConstraint("gain", milp.Equal, 0,
					milp.Term{Coef: 1, Var: "flow"}, milp.Term{Coef: -4, Var: "demand"}),
			},
		},
		Baseline: contract.New(
			region.New(box(map[string]region.Interval{"demand": {Lo: 0, Hi: 10}})),
			region.New(box(map[string]region.Interval{"flow": {Lo: 0, Hi: 40}})),
		),
	}

	tank := &network.Component{
		Name:    "tank",
		Inputs:  []string{"flow"},
		Outputs: []string{"level"},
		Model: transform.Model{
			Component: "tank",
			Inputs:    []string{"flow"},
			Outputs:   []string{"level"},
			Vars: []milp.Var{
				milp.Bounded("flow", 0, 50),
				milp.Bounded("level", 0, 120),
			},
			Constraints: []milp.Constraint{
				milp.NewConstraint("fill", milp.Equal, 0,
					milp.Term{Coef: 1, Var: "level"}, milp.Term{Coef: -2, Var: "flow"}),
			},
		},
		Baseline: contract.New(
			region.New(box(map[string]region.Interval{"flow": {Lo: 0, Hi: 40}})),
			region.New(box(map[string]region.Interval{"level": {Lo: 0, Hi: 80}})),
		),
	}

	Expect(net.AddComponent(pump)).To(Succeed())
	Expect(net.AddComponent(tank)).To(Succeed())
	Expect(net.AddInterface(network.Interface{
		Producer: "pump", Consumer: "tank", Variables: []string{"flow"},
	})).To(Succeed())
	return net
}

func pipelineScenario(guaranteeHi float64) *scenario.Scenario {
	deviated := contract.New(
		region.New(box(map[string]region.Interval{"demand": {Lo: 0, Hi: 12}})),
		region.New(box(map[string]region.Interval{"flow": {Lo: 0, Hi: guaranteeHi}})),
	)
	return &scenario.Scenario{
		Name:      "pump-surge",
		Network:   pipelineNetwork(),
		Deviation: scenario.Deviation{Component: "pump", Contract: &deviated},
	}
}

var _ = Describe("fixpoint evolution with the real solver", func() {
	var eng *engine.Engine

	BeforeEach(func() {
		eng = engine.New(solver.New(solver.Options{MaxNodes: 1000}), engine.Options{})
	})

	It("propagates a relaxed guarantee to a fixpoint", func() {
		result, err := eng.Evolve(context.Background(), pipelineScenario(48))
		Expect(err).NotTo(HaveOccurred())

		Expect(result.Outcome).To(Equal(engine.OutcomeConverged))
		Expect(result.Iterations).To(Equal(2))

		By("widening the tank's assumption to admit the surged flow")
		tank := result.Contracts["tank"]
		surge := box(map[string]region.Interval{"flow": {Lo: 0, Hi: 48}})
		Expect(tank.Assumption.ContainsBox(surge)).To(BeTrue(),
			"tank assumption %v should cover flow up to 48", tank.Assumption)

		By("responding with the image of the surge through the tank model")
		flooded := box(map[string]region.Interval{"level": {Lo: 0, Hi: 96}})
		Expect(tank.Guarantee.ContainsBox(flooded)).To(BeTrue(),
			"tank guarantee %v should cover level up to 96", tank.Guarantee)

		By("leaving the pump's deviated contract at its fixpoint")
		pump := result.Contracts["pump"]
		Expect(pump.Guarantee.Equal(region.New(
			box(map[string]region.Interval{"flow": {Lo: 0, Hi: 48}}),
		))).To(BeTrue())

		By("keeping every interface well-formed")
		Expect(result.Violations).To(BeEmpty())
	})

	It("produces box-set-equal contracts on repeated runs", func() {
		first, err := eng.Evolve(context.Background(), pipelineScenario(48))
		Expect(err).NotTo(HaveOccurred())
		second, err := eng.Evolve(context.Background(), pipelineScenario(48))
		Expect(err).NotTo(HaveOccurred())

		Expect(second.Iterations).To(Equal(first.Iterations))
		for name, c := range first.Contracts {
			Expect(c.Equal(second.Contracts[name])).To(BeTrue(),
				"contract for %s drifted between runs", name)
		}
	})

	It("converges under the intersect merge policy as well", func() {
		eng = engine.New(solver.New(solver.Options{MaxNodes: 1000}),
			engine.Options{Merge: engine.MergeIntersect})

		result, err := eng.Evolve(context.Background(), pipelineScenario(48))
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Outcome).To(Equal(engine.OutcomeConverged))

		surge := box(map[string]region.Interval{"flow": {Lo: 0, Hi: 48}})
		Expect(result.Contracts["tank"].Assumption.ContainsBox(surge)).To(BeTrue())
	})

	It("fails fast when the deviated guarantee is infeasible for the model", func() {
		// The pump model caps flow at 50, so a claimed flow of [60, 70]
		// contradicts the variable bound outright.
		deviated := contract.New(
			region.New(box(map[string]region.Interval{"demand": {Lo: 0, Hi: 12}})),
			region.New(box(map[string]region.Interval{"flow": {Lo: 60, Hi: 70}})),
		)
		scen := &scenario.Scenario{
			Name:      "pump-impossible",
			Network:   pipelineNetwork(),
			Deviation: scenario.Deviation{Component: "pump", Contract: &deviated},
		}

		_, err := eng.Evolve(context.Background(), scen)
		Expect(err).To(HaveOccurred())

		var failure *engine.FailureError
		Expect(err).To(BeAssignableToTypeOf(failure))
		failure = err.(*engine.FailureError)
		Expect(failure.Report.Component).To(Equal("pump"))
		Expect(failure.Report.Transformer).To(Equal(transform.KindPost))
		Expect(failure.Report.Kind).To(Equal(transform.InfeasibleModel))
		Expect(failure.Report.Iteration).To(Equal(0))
		Expect(failure.Report.Render()).To(ContainSubstring("pump"))
	})

	It("runs a scenario loaded from YAML end to end", func() {
		spec, err := config.Load(filepath.Join("testdata", "pipeline.yaml"))
		Expect(err).NotTo(HaveOccurred())

		scen, err := scenario.FromSpec(spec)
		Expect(err).NotTo(HaveOccurred())
		Expect(scen.Validate()).To(Succeed())

		result, err := eng.Evolve(context.Background(), scen)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Outcome).To(Equal(engine.OutcomeConverged))
		Expect(result.Scenario).To(Equal("pump-surge"))
		Expect(result.Violations).To(BeEmpty())
	})
})
