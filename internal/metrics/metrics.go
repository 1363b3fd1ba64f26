// Package metrics exposes Prometheus instrumentation for evolution runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RunsTotal counts evolution runs by terminal outcome
	// (converged, max-iterations, failed).
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "evolver_runs_total",
		Help: "Evolution runs by terminal outcome.",
	}, []string{"outcome"})

	// IterationsTotal counts completed fixpoint iterations.
	IterationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "evolver_iterations_total",
		Help: "Completed fixpoint iterations across all runs.",
	})

	// TransformerFailuresTotal counts fail-fast transformer failures by
	// failure kind.
	TransformerFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "evolver_transformer_failures_total",
		Help: "Transformer failures by failure kind.",
	}, []string{"kind"})

	// RegionBoxes tracks the box count of each component's contract
	// regions at the end of the latest iteration.
	RegionBoxes = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "evolver_region_boxes",
		Help: "Boxes per contract region after the latest iteration.",
	}, []string{"component", "side"})
)
