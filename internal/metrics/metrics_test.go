package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(RunsTotal.WithLabelValues("converged"))
	RunsTotal.WithLabelValues("converged").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(RunsTotal.WithLabelValues("converged")))

	before = testutil.ToFloat64(IterationsTotal)
	IterationsTotal.Inc()
	IterationsTotal.Inc()
	assert.Equal(t, before+2, testutil.ToFloat64(IterationsTotal))
}

func TestRegionBoxesGauge(t *testing.T) {
	RegionBoxes.WithLabelValues("Motor", "assumption").Set(3)
	require.Equal(t, 3.0, testutil.ToFloat64(RegionBoxes.WithLabelValues("Motor", "assumption")))

	// Overwrites, not accumulates.
	RegionBoxes.WithLabelValues("Motor", "assumption").Set(1)
	require.Equal(t, 1.0, testutil.ToFloat64(RegionBoxes.WithLabelValues("Motor", "assumption")))
}
