package contract

import (
	"github.com/contractnet/evolver/pkg/region"
)

// SideDelta aggregates the bound movements of one class on one contract
// side: how many bounds moved and by how much in total.
type SideDelta struct {
	Count     int
	Magnitude float64
}

func (d *SideDelta) add(magnitude float64) {
	d.Count++
	d.Magnitude += magnitude
}

// IsZero reports whether no bound of this class moved.
func (d SideDelta) IsZero() bool {
	return d.Count == 0
}

// DeviationRecord captures, for one component in one iteration, the bound
// movements of its current contract relative to the network baseline,
// split into the four deviation classes: assumption relaxation ΔA_rel,
// assumption strengthening ΔA_str, guarantee relaxation ΔG_rel, and
// guarantee strengthening ΔG_str.
type DeviationRecord struct {
	Component string
	Iteration int

	AssumptionRelaxed      SideDelta
	AssumptionStrengthened SideDelta
	GuaranteeRelaxed       SideDelta
	GuaranteeStrengthened  SideDelta
}

// TotalMagnitude sums the magnitudes of all four classes.
func (r DeviationRecord) TotalMagnitude() float64 {
	return r.AssumptionRelaxed.Magnitude +
		r.AssumptionStrengthened.Magnitude +
		r.GuaranteeRelaxed.Magnitude +
		r.GuaranteeStrengthened.Magnitude
}

// IsZero reports whether the contract is unchanged from baseline.
func (r DeviationRecord) IsZero() bool {
	return r.AssumptionRelaxed.IsZero() &&
		r.AssumptionStrengthened.IsZero() &&
		r.GuaranteeRelaxed.IsZero() &&
		r.GuaranteeStrengthened.IsZero()
}

// MeasureDeviation compares a component's current contract against its
// baseline and classifies every bound movement: outward movements relax,
// inward movements strengthen, measured on the bounding envelope of each
// region.
func MeasureDeviation(component string, iteration int, baseline, current Contract) DeviationRecord {
	rec := DeviationRecord{Component: component, Iteration: iteration}

	for _, d := range region.RegionDeviation(baseline.Assumption, current.Assumption) {
		if d.Class == region.Relaxation {
			rec.AssumptionRelaxed.add(d.Magnitude)
		} else {
			rec.AssumptionStrengthened.add(d.Magnitude)
		}
	}
	for _, d := range region.RegionDeviation(baseline.Guarantee, current.Guarantee) {
		if d.Class == region.Relaxation {
			rec.GuaranteeRelaxed.add(d.Magnitude)
		} else {
			rec.GuaranteeStrengthened.add(d.Magnitude)
		}
	}
	return rec
}
