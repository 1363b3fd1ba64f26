package region

// BoundKind identifies which end of a variable's interval a delta refers to.
type BoundKind string

const (
	LowerBound BoundKind = "lower"
	UpperBound BoundKind = "upper"
)

// DeltaClass classifies a bound movement. A bound that moved outward
// (lower down, or upper up) relaxes the region; a bound that moved inward
// strengthens it.
type DeltaClass string

const (
	Relaxation    DeltaClass = "relaxation"
	Strengthening DeltaClass = "strengthening"
)

// BoundDelta is one signed bound movement between a baseline box and an
// evolved box.
type BoundDelta struct {
	Variable string
	Bound    BoundKind
	Class    DeltaClass

	// Delta is the signed movement, evolved minus baseline. Magnitude is
	// its absolute value.
	Delta     float64
	Magnitude float64
}

// Deviation computes the per-variable signed bound deltas between a
// baseline box and an evolved box. Only variables declared on both boxes
// are compared; unchanged bounds produce no delta.
func Deviation(baseline, evolved Box) []BoundDelta {
	var deltas []BoundDelta
	for _, name := range baseline.Variables() {
		base, _ := baseline.Interval(name)
		ev, ok := evolved.Interval(name)
		if !ok {
			continue
		}
		if ev.Lo != base.Lo {
			d := ev.Lo - base.Lo
			class := Strengthening
			if d < 0 {
				class = Relaxation
			}
			deltas = append(deltas, BoundDelta{
				Variable:  name,
				Bound:     LowerBound,
				Class:     class,
				Delta:     d,
				Magnitude: abs(d),
			})
		}
		if ev.Hi != base.Hi {
			d := ev.Hi - base.Hi
			class := Relaxation
			if d < 0 {
				class = Strengthening
			}
			deltas = append(deltas, BoundDelta{
				Variable:  name,
				Bound:     UpperBound,
				Class:     class,
				Delta:     d,
				Magnitude: abs(d),
			})
		}
	}
	return deltas
}

// RegionDeviation compares the bounding envelopes of two regions. It is
// the region-level counterpart of Deviation, used for per-iteration
// accounting against the network baseline.
func RegionDeviation(baseline, evolved Region) []BoundDelta {
	baseEnv, ok := baseline.Envelope()
	if !ok {
		return nil
	}
	evEnv, ok := evolved.Envelope()
	if !ok {
		return nil
	}
	return Deviation(baseEnv, evEnv)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
