// Package region implements the geometric set algebra used to represent
// contract regions: axis-aligned boxes over named variables, and regions
// formed as finite unions of boxes.
//
// Boxes and regions are immutable values. Every operation returns a new
// value; callers never observe in-place mutation. A region with zero boxes
// is the empty region and represents infeasibility, not the absence of a
// constraint.
package region

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Interval is a closed interval [Lo, Hi] on one variable.
type Interval struct {
	Lo float64
	Hi float64
}

// Width returns Hi - Lo. A degenerate (point) interval has width zero.
func (iv Interval) Width() float64 {
	return iv.Hi - iv.Lo
}

// Contains reports whether other lies entirely inside iv.
func (iv Interval) Contains(other Interval) bool {
	return iv.Lo <= other.Lo && other.Hi <= iv.Hi
}

// Intersect returns the overlap of two intervals. ok is false when the
// intervals are disjoint.
func (iv Interval) Intersect(other Interval) (Interval, bool) {
	lo := math.Max(iv.Lo, other.Lo)
	hi := math.Min(iv.Hi, other.Hi)
	if lo > hi {
		return Interval{}, false
	}
	return Interval{Lo: lo, Hi: hi}, true
}

// Box is an axis-aligned hyperrectangle: a total mapping from its declared
// variable set to closed intervals. A box with a point interval on some
// variable is valid (degenerate, not an error).
type Box struct {
	bounds map[string]Interval
}

// NewBox builds a box from variable bounds. It returns an error if any
// interval has Lo > Hi or any bound is NaN.
func NewBox(bounds map[string]Interval) (Box, error) {
	m := make(map[string]Interval, len(bounds))
	for name, iv := range bounds {
		if math.IsNaN(iv.Lo) || math.IsNaN(iv.Hi) {
			return Box{}, fmt.Errorf("variable %q: bound is NaN", name)
		}
		if iv.Lo > iv.Hi {
			return Box{}, fmt.Errorf("variable %q: lower bound %g exceeds upper bound %g", name, iv.Lo, iv.Hi)
		}
		m[name] = iv
	}
	return Box{bounds: m}, nil
}

// MustBox is NewBox for statically known bounds; it panics on invalid input.
// Intended for scenario definitions and tests.
func MustBox(bounds map[string]Interval) Box {
	b, err := NewBox(bounds)
	if err != nil {
		panic(err)
	}
	return b
}

// Variables returns the declared variable names in sorted order.
func (b Box) Variables() []string {
	names := make([]string, 0, len(b.bounds))
	for name := range b.bounds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Interval returns the bound interval for a variable, if declared.
func (b Box) Interval(name string) (Interval, bool) {
	iv, ok := b.bounds[name]
	return iv, ok
}

// Len returns the number of declared variables.
func (b Box) Len() int {
	return len(b.bounds)
}

// sameVariables reports whether both boxes declare exactly the same
// variable set.
func (b Box) sameVariables(other Box) bool {
	if len(b.bounds) != len(other.bounds) {
		return false
	}
	for name := range b.bounds {
		if _, ok := other.bounds[name]; !ok {
			return false
		}
	}
	return true
}

// Equal reports exact bound-for-bound equality on the full variable set.
// This is the dedup comparison: no tolerance is applied.
func (b Box) Equal(other Box) bool {
	if !b.sameVariables(other) {
		return false
	}
	for name, iv := range b.bounds {
		o := other.bounds[name]
		if iv.Lo != o.Lo || iv.Hi != o.Hi {
			return false
		}
	}
	return true
}

// Contains reports whether other lies entirely inside b. The boxes must
// declare the same variable set; otherwise Contains is false.
func (b Box) Contains(other Box) bool {
	if !b.sameVariables(other) {
		return false
	}
	for name, iv := range b.bounds {
		if !iv.Contains(other.bounds[name]) {
			return false
		}
	}
	return true
}

// Intersect returns the overlap of two boxes over the same variable set.
// ok is false when the variable sets differ or the boxes are disjoint.
func (b Box) Intersect(other Box) (Box, bool) {
	if !b.sameVariables(other) {
		return Box{}, false
	}
	m := make(map[string]Interval, len(b.bounds))
	for name, iv := range b.bounds {
		overlap, ok := iv.Intersect(other.bounds[name])
		if !ok {
			return Box{}, false
		}
		m[name] = overlap
	}
	return Box{bounds: m}, true
}

// Volume returns the product of interval widths. A degenerate box has
// volume zero.
func (b Box) Volume() float64 {
	if len(b.bounds) == 0 {
		return 0
	}
	v := 1.0
	for _, iv := range b.bounds {
		v *= iv.Width()
	}
	return v
}

// Project returns a box restricted to the given variables. Variables not
// declared on b are ignored. ok is false when nothing remains.
func (b Box) Project(keep []string) (Box, bool) {
	m := make(map[string]Interval)
	for _, name := range keep {
		if iv, ok := b.bounds[name]; ok {
			m[name] = iv
		}
	}
	if len(m) == 0 {
		return Box{}, false
	}
	return Box{bounds: m}, true
}

// String renders the box as "{x∈[0, 10], y∈[1, 2]}" with variables sorted.
func (b Box) String() string {
	names := b.Variables()
	parts := make([]string, 0, len(names))
	for _, name := range names {
		iv := b.bounds[name]
		parts = append(parts, fmt.Sprintf("%s∈[%g, %g]", name, iv.Lo, iv.Hi))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
