package region

import (
	"fmt"
	"math"
)

// Region is a finite union of boxes. Insertion order is irrelevant and no
// two boxes in a region are bound-for-bound identical: exact duplicates are
// dropped on construction and on every union. Repeated propagation
// naturally regenerates previously seen boxes, and the number of MILPs
// built from a region is its box count, so dedup bounds both memory and
// solver work.
type Region struct {
	boxes []Box
}

// Empty returns the empty region. It represents infeasibility, not the
// absence of a constraint.
func Empty() Region {
	return Region{}
}

// New builds a region from boxes, dropping exact duplicates.
func New(boxes ...Box) Region {
	r := Region{}
	for _, b := range boxes {
		r = r.Add(b)
	}
	return r
}

// IsEmpty reports whether the region has no boxes.
func (r Region) IsEmpty() bool {
	return len(r.boxes) == 0
}

// Len returns the number of boxes in the union.
func (r Region) Len() int {
	return len(r.boxes)
}

// Boxes returns a copy of the region's boxes.
func (r Region) Boxes() []Box {
	out := make([]Box, len(r.boxes))
	copy(out, r.boxes)
	return out
}

// Add returns the region with one candidate box inserted. The candidate is
// compared against every existing box for exact bound equality; duplicates
// are dropped.
func (r Region) Add(b Box) Region {
	for _, existing := range r.boxes {
		if existing.Equal(b) {
			return r
		}
	}
	boxes := make([]Box, len(r.boxes), len(r.boxes)+1)
	copy(boxes, r.boxes)
	return Region{boxes: append(boxes, b)}
}

// Union returns the set-union of two regions with dedup applied.
func (r Region) Union(other Region) Region {
	out := r
	for _, b := range other.boxes {
		out = out.Add(b)
	}
	return out
}

// Intersect returns the pairwise intersection of the two unions. Boxes
// over differing variable sets do not intersect and contribute nothing.
func (r Region) Intersect(other Region) Region {
	out := Region{}
	for _, a := range r.boxes {
		for _, b := range other.boxes {
			if overlap, ok := a.Intersect(b); ok {
				out = out.Add(overlap)
			}
		}
	}
	return out
}

// ContainsBox reports whether some single box of r covers b entirely.
// This is conservative: coverage split across several boxes is not
// detected.
func (r Region) ContainsBox(b Box) bool {
	for _, existing := range r.boxes {
		if existing.Contains(b) {
			return true
		}
	}
	return false
}

// Covers reports whether every box of other is covered by some box of r.
// Used for monotonicity checks against a baseline region. The empty region
// is covered by anything; nothing non-empty is covered by the empty
// region.
func (r Region) Covers(other Region) bool {
	if other.IsEmpty() {
		return true
	}
	if r.IsEmpty() {
		return false
	}
	for _, b := range other.boxes {
		if !r.ContainsBox(b) {
			return false
		}
	}
	return true
}

// Equal reports order-independent box-set equality. This is the fixpoint
// comparison: exact bounds, no tolerance.
func (r Region) Equal(other Region) bool {
	if len(r.boxes) != len(other.boxes) {
		return false
	}
	matched := make([]bool, len(other.boxes))
outer:
	for _, a := range r.boxes {
		for i, b := range other.boxes {
			if !matched[i] && a.Equal(b) {
				matched[i] = true
				continue outer
			}
		}
		return false
	}
	return true
}

// Volume returns the sum of box volumes. Overlapping boxes are counted
// once per box, so this may overcount; it is used for monotonicity metrics
// only.
func (r Region) Volume() float64 {
	v := 0.0
	for _, b := range r.boxes {
		v += b.Volume()
	}
	return v
}

// Project returns the region restricted to the given variables, dropping
// boxes that declare none of them.
func (r Region) Project(keep []string) Region {
	out := Region{}
	for _, b := range r.boxes {
		if p, ok := b.Project(keep); ok {
			out = out.Add(p)
		}
	}
	return out
}

// Clip narrows every box of r to the bounds of b on the variables both
// declare; variables not declared on b are left untouched. Boxes that end
// up disjoint from b on some shared variable are dropped. This is the
// intersection-narrowing merge used on a contract's strengthened side.
func (r Region) Clip(b Box) Region {
	out := Region{}
	for _, existing := range r.boxes {
		m := make(map[string]Interval, len(existing.bounds))
		disjoint := false
		for name, iv := range existing.bounds {
			if clip, ok := b.Interval(name); ok {
				overlap, ok := iv.Intersect(clip)
				if !ok {
					disjoint = true
					break
				}
				m[name] = overlap
			} else {
				m[name] = iv
			}
		}
		if !disjoint {
			out = out.Add(Box{bounds: m})
		}
	}
	return out
}

// Envelope returns the axis-aligned bounding box of the union: per
// variable, the min lower and max upper bound across all boxes declaring
// it. ok is false on the empty region.
func (r Region) Envelope() (Box, bool) {
	if r.IsEmpty() {
		return Box{}, false
	}
	m := make(map[string]Interval)
	for _, b := range r.boxes {
		for _, name := range b.Variables() {
			iv, _ := b.Interval(name)
			if cur, ok := m[name]; ok {
				m[name] = Interval{Lo: math.Min(cur.Lo, iv.Lo), Hi: math.Max(cur.Hi, iv.Hi)}
			} else {
				m[name] = iv
			}
		}
	}
	return Box{bounds: m}, true
}

// Subtract returns r with every box of other carved out. The result is
// again a union of axis-aligned boxes. Boxes over differing variable sets
// are kept unchanged.
func (r Region) Subtract(other Region) Region {
	if other.IsEmpty() {
		return r
	}
	remaining := r.boxes
	for _, cut := range other.boxes {
		var next []Box
		for _, b := range remaining {
			next = append(next, subtractBox(b, cut)...)
		}
		remaining = next
	}
	return New(remaining...)
}

// subtractBox carves cut out of b, producing the covering set of boxes for
// b \ cut. Dimension by dimension, the part of b before and after the
// overlap is split off and the middle slab is narrowed to the overlap.
func subtractBox(b, cut Box) []Box {
	if !b.sameVariables(cut) {
		return []Box{b}
	}
	overlap, ok := b.Intersect(cut)
	if !ok {
		return []Box{b}
	}
	if cut.Contains(b) {
		return nil
	}

	var pieces []Box
	current := make(map[string]Interval, len(b.bounds))
	for name, iv := range b.bounds {
		current[name] = iv
	}
	for _, name := range b.Variables() {
		full := b.bounds[name]
		ov := overlap.bounds[name]
		if full.Lo < ov.Lo {
			piece := cloneBounds(current)
			piece[name] = Interval{Lo: full.Lo, Hi: ov.Lo}
			pieces = append(pieces, Box{bounds: piece})
		}
		if ov.Hi < full.Hi {
			piece := cloneBounds(current)
			piece[name] = Interval{Lo: ov.Hi, Hi: full.Hi}
			pieces = append(pieces, Box{bounds: piece})
		}
		current[name] = ov
	}
	return pieces
}

func cloneBounds(m map[string]Interval) map[string]Interval {
	out := make(map[string]Interval, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// String renders the region as a box count plus up to three boxes.
func (r Region) String() string {
	if r.IsEmpty() {
		return "Region(∅)"
	}
	s := fmt.Sprintf("Region(%d box", len(r.boxes))
	if len(r.boxes) > 1 {
		s += "es"
	}
	s += ")"
	return s
}
