package xlgrid

import (
	"iter"
	"maps"
	"slices"
)

// PointSet is a persistent set of points.
type PointSet struct {
	m PointMap[struct{}]
}

// NewPointSet creates a set of the given points.
func NewPointSet(points ...Point) PointSet {
	var s PointSet
	for _, p := range points {
		s.m.put(p, struct{}{})
	}
	return s
}

// Has reports whether p is a member.
func (s PointSet) Has(p Point) bool {
	return s.m.Has(p)
}

// Len returns the number of members.
func (s PointSet) Len() int {
	return s.m.Len()
}

// IsEmpty reports whether the set has no members.
func (s PointSet) IsEmpty() bool {
	return s.m.IsEmpty()
}

// Add returns a copy of s including p.
func (s PointSet) Add(p Point) PointSet {
	if s.Has(p) {
		return s
	}
	return PointSet{m: s.m.Set(p, struct{}{})}
}

// Remove returns a copy of s without p.
func (s PointSet) Remove(p Point) PointSet {
	return PointSet{m: s.m.Unset(p)}
}

// Filter returns the members for which keep returns true.
func (s PointSet) Filter(keep func(Point) bool) PointSet {
	return PointSet{m: s.m.Filter(func(_ struct{}, p Point) bool { return keep(p) })}
}

// All yields the members in row-major order.
func (s PointSet) All() iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for p := range s.m.All() {
			if !yield(p) {
				return
			}
		}
	}
}

// Points returns the members in row-major order.
func (s PointSet) Points() []Point {
	return s.m.Points()
}

// Min returns the point on the lowest row, at that row's lowest column.
// It returns false for an empty set.
func (s PointSet) Min() (Point, bool) {
	if s.IsEmpty() {
		return Point{}, false
	}
	row := slices.Min(slices.Collect(maps.Keys(s.m.rows)))
	column := slices.Min(slices.Collect(maps.Keys(s.m.rows[row])))
	return Point{Row: row, Column: column}, true
}

// Max returns the point on the highest row, at that row's highest column.
// It returns false for an empty set.
func (s PointSet) Max() (Point, bool) {
	if s.IsEmpty() {
		return Point{}, false
	}
	row := slices.Max(slices.Collect(maps.Keys(s.m.rows)))
	column := slices.Max(slices.Collect(maps.Keys(s.m.rows[row])))
	return Point{Row: row, Column: column}, true
}

// ToRange returns the smallest range containing every member. It returns
// false for an empty set.
func (s PointSet) ToRange() (PointRange, bool) {
	if s.IsEmpty() {
		return PointRange{}, false
	}
	first := true
	var r PointRange
	for p := range s.m.All() {
		if first {
			r = SinglePointRange(p)
			first = false
			continue
		}
		r.Start.Row = min(r.Start.Row, p.Row)
		r.Start.Column = min(r.Start.Column, p.Column)
		r.End.Row = max(r.End.Row, p.Row)
		r.End.Column = max(r.End.Column, p.Column)
	}
	return r, true
}

// PointSetOf returns the set of points bound in m.
func PointSetOf[V any](m PointMap[V]) PointSet {
	var s PointSet
	for p := range m.All() {
		s.m.put(p, struct{}{})
	}
	return s
}
