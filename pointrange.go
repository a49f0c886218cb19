package xlgrid

import "iter"

// PointRange is an inclusive rectangle of points. NewPointRange keeps
// Start at the top-left and End at the bottom-right. A range whose Start lies
// past its End on either axis is empty.
type PointRange struct {
	Start Point
	End   Point
}

// NewPointRange creates a normalized range between two arbitrary corners.
func NewPointRange(source, target Point) PointRange {
	return PointRange{
		Start: Point{Row: min(source.Row, target.Row), Column: min(source.Column, target.Column)},
		End:   Point{Row: max(source.Row, target.Row), Column: max(source.Column, target.Column)},
	}
}

// SinglePointRange returns the range covering only p.
func SinglePointRange(p Point) PointRange {
	return PointRange{Start: p, End: p}
}

// IsEmpty reports whether the range covers no points.
func (r PointRange) IsEmpty() bool {
	return r.Start.Row > r.End.Row || r.Start.Column > r.End.Column
}

// Rows returns the number of rows covered, 0 for an empty range.
func (r PointRange) Rows() int {
	if r.IsEmpty() {
		return 0
	}
	return r.End.Row - r.Start.Row + 1
}

// Columns returns the number of columns covered, 0 for an empty range.
func (r PointRange) Columns() int {
	if r.IsEmpty() {
		return 0
	}
	return r.End.Column - r.Start.Column + 1
}

// Size returns the number of points in the range.
func (r PointRange) Size() int {
	return r.Rows() * r.Columns()
}

// Contains reports whether p lies inside the range, bounds inclusive.
func (r PointRange) Contains(p Point) bool {
	return p.Row >= r.Start.Row && p.Column >= r.Start.Column &&
		p.Row <= r.End.Row && p.Column <= r.End.Column
}

// Points yields every point of the range in row-major order.
func (r PointRange) Points() iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for row := r.Start.Row; row <= r.End.Row; row++ {
			for column := r.Start.Column; column <= r.End.Column; column++ {
				if !yield(Point{Row: row, Column: column}) {
					return
				}
			}
		}
	}
}

// Slice collects Points into a slice; never nil.
func (r PointRange) Slice() []Point {
	points := make([]Point, 0, r.Size())
	for p := range r.Points() {
		points = append(points, p)
	}
	return points
}

// Mask clips r to its intersection with bound. Disjoint ranges produce an
// empty range.
func (r PointRange) Mask(bound PointRange) PointRange {
	return PointRange{
		Start: Point{Row: max(r.Start.Row, bound.Start.Row), Column: max(r.Start.Column, bound.Start.Column)},
		End:   Point{Row: min(r.End.Row, bound.End.Row), Column: min(r.End.Column, bound.End.Column)},
	}
}

// String formats the range as "A1:B2".
func (r PointRange) String() string {
	return r.Start.String() + ":" + r.End.String()
}
