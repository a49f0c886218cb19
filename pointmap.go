package xlgrid

import (
	"iter"
	"maps"
	"slices"
)

// PointMap is a sparse, persistent map keyed by Point. Values are stored by
// row and then by column so row projections are cheap.
//
// The zero value is an empty map ready to use. Set, Unset, Filter and
// MapPointMap return new maps and never modify the receiver.
type PointMap[V any] struct {
	rows map[int]map[int]V
	size int
}

// PointMapOf builds a map from the given entries.
func PointMapOf[V any](entries map[Point]V) PointMap[V] {
	var m PointMap[V]
	for p, v := range entries {
		m.put(p, v)
	}
	return m
}

// PointMapFromMatrix builds a map of every present cell of matrix.
// Zero values (0, false, "") are present and therefore included.
func PointMapFromMatrix[V any](matrix Matrix[V]) PointMap[V] {
	var m PointMap[V]
	for p, v := range matrix.All() {
		m.put(p, v)
	}
	return m
}

// put writes in place. It is only used while building a fresh map.
func (m *PointMap[V]) put(p Point, v V) {
	if m.rows == nil {
		m.rows = make(map[int]map[int]V)
	}
	row, ok := m.rows[p.Row]
	if !ok {
		row = make(map[int]V)
		m.rows[p.Row] = row
	}
	if _, exists := row[p.Column]; !exists {
		m.size++
	}
	row[p.Column] = v
}

// Get returns the value bound to p.
func (m PointMap[V]) Get(p Point) (V, bool) {
	v, ok := m.rows[p.Row][p.Column]
	return v, ok
}

// Has reports whether p is bound.
func (m PointMap[V]) Has(p Point) bool {
	_, ok := m.rows[p.Row][p.Column]
	return ok
}

// Len returns the number of bound points.
func (m PointMap[V]) Len() int {
	return m.size
}

// IsEmpty reports whether no point is bound.
func (m PointMap[V]) IsEmpty() bool {
	return m.size == 0
}

// Set returns a copy of m with p bound to v.
func (m PointMap[V]) Set(p Point, v V) PointMap[V] {
	next := PointMap[V]{rows: make(map[int]map[int]V, len(m.rows)+1), size: m.size}
	maps.Copy(next.rows, m.rows)

	row := make(map[int]V, len(m.rows[p.Row])+1)
	maps.Copy(row, m.rows[p.Row])
	if _, exists := row[p.Column]; !exists {
		next.size++
	}
	row[p.Column] = v
	next.rows[p.Row] = row
	return next
}

// Unset returns a copy of m without p. A row left without columns is
// dropped. Unsetting an unbound point returns m itself.
func (m PointMap[V]) Unset(p Point) PointMap[V] {
	if !m.Has(p) {
		return m
	}
	next := PointMap[V]{rows: make(map[int]map[int]V, len(m.rows)), size: m.size - 1}
	maps.Copy(next.rows, m.rows)

	if len(m.rows[p.Row]) == 1 {
		delete(next.rows, p.Row)
		return next
	}
	row := maps.Clone(m.rows[p.Row])
	delete(row, p.Column)
	next.rows[p.Row] = row
	return next
}

// All yields every binding in row-major order.
func (m PointMap[V]) All() iter.Seq2[Point, V] {
	return func(yield func(Point, V) bool) {
		for _, r := range slices.Sorted(maps.Keys(m.rows)) {
			columns := m.rows[r]
			for _, c := range slices.Sorted(maps.Keys(columns)) {
				if !yield(Point{Row: r, Column: c}, columns[c]) {
					return
				}
			}
		}
	}
}

// Points returns the bound points in row-major order.
func (m PointMap[V]) Points() []Point {
	points := make([]Point, 0, m.size)
	for p := range m.All() {
		points = append(points, p)
	}
	return points
}

// Row returns the values bound in row, ordered by column.
func (m PointMap[V]) Row(row int) []V {
	columns := m.rows[row]
	values := make([]V, 0, len(columns))
	for _, c := range slices.Sorted(maps.Keys(columns)) {
		values = append(values, columns[c])
	}
	return values
}

// Column returns the values bound in column, ordered by row.
func (m PointMap[V]) Column(column int) []V {
	var values []V
	for _, r := range slices.Sorted(maps.Keys(m.rows)) {
		if v, ok := m.rows[r][column]; ok {
			values = append(values, v)
		}
	}
	return values
}

// Filter returns a map of the bindings for which keep returns true.
func (m PointMap[V]) Filter(keep func(V, Point) bool) PointMap[V] {
	var next PointMap[V]
	for p, v := range m.All() {
		if keep(v, p) {
			next.put(p, v)
		}
	}
	return next
}

// MapPointMap returns a map with f applied to every value of m.
func MapPointMap[V, W any](m PointMap[V], f func(V, Point) W) PointMap[W] {
	var next PointMap[W]
	for p, v := range m.All() {
		next.put(p, f(v, p))
	}
	return next
}

// ReducePointMap folds m in row-major order.
func ReducePointMap[V, A any](m PointMap[V], f func(A, V, Point) A, init A) A {
	acc := init
	for p, v := range m.All() {
		acc = f(acc, v, p)
	}
	return acc
}
