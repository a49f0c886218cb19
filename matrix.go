package xlgrid

import (
	"fmt"
	"iter"
	"regexp"
	"strings"
)

// Default separators of the delimited text grid used as clipboard format.
const (
	DefaultHorizontalSeparator = "\t"
	DefaultVerticalSeparator   = "\n"
)

// DefaultVerticalPattern splits rows on any platform newline.
var DefaultVerticalPattern = regexp.MustCompile(`\r\n|\n|\r`)

// slot holds one matrix position. A zero slot is absent.
type slot[V any] struct {
	value V
	ok    bool
}

// Matrix is a 2-D grid of optional values. The column count of the whole
// matrix is the length of its first row; other rows may be shorter or nil,
// their missing positions are absent.
//
// The zero value is a matrix with no rows. Set, Unset, PadRows and Slice
// return new matrices and never modify the receiver.
type Matrix[V any] struct {
	rows [][]slot[V]
}

// Size is the dimensions of a matrix.
type Size struct {
	Rows    int
	Columns int
}

// String formats the Size as "(RxC)".
func (s Size) String() string {
	return fmt.Sprintf("(%dx%d)", s.Rows, s.Columns)
}

// NewMatrix creates a rows × columns matrix of absent values.
func NewMatrix[V any](rows, columns int) Matrix[V] {
	if rows <= 0 {
		return Matrix[V]{}
	}
	m := Matrix[V]{rows: make([][]slot[V], rows)}
	for i := range m.rows {
		m.rows[i] = make([]slot[V], max(columns, 0))
	}
	return m
}

// MatrixOf creates a matrix holding every value of rows. Ragged input is
// widened to its longest row.
func MatrixOf[V any](rows [][]V) Matrix[V] {
	var m Matrix[V]
	for r, values := range rows {
		if len(values) == 0 {
			m.mutableSet(Point{Row: r}, nil)
			continue
		}
		for c, v := range values {
			m.mutableSet(Point{Row: r, Column: c}, &v)
		}
	}
	return m
}

// mutableSet writes in place, growing the matrix as needed. A nil value
// only grows. It is reserved for building fresh matrices.
func (m *Matrix[V]) mutableSet(p Point, value *V) {
	for len(m.rows) <= p.Row {
		m.rows = append(m.rows, nil)
	}
	if m.rows[0] == nil {
		m.rows[0] = []slot[V]{}
	}
	if value == nil {
		return
	}
	if len(m.rows[0]) <= p.Column {
		m.rows[0] = append(m.rows[0], make([]slot[V], p.Column+1-len(m.rows[0]))...)
	}
	row := m.rows[p.Row]
	if len(row) <= p.Column {
		row = append(row, make([]slot[V], p.Column+1-len(row))...)
		m.rows[p.Row] = row
	}
	row[p.Column] = slot[V]{value: *value, ok: true}
}

// Size returns the row count and the column count of the first row.
func (m Matrix[V]) Size() Size {
	if len(m.rows) == 0 {
		return Size{}
	}
	return Size{Rows: len(m.rows), Columns: len(m.rows[0])}
}

// Has reports whether p is a valid position of the matrix.
func (m Matrix[V]) Has(p Point) bool {
	size := m.Size()
	return p.Valid() && p.Row < size.Rows && p.Column < size.Columns
}

// Get returns the value at p. It returns false when the position is absent
// or out of bounds.
func (m Matrix[V]) Get(p Point) (V, bool) {
	if !p.Valid() || p.Row >= len(m.rows) || p.Column >= len(m.rows[p.Row]) {
		var zero V
		return zero, false
	}
	s := m.rows[p.Row][p.Column]
	return s.value, s.ok
}

// Set returns a copy of m with value at p. Points beyond the current bounds
// grow the matrix first; negative points return m unchanged.
func (m Matrix[V]) Set(p Point, value V) Matrix[V] {
	if !p.Valid() {
		return m
	}
	next := Matrix[V]{rows: make([][]slot[V], max(len(m.rows), p.Row+1))}
	copy(next.rows, m.rows)

	if len(next.rows[0]) <= p.Column {
		first := make([]slot[V], p.Column+1)
		copy(first, next.rows[0])
		next.rows[0] = first
	}

	row := make([]slot[V], max(len(next.rows[p.Row]), p.Column+1))
	copy(row, next.rows[p.Row])
	row[p.Column] = slot[V]{value: value, ok: true}
	next.rows[p.Row] = row
	return next
}

// Unset returns a copy of m where p is absent. The matrix never shrinks.
func (m Matrix[V]) Unset(p Point) Matrix[V] {
	if _, ok := m.Get(p); !ok {
		return m
	}
	next := Matrix[V]{rows: make([][]slot[V], len(m.rows))}
	copy(next.rows, m.rows)
	row := make([]slot[V], len(m.rows[p.Row]))
	copy(row, m.rows[p.Row])
	row[p.Column] = slot[V]{}
	next.rows[p.Row] = row
	return next
}

// Slice copies the rectangle from start to end, both inclusive. Positions
// outside m are absent in the result.
func (m Matrix[V]) Slice(start, end Point) Matrix[V] {
	r := NewPointRange(start, end)
	sliced := NewMatrix[V](r.Rows(), r.Columns())
	for p := range r.Points() {
		if v, ok := m.Get(p); ok {
			d := p.Sub(r.Start)
			sliced.rows[d.Row][d.Column] = slot[V]{value: v, ok: true}
		}
	}
	return sliced
}

// PadRows grows m to at least rows × columns. Columns are added to the
// first row, rows are appended absent. It returns m when it is already
// large enough.
func (m Matrix[V]) PadRows(rows, columns int) Matrix[V] {
	size := m.Size()
	if size.Rows >= rows && size.Columns >= columns {
		return m
	}
	width := max(size.Columns, columns)
	// columns live in the first row, so widening an empty matrix needs one
	next := Matrix[V]{rows: make([][]slot[V], max(size.Rows, rows, 1))}
	copy(next.rows, m.rows)

	if size.Columns < width {
		first := make([]slot[V], width)
		if size.Rows > 0 {
			copy(first, m.rows[0])
		}
		next.rows[0] = first
	}
	for r := size.Rows; r < len(next.rows); r++ {
		if r == 0 {
			continue
		}
		next.rows[r] = make([]slot[V], width)
	}
	return next
}

// MaxPoint returns the bottom-right position. It is (-1, -1) for a matrix
// without positions.
func (m Matrix[V]) MaxPoint() Point {
	size := m.Size()
	if size.Rows == 0 || size.Columns == 0 {
		return Point{Row: -1, Column: -1}
	}
	return Point{Row: size.Rows - 1, Column: size.Columns - 1}
}

// Range returns the range of all valid positions. It is empty for a matrix
// without positions.
func (m Matrix[V]) Range() PointRange {
	return PointRange{Start: Origin, End: m.MaxPoint()}
}

// All yields every present value in row-major order.
func (m Matrix[V]) All() iter.Seq2[Point, V] {
	return func(yield func(Point, V) bool) {
		for r, row := range m.rows {
			for c, s := range row {
				if !s.ok {
					continue
				}
				if !yield(Point{Row: r, Column: c}, s.value) {
					return
				}
			}
		}
	}
}

// MapMatrix returns a matrix of the same shape with f applied to every
// present value. Absent positions stay absent.
func MapMatrix[V, W any](m Matrix[V], f func(V, Point) W) Matrix[W] {
	next := Matrix[W]{rows: make([][]slot[W], len(m.rows))}
	for r, row := range m.rows {
		if row == nil {
			continue
		}
		mapped := make([]slot[W], len(row))
		for c, s := range row {
			if s.ok {
				mapped[c] = slot[W]{value: f(s.value, Point{Row: r, Column: c}), ok: true}
			}
		}
		next.rows[r] = mapped
	}
	return next
}

// Join renders m as delimited text. Present values are formatted with
// fmt.Sprint, absent ones as the empty string.
func (m Matrix[V]) Join(horizontal, vertical string) string {
	var b strings.Builder
	size := m.Size()
	for r := 0; r < size.Rows; r++ {
		if r > 0 {
			b.WriteString(vertical)
		}
		for c := 0; c < size.Columns; c++ {
			if c > 0 {
				b.WriteString(horizontal)
			}
			if v, ok := m.Get(Point{Row: r, Column: c}); ok {
				b.WriteString(fmt.Sprint(v))
			}
		}
	}
	return b.String()
}

// Split parses tab/newline delimited text into a matrix, converting every
// field with transform.
func Split[V any](text string, transform func(string) V) Matrix[V] {
	return SplitWith(text, transform, DefaultHorizontalSeparator, DefaultVerticalPattern)
}

// SplitWith is Split with explicit separators.
func SplitWith[V any](text string, transform func(string) V, horizontal string, vertical *regexp.Regexp) Matrix[V] {
	var m Matrix[V]
	for r, line := range vertical.Split(text, -1) {
		for c, field := range strings.Split(line, horizontal) {
			v := transform(field)
			m.mutableSet(Point{Row: r, Column: c}, &v)
		}
	}
	return m
}

// clone copies every row so the result can be written in place with
// mutableSet and mutableUnset.
func (m Matrix[V]) clone() Matrix[V] {
	next := Matrix[V]{rows: make([][]slot[V], len(m.rows))}
	for r, row := range m.rows {
		if row != nil {
			next.rows[r] = append([]slot[V](nil), row...)
		}
	}
	return next
}

// mutableUnset makes p absent in place.
func (m *Matrix[V]) mutableUnset(p Point) {
	if _, ok := m.Get(p); ok {
		m.rows[p.Row][p.Column] = slot[V]{}
	}
}
