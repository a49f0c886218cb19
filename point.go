package xlgrid

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Point is a zero-based (row, column) coordinate in the grid.
type Point struct {
	Row    int
	Column int
}

// Origin is the top-left point of every grid.
var Origin = Point{}

// NewPoint creates a Point.
func NewPoint(row, column int) Point {
	return Point{Row: row, Column: column}
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{Row: p.Row + q.Row, Column: p.Column + q.Column}
}

// Sub returns p translated by -q.
func (p Point) Sub(q Point) Point {
	return Point{Row: p.Row - q.Row, Column: p.Column - q.Column}
}

// Less reports whether p comes before q in row-major order.
func (p Point) Less(q Point) bool {
	if p.Row != q.Row {
		return p.Row < q.Row
	}
	return p.Column < q.Column
}

// Valid reports whether both coordinates are non-negative.
func (p Point) Valid() bool {
	return p.Row >= 0 && p.Column >= 0
}

// Label formats the point in A1 notation: (0,0)→"A1", (9,27)→"AB10".
// Points that cannot be addressed in a workbook yield an empty string.
func (p Point) Label() string {
	name, err := excelize.CoordinatesToCellName(p.Column+1, p.Row+1)
	if err != nil {
		return ""
	}
	return name
}

// String formats the point as its A1 label, or "(row, column)" when it has none.
func (p Point) String() string {
	if label := p.Label(); label != "" {
		return label
	}
	return fmt.Sprintf("(%d, %d)", p.Row, p.Column)
}

// ParsePoint parses an A1-style cell label like "B3" or "$B$3".
func ParsePoint(label string) (Point, error) {
	name := strings.ReplaceAll(strings.TrimSpace(label), "$", "")
	if name == "" {
		return Point{}, fmt.Errorf("empty cell label")
	}
	col, row, err := excelize.CellNameToCoordinates(name)
	if err != nil {
		return Point{}, fmt.Errorf("invalid cell label %q: %w", label, err)
	}
	return Point{Row: row - 1, Column: col - 1}, nil
}
