package xlgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFormulaValue(t *testing.T) {
	assert.True(t, IsFormulaValue("=A1+1"))
	assert.True(t, IsFormulaValue("="))
	assert.False(t, IsFormulaValue("A1"))
	assert.False(t, IsFormulaValue(" =A1"))
	assert.False(t, IsFormulaValue(42))
	assert.False(t, IsFormulaValue(nil))
}

func TestExtractFormula(t *testing.T) {
	assert.Equal(t, "SUM(A1:A3)", ExtractFormula("=SUM(A1:A3)"))
	assert.Equal(t, "plain", ExtractFormula("plain"))
}

func TestReferencesForFormula(t *testing.T) {
	tests := []struct {
		formula string
		want    []Point
	}{
		{"A1+B2", []Point{{0, 0}, {1, 1}}},
		{"SUM(A1:B3)*$C$1", []Point{{0, 0}, {2, 1}, {0, 2}}},
		{"AB$12", []Point{{11, 27}}},
		{"1+2", []Point{}},
		{"A0+B1", []Point{{0, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.formula, func(t *testing.T) {
			assert.Equal(t, tt.want, ReferencesForFormula(tt.formula))
		})
	}
}

func TestBindingsForCell(t *testing.T) {
	assert.Equal(t, []Point{{0, 0}, {0, 1}}, BindingsForCell(Cell{Value: "=A1+B1"}))
	assert.Nil(t, BindingsForCell(Cell{Value: "A1+B1"}))
	assert.Nil(t, BindingsForCell(Cell{Value: 3.5}))
	assert.Nil(t, BindingsForCell(Cell{}))
}

func TestDependents(t *testing.T) {
	bindings := PointMapOf(map[Point]PointSet{
		{0, 2}: NewPointSet(Point{0, 0}, Point{0, 1}),
		{1, 2}: NewPointSet(Point{1, 0}),
		{2, 2}: NewPointSet(Point{0, 0}),
	})
	assert.Equal(t, []Point{{0, 2}, {2, 2}}, Dependents(bindings, Origin).Points())
	assert.True(t, Dependents(bindings, Point{5, 5}).IsEmpty())
}

func TestReverseBindings(t *testing.T) {
	bindings := PointMapOf(map[Point]PointSet{
		{0, 2}: NewPointSet(Point{0, 0}, Point{0, 1}),
		{1, 2}: NewPointSet(Point{0, 0}),
	})
	reverse := ReverseBindings(bindings)
	assert.Equal(t, []Point{{0, 0}, {0, 1}}, reverse.Points())
	deps, _ := reverse.Get(Origin)
	assert.Equal(t, []Point{{0, 2}, {1, 2}}, deps.Points())
}

func TestIsStale(t *testing.T) {
	s := NewState(grid([]any{1, "=A1*2"}))
	s.Bindings = PointMapOf(map[Point]PointSet{{0, 1}: NewPointSet(Origin)})
	assert.False(t, IsStale(s, Point{0, 1}), "nothing changed yet")

	s.LastChanged = &Point{0, 0}
	assert.True(t, IsStale(s, Point{0, 1}))
	assert.False(t, IsStale(s, Origin))

	s.LastChanged = &Point{0, 1}
	assert.False(t, IsStale(s, Point{0, 1}))
}
