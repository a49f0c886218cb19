package xlgrid

import (
	"errors"
	"fmt"
)

// Resolver supplies cell values to an Evaluator.
type Resolver interface {
	// CellValue returns the computed value at p, nil for an empty cell.
	CellValue(p Point) any
	// RangeValues returns the computed values of the rectangle from start to
	// end in row-major order.
	RangeValues(start, end Point) []any
}

// MatrixResolver resolves values from a data matrix, evaluating formula
// cells on demand. A formula that fails yields a *FormulaError value for
// its cell only; a reference cycle yields #REF!.
//
// Results are memoized, so a MatrixResolver describes one snapshot of the
// data. It is not safe for concurrent use.
type MatrixResolver[C CellData] struct {
	data      Matrix[C]
	evaluator Evaluator
	values    map[Point]any
	visiting  map[Point]bool
}

// NewResolver creates a MatrixResolver over data. A nil evaluator defaults
// to NewEvaluator().
func NewResolver[C CellData](data Matrix[C], evaluator Evaluator) *MatrixResolver[C] {
	if evaluator == nil {
		evaluator = NewEvaluator()
	}
	return &MatrixResolver[C]{
		data:      data,
		evaluator: evaluator,
		values:    make(map[Point]any),
		visiting:  make(map[Point]bool),
	}
}

// CellValue returns the value at p, computing it when the cell holds a
// formula.
func (r *MatrixResolver[C]) CellValue(p Point) any {
	cell, ok := r.data.Get(p)
	if !ok {
		return nil
	}
	v := cell.CellValue()
	if !IsFormulaValue(v) {
		return v
	}
	if computed, ok := r.values[p]; ok {
		return computed
	}
	if r.visiting[p] {
		return NewFormulaError(ErrorCodeRef, "circular reference at "+p.String())
	}
	r.visiting[p] = true
	computed := r.compute(p, ExtractFormula(v.(string)))
	delete(r.visiting, p)
	r.values[p] = computed
	return computed
}

// RangeValues returns the computed values of a rectangle in row-major
// order. Positions outside the data are nil.
func (r *MatrixResolver[C]) RangeValues(start, end Point) []any {
	rng := NewPointRange(start, end)
	values := make([]any, 0, rng.Size())
	for p := range rng.Points() {
		values = append(values, r.CellValue(p))
	}
	return values
}

// compute evaluates one formula. Errors and panics are converted into a
// *FormulaError value.
func (r *MatrixResolver[C]) compute(p Point, formula string) (value any) {
	defer func() {
		if rec := recover(); rec != nil {
			value = NewFormulaError(ErrorCodeOther, fmt.Sprintf("%s: %v", p, rec))
		}
	}()
	v, err := r.evaluator.Evaluate(formula, r)
	if err != nil {
		var fe *FormulaError
		if errors.As(err, &fe) {
			return fe
		}
		return NewFormulaError(ErrorCodeOther, fmt.Sprintf("%s: %v", p, err))
	}
	return v
}
