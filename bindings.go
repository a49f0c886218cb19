package xlgrid

// BindingsForCell returns the points the formula of cell references, or nil
// when the cell does not hold a formula.
func BindingsForCell[C CellData](cell C) []Point {
	v, ok := cell.CellValue().(string)
	if !ok || !IsFormulaValue(v) {
		return nil
	}
	return ReferencesForFormula(ExtractFormula(v))
}

// Dependents returns the cells whose formulas reference p.
func Dependents(bindings PointMap[PointSet], p Point) PointSet {
	var deps PointSet
	for cell, refs := range bindings.All() {
		if refs.Has(p) {
			deps.m.put(cell, struct{}{})
		}
	}
	return deps
}

// ReverseBindings inverts bindings: every referenced point maps to the set
// of cells referencing it.
func ReverseBindings(bindings PointMap[PointSet]) PointMap[PointSet] {
	reverse := make(map[Point]PointSet)
	for cell, refs := range bindings.All() {
		for ref := range refs.All() {
			deps := reverse[ref]
			deps.m.put(cell, struct{}{})
			reverse[ref] = deps
		}
	}
	return PointMapOf(reverse)
}

// IsStale reports whether the value shown at p depends on the most recently
// changed cell and must be recomputed.
func IsStale[C CellData](s State[C], p Point) bool {
	if s.LastChanged == nil {
		return false
	}
	refs, ok := s.Bindings.Get(p)
	return ok && refs.Has(*s.LastChanged)
}
