package xlgrid

import (
	"regexp"
	"strings"
)

// FormulaPrefix marks a cell value as a formula.
const FormulaPrefix = "="

// cellRefRegex matches cell references in formulas (e.g., A1, $A$1, AB$12).
var cellRefRegex = regexp.MustCompile(`\$?[A-Z]+\$?[0-9]+`)

// IsFormulaValue reports whether value is a formula: a string starting with
// FormulaPrefix.
func IsFormulaValue(value any) bool {
	s, ok := value.(string)
	return ok && strings.HasPrefix(s, FormulaPrefix)
}

// ExtractFormula strips FormulaPrefix from a formula value.
func ExtractFormula(value string) string {
	return strings.TrimPrefix(value, FormulaPrefix)
}

// ReferencesForFormula returns the points referenced by formula, in order of
// appearance. Matches that do not decode to a cell (A0, columns past XFD)
// are skipped. A range such as A1:B2 yields its two corners.
func ReferencesForFormula(formula string) []Point {
	matches := cellRefRegex.FindAllString(formula, -1)
	refs := make([]Point, 0, len(matches))
	for _, m := range matches {
		p, err := ParsePoint(m)
		if err != nil {
			continue
		}
		refs = append(refs, p)
	}
	return refs
}
