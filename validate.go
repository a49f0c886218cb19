package xlgrid

import "fmt"

// Severity indicates the severity of a validation issue.
type Severity int

const (
	SeverityError   Severity = iota // formula will evaluate to an error
	SeverityWarning                 // formula may produce unexpected results
)

// ValidationIssue represents a single problem found in a formula cell.
type ValidationIssue struct {
	Severity Severity
	Point    Point
	Message  string
}

// String formats the issue as "[ERROR] A2: message" or "[WARN] ...".
func (v ValidationIssue) String() string {
	sev := "ERROR"
	if v.Severity == SeverityWarning {
		sev = "WARN"
	}
	return fmt.Sprintf("[%s] %s: %s", sev, v.Point, v.Message)
}

// ValidateFormulas checks every formula cell of data without evaluating it.
// Syntax errors, unknown functions and self references are errors;
// references outside data are warnings. Issues are in row-major order.
func ValidateFormulas[C CellData](data Matrix[C]) []ValidationIssue {
	var issues []ValidationIssue
	bounds := data.Range()
	for p, cell := range data.All() {
		v, ok := cell.CellValue().(string)
		if !ok || !IsFormulaValue(v) {
			continue
		}
		formula := ExtractFormula(v)
		if issue := compileCheck(p, formula); issue != nil {
			issues = append(issues, *issue)
			continue
		}
		for _, ref := range ReferencesForFormula(formula) {
			switch {
			case ref == p:
				issues = append(issues, ValidationIssue{
					Severity: SeverityError,
					Point:    p,
					Message:  fmt.Sprintf("formula %q references its own cell", v),
				})
			case !bounds.Contains(ref):
				issues = append(issues, ValidationIssue{
					Severity: SeverityWarning,
					Point:    p,
					Message:  fmt.Sprintf("formula %q references %s outside the data %s", v, ref, data.Size()),
				})
			}
		}
	}
	return issues
}

// compileCheck compiles a formula for syntax checking and returns an issue if it fails.
func compileCheck(p Point, formula string) *ValidationIssue {
	if _, err := compileFormula(formula); err != nil {
		return &ValidationIssue{
			Severity: SeverityError,
			Point:    p,
			Message:  fmt.Sprintf("invalid formula %q: %s", FormulaPrefix+formula, err),
		}
	}
	return nil
}
