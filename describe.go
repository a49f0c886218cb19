package xlgrid

import (
	"fmt"
	"strings"
)

// Describe returns a human-readable summary of a state: size, mode, focus,
// selection, clipboard snapshot and the formula cells with the points they
// reference. Useful for debugging an embedding.
func Describe[C CellData](s State[C]) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Grid %s %s mode\n", s.Data.Size(), s.Mode)

	if s.Active != nil {
		fmt.Fprintf(&b, "  Active: %s", s.Active)
		if cell, ok := s.ActiveCell(); ok {
			fmt.Fprintf(&b, " = %q", CellText(cell))
			if cell.IsReadOnly() {
				b.WriteString(" (read-only)")
			}
		}
		b.WriteByte('\n')
	}
	if s.Selected != nil {
		fmt.Fprintf(&b, "  Selected: %s (%d cells)\n", s.Selected, s.Selected.Size())
	}
	if !s.Copied.IsEmpty() {
		verb := "Copied"
		if s.Cut {
			verb = "Cut"
		}
		fmt.Fprintf(&b, "  %s: %d cells\n", verb, s.Copied.Len())
	}
	if s.Dragging {
		b.WriteString("  Dragging\n")
	}

	var formulas []string
	for p, cell := range s.Data.All() {
		v, ok := cell.CellValue().(string)
		if !ok || !IsFormulaValue(v) {
			continue
		}
		line := fmt.Sprintf("    %s: %s", p, v)
		if refs, ok := s.Bindings.Get(p); ok && !refs.IsEmpty() {
			labels := make([]string, 0, refs.Len())
			for ref := range refs.All() {
				labels = append(labels, ref.String())
			}
			line += " -> " + strings.Join(labels, ", ")
		}
		if IsStale(s, p) {
			line += " (stale)"
		}
		formulas = append(formulas, line)
	}
	if len(formulas) > 0 {
		b.WriteString("  Formulas:\n")
		for _, f := range formulas {
			b.WriteString(f)
			b.WriteByte('\n')
		}
	}

	if len(s.LastCommit) > 0 {
		fmt.Fprintf(&b, "  Last commit: %d changes\n", len(s.LastCommit))
	}
	return b.String()
}
