package xlgrid

import "fmt"

// CellData is the capability the engine needs from a cell payload. Anything
// else a payload carries is opaque to the engine.
type CellData interface {
	CellValue() any
	IsReadOnly() bool
}

// CellCodec converts between cell payloads and clipboard text.
type CellCodec[C CellData] interface {
	// FromText creates the cell for one pasted text field.
	FromText(text string) C
	// Merge lays an incoming pasted cell over the existing destination cell,
	// which is nil when the destination is empty. Fields set on incoming win,
	// the rest of existing is preserved.
	Merge(existing *C, incoming C) C
}

// Cell is the default cell payload.
type Cell struct {
	Value     any
	ReadOnly  bool
	ClassName string
}

// CellValue returns the stored value.
func (c Cell) CellValue() any { return c.Value }

// IsReadOnly reports whether edits to the cell are rejected.
func (c Cell) IsReadOnly() bool { return c.ReadOnly }

// cellCodec implements CellCodec for Cell.
type cellCodec struct{}

func (cellCodec) FromText(text string) Cell {
	return Cell{Value: text}
}

func (cellCodec) Merge(existing *Cell, incoming Cell) Cell {
	if existing == nil {
		return incoming
	}
	merged := *existing
	merged.Value = incoming.Value
	if incoming.ReadOnly {
		merged.ReadOnly = true
	}
	if incoming.ClassName != "" {
		merged.ClassName = incoming.ClassName
	}
	return merged
}

// CellText renders a cell for the clipboard: its value formatted with
// fmt.Sprint, or "" when the value is nil.
func CellText[C CellData](cell C) string {
	v := cell.CellValue()
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
