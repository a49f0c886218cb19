package xlgrid

// Mode is the interaction mode of the grid.
type Mode string

const (
	ModeView Mode = "view"
	ModeEdit Mode = "edit"
)

// Change is one cell-level diff of a commit. A nil side means no cell.
type Change[C any] struct {
	Prev *C
	Next *C
}

// State is the complete engine state. It is a value: transitions never
// modify a State, they describe the next one with a Patch.
type State[C CellData] struct {
	Data      Matrix[C]
	Active    *Point      // focused cell, nil when none
	Selected  *PointRange // selection rectangle, nil when none
	Mode      Mode
	Dragging  bool
	Cut       bool // set between a cut and its paste
	HasPasted bool
	Copied    PointMap[C]
	// Bindings maps a cell to the points its formula references.
	Bindings    PointMap[PointSet]
	LastChanged *Point
	// LastCommit holds only the most recent batch of changes.
	LastCommit []Change[C]
}

// NewState returns the initial state for data: view mode, nothing active.
func NewState[C CellData](data Matrix[C]) State[C] {
	return State[C]{Data: data, Mode: ModeView}
}

// IsActive reports whether p is the active point.
func (s State[C]) IsActive(p Point) bool {
	return s.Active != nil && *s.Active == p
}

// ActiveCell returns the cell at the active point.
func (s State[C]) ActiveCell() (C, bool) {
	if s.Active == nil {
		var zero C
		return zero, false
	}
	return s.Data.Get(*s.Active)
}

// activeReadOnly reports whether the active cell rejects edits.
func (s State[C]) activeReadOnly() bool {
	cell, ok := s.ActiveCell()
	return ok && cell.IsReadOnly()
}

// SelectedPoints returns the points of the selection in row-major order,
// an empty slice when nothing is selected.
func (s State[C]) SelectedPoints() []Point {
	if s.Selected == nil {
		return []Point{}
	}
	return s.Selected.Slice()
}

// cellAt returns a copy of the cell at p, nil when there is none.
func (s State[C]) cellAt(p *Point) *C {
	if p == nil {
		return nil
	}
	cell, ok := s.Data.Get(*p)
	if !ok {
		return nil
	}
	return &cell
}

func ptr[T any](v T) *T {
	return &v
}
