package xlgrid

// Listener is notified after a Session applies a transition. Implement this
// interface to re-render, persist data or recompute formulas as the grid
// changes.
type Listener[C CellData] interface {
	// OnChange is called when the data changes from inside the grid. Data
	// replaced with Session.SetData is not reported.
	OnChange(data Matrix[C])

	// OnModeChange is called when the mode changes.
	OnModeChange(mode Mode)

	// OnSelect is called when the selection changes, with the selected
	// points in row-major order (empty when nothing is selected).
	OnSelect(points []Point)

	// OnActivate is called when a cell becomes active.
	OnActivate(p Point)

	// OnCellCommit is called once per change of a commit. A nil cell means
	// there was none.
	OnCellCommit(prev, next *C, active *Point)
}

// ListenerFuncs adapts optional callbacks to Listener. Nil callbacks are
// skipped.
type ListenerFuncs[C CellData] struct {
	Change     func(data Matrix[C])
	ModeChange func(mode Mode)
	Select     func(points []Point)
	Activate   func(p Point)
	CellCommit func(prev, next *C, active *Point)
}

func (f ListenerFuncs[C]) OnChange(data Matrix[C]) {
	if f.Change != nil {
		f.Change(data)
	}
}

func (f ListenerFuncs[C]) OnModeChange(mode Mode) {
	if f.ModeChange != nil {
		f.ModeChange(mode)
	}
}

func (f ListenerFuncs[C]) OnSelect(points []Point) {
	if f.Select != nil {
		f.Select(points)
	}
}

func (f ListenerFuncs[C]) OnActivate(p Point) {
	if f.Activate != nil {
		f.Activate(p)
	}
}

func (f ListenerFuncs[C]) OnCellCommit(prev, next *C, active *Point) {
	if f.CellCommit != nil {
		f.CellCommit(prev, next, active)
	}
}
