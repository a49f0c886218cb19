package xlgrid

// Transition computes the patch for one user intent. It returns nil when
// the intent does not apply to the state.
type Transition[C CellData] func(State[C]) *Patch[C]

// Edge is a side of the selection moved by ModifyEdge.
type Edge string

const (
	EdgeTop   Edge = "Top"
	EdgeDown  Edge = "Down"
	EdgeLeft  Edge = "Left"
	EdgeRight Edge = "Right"
)

// Engine holds the transitions of the grid. It keeps no state of its own:
// every method takes the current State and returns a *Patch, so one Engine
// can serve any number of grids.
type Engine[C CellData] struct {
	codec CellCodec[C]
	opts  *Options
	keys  [layerCount]keyTable[C]
}

// NewEngine creates an Engine for cells of type C.
func NewEngine[C CellData](codec CellCodec[C], opts ...Option) *Engine[C] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	e := &Engine[C]{codec: codec, opts: o}
	e.keys = buildKeyTables(e, o.keyMap)
	return e
}

// NewCellEngine creates an Engine for the default Cell payload.
func NewCellEngine(opts ...Option) *Engine[Cell] {
	return NewEngine[Cell](cellCodec{}, opts...)
}

// KeyMap returns the bindings the engine dispatches on.
func (e *Engine[C]) KeyMap() KeyMap {
	return e.opts.keyMap
}

// SetData replaces the data matrix. The active point survives only if it is
// still in bounds, the selection is clipped to the new bounds and bindings
// outside them are dropped.
func (e *Engine[C]) SetData(s State[C], data Matrix[C]) *Patch[C] {
	var active *Point
	if s.Active != nil && data.Has(*s.Active) {
		active = s.Active
	}
	inBounds := s.Bindings.Filter(func(_ PointSet, p Point) bool { return data.Has(p) })
	bindings := MapPointMap(inBounds, func(refs PointSet, _ Point) PointSet {
		return refs.Filter(data.Has)
	})
	return newPatch[C]().
		withData(data).
		withActive(active).
		withSelected(normalizeSelected(s.Selected, data)).
		withBindings(bindings)
}

// Select extends the selection from the active point to p.
func (e *Engine[C]) Select(s State[C], p Point) *Patch[C] {
	if s.Active == nil || *s.Active == p {
		return nil
	}
	selected := NewPointRange(p, *s.Active)
	return newPatch[C]().withSelected(&selected).withMode(ModeView)
}

// Activate focuses p. Activating the already active point enters edit
// mode unless its cell is read-only.
func (e *Engine[C]) Activate(s State[C], p Point) *Patch[C] {
	mode := ModeView
	if s.IsActive(p) && !s.activeReadOnly() {
		mode = ModeEdit
	}
	selected := SinglePointRange(p)
	return newPatch[C]().withSelected(&selected).withActive(ptr(p)).withMode(mode)
}

// Edit enters edit mode on the active cell.
func (e *Engine[C]) Edit(s State[C]) *Patch[C] {
	if s.Active == nil || s.activeReadOnly() {
		return nil
	}
	return newPatch[C]().withMode(ModeEdit)
}

// View returns to view mode.
func (e *Engine[C]) View(s State[C]) *Patch[C] {
	return newPatch[C]().withMode(ModeView)
}

// Blur drops the active point and leaves edit mode.
func (e *Engine[C]) Blur(s State[C]) *Patch[C] {
	return newPatch[C]().withActive(nil).withMode(ModeView)
}

// SetCellData writes cell at p while editing and records the points its
// formula references. It is ignored when the active cell is read-only.
func (e *Engine[C]) SetCellData(s State[C], p Point, cell C, references []Point) *Patch[C] {
	if s.activeReadOnly() {
		return nil
	}
	return newPatch[C]().
		withMode(ModeEdit).
		withData(s.Data.Set(p, cell)).
		withLastChanged(ptr(p)).
		withBindings(s.Bindings.Set(p, NewPointSet(references...)))
}

// Commit replaces the change log with changes.
func (e *Engine[C]) Commit(s State[C], changes []Change[C]) *Patch[C] {
	return newPatch[C]().withLastCommit(changes)
}

// Copy snapshots the present cells of the selection.
func (e *Engine[C]) Copy(s State[C]) *Patch[C] {
	return e.snapshot(s, false)
}

// Cut is Copy, with the snapshot cleared from the data by the next Paste.
func (e *Engine[C]) Cut(s State[C]) *Patch[C] {
	return e.snapshot(s, true)
}

func (e *Engine[C]) snapshot(s State[C], cut bool) *Patch[C] {
	var copied PointMap[C]
	for _, p := range s.SelectedPoints() {
		if cell, ok := s.Data.Get(p); ok {
			copied.put(p, cell)
		}
	}
	return newPatch[C]().withCopied(copied).withCut(cut).withHasPasted(false)
}

// SelectionText renders the selected cells as clipboard text. Empty
// positions render as "".
func (e *Engine[C]) SelectionText(s State[C]) string {
	if s.Selected == nil {
		return ""
	}
	sliced := s.Data.Slice(s.Selected.Start, s.Selected.End)
	text := MapMatrix(sliced, func(cell C, _ Point) string { return CellText(cell) })
	return text.Join(e.opts.horizontalSeparator, e.opts.verticalSeparator)
}

// Paste writes clipboard text so that its top-left cell lands on the active
// point, growing the data as needed. After a Cut the snapshot cells are
// cleared first. Every write is merged onto the existing destination cell
// and logged in LastCommit.
func (e *Engine[C]) Paste(s State[C], text string) *Patch[C] {
	if s.Active == nil {
		return nil
	}
	active := *s.Active
	grid := SplitWith(text, e.codec.FromText, e.opts.horizontalSeparator, e.opts.verticalPattern)
	candidates := PointMapFromMatrix(grid)
	origin, ok := PointSetOf(candidates).Min()
	if !ok {
		return nil
	}

	type write struct {
		to   Point
		cell C
	}
	writes := make([]write, 0, candidates.Len())
	bound := SinglePointRange(active)
	for p, cell := range candidates.All() {
		to := p.Sub(origin).Add(active)
		bound.End.Row = max(bound.End.Row, to.Row)
		bound.End.Column = max(bound.End.Column, to.Column)
		writes = append(writes, write{to: to, cell: cell})
	}

	data := s.Data.PadRows(bound.End.Row+1, bound.End.Column+1).clone()
	var changes []Change[C]
	if s.Cut {
		for p := range s.Copied.All() {
			cell, ok := data.Get(p)
			if !ok || cell.IsReadOnly() {
				continue
			}
			changes = append(changes, Change[C]{Prev: ptr(cell)})
			data.mutableUnset(p)
		}
	}
	for _, w := range writes {
		var existing *C
		if cell, ok := data.Get(w.to); ok {
			existing = &cell
		}
		merged := e.codec.Merge(existing, w.cell)
		data.mutableSet(w.to, &merged)
		changes = append(changes, Change[C]{Prev: existing, Next: ptr(merged)})
	}

	size := grid.Size()
	selected := NewPointRange(active, active.Add(Point{Row: size.Rows - 1, Column: size.Columns - 1}))
	return newPatch[C]().
		withData(data).
		withSelected(&selected).
		withCut(false).
		withHasPasted(true).
		withMode(ModeView).
		withLastCommit(changes)
}

// AddRow appends one empty row.
func (e *Engine[C]) AddRow(s State[C]) *Patch[C] {
	size := s.Data.Size()
	return newPatch[C]().withData(s.Data.PadRows(size.Rows+1, size.Columns))
}

// AddColumn appends one empty column.
func (e *Engine[C]) AddColumn(s State[C]) *Patch[C] {
	size := s.Data.Size()
	return newPatch[C]().withData(s.Data.PadRows(size.Rows, size.Columns+1))
}

// Clear empties every selected cell and commits one change per selected
// point. Read-only cells are kept and not logged.
func (e *Engine[C]) Clear(s State[C]) *Patch[C] {
	if s.Active == nil {
		return nil
	}
	points := s.SelectedPoints()
	data := s.Data.clone()
	changes := make([]Change[C], 0, len(points))
	for _, p := range points {
		cell, ok := s.Data.Get(p)
		if ok && cell.IsReadOnly() {
			continue
		}
		var prev *C
		if ok {
			prev = ptr(cell)
			data.mutableUnset(p)
		}
		changes = append(changes, Change[C]{Prev: prev})
	}
	return newPatch[C]().withData(data).Merge(e.Commit(s, changes))
}

// Go returns the transition moving the active point by the given deltas.
// A move out of bounds only returns to view mode.
func (e *Engine[C]) Go(rowDelta, columnDelta int) Transition[C] {
	return func(s State[C]) *Patch[C] {
		if s.Active == nil {
			return nil
		}
		next := s.Active.Add(Point{Row: rowDelta, Column: columnDelta})
		if !s.Data.Has(next) {
			return newPatch[C]().withMode(ModeView)
		}
		selected := SinglePointRange(next)
		return newPatch[C]().withActive(ptr(next)).withSelected(&selected).withMode(ModeView)
	}
}

// ModifyEdge returns the transition growing or shrinking the selection by
// one along edge. The side moved is the one farther from the active point,
// so the active point always stays selected. The result is clipped to the
// data.
func (e *Engine[C]) ModifyEdge(edge Edge) Transition[C] {
	horizontal := edge == EdgeLeft || edge == EdgeRight
	towardStart := edge == EdgeLeft || edge == EdgeTop
	delta := 1
	if towardStart {
		delta = -1
	}
	return func(s State[C]) *Patch[C] {
		if s.Active == nil || s.Selected == nil {
			return nil
		}
		selected := *s.Selected

		// a selection reaching past the active point on the opposite side
		// shrinks from that side instead of growing
		probe := *s.Active
		if horizontal {
			probe.Column -= delta
		} else {
			probe.Row -= delta
		}
		moveStart := towardStart
		if selected.Contains(probe) {
			moveStart = !moveStart
		}

		corner := &selected.End
		if moveStart {
			corner = &selected.Start
		}
		if horizontal {
			corner.Column += delta
		} else {
			corner.Row += delta
		}
		next := NewPointRange(selected.Start, selected.End)
		return newPatch[C]().withSelected(normalizeSelected(&next, s.Data))
	}
}

// KeyPress enters edit mode when a character is typed on an active,
// editable cell in view mode. Presses with meta held are ignored.
func (e *Engine[C]) KeyPress(s State[C], ev KeyEvent) *Patch[C] {
	if ev.Meta || s.activeReadOnly() {
		return nil
	}
	if s.Mode == ModeView && s.Active != nil {
		return newPatch[C]().withMode(ModeEdit)
	}
	return nil
}

// KeyDownHandler returns the transition bound to ev in the current mode.
func (e *Engine[C]) KeyDownHandler(s State[C], ev KeyEvent) (Transition[C], bool) {
	t, ok := e.keys[layerFor(s.Mode, ev)][ev.Key]
	return t, ok
}

// KeyDown applies the transition bound to ev, if any.
func (e *Engine[C]) KeyDown(s State[C], ev KeyEvent) *Patch[C] {
	t, ok := e.KeyDownHandler(s, ev)
	if !ok {
		return nil
	}
	return t(s)
}

// DragStart marks the start of a mouse drag selection.
func (e *Engine[C]) DragStart(s State[C]) *Patch[C] {
	if s.Dragging {
		return nil
	}
	return newPatch[C]().withDragging(true)
}

// DragEnd marks the end of a mouse drag selection.
func (e *Engine[C]) DragEnd(s State[C]) *Patch[C] {
	if !s.Dragging {
		return nil
	}
	return newPatch[C]().withDragging(false)
}

// normalizeSelected clips selected to the bounds of data. A selection
// falling entirely outside yields nil.
func normalizeSelected[C any](selected *PointRange, data Matrix[C]) *PointRange {
	if selected == nil {
		return nil
	}
	masked := selected.Mask(data.Range())
	if masked.IsEmpty() {
		return nil
	}
	return &masked
}
