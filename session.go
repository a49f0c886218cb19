package xlgrid

import (
	"fmt"
	"log/slog"
	"reflect"
)

// Session owns the state of one grid. It applies transitions, keeps a
// version counter, derives the commit of the active cell and notifies
// listeners. It is not safe for concurrent use.
type Session[C CellData] struct {
	engine    *Engine[C]
	logger    *slog.Logger
	clipboard Clipboard
	evaluator Evaluator

	state     State[C]
	version   uint64
	listeners []subscription[C]
	nextID    int

	// cell at the active point when editing of it began
	initial *C

	resolver        *MatrixResolver[C]
	resolverVersion uint64
}

type subscription[C CellData] struct {
	id       int
	listener Listener[C]
}

// NewSession creates a Session in the initial state for data.
func NewSession[C CellData](engine *Engine[C], data Matrix[C]) *Session[C] {
	s := &Session[C]{
		engine:    engine,
		logger:    engine.opts.logger,
		clipboard: engine.opts.clipboard,
		evaluator: engine.opts.evaluator,
		state:     NewState(data),
	}
	if s.clipboard == nil {
		s.clipboard = NewClipboard()
	}
	if s.evaluator == nil {
		s.evaluator = NewEvaluator()
	}
	return s
}

// State returns the current state.
func (s *Session[C]) State() State[C] {
	return s.state
}

// Version is incremented by every applied patch.
func (s *Session[C]) Version() uint64 {
	return s.version
}

// Engine returns the engine the session dispatches to.
func (s *Session[C]) Engine() *Engine[C] {
	return s.engine
}

// Subscribe registers l and returns a function removing it.
func (s *Session[C]) Subscribe(l Listener[C]) (unsubscribe func()) {
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription[C]{id: id, listener: l})
	return func() {
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Dispatch applies the patch of t to the current state. It reports whether
// the state changed.
func (s *Session[C]) Dispatch(t Transition[C]) bool {
	return s.Apply(t(s.state))
}

// Apply writes p over the current state and notifies listeners. A nil patch
// is ignored.
func (s *Session[C]) Apply(p *Patch[C]) bool {
	return s.apply(p, false)
}

func (s *Session[C]) apply(p *Patch[C], external bool) bool {
	if p == nil {
		return false
	}
	prev := s.state
	next := p.Apply(prev)
	commitChanged := p.Has(FieldLastCommit)
	if change, ok := s.deriveCommit(prev, next, commitChanged || external); ok {
		next.LastCommit = append([]Change[C]{change}, patchCommit(p, next)...)
		commitChanged = true
	}
	s.state = next
	s.version++

	s.logger.Debug("apply patch",
		slog.Uint64("version", s.version),
		slog.String("fields", p.Fields().String()),
		slog.String("mode", string(next.Mode)),
	)
	s.notify(prev, next, p, commitChanged, external)
	return true
}

// patchCommit returns the changes p itself commits.
func patchCommit[C CellData](p *Patch[C], next State[C]) []Change[C] {
	if !p.Has(FieldLastCommit) {
		return nil
	}
	return next.LastCommit
}

// deriveCommit produces the change of the active cell once its editing ends:
// when the active point moves, the grid is no longer in edit mode, or a
// patch carrying its own commit rewrites cells during editing. A write to
// the active cell outside editing is reported only when the patch is not
// already logged elsewhere.
func (s *Session[C]) deriveCommit(prev, next State[C], logged bool) (Change[C], bool) {
	moved := !samePoint(prev.Active, next.Active)
	if !moved && next.Mode == ModeEdit && !logged {
		return Change[C]{}, false
	}
	initial := s.initial
	s.initial = next.cellAt(next.Active)

	// a logged patch applied while editing closes the pending edit first,
	// so the cell it rewrote is not committed again when editing ends
	prevCell := prev.cellAt(prev.Active)
	if !reflect.DeepEqual(prevCell, initial) {
		return Change[C]{Prev: initial, Next: prevCell}, true
	}
	if nextCell := next.cellAt(next.Active); !moved && !logged && !reflect.DeepEqual(nextCell, prevCell) {
		return Change[C]{Prev: prevCell, Next: nextCell}, true
	}
	return Change[C]{}, false
}

func (s *Session[C]) notify(prev, next State[C], p *Patch[C], commitChanged, external bool) {
	for _, sub := range s.snapshotListeners() {
		l := sub.listener
		if commitChanged {
			for _, change := range next.LastCommit {
				l.OnCellCommit(change.Prev, change.Next, next.Active)
			}
		}
		if p.Has(FieldData) && !external {
			l.OnChange(next.Data)
		}
		if next.Mode != prev.Mode {
			l.OnModeChange(next.Mode)
		}
		if p.Has(FieldSelected) {
			l.OnSelect(next.SelectedPoints())
		}
		if p.Has(FieldActive) && next.Active != nil {
			l.OnActivate(*next.Active)
		}
	}
}

// snapshotListeners lets listeners unsubscribe while being notified.
func (s *Session[C]) snapshotListeners() []subscription[C] {
	return append([]subscription[C](nil), s.listeners...)
}

func samePoint(a, b *Point) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// SetData replaces the data from outside the grid. Listeners are not sent
// OnChange for it.
func (s *Session[C]) SetData(data Matrix[C]) bool {
	return s.apply(s.engine.SetData(s.state, data), true)
}

// Select extends the selection to p.
func (s *Session[C]) Select(p Point) bool {
	return s.Apply(s.engine.Select(s.state, p))
}

// Activate focuses p.
func (s *Session[C]) Activate(p Point) bool {
	return s.Apply(s.engine.Activate(s.state, p))
}

// Edit enters edit mode on the active cell.
func (s *Session[C]) Edit() bool {
	return s.Dispatch(s.engine.Edit)
}

// View returns to view mode.
func (s *Session[C]) View() bool {
	return s.Dispatch(s.engine.View)
}

// Blur drops the active point.
func (s *Session[C]) Blur() bool {
	return s.Dispatch(s.engine.Blur)
}

// SetCellData writes cell at the active point and records the references
// of its formula.
func (s *Session[C]) SetCellData(cell C) bool {
	if s.state.Active == nil {
		return false
	}
	return s.Apply(s.engine.SetCellData(s.state, *s.state.Active, cell, BindingsForCell(cell)))
}

// KeyDown dispatches a key press. It reports whether a binding handled the
// key, so the caller can fall back to its default handling.
func (s *Session[C]) KeyDown(ev KeyEvent) bool {
	t, ok := s.engine.KeyDownHandler(s.state, ev)
	if !ok {
		return false
	}
	s.Dispatch(t)
	return true
}

// KeyPress dispatches a character key press.
func (s *Session[C]) KeyPress(ev KeyEvent) bool {
	return s.Apply(s.engine.KeyPress(s.state, ev))
}

// DragStart marks the start of a mouse drag.
func (s *Session[C]) DragStart() bool {
	return s.Dispatch(s.engine.DragStart)
}

// DragEnd marks the end of a mouse drag.
func (s *Session[C]) DragEnd() bool {
	return s.Dispatch(s.engine.DragEnd)
}

// AddRow appends an empty row.
func (s *Session[C]) AddRow() bool {
	return s.Dispatch(s.engine.AddRow)
}

// AddColumn appends an empty column.
func (s *Session[C]) AddColumn() bool {
	return s.Dispatch(s.engine.AddColumn)
}

// Clear empties the selected cells.
func (s *Session[C]) Clear() bool {
	return s.Dispatch(s.engine.Clear)
}

// Copy writes the selection to the clipboard and snapshots it.
func (s *Session[C]) Copy() error {
	return s.clip(s.engine.Copy)
}

// Cut is Copy; the snapshot is cleared by the next Paste.
func (s *Session[C]) Cut() error {
	return s.clip(s.engine.Cut)
}

func (s *Session[C]) clip(t Transition[C]) error {
	if s.state.Selected == nil {
		return nil
	}
	if err := s.clipboard.WriteText(s.engine.SelectionText(s.state)); err != nil {
		s.logger.Warn("copy to clipboard failed", slog.Any("error", err))
		return fmt.Errorf("copy selection: %w", err)
	}
	s.Dispatch(t)
	return nil
}

// Paste reads the clipboard and pastes its text at the active point.
func (s *Session[C]) Paste() error {
	if s.state.Active == nil {
		return nil
	}
	text, err := s.clipboard.ReadText()
	if err != nil {
		s.logger.Warn("read from clipboard failed", slog.Any("error", err))
		return fmt.Errorf("paste: %w", err)
	}
	s.Apply(s.engine.Paste(s.state, text))
	return nil
}

// Value returns the computed value at p: the result of its formula, or its
// plain value. Failed formulas yield a *FormulaError.
func (s *Session[C]) Value(p Point) any {
	if s.resolver == nil || s.resolverVersion != s.version {
		s.resolver = NewResolver(s.state.Data, s.evaluator)
		s.resolverVersion = s.version
	}
	return s.resolver.CellValue(p)
}
