package xlgrid

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// KeyEvent is a key press forwarded by the host while the grid has focus.
// Key uses DOM key names: "ArrowUp", "Tab", "Enter", "Escape", "a", ...
type KeyEvent struct {
	Key   string
	Shift bool
	Meta  bool
}

// String formats the event as "shift+meta+Key".
func (e KeyEvent) String() string {
	var b strings.Builder
	if e.Shift {
		b.WriteString("shift+")
	}
	if e.Meta {
		b.WriteString("meta+")
	}
	b.WriteString(e.Key)
	return b.String()
}

// KeyMap defines the key bindings of the grid. Binding keys are plain key
// names; the modifiers are implied by the field's layer.
type KeyMap struct {
	// view mode, no modifier
	Up, Down, Left, Right key.Binding
	NextColumn            key.Binding
	Edit                  key.Binding
	Clear                 key.Binding
	Blur                  key.Binding

	// view mode, shift held
	ExtendUp, ExtendDown, ExtendLeft, ExtendRight key.Binding
	PrevColumn                                    key.Binding

	// edit mode
	ExitEdit    key.Binding
	EditNextRow key.Binding
	EditNextCol key.Binding
	EditPrevCol key.Binding // shift held
}

// DefaultKeyMap returns the standard spreadsheet bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:         key.NewBinding(key.WithKeys("ArrowUp"), key.WithHelp("↑", "up")),
		Down:       key.NewBinding(key.WithKeys("ArrowDown"), key.WithHelp("↓", "down")),
		Left:       key.NewBinding(key.WithKeys("ArrowLeft"), key.WithHelp("←", "left")),
		Right:      key.NewBinding(key.WithKeys("ArrowRight"), key.WithHelp("→", "right")),
		NextColumn: key.NewBinding(key.WithKeys("Tab"), key.WithHelp("tab", "next cell")),
		Edit:       key.NewBinding(key.WithKeys("Enter"), key.WithHelp("enter", "edit")),
		Clear:      key.NewBinding(key.WithKeys("Backspace", "Delete"), key.WithHelp("backspace", "clear")),
		Blur:       key.NewBinding(key.WithKeys("Escape"), key.WithHelp("esc", "leave grid")),

		ExtendUp:    key.NewBinding(key.WithKeys("ArrowUp"), key.WithHelp("shift+↑", "select up")),
		ExtendDown:  key.NewBinding(key.WithKeys("ArrowDown"), key.WithHelp("shift+↓", "select down")),
		ExtendLeft:  key.NewBinding(key.WithKeys("ArrowLeft"), key.WithHelp("shift+←", "select left")),
		ExtendRight: key.NewBinding(key.WithKeys("ArrowRight"), key.WithHelp("shift+→", "select right")),
		PrevColumn:  key.NewBinding(key.WithKeys("Tab"), key.WithHelp("shift+tab", "previous cell")),

		ExitEdit:    key.NewBinding(key.WithKeys("Escape"), key.WithHelp("esc", "stop editing")),
		EditNextRow: key.NewBinding(key.WithKeys("Enter"), key.WithHelp("enter", "save and move down")),
		EditNextCol: key.NewBinding(key.WithKeys("Tab"), key.WithHelp("tab", "save and move right")),
		EditPrevCol: key.NewBinding(key.WithKeys("Tab"), key.WithHelp("shift+tab", "save and move left")),
	}
}

// ShortHelp returns the bindings worth showing in a compact help line.
func (km KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{km.Up, km.Down, km.Left, km.Right, km.Edit, km.Clear, km.Blur}
}

// FullHelp returns all bindings grouped by mode.
func (km KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{km.Up, km.Down, km.Left, km.Right, km.NextColumn, km.Edit, km.Clear, km.Blur},
		{km.ExtendUp, km.ExtendDown, km.ExtendLeft, km.ExtendRight, km.PrevColumn},
		{km.ExitEdit, km.EditNextRow, km.EditNextCol, km.EditPrevCol},
	}
}

// keyLayer is one lookup table of the dispatch.
type keyLayer uint8

const (
	layerPlain keyLayer = iota
	layerShift
	layerMeta
	layerShiftMeta
	layerEdit
	layerEditShift
	layerCount
)

// layerFor selects the table for an event. Edit mode wins over modifiers;
// otherwise shift+meta > shift > meta > plain.
func layerFor(mode Mode, e KeyEvent) keyLayer {
	switch {
	case mode == ModeEdit && e.Shift:
		return layerEditShift
	case mode == ModeEdit:
		return layerEdit
	case e.Shift && e.Meta:
		return layerShiftMeta
	case e.Shift:
		return layerShift
	case e.Meta:
		return layerMeta
	default:
		return layerPlain
	}
}

type keyTable[C CellData] map[string]Transition[C]

// bind registers t under every key of b. Disabled bindings are skipped.
func (t keyTable[C]) bind(b key.Binding, transition Transition[C]) {
	if !b.Enabled() {
		return
	}
	for _, k := range b.Keys() {
		t[k] = transition
	}
}

func buildKeyTables[C CellData](e *Engine[C], km KeyMap) [layerCount]keyTable[C] {
	var tables [layerCount]keyTable[C]
	for i := range tables {
		tables[i] = keyTable[C]{}
	}

	plain := tables[layerPlain]
	plain.bind(km.Up, e.Go(-1, 0))
	plain.bind(km.Down, e.Go(1, 0))
	plain.bind(km.Left, e.Go(0, -1))
	plain.bind(km.Right, e.Go(0, 1))
	plain.bind(km.NextColumn, e.Go(0, 1))
	plain.bind(km.Edit, e.Edit)
	plain.bind(km.Clear, e.Clear)
	plain.bind(km.Blur, e.Blur)

	shift := tables[layerShift]
	shift.bind(km.ExtendUp, e.ModifyEdge(EdgeTop))
	shift.bind(km.ExtendDown, e.ModifyEdge(EdgeDown))
	shift.bind(km.ExtendLeft, e.ModifyEdge(EdgeLeft))
	shift.bind(km.ExtendRight, e.ModifyEdge(EdgeRight))
	shift.bind(km.PrevColumn, e.Go(0, -1))

	edit := tables[layerEdit]
	edit.bind(km.ExitEdit, e.View)
	edit.bind(km.EditNextRow, e.Go(1, 0))
	edit.bind(km.EditNextCol, e.Go(0, 1))

	tables[layerEditShift].bind(km.EditPrevCol, e.Go(0, -1))
	return tables
}
