package xlgrid

import "strings"

// Field identifies one State field written by a Patch.
type Field uint16

const (
	FieldData Field = 1 << iota
	FieldActive
	FieldSelected
	FieldMode
	FieldDragging
	FieldCut
	FieldHasPasted
	FieldCopied
	FieldBindings
	FieldLastChanged
	FieldLastCommit
)

var fieldNames = []string{
	"data", "active", "selected", "mode", "dragging", "cut",
	"hasPasted", "copied", "bindings", "lastChanged", "lastCommit",
}

// String lists the set fields, e.g. "active|selected|mode".
func (f Field) String() string {
	var names []string
	for i, name := range fieldNames {
		if f&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// Patch is a partial state produced by a transition. Only the fields it
// carries are written when it is applied. A nil *Patch is the no-op
// signal: nothing changed and observers must not be notified.
type Patch[C CellData] struct {
	fields Field
	values State[C]
}

func newPatch[C CellData]() *Patch[C] {
	return &Patch[C]{}
}

// Fields returns the set of fields carried by p.
func (p *Patch[C]) Fields() Field {
	if p == nil {
		return 0
	}
	return p.fields
}

// Has reports whether p carries field f.
func (p *Patch[C]) Has(f Field) bool {
	return p.Fields()&f != 0
}

// Apply returns s with the fields of p written over it. s is not modified.
func (p *Patch[C]) Apply(s State[C]) State[C] {
	if p == nil {
		return s
	}
	next := s
	v := p.values
	if p.Has(FieldData) {
		next.Data = v.Data
	}
	if p.Has(FieldActive) {
		next.Active = v.Active
	}
	if p.Has(FieldSelected) {
		next.Selected = v.Selected
	}
	if p.Has(FieldMode) {
		next.Mode = v.Mode
	}
	if p.Has(FieldDragging) {
		next.Dragging = v.Dragging
	}
	if p.Has(FieldCut) {
		next.Cut = v.Cut
	}
	if p.Has(FieldHasPasted) {
		next.HasPasted = v.HasPasted
	}
	if p.Has(FieldCopied) {
		next.Copied = v.Copied
	}
	if p.Has(FieldBindings) {
		next.Bindings = v.Bindings
	}
	if p.Has(FieldLastChanged) {
		next.LastChanged = v.LastChanged
	}
	if p.Has(FieldLastCommit) {
		next.LastCommit = v.LastCommit
	}
	return next
}

// Merge returns a patch carrying the fields of p and q, q winning on
// conflicts. Either side may be nil.
func (p *Patch[C]) Merge(q *Patch[C]) *Patch[C] {
	switch {
	case p == nil:
		return q
	case q == nil:
		return p
	}
	return &Patch[C]{fields: p.fields | q.fields, values: q.Apply(p.values)}
}

func (p *Patch[C]) withData(data Matrix[C]) *Patch[C] {
	p.fields |= FieldData
	p.values.Data = data
	return p
}

func (p *Patch[C]) withActive(active *Point) *Patch[C] {
	p.fields |= FieldActive
	p.values.Active = active
	return p
}

func (p *Patch[C]) withSelected(selected *PointRange) *Patch[C] {
	p.fields |= FieldSelected
	p.values.Selected = selected
	return p
}

func (p *Patch[C]) withMode(mode Mode) *Patch[C] {
	p.fields |= FieldMode
	p.values.Mode = mode
	return p
}

func (p *Patch[C]) withDragging(dragging bool) *Patch[C] {
	p.fields |= FieldDragging
	p.values.Dragging = dragging
	return p
}

func (p *Patch[C]) withCut(cut bool) *Patch[C] {
	p.fields |= FieldCut
	p.values.Cut = cut
	return p
}

func (p *Patch[C]) withHasPasted(hasPasted bool) *Patch[C] {
	p.fields |= FieldHasPasted
	p.values.HasPasted = hasPasted
	return p
}

func (p *Patch[C]) withCopied(copied PointMap[C]) *Patch[C] {
	p.fields |= FieldCopied
	p.values.Copied = copied
	return p
}

func (p *Patch[C]) withBindings(bindings PointMap[PointSet]) *Patch[C] {
	p.fields |= FieldBindings
	p.values.Bindings = bindings
	return p
}

func (p *Patch[C]) withLastChanged(point *Point) *Patch[C] {
	p.fields |= FieldLastChanged
	p.values.LastChanged = point
	return p
}

func (p *Patch[C]) withLastCommit(changes []Change[C]) *Patch[C] {
	p.fields |= FieldLastCommit
	p.values.LastCommit = changes
	return p
}
