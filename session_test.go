package xlgrid

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects listener calls as readable events.
type recorder struct {
	events  []string
	commits []Change[Cell]
	data    []Matrix[Cell]
}

func (r *recorder) listener() Listener[Cell] {
	return ListenerFuncs[Cell]{
		Change: func(data Matrix[Cell]) {
			r.events = append(r.events, "change")
			r.data = append(r.data, data)
		},
		ModeChange: func(mode Mode) { r.events = append(r.events, "mode:"+string(mode)) },
		Select: func(points []Point) {
			labels := make([]string, len(points))
			for i, p := range points {
				labels[i] = p.Label()
			}
			r.events = append(r.events, "select:"+strings.Join(labels, ", "))
		},
		Activate: func(p Point) { r.events = append(r.events, "activate:"+p.String()) },
		CellCommit: func(prev, next *Cell, _ *Point) {
			r.events = append(r.events, "commit")
			r.commits = append(r.commits, Change[Cell]{Prev: prev, Next: next})
		},
	}
}

func newTestSession(data Matrix[Cell], opts ...Option) (*Session[Cell], *recorder) {
	opts = append([]Option{WithClipboard(NewMemClipboard())}, opts...)
	s := NewSession(NewCellEngine(opts...), data)
	rec := &recorder{}
	s.Subscribe(rec.listener())
	return s, rec
}

func TestSession_ActivateNotifies(t *testing.T) {
	s, rec := newTestSession(grid([]any{"Sanjay", "Sam"}, []any{nil, nil}))

	require.True(t, s.Activate(Origin))
	assert.Equal(t, []string{"select:A1", "activate:A1"}, rec.events)
	assert.Equal(t, uint64(1), s.Version())

	rec.events = nil
	require.True(t, s.Activate(Origin))
	assert.Equal(t, []string{"mode:edit", "select:A1", "activate:A1"}, rec.events)
	assert.Equal(t, ModeEdit, s.State().Mode)
}

func TestSession_NilPatchIsIgnored(t *testing.T) {
	s, rec := newTestSession(grid([]any{"a"}))
	assert.False(t, s.Select(Origin), "no active point")
	assert.False(t, s.Edit())
	assert.False(t, s.DragEnd())
	assert.Empty(t, rec.events)
	assert.Equal(t, uint64(0), s.Version())
}

func TestSession_EditCommitsOnMove(t *testing.T) {
	s, rec := newTestSession(grid([]any{"a"}, []any{nil}))
	s.Activate(Origin)
	s.Activate(Origin)
	require.True(t, s.SetCellData(Cell{Value: "b"}))
	assert.Contains(t, rec.events, "change")
	assert.Empty(t, rec.commits, "nothing is committed while editing")

	require.True(t, s.KeyDown(KeyEvent{Key: "Enter"}))
	require.Len(t, rec.commits, 1)
	assert.Equal(t, "a", rec.commits[0].Prev.Value)
	assert.Equal(t, "b", rec.commits[0].Next.Value)
	assert.Equal(t, Point{1, 0}, *s.State().Active)
	assert.Equal(t, ModeView, s.State().Mode)
	require.Len(t, s.State().LastCommit, 1)
}

func TestSession_EditCommitsOnEscape(t *testing.T) {
	s, rec := newTestSession(grid([]any{nil}))
	s.Activate(Origin)
	s.Edit()
	s.SetCellData(Cell{Value: "new"})
	require.True(t, s.KeyDown(KeyEvent{Key: "Escape"}))

	require.Len(t, rec.commits, 1)
	assert.Nil(t, rec.commits[0].Prev)
	assert.Equal(t, "new", rec.commits[0].Next.Value)
}

func TestSession_EditWithoutChangeCommitsNothing(t *testing.T) {
	s, rec := newTestSession(grid([]any{"a"}, []any{"b"}))
	s.Activate(Origin)
	s.Edit()
	s.KeyDown(KeyEvent{Key: "Enter"})
	assert.Empty(t, rec.commits)
}

func TestSession_SetDataIsExternal(t *testing.T) {
	s, rec := newTestSession(grid([]any{"a"}))
	require.True(t, s.SetData(grid([]any{"x", "y"})))
	assert.NotContains(t, rec.events, "change")
	assert.Equal(t, Size{Rows: 1, Columns: 2}, s.State().Data.Size())
	assert.Equal(t, uint64(1), s.Version())
}

func TestSession_CopyPaste(t *testing.T) {
	s, rec := newTestSession(grid([]any{"Sanjay", "Sam"}, []any{nil, nil}))
	s.Activate(Origin)
	s.Select(Point{0, 1})
	require.NoError(t, s.Copy())
	assert.Equal(t, 2, s.State().Copied.Len())

	s.Activate(Point{1, 0})
	rec.events, rec.commits = nil, nil
	require.NoError(t, s.Paste())

	state := s.State()
	assert.Equal(t, "Sanjay", value(t, state.Data, Point{1, 0}))
	assert.Equal(t, "Sam", value(t, state.Data, Point{1, 1}))
	assert.Equal(t, []string{"commit", "commit", "change", "select:A2, B2"}, rec.events)
	require.Len(t, rec.commits, 2)
	assert.Nil(t, rec.commits[0].Prev)
	require.Len(t, rec.data, 1)
	assert.Equal(t, state.Data, rec.data[0])
}

func TestSession_CutPaste(t *testing.T) {
	s, _ := newTestSession(grid([]any{"a", nil}))
	s.Activate(Origin)
	require.NoError(t, s.Cut())
	assert.True(t, s.State().Cut)

	s.Activate(Point{0, 1})
	require.NoError(t, s.Paste())
	_, ok := s.State().Data.Get(Origin)
	assert.False(t, ok)
	assert.Equal(t, "a", value(t, s.State().Data, Point{0, 1}))
	assert.False(t, s.State().Cut)
}

func TestSession_CopyWithoutSelection(t *testing.T) {
	s, rec := newTestSession(grid([]any{"a"}))
	require.NoError(t, s.Copy())
	require.NoError(t, s.Paste())
	assert.Empty(t, rec.events)
	assert.True(t, s.State().Copied.IsEmpty())
}

type failingClipboard struct{}

var errNoDisplay = errors.New("no display")

func (failingClipboard) ReadText() (string, error) { return "", errNoDisplay }
func (failingClipboard) WriteText(string) error    { return errNoDisplay }

func TestSession_ClipboardErrors(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	s, _ := newTestSession(grid([]any{"a"}), WithClipboard(failingClipboard{}), WithLogger(logger))
	s.Activate(Origin)

	err := s.Copy()
	require.ErrorIs(t, err, errNoDisplay)
	assert.Contains(t, err.Error(), "copy selection")
	assert.True(t, s.State().Copied.IsEmpty(), "no snapshot without clipboard text")

	err = s.Paste()
	require.ErrorIs(t, err, errNoDisplay)
	assert.Contains(t, logs.String(), "read from clipboard failed")
}

func TestSession_Clear(t *testing.T) {
	s, rec := newTestSession(grid([]any{"a", "b"}, []any{"c", "d"}))
	s.Activate(Origin)
	s.Select(Point{1, 1})
	rec.commits = nil
	require.True(t, s.Clear())

	require.Len(t, rec.commits, 4)
	for _, c := range rec.commits {
		assert.Nil(t, c.Next)
	}
}

func TestSession_ClearWhileEditing(t *testing.T) {
	s, rec := newTestSession(grid([]any{"a"}))
	s.Activate(Origin)
	s.Activate(Origin)
	require.Equal(t, ModeEdit, s.State().Mode)

	require.True(t, s.Clear())
	require.True(t, s.View())

	require.Len(t, rec.commits, 1, "the cleared cell is committed once")
	assert.Equal(t, "a", rec.commits[0].Prev.Value)
	assert.Nil(t, rec.commits[0].Next)
}

func TestSession_ClearWhileEditing_FlushesPendingEdit(t *testing.T) {
	s, rec := newTestSession(grid([]any{"a"}))
	s.Activate(Origin)
	s.Activate(Origin)
	require.True(t, s.SetCellData(Cell{Value: "b"}))
	require.Empty(t, rec.commits)

	require.True(t, s.Clear())
	require.True(t, s.View())

	require.Len(t, rec.commits, 2)
	assert.Equal(t, "a", rec.commits[0].Prev.Value)
	assert.Equal(t, "b", rec.commits[0].Next.Value)
	assert.Equal(t, "b", rec.commits[1].Prev.Value)
	assert.Nil(t, rec.commits[1].Next)
}

func TestSession_KeyDownReportsHandled(t *testing.T) {
	s, _ := newTestSession(grid([]any{"a"}))
	assert.False(t, s.KeyDown(KeyEvent{Key: "q"}))
	assert.True(t, s.KeyDown(KeyEvent{Key: "ArrowDown"}), "bound even when nothing is active")

	s.Activate(Origin)
	require.True(t, s.KeyPress(KeyEvent{Key: "q"}))
	assert.Equal(t, ModeEdit, s.State().Mode)
}

func TestSession_AddRowColumnDrag(t *testing.T) {
	s, rec := newTestSession(grid([]any{"a"}))
	require.True(t, s.AddRow())
	require.True(t, s.AddColumn())
	assert.Equal(t, Size{Rows: 2, Columns: 2}, s.State().Data.Size())
	assert.Equal(t, []string{"change", "change"}, rec.events)

	require.True(t, s.DragStart())
	assert.True(t, s.State().Dragging)
	require.True(t, s.DragEnd())
	require.True(t, s.Blur())
	require.True(t, s.View())
}

func TestSession_Unsubscribe(t *testing.T) {
	s := NewSession(NewCellEngine(WithClipboard(NewMemClipboard())), grid([]any{"a"}))
	var first, second int
	unsubscribe := s.Subscribe(ListenerFuncs[Cell]{Activate: func(Point) { first++ }})
	s.Subscribe(ListenerFuncs[Cell]{Activate: func(Point) { second++ }})

	s.Activate(Origin)
	unsubscribe()
	unsubscribe()
	s.Activate(Origin)

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}

func TestSession_Value(t *testing.T) {
	s, _ := newTestSession(grid([]any{2, nil}))
	s.Activate(Point{0, 1})
	require.True(t, s.SetCellData(Cell{Value: "=A1*2"}))

	assert.Equal(t, 4.0, s.Value(Point{0, 1}))
	refs, ok := s.State().Bindings.Get(Point{0, 1})
	require.True(t, ok)
	assert.Equal(t, []Point{Origin}, refs.Points())

	s.SetData(grid([]any{5, "=A1*2"}))
	assert.Equal(t, 10.0, s.Value(Point{0, 1}), "recomputed after a new version")
}

func TestSession_LogsPatches(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s, _ := newTestSession(grid([]any{"a"}), WithLogger(logger))
	s.Activate(Origin)
	assert.Contains(t, logs.String(), "apply patch")
	assert.Contains(t, logs.String(), "fields=active|selected|mode")
}
