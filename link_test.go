package xlgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLink_String(t *testing.T) {
	assert.Equal(t, "Docs", NewLink("https://example.com", "Docs").String())
	assert.Equal(t, "https://example.com", NewLink("https://example.com", "").String())
}

func TestLink_CopiedAsText(t *testing.T) {
	e := NewCellEngine()
	data := NewMatrix[Cell](1, 2).Set(Origin, Cell{Value: NewLink("https://example.com", "Docs")})
	s := activeAt(data, Origin)
	s = step(t, s, e.Select(s, Point{0, 1}))
	assert.Equal(t, "Docs\t", e.SelectionText(s))
}

func TestEvaluator_Hyperlink(t *testing.T) {
	got, err := evaluate(t, grid([]any{"Home"}), `HYPERLINK("https://example.com", A1)`)
	require.NoError(t, err)
	assert.Equal(t, Link{URL: "https://example.com", Text: "Home"}, got)

	got, err = evaluate(t, grid([]any{nil}), `CONCATENATE(HYPERLINK("u", "t"), "!")`)
	require.NoError(t, err)
	assert.Equal(t, "t!", got)
}
