package xlgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFormulas_Valid(t *testing.T) {
	data := grid([]any{1, 2, "=SUM(A1:B1)"}, []any{"text", 3.5, "=A1*B2"})
	assert.Empty(t, ValidateFormulas(data))
}

func TestValidateFormulas_Issues(t *testing.T) {
	data := grid([]any{1, "=A1+1", "=B1+", "=D1", "=NOPE(1)", "=Z9"})
	issues := ValidateFormulas(data)
	require.Len(t, issues, 4)

	assert.Equal(t, SeverityError, issues[0].Severity)
	assert.Equal(t, Point{0, 2}, issues[0].Point)
	assert.Contains(t, issues[0].Message, `invalid formula "=B1+"`)

	assert.Equal(t, SeverityError, issues[1].Severity)
	assert.Contains(t, issues[1].Message, "references its own cell")

	assert.Equal(t, SeverityError, issues[2].Severity)
	assert.Contains(t, issues[2].Message, "unknown function NOPE")
	assert.Contains(t, issues[2].String(), "[ERROR] E1: ")

	assert.Equal(t, SeverityWarning, issues[3].Severity)
	assert.Equal(t, Point{0, 5}, issues[3].Point)
	assert.Contains(t, issues[3].Message, "references Z9 outside the data")
	assert.Contains(t, issues[3].String(), "[WARN] F1: ")
}

func TestValidateFormulas_IgnoresReadOnlyFlag(t *testing.T) {
	data := NewMatrix[Cell](1, 1).Set(Origin, Cell{Value: "=A1", ReadOnly: true})
	issues := ValidateFormulas(data)
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityError, issues[0].Severity)
}
