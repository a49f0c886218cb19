package xlgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoint_Label(t *testing.T) {
	tests := []struct {
		p    Point
		want string
	}{
		{Point{0, 0}, "A1"},
		{Point{4, 1}, "B5"},
		{Point{9, 27}, "AB10"},
		{Point{0, 25}, "Z1"},
		{Point{0, 26}, "AA1"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.Label())
			assert.Equal(t, tt.want, tt.p.String())
		})
	}
}

func TestPoint_Label_Invalid(t *testing.T) {
	p := Point{Row: -1, Column: 3}
	assert.Equal(t, "", p.Label())
	assert.Equal(t, "(-1, 3)", p.String())
}

func TestParsePoint(t *testing.T) {
	p, err := ParsePoint("B3")
	require.NoError(t, err)
	assert.Equal(t, Point{Row: 2, Column: 1}, p)
}

func TestParsePoint_Absolute(t *testing.T) {
	p, err := ParsePoint("$AB$10")
	require.NoError(t, err)
	assert.Equal(t, Point{Row: 9, Column: 27}, p)
}

func TestParsePoint_Invalid(t *testing.T) {
	for _, label := range []string{"", "A0", "1A", "foo"} {
		_, err := ParsePoint(label)
		assert.Error(t, err, label)
	}
}

func TestParsePoint_RoundTrip(t *testing.T) {
	for _, p := range []Point{{0, 0}, {3, 7}, {99, 52}, {1048575, 16383}} {
		parsed, err := ParsePoint(p.Label())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}
}

func TestPoint_Arithmetic(t *testing.T) {
	p := Point{Row: 2, Column: 3}
	q := Point{Row: 1, Column: 1}
	assert.Equal(t, Point{Row: 3, Column: 4}, p.Add(q))
	assert.Equal(t, Point{Row: 1, Column: 2}, p.Sub(q))
	assert.Equal(t, p, p.Sub(q).Add(q))
}

func TestPoint_Less(t *testing.T) {
	assert.True(t, Point{0, 5}.Less(Point{1, 0}))
	assert.True(t, Point{1, 0}.Less(Point{1, 1}))
	assert.False(t, Point{1, 1}.Less(Point{1, 1}))
	assert.False(t, Point{2, 0}.Less(Point{1, 9}))
}

func TestPoint_Valid(t *testing.T) {
	assert.True(t, Origin.Valid())
	assert.False(t, Point{Row: -1}.Valid())
	assert.False(t, Point{Column: -1}.Valid())
}
