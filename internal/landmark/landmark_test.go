package landmark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldsense/perception/internal/geom"
	"github.com/fieldsense/perception/internal/params"
)

func TestNewTablePositions(t *testing.T) {
	t.Parallel()
	tbl := NewTable(params.DefaultServer())

	assert.Equal(t, 55, tbl.Len())

	tests := []struct {
		id   ID
		want geom.Vector2
	}{
		{"f c", geom.Vec(0, 0)},
		{"f r b", geom.Vec(52.5, 34)},
		{"g l", geom.Vec(-52.5, 0)},
		{"f g r t", geom.Vec(52.5, -7.01)},
		{"f p l b", geom.Vec(-36, 20.16)},
		{"f t l 30", geom.Vec(-30, -39)},
		{"f b 0", geom.Vec(0, 39)},
		{"f r t 20", geom.Vec(57.5, -20)},
		{"f l 0", geom.Vec(-57.5, 0)},
	}
	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			p, ok := tbl.Position(tt.id)
			require.True(t, ok)
			assert.InDelta(t, tt.want.X, p.X, 1e-9)
			assert.InDelta(t, tt.want.Y, p.Y, 1e-9)
		})
	}

	_, ok := tbl.Position("f nowhere")
	assert.False(t, ok)
}

func TestReversedMirrorsGeometry(t *testing.T) {
	t.Parallel()
	tbl := NewTable(params.DefaultServer())
	rev := tbl.Reversed()

	p, _ := rev.Position("f r t")
	assert.InDelta(t, -52.5, p.X, 1e-9)
	assert.InDelta(t, 34.0, p.Y, 1e-9)

	l, ok := rev.Line("l r")
	require.True(t, ok)
	assert.InDelta(t, 180.0, l.Normal, 1e-9)

	l, _ = rev.Line("l t")
	assert.InDelta(t, 90.0, l.Normal, 1e-9)

	// The original is untouched.
	p, _ = tbl.Position("f r t")
	assert.InDelta(t, 52.5, p.X, 1e-9)
}

func TestLineSignedDistance(t *testing.T) {
	t.Parallel()
	tbl := NewTable(params.DefaultServer())

	l, _ := tbl.Line("l r")
	assert.InDelta(t, 52.5, l.SignedDistance(geom.Vec(0, 0)), 1e-9)
	assert.InDelta(t, 2.5, l.SignedDistance(geom.Vec(50, 10)), 1e-9)
	assert.Less(t, l.SignedDistance(geom.Vec(55, 0)), 0.0)

	l, _ = tbl.Line("l t")
	assert.InDelta(t, 4.0, l.SignedDistance(geom.Vec(0, -30)), 1e-9)
}

func TestNearest(t *testing.T) {
	t.Parallel()
	tbl := NewTable(params.DefaultServer())

	id, pos, ok := tbl.Nearest(geom.Vec(51.0, 33.0), 3.0)
	require.True(t, ok)
	assert.Equal(t, ID("f r b"), id)
	assert.InDelta(t, 52.5, pos.X, 1e-9)

	_, _, ok = tbl.Nearest(geom.Vec(20, 10), 3.0)
	assert.False(t, ok)
}

func TestIDsSortedAndCopied(t *testing.T) {
	t.Parallel()
	tbl := NewTable(params.DefaultServer())

	ids := tbl.IDs()
	for i := 1; i < len(ids); i++ {
		assert.Less(t, ids[i-1], ids[i])
	}
	ids[0] = "mutated"
	assert.NotEqual(t, ID("mutated"), tbl.IDs()[0])
}
