package geom_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fieldsense/perception/internal/geom"
	"github.com/fieldsense/perception/internal/testutil"
)

func TestNormalizeAngle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{180, 180},
		{-180, 180},
		{190, -170},
		{-190, 170},
		{360, 0},
		{540, 180},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, geom.NormalizeAngle(tt.in), 1e-12, "NormalizeAngle(%v)", tt.in)
	}
	assert.True(t, math.IsNaN(geom.NormalizeAngle(math.NaN())))
}

func TestAngleHelpers(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 20.0, geom.AngleDiff(170, -170), 1e-12)
	assert.True(t, geom.AngleWithin(10, 350, 30))
	assert.False(t, geom.AngleWithin(40, 350, 30))
	assert.True(t, geom.AngleWithin(123, 0, 360))
	assert.InDelta(t, 0.0, geom.MidAngle(350, 10), 1e-12)
	assert.InDelta(t, 180.0, geom.MidAngle(90, -90), 1e-12)
}

func TestVectorHelpers(t *testing.T) {
	t.Parallel()

	testutil.AssertVecNear(t, geom.Polar(2, 90), geom.Vec(0, 2), 1e-12, "Polar")
	testutil.AssertNear(t, geom.Dir(geom.Vec(0, -1)), -90, 1e-12, "Dir")
	assert.Zero(t, geom.Dir(geom.Vector2{}))
	testutil.AssertVecNear(t, geom.ClampLength(geom.Vec(3, 4), 1), geom.Vec(0.6, 0.8), 1e-12, "ClampLength")
	assert.Equal(t, geom.Vec(3, 4), geom.ClampLength(geom.Vec(3, 4), 10))
	assert.Equal(t, geom.Vector2{}, geom.WithLength(geom.Vector2{}, 5))
	testutil.AssertVecNear(t, geom.WithLength(geom.Vec(0, 3), 2), geom.Vec(0, 2), 1e-12, "WithLength")
	assert.Equal(t, geom.Vec(-1, 2), geom.Reverse(geom.Vec(1, -2)))
	assert.Equal(t, geom.Vec(1, 1), geom.Midpoint(geom.Vec(0, 0), geom.Vec(2, 2)))
	testutil.AssertNear(t, geom.DistanceToLine(geom.Vec(0, 2), geom.Vector2{}, 0), 2, 1e-12, "DistanceToLine")
	assert.False(t, geom.IsFinite(geom.Vec(math.NaN(), 0)))
	assert.False(t, geom.IsFinite(geom.Vec(0, math.Inf(1))))
	assert.True(t, geom.IsFinite(geom.Vec(1, 2)))
}

func TestInertiaPoint(t *testing.T) {
	t.Parallel()

	testutil.AssertNear(t, geom.GeometricSum(3, 0.5), 1.75, 1e-12, "GeometricSum")
	testutil.AssertNear(t, geom.GeometricSum(4, 1), 4, 1e-12, "GeometricSum r=1")
	assert.Zero(t, geom.GeometricSum(0, 0.5))

	testutil.AssertVecNear(t, geom.InertiaPoint(geom.Vector2{}, geom.Vec(1, 0), 2, 0.5), geom.Vec(1.5, 0), 1e-12, "InertiaPoint")
	assert.Equal(t, geom.Vec(3, 3), geom.InertiaPoint(geom.Vec(3, 3), geom.Vec(1, 0), 0, 0.5))
}

func TestSector(t *testing.T) {
	t.Parallel()

	s := geom.Sector{MinRadius: 1, MaxRadius: 2, StartDir: -10, Width: 20}
	assert.True(t, s.Contains(geom.Vec(1.5, 0)))
	assert.False(t, s.Contains(geom.Vec(0.5, 0)))
	assert.False(t, s.Contains(geom.Vec(0, 1.5)))

	points := s.Sample(4, 0.5)
	assert.Len(t, points, 9)
	for _, p := range points {
		r := geom.Norm(p)
		assert.True(t, r >= 1-1e-9 && r <= 2+1e-9, "radius %v", r)
	}
}

func TestRect(t *testing.T) {
	t.Parallel()

	r := geom.RectFromCenter(geom.Vec(1, 1), 4, 2)
	assert.Equal(t, geom.Vec(-1, 0), r.Min)
	assert.Equal(t, geom.Vec(3, 2), r.Max)
	assert.True(t, r.Contains(geom.Vec(3, 2)))
	assert.False(t, r.Contains(geom.Vec(3.1, 1)))
	assert.False(t, r.IsZero())
	assert.True(t, geom.Rect{}.IsZero())
}

func TestViewCone(t *testing.T) {
	t.Parallel()

	c := geom.ViewCone{Width: 90, MaxDist: 40, NearDist: 3, AngleMargin: 5}
	assert.True(t, c.Contains(geom.Vec(-2, 0)), "near area is seen in every direction")
	assert.True(t, c.Contains(geom.Vec(10, 0)))
	assert.False(t, c.Contains(geom.Vec(10, 10)))
	assert.False(t, c.Contains(geom.Vec(50, 0)))
	assert.True(t, c.WithMaxDist(60).Contains(geom.Vec(50, 0)))

	narrow := c
	narrow.AngleMargin = 45
	assert.False(t, narrow.Contains(geom.Vec(10, 0)))
}
