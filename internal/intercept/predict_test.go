package intercept

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldsense/perception/internal/geom"
	"github.com/fieldsense/perception/internal/params"
)

func selfAt(pos geom.Vector2, body float64) Mover {
	return Mover{Pos: pos, Body: body, BodyKnown: true, Type: params.DefaultPlayerType()}
}

func TestBallCacheStationary(t *testing.T) {
	t.Parallel()
	s := params.DefaultServer()

	c := NewBallCache(geom.Vec(5, 0), geom.Vector2{}, s, 50)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, geom.Vec(5, 0), c.At(20))
	_, moving := c.Direction()
	assert.False(t, moving)
}

func TestBallCacheDecaysUpToHorizon(t *testing.T) {
	t.Parallel()
	s := params.DefaultServer()

	c := NewBallCache(geom.Vec(0, 0), geom.Vec(2, 0), s, 50)
	require.Equal(t, 51, c.Len())
	assert.InDelta(t, 2.0, c.At(1).X, 1e-12)
	assert.InDelta(t, 2.0+2.0*0.94, c.At(2).X, 1e-12)
	for i := 1; i < c.Len(); i++ {
		assert.Greater(t, c.At(i).X, c.At(i-1).X)
	}
	dir, moving := c.Direction()
	assert.True(t, moving)
	assert.InDelta(t, 0.0, dir, 1e-12)
}

func TestBallCacheStopsOutsidePitch(t *testing.T) {
	t.Parallel()
	s := params.DefaultServer()

	c := NewBallCache(geom.Vec(50, 0), geom.Vec(3, 0), s, 50)
	assert.Equal(t, 3, c.Len())
	assert.InDelta(t, 50+3+3*0.94, c.Final().X, 1e-9)
}

func TestBallCacheClampsSpeed(t *testing.T) {
	t.Parallel()
	s := params.DefaultServer()

	c := NewBallCache(geom.Vec(0, 0), geom.Vec(10, 0), s, 5)
	assert.InDelta(t, s.BallSpeedMax, c.At(1).X, 1e-12)
}

func TestPredictSelfStationaryBall(t *testing.T) {
	t.Parallel()
	s := params.DefaultServer()
	opts := DefaultOptions()

	tests := []struct {
		name string
		ball geom.Vector2
		want int
	}{
		{"already kickable", geom.Vec(1.0, 0), 0},
		{"one dash", geom.Vec(1.5, 0), 1},
		{"five metres ahead", geom.Vec(5, 0), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := NewBallCache(tt.ball, geom.Vector2{}, s, opts.Horizon)
			est := PredictSelf(selfAt(geom.Vec(0, 0), 0), cache, s, opts)
			assert.Equal(t, ModeNormal, est.Mode)
			assert.Equal(t, 0, est.TurnCycles)
			assert.Equal(t, tt.want, est.TotalCycles())
		})
	}
}

func TestPredictSelfTurnsTowardsBall(t *testing.T) {
	t.Parallel()
	s := params.DefaultServer()
	opts := DefaultOptions()

	cache := NewBallCache(geom.Vec(0, 5), geom.Vector2{}, s, opts.Horizon)
	est := PredictSelf(selfAt(geom.Vec(0, 0), 0), cache, s, opts)
	assert.Equal(t, 1, est.TurnCycles)
	assert.Equal(t, 6, est.TotalCycles())
	assert.Greater(t, est.DashPower, 0.0)
}

func TestPredictSelfBackDash(t *testing.T) {
	t.Parallel()
	s := params.DefaultServer()
	opts := DefaultOptions()

	cache := NewBallCache(geom.Vec(-1.3, 0), geom.Vector2{}, s, opts.Horizon)
	est := PredictSelf(selfAt(geom.Vec(0, 0), 0), cache, s, opts)
	assert.Equal(t, 1, est.TotalCycles())
	assert.True(t, est.BackDash)
	assert.Less(t, est.DashPower, 0.0)
}

func TestPredictSelfExhaustOnlyWhenReserveIsSpent(t *testing.T) {
	t.Parallel()
	s := params.DefaultServer()
	opts := DefaultOptions()

	self := selfAt(geom.Vec(0, 0), 0)
	self.Type.StaminaIncMax = 0
	self.Stamina = s.StaminaSafetyThreshold()

	cache := NewBallCache(geom.Vec(5, 0), geom.Vector2{}, s, opts.Horizon)
	est := PredictSelf(self, cache, s, opts)
	assert.Equal(t, ModeExhaust, est.Mode)
	assert.Equal(t, 5, est.TotalCycles())
}

func TestPredictSelfFallbackBeyondHorizon(t *testing.T) {
	t.Parallel()
	s := params.DefaultServer()
	opts := DefaultOptions()
	opts.Horizon = 10

	cache := NewBallCache(geom.Vec(40, 0), geom.Vector2{}, s, opts.Horizon)
	est := PredictSelf(selfAt(geom.Vec(0, 0), 0), cache, s, opts)
	assert.Equal(t, ModeFallback, est.Mode)
	assert.GreaterOrEqual(t, est.TotalCycles(), opts.Horizon+1)
	assert.Equal(t, 39, est.TotalCycles())
}

func TestPredictPlayerSkipsStale(t *testing.T) {
	t.Parallel()
	s := params.DefaultServer()
	opts := DefaultOptions()

	m := selfAt(geom.Vec(0, 0), 0)
	m.PosAge = opts.MaxPlayerAge
	_, ok := PredictPlayer(m, NewBallCache(geom.Vec(3, 0), geom.Vector2{}, s, opts.Horizon), s, opts)
	assert.False(t, ok)
}

func TestPredictPlayerUnknownBodyNeedsTurn(t *testing.T) {
	t.Parallel()
	s := params.DefaultServer()
	opts := DefaultOptions()

	cache := NewBallCache(geom.Vec(5, 0), geom.Vector2{}, s, opts.Horizon)
	known, ok := PredictPlayer(selfAt(geom.Vec(0, 0), 0), cache, s, opts)
	require.True(t, ok)

	m := selfAt(geom.Vec(0, 0), 0)
	m.BodyKnown = false
	unknown, ok := PredictPlayer(m, cache, s, opts)
	require.True(t, ok)

	assert.Equal(t, 0, known.TurnCycles)
	assert.Equal(t, 1, unknown.TurnCycles)
	assert.Equal(t, known.TotalCycles()+1, unknown.TotalCycles())
}

func TestPredictPlayerGoalieCatchArea(t *testing.T) {
	t.Parallel()
	s := params.DefaultServer()
	opts := DefaultOptions()

	ball := geom.Vec(-46.8, 0)
	cache := NewBallCache(ball, geom.Vector2{}, s, opts.Horizon)

	keeper := selfAt(geom.Vec(-48, 0), 0)
	keeper.Goalie = true
	keeper.CatchArea = s.OurPenaltyArea()
	est, ok := PredictPlayer(keeper, cache, s, opts)
	require.True(t, ok)
	assert.Equal(t, 0, est.TotalCycles())

	fieldPlayer := selfAt(geom.Vec(-48, 0), 0)
	est, ok = PredictPlayer(fieldPlayer, cache, s, opts)
	require.True(t, ok)
	assert.Equal(t, 1, est.TotalCycles())

	// Outside the penalty area the keeper only has feet.
	far := geom.Vec(10, 0)
	keeper.Pos = geom.Sub(far, geom.Vec(1.2, 0))
	est, ok = PredictPlayer(keeper, NewBallCache(far, geom.Vector2{}, s, opts.Horizon), s, opts)
	require.True(t, ok)
	assert.Equal(t, 1, est.TotalCycles())
}

// A wider control area can never make the ball reachable later.
func TestPredictMonotoneInControlArea(t *testing.T) {
	t.Parallel()
	s := params.DefaultServer()
	opts := DefaultOptions()

	scenarios := []struct {
		name string
		pos  geom.Vector2
		body float64
		ball geom.Vector2
		vel  geom.Vector2
	}{
		{"crossing ball", geom.Vec(0, 0), 90, geom.Vec(10, 6), geom.Vec(-1.6, 0)},
		{"ball running away", geom.Vec(0, 0), 0, geom.Vec(3, 1), geom.Vec(1.2, 0.3)},
		{"ball behind", geom.Vec(0, 0), 0, geom.Vec(-4, -2), geom.Vec(0, 0.5)},
		{"stationary far", geom.Vec(-20, 10), -45, geom.Vec(15, -12), geom.Vector2{}},
	}
	margins := []float64{0.1, 0.3, 0.5, 0.7, 0.9, 1.2, 1.6}

	for _, sc := range scenarios {
		t.Run(sc.name, func(t *testing.T) {
			cache := NewBallCache(sc.ball, sc.vel, s, opts.Horizon)
			prevSelf, prevPlayer := UnreachableCycles+1, UnreachableCycles+1
			for _, margin := range margins {
				m := selfAt(sc.pos, sc.body)
				m.Type.KickableMargin = margin

				self := PredictSelf(m, cache, s, opts).TotalCycles()
				assert.LessOrEqual(t, self, prevSelf, "self, margin %v", margin)
				prevSelf = self

				player, ok := PredictPlayer(m, cache, s, opts)
				require.True(t, ok)
				assert.LessOrEqual(t, player.TotalCycles(), prevPlayer, "player, margin %v", margin)
				prevPlayer = player.TotalCycles()
			}
		})
	}
}

func TestEstimateNeverNegativeOrUnbounded(t *testing.T) {
	t.Parallel()
	s := params.DefaultServer()
	opts := DefaultOptions()

	m := selfAt(geom.Vec(-50, -30), 180)
	m.Type.PlayerSpeedMax = 0.01
	cache := NewBallCache(geom.Vec(50, 30), geom.Vector2{}, s, opts.Horizon)

	est := PredictSelf(m, cache, s, opts)
	assert.GreaterOrEqual(t, est.TotalCycles(), 0)
	assert.LessOrEqual(t, est.TotalCycles(), UnreachableCycles)
	assert.Equal(t, "fallback", est.Mode.String())
}
