package intercept

import (
	"github.com/fieldsense/perception/internal/geom"
	"github.com/fieldsense/perception/internal/params"
)

// outOfPitchMargin is how far past the touch lines the ball is still
// followed.
const outOfPitchMargin = 3.0

// BallCache is the forward-simulated ball trajectory. Entry i is the ball
// position i cycles from now; entry 0 is the current position.
type BallCache struct {
	pts []geom.Vector2
}

// NewBallCache simulates the ball under free motion for at most horizon
// cycles. It stops early once the ball leaves the pitch or slows below the
// stop speed.
func NewBallCache(pos, vel geom.Vector2, s params.Server, horizon int) *BallCache {
	if horizon < 0 {
		horizon = 0
	}
	area := s.PitchRect()
	area.Min = geom.Sub(area.Min, geom.Vec(outOfPitchMargin, outOfPitchMargin))
	area.Max = geom.Add(area.Max, geom.Vec(outOfPitchMargin, outOfPitchMargin))

	vel = geom.ClampLength(vel, s.BallSpeedMax)
	c := &BallCache{pts: make([]geom.Vector2, 0, horizon+1)}
	c.pts = append(c.pts, pos)
	for i := 0; i < horizon; i++ {
		if geom.Norm(vel) < s.BallStopSpeed || !area.Contains(pos) {
			break
		}
		pos = geom.Add(pos, vel)
		vel = geom.Scale(s.BallDecay, vel)
		c.pts = append(c.pts, pos)
	}
	return c
}

// Len returns the number of cached positions (at least 1).
func (c *BallCache) Len() int { return len(c.pts) }

// At returns the ball position i cycles ahead. Indices past the end return
// the resting position.
func (c *BallCache) At(i int) geom.Vector2 {
	if i < 0 {
		i = 0
	}
	if i >= len(c.pts) {
		return c.pts[len(c.pts)-1]
	}
	return c.pts[i]
}

// Final returns the last cached position.
func (c *BallCache) Final() geom.Vector2 { return c.pts[len(c.pts)-1] }

// Direction returns the initial travel direction of the ball and whether
// the ball moves at all.
func (c *BallCache) Direction() (float64, bool) {
	if len(c.pts) < 2 {
		return 0, false
	}
	d := geom.Sub(c.pts[1], c.pts[0])
	if geom.Norm(d) == 0 {
		return 0, false
	}
	return geom.Dir(d), true
}
