package world

import (
	"math"

	"github.com/fieldsense/perception/internal/geom"
	"github.com/fieldsense/perception/internal/monitoring"
	"github.com/fieldsense/perception/internal/sensor"
)

// UpdateBody folds in the body sensor snapshot: stamina, view width, neck
// angle, countdowns and the sensed velocity. A collision is inferred when
// the sensed speed is implausibly small against the predicted one; our
// velocity and, for ball contacts, both positions are then snapped.
func (w *WorldState) UpdateBody(b sensor.BodySense) {
	if w.bodySeen && b.Cycle <= w.bodyCycle {
		return
	}
	w.bodySeen = true
	w.bodyCycle = b.Cycle

	w.self.Stamina = b.Stamina
	w.self.Effort = b.Effort
	w.self.Recovery = b.Recovery
	w.self.Capacity = b.Capacity
	if b.ViewWidth > 0 {
		w.self.ViewWidth = b.ViewWidth
	}
	w.self.TackleExpires = b.TackleExpires
	w.self.ArmMovable = b.ArmMovable
	w.self.ArmExpires = b.ArmExpires
	w.self.Neck = b.NeckAngle
	if w.SelfFaceValid() {
		w.self.Face = geom.NormalizeAngle(w.self.Body + w.self.Neck)
	}

	w.self.CollidedBall = b.CollidedBall
	w.self.CollidedPlayer = b.CollidedPlayer
	w.self.CollidedPost = b.CollidedPost
	w.self.CollisionInferred = !b.Collided() && w.collisionInferred(b.Speed)
	if w.self.CollisionInferred {
		monitoring.Diagf("cycle %d: collision inferred (sensed speed %.3f)", b.Cycle, b.Speed)
	}

	if math.IsNaN(b.Speed) || math.IsInf(b.Speed, 0) {
		return
	}
	if w.SelfFaceValid() {
		vel := geom.Polar(b.Speed, w.self.Face+b.SpeedDir)
		errMag := 0.005 + b.Speed*math.Sin(0.5*w.server.DirQuantize*geom.DegToRad)
		w.self.observeVel(vel, geom.Vec(errMag, errMag), 0)
	}

	if b.CollidedBall || (w.self.CollisionInferred && w.ballTouching()) {
		w.snapBallCollision()
	}
}

// collisionInferred compares the sensed speed with the speed our last
// displacement predicts.
func (w *WorldState) collisionInferred(sensed float64) bool {
	moves := w.self.LastMoves()
	if len(moves) == 0 || !w.SelfVelValid() {
		return false
	}
	predicted := geom.Norm(moves[0]) * w.self.Type.PlayerDecay
	return sensed < predicted*w.cfg.CollisionSpeedRatio &&
		predicted-sensed > w.cfg.CollisionSpeedDiff
}

// ballTouching reports whether the ball estimate overlaps our body.
func (w *WorldState) ballTouching() bool {
	if !w.BallPosValid() || !w.SelfPosValid() {
		return false
	}
	return geom.Dist(w.ball.Pos, w.self.Pos) < w.self.Type.PlayerSize+w.server.BallSize
}

// snapBallCollision separates us and the ball to touching distance around
// their contact point, weighted by body size, and reverses the ball's
// velocity by the collision factor.
func (w *WorldState) snapBallCollision() {
	if !w.BallPosValid() || !w.SelfPosValid() {
		return
	}
	ps, bs := w.self.Type.PlayerSize, w.server.BallSize
	away := geom.Sub(w.self.Pos, w.ball.Pos)
	if geom.Norm(away) == 0 {
		away = geom.Reverse(w.self.Vel)
	}
	if geom.Norm(away) == 0 {
		away = geom.Polar(1, w.self.Body+180)
	}
	u := geom.WithLength(away, 1)
	contact := geom.Scale(1/(ps+bs), geom.Add(geom.Scale(bs, w.self.Pos), geom.Scale(ps, w.ball.Pos)))

	w.self.Pos = geom.Add(contact, geom.Scale(ps, u))
	w.ball.Pos = geom.Sub(contact, geom.Scale(bs, u))
	w.ball.Vel = geom.Scale(w.server.CollisionVelFactor, w.ball.Vel)
	w.ball.RPos = geom.Sub(w.ball.Pos, w.self.Pos)
	monitoring.Tracef("cycle %d: snapped ball collision, ball at (%.2f, %.2f)",
		w.cycle, w.ball.Pos.X, w.ball.Pos.Y)
}
