package world

import (
	"math"

	"github.com/fieldsense/perception/internal/geom"
	"github.com/fieldsense/perception/internal/monitoring"
	"github.com/fieldsense/perception/internal/sensor"
)

const (
	tackleCycles = 10
	maxNeckAngle = 90.0
)

// InternalStep advances the belief to cycle now without observations: the
// last command's effects are applied to ourselves and the ball, every body
// drifts by its velocity, and every age grows by the number of elapsed
// cycles. A second call for the same cycle is a no-op.
func (w *WorldState) InternalStep(effects sensor.ActionEffects, now int) {
	if w.stepped && now <= w.cycle {
		return
	}
	n := 1
	if w.stepped {
		n = now - w.cycle
	}
	w.stepped = true
	w.cycle = now
	w.reach = emptyReach(now)

	w.applyEffects(effects)
	steps := n
	if steps > int(w.cfg.AgeUnknown) {
		steps = int(w.cfg.AgeUnknown)
	}
	for i := 0; i < steps; i++ {
		w.stepSelf(i == 0, effects)
		w.ball.drift(w.server.BallDecay)
		for p := pool(0); p < numPools; p++ {
			for _, h := range w.pools[p] {
				if rec := w.arena.get(h); rec != nil {
					rec.drift(rec.Type.PlayerDecay)
				}
			}
		}
	}

	unknown := w.cfg.AgeUnknown
	w.self.ageBy(n, unknown)
	w.self.FaceAge = w.self.FaceAge.Add(n, unknown)
	w.ball.ageBy(n, unknown)
	w.ball.RPosAge = w.ball.RPosAge.Add(n, unknown)
	if w.SelfPosValid() && w.BallPosValid() {
		w.ball.RPos = geom.Sub(w.ball.Pos, w.self.Pos)
	}
	w.self.TackleExpires = countdown(w.self.TackleExpires, n)
	w.self.ArmMovable = countdown(w.self.ArmMovable, n)
	w.self.ArmExpires = countdown(w.self.ArmExpires, n)
	w.self.CollidedBall, w.self.CollidedPlayer, w.self.CollidedPost = false, false, false
	w.self.CollisionInferred = false

	var broken []Handle
	for p := pool(0); p < numPools; p++ {
		for _, h := range w.pools[p] {
			rec := w.arena.get(h)
			if rec == nil {
				continue
			}
			rec.ageBy(n, unknown)
			if !rec.finite() {
				broken = append(broken, h)
			}
		}
	}
	for _, h := range broken {
		monitoring.Diagf("cycle %d: dropping player %d with non-finite state", now, h.Key())
		w.removePlayer(h)
	}
	if !w.self.finite() {
		monitoring.Diagf("cycle %d: self state non-finite, forgetting pose", now)
		w.self.TrackedPose = unknownPose(unknown)
	}
	if !w.ball.finite() {
		monitoring.Diagf("cycle %d: ball state non-finite, forgetting ball", now)
		w.ball.TrackedPose = unknownPose(unknown)
		w.ball.RPosAge = unknown
	}
}

func countdown(v, n int) int {
	if v <= n {
		return 0
	}
	return v - n
}

// applyEffects applies the accelerations of the last command: the kick to
// the ball and the turn of our body and neck.
func (w *WorldState) applyEffects(e sensor.ActionEffects) {
	if e.KickPower != 0 && w.self.Kickable && w.SelfFaceValid() {
		rel := w.ball.RPos
		dist := geom.Norm(rel)
		margin := w.self.Type.KickableMargin
		gap := math.Max(0, dist-w.self.Type.PlayerSize-w.server.BallSize)
		rate := w.server.KickPowerRate * (1 - 0.25*geom.AngleDiff(geom.Dir(rel), w.self.Body)/180)
		if margin > 0 {
			rate -= w.server.KickPowerRate * 0.25 * gap / margin
		}
		accel := math.Max(0, rate) * math.Min(math.Abs(e.KickPower), w.server.MaxPower)
		vel := geom.Add(w.ball.Vel, geom.Polar(accel, w.self.Body+e.KickDir))
		w.ball.Vel = geom.ClampLength(vel, w.server.BallSpeedMax)
		w.ball.VelAge = 0
	}

	if w.SelfFaceValid() {
		if e.TurnMoment != 0 {
			moment := math.Max(-w.server.MaxMoment, math.Min(w.server.MaxMoment, e.TurnMoment))
			speed := geom.Norm(w.self.Vel)
			w.self.Body = geom.NormalizeAngle(w.self.Body + moment/(1+w.self.Type.InertiaMoment*speed))
		}
		if e.NeckMoment != 0 {
			w.self.Neck = math.Max(-maxNeckAngle, math.Min(maxNeckAngle, w.self.Neck+e.NeckMoment))
		}
		w.self.Face = geom.NormalizeAngle(w.self.Body + w.self.Neck)
	}
	if e.Tackle {
		w.self.TackleExpires = tackleCycles
	}
}

// stepSelf moves us by one cycle. The dash and its stamina cost only apply
// on the first of several elapsed cycles.
func (w *WorldState) stepSelf(first bool, e sensor.ActionEffects) {
	if first && e.DashPower != 0 && w.SelfFaceValid() {
		power := math.Max(w.server.MinPower, math.Min(w.server.MaxPower, e.DashPower))
		dir := w.self.Body + e.DashDir
		cost := power
		rate := w.self.Type.DashRate(w.self.Effort)
		if power < 0 {
			dir += 180
			power = -power
			cost = 2 * power
			rate *= w.server.BackDashRate
		}
		vel := geom.Add(w.self.Vel, geom.Polar(power*rate, dir))
		w.self.Vel = geom.ClampLength(vel, w.self.Type.PlayerSpeedMax)
		w.self.Stamina = math.Max(0, w.self.Stamina-cost)
	}
	if first {
		w.self.Stamina = math.Min(w.server.StaminaMax,
			w.self.Stamina+w.self.Recovery*w.self.Type.StaminaIncMax)
	}

	w.self.pushMove(w.self.Vel)
	w.self.drift(w.self.Type.PlayerDecay)
}
