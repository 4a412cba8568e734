package intercept

import (
	"math"

	"github.com/fieldsense/perception/internal/geom"
	"github.com/fieldsense/perception/internal/params"
)

// plan is one way of closing on the ball: turn for some cycles, then dash.
type plan struct {
	turns   int
	dashDir float64 // direction of acceleration
	back    bool
}

// predictor bundles the constants of one prediction run.
type predictor struct {
	s    params.Server
	opts Options
}

// plans lists the candidate turn-then-dash plans for reaching a target at
// targetDir, dist away. A plan is admitted when its residual misalignment
// is within the turn margin, so a wider reach never removes a plan.
func (p predictor) plans(m Mover, targetDir, dist, reach float64, maxTurns int) []plan {
	margin := turnMargin(reach, dist, p.opts.TurnMarginFloor)
	out := make([]plan, 0, 4)

	if !m.BodyKnown {
		if maxTurns >= 1 {
			out = append(out, plan{turns: 1, dashDir: targetDir})
		}
		return out
	}

	diff := geom.NormalizeAngle(m.Body - targetDir)
	sign := 1.0
	if diff < 0 {
		sign = -1
	}
	residual := math.Abs(diff)
	speed := geom.Norm(m.Vel)
	for k := 0; k <= maxTurns; k++ {
		if residual <= margin {
			out = append(out, plan{turns: k, dashDir: targetDir + sign*residual})
		}
		if residual <= 0 {
			break
		}
		residual = math.Max(0, residual-m.Type.MaxTurn(p.s.MaxMoment, speed))
		speed *= m.Type.PlayerDecay
	}

	angle := math.Abs(diff)
	if dist < p.opts.BackDashDist && angle > 180-p.opts.BackDashAngle {
		if back := 180 - angle; back <= margin {
			out = append(out, plan{turns: 0, dashDir: targetDir - sign*back, back: true})
		}
	}
	return out
}

// simulate runs pl for n cycles in total and reports whether, after some
// number of dashes, drifting for the remaining cycles ends within reach of
// ball. It returns the power of the first dash.
func (p predictor) simulate(m Mover, pl plan, n int, ball geom.Vector2, reach float64, mode Mode) (float64, bool) {
	decay := m.Type.PlayerDecay
	pos, vel := m.Pos, m.Vel
	for t := 0; t < pl.turns; t++ {
		pos = geom.Add(pos, vel)
		vel = geom.Scale(decay, vel)
	}
	dashes := n - pl.turns
	if geom.Dist(geom.InertiaPoint(pos, vel, dashes, decay), ball) <= reach {
		return 0, true
	}

	costFactor, rateFactor := 1.0, 1.0
	if pl.back {
		costFactor, rateFactor = 2.0, p.s.BackDashRate
	}
	threshold := p.s.StaminaSafetyThreshold()
	stamina := m.Stamina
	firstPower := 0.0

	for j := 1; j <= dashes; j++ {
		var avail float64
		if mode == ModeExhaust {
			avail = stamina + m.Type.ExtraStamina
		} else {
			avail = stamina - threshold
		}
		power := math.Min(p.s.MaxPower, math.Max(0, avail)/costFactor)

		accel := power * m.Type.DashRate(m.Effort) * rateFactor
		vel = geom.ClampLength(geom.Add(vel, geom.Polar(accel, pl.dashDir)), m.Type.PlayerSpeedMax)
		pos = geom.Add(pos, vel)
		vel = geom.Scale(decay, vel)
		stamina = math.Min(p.s.StaminaMax, stamina-power*costFactor+m.Type.StaminaIncMax)

		if j == 1 {
			firstPower = power
			if pl.back {
				firstPower = -power
			}
		}
		if geom.Dist(geom.InertiaPoint(pos, vel, dashes-j, decay), ball) <= reach {
			return firstPower, true
		}
	}
	return firstPower, false
}

// tryCycle checks every admitted plan for reaching the ball at cycle n.
func (p predictor) tryCycle(m Mover, ball geom.Vector2, n int, reach float64, mode Mode, maxTurns int) (Estimate, bool) {
	inertia := geom.InertiaPoint(m.Pos, m.Vel, n, m.Type.PlayerDecay)
	target := geom.Sub(ball, inertia)
	dist := geom.Norm(target)
	if dist <= reach {
		return Estimate{Mode: mode, DashCycles: n}, true
	}
	if maxTurns > n {
		maxTurns = n
	}
	for _, pl := range p.plans(m, geom.Dir(target), dist, reach, maxTurns) {
		if pl.turns > n {
			continue
		}
		if power, ok := p.simulate(m, pl, n, ball, reach, mode); ok {
			return Estimate{
				Mode:       mode,
				TurnCycles: pl.turns,
				DashCycles: n - pl.turns,
				DashPower:  power,
				BackDash:   pl.back,
			}, true
		}
	}
	return Estimate{}, false
}

// fallback estimates the cycles to the ball's resting point at real max
// speed. It is never earlier than the first cycle past the horizon.
func (p predictor) fallback(m Mover, cache *BallCache, reach float64) Estimate {
	final := cache.Final()
	rel := geom.Sub(final, m.Pos)
	dist := geom.Norm(rel) - reach

	turns := 0
	if !m.BodyKnown {
		turns = 1
	} else if geom.AngleDiff(m.Body, geom.Dir(rel)) > turnMargin(reach, geom.Norm(rel), p.opts.TurnMarginFloor) {
		turns = 1
	}
	total := turns + m.Type.CyclesToReach(math.Max(0, dist))
	if total < p.opts.Horizon+1 {
		total = p.opts.Horizon + 1
	}
	total = capCycles(total)
	if turns > total {
		turns = total
	}
	return Estimate{Mode: ModeFallback, TurnCycles: turns, DashCycles: total - turns}
}

// PredictSelf returns our earliest reach estimate. Cycles reachable while
// keeping the stamina reserve win over cycles that need it.
func PredictSelf(self Mover, cache *BallCache, s params.Server, opts Options) Estimate {
	p := predictor{s: s, opts: opts}
	self = self.rested(s)
	reachAt := func(ball geom.Vector2) float64 {
		return math.Max(0, self.controlArea(ball)-opts.ControlBuffer)
	}

	for _, mode := range [2]Mode{ModeNormal, ModeExhaust} {
		for n := 0; n <= opts.Horizon; n++ {
			ball := cache.At(n)
			if est, ok := p.tryCycle(self, ball, n, reachAt(ball), mode, math.MaxInt32); ok {
				return est
			}
		}
	}
	return p.fallback(self, cache, reachAt(cache.Final()))
}

// PredictPlayer returns a tracked player's earliest reach estimate. It
// reports false when the player's position is too stale to trust.
func PredictPlayer(m Mover, cache *BallCache, s params.Server, opts Options) (Estimate, bool) {
	if m.PosAge >= opts.MaxPlayerAge {
		return Estimate{}, false
	}
	p := predictor{s: s, opts: opts}
	m = m.rested(s)
	speed := m.Type.RealSpeedMax()
	reachAt := func(ball geom.Vector2) float64 {
		return math.Max(m.controlArea(ball), opts.CloseEnough)
	}

	start := 0
	if dir, moving := cache.Direction(); moving && speed > 0 {
		lateral := geom.DistanceToLine(m.Pos, cache.At(0), dir) - m.widestControlArea()
		if lateral > 0 {
			start = int(math.Ceil(lateral / speed))
		}
	}

	for n := start; n <= opts.Horizon; n++ {
		ball := cache.At(n)
		reach := reachAt(ball)
		if geom.Dist(m.Pos, ball)-reach > speed*float64(n) {
			continue
		}
		if est, ok := p.tryCycle(m, ball, n, reach, ModeNormal, 1); ok {
			return est, true
		}
	}
	return p.fallback(m, cache, reachAt(cache.Final())), true
}
