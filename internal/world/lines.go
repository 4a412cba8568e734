package world

import (
	"math"
	"sort"

	"github.com/fieldsense/perception/internal/monitoring"
	"github.com/fieldsense/perception/internal/sensor"
)

// LineEstimate is a tactical line x-coordinate with its confidence.
type LineEstimate struct {
	X     float64
	Age   Age
	Count int  // players the value was computed from
	Heard bool // adopted from a teammate's broadcast
}

// Valid reports whether the line is younger than threshold.
func (l LineEstimate) Valid(threshold int) bool { return l.Age.Valid(threshold) }

// UpdateOffsideLine recomputes the offside line: the x of the second most
// advanced opponent, an unseen goalie assumed on the goal line, never behind
// the ball nor inside our half.
func (w *WorldState) UpdateOffsideLine() {
	xs, goalie := w.lineSample(sensor.TeamTheirs)
	w.offside = w.updateLine("offside", w.offside, xs, goalie, 1, w.heard.offside)
}

// UpdateDefenseLine recomputes our defense line, mirrored: the second
// deepest teammate including ourselves.
func (w *WorldState) UpdateDefenseLine() {
	xs, goalie := w.lineSample(sensor.TeamOurs)
	if w.SelfPosValid() {
		xs = append(xs, w.self.Pos.X)
		goalie = goalie || w.self.Goalie
	}
	w.defense = w.updateLine("defense", w.defense, xs, goalie, -1, w.heard.defense)
}

func (w *WorldState) lineSample(team sensor.Team) ([]float64, bool) {
	var xs []float64
	goalie := false
	for _, p := range w.FindPlayers(And(IsTeam(team), IsValid)) {
		xs = append(xs, p.Pos.X)
		goalie = goalie || p.Goalie
	}
	return xs, goalie
}

// updateLine computes the line in direction dir (+1 towards their goal) and
// applies hysteresis against prev and the heard override. A rejected jump
// ages the previous line, so a line that stays rejected long enough goes
// stale and the next jump is accepted.
func (w *WorldState) updateLine(name string, prev LineEstimate, xs []float64, goalieSeen bool,
	dir float64, hint *sensor.LineHint) LineEstimate {
	unknown := w.cfg.AgeUnknown
	ballOK := w.BallPosValid()

	line := prev
	line.Age = prev.Age.Inc(unknown)
	line.Heard = prev.Heard && line.Age < unknown

	if len(xs) > 0 || ballOK {
		all := append([]float64(nil), xs...)
		if !goalieSeen {
			all = append(all, dir*w.server.HalfLength())
		}
		sort.Slice(all, func(i, j int) bool { return dir*all[i] > dir*all[j] })
		raw := 0.0
		if len(all) >= 2 {
			raw = all[1]
		}
		if ballOK && dir*w.ball.Pos.X > dir*raw {
			raw = w.ball.Pos.X
		}
		if dir*raw < 0 {
			raw = 0
		}

		ballPast := ballOK && dir*(w.ball.Pos.X-prev.X) > 0
		jump := math.Abs(raw - prev.X)
		if prev.Valid(w.cfg.HeardLineMaxAge) && jump > w.cfg.LineJumpThreshold &&
			len(xs) < w.cfg.LineJumpMinCount && !ballPast {
			monitoring.Diagf("cycle %d: %s line jump %.2f -> %.2f rejected (%d players)",
				w.cycle, name, prev.X, raw, len(xs))
		} else {
			line = LineEstimate{X: raw, Count: len(xs)}
		}
	}

	if hint != nil {
		age := ageOf(w.cycle-hint.Cycle, unknown)
		if int(age) <= w.cfg.HeardLineMaxAge && age <= line.Age && dir*(hint.X-line.X) > 0 {
			monitoring.Diagf("cycle %d: %s line %.2f adopted from hearing (was %.2f)",
				w.cycle, name, hint.X, line.X)
			line = LineEstimate{X: hint.X, Age: age, Count: line.Count, Heard: true}
		}
	}
	return line
}
