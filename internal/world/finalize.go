package world

import (
	"github.com/fieldsense/perception/internal/intercept"
	"github.com/fieldsense/perception/internal/monitoring"
	"github.com/fieldsense/perception/internal/sensor"
)

// Reach is the fastest reach of one side.
type Reach struct {
	Handle Handle // zero when the hint came from an untracked player
	Unum   int
	Cycles int
	Heard  bool
	Valid  bool
}

// ReachSummary is the per-cycle interception result the decision layer
// reads. It is cleared by InternalStep and rebuilt by
// FinalizeBeforeDecision.
type ReachSummary struct {
	Cycle        int
	Self         int
	SelfEstimate intercept.Estimate
	Teammate     Reach
	Opponent     Reach
}

func emptyReach(cycle int) ReachSummary {
	return ReachSummary{Cycle: cycle, Self: intercept.UnreachableCycles}
}

// FinalizeBeforeDecision runs the interception predictor over the current
// belief, folds in strictly faster broadcast reach hints and updates the
// tactical lines. A second call for the same cycle is a no-op.
func (w *WorldState) FinalizeBeforeDecision(now int) {
	if w.finalized && now <= w.finalAt {
		return
	}
	w.finalized = true
	w.finalAt = now

	in := intercept.Input{
		Self:      w.selfMover(),
		SelfValid: w.SelfPosValid(),
		Ball:      w.ball.Pos,
		BallValid: w.BallPosValid(),
	}
	if w.BallVelValid() {
		in.BallVel = w.ball.Vel
	}
	for _, p := range []pool{poolTeammates, poolOpponents} {
		for _, h := range w.pools[p] {
			rec := w.arena.get(h)
			if rec == nil {
				continue
			}
			in.Candidates = append(in.Candidates, intercept.Candidate{
				Key:   h.Key(),
				Team:  rec.Team,
				Mover: w.playerMover(*rec),
			})
		}
	}
	w.table.Update(now, in)

	r := emptyReach(now)
	r.Self = w.table.SelfReachCycle()
	r.SelfEstimate, _ = w.table.SelfEstimate()
	if best, ok := w.table.FastestTeammate(); ok {
		r.Teammate = w.reachFromResult(best)
	}
	if best, ok := w.table.FastestOpponent(); ok {
		r.Opponent = w.reachFromResult(best)
	}
	for _, hint := range w.heard.reach {
		w.foldReachHint(&r, hint, now)
	}
	w.heard.reach = w.heard.reach[:0]
	w.reach = r

	w.UpdateOffsideLine()
	w.UpdateDefenseLine()
}

func (w *WorldState) reachFromResult(res intercept.Result) Reach {
	h := HandleFromKey(res.Key)
	unum := sensor.UnumUnknown
	if rec := w.arena.get(h); rec != nil {
		unum = rec.Unum
	}
	return Reach{Handle: h, Unum: unum, Cycles: res.Estimate.TotalCycles(), Valid: true}
}

// foldReachHint replaces a side's fastest reach with a broadcast one when
// the broadcast, counted down to now, is strictly faster.
func (w *WorldState) foldReachHint(r *ReachSummary, hint sensor.ReachHint, now int) {
	elapsed := now - hint.Cycle
	if elapsed < 0 || hint.Cycles < 0 {
		return
	}
	cycles := hint.Cycles - elapsed
	if cycles < 0 {
		cycles = 0
	}

	var dst *Reach
	switch hint.Team {
	case sensor.TeamOurs:
		if hint.Unum == w.self.Unum {
			return
		}
		dst = &r.Teammate
	case sensor.TeamTheirs:
		dst = &r.Opponent
	default:
		return
	}
	if dst.Valid && cycles >= dst.Cycles {
		return
	}
	h, _ := w.findPlayer(hint.Team, hint.Unum)
	*dst = Reach{Handle: h, Unum: hint.Unum, Cycles: cycles, Heard: true, Valid: true}
	monitoring.Diagf("cycle %d: %s reach %d adopted from hearing (#%d)", now, hint.Team, cycles, hint.Unum)
}
