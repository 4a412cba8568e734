package world

import (
	"math"

	"github.com/fieldsense/perception/internal/geom"
	"github.com/fieldsense/perception/internal/monitoring"
	"github.com/fieldsense/perception/internal/sensor"
)

// heardHints are broadcast values kept for the end of the cycle.
type heardHints struct {
	reach   []sensor.ReachHint
	offside *sensor.LineHint
	defense *sensor.LineHint
}

// FuseHearing folds in what teammates broadcast. Heard ball and player
// positions are extrapolated to now and adopted only when fresher than the
// current estimate. Reach and line hints are kept for FinalizeBeforeDecision.
// Only the first hearing of a cycle is fused.
func (w *WorldState) FuseHearing(h sensor.Hearing, now int) {
	if w.hearSeen && now <= w.hearCycle {
		return
	}
	w.hearSeen = true
	w.hearCycle = now

	unknown := w.cfg.AgeUnknown
	changed := false

	if b := h.Ball; b != nil && geom.IsFinite(b.Pos) && geom.IsFinite(b.Vel) {
		if elapsed := now - b.Cycle; elapsed >= 0 {
			age := ageOf(elapsed, unknown)
			decay := w.server.BallDecay
			pos := geom.InertiaPoint(b.Pos, b.Vel, elapsed, decay)
			if w.ball.hear(pos, age) {
				vel := b.Vel
				for i := 0; i < elapsed && i < int(unknown); i++ {
					vel = geom.Scale(decay, vel)
				}
				w.ball.observeVel(vel, geom.Vector2{}, age)
				w.ball.Ghost = false
				changed = true
				monitoring.Diagf("cycle %d: ball adopted from hearing (age %d)", now, age)
			}
		}
	}

	claimed := make(map[uint64]bool, len(h.Players))
	regrouped := false
	for _, hp := range h.Players {
		elapsed := now - hp.Cycle
		if elapsed < 0 || !geom.IsFinite(hp.Pos) || hp.Team == sensor.TeamUnknown {
			continue
		}
		if hp.Team == sensor.TeamOurs && hp.Unum == w.self.Unum {
			continue
		}
		age := ageOf(elapsed, unknown)
		handle, ok := w.matchHeard(hp, elapsed, claimed)
		if !ok {
			rec := newPlayerRecord(hp.Team, unknown, w.types.Get(0))
			handle = w.arena.insert(rec)
			p := poolFor(hp.Team)
			w.pools[p] = append(w.pools[p], handle)
			changed = true
		}
		claimed[handle.Key()] = true

		rec := w.arena.get(handle)
		if rec.Team == sensor.TeamUnknown {
			rec.Team = hp.Team
			regrouped, changed = true, true
		}
		if hp.Unum != sensor.UnumUnknown {
			rec.Unum = hp.Unum
		}
		if rec.hear(hp.Pos, age) {
			changed = true
			if hp.Body != nil && age < rec.BodyAge {
				rec.Body, rec.BodyAge = geom.NormalizeAngle(*hp.Body), age
			}
		}
	}
	if regrouped {
		w.regroupUnknown()
	}

	w.heard.reach = append(w.heard.reach, h.Reach...)
	if h.OffsideLine != nil {
		hint := *h.OffsideLine
		w.heard.offside = &hint
	}
	if h.DefenseLine != nil {
		hint := *h.DefenseLine
		w.heard.defense = &hint
	}

	if changed {
		for p := pool(0); p < numPools; p++ {
			w.sortByConfidence(w.pools[p])
		}
		w.enforceCaps(now)
		w.UpdateObjectRelations()
	}
}

// matchHeard finds the record a heard player refers to: the tracked player
// with the same number, otherwise the nearest compatible record within the
// association gate widened by how old the message is.
func (w *WorldState) matchHeard(hp sensor.HeardPlayer, elapsed int, claimed map[uint64]bool) (Handle, bool) {
	if h, ok := w.findPlayer(hp.Team, hp.Unum); ok && !claimed[h.Key()] {
		return h, true
	}
	id := sensor.PlayerSeen{Team: hp.Team, Unum: hp.Unum}
	var best Handle
	found, bestDist := false, math.Inf(1)
	for _, p := range candidatePools(hp.Team) {
		for _, h := range w.pools[p] {
			rec := w.arena.get(h)
			if rec == nil || claimed[h.Key()] || !compatible(rec, id) {
				continue
			}
			d := geom.Dist(rec.Pos, hp.Pos)
			bound := w.gate(rec, geom.Vector2{}) + rec.Type.PlayerSpeedMax*float64(elapsed)
			if d <= bound && d < bestDist {
				best, found, bestDist = h, true, d
			}
		}
	}
	return best, found
}

// regroupUnknown moves records whose team became known out of the unknown
// pool.
func (w *WorldState) regroupUnknown() {
	kept := w.pools[poolUnknown][:0]
	for _, h := range w.pools[poolUnknown] {
		if rec := w.arena.get(h); rec != nil && rec.Team != sensor.TeamUnknown {
			p := poolFor(rec.Team)
			w.pools[p] = append(w.pools[p], h)
			continue
		}
		kept = append(kept, h)
	}
	w.pools[poolUnknown] = kept
}
