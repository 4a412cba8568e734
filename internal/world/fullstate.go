package world

import (
	"github.com/fieldsense/perception/internal/geom"
	"github.com/fieldsense/perception/internal/sensor"
)

// ApplyFullState replaces every estimate with the exact values of a
// full-state snapshot. It does nothing unless full state is enabled. The
// snapshot is in server coordinates and is turned around when we play on
// the right.
func (w *WorldState) ApplyFullState(fs sensor.FullState) {
	if !w.cfg.FullStateEnabled {
		return
	}
	flip := w.self.Side == sensor.SideRight
	vec := func(v geom.Vector2) geom.Vector2 {
		if flip {
			return geom.Reverse(v)
		}
		return v
	}
	angle := func(a float64) float64 {
		if flip {
			return geom.NormalizeAngle(a + 180)
		}
		return geom.NormalizeAngle(a)
	}
	exact := func(t *TrackedPose, pos, vel geom.Vector2) {
		t.observe(vec(pos), geom.Vector2{})
		t.observeVel(vec(vel), geom.Vector2{}, 0)
	}

	exact(&w.ball.TrackedPose, fs.BallPos, fs.BallVel)
	w.ball.Ghost = false
	w.ball.RPosAge = 0

	exact(&w.self.TrackedPose, fs.Self.Pos, fs.Self.Vel)
	w.self.Body = angle(fs.Self.Body)
	w.self.Neck = geom.NormalizeAngle(fs.Self.Neck)
	w.self.Face = geom.NormalizeAngle(w.self.Body + w.self.Neck)
	w.self.FaceErr, w.self.FaceAge = 0, 0
	w.self.Type = w.types.Get(fs.Self.TypeID)

	present := make(map[Handle]bool, len(fs.Players))
	for _, fb := range fs.Players {
		if fb.Team == sensor.TeamUnknown || fb.Unum == sensor.UnumUnknown {
			continue
		}
		if fb.Team == sensor.TeamOurs && fb.Unum == w.self.Unum {
			continue
		}
		h, ok := w.findPlayer(fb.Team, fb.Unum)
		if !ok {
			rec := newPlayerRecord(fb.Team, w.cfg.AgeUnknown, w.types.Get(fb.TypeID))
			rec.Unum = fb.Unum
			h = w.arena.insert(rec)
			p := poolFor(fb.Team)
			w.pools[p] = append(w.pools[p], h)
		}
		rec := w.arena.get(h)
		exact(&rec.TrackedPose, fb.Pos, fb.Vel)
		rec.Goalie = fb.Goalie
		rec.TypeID = fb.TypeID
		rec.Type = w.types.Get(fb.TypeID)
		rec.Body, rec.BodyAge = angle(fb.Body), 0
		rec.Face, rec.FaceAge = geom.NormalizeAngle(rec.Body+fb.Neck), 0
		rec.GhostCount = 0
		present[h] = true
	}

	var stale []Handle
	for p := pool(0); p < numPools; p++ {
		for _, h := range w.pools[p] {
			if !present[h] {
				stale = append(stale, h)
			}
		}
	}
	for _, h := range stale {
		w.removePlayer(h)
	}
	w.enforceCaps(fs.Cycle)
	w.UpdateObjectRelations()
}
