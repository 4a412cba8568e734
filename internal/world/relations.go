package world

import (
	"sort"

	"github.com/fieldsense/perception/internal/geom"
)

// UpdateObjectRelations recomputes the ball and player positions relative
// to us and to the ball, rebuilds the distance-sorted player views and sets
// the kickable flags.
func (w *WorldState) UpdateObjectRelations() {
	selfOK, ballOK := w.SelfPosValid(), w.BallPosValid()

	w.self.Kickable, w.self.Catchable = false, false
	if selfOK && ballOK {
		w.ball.RPos = geom.Sub(w.ball.Pos, w.self.Pos)
		w.ball.RPosErr = geom.Add(w.ball.PosErr, w.self.PosErr)
		w.self.AngleFromBall = geom.Dir(geom.Reverse(w.ball.RPos))
	}
	if (selfOK && ballOK) || w.BallRPosValid() {
		w.ball.DistFromSelf = geom.Norm(w.ball.RPos)
		w.ball.AngleFromSelf = geom.Dir(w.ball.RPos)
		w.self.Kickable = w.ball.DistFromSelf <= w.self.Type.KickableArea()
		w.self.Catchable = w.self.Goalie && ballOK &&
			w.server.OurPenaltyArea().Contains(w.ball.Pos) &&
			w.ball.DistFromSelf <= w.self.Type.CatchableArea()
	}

	w.byDistSelf = w.byDistSelf[:0]
	for p := pool(0); p < numPools; p++ {
		for _, h := range w.pools[p] {
			rec := w.arena.get(h)
			if rec == nil {
				continue
			}
			rel := geom.Sub(rec.Pos, w.self.Pos)
			rec.RPos = rel
			rec.DistFromSelf = geom.Norm(rel)
			rec.AngleFromSelf = geom.Dir(rel)
			rec.Kickable = false
			if ballOK {
				fromBall := geom.Sub(rec.Pos, w.ball.Pos)
				rec.DistFromBall = geom.Norm(fromBall)
				rec.AngleFromBall = geom.Dir(fromBall)
				rec.Kickable = w.PlayerPosValid(*rec) && rec.DistFromBall <= rec.Type.KickableArea()
			}
			w.byDistSelf = append(w.byDistSelf, h)
		}
	}
	w.sortBy(w.byDistSelf, func(r *PlayerRecord) float64 { return r.DistFromSelf })

	// Without a ball the ball view keeps self order.
	w.byDistBall = append(w.byDistBall[:0], w.byDistSelf...)
	if ballOK {
		w.sortBy(w.byDistBall, func(r *PlayerRecord) float64 { return r.DistFromBall })
	}
}

func (w *WorldState) sortBy(hs []Handle, key func(*PlayerRecord) float64) {
	sort.SliceStable(hs, func(i, j int) bool {
		return key(w.arena.get(hs[i])) < key(w.arena.get(hs[j]))
	})
}
