package world

import (
	"github.com/fieldsense/perception/internal/geom"
	"github.com/fieldsense/perception/internal/monitoring"
)

// CheckGhosts marks every body that should have been seen inside cone this
// cycle but was not. A ghost's position age jumps to the unknown sentinel.
// A player ghosted a second time while stale is deleted.
func (w *WorldState) CheckGhosts(cone geom.ViewCone, now int) {
	unknown := w.cfg.AgeUnknown

	if w.ball.SeenPosAge > 0 && w.ball.PosAge < unknown &&
		cone.WithMaxDist(w.cfg.GhostBallMaxDist).Contains(w.ball.Pos) {
		w.ball.Ghost = true
		w.ball.GhostCycle = now
		w.ball.PosAge = unknown
		w.ball.VelAge = unknown
		w.ball.RPosAge = unknown
		monitoring.Diagf("cycle %d: ball ghost at (%.2f, %.2f)", now, w.ball.Pos.X, w.ball.Pos.Y)
		if w.DebugCollector != nil && w.DebugCollector.IsEnabled() {
			w.DebugCollector.RecordGhost(0, true, 1)
		}
	}

	var erase []Handle
	for p := pool(0); p < numPools; p++ {
		for _, h := range w.pools[p] {
			rec := w.arena.get(h)
			if rec == nil || rec.SeenPosAge == 0 || !cone.Contains(rec.Pos) {
				continue
			}
			rec.GhostCount++
			if rec.GhostCount >= 2 && int(rec.PosAge) >= w.cfg.GhostStaleAge {
				erase = append(erase, h)
			} else {
				rec.PosAge = unknown
			}
			monitoring.Diagf("cycle %d: player %d (%s #%d) ghost %d", now, h.Key(), rec.Team, rec.Unum, rec.GhostCount)
			if w.DebugCollector != nil && w.DebugCollector.IsEnabled() {
				w.DebugCollector.RecordGhost(h.Key(), false, rec.GhostCount)
			}
		}
	}
	for _, h := range erase {
		w.removePlayer(h)
	}
}
