package world

import (
	"math"
	"sort"

	"github.com/fieldsense/perception/internal/geom"
	"github.com/fieldsense/perception/internal/localize"
	"github.com/fieldsense/perception/internal/monitoring"
	"github.com/fieldsense/perception/internal/sensor"
)

// playerSample is one seen player, localized in absolute coordinates.
type playerSample struct {
	index    int
	seen     sensor.PlayerSeen
	fix      localize.ObjectFix
	pos      geom.Vector2
	posErr   geom.Vector2
	vel      geom.Vector2
	velErr   geom.Vector2
	priority int
}

// associationPriority orders samples so that the least ambiguous ones claim
// tracked records first: numbered opponents, anonymous opponents, numbered
// teammates, anonymous teammates, then samples of unknown team.
func associationPriority(p sensor.PlayerSeen) int {
	numbered := p.Unum != sensor.UnumUnknown
	switch {
	case p.Team == sensor.TeamTheirs && numbered:
		return 0
	case p.Team == sensor.TeamTheirs:
		return 1
	case p.Team == sensor.TeamOurs && numbered:
		return 2
	case p.Team == sensor.TeamOurs:
		return 3
	default:
		return 4
	}
}

// candidatePools lists where a sample of the given team may find its
// record.
func candidatePools(team sensor.Team) []pool {
	switch team {
	case sensor.TeamOurs:
		return []pool{poolTeammates, poolUnknown}
	case sensor.TeamTheirs:
		return []pool{poolOpponents, poolUnknown}
	default:
		return []pool{poolTeammates, poolOpponents, poolUnknown}
	}
}

func compatible(rec *PlayerRecord, s sensor.PlayerSeen) bool {
	if s.Team != sensor.TeamUnknown && rec.Team != sensor.TeamUnknown && rec.Team != s.Team {
		return false
	}
	if s.Unum != sensor.UnumUnknown && rec.Unum != sensor.UnumUnknown && rec.Unum != s.Unum {
		return false
	}
	return true
}

// gate is the largest displacement a record can plausibly have made since
// it was last confirmed.
func (w *WorldState) gate(rec *PlayerRecord, posErr geom.Vector2) float64 {
	age := int(rec.PosAge)
	if age < 1 {
		age = 1
	}
	return rec.Type.PlayerSpeedMax*float64(age) + geom.Norm(posErr) + w.cfg.AssociationMargin
}

func (w *WorldState) localizePlayers(seen []sensor.PlayerSeen, face localize.FaceFix, cycle int) []playerSample {
	samples := make([]playerSample, 0, len(seen))
	for i, p := range seen {
		if err := p.Validate(); err != nil {
			monitoring.Opsf("cycle %d: player sample %d skipped: %v", cycle, i, err)
			continue
		}
		fix := w.loc.LocalizeObject(p.PolarSample, face, w.server.QuantizeStep)
		pos, posErr, vel, velErr := fix.Absolute(w.self.Pos, w.self.PosErr, w.self.Vel, w.self.VelErr)
		samples = append(samples, playerSample{
			index:    i,
			seen:     p,
			fix:      fix,
			pos:      pos,
			posErr:   posErr,
			vel:      vel,
			velErr:   velErr,
			priority: associationPriority(p),
		})
	}
	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].priority < samples[j].priority
	})
	return samples
}

// fusePlayers associates every player sample with a tracked record, or
// creates one, then reorders the pools by confidence and enforces the
// population caps.
func (w *WorldState) fusePlayers(seen []sensor.PlayerSeen, face localize.FaceFix, cycle int) {
	samples := w.localizePlayers(seen, face, cycle)
	if len(samples) == 0 {
		return
	}

	var old, fresh [numPools][]Handle
	for p := pool(0); p < numPools; p++ {
		old[p] = append([]Handle(nil), w.pools[p]...)
	}

	for _, s := range samples {
		bestPool, bestIdx := poolUnknown, -1
		bestDist, bestBound := math.Inf(1), 0.0
		for _, p := range candidatePools(s.seen.Team) {
			for i, h := range old[p] {
				rec := w.arena.get(h)
				if rec == nil || !compatible(rec, s.seen) {
					continue
				}
				d := geom.Dist(rec.Pos, s.pos)
				bound := w.gate(rec, s.posErr)
				if d <= bound && d < bestDist {
					bestPool, bestIdx, bestDist, bestBound = p, i, d, bound
				}
			}
		}

		var h Handle
		created := bestIdx < 0
		if created {
			h = w.arena.insert(newPlayerRecord(s.seen.Team, w.cfg.AgeUnknown, w.types.Get(0)))
		} else {
			h = old[bestPool][bestIdx]
			old[bestPool] = append(old[bestPool][:bestIdx], old[bestPool][bestIdx+1:]...)
		}
		rec := w.arena.get(h)
		w.applySample(rec, s, face)
		fresh[poolFor(rec.Team)] = append(fresh[poolFor(rec.Team)], h)

		monitoring.Tracef("cycle %d: sample %d (%s #%d) -> player %d dist %.2f bound %.2f created %v",
			cycle, s.index, s.seen.Team, s.seen.Unum, h.Key(), bestDist, bestBound, created)
		if w.DebugCollector != nil && w.DebugCollector.IsEnabled() {
			w.DebugCollector.RecordAssociation(s.index, h.Key(), bestDist, bestBound, created)
		}
	}

	for p := pool(0); p < numPools; p++ {
		merged := append(fresh[p], old[p]...)
		w.sortByConfidence(merged)
		w.pools[p] = merged
	}
	w.enforceCaps(cycle)
}

// applySample overwrites rec with what the sample shows. Identity only ever
// gets more specific.
func (w *WorldState) applySample(rec *PlayerRecord, s playerSample, face localize.FaceFix) {
	if rec.Team == sensor.TeamUnknown {
		rec.Team = s.seen.Team
	}
	if s.seen.Unum != sensor.UnumUnknown {
		rec.Unum = s.seen.Unum
	}
	if s.seen.Goalie {
		rec.Goalie = true
	}
	rec.observe(s.pos, s.posErr)
	rec.RPos = s.fix.RPos
	if s.fix.HasVel {
		rec.observeVel(s.vel, s.velErr, 0)
	}
	if s.seen.Body != nil {
		rec.Body, rec.BodyAge = geom.NormalizeAngle(face.Face+*s.seen.Body), 0
	}
	if s.seen.Face != nil {
		rec.Face, rec.FaceAge = geom.NormalizeAngle(face.Face+*s.seen.Face), 0
	}
	if s.seen.PointDir != nil {
		rec.PointDir, rec.PointAge = geom.NormalizeAngle(face.Face+*s.seen.PointDir), 0
	}
	rec.Kicking = s.seen.Kicking
	rec.Tackling = s.seen.Tackling
	rec.GhostCount = 0
}

// lessConfident reports whether a is trusted less than b: older first,
// then wider error.
func lessConfident(a, b *PlayerRecord) bool {
	if a.PosAge != b.PosAge {
		return a.PosAge > b.PosAge
	}
	return geom.Norm(a.PosErr) > geom.Norm(b.PosErr)
}

func (w *WorldState) sortByConfidence(hs []Handle) {
	sort.SliceStable(hs, func(i, j int) bool {
		a, b := w.arena.get(hs[i]), w.arena.get(hs[j])
		if a == nil || b == nil {
			return a != nil
		}
		return lessConfident(b, a)
	})
}

// enforceCaps evicts the least confident records until every pool and the
// total are within their caps.
func (w *WorldState) enforceCaps(cycle int) {
	for len(w.pools[poolTeammates]) > w.cfg.MaxTeammates {
		w.evictTail(poolTeammates, cycle)
	}
	for len(w.pools[poolOpponents]) > w.cfg.MaxOpponents {
		w.evictTail(poolOpponents, cycle)
	}
	for w.PlayerCount() > w.cfg.MaxPlayers {
		victim := pool(-1)
		var worst *PlayerRecord
		for _, p := range [numPools]pool{poolUnknown, poolOpponents, poolTeammates} {
			hs := w.pools[p]
			if len(hs) == 0 {
				continue
			}
			rec := w.arena.get(hs[len(hs)-1])
			if worst == nil || lessConfident(rec, worst) {
				victim, worst = p, rec
			}
		}
		if victim < 0 {
			return
		}
		w.evictTail(victim, cycle)
	}
}

func (w *WorldState) evictTail(p pool, cycle int) {
	hs := w.pools[p]
	h := hs[len(hs)-1]
	age := -1
	if rec := w.arena.get(h); rec != nil {
		age = int(rec.PosAge)
	}
	w.pools[p] = hs[:len(hs)-1]
	w.arena.remove(h)
	w.dropFromViews(h)

	monitoring.Tracef("cycle %d: evicted player %d from %s (age %d)", cycle, h.Key(), p, age)
	if w.DebugCollector != nil && w.DebugCollector.IsEnabled() {
		w.DebugCollector.RecordEviction(h.Key(), age)
	}
}
