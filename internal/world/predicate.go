package world

import "github.com/fieldsense/perception/internal/sensor"

// PlayerPredicate selects tracked players. Predicates compose by value with
// And, Or and Not.
type PlayerPredicate func(w *WorldState, p PlayerRecord) bool

// And holds when every predicate holds. An empty And holds.
func And(ps ...PlayerPredicate) PlayerPredicate {
	return func(w *WorldState, p PlayerRecord) bool {
		for _, pred := range ps {
			if !pred(w, p) {
				return false
			}
		}
		return true
	}
}

// Or holds when any predicate holds. An empty Or never holds.
func Or(ps ...PlayerPredicate) PlayerPredicate {
	return func(w *WorldState, p PlayerRecord) bool {
		for _, pred := range ps {
			if pred(w, p) {
				return true
			}
		}
		return false
	}
}

// Not negates pred.
func Not(pred PlayerPredicate) PlayerPredicate {
	return func(w *WorldState, p PlayerRecord) bool { return !pred(w, p) }
}

// IsValid holds for players whose position is trusted.
func IsValid(w *WorldState, p PlayerRecord) bool { return w.PlayerPosValid(p) }

// IsGoalie holds for goalkeepers.
func IsGoalie(_ *WorldState, p PlayerRecord) bool { return p.Goalie }

// HasUnum holds for players whose uniform number is known.
func HasUnum(_ *WorldState, p PlayerRecord) bool { return p.Unum != sensor.UnumUnknown }

// IsKickable holds for players within their kickable area of the ball.
func IsKickable(_ *WorldState, p PlayerRecord) bool { return p.Kickable }

// IsTeam returns a predicate holding for players of team.
func IsTeam(team sensor.Team) PlayerPredicate {
	return func(_ *WorldState, p PlayerRecord) bool { return p.Team == team }
}

// WithinDistanceFromSelf returns a predicate holding for players at most
// dist away from us.
func WithinDistanceFromSelf(dist float64) PlayerPredicate {
	return func(_ *WorldState, p PlayerRecord) bool { return p.DistFromSelf <= dist }
}

// FindPlayers returns the players matching pred, nearest to us first.
func (w *WorldState) FindPlayers(pred PlayerPredicate) []PlayerRecord {
	var out []PlayerRecord
	for _, p := range w.PlayersByDistanceFromSelf() {
		if pred(w, p) {
			out = append(out, p)
		}
	}
	return out
}

// CountPlayers returns how many players match pred.
func (w *WorldState) CountPlayers(pred PlayerPredicate) int {
	n := 0
	for _, h := range w.byDistSelf {
		if rec := w.arena.get(h); rec != nil && pred(w, *rec) {
			n++
		}
	}
	return n
}
