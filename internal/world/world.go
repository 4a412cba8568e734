package world

import (
	"github.com/fieldsense/perception/internal/geom"
	"github.com/fieldsense/perception/internal/intercept"
	"github.com/fieldsense/perception/internal/landmark"
	"github.com/fieldsense/perception/internal/localize"
	"github.com/fieldsense/perception/internal/params"
	"github.com/fieldsense/perception/internal/sensor"
)

// Identity is who we are on the pitch.
type Identity struct {
	Side   sensor.Side
	Unum   int
	Goalie bool
	TypeID int
}

// WorldState is the aggregated belief. It is single-writer: every mutation
// goes through its methods, in cycle order.
type WorldState struct {
	cfg    Config
	server params.Server
	types  params.Types

	loc   *localize.Localizer
	table *intercept.Table

	self  SelfRecord
	ball  BallRecord
	arena arena
	pools [numPools][]Handle

	byDistSelf []Handle
	byDistBall []Handle

	offside LineEstimate
	defense LineEstimate
	reach   ReachSummary
	heard   heardHints

	cycle     int
	stepped   bool
	bodyCycle int
	bodySeen  bool
	seeCycle  int
	seeSeen   bool
	hearCycle int
	hearSeen  bool
	finalized bool
	finalAt   int

	// DebugCollector captures association internals (optional).
	DebugCollector DebugCollector
}

// New returns an empty belief for the given identity. The landmark table is
// turned to our attacking direction when we play on the right.
func New(cfg Config, s params.Server, types params.Types, id Identity) *WorldState {
	if len(types) == 0 {
		types = params.DefaultTypes()
	}
	table := landmark.NewTable(s)
	if id.Side == sensor.SideRight {
		table = table.Reversed()
	}

	w := &WorldState{
		cfg:    cfg,
		server: s,
		types:  types,
		loc:    localize.New(table, cfg.Localize),
		table:  intercept.NewTable(s, cfg.Intercept),
	}
	w.self = SelfRecord{
		TrackedPose: unknownPose(cfg.AgeUnknown),
		Side:        id.Side,
		Unum:        id.Unum,
		Goalie:      id.Goalie,
		Type:        types.Get(id.TypeID),
		FaceAge:     cfg.AgeUnknown,
		ViewWidth:   defaultViewWidth,
		Stamina:     s.StaminaMax,
		Effort:      types.Get(id.TypeID).EffortMax,
		Recovery:    1,
	}
	w.ball = BallRecord{
		TrackedPose: unknownPose(cfg.AgeUnknown),
		RPosAge:     cfg.AgeUnknown,
	}
	w.offside = LineEstimate{Age: cfg.AgeUnknown}
	w.defense = LineEstimate{Age: cfg.AgeUnknown}
	w.reach = emptyReach(0)
	return w
}

// defaultViewWidth is the normal view width, in degrees.
const defaultViewWidth = 90.0

// Config returns the configuration the state was built with.
func (w *WorldState) Config() Config { return w.cfg }

// Cycle returns the last cycle processed by InternalStep.
func (w *WorldState) Cycle() int { return w.cycle }

// Self returns a copy of our record.
func (w *WorldState) Self() SelfRecord { return w.self }

// Ball returns a copy of the ball record.
func (w *WorldState) Ball() BallRecord { return w.ball }

// Player returns a copy of the record behind h, or false when h is stale.
func (w *WorldState) Player(h Handle) (PlayerRecord, bool) {
	if rec := w.arena.get(h); rec != nil {
		return *rec, true
	}
	return PlayerRecord{}, false
}

func (w *WorldState) copies(hs []Handle) []PlayerRecord {
	out := make([]PlayerRecord, 0, len(hs))
	for _, h := range hs {
		if rec := w.arena.get(h); rec != nil {
			out = append(out, *rec)
		}
	}
	return out
}

// Teammates returns the identified teammates, most confident first.
func (w *WorldState) Teammates() []PlayerRecord { return w.copies(w.pools[poolTeammates]) }

// Opponents returns the identified opponents, most confident first.
func (w *WorldState) Opponents() []PlayerRecord { return w.copies(w.pools[poolOpponents]) }

// UnknownPlayers returns the players whose team is not known.
func (w *WorldState) UnknownPlayers() []PlayerRecord { return w.copies(w.pools[poolUnknown]) }

// PlayerCount returns the number of tracked players in all pools.
func (w *WorldState) PlayerCount() int {
	n := 0
	for p := pool(0); p < numPools; p++ {
		n += len(w.pools[p])
	}
	return n
}

// PlayersByDistanceFromSelf returns every tracked player, nearest first.
func (w *WorldState) PlayersByDistanceFromSelf() []PlayerRecord { return w.copies(w.byDistSelf) }

// PlayersByDistanceFromBall returns every tracked player, nearest to the
// ball first. While the ball is unknown it matches PlayersByDistanceFromSelf.
func (w *WorldState) PlayersByDistanceFromBall() []PlayerRecord { return w.copies(w.byDistBall) }

// Reach returns the fastest-reach summary of the last finalized cycle.
func (w *WorldState) Reach() ReachSummary { return w.reach }

// BallCache returns the ball trajectory of the last finalized cycle, or nil
// while the ball is unknown.
func (w *WorldState) BallCache() *intercept.BallCache { return w.table.BallCache() }

// OffsideLine returns the current offside line estimate.
func (w *WorldState) OffsideLine() LineEstimate { return w.offside }

// DefenseLine returns the current defense line estimate.
func (w *WorldState) DefenseLine() LineEstimate { return w.defense }

// SelfPosValid reports whether our position is trusted.
func (w *WorldState) SelfPosValid() bool { return w.self.PosAge.Valid(w.cfg.Self.Pos) }

// SelfVelValid reports whether our velocity is trusted.
func (w *WorldState) SelfVelValid() bool { return w.self.VelAge.Valid(w.cfg.Self.Vel) }

// SelfFaceValid reports whether our face direction is trusted.
func (w *WorldState) SelfFaceValid() bool { return w.self.FaceAge.Valid(w.cfg.Self.Face) }

// BallPosValid reports whether the ball position is trusted.
func (w *WorldState) BallPosValid() bool { return w.ball.PosAge.Valid(w.cfg.Ball.Pos) }

// BallRPosValid reports whether the ball position relative to us is trusted.
func (w *WorldState) BallRPosValid() bool { return w.ball.RPosAge.Valid(w.cfg.Ball.RPos) }

// BallVelValid reports whether the ball velocity is trusted.
func (w *WorldState) BallVelValid() bool { return w.ball.VelAge.Valid(w.cfg.Ball.Vel) }

func (w *WorldState) thresholds(team sensor.Team) Thresholds {
	switch team {
	case sensor.TeamOurs:
		return w.cfg.Teammate
	case sensor.TeamTheirs:
		return w.cfg.Opponent
	default:
		t := w.cfg.Opponent
		t.Pos = w.cfg.UnknownPos
		return t
	}
}

// PlayerPosValid reports whether p's position is trusted, using the
// threshold of its class.
func (w *WorldState) PlayerPosValid(p PlayerRecord) bool {
	return p.PosAge.Valid(w.thresholds(p.Team).Pos)
}

// PlayerVelValid reports whether p's velocity is trusted.
func (w *WorldState) PlayerVelValid(p PlayerRecord) bool {
	return p.VelAge.Valid(w.thresholds(p.Team).Vel)
}

// PlayerFaceValid reports whether p's body and face directions are trusted.
func (w *WorldState) PlayerFaceValid(p PlayerRecord) bool {
	return p.BodyAge.Valid(w.thresholds(p.Team).Face)
}

// findPlayer returns the identified player with the given team and number.
func (w *WorldState) findPlayer(team sensor.Team, unum int) (Handle, bool) {
	if unum == sensor.UnumUnknown {
		return Handle{}, false
	}
	p := poolFor(team)
	if p == poolUnknown {
		return Handle{}, false
	}
	for _, h := range w.pools[p] {
		if rec := w.arena.get(h); rec != nil && rec.Unum == unum {
			return h, true
		}
	}
	return Handle{}, false
}

// removePlayer deletes the record behind h from its pool and the arena.
func (w *WorldState) removePlayer(h Handle) {
	for p := pool(0); p < numPools; p++ {
		for i, ph := range w.pools[p] {
			if ph == h {
				w.pools[p] = append(w.pools[p][:i], w.pools[p][i+1:]...)
				w.arena.remove(h)
				w.dropFromViews(h)
				return
			}
		}
	}
}

func (w *WorldState) dropFromViews(h Handle) {
	drop := func(hs []Handle) []Handle {
		out := hs[:0]
		for _, x := range hs {
			if x != h {
				out = append(out, x)
			}
		}
		return out
	}
	w.byDistSelf = drop(w.byDistSelf)
	w.byDistBall = drop(w.byDistBall)
}

// selfMover is our snapshot for the interception predictor.
func (w *WorldState) selfMover() intercept.Mover {
	m := intercept.Mover{
		Pos:       w.self.Pos,
		Body:      w.self.Body,
		BodyKnown: w.SelfFaceValid(),
		PosAge:    int(w.self.PosAge),
		Type:      w.self.Type,
		Stamina:   w.self.Stamina,
		Effort:    w.self.Effort,
		Goalie:    w.self.Goalie,
	}
	if w.SelfVelValid() {
		m.Vel = w.self.Vel
	}
	if w.self.Goalie {
		m.CatchArea = w.server.OurPenaltyArea()
	}
	return m
}

func (w *WorldState) playerMover(p PlayerRecord) intercept.Mover {
	m := intercept.Mover{
		Pos:       p.Pos,
		Body:      p.Body,
		BodyKnown: w.PlayerFaceValid(p),
		PosAge:    int(p.PosAge),
		Type:      p.Type,
		Goalie:    p.Goalie,
	}
	if w.PlayerVelValid(p) {
		m.Vel = p.Vel
	}
	if p.Goalie {
		switch p.Team {
		case sensor.TeamOurs:
			m.CatchArea = w.server.OurPenaltyArea()
		case sensor.TeamTheirs:
			m.CatchArea = w.server.TheirPenaltyArea()
		}
	}
	return m
}

// selfCone is the region we expect to have seen this cycle.
func (w *WorldState) selfCone() geom.ViewCone {
	width := w.self.ViewWidth
	if width <= 0 {
		width = defaultViewWidth
	}
	return geom.ViewCone{
		Origin:      w.self.Pos,
		Facing:      w.self.Face,
		Width:       width,
		MaxDist:     w.cfg.GhostPlayerMaxDist,
		NearDist:    w.server.VisibleDistance,
		AngleMargin: w.cfg.GhostAngleMargin,
	}
}
