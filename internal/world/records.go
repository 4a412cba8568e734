package world

import (
	"github.com/fieldsense/perception/internal/geom"
	"github.com/fieldsense/perception/internal/params"
	"github.com/fieldsense/perception/internal/sensor"
)

// TrackedPose is the estimate shared by every tracked body: position and
// velocity with rectangular half-extent errors and confidence ages, plus
// the last seen and last heard positions.
type TrackedPose struct {
	Pos    geom.Vector2
	PosErr geom.Vector2
	PosAge Age

	Vel    geom.Vector2
	VelErr geom.Vector2
	VelAge Age

	SeenPos     geom.Vector2
	SeenPosAge  Age
	HeardPos    geom.Vector2
	HeardPosAge Age
}

func unknownPose(unknown Age) TrackedPose {
	return TrackedPose{
		PosAge:      unknown,
		VelAge:      unknown,
		SeenPosAge:  unknown,
		HeardPosAge: unknown,
	}
}

// drift advances the pose by one cycle of free motion. Position error grows
// by the velocity error.
func (t *TrackedPose) drift(decay float64) {
	t.Pos = geom.Add(t.Pos, t.Vel)
	t.PosErr = geom.Add(t.PosErr, t.VelErr)
	t.Vel = geom.Scale(decay, t.Vel)
	t.VelErr = geom.Scale(decay, t.VelErr)
}

func (t *TrackedPose) ageBy(n int, unknown Age) {
	t.PosAge = t.PosAge.Add(n, unknown)
	t.VelAge = t.VelAge.Add(n, unknown)
	t.SeenPosAge = t.SeenPosAge.Add(n, unknown)
	t.HeardPosAge = t.HeardPosAge.Add(n, unknown)
}

// observe records a seen position.
func (t *TrackedPose) observe(pos, err geom.Vector2) {
	t.Pos, t.PosErr, t.PosAge = pos, err, 0
	t.SeenPos, t.SeenPosAge = pos, 0
}

func (t *TrackedPose) observeVel(vel, err geom.Vector2, age Age) {
	t.Vel, t.VelErr, t.VelAge = vel, err, age
}

// hear records a heard position, adopting it when it is fresher than the
// current estimate.
func (t *TrackedPose) hear(pos geom.Vector2, age Age) bool {
	if age < t.HeardPosAge {
		t.HeardPos, t.HeardPosAge = pos, age
	}
	if age >= t.PosAge {
		return false
	}
	t.Pos, t.PosErr, t.PosAge = pos, geom.Vector2{}, age
	return true
}

func (t TrackedPose) finite() bool {
	return geom.IsFinite(t.Pos) && geom.IsFinite(t.Vel) &&
		geom.IsFinite(t.PosErr) && geom.IsFinite(t.VelErr)
}

// moveHistory is the number of per-cycle displacements kept for ourselves.
const moveHistory = 3

// SelfRecord is our own belief state.
type SelfRecord struct {
	TrackedPose

	Side   sensor.Side
	Unum   int
	Goalie bool
	Type   params.PlayerType

	Body    float64
	Neck    float64 // relative to body
	Face    float64
	FaceErr float64
	FaceAge Age

	ViewWidth float64
	Stamina   float64
	Effort    float64
	Recovery  float64
	Capacity  float64

	TackleExpires int
	ArmMovable    int
	ArmExpires    int

	CollidedBall   bool
	CollidedPlayer bool
	CollidedPost   bool
	// CollisionInferred is set when the sensed speed disagreed with the
	// prediction without an explicit collision flag.
	CollisionInferred bool

	Kickable      bool
	Catchable     bool
	AngleFromBall float64

	moves   [moveHistory]geom.Vector2
	moveIdx int
	moveN   int
}

func (s *SelfRecord) pushMove(d geom.Vector2) {
	s.moveIdx = (s.moveIdx + 1) % moveHistory
	s.moves[s.moveIdx] = d
	if s.moveN < moveHistory {
		s.moveN++
	}
}

// LastMoves returns up to the last three per-cycle displacements, newest
// first.
func (s SelfRecord) LastMoves() []geom.Vector2 {
	out := make([]geom.Vector2, 0, s.moveN)
	for i := 0; i < s.moveN; i++ {
		out = append(out, s.moves[(s.moveIdx-i+moveHistory)%moveHistory])
	}
	return out
}

// BallRecord is the ball's belief state.
type BallRecord struct {
	TrackedPose

	RPos    geom.Vector2 // ball minus self
	RPosErr geom.Vector2
	RPosAge Age

	Ghost      bool
	GhostCycle int

	DistFromSelf  float64
	AngleFromSelf float64
}

// PlayerRecord is one tracked player other than ourselves.
type PlayerRecord struct {
	TrackedPose

	Handle Handle
	Team   sensor.Team
	Unum   int
	Goalie bool
	TypeID int // -1 while unknown
	Type   params.PlayerType

	RPos geom.Vector2

	Body     float64
	BodyAge  Age
	Face     float64
	FaceAge  Age
	PointDir float64
	PointAge Age
	Kicking  bool
	Tackling bool

	GhostCount int
	Kickable   bool

	DistFromSelf  float64
	AngleFromSelf float64
	DistFromBall  float64
	AngleFromBall float64
}

func newPlayerRecord(team sensor.Team, unknown Age, pt params.PlayerType) PlayerRecord {
	return PlayerRecord{
		TrackedPose: unknownPose(unknown),
		Team:        team,
		TypeID:      -1,
		Type:        pt,
		BodyAge:     unknown,
		FaceAge:     unknown,
		PointAge:    unknown,
	}
}

func (p *PlayerRecord) ageBy(n int, unknown Age) {
	p.TrackedPose.ageBy(n, unknown)
	p.BodyAge = p.BodyAge.Add(n, unknown)
	p.FaceAge = p.FaceAge.Add(n, unknown)
	p.PointAge = p.PointAge.Add(n, unknown)
}
