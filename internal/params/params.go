// Package params holds the kinematic constants of the simulator and the
// heterogeneous player types (capability parameters) that the estimation
// and interception code consume by value.
package params

import (
	"math"

	"github.com/fieldsense/perception/internal/geom"
)

// Server holds simulator-wide physics and field constants.
type Server struct {
	PitchLength       float64
	PitchWidth        float64
	PenaltyAreaLength float64
	PenaltyAreaWidth  float64
	GoalWidth         float64

	BallSize      float64
	BallDecay     float64
	BallSpeedMax  float64
	KickPowerRate float64

	MaxPower      float64
	MinPower      float64
	MaxMoment     float64
	BackDashRate  float64
	StaminaMax    float64
	RecoverDecThr float64
	EffortDecThr  float64

	CatchAreaLength float64
	CatchAreaWidth  float64

	VisibleDistance  float64
	QuantizeStep     float64 // distance quantization for movable objects
	QuantizeStepLine float64 // distance quantization for landmarks
	DistChgQuantize  float64 // relative quantization of distance change
	DirChgQuantize   float64 // degrees
	DirQuantize      float64 // degrees

	CollisionVelFactor float64
	BallStopSpeed      float64
}

// DefaultServer returns the standard simulator parameters.
func DefaultServer() Server {
	return Server{
		PitchLength:       105.0,
		PitchWidth:        68.0,
		PenaltyAreaLength: 16.5,
		PenaltyAreaWidth:  40.32,
		GoalWidth:         14.02,

		BallSize:      0.085,
		BallDecay:     0.94,
		BallSpeedMax:  3.0,
		KickPowerRate: 0.027,

		MaxPower:      100.0,
		MinPower:      -100.0,
		MaxMoment:     180.0,
		BackDashRate:  0.7,
		StaminaMax:    8000.0,
		RecoverDecThr: 0.3,
		EffortDecThr:  0.3,

		CatchAreaLength: 1.2,
		CatchAreaWidth:  1.0,

		VisibleDistance:  3.0,
		QuantizeStep:     0.1,
		QuantizeStepLine: 0.01,
		DistChgQuantize:  0.02,
		DirChgQuantize:   0.1,
		DirQuantize:      1.0,

		CollisionVelFactor: -0.1,
		BallStopSpeed:      0.005,
	}
}

// HalfLength returns half the pitch length.
func (s Server) HalfLength() float64 { return s.PitchLength / 2 }

// HalfWidth returns half the pitch width.
func (s Server) HalfWidth() float64 { return s.PitchWidth / 2 }

// PitchRect returns the playing area in field coordinates.
func (s Server) PitchRect() geom.Rect {
	return geom.RectFromCenter(geom.Vector2{}, s.PitchLength, s.PitchWidth)
}

// OurPenaltyArea is the penalty area on the negative-x side.
func (s Server) OurPenaltyArea() geom.Rect {
	return geom.Rect{
		Min: geom.Vec(-s.HalfLength(), -s.PenaltyAreaWidth/2),
		Max: geom.Vec(-s.HalfLength()+s.PenaltyAreaLength, s.PenaltyAreaWidth/2),
	}
}

// TheirPenaltyArea is the penalty area on the positive-x side.
func (s Server) TheirPenaltyArea() geom.Rect {
	return geom.Rect{
		Min: geom.Vec(s.HalfLength()-s.PenaltyAreaLength, -s.PenaltyAreaWidth/2),
		Max: geom.Vec(s.HalfLength(), s.PenaltyAreaWidth/2),
	}
}

// StaminaSafetyThreshold is the stamina level below which effort and
// recovery start to decay.
func (s Server) StaminaSafetyThreshold() float64 {
	return s.RecoverDecThr * s.StaminaMax
}

// PlayerType holds the capability parameters of one heterogeneous player type.
type PlayerType struct {
	ID             int
	PlayerSpeedMax float64
	StaminaIncMax  float64
	PlayerDecay    float64
	InertiaMoment  float64
	DashPowerRate  float64
	PlayerSize     float64
	KickableMargin float64
	KickRand       float64
	ExtraStamina   float64
	EffortMax      float64
	EffortMin      float64
	CatchStretch   float64

	ballSize float64
	maxPower float64
	catchL   float64
	catchW   float64
}

// DefaultPlayerType returns type 0 bound to the default server parameters.
func DefaultPlayerType() PlayerType {
	return NewPlayerType(PlayerType{
		ID:             0,
		PlayerSpeedMax: 1.05,
		StaminaIncMax:  45.0,
		PlayerDecay:    0.4,
		InertiaMoment:  5.0,
		DashPowerRate:  0.006,
		PlayerSize:     0.3,
		KickableMargin: 0.7,
		KickRand:       0.1,
		ExtraStamina:   50.0,
		EffortMax:      1.0,
		EffortMin:      0.6,
		CatchStretch:   1.0,
	}, DefaultServer())
}

// NewPlayerType binds the server-dependent constants used by the derived
// quantities (kickable area, catchable area, real speed).
func NewPlayerType(pt PlayerType, s Server) PlayerType {
	pt.ballSize = s.BallSize
	pt.maxPower = s.MaxPower
	pt.catchL = s.CatchAreaLength
	pt.catchW = s.CatchAreaWidth
	return pt
}

// KickableArea is the control radius for kicking: body plus margin plus ball.
func (pt PlayerType) KickableArea() float64 {
	return pt.PlayerSize + pt.KickableMargin + pt.ballSize
}

// CatchableArea is the goalkeeper control radius inside the penalty area.
func (pt PlayerType) CatchableArea() float64 {
	l := pt.catchL * pt.CatchStretch
	return math.Hypot(l, pt.catchW/2)
}

// DashRate returns the acceleration produced by one unit of dash power at
// the given effort.
func (pt PlayerType) DashRate(effort float64) float64 {
	return pt.DashPowerRate * effort
}

// RealSpeedMax is the terminal speed reachable by repeated full-power
// dashes, bounded by the hard speed cap.
func (pt PlayerType) RealSpeedMax() float64 {
	if pt.PlayerDecay >= 1 {
		return pt.PlayerSpeedMax
	}
	terminal := pt.maxPower * pt.DashPowerRate * pt.EffortMax / (1 - pt.PlayerDecay)
	return math.Min(pt.PlayerSpeedMax, terminal)
}

// MaxTurn returns the largest body turn (degrees) possible in one cycle at
// the given speed.
func (pt PlayerType) MaxTurn(maxMoment, speed float64) float64 {
	return maxMoment / (1 + pt.InertiaMoment*speed)
}

// CyclesToReach returns the cycles needed to cover dist at real max speed,
// ignoring acceleration. Used as a closed-form fallback.
func (pt PlayerType) CyclesToReach(dist float64) int {
	if dist <= 0 {
		return 0
	}
	speed := pt.RealSpeedMax()
	if speed <= 0 {
		return math.MaxInt32
	}
	return int(math.Ceil(dist / speed))
}

// Types is an indexable set of heterogeneous player types. Unknown ids fall
// back to the default type.
type Types []PlayerType

// Get returns the type with the given id, or the first (default) type.
func (ts Types) Get(id int) PlayerType {
	if id >= 0 && id < len(ts) {
		return ts[id]
	}
	if len(ts) > 0 {
		return ts[0]
	}
	return DefaultPlayerType()
}

// DefaultTypes returns a set holding only the default player type.
func DefaultTypes() Types {
	return Types{DefaultPlayerType()}
}
