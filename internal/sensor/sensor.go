// Package sensor owns the already-parsed per-cycle input snapshots consumed
// by the perception core.
//
// Responsibilities: typed snapshots for body sensing, vision, hearing,
// ground-truth full state and last-command effects, plus input range
// validation.
// Key types: Vision, BodySense, Hearing, FullState, ActionEffects.
//
// Dependency rule: sensor depends only on geom. Parsing raw protocol text
// happens outside this module.
package sensor

import (
	"errors"
	"fmt"
	"math"

	"github.com/fieldsense/perception/internal/geom"
)

// ErrOutOfRange marks an observation whose numeric values cannot describe a
// physical measurement.
var ErrOutOfRange = errors.New("observation out of range")

// MaxObservableDist bounds any polar distance the sensor can report.
const MaxObservableDist = 250.0

// UnumUnknown is the uniform number of an unidentified player.
const UnumUnknown = 0

// Team classifies a body relative to us.
type Team int

const (
	TeamUnknown Team = iota
	TeamOurs
	TeamTheirs
)

func (t Team) String() string {
	switch t {
	case TeamOurs:
		return "ours"
	case TeamTheirs:
		return "theirs"
	default:
		return "unknown"
	}
}

// Side is the half of the pitch a team defends at kick-off.
type Side int

const (
	SideUnknown Side = iota
	SideLeft
	SideRight
)

// String returns the wire letter of the side.
func (s Side) String() string {
	switch s {
	case SideLeft:
		return "l"
	case SideRight:
		return "r"
	default:
		return "?"
	}
}

// ParseSide accepts "l"/"left" and "r"/"right".
func ParseSide(v string) (Side, error) {
	switch v {
	case "l", "left":
		return SideLeft, nil
	case "r", "right":
		return SideRight, nil
	}
	return SideUnknown, fmt.Errorf("unknown side %q", v)
}

// PolarSample is one relative observation. DistChg and DirChg are only
// present for close objects.
type PolarSample struct {
	Dist    float64  `json:"dist"`
	Dir     float64  `json:"dir"`
	DistChg *float64 `json:"dist_chg,omitempty"`
	DirChg  *float64 `json:"dir_chg,omitempty"`
}

// HasChange reports whether rate-of-change fields are present.
func (p PolarSample) HasChange() bool {
	return p.DistChg != nil && p.DirChg != nil
}

// Validate checks the sample against ValidatePolar and the change fields
// for finiteness.
func (p PolarSample) Validate() error {
	if err := ValidatePolar(p.Dist, p.Dir); err != nil {
		return err
	}
	if p.DistChg != nil && !finite(*p.DistChg) {
		return fmt.Errorf("dist_chg %v: %w", *p.DistChg, ErrOutOfRange)
	}
	if p.DirChg != nil && !finite(*p.DirChg) {
		return fmt.Errorf("dir_chg %v: %w", *p.DirChg, ErrOutOfRange)
	}
	return nil
}

// ValidatePolar rejects distances outside [0, MaxObservableDist] and
// directions outside [-180, 180] degrees.
func ValidatePolar(dist, dir float64) error {
	if !finite(dist) || dist < 0 || dist > MaxObservableDist {
		return fmt.Errorf("distance %v: %w", dist, ErrOutOfRange)
	}
	if !finite(dir) || dir < -180 || dir > 180 {
		return fmt.Errorf("direction %v: %w", dir, ErrOutOfRange)
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// MarkerSeen is a landmark observation. An empty ID means the landmark was
// perceived (typically behind, by proximity) without being identified.
type MarkerSeen struct {
	PolarSample
	ID     string `json:"id,omitempty"`
	Behind bool   `json:"behind,omitempty"`
}

// LineSeen is a boundary-line observation: distance and direction to the
// point where the view axis crosses the line.
type LineSeen struct {
	ID   string  `json:"id"`
	Dist float64 `json:"dist"`
	Dir  float64 `json:"dir"`
}

// BallSeen is a ball observation.
type BallSeen struct {
	PolarSample
}

// PlayerSeen is a player observation. Identity hints may be partial.
type PlayerSeen struct {
	PolarSample
	Team     Team     `json:"team"`
	Unum     int      `json:"unum,omitempty"`
	Goalie   bool     `json:"goalie,omitempty"`
	Body     *float64 `json:"body,omitempty"`      // body direction relative to our face
	Face     *float64 `json:"face,omitempty"`      // face direction relative to our face
	PointDir *float64 `json:"point_dir,omitempty"` // arm direction relative to our face
	Kicking  bool     `json:"kicking,omitempty"`
	Tackling bool     `json:"tackling,omitempty"`
}

// Vision is one visual snapshot. Lists are ordered by distance.
type Vision struct {
	Cycle   int          `json:"cycle"`
	Markers []MarkerSeen `json:"markers,omitempty"`
	Lines   []LineSeen   `json:"lines,omitempty"`
	Ball    *BallSeen    `json:"ball,omitempty"`
	Players []PlayerSeen `json:"players,omitempty"`
}

// BodySense is the per-cycle proprioceptive snapshot.
type BodySense struct {
	Cycle         int     `json:"cycle"`
	ViewWidth     float64 `json:"view_width"`
	Stamina       float64 `json:"stamina"`
	Effort        float64 `json:"effort"`
	Recovery      float64 `json:"recovery"`
	Capacity      float64 `json:"capacity"`
	Speed         float64 `json:"speed"`
	SpeedDir      float64 `json:"speed_dir"` // relative to face
	NeckAngle     float64 `json:"neck_angle"`
	ArmMovable    int     `json:"arm_movable,omitempty"`
	ArmExpires    int     `json:"arm_expires,omitempty"`
	TackleExpires int     `json:"tackle_expires,omitempty"`

	CollidedBall   bool `json:"collided_ball,omitempty"`
	CollidedPlayer bool `json:"collided_player,omitempty"`
	CollidedPost   bool `json:"collided_post,omitempty"`

	DashCount int `json:"dash_count,omitempty"`
	TurnCount int `json:"turn_count,omitempty"`
	KickCount int `json:"kick_count,omitempty"`
}

// Collided reports whether any collision flag is set.
func (b BodySense) Collided() bool {
	return b.CollidedBall || b.CollidedPlayer || b.CollidedPost
}

// ActionEffects describes the command executed in the previous cycle.
// Directions are relative to the body.
type ActionEffects struct {
	DashPower  float64 `json:"dash_power,omitempty"`
	DashDir    float64 `json:"dash_dir,omitempty"`
	TurnMoment float64 `json:"turn_moment,omitempty"`
	NeckMoment float64 `json:"neck_moment,omitempty"`
	KickPower  float64 `json:"kick_power,omitempty"`
	KickDir    float64 `json:"kick_dir,omitempty"`
	Tackle     bool    `json:"tackle,omitempty"`
}

// HeardBall is a ball estimate broadcast by a teammate.
type HeardBall struct {
	Cycle int          `json:"cycle"`
	Pos   geom.Vector2 `json:"pos"`
	Vel   geom.Vector2 `json:"vel"`
}

// HeardPlayer is a player position broadcast by a teammate.
type HeardPlayer struct {
	Cycle int          `json:"cycle"`
	Team  Team         `json:"team"`
	Unum  int          `json:"unum"`
	Pos   geom.Vector2 `json:"pos"`
	Body  *float64     `json:"body,omitempty"`
}

// ReachHint is a broadcast "I can reach the ball in N cycles" message.
type ReachHint struct {
	Cycle  int  `json:"cycle"`
	Team   Team `json:"team"`
	Unum   int  `json:"unum"`
	Cycles int  `json:"cycles"`
}

// LineHint is a broadcast tactical-line consensus value.
type LineHint struct {
	Cycle int     `json:"cycle"`
	X     float64 `json:"x"`
}

// Hearing collects the broadcast hints received this cycle. Positions are
// in our team's coordinates.
type Hearing struct {
	Ball        *HeardBall    `json:"ball,omitempty"`
	Players     []HeardPlayer `json:"players,omitempty"`
	Reach       []ReachHint   `json:"reach,omitempty"`
	OffsideLine *LineHint     `json:"offside_line,omitempty"`
	DefenseLine *LineHint     `json:"defense_line,omitempty"`
}

// FullBody is a ground-truth body.
type FullBody struct {
	Team   Team         `json:"team"`
	Unum   int          `json:"unum"`
	Goalie bool         `json:"goalie,omitempty"`
	TypeID int          `json:"type_id,omitempty"`
	Pos    geom.Vector2 `json:"pos"`
	Vel    geom.Vector2 `json:"vel"`
	Body   float64      `json:"body"`
	Neck   float64      `json:"neck"`
}

// FullState is a ground-truth snapshot in server (left-team) coordinates.
type FullState struct {
	Cycle   int          `json:"cycle"`
	BallPos geom.Vector2 `json:"ball_pos"`
	BallVel geom.Vector2 `json:"ball_vel"`
	Self    FullBody     `json:"self"`
	Players []FullBody   `json:"players,omitempty"`
}
