package world

import (
	"github.com/fieldsense/perception/internal/config"
	"github.com/fieldsense/perception/internal/intercept"
	"github.com/fieldsense/perception/internal/localize"
	"github.com/fieldsense/perception/internal/params"
)

// Thresholds are the validity ages of one entity class. An attribute is
// valid while its age is strictly below the threshold.
type Thresholds struct {
	Pos  int
	Vel  int
	Face int
}

// BallThresholds are the ball's validity ages.
type BallThresholds struct {
	Pos  int
	RPos int
	Vel  int
}

// Config holds every tunable of the aggregator. It is built once and passed
// to New; nothing is read from process-wide state.
type Config struct {
	AgeUnknown Age

	Self       Thresholds
	Ball       BallThresholds
	Teammate   Thresholds
	Opponent   Thresholds
	UnknownPos int

	AssociationMargin float64
	MaxTeammates      int
	MaxOpponents      int
	MaxPlayers        int

	GhostAngleMargin   float64
	GhostPlayerMaxDist float64
	GhostBallMaxDist   float64
	GhostStaleAge      int

	CollisionSpeedRatio float64
	CollisionSpeedDiff  float64

	LineJumpThreshold float64
	LineJumpMinCount  int
	HeardLineMaxAge   int

	FullStateEnabled bool

	Localize  localize.Options
	Intercept intercept.Options
}

// DefaultConfig returns the configuration matching the default tuning file.
func DefaultConfig() Config {
	return ConfigFromTuning(config.EmptyTuningConfig(), params.DefaultServer())
}

// ConfigFromTuning converts the tuning file into an aggregator Config.
func ConfigFromTuning(cfg *config.TuningConfig, s params.Server) Config {
	return Config{
		AgeUnknown: Age(cfg.GetAgeUnknown()),
		Self: Thresholds{
			Pos:  cfg.GetSelfPosValidAge(),
			Vel:  cfg.GetSelfVelValidAge(),
			Face: cfg.GetSelfFaceValidAge(),
		},
		Ball: BallThresholds{
			Pos:  cfg.GetBallPosValidAge(),
			RPos: cfg.GetBallRPosValidAge(),
			Vel:  cfg.GetBallVelValidAge(),
		},
		Teammate: Thresholds{
			Pos:  cfg.GetTeammatePosValidAge(),
			Vel:  cfg.GetTeammateVelValidAge(),
			Face: cfg.GetTeammateFaceValidAge(),
		},
		Opponent: Thresholds{
			Pos:  cfg.GetOpponentPosValidAge(),
			Vel:  cfg.GetOpponentVelValidAge(),
			Face: cfg.GetOpponentFaceValidAge(),
		},
		UnknownPos: cfg.GetUnknownPosValidAge(),

		AssociationMargin: cfg.GetAssociationMargin(),
		MaxTeammates:      cfg.GetMaxTeammates(),
		MaxOpponents:      cfg.GetMaxOpponents(),
		MaxPlayers:        cfg.GetMaxPlayers(),

		GhostAngleMargin:   cfg.GetGhostAngleMargin(),
		GhostPlayerMaxDist: cfg.GetGhostPlayerMaxDist(),
		GhostBallMaxDist:   cfg.GetGhostBallMaxDist(),
		GhostStaleAge:      cfg.GetGhostStaleAge(),

		CollisionSpeedRatio: cfg.GetCollisionSpeedRatio(),
		CollisionSpeedDiff:  cfg.GetCollisionSpeedDiff(),

		LineJumpThreshold: cfg.GetLineJumpThreshold(),
		LineJumpMinCount:  cfg.GetLineJumpMinCount(),
		HeardLineMaxAge:   cfg.GetHeardLineMaxAge(),

		FullStateEnabled: cfg.GetFullStateEnabled(),

		Localize:  localize.OptionsFromTuning(cfg, s),
		Intercept: intercept.OptionsFromTuning(cfg),
	}
}
