package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
const DefaultConfigPath = "config/perception.defaults.json"

// TuningConfig is the root configuration for the perception core. Every
// field is optional; the Get* accessors fall back to compiled-in defaults
// so partial JSON files are safe.
type TuningConfig struct {
	// Confidence-age validity thresholds (valid == age < threshold)
	SelfPosValidAge      *int `json:"self_pos_valid_age,omitempty"`
	SelfVelValidAge      *int `json:"self_vel_valid_age,omitempty"`
	SelfFaceValidAge     *int `json:"self_face_valid_age,omitempty"`
	BallPosValidAge      *int `json:"ball_pos_valid_age,omitempty"`
	BallRPosValidAge     *int `json:"ball_rpos_valid_age,omitempty"`
	BallVelValidAge      *int `json:"ball_vel_valid_age,omitempty"`
	TeammatePosValidAge  *int `json:"teammate_pos_valid_age,omitempty"`
	TeammateVelValidAge  *int `json:"teammate_vel_valid_age,omitempty"`
	TeammateFaceValidAge *int `json:"teammate_face_valid_age,omitempty"`
	OpponentPosValidAge  *int `json:"opponent_pos_valid_age,omitempty"`
	OpponentVelValidAge  *int `json:"opponent_vel_valid_age,omitempty"`
	OpponentFaceValidAge *int `json:"opponent_face_valid_age,omitempty"`
	UnknownPosValidAge   *int `json:"unknown_pos_valid_age,omitempty"`
	AgeUnknown           *int `json:"age_unknown,omitempty"`

	// Particle localization
	ParticleReseedThreshold *int     `json:"particle_reseed_threshold,omitempty"`
	ParticleJitter          *float64 `json:"particle_jitter,omitempty"`
	ParticleMaxAngleDivs    *int     `json:"particle_max_angle_divs,omitempty"`
	ParticleRadialStep      *float64 `json:"particle_radial_step,omitempty"`
	BehindMarkerRadius      *float64 `json:"behind_marker_radius,omitempty"`
	ParticleSeed            *int64   `json:"particle_seed,omitempty"`

	// Association and population caps
	AssociationMargin *float64 `json:"association_margin,omitempty"`
	MaxTeammates      *int     `json:"max_teammates,omitempty"`
	MaxOpponents      *int     `json:"max_opponents,omitempty"`
	MaxPlayers        *int     `json:"max_players,omitempty"`

	// Ghost detection
	GhostAngleMargin   *float64 `json:"ghost_angle_margin,omitempty"`
	GhostPlayerMaxDist *float64 `json:"ghost_player_max_dist,omitempty"`
	GhostBallMaxDist   *float64 `json:"ghost_ball_max_dist,omitempty"`
	GhostStaleAge      *int     `json:"ghost_stale_age,omitempty"`

	// Collision inference
	CollisionSpeedRatio *float64 `json:"collision_speed_ratio,omitempty"`
	CollisionSpeedDiff  *float64 `json:"collision_speed_diff,omitempty"`

	// Interception
	InterceptHorizon      *int     `json:"intercept_horizon,omitempty"`
	InterceptMaxPlayerAge *int     `json:"intercept_max_player_age,omitempty"`
	TurnMarginFloorDeg    *float64 `json:"turn_margin_floor_deg,omitempty"`
	BackDashDist          *float64 `json:"back_dash_dist,omitempty"`
	BackDashAngleDeg      *float64 `json:"back_dash_angle_deg,omitempty"`
	ControlBuffer         *float64 `json:"control_buffer,omitempty"`
	CloseEnoughDist       *float64 `json:"close_enough_dist,omitempty"`

	// Tactical lines
	LineJumpThreshold *float64 `json:"line_jump_threshold,omitempty"`
	LineJumpMinCount  *int     `json:"line_jump_min_count,omitempty"`
	HeardLineMaxAge   *int     `json:"heard_line_max_age,omitempty"`

	// Ground truth
	FullStateEnabled *bool `json:"full_state_enabled,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrInt(v int) *int             { return &v }
func ptrInt64(v int64) *int64       { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// DefaultTuningConfig returns a TuningConfig with every field populated from
// the compiled-in defaults. It matches config/perception.defaults.json.
func DefaultTuningConfig() *TuningConfig {
	c := EmptyTuningConfig()
	return &TuningConfig{
		SelfPosValidAge:      ptrInt(c.GetSelfPosValidAge()),
		SelfVelValidAge:      ptrInt(c.GetSelfVelValidAge()),
		SelfFaceValidAge:     ptrInt(c.GetSelfFaceValidAge()),
		BallPosValidAge:      ptrInt(c.GetBallPosValidAge()),
		BallRPosValidAge:     ptrInt(c.GetBallRPosValidAge()),
		BallVelValidAge:      ptrInt(c.GetBallVelValidAge()),
		TeammatePosValidAge:  ptrInt(c.GetTeammatePosValidAge()),
		TeammateVelValidAge:  ptrInt(c.GetTeammateVelValidAge()),
		TeammateFaceValidAge: ptrInt(c.GetTeammateFaceValidAge()),
		OpponentPosValidAge:  ptrInt(c.GetOpponentPosValidAge()),
		OpponentVelValidAge:  ptrInt(c.GetOpponentVelValidAge()),
		OpponentFaceValidAge: ptrInt(c.GetOpponentFaceValidAge()),
		UnknownPosValidAge:   ptrInt(c.GetUnknownPosValidAge()),
		AgeUnknown:           ptrInt(c.GetAgeUnknown()),

		ParticleReseedThreshold: ptrInt(c.GetParticleReseedThreshold()),
		ParticleJitter:          ptrFloat64(c.GetParticleJitter()),
		ParticleMaxAngleDivs:    ptrInt(c.GetParticleMaxAngleDivs()),
		ParticleRadialStep:      ptrFloat64(c.GetParticleRadialStep()),
		BehindMarkerRadius:      ptrFloat64(c.GetBehindMarkerRadius()),
		ParticleSeed:            ptrInt64(c.GetParticleSeed()),

		AssociationMargin: ptrFloat64(c.GetAssociationMargin()),
		MaxTeammates:      ptrInt(c.GetMaxTeammates()),
		MaxOpponents:      ptrInt(c.GetMaxOpponents()),
		MaxPlayers:        ptrInt(c.GetMaxPlayers()),

		GhostAngleMargin:   ptrFloat64(c.GetGhostAngleMargin()),
		GhostPlayerMaxDist: ptrFloat64(c.GetGhostPlayerMaxDist()),
		GhostBallMaxDist:   ptrFloat64(c.GetGhostBallMaxDist()),
		GhostStaleAge:      ptrInt(c.GetGhostStaleAge()),

		CollisionSpeedRatio: ptrFloat64(c.GetCollisionSpeedRatio()),
		CollisionSpeedDiff:  ptrFloat64(c.GetCollisionSpeedDiff()),

		InterceptHorizon:      ptrInt(c.GetInterceptHorizon()),
		InterceptMaxPlayerAge: ptrInt(c.GetInterceptMaxPlayerAge()),
		TurnMarginFloorDeg:    ptrFloat64(c.GetTurnMarginFloorDeg()),
		BackDashDist:          ptrFloat64(c.GetBackDashDist()),
		BackDashAngleDeg:      ptrFloat64(c.GetBackDashAngleDeg()),
		ControlBuffer:         ptrFloat64(c.GetControlBuffer()),
		CloseEnoughDist:       ptrFloat64(c.GetCloseEnoughDist()),

		LineJumpThreshold: ptrFloat64(c.GetLineJumpThreshold()),
		LineJumpMinCount:  ptrInt(c.GetLineJumpMinCount()),
		HeardLineMaxAge:   ptrInt(c.GetHeardLineMaxAge()),

		FullStateEnabled: ptrBool(c.GetFullStateEnabled()),
	}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file must have a .json extension and be under 1MB. Fields omitted
// from the file keep their defaults through the Get* accessors.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical defaults from DefaultConfigPath,
// searching the current directory and its parents up to the repository
// root. Panics if the file cannot be loaded; intended for tests.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are usable.
func (c *TuningConfig) Validate() error {
	positiveInts := []struct {
		name string
		v    *int
	}{
		{"self_pos_valid_age", c.SelfPosValidAge},
		{"self_vel_valid_age", c.SelfVelValidAge},
		{"self_face_valid_age", c.SelfFaceValidAge},
		{"ball_pos_valid_age", c.BallPosValidAge},
		{"ball_rpos_valid_age", c.BallRPosValidAge},
		{"ball_vel_valid_age", c.BallVelValidAge},
		{"teammate_pos_valid_age", c.TeammatePosValidAge},
		{"teammate_vel_valid_age", c.TeammateVelValidAge},
		{"teammate_face_valid_age", c.TeammateFaceValidAge},
		{"opponent_pos_valid_age", c.OpponentPosValidAge},
		{"opponent_vel_valid_age", c.OpponentVelValidAge},
		{"opponent_face_valid_age", c.OpponentFaceValidAge},
		{"unknown_pos_valid_age", c.UnknownPosValidAge},
		{"particle_reseed_threshold", c.ParticleReseedThreshold},
		{"particle_max_angle_divs", c.ParticleMaxAngleDivs},
		{"intercept_horizon", c.InterceptHorizon},
	}
	for _, p := range positiveInts {
		if p.v != nil && *p.v < 1 {
			return fmt.Errorf("%s must be >= 1, got %d", p.name, *p.v)
		}
	}

	if c.AgeUnknown != nil {
		for _, p := range positiveInts[:13] {
			if p.v != nil && *p.v > *c.AgeUnknown {
				return fmt.Errorf("%s (%d) exceeds age_unknown (%d)", p.name, *p.v, *c.AgeUnknown)
			}
		}
	}

	if c.ParticleRadialStep != nil && *c.ParticleRadialStep <= 0 {
		return fmt.Errorf("particle_radial_step must be positive, got %f", *c.ParticleRadialStep)
	}
	if c.ParticleJitter != nil && *c.ParticleJitter < 0 {
		return fmt.Errorf("particle_jitter must be non-negative, got %f", *c.ParticleJitter)
	}

	if c.MaxTeammates != nil && (*c.MaxTeammates < 0 || *c.MaxTeammates > 10) {
		return fmt.Errorf("max_teammates must be between 0 and 10, got %d", *c.MaxTeammates)
	}
	if c.MaxOpponents != nil && (*c.MaxOpponents < 0 || *c.MaxOpponents > 15) {
		return fmt.Errorf("max_opponents must be between 0 and 15, got %d", *c.MaxOpponents)
	}
	if c.MaxPlayers != nil && (*c.MaxPlayers < 0 || *c.MaxPlayers > 25) {
		return fmt.Errorf("max_players must be between 0 and 25, got %d", *c.MaxPlayers)
	}

	if c.CollisionSpeedRatio != nil && (*c.CollisionSpeedRatio <= 0 || *c.CollisionSpeedRatio >= 1) {
		return fmt.Errorf("collision_speed_ratio must be in (0, 1), got %f", *c.CollisionSpeedRatio)
	}
	if c.TurnMarginFloorDeg != nil && (*c.TurnMarginFloorDeg < 0 || *c.TurnMarginFloorDeg > 90) {
		return fmt.Errorf("turn_margin_floor_deg must be between 0 and 90, got %f", *c.TurnMarginFloorDeg)
	}

	return nil
}

// GetSelfPosValidAge returns the self_pos_valid_age value or the default.
func (c *TuningConfig) GetSelfPosValidAge() int {
	if c.SelfPosValidAge == nil {
		return 30
	}
	return *c.SelfPosValidAge
}

// GetSelfVelValidAge returns the self_vel_valid_age value or the default.
func (c *TuningConfig) GetSelfVelValidAge() int {
	if c.SelfVelValidAge == nil {
		return 30
	}
	return *c.SelfVelValidAge
}

// GetSelfFaceValidAge returns the self_face_valid_age value or the default.
func (c *TuningConfig) GetSelfFaceValidAge() int {
	if c.SelfFaceValidAge == nil {
		return 30
	}
	return *c.SelfFaceValidAge
}

// GetBallPosValidAge returns the ball_pos_valid_age value or the default.
func (c *TuningConfig) GetBallPosValidAge() int {
	if c.BallPosValidAge == nil {
		return 30
	}
	return *c.BallPosValidAge
}

// GetBallRPosValidAge returns the ball_rpos_valid_age value or the default.
func (c *TuningConfig) GetBallRPosValidAge() int {
	if c.BallRPosValidAge == nil {
		return 30
	}
	return *c.BallRPosValidAge
}

// GetBallVelValidAge returns the ball_vel_valid_age value or the default.
func (c *TuningConfig) GetBallVelValidAge() int {
	if c.BallVelValidAge == nil {
		return 30
	}
	return *c.BallVelValidAge
}

// GetTeammatePosValidAge returns the teammate_pos_valid_age value or the default.
func (c *TuningConfig) GetTeammatePosValidAge() int {
	if c.TeammatePosValidAge == nil {
		return 30
	}
	return *c.TeammatePosValidAge
}

// GetTeammateVelValidAge returns the teammate_vel_valid_age value or the default.
func (c *TuningConfig) GetTeammateVelValidAge() int {
	if c.TeammateVelValidAge == nil {
		return 30
	}
	return *c.TeammateVelValidAge
}

// GetTeammateFaceValidAge returns the teammate_face_valid_age value or the default.
func (c *TuningConfig) GetTeammateFaceValidAge() int {
	if c.TeammateFaceValidAge == nil {
		return 30
	}
	return *c.TeammateFaceValidAge
}

// GetOpponentPosValidAge returns the opponent_pos_valid_age value or the default.
func (c *TuningConfig) GetOpponentPosValidAge() int {
	if c.OpponentPosValidAge == nil {
		return 30
	}
	return *c.OpponentPosValidAge
}

// GetOpponentVelValidAge returns the opponent_vel_valid_age value or the default.
func (c *TuningConfig) GetOpponentVelValidAge() int {
	if c.OpponentVelValidAge == nil {
		return 30
	}
	return *c.OpponentVelValidAge
}

// GetOpponentFaceValidAge returns the opponent_face_valid_age value or the default.
func (c *TuningConfig) GetOpponentFaceValidAge() int {
	if c.OpponentFaceValidAge == nil {
		return 30
	}
	return *c.OpponentFaceValidAge
}

// GetUnknownPosValidAge returns the unknown_pos_valid_age value or the default.
func (c *TuningConfig) GetUnknownPosValidAge() int {
	if c.UnknownPosValidAge == nil {
		return 30
	}
	return *c.UnknownPosValidAge
}

// GetAgeUnknown returns the age sentinel used for "never seen / ghost".
func (c *TuningConfig) GetAgeUnknown() int {
	if c.AgeUnknown == nil {
		return 1000
	}
	return *c.AgeUnknown
}

// GetParticleReseedThreshold returns the particle_reseed_threshold value or the default.
func (c *TuningConfig) GetParticleReseedThreshold() int {
	if c.ParticleReseedThreshold == nil {
		return 30
	}
	return *c.ParticleReseedThreshold
}

// GetParticleJitter returns the particle_jitter value or the default.
func (c *TuningConfig) GetParticleJitter() float64 {
	if c.ParticleJitter == nil {
		return 0.04
	}
	return *c.ParticleJitter
}

// GetParticleMaxAngleDivs returns the particle_max_angle_divs value or the default.
func (c *TuningConfig) GetParticleMaxAngleDivs() int {
	if c.ParticleMaxAngleDivs == nil {
		return 18
	}
	return *c.ParticleMaxAngleDivs
}

// GetParticleRadialStep returns the particle_radial_step value or the default.
func (c *TuningConfig) GetParticleRadialStep() float64 {
	if c.ParticleRadialStep == nil {
		return 0.045
	}
	return *c.ParticleRadialStep
}

// GetBehindMarkerRadius returns the behind_marker_radius value or the default.
func (c *TuningConfig) GetBehindMarkerRadius() float64 {
	if c.BehindMarkerRadius == nil {
		return 3.0
	}
	return *c.BehindMarkerRadius
}

// GetParticleSeed returns the particle_seed value or the default.
func (c *TuningConfig) GetParticleSeed() int64 {
	if c.ParticleSeed == nil {
		return 1
	}
	return *c.ParticleSeed
}

// GetAssociationMargin returns the association_margin value or the default.
func (c *TuningConfig) GetAssociationMargin() float64 {
	if c.AssociationMargin == nil {
		return 1.0
	}
	return *c.AssociationMargin
}

// GetMaxTeammates returns the max_teammates value or the default.
func (c *TuningConfig) GetMaxTeammates() int {
	if c.MaxTeammates == nil {
		return 10
	}
	return *c.MaxTeammates
}

// GetMaxOpponents returns the max_opponents value or the default.
func (c *TuningConfig) GetMaxOpponents() int {
	if c.MaxOpponents == nil {
		return 15
	}
	return *c.MaxOpponents
}

// GetMaxPlayers returns the max_players value or the default.
func (c *TuningConfig) GetMaxPlayers() int {
	if c.MaxPlayers == nil {
		return 25
	}
	return *c.MaxPlayers
}

// GetGhostAngleMargin returns the ghost_angle_margin value or the default.
func (c *TuningConfig) GetGhostAngleMargin() float64 {
	if c.GhostAngleMargin == nil {
		return 5.0
	}
	return *c.GhostAngleMargin
}

// GetGhostPlayerMaxDist returns the ghost_player_max_dist value or the default.
func (c *TuningConfig) GetGhostPlayerMaxDist() float64 {
	if c.GhostPlayerMaxDist == nil {
		return 40.0
	}
	return *c.GhostPlayerMaxDist
}

// GetGhostBallMaxDist returns the ghost_ball_max_dist value or the default.
func (c *TuningConfig) GetGhostBallMaxDist() float64 {
	if c.GhostBallMaxDist == nil {
		return 40.0
	}
	return *c.GhostBallMaxDist
}

// GetGhostStaleAge returns the ghost_stale_age value or the default.
func (c *TuningConfig) GetGhostStaleAge() int {
	if c.GhostStaleAge == nil {
		return 1
	}
	return *c.GhostStaleAge
}

// GetCollisionSpeedRatio returns the collision_speed_ratio value or the default.
func (c *TuningConfig) GetCollisionSpeedRatio() float64 {
	if c.CollisionSpeedRatio == nil {
		return 0.3
	}
	return *c.CollisionSpeedRatio
}

// GetCollisionSpeedDiff returns the collision_speed_diff value or the default.
func (c *TuningConfig) GetCollisionSpeedDiff() float64 {
	if c.CollisionSpeedDiff == nil {
		return 0.1
	}
	return *c.CollisionSpeedDiff
}

// GetInterceptHorizon returns the intercept_horizon value or the default.
func (c *TuningConfig) GetInterceptHorizon() int {
	if c.InterceptHorizon == nil {
		return 50
	}
	return *c.InterceptHorizon
}

// GetInterceptMaxPlayerAge returns the intercept_max_player_age value or the default.
func (c *TuningConfig) GetInterceptMaxPlayerAge() int {
	if c.InterceptMaxPlayerAge == nil {
		return 10
	}
	return *c.InterceptMaxPlayerAge
}

// GetTurnMarginFloorDeg returns the turn_margin_floor_deg value or the default.
func (c *TuningConfig) GetTurnMarginFloorDeg() float64 {
	if c.TurnMarginFloorDeg == nil {
		return 12.0
	}
	return *c.TurnMarginFloorDeg
}

// GetBackDashDist returns the back_dash_dist value or the default.
func (c *TuningConfig) GetBackDashDist() float64 {
	if c.BackDashDist == nil {
		return 2.0
	}
	return *c.BackDashDist
}

// GetBackDashAngleDeg returns the back_dash_angle_deg value or the default.
func (c *TuningConfig) GetBackDashAngleDeg() float64 {
	if c.BackDashAngleDeg == nil {
		return 45.0
	}
	return *c.BackDashAngleDeg
}

// GetControlBuffer returns the control_buffer value or the default.
func (c *TuningConfig) GetControlBuffer() float64 {
	if c.ControlBuffer == nil {
		return 0.055
	}
	return *c.ControlBuffer
}

// GetCloseEnoughDist returns the close_enough_dist value or the default.
func (c *TuningConfig) GetCloseEnoughDist() float64 {
	if c.CloseEnoughDist == nil {
		return 0.1
	}
	return *c.CloseEnoughDist
}

// GetLineJumpThreshold returns the line_jump_threshold value or the default.
func (c *TuningConfig) GetLineJumpThreshold() float64 {
	if c.LineJumpThreshold == nil {
		return 5.0
	}
	return *c.LineJumpThreshold
}

// GetLineJumpMinCount returns the line_jump_min_count value or the default.
func (c *TuningConfig) GetLineJumpMinCount() int {
	if c.LineJumpMinCount == nil {
		return 6
	}
	return *c.LineJumpMinCount
}

// GetHeardLineMaxAge returns the heard_line_max_age value or the default.
func (c *TuningConfig) GetHeardLineMaxAge() int {
	if c.HeardLineMaxAge == nil {
		return 30
	}
	return *c.HeardLineMaxAge
}

// GetFullStateEnabled returns the full_state_enabled value or the default.
func (c *TuningConfig) GetFullStateEnabled() bool {
	if c.FullStateEnabled == nil {
		return false // default: estimate, never trust ground truth
	}
	return *c.FullStateEnabled
}
