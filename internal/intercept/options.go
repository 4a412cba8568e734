package intercept

import "github.com/fieldsense/perception/internal/config"

// Options holds the interception tunables.
type Options struct {
	Horizon         int
	MaxPlayerAge    int
	TurnMarginFloor float64 // degrees
	BackDashDist    float64
	BackDashAngle   float64 // degrees off the reverse direction
	ControlBuffer   float64
	CloseEnough     float64
}

// DefaultOptions returns the options matching the default tuning file.
func DefaultOptions() Options {
	return OptionsFromTuning(config.EmptyTuningConfig())
}

// OptionsFromTuning converts the tuning file into interception options.
func OptionsFromTuning(cfg *config.TuningConfig) Options {
	return Options{
		Horizon:         cfg.GetInterceptHorizon(),
		MaxPlayerAge:    cfg.GetInterceptMaxPlayerAge(),
		TurnMarginFloor: cfg.GetTurnMarginFloorDeg(),
		BackDashDist:    cfg.GetBackDashDist(),
		BackDashAngle:   cfg.GetBackDashAngleDeg(),
		ControlBuffer:   cfg.GetControlBuffer(),
		CloseEnough:     cfg.GetCloseEnoughDist(),
	}
}
