package localize

import (
	"errors"
	"math/rand/v2"

	"github.com/fieldsense/perception/internal/config"
	"github.com/fieldsense/perception/internal/landmark"
	"github.com/fieldsense/perception/internal/params"
)

// Missing-precondition outcomes. Callers treat them as "no fix this cycle".
var (
	ErrNoLandmark     = errors.New("localize: no identifiable landmark")
	ErrNoFace         = errors.New("localize: orientation unknown")
	ErrEmptyParticles = errors.New("localize: particle set empty")
	ErrSelfUnknown    = errors.New("localize: self pose unknown")
)

// Options holds the localization tunables.
type Options struct {
	ReseedThreshold int
	Jitter          float64
	MaxAngleDivs    int
	RadialStep      float64
	BehindRadius    float64
	Seed            int64

	LandmarkQuantize float64
	ObjectQuantize   float64
	DirQuantize      float64
	DistChgQuantize  float64 // relative to distance
	DirChgQuantize   float64
}

// DefaultOptions returns the options matching the default tuning file.
func DefaultOptions() Options {
	return OptionsFromTuning(config.EmptyTuningConfig(), params.DefaultServer())
}

// OptionsFromTuning converts the tuning file and server parameters into
// localization options.
func OptionsFromTuning(cfg *config.TuningConfig, s params.Server) Options {
	return Options{
		ReseedThreshold:  cfg.GetParticleReseedThreshold(),
		Jitter:           cfg.GetParticleJitter(),
		MaxAngleDivs:     cfg.GetParticleMaxAngleDivs(),
		RadialStep:       cfg.GetParticleRadialStep(),
		BehindRadius:     cfg.GetBehindMarkerRadius(),
		Seed:             cfg.GetParticleSeed(),
		LandmarkQuantize: s.QuantizeStepLine,
		ObjectQuantize:   s.QuantizeStep,
		DirQuantize:      s.DirQuantize,
		DistChgQuantize:  s.DistChgQuantize,
		DirChgQuantize:   s.DirChgQuantize,
	}
}

// Localizer estimates self orientation and position from landmark
// observations, and relative positions of movable objects.
type Localizer struct {
	table landmark.Table
	opts  Options

	particles ParticleSet
}

// New returns a Localizer over the given landmark table. The table must
// already be expressed in our team's coordinates.
func New(table landmark.Table, opts Options) *Localizer {
	return &Localizer{table: table, opts: opts}
}

// Options returns the options the Localizer was built with.
func (l *Localizer) Options() Options { return l.opts }

// rngFor returns a generator seeded from the configured seed and the cycle,
// so a cycle's estimate does not depend on what ran before it.
func (l *Localizer) rngFor(cycle int) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(l.opts.Seed), uint64(cycle)))
}
