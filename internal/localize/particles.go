package localize

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/fieldsense/perception/internal/geom"
)

// ParticleSet is a population of candidate positions. It is scratch state:
// the Localizer reuses one set per estimate and hands out only values.
type ParticleSet struct {
	pts []geom.Vector2
	xs  []float64
	ys  []float64
}

// Len returns the number of particles.
func (ps *ParticleSet) Len() int { return len(ps.pts) }

// Points returns a copy of the particles.
func (ps *ParticleSet) Points() []geom.Vector2 {
	out := make([]geom.Vector2, len(ps.pts))
	copy(out, ps.pts)
	return out
}

// Generate replaces the population with a grid sampled from s.
func (ps *ParticleSet) Generate(s geom.Sector, maxAngleDivs int, radialStep float64) {
	ps.pts = append(ps.pts[:0], s.Sample(maxAngleDivs, radialStep)...)
}

// Filter removes every particle outside s and returns the survivor count.
func (ps *ParticleSet) Filter(s geom.Sector) int {
	kept := ps.pts[:0]
	for _, p := range ps.pts {
		if s.Contains(p) {
			kept = append(kept, p)
		}
	}
	ps.pts = kept
	return len(ps.pts)
}

// Reseed tops the population up to n particles by jittering survivors by up
// to ±jitter on each axis. New particles are clamped to the survivors'
// bounding box so reseeding never widens the estimate.
func (ps *ParticleSet) Reseed(n int, jitter float64, rng *rand.Rand) {
	base := len(ps.pts)
	if base == 0 || base >= n {
		return
	}
	box := ps.Bounds()
	for i := 0; len(ps.pts) < n; i++ {
		src := ps.pts[i%base]
		p := geom.Vec(
			src.X+(rng.Float64()*2-1)*jitter,
			src.Y+(rng.Float64()*2-1)*jitter,
		)
		ps.pts = append(ps.pts, clampToRect(p, box))
	}
}

func clampToRect(p geom.Vector2, r geom.Rect) geom.Vector2 {
	if p.X < r.Min.X {
		p.X = r.Min.X
	} else if p.X > r.Max.X {
		p.X = r.Max.X
	}
	if p.Y < r.Min.Y {
		p.Y = r.Min.Y
	} else if p.Y > r.Max.Y {
		p.Y = r.Max.Y
	}
	return p
}

func (ps *ParticleSet) columns() ([]float64, []float64) {
	ps.xs, ps.ys = ps.xs[:0], ps.ys[:0]
	for _, p := range ps.pts {
		ps.xs = append(ps.xs, p.X)
		ps.ys = append(ps.ys, p.Y)
	}
	return ps.xs, ps.ys
}

// Mean returns the arithmetic mean of the particles. The set must not be empty.
func (ps *ParticleSet) Mean() geom.Vector2 {
	xs, ys := ps.columns()
	return geom.Vec(stat.Mean(xs, nil), stat.Mean(ys, nil))
}

// Bounds returns the axis-aligned bounding box. The set must not be empty.
func (ps *ParticleSet) Bounds() geom.Rect {
	xs, ys := ps.columns()
	return geom.Rect{
		Min: geom.Vec(floats.Min(xs), floats.Min(ys)),
		Max: geom.Vec(floats.Max(xs), floats.Max(ys)),
	}
}

// Err returns half the bounding-box extent on each axis.
func (ps *ParticleSet) Err() geom.Vector2 {
	if len(ps.pts) == 0 {
		return geom.Vector2{}
	}
	b := ps.Bounds()
	return geom.Vec((b.Max.X-b.Min.X)/2, (b.Max.Y-b.Min.Y)/2)
}
