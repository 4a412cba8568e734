package localize

import (
	"sort"

	"github.com/fieldsense/perception/internal/geom"
	"github.com/fieldsense/perception/internal/landmark"
	"github.com/fieldsense/perception/internal/monitoring"
	"github.com/fieldsense/perception/internal/sensor"
)

// PositionFix is an absolute self position with half-extent error bounds.
type PositionFix struct {
	Pos         geom.Vector2
	Err         geom.Vector2
	Particles   int
	Markers     int  // landmark constraints applied
	Regenerated bool // a filter emptied the set and it was rebuilt
}

// MarkerSector returns the region of self positions consistent with seeing
// the landmark at abs with sample m while facing face.
func (l *Localizer) MarkerSector(abs geom.Vector2, m sensor.PolarSample, face FaceFix) geom.Sector {
	dr := UnquantizeDistance(m.Dist, l.opts.LandmarkQuantize)
	ar := UnquantizeDirection(m.Dir, l.opts.DirQuantize)
	return geom.Sector{
		Center:    abs,
		MinRadius: dr.Min,
		MaxRadius: dr.Max,
		StartDir:  face.Face - face.Err + ar.Min + 180,
		Width:     (ar.Max - ar.Min) + 2*face.Err,
	}
}

// EstimatePosition runs particle elimination over the visible markers. The
// nearest identified marker seeds the set, every further identified marker
// filters it, and markers felt behind are matched to the nearest landmark
// around the provisional estimate and applied last.
func (l *Localizer) EstimatePosition(see sensor.Vision, face FaceFix) (PositionFix, error) {
	type anchored struct {
		abs    geom.Vector2
		sample sensor.PolarSample
	}
	var primary []anchored
	var loose []sensor.MarkerSeen
	for _, m := range see.Markers {
		if m.Validate() != nil {
			continue
		}
		if !m.Behind && m.ID != "" {
			if abs, ok := l.table.Position(landmark.ID(m.ID)); ok {
				primary = append(primary, anchored{abs: abs, sample: m.PolarSample})
				continue
			}
		}
		loose = append(loose, m)
	}
	if len(primary) == 0 {
		return PositionFix{}, ErrNoLandmark
	}
	sort.SliceStable(primary, func(i, j int) bool {
		return primary[i].sample.Dist < primary[j].sample.Dist
	})

	rng := l.rngFor(see.Cycle)
	ps := &l.particles
	var fix PositionFix

	ps.Generate(l.MarkerSector(primary[0].abs, primary[0].sample, face), l.opts.MaxAngleDivs, l.opts.RadialStep)
	if ps.Len() == 0 {
		return PositionFix{}, ErrEmptyParticles
	}
	fix.Markers = 1

	for _, a := range primary[1:] {
		s := l.MarkerSector(a.abs, a.sample, face)
		if n := ps.Filter(s); n == 0 {
			ps.Generate(s, l.opts.MaxAngleDivs, l.opts.RadialStep)
			fix.Regenerated = true
			monitoring.Tracef("localize: cycle %d particle set emptied, regenerated from marker at %.1f,%.1f",
				see.Cycle, a.abs.X, a.abs.Y)
		} else if n < l.opts.ReseedThreshold {
			ps.Reseed(l.opts.ReseedThreshold, l.opts.Jitter, rng)
		}
		fix.Markers++
	}

	if len(loose) > 0 {
		approx := ps.Mean()
		for _, m := range loose {
			guess := geom.Add(approx, geom.Polar(m.Dist, face.Face+m.Dir))
			_, abs, ok := l.table.Nearest(guess, l.opts.BehindRadius)
			if !ok {
				continue
			}
			saved := ps.Points()
			s := l.MarkerSector(abs, m.PolarSample, face)
			if n := ps.Filter(s); n == 0 {
				// An unidentified match is not trusted enough to rebuild from.
				ps.pts = append(ps.pts[:0], saved...)
				continue
			} else if n < l.opts.ReseedThreshold {
				ps.Reseed(l.opts.ReseedThreshold, l.opts.Jitter, rng)
			}
			fix.Markers++
		}
	}

	fix.Pos = ps.Mean()
	fix.Err = ps.Err()
	fix.Particles = ps.Len()
	monitoring.Tracef("localize: cycle %d pos=(%.2f,%.2f) err=(%.3f,%.3f) particles=%d markers=%d",
		see.Cycle, fix.Pos.X, fix.Pos.Y, fix.Err.X, fix.Err.Y, fix.Particles, fix.Markers)
	return fix, nil
}
