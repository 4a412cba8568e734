package localize

import (
	"math"

	"github.com/fieldsense/perception/internal/geom"
	"github.com/fieldsense/perception/internal/landmark"
	"github.com/fieldsense/perception/internal/sensor"
)

// FaceFix is an absolute face (body + neck) direction with its error bound,
// both in degrees.
type FaceFix struct {
	Face float64
	Err  float64
}

// EstimateFace derives the absolute face direction, preferring the nearest
// visible boundary line and falling back to the bearing difference of the
// two nearest identified markers.
func (l *Localizer) EstimateFace(see sensor.Vision) (FaceFix, error) {
	if fix, ok := l.faceFromLines(see.Lines); ok {
		return fix, nil
	}
	if fix, ok := l.faceFromMarkers(see.Markers); ok {
		return fix, nil
	}
	return FaceFix{}, ErrNoFace
}

func (l *Localizer) faceFromLines(lines []sensor.LineSeen) (FaceFix, bool) {
	var (
		nearest sensor.LineSeen
		line    landmark.Line
		found   bool
		known   int
	)
	for _, ls := range lines {
		ln, ok := l.table.Line(landmark.LineID(ls.ID))
		if !ok {
			continue
		}
		known++
		if !found || ls.Dist < nearest.Dist {
			nearest, line, found = ls, ln, true
		}
	}
	if !found {
		return FaceFix{}, false
	}

	// The reported direction is the angle between the view axis and the
	// line; ±90 means we face the line squarely.
	base := nearest.Dir - 90
	if nearest.Dir < 0 {
		base = nearest.Dir + 90
	}
	face := line.Normal - base
	if known >= 2 {
		// Two lines are only visible from outside the pitch, where the
		// nearest one is seen from behind.
		face += 180
	}
	return FaceFix{
		Face: geom.NormalizeAngle(face),
		Err:  l.opts.DirQuantize / 2,
	}, true
}

func (l *Localizer) faceFromMarkers(markers []sensor.MarkerSeen) (FaceFix, bool) {
	type fixed struct {
		abs geom.Vector2
		rel geom.Vector2
		err float64
	}
	var pair []fixed
	for _, m := range markers {
		if m.Behind || m.ID == "" {
			continue
		}
		abs, ok := l.table.Position(landmark.ID(m.ID))
		if !ok {
			continue
		}
		r := UnquantizeDistance(m.Dist, l.opts.LandmarkQuantize)
		lateral := r.Mid() * math.Sin(l.opts.DirQuantize/2*geom.DegToRad)
		pair = append(pair, fixed{abs: abs, rel: geom.Polar(r.Mid(), m.Dir), err: r.HalfWidth() + lateral})
		if len(pair) == 2 {
			break
		}
	}
	if len(pair) < 2 {
		return FaceFix{}, false
	}

	baseline := geom.Dist(pair[0].abs, pair[1].abs)
	if baseline == 0 {
		return FaceFix{}, false
	}
	absDir := geom.Dir(geom.Sub(pair[1].abs, pair[0].abs))
	relDir := geom.Dir(geom.Sub(pair[1].rel, pair[0].rel))

	spread := math.Atan2(pair[0].err+pair[1].err, baseline) * geom.RadToDeg
	return FaceFix{
		Face: geom.NormalizeAngle(absDir - relDir),
		Err:  l.opts.DirQuantize/2 + spread,
	}, true
}
