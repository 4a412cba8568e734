package localize

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/fieldsense/perception/internal/geom"
	"github.com/fieldsense/perception/internal/sensor"
)

// ObjectFix is a movable object's position and velocity relative to us, in
// field-aligned axes, with rectangular half-extent errors.
type ObjectFix struct {
	RPos    geom.Vector2
	RPosErr geom.Vector2
	RVel    geom.Vector2 // object velocity minus our velocity
	RVelErr geom.Vector2
	HasVel  bool
	Dist    Range
}

// LocalizeObject converts a polar sample of a ball or player into a relative
// position, plus a relative velocity when rate-of-change fields are present.
// qstep is the distance quantization step of the object's class.
func (l *Localizer) LocalizeObject(s sensor.PolarSample, face FaceFix, qstep float64) ObjectFix {
	dr := UnquantizeDistance(s.Dist, qstep)
	ar := UnquantizeDirection(s.Dir, l.opts.DirQuantize)
	ar.Min += face.Face - face.Err
	ar.Max += face.Face + face.Err
	dir := face.Face + s.Dir

	fix := ObjectFix{
		RPos: geom.Polar(dr.Mid(), dir),
		Dist: dr,
	}
	for _, d := range [2]float64{dr.Min, dr.Max} {
		for _, a := range [2]float64{ar.Min, ar.Max} {
			c := geom.Polar(d, a)
			fix.RPosErr.X = math.Max(fix.RPosErr.X, math.Abs(c.X-fix.RPos.X))
			fix.RPosErr.Y = math.Max(fix.RPosErr.Y, math.Abs(c.Y-fix.RPos.Y))
		}
	}

	if !s.HasChange() {
		return fix
	}

	distChg, dirChg := *s.DistChg, *s.DirChg
	dcErr := s.Dist * l.opts.DistChgQuantize / 2
	acErr := l.opts.DirChgQuantize / 2

	xs := make([]float64, 0, 16)
	ys := make([]float64, 0, 16)
	for _, d := range [2]float64{dr.Min, dr.Max} {
		for _, a := range [2]float64{ar.Min, ar.Max} {
			for _, dc := range [2]float64{distChg - dcErr, distChg + dcErr} {
				for _, ac := range [2]float64{dirChg - acErr, dirChg + acErr} {
					v := polarVelocity(d, a, dc, ac)
					xs = append(xs, v.X)
					ys = append(ys, v.Y)
				}
			}
		}
	}
	fix.HasVel = true
	fix.RVel = geom.Vec(stat.Mean(xs, nil), stat.Mean(ys, nil))
	fix.RVelErr = geom.Vec(
		(floats.Max(xs)-floats.Min(xs))/2,
		(floats.Max(ys)-floats.Min(ys))/2,
	)
	return fix
}

// polarVelocity converts radial and angular rates at (dist, dirDeg) into a
// cartesian velocity.
func polarVelocity(dist, dirDeg, distChg, dirChgDeg float64) geom.Vector2 {
	sin, cos := math.Sincos(dirDeg * geom.DegToRad)
	tangential := dirChgDeg * geom.DegToRad * dist
	return geom.Vec(
		distChg*cos-tangential*sin,
		distChg*sin+tangential*cos,
	)
}

// Absolute composes a relative fix with our own pose. Errors add.
func (f ObjectFix) Absolute(selfPos, selfPosErr, selfVel, selfVelErr geom.Vector2) (pos, posErr, vel, velErr geom.Vector2) {
	pos = geom.Add(selfPos, f.RPos)
	posErr = geom.Add(selfPosErr, f.RPosErr)
	if f.HasVel {
		vel = geom.Add(selfVel, f.RVel)
		velErr = geom.Add(selfVelErr, f.RVelErr)
	}
	return pos, posErr, vel, velErr
}
