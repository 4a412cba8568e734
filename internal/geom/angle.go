package geom

import "math"

const (
	DegToRad = math.Pi / 180.0
	RadToDeg = 180.0 / math.Pi
)

// NormalizeAngle maps deg into (-180, 180].
func NormalizeAngle(deg float64) float64 {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return deg
	}
	deg = math.Mod(deg, 360)
	if deg > 180 {
		deg -= 360
	} else if deg <= -180 {
		deg += 360
	}
	return deg
}

// AngleDiff returns the absolute angular distance between a and b, in [0, 180].
func AngleDiff(a, b float64) float64 {
	return math.Abs(NormalizeAngle(a - b))
}

// AngleWithin reports whether deg lies on the arc that starts at start and
// sweeps width degrees counter-clockwise.
func AngleWithin(deg, start, width float64) bool {
	if width >= 360 {
		return true
	}
	d := math.Mod(deg-start, 360)
	if d < 0 {
		d += 360
	}
	return d <= width
}

// MidAngle returns the angle halfway along the arc from a to b (counter-clockwise).
func MidAngle(a, b float64) float64 {
	w := math.Mod(b-a, 360)
	if w < 0 {
		w += 360
	}
	return NormalizeAngle(a + w/2)
}
