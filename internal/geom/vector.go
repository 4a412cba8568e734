package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vector2 is a 2D point or displacement in field coordinates (metres).
type Vector2 = r2.Vec

// Vec builds a Vector2 from its components.
func Vec(x, y float64) Vector2 { return Vector2{X: x, Y: y} }

// Polar converts a length and a direction in degrees into a vector.
func Polar(length, dirDeg float64) Vector2 {
	rad := dirDeg * DegToRad
	return Vector2{X: length * math.Cos(rad), Y: length * math.Sin(rad)}
}

// Add returns a+b.
func Add(a, b Vector2) Vector2 { return r2.Add(a, b) }

// Sub returns a-b.
func Sub(a, b Vector2) Vector2 { return r2.Sub(a, b) }

// Scale returns f*v.
func Scale(f float64, v Vector2) Vector2 { return r2.Scale(f, v) }

// Norm returns the Euclidean length of v.
func Norm(v Vector2) float64 { return r2.Norm(v) }

// Dist returns the Euclidean distance between a and b.
func Dist(a, b Vector2) float64 { return r2.Norm(r2.Sub(a, b)) }

// Dot returns the dot product of a and b.
func Dot(a, b Vector2) float64 { return r2.Dot(a, b) }

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Vector2) Vector2 { return r2.Scale(0.5, r2.Add(a, b)) }

// Dir returns the direction of v in degrees. The zero vector has direction 0.
func Dir(v Vector2) float64 {
	if v.X == 0 && v.Y == 0 {
		return 0
	}
	return math.Atan2(v.Y, v.X) * RadToDeg
}

// WithLength returns v rescaled to the given length. The zero vector stays zero.
func WithLength(v Vector2, length float64) Vector2 {
	n := r2.Norm(v)
	if n == 0 {
		return Vector2{}
	}
	return r2.Scale(length/n, v)
}

// ClampLength shortens v to at most maxLen, keeping its direction.
func ClampLength(v Vector2, maxLen float64) Vector2 {
	if n := r2.Norm(v); n > maxLen {
		return r2.Scale(maxLen/n, v)
	}
	return v
}

// Reverse returns -v.
func Reverse(v Vector2) Vector2 { return Vector2{X: -v.X, Y: -v.Y} }

// IsFinite reports whether both components are finite numbers.
func IsFinite(v Vector2) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// DistanceToLine returns the perpendicular distance from p to the infinite
// line through origin with direction dirDeg.
func DistanceToLine(p, origin Vector2, dirDeg float64) float64 {
	u := Polar(1, dirDeg)
	rel := r2.Sub(p, origin)
	return math.Abs(r2.Cross(u, rel))
}

// InertiaPoint returns where a body at pos with velocity vel ends up after n
// cycles of free motion with per-cycle velocity decay.
func InertiaPoint(pos, vel Vector2, n int, decay float64) Vector2 {
	if n <= 0 {
		return pos
	}
	return r2.Add(pos, r2.Scale(GeometricSum(n, decay), vel))
}

// GeometricSum returns 1 + r + r^2 + ... + r^(n-1).
func GeometricSum(n int, r float64) float64 {
	if n <= 0 {
		return 0
	}
	if r == 1 {
		return float64(n)
	}
	return (1 - math.Pow(r, float64(n))) / (1 - r)
}
