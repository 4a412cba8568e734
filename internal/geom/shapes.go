package geom

import "math"

// Sector is the region between two radii and two directions around Center:
// the annulus-sector shape used for landmark candidate regions.
// Directions sweep counter-clockwise from StartDir by Width degrees.
type Sector struct {
	Center    Vector2
	MinRadius float64
	MaxRadius float64
	StartDir  float64
	Width     float64
}

// Contains reports whether p lies inside the sector (boundaries included).
func (s Sector) Contains(p Vector2) bool {
	rel := Sub(p, s.Center)
	r := Norm(rel)
	if r < s.MinRadius || r > s.MaxRadius {
		return false
	}
	if r == 0 {
		return s.MinRadius == 0
	}
	return AngleWithin(Dir(rel), s.StartDir, s.Width)
}

// Sample expands the sector into a grid of candidate points. The angular
// range is split into at most maxAngleDivs divisions and the radial range is
// walked in steps no larger than radialStep. Both boundaries are included.
func (s Sector) Sample(maxAngleDivs int, radialStep float64) []Vector2 {
	if maxAngleDivs < 1 {
		maxAngleDivs = 1
	}
	angleDivs := maxAngleDivs
	// A narrow, close sector does not need the full angular resolution.
	arc := s.Width * DegToRad * s.MaxRadius
	if radialStep > 0 {
		if need := int(math.Ceil(arc / radialStep)); need < angleDivs {
			angleDivs = need
		}
	}
	if angleDivs < 1 {
		angleDivs = 1
	}
	radialDivs := 1
	if radialStep > 0 {
		radialDivs = int(math.Ceil((s.MaxRadius - s.MinRadius) / radialStep))
	}
	if radialDivs < 1 {
		radialDivs = 1
	}

	points := make([]Vector2, 0, (angleDivs+1)*(radialDivs+1))
	for i := 0; i <= angleDivs; i++ {
		dir := s.StartDir + s.Width*float64(i)/float64(angleDivs)
		for j := 0; j <= radialDivs; j++ {
			r := s.MinRadius + (s.MaxRadius-s.MinRadius)*float64(j)/float64(radialDivs)
			points = append(points, Add(s.Center, Polar(r, dir)))
		}
	}
	return points
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	Min Vector2
	Max Vector2
}

// RectFromCenter builds a rectangle from its centre and full size.
func RectFromCenter(center Vector2, width, height float64) Rect {
	return Rect{
		Min: Vector2{X: center.X - width/2, Y: center.Y - height/2},
		Max: Vector2{X: center.X + width/2, Y: center.Y + height/2},
	}
}

// Contains reports whether p lies inside r (boundaries included).
func (r Rect) Contains(p Vector2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// IsZero reports whether r is the zero rectangle.
func (r Rect) IsZero() bool { return r == Rect{} }

// ViewCone is the wedge an observer is expected to see: everything within
// NearDist regardless of direction, plus everything within MaxDist whose
// direction is inside Width/2 - AngleMargin of Facing.
type ViewCone struct {
	Origin      Vector2
	Facing      float64
	Width       float64
	MaxDist     float64
	NearDist    float64
	AngleMargin float64
}

// Contains reports whether p should have been observed from the cone.
func (c ViewCone) Contains(p Vector2) bool {
	rel := Sub(p, c.Origin)
	d := Norm(rel)
	if d < c.NearDist {
		return true
	}
	if d > c.MaxDist {
		return false
	}
	half := c.Width/2 - c.AngleMargin
	if half <= 0 {
		return false
	}
	return AngleDiff(Dir(rel), c.Facing) <= half
}

// WithMaxDist returns a copy of c with a different far limit.
func (c ViewCone) WithMaxDist(d float64) ViewCone {
	c.MaxDist = d
	return c
}
