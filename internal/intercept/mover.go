package intercept

import (
	"math"

	"github.com/fieldsense/perception/internal/geom"
	"github.com/fieldsense/perception/internal/params"
)

// Mover is a value snapshot of a body whose reach time is predicted.
type Mover struct {
	Pos       geom.Vector2
	Vel       geom.Vector2
	Body      float64
	BodyKnown bool
	PosAge    int
	Type      params.PlayerType

	// Stamina and Effort are only known for ourselves. Zero means "rested".
	Stamina float64
	Effort  float64

	Goalie bool
	// CatchArea is where a goalie may use its hands. Zero means nowhere.
	CatchArea geom.Rect
}

// controlArea is the radius within which the mover controls a ball at pos.
func (m Mover) controlArea(ball geom.Vector2) float64 {
	area := m.Type.KickableArea()
	if m.Goalie && !m.CatchArea.IsZero() && m.CatchArea.Contains(ball) {
		area = math.Max(area, m.Type.CatchableArea())
	}
	return area
}

// widestControlArea bounds controlArea over every ball position.
func (m Mover) widestControlArea() float64 {
	area := m.Type.KickableArea()
	if m.Goalie && !m.CatchArea.IsZero() {
		area = math.Max(area, m.Type.CatchableArea())
	}
	return area
}

func (m Mover) rested(s params.Server) Mover {
	if m.Stamina <= 0 {
		m.Stamina = s.StaminaMax
	}
	if m.Effort <= 0 {
		m.Effort = m.Type.EffortMax
	}
	return m
}

// turnMargin is the body misalignment that still lets a straight dash pass
// within reach of a target dist away.
func turnMargin(reach, dist, floor float64) float64 {
	if dist <= reach {
		return 180
	}
	return math.Max(floor, math.Asin(reach/dist)*geom.RadToDeg)
}
