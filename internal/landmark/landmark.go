// Package landmark owns the static geometry of the pitch markers.
//
// Responsibilities: the flag and goal positions, the four boundary lines
// with their outward normals, nearest-marker lookup and the mirror image
// used when our team plays from the right.
// Key types: ID, LineID, Line, Table.
//
// Dependency rule: landmark depends on geom and params only.
package landmark

import (
	"fmt"
	"math"
	"sort"

	"github.com/fieldsense/perception/internal/geom"
	"github.com/fieldsense/perception/internal/params"
)

// ID names a flag or goal, e.g. "f c" or "f p r t".
type ID string

// LineID names a boundary line: "l l", "l r", "l t" or "l b".
type LineID string

// outerOffset is the distance of the outer flag rows beyond the pitch edge.
const outerOffset = 5.0

// Line is a boundary line described by its outward normal direction and its
// distance from the centre spot.
type Line struct {
	ID     LineID
	Normal float64 // degrees, pointing away from the pitch
	Offset float64
}

// SignedDistance returns how far p lies inside the line (positive on the
// pitch side).
func (l Line) SignedDistance(p geom.Vector2) float64 {
	return l.Offset - geom.Dot(p, geom.Polar(1, l.Normal))
}

// Table maps marker and line identifiers to their absolute geometry.
// A Table is immutable once built.
type Table struct {
	flags map[ID]geom.Vector2
	ids   []ID
	lines map[LineID]Line
}

// NewTable builds the marker table in server coordinates (the left team
// attacks +x) for the given field dimensions.
func NewTable(s params.Server) Table {
	hl, hw := s.HalfLength(), s.HalfWidth()
	goalY := s.GoalWidth / 2
	penX := hl - s.PenaltyAreaLength
	penY := s.PenaltyAreaWidth / 2
	outX, outY := hl+outerOffset, hw+outerOffset

	flags := map[ID]geom.Vector2{
		"f c":   geom.Vec(0, 0),
		"f c t": geom.Vec(0, -hw),
		"f c b": geom.Vec(0, hw),

		"f l t": geom.Vec(-hl, -hw),
		"f l b": geom.Vec(-hl, hw),
		"f r t": geom.Vec(hl, -hw),
		"f r b": geom.Vec(hl, hw),

		"g l":     geom.Vec(-hl, 0),
		"g r":     geom.Vec(hl, 0),
		"f g l t": geom.Vec(-hl, -goalY),
		"f g l b": geom.Vec(-hl, goalY),
		"f g r t": geom.Vec(hl, -goalY),
		"f g r b": geom.Vec(hl, goalY),

		"f p l t": geom.Vec(-penX, -penY),
		"f p l c": geom.Vec(-penX, 0),
		"f p l b": geom.Vec(-penX, penY),
		"f p r t": geom.Vec(penX, -penY),
		"f p r c": geom.Vec(penX, 0),
		"f p r b": geom.Vec(penX, penY),

		"f t 0": geom.Vec(0, -outY),
		"f b 0": geom.Vec(0, outY),
		"f l 0": geom.Vec(-outX, 0),
		"f r 0": geom.Vec(outX, 0),
	}
	for _, d := range []int{10, 20, 30, 40, 50} {
		x := float64(d)
		flags[ID(fmt.Sprintf("f t l %d", d))] = geom.Vec(-x, -outY)
		flags[ID(fmt.Sprintf("f t r %d", d))] = geom.Vec(x, -outY)
		flags[ID(fmt.Sprintf("f b l %d", d))] = geom.Vec(-x, outY)
		flags[ID(fmt.Sprintf("f b r %d", d))] = geom.Vec(x, outY)
	}
	for _, d := range []int{10, 20, 30} {
		y := float64(d)
		flags[ID(fmt.Sprintf("f l t %d", d))] = geom.Vec(-outX, -y)
		flags[ID(fmt.Sprintf("f l b %d", d))] = geom.Vec(-outX, y)
		flags[ID(fmt.Sprintf("f r t %d", d))] = geom.Vec(outX, -y)
		flags[ID(fmt.Sprintf("f r b %d", d))] = geom.Vec(outX, y)
	}

	lines := map[LineID]Line{
		"l l": {ID: "l l", Normal: 180, Offset: hl},
		"l r": {ID: "l r", Normal: 0, Offset: hl},
		"l t": {ID: "l t", Normal: -90, Offset: hw},
		"l b": {ID: "l b", Normal: 90, Offset: hw},
	}

	return newTable(flags, lines)
}

func newTable(flags map[ID]geom.Vector2, lines map[LineID]Line) Table {
	ids := make([]ID, 0, len(flags))
	for id := range flags {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return Table{flags: flags, ids: ids, lines: lines}
}

// Reversed returns the table as seen by a team attacking -x in server
// coordinates: every position is negated and every normal turned by 180°.
func (t Table) Reversed() Table {
	flags := make(map[ID]geom.Vector2, len(t.flags))
	for id, p := range t.flags {
		flags[id] = geom.Reverse(p)
	}
	lines := make(map[LineID]Line, len(t.lines))
	for id, l := range t.lines {
		l.Normal = geom.NormalizeAngle(l.Normal + 180)
		lines[id] = l
	}
	return newTable(flags, lines)
}

// Len returns the number of flags and goals.
func (t Table) Len() int { return len(t.ids) }

// IDs returns the marker identifiers in lexical order.
func (t Table) IDs() []ID {
	out := make([]ID, len(t.ids))
	copy(out, t.ids)
	return out
}

// Position returns the absolute position of a marker.
func (t Table) Position(id ID) (geom.Vector2, bool) {
	p, ok := t.flags[id]
	return p, ok
}

// Line returns a boundary line.
func (t Table) Line(id LineID) (Line, bool) {
	l, ok := t.lines[id]
	return l, ok
}

// Nearest returns the marker closest to p within radius. Ties resolve to the
// lexically smallest identifier.
func (t Table) Nearest(p geom.Vector2, radius float64) (ID, geom.Vector2, bool) {
	best := ID("")
	bestDist := math.Inf(1)
	for _, id := range t.ids {
		d := geom.Dist(t.flags[id], p)
		if d <= radius && d < bestDist {
			best, bestDist = id, d
		}
	}
	if best == "" {
		return "", geom.Vector2{}, false
	}
	return best, t.flags[best], true
}
