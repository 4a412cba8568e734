package world

import (
	"math"
	"sort"
	"testing"

	"github.com/fieldsense/perception/internal/geom"
	"github.com/fieldsense/perception/internal/landmark"
	"github.com/fieldsense/perception/internal/localize"
	"github.com/fieldsense/perception/internal/params"
	"github.com/fieldsense/perception/internal/sensor"
)

func newTestWorld(t *testing.T, mutate func(*Config)) *WorldState {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	return New(cfg, params.DefaultServer(), params.DefaultTypes(), Identity{Side: sensor.SideLeft, Unum: 5})
}

func withFullState(cfg *Config) { cfg.FullStateEnabled = true }

type seenPlayer struct {
	team   sensor.Team
	unum   int
	pos    geom.Vector2
	goalie bool
}

// polarSample builds the sample the simulator reports for to, seen from
// from while facing face.
func polarSample(from, to geom.Vector2, face, qstep float64) sensor.PolarSample {
	rel := geom.Sub(to, from)
	return sensor.PolarSample{
		Dist: localize.QuantizeDistance(geom.Norm(rel), qstep),
		Dir:  math.Round(geom.NormalizeAngle(geom.Dir(rel) - face)),
	}
}

// lineSeenDir inverts the face-from-line rule for a single visible line.
func lineSeenDir(face, normal float64) float64 {
	delta := geom.NormalizeAngle(face - normal)
	if delta >= 0 {
		return 90 - delta
	}
	return -delta - 90
}

// visionAt renders what we would see from self facing 0: the markers ahead,
// the right boundary line, the ball and the given players.
func visionAt(cycle int, self geom.Vector2, ball *geom.Vector2, players []seenPlayer) sensor.Vision {
	const face = 0.0
	s := params.DefaultServer()
	tbl := landmark.NewTable(s)

	see := sensor.Vision{Cycle: cycle}
	for _, id := range tbl.IDs() {
		abs, _ := tbl.Position(id)
		rel := geom.Sub(abs, self)
		if geom.Norm(rel) > 60 || geom.AngleDiff(geom.Dir(rel), face) > 40 {
			continue
		}
		see.Markers = append(see.Markers, sensor.MarkerSeen{
			ID:          string(id),
			PolarSample: polarSample(self, abs, face, s.QuantizeStepLine),
		})
	}
	sort.SliceStable(see.Markers, func(i, j int) bool { return see.Markers[i].Dist < see.Markers[j].Dist })
	see.Lines = []sensor.LineSeen{{ID: "l r", Dist: s.HalfLength() - self.X, Dir: lineSeenDir(face, 0)}}

	if ball != nil {
		see.Ball = &sensor.BallSeen{PolarSample: polarSample(self, *ball, face, s.QuantizeStep)}
	}
	for _, p := range players {
		see.Players = append(see.Players, sensor.PlayerSeen{
			PolarSample: polarSample(self, p.pos, face, s.QuantizeStep),
			Team:        p.team,
			Unum:        p.unum,
			Goalie:      p.goalie,
		})
	}
	return see
}

func fullState(cycle int, self geom.Vector2, body float64, ball, ballVel geom.Vector2, players ...sensor.FullBody) sensor.FullState {
	return sensor.FullState{
		Cycle:   cycle,
		BallPos: ball,
		BallVel: ballVel,
		Self:    sensor.FullBody{Team: sensor.TeamOurs, Unum: 5, Pos: self, Body: body},
		Players: players,
	}
}

func body(team sensor.Team, unum int, pos geom.Vector2, dir float64) sensor.FullBody {
	return sensor.FullBody{Team: team, Unum: unum, Pos: pos, Body: dir}
}

type mockDebugCollector struct {
	enabled      bool
	associations int
	created      int
	ghosts       []uint64
	evictions    []uint64
}

func (m *mockDebugCollector) IsEnabled() bool { return m.enabled }

func (m *mockDebugCollector) RecordAssociation(sample int, key uint64, dist, bound float64, created bool) {
	m.associations++
	if created {
		m.created++
	}
}

func (m *mockDebugCollector) RecordGhost(key uint64, ball bool, count int) {
	m.ghosts = append(m.ghosts, key)
}

func (m *mockDebugCollector) RecordEviction(key uint64, age int) {
	m.evictions = append(m.evictions, key)
}

func ptr[T any](v T) *T { return &v }
