package intercept

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldsense/perception/internal/geom"
	"github.com/fieldsense/perception/internal/params"
	"github.com/fieldsense/perception/internal/sensor"
)

func tableInput(ball geom.Vector2) Input {
	return Input{
		Self:      selfAt(geom.Vec(0, 0), 0),
		SelfValid: true,
		Ball:      ball,
		BallValid: true,
		Candidates: []Candidate{
			{Key: 1, Team: sensor.TeamOurs, Mover: selfAt(geom.Vec(10, 0), 180)},
			{Key: 2, Team: sensor.TeamOurs, Mover: selfAt(geom.Vec(4, 0), 180)},
			{Key: 3, Team: sensor.TeamTheirs, Mover: selfAt(geom.Vec(8, 3), -90)},
			{Key: 4, Team: sensor.TeamTheirs, Mover: Mover{Pos: geom.Vec(6, 0), PosAge: 20, Type: params.DefaultPlayerType()}},
			{Key: 5, Team: sensor.TeamUnknown, Mover: selfAt(geom.Vec(5, 0), 0)},
		},
	}
}

func TestTableUpdate(t *testing.T) {
	t.Parallel()
	tbl := NewTable(params.DefaultServer(), DefaultOptions())

	tbl.Update(10, tableInput(geom.Vec(5, 0)))

	assert.Equal(t, 10, tbl.Cycle())
	assert.Equal(t, 5, tbl.SelfReachCycle())
	require.NotNil(t, tbl.BallCache())

	mate, ok := tbl.FastestTeammate()
	require.True(t, ok)
	assert.Equal(t, uint64(2), mate.Key)
	assert.Len(t, tbl.Teammates(), 2)

	opp, ok := tbl.FastestOpponent()
	require.True(t, ok)
	assert.Equal(t, uint64(3), opp.Key)
	// The stale opponent and the unidentified player are not ranked.
	assert.Len(t, tbl.Opponents(), 1)
}

func TestTableMemoizedPerCycle(t *testing.T) {
	t.Parallel()
	tbl := NewTable(params.DefaultServer(), DefaultOptions())

	tbl.Update(3, tableInput(geom.Vec(5, 0)))
	first := tbl.SelfReachCycle()

	tbl.Update(3, tableInput(geom.Vec(1.5, 0)))
	assert.Equal(t, first, tbl.SelfReachCycle())

	tbl.Update(4, tableInput(geom.Vec(1.5, 0)))
	assert.Equal(t, 1, tbl.SelfReachCycle())

	tbl.Invalidate()
	tbl.Update(4, tableInput(geom.Vec(5, 0)))
	assert.Equal(t, 5, tbl.SelfReachCycle())
}

func TestTableUnknownBall(t *testing.T) {
	t.Parallel()
	tbl := NewTable(params.DefaultServer(), DefaultOptions())

	in := tableInput(geom.Vec(5, 0))
	in.BallValid = false
	tbl.Update(1, in)

	assert.Equal(t, UnreachableCycles, tbl.SelfReachCycle())
	assert.Nil(t, tbl.BallCache())
	_, ok := tbl.FastestOpponent()
	assert.False(t, ok)
}

func TestTableResultsAreCopies(t *testing.T) {
	t.Parallel()
	tbl := NewTable(params.DefaultServer(), DefaultOptions())
	tbl.Update(1, tableInput(geom.Vec(5, 0)))

	mates := tbl.Teammates()
	mates[0].Key = 99
	mate, _ := tbl.FastestTeammate()
	assert.NotEqual(t, uint64(99), mate.Key)
}
