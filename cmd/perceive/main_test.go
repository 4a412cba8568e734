package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldsense/perception/internal/db"
	"github.com/fieldsense/perception/internal/geom"
	"github.com/fieldsense/perception/internal/intercept"
	"github.com/fieldsense/perception/internal/params"
	"github.com/fieldsense/perception/internal/sensor"
	"github.com/fieldsense/perception/internal/testutil"
	"github.com/fieldsense/perception/internal/timeutil"
	"github.com/fieldsense/perception/internal/world"
)

type memRecorder struct {
	runs []string
	rows []db.CycleSummary
	err  error
}

func (m *memRecorder) RecordCycle(runID string, c db.CycleSummary) error {
	m.runs = append(m.runs, runID)
	m.rows = append(m.rows, c)
	return m.err
}

func testWorld() *world.WorldState {
	cfg := world.DefaultConfig()
	cfg.FullStateEnabled = true
	return world.New(cfg, params.DefaultServer(), params.DefaultTypes(),
		world.Identity{Side: sensor.SideLeft, Unum: 5})
}

func frameStream(t *testing.T, frames ...world.Frame) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, f := range frames {
		require.NoError(t, enc.Encode(f))
	}
	return &buf
}

func stateFrame(cycle int, ball geom.Vector2) world.Frame {
	return world.Frame{
		Cycle: cycle,
		FullState: &sensor.FullState{
			Cycle:   cycle,
			BallPos: ball,
			Self:    sensor.FullBody{Team: sensor.TeamOurs, Unum: 5},
			Players: []sensor.FullBody{
				{Team: sensor.TeamTheirs, Unum: 9, Pos: geom.Vec(30, 0), Body: 180},
				{Team: sensor.TeamOurs, Unum: 2, Pos: geom.Vec(-30, 0)},
			},
		},
	}
}

func noPacing() *timeutil.Pacer {
	return timeutil.NewPacer(timeutil.RealClock{}, 0)
}

func TestReplayRecordsEveryFrame(t *testing.T) {
	w := testWorld()
	rec := &memRecorder{}
	in := frameStream(t, stateFrame(1, geom.Vec(5, 0)), stateFrame(2, geom.Vec(5, 0)))

	n, err := replay(context.Background(), in, newPipeline(w, rec, "run-1"), noPacing())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, w.Cycle())
	require.Len(t, rec.rows, 2)
	assert.Equal(t, []string{"run-1", "run-1"}, rec.runs)

	last := rec.rows[1]
	assert.Equal(t, 2, last.Cycle)
	assert.Equal(t, 5, last.SelfReach)
	assert.Equal(t, 0, last.BallPosAge)
	assert.Equal(t, 1, last.Opponents)
	assert.Equal(t, 1, last.Teammates)
	require.NotNil(t, last.OpponentReach)
	require.NotNil(t, last.TeammateReach)
	assert.Greater(t, *last.OpponentReach, last.SelfReach)
}

func TestReplaySkipsOlderFrames(t *testing.T) {
	w := testWorld()
	rec := &memRecorder{}
	in := frameStream(t, stateFrame(3, geom.Vec(5, 0)), stateFrame(2, geom.Vec(5, 0)))

	n, err := replay(context.Background(), in, newPipeline(w, rec, ""), noPacing())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 3, w.Cycle())
}

func TestReplayWithoutRecorder(t *testing.T) {
	w := testWorld()
	n, err := replay(context.Background(), frameStream(t, stateFrame(1, geom.Vec(5, 0))), newPipeline(w, nil, ""), noPacing())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestReplayReportsBadFrame(t *testing.T) {
	w := testWorld()
	in := strings.NewReader(`{"cycle": 1}` + "\n" + `{"cycle": "two"}`)

	n, err := replay(context.Background(), in, newPipeline(w, nil, ""), noPacing())
	testutil.AssertError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, err.Error(), "frame 2")
}

func TestReplayStoreErrorsDoNotStop(t *testing.T) {
	w := testWorld()
	rec := &memRecorder{err: errors.New("disk full")}
	in := frameStream(t, stateFrame(1, geom.Vec(5, 0)), stateFrame(2, geom.Vec(5, 0)))

	n, err := replay(context.Background(), in, newPipeline(w, rec, "r"), noPacing())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestReplayStopsOnCancel(t *testing.T) {
	w := testWorld()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := replay(ctx, frameStream(t, stateFrame(1, geom.Vec(5, 0))), newPipeline(w, nil, ""), noPacing())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
}

func TestSummarizeUnknownWorld(t *testing.T) {
	w := testWorld()
	w.Update(world.Frame{Cycle: 1})

	c := summarize(w)
	assert.Equal(t, 1, c.Cycle)
	assert.Equal(t, intercept.UnreachableCycles, c.SelfReach)
	assert.Nil(t, c.TeammateReach)
	assert.Nil(t, c.OpponentReach)
	assert.Zero(t, c.Opponents)
}

func TestReplayIntoStore(t *testing.T) {
	store, err := db.OpenDB(testutil.TempDBPath(t, "replay.db"))
	testutil.AssertNoError(t, err)
	defer store.Close()

	run, err := store.StartRun("l", 5, false, "")
	testutil.AssertNoError(t, err)

	w := testWorld()
	_, err = replay(context.Background(), frameStream(t, stateFrame(1, geom.Vec(5, 0))), newPipeline(w, store, run.ID), noPacing())
	testutil.AssertNoError(t, err)

	rows, err := store.ListCycles(run.ID)
	testutil.AssertNoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 5, rows[0].SelfReach)
}
