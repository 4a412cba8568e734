package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldsense/perception/internal/geom"
)

func TestPipelineRejectsStaleFrame(t *testing.T) {
	p := newPipeline(testWorld(), nil, "")

	require.NoError(t, p.HandleFrame(stateFrame(4, geom.Vec(5, 0))))
	err := p.HandleFrame(stateFrame(3, geom.Vec(5, 0)))
	assert.ErrorIs(t, err, errStaleFrame)

	// Same cycle is accepted again.
	require.NoError(t, p.HandleFrame(stateFrame(4, geom.Vec(6, 0))))

	last, frames := p.Snapshot()
	assert.Equal(t, 2, frames)
	assert.Equal(t, 4, last.Cycle)
	assert.InDelta(t, 6.0, last.BallX, 1e-9)
}

func TestPipelineFirstFrameMayStartAnywhere(t *testing.T) {
	p := newPipeline(testWorld(), nil, "")
	require.NoError(t, p.HandleFrame(stateFrame(0, geom.Vec(5, 0))))

	_, frames := p.Snapshot()
	assert.Equal(t, 1, frames)
}

func TestPipelineRecordsUnderRunID(t *testing.T) {
	rec := &memRecorder{}
	p := newPipeline(testWorld(), rec, "abc")

	require.NoError(t, p.HandleFrame(stateFrame(1, geom.Vec(5, 0))))
	assert.Equal(t, []string{"abc"}, rec.runs)
	require.Len(t, rec.rows, 1)

	last, _ := p.Snapshot()
	assert.Equal(t, rec.rows[0], last)
}

func TestDebugBelief(t *testing.T) {
	p := newPipeline(testWorld(), nil, "")
	require.NoError(t, p.HandleFrame(stateFrame(7, geom.Vec(5, 0))))
	d := &debugServer{p: p}

	rr := httptest.NewRecorder()
	d.handleBelief(rr, httptest.NewRequest(http.MethodGet, "/debug/belief", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var got struct {
		Frames int `json:"frames"`
		Cycle  struct {
			Cycle int `json:"cycle"`
		} `json:"cycle"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, 1, got.Frames)
	assert.Equal(t, 7, got.Cycle.Cycle)
}

func TestDebugAttachWithoutStore(t *testing.T) {
	d := &debugServer{p: newPipeline(testWorld(), nil, "")}
	assert.NoError(t, d.attach(http.NewServeMux()))
}
