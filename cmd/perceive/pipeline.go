package main

import (
	"errors"
	"fmt"
	"sync"

	"github.com/fieldsense/perception/internal/db"
	"github.com/fieldsense/perception/internal/intercept"
	"github.com/fieldsense/perception/internal/monitoring"
	"github.com/fieldsense/perception/internal/world"
)

// errStaleFrame is returned for a frame older than the current cycle.
var errStaleFrame = errors.New("stale frame")

// cycleRecorder is the subset of *db.DB the pipeline writes to.
type cycleRecorder interface {
	RecordCycle(runID string, c db.CycleSummary) error
}

// pipeline owns the world state. Every frame source funnels through
// HandleFrame; debug handlers read the latest summary concurrently.
type pipeline struct {
	mu     sync.Mutex
	w      *world.WorldState
	rec    cycleRecorder
	runID  string
	frames int
	last   db.CycleSummary
}

func newPipeline(w *world.WorldState, rec cycleRecorder, runID string) *pipeline {
	return &pipeline{w: w, rec: rec, runID: runID, last: summarize(w)}
}

// HandleFrame applies one frame and records its summary. Store failures
// are logged, not returned.
func (p *pipeline) HandleFrame(f world.Frame) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.frames > 0 && f.Cycle < p.w.Cycle() {
		return fmt.Errorf("%w: cycle %d is older than %d", errStaleFrame, f.Cycle, p.w.Cycle())
	}
	p.w.Update(f)
	p.frames++
	p.last = summarize(p.w)

	if p.rec != nil {
		if err := p.rec.RecordCycle(p.runID, p.last); err != nil {
			monitoring.Opsf("cycle %d: %v", f.Cycle, err)
		}
	}
	return nil
}

// Snapshot returns the latest summary and the number of applied frames.
func (p *pipeline) Snapshot() (db.CycleSummary, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last, p.frames
}

// summarize projects the current belief onto a stored row.
func summarize(w *world.WorldState) db.CycleSummary {
	self, ball := w.Self(), w.Ball()
	reach := w.Reach()
	off, def := w.OffsideLine(), w.DefenseLine()

	c := db.CycleSummary{
		Cycle:          w.Cycle(),
		SelfX:          self.Pos.X,
		SelfY:          self.Pos.Y,
		SelfPosAge:     int(self.PosAge),
		SelfFace:       self.Face,
		SelfFaceAge:    int(self.FaceAge),
		BallX:          ball.Pos.X,
		BallY:          ball.Pos.Y,
		BallPosAge:     int(ball.PosAge),
		BallVelAge:     int(ball.VelAge),
		SelfReach:      reach.Self,
		OffsideX:       off.X,
		OffsideAge:     int(off.Age),
		DefenseX:       def.X,
		DefenseAge:     int(def.Age),
		Teammates:      len(w.Teammates()),
		Opponents:      len(w.Opponents()),
		UnknownPlayers: len(w.UnknownPlayers()),
	}
	if reach.Teammate.Valid {
		v := reach.Teammate.Cycles
		c.TeammateReach = &v
	}
	if reach.Opponent.Valid {
		v := reach.Opponent.Cycles
		c.OpponentReach = &v
	}
	if c.SelfReach > intercept.UnreachableCycles {
		c.SelfReach = intercept.UnreachableCycles
	}
	return c
}
