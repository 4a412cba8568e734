package world

import (
	"errors"

	"github.com/fieldsense/perception/internal/geom"
	"github.com/fieldsense/perception/internal/localize"
	"github.com/fieldsense/perception/internal/monitoring"
	"github.com/fieldsense/perception/internal/sensor"
)

// FuseVision folds one vision snapshot into the belief: our face and
// position first, then the ball, then every player sample through identity
// association. It finishes with the ghost check and the object relations.
// A snapshot for an already fused cycle is ignored.
func (w *WorldState) FuseVision(see sensor.Vision) {
	if w.seeSeen && see.Cycle <= w.seeCycle {
		return
	}
	w.seeSeen = true
	w.seeCycle = see.Cycle

	face, ok := w.localizeFace(see)
	if !ok {
		w.UpdateObjectRelations()
		return
	}
	freshPose := w.localizeSelf(see, face)

	if see.Ball != nil {
		w.fuseBall(*see.Ball, face, see.Cycle)
	}
	if w.SelfPosValid() {
		w.fusePlayers(see.Players, face, see.Cycle)
	} else if len(see.Players) > 0 {
		monitoring.Diagf("cycle %d: %d player samples dropped: %v",
			see.Cycle, len(see.Players), localize.ErrSelfUnknown)
	}

	if freshPose {
		w.CheckGhosts(w.selfCone(), see.Cycle)
	}
	w.UpdateObjectRelations()
}

// localizeFace refreshes our face direction, or falls back to the carried
// estimate while it is still valid.
func (w *WorldState) localizeFace(see sensor.Vision) (localize.FaceFix, bool) {
	fix, err := w.loc.EstimateFace(see)
	if err == nil {
		w.self.Face = fix.Face
		w.self.FaceErr = fix.Err
		w.self.FaceAge = 0
		w.self.Body = geom.NormalizeAngle(fix.Face - w.self.Neck)
		return fix, true
	}
	monitoring.Diagf("cycle %d: no face fix: %v", see.Cycle, err)
	if w.SelfFaceValid() {
		return localize.FaceFix{Face: w.self.Face, Err: w.self.FaceErr}, true
	}
	return localize.FaceFix{}, false
}

// localizeSelf refreshes our position. It reports whether the position was
// confirmed this cycle.
func (w *WorldState) localizeSelf(see sensor.Vision, face localize.FaceFix) bool {
	fix, err := w.loc.EstimatePosition(see, face)
	if err != nil {
		if errors.Is(err, localize.ErrNoLandmark) || errors.Is(err, localize.ErrEmptyParticles) {
			monitoring.Diagf("cycle %d: no position fix: %v", see.Cycle, err)
		} else {
			monitoring.Opsf("cycle %d: position estimate failed: %v", see.Cycle, err)
		}
		return false
	}
	w.self.observe(fix.Pos, fix.Err)
	monitoring.Tracef("cycle %d: self at (%.2f, %.2f) err (%.2f, %.2f) from %d markers",
		see.Cycle, fix.Pos.X, fix.Pos.Y, fix.Err.X, fix.Err.Y, fix.Markers)
	return true
}

// fuseBall localizes the seen ball. Without rate-of-change fields the
// velocity is derived from consecutive sightings.
func (w *WorldState) fuseBall(b sensor.BallSeen, face localize.FaceFix, cycle int) {
	if err := b.Validate(); err != nil {
		monitoring.Opsf("cycle %d: ball sample skipped: %v", cycle, err)
		return
	}
	fix := w.loc.LocalizeObject(b.PolarSample, face, w.server.QuantizeStep)
	w.ball.RPos, w.ball.RPosErr, w.ball.RPosAge = fix.RPos, fix.RPosErr, 0
	w.ball.Ghost = false

	if !w.SelfPosValid() {
		return
	}
	prevSeen, prevSeenAge := w.ball.SeenPos, w.ball.SeenPosAge
	pos, posErr, vel, velErr := fix.Absolute(w.self.Pos, w.self.PosErr, w.self.Vel, w.self.VelErr)
	w.ball.observe(pos, posErr)

	switch {
	case fix.HasVel:
		w.ball.observeVel(vel, velErr, 0)
	case prevSeenAge == 1 && w.ball.VelAge > 1:
		est := geom.Scale(w.server.BallDecay, geom.Sub(pos, prevSeen))
		w.ball.observeVel(geom.ClampLength(est, w.server.BallSpeedMax), geom.Scale(2, posErr), 1)
	}
}
