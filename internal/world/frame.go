package world

import "github.com/fieldsense/perception/internal/sensor"

// Frame is everything the agent received for one cycle.
type Frame struct {
	Cycle     int                  `json:"cycle"`
	Effects   sensor.ActionEffects `json:"effects"`
	Body      *sensor.BodySense    `json:"body,omitempty"`
	Vision    *sensor.Vision       `json:"vision,omitempty"`
	Hearing   *sensor.Hearing      `json:"hearing,omitempty"`
	FullState *sensor.FullState    `json:"full_state,omitempty"`
}

// Update runs one full cycle in order: internal step, body sensing, vision
// fusion, hearing, full state, then the pre-decision finalization.
func (w *WorldState) Update(f Frame) {
	w.InternalStep(f.Effects, f.Cycle)
	if f.Body != nil {
		w.UpdateBody(*f.Body)
	}
	if f.Vision != nil {
		w.FuseVision(*f.Vision)
	}
	if f.Hearing != nil {
		w.FuseHearing(*f.Hearing, f.Cycle)
	}
	if f.FullState != nil {
		w.ApplyFullState(*f.FullState)
	}
	w.FinalizeBeforeDecision(f.Cycle)
}
