// Package world owns the agent's belief state: one self record, one ball
// record and the tracked players, kept temporally consistent from cycle to
// cycle.
//
// Responsibilities: the internal decay step, body sensing with collision
// inference, vision fusion (self localization, ball, player association
// with population caps), ghost detection, object relations, hearing and
// full-state fusion, tactical lines and the per-cycle reach summary.
// Key types: WorldState, SelfRecord, BallRecord, PlayerRecord, Handle,
// ReachSummary, LineEstimate, Frame.
//
// Dependency rule: world drives localize and intercept and is the only
// writer of its records. Callers get copies and Handles, never pointers
// into the player arena.
package world
