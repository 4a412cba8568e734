// Package intercept owns the reach-time predictions: how many cycles each
// body needs to bring the ball under control.
//
// Responsibilities: forward simulation of the ball (BallCache), turn-then-dash
// reach checks for ourselves and for tracked players, and the per-cycle
// memoized Table the world model queries.
// Key types: BallCache, Mover, Estimate, Table.
//
// Dependency rule: intercept depends on geom, params and config. It never
// imports the world aggregator; callers hand it value snapshots and get
// values back.
package intercept
