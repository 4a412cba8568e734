// Package localize owns the conversion of relative polar observations into
// absolute estimates with explicit error bounds.
//
// Responsibilities: inverse distance quantization, orientation from
// boundary lines or marker pairs, particle-elimination position estimates
// and relative ball/player localization with rectangular error envelopes.
// Key types: Localizer, FaceFix, PositionFix, ObjectFix, ParticleSet.
//
// Dependency rule: localize consumes sensor snapshots and the landmark
// table and returns values. It keeps no state across cycles except the
// scratch particle set, and never imports the world aggregator.
package localize
