// Package geom owns the pure-math primitives of the perception core.
//
// Responsibilities: 2D vectors (backed by gonum spatial/r2), angles in
// degrees normalised to (-180, 180], annulus sectors, axis-aligned
// rectangles and view cones.
// Key types: Vector2, Sector, Rect, ViewCone.
//
// Dependency rule: geom depends on nothing else in this module and holds
// no state.
package geom
