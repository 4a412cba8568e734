// Package report renders recorded perception runs for offline review.
//
// Responsibilities:
//   - Trajectory plots (PNG) of our estimated position and the ball.
//   - Interactive reach and line charts (HTML).
//
// Key types:
//   - Options: pitch bounds and the age below which a point is drawn.
//
// Dependency rule: report reads db.CycleSummary rows only. It never
// imports world, so a run can be rendered without the perception core.
package report
