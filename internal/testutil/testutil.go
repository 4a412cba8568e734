// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"math"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertNear fails the test if got is farther than tol from want.
func AssertNear(t testing.TB, got, want, tol float64, what string) {
	t.Helper()
	if math.IsNaN(got) || math.Abs(got-want) > tol {
		t.Errorf("%s = %v, want %v ± %v", what, got, want, tol)
	}
}

// AssertVecNear fails the test if got is farther than tol from want.
func AssertVecNear(t testing.TB, got, want r2.Vec, tol float64, what string) {
	t.Helper()
	if d := r2.Norm(r2.Sub(got, want)); math.IsNaN(d) || d > tol {
		t.Errorf("%s = (%.3f, %.3f), want (%.3f, %.3f) ± %v", what, got.X, got.Y, want.X, want.Y, tol)
	}
}

// AssertAngleNear compares two headings in degrees modulo 360.
func AssertAngleNear(t testing.TB, got, want, tol float64, what string) {
	t.Helper()
	d := math.Mod(got-want, 360)
	if d > 180 {
		d -= 360
	} else if d < -180 {
		d += 360
	}
	if math.IsNaN(d) || math.Abs(d) > tol {
		t.Errorf("%s = %v°, want %v° ± %v", what, got, want, tol)
	}
}

// TempDBPath returns a database path inside the test's temp directory.
func TempDBPath(t testing.TB, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}
