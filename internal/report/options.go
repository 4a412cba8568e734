package report

import "github.com/fieldsense/perception/internal/params"

// Options controls what is drawn.
type Options struct {
	HalfLength float64
	HalfWidth  float64
	// MaxAge drops positions whose age is at or above it.
	MaxAge int
}

// DefaultOptions draws the standard pitch and positions younger than 10
// cycles.
func DefaultOptions() Options {
	s := params.DefaultServer()
	return Options{HalfLength: s.HalfLength(), HalfWidth: s.HalfWidth(), MaxAge: 10}
}
