// Package intersect option types and sentinel errors.
package intersect

import (
	"errors"

	"github.com/trailforge/routegraph/core"
)

// DefaultTolerance is the snap tolerance, in meters, applied when no
// option overrides it.
const DefaultTolerance = 10.0

// Sentinel errors for detector configuration.
var (
	// ErrNoTrails indicates an empty input trail set.
	ErrNoTrails = errors.New("intersect: no trails supplied")

	// ErrBadTolerance indicates a non-positive snap tolerance.
	ErrBadTolerance = errors.New("intersect: tolerance must be positive")
)

// Options configures the detector.
type Options struct {
	// Tolerance is the snap distance in meters: endpoints closer than
	// this are treated as touching, and intersection points closer than
	// this along the same pair are collapsed into one.
	Tolerance float64
}

// Option mutates Options via the functional pattern.
type Option func(*Options)

// DefaultOptions returns the detector defaults.
func DefaultOptions() Options {
	return Options{Tolerance: DefaultTolerance}
}

// WithTolerance overrides the snap tolerance (meters).
func WithTolerance(m float64) Option {
	return func(o *Options) { o.Tolerance = m }
}

// Result is the detector output: the intersection set plus the trails
// excluded as degenerate.
type Result struct {
	Points   []core.IntersectionPoint
	Excluded []*core.GeometryError
}
