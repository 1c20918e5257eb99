// Package lollipop option types and sentinel errors.
package lollipop

import (
	"context"
	"errors"
)

// Default exploration caps. All of them are explicit configuration;
// none is derived from graph size.
const (
	DefaultMaxAnchors        = 8
	DefaultMaxDestinations   = 6
	DefaultMaxPathsPerAnchor = 4
	DefaultOutboundMinFrac   = 0.3
	DefaultOutboundMaxFrac   = 0.9
	DefaultOverlapPct        = 30.0
	DefaultBudget            = 200_000
)

// Sentinel errors for generator configuration.
var (
	// ErrNilGraph indicates a nil snapshot.
	ErrNilGraph = errors.New("lollipop: graph is nil")

	// ErrBadTarget indicates a non-positive target distance.
	ErrBadTarget = errors.New("lollipop: target distance must be positive")

	// ErrBadRange indicates an outbound fraction range outside
	// 0 < min < max ≤ 1.
	ErrBadRange = errors.New("lollipop: outbound range must satisfy 0 < min < max <= 1")

	// ErrBadCaps indicates a non-positive exploration cap.
	ErrBadCaps = errors.New("lollipop: exploration caps must be positive")
)

// Options configures the generator.
type Options struct {
	// Ctx cancels the generation; partial results are returned.
	Ctx context.Context

	// MaxAnchors caps how many anchor nodes are tried.
	MaxAnchors int

	// MaxDestinations caps destinations explored per anchor.
	MaxDestinations int

	// MaxPathsPerAnchor caps return-leg alternatives per pair.
	MaxPathsPerAnchor int

	// OutboundMinFrac/OutboundMaxFrac bound the outbound distance
	// (stick plus half loop) as fractions of the target distance.
	OutboundMinFrac float64
	OutboundMaxFrac float64

	// OverlapPct rejects loop legs overlapping by more than this many
	// percent of the first leg's edges.
	OverlapPct float64

	// Budget caps expanded states across all inner searches.
	Budget int
}

// Option mutates Options via the functional pattern.
type Option func(*Options)

// DefaultOptions returns the generator defaults.
func DefaultOptions() Options {
	return Options{
		Ctx:               context.Background(),
		MaxAnchors:        DefaultMaxAnchors,
		MaxDestinations:   DefaultMaxDestinations,
		MaxPathsPerAnchor: DefaultMaxPathsPerAnchor,
		OutboundMinFrac:   DefaultOutboundMinFrac,
		OutboundMaxFrac:   DefaultOutboundMaxFrac,
		OverlapPct:        DefaultOverlapPct,
		Budget:            DefaultBudget,
	}
}

// WithContext sets a cancellation context.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithCaps overrides all three exploration caps at once.
func WithCaps(anchors, destinations, pathsPerAnchor int) Option {
	return func(o *Options) {
		o.MaxAnchors = anchors
		o.MaxDestinations = destinations
		o.MaxPathsPerAnchor = pathsPerAnchor
	}
}

// WithOutboundRange overrides the outbound fraction range.
func WithOutboundRange(minFrac, maxFrac float64) Option {
	return func(o *Options) {
		o.OutboundMinFrac = minFrac
		o.OutboundMaxFrac = maxFrac
	}
}

// WithOverlapPct overrides the between-legs overlap threshold.
func WithOverlapPct(pct float64) Option {
	return func(o *Options) { o.OverlapPct = pct }
}

// WithBudget caps expanded states across all inner searches.
func WithBudget(n int) Option {
	return func(o *Options) { o.Budget = n }
}
