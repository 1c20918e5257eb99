// Pipeline configuration and run reporting.
package pipeline

import (
	"errors"
	"log/slog"

	"github.com/trailforge/routegraph/core"
)

// Defaults for the orchestration-level knobs. Component-level defaults
// live with their packages.
const (
	DefaultSnapTolerance       = 10.0
	DefaultMinSegmentLength    = 5.0
	DefaultOverlapThresholdPct = 30.0
	DefaultSearchBudget        = 200_000
	DefaultMaxCycleEdges       = 40
	DefaultKPaths              = 3
	DefaultMaxStartNodes       = 10
	DefaultMaxAnchors          = 8
	DefaultMaxDestinations     = 6
	DefaultMaxPathsPerAnchor   = 4
	DefaultOutboundMinFrac     = 0.3
	DefaultOutboundMaxFrac     = 0.9
)

// Sentinel errors for run configuration.
var (
	// ErrNoPatterns indicates a run configured with zero patterns.
	ErrNoPatterns = errors.New("pipeline: no route patterns configured")

	// ErrNoTrails indicates a run with an empty trail set.
	ErrNoTrails = errors.New("pipeline: no trails supplied")
)

// Config carries every global parameter of a run. Zero values are
// replaced by the documented defaults in normalize.
type Config struct {
	SnapTolerance       float64 // meters
	MinSegmentLength    float64 // meters
	OverlapThresholdPct float64

	Patterns []core.RoutePattern

	SearchBudget  int
	MaxCycleEdges int
	KPaths        int
	MaxStartNodes int
	Exhaustive    bool

	MaxAnchors        int
	MaxDestinations   int
	MaxPathsPerAnchor int
	OutboundMinFrac   float64
	OutboundMaxFrac   float64
}

// DefaultConfig returns a Config with every knob at its default.
func DefaultConfig() Config {
	cfg := Config{}
	cfg.normalize()
	return cfg
}

// normalize fills zero values with defaults.
func (c *Config) normalize() {
	if c.SnapTolerance <= 0 {
		c.SnapTolerance = DefaultSnapTolerance
	}
	if c.MinSegmentLength <= 0 {
		c.MinSegmentLength = DefaultMinSegmentLength
	}
	if c.OverlapThresholdPct <= 0 {
		c.OverlapThresholdPct = DefaultOverlapThresholdPct
	}
	if c.SearchBudget <= 0 {
		c.SearchBudget = DefaultSearchBudget
	}
	if c.MaxCycleEdges <= 0 {
		c.MaxCycleEdges = DefaultMaxCycleEdges
	}
	if c.KPaths <= 0 {
		c.KPaths = DefaultKPaths
	}
	if c.MaxStartNodes <= 0 {
		c.MaxStartNodes = DefaultMaxStartNodes
	}
	if c.MaxAnchors <= 0 {
		c.MaxAnchors = DefaultMaxAnchors
	}
	if c.MaxDestinations <= 0 {
		c.MaxDestinations = DefaultMaxDestinations
	}
	if c.MaxPathsPerAnchor <= 0 {
		c.MaxPathsPerAnchor = DefaultMaxPathsPerAnchor
	}
	if c.OutboundMinFrac <= 0 {
		c.OutboundMinFrac = DefaultOutboundMinFrac
	}
	if c.OutboundMaxFrac <= 0 {
		c.OutboundMaxFrac = DefaultOutboundMaxFrac
	}
}

// RunReport itemizes every non-fatal condition of a run so a caller
// can tell "no valid routes exist" from "the search gave up early".
type RunReport struct {
	// ExcludedTrails lists trails dropped as degenerate.
	ExcludedTrails []*core.GeometryError

	// EmptyPatterns names patterns that matched zero candidates.
	EmptyPatterns []string

	// BudgetExceeded names patterns whose search hit its cap; their
	// results are present but incomplete.
	BudgetExceeded []string
}

// Result is the output of one run.
type Result struct {
	// Graph is the built snapshot, exposed read-only for diagnostic
	// export.
	Graph *core.GraphSnapshot

	// Recommendations are the accepted routes, globally deduplicated,
	// in acceptance order (descending score within each pattern).
	Recommendations []core.RouteRecommendation

	Report RunReport
}

// Option mutates run behavior via the functional pattern.
type Option func(*runner)

// WithLogger injects a structured logger; slog.Default() otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(r *runner) {
		if l != nil {
			r.log = l
		}
	}
}
