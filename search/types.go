// Package search option types, budget accounting, and sentinel errors.
package search

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/trailforge/routegraph/core"
)

// Default search bounds. They keep an unconfigured search tractable on
// graphs with thousands of edges without making it useless on small
// ones.
const (
	DefaultMaxEdges    = 40
	DefaultMaxDistance = math.MaxFloat64
	DefaultBudget      = 200_000
	// MinCycleEdges is the smallest admissible cycle: two parallel
	// edges between the same pair of nodes form a legitimate loop when
	// they come from different trails.
	MinCycleEdges = 2
)

// Sentinel errors for search configuration and input.
var (
	// ErrNilGraph indicates a nil snapshot.
	ErrNilGraph = errors.New("search: graph is nil")

	// ErrNilYield indicates a nil cycle callback.
	ErrNilYield = errors.New("search: yield callback is nil")

	// ErrBadK indicates a non-positive k.
	ErrBadK = errors.New("search: k must be positive")

	// ErrBadBound indicates a non-positive MaxEdges or MaxDistance.
	ErrBadBound = errors.New("search: bounds must be positive")

	// ErrSameNode indicates source == target for a path query.
	ErrSameNode = errors.New("search: source and target must differ")

	// ErrNoPath indicates no path exists within the configured bounds.
	ErrNoPath = errors.New("search: no path within bounds")
)

// Options bound a single search invocation.
type Options struct {
	// Ctx cancels the search; partial results are still returned.
	Ctx context.Context

	// MaxEdges caps the edge count of any one cycle or path.
	MaxEdges int

	// MaxDistance caps the total distance of any one cycle or path,
	// in meters.
	MaxDistance float64

	// Budget caps the number of expanded states across the whole call.
	Budget int

	// Exhaustive seeds cycle search from every node instead of only
	// anchors (degree ≥ 3). Opt-in for small graphs.
	Exhaustive bool
}

// Option mutates Options via the functional pattern.
type Option func(*Options)

// DefaultOptions returns the search defaults.
func DefaultOptions() Options {
	return Options{
		Ctx:         context.Background(),
		MaxEdges:    DefaultMaxEdges,
		MaxDistance: DefaultMaxDistance,
		Budget:      DefaultBudget,
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

// WithMaxEdges caps cycle/path edge counts.
func WithMaxEdges(n int) Option {
	return func(o *Options) { o.MaxEdges = n }
}

// WithMaxDistance caps cycle/path total distance (meters).
func WithMaxDistance(m float64) Option {
	return func(o *Options) { o.MaxDistance = m }
}

// WithBudget caps expanded states for the whole call.
func WithBudget(n int) Option {
	return func(o *Options) { o.Budget = n }
}

// WithExhaustive enables all-node cycle seeding.
func WithExhaustive() Option {
	return func(o *Options) { o.Exhaustive = true }
}

// budget tracks expansion spend and cancellation for one search call.
type budget struct {
	ctx       context.Context
	remaining int
	exhausted bool
}

func newBudget(o Options) *budget {
	return &budget{ctx: o.Ctx, remaining: o.Budget}
}

// spend consumes one expansion. It returns false once the cap is hit
// or the context is done; callers must then unwind, keeping partials.
func (b *budget) spend() bool {
	if b.exhausted {
		return false
	}
	select {
	case <-b.ctx.Done():
		b.exhausted = true
		return false
	default:
	}
	b.remaining--
	if b.remaining < 0 {
		b.exhausted = true
		return false
	}
	return true
}

// err maps an exhausted budget to the shared sentinel, wrapping the
// context cause when cancellation (rather than the state cap) fired.
func (b *budget) err() error {
	if !b.exhausted {
		return nil
	}
	if cause := b.ctx.Err(); cause != nil {
		return fmt.Errorf("%w: %v", core.ErrBudgetExceeded, cause)
	}
	return core.ErrBudgetExceeded
}
