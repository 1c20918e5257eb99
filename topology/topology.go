package topology

import (
	"errors"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/quadtree"

	"github.com/trailforge/routegraph/core"
	"github.com/trailforge/routegraph/geo"
)

// DefaultTolerance is the node snap tolerance in meters.
const DefaultTolerance = 10.0

// Sentinel errors for builder configuration and input.
var (
	// ErrNoSegments indicates an empty segment set.
	ErrNoSegments = errors.New("topology: no segments supplied")

	// ErrBadTolerance indicates a non-positive snap tolerance.
	ErrBadTolerance = errors.New("topology: tolerance must be positive")
)

// Options configures the builder.
type Options struct {
	// Tolerance is the snap distance in meters within which two segment
	// endpoints resolve to the same node.
	Tolerance float64
}

// Option mutates Options via the functional pattern.
type Option func(*Options)

// DefaultOptions returns the builder defaults.
func DefaultOptions() Options {
	return Options{Tolerance: DefaultTolerance}
}

// WithTolerance overrides the snap tolerance (meters).
func WithTolerance(m float64) Option {
	return func(o *Options) { o.Tolerance = m }
}

// nodeRef lets resolved nodes live in the quadtree for snap lookups.
type nodeRef struct {
	pt orb.Point
	id int64
}

// Point implements orb.Pointer.
func (n nodeRef) Point() orb.Point { return n.pt }

// Build snaps all segment endpoints into a canonical node set, emits
// one edge per segment, and freezes the result into a GraphSnapshot
// (which recomputes node degrees from the live edge set).
//
// A segment whose two endpoints resolve to the same node and whose
// length is within tolerance is dropped as a degenerate self-loop;
// genuine loops (a trail that closes on itself over real distance)
// are kept. An all-degenerate input yields core.ErrEmptyGraph.
func Build(segments []core.Segment, opts ...Option) (*core.GraphSnapshot, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Tolerance <= 0 {
		return nil, ErrBadTolerance
	}
	if len(segments) == 0 {
		return nil, ErrNoSegments
	}

	// 1) Deterministic processing order.
	ordered := make([]core.Segment, len(segments))
	copy(ordered, segments)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].TrailID != ordered[j].TrailID {
			return ordered[i].TrailID < ordered[j].TrailID
		}
		return ordered[i].Index < ordered[j].Index
	})

	// 2) Resolve endpoints against the growing node set. The quadtree
	//    bound covers every endpoint up front; nodes are added as they
	//    are created.
	var allPts []geo.Point
	for _, s := range ordered {
		allPts = append(allPts, s.Points[0], s.Points[len(s.Points)-1])
	}
	qt := quadtree.New(geo.Bound(allPts, cfg.Tolerance))

	var (
		nodes  []*core.Node
		edges  []*core.Edge
		nextID int64 = 1
	)
	resolve := func(p geo.Point) int64 {
		for _, ptr := range qt.InBound(nil, geo.Bound([]geo.Point{p}, cfg.Tolerance)) {
			ref := ptr.(nodeRef)
			n := nodes[ref.id-1]
			if geo.Dist3D(n.Point, p) <= cfg.Tolerance {
				return n.ID
			}
		}
		n := &core.Node{ID: nextID, Point: p}
		nextID++
		nodes = append(nodes, n)
		_ = qt.Add(nodeRef{pt: p.P2(), id: n.ID})
		return n.ID
	}

	var nextEdge int64 = 1
	for _, s := range ordered {
		from := resolve(s.Points[0])
		to := resolve(s.Points[len(s.Points)-1])
		if from == to && s.Length <= cfg.Tolerance {
			continue // snap artifact, not a real loop
		}
		edges = append(edges, &core.Edge{
			ID:       nextEdge,
			From:     from,
			To:       to,
			TrailIDs: []string{s.TrailID},
			Points:   s.Points,
			Length:   s.Length,
			Gain:     s.Gain,
			Loss:     s.Loss,
		})
		nextEdge++
	}

	// 3) Freeze. NewGraphSnapshot recomputes degrees and validates the
	//    edge-endpoint invariant; it returns core.ErrEmptyGraph when
	//    nothing survived.
	return core.NewGraphSnapshot(nodes, edges)
}
