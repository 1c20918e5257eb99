package split

import (
	"errors"
	"sort"

	"github.com/trailforge/routegraph/core"
	"github.com/trailforge/routegraph/geo"
)

// DefaultMinSegmentLength is the shortest segment, in meters, the
// splitter will emit; shorter cuts are merged into a neighbor.
const DefaultMinSegmentLength = 5.0

// Sentinel errors for splitter configuration and input.
var (
	// ErrNilTrail indicates a nil trail pointer.
	ErrNilTrail = errors.New("split: trail is nil")

	// ErrBadMinLength indicates a non-positive minimum segment length.
	ErrBadMinLength = errors.New("split: minimum segment length must be positive")
)

// Options configures the splitter.
type Options struct {
	// MinSegmentLength is the floor, in meters, below which a segment
	// is merged into its neighbor rather than kept.
	MinSegmentLength float64
}

// Option mutates Options via the functional pattern.
type Option func(*Options)

// DefaultOptions returns the splitter defaults.
func DefaultOptions() Options {
	return Options{MinSegmentLength: DefaultMinSegmentLength}
}

// WithMinSegmentLength overrides the minimum segment length (meters).
func WithMinSegmentLength(m float64) Option {
	return func(o *Options) { o.MinSegmentLength = m }
}

// Split cuts the trail at the positions of the given intersection
// points and returns its ordered segments. Endpoint touches never cut;
// they exist for node merging only. A trail with no interior cuts
// yields exactly one segment spanning the whole trail.
func Split(t *core.Trail, points []core.IntersectionPoint, opts ...Option) ([]core.Segment, error) {
	if t == nil {
		return nil, ErrNilTrail
	}
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.MinSegmentLength <= 0 {
		return nil, ErrBadMinLength
	}

	// 1) Collect interior cut fractions for this trail. Cuts within
	//    the floor of either end or of each other collapse away.
	minFrac := cfg.MinSegmentLength / t.Length
	fracs := make([]float64, 0, len(points))
	for _, ip := range points {
		if ip.Kind == core.EndpointTouch {
			continue
		}
		f, ok := ip.Positions[t.ID]
		if !ok {
			continue
		}
		if f <= minFrac || f >= 1-minFrac {
			continue
		}
		fracs = append(fracs, f)
	}
	sort.Float64s(fracs)
	fracs = dedupeFracs(fracs, minFrac)

	// 2) Walk the polyline once, emitting a segment at each cut with an
	//    interpolated point exactly at the cut position.
	segs := cut(t, fracs)

	// 3) Merge any floor-violating segment into its neighbor. Step 1
	//    already prevents this for exact fractions, but interpolation
	//    on stacked cuts can still leave slivers.
	segs = mergeShort(t.ID, segs, cfg.MinSegmentLength)

	return segs, nil
}

// dedupeFracs drops fractions closer than minFrac to their predecessor.
// Input must be sorted ascending.
func dedupeFracs(fracs []float64, minFrac float64) []float64 {
	out := fracs[:0]
	for _, f := range fracs {
		if len(out) > 0 && f-out[len(out)-1] < minFrac {
			continue
		}
		out = append(out, f)
	}
	return out
}

// cut slices the trail's point sequence at each fraction. Cut points
// are interpolated by geo.PointAtFraction, so a segment boundary lands
// at exactly the fractional position recorded by the detector.
func cut(t *core.Trail, fracs []float64) []core.Segment {
	if len(fracs) == 0 {
		return []core.Segment{core.NewSegment(t.ID, 0, t.Points)}
	}

	var (
		segs    []core.Segment
		current = []geo.Point{t.Points[0]}
		vertex  = 1
	)
	for _, f := range fracs {
		cp, idx, err := geo.PointAtFraction(t.Points, f)
		if err != nil {
			continue // Split validated the trail and the fractions
		}
		// Carry the vertices up to the sub-segment holding the cut.
		for vertex <= idx {
			current = append(current, t.Points[vertex])
			vertex++
		}
		current = append(current, cp)
		segs = append(segs, core.NewSegment(t.ID, len(segs), current))
		current = []geo.Point{cp}
	}
	for ; vertex < len(t.Points); vertex++ {
		current = append(current, t.Points[vertex])
	}
	segs = append(segs, core.NewSegment(t.ID, len(segs), current))
	return segs
}

// mergeShort folds segments below the floor into their predecessor
// (or successor for a short leading segment), then reindexes.
func mergeShort(trailID string, segs []core.Segment, floor float64) []core.Segment {
	if len(segs) <= 1 {
		return segs
	}
	out := make([]core.Segment, 0, len(segs))
	for _, s := range segs {
		if len(out) == 0 {
			out = append(out, s)
			continue
		}
		if s.Length < floor || out[len(out)-1].Length < floor {
			prev := out[len(out)-1]
			// Shared cut point: drop the duplicate when concatenating.
			joined := append(append([]geo.Point{}, prev.Points...), s.Points[1:]...)
			out[len(out)-1] = core.NewSegment(trailID, prev.Index, joined)
			continue
		}
		out = append(out, s)
	}
	for i := range out {
		out[i].Index = i
	}
	return out
}
