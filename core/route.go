package core

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
)

// Shape classifies the overall geometry of a route.
type Shape int

const (
	// Loop closes back on its start with no repeated edge.
	Loop Shape = iota

	// OutAndBack retraces the outbound edges in reverse order; that
	// case alone is exempt from the no-repeated-edge rule.
	OutAndBack

	// PointToPoint runs between two distinct nodes with no repeats.
	PointToPoint

	// Lollipop is an out-leg to an anchor, a loop at the far end, and a
	// return along the out-leg.
	Lollipop
)

// ErrUnknownShape is returned by ParseShape for unrecognized names.
var ErrUnknownShape = errors.New("core: unknown route shape")

// String returns the canonical lowercase name of the shape.
func (s Shape) String() string {
	switch s {
	case Loop:
		return "loop"
	case OutAndBack:
		return "out-and-back"
	case PointToPoint:
		return "point-to-point"
	case Lollipop:
		return "lollipop"
	default:
		return "unknown"
	}
}

// ParseShape maps a canonical shape name back to its Shape.
func ParseShape(s string) (Shape, error) {
	switch s {
	case "loop":
		return Loop, nil
	case "out-and-back":
		return OutAndBack, nil
	case "point-to-point":
		return PointToPoint, nil
	case "lollipop":
		return Lollipop, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownShape, s)
	}
}

// RoutePattern is one configured search target.
//
// TolerancePct is a symmetric band: a candidate matches when its total
// distance lies within TargetDistance * (1 ± TolerancePct/100).
type RoutePattern struct {
	Name           string
	Shape          Shape
	TargetDistance float64 // meters
	TargetGain     float64 // meters
	TolerancePct   float64
}

// MinDistance returns the lower edge of the pattern's distance band.
func (p RoutePattern) MinDistance() float64 {
	return p.TargetDistance * (1 - p.TolerancePct/100)
}

// MaxDistance returns the upper edge of the pattern's distance band.
func (p RoutePattern) MaxDistance() float64 {
	return p.TargetDistance * (1 + p.TolerancePct/100)
}

// RouteCandidate is an ordered sequence of edges forming a connected
// walk. Nodes holds the walk's node order and has len(Edges)+1 entries;
// for closed shapes the first and last entry coincide.
type RouteCandidate struct {
	Edges []int64
	Nodes []int64

	Distance float64
	Gain     float64
	Shape    Shape
}

// EdgeSet returns the candidate's edge ids as a set.
func (c RouteCandidate) EdgeSet() map[int64]struct{} {
	s := make(map[int64]struct{}, len(c.Edges))
	for _, id := range c.Edges {
		s[id] = struct{}{}
	}
	return s
}

// RouteRecommendation is an accepted candidate: scored, identified, and
// carrying the merged output geometry.
type RouteRecommendation struct {
	RouteCandidate

	UUID       string
	Name       string
	Pattern    string
	Score      float64
	TrailCount int
	Geometry   orb.MultiLineString
}
