package core

import (
	"github.com/trailforge/routegraph/geo"
)

// Trail is one immutable input polyline with elevation samples.
//
// Length, Gain and Loss are derived from the point sequence at
// construction time and never recomputed; the points themselves are
// owned by the Trail and must not be mutated after NewTrail returns.
type Trail struct {
	ID     string
	Name   string
	Points []geo.Point

	Length float64 // 3D polyline length, meters
	Gain   float64 // cumulative elevation gain, meters
	Loss   float64 // cumulative elevation loss, meters
}

// NewTrail validates the raw polyline and derives length and elevation
// stats. A trail with fewer than two points or (near-)zero length is
// rejected with a *GeometryError.
func NewTrail(id, name string, pts []geo.Point) (*Trail, error) {
	if len(pts) < 2 {
		return nil, &GeometryError{TrailID: id, Reason: "fewer than 2 points"}
	}
	length := geo.PolylineLength(pts)
	if length <= 0 {
		return nil, &GeometryError{TrailID: id, Reason: "zero length"}
	}
	gain, loss := geo.GainLoss(pts)
	return &Trail{
		ID:     id,
		Name:   name,
		Points: pts,
		Length: length,
		Gain:   gain,
		Loss:   loss,
	}, nil
}

// IntersectionKind classifies how two trails meet.
type IntersectionKind int

const (
	// Crossing is a single point strictly interior to both polylines.
	Crossing IntersectionKind = iota

	// TJunction is an intersection lying at an endpoint of exactly one
	// of the two trails.
	TJunction

	// YJunction is an intersection at endpoints of both trails.
	YJunction

	// Multipoint marks each point of a pair of trails that intersect
	// more than once; every such point is processed independently.
	Multipoint

	// EndpointTouch marks endpoints within snap tolerance with no true
	// crossing. Used for node merging in the topology, never for
	// splitting.
	EndpointTouch
)

// String returns the lowercase name of the kind.
func (k IntersectionKind) String() string {
	switch k {
	case Crossing:
		return "crossing"
	case TJunction:
		return "t-intersection"
	case YJunction:
		return "y-intersection"
	case Multipoint:
		return "multipoint"
	case EndpointTouch:
		return "endpoint-touch"
	default:
		return "unknown"
	}
}

// IntersectionPoint is a coordinate where two or more trails meet or
// pass within snap tolerance. Positions maps each contributing trail id
// to the fractional position (0..1) of this point along that trail's
// length.
type IntersectionPoint struct {
	Point     geo.Point
	Kind      IntersectionKind
	Positions map[string]float64
}

// Segment is a contiguous slice of one Trail between two consecutive
// split points. Length, Gain and Loss are recomputed from the trimmed
// profile, never apportioned from the parent.
type Segment struct {
	TrailID string
	Index   int // position within the parent trail's segment order
	Points  []geo.Point

	Length float64
	Gain   float64
	Loss   float64
}

// NewSegment derives the segment stats from its trimmed point sequence.
func NewSegment(trailID string, index int, pts []geo.Point) Segment {
	gain, loss := geo.GainLoss(pts)
	return Segment{
		TrailID: trailID,
		Index:   index,
		Points:  pts,
		Length:  geo.PolylineLength(pts),
		Gain:    gain,
		Loss:    loss,
	}
}
