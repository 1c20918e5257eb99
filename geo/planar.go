// Local tangent-plane projection and 2D segment intersection.
//
// Intersection of geographic segments is computed in a local
// equirectangular frame: meters east/north of a reference point. The
// frame is valid for the short segments trail polylines are made of.
package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// Frame is a local equirectangular projection anchored at an origin.
// Project maps lon/lat into meters east (x) and north (y) of the origin.
type Frame struct {
	origin orb.Point
	cosLat float64
}

// NewFrame returns a Frame anchored at origin.
func NewFrame(origin orb.Point) Frame {
	return Frame{origin: origin, cosLat: math.Cos(origin[1] * math.Pi / 180)}
}

// Project maps p into the frame's planar coordinates (meters).
func (f Frame) Project(p orb.Point) (x, y float64) {
	x = (p[0] - f.origin[0]) * math.Pi / 180 * EarthRadius * f.cosLat
	y = (p[1] - f.origin[1]) * math.Pi / 180 * EarthRadius
	return x, y
}

// SegmentIntersection computes the intersection of segments a1→a2 and
// b1→b2 in the plane of a local frame anchored at a1.
//
// On intersection it returns the geographic crossing point and the
// parameters t (along a1→a2) and u (along b1→b2), both in [0, 1].
// Collinear overlaps and parallel segments report no intersection; the
// endpoint-touch path in the detector covers the collinear case.
func SegmentIntersection(a1, a2, b1, b2 orb.Point) (pt orb.Point, t, u float64, ok bool) {
	f := NewFrame(a1)
	ax, ay := f.Project(a1)
	bx, by := f.Project(a2)
	cx, cy := f.Project(b1)
	dx, dy := f.Project(b2)

	rX, rY := bx-ax, by-ay
	sX, sY := dx-cx, dy-cy

	denom := rX*sY - rY*sX
	if math.Abs(denom) < 1e-12 {
		return orb.Point{}, 0, 0, false
	}

	qpX, qpY := cx-ax, cy-ay
	t = (qpX*sY - qpY*sX) / denom
	u = (qpX*rY - qpY*rX) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return orb.Point{}, 0, 0, false
	}

	pt = orb.Point{
		a1[0] + (a2[0]-a1[0])*t,
		a1[1] + (a2[1]-a1[1])*t,
	}
	return pt, t, u, true
}
