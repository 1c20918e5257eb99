// Package geo_test validates the distance, elevation, and planar
// intersection primitives against hand-computed references.
package geo_test

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailforge/routegraph/geo"
)

// metersPerDegree is the meridian arc length of one degree at the
// equator for the sphere the package uses.
const metersPerDegree = geo.EarthRadius * math.Pi / 180

// pt builds a point from planar meter offsets near the equator, where
// lon and lat degrees have (almost) the same metric scale.
func pt(xMeters, yMeters, elev float64) geo.Point {
	return geo.Point{
		Lon:  xMeters / metersPerDegree,
		Lat:  yMeters / metersPerDegree,
		Elev: elev,
	}
}

func TestHaversine_OneDegreeOfLatitude(t *testing.T) {
	d := geo.Haversine(orb.Point{0, 0}, orb.Point{0, 1})
	assert.InDelta(t, metersPerDegree, d, 1.0)
}

func TestDist3D_ElevationContributes(t *testing.T) {
	a := pt(0, 0, 0)
	b := pt(300, 0, 400) // 3-4-5 triangle
	assert.InDelta(t, 500, geo.Dist3D(a, b), 0.5)
}

func TestPolylineLength_SumsSegments(t *testing.T) {
	pts := []geo.Point{pt(0, 0, 0), pt(100, 0, 0), pt(100, 100, 0)}
	assert.InDelta(t, 200, geo.PolylineLength(pts), 0.5)
	assert.Zero(t, geo.PolylineLength(pts[:1]))
}

func TestGainLoss_SumsOnlyInteriorSteps(t *testing.T) {
	pts := []geo.Point{pt(0, 0, 100), pt(1, 0, 150), pt(2, 0, 120), pt(3, 0, 180)}
	gain, loss := geo.GainLoss(pts)
	assert.InDelta(t, 110, gain, 1e-9) // +50 +60
	assert.InDelta(t, 30, loss, 1e-9)  // -30
}

func TestPointAtFraction_Midpoint(t *testing.T) {
	pts := []geo.Point{pt(0, 0, 0), pt(1000, 0, 100)}
	p, seg, err := geo.PointAtFraction(pts, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 0, seg)
	assert.InDelta(t, 50, p.Elev, 0.5)
	// Halfway along the 3D length, which on a climb exceeds half the
	// horizontal run.
	assert.InDelta(t, math.Hypot(1000, 100)/2, geo.Dist3D(pts[0], p), 0.1)
}

func TestPointAtFraction_Errors(t *testing.T) {
	if _, _, err := geo.PointAtFraction([]geo.Point{pt(0, 0, 0)}, 0.5); err != geo.ErrTooFewPoints {
		t.Fatalf("expected ErrTooFewPoints, got %v", err)
	}
	pts := []geo.Point{pt(0, 0, 0), pt(10, 0, 0)}
	if _, _, err := geo.PointAtFraction(pts, 1.5); err != geo.ErrBadFraction {
		t.Fatalf("expected ErrBadFraction, got %v", err)
	}
}

func TestSegmentIntersection_PlainCross(t *testing.T) {
	// Horizontal through the origin vs vertical through the origin.
	a1, a2 := pt(-100, 0, 0), pt(100, 0, 0)
	b1, b2 := pt(0, -100, 0), pt(0, 100, 0)
	p, tt, u, ok := geo.SegmentIntersection(a1.P2(), a2.P2(), b1.P2(), b2.P2())
	require.True(t, ok)
	assert.InDelta(t, 0.5, tt, 1e-6)
	assert.InDelta(t, 0.5, u, 1e-6)
	assert.InDelta(t, 0, p[0], 1e-9)
	assert.InDelta(t, 0, p[1], 1e-9)
}

func TestSegmentIntersection_Disjoint(t *testing.T) {
	a1, a2 := pt(0, 0, 0), pt(100, 0, 0)
	b1, b2 := pt(0, 50, 0), pt(100, 50, 0)
	_, _, _, ok := geo.SegmentIntersection(a1.P2(), a2.P2(), b1.P2(), b2.P2())
	assert.False(t, ok)
}

func TestBound_PadsByMeters(t *testing.T) {
	b := geo.Bound([]geo.Point{pt(0, 0, 0), pt(100, 100, 0)}, 10)
	assert.Less(t, b.Min[0], 0.0)
	assert.Greater(t, b.Max[1], 100/metersPerDegree)
}
