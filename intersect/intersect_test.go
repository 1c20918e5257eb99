// Package intersect_test drives the detector through the canonical
// meeting shapes: a plain X, a T, touching endpoints, and degenerate
// input.
package intersect_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailforge/routegraph/core"
	"github.com/trailforge/routegraph/geo"
	"github.com/trailforge/routegraph/intersect"
)

const metersPerDegree = geo.EarthRadius * math.Pi / 180

func pt(x, y, elev float64) geo.Point {
	return geo.Point{Lon: x / metersPerDegree, Lat: y / metersPerDegree, Elev: elev}
}

func mustTrail(t *testing.T, id string, pts ...geo.Point) *core.Trail {
	t.Helper()
	tr, err := core.NewTrail(id, id, pts)
	require.NoError(t, err)
	return tr
}

func TestDetect_CrossingAtMidpoints(t *testing.T) {
	a := mustTrail(t, "a", pt(-100, 0, 0), pt(100, 0, 0))
	b := mustTrail(t, "b", pt(0, -100, 0), pt(0, 100, 0))

	res, err := intersect.Detect([]*core.Trail{a, b})
	require.NoError(t, err)
	require.Len(t, res.Points, 1)

	ip := res.Points[0]
	assert.Equal(t, core.Crossing, ip.Kind)
	assert.InDelta(t, 0.5, ip.Positions["a"], 0.01)
	assert.InDelta(t, 0.5, ip.Positions["b"], 0.01)
}

func TestDetect_TIntersection(t *testing.T) {
	// b ends exactly on a's interior.
	a := mustTrail(t, "a", pt(-100, 0, 0), pt(100, 0, 0))
	b := mustTrail(t, "b", pt(0, 100, 0), pt(0, 0, 0))

	res, err := intersect.Detect([]*core.Trail{a, b})
	require.NoError(t, err)
	require.Len(t, res.Points, 1)
	assert.Equal(t, core.TJunction, res.Points[0].Kind)
}

func TestDetect_EndpointTouchWithinTolerance(t *testing.T) {
	// Endpoints 5 m apart, tolerance 10 m: bridged, not crossed.
	a := mustTrail(t, "a", pt(-200, 0, 0), pt(0, 0, 0))
	b := mustTrail(t, "b", pt(5, 0, 0), pt(200, 50, 0))

	res, err := intersect.Detect([]*core.Trail{a, b}, intersect.WithTolerance(10))
	require.NoError(t, err)

	var touches int
	for _, ip := range res.Points {
		if ip.Kind == core.EndpointTouch {
			touches++
		}
	}
	assert.Equal(t, 1, touches)
}

func TestDetect_NoTouchOutsideTolerance(t *testing.T) {
	a := mustTrail(t, "a", pt(-200, 0, 0), pt(0, 0, 0))
	b := mustTrail(t, "b", pt(50, 0, 0), pt(200, 0, 0))

	res, err := intersect.Detect([]*core.Trail{a, b}, intersect.WithTolerance(10))
	require.NoError(t, err)
	assert.Empty(t, res.Points)
}

func TestDetect_DegenerateTrailExcluded(t *testing.T) {
	good := mustTrail(t, "good", pt(0, 0, 0), pt(100, 0, 0))
	bad := &core.Trail{ID: "bad", Points: []geo.Point{pt(0, 0, 0)}}

	res, err := intersect.Detect([]*core.Trail{good, bad})
	require.NoError(t, err)
	require.Len(t, res.Excluded, 1)
	assert.Equal(t, "bad", res.Excluded[0].TrailID)
}

func TestDetect_InputValidation(t *testing.T) {
	if _, err := intersect.Detect(nil); err != intersect.ErrNoTrails {
		t.Fatalf("expected ErrNoTrails, got %v", err)
	}
	tr := mustTrail(t, "a", pt(0, 0, 0), pt(100, 0, 0))
	if _, err := intersect.Detect([]*core.Trail{tr}, intersect.WithTolerance(0)); err != intersect.ErrBadTolerance {
		t.Fatalf("expected ErrBadTolerance, got %v", err)
	}
}

func TestDetect_MultipointPair(t *testing.T) {
	// A sine-ish zigzag crossing the axis twice, far enough apart that
	// the two points do not collapse.
	a := mustTrail(t, "a", pt(-300, 0, 0), pt(300, 0, 0))
	b := mustTrail(t, "b", pt(-200, -100, 0), pt(-100, 100, 0), pt(100, -100, 0))

	res, err := intersect.Detect([]*core.Trail{a, b})
	require.NoError(t, err)
	require.Len(t, res.Points, 2)
	for _, ip := range res.Points {
		assert.Equal(t, core.Multipoint, ip.Kind)
	}
}
