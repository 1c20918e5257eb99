// Package core_test exercises trail validation, the graph snapshot
// invariants, and the route shape parsing.
package core_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailforge/routegraph/core"
	"github.com/trailforge/routegraph/geo"
)

const metersPerDegree = geo.EarthRadius * math.Pi / 180

func pt(x, y, elev float64) geo.Point {
	return geo.Point{Lon: x / metersPerDegree, Lat: y / metersPerDegree, Elev: elev}
}

func TestNewTrail_Valid(t *testing.T) {
	tr, err := core.NewTrail("t1", "Ridge", []geo.Point{pt(0, 0, 100), pt(1000, 0, 150)})
	require.NoError(t, err)
	// Length is the 3D hypotenuse of the horizontal run and the climb.
	assert.InDelta(t, math.Hypot(1000, 50), tr.Length, 0.1)
	assert.InDelta(t, 50, tr.Gain, 1e-9)
	assert.Zero(t, tr.Loss)
}

func TestNewTrail_Degenerate(t *testing.T) {
	_, err := core.NewTrail("t1", "", []geo.Point{pt(0, 0, 0)})
	var ge *core.GeometryError
	require.True(t, errors.As(err, &ge))
	assert.Equal(t, "t1", ge.TrailID)

	_, err = core.NewTrail("t2", "", []geo.Point{pt(0, 0, 0), pt(0, 0, 0)})
	require.True(t, errors.As(err, &ge))
}

func TestNewGraphSnapshot_RejectsEmptyAndMismatched(t *testing.T) {
	n1 := &core.Node{ID: 1}
	if _, err := core.NewGraphSnapshot([]*core.Node{n1}, nil); err != core.ErrEmptyGraph {
		t.Fatalf("expected ErrEmptyGraph, got %v", err)
	}
	e := &core.Edge{ID: 1, From: 1, To: 99}
	if _, err := core.NewGraphSnapshot([]*core.Node{n1}, []*core.Edge{e}); err != core.ErrEdgeMismatch {
		t.Fatalf("expected ErrEdgeMismatch, got %v", err)
	}
}

func TestNewGraphSnapshot_RecomputesDegree(t *testing.T) {
	nodes := []*core.Node{
		{ID: 1, Degree: 42, Edges: []int64{9, 9, 9}}, // stale, must be rebuilt
		{ID: 2},
		{ID: 3},
	}
	edges := []*core.Edge{
		{ID: 1, From: 1, To: 2, Length: 10},
		{ID: 2, From: 2, To: 3, Length: 10},
		{ID: 3, From: 3, To: 1, Length: 10},
	}
	g, err := core.NewGraphSnapshot(nodes, edges)
	require.NoError(t, err)

	for _, id := range g.NodeIDs() {
		n := g.Node(id)
		assert.Equal(t, len(g.Incident(id)), n.Degree)
		assert.Equal(t, 2, n.Degree)
	}
}

func TestEdge_DirectionalGain(t *testing.T) {
	e := &core.Edge{ID: 1, From: 1, To: 2, Gain: 30, Loss: 5}
	assert.Equal(t, 30.0, e.DirectionalGain(1))
	assert.Equal(t, 5.0, e.DirectionalGain(2))
	assert.Equal(t, int64(2), e.Other(1))
	assert.Equal(t, int64(-1), e.Other(7))
}

func TestParseShape_RoundTrip(t *testing.T) {
	for _, s := range []core.Shape{core.Loop, core.OutAndBack, core.PointToPoint, core.Lollipop} {
		got, err := core.ParseShape(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := core.ParseShape("figure-eight")
	assert.ErrorIs(t, err, core.ErrUnknownShape)
}

func TestRoutePattern_DistanceBand(t *testing.T) {
	p := core.RoutePattern{TargetDistance: 10000, TolerancePct: 20}
	assert.InDelta(t, 8000, p.MinDistance(), 1e-9)
	assert.InDelta(t, 12000, p.MaxDistance(), 1e-9)
}
