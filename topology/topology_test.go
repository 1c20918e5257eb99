// Package topology_test covers endpoint snapping, node identity, and
// the degenerate self-loop filter.
package topology_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailforge/routegraph/core"
	"github.com/trailforge/routegraph/geo"
	"github.com/trailforge/routegraph/topology"
)

const metersPerDegree = geo.EarthRadius * math.Pi / 180

func pt(x, y, elev float64) geo.Point {
	return geo.Point{Lon: x / metersPerDegree, Lat: y / metersPerDegree, Elev: elev}
}

func seg(trailID string, index int, pts ...geo.Point) core.Segment {
	return core.NewSegment(trailID, index, pts)
}

func TestBuild_LinearTrail(t *testing.T) {
	g, err := topology.Build([]core.Segment{
		seg("a", 0, pt(0, 0, 0), pt(500, 0, 20)),
	})
	require.NoError(t, err)
	require.Equal(t, 2, g.NumNodes())
	require.Equal(t, 1, g.NumEdges())
	for _, id := range g.NodeIDs() {
		n := g.Node(id)
		require.NotNil(t, n)
		assert.Equal(t, 1, n.Degree)
	}
}

func TestBuild_CrossSegments(t *testing.T) {
	// Two trails already split at a common midpoint: four segments
	// sharing one central endpoint.
	center := pt(0, 0, 0)
	g, err := topology.Build([]core.Segment{
		seg("a", 0, pt(-100, 0, 0), center),
		seg("a", 1, center, pt(100, 0, 0)),
		seg("b", 0, pt(0, -100, 0), center),
		seg("b", 1, center, pt(0, 100, 0)),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, g.NumNodes())
	assert.Equal(t, 4, g.NumEdges())

	var hub *core.Node
	for _, id := range g.NodeIDs() {
		n := g.Node(id)
		if n.Degree == 4 {
			hub = n
		}
	}
	require.NotNil(t, hub, "expected one degree-4 junction node")
	assert.Len(t, g.Incident(hub.ID), 4)
}

func TestBuild_SnapMergesNearbyEndpoints(t *testing.T) {
	// The two trails end 6 m apart; within the default 10 m tolerance
	// they must resolve to a single node.
	g, err := topology.Build([]core.Segment{
		seg("a", 0, pt(-500, 0, 0), pt(0, 0, 0)),
		seg("b", 0, pt(6, 0, 0), pt(500, 0, 0)),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, g.NumNodes())
	assert.Equal(t, 2, g.NumEdges())
}

func TestBuild_NoSnapOutsideTolerance(t *testing.T) {
	g, err := topology.Build([]core.Segment{
		seg("a", 0, pt(-500, 0, 0), pt(0, 0, 0)),
		seg("b", 0, pt(30, 0, 0), pt(500, 0, 0)),
	}, topology.WithTolerance(10))
	require.NoError(t, err)
	assert.Equal(t, 4, g.NumNodes())
}

func TestBuild_DegenerateSelfLoopDropped(t *testing.T) {
	// A 4 m segment whose endpoints snap together is an artifact; with
	// nothing else in the input the graph comes back empty.
	_, err := topology.Build([]core.Segment{
		seg("a", 0, pt(0, 0, 0), pt(4, 0, 0)),
	})
	if err != core.ErrEmptyGraph {
		t.Fatalf("expected core.ErrEmptyGraph, got %v", err)
	}
}

func TestBuild_GenuineLoopKept(t *testing.T) {
	// A trail that closes on itself over real distance stays a loop
	// edge; the snapshot counts a self-loop twice toward degree.
	g, err := topology.Build([]core.Segment{
		seg("a", 0,
			pt(0, 0, 0), pt(300, 0, 0), pt(300, 300, 0), pt(0, 300, 0), pt(2, 0, 0)),
	})
	require.NoError(t, err)
	require.Equal(t, 1, g.NumNodes())
	require.Equal(t, 1, g.NumEdges())
	n := g.Node(g.NodeIDs()[0])
	assert.Equal(t, 2, n.Degree)
}

func TestBuild_Deterministic(t *testing.T) {
	segs := []core.Segment{
		seg("b", 0, pt(0, -100, 0), pt(0, 0, 0)),
		seg("a", 1, pt(0, 0, 0), pt(100, 0, 0)),
		seg("a", 0, pt(-100, 0, 0), pt(0, 0, 0)),
	}
	g1, err := topology.Build(segs)
	require.NoError(t, err)

	// Shuffled input yields identical IDs because the builder sorts by
	// (trail, index) before resolving.
	shuffled := []core.Segment{segs[2], segs[0], segs[1]}
	g2, err := topology.Build(shuffled)
	require.NoError(t, err)

	assert.Equal(t, g1.NodeIDs(), g2.NodeIDs())
	assert.Equal(t, g1.EdgeIDs(), g2.EdgeIDs())
	for _, id := range g1.EdgeIDs() {
		e1 := g1.Edge(id)
		e2 := g2.Edge(id)
		assert.Equal(t, e1.From, e2.From)
		assert.Equal(t, e1.To, e2.To)
	}
}

func TestBuild_Validation(t *testing.T) {
	if _, err := topology.Build(nil); err != topology.ErrNoSegments {
		t.Fatalf("expected ErrNoSegments, got %v", err)
	}
	if _, err := topology.Build([]core.Segment{seg("a", 0, pt(0, 0, 0), pt(1, 0, 0))}, topology.WithTolerance(-1)); err != topology.ErrBadTolerance {
		t.Fatalf("expected ErrBadTolerance, got %v", err)
	}
}
