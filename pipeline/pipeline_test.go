// Package pipeline_test runs end-to-end passes over tiny trail
// networks.
package pipeline_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailforge/routegraph/core"
	"github.com/trailforge/routegraph/geo"
	"github.com/trailforge/routegraph/pipeline"
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

// triangle returns three trails whose endpoints meet pairwise, forming
// a single ~3 km loop.
func triangle(t *testing.T) []*core.Trail {
	a := pt(0, 0, 0)
	b := pt(1000, 0, 0)
	c := pt(500, 866.025, 0)
	return []*core.Trail{
		mustTrail(t, "side-a", a, b),
		mustTrail(t, "side-b", b, c),
		mustTrail(t, "side-c", c, a),
	}
}

func loopPattern(name string, targetM, tolPct float64) core.RoutePattern {
	return core.RoutePattern{
		Name:           name,
		Shape:          core.Loop,
		TargetDistance: targetM,
		TolerancePct:   tolPct,
	}
}

func TestRun_TriangleLoop(t *testing.T) {
	cfg := pipeline.DefaultConfig()
	cfg.Patterns = []core.RoutePattern{loopPattern("short loop", 3000, 20)}

	res, err := pipeline.Run(context.Background(), triangle(t), cfg)
	require.NoError(t, err)

	require.NotNil(t, res.Graph)
	assert.Equal(t, 3, res.Graph.NumNodes())
	assert.Equal(t, 3, res.Graph.NumEdges())

	require.Len(t, res.Recommendations, 1)
	rec := res.Recommendations[0]
	assert.Equal(t, core.Loop, rec.Shape)
	assert.InDelta(t, 3000, rec.Distance, 30)
	assert.Equal(t, "short loop #1", rec.Name)
	assert.Equal(t, "short loop", rec.Pattern)
	assert.NotEmpty(t, rec.UUID)
	assert.Equal(t, 3, rec.TrailCount)
	assert.Len(t, rec.Geometry, 3)
	assert.Greater(t, rec.Score, 0.95)

	assert.Empty(t, res.Report.EmptyPatterns)
	assert.Empty(t, res.Report.BudgetExceeded)
	assert.Empty(t, res.Report.ExcludedTrails)
}

func TestRun_ImpossiblePatternReportsEmpty(t *testing.T) {
	cfg := pipeline.DefaultConfig()
	cfg.Patterns = []core.RoutePattern{loopPattern("marathon loop", 42000, 10)}

	res, err := pipeline.Run(context.Background(), triangle(t), cfg)
	require.NoError(t, err)
	assert.Empty(t, res.Recommendations)
	assert.Equal(t, []string{"marathon loop"}, res.Report.EmptyPatterns)
}

func TestRun_DegenerateTrailExcluded(t *testing.T) {
	trails := triangle(t)
	// Hand-built zero-length trail that NewTrail would have rejected.
	trails = append(trails, &core.Trail{
		ID:     "stub",
		Name:   "stub",
		Points: []geo.Point{pt(5000, 5000, 0), pt(5000, 5000, 0)},
	})

	cfg := pipeline.DefaultConfig()
	cfg.Patterns = []core.RoutePattern{loopPattern("short loop", 3000, 20)}

	res, err := pipeline.Run(context.Background(), trails, cfg)
	require.NoError(t, err)
	require.Len(t, res.Report.ExcludedTrails, 1)
	assert.Equal(t, "stub", res.Report.ExcludedTrails[0].TrailID)
	assert.Len(t, res.Recommendations, 1)
}

func TestRun_OutAndBack(t *testing.T) {
	trails := []*core.Trail{
		mustTrail(t, "ridge", pt(0, 0, 100), pt(500, 0, 180)),
	}
	cfg := pipeline.DefaultConfig()
	cfg.Patterns = []core.RoutePattern{{
		Name:           "there and back",
		Shape:          core.OutAndBack,
		TargetDistance: 1000,
		TolerancePct:   20,
	}}

	res, err := pipeline.Run(context.Background(), trails, cfg)
	require.NoError(t, err)

	// Both dead ends produce the same doubled path; dedup keeps one.
	require.Len(t, res.Recommendations, 1)
	rec := res.Recommendations[0]
	assert.Equal(t, core.OutAndBack, rec.Shape)
	// Twice the 3D length of the climb, inside the [800, 1200] band.
	assert.InDelta(t, 2*math.Hypot(500, 80), rec.Distance, 1)
	// Climbing out gains 80; the descent back gains nothing.
	assert.InDelta(t, 80, rec.Gain, 1)
	assert.Len(t, rec.Edges, 2)
	assert.Equal(t, rec.Edges[0], rec.Edges[1])
}

func TestRun_CrossNetworkPointToPoint(t *testing.T) {
	// Two trails crossing at their midpoints: four dead ends, paths
	// between them run through the junction.
	trails := []*core.Trail{
		mustTrail(t, "ew", pt(-1000, 0, 0), pt(1000, 0, 0)),
		mustTrail(t, "ns", pt(0, -1000, 0), pt(0, 1000, 0)),
	}
	cfg := pipeline.DefaultConfig()
	cfg.Patterns = []core.RoutePattern{{
		Name:           "traverse",
		Shape:          core.PointToPoint,
		TargetDistance: 2000,
		TolerancePct:   10,
	}}

	res, err := pipeline.Run(context.Background(), trails, cfg)
	require.NoError(t, err)

	assert.Equal(t, 5, res.Graph.NumNodes())
	assert.Equal(t, 4, res.Graph.NumEdges())
	require.NotEmpty(t, res.Recommendations)
	for _, rec := range res.Recommendations {
		assert.Equal(t, core.PointToPoint, rec.Shape)
		assert.InDelta(t, 2000, rec.Distance, 200)
	}
}

func TestRun_Validation(t *testing.T) {
	cfg := pipeline.DefaultConfig()
	cfg.Patterns = []core.RoutePattern{loopPattern("any", 3000, 20)}
	if _, err := pipeline.Run(context.Background(), nil, cfg); err != pipeline.ErrNoTrails {
		t.Fatalf("expected ErrNoTrails, got %v", err)
	}

	cfg.Patterns = nil
	if _, err := pipeline.Run(context.Background(), triangle(t), cfg); err != pipeline.ErrNoPatterns {
		t.Fatalf("expected ErrNoPatterns, got %v", err)
	}

	cfg.Patterns = []core.RoutePattern{loopPattern("bad", -5, 10)}
	_, err := pipeline.Run(context.Background(), triangle(t), cfg)
	require.Error(t, err)
}
