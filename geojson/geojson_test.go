// Package geojson_test covers 3D ingestion rules and export ordering.
package geojson_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailforge/routegraph/core"
	"github.com/trailforge/routegraph/geo"
	"github.com/trailforge/routegraph/geojson"
)

const sampleDoc = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"id": "ridge-1", "name": "Ridge Trail"},
      "geometry": {
        "type": "LineString",
        "coordinates": [[-105.28, 40.01, 1650.5], [-105.27, 40.02, 1710.0], [-105.26, 40.02, 1695.2]]
      }
    },
    {
      "type": "Feature",
      "properties": {"id": "creek-2"},
      "geometry": {
        "type": "MultiLineString",
        "coordinates": [
          [[-105.30, 40.00, 1600.0], [-105.29, 40.00, 1615.0]],
          [[-105.29, 40.00, 1615.0], [-105.28, 40.01, 1640.0]]
        ]
      }
    }
  ]
}`

func TestLoadTrails(t *testing.T) {
	trails, excluded, err := geojson.LoadTrails(strings.NewReader(sampleDoc))
	require.NoError(t, err)
	require.Empty(t, excluded)
	require.Len(t, trails, 2)

	ridge := trails[0]
	assert.Equal(t, "ridge-1", ridge.ID)
	assert.Equal(t, "Ridge Trail", ridge.Name)
	require.Len(t, ridge.Points, 3)
	assert.InDelta(t, 1650.5, ridge.Points[0].Elev, 1e-9)
	assert.Greater(t, ridge.Length, 0.0)

	// Name falls back to the id; MultiLineString parts concatenate.
	creek := trails[1]
	assert.Equal(t, "creek-2", creek.Name)
	assert.Len(t, creek.Points, 4)
}

func TestLoadTrails_Rejects2D(t *testing.T) {
	doc := `{
  "type": "FeatureCollection",
  "features": [{
    "type": "Feature",
    "properties": {"id": "flat"},
    "geometry": {"type": "LineString", "coordinates": [[-105.28, 40.01], [-105.27, 40.02]]}
  }]
}`
	trails, excluded, err := geojson.LoadTrails(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Empty(t, trails)
	require.Len(t, excluded, 1)
	assert.Equal(t, "flat", excluded[0].TrailID)
	assert.Contains(t, excluded[0].Reason, "need 3")
}

func TestLoadTrails_SkipsUnsupportedGeometry(t *testing.T) {
	doc := `{
  "type": "FeatureCollection",
  "features": [{
    "type": "Feature",
    "properties": {"id": "pt"},
    "geometry": {"type": "Point", "coordinates": [-105.28, 40.01, 1650.0]}
  }]
}`
	trails, excluded, err := geojson.LoadTrails(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Empty(t, trails)
	require.Len(t, excluded, 1)
	assert.Contains(t, excluded[0].Reason, "unsupported geometry")
}

func TestLoadTrails_NotFeatureCollection(t *testing.T) {
	_, _, err := geojson.LoadTrails(strings.NewReader(`{"type": "Feature"}`))
	if err != geojson.ErrNotFeatureCollection {
		t.Fatalf("expected ErrNotFeatureCollection, got %v", err)
	}
}

func TestLoadTrails_DegenerateFeatureExcluded(t *testing.T) {
	doc := `{
  "type": "FeatureCollection",
  "features": [{
    "type": "Feature",
    "properties": {"id": "dot"},
    "geometry": {"type": "LineString", "coordinates": [[-105.28, 40.01, 1650.0]]}
  }]
}`
	trails, excluded, err := geojson.LoadTrails(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Empty(t, trails)
	require.Len(t, excluded, 1)
	assert.Equal(t, "dot", excluded[0].TrailID)
}

func exportFixture(t *testing.T) ([]core.RouteRecommendation, *core.GraphSnapshot) {
	t.Helper()
	nodes := []*core.Node{{ID: 1}, {ID: 2}}
	edges := []*core.Edge{{
		ID:       1,
		From:     1,
		To:       2,
		TrailIDs: []string{"ridge-1"},
		Points: []geo.Point{
			{Lon: -105.28, Lat: 40.01, Elev: 1650.5},
			{Lon: -105.27, Lat: 40.02, Elev: 1710.0},
		},
		Length: 1400,
	}}
	g, err := core.NewGraphSnapshot(nodes, edges)
	require.NoError(t, err)

	recs := []core.RouteRecommendation{
		{
			RouteCandidate: core.RouteCandidate{Edges: []int64{1}, Distance: 2800, Gain: 120, Shape: core.OutAndBack},
			UUID:           "uuid-low",
			Name:           "there and back #2",
			Score:          0.4,
			TrailCount:     1,
		},
		{
			RouteCandidate: core.RouteCandidate{Edges: []int64{1}, Distance: 2800, Gain: 119, Shape: core.OutAndBack},
			UUID:           "uuid-high",
			Name:           "there and back #1",
			Score:          0.9,
			TrailCount:     1,
		},
	}
	return recs, g
}

func TestExport_OrderedByScore(t *testing.T) {
	recs, g := exportFixture(t)
	var buf bytes.Buffer
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	require.NoError(t, geojson.Export(&buf, recs, g, now))

	var doc struct {
		Type     string `json:"type"`
		Features []struct {
			Properties map[string]any `json:"properties"`
			Geometry   struct {
				Type        string        `json:"type"`
				Coordinates [][][]float64 `json:"coordinates"`
			} `json:"geometry"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "FeatureCollection", doc.Type)
	require.Len(t, doc.Features, 2)

	// Highest score first, regardless of input order.
	first := doc.Features[0].Properties
	assert.Equal(t, "uuid-high", first["route_uuid"])
	assert.InDelta(t, 2.8, first["recommended_length_km"].(float64), 1e-9)
	assert.Equal(t, "out-and-back", first["route_shape"])
	assert.Equal(t, "2026-08-30T12:00:00Z", first["created_at"])

	geom := doc.Features[0].Geometry
	assert.Equal(t, "MultiLineString", geom.Type)
	require.Len(t, geom.Coordinates, 1)
	require.Len(t, geom.Coordinates[0], 2)
	assert.InDelta(t, 1650.5, geom.Coordinates[0][0][2], 1e-9)
}

func TestLoadExportRoundTripElevation(t *testing.T) {
	trails, _, err := geojson.LoadTrails(strings.NewReader(sampleDoc))
	require.NoError(t, err)
	require.NotEmpty(t, trails)
	// Elevation survives ingestion end to end; this is why 2D input is
	// rejected rather than padded.
	for _, p := range trails[0].Points {
		assert.Greater(t, p.Elev, 1000.0)
	}
}
