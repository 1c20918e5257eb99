package geojson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/trailforge/routegraph/core"
	"github.com/trailforge/routegraph/geo"
)

// Sentinel errors for document-level problems. Per-feature problems
// become GeometryErrors and never fail the load.
var (
	// ErrNotFeatureCollection indicates a document whose type is not
	// "FeatureCollection".
	ErrNotFeatureCollection = errors.New("geojson: not a FeatureCollection")
)

// featureCollection / feature / geometry mirror just enough of the
// GeoJSON structure, keeping the third coordinate.
type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Geometry   geometry       `json:"geometry"`
}

type geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// LoadTrails decodes a FeatureCollection into Trails. Features with
// unsupported geometry, non-3D positions, or degenerate polylines are
// reported in the second return and skipped; only a malformed document
// fails the call.
//
// The trail id is taken from an "id" property, falling back to the
// feature index; the name from a "name" property.
func LoadTrails(rd io.Reader) ([]*core.Trail, []*core.GeometryError, error) {
	var fc featureCollection
	if err := json.NewDecoder(rd).Decode(&fc); err != nil {
		return nil, nil, fmt.Errorf("geojson: decoding: %w", err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, nil, ErrNotFeatureCollection
	}

	var (
		trails   []*core.Trail
		excluded []*core.GeometryError
	)
	for i, f := range fc.Features {
		id := propString(f.Properties, "id", fmt.Sprintf("feature-%d", i))
		name := propString(f.Properties, "name", id)

		pts, err := decodeLine(f.Geometry)
		if err != nil {
			excluded = append(excluded, &core.GeometryError{TrailID: id, Reason: err.Error()})
			continue
		}
		t, err := core.NewTrail(id, name, pts)
		if err != nil {
			var ge *core.GeometryError
			if errors.As(err, &ge) {
				excluded = append(excluded, ge)
				continue
			}
			return nil, nil, err
		}
		trails = append(trails, t)
	}
	return trails, excluded, nil
}

// decodeLine flattens a LineString or MultiLineString into one 3D
// point sequence. MultiLineString parts are concatenated in order; the
// splitter's tolerance handling absorbs the seams.
func decodeLine(g geometry) ([]geo.Point, error) {
	switch g.Type {
	case "LineString":
		var coords [][]float64
		if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
			return nil, fmt.Errorf("bad LineString coordinates: %v", err)
		}
		return toPoints(coords)
	case "MultiLineString":
		var parts [][][]float64
		if err := json.Unmarshal(g.Coordinates, &parts); err != nil {
			return nil, fmt.Errorf("bad MultiLineString coordinates: %v", err)
		}
		var pts []geo.Point
		for _, part := range parts {
			p, err := toPoints(part)
			if err != nil {
				return nil, err
			}
			pts = append(pts, p...)
		}
		return pts, nil
	default:
		return nil, fmt.Errorf("unsupported geometry type %q", g.Type)
	}
}

// toPoints validates 3D positions. 2D data is rejected, not padded.
func toPoints(coords [][]float64) ([]geo.Point, error) {
	pts := make([]geo.Point, len(coords))
	for i, c := range coords {
		if len(c) < 3 {
			return nil, fmt.Errorf("position %d has %d elements, need 3 (lon, lat, elev)", i, len(c))
		}
		pts[i] = geo.Point{Lon: c[0], Lat: c[1], Elev: c[2]}
	}
	return pts, nil
}

func propString(props map[string]any, key, fallback string) string {
	if v, ok := props[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// Export writes the recommendations as a FeatureCollection ordered by
// descending score. Geometry is rebuilt in 3D from the snapshot's edge
// point sequences (one LineString per edge).
func Export(w io.Writer, recs []core.RouteRecommendation, g *core.GraphSnapshot, now time.Time) error {
	ordered := make([]core.RouteRecommendation, len(recs))
	copy(ordered, recs)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Score > ordered[j].Score })

	fc := map[string]any{
		"type":     "FeatureCollection",
		"features": make([]map[string]any, 0, len(ordered)),
	}
	features := fc["features"].([]map[string]any)
	for _, rec := range ordered {
		features = append(features, map[string]any{
			"type": "Feature",
			"properties": map[string]any{
				"route_uuid":                 rec.UUID,
				"route_name":                 rec.Name,
				"route_score":                rec.Score,
				"route_shape":                rec.Shape.String(),
				"recommended_length_km":      rec.Distance / 1000,
				"recommended_elevation_gain": rec.Gain,
				"trail_count":                rec.TrailCount,
				"created_at":                 now.UTC().Format(time.RFC3339),
			},
			"geometry": map[string]any{
				"type":        "MultiLineString",
				"coordinates": routeCoordinates(rec, g),
			},
		})
	}
	fc["features"] = features

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(fc)
}

// routeCoordinates renders one recommendation's edges as 3D line parts.
func routeCoordinates(rec core.RouteRecommendation, g *core.GraphSnapshot) [][][]float64 {
	out := make([][][]float64, 0, len(rec.Edges))
	for _, eid := range rec.Edges {
		e := g.Edge(eid)
		if e == nil {
			continue
		}
		part := make([][]float64, len(e.Points))
		for i, p := range e.Points {
			part[i] = []float64{p.Lon, p.Lat, p.Elev}
		}
		out = append(out, part)
	}
	return out
}
