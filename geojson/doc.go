// Package geojson is the boundary collaborator for trail ingestion and
// recommendation export.
//
// Trails arrive as a GeoJSON FeatureCollection of LineString or
// MultiLineString features whose positions must carry three elements
// (lon, lat, elevation); 2D features are excluded as GeometryErrors
// rather than silently flattened, because the whole engine depends on
// elevation profiles.
//
// Export produces a FeatureCollection of recommendation features
// ordered by descending score, with the property set of the
// route_recommendations schema (route_uuid, route_name, route_score,
// route_shape, recommended_length_km, recommended_elevation_gain,
// trail_count, created_at).
//
// The coordinate structs are hand-rolled on encoding/json because
// orb/geojson drops the elevation component on decode. orb remains the
// 2D geometry type everywhere else.
package geojson
