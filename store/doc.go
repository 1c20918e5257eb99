// Package store persists accepted route recommendations to SQLite
// using the cgo-free modernc.org/sqlite driver.
//
// The schema is a single route_recommendations table consumed by
// downstream exporters: one row per route with its score, shape,
// length, elevation gain, trail count, and the route geometry as a
// GeoJSON MultiLineString string in route_path.
package store
