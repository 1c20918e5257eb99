// Package routegraph turns raw trail polylines into a routable graph
// and searches it for closed routes matching shape and distance
// patterns.
//
// The build pipeline runs in three stages:
//
//	intersect/ — pairwise trail intersection and endpoint-touch detection
//	split/     — cutting trails into segments at intersection fractions
//	topology/  — snapping segment endpoints into an immutable graph snapshot
//
// On top of the snapshot, the search layer produces route candidates:
//
//	search/   — bounded cycle enumeration, k-shortest paths, shortest-path trees
//	lollipop/ — stick-plus-loop route assembly
//	pattern/  — match gating, scoring, and overlap deduplication
//
// The pipeline/ package orchestrates a full run; geojson/ and store/
// handle ingestion and persistence; cmd/routegraph is the CLI.
//
// All distances are meters, all elevations meters above sea level, and
// every coordinate is (longitude, latitude, elevation). Determinism is
// a contract: the same input always yields the same node ids, edge ids,
// and candidate ordering.
package routegraph
