// Package core defines the central data model of the routing engine:
// Trail inputs, IntersectionPoints, Segments, the immutable
// GraphSnapshot of Nodes and Edges, RoutePatterns, RouteCandidates and
// RouteRecommendations, together with the shared error taxonomy.
//
// Lifecycle:
//
//   - Trails are loaded once per run and never mutated.
//   - Nodes and Edges are built once (intersect → split → topology) and
//     frozen into a GraphSnapshot consumed read-only by every search.
//   - RouteCandidates are created and discarded per pattern pass; only
//     accepted RouteRecommendations survive to the output boundary.
//
// Error taxonomy (see each type's documentation):
//
//	GeometryError      – one trail is degenerate; recovered locally.
//	ErrEmptyGraph      – the built graph has no edges; fatal to the run.
//	ErrPatternMismatch – a pattern matched zero candidates; non-fatal.
//	ErrBudgetExceeded  – a bounded search hit its cap; partial results.
package core
