// Package intersect implements the geometry intersection detector: it
// finds every pairwise crossing or near-crossing between trail
// polylines and classifies each as crossing, T-intersection,
// Y-intersection, multipoint, or endpoint-touch.
//
// Complexity:
//
//   - Candidate pairing: padded bounding extents sorted by minimum
//     longitude and swept, so only trails whose extents actually
//     overlap are compared, near O(n log n) for spatially spread
//     trail sets instead of the full O(n²) pairwise sweep.
//   - Per pair: O(s_i · s_j) exact segment-segment tests in a local
//     planar frame, where s is the segment count of each polyline.
//   - Endpoint touches: quadtree proximity queries around each trail
//     endpoint.
//
// Near-miss policy: two trail endpoints within snap tolerance that do
// not truly cross are reported as an endpoint-touch so the topology
// builder merges them into one node. This bridging is deliberate: it
// guarantees network traversability across GPS noise and digitization
// gaps, at the price of occasionally joining trails that genuinely end
// a few meters apart. The tolerance is the single knob.
//
// Degenerate trails (fewer than two points, zero length) are excluded
// and reported as GeometryErrors; they never abort the run.
package intersect
