// Package split cuts each trail at its intersection points into
// ordered segments, interpolating an exact point (coordinate plus
// elevation) at every cut.
//
// Two guarantees drive the implementation:
//
//   - Round-trip law: the summed length of a trail's segments equals
//     the trail's own length to within floating-point tolerance: the
//     cuts introduce no gaps and no overlap.
//   - Minimum length floor: a cut that would leave a segment shorter
//     than the floor is merged into its neighbor instead, so the graph
//     never carries near-zero-length edges.
//
// Elevation gain/loss of each segment is recomputed from its own
// trimmed profile; apportioning the parent's totals would misstate the
// accumulation, which sums only interior elevation increases.
package split
