// Package search implements the path and cycle engine over an
// immutable GraphSnapshot.
//
// Two operations are exposed:
//
//   - Cycles: lazy enumeration of simple cycles (no repeated edge, no
//     repeated node except the closing one), seeded from anchor nodes
//     of degree ≥ 3 and bounded by edge-count and distance ceilings.
//     Exhaustive all-node seeding is an explicit opt-in for small
//     graphs; unbounded cycle enumeration is combinatorially unsafe on
//     graphs with thousands of edges.
//   - KShortest: up to k loopless shortest paths between two nodes in
//     the spirit of Yen's algorithm (successive shortest paths with
//     link removal), ordered by ascending distance with ties broken by
//     lower cumulative elevation gain, then fewer edges.
//
// Both operations spend a shared search budget (max expanded states)
// and honor context cancellation at every expansion step. On
// exhaustion they return whatever was found together with
// core.ErrBudgetExceeded; partial results are never discarded.
//
// Complexity:
//
//   - Dijkstra core: O((V + E) log V) per invocation.
//   - KShortest: O(k · V · (V + E) log V) worst case, in practice far
//     below that under the distance cap.
//   - Cycles: output-sensitive; the edge/distance/budget bounds are
//     the only guarantee of termination on dense graphs.
package search
