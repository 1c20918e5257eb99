// Package pipeline orchestrates a full run: build the routing graph
// once (intersect → split → topology), freeze it, then search it per
// configured pattern, match, score, and deduplicate into the final
// recommendation set.
//
// Error policy follows the engine taxonomy: degenerate trails and
// empty or budget-capped patterns are recorded in the RunReport and
// never abort the run; only a graph with no edges at all is fatal.
//
// Patterns are processed strictly sequentially. The deduplicator is
// shared across all patterns and internally mutex-guarded, so running
// patterns in parallel would be a safe optimization, not a
// correctness change.
package pipeline
