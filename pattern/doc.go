// Package pattern filters and scores route candidates against
// configured target patterns and deduplicates accepted recommendations
// by edge-set overlap.
//
// Matching is a hard gate: a candidate survives only when its total
// distance lies inside the pattern's symmetric tolerance band AND its
// shape equals the pattern's shape. Survivors are scored by weighted
// closeness to both the distance and elevation-gain targets; the score
// is monotonic in both closenesses, so "closer on either axis, all
// else equal" always ranks higher.
//
// The Deduplicator is the only mutable shared state in the engine. It
// is a greedy filter: candidates are offered in descending score order
// and rejected when their edge overlap with any already-accepted
// recommendation exceeds the threshold.
package pattern
