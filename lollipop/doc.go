// Package lollipop generates anchor→loop→anchor route candidates:
// the "stick plus loop" shape plain cycle search cannot produce,
// because a lollipop is not a simple cycle from its origin.
//
// Construction per candidate:
//
//  1. Pick an anchor: a node of degree ≥ 3 reachable from the start.
//  2. Pick a destination beyond the anchor such that the total
//     outbound distance (stick + half loop) falls inside the
//     configured fraction range of the target distance.
//  3. Take the shortest anchor→destination leg, then a structurally
//     distinct destination→anchor return leg (node-disjoint where
//     possible, and never overlapping the first leg by more than the
//     overlap threshold; a near-identical return would make the shape
//     an out-and-back, not a lollipop).
//  4. Concatenate stick, both loop legs, and the stick reversed.
//
// This is the engine's most combinatorially expensive component, so
// the anchor count, destinations per anchor, and paths explored per
// pair are all hard caps taken from configuration, never derived.
package lollipop
