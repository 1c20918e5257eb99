// Package topology assembles split segments into the routing graph:
// segment endpoints snap into a canonical node set under the snap
// tolerance, each segment becomes exactly one edge, and node degree is
// recomputed from the finished edge set.
//
// Node identity is the single identity-defining invariant of the
// graph: two endpoints within tolerance of each other resolve to the
// same node. The merge is order-dependent by construction, so segments
// are processed in a fixed order (trail id ascending, then segment
// index, then start before end) to keep results reproducible across
// runs.
//
// The builder never deletes nodes and never collapses degree-2
// pass-through nodes; consumers take the graph as-is.
package topology
