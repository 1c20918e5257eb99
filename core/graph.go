package core

import (
	"sort"

	"github.com/trailforge/routegraph/geo"
)

// Node is a point in the final graph, unique within snap tolerance.
// Degree and Edges are recomputed from the live edge set when the
// snapshot is constructed, never carried over from earlier passes.
type Node struct {
	ID     int64
	Point  geo.Point
	Degree int
	Edges  []int64 // incident edge ids, ascending
}

// Edge connects two Nodes. An edge may be traversed in either
// direction; traversal direction does not create a new identity. Gain
// and Loss are stated for the From→To direction and swap on reversal.
type Edge struct {
	ID       int64
	From     int64
	To       int64
	TrailIDs []string
	Points   []geo.Point

	Length float64
	Gain   float64
	Loss   float64
}

// Other returns the endpoint opposite node, or -1 when node is not an
// endpoint of e. For a self-loop it returns the same node.
func (e *Edge) Other(node int64) int64 {
	switch node {
	case e.From:
		return e.To
	case e.To:
		return e.From
	default:
		return -1
	}
}

// DirectionalGain returns the elevation gain of traversing e starting
// from the given endpoint: Gain when leaving From, Loss when leaving To.
func (e *Edge) DirectionalGain(from int64) float64 {
	if from == e.To && from != e.From {
		return e.Loss
	}
	return e.Gain
}

// GraphSnapshot is the immutable routing graph: the node and edge sets
// plus adjacency, built once per run and consumed read-only by every
// search. There is no mutation API.
type GraphSnapshot struct {
	nodes map[int64]*Node
	edges map[int64]*Edge

	nodeIDs []int64 // ascending, for deterministic iteration
	edgeIDs []int64
}

// NewGraphSnapshot freezes the given node and edge sets. It validates
// that every edge's endpoints are present (ErrEdgeMismatch), rejects an
// empty edge set (ErrEmptyGraph), and recomputes each node's Degree and
// incident edge list from scratch.
func NewGraphSnapshot(nodes []*Node, edges []*Edge) (*GraphSnapshot, error) {
	if len(edges) == 0 {
		return nil, ErrEmptyGraph
	}

	g := &GraphSnapshot{
		nodes: make(map[int64]*Node, len(nodes)),
		edges: make(map[int64]*Edge, len(edges)),
	}
	for _, n := range nodes {
		n.Degree = 0
		n.Edges = n.Edges[:0]
		g.nodes[n.ID] = n
		g.nodeIDs = append(g.nodeIDs, n.ID)
	}
	for _, e := range edges {
		if _, ok := g.nodes[e.From]; !ok {
			return nil, ErrEdgeMismatch
		}
		if _, ok := g.nodes[e.To]; !ok {
			return nil, ErrEdgeMismatch
		}
		g.edges[e.ID] = e
		g.edgeIDs = append(g.edgeIDs, e.ID)
	}

	// Degree is the live count of incident edges; a self-loop counts
	// twice, per the usual convention.
	for _, id := range g.edgeIDs {
		e := g.edges[id]
		from, to := g.nodes[e.From], g.nodes[e.To]
		from.Edges = append(from.Edges, e.ID)
		from.Degree++
		to.Edges = append(to.Edges, e.ID)
		to.Degree++
	}
	sort.Slice(g.nodeIDs, func(i, j int) bool { return g.nodeIDs[i] < g.nodeIDs[j] })
	sort.Slice(g.edgeIDs, func(i, j int) bool { return g.edgeIDs[i] < g.edgeIDs[j] })
	for _, n := range g.nodes {
		sort.Slice(n.Edges, func(i, j int) bool { return n.Edges[i] < n.Edges[j] })
	}
	return g, nil
}

// Node returns the node with the given id, or nil.
func (g *GraphSnapshot) Node(id int64) *Node { return g.nodes[id] }

// Edge returns the edge with the given id, or nil.
func (g *GraphSnapshot) Edge(id int64) *Edge { return g.edges[id] }

// NodeIDs returns all node ids in ascending order. The returned slice
// is shared; callers must not modify it.
func (g *GraphSnapshot) NodeIDs() []int64 { return g.nodeIDs }

// EdgeIDs returns all edge ids in ascending order. The returned slice
// is shared; callers must not modify it.
func (g *GraphSnapshot) EdgeIDs() []int64 { return g.edgeIDs }

// NumNodes returns the node count.
func (g *GraphSnapshot) NumNodes() int { return len(g.nodes) }

// NumEdges returns the edge count.
func (g *GraphSnapshot) NumEdges() int { return len(g.edges) }

// Incident returns the ids of edges incident to the given node, in
// ascending order. Nil for an unknown node.
func (g *GraphSnapshot) Incident(node int64) []int64 {
	n := g.nodes[node]
	if n == nil {
		return nil
	}
	return n.Edges
}
