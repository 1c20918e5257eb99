// Dijkstra core shared by KShortest and the tree queries. Costs are
// (distance, gain, hops) compared lexicographically, which is exactly
// the tie-break order the engine promises.
package search

import (
	"container/heap"

	"github.com/trailforge/routegraph/core"
)

// Path is one resolved walk through the snapshot.
type Path struct {
	Nodes []int64 // len(Edges)+1, walk order
	Edges []int64
	Dist  float64
	Gain  float64
}

// cost orders paths by distance, then gain, then hop count.
type cost struct {
	dist float64
	gain float64
	hops int
}

func (c cost) less(o cost) bool {
	if c.dist != o.dist {
		return c.dist < o.dist
	}
	if c.gain != o.gain {
		return c.gain < o.gain
	}
	return c.hops < o.hops
}

// heapItem is a lazy-decrease-key priority queue entry.
type heapItem struct {
	node int64
	c    cost
}

type costHeap []heapItem

func (h costHeap) Len() int            { return len(h) }
func (h costHeap) Less(i, j int) bool  { return h[i].c.less(h[j].c) }
func (h costHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *costHeap) Push(x interface{}) { *h = append(*h, x.(heapItem)) }
func (h *costHeap) Pop() interface{} {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

// banned marks nodes and edges removed for one Dijkstra invocation
// (Yen's link removal). Nil maps mean nothing is banned.
type banned struct {
	nodes map[int64]bool
	edges map[int64]bool
}

// shortest runs Dijkstra from source, honoring bans, the distance cap,
// and the shared budget. It stops early once target is settled; pass
// target < 0 to settle the whole reachable component (tree mode).
//
// Returns settled costs and parent links. The caller reconstructs
// paths via buildPath.
func shortest(g *core.GraphSnapshot, source, target int64, ban banned, maxDist float64, bd *budget) (dist map[int64]cost, prevNode map[int64]int64, prevEdge map[int64]int64) {
	dist = make(map[int64]cost)
	prevNode = make(map[int64]int64)
	prevEdge = make(map[int64]int64)
	settled := make(map[int64]bool)

	h := &costHeap{{node: source}}
	dist[source] = cost{}

	for h.Len() > 0 {
		if !bd.spend() {
			return dist, prevNode, prevEdge
		}
		it := heap.Pop(h).(heapItem)
		if settled[it.node] {
			continue // stale lazy entry
		}
		settled[it.node] = true
		if it.node == target {
			return dist, prevNode, prevEdge
		}

		for _, eid := range g.Incident(it.node) {
			if ban.edges[eid] {
				continue
			}
			e := g.Edge(eid)
			next := e.Other(it.node)
			if next == it.node || settled[next] || ban.nodes[next] {
				continue
			}
			nc := cost{
				dist: it.c.dist + e.Length,
				gain: it.c.gain + e.DirectionalGain(it.node),
				hops: it.c.hops + 1,
			}
			if nc.dist > maxDist {
				continue
			}
			if old, ok := dist[next]; ok && !nc.less(old) {
				continue
			}
			dist[next] = nc
			prevNode[next] = it.node
			prevEdge[next] = eid
			heap.Push(h, heapItem{node: next, c: nc})
		}
	}
	return dist, prevNode, prevEdge
}

// buildPath reconstructs the source→target walk from parent links.
func buildPath(g *core.GraphSnapshot, source, target int64, dist map[int64]cost, prevNode, prevEdge map[int64]int64) (Path, bool) {
	c, ok := dist[target]
	if !ok {
		return Path{}, false
	}
	var nodes []int64
	var edges []int64
	for at := target; at != source; {
		p, ok := prevNode[at]
		if !ok {
			return Path{}, false
		}
		nodes = append(nodes, at)
		edges = append(edges, prevEdge[at])
		at = p
	}
	nodes = append(nodes, source)
	reverse(nodes)
	reverse(edges)
	return Path{Nodes: nodes, Edges: edges, Dist: c.dist, Gain: c.gain}, true
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// Candidate converts a path into a RouteCandidate of the given shape.
func (p Path) Candidate(shape core.Shape) core.RouteCandidate {
	return core.RouteCandidate{
		Edges:    p.Edges,
		Nodes:    p.Nodes,
		Distance: p.Dist,
		Gain:     p.Gain,
		Shape:    shape,
	}
}
