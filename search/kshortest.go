package search

import (
	"container/heap"
	"strconv"
	"strings"

	"github.com/trailforge/routegraph/core"
)

// KShortest returns up to k distinct loopless paths from source to
// target, ordered by ascending distance (ties: lower gain, then fewer
// edges), in the spirit of Yen's algorithm: each next path is the best
// spur off an already-accepted path with the conflicting link removed.
//
// On budget exhaustion the paths found so far are returned together
// with core.ErrBudgetExceeded. ErrNoPath is returned only when not a
// single path exists within bounds.
func KShortest(g *core.GraphSnapshot, source, target int64, k int, opts ...Option) ([]core.RouteCandidate, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	if k <= 0 {
		return nil, ErrBadK
	}
	if source == target {
		return nil, ErrSameNode
	}
	if g.Node(source) == nil || g.Node(target) == nil {
		return nil, core.ErrNodeNotFound
	}
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.MaxEdges <= 0 || cfg.MaxDistance <= 0 || cfg.Budget <= 0 {
		return nil, ErrBadBound
	}

	bd := newBudget(cfg)

	// 1) The unconstrained shortest path seeds the accepted list A.
	first, ok := runShortest(g, source, target, banned{}, cfg, bd)
	if !ok {
		if err := bd.err(); err != nil {
			return nil, err
		}
		return nil, ErrNoPath
	}

	accepted := []Path{first}
	seen := map[string]bool{signature(first.Edges): true}
	candidates := &pathHeap{}

	// 2) Yen's main loop: spur off every prefix of the last accepted
	//    path with conflicting links removed.
	for len(accepted) < k && !bd.exhausted {
		prev := accepted[len(accepted)-1]
		for spur := 0; spur < len(prev.Nodes)-1; spur++ {
			if bd.exhausted {
				break
			}
			spurNode := prev.Nodes[spur]
			rootNodes := prev.Nodes[:spur+1]
			rootEdges := prev.Edges[:spur]

			ban := banned{nodes: make(map[int64]bool), edges: make(map[int64]bool)}
			// Remove the next link of every accepted path sharing this root.
			for _, p := range accepted {
				if sharesRoot(p, rootNodes, rootEdges) && spur < len(p.Edges) {
					ban.edges[p.Edges[spur]] = true
				}
			}
			// Loopless: root nodes (except the spur node) are off limits.
			for _, n := range rootNodes[:len(rootNodes)-1] {
				ban.nodes[n] = true
			}

			rootDist, rootGain := walkStats(g, rootNodes, rootEdges)
			spurCfg := cfg
			spurCfg.MaxDistance = cfg.MaxDistance - rootDist
			spurCfg.MaxEdges = cfg.MaxEdges - len(rootEdges)
			if spurCfg.MaxDistance <= 0 || spurCfg.MaxEdges <= 0 {
				continue
			}
			sp, ok := runShortest(g, spurNode, target, ban, spurCfg, bd)
			if !ok {
				continue
			}

			total := Path{
				Nodes: concat(rootNodes, sp.Nodes[1:]),
				Edges: concat(rootEdges, sp.Edges),
				Dist:  rootDist + sp.Dist,
				Gain:  rootGain + sp.Gain,
			}
			sig := signature(total.Edges)
			if seen[sig] {
				continue
			}
			seen[sig] = true
			heap.Push(candidates, total)
		}

		if candidates.Len() == 0 {
			break
		}
		accepted = append(accepted, heap.Pop(candidates).(Path))
	}

	out := make([]core.RouteCandidate, len(accepted))
	for i, p := range accepted {
		out[i] = p.Candidate(core.PointToPoint)
	}
	return out, bd.err()
}

// runShortest performs one bounded Dijkstra and reconstructs the path.
func runShortest(g *core.GraphSnapshot, source, target int64, ban banned, cfg Options, bd *budget) (Path, bool) {
	dist, pn, pe := shortest(g, source, target, ban, cfg.MaxDistance, bd)
	p, ok := buildPath(g, source, target, dist, pn, pe)
	if !ok || len(p.Edges) > cfg.MaxEdges {
		return Path{}, false
	}
	return p, true
}

// sharesRoot reports whether p starts with exactly the given node and
// edge prefix.
func sharesRoot(p Path, rootNodes, rootEdges []int64) bool {
	if len(p.Nodes) < len(rootNodes) || len(p.Edges) < len(rootEdges) {
		return false
	}
	for i, n := range rootNodes {
		if p.Nodes[i] != n {
			return false
		}
	}
	for i, e := range rootEdges {
		if p.Edges[i] != e {
			return false
		}
	}
	return true
}

// walkStats sums distance and directional gain along a node/edge walk.
func walkStats(g *core.GraphSnapshot, nodes, edges []int64) (dist, gain float64) {
	for i, eid := range edges {
		e := g.Edge(eid)
		dist += e.Length
		gain += e.DirectionalGain(nodes[i])
	}
	return dist, gain
}

// signature canonically identifies a path by its ordered edge ids.
func signature(edges []int64) string {
	var sb strings.Builder
	for i, id := range edges {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatInt(id, 10))
	}
	return sb.String()
}

func concat(a, b []int64) []int64 {
	out := make([]int64, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

// pathHeap orders spur candidates by cost.
type pathHeap []Path

func (h pathHeap) Len() int { return len(h) }
func (h pathHeap) Less(i, j int) bool {
	a := cost{dist: h[i].Dist, gain: h[i].Gain, hops: len(h[i].Edges)}
	b := cost{dist: h[j].Dist, gain: h[j].Gain, hops: len(h[j].Edges)}
	return a.less(b)
}
func (h pathHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *pathHeap) Push(x interface{}) { *h = append(*h, x.(Path)) }
func (h *pathHeap) Pop() interface{} {
	old := *h
	n := len(old)
	p := old[n-1]
	*h = old[:n-1]
	return p
}
