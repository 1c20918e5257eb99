package search

import (
	"github.com/trailforge/routegraph/core"
)

// Tree is a shortest-path tree rooted at one node: distances and
// parent links for every node settled within the configured bounds.
type Tree struct {
	Source int64

	g        *core.GraphSnapshot
	dist     map[int64]cost
	prevNode map[int64]int64
	prevEdge map[int64]int64
}

// NewTree computes the shortest-path tree from source, bounded by
// MaxDistance and the search budget. On budget exhaustion the partial
// tree is returned together with core.ErrBudgetExceeded.
func NewTree(g *core.GraphSnapshot, source int64, opts ...Option) (*Tree, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.MaxDistance <= 0 || cfg.Budget <= 0 {
		return nil, ErrBadBound
	}
	if g.Node(source) == nil {
		return nil, core.ErrNodeNotFound
	}

	bd := newBudget(cfg)
	dist, pn, pe := shortest(g, source, -1, banned{}, cfg.MaxDistance, bd)
	t := &Tree{Source: source, g: g, dist: dist, prevNode: pn, prevEdge: pe}
	return t, bd.err()
}

// Dist returns the shortest distance to node, and whether the node was
// reached at all.
func (t *Tree) Dist(node int64) (float64, bool) {
	c, ok := t.dist[node]
	return c.dist, ok
}

// PathTo reconstructs the source→node path, or ok=false when node was
// not reached.
func (t *Tree) PathTo(node int64) (Path, bool) {
	return buildPath(t.g, t.Source, node, t.dist, t.prevNode, t.prevEdge)
}

// Reached returns the ids of all nodes the tree settled, in no
// particular order.
func (t *Tree) Reached() []int64 {
	out := make([]int64, 0, len(t.dist))
	for id := range t.dist {
		out = append(out, id)
	}
	return out
}
