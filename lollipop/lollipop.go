package lollipop

import (
	"errors"
	"math"
	"sort"
	"strconv"

	"github.com/trailforge/routegraph/core"
	"github.com/trailforge/routegraph/pattern"
	"github.com/trailforge/routegraph/search"
)

// Generate builds lollipop candidates from the given start node toward
// the target total distance (meters). Candidates repeat the stick
// edges (once outbound, once on the return), which is inherent to the
// shape; the loop portion itself never repeats an edge.
//
// On budget exhaustion the candidates assembled so far are returned
// together with core.ErrBudgetExceeded.
func Generate(g *core.GraphSnapshot, start int64, target float64, opts ...Option) ([]core.RouteCandidate, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	if target <= 0 {
		return nil, ErrBadTarget
	}
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.OutboundMinFrac <= 0 || cfg.OutboundMinFrac >= cfg.OutboundMaxFrac || cfg.OutboundMaxFrac > 1 {
		return nil, ErrBadRange
	}
	if cfg.MaxAnchors <= 0 || cfg.MaxDestinations <= 0 || cfg.MaxPathsPerAnchor <= 0 {
		return nil, ErrBadCaps
	}
	if g.Node(start) == nil {
		return nil, core.ErrNodeNotFound
	}

	maxOut := cfg.OutboundMaxFrac * target

	// 1) Shortest-path tree from the start scopes everything reachable
	//    within the outbound ceiling. Budget caps each inner search;
	//    exhaustion anywhere stops the whole generation.
	tree, err := search.NewTree(g, start,
		search.WithContext(cfg.Ctx),
		search.WithMaxDistance(maxOut),
		search.WithBudget(cfg.Budget),
	)
	if err != nil && !errors.Is(err, core.ErrBudgetExceeded) {
		return nil, err
	}
	exhausted := errors.Is(err, core.ErrBudgetExceeded)

	// 2) Anchor selection: degree ≥ 3, reachable, nearest first.
	anchors := selectAnchors(g, tree, start, cfg.MaxAnchors)

	var out []core.RouteCandidate
	seen := make(map[string]bool)

	for _, anchor := range anchors {
		if exhausted {
			break
		}
		stick, ok := tree.PathTo(anchor)
		if !ok {
			continue
		}

		cands, hitCap := explorePairs(g, tree, stick, anchor, start, target, cfg)
		if hitCap {
			exhausted = true
		}
		for _, c := range cands {
			sig := candidateSignature(c)
			if seen[sig] {
				continue
			}
			seen[sig] = true
			out = append(out, c)
		}
	}

	if exhausted {
		return out, core.ErrBudgetExceeded
	}
	return out, nil
}

// selectAnchors returns up to limit anchor nodes ordered by distance
// from the start, ties by node id.
func selectAnchors(g *core.GraphSnapshot, tree *search.Tree, start int64, limit int) []int64 {
	type ranked struct {
		id   int64
		dist float64
	}
	var rs []ranked
	for _, id := range tree.Reached() {
		if id == start {
			continue
		}
		if g.Node(id).Degree < 3 {
			continue
		}
		d, _ := tree.Dist(id)
		rs = append(rs, ranked{id: id, dist: d})
	}
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].dist != rs[j].dist {
			return rs[i].dist < rs[j].dist
		}
		return rs[i].id < rs[j].id
	})
	if len(rs) > limit {
		rs = rs[:limit]
	}
	ids := make([]int64, len(rs))
	for i, r := range rs {
		ids[i] = r.id
	}
	return ids
}

// explorePairs walks destinations beyond one anchor and assembles full
// candidates. hitCap reports budget exhaustion inside inner searches.
func explorePairs(g *core.GraphSnapshot, startTree *search.Tree, stick search.Path, anchor, start int64, target float64, cfg Options) (out []core.RouteCandidate, hitCap bool) {
	loopIdeal := target - 2*stick.Dist
	if loopIdeal <= 0 {
		return nil, false
	}

	anchorTree, err := search.NewTree(g, anchor,
		search.WithContext(cfg.Ctx),
		search.WithMaxDistance(cfg.OutboundMaxFrac*target-stick.Dist),
		search.WithBudget(cfg.Budget),
	)
	if err != nil && !errors.Is(err, core.ErrBudgetExceeded) {
		return nil, false
	}
	hitCap = errors.Is(err, core.ErrBudgetExceeded)

	dests := selectDestinations(startTree, anchorTree, anchor, start, stick.Dist, loopIdeal, target, cfg)

	for _, dest := range dests {
		leg1, ok := anchorTree.PathTo(dest)
		if !ok {
			continue
		}
		leg2, capped := returnLeg(g, leg1, dest, anchor, loopIdeal, cfg)
		if capped {
			hitCap = true
		}
		if leg2 == nil {
			continue
		}
		out = append(out, assemble(g, stick, leg1, *leg2))
	}
	return out, hitCap
}

// selectDestinations ranks reachable nodes by how close a symmetric
// loop through them would land on the ideal loop length.
func selectDestinations(startTree, anchorTree *search.Tree, anchor, start int64, stickDist, loopIdeal, target float64, cfg Options) []int64 {
	type ranked struct {
		id  int64
		off float64
	}
	var rs []ranked
	for _, id := range anchorTree.Reached() {
		if id == anchor || id == start {
			continue
		}
		d, _ := anchorTree.Dist(id)
		outbound := stickDist + d
		if outbound < cfg.OutboundMinFrac*target || outbound > cfg.OutboundMaxFrac*target {
			continue
		}
		rs = append(rs, ranked{id: id, off: math.Abs(2*d - loopIdeal)})
	}
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].off != rs[j].off {
			return rs[i].off < rs[j].off
		}
		return rs[i].id < rs[j].id
	})
	if len(rs) > cfg.MaxDestinations {
		rs = rs[:cfg.MaxDestinations]
	}
	ids := make([]int64, len(rs))
	for i, r := range rs {
		ids[i] = r.id
	}
	return ids
}

// returnLeg finds a structurally distinct destination→anchor path:
// the first alternative that is interior-node-disjoint from leg1, or
// failing that the first whose edge overlap stays at or below the
// threshold.
func returnLeg(g *core.GraphSnapshot, leg1 search.Path, dest, anchor int64, loopIdeal float64, cfg Options) (*search.Path, bool) {
	alts, err := search.KShortest(g, dest, anchor, cfg.MaxPathsPerAnchor,
		search.WithContext(cfg.Ctx),
		search.WithMaxDistance(loopIdeal),
		search.WithBudget(cfg.Budget),
	)
	capped := errors.Is(err, core.ErrBudgetExceeded)
	if err != nil && !capped {
		return nil, false
	}

	leg1Cand := leg1.Candidate(core.PointToPoint)
	var fallback *search.Path
	for _, alt := range alts {
		if pattern.OverlapPct(alt, leg1Cand) > cfg.OverlapPct {
			continue // near-identical legs: an out-and-back in disguise
		}
		p := search.Path{Nodes: alt.Nodes, Edges: alt.Edges, Dist: alt.Distance, Gain: alt.Gain}
		if nodeDisjointInterior(leg1, p) {
			return &p, capped
		}
		if fallback == nil {
			q := p
			fallback = &q
		}
	}
	return fallback, capped
}

// nodeDisjointInterior reports whether the two legs share no interior
// nodes (endpoints excluded).
func nodeDisjointInterior(a, b search.Path) bool {
	if len(a.Nodes) <= 2 || len(b.Nodes) <= 2 {
		return len(a.Nodes) <= 2 && len(b.Nodes) <= 2
	}
	interior := make(map[int64]bool, len(a.Nodes))
	for _, n := range a.Nodes[1 : len(a.Nodes)-1] {
		interior[n] = true
	}
	for _, n := range b.Nodes[1 : len(b.Nodes)-1] {
		if interior[n] {
			return false
		}
	}
	return true
}

// assemble concatenates stick + leg1 + leg2 + reversed stick into one
// lollipop candidate.
func assemble(g *core.GraphSnapshot, stick, leg1, leg2 search.Path) core.RouteCandidate {
	nodes := make([]int64, 0, 2*len(stick.Nodes)+len(leg1.Nodes)+len(leg2.Nodes))
	edges := make([]int64, 0, 2*len(stick.Edges)+len(leg1.Edges)+len(leg2.Edges))

	nodes = append(nodes, stick.Nodes...)
	edges = append(edges, stick.Edges...)
	nodes = append(nodes, leg1.Nodes[1:]...)
	edges = append(edges, leg1.Edges...)
	nodes = append(nodes, leg2.Nodes[1:]...)
	edges = append(edges, leg2.Edges...)
	// Return along the stick, reversed.
	for i := len(stick.Nodes) - 2; i >= 0; i-- {
		nodes = append(nodes, stick.Nodes[i])
	}
	for i := len(stick.Edges) - 1; i >= 0; i-- {
		edges = append(edges, stick.Edges[i])
	}

	gain := stick.Gain + leg1.Gain + leg2.Gain + reverseGain(g, stick)
	return core.RouteCandidate{
		Edges:    edges,
		Nodes:    nodes,
		Distance: 2*stick.Dist + leg1.Dist + leg2.Dist,
		Gain:     gain,
		Shape:    core.Lollipop,
	}
}

// reverseGain sums the elevation gain of walking a path backwards.
func reverseGain(g *core.GraphSnapshot, p search.Path) float64 {
	var gain float64
	for i := len(p.Edges) - 1; i >= 0; i-- {
		// Walking edge i from its far endpoint (node i+1) back.
		gain += g.Edge(p.Edges[i]).DirectionalGain(p.Nodes[i+1])
	}
	return gain
}

// candidateSignature identifies a candidate by its ordered edge walk.
func candidateSignature(c core.RouteCandidate) string {
	b := make([]byte, 0, len(c.Edges)*4)
	for _, id := range c.Edges {
		b = strconv.AppendInt(b, id, 10)
		b = append(b, ',')
	}
	return string(b)
}
