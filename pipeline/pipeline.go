package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"github.com/trailforge/routegraph/core"
	"github.com/trailforge/routegraph/intersect"
	"github.com/trailforge/routegraph/lollipop"
	"github.com/trailforge/routegraph/pattern"
	"github.com/trailforge/routegraph/search"
	"github.com/trailforge/routegraph/split"
	"github.com/trailforge/routegraph/topology"
)

// runner bundles the per-run collaborators.
type runner struct {
	cfg   Config
	log   *slog.Logger
	match *pattern.Matcher
	dedup *pattern.Deduplicator
}

// Run executes a complete pass: graph build, per-pattern search,
// matching, and global deduplication.
//
// Fatal errors: invalid configuration, a cancelled context before the
// build finishes, or core.ErrEmptyGraph from the topology. Everything
// else lands in Result.Report.
func Run(ctx context.Context, trails []*core.Trail, cfg Config, opts ...Option) (*Result, error) {
	if len(trails) == 0 {
		return nil, ErrNoTrails
	}
	if len(cfg.Patterns) == 0 {
		return nil, ErrNoPatterns
	}
	cfg.normalize()
	for _, p := range cfg.Patterns {
		if err := pattern.ValidatePattern(p); err != nil {
			return nil, fmt.Errorf("pattern %q: %w", p.Name, err)
		}
	}

	r := &runner{cfg: cfg, log: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	var err error
	if r.match, err = pattern.NewMatcher(); err != nil {
		return nil, err
	}
	if r.dedup, err = pattern.NewDeduplicator(cfg.OverlapThresholdPct); err != nil {
		return nil, err
	}

	res := &Result{}

	// 1) Build the graph in one synchronous pass.
	g, err := r.build(trails, res)
	if err != nil {
		return nil, err
	}
	res.Graph = g
	r.log.Info("graph built",
		"nodes", g.NumNodes(),
		"edges", g.NumEdges(),
		"excluded_trails", len(res.Report.ExcludedTrails),
	)

	// 2) Search per pattern, strictly sequentially.
	for _, p := range cfg.Patterns {
		if ctx.Err() != nil {
			// Cancellation mid-run keeps what was already accepted.
			res.Report.BudgetExceeded = append(res.Report.BudgetExceeded, p.Name)
			continue
		}
		r.runPattern(ctx, g, p, res)
	}

	return res, nil
}

// build runs intersect → split → topology and records exclusions.
func (r *runner) build(trails []*core.Trail, res *Result) (*core.GraphSnapshot, error) {
	det, err := intersect.Detect(trails, intersect.WithTolerance(r.cfg.SnapTolerance))
	if err != nil {
		return nil, err
	}
	res.Report.ExcludedTrails = det.Excluded
	for _, ge := range det.Excluded {
		r.log.Warn("trail excluded", "trail", ge.TrailID, "reason", ge.Reason)
	}

	excluded := make(map[string]bool, len(det.Excluded))
	for _, ge := range det.Excluded {
		excluded[ge.TrailID] = true
	}

	// Group intersection points by trail once.
	byTrail := make(map[string][]core.IntersectionPoint)
	for _, ip := range det.Points {
		for id := range ip.Positions {
			byTrail[id] = append(byTrail[id], ip)
		}
	}

	var segments []core.Segment
	for _, t := range trails {
		if excluded[t.ID] {
			continue
		}
		segs, err := split.Split(t, byTrail[t.ID],
			split.WithMinSegmentLength(r.cfg.MinSegmentLength))
		if err != nil {
			return nil, fmt.Errorf("splitting trail %q: %w", t.ID, err)
		}
		segments = append(segments, segs...)
	}
	if len(segments) == 0 {
		return nil, core.ErrEmptyGraph
	}

	return topology.Build(segments, topology.WithTolerance(r.cfg.SnapTolerance))
}

// runPattern produces, matches, and accepts candidates for one pattern.
func (r *runner) runPattern(ctx context.Context, g *core.GraphSnapshot, p core.RoutePattern, res *Result) {
	cands, capped := r.generate(ctx, g, p)
	if capped {
		res.Report.BudgetExceeded = append(res.Report.BudgetExceeded, p.Name)
		r.log.Warn("search budget exceeded", "pattern", p.Name)
	}

	// Score survivors, order by descending score for the greedy dedup.
	type scored struct {
		cand  core.RouteCandidate
		score float64
	}
	var kept []scored
	for _, c := range cands {
		if s, ok := r.match.Evaluate(c, p); ok {
			kept = append(kept, scored{cand: c, score: s})
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].score > kept[j].score })

	accepted := 0
	for _, sc := range kept {
		if !r.dedup.Accept(sc.cand) {
			r.log.Debug("candidate rejected by dedup", "pattern", p.Name)
			continue
		}
		accepted++
		res.Recommendations = append(res.Recommendations,
			r.recommend(g, p, sc.cand, sc.score, accepted))
	}
	if accepted == 0 {
		res.Report.EmptyPatterns = append(res.Report.EmptyPatterns, p.Name)
		r.log.Info("pattern matched nothing", "pattern", p.Name,
			"err", core.ErrPatternMismatch)
	}
}

// generate dispatches to the shape-appropriate search.
func (r *runner) generate(ctx context.Context, g *core.GraphSnapshot, p core.RoutePattern) (cands []core.RouteCandidate, capped bool) {
	common := []search.Option{
		search.WithContext(ctx),
		search.WithMaxDistance(p.MaxDistance()),
		search.WithMaxEdges(r.cfg.MaxCycleEdges),
		search.WithBudget(r.cfg.SearchBudget),
	}

	switch p.Shape {
	case core.Loop:
		opts := common
		if r.cfg.Exhaustive {
			opts = append(opts, search.WithExhaustive())
		}
		err := search.Cycles(g, func(c core.RouteCandidate) bool {
			cands = append(cands, c)
			return true
		}, opts...)
		capped = errors.Is(err, core.ErrBudgetExceeded)

	case core.PointToPoint:
		starts := r.startNodes(g)
		for i := 0; i < len(starts); i++ {
			for j := i + 1; j < len(starts); j++ {
				got, err := search.KShortest(g, starts[i], starts[j], r.cfg.KPaths, common...)
				if errors.Is(err, core.ErrBudgetExceeded) {
					capped = true
				}
				cands = append(cands, got...)
			}
		}

	case core.OutAndBack:
		cands, capped = r.outAndBack(ctx, g, p)

	case core.Lollipop:
		for _, s := range r.startNodes(g) {
			got, err := lollipop.Generate(g, s, p.TargetDistance,
				lollipop.WithContext(ctx),
				lollipop.WithCaps(r.cfg.MaxAnchors, r.cfg.MaxDestinations, r.cfg.MaxPathsPerAnchor),
				lollipop.WithOutboundRange(r.cfg.OutboundMinFrac, r.cfg.OutboundMaxFrac),
				lollipop.WithOverlapPct(r.cfg.OverlapThresholdPct),
				lollipop.WithBudget(r.cfg.SearchBudget),
			)
			if errors.Is(err, core.ErrBudgetExceeded) {
				capped = true
			}
			cands = append(cands, got...)
		}
	}
	return cands, capped
}

// outAndBack doubles shortest paths to turnaround nodes at roughly
// half the target distance. The inbound and return legs use the same
// edges in reverse order; that is the shape's definition, and the only
// route shape allowed to repeat an edge.
func (r *runner) outAndBack(ctx context.Context, g *core.GraphSnapshot, p core.RoutePattern) (cands []core.RouteCandidate, capped bool) {
	for _, s := range r.startNodes(g) {
		tree, err := search.NewTree(g, s,
			search.WithContext(ctx),
			search.WithMaxDistance(p.MaxDistance()/2),
			search.WithBudget(r.cfg.SearchBudget),
		)
		if errors.Is(err, core.ErrBudgetExceeded) {
			capped = true
		} else if err != nil {
			continue
		}

		picked := 0
		for _, n := range sortedReached(tree) {
			if picked >= r.cfg.KPaths {
				break
			}
			if n == s {
				continue
			}
			d, _ := tree.Dist(n)
			if 2*d < p.MinDistance() || 2*d > p.MaxDistance() {
				continue
			}
			out, ok := tree.PathTo(n)
			if !ok {
				continue
			}
			cands = append(cands, doubleBack(g, out))
			picked++
		}
	}
	return cands, capped
}

// doubleBack mirrors a path onto itself, producing the out-and-back
// candidate.
func doubleBack(g *core.GraphSnapshot, out search.Path) core.RouteCandidate {
	nodes := append([]int64{}, out.Nodes...)
	edges := append([]int64{}, out.Edges...)
	var backGain float64
	for i := len(out.Edges) - 1; i >= 0; i-- {
		edges = append(edges, out.Edges[i])
		nodes = append(nodes, out.Nodes[i])
		backGain += g.Edge(out.Edges[i]).DirectionalGain(out.Nodes[i+1])
	}
	return core.RouteCandidate{
		Edges:    edges,
		Nodes:    nodes,
		Distance: 2 * out.Dist,
		Gain:     out.Gain + backGain,
		Shape:    core.OutAndBack,
	}
}

// startNodes picks a bounded, deterministic set of search origins:
// dead-ends first (trailheads), then anchors.
func (r *runner) startNodes(g *core.GraphSnapshot) []int64 {
	var deadEnds, anchors []int64
	for _, id := range g.NodeIDs() {
		switch d := g.Node(id).Degree; {
		case d == 1:
			deadEnds = append(deadEnds, id)
		case d >= 3:
			anchors = append(anchors, id)
		}
	}
	out := append(deadEnds, anchors...)
	if len(out) > r.cfg.MaxStartNodes {
		out = out[:r.cfg.MaxStartNodes]
	}
	if len(out) == 0 && g.NumNodes() > 0 {
		out = []int64{g.NodeIDs()[0]}
	}
	return out
}

// sortedReached returns a tree's settled nodes in ascending id order.
func sortedReached(t *search.Tree) []int64 {
	ids := t.Reached()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// recommend finalizes an accepted candidate.
func (r *runner) recommend(g *core.GraphSnapshot, p core.RoutePattern, c core.RouteCandidate, score float64, n int) core.RouteRecommendation {
	trailSet := make(map[string]struct{})
	geom := make(orb.MultiLineString, 0, len(c.Edges))
	for _, eid := range c.Edges {
		e := g.Edge(eid)
		for _, tid := range e.TrailIDs {
			trailSet[tid] = struct{}{}
		}
		ls := make(orb.LineString, len(e.Points))
		for i, pt := range e.Points {
			ls[i] = pt.P2()
		}
		geom = append(geom, ls)
	}

	return core.RouteRecommendation{
		RouteCandidate: c,
		UUID:           uuid.NewString(),
		Name:           fmt.Sprintf("%s #%d", p.Name, n),
		Pattern:        p.Name,
		Score:          score,
		TrailCount:     len(trailSet),
		Geometry:       geom,
	}
}
