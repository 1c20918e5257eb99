package search

import (
	"sort"
	"strconv"
	"strings"

	"github.com/trailforge/routegraph/core"
)

// Cycles lazily enumerates simple cycles: closed walks with no
// repeated edge and no repeated node except the closing one. Each
// cycle is passed to yield; returning false stops the enumeration.
//
// Seeding is anchor-based by default: depth-first expansion from
// every node of degree ≥ 3 (all nodes under WithExhaustive, which also
// finds isolated loops made only of pass-through nodes). Duplicate
// discoveries of the same cycle from different seeds or directions are
// suppressed by a canonical edge-set signature.
//
// Bounds: MaxEdges and MaxDistance prune the expansion; Budget and the
// context stop the whole call, surfacing core.ErrBudgetExceeded after
// every cycle found so far has been yielded.
func Cycles(g *core.GraphSnapshot, yield func(core.RouteCandidate) bool, opts ...Option) error {
	if g == nil {
		return ErrNilGraph
	}
	if yield == nil {
		return ErrNilYield
	}
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.MaxEdges <= 0 || cfg.MaxDistance <= 0 || cfg.Budget <= 0 {
		return ErrBadBound
	}

	// 1) Seed selection, ascending for reproducibility.
	var seeds []int64
	for _, id := range g.NodeIDs() {
		n := g.Node(id)
		if cfg.Exhaustive || n.Degree >= 3 {
			seeds = append(seeds, id)
		}
	}
	if len(seeds) == 0 && !cfg.Exhaustive {
		// No anchors at all: a pure ring graph. Fall back to the
		// smallest node so the plain triangle still turns up.
		ids := g.NodeIDs()
		if len(ids) > 0 {
			seeds = []int64{ids[0]}
		}
	}

	w := &cycleWalker{
		g:       g,
		cfg:     cfg,
		bd:      newBudget(cfg),
		yield:   yield,
		emitted: make(map[string]bool),
		onPath:  make(map[int64]bool),
	}

	// 2) Bounded DFS from each seed.
	for _, s := range seeds {
		if w.bd.exhausted || w.stopped {
			break
		}
		w.start = s
		w.onPath[s] = true
		w.expand(s, nil, nil, 0, 0)
		delete(w.onPath, s)
	}
	if w.stopped {
		return nil
	}
	return w.bd.err()
}

// cycleWalker carries the DFS state for one Cycles call.
type cycleWalker struct {
	g       *core.GraphSnapshot
	cfg     Options
	bd      *budget
	yield   func(core.RouteCandidate) bool
	emitted map[string]bool

	start   int64
	onPath  map[int64]bool
	stopped bool
}

// expand grows the walk from node, tracking used edges and totals.
func (w *cycleWalker) expand(node int64, edges, nodes []int64, dist, gain float64) {
	if w.stopped || !w.bd.spend() {
		return
	}
	for _, eid := range w.g.Incident(node) {
		if containsID(edges, eid) {
			continue
		}
		e := w.g.Edge(eid)
		next := e.Other(node)
		nd := dist + e.Length
		if nd > w.cfg.MaxDistance || len(edges)+1 > w.cfg.MaxEdges {
			continue
		}
		ng := gain + e.DirectionalGain(node)

		if next == w.start {
			if len(edges)+1 >= MinCycleEdges {
				walk := make([]int64, 0, len(nodes)+2)
				walk = append(walk, w.start)
				walk = append(walk, nodes...)
				walk = append(walk, w.start)
				w.emit(append(append([]int64{}, edges...), eid), walk, nd, ng)
				if w.stopped {
					return
				}
			}
			continue
		}
		if w.onPath[next] {
			continue
		}

		w.onPath[next] = true
		w.expand(next, append(edges, eid), append(nodes, next), nd, ng)
		delete(w.onPath, next)
		if w.stopped {
			return
		}
	}
}

// emit yields one cycle unless its canonical signature was seen.
func (w *cycleWalker) emit(edges, nodes []int64, dist, gain float64) {
	sig := cycleSignature(edges)
	if w.emitted[sig] {
		return
	}
	w.emitted[sig] = true

	if !w.yield(core.RouteCandidate{
		Edges:    edges,
		Nodes:    nodes,
		Distance: dist,
		Gain:     gain,
		Shape:    core.Loop,
	}) {
		w.stopped = true
	}
}

// cycleSignature identifies a cycle independent of rotation and
// direction: its sorted edge-id set.
func cycleSignature(edges []int64) string {
	sorted := append([]int64{}, edges...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	var sb strings.Builder
	for i, id := range sorted {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatInt(id, 10))
	}
	return sb.String()
}

func containsID(s []int64, id int64) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}
