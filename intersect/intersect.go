package intersect

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/quadtree"

	"github.com/trailforge/routegraph/core"
	"github.com/trailforge/routegraph/geo"
)

// vertexRef tags a polyline vertex with its owning trail and vertex
// index so quadtree hits can be mapped back.
type vertexRef struct {
	pt     orb.Point
	trail  int // index into the valid-trail slice
	vertex int
}

// Point implements orb.Pointer.
func (v vertexRef) Point() orb.Point { return v.pt }

// ipRecord is one raw intersection between a fixed pair of trails.
type ipRecord struct {
	pt geo.Point
	fa float64 // fraction along trail a
	fb float64 // fraction along trail b
}

// Detect finds all pairwise intersections and endpoint touches across
// the trail set. Degenerate trails are excluded and reported in
// Result.Excluded; they never fail the call.
//
// Output ordering is deterministic: pairs are visited in ascending
// (trailID, trailID) order and points in ascending position along the
// first trail of the pair.
func Detect(trails []*core.Trail, opts ...Option) (*Result, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Tolerance <= 0 {
		return nil, ErrBadTolerance
	}
	if len(trails) == 0 {
		return nil, ErrNoTrails
	}

	res := &Result{}

	// 1) Exclude degenerate trails; order survivors by id so every
	//    later step is reproducible across runs.
	valid := make([]*core.Trail, 0, len(trails))
	for _, t := range trails {
		switch {
		case len(t.Points) < 2:
			res.Excluded = append(res.Excluded, &core.GeometryError{TrailID: t.ID, Reason: "fewer than 2 points"})
		case t.Length <= 0:
			res.Excluded = append(res.Excluded, &core.GeometryError{TrailID: t.ID, Reason: "zero length"})
		default:
			valid = append(valid, t)
		}
	}
	if len(valid) < 1 {
		return res, nil
	}
	sort.Slice(valid, func(i, j int) bool { return valid[i].ID < valid[j].ID })

	// 2) Candidate pairs by padded bounding-extent overlap. A sweep
	//    over bounds sorted by min longitude prunes the pair scan; the
	//    quadtree below serves the endpoint proximity queries.
	bounds := make([]orb.Bound, len(valid))
	for i, t := range valid {
		bounds[i] = geo.Bound(t.Points, cfg.Tolerance)
	}
	order := make([]int, len(valid))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return bounds[order[a]].Min[0] < bounds[order[b]].Min[0] })

	var pairs [][2]int
	for a := 0; a < len(order); a++ {
		i := order[a]
		for b := a + 1; b < len(order); b++ {
			j := order[b]
			if bounds[j].Min[0] > bounds[i].Max[0] {
				break // sweep: no later bound can overlap i in longitude
			}
			if bounds[i].Intersects(bounds[j]) {
				pairs = append(pairs, [2]int{min(i, j), max(i, j)})
			}
		}
	}
	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a][0] != pairs[b][0] {
			return pairs[a][0] < pairs[b][0]
		}
		return pairs[a][1] < pairs[b][1]
	})

	qt := quadtree.New(unionBound(bounds))
	for i, t := range valid {
		for k, p := range t.Points {
			_ = qt.Add(vertexRef{pt: p.P2(), trail: i, vertex: k})
		}
	}

	// 3) Exact segment intersection per candidate pair, classified.
	crossings := make(map[[2]int][]ipRecord, len(pairs))
	for _, pr := range pairs {
		a, b := valid[pr[0]], valid[pr[1]]
		recs := pairIntersections(a, b, cfg.Tolerance)
		crossings[pr] = recs
		for _, r := range recs {
			kind := classify(a, b, r, cfg.Tolerance)
			if len(recs) > 1 {
				kind = core.Multipoint
			}
			res.Points = append(res.Points, core.IntersectionPoint{
				Point: r.pt,
				Kind:  kind,
				Positions: map[string]float64{
					a.ID: r.fa,
					b.ID: r.fb,
				},
			})
		}
	}

	// 4) Endpoint-touch pass: endpoints of distinct trails within
	//    tolerance of each other, with no true crossing at that spot.
	res.Points = append(res.Points, endpointTouches(valid, qt, crossings, cfg.Tolerance)...)

	return res, nil
}

// pairIntersections runs the exact segment-segment sweep for one trail
// pair, collapsing points that fall within tol of one another.
func pairIntersections(a, b *core.Trail, tol float64) []ipRecord {
	cumA := cumulative(a.Points)
	cumB := cumulative(b.Points)

	var recs []ipRecord
	for ia := 0; ia < len(a.Points)-1; ia++ {
		a1, a2 := a.Points[ia], a.Points[ia+1]
		for ib := 0; ib < len(b.Points)-1; ib++ {
			b1, b2 := b.Points[ib], b.Points[ib+1]
			_, t, u, ok := geo.SegmentIntersection(a1.P2(), a2.P2(), b1.P2(), b2.P2())
			if !ok {
				continue
			}
			p3 := geo.Lerp(a1, a2, t)
			rec := ipRecord{
				pt: p3,
				fa: (cumA[ia] + t*geo.Dist3D(a1, a2)) / a.Length,
				fb: (cumB[ib] + u*geo.Dist3D(b1, b2)) / b.Length,
			}
			dup := false
			for _, prev := range recs {
				if geo.Dist3D(prev.pt, rec.pt) <= tol {
					dup = true
					break
				}
			}
			if !dup {
				recs = append(recs, rec)
			}
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].fa < recs[j].fa })
	return recs
}

// classify maps a single crossing to crossing/T/Y based on whether it
// sits at an endpoint of one or both trails (within tolerance along the
// trail's length).
func classify(a, b *core.Trail, r ipRecord, tol float64) core.IntersectionKind {
	atEndA := nearEnd(r.fa, a.Length, tol)
	atEndB := nearEnd(r.fb, b.Length, tol)
	switch {
	case atEndA && atEndB:
		return core.YJunction
	case atEndA || atEndB:
		return core.TJunction
	default:
		return core.Crossing
	}
}

// nearEnd reports whether the fractional position lies within tol
// meters of either end of a trail of the given length.
func nearEnd(frac, length, tol float64) bool {
	d := frac * length
	return d <= tol || length-d <= tol
}

// endpointTouches synthesizes EndpointTouch intersections for endpoint
// pairs within tolerance that have no true crossing nearby. These feed
// the topology builder's node merge, never the splitter.
func endpointTouches(valid []*core.Trail, qt *quadtree.Quadtree, crossings map[[2]int][]ipRecord, tol float64) []core.IntersectionPoint {
	var out []core.IntersectionPoint
	var buf []orb.Pointer
	seen := make(map[[4]int]struct{})

	for i, t := range valid {
		for _, end := range []int{0, len(t.Points) - 1} {
			ep := t.Points[end]
			buf = qt.InBound(buf[:0], geo.Bound([]geo.Point{ep}, tol))
			for _, ptr := range buf {
				v := ptr.(vertexRef)
				other := valid[v.trail]
				if v.trail == i {
					continue
				}
				// Partner must itself be an endpoint of its trail.
				if v.vertex != 0 && v.vertex != len(other.Points)-1 {
					continue
				}
				op := other.Points[v.vertex]
				if geo.Dist3D(ep, op) > tol {
					continue
				}

				lo, hi := min(i, v.trail), max(i, v.trail)
				key := [4]int{lo, hi, endFlag(i, end), endFlag(v.trail, v.vertex)}
				if lo != i {
					key[2], key[3] = key[3], key[2]
				}
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}

				if hasCrossingNear(crossings[[2]int{lo, hi}], ep, tol) {
					continue
				}

				out = append(out, core.IntersectionPoint{
					Point: ep,
					Kind:  core.EndpointTouch,
					Positions: map[string]float64{
						t.ID:     endFraction(end),
						other.ID: endFraction(v.vertex),
					},
				})
			}
		}
	}
	return out
}

// endFlag encodes which end of a trail the vertex index represents.
func endFlag(trail, vertex int) int {
	if vertex == 0 {
		return trail * 2
	}
	return trail*2 + 1
}

// endFraction maps a first/last vertex index to fraction 0 or 1.
func endFraction(vertex int) float64 {
	if vertex == 0 {
		return 0
	}
	return 1
}

// hasCrossingNear reports whether any recorded crossing of the pair
// lies within tol of p.
func hasCrossingNear(recs []ipRecord, p geo.Point, tol float64) bool {
	for _, r := range recs {
		if geo.Dist3D(r.pt, p) <= tol {
			return true
		}
	}
	return false
}

// unionBound merges all trail bounds into the quadtree's root extent.
func unionBound(bounds []orb.Bound) orb.Bound {
	u := bounds[0]
	for _, b := range bounds[1:] {
		u = u.Extend(b.Min).Extend(b.Max)
	}
	return u
}

// cumulative returns the running 3D length at each vertex.
func cumulative(pts []geo.Point) []float64 {
	cum := make([]float64, len(pts))
	for i := 1; i < len(pts); i++ {
		cum[i] = cum[i-1] + geo.Dist3D(pts[i-1], pts[i])
	}
	return cum
}
