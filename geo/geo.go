// Distance and elevation math over 3D geographic points.
//
// Complexity:
//
//   - Haversine / Dist3D:       O(1)
//   - PolylineLength, GainLoss: O(n) over the point sequence
//   - PointAtFraction:          O(n) cumulative scan
package geo

import (
	"errors"
	"math"

	"github.com/paulmach/orb"
)

// EarthRadius is the mean Earth radius in meters used by Haversine.
const EarthRadius = 6371000.0

// Sentinel errors for degenerate geometry inputs.
var (
	// ErrTooFewPoints indicates a polyline with fewer than two points.
	ErrTooFewPoints = errors.New("geo: polyline needs at least two points")

	// ErrBadFraction indicates a fractional position outside [0, 1].
	ErrBadFraction = errors.New("geo: fraction must lie in [0, 1]")
)

// Point is a geographic coordinate with elevation.
//
// Lon and Lat are degrees, Elev is meters above the ellipsoid (or
// whatever datum the source data uses; the core only ever differences
// elevations, so the datum cancels out).
type Point struct {
	Lon  float64
	Lat  float64
	Elev float64
}

// P2 returns the planar (lon, lat) view of p as an orb.Point.
func (p Point) P2() orb.Point { return orb.Point{p.Lon, p.Lat} }

// Haversine returns the great-circle distance between a and b in meters.
func Haversine(a, b orb.Point) float64 {
	lat1 := a[1] * math.Pi / 180
	lat2 := b[1] * math.Pi / 180
	dLat := (b[1] - a[1]) * math.Pi / 180
	dLon := (b[0] - a[0]) * math.Pi / 180

	s := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return EarthRadius * 2 * math.Atan2(math.Sqrt(s), math.Sqrt(1-s))
}

// Dist3D returns the elevation-aware distance between a and b in meters:
// the hypotenuse of the horizontal haversine distance and the elevation
// difference.
func Dist3D(a, b Point) float64 {
	h := Haversine(a.P2(), b.P2())
	dz := b.Elev - a.Elev
	return math.Sqrt(h*h + dz*dz)
}

// PolylineLength returns the summed 3D length of the point sequence in
// meters. A sequence with fewer than two points has zero length.
func PolylineLength(pts []Point) float64 {
	var total float64
	for i := 1; i < len(pts); i++ {
		total += Dist3D(pts[i-1], pts[i])
	}
	return total
}

// GainLoss returns the cumulative elevation gain and loss over the
// point sequence. Gain sums only the positive elevation steps, loss the
// magnitudes of the negative steps; both are non-negative.
func GainLoss(pts []Point) (gain, loss float64) {
	for i := 1; i < len(pts); i++ {
		d := pts[i].Elev - pts[i-1].Elev
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	return gain, loss
}

// Lerp linearly interpolates between a and b at parameter t in [0, 1],
// including elevation. t is clamped to [0, 1].
func Lerp(a, b Point, t float64) Point {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return Point{
		Lon:  a.Lon + (b.Lon-a.Lon)*t,
		Lat:  a.Lat + (b.Lat-a.Lat)*t,
		Elev: a.Elev + (b.Elev-a.Elev)*t,
	}
}

// PointAtFraction returns the interpolated point at the given fraction
// of the polyline's total 3D length, together with the index i such
// that the point lies on the sub-segment pts[i]→pts[i+1].
//
// Returns ErrTooFewPoints for degenerate polylines and ErrBadFraction
// for fractions outside [0, 1].
func PointAtFraction(pts []Point, frac float64) (Point, int, error) {
	if len(pts) < 2 {
		return Point{}, 0, ErrTooFewPoints
	}
	if frac < 0 || frac > 1 {
		return Point{}, 0, ErrBadFraction
	}

	total := PolylineLength(pts)
	if total == 0 {
		return pts[0], 0, nil
	}
	target := frac * total

	var walked float64
	for i := 1; i < len(pts); i++ {
		step := Dist3D(pts[i-1], pts[i])
		if walked+step >= target && step > 0 {
			t := (target - walked) / step
			return Lerp(pts[i-1], pts[i], t), i - 1, nil
		}
		walked += step
	}
	// Accumulated float error can leave target a hair past the end.
	return pts[len(pts)-1], len(pts) - 2, nil
}

// Bound returns the orb.Bound enclosing the point sequence, padded by
// pad meters on every side. The pad is converted to degrees at the
// bound's center latitude.
func Bound(pts []Point, pad float64) orb.Bound {
	if len(pts) == 0 {
		return orb.Bound{}
	}
	b := orb.Bound{Min: pts[0].P2(), Max: pts[0].P2()}
	for _, p := range pts[1:] {
		b = b.Extend(p.P2())
	}
	if pad <= 0 {
		return b
	}
	midLat := (b.Min[1] + b.Max[1]) / 2
	dLat := pad * 180 / (math.Pi * EarthRadius)
	dLon := dLat / math.Max(math.Cos(midLat*math.Pi/180), 1e-9)
	b.Min[0] -= dLon
	b.Min[1] -= dLat
	b.Max[0] += dLon
	b.Max[1] += dLat
	return b
}
