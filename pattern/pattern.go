package pattern

import (
	"errors"
	"math"

	"github.com/trailforge/routegraph/core"
)

// Default scoring weights: distance closeness dominates, elevation
// closeness refines.
const (
	DefaultDistanceWeight  = 0.6
	DefaultElevationWeight = 0.4
)

// Sentinel errors for matcher configuration.
var (
	// ErrBadWeights indicates weights that are negative or sum to zero.
	ErrBadWeights = errors.New("pattern: weights must be non-negative and sum > 0")

	// ErrBadPattern indicates a pattern with non-positive target
	// distance or negative tolerance.
	ErrBadPattern = errors.New("pattern: invalid pattern targets")
)

// Matcher evaluates candidates against one or more patterns with a
// fixed weight configuration. The zero value is not usable; construct
// via NewMatcher.
type Matcher struct {
	wDist float64
	wElev float64
}

// MatcherOption mutates the Matcher via the functional pattern.
type MatcherOption func(*Matcher)

// WithWeights overrides the scoring weights.
func WithWeights(dist, elev float64) MatcherOption {
	return func(m *Matcher) {
		m.wDist = dist
		m.wElev = elev
	}
}

// NewMatcher validates and builds a Matcher.
func NewMatcher(opts ...MatcherOption) (*Matcher, error) {
	m := &Matcher{wDist: DefaultDistanceWeight, wElev: DefaultElevationWeight}
	for _, opt := range opts {
		opt(m)
	}
	if m.wDist < 0 || m.wElev < 0 || m.wDist+m.wElev <= 0 {
		return nil, ErrBadWeights
	}
	return m, nil
}

// Matches reports whether the candidate passes the pattern's hard
// gate: shape equality and distance within the tolerance band.
func (m *Matcher) Matches(c core.RouteCandidate, p core.RoutePattern) bool {
	if c.Shape != p.Shape {
		return false
	}
	return c.Distance >= p.MinDistance() && c.Distance <= p.MaxDistance()
}

// Score returns the weighted closeness of the candidate to the
// pattern's distance and elevation-gain targets, in [0, 1]. Closeness
// on one axis is 1 at the target and decays linearly to 0 at 100%
// relative error; a zero target scores full closeness on that axis
// (nothing to miss).
func (m *Matcher) Score(c core.RouteCandidate, p core.RoutePattern) float64 {
	cd := closeness(c.Distance, p.TargetDistance)
	ce := closeness(c.Gain, p.TargetGain)
	return (m.wDist*cd + m.wElev*ce) / (m.wDist + m.wElev)
}

// Evaluate combines the gate and the score: ok=false means the
// candidate does not match and the score is meaningless.
func (m *Matcher) Evaluate(c core.RouteCandidate, p core.RoutePattern) (score float64, ok bool) {
	if !m.Matches(c, p) {
		return 0, false
	}
	return m.Score(c, p), true
}

// ValidatePattern rejects patterns the matcher cannot meaningfully
// evaluate.
func ValidatePattern(p core.RoutePattern) error {
	if p.TargetDistance <= 0 || p.TolerancePct < 0 {
		return ErrBadPattern
	}
	return nil
}

// closeness maps actual vs target to [0, 1], monotonically decreasing
// in |actual-target|.
func closeness(actual, target float64) float64 {
	if target <= 0 {
		return 1
	}
	return math.Max(0, 1-math.Abs(actual-target)/target)
}
