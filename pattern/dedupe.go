package pattern

import (
	"errors"
	"sync"

	"github.com/trailforge/routegraph/core"
)

// DefaultOverlapThresholdPct rejects candidates sharing more than this
// percentage of their edges with any accepted recommendation.
const DefaultOverlapThresholdPct = 30.0

// ErrBadThreshold indicates an overlap threshold outside [0, 100].
var ErrBadThreshold = errors.New("pattern: overlap threshold must be in [0, 100]")

// Deduplicator is the running accept/reject filter over all patterns.
// It is safe for concurrent use; acceptance is serialized under a
// single mutex. The snapshot itself is immutable, so this is the
// engine's only shared mutable state.
type Deduplicator struct {
	mu        sync.Mutex
	threshold float64 // fraction, 0..1
	accepted  []map[int64]struct{}
}

// NewDeduplicator builds a Deduplicator with the given threshold in
// percent.
func NewDeduplicator(thresholdPct float64) (*Deduplicator, error) {
	if thresholdPct < 0 || thresholdPct > 100 {
		return nil, ErrBadThreshold
	}
	return &Deduplicator{threshold: thresholdPct / 100}, nil
}

// Accept offers a candidate. It returns true, recording the
// candidate's edge set, when its overlap with every already-accepted
// recommendation stays at or below the threshold; otherwise false and
// no state changes.
func (d *Deduplicator) Accept(c core.RouteCandidate) bool {
	set := c.EdgeSet()

	d.mu.Lock()
	defer d.mu.Unlock()
	for _, prev := range d.accepted {
		if overlapFraction(set, prev) > d.threshold {
			return false
		}
	}
	d.accepted = append(d.accepted, set)
	return true
}

// Accepted returns the number of recommendations recorded so far.
func (d *Deduplicator) Accepted() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.accepted)
}

// OverlapPct returns the edge overlap between two candidates as a
// percentage of the first candidate's edge count. Exported because the
// lollipop generator applies the same threshold between a route's two
// loop legs.
func OverlapPct(c, against core.RouteCandidate) float64 {
	return overlapFraction(c.EdgeSet(), against.EdgeSet()) * 100
}

// overlapFraction is |candidate ∩ accepted| / |candidate|.
func overlapFraction(candidate, accepted map[int64]struct{}) float64 {
	if len(candidate) == 0 {
		return 0
	}
	shared := 0
	for id := range candidate {
		if _, ok := accepted[id]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(candidate))
}
