package core

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the engine.
var (
	// ErrEmptyGraph indicates the built topology has no edges at all, so
	// no pattern can possibly be satisfied. This is the only fatal
	// condition in the core: the run aborts with a diagnostic.
	ErrEmptyGraph = errors.New("core: graph has no edges")

	// ErrPatternMismatch indicates a RoutePattern yielded zero matching
	// candidates. Non-fatal: surfaced per pattern, other patterns proceed.
	ErrPatternMismatch = errors.New("core: no candidates match pattern")

	// ErrBudgetExceeded indicates a bounded search hit its configured cap
	// before exhausting the search space. Non-fatal: whatever candidates
	// were found are returned alongside it.
	ErrBudgetExceeded = errors.New("core: search budget exceeded")

	// ErrNodeNotFound indicates a search referenced a node id absent from
	// the snapshot.
	ErrNodeNotFound = errors.New("core: node not found in snapshot")

	// ErrEdgeMismatch indicates an edge whose endpoints are not present
	// in the node set; NewGraphSnapshot rejects such input.
	ErrEdgeMismatch = errors.New("core: edge endpoint not in node set")
)

// GeometryError reports one degenerate or invalid trail. The offending
// trail is excluded from processing; the run continues.
type GeometryError struct {
	TrailID string
	Reason  string
}

// Error implements the error interface.
func (e *GeometryError) Error() string {
	return fmt.Sprintf("core: geometry error on trail %q: %s", e.TrailID, e.Reason)
}
