// Package semantic stamps element nodes with stable human-readable
// identifiers and builds the flat index used for lookup and iteration.
package semantic

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/edgecomet/domcontext/pkg/dom"
)

var (
	// ErrNotFound is returned when an identifier lookup misses.
	ErrNotFound = errors.New("element not found")
	// ErrReassignment is returned when AssignIDs runs on a tree that
	// already carries identifiers.
	ErrReassignment = errors.New("semantic identifiers already assigned")
)

// AssignIDs walks the tree once in pre-order (children in document
// order) and assigns each element node an identifier of the form
// "{tag}-{n}", where n is the 1-based occurrence count of that tag so
// far. Counters are keyed by tag and local to this call. Text nodes are
// neither counted nor assigned.
//
// Running AssignIDs on a tree that already has any identifier fails
// with ErrReassignment before mutating anything; identifiers are
// assigned exactly once per tree and never overwritten.
func AssignIDs(root *dom.Node) error {
	var stamped *dom.Node
	root.Walk(func(n *dom.Node) bool {
		if n.IsElement() && n.SemanticID != "" && stamped == nil {
			stamped = n
		}
		return stamped == nil
	})
	if stamped != nil {
		return fmt.Errorf("%w: %q", ErrReassignment, stamped.SemanticID)
	}

	counters := make(map[string]int)
	root.Walk(func(n *dom.Node) bool {
		if n.IsElement() {
			counters[n.Tag]++
			n.SemanticID = n.Tag + "-" + strconv.Itoa(counters[n.Tag])
		}
		return true
	})
	return nil
}
