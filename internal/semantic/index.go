package semantic

import (
	"fmt"

	"github.com/edgecomet/domcontext/pkg/dom"
)

// Index is a flat, queryable view over an identifier-stamped tree:
// identifier → node, plus document-order enumeration with optional tag
// filtering. Built once after AssignIDs and never mutated.
type Index struct {
	byID    map[string]*dom.Node
	ordered []*dom.Node
}

// BuildIndex collects every element node in one pre-order traversal.
// It must run after AssignIDs so that byID reflects exactly the
// identifiers stamped on the tree.
func BuildIndex(root *dom.Node) *Index {
	idx := &Index{byID: make(map[string]*dom.Node)}
	root.Walk(func(n *dom.Node) bool {
		if n.IsElement() {
			idx.ordered = append(idx.ordered, n)
			if n.SemanticID != "" {
				idx.byID[n.SemanticID] = n
			}
		}
		return true
	})
	return idx
}

// Get returns the element with the given semantic identifier.
// Unknown identifiers fail with ErrNotFound, never a nil result.
func (idx *Index) Get(id string) (*dom.Node, error) {
	n, ok := idx.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return n, nil
}

// Elements returns elements in document order. An empty tag returns
// all elements; otherwise only elements with that tag (lowercase).
func (idx *Index) Elements(tag string) []*dom.Node {
	if tag == "" {
		out := make([]*dom.Node, len(idx.ordered))
		copy(out, idx.ordered)
		return out
	}
	var out []*dom.Node
	for _, n := range idx.ordered {
		if n.Tag == tag {
			out = append(out, n)
		}
	}
	return out
}

// Len returns the number of indexed elements.
func (idx *Index) Len() int {
	return len(idx.ordered)
}
