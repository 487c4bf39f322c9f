// Package dom defines the filtered DOM tree consumed by domcontext.
//
// The tree is the boundary contract with upstream producers: any parser
// or filter that can build a finite, acyclic, ordered tree of Element
// and Text nodes can feed this library. Ownership is strictly top-down
// (a parent owns its Children); the parent link is a non-owning
// back-reference used only for navigation.
package dom

import "strings"

// NodeType discriminates the two node variants.
type NodeType int

const (
	// ElementNode is a tagged element with attributes and children.
	ElementNode NodeType = iota + 1
	// TextNode is a leaf carrying text content.
	TextNode
)

// Rect is a layout bounding box in CSS pixels.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Node is a single node of the filtered tree.
//
// Element nodes use Tag, Attributes, Children and may carry layout data
// (Styles, Bounds) plus an opaque BackendNodeID from the originating
// CDP snapshot. Text nodes use Content only.
type Node struct {
	Type       NodeType
	Tag        string
	Attributes map[string]string
	Content    string
	Children   []*Node

	// SemanticID is assigned once by the identifier pass ("button-1").
	// Empty until the tree is wrapped in a Context.
	SemanticID string

	// BackendNodeID is the origin handle from CDP, 0 when absent.
	// Carried through filtering unchanged.
	BackendNodeID int64

	// Styles holds computed styles captured at snapshot time.
	// Used only by visibility filtering, nil for parsed HTML.
	Styles map[string]string

	// Bounds holds layout dimensions, nil when unknown.
	Bounds *Rect

	parent *Node
}

// NewElement creates an element node. attrs may be nil.
func NewElement(tag string, attrs map[string]string) *Node {
	return &Node{
		Type:       ElementNode,
		Tag:        strings.ToLower(tag),
		Attributes: attrs,
	}
}

// NewText creates a text node.
func NewText(content string) *Node {
	return &Node{
		Type:    TextNode,
		Content: content,
	}
}

// AppendChild attaches c as the last child of n and sets its parent link.
func (n *Node) AppendChild(c *Node) {
	c.parent = n
	n.Children = append(n.Children, c)
}

// Parent returns the parent node, nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Detach clears the parent link, making n a root. The old parent's
// child list is left alone; callers promoting a node out of a discarded
// wrapper are expected to drop the wrapper entirely.
func (n *Node) Detach() {
	n.parent = nil
}

// IsElement reports whether n is an element node.
func (n *Node) IsElement() bool {
	return n.Type == ElementNode
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool {
	return n.Type == TextNode
}

// ElementChildren returns only the element children of n, in order.
func (n *Node) ElementChildren() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.IsElement() {
			out = append(out, c)
		}
	}
	return out
}

// Text returns the concatenated text content of n and its descendants,
// like innerText: each text node is whitespace-normalized (runs of
// whitespace collapsed to one space, trimmed) and non-empty pieces are
// joined with a single space, in document order.
func (n *Node) Text() string {
	var pieces []string
	var collect func(*Node)
	collect = func(cur *Node) {
		if cur.IsText() {
			if t := NormalizeWhitespace(cur.Content); t != "" {
				pieces = append(pieces, t)
			}
			return
		}
		for _, c := range cur.Children {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(pieces, " ")
}

// Walk visits n and every descendant in pre-order, children in document
// order. Returning false from fn stops descent into that subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// CloneShallow copies the node's own data without children or parent.
// Attribute and style maps are copied, not shared.
func (n *Node) CloneShallow() *Node {
	out := &Node{
		Type:          n.Type,
		Tag:           n.Tag,
		Content:       n.Content,
		SemanticID:    n.SemanticID,
		BackendNodeID: n.BackendNodeID,
	}
	if n.Attributes != nil {
		out.Attributes = make(map[string]string, len(n.Attributes))
		for k, v := range n.Attributes {
			out.Attributes[k] = v
		}
	}
	if n.Styles != nil {
		out.Styles = make(map[string]string, len(n.Styles))
		for k, v := range n.Styles {
			out.Styles[k] = v
		}
	}
	if n.Bounds != nil {
		b := *n.Bounds
		out.Bounds = &b
	}
	return out
}

// NormalizeWhitespace collapses every run of Unicode whitespace to a
// single space and trims leading/trailing whitespace. This is the one
// normalization rule applied to text content and attribute values
// throughout serialization.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
