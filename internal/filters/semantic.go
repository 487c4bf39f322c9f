package filters

import (
	"strings"

	"github.com/edgecomet/domcontext/pkg/dom"
)

// semanticAttributes is the allowlist kept on filtered elements.
var semanticAttributes = map[string]bool{
	"role":             true,
	"aria-label":       true,
	"aria-labelledby":  true,
	"aria-describedby": true,
	"aria-checked":     true,
	"aria-selected":    true,
	"aria-expanded":    true,
	"type":             true,
	"name":             true,
	"placeholder":      true,
	"value":            true,
	"alt":              true,
	"title":            true,
	"href":             true,
}

// interactiveTags stay even when stripped of every attribute.
var interactiveTags = map[string]bool{
	"a":        true,
	"button":   true,
	"input":    true,
	"select":   true,
	"textarea": true,
	"label":    true,
}

// presentationalRoles mark elements (and their markup role) as
// meaningless to assistive tech and LLMs alike.
var presentationalRoles = map[string]bool{
	"none":         true,
	"presentation": true,
}

// filterAttributes keeps only allowlisted attributes and drops subtrees
// hidden from the accessibility tree (aria-hidden="true").
func filterAttributes(n *dom.Node) *dom.Node {
	if n.IsText() {
		if dom.NormalizeWhitespace(n.Content) == "" {
			return nil
		}
		return n.CloneShallow()
	}
	if strings.EqualFold(n.Attributes["aria-hidden"], "true") {
		return nil
	}

	out := n.CloneShallow()
	out.Attributes = nil
	for k, v := range n.Attributes {
		if semanticAttributes[strings.ToLower(k)] {
			if out.Attributes == nil {
				out.Attributes = make(map[string]string)
			}
			out.Attributes[strings.ToLower(k)] = v
		}
	}
	for _, c := range n.Children {
		if kept := filterAttributes(c); kept != nil {
			out.AppendChild(kept)
		}
	}
	return out
}

// dropPresentational removes elements with role="none"/"presentation",
// promoting nothing: their children go with them only if the element
// itself is removed, matching how browsers prune the accessibility
// tree for subtree-less presentational nodes. Children are preserved
// by lifting them into the removed element's parent.
func dropPresentational(n *dom.Node) *dom.Node {
	if n.IsText() {
		return n.CloneShallow()
	}
	out := n.CloneShallow()
	for _, c := range n.Children {
		kept := dropPresentational(c)
		if kept == nil {
			continue
		}
		if kept.IsElement() && presentationalRoles[strings.ToLower(kept.Attributes["role"])] {
			// Lift grandchildren past the presentational wrapper.
			for _, gc := range kept.Children {
				out.AppendChild(gc)
			}
			continue
		}
		out.AppendChild(kept)
	}
	if presentationalRoles[strings.ToLower(out.Attributes["role"])] && n.Parent() == nil {
		// Presentational root: nothing meaningful remains above it.
		if len(out.Children) == 1 && out.Children[0].IsElement() {
			promoted := out.Children[0]
			promoted.Detach()
			return promoted
		}
	}
	return out
}

// dropEmpty removes, bottom-up, elements with no attributes and no
// surviving children, except interactive tags which stay regardless.
func dropEmpty(n *dom.Node) *dom.Node {
	if n.IsText() {
		if dom.NormalizeWhitespace(n.Content) == "" {
			return nil
		}
		return n.CloneShallow()
	}
	out := n.CloneShallow()
	for _, c := range n.Children {
		if kept := dropEmpty(c); kept != nil {
			out.AppendChild(kept)
		}
	}
	if len(out.Attributes) == 0 && len(out.Children) == 0 && !interactiveTags[out.Tag] {
		return nil
	}
	return out
}

// collapseWrappers promotes the single element child of attribute-less
// wrappers, bottom-up, as long as no meaningful text sits alongside it.
func collapseWrappers(n *dom.Node) *dom.Node {
	if n.IsText() {
		return n.CloneShallow()
	}
	out := n.CloneShallow()
	for _, c := range n.Children {
		if kept := collapseWrappers(c); kept != nil {
			out.AppendChild(kept)
		}
	}
	if len(out.Attributes) == 0 {
		var elements []*dom.Node
		hasText := false
		for _, c := range out.Children {
			if c.IsElement() {
				elements = append(elements, c)
			} else if dom.NormalizeWhitespace(c.Content) != "" {
				hasText = true
			}
		}
		if len(elements) == 1 && !hasText {
			elements[0].Detach()
			return elements[0]
		}
	}
	return out
}
