// Package parsers builds filtered-tree input from external
// representations: raw HTML strings and CDP DOM snapshots. Both
// adapters produce plain dom.Node trees; everything downstream is
// representation-agnostic.
package parsers

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/edgecomet/domcontext/pkg/dom"
)

// Dataset-convention attributes lifted onto the node instead of being
// kept as markup (Mind2Web embeds CDP handles and layout boxes this way).
const (
	backendNodeIDAttr = "backend_node_id"
	boundingBoxAttr   = "bounding_box_rect"
)

// ParseHTML parses an HTML string into a dom.Node tree. Comments and
// doctypes are dropped; whitespace-only text is skipped. Empty input
// yields a bare <html> element.
func ParseHTML(src string) (*dom.Node, error) {
	if strings.TrimSpace(src) == "" {
		return dom.NewElement("html", nil), nil
	}

	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, err
	}

	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			if root := convertHTMLNode(c); root != nil {
				return root, nil
			}
		}
	}
	return dom.NewElement("html", nil), nil
}

// convertHTMLNode maps one x/net/html node (and subtree) to dom.Node.
// Returns nil for nodes with no representation (comments, empty text).
func convertHTMLNode(n *html.Node) *dom.Node {
	switch n.Type {
	case html.TextNode:
		if dom.NormalizeWhitespace(n.Data) == "" {
			return nil
		}
		return dom.NewText(n.Data)

	case html.ElementNode:
		tag := strings.ToLower(n.Data)

		// Mind2Web wraps text content in custom <text> elements.
		if tag == "text" {
			var sb strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					sb.WriteString(c.Data)
				}
			}
			if dom.NormalizeWhitespace(sb.String()) == "" {
				return nil
			}
			return dom.NewText(sb.String())
		}

		node := dom.NewElement(tag, nil)
		for _, attr := range n.Attr {
			key := strings.ToLower(attr.Key)
			switch key {
			case backendNodeIDAttr:
				if id, err := strconv.ParseInt(strings.TrimSpace(attr.Val), 10, 64); err == nil {
					node.BackendNodeID = id
				}
			case boundingBoxAttr:
				node.Bounds = parseBoundingBox(attr.Val)
			default:
				if node.Attributes == nil {
					node.Attributes = make(map[string]string)
				}
				node.Attributes[key] = attr.Val
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := convertHTMLNode(c); child != nil {
				node.AppendChild(child)
			}
		}
		return node

	default:
		return nil
	}
}

// parseBoundingBox reads the "x,y,width,height" attribute format.
// Returns nil for anything malformed.
func parseBoundingBox(s string) *dom.Rect {
	parts := strings.Split(s, ",")
	if len(parts) < 4 {
		return nil
	}
	vals := make([]float64, 4)
	for i := 0; i < 4; i++ {
		f, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return nil
		}
		vals[i] = f
	}
	return &dom.Rect{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}
}
