// Package markdown renders a filtered tree into the canonical indented
// outline format, one line per node. The grammar is byte-exact:
//
//	- body-1
//	  - nav-1 (aria-label="Main")
//	    - a-1 (href="/home")
//	      - "Home"
//
// Rules (fixed, consumers may rely on them):
//   - indentation is two spaces per depth below the render root;
//   - element lines are "- {semantic id}" (tag when no id is assigned),
//     followed, when attributes exist, by a space and parenthesized
//     key="value" pairs sorted lexically by key and joined with ", ";
//   - text lines are "- \"{content}\"";
//   - text content and attribute values have whitespace runs collapsed
//     to a single space, are trimmed, and have backslashes and double
//     quotes escaped.
package markdown

import (
	"sort"
	"strings"

	"github.com/edgecomet/domcontext/pkg/dom"
)

const indentUnit = "  "

var escaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Line is one rendered node: the serializer's unit of output and the
// chunker's unit of packing. Chunk boundaries only ever fall between
// Lines, never inside one.
type Line struct {
	// Text is the fully rendered line, indentation included, without a
	// trailing newline.
	Text string
	// Depth is the nesting depth below the render root (root = 0).
	Depth int
	// Node is the source node this line renders.
	Node *dom.Node
	// Path holds the semantic identifiers of the enclosing elements,
	// render root first, immediate parent last. Empty for the root line.
	Path []string
}

// Lines renders the subtree rooted at root into its ordered line
// sequence. Pure: the same subtree always yields the same lines.
func Lines(root *dom.Node) []Line {
	var out []Line
	var path []string

	var walk func(n *dom.Node, depth int)
	walk = func(n *dom.Node, depth int) {
		text, ok := renderLine(n, depth)
		if !ok {
			return
		}
		out = append(out, Line{
			Text:  text,
			Depth: depth,
			Node:  n,
			Path:  append([]string(nil), path...),
		})
		if n.IsText() {
			return
		}
		path = append(path, elementLabel(n))
		for _, c := range n.Children {
			walk(c, depth+1)
		}
		path = path[:len(path)-1]
	}
	walk(root, 0)
	return out
}

// Render serializes the subtree rooted at root. Lines are joined with
// newlines; there is no trailing newline.
func Render(root *dom.Node) string {
	lines := Lines(root)
	texts := make([]string, len(lines))
	for i, ln := range lines {
		texts[i] = ln.Text
	}
	return strings.Join(texts, "\n")
}

// renderLine formats a single node. Text nodes that normalize to the
// empty string produce no line.
func renderLine(n *dom.Node, depth int) (string, bool) {
	var sb strings.Builder
	for i := 0; i < depth; i++ {
		sb.WriteString(indentUnit)
	}
	sb.WriteString("- ")

	if n.IsText() {
		content := Escape(n.Content)
		if content == "" {
			return "", false
		}
		sb.WriteByte('"')
		sb.WriteString(content)
		sb.WriteByte('"')
		return sb.String(), true
	}

	sb.WriteString(elementLabel(n))
	if len(n.Attributes) > 0 {
		sb.WriteString(" (")
		sb.WriteString(formatAttributes(n.Attributes))
		sb.WriteByte(')')
	}
	return sb.String(), true
}

// elementLabel is the semantic identifier, falling back to the tag for
// trees serialized before assignment.
func elementLabel(n *dom.Node) string {
	if n.SemanticID != "" {
		return n.SemanticID
	}
	return n.Tag
}

// formatAttributes renders key="value" pairs sorted lexically by key,
// joined with ", ".
func formatAttributes(attrs map[string]string) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k)
		sb.WriteString(`="`)
		sb.WriteString(Escape(attrs[k]))
		sb.WriteByte('"')
	}
	return sb.String()
}

// Escape applies the documented normalization: whitespace runs collapse
// to one space, the result is trimmed, backslashes and double quotes
// are escaped.
func Escape(s string) string {
	return escaper.Replace(dom.NormalizeWhitespace(s))
}
