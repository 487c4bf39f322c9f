// Package filters reduces a raw parsed tree to its semantically
// meaningful, visible nodes. Every pass is non-destructive: it builds a
// new tree of shallow clones, so the input tree and its backend node
// handles survive untouched.
package filters

import (
	"strconv"
	"strings"

	"github.com/edgecomet/domcontext/pkg/dom"
)

// Options toggle individual passes. The zero value disables everything;
// use DefaultOptions for the standard pipeline.
type Options struct {
	NonVisibleTags   bool
	CSSHidden        bool
	ZeroDimensions   bool
	Attributes       bool
	Empty            bool
	CollapseWrappers bool
}

// DefaultOptions enables every pass.
func DefaultOptions() Options {
	return Options{
		NonVisibleTags:   true,
		CSSHidden:        true,
		ZeroDimensions:   true,
		Attributes:       true,
		Empty:            true,
		CollapseWrappers: true,
	}
}

// Apply runs the enabled passes in pipeline order: visibility first
// (non-visible tags, CSS hidden, zero dimensions), then semantic
// (attribute allowlist, presentational roles, empty nodes, wrapper
// collapsing). Returns nil when nothing visible remains.
func Apply(root *dom.Node, opts Options) *dom.Node {
	out := root
	if opts.NonVisibleTags {
		if out = dropNonVisibleTags(out); out == nil {
			return nil
		}
	}
	if opts.CSSHidden {
		if out = dropCSSHidden(out); out == nil {
			return nil
		}
	}
	if opts.ZeroDimensions {
		if out = dropZeroDimensions(out); out == nil {
			return nil
		}
	}
	if opts.Attributes {
		if out = filterAttributes(out); out == nil {
			return nil
		}
	}
	// Presentational roles are always removed once semantic filtering
	// is in play; they carry no meaning for an LLM.
	if opts.Attributes || opts.Empty || opts.CollapseWrappers {
		if out = dropPresentational(out); out == nil {
			return nil
		}
	}
	if opts.Empty {
		if out = dropEmpty(out); out == nil {
			return nil
		}
	}
	if opts.CollapseWrappers {
		if out = collapseWrappers(out); out == nil {
			return nil
		}
	}
	return out
}

// nonVisibleTags are never part of the rendered page.
var nonVisibleTags = map[string]bool{
	"script":   true,
	"style":    true,
	"head":     true,
	"meta":     true,
	"link":     true,
	"title":    true,
	"noscript": true,
}

func dropNonVisibleTags(n *dom.Node) *dom.Node {
	if n.IsText() {
		return n.CloneShallow()
	}
	if nonVisibleTags[n.Tag] {
		return nil
	}
	out := n.CloneShallow()
	for _, c := range n.Children {
		if kept := dropNonVisibleTags(c); kept != nil {
			out.AppendChild(kept)
		}
	}
	return out
}

func dropCSSHidden(n *dom.Node) *dom.Node {
	if n.IsText() {
		return n.CloneShallow()
	}
	if isCSSHidden(n) {
		return nil
	}
	out := n.CloneShallow()
	for _, c := range n.Children {
		if kept := dropCSSHidden(c); kept != nil {
			out.AppendChild(kept)
		}
	}
	return out
}

// isCSSHidden checks computed styles with the inline style attribute
// taking precedence, plus the hidden attribute and hidden inputs.
func isCSSHidden(n *dom.Node) bool {
	display := strings.ToLower(n.Styles["display"])
	visibility := strings.ToLower(n.Styles["visibility"])
	opacity := n.Styles["opacity"]

	if inline := n.Attributes["style"]; inline != "" {
		styles := ParseInlineStyle(inline)
		if v, ok := styles["display"]; ok {
			display = v
		}
		if v, ok := styles["visibility"]; ok {
			visibility = v
		}
		if v, ok := styles["opacity"]; ok {
			opacity = v
		}
	}

	if display == "none" || visibility == "hidden" {
		return true
	}
	if opacity != "" {
		if f, err := strconv.ParseFloat(opacity, 64); err == nil && f == 0 {
			return true
		}
	}
	if _, ok := n.Attributes["hidden"]; ok {
		return true
	}
	if n.Tag == "input" && strings.EqualFold(n.Attributes["type"], "hidden") {
		return true
	}
	return false
}

// dropZeroDimensions removes elements whose layout box has no area,
// bottom-up: a zero-size container is kept while any visible child
// remains (absolutely positioned popups live in zero-size parents).
func dropZeroDimensions(n *dom.Node) *dom.Node {
	if n.IsText() {
		return n.CloneShallow()
	}
	out := n.CloneShallow()
	for _, c := range n.Children {
		if kept := dropZeroDimensions(c); kept != nil {
			out.AppendChild(kept)
		}
	}
	if n.Bounds != nil && (n.Bounds.Width <= 0 || n.Bounds.Height <= 0) && len(out.Children) == 0 {
		return nil
	}
	return out
}

// ParseInlineStyle splits a style attribute ("display:none;color:red")
// into lowercased property/value pairs.
func ParseInlineStyle(attr string) map[string]string {
	styles := make(map[string]string)
	for _, decl := range strings.Split(attr, ";") {
		prop, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		if prop != "" {
			styles[prop] = strings.ToLower(strings.TrimSpace(value))
		}
	}
	return styles
}
