package parsers

import (
	"strings"

	"github.com/chromedp/cdproto/domsnapshot"

	"github.com/edgecomet/domcontext/pkg/dom"
)

// DOM node types from the DOM standard, as they appear in snapshots.
const (
	cdpElementNode = 1
	cdpTextNode    = 3
)

// ParseSnapshot decodes a DOMSnapshot.captureSnapshot result into a
// dom.Node tree. Only the first document is read. computedStyles must
// be the whitelist passed in the capture request; layout style arrays
// are mapped onto it positionally. Layout bounds and backend node IDs
// are lifted onto the elements they belong to. An empty snapshot yields
// a bare <html> element.
func ParseSnapshot(snap *domsnapshot.CaptureSnapshotReturns, computedStyles []string) (*dom.Node, error) {
	if snap == nil || len(snap.Documents) == 0 {
		return dom.NewElement("html", nil), nil
	}
	doc := snap.Documents[0]
	if doc == nil || doc.Nodes == nil || len(doc.Nodes.NodeType) == 0 {
		return dom.NewElement("html", nil), nil
	}

	get := func(idx domsnapshot.StringIndex) string {
		i := int(idx)
		if i < 0 || i >= len(snap.Strings) {
			return ""
		}
		return snap.Strings[i]
	}

	nodes := doc.Nodes
	total := len(nodes.NodeType)

	bounds, styles := decodeLayout(doc.Layout, computedStyles, get)

	// First pass: materialize element nodes.
	elements := make([]*dom.Node, total)
	for i := 0; i < total; i++ {
		if nodes.NodeType[i] != cdpElementNode {
			continue
		}
		tag := "unknown"
		if i < len(nodes.NodeName) {
			if name := get(nodes.NodeName[i]); name != "" {
				tag = strings.ToLower(name)
			}
		}
		el := dom.NewElement(tag, decodeAttributes(nodes, i, get))
		if i < len(nodes.BackendNodeID) {
			el.BackendNodeID = int64(nodes.BackendNodeID[i])
		}
		el.Bounds = bounds[i]
		el.Styles = styles[i]
		elements[i] = el
	}

	// Second pass: wire parents and attach text nodes.
	var root *dom.Node
	for i := 0; i < total; i++ {
		parentIdx := -1
		if i < len(nodes.ParentIndex) {
			parentIdx = int(nodes.ParentIndex[i])
		}
		var parent *dom.Node
		if parentIdx >= 0 && parentIdx < total {
			parent = elements[parentIdx]
		}

		switch nodes.NodeType[i] {
		case cdpTextNode:
			if parent == nil || i >= len(nodes.NodeValue) {
				continue
			}
			if content := get(nodes.NodeValue[i]); dom.NormalizeWhitespace(content) != "" {
				parent.AppendChild(dom.NewText(content))
			}
		case cdpElementNode:
			if parent != nil {
				parent.AppendChild(elements[i])
			} else if root == nil {
				// The document node is not materialized, so the
				// top element surfaces here.
				root = elements[i]
			}
		}
	}

	if root == nil {
		for _, el := range elements {
			if el != nil {
				root = el
				break
			}
		}
	}
	if root == nil {
		return dom.NewElement("html", nil), nil
	}
	return root, nil
}

// decodeAttributes reads the flattened name/value pairs for node i.
// Empty names and values are skipped, matching the upstream snapshot
// semantics where absent strings resolve to -1.
func decodeAttributes(nodes *domsnapshot.NodeTreeSnapshot, i int, get func(domsnapshot.StringIndex) string) map[string]string {
	if i >= len(nodes.Attributes) {
		return nil
	}
	pairs := nodes.Attributes[i]
	var attrs map[string]string
	for j := 0; j+1 < len(pairs); j += 2 {
		name := strings.ToLower(get(domsnapshot.StringIndex(pairs[j])))
		value := get(domsnapshot.StringIndex(pairs[j+1]))
		if name == "" || value == "" {
			continue
		}
		if attrs == nil {
			attrs = make(map[string]string)
		}
		attrs[name] = value
	}
	return attrs
}

// decodeLayout builds per-node layout lookups: bounding boxes and the
// computed styles requested at capture time (positional mapping onto
// the whitelist).
func decodeLayout(layout *domsnapshot.LayoutTreeSnapshot, computedStyles []string, get func(domsnapshot.StringIndex) string) (map[int]*dom.Rect, map[int]map[string]string) {
	boundsByNode := make(map[int]*dom.Rect)
	stylesByNode := make(map[int]map[string]string)
	if layout == nil {
		return boundsByNode, stylesByNode
	}

	for i, nodeIdx := range layout.NodeIndex {
		idx := int(nodeIdx)

		if i < len(layout.Bounds) {
			if b := layout.Bounds[i]; len(b) >= 4 {
				boundsByNode[idx] = &dom.Rect{X: b[0], Y: b[1], Width: b[2], Height: b[3]}
			}
		}

		if i < len(layout.Styles) && len(computedStyles) > 0 {
			values := layout.Styles[i]
			var styles map[string]string
			for j, name := range computedStyles {
				if j >= len(values) {
					break
				}
				if v := get(domsnapshot.StringIndex(values[j])); v != "" {
					if styles == nil {
						styles = make(map[string]string)
					}
					styles[strings.ToLower(name)] = v
				}
			}
			if styles != nil {
				stylesByNode[idx] = styles
			}
		}
	}
	return boundsByNode, stylesByNode
}
