package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgecomet/domcontext/pkg/dom"
)

// buildPage creates body > nav > a > "Home", main > button > "Search".
func buildPage(t *testing.T) *dom.Node {
	t.Helper()
	body := dom.NewElement("body", nil)
	nav := dom.NewElement("nav", nil)
	a := dom.NewElement("a", map[string]string{"href": "/home"})
	a.AppendChild(dom.NewText("Home"))
	nav.AppendChild(a)
	main := dom.NewElement("main", nil)
	button := dom.NewElement("button", map[string]string{"type": "submit"})
	button.AppendChild(dom.NewText("Search"))
	main.AppendChild(button)
	body.AppendChild(nav)
	body.AppendChild(main)
	return body
}

func TestAssignIDs(t *testing.T) {
	root := buildPage(t)
	require.NoError(t, AssignIDs(root))

	assert.Equal(t, "body-1", root.SemanticID)
	assert.Equal(t, "nav-1", root.Children[0].SemanticID)
	assert.Equal(t, "a-1", root.Children[0].Children[0].SemanticID)
	assert.Equal(t, "main-1", root.Children[1].SemanticID)
	assert.Equal(t, "button-1", root.Children[1].Children[0].SemanticID)
}

func TestAssignIDs_PerTagCounters(t *testing.T) {
	// div > (a, div > a, a): counters increment per tag in pre-order.
	root := dom.NewElement("div", nil)
	a1 := dom.NewElement("a", nil)
	inner := dom.NewElement("div", nil)
	a2 := dom.NewElement("a", nil)
	inner.AppendChild(a2)
	a3 := dom.NewElement("a", nil)
	root.AppendChild(a1)
	root.AppendChild(inner)
	root.AppendChild(a3)

	require.NoError(t, AssignIDs(root))

	assert.Equal(t, "div-1", root.SemanticID)
	assert.Equal(t, "a-1", a1.SemanticID)
	assert.Equal(t, "div-2", inner.SemanticID)
	assert.Equal(t, "a-2", a2.SemanticID)
	assert.Equal(t, "a-3", a3.SemanticID)
}

func TestAssignIDs_TextNodesSkipped(t *testing.T) {
	root := dom.NewElement("p", nil)
	text := dom.NewText("hello")
	root.AppendChild(text)
	root.AppendChild(dom.NewElement("span", nil))

	require.NoError(t, AssignIDs(root))

	assert.Empty(t, text.SemanticID)
	assert.Equal(t, "span-1", root.Children[1].SemanticID)
}

func TestAssignIDs_Deterministic(t *testing.T) {
	first := buildPage(t)
	second := buildPage(t)

	require.NoError(t, AssignIDs(first))
	require.NoError(t, AssignIDs(second))

	var ids1, ids2 []string
	first.Walk(func(n *dom.Node) bool {
		if n.IsElement() {
			ids1 = append(ids1, n.SemanticID)
		}
		return true
	})
	second.Walk(func(n *dom.Node) bool {
		if n.IsElement() {
			ids2 = append(ids2, n.SemanticID)
		}
		return true
	})

	assert.Equal(t, ids1, ids2)
}

func TestAssignIDs_Reassignment(t *testing.T) {
	root := buildPage(t)
	require.NoError(t, AssignIDs(root))

	err := AssignIDs(root)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReassignment)

	// The first assignment survives untouched.
	assert.Equal(t, "body-1", root.SemanticID)
}

func TestAssignIDs_ReassignmentDeepStamp(t *testing.T) {
	// A single stamped descendant is enough to refuse the whole tree.
	root := buildPage(t)
	root.Children[1].Children[0].SemanticID = "button-9"

	err := AssignIDs(root)
	assert.ErrorIs(t, err, ErrReassignment)
	assert.Empty(t, root.SemanticID)
}
