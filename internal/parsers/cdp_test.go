package parsers

import (
	"testing"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/domsnapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgecomet/domcontext/pkg/dom"
)

// sampleSnapshot builds a captured page the way Chrome serializes it:
// parallel arrays over a shared string table, document node first.
//
//	#document > html > body > (a[href=/home] > "Home", div)
//
// The a has layout bounds and block/visible styles; the div is laid out
// at zero size with display:none. A whitespace text node sits in body.
func sampleSnapshot() *domsnapshot.CaptureSnapshotReturns {
	strs := []string{
		"#document", // 0
		"HTML",      // 1
		"BODY",      // 2
		"A",         // 3
		"href",      // 4
		"/home",     // 5
		"#text",     // 6
		"Home",      // 7
		"   ",       // 8
		"DIV",       // 9
		"none",      // 10
		"visible",   // 11
		"block",     // 12
	}

	nodes := &domsnapshot.NodeTreeSnapshot{
		ParentIndex: []int64{-1, 0, 1, 2, 3, 2, 2},
		NodeType:    []int64{9, 1, 1, 1, 3, 3, 1},
		NodeName: []domsnapshot.StringIndex{
			0, 1, 2, 3, 6, 6, 9,
		},
		NodeValue: []domsnapshot.StringIndex{
			-1, -1, -1, -1, 7, 8, -1,
		},
		BackendNodeID: []cdp.BackendNodeID{0, 10, 11, 12, 0, 0, 13},
		Attributes: []domsnapshot.ArrayOfStrings{
			nil, nil, nil, {4, 5}, nil, nil, nil,
		},
	}

	layout := &domsnapshot.LayoutTreeSnapshot{
		NodeIndex: []int64{3, 6},
		Bounds: []domsnapshot.Rectangle{
			{0, 0, 100, 20},
			{5, 5, 0, 0},
		},
		Styles: []domsnapshot.ArrayOfStrings{
			{12, 11},
			{10, -1},
		},
	}

	return &domsnapshot.CaptureSnapshotReturns{
		Documents: []*domsnapshot.DocumentSnapshot{
			{Nodes: nodes, Layout: layout},
		},
		Strings: strs,
	}
}

var snapshotStyles = []string{"display", "visibility"}

func TestParseSnapshot_Empty(t *testing.T) {
	for _, snap := range []*domsnapshot.CaptureSnapshotReturns{
		nil,
		{},
		{Documents: []*domsnapshot.DocumentSnapshot{{}}},
	} {
		root, err := ParseSnapshot(snap, nil)
		require.NoError(t, err)
		assert.Equal(t, "html", root.Tag)
		assert.Empty(t, root.Children)
	}
}

func TestParseSnapshot_Tree(t *testing.T) {
	root, err := ParseSnapshot(sampleSnapshot(), snapshotStyles)
	require.NoError(t, err)

	assert.Equal(t, "html", root.Tag)
	assert.Equal(t, int64(10), root.BackendNodeID)
	require.Len(t, root.Children, 1)

	body := root.Children[0]
	assert.Equal(t, "body", body.Tag)

	// Whitespace text is skipped: only a and div remain.
	require.Len(t, body.Children, 2)
	a, div := body.Children[0], body.Children[1]

	assert.Equal(t, "a", a.Tag)
	assert.Equal(t, int64(12), a.BackendNodeID)
	assert.Equal(t, map[string]string{"href": "/home"}, a.Attributes)
	assert.Equal(t, "Home", a.Text())
	assert.Same(t, body, a.Parent())

	assert.Equal(t, "div", div.Tag)
	assert.Equal(t, int64(13), div.BackendNodeID)
}

func TestParseSnapshot_LayoutLifted(t *testing.T) {
	root, err := ParseSnapshot(sampleSnapshot(), snapshotStyles)
	require.NoError(t, err)

	body := root.Children[0]
	a, div := body.Children[0], body.Children[1]

	require.NotNil(t, a.Bounds)
	assert.Equal(t, &dom.Rect{X: 0, Y: 0, Width: 100, Height: 20}, a.Bounds)
	assert.Equal(t, map[string]string{"display": "block", "visibility": "visible"}, a.Styles)

	require.NotNil(t, div.Bounds)
	assert.Equal(t, &dom.Rect{X: 5, Y: 5, Width: 0, Height: 0}, div.Bounds)
	// The -1 visibility entry resolves to nothing; only display lands.
	assert.Equal(t, map[string]string{"display": "none"}, div.Styles)

	// Nodes without layout rows carry neither bounds nor styles.
	assert.Nil(t, body.Bounds)
	assert.Nil(t, body.Styles)
}

func TestParseSnapshot_NoStyleWhitelist(t *testing.T) {
	root, err := ParseSnapshot(sampleSnapshot(), nil)
	require.NoError(t, err)

	a := root.Children[0].Children[0]
	require.NotNil(t, a.Bounds)
	assert.Nil(t, a.Styles)
}

func TestDecodeAttributes_SkipsDanglingAndEmpty(t *testing.T) {
	strs := []string{"href", "/x", "", "title"}
	get := func(idx domsnapshot.StringIndex) string {
		i := int(idx)
		if i < 0 || i >= len(strs) {
			return ""
		}
		return strs[i]
	}
	nodes := &domsnapshot.NodeTreeSnapshot{
		Attributes: []domsnapshot.ArrayOfStrings{
			{0, 1, 3, -1, 2, 1, 0}, // title has no value, "" name skipped, dangling pair dropped
		},
	}

	attrs := decodeAttributes(nodes, 0, get)
	assert.Equal(t, map[string]string{"href": "/x"}, attrs)

	assert.Nil(t, decodeAttributes(nodes, 5, get))
}
