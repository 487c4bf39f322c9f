package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgecomet/domcontext/internal/semantic"
	"github.com/edgecomet/domcontext/pkg/dom"
)

// buildPage creates the canonical sample page, identifiers assigned:
// body > nav > a[href=/home] > "Home", main > button[type=submit] > "Search".
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
	require.NoError(t, semantic.AssignIDs(body))
	return body
}

func TestRender_CanonicalPage(t *testing.T) {
	want := strings.Join([]string{
		`- body-1`,
		`  - nav-1`,
		`    - a-1 (href="/home")`,
		`      - "Home"`,
		`  - main-1`,
		`    - button-1 (type="submit")`,
		`      - "Search"`,
	}, "\n")

	assert.Equal(t, want, Render(buildPage(t)))
}

func TestRender_Pure(t *testing.T) {
	root := buildPage(t)
	assert.Equal(t, Render(root), Render(root))
}

func TestRender_SubtreeStartsAtDepthZero(t *testing.T) {
	root := buildPage(t)
	button := root.Children[1].Children[0]

	want := "- button-1 (type=\"submit\")\n  - \"Search\""
	assert.Equal(t, want, Render(button))
}

func TestRender_AttributesSortedAndCommaJoined(t *testing.T) {
	n := dom.NewElement("input", map[string]string{
		"type":        "text",
		"name":        "q",
		"placeholder": "Search...",
	})
	n.SemanticID = "input-1"

	want := `- input-1 (name="q", placeholder="Search...", type="text")`
	assert.Equal(t, want, Render(n))
}

func TestRender_FallsBackToTagWithoutID(t *testing.T) {
	n := dom.NewElement("div", nil)
	assert.Equal(t, "- div", Render(n))
}

func TestRender_TextEscaping(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "embedded quotes",
			text: `say "hi"`,
			want: `- "say \"hi\""`,
		},
		{
			name: "backslash",
			text: `C:\path`,
			want: `- "C:\\path"`,
		},
		{
			name: "whitespace collapsed",
			text: "  multi \n line\ttext  ",
			want: `- "multi line text"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := dom.NewElement("p", nil)
			root.SemanticID = "p-1"
			root.AppendChild(dom.NewText(tt.text))

			lines := strings.Split(Render(root), "\n")
			require.Len(t, lines, 2)
			assert.Equal(t, "  "+tt.want, lines[1])
		})
	}
}

func TestRender_EmptyTextProducesNoLine(t *testing.T) {
	root := dom.NewElement("p", nil)
	root.SemanticID = "p-1"
	root.AppendChild(dom.NewText("  \n  "))

	assert.Equal(t, "- p-1", Render(root))
}

func TestRender_AttributeValueEscaped(t *testing.T) {
	n := dom.NewElement("img", map[string]string{"alt": `a "quoted"  alt`})
	n.SemanticID = "img-1"

	assert.Equal(t, `- img-1 (alt="a \"quoted\" alt")`, Render(n))
}

func TestLines(t *testing.T) {
	root := buildPage(t)
	lines := Lines(root)
	require.Len(t, lines, 7)

	// One line per node, depth below render root.
	assert.Equal(t, 0, lines[0].Depth)
	assert.Equal(t, "- body-1", lines[0].Text)
	assert.Empty(t, lines[0].Path)

	// "Home" text line: depth 3, path body-1 > nav-1 > a-1.
	home := lines[3]
	assert.Equal(t, 3, home.Depth)
	assert.Equal(t, `      - "Home"`, home.Text)
	assert.Equal(t, []string{"body-1", "nav-1", "a-1"}, home.Path)

	// main-1: depth 1, path body-1.
	main := lines[4]
	assert.Equal(t, "  - main-1", main.Text)
	assert.Equal(t, []string{"body-1"}, main.Path)
	assert.Same(t, root.Children[1], main.Node)
}

func TestLines_JoinMatchesRender(t *testing.T) {
	root := buildPage(t)
	lines := Lines(root)

	texts := make([]string, len(lines))
	for i, ln := range lines {
		texts[i] = ln.Text
	}
	assert.Equal(t, Render(root), strings.Join(texts, "\n"))
}
