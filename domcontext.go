// Package domcontext converts an already-filtered DOM tree into a
// compact, LLM-consumable representation: stable human-readable element
// identifiers, a canonical markdown outline, token counting via a
// pluggable tokenizer, and token-budget-aware chunking.
//
// The usual entry points are FromHTML and FromCDP, which run the full
// parse-and-filter pipeline; New accepts a tree that an external
// collaborator has already filtered.
//
//	ctx, err := domcontext.FromHTML(html, nil, domcontext.DefaultFilterOptions())
//	...
//	fmt.Println(ctx.Markdown())
//	btn, err := ctx.Element("button-1")
package domcontext

import (
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/domsnapshot"

	"github.com/edgecomet/domcontext/internal/chunker"
	"github.com/edgecomet/domcontext/internal/filters"
	"github.com/edgecomet/domcontext/internal/markdown"
	"github.com/edgecomet/domcontext/internal/parsers"
	"github.com/edgecomet/domcontext/internal/semantic"
	"github.com/edgecomet/domcontext/pkg/dom"
)

// FilterOptions toggle the passes applied by FromHTML and FromCDP
// before the tree is wrapped. New ignores them: its input is already
// filtered by contract.
type FilterOptions struct {
	NonVisibleTags   bool // drop script, style, head, meta, link, title, noscript
	CSSHidden        bool // drop display:none, visibility:hidden, opacity:0, [hidden]
	ZeroDimensions   bool // drop zero-size elements without visible children
	Attributes       bool // keep only semantic attributes, drop aria-hidden subtrees
	Empty            bool // drop attribute-less childless non-interactive elements
	CollapseWrappers bool // promote single children of attribute-less wrappers
}

// DefaultFilterOptions enables every pass.
func DefaultFilterOptions() FilterOptions {
	return FilterOptions{
		NonVisibleTags:   true,
		CSSHidden:        true,
		ZeroDimensions:   true,
		Attributes:       true,
		Empty:            true,
		CollapseWrappers: true,
	}
}

func (o FilterOptions) internal() filters.Options {
	return filters.Options{
		NonVisibleTags:   o.NonVisibleTags,
		CSSHidden:        o.CSSHidden,
		ZeroDimensions:   o.ZeroDimensions,
		Attributes:       o.Attributes,
		Empty:            o.Empty,
		CollapseWrappers: o.CollapseWrappers,
	}
}

// Context wraps a filtered tree and exposes markdown, token counts,
// chunking, and element lookup. Construction completes identifier
// assignment and index building before the Context is returned, so a
// published Context is never partially initialized. The tree is treated
// as immutable from then on; derived values are cached forever.
//
// A Context is not safe for concurrent use (lazy caches are unguarded,
// matching the single-threaded model of the pipeline). Independent
// Contexts share nothing and may be used from different goroutines.
type Context struct {
	root      *dom.Node
	index     *semantic.Index
	tokenizer Tokenizer

	lineCache     []markdown.Line
	markdownCache *string
	tokenCache    *int
}

// New wraps an externally filtered tree: assigns semantic identifiers
// (failing with ErrReassignment if the tree is already stamped) and
// builds the element index. A nil tokenizer selects the reference
// tiktoken tokenizer with DefaultEncoding.
func New(root *dom.Node, tok Tokenizer) (*Context, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: nil root", ErrInvalidConfiguration)
	}
	if tok == nil {
		t, err := NewTiktokenTokenizer(DefaultEncoding)
		if err != nil {
			return nil, err
		}
		tok = t
	}
	if err := semantic.AssignIDs(root); err != nil {
		return nil, err
	}
	return &Context{
		root:      root,
		index:     semantic.BuildIndex(root),
		tokenizer: tok,
	}, nil
}

// FromHTML parses an HTML string, runs the filter pipeline, and wraps
// the result. Returns ErrEmptyTree when filtering removes everything.
func FromHTML(src string, tok Tokenizer, opts FilterOptions) (*Context, error) {
	root, err := parsers.ParseHTML(src)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return wrapFiltered(root, tok, opts)
}

// FromCDP decodes a DOMSnapshot.captureSnapshot result, runs the filter
// pipeline, and wraps the result. computedStyles must match the
// whitelist used in the capture request (it positions the layout style
// arrays); pass nil when styles were not captured.
func FromCDP(snap *domsnapshot.CaptureSnapshotReturns, computedStyles []string, tok Tokenizer, opts FilterOptions) (*Context, error) {
	root, err := parsers.ParseSnapshot(snap, computedStyles)
	if err != nil {
		return nil, fmt.Errorf("parse cdp snapshot: %w", err)
	}
	return wrapFiltered(root, tok, opts)
}

func wrapFiltered(root *dom.Node, tok Tokenizer, opts FilterOptions) (*Context, error) {
	filtered := filters.Apply(root, opts.internal())
	if filtered == nil {
		return nil, ErrEmptyTree
	}
	return New(filtered, tok)
}

// Root returns the wrapped tree's root node.
func (c *Context) Root() *dom.Node {
	return c.root
}

// lines returns the serialized line view, rendered once and cached.
// Both Markdown and Chunks derive from it.
func (c *Context) lines() []markdown.Line {
	if c.lineCache == nil {
		c.lineCache = markdown.Lines(c.root)
	}
	return c.lineCache
}

// Markdown returns the canonical serialization of the whole tree.
// Computed once, cached for the Context's lifetime; repeated calls are
// byte-identical.
func (c *Context) Markdown() string {
	if c.markdownCache == nil {
		lines := c.lines()
		texts := make([]string, len(lines))
		for i, ln := range lines {
			texts[i] = ln.Text
		}
		md := strings.Join(texts, "\n")
		c.markdownCache = &md
	}
	return *c.markdownCache
}

// Tokens returns the token count of the full markdown, measured over
// the complete text so that formatting overhead is included. Cached.
// A tokenizer returning a negative count is reported as
// ErrInvalidConfiguration.
func (c *Context) Tokens() (int, error) {
	if c.tokenCache == nil {
		n := c.tokenizer.CountTokens(c.Markdown())
		if n < 0 {
			return 0, fmt.Errorf("%w: tokenizer returned %d", ErrInvalidConfiguration, n)
		}
		c.tokenCache = &n
	}
	return *c.tokenCache, nil
}

// Chunks splits the serialized tree into an ordered sequence of chunks
// within opts.MaxTokens, with opts.Overlap tokens of repeated trailing
// context between consecutive chunks. Stateless over the cached
// serialization: identical options always yield identical chunks.
func (c *Context) Chunks(opts ChunkOptions) ([]Chunk, error) {
	raw, err := chunker.Split(c.lines(), c.tokenizer, chunker.Options{
		MaxTokens:         opts.MaxTokens,
		Overlap:           opts.Overlap,
		IncludeParentPath: opts.IncludeParentPath,
	})
	if err != nil {
		return nil, err
	}
	return convertChunks(raw), nil
}

// Element returns the element with the given semantic identifier
// ("button-1"). Unknown identifiers fail with ErrNotFound.
func (c *Context) Element(id string) (*dom.Node, error) {
	return c.index.Get(id)
}

// Elements returns elements in document order: all of them for an
// empty tag, otherwise only those with the given tag.
func (c *Context) Elements(tag string) []*dom.Node {
	return c.index.Elements(tag)
}

// ElementCount returns the number of indexed elements.
func (c *Context) ElementCount() int {
	return c.index.Len()
}
