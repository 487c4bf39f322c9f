// Package chunker splits a serialized tree into an ordered sequence of
// token-bounded chunks with configurable overlap and parent-path
// context, so each chunk stays independently interpretable.
package chunker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/edgecomet/domcontext/internal/markdown"
)

// ErrInvalidConfiguration is returned for unusable chunking parameters
// or a tokenizer producing negative counts.
var ErrInvalidConfiguration = errors.New("invalid chunking configuration")

// Tokenizer is the counting capability the chunker consumes.
type Tokenizer interface {
	CountTokens(text string) int
}

// Options control a single Split call.
type Options struct {
	// MaxTokens is the chunk budget. A single line exceeding it alone
	// is emitted as its own oversized chunk, never split further.
	MaxTokens int
	// Overlap is the token budget of trailing lines repeated at the
	// start of the next chunk. Must be < MaxTokens.
	Overlap int
	// IncludeParentPath prefixes every chunk after the first with the
	// ancestor breadcrumb of its first line and appends "- ..."
	// continuation markers at truncation points.
	IncludeParentPath bool
}

// Chunk is a contiguous slice of the serialized output. Chunks are
// independent read-only snapshots; they share no state with the tree
// they were cut from.
type Chunk struct {
	// Markdown is the full rendered chunk: parent-path prefix,
	// body lines, and continuation marker when present.
	Markdown string
	// Tokens is the authoritative token count of Markdown, measured in
	// one piece (prefix and body together).
	Tokens int
	// StartLine and EndLine are the half-open [StartLine, EndLine)
	// span of source lines this chunk's body covers.
	StartLine int
	EndLine   int
	// Fingerprint identifies the chunk content and span (xxhash).
	Fingerprint string
}

const ellipsisMarker = "- ..."

// Split greedily packs consecutive lines into chunks of at most
// MaxTokens, stepping back up to Overlap tokens' worth of trailing
// lines between chunks. Deterministic: identical lines, tokenizer and
// options always produce an identical chunk sequence. Boundaries only
// fall between lines, never inside one.
func Split(lines []markdown.Line, tok Tokenizer, opts Options) ([]Chunk, error) {
	if err := validate(tok, opts); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, nil
	}

	lineTokens := make([]int, len(lines))
	for i, ln := range lines {
		t := tok.CountTokens(ln.Text + "\n")
		if t < 0 {
			return nil, fmt.Errorf("%w: tokenizer returned %d for line %d", ErrInvalidConfiguration, t, i)
		}
		lineTokens[i] = t
	}

	var chunks []Chunk
	start := 0
	prevEnd := 0 // end of the chunk before the current one

	for start < len(lines) {
		prefix, prefixTokens, err := chunkPrefix(lines[start], tok, opts, start)
		if err != nil {
			return nil, err
		}

		// Greedy accumulation: keep taking lines while prefix + body
		// stays within budget. The first line is always taken, so an
		// oversized single line becomes a solo over-budget chunk.
		sum := prefixTokens
		end := start
		for end < len(lines) {
			if end > start && sum+lineTokens[end] > opts.MaxTokens {
				break
			}
			sum += lineTokens[end]
			end++
		}

		parts := append([]string(nil), prefix...)
		for _, ln := range lines[start:end] {
			parts = append(parts, ln.Text)
		}
		if opts.IncludeParentPath && end < len(lines) {
			parts = append(parts, marker(lines[end-1].Depth))
		}
		text := strings.Join(parts, "\n")

		total := tok.CountTokens(text)
		if total < 0 {
			return nil, fmt.Errorf("%w: tokenizer returned %d for chunk", ErrInvalidConfiguration, total)
		}
		chunks = append(chunks, Chunk{
			Markdown:    text,
			Tokens:      total,
			StartLine:   start,
			EndLine:     end,
			Fingerprint: fingerprint(text, start, end),
		})

		if end >= len(lines) {
			break
		}

		next := end
		if opts.Overlap > 0 {
			spent := 0
			for i := end - 1; i > start; i-- {
				if spent+lineTokens[i] > opts.Overlap {
					break
				}
				spent += lineTokens[i]
				next = i
			}
		}
		// Cap the backtrack: always move past the current start, and
		// never re-include lines that already appeared in two chunks.
		if next < prevEnd {
			next = prevEnd
		}
		if next <= start {
			next = start + 1
		}
		prevEnd = end
		start = next
	}

	return chunks, nil
}

func validate(tok Tokenizer, opts Options) error {
	if tok == nil {
		return fmt.Errorf("%w: tokenizer is required", ErrInvalidConfiguration)
	}
	if opts.MaxTokens <= 0 {
		return fmt.Errorf("%w: max tokens must be positive, got %d", ErrInvalidConfiguration, opts.MaxTokens)
	}
	if opts.Overlap < 0 {
		return fmt.Errorf("%w: overlap must not be negative, got %d", ErrInvalidConfiguration, opts.Overlap)
	}
	if opts.Overlap >= opts.MaxTokens {
		return fmt.Errorf("%w: overlap %d must be smaller than max tokens %d", ErrInvalidConfiguration, opts.Overlap, opts.MaxTokens)
	}
	return nil
}

// chunkPrefix renders the ancestor breadcrumb for a chunk starting at
// first: one line per enclosing element (render root first) and an
// ellipsis marker standing in for the elided preceding content. The
// first chunk gets no prefix.
func chunkPrefix(first markdown.Line, tok Tokenizer, opts Options, start int) ([]string, int, error) {
	if !opts.IncludeParentPath || start == 0 || len(first.Path) == 0 {
		return nil, 0, nil
	}
	prefix := make([]string, 0, len(first.Path)+1)
	for i, id := range first.Path {
		prefix = append(prefix, strings.Repeat("  ", i)+"- "+id)
	}
	prefix = append(prefix, marker(first.Depth))

	tokens := 0
	for _, ln := range prefix {
		t := tok.CountTokens(ln + "\n")
		if t < 0 {
			return nil, 0, fmt.Errorf("%w: tokenizer returned %d for prefix line", ErrInvalidConfiguration, t)
		}
		tokens += t
	}
	return prefix, tokens, nil
}

func marker(depth int) string {
	return strings.Repeat("  ", depth) + ellipsisMarker
}

func fingerprint(text string, start, end int) string {
	h := xxhash.New()
	h.WriteString(text)
	h.WriteString(fmt.Sprintf("|%d-%d", start, end))
	return fmt.Sprintf("%016x", h.Sum64())
}
