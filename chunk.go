package domcontext

import "github.com/edgecomet/domcontext/internal/chunker"

// Chunk is a bounded, independently readable slice of the serialized
// tree. Chunks are read-only snapshots created per Chunks call; they
// share no state with the Context or each other.
type Chunk struct {
	// Markdown is the chunk's full text: parent-path prefix (when
	// requested), body lines, and continuation markers.
	Markdown string
	// Tokens is the token count of Markdown, measured over the full
	// text in one piece.
	Tokens int
	// StartLine and EndLine give the half-open span of serialized
	// lines covered by the chunk body.
	StartLine int
	EndLine   int
	// Fingerprint is a stable content+span hash.
	Fingerprint string
}

// ChunkOptions parameterize a Chunks call. See chunker.Options for the
// exact semantics of each field.
type ChunkOptions struct {
	MaxTokens         int
	Overlap           int
	IncludeParentPath bool
}

// DefaultChunkOptions mirror the upstream defaults: 500-token chunks,
// 50 tokens of overlap, parent paths included.
func DefaultChunkOptions() ChunkOptions {
	return ChunkOptions{
		MaxTokens:         500,
		Overlap:           50,
		IncludeParentPath: true,
	}
}

func convertChunks(in []chunker.Chunk) []Chunk {
	out := make([]Chunk, len(in))
	for i, c := range in {
		out[i] = Chunk{
			Markdown:    c.Markdown,
			Tokens:      c.Tokens,
			StartLine:   c.StartLine,
			EndLine:     c.EndLine,
			Fingerprint: c.Fingerprint,
		}
	}
	return out
}
