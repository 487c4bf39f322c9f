// domctx renders an HTML page into its LLM-consumable forms: the
// markdown outline, token counts, bounded chunks, or the element table.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/edgecomet/domcontext"
	"github.com/edgecomet/domcontext/internal/common/config"
	logutil "github.com/edgecomet/domcontext/internal/common/logger"
)

func main() {
	configPath := flag.String("c", "", "path to YAML configuration file (optional)")
	inputPath := flag.String("i", "-", "input HTML file, \"-\" for stdin")
	mode := flag.String("o", "markdown", "output mode: markdown, tokens, chunks, elements")
	maxTokens := flag.Int("max-tokens", 0, "override chunk size in tokens")
	overlap := flag.Int("overlap", -1, "override chunk overlap in tokens")
	tag := flag.String("tag", "", "restrict elements output to one tag")
	flag.Parse()

	logger := logutil.NewDefault()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		cfg = loaded

		configured, err := logutil.New(cfg.Log)
		if err != nil {
			logger.Fatal("Failed to create configured logger", zap.Error(err))
		}
		logger = configured
	}
	defer logger.Sync()

	src, err := readInput(*inputPath)
	if err != nil {
		logger.Fatal("Failed to read input", zap.String("path", *inputPath), zap.Error(err))
	}

	tokenizer, err := newTokenizer(cfg.Tokenizer.Encoding)
	if err != nil {
		logger.Fatal("Failed to create tokenizer", zap.String("encoding", cfg.Tokenizer.Encoding), zap.Error(err))
	}

	ctx, err := domcontext.FromHTML(src, tokenizer, filterOptions(cfg.Filters))
	if err != nil {
		logger.Fatal("Failed to build context", zap.Error(err))
	}

	logger.Debug("Context built",
		zap.Int("elements", ctx.ElementCount()),
		zap.String("mode", *mode))

	switch *mode {
	case "markdown":
		fmt.Println(ctx.Markdown())

	case "tokens":
		tokens, err := ctx.Tokens()
		if err != nil {
			logger.Fatal("Failed to count tokens", zap.Error(err))
		}
		fmt.Println(tokens)

	case "chunks":
		opts := domcontext.ChunkOptions{
			MaxTokens:         cfg.Chunking.MaxTokens,
			Overlap:           cfg.Chunking.Overlap,
			IncludeParentPath: cfg.Chunking.ParentPath,
		}
		if *maxTokens > 0 {
			opts.MaxTokens = *maxTokens
		}
		if *overlap >= 0 {
			opts.Overlap = *overlap
		}

		chunks, err := ctx.Chunks(opts)
		if err != nil {
			logger.Fatal("Failed to chunk", zap.Error(err))
		}
		for i, chunk := range chunks {
			fmt.Printf("--- chunk %d/%d (%d tokens, lines %d-%d, %s)\n",
				i+1, len(chunks), chunk.Tokens, chunk.StartLine, chunk.EndLine, chunk.Fingerprint)
			fmt.Println(chunk.Markdown)
		}
		logger.Info("Chunking complete",
			zap.Int("chunks", len(chunks)),
			zap.Int("max_tokens", opts.MaxTokens),
			zap.Int("overlap", opts.Overlap))

	case "elements":
		for _, el := range ctx.Elements(strings.ToLower(*tag)) {
			line := fmt.Sprintf("%s\t<%s>", el.SemanticID, el.Tag)
			if text := el.Text(); text != "" {
				line += fmt.Sprintf("\t%q", text)
			}
			fmt.Println(line)
		}

	default:
		logger.Fatal("Unknown output mode", zap.String("mode", *mode))
	}
}

// readInput loads the HTML source from a file or stdin.
func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

// newTokenizer builds the configured tokenizer: a tiktoken encoding
// name, or "approx" for the heuristic estimator.
func newTokenizer(encoding string) (domcontext.Tokenizer, error) {
	if encoding == "approx" {
		return domcontext.ApproxTokenizer{}, nil
	}
	return domcontext.NewTiktokenTokenizer(encoding)
}

func filterOptions(f config.FiltersConfig) domcontext.FilterOptions {
	return domcontext.FilterOptions{
		NonVisibleTags:   f.NonVisibleTags,
		CSSHidden:        f.CSSHidden,
		ZeroDimensions:   f.ZeroDimensions,
		Attributes:       f.Attributes,
		Empty:            f.Empty,
		CollapseWrappers: f.CollapseWrappers,
	}
}
