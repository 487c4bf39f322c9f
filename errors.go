package domcontext

import (
	"errors"

	"github.com/edgecomet/domcontext/internal/chunker"
	"github.com/edgecomet/domcontext/internal/semantic"
)

// Errors surfaced by this package. All failures wrap one of these
// sentinels; match with errors.Is.
var (
	// ErrNotFound: semantic identifier lookup miss. Recoverable by the
	// caller (fall back or ignore).
	ErrNotFound = semantic.ErrNotFound

	// ErrReassignment: identifier assignment invoked on a tree that is
	// already stamped. Fatal to the call.
	ErrReassignment = semantic.ErrReassignment

	// ErrInvalidConfiguration: unusable parameters (non-positive max
	// tokens, negative overlap, overlap >= max tokens) or a tokenizer
	// producing negative counts. Fatal to the call.
	ErrInvalidConfiguration = chunker.ErrInvalidConfiguration

	// ErrEmptyTree: the filter pipeline removed every node.
	ErrEmptyTree = errors.New("no semantic elements remain after filtering")
)
