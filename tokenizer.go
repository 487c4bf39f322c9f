package domcontext

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the BPE encoding used when none is specified.
// cl100k_base is a close approximation for most current models.
const DefaultEncoding = "cl100k_base"

// Tokenizer maps text to a token count. Implementations must be
// deterministic for a given configuration and never return a negative
// count. Any implementation satisfying this interface can be plugged
// into a Context.
type Tokenizer interface {
	CountTokens(text string) int
}

// TiktokenTokenizer counts tokens with a real BPE encoding via
// tiktoken. This is the reference tokenizer: counts are token-accurate
// for models using the configured encoding.
type TiktokenTokenizer struct {
	enc *tiktoken.Tiktoken
}

// NewTiktokenTokenizer loads the named encoding ("cl100k_base",
// "o200k_base", ...). An empty name selects DefaultEncoding.
func NewTiktokenTokenizer(encoding string) (*TiktokenTokenizer, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load tiktoken encoding %q: %w", encoding, err)
	}
	return &TiktokenTokenizer{enc: enc}, nil
}

// CountTokens returns the exact BPE token count of text.
func (t *TiktokenTokenizer) CountTokens(text string) int {
	return len(t.enc.Encode(text, nil, nil))
}

// ApproxTokenizer estimates roughly four characters per token. It needs
// no BPE data, which makes it useful where loading encodings is not an
// option; counts are an approximation, not a guarantee.
type ApproxTokenizer struct{}

// CountTokens estimates the token count of text.
func (ApproxTokenizer) CountTokens(text string) int {
	return (len(text) + 3) / 4
}
