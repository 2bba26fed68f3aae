package fim

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// Tokenizer counts tokens the way the model that will consume the prompt
// would, used throughout the context assembler to enforce the fixed token
// budgets (clipboard/codebase/type-definition context).
type Tokenizer struct {
	mu  sync.Mutex
	enc *tiktoken.Tiktoken
}

// NewTokenizer loads the cl100k_base encoding, which is a close-enough
// approximation across the model families this engine targets; exact
// per-model tokenizers are not worth the complexity for budget-clipping
// purposes.
func NewTokenizer() (*Tokenizer, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, err
	}
	return &Tokenizer{enc: enc}, nil
}

// Count returns the token count for s.
func (t *Tokenizer) Count(s string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.enc.Encode(s, nil, nil))
}

// Clip truncates s to at most budget tokens, returning the clipped text,
// the number of tokens it actually used, and whether truncation occurred.
func (t *Tokenizer) Clip(s string, budget int) (clipped string, usedTokens int, truncated bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tokens := t.enc.Encode(s, nil, nil)
	if len(tokens) <= budget {
		return s, len(tokens), false
	}

	return t.enc.Decode(tokens[:budget]), budget, true
}
