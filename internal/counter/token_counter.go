package counter

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// TokenEncoding is the tiktoken encoding used for token statistics.
const TokenEncoding = "cl100k_base"

// tokenCounter counts BPE tokens of an article.
type tokenCounter struct {
	mu       sync.Mutex
	encoding *tiktoken.Tiktoken
}

// NewTokenCounter loads the TokenEncoding tables.
// The tables are downloaded on first use unless tiktoken already cached them.
func NewTokenCounter() (Counter, error) {
	encoding, err := tiktoken.GetEncoding(TokenEncoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s encoding: %w", TokenEncoding, err)
	}
	slog.Debug("Token encoding loaded", "encoding", TokenEncoding)

	return &tokenCounter{encoding: encoding}, nil
}

// Count is safe for concurrent use.
func (tc *tokenCounter) Count(text string) int {
	if text == "" {
		return 0
	}

	tc.mu.Lock()
	defer tc.mu.Unlock()

	// article text never carries special tokens
	return len(tc.encoding.Encode(text, nil, nil))
}

func (tc *tokenCounter) Name() string {
	return "tokens (" + TokenEncoding + ")"
}
