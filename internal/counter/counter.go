// Package counter measures document lengths for corpus statistics.
//
// Three counting strategies are available through the Counter interface: words
// (whitespace splitting, the default), characters (Unicode runes) and tokens
// (tiktoken cl100k_base encoding). Summarize applies a Counter to a labeled corpus
// and reports per-category totals.
//
// Usage Example:
//
//	c, err := counter.NewCounter(counter.Words)
//	stats := counter.Summarize(c, labels, texts)
package counter

import (
	"fmt"
	"strings"
)

// Counter defines the interface for different text counting strategies.
type Counter interface {
	// Count returns the number of units (tokens, words, or characters) in given text.
	Count(text string) int

	// Name returns a human-readable name for this counting method (for logging)
	Name() string
}

// CountingMethod represents the different available counting strategies.
type CountingMethod int

const (
	// Words counts words using whitespace splitting (default)
	Words CountingMethod = iota
	// Characters counts individual characters including whitespace
	Characters
	// Tokens uses tiktoken with cl100k_base encoding
	Tokens
)

// String returns the string representation of the counting method.
func (cm CountingMethod) String() string {
	switch cm {
	case Tokens:
		return "tokens"
	case Words:
		return "words"
	case Characters:
		return "characters"
	default:
		return "unknown"
	}
}

// ParseMethod converts a flag value such as "words" into a CountingMethod.
func ParseMethod(name string) (CountingMethod, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "words":
		return Words, nil
	case "characters", "chars":
		return Characters, nil
	case "tokens":
		return Tokens, nil
	default:
		return Words, fmt.Errorf("unknown counting method %q (want words, characters or tokens)", name)
	}
}

// NewCounter creates a new Counter instance based on the specified method.
// Returns an error if the counter cannot be initialized (e.g., tiktoken encoding fails).
func NewCounter(method CountingMethod) (Counter, error) {
	switch method {
	case Tokens:
		return NewTokenCounter()
	case Characters:
		return NewCharCounter(), nil
	default:
		return NewWordCounter(), nil
	}
}
