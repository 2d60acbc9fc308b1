// Package vocab builds the frequency-ranked vocabulary and the bag-of-words vectors over it.
//
// The vocabulary is built once from training token lists only. Index i of every
// bag-of-words vector counts vocabulary term i, so vectors built against different
// vocabularies are not comparable.
//
// Usage Example:
//
//	v := vocab.Build(trainTokens, vocab.DefaultSize)
//	vec := vocab.Vectorize(docTokens, v)
//	// len(vec) == v.Len()
package vocab

import (
	"log/slog"
	"sort"

	"github.com/chriscorrea/newsclass/internal/sparse"
)

// DefaultSize is the number of terms kept when no size is configured.
const DefaultSize = 1000

// Vocabulary is an ordered, immutable list of distinct terms.
type Vocabulary struct {
	terms []string
	index map[string]int
}

// termCount is one entry of the insertion-ordered frequency table.
type termCount struct {
	term  string
	count int
}

// Build counts every token across tokenLists and keeps the size most frequent terms.
// Terms with equal counts stay in the order they were first seen, which makes the
// result reproducible for identical input order. A size <= 0 selects DefaultSize.
func Build(tokenLists [][]string, size int) Vocabulary {
	if size <= 0 {
		size = DefaultSize
	}

	// ordered frequency table: position = first encounter
	var table []termCount
	position := make(map[string]int)
	for _, tokens := range tokenLists {
		for _, token := range tokens {
			if pos, ok := position[token]; ok {
				table[pos].count++
				continue
			}
			position[token] = len(table)
			table = append(table, termCount{term: token, count: 1})
		}
	}

	sort.SliceStable(table, func(i, j int) bool {
		return table[i].count > table[j].count
	})

	if len(table) > size {
		table = table[:size]
	}

	terms := make([]string, len(table))
	for i, entry := range table {
		terms[i] = entry.term
	}

	slog.Debug("Vocabulary built", "distinctTerms", len(position), "kept", len(terms), "limit", size)
	return New(terms)
}

// New wraps an already ranked term list. Duplicate terms keep their first index.
func New(terms []string) Vocabulary {
	index := make(map[string]int, len(terms))
	kept := make([]string, 0, len(terms))
	for _, term := range terms {
		if _, dup := index[term]; dup {
			continue
		}
		index[term] = len(kept)
		kept = append(kept, term)
	}
	return Vocabulary{terms: kept, index: index}
}

// Len returns the number of terms.
func (v Vocabulary) Len() int {
	return len(v.terms)
}

// Terms returns a copy of the terms in rank order.
func (v Vocabulary) Terms() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

// Index returns the position of term and whether it is in the vocabulary.
func (v Vocabulary) Index(term string) (int, bool) {
	i, ok := v.index[term]
	return i, ok
}

// Vectorize returns the bag-of-words counts of tokens over v.
// Entry i is the number of tokens equal to term i; terms that never occur stay 0.
func Vectorize(tokens []string, v Vocabulary) []float64 {
	vector := make([]float64, v.Len())
	for _, token := range tokens {
		if i, ok := v.index[token]; ok {
			vector[i]++
		}
	}
	return vector
}

// VectorizeAll stacks the bag-of-words vectors of every token list into a sparse matrix,
// one row per document in input order.
func VectorizeAll(tokenLists [][]string, v Vocabulary) *sparse.Matrix {
	b := sparse.NewBuilder(v.Len())
	for _, tokens := range tokenLists {
		b.AddDense(Vectorize(tokens, v))
	}
	return b.Build()
}
