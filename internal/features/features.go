// Package features assembles the combined feature matrix used by the classifier.
//
// Three blocks are concatenated column-wise, in this order:
//
//	bag-of-words over the training vocabulary | word n-gram counts | TF-IDF weights
//
// Every block is fitted on the training split only. The test split is transformed with
// the same fitted artifacts, so both matrices have identical columns.
package features

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/chriscorrea/newsclass/internal/ngram"
	"github.com/chriscorrea/newsclass/internal/sparse"
	"github.com/chriscorrea/newsclass/internal/tfidf"
	"github.com/chriscorrea/newsclass/internal/vocab"
)

// ErrNotFitted is returned when Transform runs before FitTransform.
var ErrNotFitted = errors.New("feature combiner is not fitted")

// Options configures the combiner.
type Options struct {
	NgramMin    int // smallest n-gram length
	NgramMax    int // largest n-gram length
	VocabSize   int // bag-of-words vocabulary size
	MaxFeatures int // TF-IDF vocabulary cap
}

// Widths reports the column count of each block.
type Widths struct {
	BagOfWords int
	Ngrams     int
	TFIDF      int
}

// Total returns the width of the combined matrix.
func (w Widths) Total() int {
	return w.BagOfWords + w.Ngrams + w.TFIDF
}

// Combiner fits and applies the three feature blocks.
type Combiner struct {
	opts Options

	vocabulary vocab.Vocabulary
	ngrams     *ngram.CountVectorizer
	tfidf      *tfidf.Vectorizer
	fitted     bool
}

// NewCombiner creates an unfitted combiner.
func NewCombiner(opts Options) *Combiner {
	if opts.VocabSize <= 0 {
		opts.VocabSize = vocab.DefaultSize
	}
	if opts.MaxFeatures <= 0 {
		opts.MaxFeatures = tfidf.DefaultMaxFeatures
	}
	return &Combiner{opts: opts}
}

// FitTransform fits every block on the training split and returns its combined matrix.
//
// Parameters:
//   - texts: raw training texts, used by the n-gram and TF-IDF blocks
//   - tokens: token sequences of the same documents, used by the bag-of-words block
func (c *Combiner) FitTransform(texts []string, tokens [][]string) (*sparse.Matrix, error) {
	if len(texts) != len(tokens) {
		return nil, fmt.Errorf("%d texts but %d token sequences", len(texts), len(tokens))
	}

	c.vocabulary = vocab.Build(tokens, c.opts.VocabSize)
	c.ngrams = ngram.NewCountVectorizer(c.opts.NgramMin, c.opts.NgramMax)
	c.ngrams.Fit(texts)
	c.tfidf = tfidf.NewVectorizer(c.opts.MaxFeatures)
	c.tfidf.Fit(texts)
	c.fitted = true

	slog.Debug("Feature blocks fitted",
		"documents", len(texts),
		"bagOfWords", c.vocabulary.Len(),
		"ngrams", c.ngrams.Len(),
		"tfidf", c.tfidf.Len())

	return c.Transform(texts, tokens)
}

// Transform applies the fitted blocks to texts and tokens without refitting.
func (c *Combiner) Transform(texts []string, tokens [][]string) (*sparse.Matrix, error) {
	if !c.fitted {
		return nil, ErrNotFitted
	}
	if len(texts) != len(tokens) {
		return nil, fmt.Errorf("%d texts but %d token sequences", len(texts), len(tokens))
	}

	bow := vocab.VectorizeAll(tokens, c.vocabulary)

	counts, err := c.ngrams.Transform(texts)
	if err != nil {
		return nil, fmt.Errorf("n-gram transform: %w", err)
	}

	weights, err := c.tfidf.Transform(texts)
	if err != nil {
		return nil, fmt.Errorf("tf-idf transform: %w", err)
	}

	combined, err := sparse.HStack(bow, counts, weights)
	if err != nil {
		return nil, fmt.Errorf("failed to combine feature blocks: %w", err)
	}
	return combined, nil
}

// Width returns the fitted block widths.
func (c *Combiner) Width() Widths {
	if !c.fitted {
		return Widths{}
	}
	return Widths{
		BagOfWords: c.vocabulary.Len(),
		Ngrams:     c.ngrams.Len(),
		TFIDF:      c.tfidf.Len(),
	}
}

// Vocabulary returns the fitted bag-of-words vocabulary.
func (c *Combiner) Vocabulary() vocab.Vocabulary {
	return c.vocabulary
}
