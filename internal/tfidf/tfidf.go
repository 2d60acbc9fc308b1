// Package tfidf provides TF-IDF (Term Frequency-Inverse Document Frequency) document vectors.
//
// This package implements the classical weighting used as one block of the classifier's
// feature matrix. Fitting on the training corpus fixes the term columns and the document
// frequencies; transforming any document afterwards reuses those fitted statistics, so test
// documents never influence the weights.
//
// The TF-IDF weighting combines:
//   - Term Frequency (TF): raw count of a term in the document
//   - Inverse Document Frequency (IDF): smoothed rarity of the term across the fitted corpus,
//     idf(t) = ln((1 + n) / (1 + df(t))) + 1
//
// Each document row is then scaled to unit Euclidean length.
//
// Usage Example:
//
//	vec := tfidf.NewVectorizer(5000)
//	train := vec.FitTransform(trainTexts)
//	test, err := vec.Transform(testTexts)
//
// Tokenization matches the n-gram vectorizer (lowercased runs of two or more word
// characters) with English stop words removed.
package tfidf

import (
	"errors"
	"log/slog"
	"math"

	"github.com/kljensen/snowball/english"

	"github.com/chriscorrea/newsclass/internal/ngram"
	"github.com/chriscorrea/newsclass/internal/sparse"
)

// DefaultMaxFeatures caps the number of terms when no limit is configured.
const DefaultMaxFeatures = 5000

// ErrNotFitted is returned when Transform runs before Fit.
var ErrNotFitted = errors.New("tfidf vectorizer is not fitted")

// Vectorizer holds the fitted vocabulary and IDF weights.
type Vectorizer struct {
	counts *ngram.CountVectorizer // unigram counts over the capped vocabulary
	idf    []float64              // IDF weight per column
	fitted bool
}

// NewVectorizer creates a TF-IDF vectorizer.
//
// Parameters:
//   - maxFeatures: keep only this many of the most frequent terms; <= 0 selects DefaultMaxFeatures
//
// Returns:
//   - *Vectorizer: unfitted vectorizer; call Fit or FitTransform before Transform
func NewVectorizer(maxFeatures int) *Vectorizer {
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}

	counts := ngram.NewCountVectorizer(1, 1)
	counts.StopWords = english.IsStopWord
	counts.MaxFeatures = maxFeatures

	return &Vectorizer{counts: counts}
}

// Fit learns the vocabulary and IDF weights from a collection of documents.
//
// Parameters:
//   - documents: slice of raw training texts
//
// An empty collection produces a fitted vectorizer with zero columns.
func (v *Vectorizer) Fit(documents []string) {
	v.counts.Fit(documents)

	counts, _ := v.counts.Transform(documents) // fitted above
	v.idf = inverseDocumentFrequencies(counts)
	v.fitted = true

	slog.Debug("TF-IDF vectorizer fitted", "documentCount", len(documents), "features", len(v.idf))
}

// Transform converts documents into L2-normalized TF-IDF rows using the fitted weights.
//
// Parameters:
//   - documents: slice of texts to weight
//
// Returns:
//   - *sparse.Matrix: one row per document, one column per fitted term
//   - error: ErrNotFitted if called before Fit
func (v *Vectorizer) Transform(documents []string) (*sparse.Matrix, error) {
	if !v.fitted {
		return nil, ErrNotFitted
	}

	counts, err := v.counts.Transform(documents)
	if err != nil {
		return nil, err
	}

	rows, cols := counts.Dims()
	b := sparse.NewBuilder(cols)
	for i := 0; i < rows; i++ {
		termCols, termCounts := counts.Row(i)
		weights := make([]float64, len(termCols))

		var sumSquares float64
		for k, col := range termCols {
			weights[k] = termCounts[k] * v.idf[col]
			sumSquares += weights[k] * weights[k]
		}

		// documents with no known terms keep an all-zero row
		if sumSquares > 0 {
			norm := math.Sqrt(sumSquares)
			for k := range weights {
				weights[k] /= norm
			}
		}
		b.AddSparse(termCols, weights)
	}

	return b.Build(), nil
}

// FitTransform fits on documents and returns their TF-IDF matrix.
func (v *Vectorizer) FitTransform(documents []string) *sparse.Matrix {
	v.Fit(documents)
	m, _ := v.Transform(documents) // fitted above
	return m
}

// Features returns the fitted terms in column order.
func (v *Vectorizer) Features() []string {
	return v.counts.Features()
}

// IDF returns a copy of the fitted IDF weights in column order.
func (v *Vectorizer) IDF() []float64 {
	out := make([]float64, len(v.idf))
	copy(out, v.idf)
	return out
}

// Len returns the number of fitted columns.
func (v *Vectorizer) Len() int {
	return len(v.idf)
}

// inverseDocumentFrequencies computes smoothed IDF weights from a count matrix.
//
// Parameters:
//   - counts: term count matrix of the fitted corpus
//
// Returns:
//   - []float64: ln((1 + n) / (1 + df)) + 1 for each column
//
// Smoothing acts as if one extra document contained every term, so no weight is infinite.
func inverseDocumentFrequencies(counts *sparse.Matrix) []float64 {
	rows, cols := counts.Dims()

	docFreq := make([]float64, cols)
	for i := 0; i < rows; i++ {
		termCols, _ := counts.Row(i)
		for _, col := range termCols {
			docFreq[col]++
		}
	}

	n := float64(rows)
	idf := make([]float64, cols)
	for col, df := range docFreq {
		idf[col] = math.Log((1+n)/(1+df)) + 1
	}
	return idf
}
