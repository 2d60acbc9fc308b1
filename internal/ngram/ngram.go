// Package ngram provides a word n-gram count vectorizer.
//
// Documents are lowercased and split into word tokens of two or more word characters;
// tokens are then joined into n-grams of every length in [MinN, MaxN]. Fitting assigns
// each distinct n-gram a column in lexicographic order, and transforming counts the
// n-grams of each document into a sparse row over those columns. N-grams never seen
// during fitting are ignored at transform time.
//
// Usage Example:
//
//	cv := ngram.NewCountVectorizer(2, 2)
//	train := cv.FitTransform(trainTexts)
//	test, err := cv.Transform(testTexts)
package ngram

import (
	"errors"
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"github.com/chriscorrea/newsclass/internal/sparse"
)

// ErrNotFitted is returned when Transform runs before Fit.
var ErrNotFitted = errors.New("vectorizer is not fitted")

// CountVectorizer converts text to n-gram count vectors.
type CountVectorizer struct {
	MinN int
	MaxN int

	// StopWords, when set, drops matching lowercased tokens before n-grams are formed.
	StopWords func(token string) bool

	// MaxFeatures, when positive, keeps only the most frequent n-grams across the
	// fitted corpus (ties resolved in lexicographic order).
	MaxFeatures int

	vocabulary map[string]int
	features   []string
}

// NewCountVectorizer creates a vectorizer for n-grams of length minN through maxN.
// Lengths below 1 are raised to 1 and maxN is raised to minN if smaller.
func NewCountVectorizer(minN, maxN int) *CountVectorizer {
	if minN < 1 {
		minN = 1
	}
	if maxN < minN {
		maxN = minN
	}
	return &CountVectorizer{MinN: minN, MaxN: maxN}
}

// Tokens lowercases text and returns its runs of two or more word characters.
func Tokens(text string) []string {
	var tokens []string
	var current strings.Builder
	runeCount := 0

	flush := func() {
		if runeCount >= 2 {
			tokens = append(tokens, current.String())
		}
		current.Reset()
		runeCount = 0
	}

	for _, r := range strings.ToLower(text) {
		if r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(r)
			runeCount++
			continue
		}
		flush()
	}
	flush()

	return tokens
}

// Ngrams joins consecutive tokens into space-separated n-grams of length minN..maxN,
// shortest lengths first.
func Ngrams(tokens []string, minN, maxN int) []string {
	if minN == 1 && maxN == 1 {
		return tokens
	}

	var grams []string
	for n := minN; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			grams = append(grams, strings.Join(tokens[i:i+n], " "))
		}
	}
	return grams
}

// analyze returns the n-grams of a single document.
func (cv *CountVectorizer) analyze(text string) []string {
	tokens := Tokens(text)
	if cv.StopWords != nil {
		kept := tokens[:0]
		for _, token := range tokens {
			if !cv.StopWords(token) {
				kept = append(kept, token)
			}
		}
		tokens = kept
	}
	return Ngrams(tokens, cv.MinN, cv.MaxN)
}

// Fit builds the n-gram vocabulary from docs.
func (cv *CountVectorizer) Fit(docs []string) {
	totals := make(map[string]int)
	for _, doc := range docs {
		for _, gram := range cv.analyze(doc) {
			totals[gram]++
		}
	}

	features := make([]string, 0, len(totals))
	for gram := range totals {
		features = append(features, gram)
	}
	sort.Strings(features)

	if cv.MaxFeatures > 0 && len(features) > cv.MaxFeatures {
		byCount := make([]string, len(features))
		copy(byCount, features)
		sort.SliceStable(byCount, func(i, j int) bool {
			return totals[byCount[i]] > totals[byCount[j]]
		})
		features = byCount[:cv.MaxFeatures]
		sort.Strings(features)
	}

	cv.features = features
	cv.vocabulary = make(map[string]int, len(features))
	for i, gram := range features {
		cv.vocabulary[gram] = i
	}

	if len(features) == 0 {
		slog.Debug("N-gram vocabulary is empty", "documents", len(docs), "minN", cv.MinN, "maxN", cv.MaxN)
		return
	}
	slog.Debug("N-gram vocabulary fitted", "documents", len(docs), "features", len(features), "minN", cv.MinN, "maxN", cv.MaxN)
}

// Transform counts the fitted n-grams of each doc, one row per doc.
func (cv *CountVectorizer) Transform(docs []string) (*sparse.Matrix, error) {
	if cv.vocabulary == nil {
		return nil, ErrNotFitted
	}

	b := sparse.NewBuilder(len(cv.features))
	for _, doc := range docs {
		cols, vals := cv.countRow(doc)
		b.AddSparse(cols, vals)
	}
	return b.Build(), nil
}

// FitTransform fits on docs and returns their count matrix.
func (cv *CountVectorizer) FitTransform(docs []string) *sparse.Matrix {
	cv.Fit(docs)
	m, _ := cv.Transform(docs) // fitted above
	return m
}

// countRow returns sorted column indices and their counts for doc.
func (cv *CountVectorizer) countRow(doc string) ([]int, []float64) {
	counts := make(map[int]float64)
	for _, gram := range cv.analyze(doc) {
		if idx, ok := cv.vocabulary[gram]; ok {
			counts[idx]++
		}
	}

	cols := make([]int, 0, len(counts))
	for col := range counts {
		cols = append(cols, col)
	}
	sort.Ints(cols)

	vals := make([]float64, len(cols))
	for i, col := range cols {
		vals[i] = counts[col]
	}
	return cols, vals
}

// Features returns the fitted n-grams in column order.
func (cv *CountVectorizer) Features() []string {
	out := make([]string, len(cv.features))
	copy(out, cv.features)
	return out
}

// Len returns the number of fitted features.
func (cv *CountVectorizer) Len() int {
	return len(cv.features)
}
