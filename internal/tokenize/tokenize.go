// Package tokenize turns normalized article text into ordered token sequences.
//
// Tokenization follows four steps per document:
//  1. sentence segmentation (prose punkt segmenter)
//  2. word tokenization of each sentence (prose iterative tokenizer)
//  3. lemmatization of each token, then lowercasing
//  4. stopword removal
//
// Token order is preserved within and across sentences.
//
// Usage Example:
//
//	tok := tokenize.New(tokenize.DefaultStopwords(), tokenize.DictionaryLemmatizer{})
//	tokens, err := tok.Tokenize("Children watched the matches")
//	// tokens == []string{"children", "watch", "match"}
package tokenize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/jdkato/prose/v2"
)

// Tokenizer splits text into lemmatized, stopword-free tokens.
// It is safe for concurrent use.
type Tokenizer struct {
	stopwords  Stopwords
	lemmatizer Lemmatizer
}

// New creates a Tokenizer. A nil lemmatizer selects the dictionary lemmatizer.
func New(stopwords Stopwords, lemmatizer Lemmatizer) *Tokenizer {
	if lemmatizer == nil {
		lemmatizer = DictionaryLemmatizer{}
	}
	if stopwords == nil {
		stopwords = Stopwords{}
	}
	return &Tokenizer{
		stopwords:  stopwords,
		lemmatizer: lemmatizer,
	}
}

// Tokenize returns the tokens of text. Empty input yields an empty slice.
func (t *Tokenizer) Tokenize(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return []string{}, nil
	}

	sentences, err := splitSentences(text)
	if err != nil {
		return nil, err
	}

	tokens := []string{}
	for _, sentence := range sentences {
		words, err := splitWords(sentence)
		if err != nil {
			return nil, err
		}

		for _, word := range words {
			token := strings.ToLower(t.lemmatizer.Lemma(word))
			if token == "" || t.stopwords.Contains(token) {
				continue
			}
			tokens = append(tokens, token)
		}
	}

	return tokens, nil
}

// splitSentences runs only the segmenter; tagging and entity extraction are not needed.
func splitSentences(text string) ([]string, error) {
	doc, err := prose.NewDocument(text,
		prose.WithTokenization(false),
		prose.WithTagging(false),
		prose.WithExtraction(false))
	if err != nil {
		return nil, fmt.Errorf("failed to segment sentences: %w", err)
	}

	var sentences []string
	for _, sentence := range doc.Sentences() {
		if strings.TrimSpace(sentence.Text) != "" {
			sentences = append(sentences, sentence.Text)
		}
	}
	return sentences, nil
}

// splitWords tokenizes a single sentence.
func splitWords(sentence string) ([]string, error) {
	doc, err := prose.NewDocument(sentence,
		prose.WithSegmentation(false),
		prose.WithTagging(false),
		prose.WithExtraction(false))
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize sentence: %w", err)
	}

	docTokens := doc.Tokens()
	words := make([]string, 0, len(docTokens))
	for _, tok := range docTokens {
		if tok.Text != "" {
			words = append(words, tok.Text)
		}
	}
	return words, nil
}

// ProgressFunc is called after each document finishes with the number done so far.
type ProgressFunc func(done, total int)

// TokenizeAll tokenizes every text using a pool of workers. Results are index-aligned
// with texts. It stops early and returns ctx.Err() if ctx is cancelled.
func (t *Tokenizer) TokenizeAll(ctx context.Context, texts []string, workers int, progress ProgressFunc) ([][]string, error) {
	results := make([][]string, len(texts))
	if len(texts) == 0 {
		return results, nil
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > len(texts) {
		workers = len(texts)
	}

	slog.Debug("Tokenizing documents", "documents", len(texts), "workers", workers, "lemmatizer", t.lemmatizer.Name())

	jobs := make(chan int)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		done     int
		firstErr error
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				tokens, err := t.Tokenize(texts[idx])

				mu.Lock()
				if err != nil && firstErr == nil {
					firstErr = fmt.Errorf("document %d: %w", idx, err)
				}
				results[idx] = tokens
				done++
				if progress != nil {
					progress(done, len(texts))
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for idx := range texts {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- idx:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}
