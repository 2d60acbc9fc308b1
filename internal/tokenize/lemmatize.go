package tokenize

import (
	"fmt"
	"strings"
	"sync"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/kljensen/snowball"
)

// Lemmatizer reduces a token to its base form.
type Lemmatizer interface {
	// Lemma returns the base form of token.
	Lemma(token string) string

	// Name returns a short name for logging
	Name() string
}

// NewLemmatizer returns the lemmatizer registered under name ("lemma" or "stem").
// Unknown names fall back to the dictionary lemmatizer.
func NewLemmatizer(name string) (Lemmatizer, error) {
	switch name {
	case "stem":
		return SnowballStemmer{}, nil
	default:
		return NewDictionaryLemmatizer()
	}
}

// englishDictionary loads the golem English lemma table once per process.
var englishDictionary = sync.OnceValues(func() (*golem.Lemmatizer, error) {
	return golem.New(en.New())
})

// DictionaryLemmatizer maps inflected English words to their dictionary base form
// ("companies" -> "company", "children" -> "child"). Words missing from the dictionary
// are returned unchanged.
//
// Lookups are case-sensitive against the lowercase dictionary: a token containing
// upper-case letters ("Children", "Wales") is treated as not found and kept as is.
type DictionaryLemmatizer struct{}

// NewDictionaryLemmatizer loads the English dictionary and reports load failures.
// The zero value is usable too; it loads the dictionary on first use.
func NewDictionaryLemmatizer() (DictionaryLemmatizer, error) {
	if _, err := englishDictionary(); err != nil {
		return DictionaryLemmatizer{}, fmt.Errorf("failed to load English lemma dictionary: %w", err)
	}
	return DictionaryLemmatizer{}, nil
}

// Lemma implements Lemmatizer.
func (DictionaryLemmatizer) Lemma(token string) string {
	if token == "" || token != strings.ToLower(token) {
		return token
	}
	dict, err := englishDictionary()
	if err != nil {
		return token
	}
	return dict.Lemma(token)
}

// Name implements Lemmatizer.
func (DictionaryLemmatizer) Name() string {
	return "lemma"
}

// SnowballStemmer reduces tokens with the snowball English stemmer.
type SnowballStemmer struct{}

// Lemma implements Lemmatizer.
func (SnowballStemmer) Lemma(token string) string {
	stemmed, err := snowball.Stem(token, "english", true)
	if err != nil || stemmed == "" {
		// if stemming fails, use the original token
		return token
	}
	return stemmed
}

// Name implements Lemmatizer.
func (SnowballStemmer) Name() string {
	return "stem"
}
