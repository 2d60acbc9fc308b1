package tokenize

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed stopwords_en.yaml
var defaultStoplist []byte

// Stopwords is a set of lowercased terms dropped from token sequences.
type Stopwords map[string]struct{}

// stoplistFile mirrors the on-disk YAML layout of a stoplist.
type stoplistFile struct {
	Terms []string `yaml:"terms"`
}

// NewStopwords builds a set from the given terms, lowercasing each one.
func NewStopwords(terms []string) Stopwords {
	stops := make(Stopwords, len(terms))
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		stops[term] = struct{}{}
	}
	return stops
}

// DefaultStopwords returns the embedded English stopword list.
func DefaultStopwords() Stopwords {
	stops, err := parseStoplist(defaultStoplist)
	if err != nil {
		// the embedded file is part of the binary
		panic(fmt.Sprintf("embedded stoplist is invalid: %v", err))
	}
	return stops
}

// LoadStopwords reads a YAML stoplist of the form:
//
//	terms:
//	  - the
//	  - a
func LoadStopwords(path string) (Stopwords, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stoplist %q: %w", path, err)
	}

	stops, err := parseStoplist(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stoplist %q: %w", path, err)
	}
	return stops, nil
}

func parseStoplist(data []byte) (Stopwords, error) {
	var sl stoplistFile
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}
	return NewStopwords(sl.Terms), nil
}

// Contains reports whether token is a stopword. The match is exact.
func (s Stopwords) Contains(token string) bool {
	_, ok := s[token]
	return ok
}

// Terms returns the stopwords in sorted order.
func (s Stopwords) Terms() []string {
	terms := make([]string, 0, len(s))
	for term := range s {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}
