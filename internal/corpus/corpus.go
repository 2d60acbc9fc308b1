// Package corpus loads labeled documents from a category-per-directory tree and
// splits them into training and test partitions.
//
// The expected layout is
//
//	root/
//	  business/001.txt
//	  sport/001.txt
//	  ...
//
// where each immediate subdirectory of root is a category and every file below it is
// one document of that category.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/chriscorrea/newsclass/internal/extract"
	"github.com/chriscorrea/newsclass/internal/fetch"
)

var (
	// ErrCorpusNotFound is returned when the corpus root is missing or not a directory.
	ErrCorpusNotFound = errors.New("corpus root not found")

	// ErrEmptyCorpus is returned when the corpus holds no documents at all.
	ErrEmptyCorpus = errors.New("corpus contains no documents")

	// ErrSplitTooSmall is returned when a split would leave a partition empty.
	ErrSplitTooSmall = errors.New("corpus too small to split")
)

// DefaultInclude matches every file below a category directory.
const DefaultInclude = "**/*"

// Document is one labeled text.
type Document struct {
	Text  string
	Label string
	Path  string
}

// Options filters what Load reads.
type Options struct {
	// Categories restricts loading to these subdirectory names; empty loads all.
	Categories []string

	// Include holds doublestar patterns matched against paths relative to the
	// category directory; empty selects DefaultInclude.
	Include []string

	// HTML controls extraction for .html/.htm files.
	HTML extract.Options
}

// Load reads every document below root, category by category in name order.
// A category directory without files contributes no documents.
func Load(ctx context.Context, root string, opts Options) ([]Document, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %q", ErrCorpusNotFound, root)
	}

	categories, err := listCategories(root, opts.Categories)
	if err != nil {
		return nil, err
	}

	var docs []Document
	for _, category := range categories {
		categoryDocs, err := LoadCategory(ctx, filepath.Join(root, category), category, opts)
		if err != nil {
			return nil, err
		}
		if len(categoryDocs) == 0 {
			slog.Debug("Category has no documents", "category", category)
		}
		docs = append(docs, categoryDocs...)
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptyCorpus, root)
	}

	slog.Debug("Corpus loaded", "root", root, "categories", len(categories), "documents", len(docs))
	return docs, nil
}

// listCategories returns the sorted subdirectory names of root, restricted to allow when set.
func listCategories(root string, allow []string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus root %q: %w", root, err)
	}

	var categories []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if len(allow) > 0 && !slices.Contains(allow, entry.Name()) {
			continue
		}
		categories = append(categories, entry.Name())
	}
	sort.Strings(categories)

	for _, name := range allow {
		if !slices.Contains(categories, name) {
			slog.Debug("Requested category not found", "category", name, "root", root)
		}
	}
	return categories, nil
}

// LoadCategory reads all matching files below dir and labels them with category.
// Files are returned in lexical path order.
func LoadCategory(ctx context.Context, dir, category string, opts Options) ([]Document, error) {
	patterns := opts.Include
	if len(patterns) == 0 {
		patterns = []string{DefaultInclude}
	}
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid include pattern %q", pattern)
		}
	}

	var docs []Document
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if !matchesAny(patterns, filepath.ToSlash(rel)) {
			return nil
		}

		text, err := readDocument(ctx, path, opts.HTML)
		if err != nil {
			return err
		}
		docs = append(docs, Document{Text: text, Label: category, Path: path})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load category %q: %w", category, err)
	}

	return docs, nil
}

// matchesAny reports whether rel matches one of patterns. Patterns are validated
// by the caller, so Match cannot fail here.
func matchesAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// readDocument returns the text of one file, extracting article text from HTML.
func readDocument(ctx context.Context, path string, html extract.Options) (string, error) {
	text, err := fetch.ReadText(ctx, path)
	if err != nil {
		return "", err
	}
	if !extract.IsHTML(path) {
		return text, nil
	}

	article, err := extract.ToText(strings.NewReader(text), html)
	if err != nil {
		return "", fmt.Errorf("failed to extract %q: %w", path, err)
	}
	return article, nil
}

// Split partitions docs into training and test sets.
type Split struct {
	Train []Document
	Test  []Document
}

// NewSplit shuffles docs with a seeded permutation and puts the first
// ceil(testSize*len(docs)) of them in Test and the rest in Train.
// The same seed and input always produce the same split.
func NewSplit(docs []Document, testSize float64, seed uint64) (Split, error) {
	if testSize <= 0 || testSize >= 1 {
		return Split{}, fmt.Errorf("test size must be in (0, 1), got %v", testSize)
	}

	n := len(docs)
	nTest := int(math.Ceil(testSize * float64(n)))
	if nTest == 0 || nTest >= n {
		return Split{}, fmt.Errorf("%w: %d documents with test size %v", ErrSplitTooSmall, n, testSize)
	}

	rng := rand.New(rand.NewPCG(seed, seed))
	perm := rng.Perm(n)

	split := Split{
		Test:  make([]Document, 0, nTest),
		Train: make([]Document, 0, n-nTest),
	}
	for i, idx := range perm {
		if i < nTest {
			split.Test = append(split.Test, docs[idx])
		} else {
			split.Train = append(split.Train, docs[idx])
		}
	}

	slog.Debug("Corpus split", "train", len(split.Train), "test", len(split.Test), "seed", seed)
	return split, nil
}

// Texts returns the text of every document, in order.
func Texts(docs []Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Text
	}
	return out
}

// Labels returns the label of every document, in order.
func Labels(docs []Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Label
	}
	return out
}
