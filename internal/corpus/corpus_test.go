package corpus_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/chriscorrea/newsclass/internal/corpus"
	"github.com/chriscorrea/newsclass/internal/extract"
)

// writeCorpus creates root/<category>/<name> files from a nested map.
func writeCorpus(t *testing.T, files map[string]map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for category, docs := range files {
		dir := filepath.Join(root, category)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("Failed to create category dir: %v", err)
		}
		for name, text := range docs {
			path := filepath.Join(dir, name)
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				t.Fatalf("Failed to create dir: %v", err)
			}
			if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
				t.Fatalf("Failed to write document: %v", err)
			}
		}
	}
	return root
}

func TestLoad(t *testing.T) {
	root := writeCorpus(t, map[string]map[string]string{
		"sport":    {"001.txt": "England win the match", "002.txt": "Late goal"},
		"business": {"001.txt": "Shares fall"},
	})
	// stray file at the root is not a category
	if err := os.WriteFile(filepath.Join(root, "README.TXT"), []byte("notes"), 0o644); err != nil {
		t.Fatalf("Failed to write root file: %v", err)
	}

	docs, err := corpus.Load(context.Background(), root, corpus.Options{})
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	expectedLabels := []string{"business", "sport", "sport"}
	if got := corpus.Labels(docs); !reflect.DeepEqual(got, expectedLabels) {
		t.Errorf("Labels() = %q, want %q", got, expectedLabels)
	}
	expectedTexts := []string{"Shares fall", "England win the match", "Late goal"}
	if got := corpus.Texts(docs); !reflect.DeepEqual(got, expectedTexts) {
		t.Errorf("Texts() = %q, want %q", got, expectedTexts)
	}
	if docs[0].Path != filepath.Join(root, "business", "001.txt") {
		t.Errorf("Path = %q", docs[0].Path)
	}
}

func TestLoadEmptyCategory(t *testing.T) {
	root := writeCorpus(t, map[string]map[string]string{
		"sport": {"001.txt": "England win"},
	})
	if err := os.MkdirAll(filepath.Join(root, "tech"), 0o755); err != nil {
		t.Fatalf("Failed to create empty category: %v", err)
	}

	docs, err := corpus.Load(context.Background(), root, corpus.Options{})
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if len(docs) != 1 || docs[0].Label != "sport" {
		t.Errorf("Load() = %+v, want one sport document", docs)
	}
}

func TestLoadErrors(t *testing.T) {
	emptyRoot := t.TempDir()
	if err := os.MkdirAll(filepath.Join(emptyRoot, "sport"), 0o755); err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}

	fileRoot := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(fileRoot, []byte("x"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	tests := []struct {
		name    string
		root    string
		wantErr error
	}{
		{"missing root", filepath.Join(t.TempDir(), "missing"), corpus.ErrCorpusNotFound},
		{"root is a file", fileRoot, corpus.ErrCorpusNotFound},
		{"no documents", emptyRoot, corpus.ErrEmptyCorpus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := corpus.Load(context.Background(), tt.root, corpus.Options{})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Load() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadOptions(t *testing.T) {
	root := writeCorpus(t, map[string]map[string]string{
		"sport":    {"001.txt": "goal", "notes.md": "skip me", "archive/002.txt": "old goal"},
		"business": {"001.txt": "shares"},
		"politics": {"001.txt": "vote"},
	})

	tests := []struct {
		name     string
		opts     corpus.Options
		expected []string
	}{
		{
			name:     "category allow-list",
			opts:     corpus.Options{Categories: []string{"sport", "politics", "weather"}},
			expected: []string{"vote", "goal", "old goal", "skip me"},
		},
		{
			name:     "include pattern",
			opts:     corpus.Options{Categories: []string{"sport"}, Include: []string{"*.txt"}},
			expected: []string{"goal"},
		},
		{
			name:     "recursive include pattern",
			opts:     corpus.Options{Categories: []string{"sport"}, Include: []string{"**/*.txt"}},
			expected: []string{"goal", "old goal"},
		},
		{
			name:     "any of several patterns",
			opts:     corpus.Options{Categories: []string{"sport"}, Include: []string{"*.md", "archive/*"}},
			expected: []string{"old goal", "skip me"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := corpus.Load(context.Background(), root, tt.opts)
			if err != nil {
				t.Fatalf("Load() unexpected error: %v", err)
			}
			if got := corpus.Texts(docs); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Texts() = %q, want %q", got, tt.expected)
			}
		})
	}

	_, err := corpus.Load(context.Background(), root, corpus.Options{Include: []string{"[unclosed"}})
	if err == nil {
		t.Error("Load() with invalid pattern expected error, got nil")
	}
}

func TestLoadHTML(t *testing.T) {
	root := writeCorpus(t, map[string]map[string]string{
		"tech": {"001.html": `<html><body><article><p>Broadband use <a href="https://example.com">soars</a></p></article></body></html>`},
	})

	opts := corpus.Options{HTML: extract.Options{Selector: "article"}}
	docs, err := corpus.Load(context.Background(), root, opts)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("Load() returned %d documents, want 1", len(docs))
	}
	if !strings.Contains(docs[0].Text, "Broadband use soars") || strings.Contains(docs[0].Text, "example.com") {
		t.Errorf("Text = %q, want article text without link targets", docs[0].Text)
	}
}

func TestLoadCancelled(t *testing.T) {
	root := writeCorpus(t, map[string]map[string]string{
		"sport": {"001.txt": "goal"},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := corpus.Load(ctx, root, corpus.Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func makeDocs(n int) []corpus.Document {
	docs := make([]corpus.Document, n)
	for i := range docs {
		docs[i] = corpus.Document{Text: fmt.Sprintf("doc %d", i), Label: fmt.Sprintf("label%d", i%3)}
	}
	return docs
}

func TestNewSplit(t *testing.T) {
	docs := makeDocs(21)

	split, err := corpus.NewSplit(docs, 0.2, 42)
	if err != nil {
		t.Fatalf("NewSplit() unexpected error: %v", err)
	}

	// ceil(0.2 * 21) = 5
	if len(split.Test) != 5 || len(split.Train) != 16 {
		t.Errorf("NewSplit() sizes = (%d train, %d test), want (16, 5)", len(split.Train), len(split.Test))
	}

	// every document lands in exactly one partition with its label
	seen := make(map[string]string)
	for _, d := range append(append([]corpus.Document{}, split.Train...), split.Test...) {
		if _, dup := seen[d.Text]; dup {
			t.Errorf("document %q appears twice", d.Text)
		}
		seen[d.Text] = d.Label
	}
	for _, d := range docs {
		if seen[d.Text] != d.Label {
			t.Errorf("document %q label = %q, want %q", d.Text, seen[d.Text], d.Label)
		}
	}

	again, err := corpus.NewSplit(docs, 0.2, 42)
	if err != nil {
		t.Fatalf("NewSplit() unexpected error: %v", err)
	}
	if !reflect.DeepEqual(split, again) {
		t.Error("NewSplit() with the same seed produced different splits")
	}
}

func TestNewSplitErrors(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		testSize float64
		wantErr  error
	}{
		{"single document", 1, 0.2, corpus.ErrSplitTooSmall},
		{"no documents", 0, 0.2, corpus.ErrSplitTooSmall},
		{"test size zero", 10, 0, nil},
		{"test size one", 10, 1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := corpus.NewSplit(makeDocs(tt.n), tt.testSize, 42)
			if err == nil {
				t.Fatal("NewSplit() expected error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("NewSplit() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
