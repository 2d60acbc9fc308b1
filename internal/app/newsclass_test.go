package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chriscorrea/newsclass/internal/config"
	"github.com/chriscorrea/newsclass/internal/corpus"
	"github.com/chriscorrea/newsclass/internal/selection"
)

var toyVocabulary = map[string][]string{
	"business": {"shares", "profit", "market", "investors", "earnings", "bank"},
	"politics": {"election", "minister", "parliament", "vote", "labour", "campaign"},
	"sport":    {"goal", "striker", "referee", "stadium", "league", "championship"},
	"tech":     {"software", "broadband", "computer", "internet", "mobile", "digital"},
}

// writeToyCorpus creates four categories of five documents each; every document uses
// only its category's words.
func writeToyCorpus(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for category, words := range toyVocabulary {
		dir := filepath.Join(root, category)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("Failed to create category dir: %v", err)
		}
		for i := 0; i < 5; i++ {
			text := fmt.Sprintf("The %s and the %s. Reports on %s, %s and %s today.",
				words[i%6], words[(i+1)%6], words[(i+2)%6], words[(i+3)%6], words[(i+4)%6])
			path := filepath.Join(dir, fmt.Sprintf("%03d.txt", i+1))
			if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
				t.Fatalf("Failed to write document: %v", err)
			}
		}
	}
	return root
}

func testConfig(root string) config.Config {
	cfg := config.Default()
	cfg.Corpus = root
	cfg.NgramN = 1
	cfg.Threshold = 0
	cfg.Quiet = true
	cfg.Workers = 2
	return cfg
}

func TestRunToyCorpus(t *testing.T) {
	cfg := testConfig(writeToyCorpus(t))

	result, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	// ceil(0.2 * 20) = 4 test documents
	if result.TrainDocuments != 16 || result.TestDocuments != 4 {
		t.Errorf("Run() split = (%d, %d), want (16, 4)", result.TrainDocuments, result.TestDocuments)
	}
	if result.Selected == 0 || result.Selected > result.Widths.Total() {
		t.Errorf("Run() selected %d of %d features", result.Selected, result.Widths.Total())
	}
	if result.Accuracy != 1.0 {
		t.Errorf("Run() accuracy = %v, want 1.0 for disjoint category vocabularies", result.Accuracy)
	}
	if result.Report.MacroAvg.Support != 4 {
		t.Errorf("Report support = %d, want 4", result.Report.MacroAvg.Support)
	}
	if result.RunID == "" {
		t.Error("Run() RunID is empty")
	}

	output := result.String()
	if !strings.HasPrefix(output, "Accuracy:  1.0\nClassification Report:\n") {
		t.Errorf("String() = %q, want accuracy line then report header", output)
	}
	if !strings.Contains(output, "weighted avg") {
		t.Errorf("String() missing weighted avg line:\n%s", output)
	}
}

func TestRunDeterministic(t *testing.T) {
	cfg := testConfig(writeToyCorpus(t))

	first, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	second, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	if first.String() != second.String() {
		t.Errorf("Run() output differs between runs:\n%s\n---\n%s", first.String(), second.String())
	}
	if first.RunID == second.RunID {
		t.Error("Run() reused a run ID")
	}
}

func TestRunEmptyCategory(t *testing.T) {
	root := writeToyCorpus(t)
	if err := os.MkdirAll(filepath.Join(root, "entertainment"), 0o755); err != nil {
		t.Fatalf("Failed to create empty category: %v", err)
	}

	result, err := Run(context.Background(), testConfig(root))
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	for _, l := range result.Report.Labels {
		if l.Label == "entertainment" {
			t.Error("empty category should not appear in the report")
		}
	}
}

func TestRunErrors(t *testing.T) {
	root := writeToyCorpus(t)

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr error
	}{
		{
			name:    "threshold too high",
			mutate:  func(c *config.Config) { c.Threshold = 1e9 },
			wantErr: selection.ErrNoFeatures,
		},
		{
			name:    "missing corpus",
			mutate:  func(c *config.Config) { c.Corpus = filepath.Join(root, "missing") },
			wantErr: corpus.ErrCorpusNotFound,
		},
		{
			name:    "invalid n",
			mutate:  func(c *config.Config) { c.NgramN = 0 },
			wantErr: config.ErrInvalidConfig,
		},
		{
			name:    "negative threshold",
			mutate:  func(c *config.Config) { c.Threshold = -1 },
			wantErr: config.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(root)
			tt.mutate(&cfg)

			_, err := Run(context.Background(), cfg)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Run() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, testConfig(writeToyCorpus(t)))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestRunStats(t *testing.T) {
	cfg := testConfig(writeToyCorpus(t))
	cfg.Stats = true
	cfg.CountBy = "words"

	result, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	// four categories plus the total row
	if len(result.Stats) != 5 {
		t.Fatalf("Run() stats has %d rows, want 5", len(result.Stats))
	}
	if total := result.Stats[4]; total.Category != "total" || total.Documents != 20 {
		t.Errorf("total row = %+v", total)
	}

	output := result.String()
	statsAt, accuracyAt := strings.Index(output, "category"), strings.Index(output, "\nAccuracy:  ")
	if statsAt < 0 || accuracyAt < 0 || statsAt > accuracyAt {
		t.Errorf("String() with stats = %q, want statistics table before accuracy", output)
	}
}

func TestFormatAccuracy(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{1, "1.0"},
		{0, "0.0"},
		{0.75, "0.75"},
		{0.9775280898876404, "0.9775280898876404"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := formatAccuracy(tt.value); got != tt.expected {
				t.Errorf("formatAccuracy(%v) = %q, want %q", tt.value, got, tt.expected)
			}
		})
	}
}
