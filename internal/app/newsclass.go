// Package app contains the core application logic for the newsclass CLI tool.
// It runs the classification pipeline separated from CLI concerns.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/schollz/progressbar/v3"

	"github.com/chriscorrea/newsclass/internal/classify"
	"github.com/chriscorrea/newsclass/internal/config"
	"github.com/chriscorrea/newsclass/internal/corpus"
	"github.com/chriscorrea/newsclass/internal/counter"
	"github.com/chriscorrea/newsclass/internal/extract"
	"github.com/chriscorrea/newsclass/internal/features"
	"github.com/chriscorrea/newsclass/internal/metrics"
	"github.com/chriscorrea/newsclass/internal/normalize"
	"github.com/chriscorrea/newsclass/internal/selection"
	"github.com/chriscorrea/newsclass/internal/sparse"
	"github.com/chriscorrea/newsclass/internal/spinner"
	"github.com/chriscorrea/newsclass/internal/tokenize"
)

// Result holds the outcome of one classification run.
type Result struct {
	RunID string

	TrainDocuments int
	TestDocuments  int
	Widths         features.Widths // feature block widths before selection
	Selected       int             // columns kept by the variance threshold

	Accuracy float64
	Report   metrics.Report

	Stats     []counter.CategoryStats // nil unless statistics were requested
	StatsUnit string
}

// String renders the result the way the CLI prints it.
func (r *Result) String() string {
	var sb strings.Builder
	if len(r.Stats) > 0 {
		sb.WriteString(counter.FormatStats(r.Stats, r.StatsUnit))
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "Accuracy:  %s\n", formatAccuracy(r.Accuracy))
	sb.WriteString("Classification Report:\n")
	sb.WriteString(r.Report.String())
	return sb.String()
}

// formatAccuracy prints the shortest exact decimal, always with a fractional part.
func formatAccuracy(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Run executes the classification pipeline with the given configuration.
//
// Processing Pipeline:
// 1. Load the labeled corpus and split it into train and test partitions
// 2. Normalize and tokenize every document
// 3. Fit the feature blocks on the training partition and transform both partitions
// 4. Fit the variance threshold on training features and reduce both partitions
// 5. Train the classifier, predict the test partition and score the predictions
//
// ctx allows for cancellation of loading and tokenization.
func Run(ctx context.Context, cfg config.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runID := ulid.Make().String()
	logger := slog.With("run", runID)
	logger.Debug("Starting run", "corpus", cfg.Corpus, "n", cfg.NgramN, "threshold", cfg.Threshold, "seed", cfg.Seed)

	showProgress := !cfg.Quiet && spinner.IsTerminal(os.Stderr)
	result := &Result{RunID: runID}

	// step 1: load and split
	docs, err := corpus.Load(ctx, cfg.Corpus, corpus.Options{
		Categories: cfg.Categories,
		Include:    cfg.Include,
		HTML:       extract.Options{Selector: cfg.Selector, IncludeAll: cfg.IncludeAll},
	})
	if err != nil {
		return nil, err
	}

	if cfg.Stats {
		if err := collectStats(result, cfg.CountBy, docs); err != nil {
			return nil, err
		}
	}

	split, err := corpus.NewSplit(docs, cfg.TestSize, cfg.Seed)
	if err != nil {
		return nil, err
	}
	result.TrainDocuments = len(split.Train)
	result.TestDocuments = len(split.Test)

	// step 2: normalize and tokenize
	tokenizer, err := newTokenizer(cfg)
	if err != nil {
		return nil, err
	}
	trainTokens, testTokens, err := tokenizeSplit(ctx, tokenizer, split, cfg.Workers, showProgress)
	if err != nil {
		return nil, err
	}

	trainTexts, testTexts := corpus.Texts(split.Train), corpus.Texts(split.Test)
	trainLabels, testLabels := corpus.Labels(split.Train), corpus.Labels(split.Test)

	// step 3: feature blocks, fitted on the training partition only
	combiner := features.NewCombiner(features.Options{
		NgramMin:    cfg.NgramN,
		NgramMax:    cfg.NgramN,
		VocabSize:   cfg.VocabSize,
		MaxFeatures: cfg.MaxFeatures,
	})
	var xTrain, xTest *sparse.Matrix
	err = spinner.Phase(ctx, os.Stderr, showProgress, "Building features", func() error {
		var err error
		if xTrain, err = combiner.FitTransform(trainTexts, trainTokens); err != nil {
			return fmt.Errorf("failed to build training features: %w", err)
		}
		if xTest, err = combiner.Transform(testTexts, testTokens); err != nil {
			return fmt.Errorf("failed to build test features: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Widths = combiner.Width()

	// step 4: variance threshold
	selector, err := selection.NewVarianceThreshold(cfg.Threshold)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	err = spinner.Phase(ctx, os.Stderr, showProgress, "Selecting features", func() error {
		var err error
		if xTrain, err = selector.FitTransform(xTrain); err != nil {
			return err
		}
		xTest, err = selector.Transform(xTest)
		return err
	})
	if err != nil {
		return nil, err
	}
	result.Selected = len(selector.Support())

	logger.Debug("Features ready",
		"bagOfWords", result.Widths.BagOfWords,
		"ngrams", result.Widths.Ngrams,
		"tfidf", result.Widths.TFIDF,
		"selected", result.Selected)

	// step 5: train, predict, score
	nb := classify.NewMultinomialNB(classify.DefaultAlpha)
	var predictions []string
	err = spinner.Phase(ctx, os.Stderr, showProgress, "Training classifier", func() error {
		if err := nb.Fit(xTrain, trainLabels); err != nil {
			return fmt.Errorf("failed to train classifier: %w", err)
		}
		var err error
		predictions, err = nb.Predict(xTest)
		return err
	})
	if err != nil {
		return nil, err
	}

	result.Accuracy = metrics.Accuracy(testLabels, predictions)
	result.Report, err = metrics.ClassificationReport(testLabels, predictions, metrics.DefaultDigits)
	if err != nil {
		return nil, fmt.Errorf("failed to build classification report: %w", err)
	}

	logger.Debug("Run finished", "train", result.TrainDocuments, "test", result.TestDocuments, "accuracy", result.Accuracy)
	return result, nil
}

// newTokenizer builds the tokenizer for the configured stoplist and normalizer.
func newTokenizer(cfg config.Config) (*tokenize.Tokenizer, error) {
	stopwords := tokenize.DefaultStopwords()
	if cfg.Stopwords != "" {
		var err error
		if stopwords, err = tokenize.LoadStopwords(cfg.Stopwords); err != nil {
			return nil, err
		}
	}
	lemmatizer, err := tokenize.NewLemmatizer(cfg.Normalizer)
	if err != nil {
		return nil, err
	}
	return tokenize.New(stopwords, lemmatizer), nil
}

// tokenizeSplit normalizes and tokenizes both partitions in one pass.
func tokenizeSplit(ctx context.Context, tokenizer *tokenize.Tokenizer, split corpus.Split, workers int, showProgress bool) ([][]string, [][]string, error) {
	all := append(corpus.Texts(split.Train), corpus.Texts(split.Test)...)
	for i, text := range all {
		all[i] = normalize.Text(text)
	}

	var progress tokenize.ProgressFunc
	if showProgress {
		bar := progressbar.NewOptions(len(all),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Tokenizing"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Finish()
		progress = func(done, total int) {
			_ = bar.Set(done)
		}
	}

	tokens, err := tokenizer.TokenizeAll(ctx, all, workers, progress)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to tokenize documents: %w", err)
	}

	nTrain := len(split.Train)
	return tokens[:nTrain], tokens[nTrain:], nil
}

// collectStats counts document lengths per category with the configured unit.
func collectStats(result *Result, countBy string, docs []corpus.Document) error {
	method, err := counter.ParseMethod(countBy)
	if err != nil {
		return fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	c, err := counter.NewCounter(method)
	if err != nil {
		return fmt.Errorf("failed to create %s counter: %w", method, err)
	}

	result.Stats = counter.Summarize(c, corpus.Labels(docs), corpus.Texts(docs))
	result.StatsUnit = method.String()
	return nil
}
