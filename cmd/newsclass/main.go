package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/chriscorrea/newsclass/internal/app"
	"github.com/chriscorrea/newsclass/internal/config"
)

// parseArgs validates the positional n-gram length and variance threshold
func parseArgs(args []string) (int, float64, error) {
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, 0, fmt.Errorf("n must be an integer >= 1, got %q", args[0])
	}

	threshold, err := strconv.ParseFloat(args[1], 64)
	if err != nil || math.IsNaN(threshold) || math.IsInf(threshold, 0) || threshold < 0 {
		return 0, 0, fmt.Errorf("threshold must be a number >= 0, got %q", args[1])
	}

	return n, threshold, nil
}

// buildConfig constructs a config.Config from defaults, env, config file, flags and arguments
func buildConfig(cmd *cobra.Command, args []string) (config.Config, error) {
	if err := config.LoadEnv(); err != nil {
		return config.Config{}, err
	}

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}

	cfg.NgramN, cfg.Threshold, err = parseArgs(args)
	if err != nil {
		return cfg, err
	}

	// flags override the config file only when set explicitly
	flags := cmd.Flags()
	if flags.Changed("corpus") {
		cfg.Corpus, _ = flags.GetString("corpus")
	}
	if flags.Changed("stopwords") {
		cfg.Stopwords, _ = flags.GetString("stopwords")
	}
	if flags.Changed("normalizer") {
		cfg.Normalizer, _ = flags.GetString("normalizer")
	}
	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("test-size") {
		cfg.TestSize, _ = flags.GetFloat64("test-size")
	}
	if flags.Changed("vocab-size") {
		cfg.VocabSize, _ = flags.GetInt("vocab-size")
	}
	if flags.Changed("max-features") {
		cfg.MaxFeatures, _ = flags.GetInt("max-features")
	}
	if flags.Changed("categories") {
		cfg.Categories, _ = flags.GetStringSlice("categories")
	}
	if flags.Changed("include") {
		cfg.Include, _ = flags.GetStringSlice("include")
	}
	if flags.Changed("selector") {
		cfg.Selector, _ = flags.GetString("selector")
	}
	if flags.Changed("include-all") {
		cfg.IncludeAll, _ = flags.GetBool("include-all")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("stats") {
		cfg.Stats, _ = flags.GetBool("stats")
	}
	if flags.Changed("count-by") {
		cfg.CountBy, _ = flags.GetString("count-by")
	}
	cfg.Quiet, _ = flags.GetBool("quiet")
	cfg.Debug, _ = flags.GetBool("debug")

	return cfg, cfg.Validate()
}

// setupLogger configures the default slog logger based on debug mode
func setupLogger(debug bool) {
	var level slog.Level
	if debug {
		level = slog.LevelDebug
	} else {
		level = slog.LevelError
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

var rootCmd = &cobra.Command{
	Use:   "newsclass <n> <threshold>",
	Short: "Classify news articles by topic",
	Long: `Newsclass trains a multinomial Naive Bayes classifier on a directory of labeled news articles and reports its accuracy on a held-out split.

Each subdirectory of the corpus is a category; every file inside it is one article. Features combine a bag-of-words over the top training terms, word n-gram counts of length n, and TF-IDF weights. Features whose training variance does not exceed the threshold are dropped.

Examples:
  newsclass 1 0.0
  newsclass 2 0.001 --corpus ./bbc --stats
  newsclass 1 0 --categories sport,tech --normalizer stem`,
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(2)(cmd, args); err != nil {
			return err
		}
		_, _, err := parseArgs(args)
		return err
	},
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig(cmd, args)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		// arguments are valid; pipeline failures do not need usage text
		cmd.SilenceUsage = true

		setupLogger(cfg.Debug)

		// create context with signal handling for graceful shutdown
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		result, err := app.Run(ctx, cfg)
		if err != nil {
			return fmt.Errorf("newsclass failed: %w", err)
		}

		fmt.Print(result)
		return nil
	},
}

// registerFlags defines the newsclass flags on cmd
func registerFlags(cmd *cobra.Command) {
	defaults := config.Default()
	flags := cmd.Flags()

	// corpus flags
	flags.StringP("corpus", "c", defaults.Corpus, "Corpus root with one subdirectory per category (env "+config.EnvCorpus+")")
	flags.StringSlice("categories", nil, "Only load these categories (default: all subdirectories)")
	flags.StringSlice("include", nil, "Glob patterns for files within each category (default: **/*)")
	flags.StringP("selector", "s", "", "CSS selector for HTML articles")
	flags.BoolP("include-all", "i", false, "Convert whole HTML pages without readability filtering")

	// pipeline flags
	flags.String("config", "", "YAML config file")
	flags.String("stopwords", "", "YAML stoplist replacing the built-in English list")
	flags.String("normalizer", defaults.Normalizer, "Token normalizer: lemma or stem")
	flags.Uint64("seed", defaults.Seed, "Random seed for the train/test split")
	flags.Float64("test-size", defaults.TestSize, "Fraction of documents held out for testing")
	flags.Int("vocab-size", defaults.VocabSize, "Bag-of-words vocabulary size")
	flags.Int("max-features", defaults.MaxFeatures, "TF-IDF vocabulary size")
	flags.Int("workers", defaults.Workers, "Parallel tokenization workers")

	// statistics flags
	flags.Bool("stats", false, "Print corpus statistics before the report")
	flags.String("count-by", defaults.CountBy, "Statistics unit: words, characters or tokens")

	// other flags
	flags.BoolP("quiet", "q", false, "Suppress progress output")
	flags.BoolP("debug", "D", false, "Enable debug logging")
	_ = flags.MarkHidden("debug")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
