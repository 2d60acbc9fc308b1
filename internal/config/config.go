// Package config holds the run configuration of newsclass.
//
// Values are layered in increasing priority: built-in defaults, the environment
// (optionally populated from a .env file), a YAML config file, and finally
// command-line flags applied by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/chriscorrea/newsclass/internal/counter"
)

// ErrInvalidConfig is returned by Validate for out-of-range settings.
var ErrInvalidConfig = errors.New("invalid configuration")

const (
	// EnvCorpus names the environment variable holding the default corpus root.
	EnvCorpus = "NEWSCLASS_CORPUS"

	// DefaultCorpus is used when neither flags, file nor environment name a corpus.
	DefaultCorpus = "./bbc"
)

// Config holds all settings of one classification run.
type Config struct {
	Corpus     string   `yaml:"corpus"`
	Categories []string `yaml:"categories"` // empty loads every subdirectory
	Include    []string `yaml:"include"`    // doublestar patterns within each category
	Selector   string   `yaml:"selector"`   // CSS selector for HTML documents
	IncludeAll bool     `yaml:"include_all"`

	NgramN    int     `yaml:"ngram"`     // n-gram length for the count block
	Threshold float64 `yaml:"threshold"` // variance threshold

	Seed        uint64  `yaml:"seed"`
	TestSize    float64 `yaml:"test_size"`
	VocabSize   int     `yaml:"vocab_size"`
	MaxFeatures int     `yaml:"max_features"`

	Normalizer string `yaml:"normalizer"` // lemma or stem
	Stopwords  string `yaml:"stopwords"`  // path to a YAML stoplist; empty uses the built-in list
	Workers    int    `yaml:"workers"`

	Stats   bool   `yaml:"stats"`
	CountBy string `yaml:"count_by"` // words, characters or tokens

	Quiet bool `yaml:"-"`
	Debug bool `yaml:"-"`
}

// Default returns the built-in configuration, with the corpus root taken from
// NEWSCLASS_CORPUS when set.
func Default() Config {
	corpus := DefaultCorpus
	if env := os.Getenv(EnvCorpus); env != "" {
		corpus = env
	}

	return Config{
		Corpus:      corpus,
		NgramN:      1,
		Threshold:   0,
		Seed:        42,
		TestSize:    0.2,
		VocabSize:   1000,
		MaxFeatures: 5000,
		Normalizer:  "lemma",
		Workers:     runtime.NumCPU(),
		CountBy:     "words",
	}
}

// LoadEnv loads variables from the given .env files (default ".env") into the process
// environment without overriding variables that are already set. Missing files are ignored.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// Load returns Default overlaid with the YAML file at path.
// Unknown keys are rejected. An empty path returns Default unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}

	return cfg, nil
}

// Validate checks every setting and reports the first invalid one.
func (c Config) Validate() error {
	switch {
	case c.Corpus == "":
		return fmt.Errorf("%w: corpus path is empty", ErrInvalidConfig)
	case c.NgramN < 1:
		return fmt.Errorf("%w: n-gram length must be at least 1, got %d", ErrInvalidConfig, c.NgramN)
	case math.IsNaN(c.Threshold) || math.IsInf(c.Threshold, 0) || c.Threshold < 0:
		return fmt.Errorf("%w: variance threshold must be a non-negative number, got %v", ErrInvalidConfig, c.Threshold)
	case !(c.TestSize > 0 && c.TestSize < 1):
		return fmt.Errorf("%w: test size must be between 0 and 1, got %v", ErrInvalidConfig, c.TestSize)
	case c.VocabSize < 1:
		return fmt.Errorf("%w: vocabulary size must be at least 1, got %d", ErrInvalidConfig, c.VocabSize)
	case c.MaxFeatures < 1:
		return fmt.Errorf("%w: max features must be at least 1, got %d", ErrInvalidConfig, c.MaxFeatures)
	case c.Normalizer != "lemma" && c.Normalizer != "stem":
		return fmt.Errorf("%w: normalizer must be lemma or stem, got %q", ErrInvalidConfig, c.Normalizer)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}

	if _, err := counter.ParseMethod(c.CountBy); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
