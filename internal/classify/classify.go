// Package classify provides a multinomial Naive Bayes text classifier.
//
// The classifier works on non-negative feature matrices (counts or TF-IDF weights) and
// learns, per class, a smoothed log probability for every feature plus a log prior.
// Prediction picks the class with the highest joint log likelihood.
package classify

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/chriscorrea/newsclass/internal/sparse"
)

// DefaultAlpha is the additive (Laplace) smoothing used when none is given.
const DefaultAlpha = 1.0

var (
	// ErrNoFeatures is returned when fitting a matrix without columns.
	ErrNoFeatures = errors.New("feature matrix has no columns")

	// ErrNotFitted is returned when predicting before Fit.
	ErrNotFitted = errors.New("classifier is not fitted")
)

// MultinomialNB is a multinomial Naive Bayes classifier
type MultinomialNB struct {
	Alpha float64

	classes        []string
	classLogPrior  []float64
	featureLogProb [][]float64 // per class, per feature
	features       int
}

// NewMultinomialNB creates an unfitted classifier with the given smoothing.
// A non-positive alpha selects DefaultAlpha.
func NewMultinomialNB(alpha float64) *MultinomialNB {
	if alpha <= 0 {
		alpha = DefaultAlpha
	}
	return &MultinomialNB{Alpha: alpha}
}

// Fit learns class priors and feature probabilities from x and the aligned labels.
//
// Parameters:
//   - x: training matrix, one row per document; values must be non-negative
//   - labels: class label of each row
//
// Returns an error if shapes disagree, the matrix has no columns, or a value is negative.
func (nb *MultinomialNB) Fit(x *sparse.Matrix, labels []string) error {
	rows, cols := x.Dims()
	if rows != len(labels) {
		return fmt.Errorf("matrix has %d rows but %d labels were given", rows, len(labels))
	}
	if rows == 0 {
		return errors.New("cannot fit classifier on zero documents")
	}
	if cols == 0 {
		return ErrNoFeatures
	}

	// classes are kept in sorted order so ties resolve deterministically
	classIndex := make(map[string]int)
	for _, label := range labels {
		classIndex[label] = 0
	}
	classes := make([]string, 0, len(classIndex))
	for label := range classIndex {
		classes = append(classes, label)
	}
	sort.Strings(classes)
	for i, label := range classes {
		classIndex[label] = i
	}

	classCounts := make([]float64, len(classes))
	featureCounts := make([][]float64, len(classes))
	for c := range featureCounts {
		featureCounts[c] = make([]float64, cols)
	}

	for i, label := range labels {
		c := classIndex[label]
		classCounts[c]++

		featCols, vals := x.Row(i)
		for k, col := range featCols {
			if vals[k] < 0 {
				return fmt.Errorf("negative value %v at row %d, column %d", vals[k], i, col)
			}
			featureCounts[c][col] += vals[k]
		}
	}

	logTotal := math.Log(float64(rows))
	classLogPrior := make([]float64, len(classes))
	featureLogProb := make([][]float64, len(classes))
	for c := range classes {
		classLogPrior[c] = math.Log(classCounts[c]) - logTotal

		smoothed := make([]float64, cols)
		copy(smoothed, featureCounts[c])
		floats.AddConst(nb.Alpha, smoothed)
		logDenominator := math.Log(floats.Sum(smoothed))

		for j := range smoothed {
			smoothed[j] = math.Log(smoothed[j]) - logDenominator
		}
		featureLogProb[c] = smoothed
	}

	nb.classes = classes
	nb.classLogPrior = classLogPrior
	nb.featureLogProb = featureLogProb
	nb.features = cols

	slog.Debug("Classifier fitted", "documents", rows, "features", cols, "classes", len(classes), "alpha", nb.Alpha)
	return nil
}

// jointLogLikelihood returns log P(c) + Σ x_j log P(j|c) for every class.
func (nb *MultinomialNB) jointLogLikelihood(x *sparse.Matrix) ([][]float64, error) {
	if nb.classes == nil {
		return nil, ErrNotFitted
	}
	rows, cols := x.Dims()
	if cols != nb.features {
		return nil, fmt.Errorf("matrix has %d columns, classifier was fitted on %d", cols, nb.features)
	}

	jll := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		featCols, vals := x.Row(i)
		scores := make([]float64, len(nb.classes))
		for c := range nb.classes {
			score := nb.classLogPrior[c]
			logProb := nb.featureLogProb[c]
			for k, col := range featCols {
				score += vals[k] * logProb[col]
			}
			scores[c] = score
		}
		jll[i] = scores
	}
	return jll, nil
}

// Predict returns the most likely class for every row of x.
func (nb *MultinomialNB) Predict(x *sparse.Matrix) ([]string, error) {
	jll, err := nb.jointLogLikelihood(x)
	if err != nil {
		return nil, err
	}

	predictions := make([]string, len(jll))
	for i, scores := range jll {
		// MaxIdx returns the first maximum, i.e. the lexicographically smallest class
		predictions[i] = nb.classes[floats.MaxIdx(scores)]
	}
	return predictions, nil
}

// PredictProba returns normalized class probabilities for every row of x,
// columns ordered as Classes.
func (nb *MultinomialNB) PredictProba(x *sparse.Matrix) ([][]float64, error) {
	jll, err := nb.jointLogLikelihood(x)
	if err != nil {
		return nil, err
	}

	for _, scores := range jll {
		logNorm := floats.LogSumExp(scores)
		for c := range scores {
			scores[c] = math.Exp(scores[c] - logNorm)
		}
	}
	return jll, nil
}

// Classes returns the fitted class labels in sorted order.
func (nb *MultinomialNB) Classes() []string {
	out := make([]string, len(nb.classes))
	copy(out, nb.classes)
	return out
}

// ClassLogPrior returns the fitted log prior of each class.
func (nb *MultinomialNB) ClassLogPrior() []float64 {
	out := make([]float64, len(nb.classLogPrior))
	copy(out, nb.classLogPrior)
	return out
}

// FeatureLogProb returns log P(feature | class) for the class at index c.
func (nb *MultinomialNB) FeatureLogProb(c int) []float64 {
	out := make([]float64, len(nb.featureLogProb[c]))
	copy(out, nb.featureLogProb[c])
	return out
}
