package classify_test

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/chriscorrea/newsclass/internal/classify"
	"github.com/chriscorrea/newsclass/internal/sparse"
)

func TestNewMultinomialNB(t *testing.T) {
	tests := []struct {
		name     string
		alpha    float64
		expected float64
	}{
		{"default", 0, classify.DefaultAlpha},
		{"negative", -1, classify.DefaultAlpha},
		{"custom", 0.5, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nb := classify.NewMultinomialNB(tt.alpha)
			if nb.Alpha != tt.expected {
				t.Errorf("NewMultinomialNB(%v).Alpha = %v, want %v", tt.alpha, nb.Alpha, tt.expected)
			}
		})
	}
}

func TestFitProbabilities(t *testing.T) {
	x := sparse.FromDense([][]float64{
		{2, 0, 1},
		{0, 3, 0},
		{1, 0, 0},
	}, 3)
	labels := []string{"sport", "tech", "sport"}

	nb := classify.NewMultinomialNB(1)
	if err := nb.Fit(x, labels); err != nil {
		t.Fatalf("Fit() unexpected error: %v", err)
	}

	if got := nb.Classes(); !reflect.DeepEqual(got, []string{"sport", "tech"}) {
		t.Fatalf("Classes() = %q", got)
	}

	priors := nb.ClassLogPrior()
	if math.Abs(priors[0]-math.Log(2.0/3.0)) > 1e-12 || math.Abs(priors[1]-math.Log(1.0/3.0)) > 1e-12 {
		t.Errorf("ClassLogPrior() = %v", priors)
	}

	// sport counts (3, 0, 1) + alpha -> (4, 1, 2) / 7
	sport := nb.FeatureLogProb(0)
	expected := []float64{math.Log(4.0 / 7.0), math.Log(1.0 / 7.0), math.Log(2.0 / 7.0)}
	for j := range expected {
		if math.Abs(sport[j]-expected[j]) > 1e-12 {
			t.Errorf("FeatureLogProb(0)[%d] = %f, want %f", j, sport[j], expected[j])
		}
	}
}

func TestPredict(t *testing.T) {
	train := sparse.FromDense([][]float64{
		{5, 0, 0},
		{4, 1, 0},
		{0, 5, 1},
		{0, 4, 2},
		{0, 0, 6},
	}, 3)
	labels := []string{"business", "business", "sport", "sport", "tech"}

	nb := classify.NewMultinomialNB(1)
	if err := nb.Fit(train, labels); err != nil {
		t.Fatalf("Fit() unexpected error: %v", err)
	}

	test := sparse.FromDense([][]float64{
		{3, 0, 0},
		{0, 3, 1},
		{0, 0, 3},
	}, 3)

	predictions, err := nb.Predict(test)
	if err != nil {
		t.Fatalf("Predict() unexpected error: %v", err)
	}
	expected := []string{"business", "sport", "tech"}
	if !reflect.DeepEqual(predictions, expected) {
		t.Errorf("Predict() = %q, want %q", predictions, expected)
	}
}

func TestPredictTieGoesToFirstClass(t *testing.T) {
	train := sparse.FromDense([][]float64{
		{1, 0},
		{0, 1},
	}, 2)

	nb := classify.NewMultinomialNB(1)
	if err := nb.Fit(train, []string{"zeta", "alpha"}); err != nil {
		t.Fatalf("Fit() unexpected error: %v", err)
	}

	predictions, err := nb.Predict(sparse.FromDense([][]float64{{0, 0}}, 2))
	if err != nil {
		t.Fatalf("Predict() unexpected error: %v", err)
	}
	if !reflect.DeepEqual(predictions, []string{"alpha"}) {
		t.Errorf("Predict() = %q, want alpha", predictions)
	}
}

func TestPredictProba(t *testing.T) {
	train := sparse.FromDense([][]float64{
		{3, 0},
		{0, 3},
	}, 2)

	nb := classify.NewMultinomialNB(1)
	if err := nb.Fit(train, []string{"a", "b"}); err != nil {
		t.Fatalf("Fit() unexpected error: %v", err)
	}

	proba, err := nb.PredictProba(sparse.FromDense([][]float64{{2, 0}, {0, 0}}, 2))
	if err != nil {
		t.Fatalf("PredictProba() unexpected error: %v", err)
	}

	for i, row := range proba {
		sum := row[0] + row[1]
		if math.Abs(sum-1) > 1e-12 {
			t.Errorf("row %d probabilities sum to %f", i, sum)
		}
	}
	if proba[0][0] <= proba[0][1] {
		t.Errorf("PredictProba()[0] = %v, want class a favored", proba[0])
	}
	if math.Abs(proba[1][0]-0.5) > 1e-12 {
		t.Errorf("PredictProba()[1] = %v, want uniform", proba[1])
	}
}

func TestFitErrors(t *testing.T) {
	tests := []struct {
		name    string
		x       *sparse.Matrix
		labels  []string
		wantErr error
	}{
		{
			name:    "no columns",
			x:       sparse.FromDense([][]float64{{}, {}}, 0),
			labels:  []string{"a", "b"},
			wantErr: classify.ErrNoFeatures,
		},
		{
			name:   "label mismatch",
			x:      sparse.FromDense([][]float64{{1}}, 1),
			labels: []string{"a", "b"},
		},
		{
			name:   "no rows",
			x:      sparse.FromDense(nil, 2),
			labels: nil,
		},
		{
			name:   "negative value",
			x:      sparse.FromDense([][]float64{{1, -1}}, 2),
			labels: []string{"a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify.NewMultinomialNB(1).Fit(tt.x, tt.labels)
			if err == nil {
				t.Fatal("Fit() expected error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Fit() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPredictErrors(t *testing.T) {
	nb := classify.NewMultinomialNB(1)
	if _, err := nb.Predict(sparse.FromDense([][]float64{{1}}, 1)); !errors.Is(err, classify.ErrNotFitted) {
		t.Errorf("Predict() error = %v, want ErrNotFitted", err)
	}

	if err := nb.Fit(sparse.FromDense([][]float64{{1, 2}}, 2), []string{"a"}); err != nil {
		t.Fatalf("Fit() unexpected error: %v", err)
	}
	if _, err := nb.Predict(sparse.FromDense([][]float64{{1, 2, 3}}, 3)); err == nil {
		t.Error("Predict() expected column mismatch error, got nil")
	}
}
