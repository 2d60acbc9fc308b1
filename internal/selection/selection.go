// Package selection removes low-variance feature columns.
//
// A VarianceThreshold learns, from the training matrix only, which columns have a
// population variance strictly greater than the threshold, and then keeps exactly
// those columns in every matrix it transforms.
package selection

import (
	"errors"
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/floats"

	"github.com/chriscorrea/newsclass/internal/sparse"
)

var (
	// ErrNoFeatures is returned when no column clears the threshold.
	ErrNoFeatures = errors.New("no feature meets the variance threshold")

	// ErrNotFitted is returned when Transform runs before Fit.
	ErrNotFitted = errors.New("variance threshold is not fitted")
)

// VarianceThreshold drops columns whose training variance does not exceed Threshold.
type VarianceThreshold struct {
	Threshold float64

	variances []float64
	support   []int
	width     int
}

// NewVarianceThreshold returns a selector for the given threshold.
func NewVarianceThreshold(threshold float64) (*VarianceThreshold, error) {
	if threshold < 0 {
		return nil, fmt.Errorf("variance threshold must be non-negative, got %v", threshold)
	}
	return &VarianceThreshold{Threshold: threshold}, nil
}

// Fit computes per-column variances of m and records the surviving columns.
func (vt *VarianceThreshold) Fit(m *sparse.Matrix) error {
	variances, ranges := columnStats(m)

	// with a zero threshold, constant columns must drop even when rounding
	// leaves a tiny positive variance, so the column range decides as well
	if vt.Threshold == 0 {
		for j := range variances {
			variances[j] = min(variances[j], ranges[j])
		}
	}

	support := make([]int, 0, len(variances))
	for j, v := range variances {
		if v > vt.Threshold {
			support = append(support, j)
		}
	}

	_, cols := m.Dims()
	if len(support) == 0 {
		maxVariance := 0.0
		if len(variances) > 0 {
			maxVariance = floats.Max(variances)
		}
		return fmt.Errorf("%w: threshold %v, %d columns, max variance %v", ErrNoFeatures, vt.Threshold, cols, maxVariance)
	}

	vt.variances = variances
	vt.support = support
	vt.width = cols

	slog.Debug("Variance threshold fitted", "threshold", vt.Threshold, "columns", cols, "kept", len(support))
	return nil
}

// columnStats returns the population variance and the peak-to-peak range of every
// column of m, counting the implicit zeros of the sparse storage.
func columnStats(m *sparse.Matrix) (variances, ranges []float64) {
	rows, cols := m.Dims()
	variances = make([]float64, cols)
	ranges = make([]float64, cols)
	if rows == 0 {
		return variances, ranges
	}

	n := float64(rows)
	for j, stored := range m.Columns() {
		if len(stored) == 0 {
			continue
		}
		zeros := float64(rows - len(stored))

		lo, hi := floats.Min(stored), floats.Max(stored)
		if zeros > 0 {
			lo, hi = min(lo, 0), max(hi, 0)
		}
		ranges[j] = hi - lo

		// stored is a private copy, so center it in place; each implicit zero deviates by -mean
		mean := floats.Sum(stored) / n
		floats.AddConst(-mean, stored)
		variances[j] = (floats.Dot(stored, stored) + zeros*mean*mean) / n
	}
	return variances, ranges
}

// Transform keeps the fitted columns of m, preserving their order.
func (vt *VarianceThreshold) Transform(m *sparse.Matrix) (*sparse.Matrix, error) {
	if vt.support == nil {
		return nil, ErrNotFitted
	}
	if _, cols := m.Dims(); cols != vt.width {
		return nil, fmt.Errorf("matrix has %d columns, selector was fitted on %d", cols, vt.width)
	}
	return m.SelectColumns(vt.support)
}

// FitTransform fits on m and returns its reduced form.
func (vt *VarianceThreshold) FitTransform(m *sparse.Matrix) (*sparse.Matrix, error) {
	if err := vt.Fit(m); err != nil {
		return nil, err
	}
	return vt.Transform(m)
}

// Support returns the kept column indices in ascending order.
func (vt *VarianceThreshold) Support() []int {
	out := make([]int, len(vt.support))
	copy(out, vt.support)
	return out
}

// Variances returns the fitted per-column variances.
func (vt *VarianceThreshold) Variances() []float64 {
	out := make([]float64, len(vt.variances))
	copy(out, vt.variances)
	return out
}
