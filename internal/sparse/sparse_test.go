package sparse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriscorrea/newsclass/internal/sparse"
)

func TestFromDense(t *testing.T) {
	m := sparse.FromDense([][]float64{
		{1, 0, 2},
		{0, 0, 0},
		{0, 3, 0},
	}, 3)

	rows, cols := m.Dims()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, 3, m.NNZ())
	assert.Equal(t, 2.0, m.At(0, 2))
	assert.Equal(t, 0.0, m.At(1, 1))
	assert.Equal(t, []float64{0, 3, 0}, m.DenseRow(2))
}

func TestFromDenseZeroColumns(t *testing.T) {
	m := sparse.FromDense([][]float64{{}, {}}, 0)

	rows, cols := m.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 0, cols)
	assert.Equal(t, []float64{}, m.DenseRow(1))
}

func TestAddDensePanicsOnWidthMismatch(t *testing.T) {
	b := sparse.NewBuilder(2)
	assert.Panics(t, func() { b.AddDense([]float64{1, 2, 3}) })
}

func TestAddSparse(t *testing.T) {
	b := sparse.NewBuilder(4)
	b.AddSparse([]int{1, 3}, []float64{5, 0})
	b.AddSparse(nil, nil)
	m := b.Build()

	assert.Equal(t, []float64{0, 5, 0, 0}, m.DenseRow(0))
	assert.Equal(t, 1, m.NNZ())
	assert.Panics(t, func() { sparse.NewBuilder(2).AddSparse([]int{1, 0}, []float64{1, 1}) })
}

func TestHStack(t *testing.T) {
	a := sparse.FromDense([][]float64{{1, 0}, {0, 2}}, 2)
	b := sparse.FromDense([][]float64{{}, {}}, 0)
	c := sparse.FromDense([][]float64{{0, 0, 3}, {4, 0, 0}}, 3)

	m, err := sparse.HStack(a, b, c)
	require.NoError(t, err)

	rows, cols := m.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 5, cols)
	assert.Equal(t, []float64{1, 0, 0, 0, 3}, m.DenseRow(0))
	assert.Equal(t, []float64{0, 2, 4, 0, 0}, m.DenseRow(1))
}

func TestHStackRowMismatch(t *testing.T) {
	a := sparse.FromDense([][]float64{{1}}, 1)
	b := sparse.FromDense([][]float64{{1}, {2}}, 1)

	_, err := sparse.HStack(a, b)
	assert.Error(t, err)
}

func TestColumns(t *testing.T) {
	m := sparse.FromDense([][]float64{
		{1, 0, 5, -2},
		{3, 0, 0, 0},
		{4, 0, 6, 0},
	}, 4)

	columns := m.Columns()
	require.Len(t, columns, 4)
	assert.Equal(t, []float64{1, 3, 4}, columns[0])
	assert.Empty(t, columns[1])
	assert.Equal(t, []float64{5, 6}, columns[2])
	assert.Equal(t, []float64{-2}, columns[3])

	// results are copies
	columns[0][0] = 99
	assert.Equal(t, 1.0, m.At(0, 0))
}

func TestSelectColumns(t *testing.T) {
	m := sparse.FromDense([][]float64{
		{1, 2, 3},
		{4, 5, 6},
	}, 3)

	selected, err := m.SelectColumns([]int{0, 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3}, selected.DenseRow(0))
	assert.Equal(t, []float64{4, 6}, selected.DenseRow(1))

	_, err = m.SelectColumns([]int{2, 0})
	assert.Error(t, err)

	_, err = m.SelectColumns([]int{3})
	assert.Error(t, err)
}
