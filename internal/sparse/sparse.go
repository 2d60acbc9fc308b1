// Package sparse provides the compressed sparse row (CSR) matrix used for feature matrices.
//
// Matrices are built row by row, concatenated column-wise with HStack and reduced with
// SelectColumns. Rows are never reordered, so row i always belongs to document i.
package sparse

import (
	"fmt"
)

// Matrix is an immutable CSR matrix of float64 values.
type Matrix struct {
	rows    int
	cols    int
	indptr  []int     // row i spans indices[indptr[i]:indptr[i+1]]
	indices []int     // column index of each stored value, ascending within a row
	values  []float64 // stored non-zero values
}

// Builder appends rows to a new Matrix with a fixed column count.
type Builder struct {
	cols    int
	indptr  []int
	indices []int
	values  []float64
}

// NewBuilder creates a Builder for matrices with cols columns.
func NewBuilder(cols int) *Builder {
	return &Builder{
		cols:   cols,
		indptr: []int{0},
	}
}

// AddDense appends a dense row, storing only its non-zero entries.
// It panics if the row length differs from the column count.
func (b *Builder) AddDense(row []float64) {
	if len(row) != b.cols {
		panic(fmt.Sprintf("sparse: row has %d columns, want %d", len(row), b.cols))
	}
	for col, v := range row {
		if v != 0 {
			b.indices = append(b.indices, col)
			b.values = append(b.values, v)
		}
	}
	b.indptr = append(b.indptr, len(b.indices))
}

// AddSparse appends a row given as parallel column/value slices.
// Columns must be ascending and within range; zero values are skipped.
func (b *Builder) AddSparse(cols []int, vals []float64) {
	if len(cols) != len(vals) {
		panic("sparse: column and value slices differ in length")
	}
	prev := -1
	for i, col := range cols {
		if col <= prev || col >= b.cols {
			panic(fmt.Sprintf("sparse: column %d out of order or range (cols=%d)", col, b.cols))
		}
		prev = col
		if vals[i] != 0 {
			b.indices = append(b.indices, col)
			b.values = append(b.values, vals[i])
		}
	}
	b.indptr = append(b.indptr, len(b.indices))
}

// Build returns the finished matrix. The builder must not be used afterwards.
func (b *Builder) Build() *Matrix {
	return &Matrix{
		rows:    len(b.indptr) - 1,
		cols:    b.cols,
		indptr:  b.indptr,
		indices: b.indices,
		values:  b.values,
	}
}

// FromDense builds a matrix from dense rows of equal length cols.
func FromDense(rows [][]float64, cols int) *Matrix {
	b := NewBuilder(cols)
	for _, row := range rows {
		b.AddDense(row)
	}
	return b.Build()
}

// Dims returns the number of rows and columns.
func (m *Matrix) Dims() (rows, cols int) {
	return m.rows, m.cols
}

// NNZ returns the number of stored values.
func (m *Matrix) NNZ() int {
	return len(m.values)
}

// At returns the value at row i, column j.
func (m *Matrix) At(i, j int) float64 {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(fmt.Sprintf("sparse: index (%d,%d) out of range (%d,%d)", i, j, m.rows, m.cols))
	}
	for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
		if m.indices[k] == j {
			return m.values[k]
		}
		if m.indices[k] > j {
			break
		}
	}
	return 0
}

// Row returns the stored columns and values of row i. The slices alias the matrix
// and must not be modified.
func (m *Matrix) Row(i int) (cols []int, vals []float64) {
	start, end := m.indptr[i], m.indptr[i+1]
	return m.indices[start:end], m.values[start:end]
}

// DenseRow returns row i as a freshly allocated dense slice.
func (m *Matrix) DenseRow(i int) []float64 {
	dense := make([]float64, m.cols)
	cols, vals := m.Row(i)
	for k, col := range cols {
		dense[col] = vals[k]
	}
	return dense
}

// HStack concatenates matrices column-wise. All inputs must have the same row count.
func HStack(blocks ...*Matrix) (*Matrix, error) {
	if len(blocks) == 0 {
		return NewBuilder(0).Build(), nil
	}

	rows := blocks[0].rows
	totalCols := 0
	for i, block := range blocks {
		if block.rows != rows {
			return nil, fmt.Errorf("block %d has %d rows, want %d", i, block.rows, rows)
		}
		totalCols += block.cols
	}

	b := NewBuilder(totalCols)
	for r := 0; r < rows; r++ {
		offset := 0
		for _, block := range blocks {
			cols, vals := block.Row(r)
			for k, col := range cols {
				b.indices = append(b.indices, col+offset)
				b.values = append(b.values, vals[k])
			}
			offset += block.cols
		}
		b.indptr = append(b.indptr, len(b.indices))
	}
	return b.Build(), nil
}

// Columns returns the stored values of every column in row order. Implicit zeros are
// not included; a column has rows-len(Columns()[j]) of them. The slices are fresh copies.
func (m *Matrix) Columns() [][]float64 {
	counts := make([]int, m.cols)
	for _, col := range m.indices {
		counts[col]++
	}

	columns := make([][]float64, m.cols)
	for col, n := range counts {
		columns[col] = make([]float64, 0, n)
	}
	for k, col := range m.indices {
		columns[col] = append(columns[col], m.values[k])
	}
	return columns
}

// SelectColumns returns a matrix holding only the given columns. keep must be strictly ascending.
func (m *Matrix) SelectColumns(keep []int) (*Matrix, error) {
	remap := make(map[int]int, len(keep))
	for newCol, col := range keep {
		if col < 0 || col >= m.cols {
			return nil, fmt.Errorf("column %d out of range (cols=%d)", col, m.cols)
		}
		if newCol > 0 && col <= keep[newCol-1] {
			return nil, fmt.Errorf("columns must be strictly ascending")
		}
		remap[col] = newCol
	}

	b := NewBuilder(len(keep))
	for r := 0; r < m.rows; r++ {
		cols, vals := m.Row(r)
		for k, col := range cols {
			if newCol, ok := remap[col]; ok {
				b.indices = append(b.indices, newCol)
				b.values = append(b.values, vals[k])
			}
		}
		b.indptr = append(b.indptr, len(b.indices))
	}
	return b.Build(), nil
}
