package datatypes

import (
	"math"

	"github.com/aretw0/dataflow/pkg/domain"
)

// DenseMatrix is a row-major matrix of float64.
type DenseMatrix struct {
	base
	rows, cols int
	data       []float64
}

// NewDenseMatrix creates a rows×cols matrix from row-major data.
// A nil data slice yields a zero matrix.
func NewDenseMatrix(rows, cols int, data []float64) (*DenseMatrix, error) {
	if rows < 0 || cols < 0 {
		return nil, domain.NewExecutionError(domain.CategoryDimensionMismatch, "negative dimensions %dx%d", rows, cols)
	}
	if data == nil {
		data = make([]float64, rows*cols)
	}
	if len(data) != rows*cols {
		return nil, domain.NewExecutionError(domain.CategoryDimensionMismatch,
			"%d values do not fill a %dx%d matrix", len(data), rows, cols)
	}
	cp := make([]float64, len(data))
	copy(cp, data)
	return &DenseMatrix{base: base{id: newID()}, rows: rows, cols: cols, data: cp}, nil
}

// Identity returns the n×n identity matrix.
func Identity(n int) *DenseMatrix {
	m, _ := NewDenseMatrix(n, n, nil)
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}
	return m
}

func (m *DenseMatrix) TypeName() string { return domain.DatatypeMatrix }

func (m *DenseMatrix) Rows() int { return m.rows }
func (m *DenseMatrix) Cols() int { return m.cols }

// Len returns the number of elements.
func (m *DenseMatrix) Len() int { return len(m.data) }

// At returns element (r, c).
func (m *DenseMatrix) At(r, c int) float64 {
	return m.data[r*m.cols+c]
}

// Data returns a copy of the row-major values.
func (m *DenseMatrix) Data() []float64 {
	cp := make([]float64, len(m.data))
	copy(cp, m.data)
	return cp
}

// Min returns the smallest element, or NaN for an empty matrix.
func (m *DenseMatrix) Min() float64 {
	if len(m.data) == 0 {
		return math.NaN()
	}
	min := m.data[0]
	for _, v := range m.data[1:] {
		min = math.Min(min, v)
	}
	return min
}

// Max returns the largest element, or NaN for an empty matrix.
func (m *DenseMatrix) Max() float64 {
	if len(m.data) == 0 {
		return math.NaN()
	}
	max := m.data[0]
	for _, v := range m.data[1:] {
		max = math.Max(max, v)
	}
	return max
}

// Transpose returns mᵀ.
func (m *DenseMatrix) Transpose() *DenseMatrix {
	out, _ := NewDenseMatrix(m.cols, m.rows, nil)
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			out.data[c*m.rows+r] = m.data[r*m.cols+c]
		}
	}
	return out
}

// Scale returns k·m.
func (m *DenseMatrix) Scale(k float64) *DenseMatrix {
	out, _ := NewDenseMatrix(m.rows, m.cols, m.data)
	for i := range out.data {
		out.data[i] *= k
	}
	return out
}

// Negate returns -m.
func (m *DenseMatrix) Negate() *DenseMatrix {
	return m.Scale(-1)
}

// Add returns m + o.
func (m *DenseMatrix) Add(o *DenseMatrix) (*DenseMatrix, error) {
	return m.elementwise(o, "add", func(a, b float64) float64 { return a + b })
}

// Subtract returns m - o.
func (m *DenseMatrix) Subtract(o *DenseMatrix) (*DenseMatrix, error) {
	return m.elementwise(o, "subtract", func(a, b float64) float64 { return a - b })
}

// Multiply returns the matrix product m·o.
func (m *DenseMatrix) Multiply(o *DenseMatrix) (*DenseMatrix, error) {
	if m.cols != o.rows {
		return nil, domain.NewExecutionError(domain.CategoryDimensionMismatch,
			"cannot multiply %dx%d by %dx%d", m.rows, m.cols, o.rows, o.cols)
	}
	out, _ := NewDenseMatrix(m.rows, o.cols, nil)
	for r := 0; r < m.rows; r++ {
		for c := 0; c < o.cols; c++ {
			var sum float64
			for k := 0; k < m.cols; k++ {
				sum += m.data[r*m.cols+k] * o.data[k*o.cols+c]
			}
			out.data[r*o.cols+c] = sum
		}
	}
	return out, nil
}

func (m *DenseMatrix) elementwise(o *DenseMatrix, op string, fn func(a, b float64) float64) (*DenseMatrix, error) {
	if m.rows != o.rows || m.cols != o.cols {
		return nil, domain.NewExecutionError(domain.CategoryDimensionMismatch,
			"cannot %s %dx%d and %dx%d", op, m.rows, m.cols, o.rows, o.cols)
	}
	out, _ := NewDenseMatrix(m.rows, m.cols, nil)
	for i := range m.data {
		out.data[i] = fn(m.data[i], o.data[i])
	}
	return out, nil
}
