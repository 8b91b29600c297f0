package matrix

import (
	"fmt"

	"github.com/milosgajdos/go-mcl/particle"
	mtx "github.com/milosgajdos/matrix"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// FromParticles returns a 3xN matrix which stores particle poses in its columns.
// Rows hold x, y and theta respectively. It returns nil if particles is empty.
func FromParticles(particles []particle.Particle) *mat.Dense {
	if len(particles) == 0 {
		return nil
	}

	m := mat.NewDense(3, len(particles), nil)
	for c := range particles {
		m.Set(0, c, particles[c].X)
		m.Set(1, c, particles[c].Y)
		m.Set(2, c, particles[c].Theta)
	}

	return m
}

// RowSums returns a slice containing m row sums.
// It panics if m is nil.
func RowSums(m *mat.Dense) []float64 {
	rows, _ := m.Dims()
	sum := make([]float64, rows)

	for i := 0; i < rows; i++ {
		sum[i] = floats.Sum(m.RawRowView(i))
	}

	return sum
}

// Cov returns covariance matrix of the column vectors stored in m.
// It returns error if m has fewer than two columns or if the covariance fails to be computed.
func Cov(m *mat.Dense) (mat.Symmetric, error) {
	if m == nil {
		return nil, fmt.Errorf("invalid matrix: %v", m)
	}

	if _, c := m.Dims(); c < 2 {
		return nil, fmt.Errorf("invalid number of columns: %d", c)
	}

	cov, err := mtx.Cov(m, "cols")
	if err != nil {
		return nil, fmt.Errorf("failed to calculate covariance matrix: %w", err)
	}

	return cov, nil
}
