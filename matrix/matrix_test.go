package matrix

import (
	"testing"

	mcl "github.com/milosgajdos/go-mcl"
	"github.com/milosgajdos/go-mcl/particle"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestFromParticles(t *testing.T) {
	assert := assert.New(t)

	assert.Nil(FromParticles(nil))

	particles := []particle.Particle{
		particle.New(0, mcl.Pose{X: 1, Y: 2, Theta: 3}),
		particle.New(1, mcl.Pose{X: 4, Y: 5, Theta: 6}),
	}

	m := FromParticles(particles)
	exp := mat.NewDense(3, 2, []float64{1, 4, 2, 5, 3, 6})
	assert.True(mat.Equal(exp, m))
}

func TestRowSums(t *testing.T) {
	assert := assert.New(t)

	data := []float64{1.2, 3.4, 4.5, 6.7, 8.9, 10.0}
	rowSums := []float64{4.6, 11.2, 18.9}
	delta := 0.001

	m := mat.NewDense(3, 2, data)
	assert.NotNil(m)

	resRows := RowSums(m)
	assert.NotNil(resRows)
	assert.InDeltaSlice(rowSums, resRows, delta)
	// should panic
	assert.Panics(func() { RowSums(nil) })
}

func TestCov(t *testing.T) {
	assert := assert.New(t)

	cov, err := Cov(nil)
	assert.Nil(cov)
	assert.Error(err)

	cov, err = Cov(mat.NewDense(3, 1, []float64{1, 2, 3}))
	assert.Nil(cov)
	assert.Error(err)

	// x and y perfectly correlated, theta constant
	m := mat.NewDense(3, 3, []float64{
		1, 2, 3,
		2, 4, 6,
		5, 5, 5,
	})
	cov, err = Cov(m)
	assert.NoError(err)
	assert.NotNil(cov)

	assert.Equal(3, cov.SymmetricDim())
	vx := cov.At(0, 0)
	assert.True(vx > 0)
	assert.InDelta(2*vx, cov.At(0, 1), 1e-9)
	assert.InDelta(4*vx, cov.At(1, 1), 1e-9)
	for i := 0; i < 3; i++ {
		assert.InDelta(0.0, cov.At(2, i), 1e-9)
	}
}
