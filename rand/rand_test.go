package rand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

type drawFunc func([]float64, int, rand.Source) ([]int, error)

var draws = map[string]drawFunc{
	"roulette":   RouletteDrawN,
	"systematic": SystematicDrawN,
}

func TestWithCovN(t *testing.T) {
	assert := assert.New(t)

	src := rand.NewSource(1)

	data := []float64{1.0, 0.0, 0.0, 1.0}
	covTest := mat.NewSymDense(2, data)
	covR, _ := covTest.Dims()

	// n must be bigger than 1
	nTest := -3
	res, err := WithCovN(covTest, nTest, src)
	assert.Error(err)
	assert.Nil(res)

	nTest = 1
	res, err = WithCovN(covTest, nTest, src)
	assert.NoError(err)
	assert.NotNil(res)

	// 2 samples
	nTest = 2
	res, err = WithCovN(covTest, nTest, src)
	assert.NoError(err)
	assert.NotNil(res)
	r, c := res.Dims()
	assert.Equal(r, covR)
	assert.Equal(c, nTest)
}

func TestWithCovNStatistics(t *testing.T) {
	assert := assert.New(t)

	cov := mat.NewSymDense(2, []float64{4.0, 1.0, 1.0, 2.0})
	n := 20000

	res, err := WithCovN(cov, n, rand.NewSource(11))
	assert.NoError(err)

	est := mat.NewSymDense(2, nil)
	stat.CovarianceMatrix(est, res.T(), nil)
	assert.True(mat.EqualApprox(cov, est, 0.15))

	// zero covariance yields zero samples
	res, err = WithCovN(mat.NewSymDense(2, nil), 5, rand.NewSource(11))
	assert.NoError(err)
	assert.True(mat.EqualApprox(mat.NewDense(2, 5, nil), res, 1e-12))
}

func TestDrawNInvalid(t *testing.T) {
	assert := assert.New(t)

	for name, draw := range draws {
		src := rand.NewSource(1)

		// p can't be nil or empty
		indices, err := draw(nil, 10, src)
		assert.Error(err, name)
		assert.Nil(indices, name)

		// negative weights are invalid
		indices, err = draw([]float64{0.5, -0.1}, 10, src)
		assert.Error(err, name)
		assert.Nil(indices, name)

		// negative count is invalid
		indices, err = draw([]float64{0.5, 0.5}, -1, src)
		assert.Error(err, name)
		assert.Nil(indices, name)

		indices, err = draw([]float64{0.5, 0.5}, 0, src)
		assert.NoError(err, name)
		assert.Len(indices, 0, name)
	}
}

func TestDrawN(t *testing.T) {
	assert := assert.New(t)

	for name, draw := range draws {
		p := []float64{0.1, 0.7, 0.3, 0.4}
		n := 10
		indices, err := draw(p, n, rand.NewSource(5))
		assert.NoError(err, name)
		assert.Equal(n, len(indices), name)
		for _, i := range indices {
			assert.True(i >= 0 && i < len(p), name)
		}
	}
}

func TestDrawNDegenerate(t *testing.T) {
	assert := assert.New(t)

	for name, draw := range draws {
		p := make([]float64, 50)
		p[17] = 1.0

		indices, err := draw(p, 500, rand.NewSource(9))
		assert.NoError(err, name)
		for _, i := range indices {
			assert.Equal(17, i, name)
		}
	}
}

func TestDrawNZeroWeights(t *testing.T) {
	assert := assert.New(t)

	for name, draw := range draws {
		p := make([]float64, 4)
		n := 4000

		indices, err := draw(p, n, rand.NewSource(13))
		assert.NoError(err, name)

		counts := make([]float64, len(p))
		for _, i := range indices {
			counts[i]++
		}
		for i := range counts {
			assert.InDelta(0.25, counts[i]/float64(n), 0.05, name)
		}
	}
}

func TestDrawNFrequencies(t *testing.T) {
	assert := assert.New(t)

	p := []float64{1, 2, 3, 4}
	n := 100000

	for name, draw := range draws {
		indices, err := draw(p, n, rand.NewSource(21))
		assert.NoError(err, name)

		counts := make([]float64, len(p))
		for _, i := range indices {
			counts[i]++
		}
		for i := range p {
			assert.InDelta(p[i]/10, counts[i]/float64(n), 0.01, name)
		}
	}
}

func TestSystematicDrawNBounds(t *testing.T) {
	assert := assert.New(t)

	// with normalized weights every index is drawn floor(n*p) or ceil(n*p) times
	p := []float64{0.05, 0.35, 0.15, 0.45}
	n := 40

	for seed := uint64(1); seed <= 20; seed++ {
		indices, err := SystematicDrawN(p, n, rand.NewSource(seed))
		assert.NoError(err)

		counts := make([]int, len(p))
		for i, idx := range indices {
			if i > 0 {
				assert.True(indices[i-1] <= idx)
			}
			counts[idx]++
		}
		for i := range p {
			exp := p[i] * float64(n)
			assert.InDelta(exp, float64(counts[i]), 1.0)
		}
	}
}
