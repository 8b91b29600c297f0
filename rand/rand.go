package rand

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// WithCovN draws n random samples from a zero-mean Normal (aka Gaussian) distribution with covariance cov.
// It returns matrix which contains the randomly generated samples stored in its columns.
// It fails with error if n is non-positive or if SVD factorization of cov fails.
func WithCovN(cov mat.Symmetric, n int, src rand.Source) (*mat.Dense, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid number of samples requested: %d", n)
	}

	// Use SVD instead of Cholesky as Cholesky can be numerically unstable if cov is (almost) singular
	var svd mat.SVD
	ok := svd.Factorize(cov, mat.SVDFull)
	if !ok {
		return nil, fmt.Errorf("SVD factorization failed")
	}

	U := new(mat.Dense)
	svd.UTo(U)
	vals := svd.Values(nil)
	for i := range vals {
		vals[i] = math.Sqrt(vals[i])
	}
	diag := mat.NewDiagDense(len(vals), vals)
	U.Mul(U, diag)

	norm := distuv.Normal{Mu: 0, Sigma: 1, Src: src}

	rows, _ := cov.Dims()
	data := make([]float64, rows*n)
	for i := range data {
		data[i] = norm.Rand()
	}
	samples := mat.NewDense(rows, n, data)
	samples.Mul(U, samples)

	return samples, nil
}

// RouletteDrawN draws n numbers randomly from a probability mass function (PMF) defined by weights in p.
// RouletteDrawN implements the Roulette Wheel Draw a.k.a. Fitness Proportionate Selection:
// - https://en.wikipedia.org/wiki/Fitness_proportionate_selection
// - http://www.keithschwarz.com/darts-dice-coins/
// It returns a slice of n indices into p. Weights in p need not be normalized.
// If all weights are zero every index is equally likely.
// It fails with error if p is empty or contains a negative weight.
func RouletteDrawN(p []float64, n int, src rand.Source) ([]int, error) {
	if n < 0 {
		return nil, fmt.Errorf("invalid number of draws requested: %d", n)
	}

	cdf, err := cumulative(p)
	if err != nil {
		return nil, err
	}

	unit := distuv.Uniform{Min: 0, Max: 1, Src: src}

	// Generation:
	// 1. Generate a uniformly-random value x in the range [0,1)
	// 2. Using a binary search, find the index of the smallest element in cdf larger than x
	var val float64
	indices := make([]int, n)
	for i := range indices {
		// multiply the sample with the largest CDF value; easier than normalizing to [0,1)
		val = unit.Rand() * cdf[len(cdf)-1]
		// Search returns the smallest index i such that cdf[i] > val
		indices[i] = sort.Search(len(cdf), func(i int) bool { return cdf[i] > val })
		// val can only reach the last CDF value through floating point rounding
		if indices[i] == len(cdf) {
			indices[i] = len(cdf) - 1
		}
	}

	return indices, nil
}

// SystematicDrawN draws n numbers from a probability mass function (PMF) defined by weights in p
// using systematic (low variance) resampling: a single uniform offset in [0, 1/n) is drawn and
// the cumulative weights are sampled at n equally spaced points starting at that offset.
// Every index i is drawn either floor(n*p[i]) or ceil(n*p[i]) times when p is normalized.
// It returns a slice of n indices into p in ascending order. Weights in p need not be normalized.
// If all weights are zero every index is equally likely.
// It fails with error if p is empty or contains a negative weight.
func SystematicDrawN(p []float64, n int, src rand.Source) ([]int, error) {
	if n < 0 {
		return nil, fmt.Errorf("invalid number of draws requested: %d", n)
	}

	cdf, err := cumulative(p)
	if err != nil {
		return nil, err
	}

	indices := make([]int, n)
	if n == 0 {
		return indices, nil
	}

	total := cdf[len(cdf)-1]
	step := total / float64(n)
	start := distuv.Uniform{Min: 0, Max: step, Src: src}.Rand()

	idx := 0
	for i := range indices {
		target := start + float64(i)*step
		for idx < len(cdf)-1 && cdf[idx] <= target {
			idx++
		}
		indices[i] = idx
	}

	return indices, nil
}

// cumulative returns cumulative sums of p.
// All-zero p is treated as a uniform distribution.
func cumulative(p []float64) ([]float64, error) {
	if len(p) == 0 {
		return nil, fmt.Errorf("invalid probability weights: %v", p)
	}

	for i := range p {
		if p[i] < 0 || math.IsNaN(p[i]) {
			return nil, fmt.Errorf("invalid probability weight %d: %v", i, p[i])
		}
	}

	cdf := make([]float64, len(p))
	floats.CumSum(cdf, p)

	if cdf[len(cdf)-1] <= 0 {
		for i := range cdf {
			cdf[i] = float64(i + 1)
		}
	}

	return cdf, nil
}
