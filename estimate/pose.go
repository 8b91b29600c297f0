package estimate

import (
	"fmt"
	"math"

	mcl "github.com/milosgajdos/go-mcl"
	"github.com/milosgajdos/go-mcl/matrix"
	"github.com/milosgajdos/go-mcl/particle"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Pose is a pose estimate
type Pose struct {
	// val is estimated pose: x, y and theta
	val *mat.VecDense
	// cov is estimated covariance
	cov *mat.SymDense
}

// NewPose returns pose estimate given pose and its covariance.
// If cov is nil the estimate has zero covariance.
func NewPose(pose mcl.Pose, cov mat.Symmetric) (*Pose, error) {
	c := mat.NewSymDense(3, nil)
	if cov != nil {
		if cov.SymmetricDim() != 3 {
			return nil, fmt.Errorf("invalid covariance dimensions: %d x %d", cov.SymmetricDim(), cov.SymmetricDim())
		}
		c.CopySym(cov)
	}

	return &Pose{
		val: mat.NewVecDense(3, []float64{pose.X, pose.Y, pose.Theta}),
		cov: c,
	}, nil
}

// Weighted returns the weighted mean of particle poses and their weighted covariance.
// Headings are averaged arithmetically, the same way they are stored: unwrapped.
// If all weights are zero every particle counts equally.
// It returns error if particles is empty or contains a negative weight.
func Weighted(particles []particle.Particle) (*Pose, error) {
	if len(particles) == 0 {
		return nil, fmt.Errorf("invalid particle count: %d", len(particles))
	}

	w := make([]float64, len(particles))
	for i := range particles {
		if particles[i].Weight < 0 {
			return nil, fmt.Errorf("invalid particle %d weight: %v", particles[i].ID, particles[i].Weight)
		}
		w[i] = particles[i].Weight
	}

	sum := floats.Sum(w)
	if sum <= 0 {
		for i := range w {
			w[i] = 1
		}
		sum = float64(len(w))
	}
	floats.Scale(1/sum, w)

	x := matrix.FromParticles(particles)
	rows, cols := x.Dims()

	// weighted mean: sum of particle columns scaled by their weights
	scaled := mat.NewDense(rows, cols, nil)
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			scaled.Set(r, c, x.At(r, c)*w[c])
		}
	}
	mean := matrix.RowSums(scaled)

	// weighted covariance: sum of w * (x - mean)(x - mean)^T
	for c := 0; c < cols; c++ {
		sw := math.Sqrt(w[c])
		for r := 0; r < rows; r++ {
			scaled.Set(r, c, (x.At(r, c)-mean[r])*sw)
		}
	}
	cov := mat.NewSymDense(rows, nil)
	cov.SymOuterK(1, scaled)

	return &Pose{
		val: mat.NewVecDense(rows, mean),
		cov: cov,
	}, nil
}

// Best returns the pose of the particle with the highest weight.
// The first such particle wins ties. The estimate has zero covariance.
// It returns error if particles is empty.
func Best(particles []particle.Particle) (*Pose, error) {
	if len(particles) == 0 {
		return nil, fmt.Errorf("invalid particle count: %d", len(particles))
	}

	best := 0
	for i := range particles {
		if particles[i].Weight > particles[best].Weight {
			best = i
		}
	}

	return NewPose(particles[best].Pose(), nil)
}

// Val returns estimated value
func (p *Pose) Val() mat.Vector {
	v := &mat.VecDense{}
	v.CloneFromVec(p.val)

	return v
}

// Cov returns covariance estimate
func (p *Pose) Cov() mat.Symmetric {
	cov := mat.NewSymDense(p.cov.SymmetricDim(), nil)
	cov.CopySym(p.cov)

	return cov
}

// Pose returns estimated pose
func (p *Pose) Pose() mcl.Pose {
	return mcl.Pose{X: p.val.AtVec(0), Y: p.val.AtVec(1), Theta: p.val.AtVec(2)}
}
