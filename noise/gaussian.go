package noise

import (
	"fmt"

	mcl "github.com/milosgajdos/go-mcl"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Gaussian is uncorrelated gaussian pose noise
type Gaussian struct {
	// x, y and theta are per-axis normal distributions
	x     distuv.Normal
	y     distuv.Normal
	theta distuv.Normal
	// mean is Gaussian mean
	mean mcl.Pose
	// std stores per-axis standard deviations
	std mcl.PoseNoise
}

// NewGaussian creates new Gaussian noise with given mean and per-axis standard deviations.
// All three axes draw their samples from src. Gaussian never reseeds src, so successive
// samples continue the same random stream no matter how quickly they are drawn.
// It returns error if any of the standard deviations is negative or if src is nil.
func NewGaussian(mean mcl.Pose, std mcl.PoseNoise, src rand.Source) (*Gaussian, error) {
	if std.X < 0 || std.Y < 0 || std.Theta < 0 {
		return nil, fmt.Errorf("invalid noise standard deviation: %+v", std)
	}

	if src == nil {
		return nil, fmt.Errorf("invalid noise source: %v", src)
	}

	return &Gaussian{
		x:     distuv.Normal{Mu: mean.X, Sigma: std.X, Src: src},
		y:     distuv.Normal{Mu: mean.Y, Sigma: std.Y, Src: src},
		theta: distuv.Normal{Mu: mean.Theta, Sigma: std.Theta, Src: src},
		mean:  mean,
		std:   std,
	}, nil
}

// Sample generates a sample from Gaussian noise and returns it.
func (g *Gaussian) Sample() mcl.Pose {
	return mcl.Pose{
		X:     g.x.Rand(),
		Y:     g.y.Rand(),
		Theta: g.theta.Rand(),
	}
}

// Mean returns Gaussian mean.
func (g *Gaussian) Mean() mcl.Pose {
	return g.mean
}

// Std returns Gaussian standard deviations.
func (g *Gaussian) Std() mcl.PoseNoise {
	return g.std
}

// String implements the Stringer interface.
func (g *Gaussian) String() string {
	return fmt.Sprintf("Gaussian{Mean=%+v Std=%+v}", g.mean, g.std)
}
