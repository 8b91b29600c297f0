// Package geom provides planar geometry and measurement likelihood helpers.
package geom

import (
	mcl "github.com/milosgajdos/go-mcl"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat/distuv"
)

// Distance returns Euclidean distance between p and q.
func Distance(p, q r2.Vec) float64 {
	return r2.Norm(r2.Sub(p, q))
}

// DistanceSq returns squared Euclidean distance between p and q.
// It preserves the ordering of Distance, so it is the one to use for ranking.
func DistanceSq(p, q r2.Vec) float64 {
	return r2.Norm2(r2.Sub(p, q))
}

// ToMap transforms point p from the local frame of an agent at pose into map frame.
// The point is rotated by pose heading first and then translated by pose position.
func ToMap(p r2.Vec, pose mcl.Pose) r2.Vec {
	return r2.Add(r2.Rotate(p, pose.Theta, r2.Vec{}), pose.Pos())
}

// ToLocal transforms map frame point p into the local frame of an agent at pose.
// It is the inverse of ToMap.
func ToLocal(p r2.Vec, pose mcl.Pose) r2.Vec {
	return r2.Rotate(r2.Sub(p, pose.Pos()), -pose.Theta, r2.Vec{})
}

// GaussianLikelihood evaluates the density of an axis-aligned bivariate normal distribution
// with mean mu and per-axis standard deviations std at point obs.
// Both standard deviations must be positive; this is not checked.
func GaussianLikelihood(std mcl.LandmarkNoise, obs, mu r2.Vec) float64 {
	nx := distuv.Normal{Mu: mu.X, Sigma: std.X}
	ny := distuv.Normal{Mu: mu.Y, Sigma: std.Y}

	return nx.Prob(obs.X) * ny.Prob(obs.Y)
}
