package noise

import (
	"fmt"

	mcl "github.com/milosgajdos/go-mcl"
)

// Zero is zero noise i.e. no noise
type Zero struct {
	// mean is returned by every sample
	mean mcl.Pose
}

// NewZero creates new zero noise centered at mean.
func NewZero(mean mcl.Pose) *Zero {
	return &Zero{mean: mean}
}

// Sample returns Zero mean.
func (e *Zero) Sample() mcl.Pose {
	return e.mean
}

// Mean returns Zero mean.
func (e *Zero) Mean() mcl.Pose {
	return e.mean
}

// String implements the Stringer interface.
func (e *Zero) String() string {
	return fmt.Sprintf("Zero{Mean=%+v}", e.mean)
}
