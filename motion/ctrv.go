package motion

import (
	"math"

	mcl "github.com/milosgajdos/go-mcl"
)

// DefaultYawRateEpsilon is the yaw rate magnitude below which CTRV switches to the straight line model.
// It guards the division by yaw rate in the arc model; any small positive value works.
const DefaultYawRateEpsilon = 1e-4

// CTRV is a noise-free constant turn rate and velocity motion model
type CTRV struct {
	// YawRateEpsilon is the straight line model threshold; zero means DefaultYawRateEpsilon
	YawRateEpsilon float64
}

// NewCTRV creates new CTRV model with the given yaw rate threshold and returns it.
// Non-positive eps is replaced with DefaultYawRateEpsilon.
func NewCTRV(eps float64) *CTRV {
	if eps <= 0 {
		eps = DefaultYawRateEpsilon
	}

	return &CTRV{YawRateEpsilon: eps}
}

// Propagate moves pose p by control u over time dt and returns the new pose.
// Heading is advanced by u.YawRate*dt in both branches of the model and is not wrapped.
func (c *CTRV) Propagate(p mcl.Pose, u mcl.Control, dt float64) mcl.Pose {
	eps := c.YawRateEpsilon
	if eps <= 0 {
		eps = DefaultYawRateEpsilon
	}

	theta := p.Theta + u.YawRate*dt

	if math.Abs(u.YawRate) > eps {
		r := u.Velocity / u.YawRate
		return mcl.Pose{
			X:     p.X + r*(math.Sin(theta)-math.Sin(p.Theta)),
			Y:     p.Y + r*(math.Cos(p.Theta)-math.Cos(theta)),
			Theta: theta,
		}
	}

	return mcl.Pose{
		X:     p.X + u.Velocity*math.Cos(p.Theta)*dt,
		Y:     p.Y + u.Velocity*math.Sin(p.Theta)*dt,
		Theta: theta,
	}
}
