package mcl

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// NoAssociation is the ID of an observation which has not been matched to any landmark.
const NoAssociation = -1

// Pose is a 2-D pose of an agent in map frame.
// Theta is heading in radians; it is never wrapped to a canonical range.
type Pose struct {
	X     float64
	Y     float64
	Theta float64
}

// Pos returns pose position
func (p Pose) Pos() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// Control is a motion command
type Control struct {
	// Velocity is forward velocity
	Velocity float64
	// YawRate is heading change rate in radians per unit of time
	YawRate float64
}

// PoseNoise stores standard deviations of pose noise per axis
type PoseNoise struct {
	X     float64
	Y     float64
	Theta float64
}

// LandmarkNoise stores standard deviations of landmark measurement noise per axis
type LandmarkNoise struct {
	X float64
	Y float64
}

// Observation is a 2-D point tagged with a landmark identity.
// Depending on the context it is either a raw sensor reading in the agent's local frame
// or a point in map frame whose ID is a true or associated landmark identity.
type Observation struct {
	ID int
	X  float64
	Y  float64
}

// Vec returns observation coordinates as a vector
func (o Observation) Vec() r2.Vec {
	return r2.Vec{X: o.X, Y: o.Y}
}

// Landmark is a map feature with a stable identity and fixed map coordinates
type Landmark struct {
	ID int
	X  float64
	Y  float64
}

// Vec returns landmark coordinates as a vector
func (l Landmark) Vec() r2.Vec {
	return r2.Vec{X: l.X, Y: l.Y}
}

// Map is an ordered collection of landmarks.
// Map is never modified by the filter.
type Map struct {
	Landmarks []Landmark
}

// NewMap creates new Map from a copy of landmarks and returns it
func NewMap(landmarks []Landmark) *Map {
	l := make([]Landmark, len(landmarks))
	copy(l, landmarks)

	return &Map{Landmarks: l}
}

// Lookup returns the first landmark with the given id.
// It returns false if no such landmark exists.
func (m *Map) Lookup(id int) (Landmark, bool) {
	for _, l := range m.Landmarks {
		if l.ID == id {
			return l, true
		}
	}

	return Landmark{}, false
}

// Propagator propagates a pose to the next step
type Propagator interface {
	// Propagate returns pose p moved by control u over time dt
	Propagate(p Pose, u Control, dt float64) Pose
}

// Noise is pose noise
type Noise interface {
	// Sample returns a sample of the noise
	Sample() Pose
}

// Filter is a landmark based localization filter
type Filter interface {
	// Init initializes filter around the given pose
	Init(pose Pose, std PoseNoise, n int) error
	// Predict moves the filter hypotheses by control u over time dt
	Predict(dt float64, std PoseNoise, u Control) error
	// Update weighs the filter hypotheses against landmark observations
	Update(sensorRange float64, std LandmarkNoise, obs []Observation, m *Map) error
	// Resample draws new hypotheses proportionally to their weights
	Resample() error
}
