// Package particle defines the pose hypotheses tracked by particle filters
// and the bookkeeping kept with them.
package particle

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	mcl "github.com/milosgajdos/go-mcl"
)

// Axis selects a coordinate axis
type Axis int

const (
	// X is the x axis
	X Axis = iota
	// Y is the y axis
	Y
)

// Particle is a single weighted pose hypothesis
type Particle struct {
	// ID identifies particle within a population; it is copied along when resampling
	ID int
	// X, Y and Theta store the hypothesis pose in map frame
	X     float64
	Y     float64
	Theta float64
	// Weight is the relative weight of the particle
	Weight float64
	// Associations stores landmark IDs of the last sensed observations
	Associations []int
	// SenseX and SenseY store map frame coordinates of the last sensed observations
	SenseX []float64
	SenseY []float64
}

// New creates new particle with the given id and pose and unit weight.
func New(id int, pose mcl.Pose) Particle {
	return Particle{
		ID:     id,
		X:      pose.X,
		Y:      pose.Y,
		Theta:  pose.Theta,
		Weight: 1.0,
	}
}

// Pose returns particle pose
func (p *Particle) Pose() mcl.Pose {
	return mcl.Pose{X: p.X, Y: p.Y, Theta: p.Theta}
}

// SetPose sets particle pose
func (p *Particle) SetPose(pose mcl.Pose) {
	p.X, p.Y, p.Theta = pose.X, pose.Y, pose.Theta
}

// Clone returns a deep copy of the particle
func (p *Particle) Clone() Particle {
	c := *p
	c.Associations = cloneSlice(p.Associations)
	c.SenseX = cloneSlice(p.SenseX)
	c.SenseY = cloneSlice(p.SenseY)

	return c
}

// SetAssociations replaces particle associations and their map frame coordinates with copies of the given slices.
// It returns error if the slices differ in length, in which case the particle is left untouched.
func (p *Particle) SetAssociations(associations []int, senseX, senseY []float64) error {
	if len(associations) != len(senseX) || len(associations) != len(senseY) {
		return fmt.Errorf("invalid associations length: %d, sense x: %d, sense y: %d",
			len(associations), len(senseX), len(senseY))
	}

	p.Associations = cloneSlice(associations)
	p.SenseX = cloneSlice(senseX)
	p.SenseY = cloneSlice(senseY)

	return nil
}

// AssociationsString returns particle associations as a space separated list
func (p *Particle) AssociationsString() string {
	s := make([]string, len(p.Associations))
	for i, a := range p.Associations {
		s[i] = strconv.Itoa(a)
	}

	return strings.Join(s, " ")
}

// SenseString returns sensed coordinates along axis as a space separated list
func (p *Particle) SenseString(axis Axis) string {
	v := p.SenseX
	if axis == Y {
		v = p.SenseY
	}

	s := make([]string, len(v))
	for i := range v {
		s[i] = strconv.FormatFloat(v[i], 'g', -1, 64)
	}

	return strings.Join(s, " ")
}

// String implements the Stringer interface.
func (p *Particle) String() string {
	return fmt.Sprintf("Particle %d\nX: %g\nY: %g\nTheta: %g\nWeight: %g\nAssociations: %s",
		p.ID, p.X, p.Y, p.Theta, p.Weight, p.AssociationsString())
}

// Dump writes a diagnostic block for every particle to w followed by a separator line.
func Dump(w io.Writer, particles []Particle) error {
	for i := range particles {
		if _, err := fmt.Fprintf(w, "%s\n\n", particles[i].String()); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, strings.Repeat("=", 56))

	return err
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}

	c := make([]T, len(s))
	copy(c, s)

	return c
}
