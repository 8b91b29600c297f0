// Package sensor implements the landmark range sensor measurement model used to weigh particles.
package sensor

import (
	"fmt"

	mcl "github.com/milosgajdos/go-mcl"
	"github.com/milosgajdos/go-mcl/assoc"
	"github.com/milosgajdos/go-mcl/geom"
	"github.com/milosgajdos/go-mcl/particle"
	"gonum.org/v1/gonum/spatial/r2"
)

// Landmarks is a sensor which observes known map landmarks within its range
type Landmarks struct {
	// Range is sensor range; landmarks at or beyond it are not sensed
	Range float64
	// Std stores measurement noise standard deviations
	Std mcl.LandmarkNoise
	// Map is the landmark map
	Map *mcl.Map
}

// Validate checks the sensor configuration.
// It returns error if the range is negative, either standard deviation is not positive, the map is nil
// or any map landmark has ID mcl.NoAssociation.
func (l *Landmarks) Validate() error {
	if l.Range < 0 {
		return fmt.Errorf("invalid sensor range: %v", l.Range)
	}

	if l.Std.X <= 0 || l.Std.Y <= 0 {
		return fmt.Errorf("invalid landmark noise: %+v", l.Std)
	}

	if l.Map == nil {
		return fmt.Errorf("invalid landmark map: %v", l.Map)
	}

	for _, lm := range l.Map.Landmarks {
		if lm.ID == mcl.NoAssociation {
			return fmt.Errorf("invalid landmark ID: %d is reserved for unmatched observations", lm.ID)
		}
	}

	return nil
}

// InRange returns all map landmarks strictly closer to pos than the sensor range.
// Landmarks are returned in map order.
func (l *Landmarks) InRange(pos r2.Vec) []mcl.Observation {
	var out []mcl.Observation

	for _, lm := range l.Map.Landmarks {
		if geom.Distance(lm.Vec(), pos) < l.Range {
			out = append(out, mcl.Observation{ID: lm.ID, X: lm.X, Y: lm.Y})
		}
	}

	return out
}

// Weigh sets weight of particle p given local frame observations.
// Observations are transformed into map frame using the particle pose and associated with
// the nearest landmark in range. The associations and the map frame observations are stored
// in the particle. The particle weight is the product of the measurement likelihoods of all
// associated observations. An observation with no landmark in range has zero likelihood.
// An associated ID missing from the landmarks in range contributes no factor.
// Weigh does not modify observations.
func (l *Landmarks) Weigh(p *particle.Particle, observations []mcl.Observation) {
	pose := p.Pose()

	sensed := make([]mcl.Observation, len(observations))
	for i, o := range observations {
		m := geom.ToMap(o.Vec(), pose)
		sensed[i] = mcl.Observation{ID: o.ID, X: m.X, Y: m.Y}
	}

	predicted := l.InRange(pose.Pos())
	assoc.Nearest(predicted, sensed)

	p.Associations = make([]int, len(sensed))
	p.SenseX = make([]float64, len(sensed))
	p.SenseY = make([]float64, len(sensed))

	weight := 1.0
	for i, s := range sensed {
		p.Associations[i] = s.ID
		p.SenseX[i] = s.X
		p.SenseY[i] = s.Y

		if s.ID == mcl.NoAssociation {
			weight = 0
			continue
		}

		mu, ok := lookup(predicted, s.ID)
		if !ok {
			continue
		}
		weight *= geom.GaussianLikelihood(l.Std, s.Vec(), mu.Vec())
	}

	p.Weight = weight
}

func lookup(predicted []mcl.Observation, id int) (mcl.Observation, bool) {
	for _, p := range predicted {
		if p.ID == id {
			return p, true
		}
	}

	return mcl.Observation{}, false
}
