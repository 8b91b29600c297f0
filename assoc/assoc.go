// Package assoc implements nearest neighbour data association of observations with landmarks.
package assoc

import (
	"math"

	mcl "github.com/milosgajdos/go-mcl"
	"github.com/milosgajdos/go-mcl/geom"
)

// Nearest assigns every observation the ID of its nearest predicted landmark.
// Both predicted and observations must be expressed in map frame.
// Ties are resolved in favour of the predicted landmark which comes first.
// If predicted is empty every observation is assigned mcl.NoAssociation.
// Nearest modifies observations in place: only their ID is changed; predicted is not modified.
func Nearest(predicted, observations []mcl.Observation) {
	for i := range observations {
		observations[i].ID = nearest(predicted, observations[i])
	}
}

// Associate works like Nearest but leaves observations untouched:
// it returns a copy of observations with their IDs assigned.
func Associate(predicted, observations []mcl.Observation) []mcl.Observation {
	out := make([]mcl.Observation, len(observations))
	copy(out, observations)
	Nearest(predicted, out)

	return out
}

func nearest(predicted []mcl.Observation, o mcl.Observation) int {
	id := mcl.NoAssociation
	minDist := math.Inf(1)

	for _, p := range predicted {
		// strict comparison keeps the first of equidistant candidates
		if d := geom.DistanceSq(p.Vec(), o.Vec()); d < minDist {
			minDist = d
			id = p.ID
		}
	}

	return id
}
