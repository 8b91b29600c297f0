package sim

import (
	"fmt"

	mcl "github.com/milosgajdos/go-mcl"
	"github.com/milosgajdos/go-mcl/geom"
	"github.com/milosgajdos/go-mcl/motion"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// World simulates an agent moving through a landmark map
type World struct {
	// m is the landmark map
	m *mcl.Map
	// truth is the ground truth pose of the agent
	truth mcl.Pose
	// prop moves the agent
	prop mcl.Propagator
	// src is the measurement noise source
	src rand.Source
}

// NewWorld creates new World with agent placed at start and returns it.
// Measurement noise is drawn from a source seeded with seed.
// It returns error if m is nil.
func NewWorld(m *mcl.Map, start mcl.Pose, seed uint64) (*World, error) {
	if m == nil {
		return nil, fmt.Errorf("invalid map: %v", m)
	}

	return &World{
		m:     m,
		truth: start,
		prop:  motion.NewCTRV(motion.DefaultYawRateEpsilon),
		src:   rand.NewSource(seed),
	}, nil
}

// Move moves the agent by control u over time dt without noise and returns its new pose
func (w *World) Move(u mcl.Control, dt float64) mcl.Pose {
	w.truth = w.prop.Propagate(w.truth, u, dt)

	return w.truth
}

// Observe returns noisy observations of the landmarks which are strictly within sensorRange
// of the agent. Observations are in the agent's local frame and are not associated.
// It returns error if sensorRange or any of the standard deviations is negative.
func (w *World) Observe(sensorRange float64, std mcl.LandmarkNoise) ([]mcl.Observation, error) {
	if sensorRange < 0 {
		return nil, fmt.Errorf("invalid sensor range: %v", sensorRange)
	}

	if std.X < 0 || std.Y < 0 {
		return nil, fmt.Errorf("invalid landmark noise: %+v", std)
	}

	nx := distuv.Normal{Mu: 0, Sigma: std.X, Src: w.src}
	ny := distuv.Normal{Mu: 0, Sigma: std.Y, Src: w.src}

	pos := w.truth.Pos()
	obs := make([]mcl.Observation, 0, len(w.m.Landmarks))
	for _, l := range w.m.Landmarks {
		if geom.Distance(l.Vec(), pos) >= sensorRange {
			continue
		}
		p := geom.ToLocal(l.Vec(), w.truth)
		obs = append(obs, mcl.Observation{
			ID: mcl.NoAssociation,
			X:  p.X + nx.Rand(),
			Y:  p.Y + ny.Rand(),
		})
	}

	return obs, nil
}

// Truth returns the ground truth pose of the agent
func (w *World) Truth() mcl.Pose {
	return w.truth
}

// GridMap returns a map with rows x cols landmarks laid out on a square grid.
// Landmark IDs start at 1 and increase row by row.
func GridMap(rows, cols int, spacing float64) *mcl.Map {
	landmarks := make([]mcl.Landmark, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			landmarks = append(landmarks, mcl.Landmark{
				ID: len(landmarks) + 1,
				X:  float64(c) * spacing,
				Y:  float64(r) * spacing,
			})
		}
	}

	return &mcl.Map{Landmarks: landmarks}
}
