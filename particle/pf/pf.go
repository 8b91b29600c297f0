package pf

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	mcl "github.com/milosgajdos/go-mcl"
	"github.com/milosgajdos/go-mcl/internal/monitoring"
	"github.com/milosgajdos/go-mcl/matrix"
	"github.com/milosgajdos/go-mcl/motion"
	"github.com/milosgajdos/go-mcl/noise"
	"github.com/milosgajdos/go-mcl/particle"
	"github.com/milosgajdos/go-mcl/rand"
	"github.com/milosgajdos/go-mcl/sensor"
	xrand "golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DefaultWeightSumEpsilon is the particle weight sum at or below which weights are not normalized.
const DefaultWeightSumEpsilon = 1e-5

var (
	// ErrNotInitialized is returned when the filter is used before it has been initialized.
	ErrNotInitialized = errors.New("filter not initialized")
	// ErrInitialized is returned when the filter is initialized more than once.
	ErrInitialized = errors.New("filter already initialized")
)

// Resampler selects the particle resampling algorithm
type Resampler int

const (
	// Systematic is low variance systematic resampling
	Systematic Resampler = iota
	// Roulette is roulette wheel (inverse CDF) resampling
	Roulette
)

// String implements the Stringer interface.
func (r Resampler) String() string {
	switch r {
	case Systematic:
		return "systematic"
	case Roulette:
		return "roulette"
	default:
		return fmt.Sprintf("Resampler(%d)", int(r))
	}
}

// ParseResampler returns the resampler with the given name.
func ParseResampler(s string) (Resampler, error) {
	switch s {
	case "systematic", "":
		return Systematic, nil
	case "roulette":
		return Roulette, nil
	default:
		return 0, fmt.Errorf("invalid resampler: %q", s)
	}
}

// Config is particle filter configuration
type Config struct {
	// Propagator moves particles; nil means motion.CTRV with YawRateEpsilon
	Propagator mcl.Propagator
	// YawRateEpsilon is the CTRV straight line threshold; zero means motion.DefaultYawRateEpsilon
	YawRateEpsilon float64
	// WeightSumEpsilon is the normalization threshold; zero means DefaultWeightSumEpsilon
	WeightSumEpsilon float64
	// Resampler is the resampling algorithm
	Resampler Resampler
	// Workers is the number of goroutines processing particles; non-positive means 1
	Workers int
	// Seed seeds the filter random sources; zero means a time based seed
	Seed uint64
}

// PF is a landmark based particle filter a.k.a. Monte Carlo Localization filter.
// PF is not safe for concurrent use: its methods must be called sequentially.
type PF struct {
	// prop propagates particle poses
	prop mcl.Propagator
	// eps is the weight sum normalization threshold
	eps float64
	// resampler is the resampling algorithm
	resampler Resampler
	// src is the source used by initialization, resampling and roughening
	src xrand.Source
	// srcs are per worker sources used when predicting
	srcs []xrand.Source
	// particles stores filter particles
	particles []particle.Particle
	// ready is set once the filter has been initialized
	ready bool
}

// New creates new particle filter with config c and returns it.
// The filter random sources are seeded once, here, and never reseeded.
// It returns error if c contains invalid values.
func New(c *Config) (*PF, error) {
	if c == nil {
		c = &Config{}
	}

	if c.WeightSumEpsilon < 0 {
		return nil, fmt.Errorf("invalid weight sum epsilon: %v", c.WeightSumEpsilon)
	}

	if c.YawRateEpsilon < 0 {
		return nil, fmt.Errorf("invalid yaw rate epsilon: %v", c.YawRateEpsilon)
	}

	if c.Resampler != Systematic && c.Resampler != Roulette {
		return nil, fmt.Errorf("invalid resampler: %v", c.Resampler)
	}

	prop := c.Propagator
	if prop == nil {
		prop = motion.NewCTRV(c.YawRateEpsilon)
	}

	eps := c.WeightSumEpsilon
	if eps == 0 {
		eps = DefaultWeightSumEpsilon
	}

	workers := c.Workers
	if workers <= 0 {
		workers = 1
	}

	seed := c.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	// the engine source does not depend on the number of workers
	seeder := xrand.NewSource(seed)
	src := xrand.NewSource(seeder.Uint64())
	srcs := make([]xrand.Source, workers)
	for i := range srcs {
		srcs[i] = xrand.NewSource(seeder.Uint64())
	}

	return &PF{
		prop:      prop,
		eps:       eps,
		resampler: c.Resampler,
		src:       src,
		srcs:      srcs,
	}, nil
}

// Init initializes the filter with n particles drawn around pose with per-axis standard deviations std.
// Particles get IDs 0..n-1 and unit weights.
// Init can be called only once; it returns ErrInitialized on subsequent calls.
// It returns error if n is not positive or std is invalid.
func (f *PF) Init(pose mcl.Pose, std mcl.PoseNoise, n int) error {
	if f.ready {
		return ErrInitialized
	}

	if n <= 0 {
		return fmt.Errorf("invalid particle count: %d", n)
	}

	g, err := noise.NewGaussian(pose, std, f.src)
	if err != nil {
		return fmt.Errorf("failed to create initial noise: %w", err)
	}

	particles := make([]particle.Particle, n)
	for i := range particles {
		particles[i] = particle.New(i, g.Sample())
	}

	f.particles = particles
	f.ready = true

	return nil
}

// Predict moves every particle by control u over time dt and adds
// gaussian process noise with per-axis standard deviations std.
// Zero std adds no noise and draws nothing from the filter random sources.
// It returns error if the filter is not initialized or std is invalid.
func (f *PF) Predict(dt float64, std mcl.PoseNoise, u mcl.Control) error {
	if !f.ready {
		return ErrNotInitialized
	}

	ns := make([]mcl.Noise, len(f.srcs))
	for i := range ns {
		if std == (mcl.PoseNoise{}) {
			ns[i] = noise.NewZero(mcl.Pose{})
			continue
		}
		g, err := noise.NewGaussian(mcl.Pose{}, std, f.srcs[i])
		if err != nil {
			return fmt.Errorf("failed to create process noise: %w", err)
		}
		ns[i] = g
	}

	return f.parallel(func(w, lo, hi int) error {
		for i := lo; i < hi; i++ {
			p := &f.particles[i]
			next := f.prop.Propagate(p.Pose(), u, dt)
			n := ns[w].Sample()
			p.SetPose(mcl.Pose{
				X:     next.X + n.X,
				Y:     next.Y + n.Y,
				Theta: next.Theta + n.Theta,
			})
		}
		return nil
	})
}

// Update weighs every particle against local frame observations of landmarks in map m
// which are closer to the particle than sensorRange, given measurement noise std.
// Particle weights are normalized afterwards unless their sum does not exceed the
// configured epsilon, in which case they are left as they are.
// Update does not modify observations or m.
// It returns error if the filter is not initialized or sensor parameters are invalid.
func (f *PF) Update(sensorRange float64, std mcl.LandmarkNoise, obs []mcl.Observation, m *mcl.Map) error {
	if !f.ready {
		return ErrNotInitialized
	}

	s := &sensor.Landmarks{Range: sensorRange, Std: std, Map: m}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid sensor: %w", err)
	}

	err := f.parallel(func(_, lo, hi int) error {
		for i := lo; i < hi; i++ {
			s.Weigh(&f.particles[i], obs)
		}
		return nil
	})
	if err != nil {
		return err
	}

	w := f.weights()
	sum := floats.Sum(w)
	if !(sum > f.eps) {
		monitoring.Logf("pf: degenerate particle weights: sum %g <= %g, skipping normalization", sum, f.eps)
		return nil
	}

	floats.Scale(1/sum, w)
	for i := range f.particles {
		f.particles[i].Weight = w[i]
	}

	return nil
}

// Resample replaces filter particles with a new population of the same size drawn,
// with replacement, proportionally to the particle weights.
// Drawn particles are copied as they are, including their IDs and weights.
// It returns error if the filter is not initialized or the particles fail to be drawn.
func (f *PF) Resample() error {
	if !f.ready {
		return ErrNotInitialized
	}

	w := f.weights()
	if floats.Sum(w) <= 0 {
		monitoring.Logf("pf: all %d particle weights are zero, resampling uniformly", len(w))
	}

	draw := rand.SystematicDrawN
	if f.resampler == Roulette {
		draw = rand.RouletteDrawN
	}

	indices, err := draw(w, len(w), f.src)
	if err != nil {
		return fmt.Errorf("failed to sample filter particles: %w", err)
	}

	particles := make([]particle.Particle, len(indices))
	for i, idx := range indices {
		particles[i] = f.particles[idx].Clone()
	}
	f.particles = particles

	return nil
}

// Roughen perturbs particle poses with zero mean gaussian noise whose covariance is
// the covariance of the particle poses scaled by alpha. Roughening counters sample
// impoverishment after resampling. If non-positive alpha is given, AlphaGauss is used.
// Roughen does nothing to populations of fewer than two particles.
// It returns error if the filter is not initialized or the perturbations fail to be drawn.
func (f *PF) Roughen(alpha float64) error {
	if !f.ready {
		return ErrNotInitialized
	}

	if len(f.particles) < 2 {
		return nil
	}

	x := matrix.FromParticles(f.particles)
	rows, cols := x.Dims()

	cov, err := matrix.Cov(x)
	if err != nil {
		return err
	}

	m, err := rand.WithCovN(cov, cols, f.src)
	if err != nil {
		return fmt.Errorf("failed to draw random particle perturbations: %w", err)
	}

	if alpha <= 0 {
		alpha = AlphaGauss(rows, cols)
	}
	m.Scale(alpha, m)

	for c := range f.particles {
		p := &f.particles[c]
		p.X += m.At(0, c)
		p.Y += m.At(1, c)
		p.Theta += m.At(2, c)
	}

	return nil
}

// Initialized returns true if the filter has been initialized.
func (f *PF) Initialized() bool {
	return f.ready
}

// Len returns the number of filter particles.
func (f *PF) Len() int {
	return len(f.particles)
}

// Particles returns a copy of filter particles.
func (f *PF) Particles() []particle.Particle {
	particles := make([]particle.Particle, len(f.particles))
	for i := range f.particles {
		particles[i] = f.particles[i].Clone()
	}

	return particles
}

// Poses returns a 3xN matrix with particle poses stored in its columns.
// It returns nil if the filter is not initialized.
func (f *PF) Poses() mat.Matrix {
	if len(f.particles) == 0 {
		return nil
	}

	return matrix.FromParticles(f.particles)
}

// Weights returns a vector containing particle weights.
// It returns nil if the filter is not initialized.
func (f *PF) Weights() mat.Vector {
	if len(f.particles) == 0 {
		return nil
	}

	return mat.NewVecDense(len(f.particles), f.weights())
}

// Dump writes diagnostic blocks of all filter particles to w.
func (f *PF) Dump(w io.Writer) error {
	return particle.Dump(w, f.particles)
}

// AlphaGauss computes optimal regulariation parameter for Gaussian kernel and returns it.
func AlphaGauss(r, c int) float64 {
	return math.Pow(4.0/(float64(c)*(float64(r)+2.0)), 1/(float64(r)+4.0))
}

func (f *PF) weights() []float64 {
	w := make([]float64, len(f.particles))
	for i := range f.particles {
		w[i] = f.particles[i].Weight
	}

	return w
}

// parallel splits particles into contiguous chunks, one per worker, and runs fn on them concurrently.
// fn receives the worker index and the chunk bounds [lo, hi).
func (f *PF) parallel(fn func(w, lo, hi int) error) error {
	n := len(f.particles)
	size := (n + len(f.srcs) - 1) / len(f.srcs)

	var g errgroup.Group
	for w := range f.srcs {
		lo := w * size
		if lo >= n {
			break
		}
		hi := min(lo+size, n)
		g.Go(func() error {
			return fn(w, lo, hi)
		})
	}

	return g.Wait()
}
