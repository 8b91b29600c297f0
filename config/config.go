// Package config loads particle filter configuration from JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	mcl "github.com/milosgajdos/go-mcl"
	"github.com/milosgajdos/go-mcl/motion"
	"github.com/milosgajdos/go-mcl/particle/pf"
)

// MaxFileSize is the maximum size of a configuration file in bytes
const MaxFileSize = 1 << 20

// PoseStd is per axis pose standard deviation
type PoseStd struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Theta float64 `json:"theta"`
}

// Noise returns std as pose noise
func (s PoseStd) Noise() mcl.PoseNoise {
	return mcl.PoseNoise{X: s.X, Y: s.Y, Theta: s.Theta}
}

// LandmarkStd is per axis landmark measurement standard deviation
type LandmarkStd struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Noise returns std as landmark noise
func (s LandmarkStd) Noise() mcl.LandmarkNoise {
	return mcl.LandmarkNoise{X: s.X, Y: s.Y}
}

// Config is localization configuration.
// Roughen enables particle roughening after every resampling scaled by RoughenAlpha;
// zero RoughenAlpha means pf.AlphaGauss.
type Config struct {
	Particles        int         `json:"particles"`
	Workers          int         `json:"workers"`
	Seed             uint64      `json:"seed"`
	Resampler        string      `json:"resampler"`
	YawRateEpsilon   float64     `json:"yaw_rate_epsilon"`
	WeightSumEpsilon float64     `json:"weight_sum_epsilon"`
	SensorRange      float64     `json:"sensor_range"`
	InitStd          PoseStd     `json:"init_std"`
	MotionStd        PoseStd     `json:"motion_std"`
	LandmarkStd      LandmarkStd `json:"landmark_std"`
	Roughen          bool        `json:"roughen"`
	RoughenAlpha     float64     `json:"roughen_alpha"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Particles:        100,
		Workers:          1,
		Resampler:        pf.Systematic.String(),
		YawRateEpsilon:   motion.DefaultYawRateEpsilon,
		WeightSumEpsilon: pf.DefaultWeightSumEpsilon,
		SensorRange:      50,
		InitStd:          PoseStd{X: 0.3, Y: 0.3, Theta: 0.01},
		MotionStd:        PoseStd{X: 0.3, Y: 0.3, Theta: 0.01},
		LandmarkStd:      LandmarkStd{X: 0.3, Y: 0.3},
	}
}

// Load reads configuration from the JSON file at path.
// Fields omitted from the file keep their default values.
// The file must have .json extension and be at most MaxFileSize bytes.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), MaxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	c := Default()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return c, nil
}

// Validate checks that the configuration values are valid.
func (c *Config) Validate() error {
	if c.Particles <= 0 {
		return fmt.Errorf("particles must be positive, got %d", c.Particles)
	}

	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}

	if _, err := pf.ParseResampler(c.Resampler); err != nil {
		return err
	}

	if c.YawRateEpsilon < 0 {
		return fmt.Errorf("yaw_rate_epsilon must not be negative, got %f", c.YawRateEpsilon)
	}

	if c.WeightSumEpsilon < 0 {
		return fmt.Errorf("weight_sum_epsilon must not be negative, got %f", c.WeightSumEpsilon)
	}

	if c.SensorRange < 0 {
		return fmt.Errorf("sensor_range must not be negative, got %f", c.SensorRange)
	}

	if err := validatePoseStd("init_std", c.InitStd); err != nil {
		return err
	}

	if err := validatePoseStd("motion_std", c.MotionStd); err != nil {
		return err
	}

	if c.LandmarkStd.X <= 0 || c.LandmarkStd.Y <= 0 {
		return fmt.Errorf("landmark_std must be positive, got %+v", c.LandmarkStd)
	}

	if c.RoughenAlpha < 0 {
		return fmt.Errorf("roughen_alpha must not be negative, got %f", c.RoughenAlpha)
	}

	return nil
}

func validatePoseStd(name string, s PoseStd) error {
	if s.X < 0 || s.Y < 0 || s.Theta < 0 {
		return fmt.Errorf("%s must not be negative, got %+v", name, s)
	}

	return nil
}

// ResolveSeed replaces zero seed with a time based one and returns the seed.
// Once resolved the seed stays the same, so every random source derived from it
// shares a single origin.
func (c *Config) ResolveSeed() uint64 {
	if c.Seed == 0 {
		c.Seed = uint64(time.Now().UnixNano())
		if c.Seed == 0 {
			c.Seed = 1
		}
	}

	return c.Seed
}

// Filter returns particle filter configuration
func (c *Config) Filter() (*pf.Config, error) {
	r, err := pf.ParseResampler(c.Resampler)
	if err != nil {
		return nil, err
	}

	return &pf.Config{
		YawRateEpsilon:   c.YawRateEpsilon,
		WeightSumEpsilon: c.WeightSumEpsilon,
		Resampler:        r,
		Workers:          c.Workers,
		Seed:             c.Seed,
	}, nil
}
