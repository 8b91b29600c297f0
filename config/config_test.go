package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	mcl "github.com/milosgajdos/go-mcl"
	"github.com/milosgajdos/go-mcl/motion"
	"github.com/milosgajdos/go-mcl/particle/pf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	return path
}

func TestDefault(t *testing.T) {
	assert := assert.New(t)

	c := Default()
	assert.NoError(c.Validate())
	assert.Equal("systematic", c.Resampler)
	assert.Equal(mcl.LandmarkNoise{X: 0.3, Y: 0.3}, c.LandmarkStd.Noise())
	assert.Equal(mcl.PoseNoise{X: 0.3, Y: 0.3, Theta: 0.01}, c.InitStd.Noise())
	assert.Equal(motion.DefaultYawRateEpsilon, c.YawRateEpsilon)
	assert.False(c.Roughen)
}

func TestLoad(t *testing.T) {
	assert := assert.New(t)

	path := writeConfig(t, "mcl.json", `{
		"particles": 500,
		"workers": 4,
		"seed": 42,
		"resampler": "roulette",
		"motion_std": {"x": 0.1, "y": 0.2, "theta": 0.05}
	}`)

	c, err := Load(path)
	assert.NoError(err)
	assert.Equal(500, c.Particles)
	assert.Equal(4, c.Workers)
	assert.Equal(uint64(42), c.Seed)
	assert.Equal("roulette", c.Resampler)
	assert.Equal(PoseStd{X: 0.1, Y: 0.2, Theta: 0.05}, c.MotionStd)
	assert.False(c.Roughen)
	// omitted fields keep defaults
	assert.Equal(Default().SensorRange, c.SensorRange)
	assert.Equal(Default().LandmarkStd, c.LandmarkStd)
}

func TestLoadErrors(t *testing.T) {
	assert := assert.New(t)

	testCases := []struct {
		name string
		data string
		want string
	}{
		{"mcl.yaml", `{}`, "extension"},
		{"mcl.json", `{"particles": `, "parse"},
		{"mcl.json", `{"particles": 0}`, "particles"},
		{"mcl.json", `{"workers": -1}`, "workers"},
		{"mcl.json", `{"resampler": "stratified"}`, "resampler"},
		{"mcl.json", `{"sensor_range": -1}`, "sensor_range"},
		{"mcl.json", `{"yaw_rate_epsilon": -1}`, "yaw_rate_epsilon"},
		{"mcl.json", `{"weight_sum_epsilon": -1}`, "weight_sum_epsilon"},
		{"mcl.json", `{"init_std": {"x": -1}}`, "init_std"},
		{"mcl.json", `{"motion_std": {"theta": -1}}`, "motion_std"},
		{"mcl.json", `{"landmark_std": {"x": 0, "y": 1}}`, "landmark_std"},
		{"mcl.json", `{"roughen": true, "roughen_alpha": -0.1}`, "roughen_alpha"},
	}

	for _, tc := range testCases {
		c, err := Load(writeConfig(t, tc.name, tc.data))
		assert.Nil(c)
		if assert.Error(err, tc.data) {
			assert.Contains(err.Error(), tc.want)
		}
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(err)

	big := `{"seed": 1` + strings.Repeat(" ", MaxFileSize) + `}`
	_, err = Load(writeConfig(t, "big.json", big))
	if assert.Error(err) {
		assert.Contains(err.Error(), "too large")
	}
}

func TestFilter(t *testing.T) {
	assert := assert.New(t)

	c := Default()
	c.Resampler = "roulette"
	c.Workers = 3
	c.Seed = 7

	fc, err := c.Filter()
	assert.NoError(err)
	assert.Equal(pf.Roulette, fc.Resampler)
	assert.Equal(3, fc.Workers)
	assert.Equal(uint64(7), fc.Seed)
	assert.Equal(c.WeightSumEpsilon, fc.WeightSumEpsilon)

	f, err := pf.New(fc)
	assert.NoError(err)
	assert.NotNil(f)

	c.Resampler = "bogus"
	fc, err = c.Filter()
	assert.Nil(fc)
	assert.Error(err)
}

func TestValidateOrder(t *testing.T) {
	assert := assert.New(t)

	c := Default()
	c.InitStd.X = -1
	c.MotionStd.Y = -1

	// init_std is always reported first when both are invalid
	for i := 0; i < 20; i++ {
		err := c.Validate()
		if assert.Error(err) {
			assert.Contains(err.Error(), "init_std")
			assert.NotContains(err.Error(), "motion_std")
		}
	}
}

func TestLoadRoughen(t *testing.T) {
	assert := assert.New(t)

	c, err := Load(writeConfig(t, "mcl.json", `{"roughen": true, "roughen_alpha": 0.2}`))
	assert.NoError(err)
	assert.True(c.Roughen)
	assert.Equal(0.2, c.RoughenAlpha)
}

func TestResolveSeed(t *testing.T) {
	assert := assert.New(t)

	c := Default()
	c.Seed = 42
	assert.Equal(uint64(42), c.ResolveSeed())
	assert.Equal(uint64(42), c.Seed)

	c.Seed = 0
	seed := c.ResolveSeed()
	assert.NotZero(seed)
	assert.Equal(seed, c.Seed)
	// resolved seed is stable and carried into the filter config
	assert.Equal(seed, c.ResolveSeed())

	fc, err := c.Filter()
	assert.NoError(err)
	assert.Equal(seed, fc.Seed)
}
