package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://maps.googleapis.com", cfg.Elevation.BaseURL)
	assert.Equal(t, 15, cfg.Sampling.InitialSampleCount)
	assert.Equal(t, 3, cfg.Sampling.RefinementRounds)
	assert.Equal(t, 300, cfg.Sampling.InterRoundDelayMs)
	assert.Equal(t, 400, cfg.Sampling.SettleDelayMs)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("RELIEFLINE_SERVER_PORT", "9090")
	t.Setenv("RELIEFLINE_ELEVATION_API_KEY", "test-key")
	t.Setenv("RELIEFLINE_SAMPLING_REFINEMENT_ROUNDS", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "test-key", cfg.Elevation.APIKey)
	assert.Equal(t, 5, cfg.Sampling.RefinementRounds)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("RELIEFLINE_SERVER_PORT", "70000")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: 8080, ReadTimeout: 10, WriteTimeout: 10},
			Elevation: ElevationConfig{BaseURL: "https://maps.googleapis.com"},
			Sampling:  SamplingConfig{InitialSampleCount: 15, RefinementRounds: 3},
		}
	}

	assert.NoError(t, valid().Validate())

	cfg := valid()
	cfg.Sampling.InitialSampleCount = 1
	assert.ErrorContains(t, cfg.Validate(), "initial_sample_count")

	cfg = valid()
	cfg.Elevation.BaseURL = ""
	assert.ErrorContains(t, cfg.Validate(), "elevation.base_url")

	cfg = valid()
	cfg.Sampling.InterRoundDelayMs = -1
	assert.ErrorContains(t, cfg.Validate(), "inter_round_delay_ms")
}

func TestSamplingConfig_Options(t *testing.T) {
	s := SamplingConfig{
		InitialSampleCount: 20,
		RefinementRounds:   2,
		InterRoundDelayMs:  250,
		SettleDelayMs:      100,
	}

	opts := s.Options()
	assert.Equal(t, 20, opts.InitialSampleCount)
	assert.Equal(t, 2, opts.RefinementRounds)
	assert.Equal(t, 250*time.Millisecond, opts.InterRoundDelay)
	assert.Equal(t, 100*time.Millisecond, opts.SettleDelay)
}
