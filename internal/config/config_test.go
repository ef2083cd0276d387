package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brainmapp/internal/errors"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "GIN_MODE", "RESULTS_DIR", "SIG_THRESHOLD", "SUBJECTS_DIR", "OVERLAP_COLORS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.GinMode)
	assert.Equal(t, DefaultSigThreshold, cfg.Results.SigThreshold)
	assert.Equal(t, "fsaverage6", cfg.Surface.DefaultResolution)
	assert.Equal(t, "pial", cfg.Surface.DefaultSurface)
	assert.Len(t, cfg.Style.OverlapColors, 3)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SIG_THRESHOLD", "13")
	t.Setenv("RESULTS_DIR", "/data/results")
	t.Setenv("OVERLAP_COLORS", "red, green ,blue")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "13", cfg.Results.SigThreshold)
	assert.Equal(t, "/data/results", cfg.Results.DefaultRoot)
	assert.Equal(t, []string{"red", "green", "blue"}, cfg.Style.OverlapColors)
}

func TestLoadRejectsBadPalette(t *testing.T) {
	t.Setenv("OVERLAP_COLORS", "red,green")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeConfigInvalid))
}

func TestLoadRejectsBadGinMode(t *testing.T) {
	t.Setenv("OVERLAP_COLORS", "")
	t.Setenv("GIN_MODE", "verbose")

	_, err := Load()
	require.Error(t, err)
}
