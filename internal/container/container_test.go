package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brainmapp/internal/config"
)

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestNewWiresComponents(t *testing.T) {
	cfg := &config.Config{
		Results: config.ResultsConfig{SigThreshold: "20"},
		Style: config.StyleConfig{
			BetaColormap:    "viridis",
			ClusterColormap: "tab20",
			OverlapColors:   []string{"#111111", "#222222", "#333333"},
		},
	}
	c, err := New(cfg)
	require.NoError(t, err)

	assert.NotNil(t, c.Scanner)
	assert.NotNil(t, c.Overlap)
	assert.NotNil(t, c.Sessions)
	assert.Equal(t, "stack2.cache.th20.abs.sig.ocn", c.Loader.ClusterFile(2))
	assert.Equal(t, []string{"#111111", "#222222", "#333333"}, c.RenderStyle().OverlapColors)
}
