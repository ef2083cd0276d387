package surface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHemiPrefix(t *testing.T) {
	cases := map[string]Hemisphere{"l": Left, "lh": Left, "R": Right, "rh": Right}
	for in, want := range cases {
		got, ok := ParseHemiPrefix(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got)
	}

	_, ok := ParseHemiPrefix("xh")
	assert.False(t, ok)
}

func TestHemisphereHelpers(t *testing.T) {
	assert.Equal(t, Right, Left.Opposite())
	assert.Equal(t, Left, Right.Opposite())
	assert.Equal(t, "lh", Left.Prefix())
	assert.Equal(t, "rh", Right.Prefix())
}

func TestResolutionNodes(t *testing.T) {
	assert.Equal(t, 163842, High.Nodes())
	assert.Equal(t, 40962, Medium.Nodes())
	assert.Equal(t, 10242, Low.Nodes())

	r, err := ParseResolution("fsaverage5")
	require.NoError(t, err)
	assert.Equal(t, Low, r)

	_, err = ParseResolution("fsaverage4")
	assert.Error(t, err)
}

func TestParseStyleAndMode(t *testing.T) {
	s, err := ParseStyle("infl")
	require.NoError(t, err)
	assert.Equal(t, "inflated", s.FileName())

	_, err = ParseStyle("sphere")
	assert.Error(t, err)

	m, err := ParseDisplayMode("")
	require.NoError(t, err)
	assert.Equal(t, Betas, m)

	_, err = ParseDisplayMode("pvalues")
	assert.Error(t, err)
}
