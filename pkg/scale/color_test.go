package scale

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiverging_ZeroDeviationIsAlwaysNeutral(t *testing.T) {
	for _, extent := range []float64{0, 1, 30, 1e6} {
		ramp := NewDiverging(extent)
		require.Equal(t, "#f7f7f7", ramp.At(0).Hex())
	}
}

func TestDiverging_ClampsAtExtent(t *testing.T) {
	ramp := NewDiverging(10)

	require.Equal(t, ramp.At(10).Hex(), ramp.At(500).Hex())
	require.Equal(t, ramp.At(-10).Hex(), ramp.At(-500).Hex())
	require.Equal(t, "#1a9750", ramp.At(10).Hex())
	require.Equal(t, "#d73027", ramp.At(-10).Hex())
}

func TestDiverging_SignPicksSide(t *testing.T) {
	ramp := NewDiverging(10)

	pos := ramp.At(5)
	neg := ramp.At(-5)
	require.NotEqual(t, pos, neg)

	// Positive deviations tilt green, negative red.
	require.Greater(t, pos.G, pos.R)
	require.Greater(t, neg.R, neg.G)
}

func TestCategorical_StableAcrossCalls(t *testing.T) {
	palette := NewCategorical()

	first := palette.ColorFor("Tech")
	for i := 0; i < 10; i++ {
		require.Equal(t, first, palette.ColorFor("Tech"))
	}

	// Different instance, same mapping.
	require.Equal(t, first, NewCategorical().ColorFor("Tech"))
}
