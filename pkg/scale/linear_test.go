package scale

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLinear_MapInvertRoundTrip(t *testing.T) {
	s := NewLinear(0, 100, 60, 940)

	require.Equal(t, 60.0, s.Map(0))
	require.Equal(t, 940.0, s.Map(100))
	require.InDelta(t, 500.0, s.Map(50), 1e-9)

	for _, v := range []float64{0, 13.7, 50, 99.99} {
		require.InDelta(t, v, s.Invert(s.Map(v)), 1e-9)
	}
}

func TestLinear_InvertedRange(t *testing.T) {
	// Value axes grow upward, so the pixel range is reversed.
	s := NewLinear(0, 100, 500, 20)
	require.Equal(t, 500.0, s.Map(0))
	require.Equal(t, 20.0, s.Map(100))
	require.InDelta(t, 75.0, s.Invert(s.Map(75)), 1e-9)
}

func TestLinear_DegenerateDomain(t *testing.T) {
	s := NewLinear(50, 50, 0, 100)

	// A flat series still maps without dividing by zero, centered.
	require.InDelta(t, 50.0, s.Map(50), 1e-9)

	// The pad is max(|v|,1)*0.05, so 50 widens to [47.5, 52.5].
	require.InDelta(t, 52.5, s.Invert(100), 1e-9)
	require.InDelta(t, 47.5, s.Invert(0), 1e-9)

	zero := NewLinear(0, 0, 0, 100)
	require.InDelta(t, 50.0, zero.Map(0), 1e-9)

	// A domain stuck at zero falls back to the unit pad.
	require.InDelta(t, 0.05, zero.Invert(100), 1e-9)
	require.InDelta(t, -0.05, zero.Invert(0), 1e-9)
}

func TestLinear_Ticks(t *testing.T) {
	s := NewLinear(0, 100, 0, 1)

	ticks := s.Ticks(5)
	require.NotEmpty(t, ticks)
	require.Equal(t, 0.0, ticks[0])
	require.Equal(t, 100.0, ticks[len(ticks)-1])

	// 1/2/5 stepping.
	require.Equal(t, 20.0, ticks[1]-ticks[0])
}

func TestLinear_Nice(t *testing.T) {
	s := NewLinear(3, 97, 0, 1).Nice(5)
	require.LessOrEqual(t, s.Domain[0], 3.0)
	require.GreaterOrEqual(t, s.Domain[1], 97.0)

	// Nice domains land on step boundaries.
	require.Equal(t, 0.0, s.Domain[0])
	require.Equal(t, 100.0, s.Domain[1])
}
