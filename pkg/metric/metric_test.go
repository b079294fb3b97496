package metric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMean(t *testing.T) {
	require.Equal(t, 0.0, Mean(nil))
	require.Equal(t, 2.0, Mean([]float64{1, 2, 3}))
}

func TestStdDev(t *testing.T) {
	require.Equal(t, 0.0, StdDev(nil))
	require.Equal(t, 0.0, StdDev([]float64{5}))
	require.InDelta(t, 1.0, StdDev([]float64{1, 2, 3}), 1e-9)
}

func TestAnnualizedReturn(t *testing.T) {
	// +100% over two years compounds to ~41.4% per year.
	require.InDelta(t, math.Sqrt2-1, AnnualizedReturn(1.0, 2), 1e-9)

	// One year is the identity.
	require.InDelta(t, 0.25, AnnualizedReturn(0.25, 1), 1e-9)

	// Degenerate inputs yield zero instead of NaN.
	require.Equal(t, 0.0, AnnualizedReturn(0.5, 0))
	require.Equal(t, 0.0, AnnualizedReturn(-1, 5))
}

func TestVolatility(t *testing.T) {
	require.Equal(t, 0.0, Volatility([]float64{0.01}))

	daily := []float64{0.01, -0.01, 0.02, -0.02}
	require.InDelta(t, StdDev(daily)*math.Sqrt(252), Volatility(daily), 1e-12)
}

func TestReturns(t *testing.T) {
	require.Nil(t, Returns([]float64{100}))

	got := Returns([]float64{100, 110, 99})
	require.Len(t, got, 2)
	require.InDelta(t, 0.10, got[0], 1e-9)
	require.InDelta(t, -0.10, got[1], 1e-9)

	// Zero prices are skipped rather than dividing by zero.
	require.Len(t, Returns([]float64{100, 0, 50}), 1)
}

func TestMaxAbsDeviation(t *testing.T) {
	require.Equal(t, 0.0, MaxAbsDeviation(nil, 5))
	require.Equal(t, 15.0, MaxAbsDeviation([]float64{-10, 0, 8}, 5))
	require.Equal(t, 13.0, MaxAbsDeviation([]float64{-8, 0, 8}, 5))
}
