package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRenderConfig_Defaults(t *testing.T) {
	cfg, err := NewRenderConfig(false)
	require.NoError(t, err)

	require.Equal(t, 350*time.Millisecond, cfg.BrushDebounce)
	require.Equal(t, 750*time.Millisecond, cfg.DrillDuration)
	require.Equal(t, 1500*time.Millisecond, cfg.AllocationDuration)
	require.Equal(t, 16*time.Millisecond, cfg.FrameInterval)
	require.Equal(t, 4000, cfg.MaxPoints)
	require.Equal(t, 2.0, cfg.BinWidth)
}

func TestRenderConfig_ReducedMotion(t *testing.T) {
	cfg, err := NewRenderConfig(true)
	require.NoError(t, err)

	require.Equal(t, 33*time.Millisecond, cfg.FrameInterval)
	require.Equal(t, 375*time.Millisecond, cfg.Motion(cfg.DrillDuration))

	full, _ := NewRenderConfig(false)
	require.Equal(t, full.DrillDuration, full.Motion(full.DrillDuration))
}

func TestRenderConfig_DurationOptions(t *testing.T) {
	cfg, err := NewRenderConfig(false,
		WithBrushDebounce("1s"),
		WithDrillDuration("500ms"),
		WithBinWidth(5),
	)
	require.NoError(t, err)
	require.Equal(t, time.Second, cfg.BrushDebounce)
	require.Equal(t, 500*time.Millisecond, cfg.DrillDuration)
	require.Equal(t, 5.0, cfg.BinWidth)

	_, err = NewRenderConfig(false, WithBrushDebounce("not a duration"))
	require.Error(t, err)
}

func TestRenderConfig_Clock(t *testing.T) {
	frozen := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	cfg, err := NewRenderConfig(false, WithClock(func() time.Time { return frozen }))
	require.NoError(t, err)
	require.Equal(t, frozen, cfg.Now())
}

func TestParseMarketCap(t *testing.T) {
	for input, want := range map[string]float64{
		"2.5T":  2.5e12,
		"900B":  9e11,
		"55M":   5.5e7,
		"$1.2b": 1.2e9,
		"1234":  1234,
	} {
		got, err := ParseMarketCap(input)
		require.NoError(t, err, input)
		require.InDelta(t, want, got, want*1e-12, input)
	}

	_, err := ParseMarketCap("")
	require.ErrorIs(t, err, ErrMalformedSample)
	_, err = ParseMarketCap("lots")
	require.ErrorIs(t, err, ErrMalformedSample)
}
