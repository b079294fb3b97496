package anim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func TestTween_Progress(t *testing.T) {
	tw := NewTween(0, 1, epoch, time.Second)

	require.Equal(t, 0.0, tw.Progress(epoch))
	require.Equal(t, 0.0, tw.Progress(epoch.Add(-time.Second)))
	require.Equal(t, 1.0, tw.Progress(epoch.Add(time.Second)))
	require.Equal(t, 1.0, tw.Progress(epoch.Add(time.Minute)))

	// Midpoint of CubicInOut is exactly half.
	require.InDelta(t, 0.5, tw.Progress(epoch.Add(500*time.Millisecond)), 1e-9)
}

func TestTween_At(t *testing.T) {
	tw := NewTween(10, 30, epoch, time.Second)

	require.Equal(t, 10.0, tw.At(epoch))
	require.Equal(t, 30.0, tw.At(epoch.Add(2*time.Second)))
	require.InDelta(t, 20.0, tw.At(epoch.Add(500*time.Millisecond)), 1e-9)
}

func TestTween_NilAndZeroDuration(t *testing.T) {
	var tw *Tween
	require.Equal(t, 0.0, tw.At(epoch))
	require.Equal(t, 1.0, tw.Progress(epoch))
	require.True(t, tw.Done(epoch))

	// Zero duration means the transition is instantaneous.
	instant := NewTween(0, 5, epoch, 0)
	require.Equal(t, 5.0, instant.At(epoch))
}

func TestTween_Done(t *testing.T) {
	tw := NewTween(0, 1, epoch, time.Second)

	require.False(t, tw.Done(epoch.Add(999*time.Millisecond)))
	require.True(t, tw.Done(epoch.Add(time.Second)))
}

func TestLimiter_CoalescesBursts(t *testing.T) {
	l := NewLimiter(16 * time.Millisecond)

	require.True(t, l.Allow(epoch))
	require.False(t, l.Allow(epoch.Add(time.Millisecond)))
	require.False(t, l.Allow(epoch.Add(15*time.Millisecond)))
	require.True(t, l.Allow(epoch.Add(16*time.Millisecond)))
}

func TestLimiter_Reset(t *testing.T) {
	l := NewLimiter(time.Second)

	require.True(t, l.Allow(epoch))
	require.False(t, l.Allow(epoch.Add(time.Millisecond)))

	l.Reset()
	require.True(t, l.Allow(epoch.Add(2*time.Millisecond)))
}

func TestLimiter_ZeroIntervalAllowsAll(t *testing.T) {
	l := NewLimiter(0)
	require.True(t, l.Allow(epoch))
	require.True(t, l.Allow(epoch))
}
