package plot

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestReveal(clock *testClock) *Reveal {
	return NewReveal(nopLogger{}, testConfig(clock), testView(), 42, 120)
}

func TestReveal_SameSeedSamePath(t *testing.T) {
	clock := newTestClock()

	a := newTestReveal(clock)
	b := newTestReveal(clock)
	require.Equal(t, a.path, b.path)

	c := NewReveal(nopLogger{}, testConfig(clock), testView(), 7, 120)
	require.NotEqual(t, a.path, c.path)
}

func TestReveal_ScrollEventsAreCoalesced(t *testing.T) {
	clock := newTestClock()
	r := newTestReveal(clock)

	require.True(t, r.SetScrollProgress(0.1, clock.Now()))
	// A burst inside the same frame is dropped.
	require.False(t, r.SetScrollProgress(0.2, clock.Advance(time.Millisecond)))
	require.Equal(t, 0.1, r.Progress())

	// The next frame goes through.
	require.True(t, r.SetScrollProgress(0.3, clock.Advance(16*time.Millisecond)))
	require.Equal(t, 0.3, r.Progress())
}

func TestReveal_ProgressClamps(t *testing.T) {
	clock := newTestClock()
	r := newTestReveal(clock)

	require.True(t, r.SetScrollProgress(-2, clock.Now()))
	require.Equal(t, 0.0, r.Progress())

	require.True(t, r.SetScrollProgress(7, clock.Advance(time.Second)))
	require.Equal(t, 1.0, r.Progress())
}

func TestReveal_RebuildKeepsPath(t *testing.T) {
	clock := newTestClock()
	r := newTestReveal(clock)
	path := r.path

	view := testView()
	view.Width = 1280
	r.Rebuild(view)

	// The series is mount-scoped; resizing only reprojects it.
	require.Equal(t, path, r.path)

	// The limiter resets, so the next scroll is handled immediately.
	require.True(t, r.SetScrollProgress(0.5, clock.Now()))
}

func TestReveal_MaskWidthFollowsProgress(t *testing.T) {
	clock := newTestClock()
	r := newTestReveal(clock)

	r.progress = 0
	hidden := r.Render().SVG()
	require.Contains(t, hidden, `width="0"`)

	r.progress = 1
	shown := r.Render().SVG()
	require.NotContains(t, shown, `width="0"`)

	// Candles are present either way; only the clip mask changes.
	require.Equal(t, strings.Count(hidden, "<line"), strings.Count(shown, "<line"))
}
