package plot

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// evenSamples is the worked distribution: ten values from -10 to +8 in
// steps of two, judged against a benchmark of +5.
func evenSamples() []HistSample {
	var samples []HistSample
	for v := -10; v <= 8; v += 2 {
		samples = append(samples, HistSample{ID: fmt.Sprintf("S%d", v), Value: float64(v)})
	}
	return samples
}

func newTestHistogram(samples []HistSample, benchmark float64) *Histogram {
	clock := newTestClock()
	return NewHistogram(nopLogger{}, testConfig(clock), testView(), samples, benchmark)
}

func TestHistogram_BoundaryValuesGoToLowerBin(t *testing.T) {
	h := newTestHistogram(evenSamples(), 5)
	bins := h.Bins()

	// Domain [-10,8] with width 2 yields nine bins. Every sample except
	// the domain minimum lands on a boundary and belongs to the bin below,
	// so the first bin holds two members and the rest one each.
	require.Len(t, bins, 9)
	require.Equal(t, 2, bins[0].Count())
	for i := 1; i < len(bins); i++ {
		require.Equal(t, 1, bins[i].Count(), "bin %d", i)
	}
}

func TestHistogram_EverySampleIsBinnedExactlyOnce(t *testing.T) {
	samples := evenSamples()
	h := newTestHistogram(samples, 5)

	total := 0
	for _, b := range h.Bins() {
		total += b.Count()
	}
	require.Equal(t, len(samples), total)
}

func TestHistogram_BinsAreContiguous(t *testing.T) {
	h := newTestHistogram(evenSamples(), 5)
	bins := h.Bins()

	require.Equal(t, -10.0, bins[0].Lower)
	require.Equal(t, 8.0, bins[len(bins)-1].Upper)
	for i := 1; i < len(bins); i++ {
		require.Equal(t, bins[i-1].Upper, bins[i].Lower)
	}
}

func TestHistogram_BenchmarkCenteredBinIsNeutral(t *testing.T) {
	h := newTestHistogram(evenSamples(), 5)

	// The [4,6] bin's midpoint equals the benchmark exactly.
	for _, b := range h.Bins() {
		if b.Lower == 4 && b.Upper == 6 {
			require.Equal(t, "#f7f7f7", h.ColorFor(b))
			return
		}
	}
	t.Fatal("no [4,6] bin found")
}

func TestHistogram_DeviationColorsDiverge(t *testing.T) {
	h := newTestHistogram(evenSamples(), 5)
	bins := h.Bins()

	lowest := h.ColorFor(bins[0])
	highest := h.ColorFor(bins[len(bins)-1])
	require.NotEqual(t, lowest, highest)
	require.NotEqual(t, "#f7f7f7", lowest)
}

func TestHistogram_Hover(t *testing.T) {
	h := newTestHistogram(evenSamples(), 5)

	info, err := h.Hover(0)
	require.NoError(t, err)
	require.Equal(t, -10.0, info.Lower)
	require.Equal(t, -8.0, info.Upper)
	require.Equal(t, 2, info.Count)
	require.InDelta(t, -14.0, info.Deviation, 1e-9)
	require.ElementsMatch(t, []string{"S-10", "S-8"}, info.Members)
	require.False(t, info.Truncated)

	_, err = h.Hover(-1)
	require.Error(t, err)
	_, err = h.Hover(99)
	require.Error(t, err)
}

func TestHistogram_HoverTruncatesMembers(t *testing.T) {
	var samples []HistSample
	for i := 0; i < 20; i++ {
		samples = append(samples, HistSample{ID: fmt.Sprintf("T%02d", i), Value: 1})
	}
	h := newTestHistogram(samples, 5)

	info, err := h.Hover(0)
	require.NoError(t, err)
	require.Len(t, info.Members, maxHoverMembers)
	require.True(t, info.Truncated)
	require.Equal(t, 20, info.Count)
}

func TestHistogram_SingleValueDomain(t *testing.T) {
	h := newTestHistogram([]HistSample{{ID: "a", Value: 4}, {ID: "b", Value: 4}}, 5)

	bins := h.Bins()
	require.Len(t, bins, 1)
	require.Equal(t, 2, bins[0].Count())
}

func TestHistogram_RenderGuards(t *testing.T) {
	h := newTestHistogram(nil, 5)
	require.Nil(t, h.Render())

	clock := newTestClock()
	zero := NewHistogram(nopLogger{}, testConfig(clock),
		testView(), evenSamples(), 5)
	zero.view.Width = 0
	require.Nil(t, zero.Render())
}

func TestHistogram_RenderShowsBenchmarkLine(t *testing.T) {
	h := newTestHistogram(evenSamples(), 5)
	svg := h.Render().SVG()

	require.Contains(t, svg, "<rect")
	require.Contains(t, svg, "#222222")
}
