package plot

import (
	"strings"
	"testing"
	"time"

	"github.com/raykavin/hindsight/pkg/core"
	"github.com/stretchr/testify/require"
)

// monthlySeries builds a monthly series spanning 2018 through 2023.
func monthlySeries(id string, values func(i int) float64) core.Series {
	var points []core.TimePoint
	date := time.Date(2018, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; date.Year() < 2024; i++ {
		points = append(points, core.TimePoint{
			Date:       date,
			Raw:        values(i),
			Normalized: values(i),
		})
		date = date.AddDate(0, 1, 0)
	}
	return core.BuildSeries(id, id, "", points)
}

func newTestTimeSeries(clock *testClock) *TimeSeries {
	first := monthlySeries("target", func(i int) float64 { return 100 + float64(i)*3 })
	second := monthlySeries("sp500", func(i int) float64 { return 100 + float64(i) })
	return NewTimeSeries(nopLogger{}, testConfig(clock), first, second, nil, testView())
}

func TestTimeSeries_BrushZoomsToSelection(t *testing.T) {
	clock := newTestClock()
	ts := newTestTimeSeries(clock)

	from := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)

	xs := ts.XScale()
	ts.PointerDown(xs.Map(from))
	ts.PointerMove(xs.Map(to))
	ts.PointerUp(xs.Map(to))

	require.Equal(t, Zoomed, ts.State())
	zoom := ts.Zoom()
	require.WithinDuration(t, from, zoom.Current[0], time.Minute)
	require.WithinDuration(t, to, zoom.Current[1], time.Minute)
	require.True(t, zoom.Zoomed())
}

func TestTimeSeries_ZoomRescalesValueAxis(t *testing.T) {
	clock := newTestClock()
	ts := newTestTimeSeries(clock)

	fullDomain := ts.YScale().Domain

	from := time.Date(2018, time.February, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2018, time.June, 1, 0, 0, 0, 0, time.UTC)
	xs := ts.XScale()
	ts.PointerDown(xs.Map(from))
	ts.PointerUp(xs.Map(to))

	zoomed := ts.YScale().Domain
	// Early in the ramp the visible maximum sits far below the global one.
	require.Less(t, zoomed[1], fullDomain[1])
}

func TestTimeSeries_EmptySelectionRevertsAfterDebounce(t *testing.T) {
	clock := newTestClock()
	ts := newTestTimeSeries(clock)

	// Zoom in first.
	xs := ts.XScale()
	ts.PointerDown(xs.Map(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)))
	ts.PointerUp(xs.Map(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.True(t, ts.Zoom().Zoomed())

	// A sub-threshold drag is an empty selection.
	ts.PointerDown(400)
	ts.PointerUp(401)
	require.Equal(t, BrushIdle, ts.State())

	// Before the debounce elapses nothing changes.
	ts.Tick(clock.Advance(349 * time.Millisecond))
	require.True(t, ts.Zoom().Zoomed())

	// At the deadline the full domain is restored.
	ts.Tick(clock.Advance(time.Millisecond))
	require.False(t, ts.Zoom().Zoomed())
}

func TestTimeSeries_BrushBeforeDebounceCancelsRevert(t *testing.T) {
	clock := newTestClock()
	ts := newTestTimeSeries(clock)

	xs := ts.XScale()
	ts.PointerDown(xs.Map(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)))
	ts.PointerUp(xs.Map(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)))

	ts.PointerDown(400)
	ts.PointerUp(401)

	// Starting a new brush before the deadline cancels the pending revert.
	ts.PointerDown(200)
	ts.PointerUp(500)
	ts.Tick(clock.Advance(time.Second))
	require.True(t, ts.Zoom().Zoomed())
}

func TestTimeSeries_DoubleClickResetIsIdempotent(t *testing.T) {
	clock := newTestClock()
	ts := newTestTimeSeries(clock)
	original := ts.Zoom().Original

	xs := ts.XScale()
	ts.PointerDown(xs.Map(time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)))
	ts.PointerUp(xs.Map(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.True(t, ts.Zoom().Zoomed())

	ts.DoubleClick()
	require.Equal(t, original, ts.Zoom().Current)

	// Resetting an already-reset chart changes nothing.
	ts.DoubleClick()
	require.Equal(t, original, ts.Zoom().Current)
	require.Equal(t, BrushIdle, ts.State())
}

func TestTimeSeries_RestoreZoom(t *testing.T) {
	clock := newTestClock()
	ts := newTestTimeSeries(clock)

	from := time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2021, time.March, 1, 0, 0, 0, 0, time.UTC)
	ts.RestoreZoom(from, to)

	require.Equal(t, Zoomed, ts.State())
	require.Equal(t, [2]time.Time{from, to}, ts.Zoom().Current)

	// An inverted range falls back to the full domain.
	ts.RestoreZoom(to, from)
	require.False(t, ts.Zoom().Zoomed())
}

func TestTimeSeries_Locate(t *testing.T) {
	clock := newTestClock()
	ts := newTestTimeSeries(clock)

	xs := ts.XScale()
	tooltip := ts.Locate(xs.Map(time.Date(2020, time.June, 3, 0, 0, 0, 0, time.UTC)))
	require.NotNil(t, tooltip)
	require.Equal(t, time.June, tooltip.Date.Month())
	require.Contains(t, tooltip.Values, "target")
	require.Contains(t, tooltip.Values, "sp500")
}

func TestTimeSeries_MarkersInTooltip(t *testing.T) {
	clock := newTestClock()
	marker := core.NewEventMarker(
		time.Date(2020, time.June, 1, 0, 0, 0, 0, time.UTC),
		"crash", "a bad month", "target")

	first := monthlySeries("target", func(i int) float64 { return 100 + float64(i) })
	second := monthlySeries("sp500", func(i int) float64 { return 100 + float64(i)/2 })
	ts := NewTimeSeries(nopLogger{}, testConfig(clock), first, second,
		[]core.EventMarker{marker}, testView())

	tooltip := ts.Locate(ts.XScale().Map(marker.Date))
	require.NotNil(t, tooltip)
	require.Len(t, tooltip.Markers, 1)
	require.Equal(t, "crash", tooltip.Markers[0].Label)
}

func TestTimeSeries_RenderGuards(t *testing.T) {
	clock := newTestClock()

	empty := NewTimeSeries(nopLogger{}, testConfig(clock),
		core.Series{}, core.Series{}, nil, testView())
	require.Nil(t, empty.Render(clock.Now()))

	ts := newTestTimeSeries(clock)
	ts.Rebuild(core.ViewportGeometry{})
	require.Nil(t, ts.Render(clock.Now()))
}

func TestTimeSeries_RenderContainsBothSeries(t *testing.T) {
	clock := newTestClock()
	ts := newTestTimeSeries(clock)

	svg := ts.Render(clock.Now()).SVG()
	require.True(t, strings.HasPrefix(svg, "<svg"))
	require.Contains(t, svg, "#1f77b4")
	require.Contains(t, svg, "#ff7f0e")
}

func TestTimeSeries_RebuildKeepsZoom(t *testing.T) {
	clock := newTestClock()
	ts := newTestTimeSeries(clock)

	from := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)
	ts.RestoreZoom(from, to)

	view := testView()
	view.Width = 1280
	ts.Rebuild(view)

	require.Equal(t, [2]time.Time{from, to}, ts.Zoom().Current)
}
