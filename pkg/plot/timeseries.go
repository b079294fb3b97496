package plot

import (
	"math"
	"time"

	"github.com/raykavin/hindsight/pkg/anim"
	"github.com/raykavin/hindsight/pkg/core"
	"github.com/raykavin/hindsight/pkg/logger"
	"github.com/raykavin/hindsight/pkg/scale"
)

// BrushState is the interaction phase of the comparison chart.
type BrushState int

const (
	BrushIdle BrushState = iota
	Brushing
	Zoomed
)

// minBrushWidth is the pixel width below which a selection counts as empty.
const minBrushWidth = 3.0

// markerFadeDuration controls how out-of-domain markers fade on zoom.
const markerFadeDuration = 300 * time.Millisecond

// ZoomState tracks the visible date domain against the full extent.
type ZoomState struct {
	Current  [2]time.Time
	Original [2]time.Time
}

// Zoomed reports whether the current domain differs from the original.
func (z ZoomState) Zoomed() bool {
	return !z.Current[0].Equal(z.Original[0]) || !z.Current[1].Equal(z.Original[1])
}

// Tooltip is the synchronized cursor readout. At most one exists.
type Tooltip struct {
	Date    time.Time
	Values  map[string]float64
	Markers []core.EventMarker
}

// TimeSeries renders two aligned series with brush zoom, event markers
// and a cursor tooltip.
type TimeSeries struct {
	log     logger.Logger
	cfg     core.RenderConfig
	first   core.Series
	second  core.Series
	markers []core.EventMarker
	view    core.ViewportGeometry

	zoom       ZoomState
	state      BrushState
	brushFrom  float64
	brushTo    float64
	revertAt   time.Time
	tooltip    *Tooltip
	markerFade *anim.Tween
}

// NewTimeSeries builds the comparison renderer. The shared time domain is
// the union of both series' ranges; the value scale is recomputed from
// visible points on every zoom.
func NewTimeSeries(log logger.Logger, cfg core.RenderConfig, first, second core.Series,
	markers []core.EventMarker, view core.ViewportGeometry) *TimeSeries {

	ts := &TimeSeries{
		log:     log,
		cfg:     cfg,
		first:   first,
		second:  second,
		markers: markers,
		view:    view,
	}

	if !first.Empty() && !second.Empty() {
		aStart, aEnd := first.DateRange()
		bStart, bEnd := second.DateRange()
		start, end := aStart, aEnd
		if bStart.Before(start) {
			start = bStart
		}
		if bEnd.After(end) {
			end = bEnd
		}

		ts.zoom = ZoomState{
			Current:  [2]time.Time{start, end},
			Original: [2]time.Time{start, end},
		}
	}

	return ts
}

// Zoom exposes the current zoom state.
func (t *TimeSeries) Zoom() ZoomState { return t.zoom }

// State exposes the brush phase.
func (t *TimeSeries) State() BrushState { return t.state }

// Rebuild replaces the viewport, discarding any in-flight brush or
// transition. The zoom state survives so the rebuild is idempotent.
func (t *TimeSeries) Rebuild(view core.ViewportGeometry) {
	t.view = view
	t.state = BrushIdle
	t.tooltip = nil
	t.markerFade = nil
	t.revertAt = time.Time{}
}

// XScale maps the current domain across the inner width.
func (t *TimeSeries) XScale() scale.Time {
	innerW, _ := t.view.Inner()
	return scale.NewTime(t.zoom.Current[0], t.zoom.Current[1],
		t.view.Margins.Left, t.view.Margins.Left+innerW)
}

// YScale maps the visible value extent across the inner height,
// inverted so larger values sit higher.
func (t *TimeSeries) YScale() scale.Linear {
	_, innerH := t.view.Inner()
	lo, hi := t.visibleExtent()
	return scale.NewLinear(lo, hi,
		t.view.Margins.Top+innerH, t.view.Margins.Top).Nice(6)
}

// visibleExtent is the min/max over only the points whose date falls in
// the current domain, including values interpolated at the domain edges.
func (t *TimeSeries) visibleExtent() (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)

	consider := func(v float64) {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	for _, s := range []core.Series{t.first, t.second} {
		if s.Empty() {
			continue
		}

		for _, p := range s.Points {
			if !p.Date.Before(t.zoom.Current[0]) && !p.Date.After(t.zoom.Current[1]) {
				consider(p.Normalized)
			}
		}

		// Lines crossing the domain edges contribute their boundary values.
		for _, edge := range t.zoom.Current {
			if v, ok := s.ValueAt(edge); ok {
				start, end := s.DateRange()
				if !edge.Before(start) && !edge.After(end) {
					consider(v)
				}
			}
		}
	}

	if math.IsInf(lo, 1) {
		return 0, 0
	}
	return lo, hi
}

// PointerDown starts a brush selection.
func (t *TimeSeries) PointerDown(x float64) {
	if t.first.Empty() || t.second.Empty() {
		return
	}

	t.state = Brushing
	t.brushFrom = x
	t.brushTo = x
	t.tooltip = nil
	t.revertAt = time.Time{}
}

// PointerMove extends an active brush, or moves the cursor tooltip.
func (t *TimeSeries) PointerMove(x float64) {
	if t.state == Brushing {
		t.brushTo = x
		return
	}
	t.tooltip = t.Locate(x)
}

// PointerUp ends a brush. A non-degenerate selection becomes the new
// domain; an empty one schedules a revert after the idle debounce.
func (t *TimeSeries) PointerUp(x float64) {
	if t.state != Brushing {
		return
	}
	t.brushTo = x

	now := t.cfg.Now()
	x0, x1 := math.Min(t.brushFrom, t.brushTo), math.Max(t.brushFrom, t.brushTo)

	if x1-x0 < minBrushWidth {
		t.state = BrushIdle
		t.revertAt = now.Add(t.cfg.BrushDebounce)
		return
	}

	xs := t.XScale()
	t.setDomain(xs.Invert(x0), xs.Invert(x1), now)
	t.state = Zoomed
}

// Tick applies any pending debounced revert. Call once per frame.
func (t *TimeSeries) Tick(now time.Time) {
	if t.revertAt.IsZero() || now.Before(t.revertAt) {
		return
	}

	t.revertAt = time.Time{}
	t.zoom.Current = t.zoom.Original
	t.markerFade = nil
}

// DoubleClick resets to the original domain and the global value extent.
// Resetting an already-reset chart changes nothing.
func (t *TimeSeries) DoubleClick() {
	t.zoom.Current = t.zoom.Original
	t.state = BrushIdle
	t.revertAt = time.Time{}
	t.markerFade = nil
}

func (t *TimeSeries) setDomain(from, to time.Time, now time.Time) {
	t.zoom.Current = [2]time.Time{from, to}
	t.markerFade = anim.NewTween(1, 0, now, t.cfg.Motion(markerFadeDuration))
}

// RestoreZoom reapplies a saved domain, e.g. after a destructive rebuild
// from session state. Invalid ranges fall back to the original domain.
func (t *TimeSeries) RestoreZoom(from, to time.Time) {
	if !to.After(from) {
		t.DoubleClick()
		return
	}

	t.zoom.Current = [2]time.Time{from, to}
	if t.zoom.Zoomed() {
		t.state = Zoomed
	}
}

// PointerOut hides the tooltip.
func (t *TimeSeries) PointerOut() {
	t.tooltip = nil
}

// Locate resolves the tooltip payload for a pixel position: the nearest
// sample by date on each series plus the nearest in-domain markers.
func (t *TimeSeries) Locate(x float64) *Tooltip {
	if t.first.Empty() || t.second.Empty() {
		return nil
	}

	date := t.XScale().Invert(x)
	nearest, ok := t.first.Nearest(date)
	if !ok {
		return nil
	}

	values := map[string]float64{}
	values[t.first.ID] = nearest.Normalized
	if p, ok := t.second.Nearest(nearest.Date); ok {
		values[t.second.ID] = p.Normalized
	}

	tooltip := &Tooltip{
		Date:    nearest.Date,
		Values:  values,
		Markers: t.nearestMarkers(nearest.Date, 2),
	}
	return tooltip
}

// nearestMarkers returns up to limit markers inside the current domain,
// closest to the date first.
func (t *TimeSeries) nearestMarkers(date time.Time, limit int) []core.EventMarker {
	type scored struct {
		marker   core.EventMarker
		distance time.Duration
	}

	var candidates []scored
	for _, m := range t.markers {
		if m.Date.Before(t.zoom.Current[0]) || m.Date.After(t.zoom.Current[1]) {
			continue
		}

		d := m.Date.Sub(date)
		if d < 0 {
			d = -d
		}
		candidates = append(candidates, scored{marker: m, distance: d})
	}

	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			if candidates[j].distance < candidates[i].distance {
				candidates[i], candidates[j] = candidates[j], candidates[i]
			}
		}
	}

	var out []core.EventMarker
	for i := 0; i < len(candidates) && i < limit; i++ {
		out = append(out, candidates[i].marker)
	}
	return out
}

// rangeIntersection is the overlap of both series' date ranges; markers
// outside it are never rendered.
func (t *TimeSeries) rangeIntersection() (time.Time, time.Time) {
	aStart, aEnd := t.first.DateRange()
	bStart, bEnd := t.second.DateRange()

	start, end := aStart, aEnd
	if bStart.After(start) {
		start = bStart
	}
	if bEnd.Before(end) {
		end = bEnd
	}
	return start, end
}

// Render produces the scene for the current state. Empty series or a
// zero viewport yield nil: the panel simply shows nothing yet.
func (t *TimeSeries) Render(now time.Time) *Scene {
	if t.first.Empty() || t.second.Empty() {
		t.log.Debug("timeseries: skipping draw, series not ready")
		return nil
	}
	if t.view.Zero() {
		t.log.Debug("timeseries: skipping draw, zero viewport")
		return nil
	}

	t.Tick(now)

	s := NewScene(t.view.Width, t.view.Height)
	xs := t.XScale()
	ys := t.YScale()
	innerW, innerH := t.view.Inner()

	clip := s.ClipRect("plot-area", t.view.Margins.Left, t.view.Margins.Top, innerW, innerH)

	drawTimeAxis(s, xs, t.view.Margins.Top+innerH, 8)
	drawValueAxis(s, ys, t.view.Margins.Left, 6)

	s.OpenGroup(map[string]string{"clip-path": clip})
	t.drawSeries(s, t.first, xs, ys, "#1f77b4")
	t.drawSeries(s, t.second, xs, ys, "#ff7f0e")
	t.drawMarkers(s, xs, ys, now)
	s.CloseGroup()

	if t.state == Brushing {
		x0, x1 := math.Min(t.brushFrom, t.brushTo), math.Max(t.brushFrom, t.brushTo)
		s.Rect(x0, t.view.Margins.Top, x1-x0, innerH, map[string]string{
			"fill":    "#777777",
			"opacity": "0.25",
		})
	}

	if t.tooltip != nil && t.state != Brushing {
		t.drawTooltip(s, xs, innerH)
	}

	return s
}

func (t *TimeSeries) drawSeries(s *Scene, series core.Series, xs scale.Time, ys scale.Linear, fallback string) {
	points := series.Points
	if t.cfg.MaxPoints > 0 && len(points) > t.cfg.MaxPoints {
		points = downsample(points, t.cfg.MaxPoints)
	}

	var pb PathBuilder
	for i, p := range points {
		x, y := xs.Map(p.Date), ys.Map(p.Normalized)
		if i == 0 {
			pb.MoveTo(x, y)
		} else {
			pb.LineTo(x, y)
		}
	}

	color := series.ColorToken
	if color == "" {
		color = fallback
	}

	s.Path(pb.String(), map[string]string{
		"fill":         "none",
		"stroke":       color,
		"stroke-width": "2",
	})
}

func (t *TimeSeries) drawMarkers(s *Scene, xs scale.Time, ys scale.Linear, now time.Time) {
	interStart, interEnd := t.rangeIntersection()

	for _, m := range t.markers {
		if m.Date.Before(interStart) || m.Date.After(interEnd) {
			continue
		}

		opacity := 1.0
		if m.Date.Before(t.zoom.Current[0]) || m.Date.After(t.zoom.Current[1]) {
			// Out-of-domain markers fade out instead of being removed,
			// so zooming back out is cheap.
			opacity = t.markerFade.At(now)
		}

		for _, series := range []core.Series{t.first, t.second} {
			if !m.Impacts(series.ID) {
				continue
			}
			point, ok := series.Nearest(m.Date)
			if !ok {
				continue
			}

			s.Circle(xs.Map(m.Date), ys.Map(point.Normalized), 5, map[string]string{
				"fill":    "#d62728",
				"opacity": fmtNum(opacity),
			})
		}
	}
}

func (t *TimeSeries) drawTooltip(s *Scene, xs scale.Time, innerH float64) {
	x := xs.Map(t.tooltip.Date)
	s.Line(x, t.view.Margins.Top, x, t.view.Margins.Top+innerH, map[string]string{
		"stroke":           "#555555",
		"stroke-dasharray": "4 2",
	})
	s.Text(x+6, t.view.Margins.Top+14, t.tooltip.Date.Format("2006-01-02"), map[string]string{
		"fill":      "#333333",
		"font-size": axisTextSize,
	})
}

func downsample(points []core.TimePoint, max int) []core.TimePoint {
	if max < 2 || len(points) <= max {
		return points
	}

	out := make([]core.TimePoint, 0, max)
	step := float64(len(points)-1) / float64(max-1)
	for i := 0; i < max; i++ {
		out = append(out, points[int(math.Round(float64(i)*step))])
	}
	return out
}
