package plot

import (
	"strconv"

	"github.com/raykavin/hindsight/pkg/scale"
)

const (
	axisColor    = "#999999"
	axisTextSize = "11"
	tickLength   = 6.0
)

// drawTimeAxis renders a bottom time axis. Tick label granularity follows
// the visible span, so zooming in shifts year labels to months to days.
func drawTimeAxis(s *Scene, sc scale.Time, y float64, count int) {
	format := scale.Granularity(sc.Span())

	s.Line(sc.Range[0], y, sc.Range[1], y, map[string]string{
		"stroke": axisColor,
	})

	for _, tick := range sc.Ticks(count) {
		x := sc.Map(tick)
		s.Line(x, y, x, y+tickLength, map[string]string{"stroke": axisColor})
		s.Text(x, y+tickLength+12, tick.Format(format.Layout()), map[string]string{
			"fill":        axisColor,
			"font-size":   axisTextSize,
			"text-anchor": "middle",
		})
	}
}

// drawValueAxis renders a left value axis.
func drawValueAxis(s *Scene, sc scale.Linear, x float64, count int) {
	s.Line(x, sc.Range[0], x, sc.Range[1], map[string]string{
		"stroke": axisColor,
	})

	for _, tick := range sc.Ticks(count) {
		y := sc.Map(tick)
		s.Line(x-tickLength, y, x, y, map[string]string{"stroke": axisColor})
		s.Text(x-tickLength-4, y+4, strconv.FormatFloat(tick, 'f', -1, 64), map[string]string{
			"fill":        axisColor,
			"font-size":   axisTextSize,
			"text-anchor": "end",
		})
	}
}
