package plot

import (
	"math"
	"time"

	"github.com/raykavin/hindsight/pkg/anim"
	"github.com/raykavin/hindsight/pkg/core"
	"github.com/raykavin/hindsight/pkg/logger"
	"github.com/raykavin/hindsight/pkg/scale"
	"github.com/samber/lo"
)

const fullTurn = 2 * math.Pi

// labelShareThreshold suppresses labels on slivers.
const labelShareThreshold = 0.04

// Holding is one allocation entry.
type Holding struct {
	ID        string
	Weight    float64
	ReturnPct float64
}

// Arc is one rendered wedge at a point in time.
type Arc struct {
	ID        string
	Start     float64
	End       float64
	Share     float64
	Color     string
	ShowLabel bool
}

// Allocation renders the animated proportional chart. Switching between
// input weights and post-outcome values re-tweens from the previous
// angles rather than cutting.
type Allocation struct {
	log        logger.Logger
	cfg        core.RenderConfig
	view       core.ViewportGeometry
	holdings   []Holding
	investment float64
	calculated bool
	palette    scale.Categorical

	prev     []float64
	target   []float64
	entrance *anim.Tween
}

// NewAllocation builds the chart from non-negative weights. Weights need
// not sum to anything in particular; arcs always cover a full turn.
func NewAllocation(log logger.Logger, cfg core.RenderConfig, view core.ViewportGeometry,
	holdings []Holding, investment float64) (*Allocation, error) {

	for _, h := range holdings {
		if h.Weight < 0 {
			return nil, core.ErrNegativeWeight
		}
	}

	a := &Allocation{
		log:        log,
		cfg:        cfg,
		view:       view,
		holdings:   holdings,
		investment: investment,
		palette:    scale.NewCategorical(),
	}

	a.prev = make([]float64, len(holdings))
	a.target = a.angles(false)
	a.entrance = anim.NewTween(0, 1, cfg.Now(), cfg.Motion(cfg.AllocationDuration))
	return a, nil
}

// Calculated reports which mode is displayed.
func (a *Allocation) Calculated() bool { return a.calculated }

// effectiveWeight applies the post-outcome multiplier in calculated mode.
func (a *Allocation) effectiveWeight(h Holding, calculated bool) float64 {
	if calculated {
		return h.Weight * (1 + h.ReturnPct)
	}
	return h.Weight
}

// angles returns the cumulative end angle per holding. The last entry is
// pinned to exactly one full turn for any non-empty weight list.
func (a *Allocation) angles(calculated bool) []float64 {
	if len(a.holdings) == 0 {
		return nil
	}

	total := lo.SumBy(a.holdings, func(h Holding) float64 {
		return a.effectiveWeight(h, calculated)
	})

	out := make([]float64, len(a.holdings))
	if total <= 0 {
		// Zero-weight degenerate case: equal wedges.
		for i := range out {
			out[i] = fullTurn * float64(i+1) / float64(len(out))
		}
		return out
	}

	cum := 0.0
	for i, h := range a.holdings {
		cum += a.effectiveWeight(h, calculated)
		out[i] = fullTurn * cum / total
	}
	out[len(out)-1] = fullTurn
	return out
}

// SetCalculated switches modes, re-tweening from the currently displayed
// angles. Setting the same mode twice is a no-op.
func (a *Allocation) SetCalculated(calculated bool) {
	if calculated == a.calculated {
		return
	}

	now := a.cfg.Now()
	a.prev = a.anglesAt(now)
	a.calculated = calculated
	a.target = a.angles(calculated)
	a.entrance = anim.NewTween(0, 1, now, a.cfg.Motion(a.cfg.AllocationDuration))
}

// anglesAt samples the displayed cumulative angles mid-transition.
func (a *Allocation) anglesAt(now time.Time) []float64 {
	p := a.entrance.Progress(now)
	out := make([]float64, len(a.target))
	for i := range out {
		out[i] = a.prev[i] + p*(a.target[i]-a.prev[i])
	}
	return out
}

// Arcs returns the wedges at the given time.
func (a *Allocation) Arcs(now time.Time) []Arc {
	angles := a.anglesAt(now)

	arcs := make([]Arc, len(a.holdings))
	start := 0.0
	for i, h := range a.holdings {
		end := angles[i]
		share := (end - start) / fullTurn

		arcs[i] = Arc{
			ID:        h.ID,
			Start:     start,
			End:       end,
			Share:     share,
			Color:     a.palette.ColorFor(h.ID),
			ShowLabel: share >= labelShareThreshold,
		}
		start = end
	}
	return arcs
}

// Total is the displayed portfolio value: the raw investment, or
// investment scaled by the weighted return in calculated mode.
func (a *Allocation) Total() float64 {
	if !a.calculated {
		return a.investment
	}

	weightSum := lo.SumBy(a.holdings, func(h Holding) float64 { return h.Weight })
	if weightSum == 0 {
		return a.investment
	}

	valueSum := lo.SumBy(a.holdings, func(h Holding) float64 {
		return h.Weight * (1 + h.ReturnPct)
	})
	return a.investment * valueSum / weightSum
}

// Render produces the scene. Empty holdings or a zero viewport render
// nothing.
func (a *Allocation) Render(now time.Time) *Scene {
	if len(a.holdings) == 0 {
		a.log.Debug("allocation: skipping draw, no holdings")
		return nil
	}
	if a.view.Zero() {
		a.log.Debug("allocation: skipping draw, zero viewport")
		return nil
	}

	s := NewScene(a.view.Width, a.view.Height)
	innerW, innerH := a.view.Inner()
	cx := a.view.Margins.Left + innerW/2
	cy := a.view.Margins.Top + innerH/2
	r := math.Min(innerW, innerH) / 2 * 0.9

	for _, arc := range a.Arcs(now) {
		a.drawArc(s, arc, cx, cy, r)
	}

	return s
}

// drawArc draws one wedge; a (near-)full wedge degenerates to a circle
// because an SVG arc with coincident endpoints collapses.
func (a *Allocation) drawArc(s *Scene, arc Arc, cx, cy, r float64) {
	span := arc.End - arc.Start
	if span <= 0 {
		return
	}

	if span >= fullTurn-1e-9 {
		s.Circle(cx, cy, r, map[string]string{"fill": arc.Color})
		a.drawLabel(s, arc, cx, cy, 0)
		return
	}

	// Angles measured from 12 o'clock, clockwise.
	x0 := cx + r*math.Sin(arc.Start)
	y0 := cy - r*math.Cos(arc.Start)
	x1 := cx + r*math.Sin(arc.End)
	y1 := cy - r*math.Cos(arc.End)

	var pb PathBuilder
	pb.MoveTo(cx, cy)
	pb.LineTo(x0, y0)
	pb.Arc(r, r, 0, span > math.Pi, true, x1, y1)
	pb.Close()

	s.Path(pb.String(), map[string]string{
		"fill":   arc.Color,
		"stroke": "#ffffff",
	})

	a.drawLabel(s, arc, cx, cy, r)
}

func (a *Allocation) drawLabel(s *Scene, arc Arc, cx, cy, r float64) {
	if !arc.ShowLabel {
		return
	}

	mid := (arc.Start + arc.End) / 2
	lr := r * 0.65
	s.Text(cx+lr*math.Sin(mid), cy-lr*math.Cos(mid), arc.ID, map[string]string{
		"font-size":   "12",
		"text-anchor": "middle",
		"fill":        "#1a1a1a",
	})
}
