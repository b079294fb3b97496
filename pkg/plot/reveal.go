package plot

import (
	"time"

	"github.com/raykavin/hindsight/pkg/anim"
	"github.com/raykavin/hindsight/pkg/core"
	"github.com/raykavin/hindsight/pkg/logger"
	"github.com/raykavin/hindsight/pkg/scale"
	"github.com/raykavin/hindsight/pkg/synthetic"
)

// Reveal draws one synthetic price path and exposes it progressively as
// the visitor scrolls. The path is generated once per mount; scroll only
// widens the clip mask, so no candle is ever redrawn.
type Reveal struct {
	log     logger.Logger
	cfg     core.RenderConfig
	view    core.ViewportGeometry
	path    []synthetic.Candle
	limiter *anim.Limiter

	progress float64
}

// NewReveal generates the background path from an explicit seed.
func NewReveal(log logger.Logger, cfg core.RenderConfig, view core.ViewportGeometry,
	seed int64, candles int) *Reveal {

	gen := synthetic.NewGenerator(seed, synthetic.DefaultConfig())

	return &Reveal{
		log:     log,
		cfg:     cfg,
		view:    view,
		path:    gen.Path(candles),
		limiter: anim.NewLimiter(cfg.FrameInterval),
	}
}

// SetScrollProgress updates the reveal fraction. Raw scroll events are
// coalesced to at most one handled update per frame; the return value
// reports whether this one was applied.
func (r *Reveal) SetScrollProgress(p float64, now time.Time) bool {
	if !r.limiter.Allow(now) {
		return false
	}

	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	r.progress = p
	return true
}

// Progress returns the current reveal fraction.
func (r *Reveal) Progress() float64 { return r.progress }

// Rebuild replaces the viewport. The generated path is kept: the series
// itself is mount-scoped, only its projection changes.
func (r *Reveal) Rebuild(view core.ViewportGeometry) {
	r.view = view
	r.limiter.Reset()
}

// Render produces the masked candle scene.
func (r *Reveal) Render() *Scene {
	if len(r.path) == 0 {
		r.log.Debug("reveal: skipping draw, no path")
		return nil
	}
	if r.view.Zero() {
		r.log.Debug("reveal: skipping draw, zero viewport")
		return nil
	}

	s := NewScene(r.view.Width, r.view.Height)
	innerW, innerH := r.view.Inner()

	lo, hi := r.path[0].Low, r.path[0].High
	for _, c := range r.path {
		if c.Low < lo {
			lo = c.Low
		}
		if c.High > hi {
			hi = c.High
		}
	}

	xs := scale.NewLinear(0, float64(len(r.path)), r.view.Margins.Left, r.view.Margins.Left+innerW)
	ys := scale.NewLinear(lo, hi, r.view.Margins.Top+innerH, r.view.Margins.Top)

	clip := s.ClipRect("reveal-mask",
		r.view.Margins.Left, r.view.Margins.Top, r.progress*innerW, innerH)

	s.OpenGroup(map[string]string{"clip-path": clip, "opacity": "0.35"})

	slot := innerW / float64(len(r.path))
	bodyW := slot * 0.6
	for i, c := range r.path {
		x := xs.Map(float64(i) + 0.5)

		color := "#1a9750"
		if c.Close < c.Open {
			color = "#d73027"
		}

		s.Line(x, ys.Map(c.High), x, ys.Map(c.Low), map[string]string{"stroke": color})

		top, bottom := c.Open, c.Close
		if bottom > top {
			top, bottom = bottom, top
		}
		s.Rect(x-bodyW/2, ys.Map(top), bodyW, ys.Map(bottom)-ys.Map(top), map[string]string{
			"fill": color,
		})
	}

	s.CloseGroup()
	return s
}
