package plot

import (
	"fmt"
	"math"

	"github.com/StudioSol/set"
	"github.com/raykavin/hindsight/pkg/core"
	"github.com/raykavin/hindsight/pkg/logger"
	"github.com/raykavin/hindsight/pkg/metric"
	"github.com/raykavin/hindsight/pkg/scale"
)

// maxHoverMembers truncates the member list revealed on bin hover.
const maxHoverMembers = 12

// HistSample is one value in the distribution, tagged with its owner id.
type HistSample struct {
	ID    string
	Value float64
}

// Bin is one equal-width interval of the sample domain. Bins are
// contiguous and non-overlapping; boundary samples belong to the lower
// bin except in the final bin, which is closed on both ends.
type Bin struct {
	Lower   float64
	Upper   float64
	Members *set.LinkedHashSetString
}

// Mid is the bin midpoint used for deviation coloring.
func (b Bin) Mid() float64 {
	return (b.Lower + b.Upper) / 2
}

// Count returns the bin membership size.
func (b Bin) Count() int {
	if b.Members == nil {
		return 0
	}
	return b.Members.Length()
}

// HoverInfo is the payload revealed when a bin is hovered.
type HoverInfo struct {
	Lower     float64
	Upper     float64
	Count     int
	Deviation float64
	Members   []string
	Truncated bool
}

// Histogram bins a sample set around a benchmark and colors bins by
// signed deviation from it.
type Histogram struct {
	log       logger.Logger
	cfg       core.RenderConfig
	view      core.ViewportGeometry
	samples   []HistSample
	benchmark float64
	binWidth  float64
	reference *HistSample
	bins      []Bin
	colors    scale.Diverging
}

// NewHistogram partitions the samples into equal-width bins. The domain
// is the sample extent widened outward to the nearest bin-width multiple
// on each side.
func NewHistogram(log logger.Logger, cfg core.RenderConfig, view core.ViewportGeometry,
	samples []HistSample, benchmark float64) *Histogram {

	h := &Histogram{
		log:       log,
		cfg:       cfg,
		view:      view,
		samples:   samples,
		benchmark: benchmark,
		binWidth:  cfg.BinWidth,
	}
	if h.binWidth <= 0 {
		h.binWidth = 2
	}

	h.rebin()
	return h
}

// WithReference marks a designated sample with a second highlight line.
func (h *Histogram) WithReference(sample HistSample) *Histogram {
	h.reference = &sample
	return h
}

// Bins exposes the computed partition.
func (h *Histogram) Bins() []Bin {
	return h.bins
}

func (h *Histogram) rebin() {
	h.bins = nil
	if len(h.samples) == 0 {
		return
	}

	lo, hi := h.samples[0].Value, h.samples[0].Value
	for _, s := range h.samples {
		lo = math.Min(lo, s.Value)
		hi = math.Max(hi, s.Value)
	}

	w := h.binWidth
	lo = math.Floor(lo/w) * w
	hi = math.Ceil(hi/w) * w
	if hi == lo {
		hi = lo + w
	}

	count := int(math.Round((hi - lo) / w))
	h.bins = make([]Bin, count)
	for i := range h.bins {
		h.bins[i] = Bin{
			Lower:   lo + float64(i)*w,
			Upper:   lo + float64(i+1)*w,
			Members: set.NewLinkedHashSetString(),
		}
	}

	for _, s := range h.samples {
		h.bins[h.binIndex(s.Value, lo, w, count)].Members.Add(s.ID)
	}

	mids := make([]float64, len(h.bins))
	for i, b := range h.bins {
		mids[i] = b.Mid()
	}
	h.colors = scale.NewDiverging(metric.MaxAbsDeviation(mids, h.benchmark))
}

// binIndex assigns a value to its bin: boundary values go to the lower
// bin, and the final bin is closed on both ends.
func (h *Histogram) binIndex(v, lo, w float64, count int) int {
	idx := int(math.Floor((v - lo) / w))

	onEdge := v == lo+float64(idx)*w
	if onEdge && idx > 0 {
		idx--
	}

	if idx >= count {
		idx = count - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

// Hover returns the members and benchmark deviation for a bin.
func (h *Histogram) Hover(index int) (HoverInfo, error) {
	if index < 0 || index >= len(h.bins) {
		return HoverInfo{}, fmt.Errorf("bin %d out of range", index)
	}

	b := h.bins[index]
	info := HoverInfo{
		Lower:     b.Lower,
		Upper:     b.Upper,
		Count:     b.Count(),
		Deviation: b.Mid() - h.benchmark,
	}

	for id := range b.Members.Iter() {
		if len(info.Members) == maxHoverMembers {
			info.Truncated = true
			break
		}
		info.Members = append(info.Members, id)
	}

	return info, nil
}

// ColorFor maps a bin to the diverging ramp; a bin centered exactly on
// the benchmark gets the midpoint color.
func (h *Histogram) ColorFor(b Bin) string {
	return h.colors.At(b.Mid() - h.benchmark).Hex()
}

// Render produces the scene. No samples or a zero viewport render nothing.
func (h *Histogram) Render() *Scene {
	if len(h.bins) == 0 {
		h.log.Debug("histogram: skipping draw, no samples")
		return nil
	}
	if h.view.Zero() {
		h.log.Debug("histogram: skipping draw, zero viewport")
		return nil
	}

	s := NewScene(h.view.Width, h.view.Height)
	innerW, innerH := h.view.Inner()

	maxCount := 0
	for _, b := range h.bins {
		if b.Count() > maxCount {
			maxCount = b.Count()
		}
	}

	xs := scale.NewLinear(h.bins[0].Lower, h.bins[len(h.bins)-1].Upper,
		h.view.Margins.Left, h.view.Margins.Left+innerW)
	ys := scale.NewLinear(0, float64(maxCount),
		h.view.Margins.Top+innerH, h.view.Margins.Top).Nice(5)

	drawValueAxis(s, ys, h.view.Margins.Left, 5)

	for _, b := range h.bins {
		x0, x1 := xs.Map(b.Lower), xs.Map(b.Upper)
		y := ys.Map(float64(b.Count()))
		s.Rect(x0+1, y, x1-x0-2, h.view.Margins.Top+innerH-y, map[string]string{
			"fill":   h.ColorFor(b),
			"stroke": "#ffffff",
		})
	}

	// Benchmark line, plus the optional reference sample line.
	bx := xs.Map(h.benchmark)
	s.Line(bx, h.view.Margins.Top, bx, h.view.Margins.Top+innerH, map[string]string{
		"stroke":       "#222222",
		"stroke-width": "2",
	})

	if h.reference != nil {
		rx := xs.Map(h.reference.Value)
		s.Line(rx, h.view.Margins.Top, rx, h.view.Margins.Top+innerH, map[string]string{
			"stroke":           "#6a51a3",
			"stroke-dasharray": "5 3",
		})
	}

	return s
}
