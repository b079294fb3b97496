package core

// Margins are the inset reserved for axes and labels.
type Margins struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// ViewportGeometry is the measured pixel box a renderer draws into.
// It is recomputed on every container resize and a new value triggers a
// full destructive rebuild of every mounted renderer.
type ViewportGeometry struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Margins Margins `json:"margins"`
}

// DefaultMargins fit a bottom time axis and a left value axis.
func DefaultMargins() Margins {
	return Margins{Top: 20, Right: 30, Bottom: 40, Left: 60}
}

// Inner returns the drawable area inside the margins, floored at zero.
func (v ViewportGeometry) Inner() (width, height float64) {
	width = v.Width - v.Margins.Left - v.Margins.Right
	height = v.Height - v.Margins.Top - v.Margins.Bottom

	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return width, height
}

// Zero reports whether the viewport is unusable for drawing,
// e.g. when measured mid-layout.
func (v ViewportGeometry) Zero() bool {
	w, h := v.Inner()
	return w <= 0 || h <= 0
}
