package scale

import (
	"fmt"
	"hash/fnv"
	"math"
)

// RGB is a simple sRGB color.
type RGB struct {
	R, G, B uint8
}

// Hex returns the #rrggbb form.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func lerpColor(a, b RGB, t float64) RGB {
	clamp := func(v float64) uint8 {
		return uint8(math.Round(math.Max(0, math.Min(255, v))))
	}

	return RGB{
		R: clamp(float64(a.R) + t*(float64(b.R)-float64(a.R))),
		G: clamp(float64(a.G) + t*(float64(b.G)-float64(a.G))),
		B: clamp(float64(a.B) + t*(float64(b.B)-float64(a.B))),
	}
}

// Diverging maps a signed deviation onto a color ramp with a neutral
// midpoint. A deviation of exactly zero always yields Mid, whatever the
// extent, and deviations beyond the extent clamp to the endpoints.
type Diverging struct {
	Neg    RGB
	Mid    RGB
	Pos    RGB
	Extent float64
}

// NewDiverging builds the engine's red/white/green deviation ramp.
func NewDiverging(extent float64) Diverging {
	return Diverging{
		Neg:    RGB{R: 0xd7, G: 0x30, B: 0x27},
		Mid:    RGB{R: 0xf7, G: 0xf7, B: 0xf7},
		Pos:    RGB{R: 0x1a, G: 0x97, B: 0x50},
		Extent: extent,
	}
}

// At returns the color for a deviation from the benchmark.
func (d Diverging) At(deviation float64) RGB {
	if deviation == 0 || d.Extent <= 0 {
		return d.Mid
	}

	t := deviation / d.Extent
	if t > 1 {
		t = 1
	}
	if t < -1 {
		t = -1
	}

	if t < 0 {
		return lerpColor(d.Mid, d.Neg, -t)
	}
	return lerpColor(d.Mid, d.Pos, t)
}

// Categorical assigns stable colors from a fixed palette: the same id
// maps to the same color on every render, independent of item order.
type Categorical struct {
	palette []string
}

// NewCategorical returns the default ten-color palette.
func NewCategorical() Categorical {
	return Categorical{palette: []string{
		"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
		"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
	}}
}

// ColorFor hashes the id into a palette slot.
func (c Categorical) ColorFor(id string) string {
	if len(c.palette) == 0 {
		return "#000000"
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return c.palette[h.Sum32()%uint32(len(c.palette))]
}
