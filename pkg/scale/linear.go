// Package scale maps numeric and temporal domains to pixel ranges.
// Mappings are pure and invertible; degenerate domains are padded
// symmetrically instead of dividing by zero.
package scale

import "math"

// Linear maps a numeric domain onto a pixel range.
type Linear struct {
	Domain [2]float64
	Range  [2]float64
}

// NewLinear builds a linear scale over the given domain and range.
func NewLinear(domainMin, domainMax, rangeMin, rangeMax float64) Linear {
	return Linear{
		Domain: [2]float64{domainMin, domainMax},
		Range:  [2]float64{rangeMin, rangeMax},
	}
}

// padded returns the effective domain, widening min==max symmetrically.
func (l Linear) padded() (float64, float64) {
	d0, d1 := l.Domain[0], l.Domain[1]
	if d0 != d1 {
		return d0, d1
	}

	pad := math.Max(math.Abs(d0), 1) * 0.05
	return d0 - pad, d1 + pad
}

// Map converts a domain value to a pixel position.
func (l Linear) Map(v float64) float64 {
	d0, d1 := l.padded()
	t := (v - d0) / (d1 - d0)
	return l.Range[0] + t*(l.Range[1]-l.Range[0])
}

// Invert converts a pixel position back to a domain value.
func (l Linear) Invert(px float64) float64 {
	d0, d1 := l.padded()
	r0, r1 := l.Range[0], l.Range[1]
	if r0 == r1 {
		return d0
	}

	t := (px - r0) / (r1 - r0)
	return d0 + t*(d1-d0)
}

// Nice widens the domain to round tick boundaries for the given tick count.
func (l Linear) Nice(count int) Linear {
	d0, d1 := l.padded()
	step := tickStep(d0, d1, count)
	if step <= 0 {
		return l
	}

	nice := l
	nice.Domain[0] = math.Floor(d0/step) * step
	nice.Domain[1] = math.Ceil(d1/step) * step
	return nice
}

// Ticks returns readable tick values inside the domain.
func (l Linear) Ticks(count int) []float64 {
	d0, d1 := l.padded()
	step := tickStep(d0, d1, count)
	if step <= 0 {
		return nil
	}

	start := math.Ceil(d0/step) * step
	var ticks []float64
	for v := start; v <= d1+step/1e6; v += step {
		// Snap away float drift so ticks print cleanly.
		ticks = append(ticks, math.Round(v/step)*step)
	}
	return ticks
}

// tickStep picks a 1/2/5 stepping that yields about count intervals.
func tickStep(d0, d1 float64, count int) float64 {
	if count <= 0 || d1 <= d0 {
		return 0
	}

	raw := (d1 - d0) / float64(count)
	power := math.Floor(math.Log10(raw))
	base := math.Pow(10, power)
	fraction := raw / base

	switch {
	case fraction >= 7:
		return 10 * base
	case fraction >= 3:
		return 5 * base
	case fraction >= 1.5:
		return 2 * base
	default:
		return base
	}
}
