// Package anim models time-sampled transitions. A tween is an
// interpolation plus the monotonic start time of the active transition;
// cancellation is overwriting or discarding the record.
package anim

import (
	"math"
	"time"
)

// Ease shapes the normalized progress of a tween.
type Ease func(t float64) float64

// Linear leaves progress unshaped.
func Linear(t float64) float64 { return t }

// CubicInOut accelerates in and decelerates out.
func CubicInOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// Tween interpolates a scalar between two states over a fixed duration.
// Angles tween as plain radians.
type Tween struct {
	From     float64
	To       float64
	Start    time.Time
	Duration time.Duration
	Ease     Ease
}

// NewTween starts a transition at the given time.
func NewTween(from, to float64, start time.Time, duration time.Duration) *Tween {
	return &Tween{
		From:     from,
		To:       to,
		Start:    start,
		Duration: duration,
		Ease:     CubicInOut,
	}
}

// Progress returns the eased progress in [0,1] at the given time.
func (t *Tween) Progress(now time.Time) float64 {
	if t == nil || t.Duration <= 0 {
		return 1
	}
	if !now.After(t.Start) {
		return 0
	}

	p := float64(now.Sub(t.Start)) / float64(t.Duration)
	if p >= 1 {
		return 1
	}

	ease := t.Ease
	if ease == nil {
		ease = CubicInOut
	}
	return ease(p)
}

// At samples the tweened value at the given time.
func (t *Tween) At(now time.Time) float64 {
	if t == nil {
		return 0
	}
	return t.From + t.Progress(now)*(t.To-t.From)
}

// Done reports whether the transition has finished.
func (t *Tween) Done(now time.Time) bool {
	return t == nil || !now.Before(t.Start.Add(t.Duration))
}
