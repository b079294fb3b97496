package anim

import "time"

// Limiter coalesces bursty input events (scroll, resize) to at most one
// handled event per interval. This is the engine's only backpressure.
type Limiter struct {
	Interval time.Duration
	last     time.Time
}

// NewLimiter builds a limiter for one event per interval.
func NewLimiter(interval time.Duration) *Limiter {
	return &Limiter{Interval: interval}
}

// Allow reports whether an event at the given time should be handled,
// and records it if so.
func (l *Limiter) Allow(now time.Time) bool {
	if l.Interval <= 0 {
		return true
	}

	if l.last.IsZero() || now.Sub(l.last) >= l.Interval {
		l.last = now
		return true
	}
	return false
}

// Reset forgets the last handled event.
func (l *Limiter) Reset() {
	l.last = time.Time{}
}
