package core

import (
	"time"

	str2duration "github.com/xhit/go-str2duration/v2"
)

// Default animation timings. Values are halved when reduced motion is on.
const (
	defaultFrameInterval      = 16 * time.Millisecond
	reducedFrameInterval      = 33 * time.Millisecond
	defaultBrushDebounce      = 350 * time.Millisecond
	defaultDrillDuration      = 750 * time.Millisecond
	defaultAllocationDuration = 1500 * time.Millisecond
	defaultMaxPoints          = 4000
	defaultBinWidth           = 2.0
)

// RenderConfig is the immutable device/behavior configuration handed to
// every renderer constructor. The reduced-motion flag is decided by an
// external capability heuristic; the engine only consumes it.
type RenderConfig struct {
	ReducedMotion      bool
	MaxPoints          int
	FrameInterval      time.Duration
	BrushDebounce      time.Duration
	DrillDuration      time.Duration
	AllocationDuration time.Duration
	BinWidth           float64

	// Clock is the time source for tweens and debounces.
	// Overridable for deterministic tests.
	Clock func() time.Time
}

// ConfigOption mutates a RenderConfig under construction.
type ConfigOption func(*RenderConfig) error

// WithBrushDebounce parses a human duration (e.g. "350ms", "1s").
func WithBrushDebounce(s string) ConfigOption {
	return func(c *RenderConfig) error {
		d, err := str2duration.ParseDuration(s)
		if err != nil {
			return err
		}
		c.BrushDebounce = d
		return nil
	}
}

// WithDrillDuration parses a human duration for the market-map drill tween.
func WithDrillDuration(s string) ConfigOption {
	return func(c *RenderConfig) error {
		d, err := str2duration.ParseDuration(s)
		if err != nil {
			return err
		}
		c.DrillDuration = d
		return nil
	}
}

// WithAllocationDuration parses a human duration for the pie re-tween.
func WithAllocationDuration(s string) ConfigOption {
	return func(c *RenderConfig) error {
		d, err := str2duration.ParseDuration(s)
		if err != nil {
			return err
		}
		c.AllocationDuration = d
		return nil
	}
}

// WithMaxPoints caps how many samples a renderer will draw.
func WithMaxPoints(n int) ConfigOption {
	return func(c *RenderConfig) error {
		c.MaxPoints = n
		return nil
	}
}

// WithBinWidth sets the histogram bin width in percentage points.
func WithBinWidth(w float64) ConfigOption {
	return func(c *RenderConfig) error {
		c.BinWidth = w
		return nil
	}
}

// WithClock overrides the time source.
func WithClock(clock func() time.Time) ConfigOption {
	return func(c *RenderConfig) error {
		c.Clock = clock
		return nil
	}
}

// NewRenderConfig builds the configuration once per page session.
func NewRenderConfig(reducedMotion bool, options ...ConfigOption) (RenderConfig, error) {
	cfg := RenderConfig{
		ReducedMotion:      reducedMotion,
		MaxPoints:          defaultMaxPoints,
		FrameInterval:      defaultFrameInterval,
		BrushDebounce:      defaultBrushDebounce,
		DrillDuration:      defaultDrillDuration,
		AllocationDuration: defaultAllocationDuration,
		BinWidth:           defaultBinWidth,
		Clock:              time.Now,
	}

	if reducedMotion {
		cfg.FrameInterval = reducedFrameInterval
	}

	for _, option := range options {
		if err := option(&cfg); err != nil {
			return RenderConfig{}, err
		}
	}

	return cfg, nil
}

// Motion scales a transition duration for the device capability flag.
func (c RenderConfig) Motion(d time.Duration) time.Duration {
	if c.ReducedMotion {
		return d / 2
	}
	return d
}

// Now returns the configured clock's current time.
func (c RenderConfig) Now() time.Time {
	if c.Clock == nil {
		return time.Now()
	}
	return c.Clock()
}
