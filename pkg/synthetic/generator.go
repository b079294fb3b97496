// Package synthetic generates the seeded price path behind the
// scroll-reveal background. The generator owns its random source so the
// same seed always reproduces the same path.
package synthetic

import (
	"math"
	"math/rand"
)

// Candle is one OHLC step of the synthetic path.
type Candle struct {
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// Config tunes the path model.
type Config struct {
	Baseline     float64 // price the mean-reversion term pulls toward
	Drift        float64 // small additive trend per step
	Volatility   float64 // scale of the common normal move
	Reversion    float64 // fraction of the gap to baseline recovered per step
	ShockProb    float64 // probability of a fat-tailed move
	ShockScale   float64 // multiplier applied to shock moves
	WickFraction float64 // high/low padding around the open/close hull
}

// DefaultConfig mirrors the page's decorative background tuning.
func DefaultConfig() Config {
	return Config{
		Baseline:     100,
		Drift:        0.04,
		Volatility:   1.2,
		Reversion:    0.02,
		ShockProb:    0.05,
		ShockScale:   5,
		WickFraction: 0.35,
	}
}

// Generator is a stateful seeded price-path source.
type Generator struct {
	cfg   Config
	rng   *rand.Rand
	price float64

	spare    float64
	hasSpare bool
}

// NewGenerator builds a generator from an explicit seed.
func NewGenerator(seed int64, cfg Config) *Generator {
	return &Generator{
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(seed)),
		price: cfg.Baseline,
	}
}

// Normal draws a standard normal variate via Box-Muller,
// caching the spare of each pair.
func (g *Generator) Normal() float64 {
	if g.hasSpare {
		g.hasSpare = false
		return g.spare
	}

	var u, v, s float64
	for {
		u = g.rng.Float64()*2 - 1
		v = g.rng.Float64()*2 - 1
		s = u*u + v*v
		if s > 0 && s < 1 {
			break
		}
	}

	factor := math.Sqrt(-2 * math.Log(s) / s)
	g.spare = v * factor
	g.hasSpare = true
	return u * factor
}

// Shock draws from the fat-tailed mixture: mostly the common normal,
// rarely a ShockScale-times larger move.
func (g *Generator) Shock() float64 {
	variate := g.Normal()
	if g.rng.Float64() < g.cfg.ShockProb {
		return variate * g.cfg.ShockScale
	}
	return variate
}

// Next advances the path by one candle.
func (g *Generator) Next() Candle {
	open := g.price

	move := g.cfg.Drift +
		g.cfg.Reversion*(g.cfg.Baseline-g.price) +
		g.cfg.Volatility*g.Shock()

	settle := open + move

	hull := math.Abs(move)
	wick := g.cfg.WickFraction * (hull + g.cfg.Volatility*math.Abs(g.Normal()))

	candle := Candle{
		Open:  open,
		Close: settle,
		High:  math.Max(open, settle) + wick,
		Low:   math.Min(open, settle) - wick,
	}

	g.price = settle
	return candle
}

// Path emits n candles from the current state.
func (g *Generator) Path(n int) []Candle {
	if n <= 0 {
		return nil
	}

	path := make([]Candle, n)
	for i := range path {
		path[i] = g.Next()
	}
	return path
}
