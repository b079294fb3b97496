package plot

import (
	"time"

	"github.com/raykavin/hindsight/pkg/core"
	"github.com/raykavin/hindsight/pkg/logger"
)

// nopLogger keeps renderer tests quiet.
type nopLogger struct{}

func (nopLogger) WithField(string, any) logger.Logger     { return nopLogger{} }
func (nopLogger) WithFields(map[string]any) logger.Logger { return nopLogger{} }
func (nopLogger) WithError(error) logger.Logger           { return nopLogger{} }
func (nopLogger) Trace(...any)                            {}
func (nopLogger) Debug(...any)                            {}
func (nopLogger) Info(...any)                             {}
func (nopLogger) Warn(...any)                             {}
func (nopLogger) Error(...any)                            {}
func (nopLogger) Fatal(...any)                            {}
func (nopLogger) Tracef(string, ...any)                   {}
func (nopLogger) Debugf(string, ...any)                   {}
func (nopLogger) Infof(string, ...any)                    {}
func (nopLogger) Warnf(string, ...any)                    {}
func (nopLogger) Errorf(string, ...any)                   {}
func (nopLogger) Fatalf(string, ...any)                   {}
func (nopLogger) SetLevel(logger.Level)                   {}
func (nopLogger) GetLevel() logger.Level                  { return logger.Disabled }

// testClock is a mutable time source for deterministic animation tests.
type testClock struct {
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}

func testConfig(clock *testClock) core.RenderConfig {
	cfg, err := core.NewRenderConfig(false, core.WithClock(clock.Now))
	if err != nil {
		panic(err)
	}
	return cfg
}

func testView() core.ViewportGeometry {
	return core.ViewportGeometry{
		Width:   960,
		Height:  540,
		Margins: core.DefaultMargins(),
	}
}
