package scale

import "time"

// TickFormat is the date granularity used for axis labels.
type TickFormat int

const (
	FormatYear TickFormat = iota
	FormatMonth
	FormatDay
)

// Layout returns the time layout string for the format.
func (f TickFormat) Layout() string {
	switch f {
	case FormatYear:
		return "2006"
	case FormatMonth:
		return "Jan 2006"
	default:
		return "Jan 02"
	}
}

// Granularity picks the tick format for a visible span. It is a pure
// function of the span length, not of absolute dates, so re-zooming the
// same width always formats the same way.
func Granularity(span time.Duration) TickFormat {
	const day = 24 * time.Hour

	switch {
	case span >= 2*365*day:
		return FormatYear
	case span >= 60*day:
		return FormatMonth
	default:
		return FormatDay
	}
}

// Time maps a date domain onto a pixel range through Unix milliseconds.
type Time struct {
	Domain [2]time.Time
	Range  [2]float64
}

// NewTime builds a time scale over the given domain and range.
func NewTime(start, end time.Time, rangeMin, rangeMax float64) Time {
	return Time{
		Domain: [2]time.Time{start, end},
		Range:  [2]float64{rangeMin, rangeMax},
	}
}

// linear returns the numeric backing scale with degenerate-domain padding.
func (t Time) linear() Linear {
	start, end := t.Domain[0], t.Domain[1]
	if !end.After(start) {
		// Identical endpoints: substitute a symmetric half-day pad.
		start = start.Add(-12 * time.Hour)
		end = end.Add(12 * time.Hour)
	}

	return Linear{
		Domain: [2]float64{float64(start.UnixMilli()), float64(end.UnixMilli())},
		Range:  t.Range,
	}
}

// Map converts a date to a pixel position.
func (t Time) Map(date time.Time) float64 {
	return t.linear().Map(float64(date.UnixMilli()))
}

// Invert converts a pixel position back to a date.
func (t Time) Invert(px float64) time.Time {
	return time.UnixMilli(int64(t.linear().Invert(px))).UTC()
}

// Span is the width of the domain.
func (t Time) Span() time.Duration {
	return t.Domain[1].Sub(t.Domain[0])
}

// Ticks returns calendar-aligned ticks matching the span's granularity.
func (t Time) Ticks(count int) []time.Time {
	if count <= 0 {
		return nil
	}

	start, end := t.Domain[0], t.Domain[1]
	if !end.After(start) {
		return []time.Time{start}
	}

	var ticks []time.Time
	switch Granularity(end.Sub(start)) {
	case FormatYear:
		step := intStep(end.Year()-start.Year(), count)
		for y := start.Year() + 1; y <= end.Year(); y += step {
			ticks = append(ticks, time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC))
		}
	case FormatMonth:
		months := int(end.Sub(start).Hours() / (24 * 30))
		step := intStep(months, count)
		cursor := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
		for !cursor.After(end) {
			ticks = append(ticks, cursor)
			cursor = cursor.AddDate(0, step, 0)
		}
	default:
		days := int(end.Sub(start).Hours() / 24)
		step := intStep(days, count)
		cursor := start.Truncate(24 * time.Hour).AddDate(0, 0, 1)
		for !cursor.After(end) {
			ticks = append(ticks, cursor)
			cursor = cursor.AddDate(0, 0, step)
		}
	}

	return ticks
}

func intStep(total, count int) int {
	if count <= 0 || total <= count {
		return 1
	}
	return (total + count - 1) / count
}
