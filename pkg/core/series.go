package core

import (
	"math"
	"time"

	"github.com/StudioSol/set"
	"golang.org/x/exp/slices"
)

// TimePoint is a single immutable sample of a price series.
type TimePoint struct {
	Date       time.Time `json:"date"`
	Raw        float64   `json:"raw"`
	Normalized float64   `json:"normalized"`
}

// Series is an ordered set of samples for one instrument.
// Points are strictly increasing by date with no duplicates.
type Series struct {
	ID         string      `json:"id"`
	Label      string      `json:"label"`
	ColorToken string      `json:"color_token"`
	Points     []TimePoint `json:"points"`
}

// NewSeries validates the point ordering invariant and returns the series.
func NewSeries(id, label, colorToken string, points []TimePoint) (Series, error) {
	for i := 1; i < len(points); i++ {
		if !points[i].Date.After(points[i-1].Date) {
			return Series{}, ErrInvalidSeries
		}
	}

	return Series{
		ID:         id,
		Label:      label,
		ColorToken: colorToken,
		Points:     points,
	}, nil
}

// BuildSeries sanitizes raw points into a valid series: samples with a
// zero date or a non-finite value are dropped, the rest are sorted by
// date and deduplicated keeping the first occurrence.
func BuildSeries(id, label, colorToken string, points []TimePoint) Series {
	clean := make([]TimePoint, 0, len(points))
	for _, p := range points {
		if p.Date.IsZero() || math.IsNaN(p.Raw) || math.IsInf(p.Raw, 0) {
			continue
		}
		clean = append(clean, p)
	}

	slices.SortStableFunc(clean, func(a, b TimePoint) int {
		return a.Date.Compare(b.Date)
	})

	deduped := clean[:0]
	for _, p := range clean {
		if len(deduped) > 0 && p.Date.Equal(deduped[len(deduped)-1].Date) {
			continue
		}
		deduped = append(deduped, p)
	}

	return Series{
		ID:         id,
		Label:      label,
		ColorToken: colorToken,
		Points:     deduped,
	}
}

// Empty reports whether the series carries no samples.
func (s Series) Empty() bool {
	return len(s.Points) == 0
}

// DateRange returns the first and last sample dates.
func (s Series) DateRange() (time.Time, time.Time) {
	if s.Empty() {
		return time.Time{}, time.Time{}
	}
	return s.Points[0].Date, s.Points[len(s.Points)-1].Date
}

// IndexAtOrAfter returns the index of the first point whose date is not
// before the given date, using binary search. Returns len(Points) when
// every point falls before it.
func (s Series) IndexAtOrAfter(date time.Time) int {
	lo, hi := 0, len(s.Points)
	for lo < hi {
		mid := (lo + hi) / 2
		if s.Points[mid].Date.Before(date) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// Nearest returns the sample closest in time to the given date.
// The boolean is false for an empty series.
func (s Series) Nearest(date time.Time) (TimePoint, bool) {
	if s.Empty() {
		return TimePoint{}, false
	}

	i := s.IndexAtOrAfter(date)
	if i == 0 {
		return s.Points[0], true
	}
	if i == len(s.Points) {
		return s.Points[len(s.Points)-1], true
	}

	before, after := s.Points[i-1], s.Points[i]
	if date.Sub(before.Date) <= after.Date.Sub(date) {
		return before, true
	}
	return after, true
}

// ValueAt linearly interpolates the normalized value at the given date.
// Dates outside the series range clamp to the boundary samples.
func (s Series) ValueAt(date time.Time) (float64, bool) {
	if s.Empty() {
		return 0, false
	}

	i := s.IndexAtOrAfter(date)
	if i == 0 {
		return s.Points[0].Normalized, true
	}
	if i == len(s.Points) {
		return s.Points[len(s.Points)-1].Normalized, true
	}

	before, after := s.Points[i-1], s.Points[i]
	if after.Date.Equal(before.Date) {
		return before.Normalized, true
	}

	frac := float64(date.Sub(before.Date)) / float64(after.Date.Sub(before.Date))
	return before.Normalized + frac*(after.Normalized-before.Normalized), true
}

// EventMarker is an annotation pinned to one or both series.
type EventMarker struct {
	Date        time.Time
	Label       string
	Description string
	Affected    *set.LinkedHashSetString
}

// NewEventMarker builds a marker affecting the given series ids.
func NewEventMarker(date time.Time, label, description string, seriesIDs ...string) EventMarker {
	affected := set.NewLinkedHashSetString()
	for _, id := range seriesIDs {
		affected.Add(id)
	}

	return EventMarker{
		Date:        date,
		Label:       label,
		Description: description,
		Affected:    affected,
	}
}

// Impacts reports whether the marker is attached to the given series.
func (m EventMarker) Impacts(seriesID string) bool {
	return m.Affected != nil && m.Affected.InArray(seriesID)
}
