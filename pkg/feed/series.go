package feed

import (
	"sort"
	"time"

	"github.com/raykavin/hindsight/pkg/core"
	"github.com/samber/lo"
)

const dateLayout = "2006-01-02"

// SeriesFromEntry converts a document entry into a renderer series.
// Samples whose date fails to parse or whose price is null are filtered
// out before they can reach scale or layout computation. When the entry
// lacks normalized prices the series is normalized to 100 at its first
// valid sample.
func SeriesFromEntry(id, colorToken string, entry core.StockEntry) core.Series {
	points := lo.FilterMap(entry.Data, func(p core.PricePoint, _ int) (core.TimePoint, bool) {
		date, err := time.Parse(dateLayout, p.Date)
		if err != nil || p.Price == nil {
			return core.TimePoint{}, false
		}

		point := core.TimePoint{Date: date, Raw: *p.Price}
		if p.NormalizedPrice != nil {
			point.Normalized = *p.NormalizedPrice
		}
		return point, true
	})

	series := core.BuildSeries(id, entry.Name, colorToken, points)

	if needsNormalization(entry.Data) {
		series.Points = Normalize100(series.Points)
	}

	return series
}

// needsNormalization reports whether no sample carried a normalized price.
func needsNormalization(data []core.PricePoint) bool {
	for _, p := range data {
		if p.NormalizedPrice != nil {
			return false
		}
	}
	return true
}

// Normalize100 rescales points so the first sample's normalized value is
// 100, enabling shape comparison across different absolute price levels.
func Normalize100(points []core.TimePoint) []core.TimePoint {
	if len(points) == 0 || points[0].Raw == 0 {
		return points
	}

	base := points[0].Raw
	out := make([]core.TimePoint, len(points))
	for i, p := range points {
		p.Normalized = p.Raw / base * 100
		out[i] = p
	}
	return out
}

// SortedSymbols returns the document's symbols in a stable order, so map
// iteration never leaks into layouts or tables.
func SortedSymbols(stocks map[string]core.StockEntry) []string {
	symbols := lo.Keys(stocks)
	sort.Strings(symbols)
	return symbols
}

// AnnualReturns extracts year-end over year-end returns (percent) from an
// entry, feeding the distribution histogram.
func AnnualReturns(entry core.StockEntry) []float64 {
	series := SeriesFromEntry("tmp", "", entry)
	if series.Empty() {
		return nil
	}

	lastOfYear := map[int]float64{}
	years := []int{}
	for _, p := range series.Points {
		y := p.Date.Year()
		if _, seen := lastOfYear[y]; !seen {
			years = append(years, y)
		}
		lastOfYear[y] = p.Raw
	}

	var returns []float64
	for i := 1; i < len(years); i++ {
		prev := lastOfYear[years[i-1]]
		if prev == 0 {
			continue
		}
		returns = append(returns, (lastOfYear[years[i]]/prev-1)*100)
	}
	return returns
}
