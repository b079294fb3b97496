package core

import (
	"fmt"
	"strconv"
	"strings"
)

// PricePoint is one raw sample as it appears in the JSON documents.
// Prices are pointers because the pipeline serializes missing values as null.
type PricePoint struct {
	Date            string   `json:"date"`
	Price           *float64 `json:"price"`
	NormalizedPrice *float64 `json:"normalizedPrice"`
}

// StockMetrics is the precomputed summary block attached to an entry.
type StockMetrics struct {
	TotalReturn      float64 `json:"totalReturn"`
	AnnualizedReturn float64 `json:"annualizedReturn"`
	Volatility       float64 `json:"volatility"`
	Years            float64 `json:"years"`
	MarketCap        float64 `json:"marketCap"`
}

// StockEntry is the richest stock shape the documents carry. Simpler page
// variants (series only) are subsets and decode into the same type with
// zero-valued extras.
type StockEntry struct {
	Name     string       `json:"name"`
	Sector   string       `json:"sector"`
	Industry string       `json:"industry"`
	Data     []PricePoint `json:"data"`
	Metrics  StockMetrics `json:"metrics"`
}

// ComparisonDocument is the all-stocks comparison snapshot.
type ComparisonDocument struct {
	Stocks map[string]StockEntry `json:"stocks"`
	SP500  StockEntry            `json:"sp500"`
}

// BenchmarkPairDocument holds two pre-aligned series normalized to 100.
type BenchmarkPairDocument struct {
	TargetStock StockEntry `json:"target_stock"`
	SP500       StockEntry `json:"sp500"`
}

// HindsightDocument maps symbols to long entries for the train/test demo.
type HindsightDocument map[string]StockEntry

// ParseMarketCap converts human-formatted market caps ("2.5T", "900B",
// "55M", plain numbers) to a float. Unparseable strings yield an error.
func ParseMarketCap(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(s, "$"))
	if s == "" {
		return 0, fmt.Errorf("%w: empty market cap", ErrMalformedSample)
	}

	multiplier := 1.0
	switch s[len(s)-1] {
	case 'T', 't':
		multiplier = 1e12
		s = s[:len(s)-1]
	case 'B', 'b':
		multiplier = 1e9
		s = s[:len(s)-1]
	case 'M', 'm':
		multiplier = 1e6
		s = s[:len(s)-1]
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: market cap %q", ErrMalformedSample, s)
	}

	return value * multiplier, nil
}
