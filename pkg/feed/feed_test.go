package feed

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const benchmarkJSON = `{
	"target_stock": {
		"name": "Acme Corp",
		"data": [
			{"date": "2020-01-02", "price": 300.35, "normalizedPrice": 100},
			{"date": "2020-01-03", "price": 297.43, "normalizedPrice": 99.03}
		],
		"metrics": {"totalReturn": 1.5, "annualizedReturn": 0.26, "volatility": 0.31, "years": 4}
	},
	"sp500": {
		"name": "S&P 500",
		"data": [
			{"date": "2020-01-02", "price": 3257.85, "normalizedPrice": 100},
			{"date": "2020-01-03", "price": 3234.85, "normalizedPrice": 99.29}
		],
		"metrics": {"totalReturn": 0.45, "annualizedReturn": 0.097, "volatility": 0.18, "years": 4}
	}
}`

const comparisonJSON = `{
	"stocks": {
		"ACME": {
			"name": "Acme Corp",
			"sector": "Technology",
			"industry": "Widgets",
			"data": [{"date": "2020-01-02", "price": 300.35}],
			"metrics": {"annualizedReturn": 0.26, "volatility": 0.31, "marketCap": 2.1e12}
		}
	},
	"sp500": {
		"name": "S&P 500",
		"data": [{"date": "2020-01-02", "price": 3257.85}],
		"metrics": {"annualizedReturn": 0.097}
	}
}`

func TestLoadBenchmarkPair(t *testing.T) {
	doc, err := LoadBenchmarkPair(strings.NewReader(benchmarkJSON))
	require.NoError(t, err)

	require.Equal(t, "Acme Corp", doc.TargetStock.Name)
	require.Len(t, doc.TargetStock.Data, 2)
	require.Equal(t, 300.35, *doc.TargetStock.Data[0].Price)
	require.Equal(t, 100.0, *doc.TargetStock.Data[0].NormalizedPrice)
	require.InDelta(t, 0.097, doc.SP500.Metrics.AnnualizedReturn, 1e-9)
}

func TestLoadComparison(t *testing.T) {
	doc, err := LoadComparison(strings.NewReader(comparisonJSON))
	require.NoError(t, err)

	require.Len(t, doc.Stocks, 1)
	require.Equal(t, "Technology", doc.Stocks["ACME"].Sector)
	require.Equal(t, 2.1e12, doc.Stocks["ACME"].Metrics.MarketCap)
}

func TestLoad_MalformedDocument(t *testing.T) {
	_, err := LoadComparison(strings.NewReader("{not json"))
	require.Error(t, err)

	_, err = LoadBenchmarkPair(nil)
	require.Error(t, err)
}

func TestFromFile_AbsentIsNotAnError(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.json")

	doc, err := ComparisonFromFile(missing)
	require.NoError(t, err)
	require.Nil(t, doc)

	pair, err := BenchmarkPairFromFile(missing)
	require.NoError(t, err)
	require.Nil(t, pair)

	long, err := HindsightFromFile(missing)
	require.NoError(t, err)
	require.Nil(t, long)
}
