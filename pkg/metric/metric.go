// Package metric computes the summary statistics the charts and the
// inspect command share.
package metric

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// tradingDaysPerYear is the annualization base for daily returns.
const tradingDaysPerYear = 252

// Mean calculates the arithmetic mean of the values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// StdDev calculates the sample standard deviation of the values.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return stat.StdDev(values, nil)
}

// AnnualizedReturn converts a total return over a period in years to a
// compound annual rate. totalReturn is fractional (0.5 == +50%).
func AnnualizedReturn(totalReturn, years float64) float64 {
	if years <= 0 || totalReturn <= -1 {
		return 0
	}
	return math.Pow(1+totalReturn, 1/years) - 1
}

// Volatility annualizes the standard deviation of daily returns.
func Volatility(dailyReturns []float64) float64 {
	return StdDev(dailyReturns) * math.Sqrt(tradingDaysPerYear)
}

// Returns derives simple period-over-period returns from a price path.
func Returns(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}

	out := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			continue
		}
		out = append(out, prices[i]/prices[i-1]-1)
	}
	return out
}

// MaxAbsDeviation returns the largest |value-benchmark| over the values.
func MaxAbsDeviation(values []float64, benchmark float64) float64 {
	var max float64
	for _, v := range values {
		if d := math.Abs(v - benchmark); d > max {
			max = d
		}
	}
	return max
}
