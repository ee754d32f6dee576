package service

import (
	"math"
	"strings"
)

// Aggregate combines a current price and trailing-12-month annual dividend
// with a share count into the holding-level metrics. Pure function, no I/O,
// no rounding; formatting to two decimals is an HTTP-boundary concern.
// The caller guarantees shares has been validated as positive.
func Aggregate(price, annualDividend float64, shares int) (totalValue, monthlyDividend float64) {
	totalValue = price * float64(shares)
	monthlyDividend = annualDividend * float64(shares) / 12
	return totalValue, monthlyDividend
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// NormalizeTicker case-folds a ticker symbol to its canonical uppercase
// form. Every inbound ticker passes through this before any cache lookup or
// upstream call, so "aapl" and "AAPL" share one cache entry and one holding.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}
