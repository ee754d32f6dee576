package model

import "time"

// Holding represents one owner's position in a dividend-paying stock.
// CurrentPrice, DividendYieldPercent, TotalValue and MonthlyDividend are
// snapshots taken at the last successful refresh, not live-computed on read.
type Holding struct {
	ID                   string
	OwnerID              string
	Ticker               string
	CompanyName          string
	Shares               int
	CurrentPrice         float64
	DividendYieldPercent float64
	TotalValue           float64
	MonthlyDividend      float64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Quote is the current market quote for a ticker.
type Quote struct {
	Price float64
	Name  string
}

// DividendProfile summarizes a ticker's trailing-12-month dividend payouts.
// AnnualDividend is the sum of adjusted per-event payouts within the last
// 365 days; YieldPercent is AnnualDividend relative to the current price,
// rounded to two decimals, or 0 when the price is unknown or non-positive.
type DividendProfile struct {
	AnnualDividend float64
	YieldPercent   float64
	EventCount     int
}

// RefreshResult is the per-holding outcome of a bulk refresh. A failed unit
// keeps its prior snapshot (Refreshed=false) and carries the error that
// caused it to be retained, so operators keep diagnosability.
type RefreshResult struct {
	Holding   Holding
	Refreshed bool
	Err       error
}
