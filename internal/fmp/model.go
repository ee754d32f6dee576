package fmp

import "time"

// Quote is the current market quote for a symbol.
type Quote struct {
	Symbol string
	Name   string
	Price  float64
}

// Profile is the company profile for a symbol.
type Profile struct {
	Symbol      string
	CompanyName string
}

// DividendEvent is one historical dividend payout. AdjDividend is the
// split-adjusted per-share amount and is the value summed into the
// trailing-12-month annual dividend.
type DividendEvent struct {
	Date        time.Time
	AdjDividend float64
	Dividend    float64
}

// quoteResponse mirrors the FMP /quote/{symbol} payload.
type quoteResponse []struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
}

// profileResponse mirrors the FMP /profile/{symbol} payload.
type profileResponse []struct {
	Symbol      string `json:"symbol"`
	CompanyName string `json:"companyName"`
}

// dividendHistoryResponse mirrors the FMP
// /historical-price-full/stock_dividend/{symbol} payload.
type dividendHistoryResponse struct {
	Symbol     string `json:"symbol"`
	Historical []struct {
		Date            string  `json:"date"`
		Label           string  `json:"label"`
		AdjDividend     float64 `json:"adjDividend"`
		Dividend        float64 `json:"dividend"`
		RecordDate      string  `json:"recordDate"`
		PaymentDate     string  `json:"paymentDate"`
		DeclarationDate string  `json:"declarationDate"`
	} `json:"historical"`
}
