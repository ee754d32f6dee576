package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/nkoopman/dividend-tracker-backend/internal/api/response"
	"github.com/nkoopman/dividend-tracker-backend/internal/apperrors"
	"github.com/nkoopman/dividend-tracker-backend/internal/service"
)

// MarketHandler handles HTTP requests for the public market-data endpoints.
// These endpoints answer questions about arbitrary tickers without touching
// stored holdings, so they carry no owner scope.
type MarketHandler struct {
	quoteService    *service.QuoteService
	dividendService *service.DividendService
	profileService  *service.ProfileService
}

// NewMarketHandler creates a new MarketHandler with the provided service dependencies.
func NewMarketHandler(
	quoteService *service.QuoteService,
	dividendService *service.DividendService,
	profileService *service.ProfileService,
) *MarketHandler {
	return &MarketHandler{
		quoteService:    quoteService,
		dividendService: dividendService,
		profileService:  profileService,
	}
}

// StockTickerResponse is the payload of the quote lookup endpoint. The
// price is a display string formatted to two decimals.
type StockTickerResponse struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// DividendsResponse is the payload of the dividend profile endpoint.
// Monetary fields are display strings; the yield carries a percent sign.
type DividendsResponse struct {
	Symbol          string `json:"symbol"`
	AnnualDividend  string `json:"annual_dividend"`
	StockPrice      string `json:"stock_price"`
	DividendYield   string `json:"dividend_yield"`
	DividendsCount  int    `json:"dividends_count"`
	EvaluatedPeriod string `json:"evaluated_period"`
}

// DividendSummaryResponse is the payload of the position calculator
// endpoint: the full holding-level metrics for a hypothetical position,
// without storing anything.
type DividendSummaryResponse struct {
	Ticker          string  `json:"ticker"`
	Company         string  `json:"company"`
	Shares          int     `json:"shares"`
	CurrentPrice    float64 `json:"currentPrice"`
	DividendYield   float64 `json:"dividendYield"`
	TotalValue      float64 `json:"totalValue"`
	MonthlyDividend float64 `json:"monthlyDividend"`
}

// symbolParam extracts and normalizes the symbol query parameter.
func symbolParam(r *http.Request) (string, error) {
	symbol := service.NormalizeTicker(r.URL.Query().Get("symbol"))
	if symbol == "" {
		return "", apperrors.ErrInvalidSymbol
	}
	return symbol, nil
}

func respondMarketError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrSymbolNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrSymbolNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrUpstreamUnavailable):
		response.RespondError(w, http.StatusBadGateway, apperrors.ErrUpstreamUnavailable.Error(), err.Error())
	default:
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveQuote.Error(), err.Error())
	}
}

// StockTicker handles GET requests for a current stock quote.
//
// Endpoint: GET /api/stockTicker?symbol=AAPL
// Response: 200 OK with StockTickerResponse
// Error: 400 Bad Request if the symbol parameter is missing
// Error: 404 Not Found if the symbol is unknown to the data source
// Error: 502 Bad Gateway if the data source is unavailable
func (h *MarketHandler) StockTicker(w http.ResponseWriter, r *http.Request) {
	symbol, err := symbolParam(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidSymbol.Error(), "symbol query parameter is required")
		return
	}

	quote, err := h.quoteService.GetQuote(r.Context(), symbol)
	if err != nil {
		respondMarketError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, StockTickerResponse{
		Symbol: symbol,
		Price:  fmt.Sprintf("%.2f", quote.Price),
	})
}

// Dividends handles GET requests for a ticker's trailing-12-month dividend
// profile.
//
// Endpoint: GET /api/dividends?symbol=AAPL
// Response: 200 OK with DividendsResponse
// Error: 400 Bad Request if the symbol parameter is missing
// Error: 404 Not Found if the symbol is unknown to the data source
// Error: 502 Bad Gateway if the data source is unavailable
func (h *MarketHandler) Dividends(w http.ResponseWriter, r *http.Request) {
	symbol, err := symbolParam(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidSymbol.Error(), "symbol query parameter is required")
		return
	}

	profile, err := h.dividendService.GetDividendProfile(r.Context(), symbol)
	if err != nil {
		respondMarketError(w, err)
		return
	}

	quote, err := h.quoteService.GetQuote(r.Context(), symbol)
	if err != nil {
		respondMarketError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, DividendsResponse{
		Symbol:          symbol,
		AnnualDividend:  fmt.Sprintf("%.4f", profile.AnnualDividend),
		StockPrice:      fmt.Sprintf("%.2f", quote.Price),
		DividendYield:   fmt.Sprintf("%.2f%%", profile.YieldPercent),
		DividendsCount:  profile.EventCount,
		EvaluatedPeriod: "trailing 12 months",
	})
}

// DividendSummary handles GET requests for the full metrics of a
// hypothetical position in a ticker. Nothing is persisted.
//
// Endpoint: GET /api/dividendSummary?symbol=AAPL&shares=100
// Response: 200 OK with DividendSummaryResponse
// Error: 400 Bad Request if symbol is missing or shares is not a positive integer
// Error: 404 Not Found if the symbol is unknown to the data source
// Error: 502 Bad Gateway if the data source is unavailable
func (h *MarketHandler) DividendSummary(w http.ResponseWriter, r *http.Request) {
	symbol, err := symbolParam(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidSymbol.Error(), "symbol query parameter is required")
		return
	}

	shares, err := strconv.Atoi(r.URL.Query().Get("shares"))
	if err != nil || shares < 1 {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidShares.Error(), "shares query parameter must be a positive integer")
		return
	}

	quote, err := h.quoteService.GetQuote(r.Context(), symbol)
	if err != nil {
		respondMarketError(w, err)
		return
	}

	profile, err := h.dividendService.GetDividendProfile(r.Context(), symbol)
	if err != nil {
		respondMarketError(w, err)
		return
	}

	company := h.profileService.ResolveCompanyName(r.Context(), symbol)
	totalValue, monthlyDividend := service.Aggregate(quote.Price, profile.AnnualDividend, shares)

	response.RespondJSON(w, http.StatusOK, DividendSummaryResponse{
		Ticker:          symbol,
		Company:         company,
		Shares:          shares,
		CurrentPrice:    service.Round2(quote.Price),
		DividendYield:   service.Round2(profile.YieldPercent),
		TotalValue:      service.Round2(totalValue),
		MonthlyDividend: service.Round2(monthlyDividend),
	})
}
