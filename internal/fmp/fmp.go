// Package fmp provides a client for the Financial Modeling Prep API, the
// external source for quotes, dividend history and company profiles.
package fmp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/nkoopman/dividend-tracker-backend/internal/apperrors"
)

// DefaultBaseURL is the production Financial Modeling Prep API endpoint.
const DefaultBaseURL = "https://financialmodelingprep.com/api/v3"

// Client is the interface consumed by the market-data services. It exists so
// tests can substitute a deterministic fake for the HTTP implementation.
type Client interface {
	// GetQuote fetches the current price and best-effort company name for a
	// symbol. Returns apperrors.ErrSymbolNotFound when the source responds
	// successfully but has no data for the symbol, and
	// apperrors.ErrUpstreamUnavailable on transport or status failures.
	GetQuote(ctx context.Context, symbol string) (Quote, error)

	// GetDividendHistory fetches the full historical dividend-event list for
	// a symbol. An empty slice is a valid result (non-dividend-paying stock),
	// not an error.
	GetDividendHistory(ctx context.Context, symbol string) ([]DividendEvent, error)

	// GetProfile fetches the company profile for a symbol.
	GetProfile(ctx context.Context, symbol string) (Profile, error)
}

// HTTPClient is the production Client implementation. All requests carry the
// configured API key and a bounded timeout.
type HTTPClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a new FMP client. The timeout applies per upstream
// call; a timeout is treated as any other upstream failure by the callers.
func NewHTTPClient(apiKey string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// WithBaseURL overrides the API base URL. Used by tests to point the client
// at a local httptest server.
func (c *HTTPClient) WithBaseURL(baseURL string) *HTTPClient {
	c.baseURL = baseURL
	return c
}

// GetQuote fetches the current quote for a symbol from the /quote endpoint.
func (c *HTTPClient) GetQuote(ctx context.Context, symbol string) (Quote, error) {
	var parsed quoteResponse
	if err := c.get(ctx, "/quote/"+url.PathEscape(symbol), &parsed); err != nil {
		return Quote{}, err
	}

	if len(parsed) == 0 {
		return Quote{}, fmt.Errorf("%w: no quote data for %s", apperrors.ErrSymbolNotFound, symbol)
	}

	return Quote{
		Symbol: parsed[0].Symbol,
		Name:   parsed[0].Name,
		Price:  parsed[0].Price,
	}, nil
}

// GetDividendHistory fetches all historical dividend events for a symbol from
// the /historical-price-full/stock_dividend endpoint. Events with unparseable
// dates are skipped.
func (c *HTTPClient) GetDividendHistory(ctx context.Context, symbol string) ([]DividendEvent, error) {
	var parsed dividendHistoryResponse
	if err := c.get(ctx, "/historical-price-full/stock_dividend/"+url.PathEscape(symbol), &parsed); err != nil {
		return nil, err
	}

	events := make([]DividendEvent, 0, len(parsed.Historical))
	for _, h := range parsed.Historical {
		date, err := time.Parse("2006-01-02", h.Date)
		if err != nil {
			continue
		}
		events = append(events, DividendEvent{
			Date:        date,
			AdjDividend: h.AdjDividend,
			Dividend:    h.Dividend,
		})
	}

	return events, nil
}

// GetProfile fetches the company profile for a symbol from the /profile
// endpoint. An empty result set yields ErrSymbolNotFound; the caller decides
// whether that matters (the profile resolver treats it as cosmetic).
func (c *HTTPClient) GetProfile(ctx context.Context, symbol string) (Profile, error) {
	var parsed profileResponse
	if err := c.get(ctx, "/profile/"+url.PathEscape(symbol), &parsed); err != nil {
		return Profile{}, err
	}

	if len(parsed) == 0 || parsed[0].CompanyName == "" {
		return Profile{}, fmt.Errorf("%w: no profile data for %s", apperrors.ErrSymbolNotFound, symbol)
	}

	return Profile{
		Symbol:      parsed[0].Symbol,
		CompanyName: parsed[0].CompanyName,
	}, nil
}

// get executes a GET request against the FMP API and decodes the JSON body
// into out. Transport errors, non-200 statuses and malformed payloads all map
// to ErrUpstreamUnavailable so callers can treat them uniformly.
func (c *HTTPClient) get(ctx context.Context, path string, out any) error {
	reqURL := fmt.Sprintf("%s%s?apikey=%s", c.baseURL, path, url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: fmp returned status %d", apperrors.ErrUpstreamUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to parse fmp response: %v", apperrors.ErrUpstreamUnavailable, err)
	}

	return nil
}
