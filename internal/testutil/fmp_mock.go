package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nkoopman/dividend-tracker-backend/internal/apperrors"
	"github.com/nkoopman/dividend-tracker-backend/internal/fmp"
)

// MockFMPClient is a mock implementation of fmp.Client for testing.
// It returns predefined per-symbol data instead of making actual API calls.
// Safe for concurrent use; the refresh paths hit it from multiple
// goroutines.
type MockFMPClient struct {
	mu sync.Mutex

	// Per-symbol data returned by the query methods
	Quotes    map[string]fmp.Quote
	Dividends map[string][]fmp.DividendEvent
	Profiles  map[string]fmp.Profile

	// Per-symbol errors, returned instead of data when set
	QuoteErrs    map[string]error
	DividendErrs map[string]error
	ProfileErrs  map[string]error

	// Call counters per query method
	QuoteCalls    int
	DividendCalls int
	ProfileCalls  int
}

// NewMockFMPClient creates an empty mock client. Configure it with the
// With* builders; symbols without quote or profile data behave as unknown
// to the data source.
func NewMockFMPClient() *MockFMPClient {
	return &MockFMPClient{
		Quotes:       make(map[string]fmp.Quote),
		Dividends:    make(map[string][]fmp.DividendEvent),
		Profiles:     make(map[string]fmp.Profile),
		QuoteErrs:    make(map[string]error),
		DividendErrs: make(map[string]error),
		ProfileErrs:  make(map[string]error),
	}
}

// WithQuote configures the quote returned for a symbol.
func (m *MockFMPClient) WithQuote(symbol string, price float64, name string) *MockFMPClient {
	m.Quotes[symbol] = fmp.Quote{Symbol: symbol, Name: name, Price: price}
	return m
}

// WithDividends configures the dividend history returned for a symbol.
func (m *MockFMPClient) WithDividends(symbol string, events ...fmp.DividendEvent) *MockFMPClient {
	m.Dividends[symbol] = events
	return m
}

// WithProfile configures the company profile returned for a symbol.
func (m *MockFMPClient) WithProfile(symbol, companyName string) *MockFMPClient {
	m.Profiles[symbol] = fmp.Profile{Symbol: symbol, CompanyName: companyName}
	return m
}

// WithQuoteError makes quote lookups for a symbol fail with err.
func (m *MockFMPClient) WithQuoteError(symbol string, err error) *MockFMPClient {
	m.QuoteErrs[symbol] = err
	return m
}

// WithDividendError makes dividend history lookups for a symbol fail with err.
func (m *MockFMPClient) WithDividendError(symbol string, err error) *MockFMPClient {
	m.DividendErrs[symbol] = err
	return m
}

// WithProfileError makes profile lookups for a symbol fail with err.
func (m *MockFMPClient) WithProfileError(symbol string, err error) *MockFMPClient {
	m.ProfileErrs[symbol] = err
	return m
}

// Event builds a dividend event for test fixtures.
func Event(date time.Time, adjDividend float64) fmp.DividendEvent {
	return fmp.DividendEvent{Date: date, AdjDividend: adjDividend, Dividend: adjDividend}
}

// GetQuote mocks the quote lookup with the configured per-symbol data.
func (m *MockFMPClient) GetQuote(_ context.Context, symbol string) (fmp.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.QuoteCalls++
	if err := m.QuoteErrs[symbol]; err != nil {
		return fmp.Quote{}, err
	}
	quote, ok := m.Quotes[symbol]
	if !ok {
		return fmp.Quote{}, fmt.Errorf("%w: no quote data for %s", apperrors.ErrSymbolNotFound, symbol)
	}
	return quote, nil
}

// GetDividendHistory mocks the dividend history lookup. A symbol without
// configured events returns an empty history, which is a valid state.
func (m *MockFMPClient) GetDividendHistory(_ context.Context, symbol string) ([]fmp.DividendEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DividendCalls++
	if err := m.DividendErrs[symbol]; err != nil {
		return nil, err
	}
	return m.Dividends[symbol], nil
}

// GetProfile mocks the company profile lookup.
func (m *MockFMPClient) GetProfile(_ context.Context, symbol string) (fmp.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ProfileCalls++
	if err := m.ProfileErrs[symbol]; err != nil {
		return fmp.Profile{}, err
	}
	profile, ok := m.Profiles[symbol]
	if !ok {
		return fmp.Profile{}, fmt.Errorf("%w: no profile data for %s", apperrors.ErrSymbolNotFound, symbol)
	}
	return profile, nil
}

// Calls returns the per-method call counts.
func (m *MockFMPClient) Calls() (quotes, dividends, profiles int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.QuoteCalls, m.DividendCalls, m.ProfileCalls
}
