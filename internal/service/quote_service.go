package service

import (
	"context"
	"time"

	"github.com/nkoopman/dividend-tracker-backend/internal/cache"
	"github.com/nkoopman/dividend-tracker-backend/internal/fmp"
	"github.com/nkoopman/dividend-tracker-backend/internal/model"
)

// DefaultQuoteTTL is how long a fetched quote stays valid. Prices move
// constantly, so this cache is short-lived.
const DefaultQuoteTTL = 60 * time.Second

// QuoteService fetches current market quotes through the FMP client and
// caches them per normalized ticker. The cache is read-through: a miss
// triggers a fetch, a hit within the TTL skips the network round trip.
type QuoteService struct {
	client fmp.Client
	cache  *cache.Cache[model.Quote]
}

// NewQuoteService creates a QuoteService with the provided client and cache.
// The cache is injected so tests can control TTL and expiry.
func NewQuoteService(client fmp.Client, quoteCache *cache.Cache[model.Quote]) *QuoteService {
	return &QuoteService{
		client: client,
		cache:  quoteCache,
	}
}

// GetQuote returns the current price and best-effort company name for a
// ticker. Error contract:
//   - apperrors.ErrUpstreamUnavailable when the source errors or returns a
//     non-success status
//   - apperrors.ErrSymbolNotFound when the source responds successfully but
//     has no data for the ticker
func (s *QuoteService) GetQuote(ctx context.Context, ticker string) (model.Quote, error) {
	ticker = NormalizeTicker(ticker)

	if quote, ok := s.cache.Get(ticker); ok {
		return quote, nil
	}

	raw, err := s.client.GetQuote(ctx, ticker)
	if err != nil {
		return model.Quote{}, err
	}

	quote := model.Quote{
		Price: raw.Price,
		Name:  raw.Name,
	}
	s.cache.Set(ticker, quote)

	return quote, nil
}
