package service

import (
	"context"
	"time"

	"github.com/nkoopman/dividend-tracker-backend/internal/cache"
	"github.com/nkoopman/dividend-tracker-backend/internal/fmp"
	"github.com/nkoopman/dividend-tracker-backend/internal/model"
)

// DefaultProfileTTL is how long dividend profiles and company names stay
// cached. Dividend history changes far less often than price, so these
// caches are long-lived relative to the quote cache.
const DefaultProfileTTL = time.Hour

// trailingWindow is the lookback over which per-event payouts are summed
// into the annual dividend.
const trailingWindow = 365 * 24 * time.Hour

// DividendService derives the trailing-12-month dividend profile of a
// ticker from its historical payout events. Current prices are obtained
// through the QuoteService so its cache is reused.
type DividendService struct {
	client       fmp.Client
	quoteService *QuoteService
	cache        *cache.Cache[model.DividendProfile]
	now          func() time.Time
}

// NewDividendService creates a DividendService with the provided
// dependencies. The cache and clock are injected so tests can control
// expiry and the trailing-window boundary.
func NewDividendService(
	client fmp.Client,
	quoteService *QuoteService,
	profileCache *cache.Cache[model.DividendProfile],
	now func() time.Time,
) *DividendService {
	if now == nil {
		now = time.Now
	}
	return &DividendService{
		client:       client,
		quoteService: quoteService,
		cache:        profileCache,
		now:          now,
	}
}

// GetDividendProfile computes the dividend profile for a ticker.
//
// The full historical event list is fetched, filtered to events dated
// strictly after now-365d, and the adjusted payout amounts of the surviving
// events are summed into the annual dividend. Zero historical events is a
// valid state (non-dividend-paying stock) and yields {0, 0}, never an
// error. The yield is the annual dividend relative to the current price,
// rounded to two decimals, or 0 when the price is not positive.
//
// Failures of the historical feed itself surface as
// apperrors.ErrUpstreamUnavailable; price-fetch failures propagate from the
// QuoteService unchanged.
func (s *DividendService) GetDividendProfile(ctx context.Context, ticker string) (model.DividendProfile, error) {
	ticker = NormalizeTicker(ticker)

	if profile, ok := s.cache.Get(ticker); ok {
		return profile, nil
	}

	events, err := s.client.GetDividendHistory(ctx, ticker)
	if err != nil {
		return model.DividendProfile{}, err
	}

	cutoff := s.now().Add(-trailingWindow)
	var annualDividend float64
	var eventCount int
	for _, event := range events {
		if event.Date.After(cutoff) {
			annualDividend += event.AdjDividend
			eventCount++
		}
	}

	profile := model.DividendProfile{
		AnnualDividend: annualDividend,
		EventCount:     eventCount,
	}

	quote, err := s.quoteService.GetQuote(ctx, ticker)
	if err != nil {
		return model.DividendProfile{}, err
	}
	if quote.Price > 0 {
		profile.YieldPercent = Round2(annualDividend / quote.Price * 100)
	}

	s.cache.Set(ticker, profile)

	return profile, nil
}
