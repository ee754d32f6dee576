package service

import (
	"context"

	"github.com/nkoopman/dividend-tracker-backend/internal/cache"
	"github.com/nkoopman/dividend-tracker-backend/internal/fmp"
)

// ProfileService resolves tickers to display company names. It never fails
// its caller: any upstream problem (missing credential, transport failure,
// non-success status, empty payload) degrades to the ticker itself as a
// safe display name. A missing company name is cosmetic, not fatal to the
// aggregate snapshot.
type ProfileService struct {
	client fmp.Client
	cache  *cache.Cache[string]
}

// NewProfileService creates a ProfileService with the provided client and cache.
func NewProfileService(client fmp.Client, nameCache *cache.Cache[string]) *ProfileService {
	return &ProfileService{
		client: client,
		cache:  nameCache,
	}
}

// ResolveCompanyName returns the display name for a ticker, falling back to
// the ticker on any resolution failure. The result is cached either way, so
// a flaky upstream is not hammered once per holding per refresh.
func (s *ProfileService) ResolveCompanyName(ctx context.Context, ticker string) string {
	ticker = NormalizeTicker(ticker)

	if name, ok := s.cache.Get(ticker); ok {
		return name
	}

	name := ticker
	if profile, err := s.client.GetProfile(ctx, ticker); err == nil && profile.CompanyName != "" {
		name = profile.CompanyName
	}

	s.cache.Set(ticker, name)

	return name
}
