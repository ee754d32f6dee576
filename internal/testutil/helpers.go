package testutil

import (
	"database/sql"
	"time"

	"github.com/nkoopman/dividend-tracker-backend/internal/cache"
	"github.com/nkoopman/dividend-tracker-backend/internal/fmp"
	"github.com/nkoopman/dividend-tracker-backend/internal/model"
	"github.com/nkoopman/dividend-tracker-backend/internal/repository"
	"github.com/nkoopman/dividend-tracker-backend/internal/service"
)

// NewTestQuoteService creates a QuoteService with a fresh default-TTL cache.
func NewTestQuoteService(client fmp.Client) *service.QuoteService {
	return service.NewQuoteService(client, cache.New[model.Quote](service.DefaultQuoteTTL))
}

// NewTestDividendService creates a DividendService with fresh caches and the
// given clock. A nil clock means wall-clock time.
func NewTestDividendService(client fmp.Client, now func() time.Time) *service.DividendService {
	return service.NewDividendService(
		client,
		NewTestQuoteService(client),
		cache.New[model.DividendProfile](service.DefaultProfileTTL),
		now,
	)
}

// NewTestProfileService creates a ProfileService with a fresh cache.
func NewTestProfileService(client fmp.Client) *service.ProfileService {
	return service.NewProfileService(client, cache.New[string](service.DefaultProfileTTL))
}

// NewTestHoldingService creates a fully wired HoldingService on top of the
// given database and mock client. The clock is shared across the dependent
// services so snapshot timestamps are deterministic.
func NewTestHoldingService(db *sql.DB, client fmp.Client, now func() time.Time) *service.HoldingService {
	quoteService := NewTestQuoteService(client)
	dividendService := service.NewDividendService(
		client,
		quoteService,
		cache.New[model.DividendProfile](service.DefaultProfileTTL),
		now,
	)
	return service.NewHoldingService(
		repository.NewHoldingRepository(db),
		quoteService,
		dividendService,
		NewTestProfileService(client),
		2,
		now,
	)
}
