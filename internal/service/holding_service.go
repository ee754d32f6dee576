package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nkoopman/dividend-tracker-backend/internal/apperrors"
	"github.com/nkoopman/dividend-tracker-backend/internal/model"
	"github.com/nkoopman/dividend-tracker-backend/internal/repository"
)

// HoldingService orchestrates holding lifecycle operations: creation, share
// edits, deletion, and the refresh paths that re-derive each holding's
// financial snapshot from the external data sources.
//
// All operations are scoped by an owner ID extracted from a verified
// credential by the caller; the service never accepts an owner ID embedded
// in request payloads.
type HoldingService struct {
	holdingRepo     *repository.HoldingRepository
	quoteService    *QuoteService
	dividendService *DividendService
	profileService  *ProfileService
	maxConcurrent   int
	now             func() time.Time
}

// NewHoldingService creates a HoldingService with the provided dependencies.
// maxConcurrent bounds the fan-out of the system-wide refresh; values below
// one fall back to a sensible default. A nil clock means wall-clock time.
func NewHoldingService(
	holdingRepo *repository.HoldingRepository,
	quoteService *QuoteService,
	dividendService *DividendService,
	profileService *ProfileService,
	maxConcurrent int,
	now func() time.Time,
) *HoldingService {
	if maxConcurrent < 1 {
		maxConcurrent = 4
	}
	if now == nil {
		now = time.Now
	}
	return &HoldingService{
		holdingRepo:     holdingRepo,
		quoteService:    quoteService,
		dividendService: dividendService,
		profileService:  profileService,
		maxConcurrent:   maxConcurrent,
		now:             now,
	}
}

// GetHoldings retrieves all holdings for an owner, ordered by ticker.
func (s *HoldingService) GetHoldings(ownerID string) ([]model.Holding, error) {
	return s.holdingRepo.GetHoldingsByOwner(ownerID)
}

// GetHolding retrieves a single holding by ID, scoped to the owner.
func (s *HoldingService) GetHolding(ownerID, holdingID string) (model.Holding, error) {
	return s.holdingRepo.GetHoldingOnID(ownerID, holdingID)
}

// snapshot is the combined result of one ticker's upstream fetches.
type snapshot struct {
	quote   model.Quote
	profile model.DividendProfile
	name    string
}

// buildSnapshot runs the quote fetch, the dividend-history analysis and the
// company-name resolution concurrently for one ticker. Quote and dividend
// outcomes gate success; the name lookup cannot fail and falls back to the
// ticker, so it runs outside the error group.
func (s *HoldingService) buildSnapshot(ctx context.Context, ticker string) (snapshot, error) {
	var snap snapshot

	nameCh := make(chan string, 1)
	go func() {
		nameCh <- s.profileService.ResolveCompanyName(ctx, ticker)
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		quote, err := s.quoteService.GetQuote(gctx, ticker)
		if err != nil {
			return err
		}
		snap.quote = quote
		return nil
	})
	g.Go(func() error {
		profile, err := s.dividendService.GetDividendProfile(gctx, ticker)
		if err != nil {
			return err
		}
		snap.profile = profile
		return nil
	})

	if err := g.Wait(); err != nil {
		return snapshot{}, err
	}

	snap.name = <-nameCh
	return snap, nil
}

// CreateHolding creates a holding for the owner from a ticker and share
// count. The ticker is normalized to uppercase; a holding for the same
// owner and ticker may not already exist. The holding is inserted with a
// fully populated snapshot, so a quote or dividend failure fails the whole
// create.
func (s *HoldingService) CreateHolding(ctx context.Context, ownerID, ticker string, shares int) (model.Holding, error) {
	ticker = NormalizeTicker(ticker)

	exists, err := s.holdingRepo.TickerExists(ownerID, ticker)
	if err != nil {
		return model.Holding{}, err
	}
	if exists {
		return model.Holding{}, apperrors.ErrDuplicateHolding
	}

	snap, err := s.buildSnapshot(ctx, ticker)
	if err != nil {
		return model.Holding{}, err
	}

	totalValue, monthlyDividend := Aggregate(snap.quote.Price, snap.profile.AnnualDividend, shares)
	created := s.now().UTC()

	holding := model.Holding{
		ID:                   uuid.New().String(),
		OwnerID:              ownerID,
		Ticker:               ticker,
		CompanyName:          snap.name,
		Shares:               shares,
		CurrentPrice:         snap.quote.Price,
		DividendYieldPercent: snap.profile.YieldPercent,
		TotalValue:           totalValue,
		MonthlyDividend:      monthlyDividend,
		CreatedAt:            created,
		UpdatedAt:            created,
	}

	if err := s.holdingRepo.InsertHolding(ctx, &holding); err != nil {
		return model.Holding{}, err
	}

	return holding, nil
}

// UpdateHolding changes the share count of an existing holding and
// re-derives its snapshot from fresh upstream data. Like creation, it fails
// whole if the quote or dividend fetch fails; dividend and yield integrity
// is mandatory on this path.
func (s *HoldingService) UpdateHolding(ctx context.Context, ownerID, holdingID string, shares int) (model.Holding, error) {
	holding, err := s.holdingRepo.GetHoldingOnID(ownerID, holdingID)
	if err != nil {
		return model.Holding{}, err
	}

	holding.Shares = shares
	return s.refreshOne(ctx, holding)
}

// RefreshHolding re-derives one holding's snapshot with its current share
// count.
func (s *HoldingService) RefreshHolding(ctx context.Context, ownerID, holdingID string) (model.Holding, error) {
	holding, err := s.holdingRepo.GetHoldingOnID(ownerID, holdingID)
	if err != nil {
		return model.Holding{}, err
	}

	return s.refreshOne(ctx, holding)
}

// refreshOne rebuilds the snapshot for a holding and persists it. The
// result is not applied once the caller's context has been cancelled, even
// if the already-issued upstream calls completed.
func (s *HoldingService) refreshOne(ctx context.Context, holding model.Holding) (model.Holding, error) {
	snap, err := s.buildSnapshot(ctx, holding.Ticker)
	if err != nil {
		return model.Holding{}, err
	}

	if err := ctx.Err(); err != nil {
		return model.Holding{}, err
	}

	totalValue, monthlyDividend := Aggregate(snap.quote.Price, snap.profile.AnnualDividend, holding.Shares)

	holding.CurrentPrice = snap.quote.Price
	holding.DividendYieldPercent = snap.profile.YieldPercent
	holding.TotalValue = totalValue
	holding.MonthlyDividend = monthlyDividend
	holding.UpdatedAt = s.now().UTC()

	if err := s.holdingRepo.UpdateSnapshot(ctx, holding); err != nil {
		return model.Holding{}, err
	}

	return holding, nil
}

// RefreshAllHoldings refreshes every holding of an owner concurrently, one
// task per holding. Each task's failure is quarantined: a failed holding
// yields its prior, unmodified snapshot instead of aborting the batch, so a
// portfolio of N holdings degrades to N-1 fresh + 1 stale rather than
// all-or-nothing. The call itself fails only when enumerating the owner's
// holdings fails.
//
// No retries happen within a refresh cycle; a retained holding becomes
// eligible again on the next invocation. Order of results follows the
// stored ticker order, but refresh scheduling across holdings is
// unspecified.
func (s *HoldingService) RefreshAllHoldings(ctx context.Context, ownerID string) ([]model.RefreshResult, error) {
	holdings, err := s.holdingRepo.GetHoldingsByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToRefreshHoldings, err)
	}

	results := make([]model.RefreshResult, len(holdings))
	var wg sync.WaitGroup

	for i, holding := range holdings {
		wg.Add(1)
		go func(i int, holding model.Holding) {
			defer wg.Done()

			refreshed, err := s.refreshOne(ctx, holding)
			if err != nil {
				log.Printf("refresh: retaining stale snapshot for %s (%s): %v", holding.Ticker, holding.ID, err)
				results[i] = model.RefreshResult{Holding: holding, Err: err}
				return
			}
			results[i] = model.RefreshResult{Holding: refreshed, Refreshed: true}
		}(i, holding)
	}

	wg.Wait()
	return results, nil
}

// RefreshSystem refreshes every holding across all owners with a bounded
// fan-out. Used by the cron schedule and the internal refresh endpoint.
// Per-holding failures are quarantined exactly as in RefreshAllHoldings;
// the returned counts let the caller log the outcome.
func (s *HoldingService) RefreshSystem(ctx context.Context) (refreshed, retained int, err error) {
	holdings, err := s.holdingRepo.GetAllHoldings()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", apperrors.ErrFailedToRefreshHoldings, err)
	}

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(s.maxConcurrent)

	for _, holding := range holdings {
		holding := holding
		g.Go(func() error {
			_, err := s.refreshOne(ctx, holding)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("refresh: retaining stale snapshot for %s (%s): %v", holding.Ticker, holding.ID, err)
				retained++
			} else {
				refreshed++
			}
			return nil
		})
	}

	// Tasks contain their own failures, so Wait cannot return an error.
	_ = g.Wait()

	return refreshed, retained, nil
}

// DeleteHolding removes a holding, scoped to the owner.
func (s *HoldingService) DeleteHolding(ctx context.Context, ownerID, holdingID string) error {
	return s.holdingRepo.DeleteHolding(ctx, ownerID, holdingID)
}
